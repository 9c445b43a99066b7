package prompt

import "fmt"

// Scope is the breadth of data a data_access node may read.
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeTeam Scope = "team_specific"
	ScopeUser Scope = "user_specific"
)

// UserContext is the caller's identity for one assembly request.
// Zero values mean "not present"; an anonymous caller is the zero UserContext.
type UserContext struct {
	UserID uint
	TeamID uint
}

// FilterDecision is the outcome of resolving a (source, scope, caller) triple.
// Skip means no query may be issued at all. A non-skip decision with an empty
// Column is an unfiltered platform-wide read.
type FilterDecision struct {
	Skip   bool
	Column string
	Value  uint
}

// ResolveFilter decides whether and how a query against cfg may be filtered
// for the caller. The precedence is fixed:
//
//  1. team scope with a team column and a team in context filters by team
//  2. user scope with a user column and a user in context filters by user
//  3. team scope over a source with no team column but a user column falls
//     back to filtering by the caller's user
//  4. platform scope reads unfiltered
//  5. anything else must not query
//
// Rule 5 is an authorization boundary: a missing identity never widens a
// team- or user-scoped read into a full-table read.
func ResolveFilter(cfg DataSourceConfig, scope Scope, uc UserContext) FilterDecision {
	switch {
	case scope == ScopeTeam && cfg.TeamColumn != "" && uc.TeamID != 0:
		return FilterDecision{Column: cfg.TeamColumn, Value: uc.TeamID}
	case scope == ScopeUser && cfg.UserColumn != "" && uc.UserID != 0:
		return FilterDecision{Column: cfg.UserColumn, Value: uc.UserID}
	case scope == ScopeTeam && cfg.TeamColumn == "" && cfg.UserColumn != "" && uc.UserID != 0:
		return FilterDecision{Column: cfg.UserColumn, Value: uc.UserID}
	case scope == ScopeAll:
		return FilterDecision{}
	default:
		return FilterDecision{Skip: true}
	}
}

// ScopeSentence renders the human-readable description of a data_access
// node for inclusion in the assembled prompt.
func ScopeSentence(sourceName string, scope Scope) string {
	switch scope {
	case ScopeTeam:
		return fmt.Sprintf("You have access to %s records belonging to the user's team.", sourceName)
	case ScopeUser:
		return fmt.Sprintf("You have access to %s records belonging to the current user.", sourceName)
	default:
		return fmt.Sprintf("You have access to all %s records on the platform.", sourceName)
	}
}
