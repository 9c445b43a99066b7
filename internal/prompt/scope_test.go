package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFilterPrecedence(t *testing.T) {
	tasks := DataSourceConfig{Table: "tasks", TeamColumn: "team_id", UserColumn: "user_id"}
	notes := DataSourceConfig{Table: "notes", UserColumn: "user_id"}
	clients := DataSourceConfig{Table: "clients", TeamColumn: "team_id"}
	services := DataSourceConfig{Table: "services"}

	member := UserContext{UserID: 7, TeamID: 3}
	loner := UserContext{UserID: 7}
	anonymous := UserContext{}

	tests := []struct {
		name  string
		cfg   DataSourceConfig
		scope Scope
		uc    UserContext
		want  FilterDecision
	}{
		{"team scope filters by team", tasks, ScopeTeam, member, FilterDecision{Column: "team_id", Value: 3}},
		{"user scope filters by user", tasks, ScopeUser, member, FilterDecision{Column: "user_id", Value: 7}},
		{"team scope without team column falls back to user", notes, ScopeTeam, member, FilterDecision{Column: "user_id", Value: 7}},
		{"platform scope reads unfiltered", services, ScopeAll, anonymous, FilterDecision{}},
		{"platform scope ignores identity", tasks, ScopeAll, member, FilterDecision{}},
		{"team scope without a team skips", tasks, ScopeTeam, loner, FilterDecision{Skip: true}},
		{"user scope without a user skips", tasks, ScopeUser, anonymous, FilterDecision{Skip: true}},
		{"team fallback without a user skips", notes, ScopeTeam, anonymous, FilterDecision{Skip: true}},
		{"user scope without user column skips", clients, ScopeUser, member, FilterDecision{Skip: true}},
		{"team scope over unowned source skips", services, ScopeTeam, member, FilterDecision{Skip: true}},
		{"user scope over unowned source skips", services, ScopeUser, member, FilterDecision{Skip: true}},
		{"unknown scope skips", tasks, Scope("galaxy"), member, FilterDecision{Skip: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFilter(tt.cfg, tt.scope, tt.uc))
		})
	}
}

// A missing identity must narrow access to nothing, never widen it to an
// unfiltered read.
func TestResolveFilterNeverWidensOnMissingIdentity(t *testing.T) {
	anonymous := UserContext{}
	for _, name := range DataSourceNames() {
		cfg, ok := LookupDataSource(name)
		require.True(t, ok)
		for _, scope := range []Scope{ScopeTeam, ScopeUser} {
			decision := ResolveFilter(cfg, scope, anonymous)
			if !decision.Skip {
				t.Fatalf("source %q scope %q: anonymous caller got a query (filter %+v)", name, scope, decision)
			}
		}
	}
}

func TestScopeSentence(t *testing.T) {
	assert.Equal(t, "You have access to tasks records belonging to the user's team.", ScopeSentence("tasks", ScopeTeam))
	assert.Equal(t, "You have access to notes records belonging to the current user.", ScopeSentence("notes", ScopeUser))
	assert.Equal(t, "You have access to all services records on the platform.", ScopeSentence("services", ScopeAll))
	assert.Equal(t, "You have access to all tasks records on the platform.", ScopeSentence("tasks", Scope("bogus")))
}
