package prompt

// DataSourceConfig maps a logical data source name to its table, the fields a
// chatbot may read, and the ownership columns used for scoping. A source with
// neither ownership column is only meaningfully readable under ScopeAll.
type DataSourceConfig struct {
	Table      string
	Fields     []string
	TeamColumn string // "" = no team ownership
	UserColumn string // "" = no user ownership
}

var dataSources = map[string]DataSourceConfig{
	"tasks": {
		Table:      "tasks",
		Fields:     []string{"id", "title", "status", "due_at", "created_at"},
		TeamColumn: "team_id",
		UserColumn: "user_id",
	},
	"playbooks": {
		Table:      "playbooks",
		Fields:     []string{"id", "title", "content", "created_at"},
		TeamColumn: "team_id",
		UserColumn: "user_id",
	},
	"clients": {
		Table:      "clients",
		Fields:     []string{"id", "name", "email", "phone", "notes", "created_at"},
		TeamColumn: "team_id",
	},
	"notes": {
		Table:      "notes",
		Fields:     []string{"id", "title", "body", "created_at"},
		UserColumn: "user_id",
	},
	// Shared reference catalogue, readable platform-wide only.
	"services": {
		Table:  "services",
		Fields: []string{"id", "name", "category", "description", "price_cents"},
	},
}

// LookupDataSource returns the catalogue entry for a logical source name.
func LookupDataSource(name string) (DataSourceConfig, bool) {
	cfg, ok := dataSources[name]
	return cfg, ok
}

// DataSourceNames returns all catalogued source names (for the admin surface).
func DataSourceNames() []string {
	names := make([]string, 0, len(dataSources))
	for name := range dataSources {
		names = append(names, name)
	}
	return names
}
