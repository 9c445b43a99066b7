package prompt

// Node kinds a chatbot flow can be built from. The set is closed; linked
// nodes referencing anything else are skipped during assembly.
const (
	NodeKindDataAccess  = "data_access"
	NodeKindSubAgent    = "sub_agent"
	NodeKindWebSearch   = "web_search"
	NodeKindAttachments = "attachments"
)

// Settings keys used by the node kinds.
const (
	SettingDataSource      = "data_source"
	SettingScope           = "scope"
	SettingExpertisePrompt = "expertise_prompt"
)

// NodeDefinition describes one registered node kind and its default settings.
type NodeDefinition struct {
	Name            string
	NodeType        string
	DefaultSettings map[string]string
}

var nodeRegistry = map[string]NodeDefinition{
	NodeKindDataAccess: {
		Name:     "Data Access",
		NodeType: NodeKindDataAccess,
		DefaultSettings: map[string]string{
			SettingDataSource: "tasks",
			SettingScope:      string(ScopeUser),
		},
	},
	NodeKindSubAgent: {
		Name:     "Sub Agent",
		NodeType: NodeKindSubAgent,
		DefaultSettings: map[string]string{
			SettingExpertisePrompt: "",
		},
	},
	NodeKindWebSearch: {
		Name:            "Web Search",
		NodeType:        NodeKindWebSearch,
		DefaultSettings: map[string]string{},
	},
	NodeKindAttachments: {
		Name:            "Attachments",
		NodeType:        NodeKindAttachments,
		DefaultSettings: map[string]string{},
	},
}

// GetNodeDefinition returns the registered definition for a node kind.
func GetNodeDefinition(key string) (NodeDefinition, bool) {
	def, ok := nodeRegistry[key]
	return def, ok
}

// NodeKinds returns all registered node kind keys (for the admin surface).
func NodeKinds() []string {
	keys := make([]string, 0, len(nodeRegistry))
	for k := range nodeRegistry {
		keys = append(keys, k)
	}
	return keys
}

// ResolveSettings overlays a per-link override on the registry defaults.
// Keys absent from the override keep their default value.
func ResolveSettings(def NodeDefinition, override map[string]string) map[string]string {
	resolved := make(map[string]string, len(def.DefaultSettings))
	for k, v := range def.DefaultSettings {
		resolved[k] = v
	}
	for k, v := range override {
		resolved[k] = v
	}
	return resolved
}
