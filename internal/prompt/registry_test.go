package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNodeDefinition(t *testing.T) {
	def, ok := GetNodeDefinition(NodeKindDataAccess)
	require.True(t, ok)
	assert.Equal(t, "Data Access", def.Name)
	assert.Equal(t, "tasks", def.DefaultSettings[SettingDataSource])
	assert.Equal(t, string(ScopeUser), def.DefaultSettings[SettingScope])

	_, ok = GetNodeDefinition("crystal_ball")
	assert.False(t, ok)
}

func TestResolveSettingsOverlay(t *testing.T) {
	def, _ := GetNodeDefinition(NodeKindDataAccess)

	resolved := ResolveSettings(def, map[string]string{SettingScope: string(ScopeTeam)})
	assert.Equal(t, "tasks", resolved[SettingDataSource], "unset keys keep their defaults")
	assert.Equal(t, string(ScopeTeam), resolved[SettingScope])

	resolved = ResolveSettings(def, nil)
	assert.Equal(t, def.DefaultSettings, resolved)

	// The overlay must not mutate the registry defaults.
	resolved[SettingDataSource] = "clients"
	again := ResolveSettings(def, nil)
	assert.Equal(t, "tasks", again[SettingDataSource])
}

func TestDataSourceCatalogue(t *testing.T) {
	for _, name := range DataSourceNames() {
		cfg, ok := LookupDataSource(name)
		require.True(t, ok)
		assert.NotEmpty(t, cfg.Table)
		assert.NotEmpty(t, cfg.Fields)
	}

	_, ok := LookupDataSource("secrets")
	assert.False(t, ok)
}
