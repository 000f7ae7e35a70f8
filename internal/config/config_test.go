package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/abistudio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ethereum", cfg.DefaultEndpoint)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Contains(t, cfg.Endpoints, "base", "presets seed the endpoint table")
	assert.Contains(t, cfg.Explorers, "ethereum")
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.DefaultEndpoint = "base"
	cfg.ExplorerAPIKey = "K123"
	cfg.HistorySize = 25
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "base", reloaded.DefaultEndpoint)
	assert.Equal(t, "K123", reloaded.ExplorerAPIKey)
	assert.Equal(t, 25, reloaded.HistorySize)
}

func TestLoadMergesFileOverPresets(t *testing.T) {
	dir := t.TempDir()
	body := `{"default_endpoint":"devnet","endpoints":{"devnet":"http://localhost:9545"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9545", cfg.Endpoints["devnet"])
	assert.Contains(t, cfg.Endpoints, "ethereum", "presets survive a partial file")
}

func TestLoadClampsHistorySize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"history_size":0}`), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.HistorySize)
}

func TestLoadCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestSaveFilePermissions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

func TestAddEndpoint(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.AddEndpoint("devnet", "http://localhost:9545"))
	assert.Equal(t, "http://localhost:9545", cfg.Endpoints["devnet"])
}

func TestAddEndpointExactDuplicate(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.AddEndpoint("devnet", "http://localhost:9545"))
	err := cfg.AddEndpoint("devnet", "http://localhost:9545")
	assert.Error(t, err)
}

func TestAddEndpointUpdatesURL(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.AddEndpoint("devnet", "http://localhost:9545"))
	require.NoError(t, cfg.AddEndpoint("devnet", "http://localhost:9546"))
	assert.Equal(t, "http://localhost:9546", cfg.Endpoints["devnet"])
}

func TestRemoveEndpoint(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.AddEndpoint("devnet", "http://localhost:9545"))
	require.NoError(t, cfg.RemoveEndpoint("devnet"))
	assert.NotContains(t, cfg.Endpoints, "devnet")
}

func TestRemoveEndpointMissing(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	assert.Error(t, cfg.RemoveEndpoint("ghost"))
}

// ---------------------------------------------------------------------------
// ResolveEndpoint / ExplorerAPI
// ---------------------------------------------------------------------------

func TestResolveEndpointConfigured(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	require.NoError(t, cfg.AddEndpoint("devnet", "http://localhost:9545"))

	url, err := cfg.ResolveEndpoint("devnet")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9545", url)
}

func TestResolveEndpointPreset(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	delete(cfg.Endpoints, "base")

	url, err := cfg.ResolveEndpoint("base")
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

func TestResolveEndpointVerbatimURL(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	url, err := cfg.ResolveEndpoint("https://rpc.example.org")
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.example.org", url)
}

func TestResolveEndpointEmptyUsesDefault(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	url, err := cfg.ResolveEndpoint("")
	require.NoError(t, err)
	assert.Equal(t, cfg.Endpoints["ethereum"], url)
}

func TestResolveEndpointUnknown(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	_, err := cfg.ResolveEndpoint("narnia")
	assert.Error(t, err)
}

func TestExplorerAPIConfigured(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	cfg.Explorers["devnet"] = "http://localhost:4000/api"
	assert.Equal(t, "http://localhost:4000/api", cfg.ExplorerAPI("devnet"))
}

func TestExplorerAPIPresetFallback(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	delete(cfg.Explorers, "base")
	assert.NotEmpty(t, cfg.ExplorerAPI("base"))
}

func TestExplorerAPIUnknown(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	assert.Empty(t, cfg.ExplorerAPI("https://rpc.example.org"))
}
