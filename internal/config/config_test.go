package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 18181, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Bus.Host)
	assert.Equal(t, 8181, cfg.Bus.Port)
	assert.Equal(t, "/core", cfg.Bus.Route)
	assert.Equal(t, "/gui", cfg.GUI.Route)
	assert.Equal(t, "qt5", cfg.GUI.DefaultFramework)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 18181, cfg.Server.Port)
	assert.Equal(t, "qt5", cfg.GUI.DefaultFramework)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GUI_PORT", "20000")
	t.Setenv("GUI_IDLE_SKILL", "home.skill")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 20000, cfg.Server.Port)
	assert.Equal(t, "home.skill", cfg.GUI.IdleDisplaySkill)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 19999
gui:
  idle_display_skill: home.skill
  default_framework: qt6
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 19999, cfg.Server.Port)
	assert.Equal(t, "home.skill", cfg.GUI.IdleDisplaySkill)
	assert.Equal(t, "qt6", cfg.GUI.DefaultFramework)

	// Sections the file does not mention keep their defaults.
	assert.Equal(t, 8181, cfg.Bus.Port)
	assert.Equal(t, "/gui", cfg.GUI.Route)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, 18181, cfg.Server.Port)
}

func TestRuntimeIdleDisplaySkill(t *testing.T) {
	rt := NewRuntime(GUIConfig{IdleDisplaySkill: "home.skill"})
	assert.Equal(t, "home.skill", rt.IdleDisplaySkill())

	rt.SetIdleDisplaySkill("other.skill")
	assert.Equal(t, "other.skill", rt.IdleDisplaySkill())
	assert.Equal(t, "other.skill", rt.GUI().IdleDisplaySkill)
}

func TestRuntimeUpdateReplacesSection(t *testing.T) {
	rt := NewRuntime(GUIConfig{DefaultFramework: "qt5"})
	rt.update(GUIConfig{DefaultFramework: "qt6", IdleDisplaySkill: "home.skill"})

	gui := rt.GUI()
	assert.Equal(t, "qt6", gui.DefaultFramework)
	assert.Equal(t, "home.skill", gui.IdleDisplaySkill)
}
