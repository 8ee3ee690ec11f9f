package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voiceshell/gui-service/internal/logging"
)

func TestWatchReloadsGUISection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gui.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("gui:\n  idle_display_skill: first\n"), 0o644))

	rt := NewRuntime(GUIConfig{IdleDisplaySkill: "first"})
	stop := make(chan struct{})
	defer close(stop)
	go rt.Watch(path, logging.NewNop(), stop) //nolint:errcheck

	// Give the watcher a moment to arm before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path,
		[]byte("gui:\n  idle_display_skill: second\n"), 0o644))

	require.Eventually(t, func() bool {
		return rt.IdleDisplaySkill() == "second"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatchMissingFile(t *testing.T) {
	rt := NewRuntime(GUIConfig{})
	stop := make(chan struct{})
	close(stop)

	err := rt.Watch(filepath.Join(t.TempDir(), "absent.yaml"),
		logging.NewNop(), stop)
	require.Error(t, err)
}
