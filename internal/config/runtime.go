package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/voiceshell/gui-service/internal/logging"
	"go.uber.org/zap"
)

// Runtime is a concurrency-safe holder for the GUI section of the
// configuration. The idle display skill can change at runtime, either via
// the homescreen manager or by editing the config file, so consumers read
// through this holder instead of caching values at startup.
type Runtime struct {
	mu  sync.RWMutex
	gui GUIConfig
}

// NewRuntime wraps the GUI config section in a runtime holder.
func NewRuntime(gui GUIConfig) *Runtime {
	return &Runtime{gui: gui}
}

// GUI returns a copy of the current GUI configuration.
func (r *Runtime) GUI() GUIConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gui
}

// IdleDisplaySkill returns the currently configured idle/home skill id.
func (r *Runtime) IdleDisplaySkill() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gui.IdleDisplaySkill
}

// SetIdleDisplaySkill updates the configured idle/home skill id.
func (r *Runtime) SetIdleDisplaySkill(skillID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gui.IdleDisplaySkill = skillID
}

// update replaces the whole GUI section.
func (r *Runtime) update(gui GUIConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gui = gui
}

// Watch re-reads the config file whenever it changes and applies the GUI
// section to the runtime holder. It blocks until the watcher fails or
// stop is closed, so callers run it in a goroutine.
func (r *Runtime) Watch(path string, log *logging.Logger, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			r.update(cfg.GUI)
			log.Info("config reloaded",
				zap.String("path", path),
				zap.String("idle_display_skill", cfg.GUI.IdleDisplaySkill))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))
		case <-stop:
			return nil
		}
	}
}
