package homescreen

import (
	"sync"

	"github.com/voiceshell/gui-service/internal/bus"
	"github.com/voiceshell/gui-service/internal/config"
	"github.com/voiceshell/gui-service/internal/logging"
	"go.uber.org/zap"
)

// Bus topics the homescreen manager participates in.
const (
	TopicAdd           = "homescreen.manager.add"
	TopicRemove        = "homescreen.manager.remove"
	TopicList          = "homescreen.manager.list"
	TopicListResponse  = "homescreen.manager.list.response"
	TopicGetActive     = "homescreen.manager.get_active"
	TopicSetActive     = "homescreen.manager.set_active"
	TopicDisableActive = "homescreen.manager.disable_active"
	TopicShowActive    = "homescreen.manager.show_active"
	TopicReloadList    = "homescreen.manager.reload.list"
	TopicActivate      = "homescreen.manager.activate.display"
)

// Entry is one advertised homescreen.
type Entry struct {
	ID   string
	Data map[string]interface{}
}

// Manager keeps the registry of homescreens advertised by skills and
// activates the configured idle one on request. Selection policy beyond
// "the configured id, if registered" lives with the skills themselves.
type Manager struct {
	log     *logging.Logger
	bus     bus.Client
	runtime *config.Runtime

	mu          sync.Mutex
	homescreens []Entry
}

// NewManager creates a homescreen manager. Call Start to register its bus
// handlers and request registrations.
func NewManager(coreBus bus.Client, runtime *config.Runtime, log *logging.Logger) *Manager {
	return &Manager{
		log:     log.Named("homescreen"),
		bus:     coreBus,
		runtime: runtime,
	}
}

// Start subscribes the handlers and asks loaded skills to re-register
// their homescreens.
func (m *Manager) Start() {
	m.bus.On(TopicAdd, m.handleAdd)
	m.bus.On(TopicRemove, m.handleRemove)
	m.bus.On(TopicList, m.handleList)
	m.bus.On(TopicGetActive, m.handleGetActive)
	m.bus.On(TopicSetActive, m.handleSetActive)
	m.bus.On(TopicDisableActive, m.handleDisableActive)
	m.bus.On(TopicShowActive, m.handleShowActive)

	m.log.Info("requesting homescreen registrations")
	if err := m.bus.Emit(bus.New(TopicReloadList, nil)); err != nil {
		m.log.Warn("failed to request homescreen registrations", zap.Error(err))
	}
}

func (m *Manager) handleAdd(msg bus.Message) {
	id, ok := msg.Data["id"].(string)
	if !ok || id == "" {
		m.log.Error("homescreen add request without id")
		return
	}

	m.mu.Lock()
	if m.indexOfLocked(id) >= 0 {
		m.log.Info("homescreen already registered", zap.String("id", id))
	} else {
		m.log.Info("registering homescreen", zap.String("id", id))
		m.homescreens = append(m.homescreens, Entry{ID: id, Data: msg.Data})
	}
	m.mu.Unlock()

	// Show it right away if it is the configured one.
	if m.runtime.IdleDisplaySkill() == id {
		m.activate(msg, id)
	}
}

func (m *Manager) handleRemove(msg bus.Message) {
	id, ok := msg.Data["id"].(string)
	if !ok || id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if index := m.indexOfLocked(id); index >= 0 {
		m.log.Info("removing homescreen", zap.String("id", id))
		m.homescreens = append(m.homescreens[:index], m.homescreens[index+1:]...)
	}
}

func (m *Manager) handleList(msg bus.Message) {
	m.mu.Lock()
	list := make([]map[string]interface{}, 0, len(m.homescreens))
	for _, entry := range m.homescreens {
		list = append(list, entry.Data)
	}
	m.mu.Unlock()

	reply := msg.Reply(TopicListResponse, map[string]interface{}{
		"homescreens": list,
	})
	if err := m.bus.Emit(reply); err != nil {
		m.log.Warn("failed to reply with homescreen list", zap.Error(err))
	}
}

func (m *Manager) handleGetActive(msg bus.Message) {
	var active interface{}
	if id := m.activeHomescreen(); id != "" {
		active = id
	}
	reply := msg.Reply(TopicGetActive+".response", map[string]interface{}{
		"homescreen": active,
	})
	if err := m.bus.Emit(reply); err != nil {
		m.log.Warn("failed to reply with active homescreen", zap.Error(err))
	}
}

func (m *Manager) handleSetActive(msg bus.Message) {
	id, ok := msg.Data["id"].(string)
	if !ok || id == "" {
		m.log.Error("homescreen set_active request without id")
		return
	}
	if m.runtime.IdleDisplaySkill() != id {
		m.log.Info("updating configured idle display skill", zap.String("id", id))
		m.runtime.SetIdleDisplaySkill(id)
	}
}

func (m *Manager) handleDisableActive(msg bus.Message) {
	if m.runtime.IdleDisplaySkill() != "" {
		m.log.Info("disabling idle display skill")
		m.runtime.SetIdleDisplaySkill("")
	}
}

func (m *Manager) handleShowActive(msg bus.Message) {
	id := m.activeHomescreen()
	if id == "" {
		m.log.Info("no active homescreen to display")
		return
	}
	m.activate(msg, id)
}

// activeHomescreen returns the configured idle skill if it is registered.
func (m *Manager) activeHomescreen() string {
	configured := m.runtime.IdleDisplaySkill()
	if configured == "" {
		m.log.Info("no homescreen configured")
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOfLocked(configured) < 0 {
		m.log.Error("configured homescreen not registered",
			zap.String("id", configured))
		return ""
	}
	return configured
}

func (m *Manager) activate(msg bus.Message, id string) {
	m.log.Info("displaying homescreen", zap.String("id", id))
	if err := m.bus.Emit(msg.Forward(TopicActivate, map[string]interface{}{
		"homescreen_id": id,
	})); err != nil {
		m.log.Warn("failed to activate homescreen", zap.Error(err))
	}
}

func (m *Manager) indexOfLocked(id string) int {
	for i, entry := range m.homescreens {
		if entry.ID == id {
			return i
		}
	}
	return -1
}
