package gui

// Display wire protocol. Every message is a single JSON object with a
// required "type" field. The type strings are fixed by the mycroft-gui
// transport protocol and shared by all client frameworks.

// SystemNamespace is the reserved namespace holding the active skill stack.
const SystemNamespace = "mycroft.system.active_skills"

// Outbound and inbound wire message types.
const (
	TypeSessionListInsert = "mycroft.session.list.insert"
	TypeSessionListMove   = "mycroft.session.list.move"
	TypeSessionListRemove = "mycroft.session.list.remove"
	TypeGuiListInsert     = "mycroft.gui.list.insert"
	TypeGuiListRemove     = "mycroft.gui.list.remove"
	TypeSessionSet        = "mycroft.session.set"
	TypeSessionDelete     = "mycroft.session.delete"
	TypeEventTriggered    = "mycroft.events.triggered"
	TypeGuiConnected      = "mycroft.gui.connected"
)

// Client-reported event names carried inside mycroft.events.triggered.
const (
	EventPageGainedFocus = "page_gained_focus"
	EventUserInteraction = "system.gui.user.interaction"
)

// NamespaceRef identifies a namespace in the active skill stack.
type NamespaceRef struct {
	SkillID string `json:"skill_id"`
}

// PageRef identifies one page entry in a namespace's page list.
type PageRef struct {
	URL string `json:"url"`
}

// SessionListInsert announces a namespace at a stack position.
type SessionListInsert struct {
	Type      string         `json:"type"`
	Namespace string         `json:"namespace"`
	Position  int            `json:"position"`
	Data      []NamespaceRef `json:"data"`
}

// SessionListMove moves a namespace within the stack.
type SessionListMove struct {
	Type        string `json:"type"`
	Namespace   string `json:"namespace"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	ItemsNumber int    `json:"items_number"`
}

// SessionListRemove removes a namespace from the stack.
type SessionListRemove struct {
	Type        string `json:"type"`
	Namespace   string `json:"namespace"`
	Position    int    `json:"position"`
	ItemsNumber int    `json:"items_number"`
}

// GuiListInsert inserts pages into a namespace's page list.
type GuiListInsert struct {
	Type      string    `json:"type"`
	Namespace string    `json:"namespace"`
	Position  int       `json:"position"`
	Data      []PageRef `json:"data"`
}

// GuiListRemove removes a page at a position from a namespace.
type GuiListRemove struct {
	Type        string `json:"type"`
	Namespace   string `json:"namespace"`
	Position    int    `json:"position"`
	ItemsNumber int    `json:"items_number"`
}

// SessionSet sets one or more data keys in a namespace.
type SessionSet struct {
	Type      string                 `json:"type"`
	Namespace string                 `json:"namespace"`
	Data      map[string]interface{} `json:"data"`
}

// SessionDelete deletes a data key from a namespace.
type SessionDelete struct {
	Type      string `json:"type"`
	Namespace string `json:"namespace"`
	Property  string `json:"property"`
}

// EventTriggered carries a named event with parameters to the clients.
type EventTriggered struct {
	Type      string      `json:"type"`
	Namespace string      `json:"namespace"`
	EventName string      `json:"event_name"`
	Data      interface{} `json:"data"`
}

// ClientMessage is the envelope for messages received from a display
// client. The protocol is flat: event fields sit next to the type.
type ClientMessage struct {
	Type       string                 `json:"type"`
	Namespace  string                 `json:"namespace"`
	EventName  string                 `json:"event_name"`
	Parameters map[string]interface{} `json:"parameters"`
	Data       map[string]interface{} `json:"data"`
	GuiID      string                 `json:"gui_id"`
	Framework  string                 `json:"framework"`
	QtVersion  interface{}            `json:"qt_version"`
}

// ResolveFramework picks the client framework from a connection
// announcement, honoring the legacy qt_version field.
func (m ClientMessage) ResolveFramework() string {
	if m.Framework != "" {
		return m.Framework
	}
	if v, ok := m.QtVersion.(float64); ok && int(v) == 6 {
		return "qt6"
	}
	return "qt5"
}

// NamespaceState is a snapshot of one active namespace used to synchronize
// a newly connected client.
type NamespaceState struct {
	SkillID string
	Pages   []PageRef
	Data    map[string]interface{}
}

// StateProvider exposes the current active-namespace stack, index 0 first.
type StateProvider interface {
	ActiveState() []NamespaceState
}
