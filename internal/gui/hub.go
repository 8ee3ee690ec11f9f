package gui

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/voiceshell/gui-service/internal/bus"
	"github.com/voiceshell/gui-service/internal/logging"
	"github.com/voiceshell/gui-service/internal/monitoring"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// GUI clients connect from arbitrary local origins (QML shells,
		// browsers on the device).
		return true
	},
}

// Hub owns the set of connected display clients. It fans outgoing messages
// out to every client, decodes inbound client messages into core-bus
// messages and replays the current state to newly connected clients.
//
// The hub is handed to the namespace core as a plain interface; nothing in
// the core reaches into the client set directly.
type Hub struct {
	log     *logging.Logger
	bus     bus.Client
	metrics *monitoring.Metrics

	mu      sync.RWMutex
	clients map[string]*Client

	state StateProvider
}

// NewHub creates a hub publishing inbound client traffic on coreBus.
func NewHub(coreBus bus.Client, log *logging.Logger, metrics *monitoring.Metrics) *Hub {
	return &Hub{
		log:     log.Named("gui"),
		bus:     coreBus,
		metrics: metrics,
		clients: make(map[string]*Client),
	}
}

// SetStateProvider wires the source of the active-namespace snapshot used
// to synchronize new clients. Must be called before serving connections.
func (h *Hub) SetStateProvider(state StateProvider) {
	h.state = state
}

// HandleConnection upgrades an HTTP request to a websocket, synchronizes
// the new client and pumps its inbound messages until it disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(uuid.NewString(), conn)
	h.addClient(client)
	h.metrics.ConnectionOpened()
	h.log.Info("display client connected", zap.String("client_id", client.ID))

	h.synchronize(client)

	defer func() {
		h.removeClient(client)
		h.metrics.ConnectionClosed()
		client.close()
		h.log.Info("display client disconnected", zap.String("client_id", client.ID))
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.metrics.MessageReceived()

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.log.Warn("dropping unparseable client message",
				zap.String("client_id", client.ID), zap.Error(err))
			continue
		}
		h.handleInbound(client, msg)
	}
}

// Broadcast sends the message to every connected client. A failed send is
// logged and never interrupts delivery to the remaining clients.
func (h *Hub) Broadcast(msg interface{}) {
	for _, client := range h.snapshot() {
		if err := client.Send(msg); err != nil {
			h.metrics.SendError()
			h.log.Warn("failed to send to display client",
				zap.String("client_id", client.ID), zap.Error(err))
			continue
		}
		h.metrics.MessageSent()
	}
}

// SendTo sends the message to a single client by id. Unknown ids are
// silently ignored: the client disconnected between lookup and send.
func (h *Hub) SendTo(clientID string, msg interface{}) error {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := client.Send(msg); err != nil {
		h.metrics.SendError()
		return err
	}
	h.metrics.MessageSent()
	return nil
}

// ConnectedCount returns the number of connected display clients.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ConnectedFrameworks returns the distinct frameworks of the currently
// connected clients.
func (h *Hub) ConnectedFrameworks() []string {
	seen := make(map[string]bool)
	var frameworks []string
	for _, client := range h.snapshot() {
		fw := client.Framework()
		if fw == "" || seen[fw] {
			continue
		}
		seen[fw] = true
		frameworks = append(frameworks, fw)
	}
	return frameworks
}

// synchronize replays the active stack to one client: for each namespace a
// stack insert, its page list and one data set per key. The client's state
// converges to the server's without a protocol restart.
func (h *Hub) synchronize(client *Client) {
	if h.state == nil {
		return
	}
	for pos, ns := range h.state.ActiveState() {
		h.sendSync(client, SessionListInsert{
			Type:      TypeSessionListInsert,
			Namespace: SystemNamespace,
			Position:  pos,
			Data:      []NamespaceRef{{SkillID: ns.SkillID}},
		})
		if len(ns.Pages) > 0 {
			h.sendSync(client, GuiListInsert{
				Type:      TypeGuiListInsert,
				Namespace: ns.SkillID,
				Position:  0,
				Data:      ns.Pages,
			})
		}
		for key, value := range ns.Data {
			h.sendSync(client, SessionSet{
				Type:      TypeSessionSet,
				Namespace: ns.SkillID,
				Data:      map[string]interface{}{key: value},
			})
		}
	}
}

func (h *Hub) sendSync(client *Client, msg interface{}) {
	if err := client.Send(msg); err != nil {
		h.metrics.SendError()
		h.log.Warn("sync send failed",
			zap.String("client_id", client.ID), zap.Error(err))
		return
	}
	h.metrics.MessageSent()
}

// handleInbound maps a client wire message to its core-bus equivalent and
// publishes it. Unknown types are logged and ignored, the connection stays
// open.
func (h *Hub) handleInbound(client *Client, msg ClientMessage) {
	var out bus.Message

	switch msg.Type {
	case TypeEventTriggered:
		switch msg.EventName {
		case EventPageGainedFocus, EventUserInteraction:
			busType := "gui.page_gained_focus"
			if msg.EventName == EventUserInteraction {
				busType = "gui.page_interaction"
			}
			out = bus.New(busType, map[string]interface{}{
				"namespace":   msg.Namespace,
				"page_number": msg.Parameters["number"],
				"skill_id":    msg.Parameters["skillId"],
			})
		default:
			// A skill-defined event, routed to the owning namespace.
			out = bus.New(msg.Namespace+"."+msg.EventName, msg.Parameters)
		}
	case TypeSessionSet:
		// A value changed client-side, hand it back to the skill.
		out = bus.New(msg.Namespace+".set", msg.Data)
	case TypeGuiConnected:
		framework := msg.ResolveFramework()
		client.setFramework(framework)
		out = bus.New(TypeGuiConnected, map[string]interface{}{
			"gui_id":    msg.GuiID,
			"framework": framework,
		})
	default:
		h.log.Warn("unknown GUI protocol message type, ignoring",
			zap.String("type", msg.Type), zap.String("client_id", client.ID))
		return
	}

	if err := h.bus.Emit(out); err != nil {
		h.log.Error("failed to forward client message to core bus",
			zap.String("type", out.Type), zap.Error(err))
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client.ID)
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}
