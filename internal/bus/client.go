package bus

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/voiceshell/gui-service/internal/logging"
	"go.uber.org/zap"
)

// Handler consumes a single bus message.
type Handler func(Message)

// Client is the surface the rest of the service uses to talk to the core
// messagebus: publish, subscribe by message type and shut down.
type Client interface {
	Emit(Message) error
	On(msgType string, handler Handler)
	Close() error
}

// WebsocketClient is a Client backed by a websocket connection to the core
// messagebus. All published messages loop back through the bus, so
// subscriptions fire for our own emissions too, exactly like any other bus
// participant.
type WebsocketClient struct {
	log  *logging.Logger
	conn *websocket.Conn

	mu       sync.RWMutex
	handlers map[string][]Handler

	sendCh chan Message
	done   chan struct{}
	once   sync.Once
}

// Connect dials the core messagebus and starts the read and write pumps.
func Connect(host string, port int, route string, log *logging.Logger) (*WebsocketClient, error) {
	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", host, port), Path: route}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to messagebus at %s: %w", u.String(), err)
	}

	c := &WebsocketClient{
		log:      log,
		conn:     conn,
		handlers: make(map[string][]Handler),
		sendCh:   make(chan Message, 64),
		done:     make(chan struct{}),
	}
	go c.readPump()
	go c.writePump()
	log.Info("connected to core messagebus", zap.String("url", u.String()))
	return c, nil
}

// Emit publishes a message on the bus.
func (c *WebsocketClient) Emit(msg Message) error {
	select {
	case <-c.done:
		return fmt.Errorf("messagebus client closed")
	default:
	}
	select {
	case c.sendCh <- msg:
		return nil
	case <-c.done:
		return fmt.Errorf("messagebus client closed")
	}
}

// On registers a handler for the given message type. Handlers run on the
// read pump goroutine in registration order.
func (c *WebsocketClient) On(msgType string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[msgType] = append(c.handlers[msgType], handler)
}

// Close tears down the connection. Safe to call more than once.
func (c *WebsocketClient) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *WebsocketClient) readPump() {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Error("messagebus read failed", zap.Error(err))
				c.Close()
			}
			return
		}
		msg, err := Deserialize(raw)
		if err != nil {
			c.log.Warn("dropping malformed bus message", zap.Error(err))
			continue
		}
		c.dispatch(msg)
	}
}

func (c *WebsocketClient) writePump() {
	for {
		select {
		case msg := <-c.sendCh:
			raw, err := msg.Serialize()
			if err != nil {
				c.log.Warn("dropping unserializable bus message",
					zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				c.log.Error("messagebus write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *WebsocketClient) dispatch(msg Message) {
	c.mu.RLock()
	handlers := append([]Handler(nil), c.handlers[msg.Type]...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(msg)
	}
}
