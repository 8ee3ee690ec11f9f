package bus

import (
	"encoding/json"
	"fmt"
)

// Message is the unit of exchange on the core messagebus. Every message has
// a type, an arbitrary data payload and a context map used for routing
// metadata (source, destination, session).
type Message struct {
	Type    string                 `json:"type"`
	Data    map[string]interface{} `json:"data"`
	Context map[string]interface{} `json:"context"`
}

// New creates a message with the given type and data.
func New(msgType string, data map[string]interface{}) Message {
	if data == nil {
		data = map[string]interface{}{}
	}
	return Message{Type: msgType, Data: data, Context: map[string]interface{}{}}
}

// Reply constructs a response to this message, carrying the original
// context so the bus can route it back to the sender.
func (m Message) Reply(msgType string, data map[string]interface{}) Message {
	reply := New(msgType, data)
	reply.Context = mergeContext(m.Context, nil)
	return reply
}

// Forward constructs a new message that keeps the original context, used
// when one event directly causes another.
func (m Message) Forward(msgType string, data map[string]interface{}) Message {
	fwd := New(msgType, data)
	fwd.Context = mergeContext(m.Context, nil)
	return fwd
}

// WithContext returns a copy of the message with extra context entries.
func (m Message) WithContext(ctx map[string]interface{}) Message {
	m.Context = mergeContext(m.Context, ctx)
	return m
}

// Serialize renders the message as a JSON object.
func (m Message) Serialize() ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s message: %w", m.Type, err)
	}
	return raw, nil
}

// Deserialize parses a JSON-encoded message. Messages without a type are
// rejected.
func Deserialize(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("failed to parse bus message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("bus message missing type field")
	}
	if m.Data == nil {
		m.Data = map[string]interface{}{}
	}
	if m.Context == nil {
		m.Context = map[string]interface{}{}
	}
	return m, nil
}

func mergeContext(base, extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
