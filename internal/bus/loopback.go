package bus

import "sync"

// Loopback is an in-process Client. Emitted messages are dispatched
// synchronously to subscribers on the caller's goroutine. It backs unit
// tests and single-process embedded deployments where no external
// messagebus is running.
type Loopback struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewLoopback creates an in-process bus.
func NewLoopback() *Loopback {
	return &Loopback{handlers: make(map[string][]Handler)}
}

// Emit dispatches the message to all handlers registered for its type.
func (l *Loopback) Emit(msg Message) error {
	l.mu.RLock()
	handlers := append([]Handler(nil), l.handlers[msg.Type]...)
	l.mu.RUnlock()
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

// On registers a handler for the given message type.
func (l *Loopback) On(msgType string, handler Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[msgType] = append(l.handlers[msgType], handler)
}

// Close is a no-op for the in-process bus.
func (l *Loopback) Close() error { return nil }
