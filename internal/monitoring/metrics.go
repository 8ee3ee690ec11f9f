package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the GUI service.
type Metrics struct {
	// WebSocket metrics
	GUIConnections prometheus.Gauge
	GUIMessages    *prometheus.CounterVec
	GUISendErrors  prometheus.Counter

	// Namespace metrics
	NamespacesActive prometheus.Gauge
	NamespacesLoaded prometheus.Gauge
	ExpiryTimers     prometheus.Gauge

	// Bus metrics
	BusMessages *prometheus.CounterVec
}

// NewMetrics creates a new metrics collector registered on the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		GUIConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gui_connections",
			Help: "Number of connected GUI clients",
		}),
		GUIMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gui_messages_total",
			Help: "Total GUI websocket messages by direction",
		}, []string{"direction"}),
		GUISendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gui_send_errors_total",
			Help: "Total failed sends to GUI clients",
		}),
		NamespacesActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gui_namespaces_active",
			Help: "Depth of the active namespace stack",
		}),
		NamespacesLoaded: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gui_namespaces_loaded",
			Help: "Number of namespaces loaded since startup",
		}),
		ExpiryTimers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gui_expiry_timers",
			Help: "Number of pending namespace expiry timers",
		}),
		BusMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gui_bus_messages_total",
			Help: "Total core bus messages handled by topic",
		}, []string{"topic"}),
	}
}

// ConnectionOpened increments the connection gauge. Nil-safe so components
// can run without metrics in tests.
func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.GUIConnections.Inc()
	}
}

// ConnectionClosed decrements the connection gauge.
func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.GUIConnections.Dec()
	}
}

// MessageSent counts one outbound GUI message.
func (m *Metrics) MessageSent() {
	if m != nil {
		m.GUIMessages.WithLabelValues("out").Inc()
	}
}

// MessageReceived counts one inbound GUI message.
func (m *Metrics) MessageReceived() {
	if m != nil {
		m.GUIMessages.WithLabelValues("in").Inc()
	}
}

// SendError counts one failed client send.
func (m *Metrics) SendError() {
	if m != nil {
		m.GUISendErrors.Inc()
	}
}

// SetStackDepth records the active namespace stack depth.
func (m *Metrics) SetStackDepth(n int) {
	if m != nil {
		m.NamespacesActive.Set(float64(n))
	}
}

// SetLoaded records the loaded namespace count.
func (m *Metrics) SetLoaded(n int) {
	if m != nil {
		m.NamespacesLoaded.Set(float64(n))
	}
}

// SetTimers records the pending expiry timer count.
func (m *Metrics) SetTimers(n int) {
	if m != nil {
		m.ExpiryTimers.Set(float64(n))
	}
}

// BusMessage counts one handled core bus message.
func (m *Metrics) BusMessage(topic string) {
	if m != nil {
		m.BusMessages.WithLabelValues(topic).Inc()
	}
}
