package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ConnectionOpened()
		m.ConnectionClosed()
		m.MessageSent()
		m.MessageReceived()
		m.SendError()
		m.SetStackDepth(3)
		m.SetLoaded(5)
		m.SetTimers(1)
		m.BusMessage("gui.page.show")
	})
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GUIConnections))

	m.SetStackDepth(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.NamespacesActive))

	m.BusMessage("gui.page.show")
	m.BusMessage("gui.page.show")
	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.BusMessages.WithLabelValues("gui.page.show")))
}
