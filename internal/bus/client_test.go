package bus

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceshell/gui-service/internal/logging"
)

// echoBus is a minimal in-test messagebus: every received message is sent
// back to the same connection, like the real bus loops emissions back to
// their publisher.
type echoBus struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	received []Message
}

func (e *echoBus) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := Deserialize(raw)
		if err != nil {
			continue
		}
		e.mu.Lock()
		e.received = append(e.received, msg)
		e.mu.Unlock()
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

func (e *echoBus) messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Message(nil), e.received...)
}

func dialEchoBus(t *testing.T) (*WebsocketClient, *echoBus) {
	t.Helper()
	echo := &echoBus{}
	srv := httptest.NewServer(http.HandlerFunc(echo.handle))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	client, err := Connect(u.Hostname(), port, "/core", logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, echo
}

func TestConnectAndEmit(t *testing.T) {
	client, echo := dialEchoBus(t)

	require.NoError(t, client.Emit(New("gui.page.show", map[string]interface{}{
		"__from": "skill-a",
	})))

	require.Eventually(t, func() bool {
		return len(echo.messages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "gui.page.show", echo.messages()[0].Type)
}

func TestEmissionsLoopBackToSubscribers(t *testing.T) {
	client, _ := dialEchoBus(t)

	got := make(chan Message, 1)
	client.On("gui.value.set", func(msg Message) {
		got <- msg
	})

	require.NoError(t, client.Emit(New("gui.value.set", map[string]interface{}{
		"temp": 21,
	})))

	select {
	case msg := <-got:
		assert.Equal(t, float64(21), msg.Data["temp"])
	case <-time.After(time.Second):
		t.Fatal("subscription never fired")
	}
}

func TestEmitAfterCloseFails(t *testing.T) {
	client, _ := dialEchoBus(t)
	require.NoError(t, client.Close())

	assert.Error(t, client.Emit(New("gui.page.show", nil)))
}

func TestConnectRefused(t *testing.T) {
	_, err := Connect("127.0.0.1", 1, "/core", logging.NewNop())
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	client, _ := dialEchoBus(t)
	require.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}
