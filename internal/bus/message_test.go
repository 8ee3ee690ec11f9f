package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitializesMaps(t *testing.T) {
	msg := New("gui.page.show", nil)

	assert.Equal(t, "gui.page.show", msg.Type)
	assert.NotNil(t, msg.Data)
	assert.NotNil(t, msg.Context)
}

func TestReplyCarriesContext(t *testing.T) {
	original := New("gui.status.request", nil).WithContext(map[string]interface{}{
		"session": "abc",
	})

	reply := original.Reply("gui.status.request.response", map[string]interface{}{
		"connected": true,
	})

	assert.Equal(t, "abc", reply.Context["session"])
	assert.Equal(t, true, reply.Data["connected"])

	// The reply's context is a copy, not an alias.
	reply.Context["session"] = "other"
	assert.Equal(t, "abc", original.Context["session"])
}

func TestForwardCarriesContext(t *testing.T) {
	original := New("gui.page.upload", nil).WithContext(map[string]interface{}{
		"source": "skills",
	})

	fwd := original.Forward("homescreen.manager.show_active", nil)

	assert.Equal(t, "homescreen.manager.show_active", fwd.Type)
	assert.Equal(t, "skills", fwd.Context["source"])
}

func TestWithContextMerges(t *testing.T) {
	msg := New("gui.request_page_upload", nil).
		WithContext(map[string]interface{}{"source": "gui"}).
		WithContext(map[string]interface{}{"destination": "skills"})

	assert.Equal(t, "gui", msg.Context["source"])
	assert.Equal(t, "skills", msg.Context["destination"])
}

func TestDeserialize(t *testing.T) {
	msg, err := Deserialize([]byte(`{"type":"gui.value.set","data":{"temp":21}}`))
	require.NoError(t, err)
	assert.Equal(t, "gui.value.set", msg.Type)
	assert.Equal(t, float64(21), msg.Data["temp"])
	assert.NotNil(t, msg.Context)
}

func TestDeserializeMissingType(t *testing.T) {
	_, err := Deserialize([]byte(`{"data":{}}`))
	assert.Error(t, err)
}

func TestDeserializeInvalidJSON(t *testing.T) {
	_, err := Deserialize([]byte(`{`))
	assert.Error(t, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := New("gui.event.send", map[string]interface{}{"event_name": "navigate"})

	raw, err := msg.Serialize()
	require.NoError(t, err)

	parsed, err := Deserialize(raw)
	require.NoError(t, err)
	assert.Equal(t, msg.Type, parsed.Type)
	assert.Equal(t, "navigate", parsed.Data["event_name"])
}
