package homescreen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceshell/gui-service/internal/bus"
	"github.com/voiceshell/gui-service/internal/config"
	"github.com/voiceshell/gui-service/internal/logging"
)

type busRecorder struct {
	mu   sync.Mutex
	msgs []bus.Message
}

func (r *busRecorder) record(msg bus.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *busRecorder) byType(msgType string) []bus.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bus.Message
	for _, m := range r.msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func recordTopic(loop *bus.Loopback, topic string) *busRecorder {
	rec := &busRecorder{}
	loop.On(topic, rec.record)
	return rec
}

func newTestManager(idleSkill string) (*Manager, *bus.Loopback) {
	loop := bus.NewLoopback()
	rt := config.NewRuntime(config.GUIConfig{IdleDisplaySkill: idleSkill})
	return NewManager(loop, rt, logging.NewNop()), loop
}

func TestStartRequestsRegistrations(t *testing.T) {
	m, loop := newTestManager("")
	reload := recordTopic(loop, TopicReloadList)

	m.Start()

	assert.Len(t, reload.byType(TopicReloadList), 1)
}

func TestAddActivatesConfiguredHomescreen(t *testing.T) {
	m, loop := newTestManager("home.skill")
	m.Start()
	activated := recordTopic(loop, TopicActivate)

	require.NoError(t, loop.Emit(bus.New(TopicAdd, map[string]interface{}{
		"id": "home.skill",
	})))

	msgs := activated.byType(TopicActivate)
	require.Len(t, msgs, 1)
	assert.Equal(t, "home.skill", msgs[0].Data["homescreen_id"])
}

func TestAddUnconfiguredHomescreenDoesNotActivate(t *testing.T) {
	m, loop := newTestManager("home.skill")
	m.Start()
	activated := recordTopic(loop, TopicActivate)

	require.NoError(t, loop.Emit(bus.New(TopicAdd, map[string]interface{}{
		"id": "other.skill",
	})))

	assert.Empty(t, activated.byType(TopicActivate))
}

func TestAddDeduplicates(t *testing.T) {
	m, loop := newTestManager("")
	m.Start()
	lists := recordTopic(loop, TopicListResponse)

	require.NoError(t, loop.Emit(bus.New(TopicAdd, map[string]interface{}{"id": "a"})))
	require.NoError(t, loop.Emit(bus.New(TopicAdd, map[string]interface{}{"id": "a"})))
	require.NoError(t, loop.Emit(bus.New(TopicList, nil)))

	msgs := lists.byType(TopicListResponse)
	require.Len(t, msgs, 1)
	assert.Len(t, msgs[0].Data["homescreens"], 1)
}

func TestRemove(t *testing.T) {
	m, loop := newTestManager("")
	m.Start()
	lists := recordTopic(loop, TopicListResponse)

	require.NoError(t, loop.Emit(bus.New(TopicAdd, map[string]interface{}{"id": "a"})))
	require.NoError(t, loop.Emit(bus.New(TopicRemove, map[string]interface{}{"id": "a"})))
	require.NoError(t, loop.Emit(bus.New(TopicList, nil)))

	msgs := lists.byType(TopicListResponse)
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].Data["homescreens"])
}

func TestGetActive(t *testing.T) {
	m, loop := newTestManager("home.skill")
	m.Start()
	responses := recordTopic(loop, TopicGetActive+".response")

	require.NoError(t, loop.Emit(bus.New(TopicGetActive, nil)))
	require.NoError(t, loop.Emit(bus.New(TopicAdd, map[string]interface{}{"id": "home.skill"})))
	require.NoError(t, loop.Emit(bus.New(TopicGetActive, nil)))

	msgs := responses.byType(TopicGetActive + ".response")
	require.Len(t, msgs, 2)
	assert.Nil(t, msgs[0].Data["homescreen"], "configured but unregistered is not active")
	assert.Equal(t, "home.skill", msgs[1].Data["homescreen"])
}

func TestSetActiveUpdatesRuntime(t *testing.T) {
	loop := bus.NewLoopback()
	rt := config.NewRuntime(config.GUIConfig{})
	m := NewManager(loop, rt, logging.NewNop())
	m.Start()

	require.NoError(t, loop.Emit(bus.New(TopicSetActive, map[string]interface{}{
		"id": "home.skill",
	})))
	assert.Equal(t, "home.skill", rt.IdleDisplaySkill())

	require.NoError(t, loop.Emit(bus.New(TopicDisableActive, nil)))
	assert.Equal(t, "", rt.IdleDisplaySkill())
}

func TestShowActive(t *testing.T) {
	m, loop := newTestManager("home.skill")
	m.Start()
	activated := recordTopic(loop, TopicActivate)

	// Nothing registered yet: the request is dropped.
	require.NoError(t, loop.Emit(bus.New(TopicShowActive, nil)))
	assert.Empty(t, activated.byType(TopicActivate))

	require.NoError(t, loop.Emit(bus.New(TopicAdd, map[string]interface{}{"id": "home.skill"})))
	require.NoError(t, loop.Emit(bus.New(TopicShowActive, nil)))

	// One activation from the add, one from show_active.
	assert.Len(t, activated.byType(TopicActivate), 2)
}
