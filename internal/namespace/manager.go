package namespace

import (
	"errors"
	"math"
	"path"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/voiceshell/gui-service/internal/bus"
	"github.com/voiceshell/gui-service/internal/config"
	"github.com/voiceshell/gui-service/internal/gui"
	"github.com/voiceshell/gui-service/internal/logging"
	"github.com/voiceshell/gui-service/internal/monitoring"
	"go.uber.org/zap"
)

// Core bus topics consumed and published by the manager.
const (
	TopicPageShow        = "gui.page.show"
	TopicPageDelete      = "gui.page.delete"
	TopicPageDeleteAll   = "gui.page.delete.all"
	TopicPageUpload      = "gui.page.upload"
	TopicClearNamespace  = "gui.clear.namespace"
	TopicValueSet        = "gui.value.set"
	TopicEventSend       = "gui.event.send"
	TopicStatusRequest   = "gui.status.request"
	TopicPageInteraction = "gui.page_interaction"
	TopicPageGainedFocus = "gui.page_gained_focus"
	TopicVolunteerUpload = "gui.volunteer_page_upload"
	TopicClientConnected = "mycroft.gui.connected"
	TopicScreenClose     = "mycroft.gui.screen.close"
	TopicSkillsTrained   = "mycroft.skills.trained"

	TopicNamespaceRemoved   = "gui.namespace.removed"
	TopicNamespaceDisplayed = "gui.namespace.displayed"
	TopicStatusResponse     = "gui.status.request.response"
	TopicRequestPageUpload  = "gui.request_page_upload"
	TopicGuiPort            = "mycroft.gui.port"
	TopicShowHomescreen     = "homescreen.manager.show_active"
)

// reservedKeys are internal bookkeeping keys never exposed as display data.
var reservedKeys = map[string]bool{
	"__from": true,
	"__idle": true,
}

// ErrNegativePersistence rejects persistence specs with negative durations.
var ErrNegativePersistence = errors.New("requested negative persistence")

// defaultReadyTimeout bounds the wait for the system ready signal before
// resource-upload flows proceed anyway.
const defaultReadyTimeout = 90 * time.Second

// ResourceStore persists uploaded page resource bundles and knows where the
// bundled system pages live.
type ResourceStore interface {
	Receive(from, framework string, pages map[string]string) error
	SystemDir() string
}

// Manager owns the LIFO stack of active namespaces, the cache of loaded
// namespaces, the per-namespace expiry timers and all core-bus handlers
// driving namespace and page lifecycle.
//
// All state is guarded by a single mutex: bus handlers and expiry timer
// callbacks both mutate the stack and must never race.
type Manager struct {
	log       *logging.Logger
	bus       bus.Client
	transport Transport
	runtime   *config.Runtime
	store     ResourceStore
	metrics   *monitoring.Metrics

	// wsPort is the GUI websocket port reported to connecting clients.
	wsPort int
	// serverBase is the HTTP base URL for served page resources, empty
	// when the file server is disabled.
	serverBase string

	mu                  sync.Mutex
	loaded              map[string]*Namespace
	active              []*Namespace
	removeTimers        map[string]*time.Timer
	connectedFrameworks map[string]bool

	ready        chan struct{}
	readyOnce    sync.Once
	readyTimeout time.Duration
}

// NewManager creates a namespace manager. Call Start to register its bus
// handlers.
func NewManager(coreBus bus.Client, transport Transport, runtime *config.Runtime,
	wsPort int, log *logging.Logger) *Manager {
	return &Manager{
		log:                 log.Named("namespace"),
		bus:                 coreBus,
		transport:           transport,
		runtime:             runtime,
		wsPort:              wsPort,
		loaded:              make(map[string]*Namespace),
		removeTimers:        make(map[string]*time.Timer),
		connectedFrameworks: make(map[string]bool),
		ready:               make(chan struct{}),
		readyTimeout:        defaultReadyTimeout,
	}
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithStore enables page resource uploads backed by the given store, served
// at serverBase.
func (m *Manager) WithStore(store ResourceStore, serverBase string) *Manager {
	m.store = store
	m.serverBase = serverBase
	return m
}

// Start subscribes the manager's handlers on the core bus.
func (m *Manager) Start() {
	handlers := map[string]bus.Handler{
		TopicPageShow:        m.handleShowPage,
		TopicPageDelete:      m.handleDeletePage,
		TopicPageDeleteAll:   m.handleDeleteAllPages,
		TopicPageUpload:      m.handleReceivePages,
		TopicClearNamespace:  m.handleClearNamespace,
		TopicValueSet:        m.handleSetValue,
		TopicEventSend:       m.handleSendEvent,
		TopicStatusRequest:   m.handleStatusRequest,
		TopicClientConnected: m.handleClientConnected,
		TopicPageInteraction: m.handlePageInteraction,
		TopicPageGainedFocus: m.handlePageGainedFocus,
		TopicScreenClose:     m.handleGlobalBack,
		TopicVolunteerUpload: m.handlePagesAvailable,
		TopicSkillsTrained:   m.handleReady,
	}
	for topic, handler := range handlers {
		topic, handler := topic, handler
		m.bus.On(topic, func(msg bus.Message) {
			m.metrics.BusMessage(topic)
			handler(msg)
		})
	}
}

// parsePersistence parses a persistence spec into (persistent, duration).
// Booleans persist as given with no duration; non-negative numbers display
// for that many seconds; negative numbers are invalid; anything else falls
// back to the default duration.
func parsePersistence(spec interface{}) (bool, int, error) {
	switch v := spec.(type) {
	case bool:
		return v, 0, nil
	case int:
		if v < 0 {
			return false, 0, ErrNegativePersistence
		}
		return false, v, nil
	case float64:
		rounded := int(math.Round(v))
		if rounded < 0 {
			return false, 0, ErrNegativePersistence
		}
		return false, rounded, nil
	default:
		return false, DefaultPageDuration, nil
	}
}

// handleShowPage handles a request to show one or more pages on screen.
func (m *Manager) handleShowPage(msg bus.Message) {
	namespaceName, ok := msg.Data["__from"].(string)
	if !ok || namespaceName == "" {
		m.log.Error("page will not be shown: request names no namespace")
		return
	}

	persist, duration, err := parsePersistence(msg.Data["__idle"])
	if err != nil {
		m.log.Error("page will not be shown: invalid persistence",
			zap.String("namespace", namespaceName),
			zap.Any("spec", msg.Data["__idle"]), zap.Error(err))
		return
	}
	showIndex := intValue(msg.Data["index"], 0)

	pages := m.buildPages(namespaceName, msg.Data, persist, duration)
	if len(pages) == 0 {
		m.log.Error("page will not be shown: malformed page list",
			zap.String("namespace", namespaceName))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.activateNamespaceLocked(namespaceName)
	m.active[0].LoadPages(pages, showIndex)
	m.reconcilePersistenceLocked()
}

// buildPages turns a show request into Page values. The new API names
// pages and supplies per-framework resource directories; the legacy API
// passes raw URIs.
func (m *Manager) buildPages(namespaceName string, data map[string]interface{},
	persist bool, duration int) []Page {
	names := stringSlice(data["page_names"])
	resourceDirs := stringMap(data["ui_directories"])

	if len(names) == 0 {
		return m.buildLegacyPages(namespaceName, data, persist, duration)
	}

	systemRes := m.runtime.GUI().SystemResources

	pages := make([]Page, 0, len(names))
	for _, name := range names {
		page := Page{
			Name:         name,
			PageID:       name,
			Persistent:   persist,
			Duration:     duration,
			Namespace:    namespaceName,
			ResourceDirs: resourceDirs,
		}
		switch {
		case strings.Contains(name, "://"):
			m.log.Warn("expected resource name but got URI", zap.String("page", name))
			page.URL = name
			page.Name = path.Base(name)
		case strings.HasPrefix(name, SystemPagePrefix) && systemRes != "":
			// System pages resolve under the bundled system resources no
			// matter which namespace asked for them.
			page.ResourceDirs = map[string]string{"all": systemRes}
		}
		m.resolveLocator(&page)
		pages = append(pages, page)
	}
	return pages
}

// buildLegacyPages handles show requests without page_names, where each
// entry of "page" is already a URI.
func (m *Manager) buildLegacyPages(namespaceName string, data map[string]interface{},
	persist bool, duration int) []Page {
	uris := stringSlice(data["page"])
	if len(uris) == 0 {
		return nil
	}
	m.log.Info("handling legacy page show request",
		zap.String("namespace", namespaceName), zap.Strings("pages", uris))

	pages := make([]Page, 0, len(uris))
	for _, uri := range uris {
		pages = append(pages, Page{
			URL:        uri,
			Name:       path.Base(uri),
			Persistent: persist,
			Duration:   duration,
			Namespace:  namespaceName,
		})
	}
	return pages
}

// resolveLocator tries to resolve a page's wire locator up front. A page
// whose resource cannot be found stays in the list; clients resolve
// client-side when they can.
func (m *Manager) resolveLocator(page *Page) {
	if page.URL != "" {
		return
	}
	locator, err := page.Resolve(m.runtime.GUI().DefaultFramework, m.serverBase)
	if err != nil {
		m.log.Debug("page resource not resolvable server-side",
			zap.String("page", page.Name), zap.Error(err))
		return
	}
	page.URL = locator
}

// activateNamespaceLocked brings the namespace to the top of the active
// stack, creating and announcing it if needed, and flushes its pending
// data to the clients.
func (m *Manager) activateNamespaceLocked(namespaceName string) {
	ns := m.ensureLoadedLocked(namespaceName)

	if position := m.positionOfLocked(ns); position >= 0 {
		if position > 0 {
			ns.Activate(position)
			m.active = append(m.active[:position], m.active[position+1:]...)
			m.active = append([]*Namespace{ns}, m.active...)
		}
	} else {
		ns.Add()
		m.active = append([]*Namespace{ns}, m.active...)
	}

	for key, value := range ns.data {
		ns.LoadData(key, value)
	}

	m.emitDisplayedLocked()
	m.metrics.SetStackDepth(len(m.active))
}

// ensureLoadedLocked retrieves the namespace, creating it lazily. Loaded
// namespaces are cached for the process lifetime.
func (m *Manager) ensureLoadedLocked(namespaceName string) *Namespace {
	ns, ok := m.loaded[namespaceName]
	if !ok {
		ns = New(namespaceName, m.transport, m.log)
		m.loaded[namespaceName] = ns
		m.metrics.SetLoaded(len(m.loaded))
	}
	return ns
}

// reconcilePersistenceLocked walks the stack top-down after a show: every
// non-persistent namespace below the top is evicted in this same pass, and
// the top's persistence is recomputed, scheduling an expiry timer when it
// is not persistent. The idle namespace never auto-evicts.
func (m *Manager) reconcilePersistenceLocked() {
	if len(m.active) == 0 {
		return
	}
	idleSkill := m.runtime.IdleDisplaySkill()

	top := m.active[0]
	for _, ns := range append([]*Namespace(nil), m.active[1:]...) {
		if ns.ID == idleSkill {
			continue
		}
		if !ns.Persistent {
			m.removeNamespaceLocked(ns.ID)
		}
	}

	if top.ID == idleSkill {
		top.SetPersistence(PersistIdle)
	} else {
		top.SetPersistence(PersistGeneric)
		if top.Persistent {
			m.cancelTimerLocked(top.ID)
		}
	}

	if !top.Persistent {
		m.scheduleRemovalLocked(top)
	}
}

// scheduleRemovalLocked arms the expiry timer for a namespace. A namespace
// has at most one pending timer; an existing one is left untouched.
func (m *Manager) scheduleRemovalLocked(ns *Namespace) {
	if _, exists := m.removeTimers[ns.ID]; exists {
		return
	}
	namespaceName := ns.ID
	m.removeTimers[namespaceName] = time.AfterFunc(
		time.Duration(ns.Duration)*time.Second,
		func() { m.expireNamespace(namespaceName) },
	)
	m.log.Debug("scheduled namespace removal",
		zap.String("namespace", namespaceName), zap.Int("duration", ns.Duration))
	m.metrics.SetTimers(len(m.removeTimers))
}

// expireNamespace runs on the timer goroutine; it takes the manager lock
// so it cannot race bus-driven stack mutation.
func (m *Manager) expireNamespace(namespaceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.removeTimers, namespaceName)
	m.metrics.SetTimers(len(m.removeTimers))
	m.removeNamespaceLocked(namespaceName)
}

// cancelTimerLocked stops and drops a pending expiry timer. Canceling a
// fired or absent timer is safe.
func (m *Manager) cancelTimerLocked(namespaceName string) {
	if timer, ok := m.removeTimers[namespaceName]; ok {
		timer.Stop()
		delete(m.removeTimers, namespaceName)
		m.metrics.SetTimers(len(m.removeTimers))
	}
}

// removeNamespaceLocked evicts a namespace from the active stack, clearing
// its pages and data. Never-loaded or inactive namespaces are a no-op.
func (m *Manager) removeNamespaceLocked(namespaceName string) {
	m.cancelTimerLocked(namespaceName)

	ns, ok := m.loaded[namespaceName]
	if !ok {
		return
	}
	position := m.positionOfLocked(ns)
	if position < 0 {
		return
	}

	m.log.Debug("removing namespace", zap.String("namespace", namespaceName))
	if err := m.bus.Emit(bus.New(TopicNamespaceRemoved,
		map[string]interface{}{"skill_id": namespaceName})); err != nil {
		m.log.Warn("failed to emit namespace removed", zap.Error(err))
	}

	ns.Remove(position)
	m.active = append(m.active[:position], m.active[position+1:]...)
	m.emitDisplayedLocked()
	m.metrics.SetStackDepth(len(m.active))
}

// emitDisplayedLocked notifies the core of the namespace now on display.
func (m *Manager) emitDisplayedLocked() {
	if len(m.active) == 0 {
		return
	}
	if err := m.bus.Emit(bus.New(TopicNamespaceDisplayed,
		map[string]interface{}{"skill_id": m.active[0].ID})); err != nil {
		m.log.Warn("failed to emit namespace displayed", zap.Error(err))
	}
}

// handleClearNamespace handles a request to remove a namespace.
func (m *Manager) handleClearNamespace(msg bus.Message) {
	namespaceName, ok := msg.Data["__from"].(string)
	if !ok || namespaceName == "" {
		m.log.Error("request to delete namespace failed: no namespace specified")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeNamespaceLocked(namespaceName)
}

// handleDeletePage removes the named pages from an active namespace.
func (m *Manager) handleDeletePage(msg bus.Message) {
	namespaceName, ok := msg.Data["__from"].(string)
	names := stringSlice(msg.Data["page"])
	if len(names) == 0 {
		names = stringSlice(msg.Data["page_names"])
	}
	if !ok || namespaceName == "" || len(names) == 0 {
		m.log.Error("page will not be removed: malformed delete request")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.removePagesLocked(namespaceName, func(p Page) bool {
		return containsString(names, p.ID()) || containsString(names, p.Name)
	})
}

// handleDeleteAllPages removes every page of a namespace except the listed
// ones.
func (m *Manager) handleDeleteAllPages(msg bus.Message) {
	namespaceName, ok := msg.Data["__from"].(string)
	if !ok || namespaceName == "" {
		m.log.Error("pages will not be removed: no namespace specified")
		return
	}
	except := stringSlice(msg.Data["except"])

	m.mu.Lock()
	defer m.mu.Unlock()
	m.removePagesLocked(namespaceName, func(p Page) bool {
		return !containsString(except, p.ID()) && !containsString(except, p.Name)
	})
}

// removePagesLocked deletes the pages matching the predicate from an
// active namespace. Positions are computed against the namespace's current
// page order, not the request order. Inactive namespaces are a no-op.
func (m *Manager) removePagesLocked(namespaceName string, match func(Page) bool) {
	ns, ok := m.loaded[namespaceName]
	if !ok || m.positionOfLocked(ns) < 0 {
		return
	}
	var positions []int
	for index, page := range ns.pages {
		if match(page) {
			positions = append(positions, index)
		}
	}
	if len(positions) > 0 {
		ns.RemovePages(positions)
	}
}

// handleSetValue updates namespace data attributes. Changes to an active
// namespace broadcast immediately; inactive namespaces accumulate pending
// data, flushed on their next activation.
func (m *Manager) handleSetValue(msg bus.Message) {
	namespaceName, ok := msg.Data["__from"].(string)
	if !ok || namespaceName == "" {
		m.log.Error("request to set gui attribute failed: no namespace specified")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.ensureLoadedLocked(namespaceName)
	active := m.positionOfLocked(ns) >= 0

	for key, value := range msg.Data {
		if reservedKeys[key] {
			continue
		}
		if current, exists := ns.data[key]; exists && reflect.DeepEqual(current, value) {
			continue
		}
		ns.data[key] = value
		if active {
			ns.LoadData(key, value)
		}
	}
}

// handleSendEvent forwards an arbitrary named event to the display clients.
func (m *Manager) handleSendEvent(msg bus.Message) {
	namespaceName, _ := msg.Data["__from"].(string)
	eventName, ok := msg.Data["event_name"].(string)
	if !ok || eventName == "" {
		m.log.Error("could not send event trigger: no event name")
		return
	}
	m.transport.Broadcast(gui.EventTriggered{
		Type:      gui.TypeEventTriggered,
		Namespace: namespaceName,
		EventName: eventName,
		Data:      msg.Data["params"],
	})
}

// handleStatusRequest replies with whether any display client is connected.
func (m *Manager) handleStatusRequest(msg bus.Message) {
	reply := msg.Reply(TopicStatusResponse, map[string]interface{}{
		"connected": m.transport.ConnectedCount() > 0,
	})
	if err := m.bus.Emit(reply); err != nil {
		m.log.Warn("failed to reply to status request", zap.Error(err))
	}
}

// handleClientConnected registers a display client's framework and replies
// with the websocket port so out-of-band connectors can complete their
// handshake. The first sighting of a framework triggers a resource
// re-upload request once the system reports ready.
func (m *Manager) handleClientConnected(msg bus.Message) {
	guiID, _ := msg.Data["gui_id"].(string)
	framework, _ := msg.Data["framework"].(string)
	if framework == "" {
		if qt := intValue(msg.Data["qt_version"], 5); qt == 6 {
			framework = "qt6"
		} else {
			framework = "qt5"
		}
	}
	m.log.Info("display client announced on core bus",
		zap.String("gui_id", guiID), zap.String("framework", framework))

	if err := m.bus.Emit(msg.Forward(TopicGuiPort, map[string]interface{}{
		"port":   m.wsPort,
		"gui_id": guiID,
	})); err != nil {
		m.log.Warn("failed to reply with gui port", zap.Error(err))
	}

	m.mu.Lock()
	firstSeen := !m.connectedFrameworks[framework]
	m.connectedFrameworks[framework] = true
	m.mu.Unlock()

	if m.store != nil && firstSeen {
		// Runs off the bus goroutine: the ready wait is bounded but long.
		go m.requestFrameworkUpload(framework)
	}
}

// requestFrameworkUpload asks skills and plugins to upload page resources
// for a framework seen for the first time, after the readiness gate.
func (m *Manager) requestFrameworkUpload(framework string) {
	if !m.waitReady() {
		m.log.Warn("not reported ready, requesting uploads anyway",
			zap.Duration("waited", m.readyTimeout))
	}
	msg := bus.New(TopicRequestPageUpload, map[string]interface{}{
		"framework": framework,
	}).WithContext(uploadContext())
	if err := m.bus.Emit(msg); err != nil {
		m.log.Warn("failed to request page upload", zap.Error(err))
	}
}

func (m *Manager) waitReady() bool {
	select {
	case <-m.ready:
		return true
	case <-time.After(m.readyTimeout):
		return false
	}
}

// handleReady opens the readiness gate for resource-upload flows.
func (m *Manager) handleReady(bus.Message) {
	m.readyOnce.Do(func() { close(m.ready) })
}

// handlePagesAvailable handles a skill or plugin advertising uploadable GUI
// pages: request them for every framework seen so far.
func (m *Manager) handlePagesAvailable(msg bus.Message) {
	if m.store == nil {
		m.log.Debug("no GUI file server running")
		return
	}
	skillID, _ := msg.Data["skill_id"].(string)

	m.mu.Lock()
	frameworks := make([]string, 0, len(m.connectedFrameworks))
	for framework := range m.connectedFrameworks {
		frameworks = append(frameworks, framework)
	}
	m.mu.Unlock()

	for _, framework := range frameworks {
		reply := msg.Reply(TopicRequestPageUpload, map[string]interface{}{
			"skill_id":  skillID,
			"framework": framework,
		}).WithContext(uploadContext())
		if err := m.bus.Emit(reply); err != nil {
			m.log.Warn("failed to request page upload",
				zap.String("skill_id", skillID), zap.Error(err))
		}
	}
}

// handleReceivePages stores uploaded page resources. An upload from the
// configured homescreen skill re-triggers showing the home screen.
func (m *Manager) handleReceivePages(msg bus.Message) {
	if m.store == nil {
		return
	}
	from, _ := msg.Data["__from"].(string)
	framework, _ := msg.Data["framework"].(string)
	if framework == "" {
		framework = "qt5"
	}
	pages := stringMap(msg.Data["pages"])
	if from == "" || len(pages) == 0 {
		m.log.Error("dropping malformed page upload", zap.String("from", from))
		return
	}

	if err := m.store.Receive(from, framework, pages); err != nil {
		m.log.Error("failed to store uploaded pages",
			zap.String("from", from), zap.Error(err))
		return
	}

	if from == m.runtime.IdleDisplaySkill() {
		if err := m.bus.Emit(msg.Forward(TopicShowHomescreen, nil)); err != nil {
			m.log.Warn("failed to re-show homescreen", zap.Error(err))
		}
	}
}

// handlePageInteraction extends a namespace's visibility on user activity
// by rescheduling its expiry timer. The idle namespace never expires.
func (m *Manager) handlePageInteraction(msg bus.Message) {
	namespaceName := skillIDOf(msg)
	m.log.Debug("display client interacted with page",
		zap.String("namespace", namespaceName))
	if namespaceName == m.runtime.IdleDisplaySkill() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.loaded[namespaceName]
	if !ok || ns.Persistent {
		return
	}
	if _, pending := m.removeTimers[namespaceName]; pending {
		m.cancelTimerLocked(namespaceName)
		m.scheduleRemovalLocked(ns)
	}
}

// handlePageGainedFocus mirrors a client-reported focus change into the
// namespace's focus index.
func (m *Manager) handlePageGainedFocus(msg bus.Message) {
	namespaceName := skillIDOf(msg)
	pageNumber := intValue(msg.Data["page_number"], -1)

	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.loaded[namespaceName]
	if !ok || m.positionOfLocked(ns) < 0 {
		return
	}
	if pageNumber != ns.activeIndex {
		ns.PageGainedFocus(pageNumber)
	}
}

// handleGlobalBack steps the visible namespace back one page, or requests
// the home screen when there is nothing to step back to.
func (m *Manager) handleGlobalBack(msg bus.Message) {
	m.mu.Lock()
	if len(m.active) > 0 && m.active[0].activeIndex > 0 {
		m.active[0].GlobalBack()
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if err := m.bus.Emit(msg.Forward(TopicShowHomescreen, nil)); err != nil {
		m.log.Warn("failed to request homescreen", zap.Error(err))
	}
}

// ActiveState snapshots the active stack for synchronizing a newly
// connected display client, index 0 first.
func (m *Manager) ActiveState() []gui.NamespaceState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := make([]gui.NamespaceState, 0, len(m.active))
	for _, ns := range m.active {
		refs := make([]gui.PageRef, len(ns.pages))
		for i, page := range ns.pages {
			refs[i] = gui.PageRef{URL: pageLocator(page)}
		}
		state = append(state, gui.NamespaceState{
			SkillID: ns.ID,
			Pages:   refs,
			Data:    ns.Data(),
		})
	}
	return state
}

// StackDepth returns the current active stack depth.
func (m *Manager) StackDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *Manager) positionOfLocked(ns *Namespace) int {
	for i, candidate := range m.active {
		if candidate == ns {
			return i
		}
	}
	return -1
}

func uploadContext() map[string]interface{} {
	return map[string]interface{}{
		"source":      "gui",
		"destination": []string{"skills", "PHAL"},
	}
}

// skillIDOf extracts the namespace id from a client focus/interaction
// event, falling back to the wire namespace field.
func skillIDOf(msg bus.Message) string {
	if id, ok := msg.Data["skill_id"].(string); ok && id != "" {
		return id
	}
	id, _ := msg.Data["namespace"].(string)
	return id
}

func stringSlice(v interface{}) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

func stringMap(v interface{}) map[string]string {
	switch val := v.(type) {
	case map[string]string:
		return val
	case map[string]interface{}:
		out := make(map[string]string, len(val))
		for k, item := range val {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}

func intValue(v interface{}, fallback int) int {
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	default:
		return fallback
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
