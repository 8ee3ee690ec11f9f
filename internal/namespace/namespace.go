package namespace

import (
	"sort"

	"github.com/voiceshell/gui-service/internal/gui"
	"github.com/voiceshell/gui-service/internal/logging"
	"go.uber.org/zap"
)

// Transport is the display-client fanout the core writes wire deltas
// through. The core never reaches into the client set itself.
type Transport interface {
	Broadcast(msg interface{})
	SendTo(clientID string, msg interface{}) error
	ConnectedCount() int
	ConnectedFrameworks() []string
}

// PersistenceKind selects how a namespace's persistence is derived.
type PersistenceKind int

const (
	// PersistGeneric derives persistence from the focused page.
	PersistGeneric PersistenceKind = iota
	// PersistIdle pins the namespace as the never-expiring idle screen.
	PersistIdle
)

// Namespace groups the pages and display data of one skill. Mutations emit
// wire-protocol deltas to the display clients in invocation order; clients
// apply them as a sequential patch stream.
//
// A Namespace is not safe for concurrent use on its own: the Manager
// serializes all access behind its lock.
type Namespace struct {
	// ID is the skill/component identifier.
	ID string
	// Persistent namespaces stay in the active stack until removed.
	Persistent bool
	// Duration is the active-stack lifetime in seconds when not persistent.
	Duration int

	pages       []Page
	data        map[string]interface{}
	activeIndex int // -1 when no page is focused

	transport Transport
	log       *logging.Logger
}

// New creates an empty namespace bound to the given transport.
func New(id string, transport Transport, log *logging.Logger) *Namespace {
	return &Namespace{
		ID:          id,
		Duration:    DefaultPageDuration,
		data:        make(map[string]interface{}),
		activeIndex: -1,
		transport:   transport,
		log:         log,
	}
}

// Add announces this namespace to the display clients at stack position 0.
func (n *Namespace) Add() {
	n.log.Info("adding namespace to active stack", zap.String("namespace", n.ID))
	n.transport.Broadcast(gui.SessionListInsert{
		Type:      gui.TypeSessionListInsert,
		Namespace: gui.SystemNamespace,
		Position:  0,
		Data:      []gui.NamespaceRef{{SkillID: n.ID}},
	})
}

// Activate tells the display clients to move this namespace from the given
// stack position to position 0. A namespace with no pages cannot be
// meaningfully focused, so the move is suppressed client-side.
func (n *Namespace) Activate(fromPosition int) {
	if len(n.pages) == 0 {
		n.log.Warn("refusing to activate namespace without pages",
			zap.String("namespace", n.ID))
		return
	}
	n.log.Info("activating namespace", zap.String("namespace", n.ID),
		zap.Int("from", fromPosition))
	n.transport.Broadcast(gui.SessionListMove{
		Type:        gui.TypeSessionListMove,
		Namespace:   gui.SystemNamespace,
		From:        fromPosition,
		To:          0,
		ItemsNumber: 1,
	})
}

// Remove unloads all data keys, removes this namespace from the visible
// stack at the given position and clears local state. The namespace stays
// loaded and can be reactivated later.
func (n *Namespace) Remove(fromPosition int) {
	n.log.Info("removing namespace from active stack",
		zap.String("namespace", n.ID), zap.Int("position", fromPosition))

	for key := range n.data {
		n.UnloadData(key)
	}

	n.transport.Broadcast(gui.SessionListRemove{
		Type:        gui.TypeSessionListRemove,
		Namespace:   gui.SystemNamespace,
		Position:    fromPosition,
		ItemsNumber: 1,
	})

	n.pages = nil
	n.data = make(map[string]interface{})
	n.activeIndex = -1
}

// LoadData broadcasts a single key/value to the display clients. Mutating
// the local data map is the caller's responsibility.
func (n *Namespace) LoadData(key string, value interface{}) {
	n.transport.Broadcast(gui.SessionSet{
		Type:      gui.TypeSessionSet,
		Namespace: n.ID,
		Data:      map[string]interface{}{key: value},
	})
}

// UnloadData broadcasts the deletion of a single data key.
func (n *Namespace) UnloadData(key string) {
	n.transport.Broadcast(gui.SessionDelete{
		Type:      gui.TypeSessionDelete,
		Namespace: n.ID,
		Property:  key,
	})
}

// SetPersistence recomputes this namespace's persistence. The idle kind
// pins it forever; otherwise persistence follows the focused page, falling
// back to the default duration when no page is focused.
func (n *Namespace) SetPersistence(kind PersistenceKind) {
	if kind == PersistIdle {
		n.Persistent = true
		n.Duration = 0
		return
	}

	active, ok := n.ActivePage()
	switch {
	case ok && !active.Persistent:
		n.Persistent = false
		n.Duration = active.Duration
	case ok && active.Persistent:
		n.Persistent = true
		n.Duration = 0
	default:
		n.Persistent = false
		n.Duration = DefaultPageDuration
	}
}

// LoadPages appends pages whose identity is not yet present, broadcasts
// only the newly added ones and focuses the page at showIndex within the
// requested page list.
func (n *Namespace) LoadPages(pages []Page, showIndex int) {
	if len(pages) == 0 {
		return
	}
	if showIndex < 0 || showIndex >= len(pages) {
		n.log.Error("show index out of range, defaulting to first page",
			zap.String("namespace", n.ID), zap.Int("index", showIndex),
			zap.Int("pages", len(pages)))
		showIndex = 0
	}

	var newPages []Page
	for _, page := range pages {
		if n.indexOf(page.ID()) < 0 && indexOfPage(newPages, page.ID()) < 0 {
			newPages = append(newPages, page)
		}
	}

	if len(newPages) > 0 {
		position := len(n.pages)
		n.pages = append(n.pages, newPages...)
		n.broadcastPageInsert(position, newPages)
	}

	n.FocusPage(pages[showIndex])
}

// RemovePages deletes pages by position, highest index first so that each
// removal's position stays valid for client-side application, and
// broadcasts one remove per deleted page in that order.
func (n *Namespace) RemovePages(positions []int) {
	sorted := append([]int(nil), positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for _, position := range sorted {
		if position < 0 || position >= len(n.pages) {
			n.log.Error("ignoring out-of-range page removal",
				zap.String("namespace", n.ID), zap.Int("position", position))
			continue
		}
		page := n.pages[position]
		n.log.Info("removing page", zap.String("namespace", n.ID),
			zap.String("page", page.Name), zap.Int("position", position))
		n.pages = append(n.pages[:position], n.pages[position+1:]...)
		n.transport.Broadcast(gui.GuiListRemove{
			Type:        gui.TypeGuiListRemove,
			Namespace:   n.ID,
			Position:    position,
			ItemsNumber: 1,
		})
	}

	// Keep the focus index valid across deletions.
	if len(n.pages) == 0 {
		n.activeIndex = -1
	} else if n.activeIndex >= len(n.pages) {
		n.activeIndex = len(n.pages) - 1
	}
}

// FocusPage moves focus to the given page, inserting it at position 0 if
// its identity is not in the page list, and broadcasts the focus change.
func (n *Namespace) FocusPage(page Page) {
	index := n.indexOf(page.ID())
	if index < 0 {
		n.log.Warn("focused page not in namespace, inserting at front",
			zap.String("namespace", n.ID), zap.String("page", page.Name))
		n.pages = append([]Page{page}, n.pages...)
		n.broadcastPageInsert(0, []Page{page})
		index = 0
	}
	n.setFocus(index)
}

// PageGainedFocus updates the focus index, mirroring either a programmatic
// change or a client-reported focus event, and broadcasts it.
func (n *Namespace) PageGainedFocus(index int) {
	if index < 0 || index >= len(n.pages) {
		n.log.Error("focus index out of range",
			zap.String("namespace", n.ID), zap.Int("index", index))
		return
	}
	n.setFocus(index)
}

// GlobalBack removes the focused page and focuses the previous one. At
// index 0 it is a no-op; the manager handles falling through to the home
// screen.
func (n *Namespace) GlobalBack() {
	if n.activeIndex <= 0 {
		return
	}
	previous := n.activeIndex - 1
	n.RemovePages([]int{n.activeIndex})
	n.PageGainedFocus(previous)
}

// ActivePage returns the focused page, if any.
func (n *Namespace) ActivePage() (Page, bool) {
	if n.activeIndex < 0 || n.activeIndex >= len(n.pages) {
		return Page{}, false
	}
	return n.pages[n.activeIndex], true
}

// ActiveIndex returns the focused page index, or -1 when no page is
// focused.
func (n *Namespace) ActiveIndex() int {
	return n.activeIndex
}

// Pages returns a copy of the page list in display order.
func (n *Namespace) Pages() []Page {
	return append([]Page(nil), n.pages...)
}

// Data returns a copy of the namespace's display data.
func (n *Namespace) Data() map[string]interface{} {
	out := make(map[string]interface{}, len(n.data))
	for k, v := range n.data {
		out[k] = v
	}
	return out
}

func (n *Namespace) setFocus(index int) {
	n.activeIndex = index
	n.transport.Broadcast(gui.EventTriggered{
		Type:      gui.TypeEventTriggered,
		Namespace: n.ID,
		EventName: gui.EventPageGainedFocus,
		Data:      map[string]interface{}{"number": index},
	})
}

func (n *Namespace) broadcastPageInsert(position int, pages []Page) {
	refs := make([]gui.PageRef, len(pages))
	for i, page := range pages {
		refs[i] = gui.PageRef{URL: pageLocator(page)}
	}
	n.transport.Broadcast(gui.GuiListInsert{
		Type:      gui.TypeGuiListInsert,
		Namespace: n.ID,
		Position:  position,
		Data:      refs,
	})
}

func (n *Namespace) indexOf(pageID string) int {
	return indexOfPage(n.pages, pageID)
}

func indexOfPage(pages []Page, pageID string) int {
	for i, p := range pages {
		if p.ID() == pageID {
			return i
		}
	}
	return -1
}

// pageLocator is the wire locator for a page: the resolved URL when known,
// otherwise the bare name for the client to resolve.
func pageLocator(p Page) string {
	if p.URL != "" {
		return p.URL
	}
	return p.Name
}
