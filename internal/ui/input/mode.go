package input

import (
	"context"
	"sync"

	"github.com/castellan/castellan/internal/logging"
)

// Mode represents the current interaction mode.
type Mode int

const (
	// ModeNavigation is the default mode for moving between elements.
	ModeNavigation Mode = iota
	// ModeEditing is the mode for editing a single field of a resource.
	ModeEditing
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeNavigation:
		return "navigation"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// EditingState describes the field currently being edited.
// It exists if and only if the mode is ModeEditing and is discarded the
// instant the mode transitions away. Callers must populate ResourceID and
// FieldID before entering editing mode; this is not validated here.
type EditingState struct {
	ResourceID    string
	FieldID       string
	OriginalValue string
	Dirty         bool
}

// ModeContext is a read-only snapshot of the current mode, route and
// editing state. It is replaced on every transition, never mutated.
type ModeContext struct {
	Mode    Mode
	Route   string
	Editing *EditingState
}

// ModeListener receives every ModeContext snapshot after a change.
type ModeListener func(mc ModeContext)

// ModeManager owns the interaction mode state machine. It starts in
// ModeNavigation and lives for the process.
type ModeManager struct {
	mu      sync.RWMutex
	mode    Mode
	route   string
	editing *EditingState
	subs    []modeSubscription
	nextSub int
}

type modeSubscription struct {
	id int
	fn ModeListener
}

// NewModeManager creates a mode manager in navigation mode.
func NewModeManager() *ModeManager {
	return &ModeManager{mode: ModeNavigation}
}

// Context returns the current ModeContext snapshot.
func (m *ModeManager) Context() ModeContext {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Mode returns the current mode.
func (m *ModeManager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// EnterNavigationMode switches to navigation mode, discarding any editing
// state. No-op (and no notification) when already in navigation mode.
func (m *ModeManager) EnterNavigationMode(ctx context.Context) {
	m.mu.Lock()
	if m.mode == ModeNavigation {
		m.mu.Unlock()
		return
	}
	m.mode = ModeNavigation
	m.editing = nil
	mc := m.snapshotLocked()
	subs := m.copySubsLocked()
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("from", ModeEditing.String()).
		Str("to", ModeNavigation.String()).
		Msg("mode changed")

	notifyMode(subs, mc)
}

// EnterEditingMode switches to editing mode with the given state.
// No-op (and no notification) when already in editing mode.
func (m *ModeManager) EnterEditingMode(ctx context.Context, state EditingState) {
	m.mu.Lock()
	if m.mode == ModeEditing {
		m.mu.Unlock()
		return
	}
	m.mode = ModeEditing
	m.editing = &state
	mc := m.snapshotLocked()
	subs := m.copySubsLocked()
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("from", ModeNavigation.String()).
		Str("to", ModeEditing.String()).
		Str("resource", state.ResourceID).
		Str("field", state.FieldID).
		Msg("mode changed")

	notifyMode(subs, mc)
}

// SetRoute updates the route and notifies subscribers. It does not by
// itself change the mode.
func (m *ModeManager) SetRoute(ctx context.Context, route string) {
	m.mu.Lock()
	m.route = route
	mc := m.snapshotLocked()
	subs := m.copySubsLocked()
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("route", route).Msg("route changed")

	notifyMode(subs, mc)
}

// MarkDirty flags the current editing state as modified.
// No-op outside editing mode.
func (m *ModeManager) MarkDirty(ctx context.Context) {
	m.mu.Lock()
	if m.mode != ModeEditing || m.editing == nil || m.editing.Dirty {
		m.mu.Unlock()
		return
	}
	m.editing.Dirty = true
	mc := m.snapshotLocked()
	subs := m.copySubsLocked()
	m.mu.Unlock()

	logging.FromContext(ctx).Trace().Msg("editing state marked dirty")

	notifyMode(subs, mc)
}

// Subscribe registers a listener for mode context changes and returns an
// unsubscribe function. Delivery is synchronous, in subscription order.
func (m *ModeManager) Subscribe(fn ModeListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, modeSubscription{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// snapshotLocked builds a ModeContext with a copied editing state so the
// snapshot stays read-only. Must be called with m.mu held.
func (m *ModeManager) snapshotLocked() ModeContext {
	mc := ModeContext{Mode: m.mode, Route: m.route}
	if m.editing != nil {
		editing := *m.editing
		mc.Editing = &editing
	}
	return mc
}

// copySubsLocked snapshots listeners so notification happens outside the
// lock. Must be called with m.mu held.
func (m *ModeManager) copySubsLocked() []modeSubscription {
	subs := make([]modeSubscription, len(m.subs))
	copy(subs, m.subs)
	return subs
}

func notifyMode(subs []modeSubscription, mc ModeContext) {
	for _, s := range subs {
		s.fn(mc)
	}
}
