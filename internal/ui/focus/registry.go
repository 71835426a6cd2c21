// Package focus provides ordered keyboard traversal of on-screen elements.
//
// The registry holds the focusable elements of the current scope (route +
// mode). The owning UI surface calls Clear on every route or mode change, so
// the element set never spans more than one scope.
package focus

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/castellan/castellan/internal/logging"
)

// Element is a UI-addressable unit participating in keyboard traversal.
// Within one scope, Order defines a strict total order; registering two
// elements with the same Order is a caller contract violation.
type Element struct {
	// ID is unique within the current scope.
	ID string

	// Order determines the traversal position.
	Order int

	// OnFocus is invoked when the element gains focus. Optional.
	OnFocus func(ctx context.Context)

	// OnBlur is invoked when the element loses focus. Optional.
	OnBlur func(ctx context.Context)

	// OnEnter is invoked by TriggerEnter while the element is focused.
	// Errors propagate to the caller. Optional.
	OnEnter func(ctx context.Context) error
}

// DuplicateElementError is returned when an element id is already
// registered in the current scope.
type DuplicateElementError struct {
	ID string
}

func (e *DuplicateElementError) Error() string {
	return fmt.Sprintf("focus: element %q already registered", e.ID)
}

// Listener receives the newly focused element (or nil) after every
// mutating registry operation.
type Listener func(focused *Element)

// Registry owns the ordered set of focusable elements for the current scope.
type Registry struct {
	mu       sync.RWMutex
	elements []*Element // kept sorted by Order
	byID     map[string]*Element
	focused  *Element
	subs     []subscription
	nextSub  int
}

type subscription struct {
	id int
	fn Listener
}

// NewRegistry creates an empty focus registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Element),
	}
}

// Register inserts an element into the current scope.
// It does not move the current focus.
func (r *Registry) Register(ctx context.Context, el *Element) error {
	r.mu.Lock()
	if _, exists := r.byID[el.ID]; exists {
		r.mu.Unlock()
		return &DuplicateElementError{ID: el.ID}
	}
	r.byID[el.ID] = el
	r.elements = append(r.elements, el)
	sort.SliceStable(r.elements, func(i, j int) bool {
		return r.elements[i].Order < r.elements[j].Order
	})
	focused := r.focused
	subs := r.copySubsLocked()
	r.mu.Unlock()

	logging.FromContext(ctx).Trace().
		Str("element", el.ID).
		Int("order", el.Order).
		Msg("focusable registered")

	notify(subs, focused)
	return nil
}

// Unregister removes an element. If it was focused, focus resets to none;
// it does not jump to a neighbor.
func (r *Registry) Unregister(ctx context.Context, id string) {
	r.mu.Lock()
	el, exists := r.byID[id]
	if !exists {
		r.mu.Unlock()
		return
	}
	delete(r.byID, id)
	for i, e := range r.elements {
		if e == el {
			r.elements = append(r.elements[:i], r.elements[i+1:]...)
			break
		}
	}
	wasFocused := r.focused == el
	if wasFocused {
		r.focused = nil
	}
	focused := r.focused
	subs := r.copySubsLocked()
	r.mu.Unlock()

	if wasFocused && el.OnBlur != nil {
		el.OnBlur(ctx)
	}
	logging.FromContext(ctx).Trace().Str("element", id).Msg("focusable unregistered")
	notify(subs, focused)
}

// FocusNext moves focus to the next element by order. At the last element
// it is a no-op; with nothing focused it focuses the first element.
func (r *Registry) FocusNext(ctx context.Context) {
	r.moveFocus(ctx, +1)
}

// FocusPrevious moves focus to the previous element by order. At the first
// element it is a no-op; with nothing focused it focuses the last element.
func (r *Registry) FocusPrevious(ctx context.Context) {
	r.moveFocus(ctx, -1)
}

// FocusFirst focuses the first element of the scope. No-op on an empty scope.
func (r *Registry) FocusFirst(ctx context.Context) {
	r.focusBoundary(ctx, true)
}

// FocusLast focuses the last element of the scope. No-op on an empty scope.
func (r *Registry) FocusLast(ctx context.Context) {
	r.focusBoundary(ctx, false)
}

// Focused returns the currently focused element, or nil.
func (r *Registry) Focused() *Element {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.focused
}

// TriggerEnter invokes the focused element's OnEnter callback.
// Callback errors propagate to the caller; with nothing focused or no
// callback defined this is a no-op.
func (r *Registry) TriggerEnter(ctx context.Context) error {
	r.mu.RLock()
	el := r.focused
	r.mu.RUnlock()

	if el == nil || el.OnEnter == nil {
		return nil
	}
	return el.OnEnter(ctx)
}

// Clear discards every element of the current scope and resets focus to
// none. The reason is informational only.
func (r *Registry) Clear(ctx context.Context, reason string) {
	r.mu.Lock()
	old := r.focused
	count := len(r.elements)
	r.elements = nil
	r.byID = make(map[string]*Element)
	r.focused = nil
	subs := r.copySubsLocked()
	r.mu.Unlock()

	if old != nil && old.OnBlur != nil {
		old.OnBlur(ctx)
	}
	logging.FromContext(ctx).Debug().
		Str("reason", reason).
		Int("elements", count).
		Msg("focus scope cleared")

	notify(subs, nil)
}

// Subscribe registers a listener for focus changes and returns an
// unsubscribe function. Delivery is synchronous, in subscription order.
func (r *Registry) Subscribe(fn Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	r.subs = append(r.subs, subscription{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

func (r *Registry) moveFocus(ctx context.Context, dir int) {
	r.mu.Lock()
	if len(r.elements) == 0 {
		r.mu.Unlock()
		return
	}

	var target *Element
	if r.focused == nil {
		if dir > 0 {
			target = r.elements[0]
		} else {
			target = r.elements[len(r.elements)-1]
		}
	} else {
		idx := r.indexOfLocked(r.focused)
		next := idx + dir
		if next < 0 || next >= len(r.elements) {
			// Boundary: no wraparound.
			r.mu.Unlock()
			return
		}
		target = r.elements[next]
	}

	old := r.focused
	r.focused = target
	subs := r.copySubsLocked()
	r.mu.Unlock()

	r.applyFocusChange(ctx, old, target)
	notify(subs, target)
}

func (r *Registry) focusBoundary(ctx context.Context, first bool) {
	r.mu.Lock()
	if len(r.elements) == 0 {
		r.mu.Unlock()
		return
	}
	target := r.elements[0]
	if !first {
		target = r.elements[len(r.elements)-1]
	}
	old := r.focused
	r.focused = target
	subs := r.copySubsLocked()
	r.mu.Unlock()

	r.applyFocusChange(ctx, old, target)
	notify(subs, target)
}

func (r *Registry) applyFocusChange(ctx context.Context, old, target *Element) {
	if old == target {
		return
	}
	if old != nil && old.OnBlur != nil {
		old.OnBlur(ctx)
	}
	if target != nil && target.OnFocus != nil {
		target.OnFocus(ctx)
	}
	logID := ""
	if target != nil {
		logID = target.ID
	}
	logging.FromContext(ctx).Trace().Str("element", logID).Msg("focus moved")
}

// indexOfLocked returns the element's position, or -1.
// Must be called with r.mu held.
func (r *Registry) indexOfLocked(el *Element) int {
	for i, e := range r.elements {
		if e == el {
			return i
		}
	}
	return -1
}

// copySubsLocked snapshots listeners so they can be invoked after the lock
// is released. Must be called with r.mu held.
func (r *Registry) copySubsLocked() []subscription {
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	return subs
}

func notify(subs []subscription, focused *Element) {
	for _, s := range subs {
		s.fn(focused)
	}
}
