// Package surface renders the terminal UI and feeds key events into the
// command-dispatch core.
package surface

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/castellan/castellan/internal/ui/input"
)

// KeyForwarder adapts the Bubble Tea event loop to the executor's input
// source contract. The surface forwards every key message; handlers report
// whether they consumed it.
type KeyForwarder struct {
	mu       sync.Mutex
	handlers []keyHandler
	nextID   int
}

type keyHandler struct {
	id int
	fn func(ev input.RawEvent) bool
}

// NewKeyForwarder creates an empty forwarder.
func NewKeyForwarder() *KeyForwarder {
	return &KeyForwarder{}
}

var _ input.Source = (*KeyForwarder)(nil)

// AddHandler attaches a handler and returns its detach function.
func (f *KeyForwarder) AddHandler(h func(ev input.RawEvent) bool) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.handlers = append(f.handlers, keyHandler{id: id, fn: h})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, reg := range f.handlers {
			if reg.id == id {
				f.handlers = append(f.handlers[:i], f.handlers[i+1:]...)
				return
			}
		}
	}
}

// Forward delivers an event to handlers in attach order and reports
// whether any of them consumed it.
func (f *KeyForwarder) Forward(ev input.RawEvent) bool {
	f.mu.Lock()
	handlers := make([]keyHandler, len(f.handlers))
	copy(handlers, f.handlers)
	f.mu.Unlock()

	for _, reg := range handlers {
		if reg.fn(ev) {
			return true
		}
	}
	return false
}

// rawEventFromKey converts a Bubble Tea key message to a raw event.
// Key messages render as config-style strings ("ctrl+s", "enter", "G"),
// so the key-string parser does the heavy lifting.
func rawEventFromKey(msg tea.KeyMsg) (input.RawEvent, bool) {
	s := msg.String()
	if s == " " {
		s = "space"
	}

	binding, ok := input.ParseKeyString(s)
	if !ok {
		return input.RawEvent{}, false
	}
	return input.RawEvent{
		Key:   binding.Key,
		Ctrl:  binding.Ctrl,
		Shift: binding.Shift,
		Alt:   binding.Alt,
		Meta:  binding.Meta,
	}, true
}
