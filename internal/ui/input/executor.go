package input

import (
	"context"
	"sync"

	"github.com/castellan/castellan/internal/application/port"
	"github.com/castellan/castellan/internal/logging"
	"github.com/castellan/castellan/internal/ui/focus"
)

// Source is a host input source. AddHandler attaches a handler that
// receives every raw key event and reports whether it consumed the event;
// the returned function detaches the handler.
type Source interface {
	AddHandler(h func(ev RawEvent) bool) (detach func())
}

// Executor is the single entry point for raw key events. It normalizes
// them, assembles an evaluation context, resolves a keymap and invokes its
// action with errors contained at this boundary.
type Executor struct {
	keymaps  *Registry
	modes    *ModeManager
	focus    *focus.Registry
	notifier port.Notifier
	commands port.CommandDispatcher

	baseCtx context.Context

	mu        sync.Mutex
	inFlight  map[string]bool
	actCtx    context.Context
	actStop   context.CancelFunc
	lastMode  Mode
	lastRoute string
}

// NewExecutor creates an executor over explicitly injected collaborators.
func NewExecutor(
	ctx context.Context,
	keymaps *Registry,
	modes *ModeManager,
	focusReg *focus.Registry,
	notifier port.Notifier,
	commands port.CommandDispatcher,
) *Executor {
	actCtx, actStop := context.WithCancel(ctx)
	mc := modes.Context()
	return &Executor{
		keymaps:   keymaps,
		modes:     modes,
		focus:     focusReg,
		notifier:  notifier,
		commands:  commands,
		baseCtx:   ctx,
		inFlight:  make(map[string]bool),
		actCtx:    actCtx,
		actStop:   actStop,
		lastMode:  mc.Mode,
		lastRoute: mc.Route,
	}
}

// Attach hooks the executor onto the host input source and returns a
// detach function. The detach must be called when the owning surface
// unmounts; it releases the handler and the mode subscription on all paths.
func (e *Executor) Attach(src Source) (detach func()) {
	removeHandler := src.AddHandler(e.HandleEvent)
	unsubscribe := e.modes.Subscribe(func(mc ModeContext) {
		// In-flight actions observe mode and route changes as cancellation
		// through the context threaded into them. Notifications that leave
		// both unchanged (dirty marks, editing-state updates) do not cancel.
		e.rotateOnScopeChange(mc)
	})

	logging.FromContext(e.baseCtx).Debug().Msg("keymap executor attached")

	var once sync.Once
	return func() {
		once.Do(func() {
			removeHandler()
			unsubscribe()
			e.mu.Lock()
			e.actStop()
			e.mu.Unlock()
			logging.FromContext(e.baseCtx).Debug().Msg("keymap executor detached")
		})
	}
}

// HandleEvent processes one raw key event. It returns true when the event
// resolved to a keymap and must be suppressed from default host handling.
// A keystroke with no binding is not an error; it simply passes through.
func (e *Executor) HandleEvent(ev RawEvent) bool {
	log := logging.FromContext(e.baseCtx)

	binding := Normalize(ev)
	ec := &EvalContext{
		Mode:     e.modes.Context(),
		Focused:  e.focus.Focused(),
		Modes:    e.modes,
		Focus:    e.focus,
		Notifier: e.notifier,
		Commands: e.commands,
	}

	km := e.keymaps.FindByBinding(e.baseCtx, binding, ec)
	if km == nil {
		return false
	}

	e.mu.Lock()
	if e.inFlight[km.ID] {
		e.mu.Unlock()
		log.Debug().Str("keymap", km.ID).Msg("action already in flight, event dropped")
		return true
	}
	e.inFlight[km.ID] = true
	actCtx := e.actCtx
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inFlight, km.ID)
		e.mu.Unlock()
	}()

	log.Debug().
		Str("keymap", km.ID).
		Str("binding", binding.String()).
		Str("mode", ec.Mode.Mode.String()).
		Str("route", ec.Mode.Route).
		Msg("keymap resolved")

	e.invoke(actCtx, km, ec)
	return true
}

// invoke runs the action with failure containment: errors and panics are
// logged and surfaced to the user, never propagated to the input loop.
func (e *Executor) invoke(ctx context.Context, km *Keymap, ec *EvalContext) {
	log := logging.FromContext(e.baseCtx)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("keymap", km.ID).
				Interface("panic", rec).
				Msg("keymap action panicked")
			if e.notifier != nil {
				e.notifier.Error(e.baseCtx, "action failed: internal error")
			}
		}
	}()

	if err := km.Action(ctx, ec); err != nil {
		log.Error().
			Err(err).
			Str("keymap", km.ID).
			Msg("keymap action failed")
		if e.notifier != nil {
			e.notifier.Error(e.baseCtx, err.Error())
		}
	}
}

// rotateOnScopeChange cancels the context handed to in-flight actions and
// replaces it when the mode or route actually changed, so stale long-running
// actions can abort cleanly.
func (e *Executor) rotateOnScopeChange(mc ModeContext) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mc.Mode == e.lastMode && mc.Route == e.lastRoute {
		return
	}
	e.lastMode = mc.Mode
	e.lastRoute = mc.Route
	e.actStop()
	e.actCtx, e.actStop = context.WithCancel(e.baseCtx)
}
