package input

import (
	"github.com/castellan/castellan/internal/application/port"
	"github.com/castellan/castellan/internal/ui/focus"
)

// EvalContext is the snapshot assembled per key event: the current mode
// context, the focused element (if any), and read-only handles to the
// collaborators actions may need. Collaborators are injected at executor
// construction, never looked up through globals.
type EvalContext struct {
	Mode    ModeContext
	Focused *focus.Element

	Modes    *ModeManager
	Focus    *focus.Registry
	Notifier port.Notifier
	Commands port.CommandDispatcher
}
