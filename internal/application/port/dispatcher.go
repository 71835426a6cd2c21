package port

import "context"

// Command is an intent submitted for execution elsewhere.
// Commands are plain typed structs; the dispatch core never inspects
// anything beyond the command name.
type Command interface {
	// CommandName identifies the command type for routing and logging.
	CommandName() string
}

// CommandDispatcher routes typed commands to their handlers.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd Command) error
}
