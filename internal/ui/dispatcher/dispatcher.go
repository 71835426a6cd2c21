package dispatcher

import (
	"context"
	"fmt"

	"github.com/castellan/castellan/internal/application/port"
	"github.com/castellan/castellan/internal/application/usecase"
	"github.com/castellan/castellan/internal/logging"
)

// Dispatcher routes typed commands to the appropriate use case.
type Dispatcher struct {
	secrets *usecase.ManageSecretsUseCase
	onQuit  func()
}

var _ port.CommandDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(ctx context.Context, secrets *usecase.ManageSecretsUseCase) *Dispatcher {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating command dispatcher")

	return &Dispatcher{secrets: secrets}
}

// SetOnQuit sets the callback for the quit command.
func (d *Dispatcher) SetOnQuit(fn func()) {
	d.onQuit = fn
}

// Dispatch routes a command to the use case that handles it.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd port.Command) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("command", cmd.CommandName()).Msg("dispatching command")

	switch c := cmd.(type) {
	case CreateSecretCommand:
		_, err := d.secrets.Create(ctx, c.Name, c.Username, c.Value, c.Notes)
		return err
	case UpdateSecretFieldCommand:
		return d.secrets.UpdateField(ctx, c.ID, c.FieldID, c.Value)
	case DeleteSecretCommand:
		return d.secrets.Delete(ctx, c.ID)
	case CopySecretValueCommand:
		return d.secrets.CopyValue(ctx, c.ID)
	case QuitCommand:
		if d.onQuit != nil {
			d.onQuit()
		}
		return nil
	default:
		return fmt.Errorf("unhandled command %q", cmd.CommandName())
	}
}
