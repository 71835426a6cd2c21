package surface

import (
	"context"
	"fmt"

	"github.com/castellan/castellan/internal/domain/entity"
	"github.com/castellan/castellan/internal/infrastructure/config"
	"github.com/castellan/castellan/internal/logging"
	"github.com/castellan/castellan/internal/ui/dispatcher"
	"github.com/castellan/castellan/internal/ui/input"
)

// RebindKeymaps replaces the surface's keymaps with ones built from the
// given keybindings. Called at startup and again on config reload.
func (m *Model) RebindKeymaps(bindings config.KeybindingsConfig) error {
	for _, id := range m.keymapIDs {
		m.keymaps.Unregister(m.ctx, id)
	}
	m.keymapIDs = nil

	kms, err := m.buildKeymaps(bindings)
	if err != nil {
		return err
	}
	if err := m.keymaps.RegisterMany(m.ctx, kms); err != nil {
		return err
	}

	for _, km := range kms {
		m.keymapIDs = append(m.keymapIDs, km.ID)
	}
	logging.FromContext(m.ctx).Debug().Int("keymaps", len(kms)).Msg("surface keymaps bound")
	return nil
}

func (m *Model) buildKeymaps(bindings config.KeybindingsConfig) ([]*input.Keymap, error) {
	defaults := config.DefaultConfig().Keybindings

	global := func(action string) (input.KeyBinding, error) {
		return bindingFor("global", action, bindings.Global, defaults.Global)
	}
	nav := func(action string) (input.KeyBinding, error) {
		return bindingFor("navigation", action, bindings.Navigation, defaults.Navigation)
	}
	edit := func(action string) (input.KeyBinding, error) {
		return bindingFor("editing", action, bindings.Editing, defaults.Editing)
	}
	// Arrow keys always traverse, independent of the configured bindings.
	fixed := func(keyString string) func(string) (input.KeyBinding, error) {
		return func(string) (input.KeyBinding, error) {
			binding, ok := input.ParseKeyString(keyString)
			if !ok {
				return input.KeyBinding{}, fmt.Errorf("cannot parse key string %q", keyString)
			}
			return binding, nil
		}
	}

	bothModes := []input.Mode{input.ModeNavigation, input.ModeEditing}
	navMode := []input.Mode{input.ModeNavigation}
	editMode := []input.Mode{input.ModeEditing}

	specs := []struct {
		id      string
		binding func(string) (input.KeyBinding, error)
		action  string
		rules   input.ActivationRules
		run     input.Action
	}{
		{
			id: "global.quit", binding: global, action: config.ActionQuit,
			rules: input.ActivationRules{Modes: bothModes},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				return ec.Commands.Dispatch(ctx, dispatcher.QuitCommand{})
			},
		},
		{
			id: "nav.focus_next", binding: nav, action: config.ActionFocusNext,
			rules: input.ActivationRules{Modes: navMode},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				ec.Focus.FocusNext(ctx)
				return nil
			},
		},
		{
			id: "nav.focus_previous", binding: nav, action: config.ActionFocusPrevious,
			rules: input.ActivationRules{Modes: navMode},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				ec.Focus.FocusPrevious(ctx)
				return nil
			},
		},
		{
			id: "nav.focus_next.arrow", binding: fixed("down"),
			rules: input.ActivationRules{Modes: navMode},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				ec.Focus.FocusNext(ctx)
				return nil
			},
		},
		{
			id: "nav.focus_previous.arrow", binding: fixed("up"),
			rules: input.ActivationRules{Modes: navMode},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				ec.Focus.FocusPrevious(ctx)
				return nil
			},
		},
		{
			id: "nav.focus_first", binding: nav, action: config.ActionFocusFirst,
			rules: input.ActivationRules{Modes: navMode},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				ec.Focus.FocusFirst(ctx)
				return nil
			},
		},
		{
			id: "nav.focus_last", binding: nav, action: config.ActionFocusLast,
			rules: input.ActivationRules{Modes: navMode},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				ec.Focus.FocusLast(ctx)
				return nil
			},
		},
		{
			id: "nav.open", binding: nav, action: config.ActionOpen,
			rules: input.ActivationRules{
				Modes:         navMode,
				RoutePatterns: []string{"/secrets", "/secrets/:id"},
			},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				return ec.Focus.TriggerEnter(ctx)
			},
		},
		{
			id: "nav.new_secret", binding: nav, action: config.ActionNewSecret,
			rules: input.ActivationRules{
				Modes:         navMode,
				RoutePatterns: []string{"/secrets"},
			},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				err := ec.Commands.Dispatch(ctx, dispatcher.CreateSecretCommand{Name: "untitled"})
				if err != nil {
					return err
				}
				ec.Notifier.Success(ctx, "secret created")
				return m.showList(ctx)
			},
		},
		{
			id: "nav.delete_secret", binding: nav, action: config.ActionDeleteSecret,
			rules: input.ActivationRules{
				Modes:         navMode,
				RoutePatterns: []string{"/secrets", "/secrets/:id"},
			},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				id, ok := m.targetSecret()
				if !ok {
					return nil
				}
				if err := ec.Commands.Dispatch(ctx, dispatcher.DeleteSecretCommand{ID: id}); err != nil {
					return err
				}
				ec.Notifier.Success(ctx, "secret deleted")
				return m.showList(ctx)
			},
		},
		{
			id: "nav.copy_value", binding: nav, action: config.ActionCopyValue,
			rules: input.ActivationRules{
				Modes:         navMode,
				RoutePatterns: []string{"/secrets", "/secrets/:id"},
			},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				id, ok := m.targetSecret()
				if !ok {
					return nil
				}
				if err := ec.Commands.Dispatch(ctx, dispatcher.CopySecretValueCommand{ID: id}); err != nil {
					return err
				}
				ec.Notifier.Success(ctx, "value copied to clipboard")
				return nil
			},
		},
		{
			id: "nav.edit_secret", binding: nav, action: config.ActionEditSecret,
			rules: input.ActivationRules{
				Modes:         navMode,
				RoutePatterns: []string{"/secrets/:id"},
			},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				field := entity.FieldName
				if f, ok := cutFieldID(ec); ok {
					field = f
				}
				return m.beginEdit(ctx, field)
			},
		},
		{
			id: "nav.reveal_value", binding: nav, action: config.ActionRevealValue,
			rules: input.ActivationRules{
				Modes:         navMode,
				RoutePatterns: []string{"/secrets/:id"},
			},
			run: func(ctx context.Context, _ *input.EvalContext) error {
				value, err := m.secrets.Reveal(ctx, m.selected)
				if err != nil {
					return err
				}
				m.revealed = true
				m.revealedValue = value
				return nil
			},
		},
		{
			id: "edit.cancel", binding: edit, action: config.ActionCancelEdit,
			rules: input.ActivationRules{Modes: editMode},
			run: func(ctx context.Context, _ *input.EvalContext) error {
				return m.exitEdit(ctx)
			},
		},
		{
			id: "edit.save", binding: edit, action: config.ActionSaveEdit,
			rules: input.ActivationRules{Modes: editMode},
			run: func(ctx context.Context, ec *input.EvalContext) error {
				err := ec.Commands.Dispatch(ctx, dispatcher.UpdateSecretFieldCommand{
					ID:      m.selected,
					FieldID: m.editField,
					Value:   m.editor.Value(),
				})
				if err != nil {
					return err
				}
				ec.Notifier.Success(ctx, "secret saved")
				return m.exitEdit(ctx)
			},
		},
	}

	kms := make([]*input.Keymap, 0, len(specs))
	for _, spec := range specs {
		binding, err := spec.binding(spec.action)
		if err != nil {
			return nil, err
		}
		kms = append(kms, &input.Keymap{
			ID:      spec.id,
			Binding: binding,
			Rules:   spec.rules,
			Action:  spec.run,
		})
	}
	return kms, nil
}

// bindingFor resolves one action's key binding, falling back to the
// built-in default when the config leaves it unset.
func bindingFor(scope, action string, configured, defaults map[string]string) (input.KeyBinding, error) {
	keyString, ok := configured[action]
	if !ok || keyString == "" {
		keyString = defaults[action]
	}
	binding, ok := input.ParseKeyString(keyString)
	if !ok {
		return input.KeyBinding{}, fmt.Errorf("keybindings.%s.%s: cannot parse key string %q", scope, action, keyString)
	}
	return binding, nil
}

// cutFieldID extracts the field name from a focused detail-view element.
func cutFieldID(ec *input.EvalContext) (string, bool) {
	if ec.Focused == nil {
		return "", false
	}
	const prefix = "field:"
	if len(ec.Focused.ID) > len(prefix) && ec.Focused.ID[:len(prefix)] == prefix {
		return ec.Focused.ID[len(prefix):], true
	}
	return "", false
}
