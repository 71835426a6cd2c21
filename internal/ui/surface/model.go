package surface

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/castellan/castellan/internal/application/usecase"
	"github.com/castellan/castellan/internal/domain/entity"
	"github.com/castellan/castellan/internal/infrastructure/config"
	"github.com/castellan/castellan/internal/logging"
	"github.com/castellan/castellan/internal/ui/focus"
	"github.com/castellan/castellan/internal/ui/input"
)

// RouteList is the secret list route, the surface's home.
const RouteList = "/secrets"

func routeDetail(id entity.SecretID) string { return RouteList + "/" + string(id) }
func routeEdit(id entity.SecretID) string   { return routeDetail(id) + "/edit" }

// detailFields is the traversal order of the detail view.
var detailFields = []string{
	entity.FieldName,
	entity.FieldUsername,
	entity.FieldValue,
	entity.FieldNotes,
}

// Deps are the collaborators the surface is built over.
type Deps struct {
	Modes       *input.ModeManager
	Focus       *focus.Registry
	Keymaps     *input.Registry
	Forwarder   *KeyForwarder
	Notices     *Notices
	Secrets     *usecase.ManageSecretsUseCase
	Keybindings config.KeybindingsConfig
}

// Model is the Bubble Tea model. It owns routes and views; key handling
// is delegated to the executor through the forwarder, and only events the
// executor does not consume reach the edit field.
type Model struct {
	ctx       context.Context
	modes     *input.ModeManager
	focus     *focus.Registry
	keymaps   *input.Registry
	forwarder *KeyForwarder
	notices   *Notices
	secrets   *usecase.ManageSecretsUseCase

	route         string
	items         []*entity.Secret
	selected      entity.SecretID
	detail        *entity.Secret
	revealed      bool
	revealedValue string

	editor    textinput.Model
	editField string

	focusedID string
	keymapIDs []string

	width         int
	quitRequested atomic.Bool
}

// New builds the surface, registers its keymaps and opens the list route.
func New(ctx context.Context, deps Deps) (*Model, error) {
	editor := textinput.New()
	editor.Prompt = "> "

	m := &Model{
		ctx:       ctx,
		modes:     deps.Modes,
		focus:     deps.Focus,
		keymaps:   deps.Keymaps,
		forwarder: deps.Forwarder,
		notices:   deps.Notices,
		secrets:   deps.Secrets,
		editor:    editor,
	}

	m.focus.Subscribe(func(el *focus.Element) {
		if el == nil {
			m.focusedID = ""
			return
		}
		m.focusedID = el.ID
	})

	if err := m.RebindKeymaps(deps.Keybindings); err != nil {
		return nil, err
	}
	if err := m.showList(ctx); err != nil {
		return nil, fmt.Errorf("load secret list: %w", err)
	}
	return m, nil
}

// RequestQuit asks the event loop to terminate after the current update.
func (m *Model) RequestQuit() {
	m.quitRequested.Store(true)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model. Every key event goes through the executor
// first; unconsumed keys fall through to the edit field in editing mode.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		consumed := false
		if ev, ok := rawEventFromKey(msg); ok {
			consumed = m.forwarder.Forward(ev)
		}
		if m.quitRequested.Load() {
			return m, tea.Quit
		}
		if !consumed && m.modes.Mode() == input.ModeEditing {
			before := m.editor.Value()
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			if m.editor.Value() != before {
				m.modes.MarkDirty(m.ctx)
			}
			return m, cmd
		}
	}
	return m, nil
}

// showList opens the secret list route and rebuilds the focus scope with
// one element per secret.
func (m *Model) showList(ctx context.Context) error {
	items, err := m.secrets.List(ctx)
	if err != nil {
		return err
	}

	m.route = RouteList
	m.detail = nil
	m.revealed = false
	m.items = items
	m.modes.SetRoute(ctx, RouteList)
	m.focus.Clear(ctx, "route change")

	for i, secret := range items {
		id := secret.ID
		el := &focus.Element{
			ID:    "secret:" + string(id),
			Order: i,
			OnEnter: func(ctx context.Context) error {
				return m.showDetail(ctx, id)
			},
		}
		if err := m.focus.Register(ctx, el); err != nil {
			return err
		}
	}
	return nil
}

// showDetail opens one secret's detail route with a focus element per field.
func (m *Model) showDetail(ctx context.Context, id entity.SecretID) error {
	secret, err := m.secrets.Get(ctx, id)
	if err != nil {
		return err
	}

	m.route = routeDetail(id)
	m.selected = id
	m.detail = secret
	m.revealed = false
	m.modes.SetRoute(ctx, m.route)
	m.focus.Clear(ctx, "route change")

	for i, field := range detailFields {
		el := &focus.Element{
			ID:    "field:" + field,
			Order: i,
			OnEnter: func(ctx context.Context) error {
				return m.beginEdit(ctx, field)
			},
		}
		if err := m.focus.Register(ctx, el); err != nil {
			return err
		}
	}
	return nil
}

// beginEdit transitions to editing mode for one field of the selected
// secret. The sealed value field starts empty; its plaintext never
// prefills the editor.
func (m *Model) beginEdit(ctx context.Context, field string) error {
	if m.detail == nil {
		return fmt.Errorf("no secret selected")
	}

	var original string
	switch field {
	case entity.FieldName:
		original = m.detail.Name
	case entity.FieldUsername:
		original = m.detail.Username
	case entity.FieldNotes:
		original = m.detail.Notes
	case entity.FieldValue:
		original = ""
	default:
		return fmt.Errorf("unknown secret field %q", field)
	}

	if field == entity.FieldValue {
		m.editor.EchoMode = textinput.EchoPassword
	} else {
		m.editor.EchoMode = textinput.EchoNormal
	}
	m.editField = field
	m.editor.SetValue(original)
	m.editor.CursorEnd()
	m.editor.Focus()

	m.route = routeEdit(m.selected)
	m.modes.SetRoute(ctx, m.route)
	m.focus.Clear(ctx, "route change")
	m.modes.EnterEditingMode(ctx, input.EditingState{
		ResourceID:    string(m.selected),
		FieldID:       field,
		OriginalValue: original,
	})

	logging.FromContext(ctx).Debug().
		Str("secret_id", string(m.selected)).
		Str("field", field).
		Msg("editing started")
	return nil
}

// exitEdit leaves editing mode and returns to the detail route. The detail
// reload happens before the mode transition: transitions cancel the action
// context this method runs under.
func (m *Model) exitEdit(ctx context.Context) error {
	m.editor.Blur()
	m.editor.Reset()
	m.editField = ""
	if err := m.showDetail(ctx, m.selected); err != nil {
		return err
	}
	m.modes.EnterNavigationMode(ctx)
	return nil
}

// targetSecret resolves the secret an action applies to: the selected
// secret on detail routes, otherwise the focused list row.
func (m *Model) targetSecret() (entity.SecretID, bool) {
	if m.detail != nil {
		return m.selected, true
	}
	if id, ok := strings.CutPrefix(m.focusedID, "secret:"); ok {
		return entity.SecretID(id), true
	}
	return "", false
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	switch {
	case m.modes.Mode() == input.ModeEditing:
		b.WriteString(m.viewEdit())
	case m.detail != nil:
		b.WriteString(m.viewDetail())
	default:
		b.WriteString(m.viewList())
	}

	if notice := m.notices.Latest(); notice != nil {
		b.WriteString("\n")
		style := successStyle
		if notice.Level == NoticeError {
			style = errorStyle
		}
		b.WriteString(style.Render(notice.Text))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Secrets"))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(rowStyle.Render("no secrets yet, press n to create one"))
		b.WriteString("\n")
		return b.String()
	}

	for _, secret := range m.items {
		line := secret.Name
		if secret.Username != "" {
			line += "  (" + secret.Username + ")"
		}
		if m.focusedID == "secret:"+string(secret.ID) {
			b.WriteString(focusedRowStyle.String() + line)
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.detail.Name))
	b.WriteString("\n")

	for _, field := range detailFields {
		var value string
		switch field {
		case entity.FieldName:
			value = m.detail.Name
		case entity.FieldUsername:
			value = m.detail.Username
		case entity.FieldNotes:
			value = m.detail.Notes
		case entity.FieldValue:
			if m.revealed {
				value = m.revealedValue
			} else {
				value = maskedStyle.Render("••••••••")
			}
		}

		line := fieldLabelStyle.Render(field) + value
		if m.focusedID == "field:"+field {
			b.WriteString(focusedRowStyle.String() + line)
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewEdit() string {
	var b strings.Builder
	title := fmt.Sprintf("Edit %s", m.editField)
	if m.detail != nil {
		title = fmt.Sprintf("Edit %s of %s", m.editField, m.detail.Name)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n")

	if mc := m.modes.Context(); mc.Editing != nil && mc.Editing.Dirty {
		b.WriteString(dirtyStyle.Render("modified"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) helpLine() string {
	if m.modes.Mode() == input.ModeEditing {
		return "esc cancel · ctrl+s save"
	}
	if m.detail != nil {
		return "j/k move · enter edit field · y copy · r reveal · d delete · ctrl+q quit"
	}
	return "j/k move · g/G first/last · enter open · n new · y copy · d delete · ctrl+q quit"
}
