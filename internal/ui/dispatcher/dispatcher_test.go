package dispatcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/castellan/internal/application/port"
	"github.com/castellan/castellan/internal/application/usecase"
	"github.com/castellan/castellan/internal/domain/entity"
	"github.com/castellan/castellan/internal/domain/repository"
	"github.com/castellan/castellan/internal/vault"
)

type memRepo struct {
	secrets map[entity.SecretID]*entity.Secret
}

func (r *memRepo) Save(_ context.Context, s *entity.Secret) error {
	cp := *s
	r.secrets[s.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id entity.SecretID) (*entity.Secret, error) {
	s, ok := r.secrets[id]
	if !ok {
		return nil, repository.ErrSecretNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) GetAll(_ context.Context) ([]*entity.Secret, error) {
	out := make([]*entity.Secret, 0, len(r.secrets))
	for _, s := range r.secrets {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id entity.SecretID) error {
	if _, ok := r.secrets[id]; !ok {
		return repository.ErrSecretNotFound
	}
	delete(r.secrets, id)
	return nil
}

type memClipboard struct {
	written []string
}

func (c *memClipboard) WriteText(_ context.Context, text string) error {
	c.written = append(c.written, text)
	return nil
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *usecase.ManageSecretsUseCase, *memClipboard) {
	t.Helper()
	ctx := context.Background()

	repo := &memRepo{secrets: make(map[entity.SecretID]*entity.Secret)}
	clip := &memClipboard{}
	secrets := usecase.NewManageSecretsUseCase(repo, vault.New("test"), clip)
	return NewDispatcher(ctx, secrets), secrets, clip
}

func TestDispatch_CreateSecret(t *testing.T) {
	ctx := context.Background()
	d, secrets, _ := newTestDispatcher(t)

	err := d.Dispatch(ctx, CreateSecretCommand{Name: "github", Value: "hunter2"})
	require.NoError(t, err)

	all, err := secrets.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "github", all[0].Name)
}

func TestDispatch_UpdateDeleteCopy(t *testing.T) {
	ctx := context.Background()
	d, secrets, clip := newTestDispatcher(t)

	created, err := secrets.Create(ctx, "github", "", "hunter2", "")
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(ctx, UpdateSecretFieldCommand{
		ID: created.ID, FieldID: entity.FieldName, Value: "gitlab",
	}))
	found, err := secrets.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "gitlab", found.Name)

	require.NoError(t, d.Dispatch(ctx, CopySecretValueCommand{ID: created.ID}))
	require.Len(t, clip.written, 1)
	assert.Equal(t, "hunter2", clip.written[0])

	require.NoError(t, d.Dispatch(ctx, DeleteSecretCommand{ID: created.ID}))
	_, err = secrets.Get(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrSecretNotFound)
}

func TestDispatch_Quit(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDispatcher(t)

	quit := false
	d.SetOnQuit(func() { quit = true })

	require.NoError(t, d.Dispatch(ctx, QuitCommand{}))
	assert.True(t, quit)
}

type bogusCommand struct{}

func (bogusCommand) CommandName() string { return "bogus" }

func TestDispatch_UnknownCommand(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDispatcher(t)

	err := d.Dispatch(ctx, bogusCommand{})
	assert.Error(t, err)
}

var _ port.Command = bogusCommand{}
