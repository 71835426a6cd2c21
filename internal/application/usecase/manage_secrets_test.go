package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_port "github.com/castellan/castellan/internal/application/port/mocks"
	"github.com/castellan/castellan/internal/domain/entity"
	"github.com/castellan/castellan/internal/domain/repository"
	mock_repository "github.com/castellan/castellan/internal/domain/repository/mocks"
	"github.com/castellan/castellan/internal/vault"
)

func newTestUseCase(t *testing.T) (*ManageSecretsUseCase, *mock_repository.MockSecretRepository, *mock_port.MockClipboard, *vault.Vault) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_repository.NewMockSecretRepository(ctrl)
	clip := mock_port.NewMockClipboard(ctrl)
	v := vault.New("test-passphrase")
	return NewManageSecretsUseCase(repo, v, clip), repo, clip, v
}

// sealedSecret builds a stored secret whose value is sealed under v.
func sealedSecret(t *testing.T, v *vault.Vault, name, plaintext string) *entity.Secret {
	t.Helper()
	sealed, err := v.Seal([]byte(plaintext))
	require.NoError(t, err)
	return entity.NewSecret(name, "", sealed, "")
}

func TestCreate_SealsValue(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, v := newTestUseCase(t)

	var stored *entity.Secret
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, secret *entity.Secret) error {
			stored = secret
			return nil
		})

	secret, err := uc.Create(ctx, "github", "octocat", "hunter2", "work")
	require.NoError(t, err)
	require.NotEmpty(t, secret.ID)

	require.NotNil(t, stored)
	assert.NotEqual(t, []byte("hunter2"), stored.Value)

	plaintext, err := v.Open(stored.Value)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(plaintext))
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newTestUseCase(t)

	// Validation fails before the repository is touched.
	_, err := uc.Create(ctx, "", "", "v", "")
	assert.Error(t, err)
}

func TestCreate_SaveErrorPropagates(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, _ := newTestUseCase(t)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("database locked"))

	_, err := uc.Create(ctx, "github", "", "v", "")
	assert.ErrorContains(t, err, "store secret")
}

func TestUpdateField_Name(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, v := newTestUseCase(t)

	existing := sealedSecret(t, v, "github", "v")

	var stored *entity.Secret
	repo.EXPECT().FindByID(gomock.Any(), existing.ID).Return(existing, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, secret *entity.Secret) error {
			stored = secret
			return nil
		})

	require.NoError(t, uc.UpdateField(ctx, existing.ID, entity.FieldName, "gitlab"))

	require.NotNil(t, stored)
	assert.Equal(t, "gitlab", stored.Name)
}

func TestUpdateField_ValueResealed(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, v := newTestUseCase(t)

	existing := sealedSecret(t, v, "github", "old")

	var stored *entity.Secret
	repo.EXPECT().FindByID(gomock.Any(), existing.ID).Return(existing, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, secret *entity.Secret) error {
			stored = secret
			return nil
		})

	require.NoError(t, uc.UpdateField(ctx, existing.ID, entity.FieldValue, "new"))

	require.NotNil(t, stored)
	plaintext, err := v.Open(stored.Value)
	require.NoError(t, err)
	assert.Equal(t, "new", string(plaintext))
}

func TestUpdateField_UnknownField(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newTestUseCase(t)

	// Field validation rejects before any repository lookup.
	err := uc.UpdateField(ctx, "some-id", "bogus", "x")
	assert.Error(t, err)
}

func TestUpdateField_MissingSecret(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, _ := newTestUseCase(t)

	repo.EXPECT().FindByID(gomock.Any(), entity.SecretID("nope")).
		Return(nil, repository.ErrSecretNotFound)

	err := uc.UpdateField(ctx, "nope", entity.FieldName, "x")
	assert.ErrorIs(t, err, repository.ErrSecretNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, _ := newTestUseCase(t)

	repo.EXPECT().Delete(gomock.Any(), entity.SecretID("sec-1")).Return(nil)

	require.NoError(t, uc.Delete(ctx, "sec-1"))
}

func TestDelete_Missing(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, _ := newTestUseCase(t)

	repo.EXPECT().Delete(gomock.Any(), entity.SecretID("nope")).
		Return(repository.ErrSecretNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, "nope"), repository.ErrSecretNotFound)
}

func TestCopyValue_WritesPlaintext(t *testing.T) {
	ctx := context.Background()
	uc, repo, clip, v := newTestUseCase(t)

	existing := sealedSecret(t, v, "github", "hunter2")

	repo.EXPECT().FindByID(gomock.Any(), existing.ID).Return(existing, nil)
	clip.EXPECT().WriteText(gomock.Any(), "hunter2").Return(nil)

	require.NoError(t, uc.CopyValue(ctx, existing.ID))
}

func TestCopyValue_ClipboardError(t *testing.T) {
	ctx := context.Background()
	uc, repo, clip, v := newTestUseCase(t)

	existing := sealedSecret(t, v, "github", "v")

	repo.EXPECT().FindByID(gomock.Any(), existing.ID).Return(existing, nil)
	clip.EXPECT().WriteText(gomock.Any(), gomock.Any()).Return(errors.New("no display"))

	assert.Error(t, uc.CopyValue(ctx, existing.ID))
}

func TestReveal(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, v := newTestUseCase(t)

	existing := sealedSecret(t, v, "github", "hunter2")
	repo.EXPECT().FindByID(gomock.Any(), existing.ID).Return(existing, nil)

	plaintext, err := uc.Reveal(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plaintext)
}

func TestReveal_WrongVaultFails(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, _ := newTestUseCase(t)

	// Sealed under a different passphrase than the use case's vault.
	other := vault.New("somebody-else")
	existing := sealedSecret(t, other, "github", "v")

	repo.EXPECT().FindByID(gomock.Any(), existing.ID).Return(existing, nil)

	_, err := uc.Reveal(ctx, existing.ID)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, v := newTestUseCase(t)

	secrets := []*entity.Secret{
		sealedSecret(t, v, "aws", "a"),
		sealedSecret(t, v, "github", "b"),
	}
	repo.EXPECT().GetAll(gomock.Any()).Return(secrets, nil)

	listed, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, secrets, listed)
}
