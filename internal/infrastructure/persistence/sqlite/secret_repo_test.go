package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/castellan/internal/domain/entity"
	"github.com/castellan/castellan/internal/domain/repository"
)

func newTestRepo(t *testing.T) repository.SecretRepository {
	t.Helper()
	ctx := context.Background()

	db, err := NewConnection(ctx, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	return NewSecretRepository(db)
}

func TestSecretRepo_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	secret := entity.NewSecret("github", "octocat", []byte("sealed"), "work account")
	require.NoError(t, repo.Save(ctx, secret))

	found, err := repo.FindByID(ctx, secret.ID)
	require.NoError(t, err)
	assert.Equal(t, secret.ID, found.ID)
	assert.Equal(t, "github", found.Name)
	assert.Equal(t, "octocat", found.Username)
	assert.Equal(t, []byte("sealed"), found.Value)
	assert.Equal(t, "work account", found.Notes)
}

func TestSecretRepo_SaveUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	secret := entity.NewSecret("github", "octocat", []byte("v1"), "")
	require.NoError(t, repo.Save(ctx, secret))

	secret.Value = []byte("v2")
	secret.Touch()
	require.NoError(t, repo.Save(ctx, secret))

	found, err := repo.FindByID(ctx, secret.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), found.Value)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSecretRepo_FindMissing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrSecretNotFound)
}

func TestSecretRepo_GetAllOrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, entity.NewSecret("zebra", "", []byte("z"), "")))
	require.NoError(t, repo.Save(ctx, entity.NewSecret("aws", "", []byte("a"), "")))
	require.NoError(t, repo.Save(ctx, entity.NewSecret("github", "", []byte("g"), "")))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "aws", all[0].Name)
	assert.Equal(t, "github", all[1].Name)
	assert.Equal(t, "zebra", all[2].Name)
}

func TestSecretRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	secret := entity.NewSecret("github", "", []byte("s"), "")
	require.NoError(t, repo.Save(ctx, secret))

	require.NoError(t, repo.Delete(ctx, secret.ID))

	_, err := repo.FindByID(ctx, secret.ID)
	assert.ErrorIs(t, err, repository.ErrSecretNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, secret.ID), repository.ErrSecretNotFound)
}
