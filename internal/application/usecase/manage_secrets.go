// Package usecase contains application business logic.
package usecase

import (
	"context"
	"fmt"

	"github.com/castellan/castellan/internal/application/port"
	"github.com/castellan/castellan/internal/domain/entity"
	"github.com/castellan/castellan/internal/domain/repository"
	"github.com/castellan/castellan/internal/logging"
	"github.com/castellan/castellan/internal/vault"
)

// ManageSecretsUseCase handles the secret lifecycle: creation, field
// updates, deletion and clipboard copy. Secret values are sealed before
// they reach the repository and opened only for copy or reveal.
type ManageSecretsUseCase struct {
	repo      repository.SecretRepository
	vault     *vault.Vault
	clipboard port.Clipboard
}

// NewManageSecretsUseCase creates a new ManageSecretsUseCase.
func NewManageSecretsUseCase(
	repo repository.SecretRepository,
	v *vault.Vault,
	clipboard port.Clipboard,
) *ManageSecretsUseCase {
	return &ManageSecretsUseCase{
		repo:      repo,
		vault:     v,
		clipboard: clipboard,
	}
}

// List returns all secrets ordered by name.
func (uc *ManageSecretsUseCase) List(ctx context.Context) ([]*entity.Secret, error) {
	return uc.repo.GetAll(ctx)
}

// Get returns a single secret by id.
func (uc *ManageSecretsUseCase) Get(ctx context.Context, id entity.SecretID) (*entity.Secret, error) {
	return uc.repo.FindByID(ctx, id)
}

// Create seals the value and stores a new secret.
func (uc *ManageSecretsUseCase) Create(ctx context.Context, name, username, value, notes string) (*entity.Secret, error) {
	log := logging.FromContext(ctx)

	if name == "" {
		return nil, fmt.Errorf("secret name cannot be empty")
	}

	sealed, err := uc.vault.Seal([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("seal secret value: %w", err)
	}

	secret := entity.NewSecret(name, username, sealed, notes)
	if err := uc.repo.Save(ctx, secret); err != nil {
		return nil, fmt.Errorf("store secret: %w", err)
	}

	log.Info().Str("secret_id", string(secret.ID)).Str("name", name).Msg("secret created")
	return secret, nil
}

// UpdateField replaces one field of an existing secret. The value field
// is sealed before storage; other fields are stored as-is.
func (uc *ManageSecretsUseCase) UpdateField(ctx context.Context, id entity.SecretID, fieldID, value string) error {
	log := logging.FromContext(ctx)

	if !entity.ValidField(fieldID) {
		return fmt.Errorf("unknown secret field %q", fieldID)
	}

	secret, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	switch fieldID {
	case entity.FieldName:
		if value == "" {
			return fmt.Errorf("secret name cannot be empty")
		}
		secret.Name = value
	case entity.FieldUsername:
		secret.Username = value
	case entity.FieldNotes:
		secret.Notes = value
	case entity.FieldValue:
		sealed, err := uc.vault.Seal([]byte(value))
		if err != nil {
			return fmt.Errorf("seal secret value: %w", err)
		}
		secret.Value = sealed
	}
	secret.Touch()

	if err := uc.repo.Save(ctx, secret); err != nil {
		return fmt.Errorf("store secret: %w", err)
	}

	log.Info().
		Str("secret_id", string(id)).
		Str("field", fieldID).
		Msg("secret field updated")
	return nil
}

// Delete removes a secret.
func (uc *ManageSecretsUseCase) Delete(ctx context.Context, id entity.SecretID) error {
	log := logging.FromContext(ctx)

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("secret_id", string(id)).Msg("secret deleted")
	return nil
}

// CopyValue opens the sealed value and writes it to the clipboard.
// The plaintext is never logged.
func (uc *ManageSecretsUseCase) CopyValue(ctx context.Context, id entity.SecretID) error {
	log := logging.FromContext(ctx)

	secret, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	plaintext, err := uc.vault.Open(secret.Value)
	if err != nil {
		return fmt.Errorf("open secret value: %w", err)
	}

	if uc.clipboard == nil {
		return fmt.Errorf("clipboard not available")
	}
	if err := uc.clipboard.WriteText(ctx, string(plaintext)); err != nil {
		return err
	}

	log.Debug().Str("secret_id", string(id)).Msg("secret value copied to clipboard")
	return nil
}

// Reveal opens the sealed value for display.
func (uc *ManageSecretsUseCase) Reveal(ctx context.Context, id entity.SecretID) (string, error) {
	secret, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	plaintext, err := uc.vault.Open(secret.Value)
	if err != nil {
		return "", fmt.Errorf("open secret value: %w", err)
	}
	return string(plaintext), nil
}
