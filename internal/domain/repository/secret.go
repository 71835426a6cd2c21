// Package repository defines persistence interfaces for the domain model.
package repository

//go:generate mockgen -source=secret.go -destination=mocks/mock_secret.go

import (
	"context"
	"errors"

	"github.com/castellan/castellan/internal/domain/entity"
)

// ErrSecretNotFound is returned when a secret id does not exist.
var ErrSecretNotFound = errors.New("secret not found")

// SecretRepository defines operations for secret persistence.
type SecretRepository interface {
	// Save creates or updates a secret.
	Save(ctx context.Context, secret *entity.Secret) error

	// FindByID retrieves a secret by its id.
	// Returns ErrSecretNotFound when the id does not exist.
	FindByID(ctx context.Context, id entity.SecretID) (*entity.Secret, error)

	// GetAll retrieves all secrets ordered by name.
	GetAll(ctx context.Context) ([]*entity.Secret, error)

	// Delete removes a secret by id.
	// Returns ErrSecretNotFound when the id does not exist.
	Delete(ctx context.Context, id entity.SecretID) error
}
