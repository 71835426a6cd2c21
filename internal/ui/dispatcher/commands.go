// Package dispatcher routes typed commands from the UI to use cases.
package dispatcher

import "github.com/castellan/castellan/internal/domain/entity"

// CreateSecretCommand stores a new secret.
type CreateSecretCommand struct {
	Name     string
	Username string
	Value    string
	Notes    string
}

func (CreateSecretCommand) CommandName() string { return "create_secret" }

// UpdateSecretFieldCommand replaces one field of an existing secret.
type UpdateSecretFieldCommand struct {
	ID      entity.SecretID
	FieldID string
	Value   string
}

func (UpdateSecretFieldCommand) CommandName() string { return "update_secret_field" }

// DeleteSecretCommand removes a secret.
type DeleteSecretCommand struct {
	ID entity.SecretID
}

func (DeleteSecretCommand) CommandName() string { return "delete_secret" }

// CopySecretValueCommand copies the decrypted value to the clipboard.
type CopySecretValueCommand struct {
	ID entity.SecretID
}

func (CopySecretValueCommand) CommandName() string { return "copy_secret_value" }

// QuitCommand shuts the application down.
type QuitCommand struct{}

func (QuitCommand) CommandName() string { return "quit" }
