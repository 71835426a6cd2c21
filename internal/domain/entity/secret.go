// Package entity contains the domain model.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SecretID uniquely identifies a secret.
type SecretID string

// Secret field ids used by editing state and update commands.
const (
	FieldName     = "name"
	FieldUsername = "username"
	FieldValue    = "value"
	FieldNotes    = "notes"
)

// Secret is a stored credential. Value holds the sealed (encrypted)
// secret material; plaintext never leaves the vault boundary except for
// clipboard copy and explicit reveal.
type Secret struct {
	ID        SecretID
	Name      string
	Username  string
	Value     []byte
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSecret creates a secret with a fresh id and timestamps.
func NewSecret(name, username string, sealedValue []byte, notes string) *Secret {
	now := time.Now().UTC()
	return &Secret{
		ID:        SecretID(uuid.NewString()),
		Name:      name,
		Username:  username,
		Value:     sealedValue,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (s *Secret) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// ValidField reports whether id names an editable secret field.
func ValidField(id string) bool {
	switch id {
	case FieldName, FieldUsername, FieldValue, FieldNotes:
		return true
	default:
		return false
	}
}
