package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/castellan/castellan/internal/domain/entity"
	"github.com/castellan/castellan/internal/domain/repository"
	"github.com/castellan/castellan/internal/logging"
)

type secretRepo struct {
	db *sql.DB
}

// NewSecretRepository creates a new SQLite-backed secret repository.
func NewSecretRepository(db *sql.DB) repository.SecretRepository {
	return &secretRepo{db: db}
}

func (r *secretRepo) Save(ctx context.Context, secret *entity.Secret) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("secret_id", string(secret.ID)).Msg("saving secret")

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO secrets (id, name, username, value, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			username = excluded.username,
			value = excluded.value,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		string(secret.ID), secret.Name, secret.Username, secret.Value,
		secret.Notes, secret.CreatedAt, secret.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save secret: %w", err)
	}
	return nil
}

func (r *secretRepo) FindByID(ctx context.Context, id entity.SecretID) (*entity.Secret, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, username, value, notes, created_at, updated_at
		FROM secrets WHERE id = ?`, string(id))

	secret, err := scanSecret(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSecretNotFound
		}
		return nil, fmt.Errorf("find secret: %w", err)
	}
	return secret, nil
}

func (r *secretRepo) GetAll(ctx context.Context) ([]*entity.Secret, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, username, value, notes, created_at, updated_at
		FROM secrets ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var secrets []*entity.Secret
	for rows.Next() {
		secret, err := scanSecret(rows)
		if err != nil {
			return nil, fmt.Errorf("scan secret: %w", err)
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	return secrets, nil
}

func (r *secretRepo) Delete(ctx context.Context, id entity.SecretID) error {
	log := logging.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	if affected == 0 {
		return repository.ErrSecretNotFound
	}

	log.Debug().Str("secret_id", string(id)).Msg("secret deleted")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSecret(row rowScanner) (*entity.Secret, error) {
	var secret entity.Secret
	var id string
	if err := row.Scan(
		&id, &secret.Name, &secret.Username, &secret.Value,
		&secret.Notes, &secret.CreatedAt, &secret.UpdatedAt,
	); err != nil {
		return nil, err
	}
	secret.ID = entity.SecretID(id)
	return &secret, nil
}
