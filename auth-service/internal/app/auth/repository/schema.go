package repository

import (
	"context"
	"fmt"
)

// usersSchema - таблица users принадлежит Auth Service.
// Events Service ссылается на нее и создает свои таблицы только после нее.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id                     UUID PRIMARY KEY,
	email                  VARCHAR(255) NOT NULL UNIQUE,
	username               VARCHAR(50)  NOT NULL UNIQUE,
	password_hash          VARCHAR(255) NOT NULL,
	is_admin               BOOLEAN      NOT NULL DEFAULT FALSE,
	reset_token_hash       VARCHAR(64),
	reset_token_expires_at TIMESTAMPTZ,
	created_at             TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at             TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_reset_token_hash ON users (reset_token_hash);
`

// EnsureSchema создает таблицу users, если ее еще нет
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("failed to ensure users schema: %w", err)
	}
	return nil
}
