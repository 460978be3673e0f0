// Package sqlite is a lightweight store for the messaging core, backed by
// modernc.org/sqlite. It serves local development and the store-level tests;
// production deployments use the mysql store.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database. Use ":memory:" for an ephemeral instance.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps an in-memory database alive and avoids
	// table-lock contention.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate creates the messaging-core schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name          TEXT NOT NULL,
			last_name           TEXT NOT NULL,
			email               TEXT NOT NULL UNIQUE,
			password_hash       TEXT NOT NULL,
			address             TEXT,
			age                 INTEGER,
			number              TEXT,
			account_type        TEXT NOT NULL DEFAULT 'beneficiary',
			badge               TEXT NOT NULL DEFAULT 'under_review',
			profile_image       TEXT,
			verification_selfie TEXT,
			valid_id            TEXT,
			created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_logon          DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS chats (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			type            TEXT NOT NULL,
			last_message_id INTEGER,
			pair_key        TEXT UNIQUE,
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS chat_participants (
			chat_id   INTEGER NOT NULL,
			user_id   INTEGER NOT NULL,
			joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (chat_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id      INTEGER NOT NULL,
			sender_id    INTEGER NOT NULL,
			content      TEXT NOT NULL,
			message_type TEXT NOT NULL DEFAULT 'text',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS message_media (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id    INTEGER NOT NULL,
			media_type    TEXT NOT NULL,
			media_url     TEXT NOT NULL,
			thumbnail_url TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS message_status (
			message_id INTEGER NOT NULL,
			user_id    INTEGER NOT NULL,
			status     TEXT NOT NULL DEFAULT 'sent',
			seen_at    DATETIME,
			PRIMARY KEY (message_id, user_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_chat_participants_user ON chat_participants(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
