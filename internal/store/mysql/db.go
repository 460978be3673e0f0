package mysql

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open opens a MySQL database using the go-sql-driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the HelpLink schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		// Users
		`CREATE TABLE IF NOT EXISTS users (
			id                  BIGINT AUTO_INCREMENT PRIMARY KEY,
			first_name          VARCHAR(50)  NOT NULL,
			last_name           VARCHAR(50)  NOT NULL,
			email               VARCHAR(100) NOT NULL UNIQUE,
			password_hash       VARCHAR(255) NOT NULL,
			address             VARCHAR(255),
			age                 INT,
			number              VARCHAR(20),
			account_type        ENUM('beneficiary','donor','volunteer','verified_organization') NOT NULL DEFAULT 'beneficiary',
			badge               ENUM('under_review','verified','rejected') NOT NULL DEFAULT 'under_review',
			profile_image       VARCHAR(255),
			verification_selfie VARCHAR(255),
			valid_id            VARCHAR(255),
			created_at          TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_logon          TIMESTAMP    NULL
		)`,

		// Chats. pair_key is the canonical "min:max" user-id pair for private
		// chats; its uniqueness is what makes concurrent get-or-create safe.
		`CREATE TABLE IF NOT EXISTS chats (
			id              BIGINT AUTO_INCREMENT PRIMARY KEY,
			type            ENUM('private','group') NOT NULL,
			last_message_id BIGINT      NULL,
			pair_key        VARCHAR(50) NULL UNIQUE,
			created_at      TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS chat_participants (
			chat_id   BIGINT    NOT NULL,
			user_id   BIGINT    NOT NULL,
			joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (chat_id, user_id),
			FOREIGN KEY (chat_id) REFERENCES chats(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			chat_id      BIGINT    NOT NULL,
			sender_id    BIGINT    NOT NULL,
			content      TEXT      NOT NULL,
			message_type ENUM('text','photo','video') NOT NULL DEFAULT 'text',
			created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (chat_id) REFERENCES chats(id),
			FOREIGN KEY (sender_id) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS message_media (
			id            BIGINT AUTO_INCREMENT PRIMARY KEY,
			message_id    BIGINT       NOT NULL,
			media_type    VARCHAR(10)  NOT NULL,
			media_url     VARCHAR(255) NOT NULL,
			thumbnail_url VARCHAR(255),
			FOREIGN KEY (message_id) REFERENCES messages(id)
		)`,

		`CREATE TABLE IF NOT EXISTS message_status (
			message_id BIGINT    NOT NULL,
			user_id    BIGINT    NOT NULL,
			status     ENUM('sent','delivered','seen') NOT NULL DEFAULT 'sent',
			seen_at    TIMESTAMP NULL,
			PRIMARY KEY (message_id, user_id),
			FOREIGN KEY (message_id) REFERENCES messages(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		// Posts
		`CREATE TABLE IF NOT EXISTS posts (
			id          BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id     BIGINT       NOT NULL,
			post_type   ENUM('donation','request') NOT NULL,
			title       VARCHAR(255) NOT NULL,
			description TEXT,
			address     VARCHAR(255),
			latitude    DOUBLE,
			longitude   DOUBLE,
			status      ENUM('active','closed','pending') NOT NULL DEFAULT 'active',
			created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS post_photos (
			id        BIGINT AUTO_INCREMENT PRIMARY KEY,
			post_id   BIGINT       NOT NULL,
			photo_url VARCHAR(255) NOT NULL,
			FOREIGN KEY (post_id) REFERENCES posts(id)
		)`,

		`CREATE TABLE IF NOT EXISTS post_videos (
			id        BIGINT AUTO_INCREMENT PRIMARY KEY,
			post_id   BIGINT       NOT NULL,
			video_url VARCHAR(255) NOT NULL,
			FOREIGN KEY (post_id) REFERENCES posts(id)
		)`,

		`CREATE TABLE IF NOT EXISTS post_reactions (
			post_id       BIGINT      NOT NULL,
			user_id       BIGINT      NOT NULL,
			reaction_type VARCHAR(20) NOT NULL DEFAULT 'like',
			created_at    TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (post_id, user_id),
			FOREIGN KEY (post_id) REFERENCES posts(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS donators (
			id                  BIGINT AUTO_INCREMENT PRIMARY KEY,
			post_id             BIGINT,
			user_id             BIGINT        NOT NULL,
			amount              DECIMAL(12,2) NOT NULL,
			message             TEXT,
			verification_status ENUM('pending','ongoing','fulfilled') NOT NULL DEFAULT 'pending',
			created_at          TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (post_id) REFERENCES posts(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS donator_proofs (
			id         BIGINT AUTO_INCREMENT PRIMARY KEY,
			donator_id BIGINT       NOT NULL,
			image_url  VARCHAR(255) NOT NULL,
			created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (donator_id) REFERENCES donators(id)
		)`,

		`CREATE TABLE IF NOT EXISTS supporters (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			post_id      BIGINT,
			user_id      BIGINT    NOT NULL,
			support_type ENUM('share','volunteer','advocate','other') NOT NULL DEFAULT 'share',
			message      TEXT,
			created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (post_id) REFERENCES posts(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		`CREATE TABLE IF NOT EXISTS supporter_proofs (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			supporter_id BIGINT       NOT NULL,
			image_url    VARCHAR(255) NOT NULL,
			created_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (supporter_id) REFERENCES supporters(id)
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id         BIGINT AUTO_INCREMENT PRIMARY KEY,
			post_id    BIGINT    NOT NULL,
			user_id    BIGINT    NOT NULL,
			content    TEXT      NOT NULL,
			parent_id  BIGINT,
			status     ENUM('visible','hidden','deleted') NOT NULL DEFAULT 'visible',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (post_id) REFERENCES posts(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		// Indexes. MySQL has no CREATE INDEX IF NOT EXISTS; duplicate-name
		// errors on re-runs are ignored below.
		`CREATE INDEX idx_chat_participants_user ON chat_participants(user_id)`,
		`CREATE INDEX idx_messages_chat_created ON messages(chat_id, created_at DESC)`,
		`CREATE INDEX idx_message_status_user ON message_status(user_id)`,
		`CREATE INDEX idx_posts_type_status ON posts(post_type, status)`,
		`CREATE INDEX idx_posts_user ON posts(user_id)`,
		`CREATE INDEX idx_comments_post ON comments(post_id)`,
		`CREATE INDEX idx_donators_post ON donators(post_id)`,
		`CREATE INDEX idx_donators_user ON donators(user_id)`,
		`CREATE INDEX idx_supporters_post ON supporters(post_id)`,
		`CREATE INDEX idx_supporters_user ON supporters(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			if isDuplicateKeyName(err) {
				continue
			}
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
