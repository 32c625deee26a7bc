package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates every table the service needs.  Statements are
// idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name               VARCHAR(255) NULL,
		email              VARCHAR(255) NULL,
		username           VARCHAR(64)  NULL,
		phone              VARCHAR(32)  NULL,
		image              VARCHAR(1024) NULL,
		password_hash      VARCHAR(255) NOT NULL,
		password_hint      VARCHAR(255) NULL,
		role               ENUM('admin','user','member') NOT NULL DEFAULT 'user',
		reset_token_hash   CHAR(64) NULL,
		reset_token_expiry BIGINT NOT NULL DEFAULT 0,
		created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_username (username),
		KEY idx_users_reset_token (reset_token_hash)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id                    BIGINT UNSIGNED NOT NULL,
		company_name               VARCHAR(255) NOT NULL,
		email                      VARCHAR(255) NOT NULL,
		service                    ENUM('Business Automation','E-Commerce Website','SEO',
		                                'Creative Web Development','Meta Ads Marketing',
		                                'Custom Tech Solution') NOT NULL,
		contact_number             VARCHAR(32) NOT NULL,
		alternative_contact_number VARCHAR(32) NULL,
		state                      VARCHAR(128) NOT NULL,
		city                       VARCHAR(128) NOT NULL,
		address                    VARCHAR(512) NOT NULL,
		pincode                    VARCHAR(16) NOT NULL,
		status                     ENUM('Pending','Attended','Not Attended','Not Sure',
		                                'Purchased Service','Not Interested') NOT NULL DEFAULT 'Pending',
		created_at                 DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at                 DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_status (status),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS queries (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NULL,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255) NOT NULL,
		message    TEXT NOT NULL,
		status     ENUM('pending','resolved') NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_queries_status (status),
		KEY idx_queries_user (user_id),
		CONSTRAINT fk_queries_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		booking_id BIGINT UNSIGNED NOT NULL,
		rating     INT NOT NULL,
		feedback   TEXT NOT NULL,
		approved   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_reviews_user_booking (user_id, booking_id),
		KEY idx_reviews_approved (approved),
		CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_reviews_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS projects (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		thumbnail_url VARCHAR(1024) NOT NULL,
		live_url      VARCHAR(1024) NOT NULL,
		description   TEXT NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS analytics (
		date       CHAR(10) NOT NULL PRIMARY KEY,
		visitors   BIGINT NOT NULL DEFAULT 0,
		page_views BIGINT NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
