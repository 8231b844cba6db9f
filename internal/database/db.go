package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the users table when it does not exist yet. The
// unique keys on username and email are what makes registration safe
// under concurrency: duplicates are rejected by the insert itself, not
// by an application-level pre-check. The email key is case-insensitive
// because the column collation folds case and the repository lower-cases
// values before writing. The recovery columns are NULL together or set
// together; the repository only ever writes them as a pair.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id                       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			username                 VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
			email                    VARCHAR(255) NULL,
			password_hash            VARCHAR(100) NOT NULL,
			role                     VARCHAR(16)  NOT NULL DEFAULT 'STANDARD',
			recovery_code_hash       CHAR(64)     NULL,
			recovery_code_expires_at DATETIME     NULL,
			created_at               DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at               DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_username (username),
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`)
	return err
}
