// Package database opens the MySQL connection pool and bootstraps the
// schema.
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

// schema is applied at startup. Deleting a movie cascades to its shows and
// ratings through the foreign keys. Note that ratings deliberately carry no
// unique (username, movie_id) index: the one-rating-per-pair rule lives in
// the service-level upsert.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
        id            BIGINT       NOT NULL AUTO_INCREMENT,
        name          VARCHAR(255) NOT NULL,
        duration_mins SMALLINT     NOT NULL,
        imdb_id       VARCHAR(24)  NOT NULL,
        PRIMARY KEY (id),
        UNIQUE KEY uq_movies_imdb_id (imdb_id)
    )`,
	`CREATE TABLE IF NOT EXISTS shows (
        id          BIGINT       NOT NULL AUTO_INCREMENT,
        movie_id    BIGINT       NOT NULL,
        date        DATETIME     NOT NULL,
        price_cents INT          NOT NULL,
        room        VARCHAR(255) NOT NULL,
        PRIMARY KEY (id),
        KEY idx_shows_movie_id (movie_id),
        CONSTRAINT fk_shows_movie FOREIGN KEY (movie_id)
            REFERENCES movies (id) ON DELETE CASCADE
    )`,
	`CREATE TABLE IF NOT EXISTS ratings (
        id       BIGINT       NOT NULL AUTO_INCREMENT,
        username VARCHAR(255) NOT NULL,
        movie_id BIGINT       NOT NULL,
        value    SMALLINT     NOT NULL,
        PRIMARY KEY (id),
        KEY idx_ratings_username_movie (username, movie_id),
        CONSTRAINT fk_ratings_movie FOREIGN KEY (movie_id)
            REFERENCES movies (id) ON DELETE CASCADE
    )`,
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
