package migrations

import (
	"context"
	"fmt"
	"time"

	"starwars-api/internal/database"
	"starwars-api/internal/entity"
)

const defaultRetryDelay = time.Second

// retryDelay is the pause between attempts at creating a table.
var retryDelay = defaultRetryDelay

// AutoMigrate creates every table the API needs if it does not exist yet.
func AutoMigrate(ctx context.Context, db *database.DB, retries int) error {
	for _, query := range Statements(db.Dialect) {
		if err := execWithRetry(ctx, db, query, retries); err != nil {
			return err
		}
	}
	return nil
}

// Statements returns the CREATE TABLE statements for the dialect, parents
// before children.
func Statements(d database.Dialect) []string {
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			%s,
			email VARCHAR(250) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL
		)`, idColumn(d)),
	}

	for _, kind := range entity.Kinds {
		statements = append(statements, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s,
			name VARCHAR(50) NOT NULL UNIQUE,
			description VARCHAR(500) NULL
		)`, kind.Table(), idColumn(d)))
	}

	for _, kind := range entity.Kinds {
		statements = append(statements, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			%[2]s,
			user_id INT NOT NULL,
			%[3]s INT NOT NULL,
			UNIQUE (user_id, %[3]s),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (%[3]s) REFERENCES %[4]s(id) ON DELETE CASCADE
		)`, kind.FavoriteTable(), idColumn(d), kind.ForeignKey(), kind.Table()))
	}

	return statements
}

func idColumn(d database.Dialect) string {
	switch d {
	case database.Postgres:
		return "id SERIAL PRIMARY KEY"
	case database.MySQL:
		return "id INT AUTO_INCREMENT PRIMARY KEY"
	default:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

func execWithRetry(ctx context.Context, db *database.DB, query string, retries int) error {
	_, err := db.ExecContext(ctx, query)
	for i := 0; err != nil && i < retries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
		_, err = db.ExecContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}
	return nil
}
