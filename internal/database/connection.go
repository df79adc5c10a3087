package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// driverName records which backend Connect chose ("sqlite3" or "postgres").
var driverName string

// Connect establishes a connection to the database. The backend is selected
// by the DB_TYPE environment variable: "postgres" connects via DATABASE_URL,
// anything else opens a local SQLite file (SQLITE_PATH, default
// data/studycram.db).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")

	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		DB = db
		driverName = "postgres"
		return initializeSchema()
	}

	dbPath := os.Getenv("SQLITE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join("data", "studycram.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	driverName = "sqlite3"
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// isPostgres reports whether the active backend is PostgreSQL.
func isPostgres() bool {
	return driverName == "postgres"
}

// initializeSchema creates necessary tables if they don't exist. Review
// timestamps are stored as Unix milliseconds so schedule math round-trips
// without precision loss and due queries are identical on both backends.
func initializeSchema() error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if isPostgres() {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS card_progress (
				%s,
				user_id TEXT NOT NULL,
				study_set_id TEXT NOT NULL DEFAULT '',
				card_id TEXT NOT NULL,
				ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
				interval_days INTEGER NOT NULL DEFAULT 0,
				repetitions INTEGER NOT NULL DEFAULT 0,
				next_review_at BIGINT NOT NULL DEFAULT 0,
				last_review_at BIGINT NOT NULL DEFAULT 0,
				last_answered_correct BOOLEAN NOT NULL DEFAULT FALSE,
				total_reviews INTEGER NOT NULL DEFAULT 0,
				correct_reviews INTEGER NOT NULL DEFAULT 0,
				avg_response_time_ms DOUBLE PRECISION,
				version BIGINT NOT NULL DEFAULT 1,
				UNIQUE(user_id, study_set_id, card_id)
			)
		`, idColumn),
		`CREATE INDEX IF NOT EXISTS idx_card_progress_due ON card_progress (user_id, next_review_at)`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS review_history (
				%s,
				user_id TEXT NOT NULL,
				study_set_id TEXT NOT NULL DEFAULT '',
				card_id TEXT NOT NULL,
				quality INTEGER NOT NULL,
				correct BOOLEAN NOT NULL,
				reviewed_at BIGINT NOT NULL,
				response_time_ms BIGINT
			)
		`, idColumn),
		`CREATE INDEX IF NOT EXISTS idx_review_history_card ON review_history (user_id, study_set_id, card_id, reviewed_at)`,
		`
			CREATE TABLE IF NOT EXISTS notification_subscriptions (
				user_id TEXT PRIMARY KEY,
				chat_id BIGINT NOT NULL,
				notify_hour INTEGER NOT NULL DEFAULT 9,
				enabled BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}

	return nil
}
