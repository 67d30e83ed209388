package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens the embedded SQLite database at the given path.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows exactly one writer; serialize access through one
	// connection instead of fighting over the write lock.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	log.Println("✅ SQLite database connected")
	return &DB{db}, nil
}

// migration is one numbered schema step. Steps run in order inside a
// transaction and are recorded in schema_migrations.
type migration struct {
	version int
	stmt    string
}

var migrations = []migration{
	{1, `CREATE TABLE IF NOT EXISTS author_contexts (
		user_id TEXT PRIMARY KEY,
		context_data TEXT NOT NULL,
		last_updated TIMESTAMP NOT NULL,
		total_sessions INTEGER NOT NULL DEFAULT 0,
		total_words_created INTEGER NOT NULL DEFAULT 0
	)`},
	{2, `CREATE TABLE IF NOT EXISTS vibecode_sessions (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP,
		session_data TEXT NOT NULL,
		session_status TEXT NOT NULL,
		total_input_words INTEGER NOT NULL DEFAULT 0
	)`},
	{3, `CREATE INDEX IF NOT EXISTS idx_sessions_user_start
		ON vibecode_sessions(user_id, start_time)`},
	{4, `CREATE TABLE IF NOT EXISTS voice_inputs (
		input_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		input_data TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		confidence REAL NOT NULL,
		intent TEXT NOT NULL
	)`},
	{5, `CREATE INDEX IF NOT EXISTS idx_voice_inputs_user_ts
		ON voice_inputs(user_id, timestamp)`},
	{6, `CREATE TABLE IF NOT EXISTS context_synthesis_history (
		synthesis_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		synthesis_data TEXT NOT NULL,
		quality_score REAL NOT NULL,
		coherence_score REAL NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`},
	{7, `CREATE INDEX IF NOT EXISTS idx_synthesis_user_ts
		ON context_synthesis_history(user_id, timestamp)`},
	{8, `CREATE TABLE IF NOT EXISTS success_metrics (
		metric_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT,
		metric_type TEXT NOT NULL,
		metric_data TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`},
	{9, `CREATE INDEX IF NOT EXISTS idx_metrics_user
		ON success_metrics(user_id, metric_type)`},
}

// Initialize creates the schema and applies any pending migrations.
func (db *DB) Initialize() error {
	log.Println("🔍 Checking database schema...")

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		log.Printf("📦 Running migration %d", m.version)
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to start migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			m.version, time.Now().UTC()); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	log.Println("✅ Database initialized successfully")
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	return v, err
}
