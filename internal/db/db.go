package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only
)

// Connect opens the search cache database and ensures the schema exists.
// The parent directory is created when missing.
func Connect(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

func createSchema(db *sql.DB) error {
	cacheTable := `
	CREATE TABLE IF NOT EXISTS search_cache (
		cache_key TEXT PRIMARY KEY,
		query_text TEXT NOT NULL,
		response BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_search_cache_query ON search_cache(query_text);
	`
	_, err := db.Exec(cacheTable)
	return err
}

// CacheKey identifies a search by query text, data types and page size.
func CacheKey(query string, dataTypes []string, pageSize int) string {
	return query + "|" + strings.Join(dataTypes, ",") + "|" + strconv.Itoa(pageSize)
}

// GetCachedSearch returns a stored response body. sql.ErrNoRows on miss.
func GetCachedSearch(db *sql.DB, key string) ([]byte, error) {
	var blob []byte
	err := db.QueryRow("SELECT response FROM search_cache WHERE cache_key = ?", key).Scan(&blob)
	return blob, err
}

// SaveCachedSearch stores or replaces a response body.
func SaveCachedSearch(db *sql.DB, key, queryText string, body []byte) error {
	_, err := db.Exec(`
		INSERT INTO search_cache (cache_key, query_text, response, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cache_key) DO UPDATE SET
		  response = excluded.response,
		  created_at = CURRENT_TIMESTAMP`,
		key, queryText, body)
	return err
}

// --- History Management ---

// HistoryEntry is one cached search as listed by `cache history`.
type HistoryEntry struct {
	QueryText string
	CacheKey  string
	CreatedAt time.Time
}

// ListSearchHistory returns all cached searches, newest first.
func ListSearchHistory(db *sql.DB) ([]HistoryEntry, error) {
	rows, err := db.Query("SELECT query_text, cache_key, created_at FROM search_cache ORDER BY created_at DESC, cache_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.QueryText, &e.CacheKey, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearSearchHistory removes every cached search for a query.
func ClearSearchHistory(db *sql.DB, queryText string) (int64, error) {
	res, err := db.Exec("DELETE FROM search_cache WHERE lower(query_text) = lower(?)", queryText)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAllSearchHistory wipes the entire cache.
func ClearAllSearchHistory(db *sql.DB) (int64, error) {
	res, err := db.Exec("DELETE FROM search_cache")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
