// Package state persists dashboard state between runs: a small key/value
// table plus a history of saved scenarios, in SQLite.
package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"botfarm/pkg/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// CurrentScenarioKey holds the last saved scenario.
const CurrentScenarioKey = "currentScenario"

var ErrNotFound = errors.New("state: key not found")

// ClearScenario forgets the current scenario. History is kept.
func (s *Store) ClearScenario() error {
	return s.Delete(CurrentScenarioKey)
}

// HistoryItem is one saved scenario, newest first in listings.
type HistoryItem struct {
	ID       string                `json:"id"`
	Type     models.ScenarioType   `json:"type"`
	Name     string                `json:"name"`
	Scenario models.ScenarioConfig `json:"scenario"`
	SavedAt  time.Time             `json:"saved_at"`
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scenario_history (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		scenario TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize tables: %w", err)
	}
	return nil
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// SaveScenario stores cfg as the current scenario and appends it to the history.
func (s *Store) SaveScenario(cfg models.ScenarioConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, CurrentScenarioKey, string(data), now); err != nil {
		return fmt.Errorf("failed to save current scenario: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO scenario_history (id, type, name, scenario, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), string(cfg.Type), cfg.Name, string(data), now); err != nil {
		return fmt.Errorf("failed to record scenario history: %w", err)
	}

	return tx.Commit()
}

// LoadScenario returns the current scenario, or ErrNotFound if none was saved.
func (s *Store) LoadScenario() (*models.ScenarioConfig, error) {
	value, err := s.Get(CurrentScenarioKey)
	if err != nil {
		return nil, err
	}

	var cfg models.ScenarioConfig
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse saved scenario: %w", err)
	}
	return &cfg, nil
}

// History lists saved scenarios newest first, at most limit rows (0 = all).
func (s *Store) History(limit int) ([]HistoryItem, error) {
	query := `
		SELECT id, type, name, scenario, saved_at
		FROM scenario_history
		ORDER BY rowid DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario history: %w", err)
	}
	defer rows.Close()

	items := []HistoryItem{}
	for rows.Next() {
		var item HistoryItem
		var typ, data string
		if err := rows.Scan(&item.ID, &typ, &item.Name, &data, &item.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario history: %w", err)
		}
		item.Type = models.ScenarioType(typ)
		if err := json.Unmarshal([]byte(data), &item.Scenario); err != nil {
			return nil, fmt.Errorf("failed to parse history entry %s: %w", item.ID, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenario history: %w", err)
	}

	return items, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
