// Package sqlite provides a SQLite-backed lead store for development and
// self-hosted deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wefitness/signup/pkg/models"
)

// errLeadNotFound is returned when a lead id is unknown.
var errLeadNotFound = errors.New("lead not found")

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id           TEXT PRIMARY KEY,
	phone        TEXT NOT NULL,
	fitness_goal TEXT NOT NULL,
	submitted_at INTEGER NOT NULL,
	document     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS leads_phone_idx ON leads (phone);
`

// Store persists lead documents in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// InsertLead stores doc and returns its generated id.
func (s *Store) InsertLead(ctx context.Context, doc models.LeadDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}

	submittedAt := doc.SubmittedAt.UTC()
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}
	doc.SubmittedAt = submittedAt

	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode lead: %w", err)
	}

	id := uuid.NewString()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO leads (id, phone, fitness_goal, submitted_at, document) VALUES (?, ?, ?, ?, ?)`,
		id, doc.Phone, doc.FitnessGoal, submittedAt.UnixMilli(), string(encoded),
	)
	if err != nil {
		return "", fmt.Errorf("insert lead: %w", err)
	}
	return id, nil
}

// getLead loads a stored lead document.
func (s *Store) getLead(ctx context.Context, id string) (models.LeadDocument, error) {
	var raw string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT document FROM leads WHERE id = ?`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LeadDocument{}, errLeadNotFound
		}
		return models.LeadDocument{}, fmt.Errorf("get lead: %w", err)
	}

	var doc models.LeadDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return models.LeadDocument{}, fmt.Errorf("decode lead: %w", err)
	}
	return doc, nil
}

// countLeads returns the number of stored leads.
func (s *Store) countLeads(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}
