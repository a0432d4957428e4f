// Package store keeps finished summaries so they can be fetched or downloaded later.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oarkflow/json"
	"github.com/oarkflow/squealx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("summary not found")

const schema = `CREATE TABLE IF NOT EXISTS summaries (
	id          TEXT PRIMARY KEY,
	summary     TEXT NOT NULL,
	method      TEXT NOT NULL,
	keywords    TEXT NOT NULL DEFAULT '[]',
	language    TEXT NOT NULL DEFAULT '',
	translation TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
)`

type Config struct {
	Driver string `json:"driver" yaml:"driver" bcl:"driver"`
	DSN    string `json:"dsn" yaml:"dsn" bcl:"dsn"`
}

func DefaultConfig() Config {
	return Config{Driver: "sqlite", DSN: "textrank.db"}
}

// Record is one stored summary.
type Record struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Method      string    `json:"method"`
	Keywords    []string  `json:"keywords"`
	Language    string    `json:"language,omitempty"`
	Translation string    `json:"translation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type row struct {
	ID          string `db:"id"`
	Summary     string `db:"summary"`
	Method      string `db:"method"`
	Keywords    string `db:"keywords"`
	Language    string `db:"language"`
	Translation string `db:"translation"`
	CreatedAt   string `db:"created_at"`
}

type Store struct {
	db *squealx.DB
}

// Open connects to the database and creates the summaries table when missing.
func Open(cfg Config) (*Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = DefaultConfig().Driver
	}
	if cfg.DSN == "" {
		cfg.DSN = DefaultConfig().DSN
	}
	db, err := squealx.Open(cfg.Driver, cfg.DSN, "textrank")
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s store: %w", cfg.Driver, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create summaries table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec and returns its id. An empty ID gets a fresh UUID and a zero
// CreatedAt is set to now.
func (s *Store) Save(ctx context.Context, rec Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Keywords == nil {
		rec.Keywords = []string{}
	}
	kw, err := json.Marshal(rec.Keywords)
	if err != nil {
		return "", fmt.Errorf("encode keywords: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO summaries (id, summary, method, keywords, language, translation, created_at)
		VALUES (:id, :summary, :method, :keywords, :language, :translation, :created_at)`, map[string]any{
		"id":          rec.ID,
		"summary":     rec.Summary,
		"method":      rec.Method,
		"keywords":    string(kw),
		"language":    rec.Language,
		"translation": rec.Translation,
		"created_at":  rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("insert summary: %w", err)
	}
	return rec.ID, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrNotFound
	}
	var rows []row
	err := s.db.Select(&rows, `SELECT id, summary, method, keywords, language, translation, created_at
		FROM summaries WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return Record{}, fmt.Errorf("select summary %s: %w", id, err)
	}
	if len(rows) == 0 {
		return Record{}, ErrNotFound
	}
	return rows[0].record()
}

func (r row) record() (Record, error) {
	rec := Record{
		ID:          r.ID,
		Summary:     r.Summary,
		Method:      r.Method,
		Language:    r.Language,
		Translation: r.Translation,
	}
	if err := json.Unmarshal([]byte(r.Keywords), &rec.Keywords); err != nil {
		return Record{}, fmt.Errorf("decode keywords of %s: %w", r.ID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("decode created_at of %s: %w", r.ID, err)
	}
	rec.CreatedAt = created
	return rec, nil
}
