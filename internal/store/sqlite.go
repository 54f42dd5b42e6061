package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL
);
`

// documentKey is the single key the application document lives under.
const documentKey = "quizzineApp"

// SQLiteStore keeps the document as one JSON blob in a key/value table.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load() Document {
	var raw []byte
	err := s.db.QueryRow("SELECT data FROM documents WHERE key = ?", documentKey).Scan(&raw)
	if err == sql.ErrNoRows {
		doc := Defaults()
		if serr := s.Save(doc); serr != nil {
			s.logger.Error("failed to persist default document", "error", serr)
		}
		return doc
	}
	if err != nil {
		s.logger.Error("failed to read stored document", "error", err)
		return Defaults()
	}

	doc, clean := decode(raw)
	if !clean {
		s.logger.Warn("stored document repaired on load", "schemaVersion", doc.SchemaVersion)
		if serr := s.Save(doc); serr != nil {
			s.logger.Error("failed to persist repaired document", "error", serr)
		}
	}
	return doc
}

func (s *SQLiteStore) Save(doc Document) error {
	doc.SchemaVersion = SchemaVersion
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return s.writeRaw(raw)
}

func (s *SQLiteStore) Reset() error {
	return s.Save(Defaults())
}

func (s *SQLiteStore) Export() ([]byte, error) {
	return json.MarshalIndent(s.Load(), "", "  ")
}

func (s *SQLiteStore) Import(blob []byte) bool {
	if !json.Valid(blob) {
		s.logger.Warn("import rejected: not valid JSON")
		return false
	}
	if err := s.writeRaw(blob); err != nil {
		s.logger.Error("import failed to write document", "error", err)
		return false
	}
	return true
}

func (s *SQLiteStore) writeRaw(raw []byte) error {
	_, err := s.db.Exec(
		"INSERT INTO documents (key, data) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET data = excluded.data",
		documentKey, string(raw),
	)
	return err
}
