package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/stratum/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/core/ports/driven"
	"github.com/custodia-labs/stratum/internal/logger"
)

// DatabaseFileName is the element database created under a persistent
// instance's path.
const DatabaseFileName = "elements.db"

// Ensure Store implements the interface.
var _ driven.PersistentStore = (*Store)(nil)

// Store is the durable SQLite record of content elements. Each persistent
// index instance owns one database file inside its directory.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the element database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("sqlite store requires a data directory")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)

	// WAL mode for better concurrency between the writer and readers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveElement upserts the element's durable record. Children are not
// persisted; parent_id and position carry the hierarchy.
func (s *Store) SaveElement(ctx context.Context, element *domain.ContentElement) error {
	if err := element.Validate(); err != nil {
		return err
	}

	metadataJSON, err := json.Marshal(element.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	keywordsJSON, err := json.Marshal(element.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	var ingestedAt any
	if !element.IngestedAt.IsZero() {
		ingestedAt = element.IngestedAt.UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO elements (id, element_type, parent_id, uri, title, content,
			ingested_at, position, metadata, keywords, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			element_type = excluded.element_type,
			parent_id = excluded.parent_id,
			uri = excluded.uri,
			title = excluded.title,
			content = excluded.content,
			ingested_at = excluded.ingested_at,
			position = excluded.position,
			metadata = excluded.metadata,
			keywords = excluded.keywords,
			embedding = excluded.embedding
	`, element.ID, string(element.Type), element.ParentID, element.URI,
		element.Title, element.Text, ingestedAt, element.Position,
		string(metadataJSON), string(keywordsJSON), float32SliceToBytes(element.Embedding))

	if err != nil {
		return fmt.Errorf("saving element: %w", err)
	}
	return nil
}

// DeleteElement removes the record. Unknown ids are a no-op.
func (s *Store) DeleteElement(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM elements WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting element: %w", err)
	}
	return nil
}

// LoadAll returns every stored record as a flat, parent-referencing
// element. A row that fails to scan or decode is logged and skipped so
// one corrupt record never aborts the load.
func (s *Store) LoadAll(ctx context.Context) ([]*domain.ContentElement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, element_type, parent_id, uri, title, content,
			ingested_at, position, metadata, keywords, embedding
		FROM elements
	`)
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	var elements []*domain.ContentElement
	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			logger.Warn("Skipping unreadable element record: %v", err)
			continue
		}
		elements = append(elements, el)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating elements: %w", err)
	}
	return elements, nil
}

// Clear removes all element records.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM elements"); err != nil {
		return fmt.Errorf("clearing elements: %w", err)
	}
	return nil
}

// scanElement decodes one row into a flat element.
func scanElement(rows *sql.Rows) (*domain.ContentElement, error) {
	var (
		el            domain.ContentElement
		elementType   string
		ingestedAt    sql.NullTime
		metadataJSON  string
		keywordsJSON  string
		embeddingBlob []byte
	)

	if err := rows.Scan(&el.ID, &elementType, &el.ParentID, &el.URI, &el.Title,
		&el.Text, &ingestedAt, &el.Position, &metadataJSON, &keywordsJSON,
		&embeddingBlob); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	el.Type = domain.ElementType(elementType)
	switch el.Type {
	case domain.TypeChunk, domain.TypeLeafSection, domain.TypeContainerSection, domain.TypeContentRoot:
	default:
		return nil, fmt.Errorf("element %q: %w: %q", el.ID, domain.ErrUnsupportedType, elementType)
	}

	if ingestedAt.Valid {
		el.IngestedAt = ingestedAt.Time.UTC()
	}
	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &el.Metadata); err != nil {
			return nil, fmt.Errorf("element %q: decoding metadata: %w", el.ID, err)
		}
	}
	if keywordsJSON != "" && keywordsJSON != "null" {
		if err := json.Unmarshal([]byte(keywordsJSON), &el.Keywords); err != nil {
			return nil, fmt.Errorf("element %q: decoding keywords: %w", el.ID, err)
		}
	}
	el.Embedding = bytesToFloat32Slice(embeddingBlob)

	if err := el.Validate(); err != nil {
		return nil, fmt.Errorf("element %q: %w", el.ID, err)
	}
	return &el, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) < 4 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
