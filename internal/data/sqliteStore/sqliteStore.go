// Package sqliteStore is the embedded DocumentStore, used when no Postgres
// URL is configured.
package sqliteStore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/akolanti/ContractRAG/internal/data/sqliteStore/migrations"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

// Fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db     *sql.DB
	path   string
	logger *logger_i.Logger
}

var _ commonModels.DocumentStore = (*Store)(nil)

// Open creates dataDir if needed and opens (or creates) the database file
// inside it, applying pending migrations.
func Open(dataDir, fileName string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, fileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:     db,
		path:   dbPath,
		logger: logger_i.NewLogger("SQLiteStore"),
	}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	s.logger.Info("SQLite document store ready", "path", dbPath)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

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
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
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

func persistence(detail string, err error) error {
	return errorModel.Wrap(errorModel.KindPersistence, detail, err)
}

func notFound(id string) error {
	return errorModel.New(errorModel.KindNotFound, "Document with ID "+id+" not found")
}

func (s *Store) CreateDocument(ctx context.Context, doc commonModels.Document) error {
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return persistence("encoding document metadata", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, file_size, extracted_text, status, uploaded_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.Id, doc.Filename, doc.FileSize, doc.Text, string(doc.Status),
		doc.UploadedAt.UTC().Format(timeLayout), string(metadata))
	if err != nil {
		return persistence("saving document", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (commonModels.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, file_size, extracted_text, status, uploaded_at, metadata
		FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return commonModels.Document{}, notFound(id)
	}
	if err != nil {
		return commonModels.Document{}, persistence("loading document", err)
	}
	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, file_size, '', status, uploaded_at, metadata
		FROM documents ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, persistence("listing documents", err)
	}
	defer rows.Close()

	var docs []commonModels.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, persistence("reading document row", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("listing documents", err)
	}
	return docs, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status commonModels.DocStatus) error {
	res, err := s.db.ExecContext(ctx, "UPDATE documents SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return persistence("updating document status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

// SaveChunks replaces the document's chunks and marks it ingested in a
// single transaction.
func (s *Store) SaveChunks(ctx context.Context, documentId string, chunks []commonModels.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_chunks WHERE document_id = ?", documentId); err != nil {
		return persistence("clearing chunks", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (id, document_id, chunk_index, chunk_text, page_number, char_start, char_end, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return persistence("preparing chunk insert", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		var blob []byte
		if c.HasEmbedding() {
			blob = float32SliceToBytes(c.Embedding)
		}
		if _, err := stmt.ExecContext(ctx, c.Id, documentId, c.Index, c.Text,
			nullInt(c.Page), nullInt(c.CharStart), nullInt(c.CharEnd), blob); err != nil {
			return persistence(fmt.Sprintf("inserting chunk %d", c.Index), err)
		}
	}

	res, err := tx.ExecContext(ctx, "UPDATE documents SET status = ? WHERE id = ?",
		string(commonModels.DocStatusIngested), documentId)
	if err != nil {
		return persistence("marking document ingested", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(documentId)
	}

	if err := tx.Commit(); err != nil {
		return persistence("committing chunks", err)
	}
	return nil
}

func (s *Store) GetChunks(ctx context.Context, documentId string) ([]commonModels.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_index, chunk_text, page_number, char_start, char_end, embedding
		FROM document_chunks WHERE document_id = ? ORDER BY chunk_index`, documentId)
	if err != nil {
		return nil, persistence("loading chunks", err)
	}
	defer rows.Close()

	var chunks []commonModels.Chunk
	for rows.Next() {
		var c commonModels.Chunk
		var page, start, end sql.NullInt64
		var blob []byte
		if err := rows.Scan(&c.Id, &c.DocumentId, &c.Index, &c.Text, &page, &start, &end, &blob); err != nil {
			return nil, persistence("reading chunk row", err)
		}
		c.Page = intPtr(page)
		c.CharStart = intPtr(start)
		c.CharEnd = intPtr(end)
		c.Embedding = bytesToFloat32Slice(blob)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("loading chunks", err)
	}
	return chunks, nil
}

func (s *Store) CountChunks(ctx context.Context, documentId string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM document_chunks WHERE document_id = ?", documentId).Scan(&n)
	if err != nil {
		return 0, persistence("counting chunks", err)
	}
	return n, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("beginning transaction", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM document_chunks WHERE document_id = ?",
		"DELETE FROM extraction_results WHERE document_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return persistence("deleting document children", err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return persistence("deleting document", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	if err := tx.Commit(); err != nil {
		return persistence("committing delete", err)
	}
	return nil
}

func (s *Store) SaveExtraction(ctx context.Context, result commonModels.ExtractionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return persistence("encoding extraction", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO extraction_results (id, document_id, data, confidence_score, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			id = excluded.id,
			data = excluded.data,
			confidence_score = excluded.confidence_score,
			created_at = excluded.created_at`,
		result.Id, result.DocumentId, string(data), result.ConfidenceScore,
		result.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return persistence("saving extraction", err)
	}
	return nil
}

func (s *Store) GetExtraction(ctx context.Context, documentId string) (commonModels.ExtractionResult, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM extraction_results WHERE document_id = ?", documentId).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return commonModels.ExtractionResult{}, false, nil
	}
	if err != nil {
		return commonModels.ExtractionResult{}, false, persistence("loading extraction", err)
	}
	var result commonModels.ExtractionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return commonModels.ExtractionResult{}, false, persistence("decoding extraction", err)
	}
	return result, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (commonModels.Document, error) {
	var doc commonModels.Document
	var status, uploadedAt, metadata string
	if err := row.Scan(&doc.Id, &doc.Filename, &doc.FileSize, &doc.Text, &status, &uploadedAt, &metadata); err != nil {
		return doc, err
	}
	doc.Status = commonModels.DocStatus(status)
	t, err := time.Parse(timeLayout, uploadedAt)
	if err != nil {
		return doc, fmt.Errorf("parsing uploaded_at: %w", err)
	}
	doc.UploadedAt = t
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
			return doc, fmt.Errorf("decoding metadata: %w", err)
		}
	}
	return doc, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// float32SliceToBytes encodes a vector as little-endian float32s.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
