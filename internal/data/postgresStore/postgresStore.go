// Package postgresStore keeps documents and chunks in Postgres with chunk
// embeddings in a pgvector column.
package postgresStore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS documents (
    id             TEXT PRIMARY KEY,
    filename       TEXT NOT NULL,
    file_size      BIGINT NOT NULL DEFAULT 0,
    extracted_text TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL,
    uploaded_at    TIMESTAMPTZ NOT NULL,
    metadata       JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS document_chunks (
    id          TEXT PRIMARY KEY,
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    chunk_index INTEGER NOT NULL,
    chunk_text  TEXT NOT NULL,
    page_number INTEGER,
    char_start  INTEGER,
    char_end    INTEGER,
    embedding   vector,
    UNIQUE (document_id, chunk_index)
);

CREATE TABLE IF NOT EXISTS extraction_results (
    id               TEXT PRIMARY KEY,
    document_id      TEXT NOT NULL UNIQUE REFERENCES documents(id) ON DELETE CASCADE,
    data             JSONB NOT NULL,
    confidence_score DOUBLE PRECISION NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL
);
`

type Store struct {
	pool   *pgxpool.Pool
	logger *logger_i.Logger
}

var _ commonModels.DocumentStore = (*Store)(nil)

// New connects, pings and applies the schema.
func New(ctx context.Context, connString string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	cfg.MaxConns = config.PostgresMaxConns
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.PostgresPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{pool: pool, logger: logger_i.NewLogger("PostgresStore")}
	s.logger.Info("Postgres document store ready")
	return s, nil
}

func (s *Store) Close() error {
	s.pool.Close()
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
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (id, filename, file_size, extracted_text, status, uploaded_at, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.Id, doc.Filename, doc.FileSize, doc.Text, string(doc.Status), doc.UploadedAt, metadata,
	)
	if err != nil {
		return persistence("saving document", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (commonModels.Document, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, filename, file_size, extracted_text, status, uploaded_at, metadata
		 FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return commonModels.Document{}, notFound(id)
	}
	if err != nil {
		return commonModels.Document{}, persistence("loading document", err)
	}
	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, file_size, '', status, uploaded_at, metadata
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
	tag, err := s.pool.Exec(ctx, `UPDATE documents SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return persistence("updating document status", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

// SaveChunks replaces the document's chunks and marks it ingested in one
// transaction; the inserts go out as a single batch.
func (s *Store) SaveChunks(ctx context.Context, documentId string, chunks []commonModels.Chunk) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return persistence("beginning transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentId); err != nil {
		return persistence("clearing chunks", err)
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		var embedding any
		if c.HasEmbedding() {
			embedding = pgvector.NewVector(c.Embedding)
		}
		batch.Queue(
			`INSERT INTO document_chunks (id, document_id, chunk_index, chunk_text, page_number, char_start, char_end, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.Id, documentId, c.Index, c.Text, c.Page, c.CharStart, c.CharEnd, embedding,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range chunks {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return persistence(fmt.Sprintf("inserting chunk %d", i), err)
		}
	}
	if err := br.Close(); err != nil {
		return persistence("closing chunk batch", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE documents SET status = $1 WHERE id = $2`,
		string(commonModels.DocStatusIngested), documentId)
	if err != nil {
		return persistence("marking document ingested", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(documentId)
	}

	if err := tx.Commit(ctx); err != nil {
		return persistence("committing chunks", err)
	}
	return nil
}

func (s *Store) GetChunks(ctx context.Context, documentId string) ([]commonModels.Chunk, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, document_id, chunk_index, chunk_text, page_number, char_start, char_end, embedding
		 FROM document_chunks WHERE document_id = $1 ORDER BY chunk_index`, documentId)
	if err != nil {
		return nil, persistence("loading chunks", err)
	}
	defer rows.Close()

	var chunks []commonModels.Chunk
	for rows.Next() {
		var c commonModels.Chunk
		var embedding *pgvector.Vector
		if err := rows.Scan(&c.Id, &c.DocumentId, &c.Index, &c.Text, &c.Page, &c.CharStart, &c.CharEnd, &embedding); err != nil {
			return nil, persistence("reading chunk row", err)
		}
		if embedding != nil {
			c.Embedding = embedding.Slice()
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("loading chunks", err)
	}
	return chunks, nil
}

func (s *Store) CountChunks(ctx context.Context, documentId string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM document_chunks WHERE document_id = $1`, documentId).Scan(&n); err != nil {
		return 0, persistence("counting chunks", err)
	}
	return n, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return persistence("deleting document", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

func (s *Store) SaveExtraction(ctx context.Context, result commonModels.ExtractionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return persistence("encoding extraction", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO extraction_results (id, document_id, data, confidence_score, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (document_id) DO UPDATE SET
		     id = EXCLUDED.id,
		     data = EXCLUDED.data,
		     confidence_score = EXCLUDED.confidence_score,
		     created_at = EXCLUDED.created_at`,
		result.Id, result.DocumentId, data, result.ConfidenceScore, result.CreatedAt,
	)
	if err != nil {
		return persistence("saving extraction", err)
	}
	return nil
}

func (s *Store) GetExtraction(ctx context.Context, documentId string) (commonModels.ExtractionResult, bool, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM extraction_results WHERE document_id = $1`, documentId).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return commonModels.ExtractionResult{}, false, nil
	}
	if err != nil {
		return commonModels.ExtractionResult{}, false, persistence("loading extraction", err)
	}
	var result commonModels.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return commonModels.ExtractionResult{}, false, persistence("decoding extraction", err)
	}
	return result, true, nil
}

func scanDocument(row pgx.Row) (commonModels.Document, error) {
	var doc commonModels.Document
	var status string
	var metadata []byte
	if err := row.Scan(&doc.Id, &doc.Filename, &doc.FileSize, &doc.Text, &status, &doc.UploadedAt, &metadata); err != nil {
		return doc, err
	}
	doc.Status = commonModels.DocStatus(status)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return doc, fmt.Errorf("decoding metadata: %w", err)
		}
	}
	return doc, nil
}
