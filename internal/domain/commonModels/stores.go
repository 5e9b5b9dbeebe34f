package commonModels

import "context"

// DocumentStore persists documents, their chunks and extraction results.
// Lookups of a missing document return an errorModel not_found error.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	UpdateStatus(ctx context.Context, id string, status DocStatus) error

	// SaveChunks writes the whole chunk set and marks the document ingested
	// in one transaction. On error nothing is written.
	SaveChunks(ctx context.Context, documentId string, chunks []Chunk) error
	GetChunks(ctx context.Context, documentId string) ([]Chunk, error)
	CountChunks(ctx context.Context, documentId string) (int, error)

	// DeleteDocument removes the document, its chunks and its extraction.
	DeleteDocument(ctx context.Context, id string) error

	SaveExtraction(ctx context.Context, result ExtractionResult) error
	GetExtraction(ctx context.Context, documentId string) (ExtractionResult, bool, error)

	Close() error
}

// HistoryStore keeps the recent questions asked about each document.
type HistoryStore interface {
	Append(ctx context.Context, documentId string, entry HistoryEntry) error
	Recent(ctx context.Context, documentId string, n int) ([]HistoryEntry, error)
	Clear(ctx context.Context, documentId string) error
}
