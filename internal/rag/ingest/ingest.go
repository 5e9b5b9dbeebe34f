// Package ingest turns an uploaded file into a stored document with chunks.
package ingest

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/chunker"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/google/uuid"
)

var logger = logger_i.NewLogger("Document Ingestion")

// Embeddings produces one vector per text; a nil entry means absent.
type Embeddings interface {
	EmbedMany(ctx context.Context, texts []string) [][]float32
}

type Request struct {
	DocumentId string
	Filename   string
	Path       string
	Size       int64
	// KeepFile leaves the source file in place after ingestion.
	KeepFile bool
}

type Result struct {
	Document   commonModels.Document
	ChunkCount int
	Embedded   int
}

type Pipeline struct {
	store    commonModels.DocumentStore
	chunker  *chunker.Chunker
	embedder Embeddings
}

func NewPipeline(store commonModels.DocumentStore, c *chunker.Chunker, embedder Embeddings) *Pipeline {
	return &Pipeline{store: store, chunker: c, embedder: embedder}
}

// Run extracts, chunks, embeds and persists one file. Extraction failures
// and empty documents are rejected before anything is stored. Once the
// document row exists, a persistence failure marks it failed.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	log := logger.WithTrace(ctx).With("documentId", req.DocumentId, "filename", req.Filename)
	if !req.KeepFile {
		defer removeUpload(req.Path, log)
	}

	docType := getDocType(req.Filename)
	if docType == commonModels.ERR {
		metrics.CaptureIngestion("rejected")
		return Result{}, errorModel.New(errorModel.KindValidation, "Unsupported file type. Upload a PDF, DOCX, ODT, RTF or TXT file.")
	}

	start := time.Now()
	pages, err := extractText(req.Path, docType)
	metrics.CaptureExecutionMetrics("document_extraction", time.Since(start))
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		metrics.CaptureIngestion("rejected")
		return Result{}, err
	}

	text, pageStarts := assemblePages(pages)
	if strings.TrimSpace(text) == "" {
		metrics.CaptureIngestion("rejected")
		return Result{}, errorModel.New(errorModel.KindDataIntegrity, "No extractable text found in the document.")
	}
	log.Debug("Extracted document text", "pages", len(pages), "characters", utf8.RuneCountInString(text))

	if req.DocumentId == "" {
		req.DocumentId = uuid.NewString()
	}
	now := time.Now().UTC()
	doc := commonModels.Document{
		Id:         req.DocumentId,
		Filename:   req.Filename,
		FileSize:   req.Size,
		Text:       text,
		Status:     commonModels.DocStatusUploaded,
		UploadedAt: now,
		Metadata: commonModels.DocumentMetadata{
			OriginPath:  req.Path,
			UploadedAt:  now,
			NumPages:    len(pages),
			ContentType: docType,
		},
	}
	if err := p.store.CreateDocument(ctx, doc); err != nil {
		metrics.CaptureIngestion(string(commonModels.DocStatusFailed))
		return Result{}, err
	}
	if err := p.store.UpdateStatus(ctx, doc.Id, commonModels.DocStatusProcessing); err != nil {
		return Result{}, p.fail(ctx, doc.Id, err, log)
	}

	specs := p.chunker.Split(text)
	texts := make([]string, len(specs))
	for i, s := range specs {
		texts[i] = s.Text
	}

	var vectors [][]float32
	if p.embedder != nil {
		vectors = p.embedder.EmbedMany(ctx, texts)
	}

	chunks, embedded := buildChunks(doc.Id, specs, vectors, pageStarts, docType == commonModels.PDF)
	log.Info("Chunked document", "chunks", len(chunks), "embedded", embedded)

	if err := p.store.SaveChunks(ctx, doc.Id, chunks); err != nil {
		return Result{}, p.fail(ctx, doc.Id, err, log)
	}

	doc.Status = commonModels.DocStatusIngested
	metrics.CaptureIngestion(string(commonModels.DocStatusIngested))
	return Result{Document: doc, ChunkCount: len(chunks), Embedded: embedded}, nil
}

func (p *Pipeline) fail(ctx context.Context, id string, cause error, log *logger_i.Logger) error {
	log.Error("Ingestion failed", "error", cause)
	metrics.CaptureIngestion(string(commonModels.DocStatusFailed))
	if err := p.store.UpdateStatus(context.WithoutCancel(ctx), id, commonModels.DocStatusFailed); err != nil {
		log.Error("Could not mark document failed", "error", err)
	}
	if errorModel.KindOf(cause) == errorModel.KindPersistence {
		return cause
	}
	return errorModel.Wrap(errorModel.KindPersistence, "Failed to store the document", cause)
}

func removeUpload(path string, log *logger_i.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Error("Error removing file", "error", err)
	}
}

// assemblePages joins page texts with a newline and returns, for each page,
// its number and the rune offset where it starts.
func assemblePages(pages []rawPage) (string, []pageStart) {
	var b strings.Builder
	starts := make([]pageStart, 0, len(pages))
	offset := 0
	for i, pg := range pages {
		if i > 0 {
			b.WriteString("\n")
			offset++
		}
		starts = append(starts, pageStart{number: pg.Number, offset: offset})
		b.WriteString(pg.Content)
		offset += len([]rune(pg.Content))
	}
	return b.String(), starts
}

type pageStart struct {
	number int
	offset int
}

// pageAt returns the page containing rune offset pos.
func pageAt(starts []pageStart, pos int) int {
	i := sort.Search(len(starts), func(i int) bool { return starts[i].offset > pos })
	if i == 0 {
		return starts[0].number
	}
	return starts[i-1].number
}

func buildChunks(documentId string, specs []chunker.Spec, vectors [][]float32, starts []pageStart, paged bool) ([]commonModels.Chunk, int) {
	chunks := make([]commonModels.Chunk, len(specs))
	embedded := 0
	for i, s := range specs {
		start, end := s.CharStart, s.CharEnd
		c := commonModels.Chunk{
			Id:         uuid.NewString(),
			DocumentId: documentId,
			Index:      s.Index,
			Text:       s.Text,
			CharStart:  &start,
			CharEnd:    &end,
		}
		if paged && len(starts) > 0 {
			page := pageAt(starts, s.CharStart)
			c.Page = &page
		}
		if i < len(vectors) && len(vectors[i]) > 0 {
			c.Embedding = vectors[i]
			embedded++
		}
		chunks[i] = c
	}
	return chunks, embedded
}
