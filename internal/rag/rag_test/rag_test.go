package rag_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/data/store"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/internal/rag/chunker"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/internal/rag/extraction"
	"github.com/google/uuid"
)

type fixture struct {
	docs     *store.InMemoryDocumentStore
	history  *store.InMemoryHistoryStore
	embedder *MockEmbedder
	llm      *MockLLM
	cache    *MockCache
	svc      rag.Service
}

func newFixture(t *testing.T, withCache bool) *fixture {
	t.Helper()
	f := &fixture{
		docs:     store.InitInMemoryDocumentStore(),
		history:  store.InitInMemoryHistoryStore(),
		embedder: &MockEmbedder{},
		llm:      &MockLLM{},
	}

	policy := embedding.DefaultRetryPolicy()
	policy.Sleep = func(context.Context, time.Duration) error { return nil }

	c, err := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(20))
	if err != nil {
		t.Fatal(err)
	}

	deps := rag.Deps{
		Documents:  f.docs,
		History:    f.history,
		LLM:        f.llm,
		Embeddings: embedding.NewGateway(f.embedder, policy),
		Chunker:    c,
	}
	if withCache {
		f.cache = &MockCache{}
		deps.Cache = f.cache
	}
	f.svc = rag.NewService(deps)
	return f
}

var contractChunks = []struct {
	text      string
	embedding []float32
}{
	{"Payment is due within thirty days of the invoice date.", []float32{1, 0}},
	{"Either party may terminate this agreement by written termination notice.", []float32{0, 1}},
	{"This agreement is governed by the laws of the State of Delaware.", []float32{0.7, 0.7}},
}

// seed stores a three-chunk contract, with embeddings when embedded is true.
func (f *fixture) seed(t *testing.T, embedded bool) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	var texts []string
	chunks := make([]commonModels.Chunk, len(contractChunks))
	offset := 0
	for i, cc := range contractChunks {
		start, end := offset, offset+len(cc.text)
		page := 1
		chunks[i] = commonModels.Chunk{
			Id: uuid.NewString(), DocumentId: id, Index: i, Text: cc.text,
			Page: &page, CharStart: &start, CharEnd: &end,
		}
		if embedded {
			chunks[i].Embedding = cc.embedding
		}
		texts = append(texts, cc.text)
		offset = end + 1
	}

	doc := commonModels.Document{
		Id: id, Filename: "msa.pdf", Text: strings.Join(texts, "\n"),
		Status: commonModels.DocStatusUploaded, UploadedAt: time.Now().UTC(),
	}
	if err := f.docs.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if err := f.docs.SaveChunks(ctx, id, chunks); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestAsk_VectorPath(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(t, true)
	f.llm.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
		return "  Thirty days.  ", nil
	}

	answer, err := f.svc.Ask(context.Background(), id, "When is payment due?", 2)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Strategy != commonModels.StrategyVector {
		t.Errorf("strategy = %s; want vector", answer.Strategy)
	}
	if answer.Text != "Thirty days." {
		t.Errorf("answer = %q", answer.Text)
	}
	if len(answer.Citations) != 2 {
		t.Fatalf("citations = %d; want 2", len(answer.Citations))
	}
	if answer.Citations[0].ChunkIndex != 0 || answer.Citations[1].ChunkIndex != 2 {
		t.Errorf("citation order = %d,%d; want 0,2", answer.Citations[0].ChunkIndex, answer.Citations[1].ChunkIndex)
	}
	if answer.Citations[0].RelevanceScore != 1 || answer.Citations[1].RelevanceScore != 0.7071 {
		t.Errorf("scores = %v,%v", answer.Citations[0].RelevanceScore, answer.Citations[1].RelevanceScore)
	}

	prompts := f.llm.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("llm calls = %d; want 1", len(prompts))
	}
	wantContext := "[Chunk 0]: " + contractChunks[0].text + "\n\n[Chunk 2]: " + contractChunks[2].text
	if !strings.Contains(prompts[0], wantContext) {
		t.Errorf("prompt does not carry ranked context:\n%s", prompts[0])
	}
	if !strings.Contains(prompts[0], "User Question: When is payment due?") {
		t.Error("prompt does not carry the question")
	}
}

func TestAsk_QuotaOnQueryFallsBackToLexical(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(t, true)
	f.embedder.OnEmbed = func(ctx context.Context, text string) ([]float32, error) {
		return nil, embedding.ErrQuotaExceeded
	}
	f.cache.OnLookup = func(context.Context, string, int, []float32) (commonModels.Answer, bool, error) {
		t.Error("cache must not be consulted on the lexical path")
		return commonModels.Answer{}, false, nil
	}

	answer, err := f.svc.Ask(context.Background(), id, "termination notice", 3)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Strategy != commonModels.StrategyLexical {
		t.Errorf("strategy = %s; want lexical", answer.Strategy)
	}
	if len(answer.Citations) == 0 {
		t.Fatal("lexical answer should carry citations")
	}
	if answer.Citations[0].ChunkIndex != 1 {
		t.Errorf("top citation = chunk %d; want 1", answer.Citations[0].ChunkIndex)
	}
	if f.embedder.Calls() != 1 {
		t.Errorf("embed calls = %d; quota must not be retried", f.embedder.Calls())
	}
}

func TestAsk_UnembeddedChunksUseLexical(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(t, false)

	answer, err := f.svc.Ask(context.Background(), id, "governing law Delaware", 1)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Strategy != commonModels.StrategyLexical {
		t.Errorf("strategy = %s; want lexical", answer.Strategy)
	}
	if len(answer.Citations) != 1 || answer.Citations[0].ChunkIndex != 2 {
		t.Errorf("citations = %+v; want chunk 2", answer.Citations)
	}
}

func TestAsk_CacheHitSkipsGeneration(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(t, true)
	f.cache.OnLookup = func(ctx context.Context, documentId string, topK int, v []float32) (commonModels.Answer, bool, error) {
		if documentId != id {
			t.Errorf("lookup scoped to %s; want %s", documentId, id)
		}
		return commonModels.Answer{DocumentId: id, Text: "cached answer"}, true, nil
	}

	answer, err := f.svc.Ask(context.Background(), id, "When is payment due?", 5)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !answer.Cached || answer.Text != "cached answer" || answer.Strategy != commonModels.StrategyVector {
		t.Errorf("answer = %+v; want cached vector answer", answer)
	}
	if len(f.llm.Prompts()) != 0 {
		t.Error("llm should not be called on a cache hit")
	}
}

func TestAsk_CachedAnswerRespectsTopK(t *testing.T) {
	f := newFixture(t, true)
	f.cache.Stored = make(chan commonModels.Answer, 1)
	id := f.seed(t, true)

	var stored commonModels.Answer
	if _, err := f.svc.Ask(context.Background(), id, "When is payment due?", 3); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	select {
	case stored = <-f.cache.Stored:
	case <-time.After(2 * time.Second):
		t.Fatal("answer was not saved to the cache")
	}
	if len(stored.Citations) < 2 {
		t.Fatalf("stored citations = %d; want more than 1", len(stored.Citations))
	}

	var lookedUpTopK int
	f.cache.OnLookup = func(ctx context.Context, documentId string, topK int, v []float32) (commonModels.Answer, bool, error) {
		lookedUpTopK = topK
		return stored, true, nil
	}
	answer, err := f.svc.Ask(context.Background(), id, "When is payment due?", 1)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if lookedUpTopK != 1 {
		t.Errorf("lookup top_k = %d; want 1", lookedUpTopK)
	}
	if answer.Cached {
		t.Error("an entry with more citations than top_k must not be served")
	}
	if len(answer.Citations) != 1 {
		t.Errorf("citations = %d; want 1", len(answer.Citations))
	}
}

func TestAsk_VectorAnswerIsCached(t *testing.T) {
	f := newFixture(t, true)
	f.cache.Stored = make(chan commonModels.Answer, 1)
	id := f.seed(t, true)

	if _, err := f.svc.Ask(context.Background(), id, "When is payment due?", 1); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	select {
	case stored := <-f.cache.Stored:
		if stored.DocumentId != id || len(stored.Citations) != 1 {
			t.Errorf("stored = %+v", stored)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("answer was not saved to the cache")
	}
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *fixture) string
		wantKind errorModel.Kind
	}{
		{
			name:     "unknown document",
			setup:    func(t *testing.T, f *fixture) string { return uuid.NewString() },
			wantKind: errorModel.KindNotFound,
		},
		{
			name: "document without text",
			setup: func(t *testing.T, f *fixture) string {
				id := uuid.NewString()
				_ = f.docs.CreateDocument(context.Background(), commonModels.Document{Id: id, Filename: "blank.pdf"})
				return id
			},
			wantKind: errorModel.KindDataIntegrity,
		},
		{
			name: "document without chunks",
			setup: func(t *testing.T, f *fixture) string {
				id := uuid.NewString()
				_ = f.docs.CreateDocument(context.Background(), commonModels.Document{Id: id, Filename: "x.pdf", Text: "some text"})
				return id
			},
			wantKind: errorModel.KindDataIntegrity,
		},
		{
			name: "generation failure",
			setup: func(t *testing.T, f *fixture) string {
				f.llm.OnGenerate = func(context.Context, string) (string, error) {
					return "", errors.New("503 model overloaded")
				}
				return f.seed(t, true)
			},
			wantKind: errorModel.KindUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			id := tt.setup(t, f)

			_, err := f.svc.Ask(context.Background(), id, "What is the term?", 5)
			if got := errorModel.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %s; want %s (err %v)", got, tt.wantKind, err)
			}
			if tt.wantKind == errorModel.KindUnavailable && len(f.llm.Prompts()) != 1 {
				t.Errorf("generation must not be retried, got %d calls", len(f.llm.Prompts()))
			}
		})
	}
}

func TestProcessRequest_Job(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(t, true)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	job := f.svc.ProcessRequest(ctx, jobModel.Job{
		Id:         "job-1",
		Status:     jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{DocumentId: id, Question: "When is payment due?"},
	})
	if job.CurrentStep != jobModel.Complete {
		t.Errorf("step = %s; want Complete", job.CurrentStep)
	}
	if job.JobPayload.Answer != "mocked llm response" || job.JobPayload.Strategy != commonModels.StrategyVector {
		t.Errorf("payload = %+v", job.JobPayload)
	}
	if len(job.JobPayload.Citations) != len(contractChunks) {
		t.Errorf("citations = %d; default top_k should cover all %d chunks", len(job.JobPayload.Citations), len(contractChunks))
	}

	f.llm.OnGenerate = func(context.Context, string) (string, error) { return "", errors.New("boom") }
	failed := f.svc.ProcessRequest(ctx, jobModel.Job{
		Id:         "job-2",
		JobPayload: jobModel.JobPayload{DocumentId: id, Question: "When is payment due?"},
	})
	if failed.Status != jobModel.JobStatusError || failed.CurrentStep != jobModel.Error {
		t.Errorf("status = %s step = %s", failed.Status, failed.CurrentStep)
	}
	if failed.Error.Code != http.StatusServiceUnavailable || !failed.Error.Retry || failed.Error.Kind != string(errorModel.KindUnavailable) {
		t.Errorf("error = %+v", failed.Error)
	}
}

func TestHistoryAndDelete(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(t, true)
	ctx := context.Background()

	for _, q := range []string{"first?", "second?"} {
		if _, err := f.svc.Ask(ctx, id, q, 1); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := f.svc.History(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Question != "second?" {
		t.Errorf("history = %+v; want newest first", entries)
	}

	if err := f.svc.DeleteDocument(ctx, id); err != nil {
		t.Fatal(err)
	}
	if len(f.cache.Purged) != 1 || f.cache.Purged[0] != id {
		t.Errorf("purged = %v", f.cache.Purged)
	}
	if _, err := f.svc.GetDocument(ctx, id); errorModel.KindOf(err) != errorModel.KindNotFound {
		t.Errorf("deleted document still readable: %v", err)
	}
	left, _ := f.history.Recent(ctx, id, 5)
	if len(left) != 0 {
		t.Errorf("history not cleared: %d entries", len(left))
	}
}

func TestListAndGetDocuments(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(t, true)

	info, err := f.svc.GetDocument(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if info.ChunkCount != len(contractChunks) || info.Status != commonModels.DocStatusIngested {
		t.Errorf("info = %+v", info)
	}
	list, err := f.svc.ListDocuments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Id != id {
		t.Errorf("list = %+v", list)
	}
}

func TestExtract_StoresAndReusesResult(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(t, true)
	f.llm.OnGenerate = func(context.Context, string) (string, error) {
		return "```json\n{\"parties\": \"Acme Corp\", \"auto_renewal\": \"yes\", \"governing_law\": \"Delaware\"}\n```", nil
	}

	first, err := f.svc.Extract(context.Background(), id)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(first.Parties) != 1 || first.Parties[0] != "Acme Corp" {
		t.Errorf("parties = %v", first.Parties)
	}
	if first.AutoRenewal == nil || !*first.AutoRenewal {
		t.Error("auto_renewal should normalise to true")
	}
	if first.DocumentId != id || first.Id == "" || first.ConfidenceScore != extraction.PlaceholderConfidence {
		t.Errorf("result = %+v", first)
	}

	second, err := f.svc.Extract(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if second.Id != first.Id {
		t.Error("second extraction should come from the store")
	}
	if len(f.llm.Prompts()) != 1 {
		t.Errorf("llm calls = %d; want 1", len(f.llm.Prompts()))
	}
}

func TestExtract_InvalidJSON(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(t, true)
	f.llm.OnGenerate = func(context.Context, string) (string, error) { return "I cannot help with that", nil }

	_, err := f.svc.Extract(context.Background(), id)
	if errorModel.KindOf(err) != errorModel.KindInternal {
		t.Errorf("kind = %s; want internal", errorModel.KindOf(err))
	}
	if _, ok, _ := f.docs.GetExtraction(context.Background(), id); ok {
		t.Error("failed extraction must not be stored")
	}
}

func TestAudit(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantCount int
		wantType  string
	}{
		{
			name:      "single object",
			output:    `{"clause_type": "Auto-renewal", "severity": "HIGH", "description": "Renews silently", "evidence_text": "shall renew"}`,
			wantCount: 1,
			wantType:  "Auto-renewal",
		},
		{
			name:      "unparseable",
			output:    "no findings, sorry",
			wantCount: 1,
			wantType:  extraction.UnparsedClauseType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			id := f.seed(t, true)
			f.llm.OnGenerate = func(context.Context, string) (string, error) { return tt.output, nil }

			report, err := f.svc.Audit(context.Background(), id)
			if err != nil {
				t.Fatal(err)
			}
			if report.TotalFindings != tt.wantCount || report.Findings[0].ClauseType != tt.wantType {
				t.Errorf("report = %+v", report)
			}
		})
	}
}

func TestIngestDocument_Job(t *testing.T) {
	f := newFixture(t, false)
	path := filepath.Join(t.TempDir(), "nda.txt")
	body := strings.Repeat("The Recipient shall keep all Confidential Information secret. ", 8)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	id := uuid.NewString()

	job := f.svc.IngestDocument(context.Background(), jobModel.Job{
		Id: "ingest-job-1",
		JobPayload: jobModel.JobPayload{
			DocumentId:     id,
			IngestFileName: "nda.txt",
			IngestPath:     path,
		},
	})
	if job.CurrentStep != jobModel.Complete {
		t.Fatalf("step = %s error = %+v", job.CurrentStep, job.Error)
	}
	if job.JobPayload.DocumentId != id || job.JobPayload.ChunkCount == 0 {
		t.Errorf("payload = %+v", job.JobPayload)
	}
	if f.embedder.Calls() != job.JobPayload.ChunkCount {
		t.Errorf("embed calls = %d; want one per chunk (%d)", f.embedder.Calls(), job.JobPayload.ChunkCount)
	}
}
