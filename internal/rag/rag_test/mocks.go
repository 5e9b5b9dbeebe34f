package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	mu      sync.Mutex
	calls   int
	OnEmbed func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, text)
	}
	return []float32{1, 0}, nil
}

func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockLLM implements llm.Provider
type MockLLM struct {
	mu         sync.Mutex
	prompts    []string
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// MockCache implements vectorDB.AnswerCache. Stored answers are sent on
// Stored when it is non-nil.
type MockCache struct {
	OnLookup func(ctx context.Context, documentId string, topK int, v []float32) (commonModels.Answer, bool, error)
	Stored   chan commonModels.Answer
	Purged   []string
}

func (m *MockCache) Lookup(ctx context.Context, documentId string, topK int, v []float32) (commonModels.Answer, bool, error) {
	if m.OnLookup != nil {
		return m.OnLookup(ctx, documentId, topK, v)
	}
	return commonModels.Answer{}, false, nil
}

func (m *MockCache) Store(ctx context.Context, topK int, v []float32, answer commonModels.Answer) error {
	if m.Stored != nil {
		m.Stored <- answer
	}
	return nil
}

func (m *MockCache) Purge(ctx context.Context, documentId string) error {
	m.Purged = append(m.Purged, documentId)
	return nil
}
