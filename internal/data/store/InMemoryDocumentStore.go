package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
)

// InMemoryDocumentStore is a process-local DocumentStore, used when no
// database can be opened and in tests.
type InMemoryDocumentStore struct {
	lock        *sync.RWMutex
	documents   map[string]commonModels.Document
	chunks      map[string][]commonModels.Chunk
	extractions map[string]commonModels.ExtractionResult
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		lock:        new(sync.RWMutex),
		documents:   make(map[string]commonModels.Document),
		chunks:      make(map[string][]commonModels.Chunk),
		extractions: make(map[string]commonModels.ExtractionResult),
	}
}

func notFound(id string) error {
	return errorModel.New(errorModel.KindNotFound, "Document with ID "+id+" not found")
}

func (s *InMemoryDocumentStore) CreateDocument(ctx context.Context, doc commonModels.Document) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.documents[doc.Id]; ok {
		return errorModel.New(errorModel.KindPersistence, "document "+doc.Id+" already exists")
	}
	s.documents[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (commonModels.Document, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return commonModels.Document{}, notFound(id)
	}
	return doc, nil
}

// ListDocuments returns documents newest first.
func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	docs := make([]commonModels.Document, 0, len(s.documents))
	for _, d := range s.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].Id < docs[j].Id
	})
	return docs, nil
}

func (s *InMemoryDocumentStore) UpdateStatus(ctx context.Context, id string, status commonModels.DocStatus) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return notFound(id)
	}
	doc.Status = status
	s.documents[id] = doc
	return nil
}

func (s *InMemoryDocumentStore) SaveChunks(ctx context.Context, documentId string, chunks []commonModels.Chunk) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	doc, ok := s.documents[documentId]
	if !ok {
		return notFound(documentId)
	}
	s.chunks[documentId] = slices.Clone(chunks)
	doc.Status = commonModels.DocStatusIngested
	s.documents[documentId] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetChunks(ctx context.Context, documentId string) ([]commonModels.Chunk, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := slices.Clone(s.chunks[documentId])
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (s *InMemoryDocumentStore) CountChunks(ctx context.Context, documentId string) (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.chunks[documentId]), nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.documents[id]; !ok {
		return notFound(id)
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	delete(s.extractions, id)
	return nil
}

func (s *InMemoryDocumentStore) SaveExtraction(ctx context.Context, result commonModels.ExtractionResult) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.documents[result.DocumentId]; !ok {
		return notFound(result.DocumentId)
	}
	s.extractions[result.DocumentId] = result
	return nil
}

func (s *InMemoryDocumentStore) GetExtraction(ctx context.Context, documentId string) (commonModels.ExtractionResult, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	res, ok := s.extractions[documentId]
	return res, ok, nil
}

func (s *InMemoryDocumentStore) Close() error { return nil }
