package qdrantDB

import (
	"context"
	"encoding/json"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const (
	documentIdField = "document_id"
	answerField     = "answer"
	queryField      = "query"
	strategyField   = "strategy"
	citationsField  = "citations"
	topKField       = "top_k"
	timestampField  = "timestamp"
)

func documentFilter(documentId string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch(documentIdField, documentId)},
	}
}

func lookupFilter(documentId string, topK int) *qdrant.Filter {
	f := documentFilter(documentId)
	f.Must = append(f.Must, qdrant.NewMatchInt(topKField, int64(topK)))
	return f
}

func (db *ClientHolder) Lookup(ctx context.Context, documentId string, topK int, queryVector []float32) (commonModels.Answer, bool, error) {
	loggr := logger.WithTrace(ctx)

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Filter:         lookupFilter(documentId, topK),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Cache query failed", "error", err)
		return commonModels.Answer{}, false, err
	}
	if len(searchResult) == 0 {
		return commonModels.Answer{}, false, nil
	}

	loggr.Debug("Closest cached answer", "score", searchResult[0].Score)
	if searchResult[0].Score < db.cutoff {
		return commonModels.Answer{}, false, nil
	}

	answer, err := answerFromPayload(searchResult[0].Payload)
	if err != nil {
		loggr.Warn("Cached answer payload unreadable", "error", err)
		return commonModels.Answer{}, false, nil
	}
	loggr.Info("Answer cache hit", "documentId", documentId)
	return answer, true, nil
}

func (db *ClientHolder) Store(ctx context.Context, topK int, queryVector []float32, answer commonModels.Answer) error {
	loggr := logger.WithTrace(ctx)

	payload, err := answerPayload(answer, topK)
	if err != nil {
		return err
	}
	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(uuid.NewString()),
				Vectors: qdrant.NewVectors(queryVector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}

func (db *ClientHolder) Purge(ctx context.Context, documentId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Points:         qdrant.NewPointsSelectorFilter(documentFilter(documentId)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		logger.WithTrace(ctx).Error("Purging cached answers failed", "documentId", documentId, "error", err)
	}
	return err
}

func answerPayload(answer commonModels.Answer, topK int) (map[string]any, error) {
	citations, err := json.Marshal(answer.Citations)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		documentIdField: answer.DocumentId,
		answerField:     answer.Text,
		queryField:      answer.Query,
		strategyField:   string(answer.Strategy),
		citationsField:  string(citations),
		topKField:       int64(topK),
		timestampField:  time.Now().Unix(),
	}, nil
}

func answerFromPayload(payload map[string]*qdrant.Value) (commonModels.Answer, error) {
	answer := commonModels.Answer{
		DocumentId: payload[documentIdField].GetStringValue(),
		Query:      payload[queryField].GetStringValue(),
		Text:       payload[answerField].GetStringValue(),
		Strategy:   commonModels.RetrievalStrategy(payload[strategyField].GetStringValue()),
		Cached:     true,
	}
	if raw := payload[citationsField].GetStringValue(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &answer.Citations); err != nil {
			return commonModels.Answer{}, err
		}
	}
	return answer, nil
}
