package qdrantDB

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once

type Options struct {
	Host      string
	Port      int
	APIKey    string
	Dimension int
}

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	cutoff     float32
}

// GetQdrantClient connects once per process and makes sure the answer cache
// collection exists. It returns nil when Qdrant is unreachable.
func GetQdrantClient(ctx context.Context, opts Options) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx, opts)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:       qdrantInstance,
		collection: config.AnswerCacheCollection,
		cutoff:     config.CacheSimilarityCutoff,
	}
}

func newClient(ctx context.Context, opts Options) *qdrant.Client {
	host, port := opts.Host, opts.Port
	if host == "" || port == 0 {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		APIKey:   opts.APIKey,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate Qdrant client", "error", err)
		return nil
	}

	initCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if err := createCollection(initCtx, client, config.AnswerCacheCollection, uint64(opts.Dimension)); err != nil {
		logger.Error("could not create collection", "collectionName", config.AnswerCacheCollection, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
	logger.Info("Closed Qdrant")
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}
	if dimension == 0 {
		return errors.New("collection dimension must be positive")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return err
	}

	// document_id is filtered on every lookup and purge.
	_, err = client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collectionName,
		FieldName:      documentIdField,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	return err
}
