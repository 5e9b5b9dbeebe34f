package adapter

import (
	"errors"
	"net/http"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
)

func TestToAPIResponse(t *testing.T) {
	queued := ToAPIResponse(jobModel.Job{Id: "j1", Status: jobModel.JobStatusQueued, JobType: jobModel.JobTypeAsk})
	if queued.Error != nil || queued.Result.RAGExternalResponse != nil {
		t.Errorf("queued job should carry neither error nor result: %+v", queued)
	}

	done := ToAPIResponse(jobModel.Job{
		Id:     "j2",
		Status: jobModel.JobStatusComplete,
		JobPayload: jobModel.JobPayload{
			DocumentId: "d1",
			Answer:     "Thirty days.",
			Strategy:   commonModels.StrategyLexical,
			Citations:  []commonModels.Citation{{ChunkId: "c1"}},
		},
	})
	rag := done.Result.RAGExternalResponse
	if rag == nil || rag.Answer != "Thirty days." || rag.Strategy != commonModels.StrategyLexical || len(rag.Citations) != 1 {
		t.Errorf("result = %+v", rag)
	}

	failed := ToAPIResponse(jobModel.Job{
		Id:     "j3",
		Status: jobModel.JobStatusError,
		Error:  jobModel.JobError{Code: 503, Kind: "unavailable", Message: "down", Retry: true},
	})
	if failed.Error == nil || failed.Error.Kind != "unavailable" || !failed.Error.Retry {
		t.Errorf("error = %+v", failed.Error)
	}
}

func TestFromError(t *testing.T) {
	res, code := FromError("d1", errorModel.New(errorModel.KindNotFound, "Document with ID d1 not found"))
	if code != http.StatusNotFound || res.Error.Message != "Document with ID d1 not found" || res.Error.Retry {
		t.Errorf("code = %d res = %+v", code, res.Error)
	}

	res, code = FromError("", errors.New("pq: connection reset"))
	if code != http.StatusInternalServerError || res.Error.Message != "Internal Server Error" {
		t.Errorf("unclassified errors must not leak detail: %d %+v", code, res.Error)
	}
}
