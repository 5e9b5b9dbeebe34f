package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/ContractRAG/internal/api"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
)

func ToInitJobResponse(id string, documentId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:         id,
		StatusURL:  fmt.Sprintf("status/%s", id),
		DocumentId: documentId,
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Kind:    job.Error.Kind,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:              string(job.Status),
		RAGExternalResponse: ToRAGExternalStatus(job.JobPayload),
	}

	return api.JobResponse{
		Id:          job.Id,
		JobType:     string(job.JobType),
		CurrentStep: string(job.CurrentStep),
		StartTime:   job.CreatedTime,
		EndTime:     job.EndTime,
		Error:       errorPtr,
		Result:      result,
	}
}

// ToRAGExternalStatus returns nil until the job has produced something.
func ToRAGExternalStatus(p jobModel.JobPayload) *api.RAGResponse {
	if p.Answer == "" && p.ChunkCount == 0 && p.Extraction == nil && p.Audit == nil {
		return nil
	}

	return &api.RAGResponse{
		DocumentId: p.DocumentId,
		Question:   p.Question,
		Answer:     p.Answer,
		Citations:  p.Citations,
		Strategy:   p.Strategy,
		Cached:     p.Cached,
		ChunkCount: p.ChunkCount,
		Extraction: p.Extraction,
		Audit:      p.Audit,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

// FromError renders a service error with the status its kind maps to.
func FromError(id string, err error) (api.JobResponse, int) {
	kind := errorModel.KindOf(err)
	code := errorModel.HTTPStatus(kind)
	res := BadRequest(id, errorModel.DetailOf(err), code)
	res.Error.Kind = string(kind)
	res.Error.Retry = errorModel.CanRetry(kind)
	return res, code
}
