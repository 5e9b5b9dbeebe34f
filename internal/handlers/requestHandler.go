package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/ContractRAG/internal/adapter"
	"github.com/akolanti/ContractRAG/internal/adapter/utils"
	"github.com/akolanti/ContractRAG/internal/api"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/rag/ingest"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

// HealthHandler godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// AskHandler godoc
// @Summary      Ask a question about a contract
// @Description  Validates the question, checks the document exists and queues an answer job. Poll the status URL for the answer and its citations.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest       true  "Document id, question and optional top_k (1-20, default 5)"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid document id, query or top_k"
// @Failure      404      {object}  api.JobResponse      "Document not found"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	defer r.Body.Close()

	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	topK, problem := validateAskRequest(req)
	if problem != "" {
		logRH.Debug("Rejected ask request", "reason", problem)
		WriteErrorResponse(w, http.StatusBadRequest, req.DocumentId, problem)
		return
	}
	if _, err := handlerInstance.rag.GetDocument(r.Context(), req.DocumentId); err != nil {
		writeServiceError(w, req.DocumentId, err)
		return
	}

	queueJob(w, r, newJobData{
		jobType:    jobModel.JobTypeAsk,
		documentId: req.DocumentId,
		question:   req.Query,
		topK:       topK,
	})
}

// ExtractHandler godoc
// @Summary      Extract structured contract fields
// @Description  Queues extraction of parties, dates, governing law and other fields. Results are stored per document.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      api.DocumentRequest  true  "Document id"
// @Success      202      {object}  api.InitJobResponse
// @Failure      400      {object}  api.JobResponse
// @Failure      404      {object}  api.JobResponse
// @Router       /extract [post]
func ExtractHandler(w http.ResponseWriter, r *http.Request) {
	documentJob(w, r, jobModel.JobTypeExtract)
}

// AuditHandler godoc
// @Summary      Audit a contract for risky clauses
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      api.DocumentRequest  true  "Document id"
// @Success      202      {object}  api.InitJobResponse
// @Failure      400      {object}  api.JobResponse
// @Failure      404      {object}  api.JobResponse
// @Router       /audit [post]
func AuditHandler(w http.ResponseWriter, r *http.Request) {
	documentJob(w, r, jobModel.JobTypeAudit)
}

func documentJob(w http.ResponseWriter, r *http.Request, jobType jobModel.JobType) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	defer r.Body.Close()

	var req api.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	if !utils.IsValidUUID(req.DocumentId) {
		WriteErrorResponse(w, http.StatusBadRequest, req.DocumentId, invalidDocumentId)
		return
	}
	if _, err := handlerInstance.rag.GetDocument(r.Context(), req.DocumentId); err != nil {
		writeServiceError(w, req.DocumentId, err)
		return
	}
	queueJob(w, r, newJobData{jobType: jobType, documentId: req.DocumentId})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current state of a job: queued, running, complete or error, with its result or error.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := GetJobStatus(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostIngestHandler godoc
// @Summary      Upload a contract for ingestion
// @Description  Receives a file via multipart/form-data, saves it to the upload directory and queues an ingestion job. The document id is assigned up front.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file    true  "PDF, DOCX, ODT, RTF or TXT file"
// @Success      202  {object}  api.InitJobResponse "Accepted"
// @Failure      400  {object}  api.JobResponse "Missing file, empty file, too large or unsupported type"
// @Failure      500  {object}  api.JobResponse "Storage or write error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	h := handlerInstance

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	name := filepath.Base(fileMetadata.Filename)
	switch {
	case fileMetadata.Size == 0:
		WriteErrorResponse(w, http.StatusBadRequest, name, "Uploaded file is empty")
		return
	case fileMetadata.Size > h.maxUploadBytes:
		WriteErrorResponse(w, http.StatusBadRequest, name, fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadBytes))
		return
	case !ingest.IsSupported(name):
		WriteErrorResponse(w, http.StatusBadRequest, name, "Unsupported file type. Upload a PDF, DOCX, ODT, RTF or TXT file.")
		return
	}

	targetDir, err := getTargetDirectory(h.uploadDir)
	if err != nil {
		logRH.Error("Couldn't get target directory", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Storage error")
		return
	}

	tempFilePath := filepath.Join(targetDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), name))
	if err := saveUpload(tempFilePath, fileReader); err != nil {
		logRH.Error("Couldn't save upload", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Write error")
		return
	}

	queueJob(w, r, newJobData{
		jobType:        jobModel.JobTypeIngest,
		documentId:     utils.GetNewUUID(),
		documentName:   name,
		documentSource: tempFilePath,
		fileSize:       fileMetadata.Size,
	})
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}

func queueJob(w http.ResponseWriter, r *http.Request, data newJobData) {
	data.traceId = traceIdFrom(r.Context())
	id, err := CreateNewJob(r.Context(), data)
	if err != nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, data.documentId, "Could not queue the request")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(id, data.documentId))
}

// ListDocumentsHandler godoc
// @Summary      List ingested contracts
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docs, err := handlerInstance.rag.ListDocuments(r.Context())
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DocumentListResponse{Documents: docs, Total: len(docs)})
}

// GetDocumentHandler godoc
// @Summary      Get a contract's metadata and status
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  commonModels.DocumentInfo
// @Failure      400  {object}  api.JobResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := documentIdParam(w, r)
	if !ok {
		return
	}
	info, err := handlerInstance.rag.GetDocument(r.Context(), id)
	if err != nil {
		writeServiceError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, info)
}

// DeleteDocumentHandler godoc
// @Summary      Delete a contract
// @Description  Removes the document with its chunks and extraction, and forgets cached answers and question history.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DeleteResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := documentIdParam(w, r)
	if !ok {
		return
	}
	if err := handlerInstance.rag.DeleteDocument(r.Context(), id); err != nil {
		writeServiceError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{DocumentId: id, Deleted: true})
}

// HistoryHandler godoc
// @Summary      Recent questions about a contract
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.HistoryResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /documents/{id}/history [get]
func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := documentIdParam(w, r)
	if !ok {
		return
	}
	entries, err := handlerInstance.rag.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.HistoryResponse{DocumentId: id, Entries: entries})
}

func documentIdParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !validateContext(r.Context()) {
		return "", false
	}
	id := utils.GetChiURLParam(r, "id")
	if !utils.IsValidUUID(id) {
		WriteErrorResponse(w, http.StatusBadRequest, id, invalidDocumentId)
		return "", false
	}
	return id, true
}
