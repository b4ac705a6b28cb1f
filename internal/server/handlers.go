package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/hsn0918/r3m/pkg/engine"
	"github.com/hsn0918/r3m/pkg/formats"
	"github.com/hsn0918/r3m/pkg/logger"
	"github.com/hsn0918/r3m/pkg/storage"
)

const maxUploadMemory = 32 << 20

// Handler implements the REST surface over the engine.
type Handler struct {
	eng     *engine.Engine
	jobs    *JobManager
	source  storage.DocumentSource
	started time.Time
}

// NewHandler wires the HTTP handlers. source may be nil when object-store
// ingestion is disabled.
func NewHandler(eng *engine.Engine, jobs *JobManager, source storage.DocumentSource) *Handler {
	return &Handler{eng: eng, jobs: jobs, source: source, started: time.Now()}
}

type processRequest struct {
	FilePath  string `json:"file_path,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
	Async     bool   `json:"async,omitempty"`
}

type batchRequest struct {
	FilePaths []string `json:"file_paths"`
	Filtered  bool     `json:"filtered,omitempty"`
}

type chunkRequest struct {
	FilePath   string            `json:"file_path,omitempty"`
	Content    string            `json:"content,omitempty"`
	DocumentID string            `json:"document_id,omitempty"`
	Title      string            `json:"title,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Health reports liveness and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, "healthy", map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// Process handles a single document: multipart upload, local path, or
// object-store key; synchronous by default, async behind a job id.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.processUpload(w, r)
		return
	}

	var req processRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	switch {
	case req.FilePath != "":
		if req.Async {
			h.processAsync(w, req.FilePath, func() engine.DocumentResult {
				return h.eng.ProcessDocument(req.FilePath)
			})
			return
		}
		h.writeResult(w, h.eng.ProcessDocument(req.FilePath))
	case req.ObjectKey != "":
		if h.source == nil {
			writeError(w, http.StatusBadRequest, "object storage is not configured")
			return
		}
		data, err := h.source.Fetch(r.Context(), req.ObjectKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "object fetch failed: "+err.Error())
			return
		}
		if req.Async {
			h.processAsync(w, req.ObjectKey, func() engine.DocumentResult {
				return h.eng.ProcessDocumentFromBytes(req.ObjectKey, data)
			})
			return
		}
		h.writeResult(w, h.eng.ProcessDocumentFromBytes(req.ObjectKey, data))
	default:
		writeError(w, http.StatusBadRequest, "file_path or object_key is required")
	}
}

func (h *Handler) processUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upload read failed: "+err.Error())
		return
	}
	h.writeResult(w, h.eng.ProcessDocumentFromBytes(header.Filename, data))
}

func (h *Handler) processAsync(w http.ResponseWriter, name string, run func() engine.DocumentResult) {
	job := h.jobs.Create(name)
	go func() {
		result := run()
		h.jobs.Complete(job.JobID, result)
	}()
	writeSuccess(w, "job accepted", map[string]string{"job_id": job.JobID})
}

func (h *Handler) writeResult(w http.ResponseWriter, result engine.DocumentResult) {
	if !result.ProcessingSuccess {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: result.ErrorMessage, Data: result})
		return
	}
	writeSuccess(w, "document processed", result)
}

// Batch processes a list of paths, optionally with document filtering.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.FilePaths) == 0 {
		writeError(w, http.StatusBadRequest, "file_paths is required")
		return
	}

	if req.Filtered {
		writeSuccess(w, "batch processed", h.eng.ProcessDocumentsWithFiltering(req.FilePaths))
		return
	}
	results := h.eng.ProcessDocumentsBatch(req.FilePaths)
	writeSuccess(w, fmt.Sprintf("processed %d documents", len(results)), results)
}

// Chunk runs the chunking pipeline over a file or raw content.
func (h *Handler) Chunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	switch {
	case req.Content != "":
		docID := req.DocumentID
		if docID == "" {
			docID = newJobID()
		}
		result := h.eng.ChunkContent(docID, req.Content, req.Title, req.Metadata)
		writeSuccess(w, "content chunked", result)
	case req.FilePath != "":
		result := h.eng.ProcessDocumentWithChunking(req.FilePath)
		writeSuccess(w, "document chunked", result)
	default:
		writeError(w, http.StatusBadRequest, "content or file_path is required")
	}
}

// Metrics exposes the engine statistics snapshot.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, "statistics", h.eng.GetStatistics())
}

// JobStatus returns the state of an async job.
func (h *Handler) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, ok := h.jobs.Get(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found: "+jobID)
		return
	}
	writeSuccess(w, "job status", job)
}

// Info describes the service: formats, pipeline stages and configuration
// highlights.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	cfg := h.eng.Config()
	writeSuccess(w, "service info", map[string]any{
		"service":              "r3m",
		"supported_extensions": formats.SupportedExtensions(),
		"pipeline_stages": []string{
			"file_validation", "text_extraction", "text_cleaning",
			"metadata_extraction", "quality_assessment",
		},
		"batch_size":        cfg.DocumentProcessing.BatchSize,
		"chunk_token_limit": cfg.Chunking.ChunkTokenLimit,
		"chunking_enabled":  cfg.DocumentProcessing.EnableChunking,
	})
}

func decodeBody(r *http.Request, dest any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("empty body")
	}
	if err := sonic.Unmarshal(body, dest); err != nil {
		logger.Get().Debug("request decode failed", "error", err)
		return err
	}
	return nil
}
