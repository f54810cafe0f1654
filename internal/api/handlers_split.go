package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/booklab/tocsplit/internal/pipeline"
	"github.com/booklab/tocsplit/internal/source"
	"github.com/booklab/tocsplit/internal/store"
)

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !source.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	// Optional sidecar outline.
	var outlineData []byte
	var outlineName string
	if of, oh, err := r.FormFile("outline"); err == nil {
		outlineName = sanitizeFilename(oh.Filename)
		ext := strings.ToLower(filepath.Ext(outlineName))
		if ext != ".csv" && ext != ".json" {
			of.Close()
			jsonError(w, fmt.Sprintf("unsupported outline format: %s", ext), http.StatusBadRequest)
			return
		}
		outlineData, err = io.ReadAll(io.LimitReader(of, s.cfg.MaxUploadBytes+1))
		of.Close()
		if err != nil {
			jsonError(w, "failed to read outline", http.StatusInternalServerError)
			return
		}
	}

	docID := r.FormValue("doc_id")
	if docID != "" && !store.ValidDocID(docID) {
		jsonError(w, "doc_id must match [A-Za-z0-9_-]{1,64}", http.StatusBadRequest)
		return
	}
	if docID == "" {
		docID = pipeline.ContentHashHex(data)[:16]
	}

	job := s.newJob(r, filename, r.FormValue("title"), docID, data, outlineData, outlineName)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"doc_id":   docID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/split/%s/status", job.ID),
	})
}

// newJob builds a queued job from the request's shared form values.
func (s *Server) newJob(r *http.Request, filename, title, docID string, data, outlineData []byte, outlineName string) *pipeline.Job {
	startPage := s.cfg.DefaultStartPage
	if v := r.FormValue("start_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			startPage = n
		}
	}
	marker := r.FormValue("chapter_marker")
	if marker == "" {
		marker = s.cfg.ChapterMarker
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        uuid.NewString(),
		DocID:     docID,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     title,
		StartPage: startPage,
		Marker:    marker,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	if len(outlineData) > 0 {
		job.SetOutline(outlineData, outlineName)
	}
	return job
}

func (s *Server) handleSplitStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

// handleBatchSplit splits several files in one request. Unlike the
// single endpoint it is synchronous: the whole batch is processed on a
// bounded group and the response carries each file's outcome.
func (s *Server) handleBatchSplit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*int64(s.cfg.MaxBatchFiles)+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files: %d (max %d)", len(files), s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return
	}

	type item struct {
		filename string
		errMsg   string
		job      *pipeline.Job
	}
	items := make([]item, 0, len(files))

	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !source.IsSupportedExtension(filename) {
			items = append(items, item{filename: filename, errMsg: fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			items = append(items, item{filename: filename, errMsg: "failed to open file"})
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			items = append(items, item{filename: filename, errMsg: "file too large or read error"})
			continue
		}

		job := s.newJob(r, filename, "", pipeline.ContentHashHex(data)[:16], data, nil, "")
		s.orchestrator.Register(job)
		items = append(items, item{filename: filename, job: job})
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.cfg.WorkerCount)
	for _, it := range items {
		if it.job == nil {
			continue
		}
		it := it
		g.Go(func() error {
			s.orchestrator.Process(ctx, it.job)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if it.job == nil {
			results = append(results, map[string]any{
				"filename": it.filename,
				"error":    it.errMsg,
			})
			continue
		}
		snap := it.job.Snapshot()
		results = append(results, map[string]any{
			"filename": it.filename,
			"job_id":   snap.ID,
			"doc_id":   snap.DocID,
			"status":   snap.Status,
			"progress": snap.Progress,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
