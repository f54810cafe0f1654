package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a split job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusLoading    JobStatus = "loading"
	StatusAssembling JobStatus = "assembling"
	StatusSplitting  JobStatus = "splitting"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document split.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	StartPage int    `json:"start_page"`
	Marker    string `json:"chapter_marker"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData    []byte
	outlineData []byte
	outlineName string
	warnings    []string
	errors      []string
}

// Progress tracks outline and matching outcome counts.
type Progress struct {
	Chapters    int      `json:"chapters"`
	Sections    int      `json:"sections"`
	Subsections int      `json:"subsections"`
	Matched     int      `json:"matched"`
	Missed      int      `json:"missed"`
	Segments    int      `json:"segments"`
	Warnings    []string `json:"warnings"`
	Errors      []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetDocID records the resolved document ID.
func (j *Job) SetDocID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DocID = id
	j.UpdatedAt = time.Now()
}

// AddError records a fatal processing error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddWarnings records non-fatal diagnostics from outline building and
// heading matching.
func (j *Job) AddWarnings(ws []string) {
	if len(ws) == 0 {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.warnings = append(j.warnings, ws...)
	j.Progress.Warnings = j.warnings
	j.UpdatedAt = time.Now()
}

// SetCounts records the skeleton tree's node counts.
func (j *Job) SetCounts(chapters, sections, subsections int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Chapters = chapters
	j.Progress.Sections = sections
	j.Progress.Subsections = subsections
	j.UpdatedAt = time.Now()
}

// SetMatches records how many headings were located and how many
// searches came up empty.
func (j *Job) SetMatches(matched, missed int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Matched = matched
	j.Progress.Missed = missed
	j.UpdatedAt = time.Now()
}

// SetSegments records the exported segment count.
func (j *Job) SetSegments(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Segments = n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetOutline sets a sidecar outline file that overrides whatever
// outline the document itself carries.
func (j *Job) SetOutline(data []byte, filename string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outlineData = data
	j.outlineName = filename
}

// Outline returns the sidecar outline bytes and filename, if any.
func (j *Job) Outline() ([]byte, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outlineData, j.outlineName
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	DocID    string    `json:"doc_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	warns := j.Progress.Warnings
	if warns == nil {
		warns = []string{}
	}
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			Chapters:    j.Progress.Chapters,
			Sections:    j.Progress.Sections,
			Subsections: j.Progress.Subsections,
			Matched:     j.Progress.Matched,
			Missed:      j.Progress.Missed,
			Segments:    j.Progress.Segments,
			Warnings:    warns,
			Errors:      errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
