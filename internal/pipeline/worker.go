package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/booklab/tocsplit/internal/config"
	"github.com/booklab/tocsplit/internal/outline"
	"github.com/booklab/tocsplit/internal/segment"
	"github.com/booklab/tocsplit/internal/source"
	"github.com/booklab/tocsplit/internal/splitter"
	"github.com/booklab/tocsplit/internal/store"
)

// Worker runs split jobs to completion.
type Worker struct {
	store *store.Store
	stats *SplitStats
	log   *slog.Logger
	cfg   config.Config
}

func NewWorker(st *store.Store, stats *SplitStats, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		store: st,
		stats: stats,
		log:   log,
		cfg:   cfg,
	}
}

// Process runs the full split pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: load the document.
	job.SetStatus(StatusLoading, "loading source")
	src, err := source.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "loading")
		return
	}
	if pdfSrc, ok := src.(*source.PDFSource); ok {
		pdfSrc.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}

	doc, err := src.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	title := doc.Title
	if job.Title != "" {
		title = job.Title
	}

	// A sidecar outline replaces whatever the document carries.
	entries := doc.Outline
	if data, name := job.Outline(); len(data) > 0 {
		entries, err = source.ParseOutline(bytes.NewReader(data), name)
		if err != nil {
			log.Error("sidecar outline unreadable", "error", err)
			job.AddError(fmt.Sprintf("outline: %s", err))
			job.SetStatus(StatusFailed, "loading")
			return
		}
	}
	if len(entries) == 0 {
		log.Warn("nothing to split against")
		job.AddError("no outline: the document carries none and no sidecar was supplied")
		job.SetStatus(StatusFailed, "loading")
		return
	}

	select {
	case <-ctx.Done():
		job.AddError("canceled during shutdown")
		job.SetStatus(StatusFailed, "loading")
		return
	default:
	}

	// Phase 2: skeleton tree and flat text.
	job.SetStatus(StatusAssembling, "assembling text")
	book, buildWarnings := outline.NewBuilder(job.Marker).Build(entries)
	ws := make([]string, 0, len(buildWarnings))
	for _, bw := range buildWarnings {
		ws = append(ws, bw.String())
	}
	job.AddWarnings(ws)

	chapters, sections, subsections := book.Counts()
	job.SetCounts(chapters, sections, subsections)
	if chapters == 0 {
		log.Warn("outline produced no chapters", "entries", len(entries))
		job.AddError("outline produced no chapters")
		job.SetStatus(StatusFailed, "assembling")
		return
	}

	text := splitter.Assemble(doc.Pages, job.StartPage)
	job.ContentHash = ContentHashHex([]byte(text))
	if job.DocID == "" {
		job.SetDocID(job.ContentHash[:16])
	}

	// Phase 3: locate headings and attribute spans.
	job.SetStatus(StatusSplitting, "matching headings")
	start := time.Now()
	stats, splitWarnings := splitter.New(job.Marker).Split(book, text)
	durationMs := time.Since(start).Milliseconds()

	sws := make([]string, 0, len(splitWarnings))
	for _, sw := range splitWarnings {
		sws = append(sws, sw.String())
	}
	job.AddWarnings(sws)
	job.SetMatches(stats.Matched, stats.Searched-stats.Matched)
	w.stats.Record(durationMs, book.Headings(), stats.Matched)

	log.Info("split complete",
		"doc_id", job.DocID,
		"chapters", chapters,
		"sections", sections,
		"subsections", subsections,
		"matched", stats.Matched,
		"missed", stats.Searched-stats.Matched,
		"duration_ms", durationMs,
	)

	// Phase 4: segment export and persistence.
	job.SetStatus(StatusStoring, "writing result")
	segments := segment.FromBook(book, segment.Config{
		SegmentSize:    w.cfg.SegmentSize,
		SegmentOverlap: w.cfg.SegmentOverlap,
		MinSegment:     w.cfg.MinSegment,
		Marker:         job.Marker,
	})
	job.SetSegments(len(segments))

	structure, err := json.Marshal(book)
	if err != nil {
		log.Error("marshal failed", "error", err)
		job.AddError(fmt.Sprintf("marshal: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	snap := job.Snapshot()
	res := store.Result{
		Meta: store.Meta{
			DocID:       job.DocID,
			Title:       title,
			Filename:    job.Filename,
			ContentHash: job.ContentHash,
			Chapters:    chapters,
			Sections:    sections,
			Subsections: subsections,
			Matched:     stats.Matched,
			Missed:      stats.Searched - stats.Matched,
			Segments:    len(segments),
			CreatedAt:   job.CreatedAt,
		},
		Warnings:  snap.Progress.Warnings,
		Structure: structure,
		Segments:  segments,
	}
	if err := w.store.Save(res); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	log.Info("result stored", "doc_id", job.DocID, "segments", len(segments), "warnings", len(snap.Progress.Warnings))
	job.SetStatus(StatusCompleted, "done")
}
