package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/booklab/tocsplit/internal/booktree"
)

type Config struct {
	Port string `validate:"required"`

	// Auth
	APIKey string `validate:"required"`

	// Result store
	OutputDir string `validate:"required"`

	// Worker pool
	WorkerCount  int `validate:"min=1,max=32"`
	MaxQueueSize int `validate:"min=1"`

	// Upload limits
	MaxUploadBytes int64 `validate:"min=1"`
	MaxBatchFiles  int   `validate:"min=1,max=100"`

	// Splitting defaults
	DefaultStartPage int    `validate:"min=1"`
	ChapterMarker    string `validate:"required"`

	// Segment export defaults
	SegmentSize    int `validate:"min=1"`
	SegmentOverlap int `validate:"min=0,ltfield=SegmentSize"`
	MinSegment     int `validate:"min=1"`

	// Job state
	JobTTL time.Duration `validate:"required"`

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	return Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("TOCSPLIT_API_KEY"),

		OutputDir: envOr("OUTPUT_DIR", "data"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxBatchFiles:  envInt("MAX_BATCH_FILES", 20),

		DefaultStartPage: envInt("DEFAULT_START_PAGE", 1),
		ChapterMarker:    envOr("CHAPTER_MARKER", booktree.DefaultChapterMarker),

		SegmentSize:    envInt("DEFAULT_SEGMENT_SIZE", 1500),
		SegmentOverlap: envInt("DEFAULT_SEGMENT_OVERLAP", 200),
		MinSegment:     envInt("MIN_SEGMENT", 100),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
