// Package playapar runs the content-stream interpreter over many pages (of
// one document, or many documents) concurrently, bounded by a worker pool.
// The workers for one document share its *playa.Document and each
// interprets distinct pages of it.
package playapar

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ParsingMode selects how a worker reacts to a page-level interpretation
// error.
type ParsingMode string

const (
	// Strict aborts the whole run on the first page error.
	Strict ParsingMode = "strict"
	// BestEffort records the error against that page and continues.
	BestEffort ParsingMode = "best-effort"
)

// Config controls a Processor's concurrency and error tolerance.
type Config struct {
	MaxConcurrentDocuments int           `validate:"min=1,max=64"`
	MaxWorkersPerDocument  int           `validate:"min=1,max=64"`
	PageTimeout            time.Duration `validate:"required"`
	ParsingMode            ParsingMode   `validate:"oneof=strict best-effort"`
	MaxRetries             int           `validate:"min=0,max=5"`
}

// DefaultConfig returns sensible defaults: best-effort parsing, one retry,
// a 5-second per-page budget, and concurrency capped to a small constant
// rather than GOMAXPROCS (content-stream interpretation is allocation-
// heavy, not CPU-bound enough to saturate every core usefully).
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrentDocuments: 4,
		MaxWorkersPerDocument:  4,
		PageTimeout:            5 * time.Second,
		ParsingMode:            BestEffort,
		MaxRetries:             1,
	}
}

// Validate reports whether cfg's fields satisfy their constraints.
func (cfg *Config) Validate() error {
	return validator.New().Struct(cfg)
}
