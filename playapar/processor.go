package playapar

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dhdaines-go/playa"
)

// PageResult is one page's interpreted content objects, or the error
// encountered interpreting it.
type PageResult struct {
	Page    int
	Objects []playa.Object
	Err     error
}

// Processor runs Page.Objects() over many pages concurrently, bounded by
// cfg's worker and document limits.
type Processor struct {
	cfg *Config
	sem *semaphore.Weighted
}

// New validates cfg and returns a Processor.
func New(cfg *Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("playapar: invalid config: %w", err)
	}
	return &Processor{cfg: cfg, sem: semaphore.NewWeighted(int64(cfg.MaxConcurrentDocuments))}, nil
}

// ExtractDocument interprets every page of d concurrently (bounded by
// Config.MaxWorkersPerDocument) and returns results in page order.
//
// Per §5, d must not be shared with any other in-flight call: Processor
// opens no new Documents itself, it only fans the given one's already-open
// pages out across goroutines, relying on Document.Page/Page.Objects being
// safe to call concurrently for distinct pages (they only read the shared,
// already-built xref index and object cache under its own mutex).
func (p *Processor) ExtractDocument(ctx context.Context, d *playa.Document) ([]PageResult, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("playapar: acquire document slot: %w", err)
	}
	defer p.sem.Release(1)

	total := d.NPages()
	if total == 0 {
		return nil, nil
	}

	workers := p.workerCount()
	jobs := make(chan int, total)
	results := make(chan PageResult, total)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- p.extractPage(ctx, d, i)
			}
		}()
	}
	for i := 1; i <= total; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]PageResult, total)
	for r := range results {
		out[r.Page-1] = r
		if r.Err != nil && p.cfg.ParsingMode == Strict {
			return out, fmt.Errorf("playapar: strict mode failed on page %d: %w", r.Page, r.Err)
		}
	}
	return out, nil
}

func (p *Processor) workerCount() int {
	w := p.cfg.MaxWorkersPerDocument
	if w < 1 {
		w = 1
	}
	if max := runtime.NumCPU(); w > max {
		w = max
	}
	return w
}

func (p *Processor) extractPage(ctx context.Context, d *playa.Document, i int) PageResult {
	var last PageResult
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, p.cfg.PageTimeout)
		last = p.extractPageOnce(pctx, d, i)
		cancel()
		if last.Err == nil {
			return last
		}
	}
	return last
}

func (p *Processor) extractPageOnce(ctx context.Context, d *playa.Document, i int) PageResult {
	done := make(chan PageResult, 1)
	go func() {
		page, err := d.Page(i)
		if err != nil {
			done <- PageResult{Page: i, Err: err}
			return
		}
		objs, err := page.Objects()
		done <- PageResult{Page: i, Objects: objs, Err: err}
	}()

	select {
	case <-ctx.Done():
		return PageResult{Page: i, Err: ctx.Err()}
	case r := <-done:
		return r
	}
}
