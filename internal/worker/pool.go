package worker

import (
	"context"
	"sync"

	"github.com/gyeh/claim-extract/internal/progress"
)

// Pool manages concurrent processing of claim files. Each file is fully
// independent; the only shared resource is the output directory, and
// every output path is unique.
type Pool struct {
	Workers   int
	OutputDir string
	Progress  progress.Manager
}

// Run processes all input paths concurrently and returns results in
// input order.
func (p *Pool) Run(ctx context.Context, paths []string) []PipelineResult {
	results := make([]PipelineResult, len(paths))

	sem := make(chan struct{}, p.Workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, in string) {
			defer wg.Done()

			// Acquire semaphore
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = PipelineResult{Input: in, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			tracker := p.Progress.NewTracker(idx, len(paths), FileName(in))
			results[idx] = *RunPipeline(ctx, in, p.OutputDir, tracker)
			tracker.Done()
		}(i, path)
	}

	wg.Wait()
	return results
}
