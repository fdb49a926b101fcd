// Package executor wires the traversal provider, the inspector worker pool,
// the outcome channel, and the reporter into one pipeline and manages its
// lifecycle: worker completion, channel closure, and reporter join.
package executor

import (
	"context"
	"runtime"
	"sync"

	"github.com/harrison/eolfix/internal/enforce"
	"github.com/harrison/eolfix/internal/models"
)

// outcomeBufferSize gives producers slack so they rarely wait on the
// reporter. Backpressure is not a concern at file-tree scale; the reporter
// is always draining.
const outcomeBufferSize = 256

// Provider yields candidate regular files and traversal errors, in parallel
// and unordered. The callbacks may be invoked concurrently.
type Provider interface {
	Walk(ctx context.Context, roots []string, onFile func(path string), onError func(err error)) error
}

// Inspector checks and optionally repairs one file.
type Inspector interface {
	Inspect(path string) (enforce.Status, error)
}

// Consumer drains the outcome channel until closure and returns the final
// counters. Exactly one Consumer goroutine runs per pipeline execution.
type Consumer interface {
	Run(outcomes <-chan models.Outcome) models.RunResult
}

// Pipeline fans per-file inspection out across a bounded worker pool and
// funnels every outcome into a single consumer.
type Pipeline struct {
	provider       Provider
	inspector      Inspector
	consumer       Consumer
	maxConcurrency int
}

// New constructs a pipeline. maxConcurrency bounds the number of inspector
// workers; values <= 0 select the number of CPUs.
func New(provider Provider, inspector Inspector, consumer Consumer, maxConcurrency int) *Pipeline {
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}
	return &Pipeline{
		provider:       provider,
		inspector:      inspector,
		consumer:       consumer,
		maxConcurrency: maxConcurrency,
	}
}

// Run executes the pipeline over the given roots and returns the consumer's
// final counters. Every file the provider emits produces exactly one
// outcome; traversal errors produce walk-error outcomes and never abort the
// run. The returned error covers only provider-level failures (an unusable
// root, a cancelled context), which the caller treats as fatal.
func (p *Pipeline) Run(ctx context.Context, roots []string) (models.RunResult, error) {
	outcomes := make(chan models.Outcome, outcomeBufferSize)

	// The consumer runs concurrently with all workers so errors stream out
	// as they happen instead of after the walk.
	resultCh := make(chan models.RunResult, 1)
	go func() {
		resultCh <- p.consumer.Run(outcomes)
	}()

	semaphore := make(chan struct{}, p.maxConcurrency)
	var wg sync.WaitGroup

	onFile := func(path string) {
		// Acquiring the slot here throttles the walk itself once all
		// workers are busy, matching the bounded-pool model.
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()
			outcomes <- p.inspectOne(path)
		}()
	}

	onError := func(err error) {
		outcomes <- models.Outcome{Kind: models.OutcomeWalkError, Err: err}
	}

	walkErr := p.provider.Walk(ctx, roots, onFile, onError)

	// The channel closes only once every in-flight inspection has sent its
	// result; that closure is what terminates the consumer's receive loop.
	wg.Wait()
	close(outcomes)

	result := <-resultCh
	return result, walkErr
}

// inspectOne converts a single inspection into its outcome. Inspection
// failures are isolated here as per-file outcomes, never propagated.
func (p *Pipeline) inspectOne(path string) models.Outcome {
	status, err := p.inspector.Inspect(path)
	if err != nil {
		return models.Outcome{Kind: models.OutcomeFileError, Path: path, Err: err}
	}

	switch status {
	case enforce.StatusUpdated, enforce.StatusWouldUpdate:
		return models.Outcome{Kind: models.OutcomeUpdated, Path: path}
	default:
		return models.Outcome{Kind: models.OutcomeUpToDate, Path: path}
	}
}
