package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/kerf/pkg/graph"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation runs past its time limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// outcome carries an evaluation result from the worker goroutine.
type outcome struct {
	graph  *graph.DesignGraph
	errors []EvalError
	err    error
}

// await waits for the evaluation numbered gen. A timed-out or cancelled
// evaluation keeps running in the background; its result is dropped because
// the channel is buffered and nobody reads it.
func (e *Engine) await(ctx context.Context, ch <-chan outcome, gen uint64) (*graph.DesignGraph, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if gen != e.generation.Load() {
			return nil, nil, ErrSuperseded
		}
		return res.graph, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
	}
}
