package engine

import (
	"context"

	vskema "github.com/reoring/vskema"
)

// Future is the pending result of ValidateAsync.
type Future struct {
	result vskema.ValidationResult
	err    error
	done   chan struct{}
}

func runFuture(ctx context.Context, fn func(context.Context) vskema.ValidationResult) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)

		// A pre-canceled context never starts the walk.
		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.result = fn(ctx)
	}()
	return f
}

// Await waits for the validation to complete. The error is non-nil only when
// ctx was already done before the walk started; cancellation during the walk
// shows up as ASYNC_VALIDATION_ERROR entries in the result.
func (f *Future) Await() (vskema.ValidationResult, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext is Await bounded by ctx. The walk keeps running when ctx
// expires first.
func (f *Future) AwaitContext(ctx context.Context) (vskema.ValidationResult, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return vskema.ValidationResult{}, ctx.Err()
	}
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} { return f.done }
