package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/engine"
)

func validOutcome(context.Context) (vskema.AsyncOutcome, error) { return vskema.AsyncOutcome{Valid: true}, nil }

func TestDebouncer_NoWaitRunsImmediately(t *testing.T) {
	d := engine.NewDebouncer()
	out, err := d.Do(context.Background(), "k", 0, validOutcome)
	if err != nil || !out.Valid {
		t.Fatalf("got %+v, %v", out, err)
	}
	if d.Pending() != 0 {
		t.Fatalf("pending = %d", d.Pending())
	}
}

func TestDebouncer_NewerCallSupersedes(t *testing.T) {
	d := engine.NewDebouncer()
	errs := make(chan error, 1)
	go func() {
		_, err := d.Do(context.Background(), "k", 200*time.Millisecond, validOutcome)
		errs <- err
	}()
	for d.Pending() == 0 {
		time.Sleep(time.Millisecond)
	}

	out, err := d.Do(context.Background(), "k", 10*time.Millisecond, validOutcome)
	if err != nil || !out.Valid {
		t.Fatalf("newest call: %+v, %v", out, err)
	}
	if err := <-errs; err != vskema.ErrSuperseded {
		t.Fatalf("older call err = %v, want ErrSuperseded", err)
	}
	if d.Pending() != 0 {
		t.Fatalf("pending = %d", d.Pending())
	}
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := engine.NewDebouncer()
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, key := range []string{"a#0:refineAsync", "b#0:refineAsync"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = d.Do(context.Background(), key, 20*time.Millisecond, validOutcome)
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}

func TestDebouncer_CancelDuringWait(t *testing.T) {
	d := engine.NewDebouncer()
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	ran := false
	_, err := d.Do(ctx, "k", time.Second, func(context.Context) (vskema.AsyncOutcome, error) {
		ran = true
		return vskema.AsyncOutcome{}, nil
	})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if ran {
		t.Fatal("fn ran after cancellation")
	}
	if d.Pending() != 0 {
		t.Fatalf("pending = %d after cancel", d.Pending())
	}
}
