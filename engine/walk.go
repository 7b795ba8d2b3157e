package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/codec"
	"github.com/reoring/vskema/i18n"
	"github.com/reoring/vskema/rules"
)

var (
	errTimeout = errors.New("async rule timed out")
	errPanic   = errors.New("async rule panicked")
)

// walker carries the state of one validation call.
type walker struct {
	e      *Engine
	opts   vskema.ValidateOptions
	async  bool // async rules run, sync rule panics are recovered
	fanout bool // siblings run concurrently
	ctx    context.Context
	cancel context.CancelFunc
	root   any
	halted atomic.Bool
}

// node is the outcome of one field: its errors in structural order and the
// working value to place in the output tree.
type node struct {
	errs  []vskema.ValidationError
	value any
	keep  bool
}

func (e *Engine) newWalker(ctx context.Context, async bool, o vskema.ValidateOptions) *walker {
	w := &walker{e: e, opts: o, async: async, ctx: ctx}
	if async && o.AbortEarly {
		w.ctx, w.cancel = context.WithCancel(ctx)
	}
	return w
}

func (w *walker) close() {
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *walker) run(s vskema.SchemaDefinition, data any) vskema.ValidationResult {
	w.fanout = w.async && s.HasAsyncRules()

	in, err := vskema.Plain(data)
	if err != nil {
		e := vskema.RootPath().Error(vskema.CodeInvalidType, err.Error(), vskema.SeverityHard)
		e.Expected = string(vskema.KindObject)
		return w.result(w.add(nil, e), nil)
	}
	if in == nil {
		in = map[string]any{}
	}
	m, ok := in.(map[string]any)
	if !ok {
		return w.result(w.add(nil, typeError(vskema.RootPath(), vskema.KindObject, in)), nil)
	}
	w.root = m
	errs, out := w.object(w.ctx, vskema.RootPath(), s, m)
	return w.result(errs, out)
}

// result buckets errs. With AbortEarly the list is cut at the first hard
// error in structural order; concurrent siblings may have reported more.
func (w *walker) result(errs []vskema.ValidationError, value any) vskema.ValidationResult {
	var hard, soft []vskema.ValidationError
	for _, e := range errs {
		if e.Severity == vskema.SeveritySoft {
			soft = append(soft, e)
			continue
		}
		hard = append(hard, e)
		if w.opts.AbortEarly {
			break
		}
	}
	return vskema.NewResult(hard, soft, w.opts.AggregateByField, value)
}

// add maps e through the caller's maps, appends it and trips abort-early.
func (w *walker) add(errs []vskema.ValidationError, e vskema.ValidationError) []vskema.ValidationError {
	if e.PathSegments == nil {
		e.PathSegments = vskema.ParsePath(e.Field)
	}
	errs = append(errs, w.opts.MapError(e))
	if e.Severity == vskema.SeverityHard && w.opts.AbortEarly {
		w.halt()
	}
	return errs
}

func (w *walker) halt() {
	if w.halted.CompareAndSwap(false, true) && w.cancel != nil {
		w.cancel()
	}
}

func (w *walker) stopped() bool { return w.halted.Load() }

// each runs fn for 0..n-1 and returns the nodes in index order.
func (w *walker) each(ctx context.Context, n int, fn func(context.Context, int) node) []node {
	out := make([]node, n)
	if !w.fanout || n < 2 {
		for i := range n {
			if w.stopped() {
				break
			}
			out[i] = fn(ctx, i)
		}
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	if w.e.maxConc > 0 {
		g.SetLimit(w.e.maxConc)
	}
	for i := range n {
		g.Go(func() error {
			if !w.stopped() {
				out[i] = fn(gctx, i)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type member struct {
	name    string
	def     vskema.FieldDefinition
	value   any
	present bool
}

func (w *walker) object(ctx context.Context, p vskema.Path, s vskema.SchemaDefinition, m map[string]any) ([]vskema.ValidationError, map[string]any) {
	policy := s.Policy()
	extra := unknownKeys(s, m)

	members := make([]member, 0, len(s.Fields)+len(extra))
	for _, f := range s.Fields {
		v, ok := m[f.Name]
		members = append(members, member{name: f.Name, def: f.FieldDefinition, value: v, present: ok})
	}
	if policy == vskema.UnknownCatchall && s.Unknown.Catchall != nil {
		for _, k := range extra {
			members = append(members, member{name: k, def: *s.Unknown.Catchall, value: m[k], present: true})
		}
	}

	nodes := w.each(ctx, len(members), func(ctx context.Context, i int) node {
		mb := members[i]
		return w.field(ctx, p.Field(mb.name), mb.def, mb.value, mb.present, m)
	})

	var errs []vskema.ValidationError
	out := make(map[string]any, len(m))
	for i, n := range nodes {
		errs = append(errs, n.errs...)
		if n.keep {
			out[members[i].name] = n.value
		}
	}

	switch policy {
	case vskema.UnknownStrict:
		for _, k := range extra {
			if w.stopped() {
				break
			}
			e := p.Field(k).Error(vskema.CodeUnknownKey, i18n.T(vskema.CodeUnknownKey, nil), vskema.SeverityHard)
			e.Received = m[k]
			errs = w.add(errs, e)
		}
	case vskema.UnknownPassthrough:
		for _, k := range extra {
			out[k] = m[k]
		}
	case vskema.UnknownCatchall:
		if s.Unknown.Catchall == nil {
			for _, k := range extra {
				out[k] = m[k]
			}
		}
	}
	return errs, out
}

func (w *walker) items(ctx context.Context, p vskema.Path, item vskema.FieldDefinition, arr []any) ([]vskema.ValidationError, []any) {
	nodes := w.each(ctx, len(arr), func(ctx context.Context, i int) node {
		return w.field(ctx, p.Index(i), item, arr[i], true, arr)
	})
	var errs []vskema.ValidationError
	out := make([]any, len(arr))
	for i, n := range nodes {
		errs = append(errs, n.errs...)
		out[i] = n.value
	}
	return errs, out
}

func (w *walker) field(ctx context.Context, p vskema.Path, def vskema.FieldDefinition, v any, present bool, parent any) node {
	if w.stopped() {
		return node{}
	}
	if !present && def.Default != nil {
		if d, err := vskema.Plain(def.Default); err == nil {
			v, present = d, true
		}
	}
	original := v
	if v == nil && def.AcceptsNil(present) && !def.Required {
		return node{keep: present}
	}

	v = w.transform(p, def, v)
	n := node{value: v, keep: present}

	if !vskema.IsMissing(v) && !typeMatches(def.Kind, v) {
		n.errs = w.add(n.errs, typeError(p, def.Kind, v))
		return n
	}
	if v == nil && def.AcceptsNil(present) {
		return n
	}
	if def.Required && vskema.IsMissing(v) {
		n.errs = w.add(n.errs, p.Error(vskema.CodeRequired, i18n.T(vskema.CodeRequired, nil), vskema.SeverityHard))
		return n
	}
	if !def.Required && vskema.IsMissing(original) {
		return n
	}

	vc := vskema.NewValidatorContext(p, w.root, parent)
	for i, r := range def.Rules {
		if w.stopped() {
			return n
		}
		if e, ok := w.rule(ctx, i, r, v, vc); ok {
			n.errs = w.add(n.errs, e)
		}
	}

	switch def.Kind {
	case vskema.KindObject:
		if m, ok := v.(map[string]any); ok && def.Nested != nil {
			errs, out := w.object(ctx, p, *def.Nested, m)
			n.errs = append(n.errs, errs...)
			n.value = out
		}
	case vskema.KindArray:
		if arr, ok := v.([]any); ok && def.Item != nil {
			errs, out := w.items(ctx, p, *def.Item, arr)
			n.errs = append(n.errs, errs...)
			n.value = out
		}
	}
	return n
}

func (w *walker) transform(p vskema.Path, def vskema.FieldDefinition, v any) any {
	if def.Preprocess != nil {
		v = w.apply(p, *def.Preprocess, v)
	}
	for _, t := range def.Transforms {
		v = w.apply(p, t, v)
	}
	return v
}

func (w *walker) apply(p vskema.Path, t vskema.Transform, v any) any {
	out, err := w.e.reg.ApplyTransform(t, v)
	if err != nil {
		w.e.log.Warn("skipping transform", "path", p.String(), "transform", t.Name, "error", err)
		return v
	}
	return out
}

// rule runs one rule; ok is false when the rule produced no error.
func (w *walker) rule(ctx context.Context, idx int, r vskema.ValidationRule, v any, vc vskema.ValidatorContext) (vskema.ValidationError, bool) {
	if r.Async {
		if !w.async {
			w.e.log.Debug("async rule skipped by sync pass", "path", vc.Path, "rule", r.Kind)
			return vskema.ValidationError{}, false
		}
		return w.asyncRule(ctx, idx, r, v, vc)
	}
	return w.syncRule(r, v, vc)
}

func (w *walker) syncRule(r vskema.ValidationRule, v any, vc vskema.ValidatorContext) (out vskema.ValidationError, ok bool) {
	if w.async {
		defer func() {
			if rec := recover(); rec != nil {
				w.e.log.Error("rule panicked", "path", vc.Path, "rule", r.Kind, "panic", rec)
				out, ok = asyncError(vc, vskema.CodeAsyncError, fmt.Sprintf("%s: %v", i18n.T(vskema.CodeAsyncError, nil), rec), vskema.SeverityHard, v), true
			}
		}()
	}
	e, err := w.e.reg.Run(r, v, vc)
	if err != nil {
		w.e.log.Warn("skipping rule", "path", vc.Path, "rule", r.Kind, "error", err)
		return out, false
	}
	if e == nil {
		return out, false
	}
	return *e, true
}

func (w *walker) asyncRule(ctx context.Context, idx int, r vskema.ValidationRule, v any, vc vskema.ValidatorContext) (vskema.ValidationError, bool) {
	start := time.Now()
	timeout := w.e.timeout
	if r.TimeoutMs > 0 {
		timeout = time.Duration(r.TimeoutMs) * time.Millisecond
	}
	key := fmt.Sprintf("%s|%s#%d:%s", w.opts.Session, vc.Path, idx, r.Kind)
	wait := time.Duration(r.DebounceMs) * time.Millisecond

	res, err := w.e.deb.Do(ctx, key, wait, func(ctx context.Context) (vskema.AsyncOutcome, error) {
		return race(ctx, timeout, func(ctx context.Context) (vskema.AsyncOutcome, error) {
			return w.e.reg.RunAsync(ctx, r, v, vc)
		})
	})
	outcome, e, ok := w.classify(ctx, r, v, vc, res, err, timeout)
	w.e.obs.AsyncRuleDone(r.Kind, outcome, time.Since(start))
	return e, ok
}

// race runs fn under timeout. A panic in fn is returned as errPanic; the
// deadline expiring before fn returns is errTimeout.
func race(ctx context.Context, timeout time.Duration, fn func(context.Context) (vskema.AsyncOutcome, error)) (vskema.AsyncOutcome, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		out vskema.AsyncOutcome
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: fmt.Errorf("%w: %v", errPanic, rec)}
			}
		}()
		out, err := fn(tctx)
		ch <- result{out: out, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return r.out, errTimeout
		}
		return r.out, r.err
	case <-tctx.Done():
		if err := ctx.Err(); err != nil {
			return vskema.AsyncOutcome{}, err
		}
		return vskema.AsyncOutcome{}, errTimeout
	}
}

func (w *walker) classify(ctx context.Context, r vskema.ValidationRule, v any, vc vskema.ValidatorContext, res vskema.AsyncOutcome, err error, timeout time.Duration) (string, vskema.ValidationError, bool) {
	sev := r.Severity()
	switch {
	case err == nil && res.Valid:
		return OutcomeValid, vskema.ValidationError{}, false
	case err == nil:
		msg := r.Message
		if msg == "" {
			msg = res.Message
		}
		if msg == "" {
			msg = i18n.T(vskema.CodeAsyncFailed, nil)
		}
		return OutcomeInvalid, asyncError(vc, vskema.CodeAsyncFailed, msg, sev, v), true
	case errors.Is(err, vskema.ErrSuperseded):
		return OutcomeSuperseded, vskema.ValidationError{}, false
	case errors.Is(err, rules.ErrUnknownRule):
		w.e.log.Warn("skipping async rule", "path", vc.Path, "rule", r.Kind, "error", err)
		return OutcomeError, vskema.ValidationError{}, false
	case errors.Is(err, errTimeout):
		msg := i18n.T("ASYNC_TIMEOUT", map[string]string{"timeout": strconv.FormatInt(timeout.Milliseconds(), 10)})
		return OutcomeTimeout, asyncError(vc, vskema.CodeAsyncError, msg, sev, v), true
	case errors.Is(err, errPanic):
		w.e.log.Error("async rule panicked", "path", vc.Path, "rule", r.Kind, "error", err)
		return OutcomePanic, asyncError(vc, vskema.CodeAsyncError, fmt.Sprintf("%s: %v", i18n.T(vskema.CodeAsyncError, nil), err), vskema.SeverityHard, v), true
	case ctx.Err() != nil:
		if w.stopped() {
			// Canceled by abort-early, not by the caller.
			return OutcomeCanceled, vskema.ValidationError{}, false
		}
		return OutcomeCanceled, asyncError(vc, vskema.CodeAsyncError, fmt.Sprintf("%s: %v", i18n.T(vskema.CodeAsyncError, nil), ctx.Err()), sev, v), true
	default:
		return OutcomeError, asyncError(vc, vskema.CodeAsyncError, fmt.Sprintf("%s: %v", i18n.T(vskema.CodeAsyncError, nil), err), sev, v), true
	}
}

func asyncError(vc vskema.ValidatorContext, code, msg string, sev vskema.Severity, v any) vskema.ValidationError {
	return vskema.ValidationError{
		Field:        vc.Path,
		PathSegments: vskema.ParsePath(vc.Path),
		Code:         code,
		Message:      msg,
		Severity:     sev,
		Received:     v,
	}
}

func typeError(p vskema.Path, k vskema.Kind, v any) vskema.ValidationError {
	e := p.Error(vskema.CodeInvalidType, i18n.T(vskema.CodeInvalidType, map[string]string{"expected": string(k)}), vskema.SeverityHard)
	e.Received = v
	e.Expected = string(k)
	return e
}

// typeMatches reports whether v has the runtime shape of k. An empty kind
// accepts anything.
func typeMatches(k vskema.Kind, v any) bool {
	switch k {
	case "":
		return true
	case vskema.KindString:
		_, ok := v.(string)
		return ok
	case vskema.KindNumber:
		f, ok := codec.Number(v)
		return ok && !math.IsNaN(f)
	case vskema.KindBoolean:
		_, ok := v.(bool)
		return ok
	case vskema.KindDate:
		switch t := v.(type) {
		case time.Time:
			return true
		case string:
			_, err := codec.ParseDate(t)
			return err == nil
		}
		return false
	case vskema.KindArray:
		_, ok := v.([]any)
		return ok
	case vskema.KindObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

// unknownKeys lists keys of m not declared in s, sorted.
func unknownKeys(s vskema.SchemaDefinition, m map[string]any) []string {
	var out []string
	for k := range m {
		if !s.Has(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
