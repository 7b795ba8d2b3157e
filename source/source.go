// Package source decodes request bodies and documents into the plain values
// (map[string]any, []any, string, float64, bool, nil) the engine walks.
//
// JSON is read token by token with goccy/go-json so that duplicate keys,
// nesting depth and document size can be enforced while decoding. YAML goes
// through gopkg.in/yaml.v3 and is normalised to the same shapes.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	vskema "github.com/reoring/vskema"
)

var (
	// ErrSyntax wraps malformed input.
	ErrSyntax = errors.New("source: malformed document")
	// ErrDuplicateKey is returned when an object repeats a key and
	// RejectDuplicateKeys is set.
	ErrDuplicateKey = errors.New("source: duplicate key")
	// ErrMaxDepth is returned when nesting exceeds Options.MaxDepth.
	ErrMaxDepth = errors.New("source: max depth exceeded")
	// ErrMaxBytes is returned when the input exceeds Options.MaxBytes.
	ErrMaxBytes = errors.New("source: max bytes exceeded")
)

// DecodeError locates a decode failure. Path uses the same dotted/bracket
// notation as validation errors; the root is "".
type DecodeError struct {
	Path   string
	Err    error
	Detail string
}

func (e *DecodeError) Error() string {
	msg := e.Err.Error()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Options control decoding. The zero value accepts any well-formed document,
// keeps the last of duplicated keys and decodes numbers to float64.
type Options struct {
	RejectDuplicateKeys bool
	// MaxDepth limits container nesting; 0 means unlimited.
	MaxDepth int
	// MaxBytes limits the size of the input; 0 means unlimited.
	MaxBytes int64
	// UseNumber keeps JSON numbers as json.Number.
	UseNumber bool
}

// Option mutates Options.
type Option func(*Options)

// RejectDuplicateKeys fails the decode on the first repeated object key.
func RejectDuplicateKeys() Option { return func(o *Options) { o.RejectDuplicateKeys = true } }

// WithMaxDepth limits container nesting.
func WithMaxDepth(n int) Option { return func(o *Options) { o.MaxDepth = n } }

// WithMaxBytes limits the input size.
func WithMaxBytes(n int64) Option { return func(o *Options) { o.MaxBytes = n } }

// UseNumber keeps JSON numbers as json.Number instead of float64.
func UseNumber() Option { return func(o *Options) { o.UseNumber = true } }

func apply(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Decode reads r in the given format (vskema.FormatJSON or vskema.FormatYAML).
func Decode(r io.Reader, format string, opts ...Option) (any, error) {
	switch format {
	case vskema.FormatJSON:
		return DecodeJSON(r, opts...)
	case vskema.FormatYAML:
		return DecodeYAML(r, opts...)
	}
	return nil, fmt.Errorf("%w: %q", vskema.ErrUnsupportedFormat, format)
}

// DecodeFile decodes a file: YAML for .yaml/.yml, JSON otherwise.
func DecodeFile(path string, opts ...Option) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, vskema.FormatOf(path), opts...)
}

// DecodeJSONBytes is DecodeJSON over a byte slice.
func DecodeJSONBytes(b []byte, opts ...Option) (any, error) {
	return DecodeJSON(bytes.NewReader(b), opts...)
}

// DecodeJSON decodes exactly one JSON document from r.
func DecodeJSON(r io.Reader, opts ...Option) (any, error) {
	o := apply(opts)
	var lim *limitReader
	if o.MaxBytes > 0 {
		lim = &limitReader{r: r, n: o.MaxBytes}
		r = lim
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	d := &decoder{dec: dec, opt: o, lim: lim}

	tok, err := d.next(vskema.RootPath())
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Err: ErrSyntax, Detail: "empty document"}
		}
		return nil, err
	}
	v, err := d.value(tok, vskema.RootPath())
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) || d.lim.exceeded() {
		if err != nil || d.lim.exceeded() {
			return nil, d.fail(vskema.RootPath(), err)
		}
		return nil, &DecodeError{Err: ErrSyntax, Detail: "trailing data after document"}
	}
	return v, nil
}

type decoder struct {
	dec   *json.Decoder
	opt   Options
	lim   *limitReader
	depth int
}

func (d *decoder) next(at vskema.Path) (json.Token, error) {
	tok, err := d.dec.Token()
	if err != nil {
		// go-json reports a failed read as EOF, so the cap is checked first.
		if errors.Is(err, io.EOF) && d.depth == 0 && !d.lim.exceeded() {
			return nil, err
		}
		return nil, d.fail(at, err)
	}
	return tok, nil
}

func (d *decoder) fail(at vskema.Path, err error) error {
	if d.lim.exceeded() {
		return &DecodeError{Path: at.String(), Err: ErrMaxBytes}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecodeError{Path: at.String(), Err: ErrSyntax, Detail: "unexpected end of input"}
	}
	return &DecodeError{Path: at.String(), Err: ErrSyntax, Detail: err.Error()}
}

func (d *decoder) value(tok json.Token, at vskema.Path) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.object(at)
		case '[':
			return d.array(at)
		}
		return nil, &DecodeError{Path: at.String(), Err: ErrSyntax, Detail: fmt.Sprintf("unexpected %q", rune(t))}
	case json.Number:
		if d.opt.UseNumber {
			return t, nil
		}
		f, err := t.Float64()
		if err != nil || math.IsInf(f, 0) {
			return nil, &DecodeError{Path: at.String(), Err: ErrSyntax, Detail: "number out of range: " + t.String()}
		}
		return f, nil
	case string, bool, nil:
		return t, nil
	case float64:
		return t, nil
	}
	return nil, &DecodeError{Path: at.String(), Err: ErrSyntax, Detail: fmt.Sprintf("unexpected token %T", tok)}
}

func (d *decoder) enter(at vskema.Path) error {
	d.depth++
	if d.opt.MaxDepth > 0 && d.depth > d.opt.MaxDepth {
		return &DecodeError{Path: at.String(), Err: ErrMaxDepth}
	}
	return nil
}

func (d *decoder) object(at vskema.Path) (any, error) {
	if err := d.enter(at); err != nil {
		return nil, err
	}
	out := map[string]any{}
	for d.dec.More() {
		tok, err := d.next(at)
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &DecodeError{Path: at.String(), Err: ErrSyntax, Detail: "object key must be a string"}
		}
		field := at.Field(key)
		if _, dup := out[key]; dup && d.opt.RejectDuplicateKeys {
			return nil, &DecodeError{Path: field.String(), Err: ErrDuplicateKey, Detail: "key '" + key + "' duplicated"}
		}
		tok, err = d.next(field)
		if err != nil {
			return nil, err
		}
		v, err := d.value(tok, field)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	if _, err := d.next(at); err != nil {
		return nil, err
	}
	d.depth--
	return out, nil
}

func (d *decoder) array(at vskema.Path) (any, error) {
	if err := d.enter(at); err != nil {
		return nil, err
	}
	out := []any{}
	for i := 0; d.dec.More(); i++ {
		item := at.Index(i)
		tok, err := d.next(item)
		if err != nil {
			return nil, err
		}
		v, err := d.value(tok, item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := d.next(at); err != nil {
		return nil, err
	}
	d.depth--
	return out, nil
}

// DecodeYAMLBytes is DecodeYAML over a byte slice.
func DecodeYAMLBytes(b []byte, opts ...Option) (any, error) {
	return DecodeYAML(bytes.NewReader(b), opts...)
}

// DecodeYAML decodes one YAML document. Mapping keys are rendered as strings
// and integers become float64, so the result has the same shapes as
// DecodeJSON. yaml.v3 itself rejects duplicate mapping keys.
func DecodeYAML(r io.Reader, opts ...Option) (any, error) {
	o := apply(opts)
	var lim *limitReader
	if o.MaxBytes > 0 {
		lim = &limitReader{r: r, n: o.MaxBytes}
		r = lim
	}
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		switch {
		case lim.exceeded():
			return nil, &DecodeError{Err: ErrMaxBytes}
		case errors.Is(err, io.EOF):
			return nil, &DecodeError{Err: ErrSyntax, Detail: "empty document"}
		case isDuplicateKeyError(err):
			return nil, &DecodeError{Err: ErrDuplicateKey, Detail: err.Error()}
		}
		return nil, &DecodeError{Err: ErrSyntax, Detail: err.Error()}
	}
	if lim.exceeded() {
		return nil, &DecodeError{Err: ErrMaxBytes}
	}
	return plainYAML(raw, vskema.RootPath(), o, 0)
}

func isDuplicateKeyError(err error) bool {
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		return false
	}
	for _, msg := range te.Errors {
		if strings.Contains(msg, "already defined") {
			return true
		}
	}
	return false
}

func plainYAML(v any, at vskema.Path, o Options, depth int) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if o.MaxDepth > 0 && depth+1 > o.MaxDepth {
			return nil, &DecodeError{Path: at.String(), Err: ErrMaxDepth}
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			pe, err := plainYAML(e, at.Field(k), o, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = pe
		}
		return out, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = e
		}
		return plainYAML(m, at, o, depth)
	case []any:
		if o.MaxDepth > 0 && depth+1 > o.MaxDepth {
			return nil, &DecodeError{Path: at.String(), Err: ErrMaxDepth}
		}
		out := make([]any, len(t))
		for i, e := range t {
			pe, err := plainYAML(e, at.Index(i), o, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = pe
		}
		return out, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	}
	return v, nil
}

type limitReader struct {
	r io.Reader
	n int64
}

func (l *limitReader) exceeded() bool { return l != nil && l.n < 0 }

func (l *limitReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, ErrMaxBytes
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, ErrMaxBytes
	}
	return n, err
}
