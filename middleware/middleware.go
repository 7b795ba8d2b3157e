// Package middleware validates HTTP request bodies against a schema.
//
// A valid request continues with the validated value and the result stored
// in its context. An invalid request is answered with the vskema envelope and
// status 422; a body that cannot be decoded gets 400.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/source"
)

// Rejection describes why a request did not pass.
type Rejection struct {
	Status int
	// Body is the JSON payload of the default responder: a vskema.Envelope
	// for validation failures, an ErrorBody otherwise.
	Body any
	// Err is set for decode failures and canceled async passes.
	Err error
}

// ErrorBody is the payload for requests that never reached validation.
type ErrorBody struct {
	Status string                   `json:"status"`
	Msg    string                   `json:"msg"`
	Errors []vskema.ValidationError `json:"errors"`
}

// Validator checks request bodies against one schema.
type Validator struct {
	schema vskema.SchemaDefinition
	cfg    config
}

// New returns a Validator for s.
func New(s vskema.SchemaDefinition, opts ...Option) *Validator {
	cfg := config{
		engine:      engine.Default(),
		maxBytes:    DefaultMaxBodyBytes,
		logger:      slog.Default(),
		onRejection: DefaultRejectionHandler,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Validator{schema: s, cfg: cfg}
}

// Validate is New(s, opts...).Handler.
func Validate(s vskema.SchemaDefinition, opts ...Option) func(http.Handler) http.Handler {
	return New(s, opts...).Handler
}

// Handler wraps next.
func (v *Validator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, rej := v.Check(r)
		if rej != nil {
			v.cfg.onRejection(w, r, rej)
			return
		}
		ctx := WithResult(WithValue(r.Context(), res.Value), res)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Check decodes and validates the body of r. It returns a nil Rejection when
// the body is valid. Framework adapters build on Check.
func (v *Validator) Check(r *http.Request) (vskema.ValidationResult, *Rejection) {
	log := v.cfg.logger.With(slog.String("method", r.Method), slog.String("path", r.URL.Path))

	data, err := v.decode(r)
	if err != nil {
		log.Debug("request body rejected", slog.Any("error", err))
		return vskema.ValidationResult{}, &Rejection{
			Status: http.StatusBadRequest,
			Body:   errorBody(err.Error()),
			Err:    err,
		}
	}

	var res vskema.ValidationResult
	if v.cfg.async {
		// Each request debounces in its own session; a later request must
		// never supersede an earlier one's checks.
		opts := append([]vskema.Option{vskema.WithSession(uuid.NewString())}, v.cfg.validate...)
		res, err = v.cfg.engine.ValidateContext(r.Context(), v.schema, data, opts...)
		if err != nil {
			log.Debug("async validation abandoned", slog.Any("error", err))
			return res, &Rejection{
				Status: http.StatusServiceUnavailable,
				Body:   errorBody("validation did not complete"),
				Err:    err,
			}
		}
	} else {
		res = v.cfg.engine.Validate(v.schema, data, v.cfg.validate...)
	}

	if !res.Valid {
		log.Debug("request failed validation", slog.Int("hard", len(res.HardErrors)), slog.Int("soft", len(res.SoftErrors)))
		return res, &Rejection{
			Status: http.StatusUnprocessableEntity,
			Body:   vskema.ToEnvelope(res, nil),
		}
	}
	return res, nil
}

func (v *Validator) decode(r *http.Request) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	opts := append([]source.Option{source.RejectDuplicateKeys()}, v.cfg.decode...)
	if v.cfg.maxBytes > 0 {
		opts = append(opts, source.WithMaxBytes(v.cfg.maxBytes))
	}
	data, err := source.DecodeJSON(r.Body, opts...)
	var de *source.DecodeError
	if errors.As(err, &de) && errors.Is(de.Err, source.ErrSyntax) && de.Detail == "empty document" {
		return nil, nil
	}
	return data, err
}

func errorBody(msg string) ErrorBody {
	return ErrorBody{Status: "error", Msg: msg, Errors: []vskema.ValidationError{}}
}

// DefaultRejectionHandler writes rej.Body as JSON with rej.Status.
func DefaultRejectionHandler(w http.ResponseWriter, _ *http.Request, rej *Rejection) {
	WriteJSON(w, rej.Status, rej.Body)
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
