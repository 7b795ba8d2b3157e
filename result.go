package vskema

// ValidationResult is the outcome of one validation call.
type ValidationResult struct {
	Valid         bool                         `json:"valid" yaml:"valid"`
	HardErrors    ValidationErrors             `json:"hardErrors" yaml:"hardErrors"`
	SoftErrors    ValidationErrors             `json:"softErrors" yaml:"softErrors"`
	ErrorsByField map[string][]ValidationError `json:"errorsByField,omitempty" yaml:"errorsByField,omitempty"`
	// Value is the working value tree after defaults and transforms.
	Value any `json:"-" yaml:"-"`
}

// NewResult assembles a result from already-bucketed errors. The lists are
// never nil so JSON renders them as [].
func NewResult(hard, soft []ValidationError, byField bool, value any) ValidationResult {
	if hard == nil {
		hard = []ValidationError{}
	}
	if soft == nil {
		soft = []ValidationError{}
	}
	r := ValidationResult{
		Valid:      len(hard) == 0,
		HardErrors: hard,
		SoftErrors: soft,
		Value:      value,
	}
	if byField {
		r.ErrorsByField = GroupByField(append(append(make([]ValidationError, 0, len(hard)+len(soft)), hard...), soft...))
	}
	return r
}

// GroupByField groups errs by Field, keeping their relative order.
func GroupByField(errs []ValidationError) map[string][]ValidationError {
	out := make(map[string][]ValidationError)
	for _, e := range errs {
		out[e.Field] = append(out[e.Field], e)
	}
	return out
}

// Err returns the hard errors as an error, or nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return r.HardErrors
}

// All returns hard errors followed by soft errors.
func (r ValidationResult) All() ValidationErrors {
	out := make(ValidationErrors, 0, len(r.HardErrors)+len(r.SoftErrors))
	out = append(out, r.HardErrors...)
	return append(out, r.SoftErrors...)
}
