package vskema

// Envelope statuses.
const (
	StatusSuccess         = "success"
	StatusValidationError = "validation_error"
)

// Envelope is the response shape HTTP and serverless adapters emit.
type Envelope struct {
	Status     string             `json:"status" yaml:"status"`
	Data       any                `json:"data,omitempty" yaml:"data,omitempty"`
	Errors     []ValidationError  `json:"errors" yaml:"errors"`
	Msg        string             `json:"msg" yaml:"msg"`
	Validation EnvelopeValidation `json:"validation" yaml:"validation"`
}

// EnvelopeValidation carries both buckets.
type EnvelopeValidation struct {
	HardValidations []ValidationError `json:"hard_validations" yaml:"hard_validations"`
	SoftValidations []ValidationError `json:"soft_validations" yaml:"soft_validations"`
}

// ToEnvelope converts a result into the response envelope. data is echoed
// when non-nil. Errors mirrors the hard errors.
func ToEnvelope(r ValidationResult, data any) Envelope {
	hard := append([]ValidationError{}, r.HardErrors...)
	soft := append([]ValidationError{}, r.SoftErrors...)
	env := Envelope{
		Status: StatusSuccess,
		Data:   data,
		Errors: hard,
		Msg:    "Validation successful",
		Validation: EnvelopeValidation{
			HardValidations: hard,
			SoftValidations: soft,
		},
	}
	if !r.Valid {
		env.Status = StatusValidationError
		env.Msg = "Validation failed"
	}
	return env
}
