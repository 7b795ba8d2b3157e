package vskema

// Kind identifies the runtime shape a field accepts.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindDate, KindArray, KindObject:
		return true
	}
	return false
}

// UnknownPolicy controls how object keys absent from a schema are handled.
type UnknownPolicy string

const (
	UnknownIgnore      UnknownPolicy = "ignore"      // Accept and drop unknown keys.
	UnknownPassthrough UnknownPolicy = "passthrough" // Accept and keep unknown keys.
	UnknownStrict      UnknownPolicy = "strict"      // Reject every unknown key.
	UnknownCatchall    UnknownPolicy = "catchall"    // Validate unknown keys against a fallback definition.
)

// Severity tells whether an error blocks (hard) or only warns (soft).
type Severity string

const (
	SeverityHard Severity = "hard"
	SeveritySoft Severity = "soft"
)

// SeverityOf maps the soft flag of a rule to a Severity.
func SeverityOf(soft bool) Severity {
	if soft {
		return SeveritySoft
	}
	return SeverityHard
}
