package vskema

import (
	"strconv"
	"strings"
)

// Path builds dotted/bracket field paths (address.zip, items[2].sku) in a
// chain-safe way. The zero value is the root path.
type Path struct {
	segs []any
}

// RootPath returns the empty path.
func RootPath() Path { return Path{} }

// Field appends an object key.
func (p Path) Field(name string) Path {
	return Path{segs: append(append(make([]any, 0, len(p.segs)+1), p.segs...), name)}
}

// Index appends an array index.
func (p Path) Index(i int) Path {
	return Path{segs: append(append(make([]any, 0, len(p.segs)+1), p.segs...), i)}
}

// IsRoot reports whether no segment has been appended.
func (p Path) IsRoot() bool { return len(p.segs) == 0 }

// Segments returns a copy of the segments (string keys and int indexes).
func (p Path) Segments() []any {
	return append(make([]any, 0, len(p.segs)), p.segs...)
}

// String renders the path in dotted/bracket notation.
func (p Path) String() string {
	if len(p.segs) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, s := range p.segs {
		switch t := s.(type) {
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(t))
			b.WriteByte(']')
		case string:
			if needsQuote(t) {
				b.WriteByte('[')
				b.WriteString(strconv.Quote(t))
				b.WriteByte(']')
				continue
			}
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(t)
		}
	}
	return b.String()
}

// needsQuote reports whether key would not survive ParsePath in dotted form.
// Such keys render as ["x.y"].
func needsQuote(key string) bool {
	return key == "" || strings.ContainsAny(key, `.[]"`)
}

// Error creates a ValidationError located at this path.
func (p Path) Error(code, msg string, sev Severity) ValidationError {
	return ValidationError{Field: p.String(), PathSegments: p.Segments(), Code: code, Message: msg, Severity: sev}
}

// ParsePath splits a dotted/bracket path into segments. Bracketed integers
// become int segments, a bracketed quoted string is a key taken verbatim and
// everything else is a string key.
func ParsePath(s string) []any {
	out := make([]any, 0, 4)
	if s == "" {
		return out
	}
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '.':
			flush()
		case '[':
			flush()
			if i+1 < len(s) && s[i+1] == '"' {
				if q, err := strconv.QuotedPrefix(s[i+1:]); err == nil && strings.HasPrefix(s[i+1+len(q):], "]") {
					key, _ := strconv.Unquote(q)
					out = append(out, key)
					i += len(q) + 1
					continue
				}
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				cur.WriteString(s[i:])
				i = len(s)
				continue
			}
			inner := s[i+1 : i+end]
			if n, err := strconv.Atoi(inner); err == nil {
				out = append(out, n)
			} else {
				out = append(out, inner)
			}
			i += end
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

// PathFrom rebuilds a Path from a rendered string.
func PathFrom(s string) Path { return Path{segs: ParsePath(s)} }
