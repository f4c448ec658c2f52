package subst

import (
	"iter"
	"regexp"
)

// placeholderPattern matches one percent-delimited placeholder. The key
// is any non-empty run of non-percent characters, so an unpaired '%'
// never starts a match and placeholders cannot nest. There is no escape
// syntax for a literal '%'.
var placeholderPattern = regexp.MustCompile(`%([^%]+)%`)

// Span is one placeholder occurrence within a template string.
type Span struct {
	// Key is the placeholder body without the delimiters.
	Key string
	// Start and End are the byte offsets of the full %key% token.
	Start, End int
}

// MatchWhole reports whether the template is exactly one placeholder
// with nothing before or after, and returns its key.
func MatchWhole(template string) (string, bool) {
	m := placeholderPattern.FindStringSubmatchIndex(template)
	if m == nil || m[0] != 0 || m[1] != len(template) {
		return "", false
	}
	return template[m[2]:m[3]], true
}

// ScanAll returns the placeholders embedded in the template, strictly
// left to right and non-overlapping. The sequence is lazy and can be
// restarted. Text with no well-formed placeholder yields nothing.
func ScanAll(template string) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		pos := 0
		for pos < len(template) {
			m := placeholderPattern.FindStringSubmatchIndex(template[pos:])
			if m == nil {
				return
			}
			span := Span{
				Key:   template[pos+m[2] : pos+m[3]],
				Start: pos + m[0],
				End:   pos + m[1],
			}
			if !yield(span) {
				return
			}
			pos = span.End
		}
	}
}
