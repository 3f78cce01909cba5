// Package script extracts display text from string literals in decompiled
// Flash scripts and substitutes translations back in place.
//
// A literal is a double quote, a run of non-quote bytes and a closing
// double quote. Escaped quotes inside a literal are not recognised: a
// literal containing \" is cut short at the backslash-quote and the
// remainder is scanned as if it were code.
//
// Extraction and substitution are two independent passes over the same
// source through one scan routine, so the segment order of both passes is
// derived from (source, policy) alone.
package script

import (
	"strings"
)

// Scanner extracts and substitutes literal text under one inclusion policy.
// It holds no per-scan state and is safe for concurrent use.
type Scanner struct {
	policy Policy
}

// NewScanner returns a scanner using the default policy for mode.
func NewScanner(mode Mode) *Scanner {
	return &Scanner{policy: NewPolicy(mode)}
}

// NewScannerWithPolicy returns a scanner using a custom policy.
func NewScannerWithPolicy(p Policy) *Scanner {
	return &Scanner{policy: p}
}

// Policy returns the scanner's inclusion policy.
func (s *Scanner) Policy() Policy {
	return s.policy
}

// literalFunc receives the plain segments and markup runs of an included
// literal and returns the new literal content.
type literalFunc func(plain, markup []string) string

// scan walks src left to right and calls fn for every included literal in
// source order. When rewrite is true the returned string is src with each
// included literal's content replaced by fn's result; otherwise it is empty.
// The returned error, if any, is an *UnboundedLiteralError.
func (s *Scanner) scan(src string, rewrite bool, fn literalFunc) (string, error) {
	var out strings.Builder
	if rewrite {
		out.Grow(len(src))
	}

	pos := 0
	for pos < len(src) {
		open := strings.IndexByte(src[pos:], '"')
		if open < 0 {
			break
		}
		open += pos

		closing := strings.IndexByte(src[open+1:], '"')
		if closing < 0 {
			if rewrite {
				out.WriteString(src[pos:])
			}
			return out.String(), &UnboundedLiteralError{Offset: open}
		}
		closing += open + 1

		content := src[open+1 : closing]
		replaced := content
		if s.policy.ShouldInclude(content) {
			plain, markup := Split(content)
			replaced = fn(plain, markup)
		}

		if rewrite {
			out.WriteString(src[pos : open+1])
			out.WriteString(replaced)
			out.WriteByte('"')
		}
		pos = closing + 1
	}

	if rewrite {
		out.WriteString(src[pos:])
	}
	return out.String(), nil
}

// Extract returns the plain segments of every included literal, in source
// order and left to right within each literal.
func (s *Scanner) Extract(src string) []string {
	var segments []string
	_, _ = s.scan(src, false, func(plain, _ []string) string {
		segments = append(segments, plain...)
		return ""
	})
	return segments
}

// Check reports an *UnboundedLiteralError if src ends inside a literal.
func (s *Scanner) Check(src string) error {
	_, err := s.scan(src, false, func([]string, []string) string { return "" })
	return err
}

// Substitute replaces the extracted segments of src, in order, with
// replacements. Each replacement is escaped with EscapeSegment; markup runs,
// excluded literals and all other text are kept byte for byte. If the
// number of replacements differs from the number of extracted segments a
// *SegmentCountError is returned and src is not rewritten.
func (s *Scanner) Substitute(src string, replacements []string) (string, error) {
	if want := len(s.Extract(src)); want != len(replacements) {
		return "", &SegmentCountError{Want: want, Got: len(replacements)}
	}

	next := 0
	out, _ := s.scan(src, true, func(plain, markup []string) string {
		escaped := make([]string, len(plain))
		for i := range plain {
			escaped[i] = EscapeSegment(replacements[next])
			next++
		}
		return Join(escaped, markup)
	})
	return out, nil
}

var segmentEscaper = strings.NewReplacer(`"`, `'`, "<", "", "\n", "", "&", "")

// EscapeSegment makes a replacement safe to place inside a literal: double
// quotes become single quotes and '<', '&' and newlines are removed.
func EscapeSegment(s string) string {
	return segmentEscaper.Replace(s)
}

// Extract is shorthand for NewScanner(mode).Extract(src).
func Extract(src string, mode Mode) []string {
	return NewScanner(mode).Extract(src)
}

// Substitute is shorthand for NewScanner(mode).Substitute(src, replacements).
func Substitute(src string, mode Mode, replacements []string) (string, error) {
	return NewScanner(mode).Substitute(src, replacements)
}
