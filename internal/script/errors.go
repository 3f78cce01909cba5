package script

import (
	"errors"
	"fmt"
)

var (
	// ErrSegmentCountMismatch is matched by *SegmentCountError.
	ErrSegmentCountMismatch = errors.New("segment count mismatch")
	// ErrUnboundedLiteral is matched by *UnboundedLiteralError.
	ErrUnboundedLiteral = errors.New("unbounded string literal")
	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("unknown inclusion mode")
)

// SegmentCountError reports a replacement sequence whose length differs
// from the number of extracted segments. Nothing is rewritten.
type SegmentCountError struct {
	Want int
	Got  int
}

func (e *SegmentCountError) Error() string {
	return fmt.Sprintf("segment count mismatch: extracted %d, got %d replacements", e.Want, e.Got)
}

func (e *SegmentCountError) Is(target error) bool {
	return target == ErrSegmentCountMismatch
}

// UnboundedLiteralError reports a double quote with no closing quote before
// the end of input. It is a scan anomaly, not a failure: the text from
// Offset onwards passes through untouched and yields no segments.
type UnboundedLiteralError struct {
	Offset int
}

func (e *UnboundedLiteralError) Error() string {
	return fmt.Sprintf("unbounded string literal at byte offset %d", e.Offset)
}

func (e *UnboundedLiteralError) Is(target error) bool {
	return target == ErrUnboundedLiteral
}
