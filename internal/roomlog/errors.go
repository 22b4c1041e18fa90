package roomlog

import (
	"errors"
	"fmt"
)

// ErrNotObject reports a line that is valid JSON but not an object.
var ErrNotObject = errors.New("expected a JSON object")

var errMissingTime = errors.New("missing timestamp")

// ParseError reports a line that could not be decoded into a record.
type ParseError struct {
	Line int // 1-based physical line number
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingKeyError reports a record without a grouping key. The record is
// still kept and grouped under the unknown bucket.
type MissingKeyError struct {
	Line int
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("line %d: missing %s", e.Line, e.Key)
}

// TimeParseError reports a record whose Time could not be turned into an
// instant. Such records order before every valid timestamp.
type TimeParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *TimeParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: bad time %q: %v", e.Line, e.Value, e.Err)
}

func (e *TimeParseError) Unwrap() error { return e.Err }
