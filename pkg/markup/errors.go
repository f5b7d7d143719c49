package markup

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmatchedClose is returned for a close tag with no open tag, or one
	// that does not match the innermost open tag.
	ErrUnmatchedClose = errors.New("unmatched close tag")
	// ErrUnterminatedTag is returned when input ends with tags still open.
	ErrUnterminatedTag = errors.New("unterminated tag")
)

// SyntaxError reports where in the input parsing failed.
type SyntaxError struct {
	Offset int
	Tag    string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("markup: %v %q at offset %d", e.Err, e.Tag, e.Offset)
	}
	return fmt.Sprintf("markup: %v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
