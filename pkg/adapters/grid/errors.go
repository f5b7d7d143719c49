package grid

import "errors"

var (
	ErrNotLaidOut = errors.New("field has not been laid out")
	ErrNoSection  = errors.New("no such mesh section")
)
