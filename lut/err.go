package lut

import (
	"errors"

	"github.com/ezrec/samdma/translate"
)

var f = translate.From

var (
	ErrSizeMismatch = errors.New(f("table size mismatch"))
	ErrKindInvalid  = errors.New(f("table kind invalid"))
)

// SizeError reports a destination buffer that does not fit a table.
type SizeError struct {
	Table Table
	Want  int
	Got   int
}

func (err *SizeError) Error() string {
	return f("%v: need %d bytes, have %d", err.Table, err.Want, err.Got)
}

func (err *SizeError) Unwrap() error {
	return ErrSizeMismatch
}
