package emulator

import (
	"errors"

	"github.com/ezrec/samdma/translate"
)

var f = translate.From

var (
	ErrProgramEmpty = errors.New(f("program empty"))
)

// ErrRuntime indicates the listing line of an error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
