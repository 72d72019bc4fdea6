package memory

import (
	"errors"

	"github.com/ezrec/samdma/translate"
)

var f = translate.From

var (
	ErrUnmapped      = errors.New(f("unmapped"))
	ErrReadOnly      = errors.New(f("read only"))
	ErrOverlap       = errors.New(f("region overlap"))
	ErrRegionInvalid = errors.New(f("region invalid"))
)

// ErrAccess locates a faulting bus access.
type ErrAccess struct {
	Addr uint32
	Size int
	Err  error
}

func (err *ErrAccess) Error() string {
	return f("0x%08x+%d: %v", err.Addr, err.Size, err.Err)
}

func (err *ErrAccess) Unwrap() error {
	return err.Err
}
