package layout

import (
	"errors"

	"github.com/ezrec/samdma/translate"
)

var f = translate.From

var (
	ErrAlignment      = errors.New(f("alignment not a power of two"))
	ErrMisaligned     = errors.New(f("misaligned"))
	ErrOverlap        = errors.New(f("region overlap"))
	ErrRegionFull     = errors.New(f("region full"))
	ErrIndexWidth     = errors.New(f("index width invalid"))
	ErrBankSize       = errors.New(f("bank larger than its index reach"))
	ErrBankEmpty      = errors.New(f("bank empty"))
	ErrTableMissing   = errors.New(f("table missing"))
	ErrTableDuplicate = errors.New(f("table duplicated"))
	ErrBaseCount      = errors.New(f("bank and base counts differ"))
)

// ErrRegion locates a planning failure.
type ErrRegion struct {
	Name string
	Base uint32
	Err  error
}

func (err *ErrRegion) Error() string {
	return f("%v at 0x%08x: %v", err.Name, err.Base, err.Err)
}

func (err *ErrRegion) Unwrap() error {
	return err.Err
}
