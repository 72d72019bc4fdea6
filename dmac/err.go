package dmac

import (
	"errors"

	"github.com/ezrec/samdma/translate"
)

var f = translate.From

var (
	ErrBusy              = errors.New(f("channel busy"))
	ErrIdle              = errors.New(f("channel idle"))
	ErrSuspended         = errors.New(f("channel suspended"))
	ErrRunaway           = errors.New(f("chain did not terminate"))
	ErrDescriptorShort   = errors.New(f("descriptor short"))
	ErrDescriptorInvalid = errors.New(f("descriptor invalid"))
	ErrDescriptorCount   = errors.New(f("descriptor beat count zero"))
	ErrDescriptorAlign   = errors.New(f("descriptor misaligned"))
)

// ErrTransfer locates a fault at a descriptor.
type ErrTransfer struct {
	Descriptor uint32
	Err        error
}

func (err *ErrTransfer) Error() string {
	return f("descriptor 0x%08x: %v", err.Descriptor, err.Err)
}

func (err *ErrTransfer) Unwrap() error {
	return err.Err
}
