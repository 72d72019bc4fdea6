package chain

import (
	"errors"

	"github.com/ezrec/samdma/translate"
)

var f = translate.From

var (
	ErrChainOverrun   = errors.New(f("descriptor storage too small"))
	ErrMisaligned     = errors.New(f("descriptor storage misaligned"))
	ErrScratchSize    = errors.New(f("scratch region too small"))
	ErrScratchAlias   = errors.New(f("scratch aliased"))
	ErrOperand        = errors.New(f("operand invalid"))
	ErrStageDuplicate = errors.New(f("stage duplicated"))
	ErrStageUnknown   = errors.New(f("stage unknown"))
	ErrStageOrder     = errors.New(f("stage feeds an earlier stage"))
	ErrUnfed          = errors.New(f("index byte never fed"))
	ErrIndexWidth     = errors.New(f("index width invalid"))
)

// ErrStage locates a compile failure at a stage.
type ErrStage struct {
	Stage string
	Err   error
}

func (err *ErrStage) Error() string {
	return f("stage %v: %v", err.Stage, err.Err)
}

func (err *ErrStage) Unwrap() error {
	return err.Err
}
