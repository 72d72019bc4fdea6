package dmac

import (
	"fmt"
)

// Control is the BTCTRL block transfer control word.
type Control uint16

// BlockAction is the action taken when a block transfer completes.
type BlockAction int

//go:generate go tool stringer -linecomment -type=BlockAction
const (
	BLOCKACT_NOACT   = BlockAction(0) // noact
	BLOCKACT_INT     = BlockAction(1) // int
	BLOCKACT_SUSPEND = BlockAction(2) // suspend
	BLOCKACT_BOTH    = BlockAction(3) // both
)

// EventOutput selects when the descriptor generates an output event.
type EventOutput int

const (
	EVOSEL_DISABLE = EventOutput(0) // No event.
	EVOSEL_BLOCK   = EventOutput(1) // Event on block transfer complete.
	EVOSEL_BEAT    = EventOutput(3) // Event on each beat.
)

// BeatSize is the size of one beat.
type BeatSize int

const (
	BEATSIZE_BYTE  = BeatSize(0)
	BEATSIZE_HWORD = BeatSize(1)
	BEATSIZE_WORD  = BeatSize(2)
)

// Bytes per beat.
func (bs BeatSize) Bytes() int {
	return 1 << bs
}

// StepSel selects which address the long step size applies to.
type StepSel int

const (
	STEPSEL_DST = StepSel(0)
	STEPSEL_SRC = StepSel(1)
)

// BTCTRL bit fields.
const (
	BTCTRL_VALID          = Control(1 << 0)
	BTCTRL_EVOSEL_SHIFT   = 1
	BTCTRL_EVOSEL_MASK    = Control(0b11 << BTCTRL_EVOSEL_SHIFT)
	BTCTRL_BLOCKACT_SHIFT = 3
	BTCTRL_BLOCKACT_MASK  = Control(0b11 << BTCTRL_BLOCKACT_SHIFT)
	BTCTRL_BEATSIZE_SHIFT = 8
	BTCTRL_BEATSIZE_MASK  = Control(0b11 << BTCTRL_BEATSIZE_SHIFT)
	BTCTRL_SRCINC         = Control(1 << 10)
	BTCTRL_DSTINC         = Control(1 << 11)
	BTCTRL_STEPSEL        = Control(1 << 12)
	BTCTRL_STEPSIZE_SHIFT = 13
	BTCTRL_STEPSIZE_MASK  = Control(0b111 << BTCTRL_STEPSIZE_SHIFT)
)

// MakeControl creates a valid control word for a plain byte copy.
func MakeControl(srcinc, dstinc bool) (ctrl Control) {
	ctrl = BTCTRL_VALID
	if srcinc {
		ctrl |= BTCTRL_SRCINC
	}
	if dstinc {
		ctrl |= BTCTRL_DSTINC
	}
	return
}

// WithBlockAction returns the control word with a block action.
func (ctrl Control) WithBlockAction(action BlockAction) Control {
	return (ctrl & ^BTCTRL_BLOCKACT_MASK) | (Control(action) << BTCTRL_BLOCKACT_SHIFT)
}

// WithEvent returns the control word with an event output selection.
func (ctrl Control) WithEvent(evosel EventOutput) Control {
	return (ctrl & ^BTCTRL_EVOSEL_MASK) | (Control(evosel) << BTCTRL_EVOSEL_SHIFT)
}

// WithBeatSize returns the control word with a beat size.
func (ctrl Control) WithBeatSize(size BeatSize) Control {
	return (ctrl & ^BTCTRL_BEATSIZE_MASK) | (Control(size) << BTCTRL_BEATSIZE_SHIFT)
}

// WithStep returns the control word with a step selection and a step size
// of 1 << size beats.
func (ctrl Control) WithStep(sel StepSel, size int) Control {
	ctrl &= ^(BTCTRL_STEPSEL | BTCTRL_STEPSIZE_MASK)
	if sel == STEPSEL_SRC {
		ctrl |= BTCTRL_STEPSEL
	}
	return ctrl | ((Control(size) << BTCTRL_STEPSIZE_SHIFT) & BTCTRL_STEPSIZE_MASK)
}

// Valid returns true if the descriptor is valid.
func (ctrl Control) Valid() bool {
	return (ctrl & BTCTRL_VALID) != 0
}

// Event returns the event output selection.
func (ctrl Control) Event() EventOutput {
	return EventOutput((ctrl & BTCTRL_EVOSEL_MASK) >> BTCTRL_EVOSEL_SHIFT)
}

// BlockAction returns the block completion action.
func (ctrl Control) BlockAction() BlockAction {
	return BlockAction((ctrl & BTCTRL_BLOCKACT_MASK) >> BTCTRL_BLOCKACT_SHIFT)
}

// BeatSize returns the beat size.
func (ctrl Control) BeatSize() BeatSize {
	return BeatSize((ctrl & BTCTRL_BEATSIZE_MASK) >> BTCTRL_BEATSIZE_SHIFT)
}

// SrcInc returns true if the source address increments.
func (ctrl Control) SrcInc() bool {
	return (ctrl & BTCTRL_SRCINC) != 0
}

// DstInc returns true if the destination address increments.
func (ctrl Control) DstInc() bool {
	return (ctrl & BTCTRL_DSTINC) != 0
}

// Step returns the step selection and the step size exponent.
func (ctrl Control) Step() (sel StepSel, size int) {
	if (ctrl & BTCTRL_STEPSEL) != 0 {
		sel = STEPSEL_SRC
	}
	size = int((ctrl & BTCTRL_STEPSIZE_MASK) >> BTCTRL_STEPSIZE_SHIFT)
	return
}

// Strides returns the per-beat address increment of the source and
// destination in bytes. Zero means the address does not increment.
func (ctrl Control) Strides() (src, dst uint32) {
	beat := uint32(ctrl.BeatSize().Bytes())
	sel, size := ctrl.Step()
	if ctrl.SrcInc() {
		src = beat
		if sel == STEPSEL_SRC {
			src <<= size
		}
	}
	if ctrl.DstInc() {
		dst = beat
		if sel == STEPSEL_DST {
			dst <<= size
		}
	}
	return
}

// String returns a compact description of the control word.
func (ctrl Control) String() string {
	valid := "-"
	if ctrl.Valid() {
		valid = "v"
	}
	inc := ""
	if ctrl.SrcInc() {
		inc += "+s"
	}
	if ctrl.DstInc() {
		inc += "+d"
	}
	return fmt.Sprintf("%v%v.b%d%v", valid, ctrl.BlockAction(), ctrl.BeatSize().Bytes(), inc)
}
