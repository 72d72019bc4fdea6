package ucode

import (
	"fmt"
	"strings"

	"github.com/ezrec/samdma/chain"
)

// OpKind is a microcode operation.
type OpKind int

//go:generate go tool stringer -linecomment -type=OpKind
const (
	OP_ADD8  = OpKind(iota) // add8
	OP_ADC8                 // adc8
	OP_ADD16                // add16
	OP_ADD32                // add32
	OP_EQ8                  // eq8
)

// Width returns the operand width in bytes.
func (kind OpKind) Width() int {
	switch kind {
	case OP_ADD16:
		return 2
	case OP_ADD32:
		return 4
	default:
		return 1
	}
}

// Op is one assembled operation.
type Op struct {
	LineNo int      // Line number of the operation.
	Index  int      // Position in the program.
	Label  string   // Label of the operation, if any.
	Words  []string // Source words, after expansion.
	Kind   OpKind

	A, B     uint32
	Result   uint32
	CarryIn  uint32 // adc8 only.
	CarryOut uint32 // Optional for the adds.

	Match    byte // eq8 result when equal.
	Mismatch byte // eq8 result when not equal.
}

// Operands returns the chain operands of the operation.
func (op *Op) Operands() chain.Operands {
	return chain.Operands{
		A:        op.A,
		B:        op.B,
		Result:   op.Result,
		CarryIn:  op.CarryIn,
		CarryOut: op.CarryOut,
	}
}

// String returns the operation as source text.
func (op *Op) String() string {
	text := strings.Join(op.Words, " ")
	if len(op.Label) != 0 {
		text = fmt.Sprintf("%v: %v", op.Label, text)
	}
	return text
}
