package ucode

import (
	"iter"
	"slices"

	"github.com/ezrec/samdma/lut"
)

// Data is initial memory contents.
type Data struct {
	LineNo int
	Addr   uint32
	Bytes  []byte
}

// Program is an assembled listing.
type Program struct {
	Ops    []Op
	Data   []Data
	Label  map[string]int    // Map of labels to operation indexes.
	Symbol map[string]uint32 // Map of data labels to addresses.
}

// Lookup returns the operation at a label.
func (prog *Program) Lookup(label string) (op *Op, err error) {
	index, ok := prog.Label[label]
	if !ok || index >= len(prog.Ops) {
		err = ErrLabelMissing(label)
		return
	}

	op = &prog.Ops[index]
	return
}

// Tables returns the compare tables needed beyond the standard set.
func (prog *Program) Tables() (tables []lut.Table) {
	for _, op := range prog.Ops {
		if op.Kind != OP_EQ8 {
			continue
		}
		table := lut.CompareEqual(op.Match, op.Mismatch)
		if !slices.Contains(tables, table) {
			tables = append(tables, table)
		}
	}

	return
}

// Image iterates over the initial memory contents.
func (prog *Program) Image() iter.Seq2[uint32, []byte] {
	return func(yield func(addr uint32, data []byte) bool) {
		for _, data := range prog.Data {
			if !yield(data.Addr, data.Bytes) {
				return
			}
		}
	}
}
