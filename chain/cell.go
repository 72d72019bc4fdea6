package chain

import (
	"fmt"
)

// Cell is where one byte of a pipeline lives.
type Cell struct {
	Name   string // Symbolic name, for listings.
	Addr   uint32 // Absolute address, when not a source field or preset.
	Stage  string // If set, the cell is a byte of this stage's lookup source address.
	Byte   int    // Byte of the source address, 0 is least significant.
	Preset bool   // If set, Value is built into the lookup source address.
	Value  byte
}

// At is a byte at an absolute address.
func At(name string, addr uint32) Cell {
	return Cell{Name: name, Addr: addr}
}

// SourceOf is byte n of a stage's lookup source address.
func SourceOf(stage string, n int) Cell {
	return Cell{Name: fmt.Sprintf("%v.src[%d]", stage, n), Stage: stage, Byte: n}
}

// Preset is a constant index byte.
func Preset(value byte) Cell {
	return Cell{Name: fmt.Sprintf("#%d", value), Preset: true, Value: value}
}

// Absolute returns true if the cell has a fixed address.
func (cell Cell) Absolute() bool {
	return !cell.Preset && len(cell.Stage) == 0
}

// Is returns true if both cells name the same byte.
func (cell Cell) Is(other Cell) bool {
	switch {
	case cell.Preset || other.Preset:
		return cell.Preset == other.Preset && cell.Value == other.Value
	case len(cell.Stage) != 0 || len(other.Stage) != 0:
		return cell.Stage == other.Stage && cell.Byte == other.Byte
	}
	return cell.Addr == other.Addr
}

func (cell Cell) String() string {
	if cell.Absolute() {
		return fmt.Sprintf("%v@%08x", cell.Name, cell.Addr)
	}
	return cell.Name
}
