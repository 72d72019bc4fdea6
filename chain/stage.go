package chain

import (
	"errors"
	"fmt"

	"github.com/ezrec/samdma/layout"
	"github.com/ezrec/samdma/lut"
)

// Stage is one table lookup.
type Stage struct {
	Name  string
	Table lut.Table
	Index []Cell // Index bytes, least significant first.
	Dest  Cell
}

// fed returns true if index byte n is written by an earlier stage.
func (stage *Stage) fed(n int) bool {
	cell := stage.Index[n]
	return cell.Stage == stage.Name && cell.Byte == n
}

// patch is a run of index bytes copied by one descriptor.
type patch struct {
	from  Cell
	at    int
	count int
}

// patches returns the copies needed to assemble the index.
func (stage *Stage) patches() (list []patch) {
	for n, cell := range stage.Index {
		if cell.Preset || stage.fed(n) {
			continue
		}
		if len(list) > 0 {
			last := &list[len(list)-1]
			if last.at+last.count == n && last.from.Absolute() && cell.Absolute() &&
				last.from.Addr+uint32(last.count) == cell.Addr {
				last.count++
				continue
			}
		}
		list = append(list, patch{from: cell, at: n, count: 1})
	}

	return
}

// Plan is a stage sequence with its operand cells.
type Plan struct {
	Name     string
	Stages   []Stage
	Scratch  layout.Region // Scratch bytes used by the stages.
	Result   uint32
	CarryOut uint32 // Zero if the operation has no carry.
}

// Descriptors returns the number of descriptors the plan compiles to.
func (plan *Plan) Descriptors() (count int) {
	for n := range plan.Stages {
		count += len(plan.Stages[n].patches()) + 1
	}
	return
}

// Operands of an operation. Multi-byte operands are little endian.
// A zero address is unset.
type Operands struct {
	A, B     uint32
	Result   uint32
	CarryIn  uint32 // Optional cell holding 0 or 1.
	CarryOut uint32 // Optional cell receiving the carry.
}

// Scratch bytes per byte of an add: the low pair and its carry in, the
// high pair and its carry in.
const ADD_SCRATCH = 4

// Scratch bytes of an equality test.
const EQUAL8_SCRATCH = 2

// AddScratch returns the scratch bytes needed by an add of width bytes.
func AddScratch(width int) uint32 {
	return uint32(ADD_SCRATCH*width) + 1
}

func (ops Operands) check() (err error) {
	if ops.A == 0 || ops.B == 0 || ops.Result == 0 {
		err = ErrOperand
	}
	return
}

// span is the bytes of an operand, empty if it is unset.
func span(name string, addr uint32, size int) layout.Region {
	if addr == 0 {
		size = 0
	}
	return layout.Region{Name: name, Base: addr, Size: uint32(size), Align: 1}
}

// alias rejects operands that share bytes with the scratch cells, or a
// result that overlaps an input at a different offset. A result in place
// of an input is allowed: each result byte is written after its input
// bytes are read.
func (ops Operands) alias(width int, scratch layout.Region) (err error) {
	a := span("a", ops.A, width)
	b := span("b", ops.B, width)
	r := span("r", ops.Result, width)
	cout := span("cout", ops.CarryOut, 1)

	for _, op := range []layout.Region{a, b, r, span("cin", ops.CarryIn, 1), cout} {
		if op.Size > 0 && op.Overlaps(scratch) {
			return fmt.Errorf("%w: %v@%08x", ErrScratchAlias, op.Name, op.Base)
		}
	}

	for _, in := range []layout.Region{a, b} {
		if r.Overlaps(in) && r.Base != in.Base {
			return fmt.Errorf("%w: r@%08x %v@%08x", ErrOperand, r.Base, in.Name, in.Base)
		}
	}

	if cout.Size > 0 && cout.Overlaps(r) {
		return fmt.Errorf("%w: cout@%08x", ErrOperand, cout.Base)
	}

	return
}

func alloc(scratch *layout.Arena, name string, size uint32) (addr uint32, err error) {
	addr, err = scratch.Alloc(name, size)
	if err != nil {
		err = errors.Join(ErrScratchSize, err)
	}
	return
}

func used(scratch *layout.Arena, name string, start uint32) layout.Region {
	return layout.Region{
		Name:  name,
		Base:  scratch.Region.Base + start,
		Size:  scratch.Used() - start,
		Align: 1,
	}
}

// addByte appends the stages adding one byte.
//
// lo and hi are adjacent scratch pairs: lo holds the combined low nybbles,
// and hi holds the combined high nybbles followed by the low nybble carry.
// cin is the carry into the byte, cout receives the carry out.
func addByte(stages []Stage, prefix string, a, b, r uint32, lo, hi uint32, cin, cout Cell) []Stage {
	name := func(s string) string { return prefix + s }
	ll := lut.Table{Kind: lut.LOW_NYBBLE_TO_LOW_NYBBLE}
	hl := lut.Table{Kind: lut.HIGH_NYBBLE_TO_LOW_NYBBLE}
	combine := lut.Table{Kind: lut.NYBBLE_LOW_COMBINE}
	sum := lut.Table{Kind: lut.CARRY_IN_0.Sum()}
	carry := lut.Table{Kind: lut.CARRY_IN_0.CarryOut()}

	return append(stages,
		Stage{
			Name:  name("a.lo"),
			Table: ll,
			Index: []Cell{At("a", a)},
			Dest:  SourceOf(name("combine.lo"), 1),
		},
		Stage{
			Name:  name("combine.lo"),
			Table: combine,
			Index: []Cell{At("b", b), SourceOf(name("combine.lo"), 1)},
			Dest:  At("lo", lo),
		},
		Stage{
			Name:  name("sum.lo"),
			Table: sum,
			Index: []Cell{At("lo", lo), cin},
			Dest:  SourceOf(name("combine.out"), 0),
		},
		Stage{
			Name:  name("carry.lo"),
			Table: carry,
			Index: []Cell{At("lo", lo), cin},
			Dest:  At("hi.cin", hi+1),
		},
		Stage{
			Name:  name("a.hi"),
			Table: hl,
			Index: []Cell{At("a", a)},
			Dest:  SourceOf(name("combine.hi"), 1),
		},
		Stage{
			Name:  name("b.hi"),
			Table: hl,
			Index: []Cell{At("b", b)},
			Dest:  SourceOf(name("combine.hi"), 0),
		},
		Stage{
			Name:  name("combine.hi"),
			Table: combine,
			Index: []Cell{SourceOf(name("combine.hi"), 0), SourceOf(name("combine.hi"), 1)},
			Dest:  At("hi", hi),
		},
		Stage{
			Name:  name("sum.hi"),
			Table: sum,
			Index: []Cell{At("hi", hi), At("hi.cin", hi+1)},
			Dest:  SourceOf(name("combine.out"), 1),
		},
		Stage{
			Name:  name("carry.hi"),
			Table: carry,
			Index: []Cell{At("hi", hi), At("hi.cin", hi+1)},
			Dest:  cout,
		},
		Stage{
			Name:  name("combine.out"),
			Table: combine,
			Index: []Cell{SourceOf(name("combine.out"), 0), SourceOf(name("combine.out"), 1)},
			Dest:  At("r", r),
		},
	)
}

// PlanAdd plans a little endian add of width bytes, with scratch cells
// taken from the arena.
//
// Each byte carries into the next through the carry-in cell of the next
// byte's low pair, so the two bytes of the sum index are adjacent.
func PlanAdd(width int, ops Operands, scratch *layout.Arena) (plan *Plan, err error) {
	if width < 1 {
		err = ErrOperand
		return
	}
	err = ops.check()
	if err != nil {
		return
	}

	start := scratch.Used()

	name := fmt.Sprintf("add%d", width*8)
	if ops.CarryIn != 0 {
		name = fmt.Sprintf("adc%d", width*8)
	}

	cells := make([]uint32, width)
	for n := range cells {
		cells[n], err = alloc(scratch, fmt.Sprintf("%v.%d", name, n), ADD_SCRATCH)
		if err != nil {
			return
		}
	}

	carryOut := ops.CarryOut
	if carryOut == 0 {
		carryOut, err = alloc(scratch, name+".cout", 1)
		if err != nil {
			return
		}
	}

	plan = &Plan{
		Name:     name,
		Result:   ops.Result,
		CarryOut: carryOut,
	}

	cin := Preset(0)
	if ops.CarryIn != 0 {
		cin = At("cin", ops.CarryIn)
	}

	for n := range width {
		prefix := ""
		if width > 1 {
			prefix = fmt.Sprintf("b%d.", n)
		}
		lo := cells[n]
		hi := lo + 2
		cout := At("cout", carryOut)
		if n+1 < width {
			cout = At("cin", cells[n+1]+1)
		}
		k := uint32(n)
		plan.Stages = addByte(plan.Stages, prefix, ops.A+k, ops.B+k, ops.Result+k, lo, hi, cin, cout)
		cin = cout
	}

	plan.Scratch = used(scratch, name, start)

	err = ops.alias(width, plan.Scratch)
	if err != nil {
		plan = nil
	}

	return
}

// PlanEqual8 plans a byte equality test writing match or mismatch to the
// result.
//
// Each nybble pair is compared separately. The low compare yields 1 or 0,
// the high compare 1 or 2, so the combined byte is 0x11 only when both
// nybbles are equal, which the final compare maps to match.
func PlanEqual8(ops Operands, match, mismatch byte, scratch *layout.Arena) (plan *Plan, err error) {
	err = ops.check()
	if err != nil {
		return
	}

	start := scratch.Used()

	lo, err := alloc(scratch, "eq8.lo", 1)
	if err != nil {
		return
	}
	hi, err := alloc(scratch, "eq8.hi", 1)
	if err != nil {
		return
	}

	ll := lut.Table{Kind: lut.LOW_NYBBLE_TO_LOW_NYBBLE}
	hl := lut.Table{Kind: lut.HIGH_NYBBLE_TO_LOW_NYBBLE}
	combine := lut.Table{Kind: lut.NYBBLE_LOW_COMBINE}

	plan = &Plan{
		Name:   "eq8",
		Result: ops.Result,
		Stages: []Stage{
			{
				Name:  "a.lo",
				Table: ll,
				Index: []Cell{At("a", ops.A)},
				Dest:  SourceOf("combine.lo", 1),
			},
			{
				Name:  "combine.lo",
				Table: combine,
				Index: []Cell{At("b", ops.B), SourceOf("combine.lo", 1)},
				Dest:  At("lo", lo),
			},
			{
				Name:  "eq.lo",
				Table: lut.CompareEqual(1, 0),
				Index: []Cell{At("lo", lo)},
				Dest:  SourceOf("combine.eq", 0),
			},
			{
				Name:  "a.hi",
				Table: hl,
				Index: []Cell{At("a", ops.A)},
				Dest:  SourceOf("combine.hi", 1),
			},
			{
				Name:  "b.hi",
				Table: hl,
				Index: []Cell{At("b", ops.B)},
				Dest:  SourceOf("combine.hi", 0),
			},
			{
				Name:  "combine.hi",
				Table: combine,
				Index: []Cell{SourceOf("combine.hi", 0), SourceOf("combine.hi", 1)},
				Dest:  At("hi", hi),
			},
			{
				Name:  "eq.hi",
				Table: lut.CompareEqual(1, 2),
				Index: []Cell{At("hi", hi)},
				Dest:  SourceOf("combine.eq", 1),
			},
			{
				Name:  "combine.eq",
				Table: combine,
				Index: []Cell{SourceOf("combine.eq", 0), SourceOf("combine.eq", 1)},
				Dest:  SourceOf("eq", 0),
			},
			{
				Name:  "eq",
				Table: lut.CompareEqual(match, mismatch),
				Index: []Cell{SourceOf("eq", 0)},
				Dest:  At("r", ops.Result),
			},
		},
	}

	plan.Scratch = used(scratch, plan.Name, start)

	err = ops.alias(1, plan.Scratch)
	if err != nil {
		plan = nil
	}

	return
}
