// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package chain

import (
	"fmt"
	"log"

	"github.com/ezrec/samdma/dmac"
	"github.com/ezrec/samdma/layout"
	"github.com/ezrec/samdma/lut"
)

// Tables locates lookup tables for an index width.
type Tables interface {
	Locate(table lut.Table, indexBytes int) (base uint32, err error)
}

// Target is the storage a chain is compiled into.
type Target struct {
	Base     uint32        // Descriptor storage, 16 byte aligned.
	Capacity int           // Descriptors that fit in the storage.
	Scratch  layout.Region // Scratch cells owned by the chain.
}

// Compiler turns plans into descriptor chains.
type Compiler struct {
	Verbose bool
	Tables  Tables
}

// NewCompiler creates a compiler over a set of tables.
func NewCompiler(tables Tables) *Compiler {
	return &Compiler{Tables: tables}
}

// Add8 compiles Result = A + B, modulo 256.
func (cc *Compiler) Add8(target Target, ops Operands) (ch *Chain, err error) {
	return cc.AddN(target, 1, ops)
}

// AddN compiles a little endian add of width bytes.
func (cc *Compiler) AddN(target Target, width int, ops Operands) (ch *Chain, err error) {
	plan, err := PlanAdd(width, ops, layout.NewArena(target.Scratch))
	if err != nil {
		return
	}

	return cc.Compile(plan, target)
}

// Equal8 compiles Result = (A == B) ? match : mismatch.
func (cc *Compiler) Equal8(target Target, ops Operands, match, mismatch byte) (ch *Chain, err error) {
	plan, err := PlanEqual8(ops, match, mismatch, layout.NewArena(target.Scratch))
	if err != nil {
		return
	}

	return cc.Compile(plan, target)
}

// within returns true if inner lies entirely in outer.
func within(inner, outer layout.Region) bool {
	return inner.Base >= outer.Base && inner.End() <= outer.End()
}

// Compile lays out the descriptors of a plan in the target.
//
// Every stage gets its patch descriptors followed by its lookup descriptor.
// The last descriptor ends the chain and raises the completion interrupt.
func (cc *Compiler) Compile(plan *Plan, target Target) (ch *Chain, err error) {
	if target.Base == dmac.DESCADDR_NONE || target.Base%dmac.DESCRIPTOR_ALIGN != 0 {
		err = fmt.Errorf("%w: %08x", ErrMisaligned, target.Base)
		return
	}

	if len(plan.Stages) == 0 {
		err = ErrOperand
		return
	}

	// Lookup descriptor index, and stage order, of every stage.
	lookup := map[string]int{}
	order := map[string]int{}
	count := 0
	for n := range plan.Stages {
		stage := &plan.Stages[n]
		_, dup := order[stage.Name]
		switch {
		case dup:
			err = &ErrStage{Stage: stage.Name, Err: ErrStageDuplicate}
		case len(stage.Index) < 1 || len(stage.Index) > 4:
			err = &ErrStage{Stage: stage.Name, Err: ErrIndexWidth}
		}
		if err != nil {
			return
		}
		count += len(stage.patches())
		lookup[stage.Name] = count
		order[stage.Name] = n
		count++
	}

	if count > target.Capacity {
		err = fmt.Errorf("%w: %d > %d", ErrChainOverrun, count, target.Capacity)
		return
	}

	storage := layout.Region{
		Name:  plan.Name,
		Base:  target.Base,
		Size:  uint32(count * dmac.DESCRIPTOR_SIZE),
		Align: dmac.DESCRIPTOR_ALIGN,
	}

	if storage.Overlaps(target.Scratch) || (plan.Scratch.Size > 0 && !within(plan.Scratch, target.Scratch)) {
		err = ErrScratchAlias
		return
	}

	resolve := func(cell Cell) (addr uint32, err error) {
		switch {
		case cell.Preset:
			err = ErrOperand
		case cell.Absolute():
			addr = cell.Addr
			if storage.Contains(addr) {
				err = fmt.Errorf("%w: %v", ErrScratchAlias, cell)
			}
		default:
			index, ok := lookup[cell.Stage]
			switch {
			case !ok:
				err = fmt.Errorf("%w: %v", ErrStageUnknown, cell.Stage)
			case cell.Byte < 0 || cell.Byte >= len(plan.Stages[order[cell.Stage]].Index):
				err = fmt.Errorf("%w: %v", ErrIndexWidth, cell)
			default:
				addr = target.Base + uint32(index*dmac.DESCRIPTOR_SIZE) + dmac.OFFSET_SRCADDR + uint32(cell.Byte)
			}
		}
		return
	}

	// Every fed index byte must be written by an earlier stage, and only
	// fed bytes may be written.
	type field struct {
		stage string
		byte  int
	}
	fed := map[field]bool{}
	for n := range plan.Stages {
		stage := &plan.Stages[n]
		for i, cell := range stage.Index {
			if cell.Stage == stage.Name && (cell.Byte != i || !fed[field{cell.Stage, i}]) {
				err = &ErrStage{Stage: stage.Name, Err: fmt.Errorf("%w: %v", ErrUnfed, cell)}
				return
			}
		}

		dest := stage.Dest
		if len(dest.Stage) == 0 {
			continue
		}
		other, ok := order[dest.Stage]
		switch {
		case !ok:
			err = fmt.Errorf("%w: %v", ErrStageUnknown, dest.Stage)
		case other <= n:
			err = fmt.Errorf("%w: %v", ErrStageOrder, dest)
		case dest.Byte < 0 || dest.Byte >= len(plan.Stages[other].Index):
			err = fmt.Errorf("%w: %v", ErrIndexWidth, dest)
		case !plan.Stages[other].fed(dest.Byte):
			err = fmt.Errorf("%w: %v", ErrUnfed, dest)
		}
		if err != nil {
			err = &ErrStage{Stage: stage.Name, Err: err}
			return
		}
		fed[field{dest.Stage, dest.Byte}] = true
	}

	ch = &Chain{
		Name:     plan.Name,
		Base:     target.Base,
		Stages:   plan.Stages,
		Scratch:  plan.Scratch,
		Result:   plan.Result,
		CarryOut: plan.CarryOut,
	}

	emit := func(desc dmac.Descriptor, label string) {
		desc.Next = target.Base + uint32((len(ch.Descriptor)+1)*dmac.DESCRIPTOR_SIZE)
		ch.Descriptor = append(ch.Descriptor, desc)
		ch.Label = append(ch.Label, label)
	}

	for n := range plan.Stages {
		stage := &plan.Stages[n]

		var base uint32
		base, err = cc.Tables.Locate(stage.Table, len(stage.Index))
		if err != nil {
			err = &ErrStage{Stage: stage.Name, Err: err}
			ch = nil
			return
		}

		source := base
		for i, cell := range stage.Index {
			if cell.Preset {
				source |= uint32(cell.Value) << (8 * i)
			}
		}

		srcaddr := target.Base + uint32(lookup[stage.Name]*dmac.DESCRIPTOR_SIZE) + dmac.OFFSET_SRCADDR
		for _, p := range stage.patches() {
			var from uint32
			from, err = resolve(p.from)
			if err != nil {
				err = &ErrStage{Stage: stage.Name, Err: err}
				ch = nil
				return
			}
			emit(dmac.MakeTransfer(from, srcaddr+uint32(p.at), uint16(p.count), 0),
				fmt.Sprintf("%v <- %v", stage.Name, p.from.Name))
		}

		var dest uint32
		dest, err = resolve(stage.Dest)
		if err != nil {
			err = &ErrStage{Stage: stage.Name, Err: err}
			ch = nil
			return
		}
		emit(dmac.Descriptor{
			Control: dmac.MakeControl(false, false),
			Count:   1,
			Source:  source,
			Dest:    dest,
		}, fmt.Sprintf("%v = %v[]", stage.Name, stage.Table))
	}

	last := &ch.Descriptor[len(ch.Descriptor)-1]
	last.Next = dmac.DESCADDR_NONE
	last.Control = last.Control.WithBlockAction(dmac.BLOCKACT_INT)

	if cc.Verbose {
		log.Printf("chain: %v: %d stages, %d descriptors at %08x", ch.Name, len(ch.Stages), len(ch.Descriptor), ch.Base)
	}

	return
}
