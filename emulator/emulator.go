// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/samdma/chain"
	"github.com/ezrec/samdma/dmac"
	"github.com/ezrec/samdma/internal"
	"github.com/ezrec/samdma/layout"
	"github.com/ezrec/samdma/lut"
	"github.com/ezrec/samdma/memory"
	"github.com/ezrec/samdma/ucode"
)

var _emulator_defines = map[string]string{
	"FLASH_BASE": fmt.Sprintf("%#x", FLASH_BASE),
	"FLASH_SIZE": fmt.Sprintf("%#x", FLASH_SIZE),
	"SRAM_BASE":  fmt.Sprintf("%#x", SRAM_BASE),
	"SRAM_SIZE":  fmt.Sprintf("%#x", SRAM_SIZE),
	"DATA_BASE":  fmt.Sprintf("%#x", DATA_BASE),
	"DATA_SIZE":  fmt.Sprintf("%#x", DATA_SIZE),
}

// Emulator state. Memory + DMA controller + compiled program.
type Emulator struct {
	Verbose          bool           // If set, enables verbose logging.
	*dmac.Controller                // Reference to the DMA channel.
	Memory           *memory.Memory // Board memory.
	Library          *layout.Library
	Program          *ucode.Program // Currently loaded listing.
	Chains           []*chain.Chain // One chain per listing operation.
	Complete         bool           // Set when the completion interrupt arrived.

	flash *layout.Planner
	sram  *layout.Planner
}

// NewEmulator creates a new emulator with the standard tables in flash.
func NewEmulator() (emu *Emulator, err error) {
	mem, err := memory.NewMemory(
		memory.Region{Name: "flash", Base: FLASH_BASE, Size: FLASH_SIZE, ReadOnly: true},
		memory.Region{Name: "sram", Base: SRAM_BASE, Size: SRAM_SIZE},
	)
	if err != nil {
		return
	}

	emu = &Emulator{
		Controller: dmac.NewController(mem),
		Memory:     mem,
		Program:    &ucode.Program{},
	}

	err = emu.plan(layout.StandardBanks())
	if err != nil {
		emu = nil
		return
	}

	err = emu.Reset()
	if err != nil {
		emu = nil
	}

	return
}

// plan lays out the tables and resets the chain allocations.
func (emu *Emulator) plan(banks []layout.Bank) (err error) {
	emu.flash = layout.NewPlanner(TABLE_BASE, FLASH_BASE+FLASH_SIZE-TABLE_BASE)
	emu.flash.Verbose = emu.Verbose
	emu.sram = layout.NewPlanner(CHAIN_BASE, SRAM_BASE+SRAM_SIZE-CHAIN_BASE)
	emu.sram.Verbose = emu.Verbose

	lib, err := emu.flash.PlanLibrary(banks)
	if err != nil {
		return
	}

	emu.Library = lib

	return
}

// tableDefines yields the base of every table.
func (emu *Emulator) tableDefines() iter.Seq2[string, string] {
	return func(yield func(name string, value string) bool) {
		for table := range emu.Library.Tables() {
			base, err := emu.Library.Locate(table, table.IndexBytes())
			if err != nil {
				continue
			}
			name := "LUT_" + strings.ToUpper(table.Kind.String())
			if table.Kind == lut.NYBBLE_COMPARE_EQUAL {
				name = fmt.Sprintf("%v_%d_%d", name, table.Match, table.Mismatch)
			}
			if !yield(name, fmt.Sprintf("%#x", base)) {
				return
			}
		}
	}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.tableDefines(),
	)
}

// Regions returns an iterator over the allocated memory map.
func (emu *Emulator) Regions() iter.Seq[layout.Region] {
	return internal.Concat(emu.flash.Regions(), emu.sram.Regions())
}

// banks returns the standard banks plus the compare tables the program
// needs beyond them.
func (emu *Emulator) banks(prog *ucode.Program) (banks []layout.Bank) {
	banks = layout.StandardBanks()

	var std []lut.Table
	for _, bank := range banks {
		std = append(std, bank.Tables...)
	}

	for _, table := range prog.Tables() {
		if slices.Contains(std, table) {
			continue
		}
		banks = append(banks, layout.Bank{
			Name:       table.String(),
			IndexBytes: table.IndexBytes(),
			Tables:     []lut.Table{table},
		})
	}

	return
}

// compile compiles one operation into a freshly reserved target.
func (emu *Emulator) compile(cc *chain.Compiler, op *ucode.Op) (ch *chain.Chain, err error) {
	name := fmt.Sprintf("%d.%v", op.Index, op.Kind)

	size := uint32(chain.EQUAL8_SCRATCH)
	if op.Kind != ucode.OP_EQ8 {
		size = chain.AddScratch(op.Kind.Width())
	}

	scratch, err := emu.sram.Reserve(name+".scratch", size, 1)
	if err != nil {
		return
	}

	var plan *chain.Plan
	arena := layout.NewArena(scratch)
	if op.Kind == ucode.OP_EQ8 {
		plan, err = chain.PlanEqual8(op.Operands(), op.Match, op.Mismatch, arena)
	} else {
		plan, err = chain.PlanAdd(op.Kind.Width(), op.Operands(), arena)
	}
	if err != nil {
		return
	}
	plan.Name = name

	count := plan.Descriptors()
	storage, err := emu.sram.Reserve(name+".desc", uint32(count*dmac.DESCRIPTOR_SIZE), dmac.DESCRIPTOR_ALIGN)
	if err != nil {
		return
	}

	target := chain.Target{
		Base:     storage.Base,
		Capacity: count,
		Scratch:  scratch,
	}

	return cc.Compile(plan, target)
}

// Load compiles a program, one chain per operation, linked in listing
// order, and resets the emulator to run it.
func (emu *Emulator) Load(prog *ucode.Program) (err error) {
	emu.Program = &ucode.Program{}
	emu.Chains = nil

	err = emu.plan(emu.banks(prog))
	if err != nil {
		return
	}

	cc := chain.NewCompiler(emu.Library)
	cc.Verbose = emu.Verbose

	var chains []*chain.Chain
	for n := range prog.Ops {
		op := &prog.Ops[n]
		var ch *chain.Chain
		ch, err = emu.compile(cc, op)
		if err != nil {
			err = &ErrRuntime{LineNo: op.LineNo, Err: err}
			return
		}
		if len(chains) > 0 {
			chains[len(chains)-1].Link(ch)
		}
		chains = append(chains, ch)
	}

	err = chain.Disjoint(chains...)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Chains = chains

	return emu.Reset()
}

// Reset restores memory to the loaded image and triggers the program.
func (emu *Emulator) Reset() (err error) {
	emu.Controller.Reset()
	emu.Memory.Reset()
	emu.Complete = false

	for addr, data := range emu.Library.Image() {
		err = emu.Memory.Program(addr, data)
		if err != nil {
			return
		}
	}

	for _, ch := range emu.Chains {
		err = ch.Store(emu.Memory)
		if err != nil {
			return
		}
	}

	for _, data := range emu.Program.Data {
		err = emu.Memory.Store(data.Addr, data.Bytes)
		if err != nil {
			err = &ErrRuntime{LineNo: data.LineNo, Err: err}
			return
		}
	}

	// Only count the program's own traffic.
	emu.Memory.Loads = 0
	emu.Memory.Stores = 0

	if len(emu.Chains) == 0 {
		return
	}

	return emu.Controller.Trigger(emu.Chains[0].Head())
}

// Ticks returns the descriptors executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Controller.Blocks
}

// Op returns the operation owning a descriptor address.
func (emu *Emulator) Op(addr uint32) (op *ucode.Op) {
	for n, ch := range emu.Chains {
		if ch.Storage().Contains(addr) {
			op = &emu.Program.Ops[n]
			break
		}
	}

	return
}

// LineNo returns the listing line of the next descriptor.
func (emu *Emulator) LineNo() int {
	op := emu.Op(emu.Controller.Current())
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Tick performs a single descriptor transfer.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Controller.Verbose = emu.Verbose
	emu.Memory.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Controller.Tick()
	if err != nil || !done {
		return
	}

	select {
	case <-emu.Controller.Interrupt:
		emu.Complete = true
	default:
	}

	if emu.Verbose {
		log.Printf("emulator: done after %d descriptors, %d bytes loaded, %d stored",
			emu.Ticks(), emu.Memory.Loads, emu.Memory.Stores)
	}

	return
}

// Run ticks until the program completes.
func (emu *Emulator) Run() (err error) {
	if len(emu.Chains) == 0 {
		err = ErrProgramEmpty
		return
	}

	limit := emu.Controller.Limit
	if limit == 0 {
		limit = dmac.RUN_LIMIT
	}

	for range limit {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Err: dmac.ErrRunaway}

	return
}

// Peek returns width bytes at addr, little endian, as an integer.
func (emu *Emulator) Peek(addr uint32, width int) (value uint64) {
	for n := width - 1; n >= 0; n-- {
		value = (value << 8) | uint64(emu.Memory.Peek(addr+uint32(n)))
	}
	return
}

// Listing returns the descriptor listing of the loaded program.
func (emu *Emulator) Listing() string {
	var sb strings.Builder
	for region := range emu.Regions() {
		fmt.Fprintf(&sb, "; %08x-%08x %v\n", region.Base, region.End(), region.Name)
	}
	for n, ch := range emu.Chains {
		op := &emu.Program.Ops[n]
		fmt.Fprintf(&sb, "; line %d: %v\n", op.LineNo, op)
		sb.WriteString(ch.String())
	}
	return sb.String()
}
