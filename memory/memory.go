// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory models the byte addressable bus shared by the CPU and the
// DMA controller.
package memory

import (
	"cmp"
	"log"
	"math/rand"
	"slices"
)

const (
	PAGE_SIZE = 256 // Backing store granularity.
)

type page [PAGE_SIZE]byte

// Region is a mapped address window.
type Region struct {
	Name     string
	Base     uint32
	Size     uint32
	ReadOnly bool // Bus stores fault; use Program() to fill.
}

// End returns the first address past the region.
func (region Region) End() uint64 {
	return uint64(region.Base) + uint64(region.Size)
}

// Contains returns true if [addr, addr+size) is inside the region.
func (region Region) Contains(addr uint32, size int) bool {
	return addr >= region.Base && uint64(addr)+uint64(size) <= region.End()
}

// Overlaps returns true if two regions share an address.
func (region Region) Overlaps(other Region) bool {
	return uint64(region.Base) < other.End() && uint64(other.Base) < region.End()
}

// Memory is a sparse, region mapped memory.
type Memory struct {
	Verbose bool     // If set, logs every bus access.
	Region  []Region // Mapped regions, sorted by base.
	Loads   int      // Bytes loaded over the bus.
	Stores  int      // Bytes stored over the bus.

	pages map[uint32]*page
}

// NewMemory creates a memory with the given regions mapped.
func NewMemory(regions ...Region) (mem *Memory, err error) {
	mem = &Memory{}
	for _, region := range regions {
		err = mem.Map(region)
		if err != nil {
			mem = nil
			return
		}
	}

	return
}

// Map adds a region.
func (mem *Memory) Map(region Region) (err error) {
	if region.Size == 0 || region.End() > (1<<32) {
		err = &ErrAccess{Addr: region.Base, Size: int(region.Size), Err: ErrRegionInvalid}
		return
	}
	for _, other := range mem.Region {
		if other.Overlaps(region) {
			err = &ErrAccess{Addr: region.Base, Size: int(region.Size), Err: ErrOverlap}
			return
		}
	}

	mem.Region = append(mem.Region, region)
	slices.SortFunc(mem.Region, func(a, b Region) int {
		return cmp.Compare(a.Base, b.Base)
	})

	return
}

// Lookup finds the region containing [addr, addr+size).
func (mem *Memory) Lookup(addr uint32, size int) (region Region, ok bool) {
	for _, region = range mem.Region {
		if region.Contains(addr, size) {
			ok = true
			return
		}
	}

	region = Region{}
	return
}

// Reset zeros all memory contents and statistics.
func (mem *Memory) Reset() {
	clear(mem.pages)
	mem.Loads = 0
	mem.Stores = 0
}

// Randomize fills [addr, addr+size) with noise, ignoring protection.
func (mem *Memory) Randomize(addr uint32, size int, seed int) (err error) {
	rands := rand.New(rand.NewSource(int64(seed)))
	data := make([]byte, size)
	for n := range data {
		data[n] = byte(rands.Uint32())
	}

	return mem.Program(addr, data)
}

func (mem *Memory) check(addr uint32, size int, store bool) (err error) {
	region, ok := mem.Lookup(addr, size)
	if !ok {
		err = &ErrAccess{Addr: addr, Size: size, Err: ErrUnmapped}
		return
	}
	if store && region.ReadOnly {
		err = &ErrAccess{Addr: addr, Size: size, Err: ErrReadOnly}
		return
	}

	return
}

func (mem *Memory) copyOut(addr uint32, data []byte) {
	for n := range data {
		at := addr + uint32(n)
		pg, ok := mem.pages[at/PAGE_SIZE]
		if !ok {
			data[n] = 0
			continue
		}
		data[n] = pg[at%PAGE_SIZE]
	}
}

func (mem *Memory) copyIn(addr uint32, data []byte) {
	if mem.pages == nil {
		mem.pages = make(map[uint32]*page)
	}
	for n, b := range data {
		at := addr + uint32(n)
		pg, ok := mem.pages[at/PAGE_SIZE]
		if !ok {
			pg = &page{}
			mem.pages[at/PAGE_SIZE] = pg
		}
		pg[at%PAGE_SIZE] = b
	}
}

// Load reads data from the bus.
func (mem *Memory) Load(addr uint32, data []byte) (err error) {
	err = mem.check(addr, len(data), false)
	if err != nil {
		return
	}

	mem.copyOut(addr, data)
	mem.Loads += len(data)

	if mem.Verbose {
		log.Printf("memory: load  0x%08x % x", addr, data)
	}

	return
}

// Store writes data to the bus.
func (mem *Memory) Store(addr uint32, data []byte) (err error) {
	err = mem.check(addr, len(data), true)
	if err != nil {
		return
	}

	mem.copyIn(addr, data)
	mem.Stores += len(data)

	if mem.Verbose {
		log.Printf("memory: store 0x%08x % x", addr, data)
	}

	return
}

// Program writes data into any mapped region, including read-only ones.
func (mem *Memory) Program(addr uint32, data []byte) (err error) {
	err = mem.check(addr, len(data), false)
	if err != nil {
		return
	}

	mem.copyIn(addr, data)

	return
}

// Peek returns the byte at addr, or 0 if unmapped.
func (mem *Memory) Peek(addr uint32) (value byte) {
	var data [1]byte
	if _, ok := mem.Lookup(addr, 1); ok {
		mem.copyOut(addr, data[:])
	}

	return data[0]
}

// Dump returns a copy of [addr, addr+size).
func (mem *Memory) Dump(addr uint32, size int) (data []byte, err error) {
	err = mem.check(addr, size, false)
	if err != nil {
		return
	}

	data = make([]byte, size)
	mem.copyOut(addr, data)

	return
}
