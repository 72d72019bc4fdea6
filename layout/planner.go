// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package layout places lookup tables, descriptors and scratch cells in the
// address space.
//
// A lookup is performed by overwriting the low bytes of a descriptor's
// source address with index bytes. That only lands inside the table when
// the table's base has those low bytes zero, so every table consumed this
// way must sit on a boundary of 1 << (8 * index bytes). The planner refuses
// anything else: a misplaced table reads the wrong memory with no signal.
package layout

import (
	"iter"
	"log"
	"math/bits"
	"slices"
)

const (
	MAX_INDEX_BYTES = 3 // Index bytes above the top address byte.
)

// Alignment returns the boundary required by an index of indexBytes
// concatenated bytes.
func Alignment(indexBytes int) uint32 {
	return 1 << (8 * indexBytes)
}

// Aligned returns true if addr may be indexed by indexBytes bytes.
func Aligned(addr uint32, indexBytes int) bool {
	if indexBytes < 0 || indexBytes > MAX_INDEX_BYTES {
		return false
	}
	return addr%Alignment(indexBytes) == 0
}

func alignUp(addr uint64, align uint32) uint64 {
	mask := uint64(align) - 1
	return (addr + mask) &^ mask
}

// Region is a reserved address window.
type Region struct {
	Name  string
	Base  uint32
	Size  uint32
	Align uint32
}

// End returns the first address past the region.
func (region Region) End() uint64 {
	return uint64(region.Base) + uint64(region.Size)
}

// Contains returns true if addr is inside the region.
func (region Region) Contains(addr uint32) bool {
	return addr >= region.Base && uint64(addr) < region.End()
}

// Overlaps returns true if two regions share an address.
func (region Region) Overlaps(other Region) bool {
	return uint64(region.Base) < other.End() && uint64(other.Base) < region.End()
}

// Planner hands out non-overlapping, aligned regions of an address window.
type Planner struct {
	Verbose bool     // If set, logs every reservation.
	Base    uint32   // First address of the window.
	Limit   uint64   // First address past the window.
	Region  []Region // Reserved regions, sorted by base.
}

// NewPlanner creates a planner for [base, base+size).
func NewPlanner(base uint32, size uint64) (pl *Planner) {
	pl = &Planner{
		Base:  base,
		Limit: uint64(base) + size,
	}

	return
}

func checkAlign(align uint32) error {
	if align == 0 || bits.OnesCount32(align) != 1 {
		return ErrAlignment
	}
	return nil
}

func (pl *Planner) insert(region Region) {
	pl.Region = append(pl.Region, region)
	slices.SortFunc(pl.Region, func(a, b Region) int {
		switch {
		case a.Base < b.Base:
			return -1
		case a.Base > b.Base:
			return 1
		}
		return 0
	})

	if pl.Verbose {
		log.Printf("layout: %-24v 0x%08x-0x%08x align 0x%x", region.Name, region.Base, region.End()-1, region.Align)
	}
}

// Reserve finds the lowest free, aligned window of size bytes.
func (pl *Planner) Reserve(name string, size uint32, align uint32) (region Region, err error) {
	defer func() {
		if err != nil {
			err = &ErrRegion{Name: name, Base: region.Base, Err: err}
			region = Region{}
		}
	}()

	err = checkAlign(align)
	if err != nil {
		return
	}

	at := alignUp(uint64(pl.Base), align)
	for _, other := range pl.Region {
		if at+uint64(size) <= uint64(other.Base) {
			break
		}
		if other.End() > at {
			at = alignUp(other.End(), align)
		}
	}

	if at+uint64(size) > pl.Limit {
		err = ErrRegionFull
		return
	}

	region = Region{Name: name, Base: uint32(at), Size: size, Align: align}
	pl.insert(region)

	return
}

// Place reserves a fixed window. The base must honour the alignment.
func (pl *Planner) Place(name string, base uint32, size uint32, align uint32) (region Region, err error) {
	region = Region{Name: name, Base: base, Size: size, Align: align}

	defer func() {
		if err != nil {
			err = &ErrRegion{Name: name, Base: base, Err: err}
			region = Region{}
		}
	}()

	err = checkAlign(align)
	if err != nil {
		return
	}

	if base%align != 0 {
		err = ErrMisaligned
		return
	}

	if base < pl.Base || region.End() > pl.Limit {
		err = ErrRegionFull
		return
	}

	for _, other := range pl.Region {
		if other.Overlaps(region) {
			err = ErrOverlap
			return
		}
	}

	pl.insert(region)

	return
}

// Regions iterates over the reserved regions in address order.
func (pl *Planner) Regions() iter.Seq[Region] {
	return slices.Values(pl.Region)
}
