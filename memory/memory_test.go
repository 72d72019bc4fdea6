// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem, err := NewMemory(
		Region{Name: "sram", Base: 0x2000_0000, Size: 0x8000},
		Region{Name: "flash", Base: 0x0000_0000, Size: 0x4_0000, ReadOnly: true},
	)
	assert.NoError(err)
	assert.Equal("flash", mem.Region[0].Name)
	assert.Equal("sram", mem.Region[1].Name)

	// Unwritten memory reads as zero.
	data := make([]byte, 4)
	assert.NoError(mem.Load(0x2000_0100, data))
	assert.Equal([]byte{0, 0, 0, 0}, data)

	assert.NoError(mem.Store(0x2000_00fe, []byte{1, 2, 3, 4}))
	assert.NoError(mem.Load(0x2000_00fe, data))
	assert.Equal([]byte{1, 2, 3, 4}, data)
	assert.Equal(byte(3), mem.Peek(0x2000_0100))
	assert.Equal(4, mem.Stores)
	assert.Equal(8, mem.Loads)

	// Flash is read-only over the bus.
	assert.ErrorIs(mem.Store(0x1_0000, []byte{1}), ErrReadOnly)
	assert.NoError(mem.Program(0x1_0000, []byte{0x5a}))
	assert.Equal(byte(0x5a), mem.Peek(0x1_0000))

	// Accesses may not leave a region.
	assert.ErrorIs(mem.Store(0x2000_7fff, []byte{1, 2}), ErrUnmapped)
	assert.ErrorIs(mem.Load(0x1000_0000, data), ErrUnmapped)
	assert.Equal(byte(0), mem.Peek(0x1000_0000))

	mem.Reset()
	assert.Equal(byte(0), mem.Peek(0x2000_0100))
	assert.Equal(0, mem.Stores)
}

func TestMemoryMap(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.NoError(mem.Map(Region{Base: 0x1000, Size: 0x1000}))
	assert.ErrorIs(mem.Map(Region{Base: 0x1fff, Size: 2}), ErrOverlap)
	assert.ErrorIs(mem.Map(Region{Base: 0x3000}), ErrRegionInvalid)
	assert.ErrorIs(mem.Map(Region{Base: 0xffff_ff00, Size: 0x200}), ErrRegionInvalid)
	assert.NoError(mem.Map(Region{Base: 0xffff_ff00, Size: 0x100}))

	_, err := NewMemory(Region{Base: 0, Size: 16}, Region{Base: 8, Size: 16})
	assert.ErrorIs(err, ErrOverlap)
}

func TestMemoryRandomize(t *testing.T) {
	assert := assert.New(t)

	mem, err := NewMemory(Region{Base: 0x2000_0000, Size: 0x1000})
	assert.NoError(err)

	assert.NoError(mem.Randomize(0x2000_0000, 64, 1))
	first, err := mem.Dump(0x2000_0000, 64)
	assert.NoError(err)

	assert.NoError(mem.Randomize(0x2000_0000, 64, 1))
	second, err := mem.Dump(0x2000_0000, 64)
	assert.NoError(err)

	assert.Equal(first, second)
	assert.NotEqual(make([]byte, 64), first)

	_, err = mem.Dump(0x2000_0ff0, 32)
	assert.ErrorIs(err, ErrUnmapped)
}
