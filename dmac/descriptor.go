// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package dmac

import (
	"encoding/binary"
	"fmt"
)

// Descriptor memory layout.
const (
	DESCRIPTOR_SIZE  = 16 // Bytes per descriptor.
	DESCRIPTOR_ALIGN = 16 // Descriptors must be 128-bit aligned.

	OFFSET_BTCTRL   = 0
	OFFSET_BTCNT    = 2
	OFFSET_SRCADDR  = 4
	OFFSET_DSTADDR  = 8
	OFFSET_DESCADDR = 12

	DESCADDR_NONE = uint32(0) // End of chain.
)

// Descriptor is a single block transfer.
//
// When an address increments, the descriptor holds the address just past
// the final beat, not the start address. Use MakeTransfer to get this right.
type Descriptor struct {
	Control Control
	Count   uint16
	Source  uint32
	Dest    uint32
	Next    uint32
}

// MakeTransfer creates a valid byte copy of count bytes from src to dst.
// Multi-byte copies increment both addresses.
func MakeTransfer(src, dst uint32, count uint16, next uint32) (desc Descriptor) {
	inc := count > 1
	desc = Descriptor{
		Control: MakeControl(inc, inc),
		Count:   count,
		Source:  src,
		Dest:    dst,
		Next:    next,
	}
	if inc {
		desc.Source += uint32(count)
		desc.Dest += uint32(count)
	}
	return
}

// Span returns the first source and destination addresses of the block.
func (desc Descriptor) Span() (src, dst uint32) {
	src_stride, dst_stride := desc.Control.Strides()
	src = desc.Source - src_stride*uint32(desc.Count)
	dst = desc.Dest - dst_stride*uint32(desc.Count)
	return
}

// AppendBinary appends the 16 byte memory image of the descriptor.
func (desc Descriptor) AppendBinary(data []byte) ([]byte, error) {
	data = binary.LittleEndian.AppendUint16(data, uint16(desc.Control))
	data = binary.LittleEndian.AppendUint16(data, desc.Count)
	data = binary.LittleEndian.AppendUint32(data, desc.Source)
	data = binary.LittleEndian.AppendUint32(data, desc.Dest)
	data = binary.LittleEndian.AppendUint32(data, desc.Next)
	return data, nil
}

// MarshalBinary returns the 16 byte memory image of the descriptor.
func (desc Descriptor) MarshalBinary() ([]byte, error) {
	return desc.AppendBinary(make([]byte, 0, DESCRIPTOR_SIZE))
}

// UnmarshalBinary decodes a 16 byte memory image.
func (desc *Descriptor) UnmarshalBinary(data []byte) (err error) {
	if len(data) < DESCRIPTOR_SIZE {
		err = ErrDescriptorShort
		return
	}

	*desc = Descriptor{
		Control: Control(binary.LittleEndian.Uint16(data[OFFSET_BTCTRL:])),
		Count:   binary.LittleEndian.Uint16(data[OFFSET_BTCNT:]),
		Source:  binary.LittleEndian.Uint32(data[OFFSET_SRCADDR:]),
		Dest:    binary.LittleEndian.Uint32(data[OFFSET_DSTADDR:]),
		Next:    binary.LittleEndian.Uint32(data[OFFSET_DESCADDR:]),
	}

	return
}

// String returns the descriptor in listing form.
func (desc Descriptor) String() string {
	next := "----_----"
	if desc.Next != DESCADDR_NONE {
		next = fmt.Sprintf("%04X_%04X", desc.Next>>16, desc.Next&0xffff)
	}
	return fmt.Sprintf("%-12v cnt:%-3d src:%04X_%04X dst:%04X_%04X next:%v",
		desc.Control, desc.Count,
		desc.Source>>16, desc.Source&0xffff,
		desc.Dest>>16, desc.Dest&0xffff,
		next)
}
