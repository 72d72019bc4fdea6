package chain

import (
	"fmt"
	"strings"

	"github.com/ezrec/samdma/dmac"
	"github.com/ezrec/samdma/layout"
)

// Chain is a compiled operation: contiguous descriptors from Base.
type Chain struct {
	Name       string
	Base       uint32
	Descriptor []dmac.Descriptor
	Label      []string // Listing label of each descriptor.
	Stages     []Stage
	Scratch    layout.Region
	Result     uint32
	CarryOut   uint32 // Zero if the operation has no carry.
}

// Head returns the address to trigger the chain at.
func (ch *Chain) Head() uint32 {
	return ch.Base
}

// Len returns the number of descriptors.
func (ch *Chain) Len() int {
	return len(ch.Descriptor)
}

// Storage returns the region holding the descriptors.
func (ch *Chain) Storage() layout.Region {
	return layout.Region{
		Name:  ch.Name,
		Base:  ch.Base,
		Size:  uint32(len(ch.Descriptor) * dmac.DESCRIPTOR_SIZE),
		Align: dmac.DESCRIPTOR_ALIGN,
	}
}

// Link continues the chain with next, so that one trigger runs both.
// Only the last chain of a sequence raises the completion interrupt.
// A nil next terminates the chain again.
func (ch *Chain) Link(next *Chain) {
	last := &ch.Descriptor[len(ch.Descriptor)-1]
	if next == nil {
		last.Next = dmac.DESCADDR_NONE
		last.Control = last.Control.WithBlockAction(dmac.BLOCKACT_INT)
		return
	}
	last.Next = next.Head()
	last.Control = last.Control.WithBlockAction(dmac.BLOCKACT_NOACT)
}

// MarshalBinary returns the memory image of the descriptors.
func (ch *Chain) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 0, len(ch.Descriptor)*dmac.DESCRIPTOR_SIZE)
	for _, desc := range ch.Descriptor {
		data, err = desc.AppendBinary(data)
		if err != nil {
			return
		}
	}
	return
}

// Store writes the descriptors to the bus.
func (ch *Chain) Store(bus dmac.Bus) (err error) {
	data, err := ch.MarshalBinary()
	if err != nil {
		return
	}

	return bus.Store(ch.Base, data)
}

// String returns the descriptor listing of the chain.
func (ch *Chain) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; %v: %d descriptors\n", ch.Name, len(ch.Descriptor))
	for n, desc := range ch.Descriptor {
		addr := ch.Base + uint32(n*dmac.DESCRIPTOR_SIZE)
		fmt.Fprintf(&sb, "%04X_%04X: %v ; %v\n", addr>>16, addr&0xffff, desc, ch.Label[n])
	}
	return sb.String()
}

// Disjoint checks that no two chains share scratch or descriptor storage,
// so they may be outstanding at the same time.
func Disjoint(chains ...*Chain) (err error) {
	var regions []layout.Region
	for _, ch := range chains {
		regions = append(regions, ch.Storage(), ch.Scratch)
	}

	for n, region := range regions {
		for _, other := range regions[n+1:] {
			if region.Overlaps(other) {
				err = fmt.Errorf("%w: %v and %v", ErrScratchAlias, region.Name, other.Name)
				return
			}
		}
	}

	return
}
