// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package dmac

import (
	"log"
)

const (
	RUN_LIMIT = 1 << 16 // Default limit of blocks per Run().
)

// Bus is the memory seen by the DMA controller.
type Bus interface {
	Load(addr uint32, data []byte) error
	Store(addr uint32, data []byte) error
}

// Controller models one channel of the DMA controller.
type Controller struct {
	Verbose bool // Set to enable verbose logging.
	Bus     Bus  // Memory the channel transfers through.
	Limit   int  // Maximum blocks per Run(); zero uses RUN_LIMIT.

	// Interrupt receives the descriptor address of every block whose
	// block action raises an interrupt. Sends never block.
	Interrupt chan uint32

	Beats  int // Beats transferred.
	Blocks int // Blocks (descriptors) completed.
	Events int // Output events generated.

	current   uint32
	suspended bool
}

// NewController creates a controller attached to a bus.
func NewController(bus Bus) (dc *Controller) {
	dc = &Controller{
		Bus:       bus,
		Interrupt: make(chan uint32, 8),
	}

	return
}

// Reset idles the channel and clears the statistics.
func (dc *Controller) Reset() {
	dc.current = DESCADDR_NONE
	dc.suspended = false
	dc.Beats = 0
	dc.Blocks = 0
	dc.Events = 0

	for {
		select {
		case <-dc.Interrupt:
			continue
		default:
		}
		break
	}
}

// Active returns true while a chain is being executed.
func (dc *Controller) Active() bool {
	return dc.current != DESCADDR_NONE
}

// Suspended returns true if a block action suspended the channel.
func (dc *Controller) Suspended() bool {
	return dc.suspended
}

// Current returns the address of the next descriptor to execute.
func (dc *Controller) Current() uint32 {
	return dc.current
}

// Trigger starts the channel at the descriptor at head.
func (dc *Controller) Trigger(head uint32) (err error) {
	if dc.Active() {
		err = ErrBusy
		return
	}
	if head == DESCADDR_NONE || head%DESCRIPTOR_ALIGN != 0 {
		err = &ErrTransfer{Descriptor: head, Err: ErrDescriptorAlign}
		return
	}

	if dc.Verbose {
		log.Printf("dmac: trigger 0x%08x", head)
	}

	dc.current = head
	dc.suspended = false

	return
}

// Resume continues a suspended channel.
func (dc *Controller) Resume() (err error) {
	if !dc.Active() {
		err = ErrIdle
		return
	}

	dc.suspended = false
	return
}

// Fetch reads the descriptor at addr from the bus.
func (dc *Controller) Fetch(addr uint32) (desc Descriptor, err error) {
	var data [DESCRIPTOR_SIZE]byte
	err = dc.Bus.Load(addr, data[:])
	if err != nil {
		return
	}

	err = desc.UnmarshalBinary(data[:])
	return
}

// transfer moves the beats of one block.
func (dc *Controller) transfer(desc Descriptor) (err error) {
	src, dst := desc.Span()
	src_stride, dst_stride := desc.Control.Strides()
	beat := make([]byte, desc.Control.BeatSize().Bytes())

	for range int(desc.Count) {
		err = dc.Bus.Load(src, beat)
		if err != nil {
			return
		}
		err = dc.Bus.Store(dst, beat)
		if err != nil {
			return
		}
		src += src_stride
		dst += dst_stride
		dc.Beats++
	}

	return
}

// interrupt signals a block interrupt without blocking.
func (dc *Controller) interrupt(addr uint32) {
	select {
	case dc.Interrupt <- addr:
	default:
		if dc.Verbose {
			log.Printf("dmac: interrupt 0x%08x dropped", addr)
		}
	}
}

// Tick executes the next descriptor of the active chain.
// Returns done once the chain has ended.
func (dc *Controller) Tick() (done bool, err error) {
	if !dc.Active() {
		done = true
		return
	}
	if dc.suspended {
		err = ErrSuspended
		return
	}

	addr := dc.current
	defer func() {
		if err != nil {
			// A faulting channel is disabled.
			dc.current = DESCADDR_NONE
			err = &ErrTransfer{Descriptor: addr, Err: err}
		}
	}()

	desc, err := dc.Fetch(addr)
	if err != nil {
		return
	}

	if dc.Verbose {
		log.Printf("dmac: %08x: %v", addr, desc)
	}

	if !desc.Control.Valid() {
		err = ErrDescriptorInvalid
		return
	}
	if desc.Count == 0 {
		err = ErrDescriptorCount
		return
	}

	err = dc.transfer(desc)
	if err != nil {
		return
	}

	dc.Blocks++

	switch desc.Control.Event() {
	case EVOSEL_BLOCK:
		dc.Events++
	case EVOSEL_BEAT:
		dc.Events += int(desc.Count)
	}

	action := desc.Control.BlockAction()
	if action == BLOCKACT_INT || action == BLOCKACT_BOTH {
		dc.interrupt(addr)
	}

	if desc.Next != DESCADDR_NONE && desc.Next%DESCRIPTOR_ALIGN != 0 {
		err = ErrDescriptorAlign
		return
	}

	dc.current = desc.Next
	if action == BLOCKACT_SUSPEND || action == BLOCKACT_BOTH {
		dc.suspended = dc.Active()
	}

	done = !dc.Active()
	if done && dc.Verbose {
		log.Printf("dmac: chain complete after %d blocks", dc.Blocks)
	}

	return
}

// Run ticks the channel until the chain ends or the channel suspends.
func (dc *Controller) Run() (err error) {
	limit := dc.Limit
	if limit == 0 {
		limit = RUN_LIMIT
	}

	for range limit {
		var done bool
		done, err = dc.Tick()
		if err != nil || done {
			return
		}
		if dc.suspended {
			err = ErrSuspended
			return
		}
	}

	err = &ErrTransfer{Descriptor: dc.current, Err: ErrRunaway}
	dc.current = DESCADDR_NONE

	return
}
