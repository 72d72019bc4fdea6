package dmac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/samdma/memory"
)

const (
	SRAM = uint32(0x2000_0000)
)

func newBus(t *testing.T) *memory.Memory {
	mem, err := memory.NewMemory(memory.Region{Name: "sram", Base: SRAM, Size: 0x8000})
	assert.NoError(t, err)
	return mem
}

func store(t *testing.T, bus Bus, addr uint32, descs ...Descriptor) {
	for n, desc := range descs {
		data, err := desc.MarshalBinary()
		assert.NoError(t, err)
		assert.NoError(t, bus.Store(addr+uint32(n*DESCRIPTOR_SIZE), data))
	}
}

func TestControl(t *testing.T) {
	assert := assert.New(t)

	// A valid, non-incrementing byte copy.
	ctrl := MakeControl(false, false)
	assert.Equal(Control(0x0001), ctrl)
	assert.True(ctrl.Valid())
	assert.Equal(BEATSIZE_BYTE, ctrl.BeatSize())
	assert.Equal(BLOCKACT_NOACT, ctrl.BlockAction())

	ctrl = MakeControl(true, true)
	assert.Equal(Control(0x0c01), ctrl)
	src, dst := ctrl.Strides()
	assert.Equal(uint32(1), src)
	assert.Equal(uint32(1), dst)

	ctrl = ctrl.WithBlockAction(BLOCKACT_INT).WithEvent(EVOSEL_BLOCK)
	assert.Equal(BLOCKACT_INT, ctrl.BlockAction())
	assert.Equal(EVOSEL_BLOCK, ctrl.Event())
	assert.Equal(Control(0x0c0b), ctrl)

	ctrl = ctrl.WithBeatSize(BEATSIZE_WORD).WithStep(STEPSEL_SRC, 2)
	sel, size := ctrl.Step()
	assert.Equal(STEPSEL_SRC, sel)
	assert.Equal(2, size)
	src, dst = ctrl.Strides()
	assert.Equal(uint32(16), src)
	assert.Equal(uint32(4), dst)

	assert.Equal("vint.b4+s+d", ctrl.String())
	assert.Equal("BlockAction(7)", BlockAction(7).String())
}

func TestDescriptor(t *testing.T) {
	assert := assert.New(t)

	desc := Descriptor{
		Control: 0x0c01,
		Count:   2,
		Source:  0x2000_0102,
		Dest:    0x2000_0206,
		Next:    0x2000_0010,
	}

	data, err := desc.MarshalBinary()
	assert.NoError(err)
	assert.Equal([]byte{
		0x01, 0x0c,
		0x02, 0x00,
		0x02, 0x01, 0x00, 0x20,
		0x06, 0x02, 0x00, 0x20,
		0x10, 0x00, 0x00, 0x20,
	}, data)

	var back Descriptor
	assert.NoError(back.UnmarshalBinary(data))
	assert.Equal(desc, back)

	assert.ErrorIs(back.UnmarshalBinary(data[:15]), ErrDescriptorShort)

	src, dst := desc.Span()
	assert.Equal(uint32(0x2000_0100), src)
	assert.Equal(uint32(0x2000_0204), dst)

	single := MakeTransfer(0x100, 0x200, 1, 0)
	assert.Equal(Control(0x0001), single.Control)
	assert.Equal(uint32(0x100), single.Source)

	double := MakeTransfer(0x100, 0x200, 2, 0)
	assert.Equal(uint32(0x102), double.Source)
	assert.Equal(uint32(0x202), double.Dest)
	src, dst = double.Span()
	assert.Equal(uint32(0x100), src)
	assert.Equal(uint32(0x200), dst)
}

func TestControllerChain(t *testing.T) {
	assert := assert.New(t)

	bus := newBus(t)
	dc := NewController(bus)

	// Descriptor 0 copies a byte over the low byte of descriptor 1's
	// source address, so descriptor 1 reads table[value].
	table := SRAM + 0x1000
	for n := range 256 {
		assert.NoError(bus.Store(table+uint32(n), []byte{byte(n ^ 0xff)}))
	}
	assert.NoError(bus.Store(SRAM+0x800, []byte{0x42}))

	head := SRAM + 0x100
	store(t, bus, head,
		MakeTransfer(SRAM+0x800, head+DESCRIPTOR_SIZE+OFFSET_SRCADDR, 1, head+DESCRIPTOR_SIZE),
		Descriptor{
			Control: MakeControl(false, false).WithBlockAction(BLOCKACT_INT),
			Count:   1,
			Source:  table,
			Dest:    SRAM + 0x801,
		},
	)

	assert.NoError(dc.Trigger(head))
	assert.True(dc.Active())
	assert.ErrorIs(dc.Trigger(head), ErrBusy)

	done, err := dc.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(head+DESCRIPTOR_SIZE, dc.Current())

	done, err = dc.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.False(dc.Active())

	assert.Equal(byte(0x42^0xff), bus.Peek(SRAM+0x801))
	assert.Equal(2, dc.Blocks)
	assert.Equal(2, dc.Beats)

	select {
	case addr := <-dc.Interrupt:
		assert.Equal(head+DESCRIPTOR_SIZE, addr)
	default:
		t.Fatal("no completion interrupt")
	}

	// Idle channel ticks are done.
	done, err = dc.Tick()
	assert.NoError(err)
	assert.True(done)

	dc.Reset()
	assert.Equal(0, dc.Blocks)
}

func TestControllerFaults(t *testing.T) {
	assert := assert.New(t)

	bus := newBus(t)
	dc := NewController(bus)

	head := SRAM + 0x100

	// Misaligned trigger.
	assert.ErrorIs(dc.Trigger(head+4), ErrDescriptorAlign)

	// Invalid descriptor.
	store(t, bus, head, Descriptor{Count: 1, Source: SRAM, Dest: SRAM + 1})
	assert.NoError(dc.Trigger(head))
	err := dc.Run()
	assert.ErrorIs(err, ErrDescriptorInvalid)
	assert.False(dc.Active())

	var xfer *ErrTransfer
	assert.ErrorAs(err, &xfer)
	assert.Equal(head, xfer.Descriptor)

	// Zero beat count.
	store(t, bus, head, Descriptor{Control: BTCTRL_VALID, Source: SRAM, Dest: SRAM + 1})
	assert.NoError(dc.Trigger(head))
	assert.ErrorIs(dc.Run(), ErrDescriptorCount)

	// Unmapped source.
	store(t, bus, head, MakeTransfer(0x1000_0000, SRAM, 1, 0))
	assert.NoError(dc.Trigger(head))
	assert.ErrorIs(dc.Run(), memory.ErrUnmapped)

	// A self loop never terminates.
	store(t, bus, head, MakeTransfer(SRAM, SRAM+1, 1, head))
	dc.Limit = 100
	assert.NoError(dc.Trigger(head))
	assert.ErrorIs(dc.Run(), ErrRunaway)
	assert.False(dc.Active())
	assert.Equal(100, dc.Blocks)
}

func TestControllerSuspend(t *testing.T) {
	assert := assert.New(t)

	bus := newBus(t)
	dc := NewController(bus)

	head := SRAM + 0x100
	assert.NoError(bus.Store(SRAM, []byte{7}))
	store(t, bus, head,
		Descriptor{
			Control: MakeControl(false, false).WithBlockAction(BLOCKACT_SUSPEND),
			Count:   1,
			Source:  SRAM,
			Dest:    SRAM + 1,
			Next:    head + DESCRIPTOR_SIZE,
		},
		MakeTransfer(SRAM+1, SRAM+2, 1, 0),
	)

	assert.ErrorIs(dc.Resume(), ErrIdle)
	assert.NoError(dc.Trigger(head))
	assert.ErrorIs(dc.Run(), ErrSuspended)
	assert.True(dc.Suspended())
	assert.Equal(byte(7), bus.Peek(SRAM+1))
	assert.Equal(byte(0), bus.Peek(SRAM+2))

	assert.NoError(dc.Resume())
	assert.NoError(dc.Run())
	assert.Equal(byte(7), bus.Peek(SRAM+2))
}
