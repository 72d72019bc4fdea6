package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzAdd8(f *testing.F) {
	f.Add(byte(0x3f), byte(0x01), false)
	f.Add(byte(0xff), byte(0x01), true)
	f.Add(byte(0x00), byte(0x00), false)

	b := newBoard(f)
	plain, err := b.cc.Add8(target(0), Operands{A: OPA, B: OPB, Result: RESULT})
	require.NoError(f, err)
	carry, err := b.cc.Add8(target(1), Operands{A: OPA, B: OPB, Result: RESULT, CarryIn: CARRY})
	require.NoError(f, err)
	require.NoError(f, plain.Store(b.mem))
	require.NoError(f, carry.Store(b.mem))

	f.Fuzz(func(t *testing.T, a byte, c byte, cin bool) {
		ch := plain
		sum := int(a) + int(c)
		if cin {
			ch = carry
			sum++
			b.poke(t, CARRY, 1)
		}
		b.poke(t, OPA, a)
		b.poke(t, OPB, c)
		b.run(t, ch)
		assert.Equal(t, byte(sum), b.mem.Peek(RESULT))
		assert.Equal(t, byte(sum>>8), b.mem.Peek(ch.CarryOut))
	})
}
