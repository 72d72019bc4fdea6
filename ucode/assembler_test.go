package ucode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/samdma/chain"
	"github.com/ezrec/samdma/lut"
)

func parse(t *testing.T, asm *Assembler, lines ...string) (*Program, error) {
	t.Helper()
	return asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := parse(t, asm, "")
	assert.NoError(err)
	assert.Equal(0, len(prog.Ops))
	assert.Equal(0, len(prog.Data))
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerOps(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	asm := &Assembler{}
	prog, err := parse(t, asm,
		"add8 0x20000000 0x20000001 0x20000002 ; plain",
		"add8 0x20000000 0x20000001 0x20000002 0x20000003",
		"adc8 0x20000000 0x20000001 0x20000002 0x20000003",
		"add16 0x20000010 0x20000012 0x20000014",
		"add32 0x20000020 0x20000024 0x20000028 0x2000002c",
		"eq8 0x20000000 0x20000001 0x20000002",
		"eq8 0x20000000 0x20000001 0x20000002 'y' 'n'",
	)
	require.NoError(err)
	require.Len(prog.Ops, 7)

	expected := []Op{
		{LineNo: 1, Index: 0, Words: []string{"add8", "0x20000000", "0x20000001", "0x20000002"},
			Kind: OP_ADD8, A: 0x20000000, B: 0x20000001, Result: 0x20000002},
		{LineNo: 2, Index: 1, Words: []string{"add8", "0x20000000", "0x20000001", "0x20000002", "0x20000003"},
			Kind: OP_ADD8, A: 0x20000000, B: 0x20000001, Result: 0x20000002, CarryOut: 0x20000003},
		{LineNo: 3, Index: 2, Words: []string{"adc8", "0x20000000", "0x20000001", "0x20000002", "0x20000003"},
			Kind: OP_ADC8, A: 0x20000000, B: 0x20000001, Result: 0x20000002, CarryIn: 0x20000003},
		{LineNo: 4, Index: 3, Words: []string{"add16", "0x20000010", "0x20000012", "0x20000014"},
			Kind: OP_ADD16, A: 0x20000010, B: 0x20000012, Result: 0x20000014},
		{LineNo: 5, Index: 4, Words: []string{"add32", "0x20000020", "0x20000024", "0x20000028", "0x2000002c"},
			Kind: OP_ADD32, A: 0x20000020, B: 0x20000024, Result: 0x20000028, CarryOut: 0x2000002c},
		{LineNo: 6, Index: 5, Words: []string{"eq8", "0x20000000", "0x20000001", "0x20000002"},
			Kind: OP_EQ8, A: 0x20000000, B: 0x20000001, Result: 0x20000002, Match: 1, Mismatch: 0},
		{LineNo: 7, Index: 6, Words: []string{"eq8", "0x20000000", "0x20000001", "0x20000002", "121", "110"},
			Kind: OP_EQ8, A: 0x20000000, B: 0x20000001, Result: 0x20000002, Match: 'y', Mismatch: 'n'},
	}

	for n := range expected {
		assert.Equal(expected[n], prog.Ops[n])
	}

	assert.Equal(1, OP_ADD8.Width())
	assert.Equal(2, OP_ADD16.Width())
	assert.Equal(4, OP_ADD32.Width())
	assert.Equal("add32", OP_ADD32.String())
	assert.Equal("OpKind(9)", OpKind(9).String())

	assert.Equal(chain.Operands{A: 0x20000000, B: 0x20000001, Result: 0x20000002, CarryIn: 0x20000003},
		prog.Ops[2].Operands())

	assert.Equal([]lut.Table{lut.CompareEqual(1, 0), lut.CompareEqual('y', 'n')}, prog.Tables())
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	asm := &Assembler{}
	asm.Predefine("DATA_BASE", "0x20000000")

	prog, err := parse(t, asm,
		".equ A DATA_BASE",
		".equ SUM $(DATA_BASE + 0x10)",
		"add8 A $(A + 1) SUM",
		"add8 A A $(SUM + LINENO)",
	)
	require.NoError(err)
	require.Len(prog.Ops, 2)

	assert.Equal(uint32(0x20000000), prog.Ops[0].A)
	assert.Equal(uint32(0x20000001), prog.Ops[0].B)
	assert.Equal(uint32(0x20000010), prog.Ops[0].Result)
	assert.Equal(uint32(0x20000014), prog.Ops[1].Result)

	_, err = parse(t, asm, ".equ A 1", ".equ A 2")
	assert.ErrorIs(err, ErrEquateDuplicate)

	_, err = parse(t, asm, ".equ A")
	assert.ErrorIs(err, ErrEquateSyntax)

	_, err = parse(t, asm, "add8 $(nonesuch) 1 2")
	assert.Error(err)

	_, err = parse(t, asm, `add8 $("x") 1 2`)
	assert.ErrorIs(err, ErrParseExpression(`"x"`))
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	asm := &Assembler{}
	prog, err := parse(t, asm,
		".data 0x20000000 0x3f 1 'A'",
		".word 0x20000010 0x12345678 ~0",
	)
	require.NoError(err)

	expected := []Data{
		{LineNo: 1, Addr: 0x20000000, Bytes: []byte{0x3f, 0x01, 'A'}},
		{LineNo: 2, Addr: 0x20000010, Bytes: []byte{0x78, 0x56, 0x34, 0x12, 0xff, 0xff, 0xff, 0xff}},
	}
	assert.Equal(expected, prog.Data)

	var addrs []uint32
	for addr := range prog.Image() {
		addrs = append(addrs, addr)
	}
	assert.Equal([]uint32{0x20000000, 0x20000010}, addrs)

	_, err = parse(t, asm, ".data 0x20000000 0x100")
	assert.ErrorIs(err, ErrDataRange)

	_, err = parse(t, asm, ".data 0x20000000")
	assert.ErrorIs(err, ErrDataSyntax)

	_, err = parse(t, asm, ".data 0 1")
	assert.ErrorIs(err, ErrAddressZero)
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	asm := &Assembler{}
	prog, err := parse(t, asm,
		"first: add8 1 2 3",
		"second:",
		"add8 1 2 3",
		"dangling:",
	)
	require.NoError(err)

	op, err := prog.Lookup("first")
	require.NoError(err)
	assert.Equal(0, op.Index)
	assert.Equal("first: add8 1 2 3", op.String())

	op, err = prog.Lookup("second")
	require.NoError(err)
	assert.Equal(1, op.Index)
	assert.Equal("second", op.Label)

	_, err = prog.Lookup("dangling")
	assert.ErrorIs(err, ErrLabelMissing("dangling"))

	_, err = parse(t, asm, "x: add8 1 2 3", "x: add8 1 2 3")
	assert.ErrorIs(err, ErrLabelDuplicate)
}

func TestAssemblerDataLabels(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	asm := &Assembler{}
	prog, err := parse(t, asm,
		".macro cell addr",
		"@v: .data addr 0",
		".endm",
		"count: .data 0x20000000 5",
		"step: .word $(count + 4) 1",
		"cell 0x20000010",
		"loop: add8 count step cell_1_v",
		"add16 count $(step + 1) $(cell_1_v + 2)",
	)
	require.NoError(err)

	assert.Equal(map[string]uint32{
		"count":    0x2000_0000,
		"step":     0x2000_0004,
		"cell_1_v": 0x2000_0010,
	}, prog.Symbol)
	assert.NotContains(prog.Label, "count")

	require.Len(prog.Ops, 2)
	op, err := prog.Lookup("loop")
	require.NoError(err)
	assert.Equal(uint32(0x2000_0000), op.A)
	assert.Equal(uint32(0x2000_0004), op.B)
	assert.Equal(uint32(0x2000_0010), op.Result)
	assert.Equal(uint32(0x2000_0005), prog.Ops[1].B)
	assert.Equal(uint32(0x2000_0012), prog.Ops[1].Result)

	_, err = parse(t, asm, "x: .data 0x20000000 1", "x: .data 0x20000001 2")
	assert.ErrorIs(err, ErrLabelDuplicate)

	_, err = parse(t, asm, "x: .data 0x20000000 1", "x: add8 x x x")
	assert.ErrorIs(err, ErrLabelDuplicate)

	_, err = parse(t, asm, ".equ x 1", "x: .data 0x20000000 1")
	assert.ErrorIs(err, ErrLabelDuplicate)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	asm := &Assembler{}
	prog, err := parse(t, asm,
		".macro double X R",
		"add8 X X R",
		"@tmp: eq8 X R $(R + 1)",
		".endm",
		"top: double 0x20000000 0x20000010",
		"double 0x20000100 0x20000110",
	)
	require.NoError(err)
	require.Len(prog.Ops, 4)

	assert.Equal(uint32(0x20000000), prog.Ops[0].A)
	assert.Equal(uint32(0x20000010), prog.Ops[0].Result)
	assert.Equal("top", prog.Ops[0].Label)
	assert.Equal(OP_EQ8, prog.Ops[1].Kind)
	assert.Equal(uint32(0x20000011), prog.Ops[1].Result)
	assert.Equal("double_1_tmp", prog.Ops[1].Label)
	assert.Equal(uint32(0x20000100), prog.Ops[2].A)

	// Macro arguments do not leak.
	_, ok := asm.Equate["X"]
	assert.False(ok)

	table := []struct {
		lines []string
		err   error
	}{
		{[]string{".macro a", ".macro b"}, ErrMacroNesting},
		{[]string{".macro a", ".endm", ".macro a", ".endm"}, ErrMacroDuplicate},
		{[]string{".macro a"}, ErrMacroLonely},
		{[]string{".endm"}, ErrMacroLonelyEndm},
		{[]string{".macro a X", ".endm", "a"}, ErrMacroSyntax},
		{[]string{".macro a X", "nop X", ".endm", "a 1"}, ErrInstructionInvalid},
	}

	for _, entry := range table {
		_, err = parse(t, asm, entry.lines...)
		assert.ErrorIs(err, entry.err, "%v", entry.lines)
	}

	_, err = parse(t, asm, ".macro a X", "nop X", ".endm", "a 1")
	var macroErr *ErrMacro
	require.ErrorAs(err, &macroErr)
	assert.Equal("a", macroErr.Macro)
	assert.Equal(2, macroErr.Line)
}

func TestAssemblerErrors(t *testing.T) {
	table := []struct {
		line string
		err  error
	}{
		{"mul8 1 2 3", ErrInstructionInvalid},
		{"add8 1 2", ErrOpcodeValueMissing},
		{"add8 1 2 3 4 5", ErrOpcodeExtraArgs},
		{"adc8 1 2 3", ErrOpcodeValueMissing},
		{"eq8 1 2 3 4", ErrOpcodeValueMissing},
		{"eq8 1 2 3 4 5 6", ErrOpcodeExtraArgs},
		{"eq8 1 2 3 0x100 0", ErrDataRange},
		{"add8 0 2 3", ErrAddressZero},
		{"add8 one 2 3", ErrParseNumber("one")},
	}

	asm := &Assembler{}
	for _, entry := range table {
		t.Run(entry.line, func(t *testing.T) {
			_, err := parse(t, asm, entry.line)
			assert.ErrorIs(t, err, entry.err)

			var syntax *ErrSyntax
			if assert.ErrorAs(t, err, &syntax) {
				assert.Equal(t, 1, syntax.LineNo)
				assert.Equal(t, entry.line, syntax.Line)
			}
		})
	}
}
