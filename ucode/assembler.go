// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package ucode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the listing.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for DMA microcode listings.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.
	Ops     []Op // List of generated operations.
	Data    []Data

	predefine map[string]string   // Predefines
	pending   string              // Label of the next operation.
	expanded  int                 // Macro expansions so far.
	Label     map[string]int      // Map of labels to operation indexes.
	Symbol    map[string]uint32   // Map of data labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines an equate visible to every listing.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// addressOf returns the value of a word naming a byte address.
func (asm *Assembler) addressOf(word string) (addr uint32, err error) {
	addr, err = asm.valueOf(word)
	if err == nil && addr == 0 {
		err = ErrAddressZero
	}
	return
}

// byteOf returns the value of a word naming a byte.
func (asm *Assembler) byteOf(word string) (value byte, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		return
	}
	if v32 > 0xff {
		err = ErrDataRange
		return
	}
	value = byte(v32)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(int64(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

var (
	reChar  = regexp.MustCompile(`'\\?[^']'`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// defineLabel names the next operation, or the address of the next data.
func (asm *Assembler) defineLabel(label string) (err error) {
	_, ok := asm.Label[label]
	_, data := asm.Symbol[label]
	if ok || data || len(label) == 0 {
		err = ErrLabelDuplicate
		return
	}

	asm.Label[label] = len(asm.Ops)
	asm.pending = label

	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		value := words[2]
		equate, ok := asm.Equate[value]
		if ok {
			value = equate
		}
		asm.Equate[words[1]] = value
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		err = asm.defineLabel(words[0][:len(words[0])-1])
		if err != nil {
			return
		}
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() {
			asm.Equate = old_equate
			for label, addr := range asm.Symbol {
				asm.Equate[label] = fmt.Sprintf("%#x", addr)
			}
		}()

		asm.expanded++
		local := fmt.Sprintf("%v_%v_", name, asm.expanded)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = map[string]int{}
	asm.Symbol = map[string]uint32{}
	asm.pending = ""
	asm.Ops = asm.Ops[:0]
	asm.Data = asm.Data[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	prog = &Program{
		Ops:    slices.Clone(asm.Ops),
		Data:   slices.Clone(asm.Data),
		Label:  maps.Clone(asm.Label),
		Symbol: maps.Clone(asm.Symbol),
	}

	return
}

// opMap maps operation names.
var opMap = map[string]OpKind{
	OP_ADD8.String():  OP_ADD8,
	OP_ADC8.String():  OP_ADC8,
	OP_ADD16.String(): OP_ADD16,
	OP_ADD32.String(): OP_ADD32,
	OP_EQ8.String():   OP_EQ8,
}

// parseData evaluates .data and .word directives.
func (asm *Assembler) parseData(words []string, lineno int) (err error) {
	if len(words) < 3 {
		err = ErrDataSyntax
		return
	}

	addr, err := asm.addressOf(words[1])
	if err != nil {
		return
	}

	// A label on data names its address for later operands.
	if label := asm.pending; len(label) != 0 {
		if _, ok := asm.Equate[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		delete(asm.Label, label)
		asm.Symbol[label] = addr
		asm.Equate[label] = fmt.Sprintf("%#x", addr)
		asm.pending = ""
	}

	var data []byte
	for _, word := range words[2:] {
		switch words[0] {
		case ".data":
			var value byte
			value, err = asm.byteOf(word)
			if err != nil {
				return
			}
			data = append(data, value)
		case ".word":
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			data = binary.LittleEndian.AppendUint32(data, value)
		}
	}

	asm.Data = append(asm.Data, Data{LineNo: lineno, Addr: addr, Bytes: data})

	return
}

// parseWords evaluates the words in a line of the listing.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".data", ".word":
		return asm.parseData(words, lineno)
	}

	kind, ok := opMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	op := Op{
		LineNo: lineno,
		Index:  len(asm.Ops),
		Label:  asm.pending,
		Words:  slices.Clone(words),
		Kind:   kind,
	}

	args := words[1:]
	need := 3
	if kind == OP_ADC8 {
		need = 4
	}
	extra := 1
	if kind == OP_EQ8 {
		extra = 2
	}
	switch {
	case len(args) < need:
		err = ErrOpcodeValueMissing
	case len(args) > need+extra:
		err = ErrOpcodeExtraArgs
	case kind == OP_EQ8 && len(args) == need+1:
		err = ErrOpcodeValueMissing
	}
	if err != nil {
		return
	}

	addrs := []*uint32{&op.A, &op.B, &op.Result}
	if kind == OP_ADC8 {
		addrs = append(addrs, &op.CarryIn)
	}
	if kind != OP_EQ8 {
		addrs = append(addrs, &op.CarryOut)
	}
	for n, word := range args[:min(len(args), len(addrs))] {
		*addrs[n], err = asm.addressOf(word)
		if err != nil {
			return
		}
	}

	if kind == OP_EQ8 {
		op.Match, op.Mismatch = 1, 0
		if len(args) == need+2 {
			op.Match, err = asm.byteOf(args[need])
			if err != nil {
				return
			}
			op.Mismatch, err = asm.byteOf(args[need+1])
			if err != nil {
				return
			}
		}
	}

	asm.Ops = append(asm.Ops, op)
	asm.pending = ""

	return
}
