// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package lut

import (
	"fmt"
)

// Table identifies one lookup table.
//
// Match and Mismatch are only meaningful for NYBBLE_COMPARE_EQUAL, and are
// part of the table identity: two compare tables with different outputs are
// different tables.
type Table struct {
	Kind     Kind
	Match    byte
	Mismatch byte
}

// CompareEqual returns the compare table emitting a on equal nybbles, else b.
func CompareEqual(a, b byte) Table {
	return Table{Kind: NYBBLE_COMPARE_EQUAL, Match: a, Mismatch: b}
}

// String returns the table name.
func (table Table) String() string {
	if table.Kind == NYBBLE_COMPARE_EQUAL {
		return fmt.Sprintf("%v(0x%02x,0x%02x)", table.Kind, table.Match, table.Mismatch)
	}
	return table.Kind.String()
}

// Size returns the number of entries of the table.
func (table Table) Size() int {
	return table.Kind.Size()
}

// IndexBytes returns how many concatenated bytes form an index.
func (table Table) IndexBytes() int {
	return table.Kind.IndexBytes()
}

// Build populates dst, which must be exactly Size() bytes long.
func (table Table) Build(dst []byte) (err error) {
	switch table.Kind {
	case LOW_NYBBLE_TO_LOW_NYBBLE:
		err = BuildLowNybbleToLowNybble(dst)
	case LOW_NYBBLE_TO_HIGH_NYBBLE:
		err = BuildLowNybbleToHighNybble(dst)
	case HIGH_NYBBLE_TO_HIGH_NYBBLE:
		err = BuildHighNybbleToHighNybble(dst)
	case HIGH_NYBBLE_TO_LOW_NYBBLE:
		err = BuildHighNybbleToLowNybble(dst)
	case NYBBLE_LOW_COMBINE:
		err = BuildNybbleLowCombine(dst)
	case NYBBLE_SUM_CARRYIN_0:
		err = BuildNybbleSum(dst, CARRY_IN_0)
	case NYBBLE_SUM_CARRYIN_1:
		err = BuildNybbleSum(dst, CARRY_IN_1)
	case NYBBLE_CARRYOUT_CARRYIN_0:
		err = BuildNybbleCarryOut(dst, CARRY_IN_0)
	case NYBBLE_CARRYOUT_CARRYIN_1:
		err = BuildNybbleCarryOut(dst, CARRY_IN_1)
	case NYBBLE_COMPARE_EQUAL:
		err = BuildNybbleCompareEqual(dst, table.Match, table.Mismatch)
	default:
		err = ErrKindInvalid
	}

	return
}

// Bytes builds the table into a fresh buffer.
func (table Table) Bytes() (data []byte, err error) {
	if !table.Kind.Valid() {
		err = ErrKindInvalid
		return
	}

	data = make([]byte, table.Size())
	err = table.Build(data)
	if err != nil {
		data = nil
	}

	return
}

// Lookup evaluates the table function for an index directly.
//
// For two byte indexes the high byte is bits 15:8 of index.
func (table Table) Lookup(index uint16) (value byte) {
	hi, lo := nybbles(int(index & 0xff))
	switch table.Kind {
	case LOW_NYBBLE_TO_LOW_NYBBLE:
		value = byte(lo)
	case LOW_NYBBLE_TO_HIGH_NYBBLE:
		value = byte(lo << 4)
	case HIGH_NYBBLE_TO_HIGH_NYBBLE:
		value = byte(hi << 4)
	case HIGH_NYBBLE_TO_LOW_NYBBLE:
		value = byte(hi)
	case NYBBLE_LOW_COMBINE:
		value = byte((index>>8)&0x0f)<<4 | byte(lo)
	case NYBBLE_SUM_CARRYIN_0, NYBBLE_SUM_CARRYIN_1:
		cin := int(table.Kind - NYBBLE_SUM_CARRYIN_0)
		value = byte(hi+lo+cin) & 0x0f
	case NYBBLE_CARRYOUT_CARRYIN_0, NYBBLE_CARRYOUT_CARRYIN_1:
		cin := int(table.Kind - NYBBLE_CARRYOUT_CARRYIN_0)
		value = byte((hi+lo+cin)>>4) & 0x01
	case NYBBLE_COMPARE_EQUAL:
		value = table.Mismatch
		if hi == lo {
			value = table.Match
		}
	}

	return
}
