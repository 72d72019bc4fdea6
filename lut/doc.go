// Package lut builds the lookup tables that let a DMA controller compute.
//
// The DMA controller can only copy bytes. It can, however, copy a byte into
// the low byte of a later descriptor's source address, so a copy of
// table[value] is a lookup. Every function the controller evaluates is one
// of the tables below, indexed by one byte or by two concatenated bytes.
//
// Nybble pairs are always packed as hi<<4|lo: the high nybble of an index
// byte is one operand and the low nybble is the other.
package lut
