package lut

// Kind is the function a table encodes.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	LOW_NYBBLE_TO_LOW_NYBBLE   = Kind(0) // low_nybble_to_low_nybble
	LOW_NYBBLE_TO_HIGH_NYBBLE  = Kind(1) // low_nybble_to_high_nybble
	HIGH_NYBBLE_TO_HIGH_NYBBLE = Kind(2) // high_nybble_to_high_nybble
	HIGH_NYBBLE_TO_LOW_NYBBLE  = Kind(3) // high_nybble_to_low_nybble
	NYBBLE_LOW_COMBINE         = Kind(4) // nybble_low_combine
	NYBBLE_SUM_CARRYIN_0       = Kind(5) // nybble_sum_carryin_0
	NYBBLE_SUM_CARRYIN_1       = Kind(6) // nybble_sum_carryin_1
	NYBBLE_CARRYOUT_CARRYIN_0  = Kind(7) // nybble_carryout_carryin_0
	NYBBLE_CARRYOUT_CARRYIN_1  = Kind(8) // nybble_carryout_carryin_1
	NYBBLE_COMPARE_EQUAL       = Kind(9) // nybble_compare_equal
)

const (
	BYTE_TABLE_SIZE    = 256      // 1x256 and 16x16 tables.
	COMBINE_TABLE_SIZE = 16 * 256 // 16x256 nybble combine table.
)

// Size returns the number of entries in a table of this kind.
func (kind Kind) Size() int {
	if kind == NYBBLE_LOW_COMBINE {
		return COMBINE_TABLE_SIZE
	}
	return BYTE_TABLE_SIZE
}

// IndexBytes returns how many concatenated bytes form an index.
func (kind Kind) IndexBytes() int {
	if kind == NYBBLE_LOW_COMBINE {
		return 2
	}
	return 1
}

// Valid returns true for a known table kind.
func (kind Kind) Valid() bool {
	return kind >= LOW_NYBBLE_TO_LOW_NYBBLE && kind <= NYBBLE_COMPARE_EQUAL
}

// CarryIn selects one of the two carry-in variants of the nybble adder.
//
// The variants are laid out back to back, so the selector is also the
// second index byte when a bank of both variants is indexed.
type CarryIn uint8

const (
	CARRY_IN_0 = CarryIn(0)
	CARRY_IN_1 = CarryIn(1)
)

// Offset of the variant from the start of its bank.
func (cin CarryIn) Offset() uint32 {
	return uint32(cin) * BYTE_TABLE_SIZE
}

// Sum returns the sum table kind for this carry in.
func (cin CarryIn) Sum() Kind {
	if cin == CARRY_IN_1 {
		return NYBBLE_SUM_CARRYIN_1
	}
	return NYBBLE_SUM_CARRYIN_0
}

// CarryOut returns the carry-out table kind for this carry in.
func (cin CarryIn) CarryOut() Kind {
	if cin == CARRY_IN_1 {
		return NYBBLE_CARRYOUT_CARRYIN_1
	}
	return NYBBLE_CARRYOUT_CARRYIN_0
}
