// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package lut

// nybbles splits an index byte into its high and low nybble.
func nybbles(index int) (hi, lo int) {
	return (index >> 4) & 0x0f, index & 0x0f
}

func checkSize(table Table, dst []byte) error {
	if len(dst) != table.Size() {
		return &SizeError{Table: table, Want: table.Size(), Got: len(dst)}
	}
	return nil
}

// BuildLowNybbleToLowNybble fills a 1x256 table mapping yyyy_xxxx to 0000_xxxx.
func BuildLowNybbleToLowNybble(dst []byte) (err error) {
	err = checkSize(Table{Kind: LOW_NYBBLE_TO_LOW_NYBBLE}, dst)
	if err != nil {
		return
	}
	for n := range dst {
		dst[n] = byte(n) & 0x0f
	}
	return
}

// BuildLowNybbleToHighNybble fills a 1x256 table mapping yyyy_xxxx to xxxx_0000.
func BuildLowNybbleToHighNybble(dst []byte) (err error) {
	err = checkSize(Table{Kind: LOW_NYBBLE_TO_HIGH_NYBBLE}, dst)
	if err != nil {
		return
	}
	for n := range dst {
		dst[n] = (byte(n) << 4) & 0xf0
	}
	return
}

// BuildHighNybbleToHighNybble fills a 1x256 table mapping yyyy_xxxx to yyyy_0000.
func BuildHighNybbleToHighNybble(dst []byte) (err error) {
	err = checkSize(Table{Kind: HIGH_NYBBLE_TO_HIGH_NYBBLE}, dst)
	if err != nil {
		return
	}
	for n := range dst {
		dst[n] = byte(n) & 0xf0
	}
	return
}

// BuildHighNybbleToLowNybble fills a 1x256 table mapping yyyy_xxxx to 0000_yyyy.
func BuildHighNybbleToLowNybble(dst []byte) (err error) {
	err = checkSize(Table{Kind: HIGH_NYBBLE_TO_LOW_NYBBLE}, dst)
	if err != nil {
		return
	}
	for n := range dst {
		dst[n] = (byte(n) >> 4) & 0x0f
	}
	return
}

// BuildNybbleLowCombine fills the 16x256 table that joins two nybbles.
//
// table[0000_hhhh][pppp_llll] maps to hhhh_llll for every pad pppp: the DMA
// only ever supplies whole bytes as an index, so the upper nybble of the
// low index byte is ignored.
func BuildNybbleLowCombine(dst []byte) (err error) {
	err = checkSize(Table{Kind: NYBBLE_LOW_COMBINE}, dst)
	if err != nil {
		return
	}
	for hi := range 16 {
		for index := range 256 {
			dst[hi*256+index] = byte(hi<<4) | byte(index&0x0f)
		}
	}
	return
}

// BuildNybbleSum fills a 16x16 table mapping hhhh_llll to the low four bits
// of hhhh + llll + carry in.
func BuildNybbleSum(dst []byte, cin CarryIn) (err error) {
	err = checkSize(Table{Kind: cin.Sum()}, dst)
	if err != nil {
		return
	}
	for n := range dst {
		hi, lo := nybbles(n)
		dst[n] = byte(hi+lo+int(cin)) & 0x0f
	}
	return
}

// BuildNybbleCarryOut fills a 16x16 table mapping hhhh_llll to the carry
// out (0 or 1) of hhhh + llll + carry in.
func BuildNybbleCarryOut(dst []byte, cin CarryIn) (err error) {
	err = checkSize(Table{Kind: cin.CarryOut()}, dst)
	if err != nil {
		return
	}
	for n := range dst {
		hi, lo := nybbles(n)
		dst[n] = byte((hi+lo+int(cin))>>4) & 0x01
	}
	return
}

// BuildNybbleCompareEqual fills a 16x16 table mapping hhhh_llll to 'a' if
// hhhh == llll, else to 'b'.
func BuildNybbleCompareEqual(dst []byte, a, b byte) (err error) {
	err = checkSize(Table{Kind: NYBBLE_COMPARE_EQUAL, Match: a, Mismatch: b}, dst)
	if err != nil {
		return
	}
	for n := range dst {
		hi, lo := nybbles(n)
		if hi == lo {
			dst[n] = a
		} else {
			dst[n] = b
		}
	}
	return
}
