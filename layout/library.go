// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package layout

import (
	"iter"
	"slices"

	"github.com/ezrec/samdma/lut"
)

// Bank is a group of tables laid out back to back and indexed by
// IndexBytes concatenated bytes.
//
// A bank of several 256 entry tables indexed by two bytes uses the second
// index byte to pick the table: the carry-in variants of the nybble adder
// are banked this way so the carry bit itself selects the variant.
type Bank struct {
	Name       string
	IndexBytes int
	Tables     []lut.Table
}

// Size returns the bank size in bytes.
func (bank Bank) Size() (size uint32) {
	for _, table := range bank.Tables {
		size += uint32(table.Size())
	}
	return
}

// Check validates the bank geometry.
func (bank Bank) Check() (err error) {
	switch {
	case len(bank.Tables) == 0:
		err = ErrBankEmpty
	case bank.IndexBytes < 1 || bank.IndexBytes > MAX_INDEX_BYTES:
		err = ErrIndexWidth
	case uint64(bank.Size()) > uint64(Alignment(bank.IndexBytes)):
		err = ErrBankSize
	}

	for _, table := range bank.Tables {
		if table.IndexBytes() > bank.IndexBytes {
			err = ErrIndexWidth
		}
	}

	return
}

// StandardBanks returns the tables used by the chain compiler.
func StandardBanks() []Bank {
	return []Bank{
		{Name: "combine", IndexBytes: 2, Tables: []lut.Table{
			{Kind: lut.NYBBLE_LOW_COMBINE},
		}},
		{Name: "sum", IndexBytes: 2, Tables: []lut.Table{
			{Kind: lut.CARRY_IN_0.Sum()},
			{Kind: lut.CARRY_IN_1.Sum()},
		}},
		{Name: "carryout", IndexBytes: 2, Tables: []lut.Table{
			{Kind: lut.CARRY_IN_0.CarryOut()},
			{Kind: lut.CARRY_IN_1.CarryOut()},
		}},
		{Name: "low_to_low", IndexBytes: 1, Tables: []lut.Table{{Kind: lut.LOW_NYBBLE_TO_LOW_NYBBLE}}},
		{Name: "low_to_high", IndexBytes: 1, Tables: []lut.Table{{Kind: lut.LOW_NYBBLE_TO_HIGH_NYBBLE}}},
		{Name: "high_to_high", IndexBytes: 1, Tables: []lut.Table{{Kind: lut.HIGH_NYBBLE_TO_HIGH_NYBBLE}}},
		{Name: "high_to_low", IndexBytes: 1, Tables: []lut.Table{{Kind: lut.HIGH_NYBBLE_TO_LOW_NYBBLE}}},
		{Name: "equal", IndexBytes: 1, Tables: []lut.Table{lut.CompareEqual(1, 0)}},
		{Name: "equal_hi", IndexBytes: 1, Tables: []lut.Table{lut.CompareEqual(1, 2)}},
	}
}

// Placement is a bank at its address, with its populated contents.
type Placement struct {
	Bank   Bank
	Region Region
	Data   []byte
}

// Library is the set of placed and populated tables.
type Library struct {
	Placement []Placement
}

// build populates the bank contents.
func (place *Placement) build() (err error) {
	place.Data = make([]byte, place.Bank.Size())
	offset := 0
	for _, table := range place.Bank.Tables {
		size := table.Size()
		err = table.Build(place.Data[offset : offset+size])
		if err != nil {
			return
		}
		offset += size
	}

	return
}

func (pl *Planner) placeLibrary(banks []Bank, bases []uint32) (lib *Library, err error) {
	seen := map[lut.Table]bool{}
	lib = &Library{}

	defer func() {
		if err != nil {
			lib = nil
		}
	}()

	for n, bank := range banks {
		err = bank.Check()
		if err != nil {
			err = &ErrRegion{Name: bank.Name, Err: err}
			return
		}
		for _, table := range bank.Tables {
			if seen[table] {
				err = &ErrRegion{Name: bank.Name, Err: ErrTableDuplicate}
				return
			}
			seen[table] = true
		}

		name := "lut." + bank.Name
		align := Alignment(bank.IndexBytes)

		var region Region
		if bases == nil {
			region, err = pl.Reserve(name, bank.Size(), align)
		} else {
			region, err = pl.Place(name, bases[n], bank.Size(), align)
		}
		if err != nil {
			return
		}

		place := Placement{Bank: bank, Region: region}
		err = place.build()
		if err != nil {
			return
		}

		lib.Placement = append(lib.Placement, place)
	}

	err = lib.Verify()

	return
}

// PlanLibrary reserves and populates every bank, widest alignment first.
func (pl *Planner) PlanLibrary(banks []Bank) (lib *Library, err error) {
	banks = slices.Clone(banks)
	slices.SortStableFunc(banks, func(a, b Bank) int {
		return b.IndexBytes - a.IndexBytes
	})

	return pl.placeLibrary(banks, nil)
}

// PlaceLibrary places every bank at a fixed base, as given by an existing
// link map. Misaligned bases are rejected.
func (pl *Planner) PlaceLibrary(banks []Bank, bases []uint32) (lib *Library, err error) {
	if len(banks) != len(bases) {
		err = ErrBaseCount
		return
	}

	return pl.placeLibrary(banks, bases)
}

// Verify re-checks that every bank sits on its index boundary.
func (lib *Library) Verify() (err error) {
	for _, place := range lib.Placement {
		if !Aligned(place.Region.Base, place.Bank.IndexBytes) {
			err = &ErrRegion{Name: place.Bank.Name, Base: place.Region.Base, Err: ErrMisaligned}
			return
		}
	}

	return
}

// Locate returns the address to index table with indexBytes concatenated
// bytes.
//
// With the table's own index width, the table base is returned. With a
// wider index, the extra bytes select among the tables of the bank, so the
// table must open its bank and the bank base is returned. Alignment is
// checked on every call.
func (lib *Library) Locate(table lut.Table, indexBytes int) (base uint32, err error) {
	for _, place := range lib.Placement {
		offset := uint32(0)
		for n, entry := range place.Bank.Tables {
			if entry != table {
				offset += uint32(entry.Size())
				continue
			}

			base = place.Region.Base + offset

			switch {
			case indexBytes == table.IndexBytes():
			case indexBytes > table.IndexBytes() && indexBytes <= place.Bank.IndexBytes && n == 0:
			default:
				err = &ErrRegion{Name: table.String(), Base: base, Err: ErrIndexWidth}
				return
			}

			if !Aligned(base, indexBytes) {
				err = &ErrRegion{Name: table.String(), Base: base, Err: ErrMisaligned}
			}
			return
		}
	}

	err = &ErrRegion{Name: table.String(), Err: ErrTableMissing}
	return
}

// Image iterates over the address and contents of every bank.
func (lib *Library) Image() iter.Seq2[uint32, []byte] {
	return func(yield func(addr uint32, data []byte) bool) {
		for _, place := range lib.Placement {
			if !yield(place.Region.Base, place.Data) {
				return
			}
		}
	}
}

// Tables iterates over every table in the library.
func (lib *Library) Tables() iter.Seq[lut.Table] {
	return func(yield func(table lut.Table) bool) {
		for _, place := range lib.Placement {
			for _, table := range place.Bank.Tables {
				if !yield(table) {
					return
				}
			}
		}
	}
}
