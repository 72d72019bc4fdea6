package emulator

// Board memory map.
const (
	FLASH_BASE = 0x0000_0000 // Read-only program and table memory.
	FLASH_SIZE = 0x0004_0000
	TABLE_BASE = 0x0001_0000 // Lookup tables, above the boot image.

	SRAM_BASE  = 0x2000_0000
	SRAM_SIZE  = 0x0000_8000
	DATA_BASE  = SRAM_BASE // Listing data.
	DATA_SIZE  = 0x0000_1000
	CHAIN_BASE = DATA_BASE + DATA_SIZE // Descriptors and scratch.
)
