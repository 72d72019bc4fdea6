// Package ucode assembles listings of DMA microcode operations.
//
// A listing is a sequence of operations over byte addresses, one per line:
//
//	.equ SUM $(DATA_BASE + 0x10)
//	.data DATA_BASE 0x3f 0x01
//	start: add8 DATA_BASE $(DATA_BASE + 1) SUM
//	eq8 SUM 0x20000020 $(SUM + 1)
//
// Each operation is later compiled into its own descriptor chain.
package ucode
