// Package chain compiles table lookup pipelines into DMA descriptor chains.
//
// A pipeline is a sequence of stages. Each stage looks up one table: its
// index bytes are copied over the low bytes of the stage's lookup
// descriptor source address, then the lookup descriptor copies the table
// entry to the stage destination. When a stage's destination is a byte of a
// later stage's source address (SourceOf), the value is passed without any
// copy, and the later stage treats that byte as fed.
//
// Once triggered, the chain runs without the CPU: every descriptor links to
// the next, and the last one raises the completion interrupt.
package chain
