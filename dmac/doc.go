// Package dmac describes SAMD21 style DMA transfer descriptors and models
// the controller that walks them.
//
// A descriptor is 16 bytes in memory: BTCTRL, BTCNT, SRCADDR, DSTADDR and
// DESCADDR, little endian. The controller fetches a descriptor from memory
// only when it begins executing it, so an earlier descriptor may rewrite a
// later descriptor's fields. The chain compiler depends on this.
package dmac
