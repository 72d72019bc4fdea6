package layout

// Arena hands out scratch cells from a region owned by one chain.
type Arena struct {
	Region Region
	used   uint32
}

// NewArena creates an arena over a region.
func NewArena(region Region) *Arena {
	return &Arena{Region: region}
}

// Alloc returns the address of size fresh, adjacent bytes.
func (arena *Arena) Alloc(name string, size uint32) (addr uint32, err error) {
	if uint64(arena.used)+uint64(size) > uint64(arena.Region.Size) {
		err = &ErrRegion{Name: arena.Region.Name + "." + name, Base: arena.Region.Base + arena.used, Err: ErrRegionFull}
		return
	}

	addr = arena.Region.Base + arena.used
	arena.used += size

	return
}

// Used returns the number of bytes handed out.
func (arena *Arena) Used() uint32 {
	return arena.used
}
