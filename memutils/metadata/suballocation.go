package metadata

// Region is a contiguous range of addresses [Offset, Offset+Size) within a block
type Region struct {
	Offset int
	Size   int
}

// End returns the first offset past the end of the region
func (r Region) End() int {
	return r.Offset + r.Size
}

// Allocation is a live suballocation. Size is the number of bytes actually granted, which
// may be larger than RequestedSize.
type Allocation struct {
	Region
	RequestedSize int
}
