package metadata

// SizeClass lists the offsets of every free region of one size
type SizeClass struct {
	Size    int
	Offsets []int
}

// Snapshot is a point-in-time copy of a block's free index and allocation table.
// FreeBlocks is ordered by ascending Size and each class's Offsets are ascending.
// Allocations is ordered by ascending Offset.
type Snapshot struct {
	BlockSize   int
	FreeBlocks  []SizeClass
	Allocations []Allocation
}

// FreeIndex returns the free regions keyed by size
func (s Snapshot) FreeIndex() map[int][]int {
	index := make(map[int][]int, len(s.FreeBlocks))
	for _, class := range s.FreeBlocks {
		index[class.Size] = append([]int(nil), class.Offsets...)
	}
	return index
}

// AllocationTable returns the granted size of every allocation keyed by offset
func (s Snapshot) AllocationTable() map[int]int {
	table := make(map[int]int, len(s.Allocations))
	for _, alloc := range s.Allocations {
		table[alloc.Offset] = alloc.Size
	}
	return table
}
