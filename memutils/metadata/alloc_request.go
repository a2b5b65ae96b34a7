package metadata

// AllocationRequest is a type returned from BlockMetadata.CreateAllocationRequest which indicates where and how
// the metadata intends to allocate new memory. The allocation can be committed to the metadata
// with BlockMetadata.Alloc
type AllocationRequest struct {
	// Offset is where the allocation will begin
	Offset int
	// Size the total size of the allocation, maybe larger than what was originally requested
	Size int
	// RequestedSize is the value passed into CreateAllocationRequest by the consumer to generate
	// this request
	RequestedSize int
	// FreeRegionSize is the size of the free region beginning at Offset that the allocation will be
	// carved from. When it is larger than Size, the region is split on commit.
	FreeRegionSize int
}
