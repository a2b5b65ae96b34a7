package metadata

//go:generate mockgen -destination=mocks/block_metadata.go -package=mocks github.com/vkngwrapper/buddy/memutils/metadata BlockMetadata

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/buddy/memutils"
)

// BlockMetadata represents a single large range of addresses within some system. It manages
// suballocations within the block, allowing allocations to be requested and freed, as well as
// enumerated and queried. Implementations are not safe for concurrent use: every method that
// mutates the block must be serialized by the consumer.
type BlockMetadata interface {
	// Init must be called before the BlockMetadata is used. It gives the implementation an opportunity
	// to ensure that metadata structures are prepared for allocations, as well as allows the consumer
	// to inform the implementation of the size in bytes of the block of memory it will be managing,
	// via the size parameter. An error wrapping memutils.InvalidConfigurationError is returned if the
	// implementation cannot manage a block of that size.
	Init(size int) error
	// Size retrieves the size in bytes that the block was initialized with
	Size() int

	// Validate performs internal consistency checks on the metadata. These checks may be expensive, depending
	// on the implementation. When the implementation is functioning correctly, it should not be possible
	// for this method to return an error, but this may assist in diagnosing issues with the implementation.
	Validate() error
	// AllocationCount returns the number of suballocations currently live in the implementation. This number
	// should generally be the number of successful allocations minus the number of successful frees.
	AllocationCount() int
	// FreeRegionsCount returns the number of unique regions of free memory in the block.
	FreeRegionsCount() int
	// SumFreeSize returns the number of free bytes of memory in the block.
	SumFreeSize() int
	// MayHaveFreeBlock should return a heuristic indicating whether the block could possibly support a new
	// allocation of the provided size. False positives are acceptable, false negatives are not.
	MayHaveFreeBlock(size int) bool

	// IsEmpty will return true if this block has no live suballocations
	IsEmpty() bool

	// VisitAllRegions will call the provided callback once for each allocation and free region in
	// the block, in ascending offset order. Iteration stops at the first error returned by the callback.
	VisitAllRegions(handleRegion func(offset int, size int, free bool) error) error
	// AllocationSize returns the size in bytes granted to the allocation starting at offset. An error
	// wrapping memutils.InvalidAddressError is returned if no allocation starts there.
	AllocationSize(offset int) (int, error)
	// Snapshot returns a copy of the block's free regions and allocations. The copy shares no memory
	// with the metadata.
	Snapshot() Snapshot

	// AddDetailedStatistics sums this block's allocation statistics into the statistics currently present
	// in the provided memutils.DetailedStatistics object.
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// AddStatistics sums this block's allocation statistics into the statistics currently present in the
	// provided memutils.Statistics object.
	AddStatistics(stats *memutils.Statistics)

	// Clear instantly frees all allocations
	Clear()
	// BlockJsonData populates a json object with information about this block
	BlockJsonData(json *jwriter.ObjectState)

	// CreateAllocationRequest retrieves an AllocationRequest object indicating where and how the implementation
	// would prefer to allocate the requested memory. That object can be passed to Alloc to commit the
	// allocation. This method does not modify the metadata.
	//
	// An error wrapping memutils.InvalidRequestError is returned if allocSize is not positive, and an error
	// wrapping memutils.InsufficientMemoryError is returned if no free region can hold the request.
	CreateAllocationRequest(allocSize int) (AllocationRequest, error)
	// Alloc commits an AllocationRequest object, creating the suballocation within the block based
	// on the data described in the AllocationRequest. The implementation must return an error if the
	// allocation is no longer valid- i.e. the requested free region no longer exists, is not free,
	// or is no longer large enough to support the request. The metadata is unchanged when an error
	// is returned.
	Alloc(request AllocationRequest) error

	// Free frees a suballocation within the block, causing it to become a free region once again. The
	// free region that the allocation ended up part of is returned.
	//
	// The implementation must return an error wrapping memutils.InvalidAddressError if the provided offset
	// does not begin a live allocation within this block.
	Free(offset int) (Region, error)
}

// BlockMetadataBase is a simple struct that provides a few shared utilities for BlockMetadata
// implementations in the memutils module.
type BlockMetadataBase struct {
	size int
}

// Init prepares this structure for allocations and sizes the block in bytes based on the parameter size.
func (m *BlockMetadataBase) Init(size int) {
	m.size = size
}

// Size returns the size of the block in bytes
func (m *BlockMetadataBase) Size() int { return m.size }

// BlockJsonData populates a json object with information about this block
func (m *BlockMetadataBase) BlockJsonData(json *jwriter.ObjectState, unusedBytes, allocationCount, unusedRangeCount int) {
	json.Name("TotalBytes").Int(m.Size())
	json.Name("UnusedBytes").Int(unusedBytes)
	json.Name("Allocations").Int(allocationCount)
	json.Name("UnusedRanges").Int(unusedRangeCount)
}
