package metadata

import (
	"math"
	"math/bits"
	"strconv"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/buddy/memutils"
	"golang.org/x/exp/slices"
)

type allocationEntry struct {
	size          int
	requestedSize int
}

// BuddyBlockMetadata is a BlockMetadata implementation that uses the buddy algorithm. The block's size
// must be a power of two, and every region in the block, free or allocated, is a power of two in size
// and begins at a multiple of its own size. Allocations are rounded up to the next power of two and carved
// out of the smallest free region that can hold them by repeatedly halving it. Freed allocations are
// merged with their buddy (the region at offset ^ size) for as long as the buddy is also free, so two
// free buddies are never left side by side.
//
// Free regions are tracked in one sorted offset list per order, where a region of order n is 1<<n bytes.
// When several free regions of the chosen order exist, the one with the lowest offset is used.
type BuddyBlockMetadata struct {
	BlockMetadataBase

	maxOrder     int
	allocCount   int
	freeCount    int
	freeSize     int
	isFreeBitmap uint64

	freeLists   [][]int
	allocations *swiss.Map[int, allocationEntry]
}

var _ BlockMetadata = &BuddyBlockMetadata{}

func NewBuddyBlockMetadata() *BuddyBlockMetadata {
	return &BuddyBlockMetadata{}
}

func (m *BuddyBlockMetadata) Init(size int) error {
	if size <= 0 {
		return cerrors.Wrapf(memutils.InvalidConfigurationError, "block size must be positive, but was %d", size)
	}

	err := memutils.CheckPow2(size, "block size")
	if err != nil {
		return cerrors.Mark(err, memutils.InvalidConfigurationError)
	}

	m.BlockMetadataBase.Init(size)
	m.maxOrder = memutils.Log2(size)
	m.freeLists = make([][]int, m.maxOrder+1)
	m.Clear()

	return nil
}

func (m *BuddyBlockMetadata) Clear() {
	if m.freeLists == nil {
		return
	}

	for order := range m.freeLists {
		m.freeLists[order] = m.freeLists[order][:0]
	}
	m.isFreeBitmap = 0
	m.freeCount = 0
	m.freeSize = 0
	m.allocCount = 0
	m.allocations = swiss.NewMap[int, allocationEntry](42)

	m.insertFreeRegion(0, m.maxOrder)
}

func (m *BuddyBlockMetadata) insertFreeRegion(offset int, order int) {
	list := m.freeLists[order]
	index, _ := slices.BinarySearch(list, offset)
	m.freeLists[order] = slices.Insert(list, index, offset)

	m.isFreeBitmap |= 1 << order
	m.freeCount++
	m.freeSize += 1 << order
}

// removeFreeRegion removes offset from the free list of the provided order and reports
// whether it was present
func (m *BuddyBlockMetadata) removeFreeRegion(offset int, order int) bool {
	list := m.freeLists[order]
	index, found := slices.BinarySearch(list, offset)
	if !found {
		return false
	}

	list = slices.Delete(list, index, index+1)
	m.freeLists[order] = list
	if len(list) == 0 {
		m.isFreeBitmap &= ^(uint64(1) << order)
	}

	m.freeCount--
	m.freeSize -= 1 << order
	return true
}

func (m *BuddyBlockMetadata) isFree(offset int, order int) bool {
	_, found := slices.BinarySearch(m.freeLists[order], offset)
	return found
}

// findFreeOrder returns the lowest order at or above the provided order that has a free region
func (m *BuddyBlockMetadata) findFreeOrder(order int) (int, bool) {
	freeMap := m.isFreeBitmap & (math.MaxUint64 << order)
	if freeMap == 0 {
		return 0, false
	}

	return bits.TrailingZeros64(freeMap), true
}

func (m *BuddyBlockMetadata) Validate() error {
	if m.allocations == nil {
		return cerrors.New("metadata has not been initialized")
	}

	if m.SumFreeSize() > m.Size() {
		return cerrors.New("invalid metadata free size")
	}

	if m.allocations.Count() != m.allocCount {
		return cerrors.Newf("the allocation count of the metadata is %d, but the allocation table has %d entries", m.allocCount, m.allocations.Count())
	}

	var freeCount, freeSize int
	for order, list := range m.freeLists {
		regionSize := 1 << order
		hasBit := m.isFreeBitmap&(uint64(1)<<order) != 0
		if hasBit != (len(list) > 0) {
			return cerrors.Newf("the free bitmap does not match the free list for regions of size %d", regionSize)
		}

		for i, offset := range list {
			if i > 0 && list[i-1] >= offset {
				return cerrors.Newf("the free list for regions of size %d is not strictly ascending at offset %d", regionSize, offset)
			}

			if offset < 0 || offset+regionSize > m.size {
				return cerrors.Newf("free region at offset %d of size %d lies outside the block", offset, regionSize)
			}

			if memutils.AlignDown(offset, uint(regionSize)) != offset {
				return cerrors.Newf("free region at offset %d is not aligned to its size %d", offset, regionSize)
			}

			if order < m.maxOrder && m.isFree(offset^regionSize, order) {
				return cerrors.Newf("free regions at offsets %d and %d are buddies of size %d but were not merged", offset, offset^regionSize, regionSize)
			}

			freeCount++
			freeSize += regionSize
		}
	}

	if freeCount != m.freeCount {
		return cerrors.Newf("the free region count of the metadata is %d, but there were %d free regions", m.freeCount, freeCount)
	}

	if freeSize != m.freeSize {
		return cerrors.Newf("the free size of the metadata is %d, but the free regions added up to %d", m.freeSize, freeSize)
	}

	var entryErr error
	m.allocations.Iter(func(offset int, entry allocationEntry) bool {
		if memutils.CheckPow2(entry.size, "allocation size") != nil || entry.size > m.size {
			entryErr = cerrors.Newf("allocation at offset %d has invalid size %d", offset, entry.size)
			return true
		}

		if memutils.AlignDown(offset, uint(entry.size)) != offset {
			entryErr = cerrors.Newf("allocation at offset %d is not aligned to its size %d", offset, entry.size)
			return true
		}

		if entry.requestedSize < 1 || entry.requestedSize > entry.size {
			entryErr = cerrors.Newf("allocation at offset %d was granted %d bytes for a request of %d bytes", offset, entry.size, entry.requestedSize)
			return true
		}

		if m.isFree(offset, memutils.Log2(entry.size)) {
			entryErr = cerrors.Newf("offset %d is both allocated and free", offset)
			return true
		}

		return false
	})
	if entryErr != nil {
		return entryErr
	}

	// Walking from offset 0 must land on the start of a region every time and finish
	// exactly at the end of the block, having seen every region once
	var regionCount int
	nextOffset := 0
	for nextOffset < m.size {
		size, _, _, ok := m.regionAt(nextOffset)
		if !ok {
			return cerrors.Newf("no region begins at offset %d", nextOffset)
		}

		regionCount++
		nextOffset += size
	}

	if nextOffset != m.size {
		return cerrors.Newf("the full size of the metadata is %d, but the regions added up to %d", m.size, nextOffset)
	}

	if regionCount != m.allocCount+m.freeCount {
		return cerrors.Newf("the metadata has %d allocations and %d free regions, but only %d regions tile the block", m.allocCount, m.freeCount, regionCount)
	}

	return nil
}

// regionAt returns the region beginning at the provided offset, if any
func (m *BuddyBlockMetadata) regionAt(offset int) (size int, requestedSize int, free bool, ok bool) {
	entry, allocated := m.allocations.Get(offset)
	if allocated {
		return entry.size, entry.requestedSize, false, true
	}

	for freeMap := m.isFreeBitmap; freeMap != 0; freeMap &= freeMap - 1 {
		order := bits.TrailingZeros64(freeMap)
		if m.isFree(offset, order) {
			return 1 << order, 0, true, true
		}
	}

	return 0, 0, false, false
}

func (m *BuddyBlockMetadata) visitRegions(handleRegion func(offset, size, requestedSize int, free bool) error) error {
	for offset := 0; offset < m.size; {
		size, requestedSize, free, ok := m.regionAt(offset)
		if !ok {
			return cerrors.Newf("no region begins at offset %d", offset)
		}

		err := handleRegion(offset, size, requestedSize, free)
		if err != nil {
			return err
		}

		offset += size
	}

	return nil
}

func (m *BuddyBlockMetadata) VisitAllRegions(handleRegion func(offset int, size int, free bool) error) error {
	return m.visitRegions(func(offset, size, _ int, free bool) error {
		return handleRegion(offset, size, free)
	})
}

func (m *BuddyBlockMetadata) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.BlockCount++
	stats.BlockBytes += m.size

	for order, list := range m.freeLists {
		for range list {
			stats.AddUnusedRange(1 << order)
		}
	}

	m.allocations.Iter(func(_ int, entry allocationEntry) bool {
		stats.AddAllocation(entry.size, entry.requestedSize)
		return false
	})
}

func (m *BuddyBlockMetadata) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount++
	stats.AllocationCount += m.allocCount
	stats.BlockBytes += m.size
	stats.AllocationBytes += m.size - m.SumFreeSize()
}

func (m *BuddyBlockMetadata) AllocationCount() int {
	return m.allocCount
}

func (m *BuddyBlockMetadata) FreeRegionsCount() int {
	return m.freeCount
}

func (m *BuddyBlockMetadata) SumFreeSize() int {
	return m.freeSize
}

func (m *BuddyBlockMetadata) IsEmpty() bool {
	return m.allocCount == 0
}

func (m *BuddyBlockMetadata) MayHaveFreeBlock(size int) bool {
	if size < 1 || size > m.size {
		return false
	}

	_, ok := m.findFreeOrder(memutils.Log2(memutils.NextPow2(size)))
	return ok
}

func (m *BuddyBlockMetadata) AllocationSize(offset int) (int, error) {
	entry, ok := m.allocations.Get(offset)
	if !ok {
		return 0, cerrors.Wrapf(memutils.InvalidAddressError, "offset %d is not the start of a live allocation", offset)
	}

	return entry.size, nil
}

func (m *BuddyBlockMetadata) CreateAllocationRequest(allocSize int) (AllocationRequest, error) {
	var allocRequest AllocationRequest

	if allocSize < 1 {
		return allocRequest, cerrors.Wrapf(memutils.InvalidRequestError, "allocation size must be positive, but was %d", allocSize)
	}

	// Is block big enough?
	if allocSize > m.size {
		return allocRequest, cerrors.Wrapf(memutils.InsufficientMemoryError, "requested %d bytes from a block of %d bytes", allocSize, m.size)
	}

	memutils.DebugValidate(m)

	grantedSize := memutils.NextPow2(allocSize)
	freeOrder, ok := m.findFreeOrder(memutils.Log2(grantedSize))
	if !ok {
		return allocRequest, cerrors.Wrapf(memutils.InsufficientMemoryError,
			"no free region of at least %d bytes for a request of %d bytes (%d bytes free in %d regions)",
			grantedSize, allocSize, m.freeSize, m.freeCount)
	}

	allocRequest.Offset = m.freeLists[freeOrder][0]
	allocRequest.Size = grantedSize
	allocRequest.RequestedSize = allocSize
	allocRequest.FreeRegionSize = 1 << freeOrder

	return allocRequest, nil
}

func (m *BuddyBlockMetadata) Alloc(req AllocationRequest) error {
	if req.RequestedSize < 1 || req.RequestedSize > req.Size {
		return cerrors.Wrapf(memutils.InvalidRequestError, "allocation request grants %d bytes for a request of %d bytes", req.Size, req.RequestedSize)
	}

	if memutils.CheckPow2(req.Size, "allocation size") != nil || memutils.CheckPow2(req.FreeRegionSize, "free region size") != nil {
		return cerrors.Wrapf(memutils.InvalidRequestError, "allocation request sizes %d and %d must be powers of two", req.Size, req.FreeRegionSize)
	}

	if req.FreeRegionSize < req.Size || req.FreeRegionSize > m.size {
		return cerrors.Wrapf(memutils.InvalidRequestError, "allocation request of %d bytes cannot be carved from a free region of %d bytes", req.Size, req.FreeRegionSize)
	}

	// Pop the free region, if it is still there
	if !m.removeFreeRegion(req.Offset, memutils.Log2(req.FreeRegionSize)) {
		return cerrors.Wrapf(memutils.InvalidRequestError, "no free region of %d bytes begins at offset %d", req.FreeRegionSize, req.Offset)
	}

	// Split until the region is the granted size, the upper half of every split becomes free
	for regionSize := req.FreeRegionSize; regionSize > req.Size; {
		regionSize >>= 1
		m.insertFreeRegion(req.Offset+regionSize, memutils.Log2(regionSize))
	}

	m.allocations.Put(req.Offset, allocationEntry{size: req.Size, requestedSize: req.RequestedSize})
	m.allocCount++

	memutils.DebugValidate(m)

	return nil
}

// Allocate finds room for allocSize bytes and commits the allocation in one step. The returned
// Allocation's Size is allocSize rounded up to a power of two.
func (m *BuddyBlockMetadata) Allocate(allocSize int) (Allocation, error) {
	req, err := m.CreateAllocationRequest(allocSize)
	if err != nil {
		return Allocation{}, err
	}

	err = m.Alloc(req)
	if err != nil {
		return Allocation{}, err
	}

	return Allocation{
		Region:        Region{Offset: req.Offset, Size: req.Size},
		RequestedSize: req.RequestedSize,
	}, nil
}

func (m *BuddyBlockMetadata) Free(offset int) (Region, error) {
	entry, ok := m.allocations.Get(offset)
	if !ok {
		return Region{}, cerrors.Wrapf(memutils.InvalidAddressError, "offset %d is not the start of a live allocation", offset)
	}

	memutils.DebugCheckPow2(entry.size, "allocation size")

	m.allocations.Delete(offset)
	m.allocCount--

	// Try merging
	size := entry.size
	for size < m.size {
		buddyOffset := offset ^ size
		if !m.removeFreeRegion(buddyOffset, memutils.Log2(size)) {
			break
		}

		if buddyOffset < offset {
			offset = buddyOffset
		}
		size <<= 1
	}

	m.insertFreeRegion(offset, memutils.Log2(size))

	memutils.DebugValidate(m)

	return Region{Offset: offset, Size: size}, nil
}

func (m *BuddyBlockMetadata) Snapshot() Snapshot {
	snapshot := Snapshot{
		BlockSize:   m.size,
		Allocations: make([]Allocation, 0, m.allocCount),
	}

	for order, list := range m.freeLists {
		if len(list) == 0 {
			continue
		}

		snapshot.FreeBlocks = append(snapshot.FreeBlocks, SizeClass{
			Size:    1 << order,
			Offsets: slices.Clone(list),
		})
	}

	_ = m.visitRegions(func(offset, size, requestedSize int, free bool) error {
		if !free {
			snapshot.Allocations = append(snapshot.Allocations, Allocation{
				Region:        Region{Offset: offset, Size: size},
				RequestedSize: requestedSize,
			})
		}
		return nil
	})

	return snapshot
}

func (m *BuddyBlockMetadata) BlockJsonData(json *jwriter.ObjectState) {
	m.BlockMetadataBase.BlockJsonData(json, m.freeSize, m.allocCount, m.freeCount)

	freeIndex := json.Name("FreeIndex").Object()
	for order, list := range m.freeLists {
		if len(list) == 0 {
			continue
		}

		offsets := freeIndex.Name(strconv.Itoa(1 << order)).Array()
		for _, offset := range list {
			offsets.Int(offset)
		}
		offsets.End()
	}
	freeIndex.End()

	allocations := json.Name("Suballocations").Array()
	defer allocations.End()

	_ = m.visitRegions(func(offset, size, requestedSize int, free bool) error {
		if free {
			return nil
		}

		obj := allocations.Object()
		defer obj.End()

		obj.Name("Offset").Int(offset)
		obj.Name("Size").Int(size)
		obj.Name("RequestedSize").Int(requestedSize)
		return nil
	})
}
