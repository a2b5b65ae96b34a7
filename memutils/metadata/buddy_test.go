package metadata_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/buddy/memutils"
	"github.com/vkngwrapper/buddy/memutils/metadata"
)

func newBuddy(t *testing.T, size int) *metadata.BuddyBlockMetadata {
	buddy := metadata.NewBuddyBlockMetadata()
	require.NoError(t, buddy.Init(size))
	return buddy
}

func initialSnapshot(size int) metadata.Snapshot {
	return metadata.Snapshot{
		BlockSize:   size,
		FreeBlocks:  []metadata.SizeClass{{Size: size, Offsets: []int{0}}},
		Allocations: []metadata.Allocation{},
	}
}

// requireConsistent checks the block against its own Validate as well as against the
// partition and buddy rules computed independently from a snapshot
func requireConsistent(t *testing.T, buddy *metadata.BuddyBlockMetadata) {
	t.Helper()

	require.NoError(t, buddy.Validate())

	snapshot := buddy.Snapshot()
	var regions []metadata.Region
	freeSize := 0
	for _, class := range snapshot.FreeBlocks {
		for _, offset := range class.Offsets {
			regions = append(regions, metadata.Region{Offset: offset, Size: class.Size})
			freeSize += class.Size

			require.Zero(t, offset%class.Size, "free region at %d is misaligned", offset)
			if class.Size < snapshot.BlockSize {
				require.NotContains(t, class.Offsets, offset^class.Size, "free buddies at %d and %d", offset, offset^class.Size)
			}
		}
	}

	allocatedSize := 0
	for _, alloc := range snapshot.Allocations {
		regions = append(regions, alloc.Region)
		allocatedSize += alloc.Size

		require.Zero(t, alloc.Offset%alloc.Size, "allocation at %d is misaligned", alloc.Offset)
	}

	require.Equal(t, snapshot.BlockSize, freeSize+allocatedSize)
	require.Equal(t, freeSize, buddy.SumFreeSize())

	sort.Slice(regions, func(i, j int) bool { return regions[i].Offset < regions[j].Offset })
	next := 0
	for _, region := range regions {
		require.Equal(t, next, region.Offset, "gap or overlap at offset %d", next)
		next = region.End()
	}
	require.Equal(t, snapshot.BlockSize, next)
}

func TestBuddyInit(t *testing.T) {
	buddy := newBuddy(t, 1024)

	require.Equal(t, 1024, buddy.Size())
	require.Equal(t, 0, buddy.AllocationCount())
	require.Equal(t, 1, buddy.FreeRegionsCount())
	require.Equal(t, 1024, buddy.SumFreeSize())
	require.True(t, buddy.IsEmpty())
	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())
	requireConsistent(t, buddy)
}

func TestBuddyInitInvalidSize(t *testing.T) {
	table := []struct {
		name        string
		size        int
		notPowerOf2 bool
	}{
		{name: "zero", size: 0},
		{name: "negative", size: -1024},
		{name: "not power of two", size: 1000, notPowerOf2: true},
		{name: "odd", size: 3, notPowerOf2: true},
	}

	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			buddy := metadata.NewBuddyBlockMetadata()
			err := buddy.Init(e.size)

			require.Error(t, err)
			require.True(t, errors.Is(err, memutils.InvalidConfigurationError))
			require.Equal(t, e.notPowerOf2, errors.Is(err, memutils.PowerOfTwoError))
		})
	}
}

func TestBuddyRoundTrip(t *testing.T) {
	buddy := newBuddy(t, 1024)

	alloc1, err := buddy.Allocate(200)
	require.NoError(t, err)
	require.Equal(t, metadata.Allocation{
		Region:        metadata.Region{Offset: 0, Size: 256},
		RequestedSize: 200,
	}, alloc1)
	require.Equal(t, map[int][]int{512: {512}, 256: {256}}, buddy.Snapshot().FreeIndex())
	requireConsistent(t, buddy)

	alloc2, err := buddy.Allocate(100)
	require.NoError(t, err)
	require.Equal(t, metadata.Allocation{
		Region:        metadata.Region{Offset: 256, Size: 128},
		RequestedSize: 100,
	}, alloc2)
	require.Equal(t, map[int][]int{512: {512}, 128: {384}}, buddy.Snapshot().FreeIndex())
	require.Equal(t, map[int]int{0: 256, 256: 128}, buddy.Snapshot().AllocationTable())
	requireConsistent(t, buddy)

	region, err := buddy.Free(0)
	require.NoError(t, err)
	require.Equal(t, metadata.Region{Offset: 0, Size: 256}, region)
	require.Equal(t, map[int][]int{512: {512}, 256: {0}, 128: {384}}, buddy.Snapshot().FreeIndex())
	requireConsistent(t, buddy)

	region, err = buddy.Free(256)
	require.NoError(t, err)
	require.Equal(t, metadata.Region{Offset: 0, Size: 1024}, region)
	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())
	require.True(t, buddy.IsEmpty())
	requireConsistent(t, buddy)
}

func TestBuddyInsufficientMemory(t *testing.T) {
	buddy := newBuddy(t, 1024)

	_, err := buddy.Allocate(1025)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.InsufficientMemoryError))
	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())

	_, err = buddy.Allocate(math.MaxInt)
	require.True(t, errors.Is(err, memutils.InsufficientMemoryError))
	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())
}

func TestBuddyInsufficientMemoryFragmented(t *testing.T) {
	buddy := newBuddy(t, 1024)

	for i := 0; i < 4; i++ {
		alloc, err := buddy.Allocate(256)
		require.NoError(t, err)
		require.Equal(t, i*256, alloc.Offset)
	}

	_, err := buddy.Free(0)
	require.NoError(t, err)
	_, err = buddy.Free(512)
	require.NoError(t, err)

	// 512 bytes are free, but not in one region
	require.Equal(t, 512, buddy.SumFreeSize())
	before := buddy.Snapshot()

	_, err = buddy.Allocate(512)
	require.True(t, errors.Is(err, memutils.InsufficientMemoryError))
	require.Equal(t, before, buddy.Snapshot())
	requireConsistent(t, buddy)
}

func TestBuddyInvalidRequest(t *testing.T) {
	buddy := newBuddy(t, 1024)

	for _, size := range []int{0, -1, math.MinInt} {
		_, err := buddy.Allocate(size)
		require.True(t, errors.Is(err, memutils.InvalidRequestError), "size %d", size)

		_, err = buddy.CreateAllocationRequest(size)
		require.True(t, errors.Is(err, memutils.InvalidRequestError), "size %d", size)
	}

	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())
}

func TestBuddyDoubleFree(t *testing.T) {
	buddy := newBuddy(t, 1024)

	alloc, err := buddy.Allocate(64)
	require.NoError(t, err)

	_, err = buddy.Free(alloc.Offset)
	require.NoError(t, err)

	_, err = buddy.Free(alloc.Offset)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.InvalidAddressError))
	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())
}

func TestBuddyFreeInvalidAddress(t *testing.T) {
	buddy := newBuddy(t, 1024)

	_, err := buddy.Allocate(256)
	require.NoError(t, err)
	before := buddy.Snapshot()

	// Mid-block, free region, past the end and negative
	for _, offset := range []int{128, 512, 4096, -256} {
		_, err = buddy.Free(offset)
		require.True(t, errors.Is(err, memutils.InvalidAddressError), "offset %d", offset)
	}

	require.Equal(t, before, buddy.Snapshot())
	requireConsistent(t, buddy)
}

func TestBuddyAllocateWholeBlock(t *testing.T) {
	buddy := newBuddy(t, 1024)

	alloc, err := buddy.Allocate(1024)
	require.NoError(t, err)
	require.Equal(t, metadata.Region{Offset: 0, Size: 1024}, alloc.Region)
	require.Equal(t, 0, buddy.FreeRegionsCount())
	require.Nil(t, buddy.Snapshot().FreeBlocks)

	_, err = buddy.Allocate(1)
	require.True(t, errors.Is(err, memutils.InsufficientMemoryError))

	region, err := buddy.Free(0)
	require.NoError(t, err)
	require.Equal(t, metadata.Region{Offset: 0, Size: 1024}, region)
}

func TestBuddySizeOneBlock(t *testing.T) {
	buddy := newBuddy(t, 1)

	alloc, err := buddy.Allocate(1)
	require.NoError(t, err)
	require.Equal(t, metadata.Region{Offset: 0, Size: 1}, alloc.Region)

	_, err = buddy.Allocate(1)
	require.True(t, errors.Is(err, memutils.InsufficientMemoryError))

	region, err := buddy.Free(0)
	require.NoError(t, err)
	require.Equal(t, metadata.Region{Offset: 0, Size: 1}, region)
	requireConsistent(t, buddy)
}

func TestBuddyLowestOffsetFirst(t *testing.T) {
	buddy := newBuddy(t, 1024)

	for _, expected := range []int{0, 128, 256} {
		alloc, err := buddy.Allocate(128)
		require.NoError(t, err)
		require.Equal(t, expected, alloc.Offset)
	}

	_, err := buddy.Free(0)
	require.NoError(t, err)
	require.Equal(t, map[int][]int{128: {0, 384}, 512: {512}}, buddy.Snapshot().FreeIndex())

	alloc, err := buddy.Allocate(100)
	require.NoError(t, err)
	require.Equal(t, 0, alloc.Offset)
	require.Equal(t, 128, alloc.Size)
}

func TestBuddyAllocationRequest(t *testing.T) {
	buddy := newBuddy(t, 1024)

	req, err := buddy.CreateAllocationRequest(300)
	require.NoError(t, err)
	require.Equal(t, metadata.AllocationRequest{
		Offset:         0,
		Size:           512,
		RequestedSize:  300,
		FreeRegionSize: 1024,
	}, req)

	// Creating a request does not change anything
	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())

	require.NoError(t, buddy.Alloc(req))
	require.Equal(t, map[int]int{0: 512}, buddy.Snapshot().AllocationTable())

	before := buddy.Snapshot()

	err = buddy.Alloc(req)
	require.True(t, errors.Is(err, memutils.InvalidRequestError))
	require.Equal(t, before, buddy.Snapshot())
	requireConsistent(t, buddy)
}

func TestBuddyAllocInvalidRequest(t *testing.T) {
	table := []struct {
		name string
		req  metadata.AllocationRequest
	}{
		{
			name: "size not power of two",
			req:  metadata.AllocationRequest{Offset: 0, Size: 100, RequestedSize: 100, FreeRegionSize: 1024},
		},
		{
			name: "region not power of two",
			req:  metadata.AllocationRequest{Offset: 0, Size: 128, RequestedSize: 100, FreeRegionSize: 1000},
		},
		{
			name: "region smaller than size",
			req:  metadata.AllocationRequest{Offset: 0, Size: 1024, RequestedSize: 1000, FreeRegionSize: 512},
		},
		{
			name: "region larger than block",
			req:  metadata.AllocationRequest{Offset: 0, Size: 128, RequestedSize: 100, FreeRegionSize: 2048},
		},
		{
			name: "requested more than granted",
			req:  metadata.AllocationRequest{Offset: 0, Size: 128, RequestedSize: 200, FreeRegionSize: 1024},
		},
		{
			name: "zero requested",
			req:  metadata.AllocationRequest{Offset: 0, Size: 128, RequestedSize: 0, FreeRegionSize: 1024},
		},
		{
			name: "no such free region",
			req:  metadata.AllocationRequest{Offset: 512, Size: 128, RequestedSize: 100, FreeRegionSize: 512},
		},
	}

	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			buddy := newBuddy(t, 1024)

			err := buddy.Alloc(e.req)
			require.True(t, errors.Is(err, memutils.InvalidRequestError))
			require.Equal(t, initialSnapshot(1024), buddy.Snapshot())
		})
	}
}

func TestBuddySnapshotIsCopy(t *testing.T) {
	buddy := newBuddy(t, 1024)

	_, err := buddy.Allocate(200)
	require.NoError(t, err)

	snapshot := buddy.Snapshot()
	snapshot.FreeBlocks[0].Offsets[0] = 999
	snapshot.Allocations[0].Size = 1

	require.Equal(t, metadata.Snapshot{
		BlockSize: 1024,
		FreeBlocks: []metadata.SizeClass{
			{Size: 256, Offsets: []int{256}},
			{Size: 512, Offsets: []int{512}},
		},
		Allocations: []metadata.Allocation{
			{Region: metadata.Region{Offset: 0, Size: 256}, RequestedSize: 200},
		},
	}, buddy.Snapshot())
	requireConsistent(t, buddy)
}

func TestBuddyVisitAllRegions(t *testing.T) {
	buddy := newBuddy(t, 1024)

	_, err := buddy.Allocate(200)
	require.NoError(t, err)
	_, err = buddy.Allocate(100)
	require.NoError(t, err)

	type visited struct {
		offset int
		size   int
		free   bool
	}

	var regions []visited
	err = buddy.VisitAllRegions(func(offset int, size int, free bool) error {
		regions = append(regions, visited{offset, size, free})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []visited{
		{0, 256, false},
		{256, 128, false},
		{384, 128, true},
		{512, 512, true},
	}, regions)

	stop := errors.New("stop")
	count := 0
	err = buddy.VisitAllRegions(func(offset int, size int, free bool) error {
		count++
		return stop
	})
	require.Equal(t, stop, err)
	require.Equal(t, 1, count)
}

func TestBuddyStatistics(t *testing.T) {
	buddy := newBuddy(t, 1024)

	_, err := buddy.Allocate(200)
	require.NoError(t, err)
	_, err = buddy.Allocate(100)
	require.NoError(t, err)

	var stats memutils.Statistics
	buddy.AddStatistics(&stats)
	require.Equal(t, memutils.Statistics{
		BlockCount:      1,
		AllocationCount: 2,
		BlockBytes:      1024,
		AllocationBytes: 384,
	}, stats)

	var detailed memutils.DetailedStatistics
	detailed.Clear()
	buddy.AddDetailedStatistics(&detailed)
	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      1,
			AllocationCount: 2,
			BlockBytes:      1024,
			AllocationBytes: 384,
		},
		RequestedBytes:     300,
		UnusedRangeCount:   2,
		AllocationSizeMin:  128,
		AllocationSizeMax:  256,
		UnusedRangeSizeMin: 128,
		UnusedRangeSizeMax: 512,
	}, detailed)
	require.Equal(t, 84, detailed.WastedBytes())
}

func TestBuddyBlockJsonData(t *testing.T) {
	buddy := newBuddy(t, 1024)

	_, err := buddy.Allocate(200)
	require.NoError(t, err)
	_, err = buddy.Allocate(100)
	require.NoError(t, err)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	buddy.BlockJsonData(&obj)
	obj.End()

	require.NoError(t, writer.Error())
	require.JSONEq(t, `{
		"TotalBytes": 1024,
		"UnusedBytes": 640,
		"Allocations": 2,
		"UnusedRanges": 2,
		"FreeIndex": {"128": [384], "512": [512]},
		"Suballocations": [
			{"Offset": 0, "Size": 256, "RequestedSize": 200},
			{"Offset": 256, "Size": 128, "RequestedSize": 100}
		]
	}`, string(writer.Bytes()))
}

func TestBuddyMayHaveFreeBlock(t *testing.T) {
	buddy := newBuddy(t, 1024)

	_, err := buddy.Allocate(200)
	require.NoError(t, err)

	require.True(t, buddy.MayHaveFreeBlock(1))
	require.True(t, buddy.MayHaveFreeBlock(512))
	require.False(t, buddy.MayHaveFreeBlock(513))
	require.False(t, buddy.MayHaveFreeBlock(0))
	require.False(t, buddy.MayHaveFreeBlock(4096))
}

func TestBuddyAllocationSize(t *testing.T) {
	buddy := newBuddy(t, 1024)

	alloc, err := buddy.Allocate(33)
	require.NoError(t, err)

	size, err := buddy.AllocationSize(alloc.Offset)
	require.NoError(t, err)
	require.Equal(t, 64, size)

	_, err = buddy.AllocationSize(alloc.Offset + 64)
	require.True(t, errors.Is(err, memutils.InvalidAddressError))
}

func TestBuddyClear(t *testing.T) {
	buddy := newBuddy(t, 1024)

	for i := 0; i < 5; i++ {
		_, err := buddy.Allocate(100)
		require.NoError(t, err)
	}
	require.Equal(t, 5, buddy.AllocationCount())

	buddy.Clear()
	require.True(t, buddy.IsEmpty())
	require.Equal(t, initialSnapshot(1024), buddy.Snapshot())
	requireConsistent(t, buddy)
}

func TestBuddyValidateUninitialized(t *testing.T) {
	buddy := metadata.NewBuddyBlockMetadata()
	require.Error(t, buddy.Validate())
}

func TestBuddyRandomized(t *testing.T) {
	const blockSize = 1 << 12

	buddy := newBuddy(t, blockSize)
	random := rand.New(rand.NewSource(1))

	var live []metadata.Allocation
	for i := 0; i < 2000; i++ {
		if len(live) > 0 && random.Intn(3) == 0 {
			index := random.Intn(len(live))
			alloc := live[index]
			live = append(live[:index], live[index+1:]...)

			region, err := buddy.Free(alloc.Offset)
			require.NoError(t, err)
			require.LessOrEqual(t, region.Offset, alloc.Offset)
			require.GreaterOrEqual(t, region.End(), alloc.End())
		} else {
			requested := 1 + random.Intn(300)
			alloc, err := buddy.Allocate(requested)
			if err != nil {
				require.True(t, errors.Is(err, memutils.InsufficientMemoryError))
				continue
			}

			require.Equal(t, memutils.NextPow2(requested), alloc.Size)
			require.Zero(t, alloc.Offset%alloc.Size)
			live = append(live, alloc)
		}

		requireConsistent(t, buddy)
		require.Equal(t, len(live), buddy.AllocationCount())
	}

	for _, alloc := range live {
		_, err := buddy.Free(alloc.Offset)
		require.NoError(t, err)
	}

	require.Equal(t, initialSnapshot(blockSize), buddy.Snapshot())
}

func BenchmarkBuddy_Allocate(b *testing.B) {
	buddy := metadata.NewBuddyBlockMetadata()
	if err := buddy.Init(1 << 20); err != nil {
		b.Fatal(err)
	}

	for n := 0; n < b.N; n++ {
		alloc, err := buddy.Allocate(1 << 4)
		if err != nil {
			b.Fatal(err)
		}
		_, err = buddy.Free(alloc.Offset)
		if err != nil {
			b.Fatal(err)
		}
	}
}
