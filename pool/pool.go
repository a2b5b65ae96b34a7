package pool

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/buddy/internal/utils"
	"github.com/vkngwrapper/buddy/memutils"
	"github.com/vkngwrapper/buddy/memutils/metadata"
	"golang.org/x/exp/slog"
)

// Pool is a fixed range of addresses managed by a single BlockMetadata. Every operation on the
// pool runs under one exclusive lock, because a half-finished split or merge leaves the metadata
// inconsistent.
type Pool struct {
	logger   *slog.Logger
	mutex    utils.OptionalRWMutex
	metadata metadata.BlockMetadata

	flags CreateFlags
	name  string
}

// Allocate reserves at least size units from the pool. The returned allocation's Size is the
// amount actually reserved, which may be larger than size.
func (p *Pool) Allocate(size int) (metadata.Allocation, error) {
	p.logger.Debug("Pool::Allocate", slog.Int("Size", size))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	req, err := p.metadata.CreateAllocationRequest(size)
	if err != nil {
		p.logger.Debug("  Pool::Allocate FAILED", slog.Int("Size", size), slog.Any("Error", err))
		return metadata.Allocation{}, err
	}

	err = p.metadata.Alloc(req)
	if err != nil {
		p.logger.Debug("  Pool::Allocate FAILED", slog.Int("Size", size), slog.Any("Error", err))
		return metadata.Allocation{}, err
	}

	p.logger.Debug("  Allocated",
		slog.Int("Offset", req.Offset),
		slog.Int("Size", req.Size),
		slog.Int("SplitFrom", req.FreeRegionSize))

	return metadata.Allocation{
		Region:        metadata.Region{Offset: req.Offset, Size: req.Size},
		RequestedSize: req.RequestedSize,
	}, nil
}

// Free releases the allocation beginning at offset. The returned region is the free region
// the allocation was merged into.
func (p *Pool) Free(offset int) (metadata.Region, error) {
	p.logger.Debug("Pool::Free", slog.Int("Offset", offset))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	region, err := p.metadata.Free(offset)
	if err != nil {
		p.logger.Debug("  Pool::Free FAILED", slog.Int("Offset", offset), slog.Any("Error", err))
		return metadata.Region{}, err
	}

	p.logger.Debug("  Freed", slog.Int("MergedOffset", region.Offset), slog.Int("MergedSize", region.Size))
	return region, nil
}

// Clear frees every allocation in the pool at once
func (p *Pool) Clear() {
	p.logger.Debug("Pool::Clear")

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.metadata.Clear()
}

// Snapshot returns a copy of the pool's free regions and allocations
func (p *Pool) Snapshot() metadata.Snapshot {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.metadata.Snapshot()
}

func (p *Pool) AllocationSize(offset int) (int, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.metadata.AllocationSize(offset)
}

func (p *Pool) Statistics() memutils.Statistics {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	var stats memutils.Statistics
	p.metadata.AddStatistics(&stats)
	return stats
}

func (p *Pool) DetailedStatistics() memutils.DetailedStatistics {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	var stats memutils.DetailedStatistics
	stats.Clear()
	p.metadata.AddDetailedStatistics(&stats)
	return stats
}

// Validate runs the metadata's internal consistency checks
func (p *Pool) Validate() error {
	p.logger.Debug("Pool::Validate")

	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.metadata.Validate()
}

// BuildStatsString writes a json object describing the pool and every region in it
func (p *Pool) BuildStatsString(writer *jwriter.Writer) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	var stats memutils.DetailedStatistics
	stats.Clear()
	p.metadata.AddDetailedStatistics(&stats)

	objState := writer.Object()
	defer objState.End()

	objState.Name("Name").String(p.name)
	objState.Name("Flags").String(p.flags.String())

	statsObj := objState.Name("Stats").Object()
	statsObj.Name("AllocationBytes").Int(stats.AllocationBytes)
	statsObj.Name("RequestedBytes").Int(stats.RequestedBytes)
	statsObj.Name("WastedBytes").Int(stats.WastedBytes())
	statsObj.Name("FreeBytes").Int(stats.FreeBytes())
	if stats.UnusedRangeCount > 0 {
		statsObj.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		statsObj.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
	}
	statsObj.End()

	blockObj := objState.Name("Block").Object()
	p.metadata.BlockJsonData(&blockObj)
	blockObj.End()
}

func (p *Pool) Size() int {
	return p.metadata.Size()
}

func (p *Pool) SetName(name string) {
	p.logger.Debug("Pool::SetName")

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.name = name
}

func (p *Pool) Name() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.name
}
