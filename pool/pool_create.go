package pool

import (
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/buddy/internal/utils"
	"github.com/vkngwrapper/buddy/memutils"
	"github.com/vkngwrapper/buddy/memutils/metadata"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific pool behaviors to activate or deactivate
type CreateFlags int32

const (
	// CreateExternallySynchronized ensures that this pool will not be synchronized internally. The
	// consumer must guarantee it is used from only one goroutine at a time or is synchronized by some
	// other mechanism, but performance may improve because the internal mutex is not used.
	CreateExternallySynchronized CreateFlags = 1 << iota
	// CreateRoundUpSize allows CreateOptions.Size to be a value other than a power of two. The pool
	// will manage the next power of two above the requested size instead of failing.
	CreateRoundUpSize
)

var createFlagsMapping = map[CreateFlags]string{
	CreateExternallySynchronized: "CreateExternallySynchronized",
	CreateRoundUpSize:            "CreateRoundUpSize",
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for bit := CreateFlags(1); bit != 0 && bit <= f; bit <<= 1 {
		if f&bit == 0 {
			continue
		}

		name, ok := createFlagsMapping[bit]
		if !ok {
			name = "Unknown"
		}
		names = append(names, name)
	}

	return strings.Join(names, "|")
}

const (
	// DefaultPoolSize is the value that is used as the pool size when none is provided via
	// CreateOptions.
	DefaultPoolSize int = 1024
)

// CreateOptions contains optional settings when creating a pool
type CreateOptions struct {
	// Flags indicates specific pool behaviors to activate or deactivate
	Flags CreateFlags
	// Size is the number of addressable units the pool manages. It must be a power of two
	// unless CreateRoundUpSize is set. DefaultPoolSize is used when it is 0.
	Size int
	// Name is an optional label included in logs and stats output
	Name string
}

// New creates a new Pool backed by a buddy allocator
//
// logger - Receives debug records for every pool operation. slog.Default() is used when nil.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Pool, error) {
	return newPool(logger, metadata.NewBuddyBlockMetadata(), options)
}

func newPool(logger *slog.Logger, md metadata.BlockMetadata, options CreateOptions) (*Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	size := options.Size
	if size == 0 {
		size = DefaultPoolSize
	}

	if size < 0 {
		return nil, cerrors.Wrapf(memutils.InvalidConfigurationError, "pool size must be positive, but was %d", size)
	}

	if options.Flags&CreateRoundUpSize != 0 {
		size = memutils.NextPow2(size)
	}

	err := md.Init(size)
	if err != nil {
		return nil, err
	}

	logger.Debug("Pool::New",
		slog.String("Name", options.Name),
		slog.Int("Size", size),
		slog.String("Flags", options.Flags.String()))

	return &Pool{
		logger:   logger,
		mutex:    utils.OptionalRWMutex{UseMutex: options.Flags&CreateExternallySynchronized == 0},
		metadata: md,
		flags:    options.Flags,
		name:     options.Name,
	}, nil
}
