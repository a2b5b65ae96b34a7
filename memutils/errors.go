package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

var (
	// InvalidConfigurationError is returned when a block is initialized with a size that is not a
	// positive power of two
	InvalidConfigurationError error = errors.New("invalid block configuration")
	// InvalidRequestError is returned when an allocation is requested with a size that is zero or
	// negative, or when a stale allocation request is committed
	InvalidRequestError error = errors.New("invalid allocation request")
	// InsufficientMemoryError is returned when no free region is large enough to satisfy an allocation
	// after it has been rounded up to a power of two. The block may still have enough free bytes in total,
	// spread across smaller regions.
	InsufficientMemoryError error = errors.New("insufficient memory")
	// InvalidAddressError is returned when an offset that does not begin a live allocation is freed
	InvalidAddressError error = errors.New("invalid address")
)
