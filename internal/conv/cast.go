// Package conv provides overflow-checked integer conversions for values
// crossing between in-memory sizes and on-disk field widths.
package conv

import (
	"fmt"
	"math"
)

// IntToUint32 converts v to uint32, rejecting negatives and overflow.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cast: %d is negative, cannot convert to uint32", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("cast: %d overflows uint32", v)
	}
	return uint32(v), nil
}

// Int64ToInt converts v to int, rejecting negatives and overflow on 32-bit
// platforms.
func Int64ToInt(v int64) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("cast: %d is negative, cannot convert to int", v)
	}
	if v > int64(math.MaxInt) {
		return 0, fmt.Errorf("cast: %d overflows int", v)
	}
	return int(v), nil
}
