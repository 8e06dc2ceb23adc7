package format

import (
	"fmt"
	"math/bits"
)

var binarySuffixes = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// Bytes formats a byte count with binary units and two decimals, e.g. "1.50 KB".
// The unit is picked from the bit length of n; zero and negative counts
// render as "0B".
func Bytes(n int64) string {
	if n <= 0 {
		return "0B"
	}
	magnitude := (bits.Len64(uint64(n)) - 1) / 10
	if magnitude > len(binarySuffixes)-1 {
		magnitude = len(binarySuffixes) - 1
	}
	scaled := float64(n) / float64(uint64(1)<<(10*magnitude))
	return fmt.Sprintf("%.2f %s", scaled, binarySuffixes[magnitude])
}

// Size formats a byte count as MB below one gigabyte and GB above it,
// the way local model listings show sizes.
func Size(n int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)
	mb := float64(n) / MB
	if mb < 1024 {
		return fmt.Sprintf("%.2f MB", mb)
	}
	return fmt.Sprintf("%.2f GB", float64(n)/GB)
}
