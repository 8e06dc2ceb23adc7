package format

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0B"},
		{-5, "0B"},
		{1, "1.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{500, "500.00 B"},
		{1000, "1000.00 B"},
		{1 << 20, "1.00 MB"},
		{5 * (1 << 30) / 2, "2.50 GB"},
		{1 << 40, "1.00 TB"},
		{1 << 50, "1.00 PB"},
		{1 << 60, "1024.00 PB"},
		{math.MaxInt64, "8192.00 PB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bytes(tt.in), "Bytes(%d)", tt.in)
	}
}

func TestBytesAlwaysTwoDecimals(t *testing.T) {
	re := regexp.MustCompile(`^\d+\.\d{2} (B|KB|MB|GB|TB|PB)$`)
	for n := int64(1); n > 0 && n < math.MaxInt64/3; n = n*3 + 1 {
		assert.Regexp(t, re, Bytes(n))
	}
}

func TestBytesPicksLargestUnitAtLeastOne(t *testing.T) {
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	for i := 1; i < len(units); i++ {
		below := int64(1)<<(10*i) - 1
		at := int64(1) << (10 * i)
		assert.Contains(t, Bytes(below), " "+units[i-1])
		assert.Contains(t, Bytes(at), " "+units[i])
	}
}

func TestSize(t *testing.T) {
	assert.Equal(t, "0.00 MB", Size(0))
	assert.Equal(t, "1.50 MB", Size(3*(1<<20)/2))
	assert.Equal(t, "1023.00 MB", Size(1023*(1<<20)))
	assert.Equal(t, "1.00 GB", Size(1<<30))
	assert.Equal(t, "4.70 GB", Size(int64(4.7*(1<<30))))
}
