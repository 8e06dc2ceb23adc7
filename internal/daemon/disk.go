package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/yankeexe/ollama-manager/pkg/api"
)

// ErrInsufficientSpace is returned by CheckDisk when the models directory
// cannot hold the download.
var ErrInsufficientSpace = errors.New("insufficient disk space")

// SpaceError reports how much room a pull needs and how much is left.
type SpaceError struct {
	Dir  string
	Need uint64
	Free uint64
}

func (e *SpaceError) Error() string {
	return fmt.Sprintf("%s needs %s but only %s is free on %s",
		ErrInsufficientSpace, humanize.IBytes(e.Need), humanize.IBytes(e.Free), e.Dir)
}

func (e *SpaceError) Unwrap() error { return ErrInsufficientSpace }

// usageFunc is swapped out in tests.
var usageFunc = func(path string) (uint64, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return u.Free, nil
}

// CheckDisk reports whether dir's filesystem has at least need free bytes.
// A dir that does not exist yet is checked through its closest existing
// parent. need of zero always passes.
func CheckDisk(dir string, need uint64) error {
	if need == 0 {
		return nil
	}
	path := existingParent(dir)
	free, err := usageFunc(path)
	if err != nil {
		return fmt.Errorf("disk usage of %s: %w", path, err)
	}
	if free < need {
		return &SpaceError{Dir: path, Need: need, Free: free}
	}
	return nil
}

// VariantSize is the number of bytes a pull of row needs: the exact count
// when the catalog reported one, otherwise the parsed display size.
func VariantSize(row api.VariantRow) uint64 {
	if row.SizeBytes > 0 {
		return uint64(row.SizeBytes)
	}
	return ParseSize(row.Size)
}

// ParseSize turns a library listing size such as "4.7GB" into bytes. The
// library site prints decimal units, so "GB" is 10^9 bytes.
// Unparsable or absent sizes yield zero.
func ParseSize(s string) uint64 {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0
	}
	return n
}

func existingParent(dir string) string {
	p := filepath.Clean(dir)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
