package chapter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrParse reports a filename that yielded neither a chapter number nor a
// volume. Such files are excluded from the catalog but never abort a scan.
var ErrParse = errors.New("chapter: no usable chapter number")

// Key identifies a chapter for equality and deduplication. A volume-only
// entry (numbers == {0}) keys on volume and group alone; everything else
// keys on the number span plus group and volume.
type Key struct {
	Min    float64
	Max    float64
	Group  string
	Volume int
}

// Chapter is one unit of content belonging to a series: either an archive
// file or a directory of loose pages. Immutable once built.
type Chapter struct {
	Numbers []float64 // sorted ascending, never empty
	Group   string
	Volume  int
	Title   string
	Path    string
	IsDir   bool
}

// New validates and constructs a Chapter. At least one of numbers or volume
// must be present; a volume with no number is recorded as number 0.
func New(numbers []float64, volume int, group, title, path string, isDir bool) (*Chapter, error) {
	if len(numbers) == 0 {
		if volume == 0 {
			return nil, fmt.Errorf("%w: %s", ErrParse, path)
		}
		numbers = []float64{0}
	}
	nums := dedupeSorted(numbers)
	return &Chapter{
		Numbers: nums,
		Group:   trimEdges(group),
		Volume:  volume,
		Title:   trimEdges(title),
		Path:    path,
		IsDir:   isDir,
	}, nil
}

func dedupeSorted(numbers []float64) []float64 {
	nums := append([]float64(nil), numbers...)
	sort.Float64s(nums)
	out := nums[:0]
	for i, v := range nums {
		if i > 0 && v == nums[i-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}

func trimEdges(s string) string {
	return strings.Trim(s, ". _-")
}

func (c *Chapter) volumeOnly() bool {
	return len(c.Numbers) == 1 && c.Numbers[0] == 0
}

// Key returns the identity used to collapse duplicate chapters.
func (c *Chapter) Key() Key {
	if c.volumeOnly() {
		return Key{Group: c.Group, Volume: c.Volume}
	}
	return Key{
		Min:    c.Numbers[0],
		Max:    c.Numbers[len(c.Numbers)-1],
		Group:  c.Group,
		Volume: c.Volume,
	}
}

// Contains reports whether the chapter carries the given number.
func (c *Chapter) Contains(n float64) bool {
	for _, v := range c.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// FileStem renders the canonical, sortable file name (without extension):
// v2 for volume-only entries, zero-padded c numbers otherwise, followed by
// the group in brackets and the quoted title when present. keepVolume forces
// the volume prefix even when chapter numbers exist.
func (c *Chapter) FileStem(keepVolume bool) string {
	var b strings.Builder
	if c.Volume > 0 && (c.volumeOnly() || keepVolume) {
		fmt.Fprintf(&b, "v%d", c.Volume)
	}
	if !c.volumeOnly() {
		lo := c.Numbers[0]
		hi := c.Numbers[len(c.Numbers)-1]
		if lo == hi {
			fmt.Fprintf(&b, "c%05.1f", lo)
		} else {
			fmt.Fprintf(&b, "c%05.1f-%05.1f", lo, hi)
		}
	}
	if c.Group != "" {
		fmt.Fprintf(&b, ".[%s]", c.Group)
	}
	if c.Title != "" {
		fmt.Fprintf(&b, ".%q", c.Title)
	}
	return b.String()
}

func (c *Chapter) String() string {
	return c.FileStem(false)
}
