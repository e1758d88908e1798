package catalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"seriesync/internal/chapter"
	"seriesync/internal/ranges"
)

// Error buckets accumulated per series during scanning.
const (
	BucketParser = "Parser"
	BucketFilter = "Filter"
)

var foldCaser = cases.Fold()

// Metadata carries the persisted, manifest-level description of a series.
type Metadata struct {
	Name     string
	Aliases  []string
	Group    string
	Seasons  map[string]string
	Disabled bool
}

// Series is one catalog entry: a title rooted at a directory, owning the
// chapters parsed from that directory's contents. Identity is the resolved
// directory path; chapters are rebuilt by scanning every run and never
// persisted.
type Series struct {
	Dir      string
	Name     string
	Group    string
	Seasons  map[string]string
	Disabled bool

	aliasPatterns []string
	aliases       []*regexp.Regexp
	dirty         bool

	// Chapters maps each chapter number to the chapters carrying it; a
	// number may be shared by releases from different groups or volumes.
	Chapters map[float64]map[chapter.Key]*chapter.Chapter

	// Errors collects non-fatal scan problems by bucket (Parser, Filter).
	Errors map[string][]string
}

func newSeries(dir string, meta Metadata) *Series {
	s := &Series{
		Dir:      dir,
		Name:     meta.Name,
		Group:    meta.Group,
		Seasons:  meta.Seasons,
		Disabled: meta.Disabled,
		Chapters: map[float64]map[chapter.Key]*chapter.Chapter{},
		Errors:   map[string][]string{},
	}
	if s.Name == "" {
		s.Name = filepath.Base(dir)
	}
	for _, p := range meta.Aliases {
		s.addAlias(p)
	}
	// The directory name always matches, even after a rename recorded a
	// different display name in the manifest.
	if base := filepath.Base(dir); base != s.Name && !s.Matches(base) {
		s.addAlias(regexp.QuoteMeta(base))
	}
	return s
}

func (s *Series) addAlias(pattern string) {
	re, err := regexp.Compile(`(?i)\A(?:` + pattern + `)\z`)
	if err != nil {
		return
	}
	s.aliasPatterns = append(s.aliasPatterns, pattern)
	s.aliases = append(s.aliases, re)
}

// Aliases returns the alias patterns as written in the manifest.
func (s *Series) Aliases() []string {
	return append([]string(nil), s.aliasPatterns...)
}

// Matches reports whether the given name identifies this series, either by
// case-folded equality with the display name or by an alias pattern.
func (s *Series) Matches(name string) bool {
	if foldCaser.String(name) == foldCaser.String(s.Name) {
		return true
	}
	for _, re := range s.aliases {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// MarkDirty flags the series so its manifest is rewritten on save.
func (s *Series) MarkDirty() {
	s.dirty = true
}

func (s *Series) addChapter(c *chapter.Chapter) {
	key := c.Key()
	for _, n := range c.Numbers {
		set, ok := s.Chapters[n]
		if !ok {
			set = map[chapter.Key]*chapter.Chapter{}
			s.Chapters[n] = set
		}
		set[key] = c
	}
}

func (s *Series) addError(bucket, path string) {
	s.Errors[bucket] = append(s.Errors[bucket], path)
}

// NumberSet returns the set of chapter numbers present in the series; empty
// when the series is disabled.
func (s *Series) NumberSet() map[float64]struct{} {
	out := make(map[float64]struct{}, len(s.Chapters))
	if s.Disabled {
		return out
	}
	for n := range s.Chapters {
		out[n] = struct{}{}
	}
	return out
}

// Missing returns the chapter numbers present in source but absent here.
// Matching is purely numeric: a chapter under any group or volume counts as
// present. A disabled series reports nothing missing so it is never synced
// into.
func (s *Series) Missing(source map[float64]struct{}) map[float64]struct{} {
	out := map[float64]struct{}{}
	if s.Disabled {
		return out
	}
	for n := range source {
		if _, ok := s.Chapters[n]; !ok {
			out[n] = struct{}{}
		}
	}
	return out
}

// ChaptersFor returns the concrete chapters carrying the given number,
// ordered by path for determinism.
func (s *Series) ChaptersFor(n float64) []*chapter.Chapter {
	set := s.Chapters[n]
	out := make([]*chapter.Chapter, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Gaps returns the chapter numbers missing from the series' own range,
// assuming chapter 1 as the floor even when the earliest chapter on disk is
// later.
func (s *Series) Gaps() []float64 {
	if len(s.Chapters) == 0 {
		return nil
	}
	lo, hi := 1.0, 0.0
	for n := range s.Chapters {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	full, err := ranges.Expand(lo, hi)
	if err != nil {
		return nil
	}
	var missing []float64
	for _, n := range full {
		if _, ok := s.Chapters[n]; !ok {
			missing = append(missing, n)
		}
	}
	sort.Float64s(missing)
	return missing
}

// GapString renders the series' gaps as condensed ranges.
func (s *Series) GapString() string {
	spans := ranges.Condense(s.Gaps())
	parts := make([]string, 0, len(spans))
	for _, sp := range spans {
		parts = append(parts, sp.String())
	}
	return fmt.Sprintf("%s: %s", s.Name, strings.Join(parts, ", "))
}

// ChapterCount returns the number of distinct chapter numbers.
func (s *Series) ChapterCount() int {
	return len(s.Chapters)
}
