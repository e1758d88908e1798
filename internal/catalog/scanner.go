package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Scanner walks a directory tree depth-first and infers series from it.
// Subdirectory classification runs before the directory's own: any series
// discovered below makes the current directory a pure container. When
// loadManifests is set, a manifest found in a directory bypasses the
// heuristic entirely for that subtree.
type Scanner struct {
	catalog       *Catalog
	log           *slog.Logger
	loadManifests bool
}

// NewScanner constructs a scanner bound to the given catalog.
func NewScanner(cat *Catalog, log *slog.Logger, loadManifests bool) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{catalog: cat, log: log, loadManifests: loadManifests}
}

// Discover scans root and returns every series found or loaded beneath it.
// Directories named in extraIgnores are skipped wholesale (used to keep a
// destination scan out of the source tree when one nests near the other).
func (s *Scanner) Discover(root string, extraIgnores ...string) ([]*Series, error) {
	dir := ResolvePath(root)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}
	ignores := s.catalog.knownDirs()
	for _, extra := range extraIgnores {
		if extra != "" {
			ignores[ResolvePath(extra)] = struct{}{}
		}
	}
	return s.walk(dir, ignores)
}

func (s *Scanner) walk(dir string, ignores map[string]struct{}) ([]*Series, error) {
	if _, seen := ignores[dir]; seen {
		return nil, nil
	}
	if s.loadManifests {
		if found := s.loadManifest(dir); len(found) > 0 {
			ignores[dir] = struct{}{}
			return found, nil
		}
	}
	ignores[dir] = struct{}{}

	entries, err := s.catalog.Listing(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var created []*Series
	for _, e := range entries {
		if !e.IsDir || e.IsSymlink {
			continue
		}
		added, err := s.walk(ResolvePath(e.Path), ignores)
		if err != nil {
			return created, err
		}
		created = append(created, added...)
		if len(added) > 0 && s.catalog.Get(dir) != nil {
			// A page directory below promoted this directory to a series;
			// its remaining children are that series' chapters.
			break
		}
	}
	if len(created) > 0 {
		return created, nil
	}
	delete(ignores, dir) // no recursion left; unclutter for sibling passes

	switch Classify(entries) {
	case ClassSeries:
		if sr, ok := s.catalog.Create(dir, Metadata{}); ok {
			s.log.Debug("inferred series", "dir", dir, "name", sr.Name)
			return []*Series{sr}, nil
		}
	case ClassParent:
		if sr, ok := s.catalog.Create(filepath.Dir(dir), Metadata{}); ok {
			s.log.Debug("inferred series from pages", "dir", filepath.Dir(dir), "name", sr.Name)
			return []*Series{sr}, nil
		}
	}
	return nil, nil
}

// loadManifest tries the directory-scoped manifest first, then the series
// manifest. A missing or unreadable manifest is not an error; it simply
// hands the directory back to the heuristic.
func (s *Scanner) loadManifest(dir string) []*Series {
	if found := s.catalog.LoadDirectoryManifest(dir); len(found) > 0 {
		return found
	}
	if sr := s.catalog.LoadSeriesManifest(dir); sr != nil {
		return []*Series{sr}
	}
	return nil
}
