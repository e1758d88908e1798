package catalog

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"seriesync/internal/chapter"
)

// Entry is one cached directory-listing record.
type Entry struct {
	Name      string
	Path      string
	IsDir     bool
	IsSymlink bool
}

// Catalog owns every series known to a run, keyed by resolved directory,
// together with the per-path listing cache. All mutation goes through the
// catalog so there is a single authoritative writer per path; the mutex
// keeps that true if subtree scans are ever parallelized.
type Catalog struct {
	log        *slog.Logger
	fileIgnore *regexp.Regexp

	mu        sync.Mutex
	series    map[string]*Series
	listings  map[string][]Entry
	manifests map[string]struct{} // directory manifests loaded this run
}

// New constructs an empty catalog. fileIgnore filters individual files
// during chapter discovery and may be nil.
func New(log *slog.Logger, fileIgnore *regexp.Regexp) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{
		log:        log,
		fileIgnore: fileIgnore,
		series:     map[string]*Series{},
		listings:   map[string][]Entry{},
		manifests:  map[string]struct{}{},
	}
}

// ResolvePath normalizes a path to its absolute, symlink-free form; catalog
// identity is always expressed in resolved paths.
func ResolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// Listing returns the directory's immediate entries, memoized for the
// lifetime of the run. A missing path yields an empty listing, not an
// error; each run is a fresh process so there is no invalidation.
func (c *Catalog) Listing(path string) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.listings[path]; ok {
		return cached, nil
	}
	items, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.listings[path] = nil
			return nil, nil
		}
		return nil, err
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			Name:      item.Name(),
			Path:      filepath.Join(path, item.Name()),
			IsDir:     item.IsDir(),
			IsSymlink: item.Type()&fs.ModeSymlink != 0,
		})
	}
	c.listings[path] = entries
	return entries, nil
}

// Get returns the series registered at the resolved directory, if any.
func (c *Catalog) Get(dir string) *Series {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.series[dir]
}

// Create registers a series rooted at dir. Registering a second series on
// the same resolved directory is an error that is logged, not raised: the
// first registration wins and is returned with created == false. The
// directory is never created here: registration is bookkeeping, and a dir
// that does not exist yet simply scans to zero chapters.
func (c *Catalog) Create(dir string, meta Metadata) (*Series, bool) {
	dir = ResolvePath(dir)

	c.mu.Lock()
	if existing, ok := c.series[dir]; ok {
		c.mu.Unlock()
		c.log.Error("series already exists", "dir", dir, "name", existing.Name)
		return existing, false
	}
	s := newSeries(dir, meta)
	c.series[dir] = s
	c.mu.Unlock()

	c.scanChapters(s)
	return s, true
}

// scanChapters rebuilds the series' chapter multimap from its directory.
// Ignored files land in the Filter bucket, unparseable names in the Parser
// bucket; neither aborts the scan. Disabled series contribute nothing.
func (c *Catalog) scanChapters(s *Series) {
	if s.Disabled {
		return
	}
	entries, err := c.Listing(s.Dir)
	if err != nil {
		c.log.Error("list series directory", "dir", s.Dir, "error", err)
		return
	}
	for _, e := range entries {
		if c.fileIgnore != nil && c.fileIgnore.MatchString(e.Name) {
			s.addError(BucketFilter, e.Path)
			continue
		}
		if !e.IsDir && !IsArchive(e.Name) {
			continue // manifests, txt files, and other clutter
		}
		ch, err := chapter.Build(s.Name, e.Path, e.IsDir)
		if err != nil {
			s.addError(BucketParser, e.Path)
			continue
		}
		s.addChapter(ch)
	}
}

// All returns every registered series sorted by name.
func (c *Catalog) All() []*Series {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Series, 0, len(c.series))
	for _, s := range c.series {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Under returns the series rooted beneath the given path (not at it),
// sorted by name. When direct is true only immediate children count: a
// series at root/x/y belongs to x's manifest, not root's.
func (c *Catalog) Under(root string, direct bool) []*Series {
	root = ResolvePath(root)
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Series
	for dir, s := range c.series {
		if dir == root || !strings.HasPrefix(dir, root+string(filepath.Separator)) {
			continue
		}
		if direct && filepath.Dir(dir) != root {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllErrors merges every series' error buckets for the end-of-run report.
func (c *Catalog) AllErrors() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string][]string{}
	for _, s := range c.series {
		for bucket, paths := range s.Errors {
			out[bucket] = append(out[bucket], paths...)
		}
	}
	for bucket := range out {
		sort.Strings(out[bucket])
	}
	return out
}

// knownDirs seeds scanner ignore sets with every registered series dir.
func (c *Catalog) knownDirs() map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]struct{}, len(c.series))
	for dir := range c.series {
		out[dir] = struct{}{}
	}
	return out
}
