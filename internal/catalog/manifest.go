package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Manifest file names. A series manifest lives inside the series directory;
// a directory manifest describes every series directly beneath its own
// directory so later runs can skip the classification heuristic.
const (
	SeriesManifestName    = "series.toml"
	DirectoryManifestName = "directory.toml"
)

// ManifestEntry is the single, explicit record shape persisted for a
// series. Path is relative to the manifest's directory and present only in
// directory manifests.
type ManifestEntry struct {
	Name     string            `toml:"name"`
	Path     string            `toml:"path,omitempty"`
	Aliases  []string          `toml:"aliases,omitempty"`
	Group    string            `toml:"group,omitempty"`
	Seasons  map[string]string `toml:"seasons,omitempty"`
	Disabled bool              `toml:"disabled,omitempty"`
}

type directoryManifest struct {
	Series []ManifestEntry `toml:"series"`
}

func (e ManifestEntry) metadata() Metadata {
	return Metadata{
		Name:     e.Name,
		Aliases:  e.Aliases,
		Group:    e.Group,
		Seasons:  e.Seasons,
		Disabled: e.Disabled,
	}
}

func entryFor(s *Series, relativeTo string) ManifestEntry {
	entry := ManifestEntry{
		Name:     s.Name,
		Aliases:  s.Aliases(),
		Group:    s.Group,
		Seasons:  s.Seasons,
		Disabled: s.Disabled,
	}
	if relativeTo != "" {
		if rel, err := filepath.Rel(relativeTo, s.Dir); err == nil {
			entry.Path = rel
		}
	}
	return entry
}

// LoadDirectoryManifest reads dir/directory.toml and registers a series for
// each entry without scanning chapter contents beyond each series' own
// directory. A missing manifest returns nil (the caller falls back to the
// heuristic); a malformed one is logged and likewise treated as empty.
func (c *Catalog) LoadDirectoryManifest(dir string) []*Series {
	dir = ResolvePath(dir)
	path := filepath.Join(dir, DirectoryManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn("read directory manifest", "path", path, "error", err)
		}
		return nil
	}
	var doc directoryManifest
	if err := toml.Unmarshal(data, &doc); err != nil {
		c.log.Warn("parse directory manifest", "path", path, "error", err)
		return nil
	}

	c.mu.Lock()
	c.manifests[path] = struct{}{}
	c.mu.Unlock()

	var out []*Series
	for _, entry := range doc.Series {
		target := entry.Path
		if target == "" {
			target = entry.Name
		}
		seriesDir := filepath.Join(dir, target)
		if _, err := os.Stat(filepath.Dir(seriesDir)); err != nil {
			c.log.Error("manifest entry points nowhere", "path", seriesDir, "name", entry.Name)
			continue
		}
		s, _ := c.Create(seriesDir, entry.metadata())
		out = append(out, s)
	}
	return out
}

// LoadSeriesManifest reads dir/series.toml for a single series. Missing or
// unreadable manifests return nil.
func (c *Catalog) LoadSeriesManifest(dir string) *Series {
	dir = ResolvePath(dir)
	path := filepath.Join(dir, SeriesManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entry ManifestEntry
	if err := toml.Unmarshal(data, &entry); err != nil {
		c.log.Warn("parse series manifest", "path", path, "error", err)
		return nil
	}
	if existing := c.Get(dir); existing != nil {
		return existing
	}
	s, _ := c.Create(dir, entry.metadata())
	if len(data) == 0 {
		s.MarkDirty()
	}
	return s
}

// SaveDirectoryManifest writes dir/directory.toml describing the series
// directly beneath dir. A manifest that exists on disk but was never loaded
// this run is left untouched so hand edits survive; the refusal is logged,
// not an error. Returns the number of entries written.
func (c *Catalog) SaveDirectoryManifest(dir string, dryRun bool) (int, error) {
	dir = ResolvePath(dir)
	path := filepath.Join(dir, DirectoryManifestName)

	c.mu.Lock()
	_, loaded := c.manifests[path]
	c.mu.Unlock()
	if _, err := os.Stat(path); err == nil && !loaded {
		c.log.Warn("manifest exists but was never loaded; refusing to overwrite", "path", path)
		return 0, nil
	}

	series := c.Under(dir, true)
	doc := directoryManifest{Series: make([]ManifestEntry, 0, len(series))}
	for _, s := range series {
		doc.Series = append(doc.Series, entryFor(s, dir))
	}
	sort.Slice(doc.Series, func(i, j int) bool { return doc.Series[i].Name < doc.Series[j].Name })

	if dryRun {
		c.log.Info("dry run: skipping manifest save", "path", path, "entries", len(doc.Series))
		return len(doc.Series), nil
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal manifest %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return 0, fmt.Errorf("write manifest %s: %w", path, err)
	}
	c.log.Info("saved directory manifest", "path", path, "entries", len(doc.Series))
	return len(doc.Series), nil
}

// SaveDirectoryManifests rewrites every directory manifest loaded this run
// that lives under root.
func (c *Catalog) SaveDirectoryManifests(root string, dryRun bool) error {
	root = ResolvePath(root)
	c.mu.Lock()
	paths := make([]string, 0, len(c.manifests))
	for path := range c.manifests {
		paths = append(paths, path)
	}
	c.mu.Unlock()
	sort.Strings(paths)

	for _, path := range paths {
		dir := filepath.Dir(path)
		if dir != root && !isBelow(dir, root) {
			continue
		}
		if _, err := c.SaveDirectoryManifest(dir, dryRun); err != nil {
			return err
		}
	}
	return nil
}

func isBelow(dir, root string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}

// SaveManifest writes the series' own manifest. Skipped unless the series
// is dirty or force is set; disabled series are only written under force.
func (s *Series) SaveManifest(force, dryRun bool) (bool, error) {
	if !force && (s.Disabled || !s.dirty) {
		return false, nil
	}
	path := filepath.Join(s.Dir, SeriesManifestName)
	if dryRun {
		return false, nil
	}
	data, err := toml.Marshal(entryFor(s, ""))
	if err != nil {
		return false, fmt.Errorf("marshal manifest %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return false, fmt.Errorf("write manifest %s: %w", path, err)
	}
	s.dirty = false
	return true, nil
}
