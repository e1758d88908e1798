package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"

	"seriesync/internal/archive"
	"seriesync/internal/catalog"
	"seriesync/internal/chapter"
	"seriesync/internal/services/rsync"
)

var (
	// ErrCopyConflict marks a destination artifact that already exists
	// while overwrite is disabled. Soft: counts against the give-up budget.
	ErrCopyConflict = errors.New("destination chapter already exists")
	// ErrMissingSource marks a source artifact that vanished mid-run.
	// Fatal for the series' remaining sync; the run continues.
	ErrMissingSource = errors.New("source chapter vanished")
)

// Options configures a sync run.
type Options struct {
	DryRun        bool
	CreateMissing bool
	Overwrite     bool
	FullResync    bool
	KeepVolume    bool
	GiveUp        int
	MinSize       int64
	SourceIgnore  *regexp.Regexp
	FileIgnore    *regexp.Regexp
}

// Replicator seeds a whole series directory into a destination parent.
// Satisfied by *rsync.Client; nil disables whole-series seeding.
type Replicator interface {
	Sync(ctx context.Context, srcDir, destParent string) (rsync.Stats, error)
}

// Engine drives replication of missing chapters between two catalogs.
type Engine struct {
	log  *slog.Logger
	opts Options
	repl Replicator
}

// New constructs an engine. repl may be nil.
func New(log *slog.Logger, opts Options, repl Replicator) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if opts.GiveUp <= 0 {
		opts.GiveUp = 3
	}
	return &Engine{log: log, opts: opts, repl: repl}
}

// Run matches every enabled source series against the destination set and
// replicates missing chapters. destCatalog and destRoot are used to
// synthesize destinations for unmatched sources when CreateMissing is set.
// Per-chapter failures never escape: they are accumulated in the Report.
func (e *Engine) Run(ctx context.Context, sources, dests []*catalog.Series, destCatalog *catalog.Catalog, destRoot string) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    e.opts.DryRun,
	}
	for _, src := range sources {
		if src.Disabled {
			continue
		}
		dst := matchDest(dests, src.Name)
		created := false
		if dst == nil {
			report.Unmatched = append(report.Unmatched, src.Name)
			if !e.opts.CreateMissing || destCatalog == nil || destRoot == "" {
				e.log.Warn("no destination for source series", "series", src.Name)
				continue
			}
			dst, _ = destCatalog.Create(filepath.Join(destRoot, src.Name), catalog.Metadata{Name: src.Name})
			created = true
		}
		report.Pairs = append(report.Pairs, e.syncPair(ctx, src, dst, created))
	}
	report.FinishedAt = time.Now()
	return report
}

// matchDest returns the first enabled destination whose name or alias
// matches; iteration order wins, this is not a best-match search.
func matchDest(dests []*catalog.Series, name string) *catalog.Series {
	for _, d := range dests {
		if d.Disabled {
			continue
		}
		if d.Matches(name) {
			return d
		}
	}
	return nil
}

func (e *Engine) syncPair(ctx context.Context, src, dst *catalog.Series, created bool) PairResult {
	pair := PairResult{
		Source:       src.Name,
		Dest:         dst.Name,
		DestDir:      dst.Dir,
		Created:      created,
		SoftFailures: map[string]string{},
	}
	missingSet := dst.Missing(src.NumberSet())
	pair.Missing = sortedNumbers(missingSet)

	if len(missingSet) == 0 && !created && !e.opts.FullResync {
		pair.Skipped = true
		e.log.Debug("destination already covered", "series", src.Name,
			"source_chapters", src.ChapterCount(), "dest_chapters", dst.ChapterCount())
		return pair
	}
	if dst.Disabled {
		pair.Skipped = true
		return pair
	}

	// Synthesized destinations exist only in the catalog until now; dry
	// runs must leave the disk untouched, so the directory appears here.
	if created && !e.opts.DryRun {
		if err := os.MkdirAll(dst.Dir, 0o750); err != nil {
			pair.Fatal = err.Error()
			e.log.Error("create destination directory", "dir", dst.Dir, "error", err)
			return pair
		}
	}

	if created && e.repl != nil && !e.opts.DryRun {
		return e.seed(ctx, src, dst, pair)
	}

	for _, ch := range e.resolveMissing(src, missingSet) {
		if e.opts.SourceIgnore != nil && e.opts.SourceIgnore.MatchString(filepath.Base(ch.Path)) {
			continue
		}
		e.log.Info("sync chapter", "chapter", ch.String(), "series", dst.Name)
		if e.opts.DryRun {
			pair.Copied++
			continue
		}
		files, bytes, err := e.copyChapter(ch, dst.Dir)
		if err != nil {
			if errors.Is(err, ErrMissingSource) {
				pair.Fatal = err.Error()
				e.log.Error("sync fatal", "series", src.Name, "error", err)
				return pair
			}
			pair.SoftFailures[ch.Path] = err.Error()
			if len(pair.SoftFailures) >= e.opts.GiveUp {
				e.log.Error("sync give-up", "series", src.Name, "failures", len(pair.SoftFailures))
				return pair
			}
			continue
		}
		pair.Copied++
		pair.Files += files
		pair.Bytes += bytes
	}
	return pair
}

// seed replicates the whole source directory through the external copy
// tool; used only for destinations synthesized this run.
func (e *Engine) seed(ctx context.Context, src, dst *catalog.Series, pair PairResult) PairResult {
	stats, err := e.repl.Sync(ctx, src.Dir, filepath.Dir(dst.Dir))
	if err != nil {
		var exitErr *rsync.ExitError
		if errors.As(err, &exitErr) && exitErr.Vanished() {
			pair.Fatal = err.Error()
			e.log.Error("seed fatal", "series", src.Name, "error", err)
			return pair
		}
		pair.SoftFailures[src.Name] = err.Error()
		e.log.Error("seed failed", "series", src.Name, "error", err)
		return pair
	}
	pair.Copied = stats.Created
	pair.Files = stats.Created
	pair.Bytes = stats.LiteralBytes
	return pair
}

// resolveMissing maps missing numbers back to concrete source chapters,
// deduplicated by chapter key (a double chapter covers two numbers but is
// copied once), ordered by path for determinism.
func (e *Engine) resolveMissing(src *catalog.Series, missing map[float64]struct{}) []*chapter.Chapter {
	seen := map[chapter.Key]struct{}{}
	var out []*chapter.Chapter
	for n := range missing {
		for _, ch := range src.ChaptersFor(n) {
			key := ch.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// copyChapter replicates one chapter into destDir: single files are copied
// under their normalized name, page directories are packed into a cbz.
func (e *Engine) copyChapter(ch *chapter.Chapter, destDir string) (int, int64, error) {
	if ch.IsDir {
		dest := filepath.Join(destDir, ch.FileStem(e.opts.KeepVolume)+".cbz")
		files, bytes, err := archive.Pack(ch.Path, dest, archive.Options{
			MinSize:   e.opts.MinSize,
			Ignore:    e.opts.FileIgnore,
			Overwrite: e.opts.Overwrite,
		})
		if err != nil {
			switch {
			case errors.Is(err, fs.ErrExist):
				return 0, 0, fmt.Errorf("%w: %s", ErrCopyConflict, dest)
			case errors.Is(err, fs.ErrNotExist):
				return 0, 0, fmt.Errorf("%w: %s", ErrMissingSource, ch.Path)
			}
			return 0, 0, err
		}
		e.log.Debug("packed chapter", "src", ch.Path, "dest", dest, "files", files)
		return files, bytes, nil
	}

	dest := filepath.Join(destDir, ch.FileStem(e.opts.KeepVolume)+extensionOf(ch.Path))
	bytes, err := copyFile(ch.Path, dest, e.opts.Overwrite)
	if err != nil {
		return 0, 0, err
	}
	e.log.Debug("copied chapter", "src", ch.Path, "dest", dest)
	return 1, bytes, nil
}

func extensionOf(path string) string {
	return filepath.Ext(path)
}

func copyFile(src, dest string, overwrite bool) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrMissingSource, src)
		}
		return 0, err
	}
	defer in.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	out, err := os.OpenFile(dest, flags, 0o640)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrCopyConflict, dest)
		}
		return 0, err
	}
	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, fmt.Errorf("copy %s: %w", src, err)
	}
	return n, nil
}

func sortedNumbers(set map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Float64s(out)
	return out
}
