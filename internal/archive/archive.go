package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

// Options controls what Pack includes and whether it may replace an
// existing container.
type Options struct {
	MinSize   int64
	Ignore    *regexp.Regexp
	Overwrite bool
}

// Pack writes every file under src (recursively) into a deflate-compressed
// zip container at dest, skipping files smaller than MinSize or matching
// the ignore pattern. It refuses to replace an existing container unless
// Overwrite is set, surfacing fs.ErrExist for the caller's conflict
// handling. Returns the count of files and total source bytes packaged.
func Pack(src, dest string, opts Options) (files int, bytes int64, err error) {
	if !opts.Overwrite {
		if _, statErr := os.Stat(dest); statErr == nil {
			return 0, 0, fmt.Errorf("pack %s: %w", dest, fs.ErrExist)
		}
	}
	out, err := os.Create(dest)
	if err != nil {
		return 0, 0, fmt.Errorf("create archive %s: %w", dest, err)
	}
	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() < opts.MinSize {
			return nil
		}
		if opts.Ignore != nil && opts.Ignore.MatchString(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		if _, err := io.Copy(w, in); err != nil {
			return err
		}
		files++
		bytes += info.Size()
		return nil
	})

	if closeErr := zw.Close(); walkErr == nil {
		walkErr = closeErr
	}
	if closeErr := out.Close(); walkErr == nil {
		walkErr = closeErr
	}
	if walkErr != nil {
		_ = os.Remove(dest) // don't leave a truncated container behind
		return 0, 0, fmt.Errorf("pack %s: %w", dest, walkErr)
	}
	return files, bytes, nil
}
