package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern, creating parent directories as needed. A size
// <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteSeries creates a series directory under root containing one archive
// per chapter stem (stems are file names without extension, e.g.
// "Alpha c001"). Returns the series directory.
func WriteSeries(t testing.TB, root, name string, stems ...string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for _, stem := range stems {
		WriteFile(t, filepath.Join(dir, stem+".cbz"), 256)
	}
	return dir
}

// WritePages creates a chapter directory of loose page images under the
// series directory. Returns the chapter directory.
func WritePages(t testing.TB, seriesDir, chapterName string, pages int) string {
	t.Helper()
	dir := filepath.Join(seriesDir, chapterName)
	for i := 0; i < pages; i++ {
		WriteFile(t, filepath.Join(dir, fmt.Sprintf("page%03d.jpg", i+1)), 512)
	}
	return dir
}
