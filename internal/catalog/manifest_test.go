package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"seriesync/internal/testsupport"
)

func TestDirectoryManifestRoundTrip(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteSeries(t, root, "Alpha", "Alpha c001")
	testsupport.WriteSeries(t, root, "Beta", "Beta c001")

	cat := New(discardLogger(), nil)
	discover(t, cat, root, false)
	n, err := cat.SaveDirectoryManifest(root, false)
	if err != nil || n != 2 {
		t.Fatalf("save: n=%d err=%v", n, err)
	}

	// A fresh catalog loads the manifest instead of re-classifying.
	reloaded := New(discardLogger(), nil)
	series := discover(t, reloaded, root, true)
	got := names(series)
	if len(got) != 2 || got[0] != "Alpha" && got[1] != "Alpha" {
		t.Fatalf("reloaded = %v", got)
	}
	for _, s := range series {
		if s.ChapterCount() != 1 {
			t.Fatalf("%s chapters = %d, want 1", s.Name, s.ChapterCount())
		}
	}
}

func TestSaveRefusesHandEditedManifest(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteSeries(t, root, "Alpha", "Alpha c001")
	path := filepath.Join(root, DirectoryManifestName)
	handEdited := "[[series]]\nname = \"Alpha\"\naliases = [\"careful hand tuning\"]\n"
	if err := os.WriteFile(path, []byte(handEdited), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Scan without loading manifests, then try to save over the hand edit.
	cat := New(discardLogger(), nil)
	discover(t, cat, root, false)
	n, err := cat.SaveDirectoryManifest(root, false)
	if err != nil || n != 0 {
		t.Fatalf("save should refuse: n=%d err=%v", n, err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != handEdited {
		t.Fatalf("hand-edited manifest was clobbered: %q", data)
	}
}

func TestSaveDirectoryManifestDryRun(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteSeries(t, root, "Alpha", "Alpha c001")

	cat := New(discardLogger(), nil)
	discover(t, cat, root, false)
	n, err := cat.SaveDirectoryManifest(root, true)
	if err != nil || n != 1 {
		t.Fatalf("dry run: n=%d err=%v", n, err)
	}
	if _, err := os.Stat(filepath.Join(root, DirectoryManifestName)); err == nil {
		t.Fatal("dry run wrote the manifest")
	}
}

func TestSeriesManifestSaveAndLoad(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteSeries(t, root, "Alpha", "Alpha c001")

	cat := New(discardLogger(), nil)
	s, _ := cat.Create(dir, Metadata{Name: "Alpha", Aliases: []string{"al"}, Group: "GroupX"})

	// Clean series: nothing to write.
	if wrote, err := s.SaveManifest(false, false); err != nil || wrote {
		t.Fatalf("clean save: wrote=%v err=%v", wrote, err)
	}
	s.MarkDirty()
	if wrote, err := s.SaveManifest(false, false); err != nil || !wrote {
		t.Fatalf("dirty save: wrote=%v err=%v", wrote, err)
	}

	reloaded := New(discardLogger(), nil)
	got := reloaded.LoadSeriesManifest(dir)
	if got == nil || got.Name != "Alpha" || got.Group != "GroupX" {
		t.Fatalf("reloaded = %+v", got)
	}
	if !got.Matches("al") {
		t.Fatal("alias lost across save/load")
	}
}
