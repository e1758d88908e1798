package chapter

import (
	"errors"
	"testing"
)

func mustBuild(t *testing.T, series, path string, isDir bool) *Chapter {
	t.Helper()
	c, err := Build(series, path, isDir)
	if err != nil {
		t.Fatalf("build %q: %v", path, err)
	}
	return c
}

func wantNumbers(t *testing.T, c *Chapter, want ...float64) {
	t.Helper()
	if len(c.Numbers) != len(want) {
		t.Fatalf("numbers = %v, want %v", c.Numbers, want)
	}
	for i := range want {
		if c.Numbers[i] != want[i] {
			t.Fatalf("numbers = %v, want %v", c.Numbers, want)
		}
	}
}

func TestBuildGroupVolumeChapter(t *testing.T) {
	c := mustBuild(t, "My Title", "[GroupX] My Title v02c015.zip", false)
	if c.Group != "GroupX" {
		t.Fatalf("group = %q, want GroupX", c.Group)
	}
	if c.Volume != 2 {
		t.Fatalf("volume = %d, want 2", c.Volume)
	}
	wantNumbers(t, c, 15)
}

func TestBuildChapterRange(t *testing.T) {
	c := mustBuild(t, "My Title", "My Title - c012-014.zip", false)
	wantNumbers(t, c, 12, 13, 14)
}

func TestBuildVolumeOnlyDefaultsToZero(t *testing.T) {
	c := mustBuild(t, "My Title", "My Title v03.zip", false)
	if c.Volume != 3 {
		t.Fatalf("volume = %d, want 3", c.Volume)
	}
	wantNumbers(t, c, 0)
	key := c.Key()
	if key.Volume != 3 || key.Min != 0 || key.Max != 0 {
		t.Fatalf("volume-only key = %+v", key)
	}
}

func TestBuildOneshot(t *testing.T) {
	c := mustBuild(t, "My Title", "My Title - Oneshot.zip", false)
	wantNumbers(t, c, 0)
}

func TestBuildBareNumberDirectory(t *testing.T) {
	c := mustBuild(t, "Alpha", "Alpha 007", true)
	wantNumbers(t, c, 7)
	if !c.IsDir {
		t.Fatal("expected directory chapter")
	}
}

func TestBuildQuotedTitle(t *testing.T) {
	c := mustBuild(t, "Alpha", `Alpha c04 "the long road".zip`, false)
	wantNumbers(t, c, 4)
	// Separator normalization runs before title extraction, so spaces
	// inside the quotes have already become dots.
	if c.Title != "the.long.road" {
		t.Fatalf("title = %q", c.Title)
	}
}

func TestBuildDashTitle(t *testing.T) {
	c := mustBuild(t, "Alpha", "Alpha c05 - homecoming.zip", false)
	wantNumbers(t, c, 5)
	if c.Title != "homecoming" {
		t.Fatalf("title = %q", c.Title)
	}
}

func TestBuildSubChapterNumber(t *testing.T) {
	c := mustBuild(t, "Alpha", "Alpha c12p3.zip", false)
	wantNumbers(t, c, 12.3)
}

func TestBuildUnparseable(t *testing.T) {
	if _, err := Build("My Title", "My Title extras.txt", false); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestBuildSeriesNameWithNumbers(t *testing.T) {
	// Digits belonging to the series title must not be read as a chapter
	// number once the title is stripped.
	c := mustBuild(t, "Area 51", "Area 51 c009.zip", false)
	wantNumbers(t, c, 9)
}

func TestBuildEarlierRuleWins(t *testing.T) {
	// Bracketed group binds before the trailing free-text fallback can.
	c := mustBuild(t, "Alpha", "[Scans] Alpha c01 extra text.zip", false)
	if c.Group != "Scans" {
		t.Fatalf("group = %q, want Scans", c.Group)
	}
	wantNumbers(t, c, 1)
}
