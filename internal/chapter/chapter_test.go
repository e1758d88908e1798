package chapter

import (
	"errors"
	"testing"
)

func TestNewRequiresNumberOrVolume(t *testing.T) {
	if _, err := New(nil, 0, "", "", "x.zip", false); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestNewDedupesAndSortsNumbers(t *testing.T) {
	c, err := New([]float64{3, 1, 3, 2}, 0, "", "", "x.zip", false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	wantNumbers(t, c, 1, 2, 3)
}

func TestKeySpansRange(t *testing.T) {
	c, err := New([]float64{12, 13, 14}, 0, "g", "", "x.zip", false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	key := c.Key()
	if key.Min != 12 || key.Max != 14 || key.Group != "g" {
		t.Fatalf("key = %+v", key)
	}
}

func TestKeyCollapsesDuplicates(t *testing.T) {
	a, _ := New([]float64{5}, 0, "scans", "", "a.zip", false)
	b, _ := New([]float64{5}, 0, "scans", "", "b.zip", false)
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %+v vs %+v", a.Key(), b.Key())
	}
	other, _ := New([]float64{5}, 0, "rival", "", "c.zip", false)
	if a.Key() == other.Key() {
		t.Fatal("different groups must not share a key")
	}
}

func TestFileStem(t *testing.T) {
	c, _ := New([]float64{15}, 2, "GroupX", "", "x.zip", false)
	if got := c.FileStem(false); got != "c015.0.[GroupX]" {
		t.Fatalf("stem = %q", got)
	}
	if got := c.FileStem(true); got != "v2c015.0.[GroupX]" {
		t.Fatalf("stem with volume = %q", got)
	}

	span, _ := New([]float64{12, 13, 14}, 0, "", "", "x.zip", false)
	if got := span.FileStem(false); got != "c012.0-014.0" {
		t.Fatalf("range stem = %q", got)
	}

	volOnly, _ := New(nil, 3, "", "", "x.zip", false)
	if got := volOnly.FileStem(false); got != "v3" {
		t.Fatalf("volume-only stem = %q", got)
	}
}

func TestContains(t *testing.T) {
	c, _ := New([]float64{12, 13}, 0, "", "", "x.zip", false)
	if !c.Contains(13) || c.Contains(14) {
		t.Fatalf("contains misbehaved for %v", c.Numbers)
	}
}
