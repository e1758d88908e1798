package ranges

import (
	"math"
	"testing"
)

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestExpandWholeNumbers(t *testing.T) {
	got, err := Expand(1, 3)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := []float64{1, 2, 3}; !floatsEqual(got, want) {
		t.Fatalf("expand(1,3) = %v, want %v", got, want)
	}
}

func TestExpandFractionalFinalEndpoint(t *testing.T) {
	// Once an endpoint introduces decile sub-numbering, the bare integer is
	// no longer implied, and the final requested endpoint is emitted even
	// though the mid-stream rule would have suppressed it.
	got, err := Expand(1, 4, 4.4)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := []float64{1, 2, 3, 4.1, 4.2, 4.3, 4.4}; !floatsEqual(got, want) {
		t.Fatalf("expand(1,4,4.4) = %v, want %v", got, want)
	}
}

func TestExpandChainedSegments(t *testing.T) {
	got, err := Expand(1, 2, 4)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := []float64{1, 2, 3, 4}; !floatsEqual(got, want) {
		t.Fatalf("expand(1,2,4) = %v, want %v", got, want)
	}
}

func TestExpandSingleValue(t *testing.T) {
	got, err := Expand(7)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := []float64{7}; !floatsEqual(got, want) {
		t.Fatalf("expand(7) = %v, want %v", got, want)
	}
}

func TestExpandRejectsInvertedRange(t *testing.T) {
	if _, err := Expand(5, 2); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestCondense(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []Span
	}{
		{"empty", nil, nil},
		{"single", []float64{4}, []Span{{4, 4}}},
		{"gap", []float64{1, 2, 3, 5}, []Span{{1, 3}, {5, 5}}},
		{"fractional run", []float64{4.1, 4.2, 4.3, 6}, []Span{{4.1, 4.3}, {6, 6}}},
		{"unsorted", []float64{5, 1, 3, 2}, []Span{{1, 3}, {5, 5}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Condense(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("condense(%v) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("condense(%v) = %v, want %v", tc.in, got, tc.want)
				}
			}
		})
	}
}

func TestSpanString(t *testing.T) {
	if got := (Span{1, 3}).String(); got != "1-3" {
		t.Fatalf("span string = %q", got)
	}
	if got := (Span{5, 5}).String(); got != "5" {
		t.Fatalf("span string = %q", got)
	}
	if got := (Span{4.1, 4.3}).String(); got != "4.1-4.3" {
		t.Fatalf("span string = %q", got)
	}
}
