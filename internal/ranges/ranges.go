package ranges

import (
	"fmt"
	"math"
	"sort"
)

// Span is an inclusive run of chapter numbers.
type Span struct {
	Start float64
	End   float64
}

func (s Span) String() string {
	if s.Start == s.End {
		return trimFloat(s.Start)
	}
	return trimFloat(s.Start) + "-" + trimFloat(s.End)
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// Expand produces the chapter numbers from start through each end in turn.
// Consecutive ends chain: each segment begins where the previous one left
// off. Within a segment the finest decile seen at either endpoint governs
// granularity: Expand(1, 3) is [1 2 3] while Expand(1, 4, 4.4) is
// [1 2 3 4.1 4.2 4.3 4.4] (once sub-numbering appears, the bare integer is
// not implied). A segment's endpoint is suppressed mid-stream so it does not
// duplicate the next segment's start; the overall final endpoint is always
// emitted exactly once at the end.
func Expand(start float64, ends ...float64) ([]float64, error) {
	var out []float64
	last := start
	for _, end := range ends {
		seg, err := segment(start, end)
		if err != nil {
			return nil, err
		}
		for _, v := range seg {
			last = v
			if v != end {
				out = append(out, v)
			}
		}
		start = last
	}
	out = append(out, last)
	return out, nil
}

// segment yields every chapter number in [start, end], using decile
// sub-numbers when either endpoint carries a fractional part above .1.
func segment(start, end float64) ([]float64, error) {
	if start > end {
		return nil, fmt.Errorf("ranges: start %v exceeds end %v", start, end)
	}
	lo := math.Floor(start)
	hi := math.Floor(end)
	sub := math.Max(math.Round(10*(start-lo)), math.Round(10*(end-hi)))
	if sub < 0 {
		sub = 0
	}

	var out []float64
	for x := lo; x <= hi; x++ {
		if sub > 1 {
			for s := 1.0; s <= sub; s++ {
				y := round1(x + s/10)
				if y < start || y > end {
					continue
				}
				out = append(out, y)
			}
		} else {
			out = append(out, x)
		}
	}
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Condense collapses a set of chapter numbers into minimal inclusive spans:
// {1,2,3,5} becomes [(1,3) (5,5)]. Each run's expected step is inferred from
// the fractional part of its first element (so 4.1,4.2,4.3 condenses with a
// step of 0.1) and defaults to 1; any gap wider than the step begins a new
// span.
func Condense(nums []float64) []Span {
	if len(nums) == 0 {
		return nil
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	var spans []Span
	start, end := sorted[0], sorted[0]
	step := runStep(sorted[0])
	for _, v := range sorted[1:] {
		if v > round3(end+step) {
			spans = append(spans, Span{Start: start, End: end})
			start, end = v, v
			step = runStep(v)
			continue
		}
		end = v
	}
	return append(spans, Span{Start: start, End: end})
}

func runStep(first float64) float64 {
	step := round3(first - math.Trunc(first))
	if step == 0 {
		return 1
	}
	return step
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
