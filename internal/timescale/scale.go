// Package timescale maps calendar dates to horizontal positions so that N
// irregularly spaced events land evenly spaced across a track, while any
// other date interpolates between (or extrapolates beyond) them.
package timescale

import (
	"slices"
	"sort"
	"time"
)

// Scale is a piecewise-linear date → x mapping. A Scale is immutable once
// built and safe to share.
type Scale struct {
	domain []float64 // unix milliseconds, non-decreasing
	rng    []float64
}

// New builds the scale for the given event dates laid out over width with
// padding on both sides. The input slice is not modified.
func New(dates []time.Time, width, padding float64) *Scale {
	if len(dates) == 0 {
		return &Scale{}
	}

	sorted := slices.Clone(dates)
	slices.SortStableFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })

	n := len(sorted)
	available := width - 2*padding
	step := available / float64(max(1, n-1))

	domain := make([]float64, 0, n+2)
	rng := make([]float64, 0, n+2)

	domain = append(domain, millis(sorted[0].AddDate(-1, 0, 0)))
	rng = append(rng, padding-step)
	for i, d := range sorted {
		domain = append(domain, millis(d))
		rng = append(rng, padding+float64(i)*step)
	}
	domain = append(domain, millis(sorted[n-1].AddDate(1, 0, 0)))
	rng = append(rng, width-padding+step)

	return &Scale{domain: domain, rng: rng}
}

// Empty reports whether the scale was built from no events.
func (s *Scale) Empty() bool { return len(s.domain) == 0 }

// Len returns the number of control points, synthetic ones included.
func (s *Scale) Len() int { return len(s.domain) }

// Domain returns the control dates in order.
func (s *Scale) Domain() []time.Time {
	out := make([]time.Time, len(s.domain))
	for i, ms := range s.domain {
		out[i] = time.UnixMilli(int64(ms)).UTC()
	}
	return out
}

// Range returns the control x positions in order.
func (s *Scale) Range() []float64 { return slices.Clone(s.rng) }

// At returns the x position of t. An empty scale returns 0 for every date.
func (s *Scale) At(t time.Time) float64 {
	if s.Empty() {
		return 0
	}
	x := millis(t)

	// Upper bound: first control strictly after x. Picking the segment this
	// way never lands on a zero-length span between duplicate dates.
	i := sort.Search(len(s.domain), func(i int) bool { return s.domain[i] > x })
	switch {
	case i == 0:
		i = 1
	case i == len(s.domain):
		i = len(s.domain) - 1
	}
	return interpolate(s.domain[i-1], s.domain[i], s.rng[i-1], s.rng[i], x)
}

func interpolate(d0, d1, r0, r1, x float64) float64 {
	if d1 == d0 {
		return r0
	}
	return r0 + (x-d0)/(d1-d0)*(r1-r0)
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
