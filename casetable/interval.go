package casetable

import (
	"math"
	"strconv"
	"strings"
)

// Interval is a contiguous, possibly unbounded set of real numbers.
//
// Infinite bounds are always exclusive. If Min == Max, both bounds are
// inclusive; an empty interval is never represented by an Interval value,
// see NewInterval.
type Interval struct {
	MinInclusive bool
	Min          float64
	Max          float64
	MaxInclusive bool
}

// NewInterval returns the interval between min and max, or ok == false if
// that interval contains no number at all.
func NewInterval(minInclusive bool, min, max float64, maxInclusive bool) (iv Interval, ok bool) {
	if math.IsInf(min, 0) {
		minInclusive = false
	}
	if math.IsInf(max, 0) {
		maxInclusive = false
	}
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		return Interval{}, false
	}
	if min == max && !(minInclusive && maxInclusive) {
		return Interval{}, false
	}
	return Interval{minInclusive, min, max, maxInclusive}, true
}

func mustInterval(minInclusive bool, min, max float64, maxInclusive bool) Interval {
	iv, ok := NewInterval(minInclusive, min, max, maxInclusive)
	if !ok {
		panic("empty interval")
	}
	return iv
}

// Contains tells whether v lies in the interval.
func (iv Interval) Contains(v float64) bool {
	switch {
	case v < iv.Min, v > iv.Max:
		return false
	case v == iv.Min && !iv.MinInclusive:
		return false
	case v == iv.Max && !iv.MaxInclusive:
		return false
	}
	return !math.IsNaN(v)
}

func (iv Interval) String() string {
	var sb strings.Builder
	if iv.MinInclusive {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	sb.WriteString(formatBound(iv.Min))
	sb.WriteString(", ")
	sb.WriteString(formatBound(iv.Max))
	if iv.MaxInclusive {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

func formatBound(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// IntervalSet is an ordered list of disjoint intervals.
// The empty set means that no number satisfies the conditions.
type IntervalSet []Interval

// Everything is the whole real line, the identity element of Intersect.
func Everything() IntervalSet {
	return IntervalSet{{false, math.Inf(-1), math.Inf(1), false}}
}

func (s IntervalSet) IsEmpty() bool { return len(s) == 0 }

// Contains tells whether v lies in one of the intervals.
func (s IntervalSet) Contains(v float64) bool {
	for _, iv := range s {
		if iv.Contains(v) {
			return true
		}
	}
	return false
}

func (s IntervalSet) String() string {
	if len(s) == 0 {
		return "∅"
	}
	parts := make([]string, len(s))
	for i, iv := range s {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " ∪ ")
}

// Intersect returns the numbers that are in both a and b.
//
// Each interval of a is intersected with each interval of b. The lower bound
// of a pair is the larger of the two minimums, the upper bound the smaller of
// the two maximums. If both intervals share a bound, that bound is inclusive
// only if it is inclusive in both. Pairs that don't overlap, or only touch at
// an excluded point, are dropped.
func Intersect(a, b IntervalSet) IntervalSet {
	var result IntervalSet
	for _, x := range a {
		for _, y := range b {
			minIncl, min := x.MinInclusive, x.Min
			switch {
			case y.Min > x.Min:
				minIncl, min = y.MinInclusive, y.Min
			case y.Min == x.Min:
				minIncl = x.MinInclusive && y.MinInclusive
			}
			maxIncl, max := x.MaxInclusive, x.Max
			switch {
			case y.Max < x.Max:
				maxIncl, max = y.MaxInclusive, y.Max
			case y.Max == x.Max:
				maxIncl = x.MaxInclusive && y.MaxInclusive
			}
			if iv, ok := NewInterval(minIncl, min, max, maxIncl); ok {
				result = append(result, iv)
			}
		}
	}
	return result
}

// IntersectAll folds Intersect over the sets, starting with Everything.
func IntersectAll(sets ...IntervalSet) IntervalSet {
	acc := Everything()
	for _, s := range sets {
		acc = Intersect(acc, s)
	}
	return acc
}
