// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmutil

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Range is a half-open interval [Start, End) over the 256-bit unsigned
// state coordinate space. A valid Range always has Start < End.
type Range struct {
	Start *uint256.Int `json:"start"`
	End   *uint256.Int `json:"end"`
}

var ErrEmptyRange = errors.New("range start must be less than range end")

// NewRange copies its arguments, so callers may reuse them.
func NewRange(start, end *uint256.Int) (Range, error) {
	if start == nil || end == nil {
		return Range{}, fmt.Errorf("%w: nil bound", ErrEmptyRange)
	}
	if !start.Lt(end) {
		return Range{}, fmt.Errorf("%w: [%v, %v)", ErrEmptyRange, start, end)
	}
	return Range{Start: start.Clone(), End: end.Clone()}, nil
}

// NewRangeFromUint64s is a convenience constructor for small coordinates.
func NewRangeFromUint64s(start, end uint64) (Range, error) {
	return NewRange(uint256.NewInt(start), uint256.NewInt(end))
}

func (r Range) Valid() bool {
	return r.Start != nil && r.End != nil && r.Start.Lt(r.End)
}

// Overlaps reports whether the two half-open intervals share any point.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Lt(other.End) && other.Start.Lt(r.End)
}

// Intersect returns the overlap of the two ranges. ok is false when the
// ranges are disjoint; the returned Range is never inverted.
func (r Range) Intersect(other Range) (Range, bool) {
	if !r.Overlaps(other) {
		return Range{}, false
	}
	start := r.Start
	if other.Start.Gt(start) {
		start = other.Start
	}
	end := r.End
	if other.End.Lt(end) {
		end = other.End
	}
	return Range{Start: start.Clone(), End: end.Clone()}, true
}

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return !other.Start.Lt(r.Start) && !other.End.Gt(r.End)
}

func (r Range) Equals(other Range) bool {
	return r.Start.Eq(other.Start) && r.End.Eq(other.End)
}

func (r Range) Clone() Range {
	return Range{Start: r.Start.Clone(), End: r.End.Clone()}
}

func (r Range) String() string {
	if r.Start == nil || r.End == nil {
		return "[nil, nil)"
	}
	return fmt.Sprintf("[%v, %v)", r.Start, r.End)
}
