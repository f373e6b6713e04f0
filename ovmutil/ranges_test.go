// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmutil

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end uint64) Range {
	t.Helper()
	r, err := NewRangeFromUint64s(start, end)
	require.NoError(t, err)
	return r
}

func TestNewRangeRejectsEmpty(t *testing.T) {
	_, err := NewRangeFromUint64s(10, 10)
	require.ErrorIs(t, err, ErrEmptyRange)

	_, err = NewRangeFromUint64s(50, 10)
	require.ErrorIs(t, err, ErrEmptyRange)

	_, err = NewRange(nil, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrEmptyRange)
}

func TestNewRangeCopiesBounds(t *testing.T) {
	start := uint256.NewInt(1)
	end := uint256.NewInt(2)
	r, err := NewRange(start, end)
	require.NoError(t, err)

	start.SetUint64(100)
	require.Equal(t, uint64(1), r.Start.Uint64())
}

func TestRangeOverlaps(t *testing.T) {
	base := mustRange(t, 10, 50)

	require.True(t, base.Overlaps(mustRange(t, 0, 100)))
	require.True(t, base.Overlaps(mustRange(t, 49, 60)))
	require.True(t, base.Overlaps(mustRange(t, 0, 11)))

	// half-open: touching endpoints do not overlap
	require.False(t, base.Overlaps(mustRange(t, 50, 60)))
	require.False(t, base.Overlaps(mustRange(t, 0, 10)))
	require.False(t, base.Overlaps(mustRange(t, 60, 100)))
}

func TestRangeIntersect(t *testing.T) {
	base := mustRange(t, 10, 50)

	got, ok := base.Intersect(mustRange(t, 0, 100))
	require.True(t, ok)
	require.True(t, got.Equals(base))

	got, ok = base.Intersect(mustRange(t, 30, 40))
	require.True(t, ok)
	require.True(t, got.Equals(mustRange(t, 30, 40)))

	got, ok = base.Intersect(mustRange(t, 40, 70))
	require.True(t, ok)
	require.True(t, got.Equals(mustRange(t, 40, 50)))

	_, ok = base.Intersect(mustRange(t, 60, 100))
	require.False(t, ok)

	// the intersection must be a fresh value, not aliased bounds
	got, ok = base.Intersect(mustRange(t, 0, 100))
	require.True(t, ok)
	got.Start.SetUint64(999)
	require.Equal(t, uint64(10), base.Start.Uint64())
}

func TestRangeContains(t *testing.T) {
	base := mustRange(t, 10, 50)

	require.True(t, base.Contains(mustRange(t, 10, 50)))
	require.True(t, base.Contains(mustRange(t, 20, 30)))
	require.False(t, base.Contains(mustRange(t, 9, 30)))
	require.False(t, base.Contains(mustRange(t, 20, 51)))
}

func TestRangeLargeCoordinates(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	almostMax := new(uint256.Int).Sub(max, uint256.NewInt(1))

	r, err := NewRange(almostMax, max)
	require.NoError(t, err)
	require.True(t, r.Valid())
	require.True(t, r.Overlaps(r))

	_, err = NewRange(max, almostMax)
	require.ErrorIs(t, err, ErrEmptyRange)
}
