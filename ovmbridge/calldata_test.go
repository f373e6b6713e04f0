// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ovmlabs/rollup-core/util/testhelpers"
)

func TestExecuteCallRoundTrip(t *testing.T) {
	timestamp := new(uint256.Int).SetBytes(testhelpers.RandomSlice(32))
	queueOrigin := uint256.NewInt(testhelpers.RandomUint64(0, 1<<32))
	target := testhelpers.RandomAddress()
	calldata := testhelpers.RandomSlice(117)

	packed := PackExecuteCall(timestamp, queueOrigin, target, calldata)
	require.Len(t, packed, executeCallHeaderLen+len(calldata))

	gotTimestamp, gotQueueOrigin, gotTarget, gotCalldata, err := UnpackExecuteCall(packed)
	require.NoError(t, err)
	require.True(t, timestamp.Eq(gotTimestamp))
	require.True(t, queueOrigin.Eq(gotQueueOrigin))
	require.Equal(t, target, gotTarget)
	require.Equal(t, calldata, gotCalldata)
}

func TestExecuteCallEmptyCalldata(t *testing.T) {
	packed := PackExecuteCall(uint256.NewInt(1), uint256.NewInt(0), testhelpers.RandomAddress(), nil)
	require.Len(t, packed, executeCallHeaderLen)

	_, _, _, calldata, err := UnpackExecuteCall(packed)
	require.NoError(t, err)
	require.Empty(t, calldata)
}

func TestUnpackExecuteCallTruncated(t *testing.T) {
	packed := PackExecuteCall(uint256.NewInt(1), uint256.NewInt(2), testhelpers.RandomAddress(), nil)

	for _, cut := range []int{0, 3, 4, executeCallHeaderLen - 1} {
		_, _, _, _, err := UnpackExecuteCall(packed[:cut])
		require.ErrorIs(t, err, ErrMalformedCalldata, "length %d", cut)
	}
}

func TestUnpackExecuteCallWrongSelector(t *testing.T) {
	packed := PackExecuteCall(uint256.NewInt(1), uint256.NewInt(2), testhelpers.RandomAddress(), nil)
	packed[0] ^= 0xff

	_, _, _, _, err := UnpackExecuteCall(packed)
	require.ErrorIs(t, err, ErrMalformedCalldata)
}

func TestUnpackExecuteCallDirtyAddressPadding(t *testing.T) {
	packed := PackExecuteCall(uint256.NewInt(1), uint256.NewInt(2), testhelpers.RandomAddress(), nil)
	packed[4+64] = 0x01 // first byte of the address word's zero padding

	_, _, _, _, err := UnpackExecuteCall(packed)
	require.ErrorIs(t, err, ErrMalformedCalldata)
}

func TestUnpackDoesNotAliasInput(t *testing.T) {
	calldata := testhelpers.RandomSlice(16)
	packed := PackExecuteCall(uint256.NewInt(1), uint256.NewInt(2), testhelpers.RandomAddress(), calldata)

	_, _, _, unpacked, err := UnpackExecuteCall(packed)
	require.NoError(t, err)
	packed[executeCallHeaderLen] ^= 0xff
	require.Equal(t, calldata, unpacked)
}
