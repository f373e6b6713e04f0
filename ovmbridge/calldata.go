// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// The execution manager's entrypoint takes a hand-rolled calldata layout
// rather than standard ABI encoding:
//
//	selector("executeCall()") || 32-byte timestamp || 32-byte queue origin
//	|| 32-byte zero-padded rollup target address || original calldata
//
// Both directions below must be byte-exact inverses of each other.

var executeCallSelector = crypto.Keccak256([]byte("executeCall()"))[:4]

const executeCallHeaderLen = 4 + 3*32

// PackExecuteCall wraps a rollup-level call for the execution manager.
func PackExecuteCall(timestamp, queueOrigin *uint256.Int, target common.Address, calldata []byte) []byte {
	packed := make([]byte, 0, executeCallHeaderLen+len(calldata))
	packed = append(packed, executeCallSelector...)
	timestampWord := timestamp.Bytes32()
	packed = append(packed, timestampWord[:]...)
	queueOriginWord := queueOrigin.Bytes32()
	packed = append(packed, queueOriginWord[:]...)
	packed = append(packed, common.LeftPadBytes(target.Bytes(), 32)...)
	packed = append(packed, calldata...)
	return packed
}

// UnpackExecuteCall recovers the four fields packed by PackExecuteCall.
func UnpackExecuteCall(packed []byte) (timestamp, queueOrigin *uint256.Int, target common.Address, calldata []byte, err error) {
	if len(packed) < executeCallHeaderLen {
		err = fmt.Errorf("%w: %d bytes is shorter than the %d byte header",
			ErrMalformedCalldata, len(packed), executeCallHeaderLen)
		return
	}
	if !bytes.Equal(packed[:4], executeCallSelector) {
		err = fmt.Errorf("%w: unexpected selector %x", ErrMalformedCalldata, packed[:4])
		return
	}
	timestamp = new(uint256.Int).SetBytes(packed[4:36])
	queueOrigin = new(uint256.Int).SetBytes(packed[36:68])
	addressWord := packed[68:100]
	if !bytes.Equal(addressWord[:12], make([]byte, 12)) {
		err = fmt.Errorf("%w: target address word has nonzero padding", ErrMalformedCalldata)
		return
	}
	target = common.BytesToAddress(addressWord[12:])
	calldata = append([]byte{}, packed[100:]...)
	return
}
