// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmstate

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ovmlabs/rollup-core/ovmutil"
)

// StateObject names the predicate governing a range, together with the
// opaque parameters that predicate interprets. The core never looks inside
// Parameters.
type StateObject struct {
	Predicate  common.Address `json:"predicate"`
	Parameters []byte         `json:"parameters"`
}

func (s StateObject) Equals(other StateObject) bool {
	return s.Predicate == other.Predicate && bytes.Equal(s.Parameters, other.Parameters)
}

// StateUpdate claims that StateObject holds over Range as of BlockNumber.
type StateUpdate struct {
	Range       ovmutil.Range `json:"range"`
	StateObject StateObject   `json:"stateObject"`
	BlockNumber uint64        `json:"blockNumber"`
}

func (u StateUpdate) Equals(other StateUpdate) bool {
	return u.Range.Equals(other.Range) &&
		u.StateObject.Equals(other.StateObject) &&
		u.BlockNumber == other.BlockNumber
}

// VerifiedStateUpdate is a StateUpdate confirmed valid through
// VerifiedBlockNumber. It is produced and owned by the external state
// store; the engine only reads it.
type VerifiedStateUpdate struct {
	Update              StateUpdate `json:"stateUpdate"`
	VerifiedBlockNumber uint64      `json:"verifiedBlockNumber"`
}

func (v VerifiedStateUpdate) Validate() error {
	if !v.Update.Range.Valid() {
		return fmt.Errorf("verified update has invalid range %v", v.Update.Range)
	}
	if v.Update.StateObject.Predicate == (common.Address{}) {
		return errors.New("verified update names no predicate")
	}
	return nil
}

// Transaction is a client's request to advance state over a sub-range.
// Immutable once submitted.
type Transaction struct {
	Range     ovmutil.Range  `json:"range"`
	Predicate common.Address `json:"predicate"`
	Body      []byte         `json:"body"`
}

func (tx Transaction) Validate() error {
	if !tx.Range.Valid() {
		return fmt.Errorf("transaction has invalid range %v", tx.Range)
	}
	if tx.Predicate == (common.Address{}) {
		return errors.New("transaction names no predicate")
	}
	return nil
}

// TransactionResult is the merged outcome of executing one transaction
// against all overlapping verified state. ValidRanges are pairwise
// disjoint, ordered, and contained in the transaction's range.
type TransactionResult struct {
	StateUpdate StateUpdate     `json:"stateUpdate"`
	ValidRanges []ovmutil.Range `json:"validRanges"`
}
