// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmstate

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ovmlabs/rollup-core/ovmutil"
)

// HistoryProof attests to the history of a range up to SnapshotBlockNumber.
// The proof format is opaque to the engine until verification is built out.
type HistoryProof struct {
	Range               ovmutil.Range `json:"range"`
	SnapshotBlockNumber uint64        `json:"snapshotBlockNumber"`
	Proof               []byte        `json:"proof"`
}

// StateQuery asks a predicate a question about state within a range.
type StateQuery struct {
	Range      ovmutil.Range  `json:"range"`
	Predicate  common.Address `json:"predicate"`
	Method     string         `json:"method"`
	Parameters [][]byte       `json:"parameters"`
}

type StateQueryResult struct {
	Range   ovmutil.Range `json:"range"`
	Results [][]byte      `json:"results"`
}

// IngestHistoryProof will verify and absorb a historical proof of state.
// The verification algorithm is an extension point and is not implemented.
func (e *Engine) IngestHistoryProof(ctx context.Context, proof HistoryProof) error {
	return ErrNotImplemented
}

// QueryState will answer arbitrary predicate queries over verified state.
// The query semantics are an extension point and are not implemented.
func (e *Engine) QueryState(ctx context.Context, query StateQuery) (*StateQueryResult, error) {
	return nil, ErrNotImplemented
}
