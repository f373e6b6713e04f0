// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/ovmlabs/rollup-core/ovmutil"
)

var (
	ErrInvalidTransaction     = errors.New("invalid transaction")
	ErrInvalidVerifiedUpdate  = errors.New("invalid verified state update")
	ErrRangeMismatch          = errors.New("verified state range mismatch")
	ErrUnknownPredicate       = errors.New("unknown predicate")
	ErrBlockNumberMismatch    = errors.New("state update block number mismatch")
	ErrInconsistentTransition = errors.New("inconsistent state transition")
	ErrNoVerifiedState        = errors.New("no verified state overlaps transaction range")
	ErrNotImplemented         = errors.New("not implemented")
)

// VerifiedStateStore is the external store of previously verified state.
// Updates are returned ordered by range start and pairwise disjoint; the
// engine treats violations of that contract as errors, never silently.
type VerifiedStateStore interface {
	GetVerifiedStateUpdates(ctx context.Context, start, end *uint256.Int) ([]VerifiedStateUpdate, error)
}

// Engine validates client transactions against previously verified state,
// delegating the transition itself to the predicate registered for each
// overlapping piece. It holds no mutable state and performs no writes, so
// it is safe to call concurrently; committing results is the caller's job.
type Engine struct {
	store      VerifiedStateStore
	predicates *PredicateRegistry
}

func NewEngine(store VerifiedStateStore, predicates *PredicateRegistry) *Engine {
	return &Engine{
		store:      store,
		predicates: predicates,
	}
}

// ExecuteTransaction runs tx against every verified update overlapping its
// range and merges the per-piece results into one TransactionResult. All
// pieces of a single transaction must transition to the same StateUpdate,
// and every piece must advance exactly one block past its verified block.
func (e *Engine) ExecuteTransaction(ctx context.Context, tx Transaction) (*TransactionResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	verifiedUpdates, err := e.store.GetVerifiedStateUpdates(ctx, tx.Range.Start, tx.Range.End)
	if err != nil {
		return nil, fmt.Errorf("querying verified state for %v: %w", tx.Range, err)
	}
	if len(verifiedUpdates) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoVerifiedState, tx.Range)
	}

	var merged *StateUpdate
	validRanges := make([]ovmutil.Range, 0, len(verifiedUpdates))
	for _, verified := range verifiedUpdates {
		if err := verified.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidVerifiedUpdate, err)
		}
		overlap, ok := tx.Range.Intersect(verified.Update.Range)
		if !ok {
			return nil, fmt.Errorf("%w: verified range %v is disjoint from transaction range %v",
				ErrRangeMismatch, verified.Update.Range, tx.Range)
		}
		if last := len(validRanges) - 1; last >= 0 && overlap.Start.Lt(validRanges[last].End) {
			return nil, fmt.Errorf("%w: verified range %v overlaps a previously returned range",
				ErrRangeMismatch, verified.Update.Range)
		}

		predicate, err := e.predicates.Resolve(verified.Update.StateObject.Predicate)
		if err != nil {
			return nil, err
		}
		candidate, err := predicate.ExecuteStateTransition(ctx, verified, verified.VerifiedBlockNumber, tx)
		if err != nil {
			return nil, fmt.Errorf("predicate %v over %v: %w",
				verified.Update.StateObject.Predicate, overlap, err)
		}
		if candidate.BlockNumber != verified.VerifiedBlockNumber+1 {
			return nil, fmt.Errorf("%w: predicate returned block %d, verified block is %d",
				ErrBlockNumberMismatch, candidate.BlockNumber, verified.VerifiedBlockNumber)
		}

		if merged == nil {
			update := candidate
			merged = &update
		} else if !merged.Equals(candidate) {
			return nil, fmt.Errorf("%w: transaction %v produced differing updates across verified pieces",
				ErrInconsistentTransition, tx.Range)
		}
		validRanges = append(validRanges, overlap)
	}

	log.Debug("executed state transition", "txRange", tx.Range,
		"pieces", len(validRanges), "blockNumber", merged.BlockNumber)
	return &TransactionResult{
		StateUpdate: *merged,
		ValidRanges: validRanges,
	}, nil
}
