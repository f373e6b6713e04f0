// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Predicate is pluggable transition logic for state governed by one
// predicate identifier. Implementations are loaded by the embedding node;
// the engine only dispatches to them.
type Predicate interface {
	// ExecuteStateTransition computes the candidate StateUpdate resulting
	// from applying tx to one previously verified piece of state.
	ExecuteStateTransition(ctx context.Context, verified VerifiedStateUpdate, verifiedBlockNumber uint64, tx Transaction) (StateUpdate, error)
}

// PredicateRegistry maps predicate identifiers to implementations.
// Safe for concurrent use.
type PredicateRegistry struct {
	mutex      sync.RWMutex
	predicates map[common.Address]Predicate
}

func NewPredicateRegistry() *PredicateRegistry {
	return &PredicateRegistry{
		predicates: make(map[common.Address]Predicate),
	}
}

func (r *PredicateRegistry) Register(id common.Address, predicate Predicate) error {
	if predicate == nil {
		return fmt.Errorf("nil predicate for %v", id)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.predicates[id]; ok {
		return fmt.Errorf("predicate %v already registered", id)
	}
	r.predicates[id] = predicate
	return nil
}

func (r *PredicateRegistry) Resolve(id common.Address) (Predicate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	predicate, ok := r.predicates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPredicate, id)
	}
	return predicate, nil
}
