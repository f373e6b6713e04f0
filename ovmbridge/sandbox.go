// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// The execution manager doubles as the durable hash-mapping table: the
// association between a rollup transaction hash and the internal
// transaction that carried it lives in the contract's storage. Everything
// below speaks the contract's call shapes; the opcode interpretation
// behind them is the sandbox's business.
const executionManagerJSON = `[
	{"type":"function","name":"getCodeContractAddress","stateMutability":"view","inputs":[{"name":"ovmContract","type":"address"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"mapOvmTxHashToInternalTxHash","stateMutability":"nonpayable","inputs":[{"name":"ovmTxHash","type":"bytes32"},{"name":"internalTxHash","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"getOvmTxHashMapping","stateMutability":"view","inputs":[{"name":"ovmTxHash","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32"}]}
]`

var executionManagerABI = mustParseABI(executionManagerJSON)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// HashMappingStore is the durable ovmTxHash -> internalTxHash association.
// A mapping is written exactly once per submitted transaction; a later
// read returning a different hash than was written is a protocol
// violation, not a recoverable condition.
type HashMappingStore interface {
	// StoreHashMapping persists the pair, consuming the given underlying
	// nonce. The caller owns nonce allocation and ordering.
	StoreHashMapping(ctx context.Context, ovmTxHash, internalTxHash common.Hash, nonce uint64) error
	InternalTxHash(ctx context.Context, ovmTxHash common.Hash) (common.Hash, error)
}

// SandboxMappingStore persists hash mappings in the execution manager's
// storage: writes are signed underlying transactions, reads are eth_call.
type SandboxMappingStore struct {
	ledger           LedgerClient
	signer           types.Signer
	key              *ecdsa.PrivateKey
	executionManager common.Address
	gasLimit         uint64
}

func NewSandboxMappingStore(ledger LedgerClient, signer types.Signer, key *ecdsa.PrivateKey, executionManager common.Address, gasLimit uint64) *SandboxMappingStore {
	return &SandboxMappingStore{
		ledger:           ledger,
		signer:           signer,
		key:              key,
		executionManager: executionManager,
		gasLimit:         gasLimit,
	}
}

func (s *SandboxMappingStore) StoreHashMapping(ctx context.Context, ovmTxHash, internalTxHash common.Hash, nonce uint64) error {
	calldata, err := executionManagerABI.Pack("mapOvmTxHashToInternalTxHash", ovmTxHash, internalTxHash)
	if err != nil {
		return fmt.Errorf("packing hash mapping write: %w", err)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: new(big.Int),
		Gas:      s.gasLimit,
		To:       &s.executionManager,
		Value:    new(big.Int),
		Data:     calldata,
	})
	signed, err := types.SignTx(tx, s.signer, s.key)
	if err != nil {
		return fmt.Errorf("signing hash mapping write: %w", err)
	}
	if _, err := s.ledger.SubmitTransaction(ctx, signed); err != nil {
		return fmt.Errorf("submitting hash mapping write: %w", err)
	}
	return nil
}

func (s *SandboxMappingStore) InternalTxHash(ctx context.Context, ovmTxHash common.Hash) (common.Hash, error) {
	calldata, err := executionManagerABI.Pack("getOvmTxHashMapping", ovmTxHash)
	if err != nil {
		return common.Hash{}, fmt.Errorf("packing hash mapping read: %w", err)
	}
	out, err := s.ledger.CallContract(ctx, ethereum.CallMsg{To: &s.executionManager, Data: calldata}, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("reading hash mapping: %w", err)
	}
	values, err := executionManagerABI.Unpack("getOvmTxHashMapping", out)
	if err != nil {
		return common.Hash{}, fmt.Errorf("decoding hash mapping: %w", err)
	}
	mapped, ok := values[0].([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("decoding hash mapping: unexpected type %T", values[0])
	}
	return common.Hash(mapped), nil
}
