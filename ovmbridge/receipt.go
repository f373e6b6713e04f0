// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// PlaceholderSender stands in for the rollup-level sender in translated
// receipts. Account abstraction is not modeled at this layer.
var PlaceholderSender = common.HexToAddress("0xdeaddeaddeaddeaddeaddeaddeaddeaddeaddead")

// LogTranslator rewrites underlying-ledger logs into their rollup-level
// form. The production decoder lives outside this module; the bridge only
// depends on this surface.
type LogTranslator interface {
	TranslateLogs(ctx context.Context, logs []*types.Log) ([]*types.Log, error)
	// CreatedContract extracts the rollup-level address of a contract
	// created by the transaction, if any.
	CreatedContract(ctx context.Context, logs []*types.Log) (*common.Address, error)
}

// PassthroughLogTranslator leaves logs untouched. Useful for tests and for
// deployments that do not index rollup events.
type PassthroughLogTranslator struct{}

func (PassthroughLogTranslator) TranslateLogs(ctx context.Context, logs []*types.Log) ([]*types.Log, error) {
	return logs, nil
}

func (PassthroughLogTranslator) CreatedContract(ctx context.Context, logs []*types.Log) (*common.Address, error) {
	return nil, nil
}

// Receipt is a receipt in rollup semantics: hashes and addresses refer to
// the rollup transaction, never to the internal transaction that carried
// it.
type Receipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       *hexutil.Big    `json:"blockNumber"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	ContractAddress   *common.Address `json:"contractAddress"`
	Logs              []*types.Log    `json:"logs"`
	LogsBloom         types.Bloom     `json:"logsBloom"`
	Status            hexutil.Uint64  `json:"status"`
}

// translateReceipt rewrites an underlying-ledger receipt into rollup
// semantics: the hash becomes the rollup transaction hash, `to` the rollup
// entrypoint recovered from the internal calldata, `from` the placeholder
// sender, and logs go through the external decoder.
func (b *Bridge) translateReceipt(ctx context.Context, ovmTxHash common.Hash, internalTx *types.Transaction, receipt *types.Receipt) (*Receipt, error) {
	_, _, entrypoint, _, err := UnpackExecuteCall(internalTx.Data())
	if err != nil {
		return nil, fmt.Errorf("recovering rollup entrypoint from internal calldata: %w", err)
	}
	logs, err := b.logs.TranslateLogs(ctx, receipt.Logs)
	if err != nil {
		return nil, fmt.Errorf("translating logs: %w", err)
	}
	created, err := b.logs.CreatedContract(ctx, receipt.Logs)
	if err != nil {
		return nil, fmt.Errorf("extracting created contract: %w", err)
	}

	translated := &Receipt{
		TransactionHash:   ovmTxHash,
		TransactionIndex:  hexutil.Uint64(receipt.TransactionIndex),
		BlockHash:         receipt.BlockHash,
		BlockNumber:       (*hexutil.Big)(receipt.BlockNumber),
		From:              PlaceholderSender,
		To:                &entrypoint,
		GasUsed:           hexutil.Uint64(receipt.GasUsed),
		CumulativeGasUsed: hexutil.Uint64(receipt.CumulativeGasUsed),
		ContractAddress:   created,
		Logs:              logs,
		LogsBloom:         receipt.Bloom,
		Status:            hexutil.Uint64(receipt.Status),
	}
	if translated.Logs == nil {
		translated.Logs = []*types.Log{}
	}
	return translated, nil
}
