// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
)

// CallArgs is the transaction object accepted by eth_call and
// eth_estimateGas. Only To and Data participate in execution manager
// repacking; the rest ride along for client compatibility.
type CallArgs struct {
	From     *common.Address `json:"from"`
	To       *common.Address `json:"to"`
	Gas      *hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value"`
	Data     *hexutil.Bytes  `json:"data"`
}

// Bridge presents a standard ledger-RPC method surface while routing all
// execution through the execution manager sandbox, and maintains the
// rollup-hash to underlying-hash correspondence needed to resolve
// receipts.
//
// All nonce-consuming work is serialized through sendMutex: the mapping
// write for a transaction must land on the nonce immediately before the
// transaction itself, so concurrent senders queue. Read-only methods run
// unserialized.
type Bridge struct {
	config           *BridgeConfig
	ledger           LedgerClient
	signer           types.Signer
	key              *ecdsa.PrivateKey
	sender           common.Address
	executionManager common.Address
	queueOrigin      *uint256.Int
	mappings         HashMappingStore
	logs             LogTranslator
	now              func() time.Time

	sendMutex  sync.Mutex
	nextNonce  uint64
	nonceKnown bool

	mappingCache *lru.Cache[common.Hash, common.Hash]

	eventMutex     sync.Mutex
	lastEventBlock uint64
}

// NewBridge wires a bridge to the underlying ledger using the single
// signing identity in key. mappings and logs may be nil, in which case the
// execution-manager-backed store and the passthrough translator are used.
func NewBridge(ctx context.Context, config *BridgeConfig, ledger LedgerClient, key *ecdsa.PrivateKey) (*Bridge, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("bridge config: %w", err)
	}
	ledgerChainID, err := ledger.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching underlying chain id: %w", err)
	}
	signer := types.LatestSignerForChainID(ledgerChainID)
	cache, err := lru.New[common.Hash, common.Hash](config.MappingCacheSize)
	if err != nil {
		return nil, err
	}
	b := &Bridge{
		config:           config,
		ledger:           ledger,
		signer:           signer,
		key:              key,
		sender:           crypto.PubkeyToAddress(key.PublicKey),
		executionManager: config.executionManager(),
		queueOrigin:      uint256.NewInt(config.QueueOrigin),
		logs:             PassthroughLogTranslator{},
		now:              time.Now,
		mappingCache:     cache,
	}
	b.mappings = NewSandboxMappingStore(ledger, signer, key, b.executionManager, config.DefaultGasLimit)
	log.Info("execution bridge initialized",
		"sender", b.sender, "executionManager", b.executionManager,
		"underlyingChainId", ledgerChainID, "networkVersion", config.ChainID,
		"opcodeWhitelistMask", config.OpcodeWhitelistMask)
	return b, nil
}

// SetHashMappingStore overrides the execution-manager-backed store.
func (b *Bridge) SetHashMappingStore(store HashMappingStore) { b.mappings = store }

// SetLogTranslator installs the external rollup log decoder.
func (b *Bridge) SetLogTranslator(translator LogTranslator) { b.logs = translator }

func (b *Bridge) Sender() common.Address { return b.sender }

// retryRead retries an idempotent read-only ledger call with exponential
// backoff. Never use this for nonce-consuming calls.
func (b *Bridge) retryRead(ctx context.Context, method string, fn func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), b.config.ReadRetries), ctx)
	return backoff.RetryNotify(fn, policy, func(err error, wait time.Duration) {
		log.Debug("retrying read-only ledger call", "method", method, "err", err, "wait", wait)
	})
}

func (b *Bridge) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	var number uint64
	err := b.retryRead(ctx, "eth_blockNumber", func() error {
		var err error
		number, err = b.ledger.BlockNumber(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("fetching block number: %w", err)
	}
	return hexutil.Uint64(number), nil
}

// GasPrice is fixed to zero: execution is subsidized.
func (b *Bridge) GasPrice(ctx context.Context) (*hexutil.Big, error) {
	return (*hexutil.Big)(new(big.Int)), nil
}

func (b *Bridge) NetworkVersion(ctx context.Context) (string, error) {
	return strconv.FormatUint(b.config.ChainID, 10), nil
}

func (b *Bridge) GetExecutionManagerAddress(ctx context.Context) (common.Address, error) {
	return b.executionManager, nil
}

func (b *Bridge) GetTransactionCount(ctx context.Context, address common.Address, blockTag *string) (hexutil.Uint64, error) {
	blockNumber, err := parseBlockTag(blockTag)
	if err != nil {
		return 0, err
	}
	var nonce uint64
	err = b.retryRead(ctx, "eth_getTransactionCount", func() error {
		var err error
		nonce, err = b.ledger.NonceAt(ctx, address, blockNumber)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("fetching transaction count: %w", err)
	}
	return hexutil.Uint64(nonce), nil
}

// Call repacks {to, data} into the execution manager's calldata layout and
// forwards. Read-only, no side effects.
func (b *Bridge) Call(ctx context.Context, args CallArgs, blockTag *string) (hexutil.Bytes, error) {
	msg := b.executionManagerCallMsg(args)
	var out []byte
	err := b.retryRead(ctx, "eth_call", func() error {
		var err error
		out, err = b.ledger.CallContract(ctx, msg, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("forwarding call: %w", err)
	}
	return out, nil
}

func (b *Bridge) EstimateGas(ctx context.Context, args CallArgs, blockTag *string) (hexutil.Uint64, error) {
	msg := b.executionManagerCallMsg(args)
	var gas uint64
	err := b.retryRead(ctx, "eth_estimateGas", func() error {
		var err error
		gas, err = b.ledger.EstimateGas(ctx, msg)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("estimating gas: %w", err)
	}
	return hexutil.Uint64(gas), nil
}

// GetCode resolves the rollup logical address to the underlying deployed
// code contract via the execution manager, then fetches code there. Only
// the "latest" block tag is supported.
func (b *Bridge) GetCode(ctx context.Context, address common.Address, blockTag *string) (hexutil.Bytes, error) {
	if err := requireLatestTag(blockTag); err != nil {
		return nil, err
	}
	resolved, err := b.resolveCodeContract(ctx, address)
	if err != nil {
		return nil, err
	}
	var code []byte
	err = b.retryRead(ctx, "eth_getCode", func() error {
		var err error
		code, err = b.ledger.CodeAt(ctx, resolved, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching code at %v: %w", resolved, err)
	}
	return code, nil
}

// GetTransactionReceipt resolves the internal transaction hash recorded at
// submission time and translates the underlying receipt back into rollup
// semantics. Returns nil for unknown or not-yet-mined transactions,
// matching standard ledger client expectations.
func (b *Bridge) GetTransactionReceipt(ctx context.Context, ovmTxHash common.Hash) (*Receipt, error) {
	internalHash, ok := b.mappingCache.Get(ovmTxHash)
	if !ok {
		var err error
		internalHash, err = b.mappings.InternalTxHash(ctx, ovmTxHash)
		if err != nil {
			return nil, fmt.Errorf("resolving hash mapping for %v: %w", ovmTxHash, err)
		}
		if internalHash == (common.Hash{}) {
			return nil, nil
		}
		b.mappingCache.Add(ovmTxHash, internalHash)
	}

	receipt, err := b.ledger.TransactionReceipt(ctx, internalHash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching receipt for internal tx %v: %w", internalHash, err)
	}
	internalTx, _, err := b.ledger.TransactionByHash(ctx, internalHash)
	if err != nil {
		return nil, fmt.Errorf("fetching internal tx %v: %w", internalHash, err)
	}
	return b.translateReceipt(ctx, ovmTxHash, internalTx, receipt)
}

// SendRawTransaction submits a signed rollup transaction. The hash mapping
// is written with nonce N and the internal transaction follows on N+1, so
// the whole sequence holds sendMutex. Not retried on failure: a retry
// risks duplicate submission, so the caller decides.
func (b *Bridge) SendRawTransaction(ctx context.Context, raw hexutil.Bytes) (common.Hash, error) {
	ovmTx := new(types.Transaction)
	if err := ovmTx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, fmt.Errorf("%w: undecodable transaction: %v", ErrInvalidParameters, err)
	}
	ovmTxHash := ovmTx.Hash()

	b.sendMutex.Lock()
	defer b.sendMutex.Unlock()

	nonce, err := b.reserveNonce(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	target := common.Address{} // contract creation routes to the zero entrypoint
	if to := ovmTx.To(); to != nil {
		target = *to
	}
	timestamp := uint256.NewInt(uint64(b.now().Unix()))
	calldata := PackExecuteCall(timestamp, b.queueOrigin, target, ovmTx.Data())
	internalTx, err := types.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce + 1,
		GasPrice: new(big.Int),
		Gas:      b.config.DefaultGasLimit,
		To:       &b.executionManager,
		Value:    new(big.Int),
		Data:     calldata,
	}), b.signer, b.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing internal transaction: %w", err)
	}
	internalTxHash := internalTx.Hash()

	if err := b.mappings.StoreHashMapping(ctx, ovmTxHash, internalTxHash, nonce); err != nil {
		// The write may or may not have landed; resync the nonce before
		// the next submission rather than guessing.
		b.nonceKnown = false
		return common.Hash{}, fmt.Errorf("%w: %v", ErrMappingPersist, err)
	}
	b.nextNonce = nonce + 1

	reported, err := b.ledger.SubmitTransaction(ctx, internalTx)
	if err != nil {
		b.nonceKnown = false
		return common.Hash{}, fmt.Errorf("submitting internal transaction: %w", err)
	}
	b.nextNonce = nonce + 2
	if reported != internalTxHash {
		b.nonceKnown = false
		return common.Hash{}, fmt.Errorf("%w: ledger reported %v, locally computed %v",
			ErrHashMismatch, reported, internalTxHash)
	}
	b.mappingCache.Add(ovmTxHash, internalTxHash)

	log.Info("submitted rollup transaction",
		"ovmTxHash", ovmTxHash, "internalTxHash", internalTxHash,
		"entrypoint", target, "nonce", nonce+1)
	return ovmTxHash, nil
}

// reserveNonce returns the next unused underlying nonce for the bridge's
// signing identity. Must be called with sendMutex held.
func (b *Bridge) reserveNonce(ctx context.Context) (uint64, error) {
	if !b.nonceKnown {
		nonce, err := b.ledger.NonceAt(ctx, b.sender, nil)
		if err != nil {
			return 0, fmt.Errorf("fetching account nonce: %w", err)
		}
		b.nextNonce = nonce
		b.nonceKnown = true
	}
	return b.nextNonce, nil
}

func (b *Bridge) executionManagerCallMsg(args CallArgs) ethereum.CallMsg {
	target := common.Address{}
	if args.To != nil {
		target = *args.To
	}
	var data []byte
	if args.Data != nil {
		data = *args.Data
	}
	timestamp := uint256.NewInt(uint64(b.now().Unix()))
	msg := ethereum.CallMsg{
		To:   &b.executionManager,
		Gas:  b.config.DefaultGasLimit,
		Data: PackExecuteCall(timestamp, b.queueOrigin, target, data),
	}
	if args.From != nil {
		msg.From = *args.From
	}
	return msg
}

func (b *Bridge) resolveCodeContract(ctx context.Context, ovmAddress common.Address) (common.Address, error) {
	calldata, err := executionManagerABI.Pack("getCodeContractAddress", ovmAddress)
	if err != nil {
		return common.Address{}, fmt.Errorf("packing code contract lookup: %w", err)
	}
	var out []byte
	err = b.retryRead(ctx, "getCodeContractAddress", func() error {
		var err error
		out, err = b.ledger.CallContract(ctx, ethereum.CallMsg{To: &b.executionManager, Data: calldata}, nil)
		return err
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("resolving code contract for %v: %w", ovmAddress, err)
	}
	values, err := executionManagerABI.Unpack("getCodeContractAddress", out)
	if err != nil {
		return common.Address{}, fmt.Errorf("decoding code contract address: %w", err)
	}
	resolved, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("decoding code contract address: unexpected type %T", values[0])
	}
	return resolved, nil
}

func requireLatestTag(blockTag *string) error {
	if blockTag == nil || *blockTag == "latest" {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedBlockTag, *blockTag)
}

// parseBlockTag accepts "latest" (or absent) and explicit hex quantities.
func parseBlockTag(blockTag *string) (*big.Int, error) {
	if blockTag == nil || *blockTag == "latest" {
		return nil, nil
	}
	number, err := hexutil.DecodeBig(*blockTag)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBlockTag, *blockTag)
	}
	return number, nil
}
