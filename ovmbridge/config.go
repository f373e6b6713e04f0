// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	flag "github.com/spf13/pflag"
)

type BridgeConfig struct {
	LedgerURL               string `koanf:"ledger-url"`
	ChainID                 uint64 `koanf:"chain-id"`
	ExecutionManagerAddress string `koanf:"execution-manager-address"`
	OpcodeWhitelistMask     string `koanf:"opcode-whitelist-mask"`
	DefaultGasLimit         uint64 `koanf:"default-gas-limit"`
	QueueOrigin             uint64 `koanf:"queue-origin"`
	MappingCacheSize        int    `koanf:"mapping-cache-size"`
	ReadRetries             uint64 `koanf:"read-retries"`
}

var DefaultBridgeConfig = BridgeConfig{
	LedgerURL:               "http://localhost:8545",
	ChainID:                 108,
	ExecutionManagerAddress: "",
	OpcodeWhitelistMask:     "",
	DefaultGasLimit:         100_000_000,
	QueueOrigin:             0,
	MappingCacheSize:        4096,
	ReadRetries:             3,
}

func BridgeConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".ledger-url", DefaultBridgeConfig.LedgerURL, "RPC URL of the underlying ledger node")
	f.Uint64(prefix+".chain-id", DefaultBridgeConfig.ChainID, "rollup network version reported to clients")
	f.String(prefix+".execution-manager-address", DefaultBridgeConfig.ExecutionManagerAddress, "address of the deployed execution manager contract")
	f.String(prefix+".opcode-whitelist-mask", DefaultBridgeConfig.OpcodeWhitelistMask, "hex bitmask of opcodes the execution manager allows")
	f.Uint64(prefix+".default-gas-limit", DefaultBridgeConfig.DefaultGasLimit, "gas limit for internal transactions and calls")
	f.Uint64(prefix+".queue-origin", DefaultBridgeConfig.QueueOrigin, "queue origin stamped into execution manager calldata")
	f.Int(prefix+".mapping-cache-size", DefaultBridgeConfig.MappingCacheSize, "entries kept in the in-memory ovm-to-internal hash cache")
	f.Uint64(prefix+".read-retries", DefaultBridgeConfig.ReadRetries, "retries for read-only ledger calls")
}

func (c *BridgeConfig) Validate() error {
	if !common.IsHexAddress(c.ExecutionManagerAddress) {
		return fmt.Errorf("invalid execution manager address %q", c.ExecutionManagerAddress)
	}
	if c.OpcodeWhitelistMask != "" {
		if _, err := hexutil.DecodeBig(c.OpcodeWhitelistMask); err != nil {
			return fmt.Errorf("invalid opcode whitelist mask %q: %w", c.OpcodeWhitelistMask, err)
		}
	}
	if c.DefaultGasLimit == 0 {
		return fmt.Errorf("default gas limit must be nonzero")
	}
	if c.MappingCacheSize <= 0 {
		return fmt.Errorf("mapping cache size must be positive")
	}
	return nil
}

func (c *BridgeConfig) executionManager() common.Address {
	return common.HexToAddress(c.ExecutionManagerAddress)
}
