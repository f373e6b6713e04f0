// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/node"
	"github.com/ethereum/go-ethereum/p2p"
	"github.com/ethereum/go-ethereum/rpc"
)

// EthAPI exposes the standard ledger method surface under the eth
// namespace. Each method delegates straight to the bridge.
type EthAPI struct {
	bridge *Bridge
}

func (api *EthAPI) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	return api.bridge.BlockNumber(ctx)
}

func (api *EthAPI) GasPrice(ctx context.Context) (*hexutil.Big, error) {
	return api.bridge.GasPrice(ctx)
}

func (api *EthAPI) GetTransactionCount(ctx context.Context, address common.Address, blockTag *string) (hexutil.Uint64, error) {
	return api.bridge.GetTransactionCount(ctx, address, blockTag)
}

func (api *EthAPI) Call(ctx context.Context, args CallArgs, blockTag *string) (hexutil.Bytes, error) {
	return api.bridge.Call(ctx, args, blockTag)
}

func (api *EthAPI) EstimateGas(ctx context.Context, args CallArgs, blockTag *string) (hexutil.Uint64, error) {
	return api.bridge.EstimateGas(ctx, args, blockTag)
}

func (api *EthAPI) GetCode(ctx context.Context, address common.Address, blockTag *string) (hexutil.Bytes, error) {
	return api.bridge.GetCode(ctx, address, blockTag)
}

func (api *EthAPI) GetTransactionReceipt(ctx context.Context, ovmTxHash common.Hash) (*Receipt, error) {
	return api.bridge.GetTransactionReceipt(ctx, ovmTxHash)
}

func (api *EthAPI) SendRawTransaction(ctx context.Context, raw hexutil.Bytes) (common.Hash, error) {
	return api.bridge.SendRawTransaction(ctx, raw)
}

type NetAPI struct {
	bridge *Bridge
}

func (api *NetAPI) Version(ctx context.Context) (string, error) {
	return api.bridge.NetworkVersion(ctx)
}

type OvmAPI struct {
	bridge *Bridge
}

func (api *OvmAPI) GetExecutionManagerAddress(ctx context.Context) (common.Address, error) {
	return api.bridge.GetExecutionManagerAddress(ctx)
}

var apiNamespaces = []string{"eth", "net", "ovm"}

var DefaultStackConfig = node.Config{
	DataDir:          "", // ephemeral
	HTTPHost:         node.DefaultHTTPHost,
	HTTPPort:         node.DefaultHTTPPort,
	HTTPModules:      apiNamespaces,
	HTTPVirtualHosts: []string{"localhost"},
	HTTPTimeouts:     rpc.DefaultHTTPTimeouts,
	WSHost:           node.DefaultWSHost,
	WSPort:           node.DefaultWSPort,
	WSModules:        apiNamespaces,
	P2P: p2p.Config{
		ListenAddr:  "",
		NoDiscovery: true,
		NoDial:      true,
	},
}

// RegisterAPIs attaches the bridge's eth, net and ovm namespaces to a geth
// node stack.
func RegisterAPIs(stack *node.Node, bridge *Bridge) {
	stack.RegisterAPIs([]rpc.API{
		{
			Namespace: "eth",
			Version:   "1.0",
			Service:   &EthAPI{bridge: bridge},
			Public:    true,
		},
		{
			Namespace: "net",
			Version:   "1.0",
			Service:   &NetAPI{bridge: bridge},
			Public:    true,
		},
		{
			Namespace: "ovm",
			Version:   "1.0",
			Service:   &OvmAPI{bridge: bridge},
			Public:    true,
		},
	})
}
