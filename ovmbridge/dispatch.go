// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Dispatch routes a raw (method, params) pair to the corresponding typed
// method, validating arity and parameter shape first. The HTTP/WS server
// registered through RegisterAPIs does this itself; Dispatch serves the
// inbound message-channel path and anything else handing the bridge
// undecoded requests.
func (b *Bridge) Dispatch(ctx context.Context, method string, params []json.RawMessage) (interface{}, error) {
	switch method {
	case "eth_blockNumber":
		if err := expectArity(method, params, 0, 0); err != nil {
			return nil, err
		}
		return b.BlockNumber(ctx)
	case "eth_gasPrice":
		if err := expectArity(method, params, 0, 0); err != nil {
			return nil, err
		}
		return b.GasPrice(ctx)
	case "net_version":
		if err := expectArity(method, params, 0, 0); err != nil {
			return nil, err
		}
		return b.NetworkVersion(ctx)
	case "ovm_getExecutionManagerAddress":
		if err := expectArity(method, params, 0, 0); err != nil {
			return nil, err
		}
		return b.GetExecutionManagerAddress(ctx)
	case "eth_getTransactionCount":
		if err := expectArity(method, params, 1, 2); err != nil {
			return nil, err
		}
		var address common.Address
		if err := decodeParam(method, params, 0, &address); err != nil {
			return nil, err
		}
		blockTag, err := optionalTag(method, params, 1)
		if err != nil {
			return nil, err
		}
		return b.GetTransactionCount(ctx, address, blockTag)
	case "eth_getCode":
		if err := expectArity(method, params, 1, 2); err != nil {
			return nil, err
		}
		var address common.Address
		if err := decodeParam(method, params, 0, &address); err != nil {
			return nil, err
		}
		blockTag, err := optionalTag(method, params, 1)
		if err != nil {
			return nil, err
		}
		return b.GetCode(ctx, address, blockTag)
	case "eth_call":
		args, blockTag, err := decodeCallParams(method, params)
		if err != nil {
			return nil, err
		}
		return b.Call(ctx, args, blockTag)
	case "eth_estimateGas":
		args, blockTag, err := decodeCallParams(method, params)
		if err != nil {
			return nil, err
		}
		return b.EstimateGas(ctx, args, blockTag)
	case "eth_getTransactionReceipt":
		if err := expectArity(method, params, 1, 1); err != nil {
			return nil, err
		}
		var hash common.Hash
		if err := decodeParam(method, params, 0, &hash); err != nil {
			return nil, err
		}
		return b.GetTransactionReceipt(ctx, hash)
	case "eth_sendRawTransaction":
		if err := expectArity(method, params, 1, 1); err != nil {
			return nil, err
		}
		var raw hexutil.Bytes
		if err := decodeParam(method, params, 0, &raw); err != nil {
			return nil, err
		}
		return b.SendRawTransaction(ctx, raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
}

func decodeCallParams(method string, params []json.RawMessage) (CallArgs, *string, error) {
	if err := expectArity(method, params, 1, 2); err != nil {
		return CallArgs{}, nil, err
	}
	var args CallArgs
	if err := decodeParam(method, params, 0, &args); err != nil {
		return CallArgs{}, nil, err
	}
	blockTag, err := optionalTag(method, params, 1)
	if err != nil {
		return CallArgs{}, nil, err
	}
	return args, blockTag, nil
}

func expectArity(method string, params []json.RawMessage, min, max int) error {
	if len(params) < min || len(params) > max {
		return fmt.Errorf("%w: %s takes %d to %d parameters, got %d",
			ErrInvalidParameters, method, min, max, len(params))
	}
	return nil
}

func decodeParam[T any](method string, params []json.RawMessage, index int, out *T) error {
	if err := json.Unmarshal(params[index], out); err != nil {
		return fmt.Errorf("%w: %s parameter %d: %v", ErrInvalidParameters, method, index, err)
	}
	return nil
}

func optionalTag(method string, params []json.RawMessage, index int) (*string, error) {
	if len(params) <= index {
		return nil, nil
	}
	var tag string
	if err := decodeParam(method, params, index, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}
