// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import "errors"

var (
	ErrInvalidParameters   = errors.New("invalid parameters")
	ErrUnsupportedMethod   = errors.New("unsupported method")
	ErrUnsupportedBlockTag = errors.New("unsupported block tag")
	ErrMappingPersist      = errors.New("failed to persist hash mapping")
	ErrHashMismatch        = errors.New("internal transaction hash mismatch")
	ErrMalformedCalldata   = errors.New("malformed execution manager calldata")
)
