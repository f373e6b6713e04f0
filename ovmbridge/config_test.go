// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ovmlabs/rollup-core/util/testhelpers"
)

func TestBridgeConfigValidate(t *testing.T) {
	valid := DefaultBridgeConfig
	valid.ExecutionManagerAddress = testhelpers.RandomAddress().Hex()
	require.NoError(t, valid.Validate())

	noManager := valid
	noManager.ExecutionManagerAddress = ""
	require.Error(t, noManager.Validate())

	badMask := valid
	badMask.OpcodeWhitelistMask = "not-hex"
	require.Error(t, badMask.Validate())

	goodMask := valid
	goodMask.OpcodeWhitelistMask = "0x600dc0de"
	require.NoError(t, goodMask.Validate())

	zeroGas := valid
	zeroGas.DefaultGasLimit = 0
	require.Error(t, zeroGas.Validate())

	badCache := valid
	badCache.MappingCacheSize = 0
	require.Error(t, badCache.Validate())
}
