// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package genericconf

import (
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Conf    ConfConfig `koanf:"conf"`
	Name    string     `koanf:"name"`
	Nested  nested     `koanf:"nested"`
	Retries int        `koanf:"retries"`
}

type nested struct {
	GasLimit uint64 `koanf:"gas-limit"`
}

func sampleFlagSet() *flag.FlagSet {
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	ConfConfigAddOptions("conf", f)
	f.String("name", "default-name", "")
	f.Uint64("nested.gas-limit", 1000, "")
	f.Int("retries", 3, "")
	return f
}

func parseSample(t *testing.T, args []string) sampleConfig {
	t.Helper()
	f := sampleFlagSet()
	k, err := BeginCommonParse(f, args)
	require.NoError(t, err)
	var config sampleConfig
	require.NoError(t, EndCommonParse(k, &config))
	return config
}

func TestParseDefaults(t *testing.T) {
	config := parseSample(t, nil)
	require.Equal(t, "default-name", config.Name)
	require.Equal(t, uint64(1000), config.Nested.GasLimit)
	require.Equal(t, 3, config.Retries)
}

func TestParseFlagsWin(t *testing.T) {
	config := parseSample(t, []string{
		"--conf.string", `{"name":"from-json","retries":9}`,
		"--name", "from-flag",
	})
	// explicitly set flags beat the JSON config string
	require.Equal(t, "from-flag", config.Name)
	require.Equal(t, 9, config.Retries)
}

func TestParseConfigString(t *testing.T) {
	config := parseSample(t, []string{
		"--conf.string", `{"nested":{"gas-limit":77}}`,
	})
	require.Equal(t, uint64(77), config.Nested.GasLimit)
	require.Equal(t, "default-name", config.Name)
}

func TestParseEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_NESTED__GAS_LIMIT", "55")
	config := parseSample(t, []string{"--conf.env-prefix", "SAMPLE"})
	require.Equal(t, uint64(55), config.Nested.GasLimit)
}

func TestDumpConfigBlanksKeys(t *testing.T) {
	f := sampleFlagSet()
	k, err := BeginCommonParse(f, []string{"--name", "secret-value"})
	require.NoError(t, err)
	dumped, err := DumpConfig(k, map[string]interface{}{"name": ""})
	require.NoError(t, err)
	require.NotContains(t, dumped, "secret-value")
	require.Contains(t, dumped, "retries")
}
