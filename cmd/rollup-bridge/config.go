// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/node"
	flag "github.com/spf13/pflag"

	"github.com/ovmlabs/rollup-core/cmd/genericconf"
	"github.com/ovmlabs/rollup-core/ovmbridge"
)

type HTTPConfig struct {
	Addr   string   `koanf:"addr"`
	Port   int      `koanf:"port"`
	VHosts []string `koanf:"vhosts"`
}

var HTTPConfigDefault = HTTPConfig{
	Addr:   node.DefaultHTTPHost,
	Port:   node.DefaultHTTPPort,
	VHosts: []string{"localhost"},
}

func HTTPConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".addr", HTTPConfigDefault.Addr, "HTTP-RPC server listening interface")
	f.Int(prefix+".port", HTTPConfigDefault.Port, "HTTP-RPC server listening port")
	f.StringSlice(prefix+".vhosts", HTTPConfigDefault.VHosts, "virtual hostnames from which to accept requests")
}

func (c HTTPConfig) Apply(stackConf *node.Config) {
	stackConf.HTTPHost = c.Addr
	stackConf.HTTPPort = c.Port
	stackConf.HTTPVirtualHosts = c.VHosts
}

type WSConfig struct {
	Addr string `koanf:"addr"`
	Port int    `koanf:"port"`
}

var WSConfigDefault = WSConfig{
	Addr: node.DefaultWSHost,
	Port: node.DefaultWSPort,
}

func WSConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".addr", WSConfigDefault.Addr, "WS-RPC server listening interface")
	f.Int(prefix+".port", WSConfigDefault.Port, "WS-RPC server listening port")
}

func (c WSConfig) Apply(stackConf *node.Config) {
	stackConf.WSHost = c.Addr
	stackConf.WSPort = c.Port
}

type WalletConfig struct {
	PrivateKey string `koanf:"private-key"`
}

var WalletConfigDefault = WalletConfig{
	PrivateKey: "",
}

func WalletConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.String(prefix+".private-key", WalletConfigDefault.PrivateKey, "hex-encoded private key of the bridge's signing identity")
}

type BridgeNodeConfig struct {
	Conf        genericconf.ConfConfig        `koanf:"conf"`
	Bridge      ovmbridge.BridgeConfig        `koanf:"bridge"`
	LogLevel    string                        `koanf:"log-level"`
	LogType     string                        `koanf:"log-type"`
	FileLogging genericconf.FileLoggingConfig `koanf:"file-logging"`
	HTTP        HTTPConfig                    `koanf:"http"`
	WS          WSConfig                      `koanf:"ws"`
	Wallet      WalletConfig                  `koanf:"wallet"`
}

var BridgeNodeConfigDefault = BridgeNodeConfig{
	Conf:        genericconf.ConfConfigDefault,
	Bridge:      ovmbridge.DefaultBridgeConfig,
	LogLevel:    "info",
	LogType:     "plaintext",
	FileLogging: genericconf.DefaultFileLoggingConfig,
	HTTP:        HTTPConfigDefault,
	WS:          WSConfigDefault,
	Wallet:      WalletConfigDefault,
}

func addFlags(f *flag.FlagSet) {
	genericconf.ConfConfigAddOptions("conf", f)
	ovmbridge.BridgeConfigAddOptions("bridge", f)
	f.String("log-level", BridgeNodeConfigDefault.LogLevel, "log level: trace, debug, info, warn, error, crit")
	f.String("log-type", BridgeNodeConfigDefault.LogType, "log type: plaintext or json")
	genericconf.FileLoggingConfigAddOptions("file-logging", f)
	HTTPConfigAddOptions("http", f)
	WSConfigAddOptions("ws", f)
	WalletConfigAddOptions("wallet", f)
}

func parseConfig(args []string) (*BridgeNodeConfig, error) {
	f := flag.NewFlagSet("rollup-bridge", flag.ContinueOnError)
	addFlags(f)

	k, err := genericconf.BeginCommonParse(f, args)
	if err != nil {
		return nil, err
	}
	var config BridgeNodeConfig
	if err := genericconf.EndCommonParse(k, &config); err != nil {
		return nil, err
	}
	if config.Conf.Dump {
		dumped, err := genericconf.DumpConfig(k, map[string]interface{}{
			"conf.dump":          false,
			"wallet.private-key": "",
		})
		if err != nil {
			return nil, err
		}
		fmt.Println(dumped)
		os.Exit(0)
	}
	return &config, nil
}
