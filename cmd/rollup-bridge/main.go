// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/node"

	"github.com/ovmlabs/rollup-core/cmd/genericconf"
	"github.com/ovmlabs/rollup-core/ovmbridge"
)

func main() {
	os.Exit(mainImpl())
}

func mainImpl() int {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	config, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		return 1
	}

	if err := genericconf.InitLog(config.LogType, config.LogLevel, &config.FileLogging); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing log: %v\n", err)
		return 1
	}

	if config.Wallet.PrivateKey == "" {
		log.Crit("no signing key configured, set --wallet.private-key")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(config.Wallet.PrivateKey, "0x"))
	if err != nil {
		log.Crit("error parsing signing key", "err", err)
	}

	ledger, err := ovmbridge.DialLedger(ctx, config.Bridge.LedgerURL)
	if err != nil {
		log.Crit("error dialing underlying ledger", "url", config.Bridge.LedgerURL, "err", err)
	}
	defer ledger.Close()

	bridge, err := ovmbridge.NewBridge(ctx, &config.Bridge, ledger, key)
	if err != nil {
		log.Crit("error creating execution bridge", "err", err)
	}

	stackConf := ovmbridge.DefaultStackConfig
	config.HTTP.Apply(&stackConf)
	config.WS.Apply(&stackConf)
	stack, err := node.New(&stackConf)
	if err != nil {
		log.Crit("error creating rpc stack", "err", err)
	}
	ovmbridge.RegisterAPIs(stack, bridge)

	if err := stack.Start(); err != nil {
		log.Crit("error starting rpc stack", "err", err)
	}
	defer stack.Close()

	log.Info("rollup bridge started",
		"http", fmt.Sprintf("%s:%d", config.HTTP.Addr, config.HTTP.Port),
		"ledger", config.Bridge.LedgerURL)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint
	log.Info("shutting down")
	return 0
}
