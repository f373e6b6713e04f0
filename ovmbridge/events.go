// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package ovmbridge

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// ChainEvent is a notification delivered by the external chain watcher.
// The watcher wiring lives outside this module; the bridge only consumes
// the channel.
type ChainEvent struct {
	Name        string
	BlockNumber uint64
	TxHash      common.Hash
	Data        []byte
}

// ProcessEvents consumes chain events until the context is cancelled or
// the channel closes. Events only advance the bridge's view of the chain
// head; they never trigger submissions.
func (b *Bridge) ProcessEvents(ctx context.Context, events <-chan ChainEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.recordEventBlock(event.BlockNumber)
			log.Debug("chain event received",
				"name", event.Name, "block", event.BlockNumber, "txHash", event.TxHash)
		}
	}
}

func (b *Bridge) recordEventBlock(blockNumber uint64) {
	b.eventMutex.Lock()
	defer b.eventMutex.Unlock()
	if blockNumber > b.lastEventBlock {
		b.lastEventBlock = blockNumber
	}
}

// LastEventBlock reports the highest block number seen on the event
// channel.
func (b *Bridge) LastEventBlock() uint64 {
	b.eventMutex.Lock()
	defer b.eventMutex.Unlock()
	return b.lastEventBlock
}
