package keeper

import (
	"cosmossdk.io/collections"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/storage"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
)

// kvStore opens the module store for the duration of ctx.
func (k *Keeper) kvStore(ctx sdk.Context) storetypes.KVStore {
	return runtime.KVStoreAdapter(k.storeService.OpenKVStore(ctx))
}

// ClientStore returns isolated prefix store for each client so they can read/write in separate namespaces.
func (k *Keeper) ClientStore(ctx sdk.Context, clientID string) storetypes.KVStore {
	return clienttypes.ClientStore(k.kvStore(ctx), clientID)
}

// clientHistory groups the per-client collections. The consensus, processed
// time and processed height queues share their keys, and heights mirrors the
// keys of the consensus queue.
type clientHistory struct {
	consensus       *storage.Queue[clienttypes.Height, []byte]
	processedTime   *storage.Queue[clienttypes.Height, uint64]
	processedHeight *storage.Queue[clienttypes.Height, clienttypes.Height]
	heights         collections.KeySet[clienttypes.Height]
}

// clientHistory opens the history collections of clientID. Queue values are
// kept at their ICS-24 paths so counterparties can prove them.
func (k *Keeper) clientHistory(clientID string) clientHistory {
	sb := collections.NewSchemaBuilder(k.storeService)
	historyPrefix := func(kind string) collections.Prefix {
		return collections.NewPrefix(host.FullClientKey(clientID, host.ConsensusHistoryPrefixKey(kind)))
	}
	clientPath := func(key []byte) []byte {
		return host.FullClientKey(clientID, key)
	}

	history := clientHistory{
		consensus: storage.NewQueue(
			sb, historyPrefix(host.KeyConsensusHistoryPrefix), "consensus_history", clienttypes.HeightKey, collections.BytesValue,
			storage.WithValuePath(k.storeService, func(h clienttypes.Height) []byte { return clientPath(host.ConsensusStateKey(h)) }),
		),
		processedTime: storage.NewQueue(
			sb, historyPrefix(host.KeyProcessedTimeHistoryPrefix), "processed_time_history", clienttypes.HeightKey, collections.Uint64Value,
			storage.WithValuePath(k.storeService, func(h clienttypes.Height) []byte { return clientPath(host.ProcessedTimeKey(h)) }),
		),
		processedHeight: storage.NewQueue(
			sb, historyPrefix(host.KeyProcessedHeightHistoryPrefix), "processed_height_history", clienttypes.HeightKey, clienttypes.HeightValue,
			storage.WithValuePath(k.storeService, func(h clienttypes.Height) []byte { return clientPath(host.ProcessedHeightKey(h)) }),
		),
		heights: collections.NewKeySet(
			sb, collections.NewPrefix(clientPath(host.IterateConsensusStatePrefixKey())), "consensus_heights", clienttypes.HeightKey,
		),
	}
	mustBuild(sb)
	return history
}

// packetIndex groups the sequence indexes of a channel. Commitments are created
// in send order so they form a queue; receipts and acknowledgements arrive in
// any order on unordered channels and are kept in linked maps valued with the
// host height they were written at.
type packetIndex struct {
	commitments *storage.Queue[uint64, []byte]
	receipts    *storage.LinkedMap[uint64, uint64]
	acks        *storage.LinkedMap[uint64, uint64]
}

func (k *Keeper) packetIndex(portID, channelID string) packetIndex {
	sb := collections.NewSchemaBuilder(k.storeService)
	indexPrefix := func(kind string) collections.Prefix {
		return collections.NewPrefix(host.PacketIndexPrefixKey(kind, portID, channelID))
	}

	index := packetIndex{
		commitments: storage.NewQueue(
			sb, indexPrefix(host.KeyPacketCommitmentPrefix), "commitments", collections.Uint64Key, collections.BytesValue,
			storage.WithValuePath(k.storeService, func(sequence uint64) []byte {
				return host.PacketCommitmentKey(portID, channelID, sequence)
			}),
		),
		receipts: storage.NewLinkedMap(sb, indexPrefix(host.KeyPacketReceiptPrefix), "receipts", collections.Uint64Key, collections.Uint64Value),
		acks:     storage.NewLinkedMap(sb, indexPrefix(host.KeyPacketAckPrefix), "acks", collections.Uint64Key, collections.Uint64Value),
	}
	mustBuild(sb)
	return index
}

func mustBuild(sb *collections.SchemaBuilder) collections.Schema {
	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	return schema
}
