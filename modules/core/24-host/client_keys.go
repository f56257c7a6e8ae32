package host

import (
	"fmt"

	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// KeyClientStorePrefix defines the KVStore key prefix for IBC clients
var KeyClientStorePrefix = []byte("clients")

const (
	KeyClientState                 = "clientState"
	KeyConsensusStatePrefix        = "consensusStates"
	KeyProcessedTime               = "processedTime"
	KeyProcessedHeight             = "processedHeight"
	KeyIterateConsensusStatePrefix = "iterateConsensusStates"
	KeyNextClientSequence          = "nextClientSequence"

	// history queue prefixes inside a client store
	KeyConsensusHistoryPrefix       = "consensusHistory"
	KeyProcessedTimeHistoryPrefix   = "processedTimeHistory"
	KeyProcessedHeightHistoryPrefix = "processedHeightHistory"
)

// FullClientPath returns the full path of a specific client path in the format:
// "clients/{clientID}/{path}" as a string.
func FullClientPath(clientID string, path string) string {
	return fmt.Sprintf("%s/%s/%s", KeyClientStorePrefix, clientID, path)
}

// FullClientKey returns the full path of specific client path in the format:
// "clients/{clientID}/{path}" as a byte array.
func FullClientKey(clientID string, path []byte) []byte {
	return []byte(FullClientPath(clientID, string(path)))
}

// ClientStorePrefix returns the prefix of every key owned by a client:
// "clients/{clientID}/".
func ClientStorePrefix(clientID string) []byte {
	return []byte(fmt.Sprintf("%s/%s/", KeyClientStorePrefix, clientID))
}

// ICS02
// The following paths are the keys to the store as defined in https://github.com/cosmos/ibc/tree/master/spec/core/ics-002-client-semantics#path-space

// FullClientStatePath takes a client identifier and returns a Path under which to store a
// particular client state
func FullClientStatePath(clientID string) string {
	return FullClientPath(clientID, KeyClientState)
}

// FullClientStateKey takes a client identifier and returns a Key under which to store a
// particular client state.
func FullClientStateKey(clientID string) []byte {
	return FullClientKey(clientID, []byte(KeyClientState))
}

// ClientStateKey returns a store key under which a particular client state is stored
// in a client prefixed store
func ClientStateKey() []byte {
	return []byte(KeyClientState)
}

// FullConsensusStatePath takes a client identifier and returns a Path under which to
// store the consensus state of a client.
func FullConsensusStatePath(clientID string, height exported.Height) string {
	return FullClientPath(clientID, ConsensusStatePath(height))
}

// FullConsensusStateKey returns the store key for the consensus state of a particular
// client.
func FullConsensusStateKey(clientID string, height exported.Height) []byte {
	return []byte(FullConsensusStatePath(clientID, height))
}

// ConsensusStatePath returns the suffix store key for the consensus state at a
// particular height stored in a client prefixed store.
func ConsensusStatePath(height exported.Height) string {
	return fmt.Sprintf("%s/%s", KeyConsensusStatePrefix, height)
}

// ConsensusStateKey returns the store key for a the consensus state of a particular
// client stored in a client prefixed store.
func ConsensusStateKey(height exported.Height) []byte {
	return []byte(ConsensusStatePath(height))
}

// ProcessedTimeKey returns the key under which the host time of the update
// that stored the consensus state at height is kept, in a client prefixed store.
func ProcessedTimeKey(height exported.Height) []byte {
	return []byte(fmt.Sprintf("%s/%s", ConsensusStatePath(height), KeyProcessedTime))
}

// ProcessedHeightKey returns the key under which the host height of the update
// that stored the consensus state at height is kept, in a client prefixed store.
func ProcessedHeightKey(height exported.Height) []byte {
	return []byte(fmt.Sprintf("%s/%s", ConsensusStatePath(height), KeyProcessedHeight))
}

// IterateConsensusStatePrefixKey returns the prefix, in a client prefixed store,
// of the set of every consensus height ever stored for the client.
func IterateConsensusStatePrefixKey() []byte {
	return []byte(KeyIterateConsensusStatePrefix + "/")
}

// ConsensusHistoryPrefixKey returns the prefix of the history queue named by
// kind in a client prefixed store.
func ConsensusHistoryPrefixKey(kind string) []byte {
	return []byte(kind + "/")
}
