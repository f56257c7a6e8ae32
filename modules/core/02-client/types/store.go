package types

import (
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	host "github.com/ibcstore/ibc-store/modules/core/24-host"
)

// ClientStore returns isolated prefix store for each client so they can read/write in separate namespaces.
func ClientStore(store storetypes.KVStore, clientID string) storetypes.KVStore {
	return prefix.NewStore(store, host.ClientStorePrefix(clientID))
}
