package types

import (
	"crypto/sha256"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"

	porttypes "github.com/ibcstore/ibc-store/modules/core/05-port/types"
)

const (
	ModuleName = "transfer"

	// PortID is the port the transfer application is bound to.
	PortID = porttypes.PortIDTransfer

	// DenomPrefix starts the local name of every voucher: ibc/{hash}.
	DenomPrefix = "ibc"

	// Version is the only channel version the application accepts.
	Version = "ics20-1"
)

// Collection prefixes of the application store.
var (
	DenomsPrefix      = collections.NewPrefix(2)
	TotalEscrowPrefix = collections.NewPrefix(3)
)

// GetEscrowAddress derives the account holding the native tokens sent over
// portID/channelID. It is the ADR-028 address hash of the version and the
// slash separated channel path.
func GetEscrowAddress(portID, channelID string) sdk.AccAddress {
	preImage := append([]byte(Version), 0)
	preImage = append(preImage, portID...)
	preImage = append(preImage, '/')
	preImage = append(preImage, channelID...)
	sum := sha256.Sum256(preImage)
	return sum[:20]
}
