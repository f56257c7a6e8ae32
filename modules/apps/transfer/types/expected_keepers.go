package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	porttypes "github.com/ibcstore/ibc-store/modules/core/05-port/types"
)

// TokenKeeper moves, mints and burns the fungible tokens of the host chain.
type TokenKeeper interface {
	SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, from sdk.AccAddress, module string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, module string, to sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, module string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, module string, amt sdk.Coins) error
	BlockedAddr(addr sdk.AccAddress) bool
}

// ChannelKeeper sends packets and reads channel ends.
type ChannelKeeper interface {
	porttypes.ICS4Wrapper

	ChannelEnd(ctx sdk.Context, portID, channelID string) (channeltypes.Channel, error)
}
