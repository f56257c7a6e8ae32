package keeper

import (
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"

	"github.com/ibcstore/ibc-store/modules/apps/transfer/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// Keeper holds the state of the transfer application: the vouchers it minted,
// by hash, and the amount of each native token locked in escrow.
type Keeper struct {
	channelKeeper types.ChannelKeeper
	tokenKeeper   types.TokenKeeper

	Schema      collections.Schema
	Denoms      collections.Map[[]byte, types.Denom]
	TotalEscrow collections.Map[string, sdkmath.Int]
}

func NewKeeper(storeService corestore.KVStoreService, channelKeeper types.ChannelKeeper, tokenKeeper types.TokenKeeper) Keeper {
	if storeService == nil {
		panic(errors.New("transfer keeper requires a store service"))
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		channelKeeper: channelKeeper,
		tokenKeeper:   tokenKeeper,
		Denoms:        collections.NewMap(sb, types.DenomsPrefix, "denoms", collections.BytesKey, types.DenomValue),
		TotalEscrow:   collections.NewMap(sb, types.TotalEscrowPrefix, "total_escrow", collections.StringKey, sdk.IntValue),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

func (Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s-%s", exported.ModuleName, types.ModuleName))
}

// GetDenom looks up a voucher denomination by hash.
func (k Keeper) GetDenom(ctx sdk.Context, hash cmtbytes.HexBytes) (types.Denom, bool) {
	denom, err := k.Denoms.Get(ctx, hash)
	switch {
	case err == nil:
		return denom, true
	case errors.Is(err, collections.ErrNotFound):
		return types.Denom{}, false
	default:
		panic(err)
	}
}

func (k Keeper) HasDenom(ctx sdk.Context, hash cmtbytes.HexBytes) bool {
	found, err := k.Denoms.Has(ctx, hash)
	if err != nil {
		panic(err)
	}
	return found
}

// SetDenom records denom under its hash so vouchers can be traced back.
func (k Keeper) SetDenom(ctx sdk.Context, denom types.Denom) {
	if err := k.Denoms.Set(ctx, denom.Hash(), denom); err != nil {
		panic(err)
	}
}

// GetTotalEscrowForDenom returns the amount of the native denom locked in
// escrow across all channels.
func (k Keeper) GetTotalEscrowForDenom(ctx sdk.Context, denom string) sdk.Coin {
	amount, err := k.TotalEscrow.Get(ctx, denom)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		amount = sdkmath.ZeroInt()
	case err != nil:
		panic(err)
	}
	return sdk.NewCoin(denom, amount)
}

// SetTotalEscrowForDenom stores the escrowed total of coin.Denom. A zero
// total removes the entry and a negative one panics.
func (k Keeper) SetTotalEscrowForDenom(ctx sdk.Context, coin sdk.Coin) {
	var err error
	switch {
	case coin.Amount.IsNegative():
		panic(fmt.Errorf("negative escrow total %s", coin))
	case coin.Amount.IsZero():
		err = k.TotalEscrow.Remove(ctx, coin.Denom)
	default:
		err = k.TotalEscrow.Set(ctx, coin.Denom, coin.Amount)
	}
	if err != nil {
		panic(err)
	}
}

// DenomPathFromHash resolves a voucher name ibc/{hash} to the full path of
// the denomination it stands for.
func (k Keeper) DenomPathFromHash(ctx sdk.Context, ibcDenom string) (string, error) {
	hexHash := strings.TrimPrefix(ibcDenom, types.DenomPrefix+"/")
	hash, err := types.ParseHexHash(hexHash)
	if err != nil {
		return "", errorsmod.Wrap(types.ErrInvalidDenomForTransfer, err.Error())
	}

	denom, found := k.GetDenom(ctx, hash)
	if !found {
		return "", errorsmod.Wrap(types.ErrDenomNotFound, hexHash)
	}
	return denom.Path(), nil
}

// DenomFromCoin returns the denomination coin stands for: itself for a native
// token, the recorded trace for a voucher.
func (k Keeper) DenomFromCoin(ctx sdk.Context, coin sdk.Coin) (types.Denom, error) {
	if !strings.HasPrefix(coin.Denom, types.DenomPrefix+"/") {
		return types.NewDenom(coin.Denom), nil
	}

	path, err := k.DenomPathFromHash(ctx, coin.Denom)
	if err != nil {
		return types.Denom{}, err
	}
	return types.ExtractDenomFromPath(path), nil
}
