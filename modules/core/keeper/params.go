package keeper

import (
	"errors"
	"fmt"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/core/types"
)

// GetParams returns the stored IBC store parameters, or the defaults when none
// were set.
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	params, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) { // only panic on undecodable params and not on unset params
		return types.DefaultParams()
	}
	if err != nil {
		panic(fmt.Errorf("failed to decode IBC store params: %w", err))
	}
	return params
}

// SetParams sets the IBC store parameters.
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	if err := k.Params.Set(ctx, params); err != nil {
		panic(fmt.Errorf("failed to store IBC store params: %w", err))
	}
}

// InitGenesis validates and stores the initial parameters. Applications derive
// them from their options with types.ParamsFromAppOptions.
func (k *Keeper) InitGenesis(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	k.SetParams(ctx, params)
	return nil
}
