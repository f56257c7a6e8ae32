package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/apps/transfer/internal/events"
	"github.com/ibcstore/ibc-store/modules/apps/transfer/internal/telemetry"
	"github.com/ibcstore/ibc-store/modules/apps/transfer/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// SendTransfer takes coin from sender before the packet is sent. A voucher
// that last arrived over the source channel is going home, so it is burned;
// anything else is locked in the escrow account of the channel, to be
// released when the counterparty sends it back.
//
// For a token travelling A -> B -> A the trace on B is B-port/B-channel/denom.
// Sending it back from B burns the voucher and A releases the original from
// escrow.
func (k Keeper) SendTransfer(ctx sdk.Context, sourcePort, sourceChannel string, denom types.Denom, coin sdk.Coin, sender sdk.AccAddress) error {
	coins := sdk.NewCoins(coin)
	if !denom.HasPrefix(sourcePort, sourceChannel) {
		return k.escrowCoin(ctx, sender, types.GetEscrowAddress(sourcePort, sourceChannel), coin)
	}

	if err := k.tokenKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, coins); err != nil {
		return err
	}
	if err := k.tokenKeeper.BurnCoins(ctx, types.ModuleName, coins); err != nil {
		panic(fmt.Errorf("burn %s held by the module account: %w", coins, err))
	}
	return nil
}

// OnRecvPacket credits the receiver. A token whose latest hop is the packet
// source is one this chain sent out, so it comes out of escrow with the hop
// stripped. Otherwise the destination hop is prepended and a voucher is
// minted.
func (k Keeper) OnRecvPacket(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData) error {
	receiver, err := sdk.AccAddressFromBech32(data.Receiver)
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "receiver %s: %v", data.Receiver, err)
	}
	if k.tokenKeeper.BlockedAddr(receiver) {
		return errorsmod.Wrapf(ibcerrors.ErrUnauthorized, "%s cannot receive funds", receiver)
	}

	amount, err := data.ParseAmount()
	if err != nil {
		return err
	}

	denom := types.ExtractDenomFromPath(data.Denom)
	returning := denom.HasPrefix(packet.GetSourcePort(), packet.GetSourceChannel())
	if returning {
		denom.Trace = denom.Trace[1:]
		escrow := types.GetEscrowAddress(packet.GetDestPort(), packet.GetDestChannel())
		if err := k.unescrowCoin(ctx, escrow, receiver, sdk.NewCoin(denom.IBCDenom(), amount)); err != nil {
			return err
		}
	} else {
		denom.Trace = append([]types.Hop{types.NewHop(packet.GetDestPort(), packet.GetDestChannel())}, denom.Trace...)
		if err := k.mintVoucher(ctx, denom, amount, receiver); err != nil {
			return err
		}
	}

	telemetry.ReportOnRecvPacket(packet.GetSourcePort(), packet.GetSourceChannel(), denom, amount, returning)
	return nil
}

func (k Keeper) mintVoucher(ctx sdk.Context, denom types.Denom, amount sdkmath.Int, receiver sdk.AccAddress) error {
	if !k.HasDenom(ctx, denom.Hash()) {
		k.SetDenom(ctx, denom)
	}
	events.EmitDenomEvent(ctx, denom)

	vouchers := sdk.NewCoins(sdk.NewCoin(denom.IBCDenom(), amount))
	if err := k.tokenKeeper.MintCoins(ctx, types.ModuleName, vouchers); err != nil {
		return errorsmod.Wrapf(err, "mint %s", vouchers)
	}
	if err := k.tokenKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiver, vouchers); err != nil {
		return errorsmod.Wrapf(err, "send %s to %s", vouchers, receiver)
	}
	return nil
}

// OnAcknowledgementPacket refunds the sender when the receiving chain
// acknowledged with an error.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData, ack channeltypes.Acknowledgement) error {
	if ack.Success() {
		return nil
	}
	return k.refundPacketToken(ctx, packet, data)
}

// OnTimeoutPacket refunds the sender of a packet that was never received.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData) error {
	return k.refundPacketToken(ctx, packet, data)
}

// refundPacketToken undoes SendTransfer: escrowed tokens are released and
// burned vouchers are minted again.
func (k Keeper) refundPacketToken(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData) error {
	sender, err := sdk.AccAddressFromBech32(data.Sender)
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "sender %s: %v", data.Sender, err)
	}
	amount, err := data.ParseAmount()
	if err != nil {
		return err
	}

	denom := types.ExtractDenomFromPath(data.Denom)
	coin := sdk.NewCoin(denom.IBCDenom(), amount)
	if !denom.HasPrefix(packet.GetSourcePort(), packet.GetSourceChannel()) {
		return k.unescrowCoin(ctx, types.GetEscrowAddress(packet.GetSourcePort(), packet.GetSourceChannel()), sender, coin)
	}

	coins := sdk.NewCoins(coin)
	if err := k.tokenKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return err
	}
	if err := k.tokenKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, coins); err != nil {
		panic(fmt.Errorf("send %s minted to the module account: %w", coins, err))
	}
	return nil
}

// escrowCoin locks coin in the escrow account and adds it to the escrow total.
func (k Keeper) escrowCoin(ctx sdk.Context, sender, escrow sdk.AccAddress, coin sdk.Coin) error {
	if err := k.tokenKeeper.SendCoins(ctx, sender, escrow, sdk.NewCoins(coin)); err != nil {
		return err
	}
	k.SetTotalEscrowForDenom(ctx, k.GetTotalEscrowForDenom(ctx, coin.Denom).Add(coin))
	return nil
}

// unescrowCoin releases coin from the escrow account and subtracts it from the
// escrow total. The escrow never holds less than what counterparties can send
// back, so a failure points at a faulty counterparty.
func (k Keeper) unescrowCoin(ctx sdk.Context, escrow, receiver sdk.AccAddress, coin sdk.Coin) error {
	if err := k.tokenKeeper.SendCoins(ctx, escrow, receiver, sdk.NewCoins(coin)); err != nil {
		return errorsmod.Wrapf(err, "release %s from escrow %s", coin, escrow)
	}
	k.SetTotalEscrowForDenom(ctx, k.GetTotalEscrowForDenom(ctx, coin.Denom).Sub(coin))
	return nil
}
