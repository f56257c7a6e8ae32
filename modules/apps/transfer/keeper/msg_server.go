package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/apps/transfer/internal/events"
	"github.com/ibcstore/ibc-store/modules/apps/transfer/internal/telemetry"
	"github.com/ibcstore/ibc-store/modules/apps/transfer/types"
	corekeeper "github.com/ibcstore/ibc-store/modules/core/keeper"
)

var _ corekeeper.AppMsgHandler = Keeper{}

// HandleMsg routes the transfer messages of a core batch to their handler.
func (k Keeper) HandleMsg(ctx sdk.Context, msg sdk.HasValidateBasic) (any, bool, error) {
	transfer, ok := msg.(*types.MsgTransfer)
	if !ok {
		return nil, false, nil
	}
	res, err := k.Transfer(ctx, transfer)
	return res, true, err
}

// Transfer takes the token from the sender and sends the packet carrying it.
func (k Keeper) Transfer(goCtx context.Context, msg *types.MsgTransfer) (*types.MsgTransferResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, err
	}
	channel, err := k.channelKeeper.ChannelEnd(ctx, msg.SourcePort, msg.SourceChannel)
	if err != nil {
		return nil, err
	}
	denom, err := k.DenomFromCoin(ctx, msg.Token)
	if err != nil {
		return nil, err
	}

	data := types.NewFungibleTokenPacketData(denom.Path(), msg.Token.Amount.String(), sender.String(), msg.Receiver, msg.Memo)
	if err := data.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(err, "transfer packet data")
	}

	if err := k.SendTransfer(ctx, msg.SourcePort, msg.SourceChannel, denom, msg.Token, sender); err != nil {
		return nil, err
	}
	sequence, err := k.channelKeeper.SendPacket(ctx, msg.SourcePort, msg.SourceChannel, msg.TimeoutHeight, msg.TimeoutTimestamp, data.GetBytes())
	if err != nil {
		return nil, err
	}

	events.EmitTransferEvent(ctx, data)
	telemetry.ReportTransfer(msg.SourcePort, msg.SourceChannel, channel.Counterparty.PortId, channel.Counterparty.ChannelId, denom, msg.Token.Amount)
	k.Logger(ctx).Info("transfer sent", "token", msg.Token.String(), "sender", msg.Sender, "receiver", msg.Receiver, "sequence", sequence)

	return &types.MsgTransferResponse{Sequence: sequence}, nil
}
