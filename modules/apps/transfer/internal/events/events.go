package events

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/apps/transfer/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// packetAttributes describes the transfer carried by data.
func packetAttributes(data types.FungibleTokenPacketData) []sdk.Attribute {
	return []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeySender, data.Sender),
		sdk.NewAttribute(types.AttributeKeyReceiver, data.Receiver),
		sdk.NewAttribute(types.AttributeKeyDenom, data.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, data.Amount),
		sdk.NewAttribute(types.AttributeKeyMemo, data.Memo),
	}
}

// emit emits event followed by the message event naming the module.
func emit(ctx sdk.Context, event sdk.Event) {
	ctx.EventManager().EmitEvents(sdk.Events{
		event,
		sdk.NewEvent(sdk.EventTypeMessage, sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName)),
	})
}

// EmitTransferEvent emits the event of a transfer sent from this chain.
func EmitTransferEvent(ctx sdk.Context, data types.FungibleTokenPacketData) {
	emit(ctx, sdk.NewEvent(types.EventTypeTransfer, packetAttributes(data)...))
}

// EmitOnRecvPacketEvent emits the outcome of a received transfer. ackErr is
// the reason of an error acknowledgement.
func EmitOnRecvPacketEvent(ctx sdk.Context, data types.FungibleTokenPacketData, ack exported.Acknowledgement, ackErr error) {
	attrs := append(packetAttributes(data), sdk.NewAttribute(types.AttributeKeyAckSuccess, strconv.FormatBool(ack.Success())))
	if ackErr != nil {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyAckError, ackErr.Error()))
	}
	emit(ctx, sdk.NewEvent(types.EventTypePacket, attrs...))
}

// EmitOnAcknowledgementPacketEvent emits the acknowledgement of a sent transfer.
func EmitOnAcknowledgementPacketEvent(ctx sdk.Context, data types.FungibleTokenPacketData, ack channeltypes.Acknowledgement) {
	attrs := append(packetAttributes(data),
		sdk.NewAttribute(types.AttributeKeyAck, string(ack.Acknowledgement())),
		sdk.NewAttribute(types.AttributeKeyAckSuccess, strconv.FormatBool(ack.Success())),
	)
	if !ack.Success() {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyAckError, ack.Error))
	}
	emit(ctx, sdk.NewEvent(types.EventTypePacket, attrs...))
}

// EmitOnTimeoutEvent emits the refund of a timed out transfer.
func EmitOnTimeoutEvent(ctx sdk.Context, data types.FungibleTokenPacketData) {
	emit(ctx, sdk.NewEvent(
		types.EventTypeTimeout,
		sdk.NewAttribute(types.AttributeKeyRefundReceiver, data.Sender),
		sdk.NewAttribute(types.AttributeKeyRefundDenom, data.Denom),
		sdk.NewAttribute(types.AttributeKeyRefundAmount, data.Amount),
		sdk.NewAttribute(types.AttributeKeyMemo, data.Memo),
	))
}

// EmitDenomEvent emits the trace of a voucher denomination.
func EmitDenomEvent(ctx sdk.Context, denom types.Denom) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDenom,
		sdk.NewAttribute(types.AttributeKeyDenomHash, denom.Hash().String()),
		sdk.NewAttribute(types.AttributeKeyDenom, denom.Path()),
	))
}
