package transfer

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/apps/transfer/internal/events"
	"github.com/ibcstore/ibc-store/modules/apps/transfer/keeper"
	"github.com/ibcstore/ibc-store/modules/apps/transfer/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	porttypes "github.com/ibcstore/ibc-store/modules/core/05-port/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

var _ porttypes.IBCModule = (*IBCModule)(nil)

// IBCModule is the ICS-20 application bound to the transfer port.
type IBCModule struct {
	keeper keeper.Keeper
}

func NewIBCModule(k keeper.Keeper) IBCModule {
	return IBCModule{keeper: k}
}

// ValidateTransferChannelParams accepts unordered channels on the transfer
// port whose sequence fits in 32 bits, the range escrow addresses are derived
// for.
func ValidateTransferChannelParams(order channeltypes.Order, portID, channelID string) error {
	sequence, err := channeltypes.ParseChannelSequence(channelID)
	if err != nil {
		return err
	}
	switch {
	case sequence > math.MaxUint32:
		return errorsmod.Wrapf(types.ErrMaxTransferChannels, "channel sequence %d", sequence)
	case order != channeltypes.UNORDERED:
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering, "transfer channels are %s, got %s", channeltypes.UNORDERED, order)
	case portID != types.PortID:
		return errorsmod.Wrapf(porttypes.ErrUnknownPort, "transfer channels use port %s, got %s", types.PortID, portID)
	}
	return nil
}

// OnChanOpenInit accepts an empty version as Version.
func (IBCModule) OnChanOpenInit(
	_ sdk.Context, order channeltypes.Order, _ []string,
	portID, channelID string, _ channeltypes.Counterparty, version string,
) (string, error) {
	if err := ValidateTransferChannelParams(order, portID, channelID); err != nil {
		return "", err
	}
	if version == "" {
		return types.Version, nil
	}
	if version != types.Version {
		return "", errorsmod.Wrapf(types.ErrInvalidVersion, "%s, supported %s", version, types.Version)
	}
	return version, nil
}

// OnChanOpenTry answers any counterparty version with Version.
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context, order channeltypes.Order, _ []string,
	portID, channelID string, _ channeltypes.Counterparty, counterpartyVersion string,
) (string, error) {
	if err := ValidateTransferChannelParams(order, portID, channelID); err != nil {
		return "", err
	}
	if counterpartyVersion != types.Version {
		im.keeper.Logger(ctx).Debug("proposing supported version", "counterparty-version", counterpartyVersion, "version", types.Version)
	}
	return types.Version, nil
}

func (IBCModule) OnChanOpenAck(_ sdk.Context, _, _, _, counterpartyVersion string) error {
	if counterpartyVersion != types.Version {
		return errorsmod.Wrapf(types.ErrInvalidVersion, "counterparty chose %s, supported %s", counterpartyVersion, types.Version)
	}
	return nil
}

func (IBCModule) OnChanOpenConfirm(sdk.Context, string, string) error {
	return nil
}

// OnChanCloseInit refuses to close: escrowed tokens would be stranded.
func (IBCModule) OnChanCloseInit(sdk.Context, string, string) error {
	return errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "transfer channels cannot be closed")
}

func (IBCModule) OnChanCloseConfirm(sdk.Context, string, string) error {
	return nil
}

// OnRecvPacket credits the transfer and acknowledges synchronously. Invalid
// data or a failed credit yields an error acknowledgement.
func (im IBCModule) OnRecvPacket(ctx sdk.Context, _ string, packet channeltypes.Packet, _ sdk.AccAddress) exported.Acknowledgement {
	data, err := types.UnmarshalPacketData(packet.GetData())
	if err == nil {
		err = im.keeper.OnRecvPacket(ctx, packet, data)
	}

	var ack exported.Acknowledgement = channeltypes.NewResultAcknowledgement([]byte{1})
	if err != nil {
		ack = channeltypes.NewErrorAcknowledgement(err)
		im.keeper.Logger(ctx).Error("transfer rejected", "sequence", packet.Sequence, "error", err.Error())
	} else {
		im.keeper.Logger(ctx).Info("transfer received", "sequence", packet.Sequence)
	}

	events.EmitOnRecvPacketEvent(ctx, data, ack, err)
	return ack
}

func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context, _ string, packet channeltypes.Packet, acknowledgement []byte, _ sdk.AccAddress,
) error {
	ack, err := channeltypes.UnmarshalAcknowledgement(acknowledgement)
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrDecode, "transfer acknowledgement: %v", err)
	}
	if err := ack.ValidateBasic(); err != nil {
		return err
	}
	data, err := types.UnmarshalPacketData(packet.GetData())
	if err != nil {
		return err
	}

	if err := im.keeper.OnAcknowledgementPacket(ctx, packet, data, ack); err != nil {
		return err
	}
	events.EmitOnAcknowledgementPacketEvent(ctx, data, ack)
	return nil
}

func (im IBCModule) OnTimeoutPacket(ctx sdk.Context, _ string, packet channeltypes.Packet, _ sdk.AccAddress) error {
	data, err := types.UnmarshalPacketData(packet.GetData())
	if err != nil {
		return err
	}

	if err := im.keeper.OnTimeoutPacket(ctx, packet, data); err != nil {
		return err
	}
	events.EmitOnTimeoutEvent(ctx, data)
	return nil
}
