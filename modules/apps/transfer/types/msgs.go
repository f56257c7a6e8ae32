package types

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

var _ sdk.HasValidateBasic = (*MsgTransfer)(nil)

// MsgTransfer sends Token from Sender on this chain to Receiver on the chain
// at the other end of SourceChannel. A zero TimeoutHeight or TimeoutTimestamp
// disables that bound; at least one must be set.
type MsgTransfer struct {
	SourcePort       string
	SourceChannel    string
	Token            sdk.Coin
	Sender           string
	Receiver         string
	TimeoutHeight    clienttypes.Height
	TimeoutTimestamp uint64
	Memo             string
}

// MsgTransferResponse carries the sequence of the packet sent.
type MsgTransferResponse struct {
	Sequence uint64
}

func NewMsgTransfer(
	sourcePort, sourceChannel string,
	token sdk.Coin, sender, receiver string,
	timeoutHeight clienttypes.Height, timeoutTimestamp uint64,
	memo string,
) *MsgTransfer {
	return &MsgTransfer{
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		Token:            token,
		Sender:           sender,
		Receiver:         receiver,
		TimeoutHeight:    timeoutHeight,
		TimeoutTimestamp: timeoutTimestamp,
		Memo:             memo,
	}
}

// ValidateBasic implements sdk.HasValidateBasic. The sender must be a local
// bech32 address; the receiver is only checked for presence and length.
func (msg MsgTransfer) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.SourcePort); err != nil {
		return errorsmod.Wrap(err, "source port")
	}
	if err := host.ChannelIdentifierValidator(msg.SourceChannel); err != nil {
		return errorsmod.Wrap(err, "source channel")
	}
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "sender: %v", err)
	}
	if err := validateParties(msg.Sender, msg.Receiver, msg.Memo); err != nil {
		return err
	}

	if !msg.Token.IsValid() || !msg.Token.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "token %s", msg.Token)
	}
	if err := ValidateIBCDenom(msg.Token.Denom); err != nil {
		return errorsmod.Wrap(ErrInvalidDenomForTransfer, err.Error())
	}

	if msg.TimeoutHeight.IsZero() && msg.TimeoutTimestamp == 0 {
		return errorsmod.Wrap(ErrInvalidPacketTimeout, "both timeout height and timestamp are zero")
	}
	return nil
}
