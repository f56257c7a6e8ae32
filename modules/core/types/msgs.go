package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/storage"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

var (
	_ sdk.HasValidateBasic = (*MsgUpdateParams)(nil)
	_ sdk.HasValidateBasic = (*MsgShrinkClientHistory)(nil)
	_ sdk.HasValidateBasic = (*MsgClearClientHistory)(nil)
	_ sdk.HasValidateBasic = (*MsgPruneEventHistory)(nil)
	_ sdk.HasValidateBasic = (*MsgPruneReceipts)(nil)
	_ sdk.HasValidateBasic = (*MsgPruneAcknowledgements)(nil)
)

// MsgUpdateParams replaces the IBC store parameters. Only the authority may
// submit it.
type MsgUpdateParams struct {
	Signer string
	Params Params
}

// NewMsgUpdateParams creates a new MsgUpdateParams instance.
func NewMsgUpdateParams(signer string, params Params) *MsgUpdateParams {
	return &MsgUpdateParams{Signer: signer, Params: params}
}

// ValidateBasic implements sdk.HasValidateBasic.
func (msg MsgUpdateParams) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return msg.Params.Validate()
}

// MsgShrinkClientHistory evicts the oldest consensus states of a client until
// its history fits ConsensusHistoryLength.
type MsgShrinkClientHistory struct {
	ClientId string
	Signer   string
}

// ValidateBasic implements sdk.HasValidateBasic.
func (msg MsgShrinkClientHistory) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

// MsgClearClientHistory evicts every consensus state of a client.
type MsgClearClientHistory struct {
	ClientId string
	Signer   string
}

// ValidateBasic implements sdk.HasValidateBasic.
func (msg MsgClearClientHistory) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

// MsgPruneEventHistory evicts the oldest event buckets until the history fits
// EventHistoryLength.
type MsgPruneEventHistory struct {
	Signer string
}

// ValidateBasic implements sdk.HasValidateBasic.
func (msg MsgPruneEventHistory) ValidateBasic() error {
	return validateSigner(msg.Signer)
}

// MsgPruneReceipts removes the packet receipts of a channel up to and
// including Sequence.
type MsgPruneReceipts struct {
	PortId    string
	ChannelId string
	Sequence  uint64
	Signer    string
}

// ValidateBasic implements sdk.HasValidateBasic.
func (msg MsgPruneReceipts) ValidateBasic() error {
	return validatePrune(msg.PortId, msg.ChannelId, msg.Sequence, msg.Signer)
}

// MsgPruneAcknowledgements removes the packet acknowledgements of a channel up
// to and including Sequence.
type MsgPruneAcknowledgements struct {
	PortId    string
	ChannelId string
	Sequence  uint64
	Signer    string
}

// ValidateBasic implements sdk.HasValidateBasic.
func (msg MsgPruneAcknowledgements) ValidateBasic() error {
	return validatePrune(msg.PortId, msg.ChannelId, msg.Sequence, msg.Signer)
}

// MsgUpdateParamsResponse defines the MsgUpdateParams response type.
type MsgUpdateParamsResponse struct{}

// MsgMaintenanceResponse reports how far a resumable maintenance message got.
// A NeedsContinuation status asks the authority to submit the message again.
type MsgMaintenanceResponse struct {
	Progress storage.Progress
}

func validatePrune(portID, channelID string, sequence uint64, signer string) error {
	if err := validateSigner(signer); err != nil {
		return err
	}
	if err := host.PortIdentifierValidator(portID); err != nil {
		return errorsmod.Wrap(err, "invalid port ID")
	}
	if err := host.ChannelIdentifierValidator(channelID); err != nil {
		return errorsmod.Wrap(err, "invalid channel ID")
	}
	if sequence == 0 {
		return errorsmod.Wrap(ibcerrors.ErrInvalidSequence, "prune sequence cannot be 0")
	}
	return nil
}

func validateSigner(signer string) error {
	if strings.TrimSpace(signer) == "" {
		return errorsmod.Wrap(ibcerrors.ErrInvalidAddress, "signer cannot be blank")
	}
	if _, err := sdk.AccAddressFromBech32(signer); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	return nil
}
