package types

import (
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// IBC channel sentinel errors
var (
	ErrChannelExists                 = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "channel already exists")
	ErrChannelNotFound               = errorsmod.Wrap(ibcerrors.ErrNotFound, "channel not found")
	ErrInvalidChannel                = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid channel")
	ErrInvalidChannelState           = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid channel state")
	ErrInvalidChannelOrdering        = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid channel ordering")
	ErrInvalidCounterparty           = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid counterparty channel")
	ErrInvalidChannelIdentifier      = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid channel identifier")
	ErrTooManyConnectionHops         = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "too many connection hops")
	ErrInvalidChannelVersion         = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid channel version")
	ErrSequenceSendNotFound          = errorsmod.Wrap(ibcerrors.ErrNotFound, "sequence send not found")
	ErrSequenceReceiveNotFound       = errorsmod.Wrap(ibcerrors.ErrNotFound, "sequence receive not found")
	ErrSequenceAckNotFound           = errorsmod.Wrap(ibcerrors.ErrNotFound, "sequence acknowledgement not found")
	ErrInvalidPacket                 = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid packet")
	ErrPacketTimeout                 = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "packet timeout")
	ErrTimeoutElapsed                = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "timeout elapsed")
	ErrTimeoutNotReached             = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "timeout not reached")
	ErrPacketCommitmentNotFound      = errorsmod.Wrap(ibcerrors.ErrNotFound, "packet commitment not found")
	ErrPacketReceiptNotFound         = errorsmod.Wrap(ibcerrors.ErrNotFound, "packet receipt not found")
	ErrPacketAcknowledgementNotFound = errorsmod.Wrap(ibcerrors.ErrNotFound, "packet acknowledgement not found")
	ErrPacketReceived                = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "packet already received")
	ErrAcknowledgementExists         = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "acknowledgement for packet already exists")
	ErrInvalidAcknowledgement        = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid acknowledgement")
	ErrNoOpMsg                       = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "message is redundant, no-op will be performed")
	ErrPacketSequenceOutOfOrder      = errorsmod.Wrap(ibcerrors.ErrInvalidSequence, "packet sequence is out of order")
)
