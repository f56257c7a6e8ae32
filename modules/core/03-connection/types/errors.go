package types

import (
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// IBC connection sentinel errors
var (
	ErrConnectionExists              = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "connection already exists")
	ErrConnectionNotFound            = errorsmod.Wrap(ibcerrors.ErrNotFound, "connection not found")
	ErrClientConnectionPathsNotFound = errorsmod.Wrap(ibcerrors.ErrNotFound, "light client connection paths not found")
	ErrConnectionPath                = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "connection path is not associated to the given light client")
	ErrInvalidConnectionState        = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid connection state")
	ErrInvalidCounterparty           = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid counterparty connection")
	ErrInvalidConnection             = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid connection")
	ErrInvalidVersion                = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid connection version")
	ErrVersionNegotiationFailed      = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "connection version negotiation failed")
	ErrInvalidConnectionIdentifier   = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid connection identifier")
	ErrDelayPeriodNotPassed          = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "packet delay period has not passed")
)
