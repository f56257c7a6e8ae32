package tendermint

import (
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// IBC tendermint client sentinel errors
var (
	ErrInvalidChainID          = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid chain-id")
	ErrInvalidTrustingPeriod   = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid trusting period")
	ErrInvalidUnbondingPeriod  = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid unbonding period")
	ErrInvalidHeaderHeight     = errorsmod.Wrap(ibcerrors.ErrInvalidHeight, "invalid header height")
	ErrInvalidHeader           = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid header")
	ErrInvalidMaxClockDrift    = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid max clock drift")
	ErrProcessedTimeNotFound   = errorsmod.Wrap(ibcerrors.ErrNotFound, "processed time not found")
	ErrProcessedHeightNotFound = errorsmod.Wrap(ibcerrors.ErrNotFound, "processed height not found")
	ErrDelayPeriodNotPassed    = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "packet-specified delay period has not been reached")
	ErrTrustingPeriodExpired   = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "time since latest trusted state has passed the trusting period")
	ErrInvalidProofSpecs       = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid proof specs")
	ErrInvalidValidatorSet     = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid validator set")
	ErrInvalidTrustLevel       = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid trust level")
	ErrHeaderInFuture          = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "header timestamp is beyond the allowed clock drift")
)
