package types

import (
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// IBC client sentinel errors
var (
	ErrClientExists                           = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "light client already exists")
	ErrInvalidClient                          = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "light client is invalid")
	ErrClientNotFound                         = errorsmod.Wrap(ibcerrors.ErrNotFound, "light client not found")
	ErrClientFrozen                           = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "light client is frozen due to misbehaviour")
	ErrConsensusStateNotFound                 = errorsmod.Wrap(ibcerrors.ErrNotFound, "consensus state not found")
	ErrInvalidConsensus                       = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid consensus state")
	ErrInvalidClientType                      = errorsmod.Wrap(ibcerrors.ErrUnknownType, "invalid client type")
	ErrRootNotFound                           = errorsmod.Wrap(ibcerrors.ErrNotFound, "commitment root not found")
	ErrInvalidHeader                          = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid client header")
	ErrInvalidMisbehaviour                    = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid light client misbehaviour")
	ErrFailedClientStateVerification          = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "client state verification failed")
	ErrFailedConsensusStateVerification       = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "consensus state verification failed")
	ErrFailedConnectionStateVerification      = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "connection state verification failed")
	ErrFailedChannelStateVerification         = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "channel state verification failed")
	ErrFailedPacketCommitmentVerification     = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "packet commitment verification failed")
	ErrFailedPacketAckVerification            = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "packet acknowledgement verification failed")
	ErrFailedPacketReceiptVerification        = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "packet receipt verification failed")
	ErrFailedNextSeqRecvVerification          = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "next sequence receive verification failed")
	ErrUpdateMetaNotFound                     = errorsmod.Wrap(ibcerrors.ErrNotFound, "processed time or height not found for consensus state")
	ErrInvalidHeight                          = errorsmod.Wrap(ibcerrors.ErrInvalidHeight, "invalid height")
	ErrClientNotActive                        = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "client state is not active")
	ErrConsensusStateHeightNotMonotonic       = errorsmod.Wrap(ibcerrors.ErrOrderingViolation, "consensus state height must be greater than the latest stored height")
	ErrInvalidClientMessage                   = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid client message")
	ErrVerifierNotConfigured                  = errorsmod.Wrap(ibcerrors.ErrLogic, "header verifier not configured")
	ErrConsensusStateTimestampNotMonotonic    = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "consensus state timestamp is not monotonic")
	ErrConflictingConsensusStateAtSameHeight  = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "conflicting consensus state at the same height")
)
