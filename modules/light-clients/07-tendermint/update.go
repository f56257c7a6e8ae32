package tendermint

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
)

// ClientMessage is implemented by Header and Misbehaviour.
type ClientMessage interface {
	ClientType() string
	ValidateBasic() error
}

var (
	_ ClientMessage = (*Header)(nil)
	_ ClientMessage = (*Misbehaviour)(nil)
)

// VerifyClientMessage checks if the clientMessage is of type Header or Misbehaviour and verifies the message
func (cs *ClientState) VerifyClientMessage(
	ctx ClientValidationContext, verifier Verifier, clientID string, clientMsg ClientMessage,
) error {
	switch msg := clientMsg.(type) {
	case *Header:
		return cs.verifyHeader(ctx, verifier, clientID, msg)
	case *Misbehaviour:
		return cs.verifyMisbehaviour(ctx, verifier, clientID, msg)
	default:
		return clienttypes.ErrInvalidClientType
	}
}

// verifyHeader returns an error if:
// - the client or header provided are not parseable to tendermint types
// - the header is invalid
// - header height is less than or equal to the trusted header height
// - header revision is not equal to trusted header revision
// - header valset commit verification fails
// - header timestamp is past the trusting period in relation to the consensus state
// - header timestamp is less than or equal to the consensus state timestamp
func (cs *ClientState) verifyHeader(
	ctx ClientValidationContext, verifier Verifier, clientID string, header *Header,
) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}

	currentTimestamp := ctx.HostTimestamp()

	// Retrieve trusted consensus states for each Header in misbehaviour
	consState, err := ctx.ConsensusState(clientID, header.TrustedHeight)
	if err != nil {
		return errorsmod.Wrapf(
			clienttypes.ErrConsensusStateNotFound,
			"could not get trusted consensus state from clientStore for Header at TrustedHeight: %s: %v", header.TrustedHeight, err,
		)
	}

	if header.Header.ChainID != cs.ChainId {
		return errorsmod.Wrapf(ErrInvalidHeader, "header chain id %s does not match client chain id %s", header.Header.ChainID, cs.ChainId)
	}

	// UpdateClient only accepts updates with a header at the same revision
	// as the trusted consensus state
	if header.GetHeight().RevisionNumber != header.TrustedHeight.RevisionNumber {
		return errorsmod.Wrapf(
			ErrInvalidHeaderHeight,
			"header height revision %d does not match trusted header revision %d",
			header.GetHeight().RevisionNumber, header.TrustedHeight.RevisionNumber,
		)
	}

	if cs.IsExpired(consState.Timestamp, currentTimestamp) {
		return errorsmod.Wrapf(
			ErrTrustingPeriodExpired,
			"trusted consensus state at %s is older than the trusting period %s", header.TrustedHeight, cs.TrustingPeriod,
		)
	}

	if header.GetTime().After(currentTimestamp.Add(cs.MaxClockDrift)) {
		return errorsmod.Wrapf(
			ErrHeaderInFuture,
			"header time %s is after current time %s plus max clock drift %s", header.GetTime(), currentTimestamp, cs.MaxClockDrift,
		)
	}

	if !header.GetTime().After(consState.Timestamp) {
		return errorsmod.Wrapf(
			ErrInvalidHeader,
			"header time %s must be after trusted consensus state time %s", header.GetTime(), consState.Timestamp,
		)
	}

	if verifier == nil {
		return clienttypes.ErrVerifierNotConfigured
	}
	if err := verifier.VerifyHeader(cs, consState, header, currentTimestamp); err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, fmt.Sprintf("failed to verify header: %v", err))
	}

	return nil
}

// UpdateState returns the client and consensus state resulting from a verified
// header together with the height it is stored at. The caller persists them.
// The latest height is only raised, so an older header leaves it untouched.
func (cs ClientState) UpdateState(header *Header) (*ClientState, *ConsensusState, clienttypes.Height) {
	height := header.GetHeight()

	updated := cs
	if height.GT(cs.LatestHeight) {
		updated.LatestHeight = height
	}

	return &updated, header.ConsensusState(), height
}

// UpdateStateOnMisbehaviour returns the client state frozen at FrozenHeight.
func (cs ClientState) UpdateStateOnMisbehaviour() *ClientState {
	frozen := cs
	frozen.FrozenHeight = FrozenHeight
	return &frozen
}
