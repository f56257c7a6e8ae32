package tendermint

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
)

// CheckForMisbehaviour detects duplicate height misbehaviour and BFT time violation misbehaviour
// in a submitted Header message and verifies the correctness of a submitted Misbehaviour ClientMessage
func (ClientState) CheckForMisbehaviour(ctx ClientValidationContext, clientID string, msg ClientMessage) (bool, error) {
	switch msg := msg.(type) {
	case *Header:
		tmHeader := msg
		consState := tmHeader.ConsensusState()

		// Check if the Client store already has a consensus state for the header's height
		// If the consensus state exists, and it matches the header then we return early
		// since header has already been submitted in a previous UpdateClient.
		existingConsState, err := ctx.ConsensusState(clientID, tmHeader.GetHeight())
		switch {
		case err == nil:
			// This header has already been submitted and the necessary state is already stored
			// in client store, thus we can return early without further validation.
			return !existingConsState.Equal(consState), nil
		case !errorsmod.IsOf(err, clienttypes.ErrConsensusStateNotFound):
			return false, err
		}

		// Check that consensus state timestamps are monotonic
		prevCons, prevOk, err := ctx.PrevConsensusState(clientID, tmHeader.GetHeight())
		if err != nil {
			return false, err
		}
		nextCons, nextOk, err := ctx.NextConsensusState(clientID, tmHeader.GetHeight())
		if err != nil {
			return false, err
		}

		// if previous consensus state exists, check consensus state time is greater than previous consensus state time
		// if previous consensus state is not before current consensus state return true
		if prevOk && !prevCons.Timestamp.Before(consState.Timestamp) {
			return true, nil
		}
		// if next consensus state exists, check consensus state time is less than next consensus state time
		// if next consensus state is not after current consensus state return true
		if nextOk && !nextCons.Timestamp.After(consState.Timestamp) {
			return true, nil
		}
	case *Misbehaviour:
		// if heights are equal check that this is valid misbehaviour of a fork
		// otherwise if heights are unequal check that this is valid misbehavior of BFT time violation
		if msg.Header1.GetHeight().EQ(msg.Header2.GetHeight()) {
			return conflictingHeaders(msg.Header1, msg.Header2), nil
		}

		// Header1 is at greater height than Header2, therefore Header1 time must be less than or equal to
		// Header2 time in order to be valid misbehaviour (violation of monotonic time).
		if !msg.Header1.GetTime().After(msg.Header2.GetTime()) {
			return true, nil
		}
	}

	return false, nil
}

// conflictingHeaders reports whether two headers at the same height commit to
// different blocks.
func conflictingHeaders(header1, header2 *Header) bool {
	if header1.Commit != nil && header2.Commit != nil &&
		!bytes.Equal(header1.Commit.BlockID.Hash, header2.Commit.BlockID.Hash) {
		return true
	}
	return !header1.ConsensusState().Equal(header2.ConsensusState())
}

// verifyMisbehaviour determines whether or not two conflicting
// headers at the same height would have convinced the light client.
//
// NOTE: consensusState1 is the trusted consensus state that corresponds to the TrustedHeight
// of misbehaviour.Header1
// Similarly, consensusState2 is the trusted consensus state that corresponds
// to misbehaviour.Header2
// Misbehaviour sets frozen height to {0, 1} since it is only used as a boolean value (zero or non-zero).
func (cs *ClientState) verifyMisbehaviour(
	ctx ClientValidationContext, verifier Verifier, clientID string, misbehaviour *Misbehaviour,
) error {
	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}

	// Regardless of the type of misbehaviour, ensure that both headers are valid and would have been accepted by light-client
	if err := cs.verifyMisbehaviourHeader(ctx, verifier, clientID, misbehaviour.Header1); err != nil {
		return errorsmod.Wrap(err, "verifying Header1 in Misbehaviour failed")
	}
	if err := cs.verifyMisbehaviourHeader(ctx, verifier, clientID, misbehaviour.Header2); err != nil {
		return errorsmod.Wrap(err, "verifying Header2 in Misbehaviour failed")
	}

	return nil
}

// verifyMisbehaviourHeader checks a single header of a misbehaviour against
// its trusted consensus state. Unlike an update, the header may be older than
// states already stored for the client.
func (cs *ClientState) verifyMisbehaviourHeader(
	ctx ClientValidationContext, verifier Verifier, clientID string, header *Header,
) error {
	trustedConsState, err := ctx.ConsensusState(clientID, header.TrustedHeight)
	if err != nil {
		return errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound,
			"could not get trusted consensus state from clientStore at TrustedHeight: %s: %v", header.TrustedHeight, err)
	}

	if header.Header.ChainID != cs.ChainId {
		return errorsmod.Wrapf(ErrInvalidHeader, "header chain id %s does not match client chain id %s", header.Header.ChainID, cs.ChainId)
	}

	if cs.IsExpired(trustedConsState.Timestamp, ctx.HostTimestamp()) {
		return errorsmod.Wrapf(ErrTrustingPeriodExpired,
			"current timestamp minus the latest consensus state timestamp is greater than or equal to the trusting period (%s)", cs.TrustingPeriod)
	}

	if verifier == nil {
		return clienttypes.ErrVerifierNotConfigured
	}
	if err := verifier.VerifyHeader(cs, trustedConsState, header, ctx.HostTimestamp()); err != nil {
		return errorsmod.Wrapf(clienttypes.ErrInvalidMisbehaviour, "validator set in header has too much change from trusted validator set: %v", err)
	}
	return nil
}
