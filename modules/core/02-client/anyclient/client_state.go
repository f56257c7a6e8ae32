package anyclient

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

// ClientState is the closed variant over the supported light client states.
// Exactly one field is set.
type ClientState struct {
	Tendermint *ibctm.ClientState
}

// NewTendermintClientState wraps a Tendermint client state.
func NewTendermintClientState(cs *ibctm.ClientState) ClientState {
	return ClientState{Tendermint: cs}
}

func (cs ClientState) tendermint() (*ibctm.ClientState, error) {
	if cs.Tendermint == nil {
		return nil, errorsmod.Wrap(clienttypes.ErrInvalidClientType, "client state variant is empty")
	}
	return cs.Tendermint, nil
}

// ClientType returns the client type of the variant, or an empty string.
func (cs ClientState) ClientType() string {
	if cs.Tendermint != nil {
		return cs.Tendermint.ClientType()
	}
	return ""
}

// LatestHeight returns the latest height of the client.
func (cs ClientState) LatestHeight() clienttypes.Height {
	if cs.Tendermint != nil {
		return cs.Tendermint.LatestHeight
	}
	return clienttypes.ZeroHeight()
}

// IsFrozen reports whether misbehaviour froze the client.
func (cs ClientState) IsFrozen() bool {
	return cs.Tendermint != nil && !cs.Tendermint.FrozenHeight.IsZero()
}

// Validate performs stateless validation of the client state.
func (cs ClientState) Validate() error {
	tm, err := cs.tendermint()
	if err != nil {
		return err
	}
	return tm.Validate()
}

// Status returns the status of the client. An empty variant is Unknown.
func (cs ClientState) Status(ctx ibctm.ClientValidationContext, clientID string) exported.Status {
	if cs.Tendermint == nil {
		return exported.Unknown
	}
	return cs.Tendermint.Status(ctx, clientID)
}

// VerifyClientMessage verifies a header or misbehaviour against the client.
func (cs ClientState) VerifyClientMessage(
	ctx ibctm.ClientValidationContext, verifier ibctm.Verifier, clientID string, clientMsg ClientMessage,
) error {
	tm, err := cs.tendermint()
	if err != nil {
		return err
	}
	msg, err := clientMsg.tendermint()
	if err != nil {
		return err
	}
	return tm.VerifyClientMessage(ctx, verifier, clientID, msg)
}

// CheckForMisbehaviour reports whether the client message proves misbehaviour.
func (cs ClientState) CheckForMisbehaviour(ctx ibctm.ClientValidationContext, clientID string, clientMsg ClientMessage) (bool, error) {
	tm, err := cs.tendermint()
	if err != nil {
		return false, err
	}
	msg, err := clientMsg.tendermint()
	if err != nil {
		return false, err
	}
	return tm.CheckForMisbehaviour(ctx, clientID, msg)
}

// UpdateState returns the client and consensus states produced by a verified
// header and the height the consensus state is stored at.
func (cs ClientState) UpdateState(clientMsg ClientMessage) (ClientState, ConsensusState, clienttypes.Height, error) {
	tm, err := cs.tendermint()
	if err != nil {
		return ClientState{}, ConsensusState{}, clienttypes.Height{}, err
	}
	if clientMsg.Header == nil {
		return ClientState{}, ConsensusState{}, clienttypes.Height{}, errorsmod.Wrap(clienttypes.ErrInvalidClientMessage, "expected a header")
	}

	updated, consState, height := tm.UpdateState(clientMsg.Header)
	return NewTendermintClientState(updated), NewTendermintConsensusState(consState), height, nil
}

// UpdateStateOnMisbehaviour returns the frozen client state.
func (cs ClientState) UpdateStateOnMisbehaviour() (ClientState, error) {
	tm, err := cs.tendermint()
	if err != nil {
		return ClientState{}, err
	}
	return NewTendermintClientState(tm.UpdateStateOnMisbehaviour()), nil
}

// VerifyMembership verifies that value is committed at path on the counterparty at height.
func (cs ClientState) VerifyMembership(
	ctx ibctm.ClientValidationContext,
	clientID string,
	height clienttypes.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path commitmenttypes.MerklePath,
	value []byte,
) error {
	tm, err := cs.tendermint()
	if err != nil {
		return err
	}
	return tm.VerifyMembership(ctx, clientID, height, delayTimePeriod, delayBlockPeriod, proof, path, value)
}

// VerifyNonMembership verifies that nothing is committed at path on the counterparty at height.
func (cs ClientState) VerifyNonMembership(
	ctx ibctm.ClientValidationContext,
	clientID string,
	height clienttypes.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path commitmenttypes.MerklePath,
) error {
	tm, err := cs.tendermint()
	if err != nil {
		return err
	}
	return tm.VerifyNonMembership(ctx, clientID, height, delayTimePeriod, delayBlockPeriod, proof, path)
}

// PackClientState encodes the client state as a protobuf Any.
func PackClientState(cs ClientState) ([]byte, error) {
	tm, err := cs.tendermint()
	if err != nil {
		return nil, err
	}
	bz, err := tm.Marshal()
	if err != nil {
		return nil, err
	}
	return packAny(TypeURLTendermintClientState, bz)
}

// UnpackClientState decodes a client state packed by PackClientState.
func UnpackClientState(bz []byte) (ClientState, error) {
	protoAny, err := unpackAny(bz)
	if err != nil {
		return ClientState{}, err
	}

	switch protoAny.TypeUrl {
	case TypeURLTendermintClientState:
		tm := new(ibctm.ClientState)
		if err := decodeValue(protoAny, tm); err != nil {
			return ClientState{}, err
		}
		return NewTendermintClientState(tm), nil
	default:
		return ClientState{}, unknownType(protoAny.TypeUrl)
	}
}
