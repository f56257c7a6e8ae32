package anyclient

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

// ConsensusState is the closed variant over the supported consensus states.
type ConsensusState struct {
	Tendermint *ibctm.ConsensusState
}

// NewTendermintConsensusState wraps a Tendermint consensus state.
func NewTendermintConsensusState(cs *ibctm.ConsensusState) ConsensusState {
	return ConsensusState{Tendermint: cs}
}

// AsTendermint returns the Tendermint consensus state or ErrInvalidClientType.
func (cs ConsensusState) AsTendermint() (*ibctm.ConsensusState, error) {
	if cs.Tendermint == nil {
		return nil, errorsmod.Wrap(clienttypes.ErrInvalidClientType, "consensus state is not a tendermint consensus state")
	}
	return cs.Tendermint, nil
}

// ClientType returns the client type of the variant, or an empty string.
func (cs ConsensusState) ClientType() string {
	if cs.Tendermint != nil {
		return cs.Tendermint.ClientType()
	}
	return ""
}

// GetTimestamp returns the block time of the consensus state in nanoseconds.
func (cs ConsensusState) GetTimestamp() uint64 {
	if cs.Tendermint != nil {
		return cs.Tendermint.GetTimestamp()
	}
	return 0
}

// GetRoot returns the commitment root of the consensus state.
func (cs ConsensusState) GetRoot() commitmenttypes.MerkleRoot {
	if cs.Tendermint != nil {
		return cs.Tendermint.GetRoot()
	}
	return commitmenttypes.MerkleRoot{}
}

// ValidateBasic performs stateless validation of the consensus state.
func (cs ConsensusState) ValidateBasic() error {
	tm, err := cs.AsTendermint()
	if err != nil {
		return err
	}
	return tm.ValidateBasic()
}

// PackConsensusState encodes the consensus state as a protobuf Any.
func PackConsensusState(cs ConsensusState) ([]byte, error) {
	tm, err := cs.AsTendermint()
	if err != nil {
		return nil, err
	}
	return packAny(TypeURLTendermintConsensusState, tm.Marshal())
}

// MustPackConsensusState calls PackConsensusState and panics on error.
func MustPackConsensusState(cs ConsensusState) []byte {
	bz, err := PackConsensusState(cs)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnpackConsensusState decodes a consensus state packed by PackConsensusState.
func UnpackConsensusState(bz []byte) (ConsensusState, error) {
	protoAny, err := unpackAny(bz)
	if err != nil {
		return ConsensusState{}, err
	}

	switch protoAny.TypeUrl {
	case TypeURLTendermintConsensusState:
		tm := new(ibctm.ConsensusState)
		if err := decodeValue(protoAny, tm); err != nil {
			return ConsensusState{}, err
		}
		return NewTendermintConsensusState(tm), nil
	default:
		return ConsensusState{}, unknownType(protoAny.TypeUrl)
	}
}
