package tendermint

import (
	"bytes"
	"time"

	errorsmod "cosmossdk.io/errors"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	cmttypes "github.com/cometbft/cometbft/types"

	"github.com/ibcstore/ibc-store/internal/codec"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// ConsensusState defines the consensus state from Tendermint.
type ConsensusState struct {
	// timestamp that corresponds to the block height in which the ConsensusState
	// was stored.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// commitment root (i.e app hash)
	Root               commitmenttypes.MerkleRoot `json:"root" yaml:"root"`
	NextValidatorsHash cmtbytes.HexBytes          `json:"next_validators_hash" yaml:"next_validators_hash"`
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(
	timestamp time.Time, root commitmenttypes.MerkleRoot, nextValsHash cmtbytes.HexBytes,
) *ConsensusState {
	return &ConsensusState{
		Timestamp:          timestamp.UTC(),
		Root:               root,
		NextValidatorsHash: nextValsHash,
	}
}

// ClientType returns Tendermint
func (ConsensusState) ClientType() string {
	return exported.Tendermint
}

// GetRoot returns the commitment Root for the specific
func (cs ConsensusState) GetRoot() commitmenttypes.MerkleRoot {
	return cs.Root
}

// GetTimestamp returns block time in nanoseconds of the header that created consensus state
func (cs ConsensusState) GetTimestamp() uint64 {
	return uint64(cs.Timestamp.UnixNano())
}

// Equal reports whether two consensus states commit to the same block.
func (cs ConsensusState) Equal(other *ConsensusState) bool {
	if other == nil {
		return false
	}
	return cs.Timestamp.Equal(other.Timestamp) &&
		bytes.Equal(cs.Root.GetHash(), other.Root.GetHash()) &&
		bytes.Equal(cs.NextValidatorsHash, other.NextValidatorsHash)
}

// ValidateBasic defines a basic validation for the tendermint consensus state.
// NOTE: ProcessedTimestamp may be zero if this is an initial consensus state passed in by relayer
// as opposed to a consensus state constructed by the chain.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Root.Empty() {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "root cannot be empty")
	}
	if err := cmttypes.ValidateHash(cs.NextValidatorsHash); err != nil {
		return errorsmod.Wrap(err, "next validators hash is invalid")
	}
	if cs.Timestamp.Unix() <= 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	return nil
}

// Marshal encodes the consensus state as ibc.lightclients.tendermint.v1.ConsensusState.
func (cs ConsensusState) Marshal() []byte {
	return codec.NewEncoder().
		Message(1, marshalTimestamp(cs.Timestamp)).
		Message(2, cs.Root.Marshal()).
		Bytes(3, cs.NextValidatorsHash).
		Encoded()
}

// Unmarshal decodes a consensus state encoded by Marshal.
func (cs *ConsensusState) Unmarshal(bz []byte) error {
	*cs = ConsensusState{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return unmarshalTimestamp(f, &cs.Timestamp)
		case 2:
			return f.Message(&cs.Root)
		case 3:
			var hash []byte
			if err := f.Bytes(&hash); err != nil {
				return err
			}
			cs.NextValidatorsHash = hash
		}
		return nil
	})
}
