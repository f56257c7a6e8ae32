package tendermint

import (
	"time"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
)

// ClientValidationContext is the host state read by a Tendermint client while
// verifying client messages and proofs.
type ClientValidationContext interface {
	// HostHeight returns the height of the executing chain.
	HostHeight() clienttypes.Height
	// HostTimestamp returns the block time of the executing chain.
	HostTimestamp() time.Time

	// ConsensusState returns the consensus state stored for the client at height.
	ConsensusState(clientID string, height clienttypes.Height) (*ConsensusState, error)
	// PrevConsensusState returns the consensus state at the highest height below height.
	PrevConsensusState(clientID string, height clienttypes.Height) (*ConsensusState, bool, error)
	// NextConsensusState returns the consensus state at the lowest height above height.
	NextConsensusState(clientID string, height clienttypes.Height) (*ConsensusState, bool, error)

	// ClientUpdateTime returns the host timestamp in nanoseconds at which the
	// consensus state at height was stored.
	ClientUpdateTime(clientID string, height clienttypes.Height) (uint64, error)
	// ClientUpdateHeight returns the host height at which the consensus state
	// at height was stored.
	ClientUpdateHeight(clientID string, height clienttypes.Height) (clienttypes.Height, error)
}

// Verifier checks the signatures of a header against a trusted consensus
// state. Implementations wrap a Tendermint light client verification library.
type Verifier interface {
	VerifyHeader(clientState *ClientState, trustedConsState *ConsensusState, header *Header, now time.Time) error
}
