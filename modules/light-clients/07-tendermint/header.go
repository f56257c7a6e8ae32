package tendermint

import (
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"

	"github.com/ibcstore/ibc-store/internal/codec"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// Header defines the Tendermint client consensus Header.
// It encapsulates all the information necessary to update from a trusted
// Tendermint ConsensusState. The inclusion of TrustedHeight and
// TrustedValidators allows this update to process correctly, so long as the
// ConsensusState for the TrustedHeight exists, this removes race conditions
// among relayers. The SignedHeader and ValidatorSet are the new untrusted update
// fields for the client.
type Header struct {
	*cmtproto.SignedHeader `json:"signed_header,omitempty" yaml:"signed_header"`

	ValidatorSet      *cmtproto.ValidatorSet `json:"validator_set,omitempty" yaml:"validator_set"`
	TrustedHeight     clienttypes.Height     `json:"trusted_height" yaml:"trusted_height"`
	TrustedValidators *cmtproto.ValidatorSet `json:"trusted_validators,omitempty" yaml:"trusted_validators"`
}

// ConsensusState returns the updated consensus state associated with the header
func (h Header) ConsensusState() *ConsensusState {
	return NewConsensusState(
		h.GetTime(),
		commitmenttypes.NewMerkleRoot(h.Header.GetAppHash()),
		h.Header.NextValidatorsHash,
	)
}

// ClientType defines that the Header is a Tendermint consensus algorithm
func (Header) ClientType() string {
	return exported.Tendermint
}

// GetHeight returns the current height. It returns 0 if the tendermint
// header is nil.
// NOTE: the header.Header is checked to be non nil in ValidateBasic.
func (h Header) GetHeight() clienttypes.Height {
	revision := clienttypes.ParseChainID(h.Header.ChainID)
	return clienttypes.NewHeight(revision, uint64(h.Header.Height))
}

// GetTime returns the current block timestamp. It returns a zero time if
// the tendermint header is nil.
// NOTE: the header.Header is checked to be non nil in ValidateBasic.
func (h Header) GetTime() time.Time {
	return h.Header.Time
}

// ValidateBasic calls the SignedHeader ValidateBasic function and checks
// that validatorsets are not nil.
// NOTE: TrustedHeight and TrustedValidators may be empty when creating client
// with MsgCreateClient
func (h Header) ValidateBasic() error {
	if h.SignedHeader == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "tendermint signed header cannot be nil")
	}
	if h.Header == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "tendermint header cannot be nil")
	}
	if strings.TrimSpace(h.Header.ChainID) == "" {
		return errorsmod.Wrap(ErrInvalidChainID, "header chain id cannot be empty")
	}
	if h.Header.Height <= 0 {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "header height must be positive, got %d", h.Header.Height)
	}
	if h.Commit != nil && h.Commit.Height != h.Header.Height {
		return errorsmod.Wrapf(ErrInvalidHeader, "commit height %d does not match header height %d", h.Commit.Height, h.Header.Height)
	}

	// TrustedHeight is less than Header for updates and misbehaviour
	if h.TrustedHeight.GTE(h.GetHeight()) {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "TrustedHeight %s must be less than header height %s",
			h.TrustedHeight, h.GetHeight())
	}

	if h.ValidatorSet == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "validator set is nil")
	}
	return nil
}

// Marshal encodes the header as ibc.lightclients.tendermint.v1.Header.
func (h Header) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if h.SignedHeader != nil {
		bz, err := h.SignedHeader.Marshal()
		if err != nil {
			return nil, err
		}
		enc.Message(1, bz)
	}
	if h.ValidatorSet != nil {
		bz, err := h.ValidatorSet.Marshal()
		if err != nil {
			return nil, err
		}
		enc.Message(2, bz)
	}
	enc.Message(3, h.TrustedHeight.Marshal())
	if h.TrustedValidators != nil {
		bz, err := h.TrustedValidators.Marshal()
		if err != nil {
			return nil, err
		}
		enc.Message(4, bz)
	}
	return enc.Encoded(), nil
}

// Unmarshal decodes a header encoded by Marshal.
func (h *Header) Unmarshal(bz []byte) error {
	*h = Header{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			h.SignedHeader = new(cmtproto.SignedHeader)
			return f.Message(h.SignedHeader)
		case 2:
			h.ValidatorSet = new(cmtproto.ValidatorSet)
			return f.Message(h.ValidatorSet)
		case 3:
			return f.Message(&h.TrustedHeight)
		case 4:
			h.TrustedValidators = new(cmtproto.ValidatorSet)
			return f.Message(h.TrustedValidators)
		}
		return nil
	})
}
