package tendermint

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/ibcstore/ibc-store/internal/codec"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// FrozenHeight is same for all misbehaviour
var FrozenHeight = clienttypes.NewHeight(0, 1)

// Misbehaviour is a wrapper over two conflicting Headers
// that justify the freezing of a Tendermint client.
type Misbehaviour struct {
	Header1 *Header `json:"header_1,omitempty" yaml:"header_1"`
	Header2 *Header `json:"header_2,omitempty" yaml:"header_2"`
}

// NewMisbehaviour creates a new Misbehaviour instance.
func NewMisbehaviour(header1, header2 *Header) *Misbehaviour {
	return &Misbehaviour{
		Header1: header1,
		Header2: header2,
	}
}

// ClientType is Tendermint light client
func (Misbehaviour) ClientType() string {
	return exported.Tendermint
}

// GetTime returns the timestamp at which misbehaviour occurred. It uses the
// maximum value from both headers to prevent producing an invalid header outside
// of the misbehaviour age range.
func (misbehaviour Misbehaviour) GetTime() time.Time {
	t1, t2 := misbehaviour.Header1.GetTime(), misbehaviour.Header2.GetTime()
	if t1.After(t2) {
		return t1
	}
	return t2
}

// ValidateBasic implements Misbehaviour interface
func (misbehaviour Misbehaviour) ValidateBasic() error {
	if misbehaviour.Header1 == nil {
		return errorsmod.Wrap(ErrInvalidHeader, "misbehaviour Header1 cannot be nil")
	}
	if misbehaviour.Header2 == nil {
		return errorsmod.Wrap(ErrInvalidHeader, "misbehaviour Header2 cannot be nil")
	}
	if misbehaviour.Header1.TrustedHeight.RevisionHeight == 0 {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "misbehaviour Header1 cannot have zero revision height")
	}
	if misbehaviour.Header2.TrustedHeight.RevisionHeight == 0 {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "misbehaviour Header2 cannot have zero revision height")
	}
	if misbehaviour.Header1.TrustedValidators == nil {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "trusted validator set in Header1 cannot be empty")
	}
	if misbehaviour.Header2.TrustedValidators == nil {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "trusted validator set in Header2 cannot be empty")
	}

	// ValidateBasic on both validators
	if err := misbehaviour.Header1.ValidateBasic(); err != nil {
		return errorsmod.Wrap(
			clienttypes.ErrInvalidMisbehaviour,
			errorsmod.Wrap(err, "header 1 failed validation").Error(),
		)
	}
	if err := misbehaviour.Header2.ValidateBasic(); err != nil {
		return errorsmod.Wrap(
			clienttypes.ErrInvalidMisbehaviour,
			errorsmod.Wrap(err, "header 2 failed validation").Error(),
		)
	}
	if misbehaviour.Header1.Header.ChainID != misbehaviour.Header2.Header.ChainID {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, "headers must have identical chainIDs")
	}

	// Ensure that Height1 is greater than or equal to Height2
	if misbehaviour.Header1.GetHeight().LT(misbehaviour.Header2.GetHeight()) {
		return errorsmod.Wrapf(clienttypes.ErrInvalidMisbehaviour, "Header1 height is less than Header2 height (%s < %s)", misbehaviour.Header1.GetHeight(), misbehaviour.Header2.GetHeight())
	}
	return nil
}

// Marshal encodes the misbehaviour as ibc.lightclients.tendermint.v1.Misbehaviour.
func (misbehaviour Misbehaviour) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if misbehaviour.Header1 != nil {
		bz, err := misbehaviour.Header1.Marshal()
		if err != nil {
			return nil, err
		}
		enc.Message(2, bz)
	}
	if misbehaviour.Header2 != nil {
		bz, err := misbehaviour.Header2.Marshal()
		if err != nil {
			return nil, err
		}
		enc.Message(3, bz)
	}
	return enc.Encoded(), nil
}

// Unmarshal decodes a misbehaviour encoded by Marshal. Field 1 holds the
// deprecated client identifier and is ignored.
func (misbehaviour *Misbehaviour) Unmarshal(bz []byte) error {
	*misbehaviour = Misbehaviour{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 2:
			misbehaviour.Header1 = new(Header)
			return f.Message(misbehaviour.Header1)
		case 3:
			misbehaviour.Header2 = new(Header)
			return f.Message(misbehaviour.Header2)
		}
		return nil
	})
}
