package tendermint

import (
	tmmath "github.com/cometbft/cometbft/libs/math"
	"github.com/cometbft/cometbft/light"

	"github.com/ibcstore/ibc-store/internal/codec"
)

// DefaultTrustLevel is the tendermint light client default trust level
var DefaultTrustLevel = NewFractionFromTm(light.DefaultTrustLevel)

// Fraction defines the protobuf message type for tmmath.Fraction that only
// supports positive values.
type Fraction struct {
	Numerator   uint64 `json:"numerator" yaml:"numerator"`
	Denominator uint64 `json:"denominator" yaml:"denominator"`
}

// NewFractionFromTm returns a new Fraction instance from a tmmath.Fraction
func NewFractionFromTm(f tmmath.Fraction) Fraction {
	return Fraction{
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
	}
}

// ToTendermint converts Fraction to tmmath.Fraction
func (f Fraction) ToTendermint() tmmath.Fraction {
	return tmmath.Fraction{
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
	}
}

// Marshal encodes the fraction as ibc.lightclients.tendermint.v1.Fraction.
func (f Fraction) Marshal() []byte {
	return codec.NewEncoder().
		Uint64(1, f.Numerator).
		Uint64(2, f.Denominator).
		Encoded()
}

// Unmarshal decodes a fraction encoded by Marshal.
func (f *Fraction) Unmarshal(bz []byte) error {
	*f = Fraction{}
	return codec.Decode(bz, func(fd codec.Field) error {
		switch fd.Num {
		case 1:
			return fd.Uint64(&f.Numerator)
		case 2:
			return fd.Uint64(&f.Denominator)
		}
		return nil
	})
}
