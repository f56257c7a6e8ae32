package mock

import (
	"time"

	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

var _ ibctm.Verifier = (*Verifier)(nil)

// Verifier accepts every header unless Err is set. Calls counts the headers
// it was asked to verify.
type Verifier struct {
	Err   error
	Calls int
}

// VerifyHeader implements ibctm.Verifier.
func (v *Verifier) VerifyHeader(_ *ibctm.ClientState, _ *ibctm.ConsensusState, _ *ibctm.Header, _ time.Time) error {
	v.Calls++
	return v.Err
}
