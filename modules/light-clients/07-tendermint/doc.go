/*
Package tendermint implements a concrete ClientState, ConsensusState,
Header and Misbehaviour for the Tendermint consensus light client, based
off the ICS 07 specification
(https://github.com/cosmos/ibc/tree/main/spec/client/ics-007-tendermint-client).

Header signatures are checked by a host supplied Verifier. The client reads
stored consensus states and their processed time and height through a
ClientValidationContext, so it never touches the store directly.
*/
package tendermint
