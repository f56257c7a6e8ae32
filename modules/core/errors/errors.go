package errors

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/ibcstore/ibc-store/modules/core/exported"
)

const codespace = exported.ModuleName

// The taxonomy below is shared by every IBC sub-module. Sub-module errors are
// declared as wraps of one of these so callers can classify a failure with
// errors.Is while the ABCI code stays in this codespace.
var (
	// ErrNotFound is returned when a client, consensus state, connection,
	// channel or packet artifact is absent. It is expected and recoverable.
	ErrNotFound = errorsmod.Register(codespace, 2, "not found")

	// ErrDecode is returned when stored bytes do not match the expected schema.
	ErrDecode = errorsmod.Register(codespace, 3, "failed to decode stored value")

	// ErrOrderingViolation is returned when an ascending collection receives a
	// key that is not strictly greater than its current maximum.
	ErrOrderingViolation = errorsmod.Register(codespace, 4, "ordering violation")

	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = errorsmod.Register(codespace, 5, "unauthorized")

	// ErrUnknownType is returned for an unrecognised client, message or module type tag.
	ErrUnknownType = errorsmod.Register(codespace, 6, "unknown type")

	// ErrProtocolViolation is returned when a message breaks a handshake or
	// packet rule, including failed proof verification.
	ErrProtocolViolation = errorsmod.Register(codespace, 7, "protocol violation")

	// ErrInvalidRequest defines an error where the request contains invalid data.
	ErrInvalidRequest = errorsmod.Register(codespace, 8, "invalid request")

	// ErrInvalidHeight defines an error for an invalid height
	ErrInvalidHeight = errorsmod.Register(codespace, 9, "invalid height")

	// ErrInvalidSequence is used when a sequence number is incorrect.
	ErrInvalidSequence = errorsmod.Register(codespace, 10, "invalid sequence")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = errorsmod.Register(codespace, 11, "internal logic error")

	// ErrInvalidAddress defines an error for an invalid signer or recipient address.
	ErrInvalidAddress = errorsmod.Register(codespace, 12, "invalid address")

	// ErrInvalidCoins defines an error for an invalid token amount or denomination.
	ErrInvalidCoins = errorsmod.Register(codespace, 13, "invalid coins")
)
