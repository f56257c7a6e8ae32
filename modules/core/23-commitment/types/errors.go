package types

import (
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// SubModuleName is the error codespace
const SubModuleName string = "commitment"

// IBC connection sentinel errors
var (
	ErrInvalidProof       = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid proof")
	ErrInvalidPrefix      = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid prefix")
	ErrInvalidMerkleProof = errorsmod.Wrap(ibcerrors.ErrProtocolViolation, "invalid merkle proof")
)
