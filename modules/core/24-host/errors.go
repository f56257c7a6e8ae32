package host

import (
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// SubModuleName defines the ICS 24 host
const SubModuleName = "host"

// IBC client sentinel errors
var (
	ErrInvalidID     = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid identifier")
	ErrInvalidPath   = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid path")
	ErrInvalidPacket = errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "invalid packet")
)
