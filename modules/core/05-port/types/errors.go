package types

import (
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

const (
	// SubModuleName defines the IBC port name
	SubModuleName = "port"

	// PortIDTransfer is the port the transfer application is bound to.
	PortIDTransfer = "transfer"
)

// IBC port sentinel errors
var (
	ErrUnknownPort   = errorsmod.Wrap(ibcerrors.ErrUnknownType, "no module is bound to the port")
	ErrRouteNotFound = errorsmod.Wrap(ibcerrors.ErrNotFound, "route not found")
)
