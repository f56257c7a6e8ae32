package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrInvalidPacketTimeout    = errorsmod.Register(ModuleName, 2, "transfer without timeout")
	ErrInvalidDenomForTransfer = errorsmod.Register(ModuleName, 3, "denomination cannot be transferred")
	ErrInvalidVersion          = errorsmod.Register(ModuleName, 4, "unsupported transfer channel version")
	ErrInvalidAmount           = errorsmod.Register(ModuleName, 5, "invalid transfer amount")
	ErrDenomNotFound           = errorsmod.Register(ModuleName, 6, "voucher denomination not found")
	ErrMaxTransferChannels     = errorsmod.Register(ModuleName, 7, "transfer channel sequence out of range")
	ErrInvalidMemo             = errorsmod.Register(ModuleName, 8, "memo too long")
)
