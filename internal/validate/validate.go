package validate

import (
	errorsmod "cosmossdk.io/errors"

	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// QueryRequest validates that the portID and channelID of a query are valid identifiers.
func QueryRequest(portID, channelID string) error {
	if err := host.PortIdentifierValidator(portID); err != nil {
		return errorsmod.Wrap(ibcerrors.ErrInvalidRequest, err.Error())
	}

	if err := host.ChannelIdentifierValidator(channelID); err != nil {
		return errorsmod.Wrap(ibcerrors.ErrInvalidRequest, err.Error())
	}

	return nil
}

// HeightRange validates an inclusive range of host heights. A zero end leaves
// the range open.
func HeightRange(start, end uint64) error {
	if end != 0 && start > end {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "start height %d is greater than end height %d", start, end)
	}
	return nil
}
