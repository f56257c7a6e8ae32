package types

import (
	errorsmod "cosmossdk.io/errors"

	host "github.com/ibcstore/ibc-store/modules/core/24-host"
)

// Hop is the port and channel a token arrived through, on the chain that
// received it.
type Hop struct {
	PortId    string `json:"port_id"`
	ChannelId string `json:"channel_id"`
}

func NewHop(portID, channelID string) Hop {
	return Hop{PortId: portID, ChannelId: channelID}
}

// Validate checks both identifiers against the host identifier rules.
func (h Hop) Validate() error {
	if err := host.PortIdentifierValidator(h.PortId); err != nil {
		return errorsmod.Wrapf(err, "hop %s", h)
	}
	if err := host.ChannelIdentifierValidator(h.ChannelId); err != nil {
		return errorsmod.Wrapf(err, "hop %s", h)
	}
	return nil
}

// String renders the hop as port/channel.
func (h Hop) String() string {
	return h.PortId + "/" + h.ChannelId
}
