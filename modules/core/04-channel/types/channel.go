package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/ibcstore/ibc-store/internal/codec"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
)

// State defines if a channel is in one of the following states:
// CLOSED, INIT, TRYOPEN, OPEN or UNINITIALIZED.
type State int32

const (
	// Default State
	UNINITIALIZED State = 0
	// A channel has just started the opening handshake.
	INIT State = 1
	// A channel has acknowledged the handshake step on the counterparty chain.
	TRYOPEN State = 2
	// A channel has completed the handshake. Open channels are
	// ready to send and receive packets.
	OPEN State = 3
	// A channel has been closed and can no longer be used to send or receive
	// packets.
	CLOSED State = 4
)

var stateNames = map[State]string{
	UNINITIALIZED: "STATE_UNINITIALIZED_UNSPECIFIED",
	INIT:          "STATE_INIT",
	TRYOPEN:       "STATE_TRYOPEN",
	OPEN:          "STATE_OPEN",
	CLOSED:        "STATE_CLOSED",
}

// String implements the Stringer interface
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "STATE_UNKNOWN"
}

// Order defines if a channel is ORDERED or UNORDERED
type Order int32

const (
	// zero-value for channel ordering
	NONE Order = 0
	// packets can be delivered in any order, which may differ from the order in
	// which they were sent.
	UNORDERED Order = 1
	// packets are delivered exactly in the order which they were sent
	ORDERED Order = 2
)

var orderNames = map[Order]string{
	NONE:      "ORDER_NONE_UNSPECIFIED",
	UNORDERED: "ORDER_UNORDERED",
	ORDERED:   "ORDER_ORDERED",
}

// String implements the Stringer interface
func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return "ORDER_UNKNOWN"
}

// SubsetOf returns true if the provided Order is a subset of the receiver.
// An ORDERED channel may be relaxed to UNORDERED, never the reverse.
func (o Order) SubsetOf(order Order) bool {
	switch o {
	case ORDERED:
		return order == ORDERED || order == UNORDERED
	case UNORDERED:
		return order == UNORDERED
	default:
		return false
	}
}

// Channel defines pipeline for exactly-once packet delivery between specific
// modules on separate blockchains, which has at least one end capable of
// sending packets and one end capable of receiving packets.
type Channel struct {
	// current state of the channel end
	State State `json:"state" yaml:"state"`
	// whether the channel is ordered or unordered
	Ordering Order `json:"ordering" yaml:"ordering"`
	// counterparty channel end
	Counterparty Counterparty `json:"counterparty" yaml:"counterparty"`
	// list of connection identifiers, in order, along which packets sent on
	// this channel will travel
	ConnectionHops []string `json:"connection_hops" yaml:"connection_hops"`
	// opaque channel version, which is agreed upon during the handshake
	Version string `json:"version" yaml:"version"`
}

// NewChannel creates a new Channel instance
func NewChannel(
	state State, ordering Order, counterparty Counterparty,
	hops []string, version string,
) Channel {
	return Channel{
		State:          state,
		Ordering:       ordering,
		Counterparty:   counterparty,
		ConnectionHops: hops,
		Version:        version,
	}
}

// ValidateBasic performs a basic validation of the channel fields
func (ch Channel) ValidateBasic() error {
	if ch.State == UNINITIALIZED {
		return ErrInvalidChannelState
	}
	if !(ch.Ordering == ORDERED || ch.Ordering == UNORDERED) {
		return errorsmod.Wrap(ErrInvalidChannelOrdering, ch.Ordering.String())
	}
	if len(ch.ConnectionHops) != 1 {
		return errorsmod.Wrap(
			ErrTooManyConnectionHops,
			"current IBC version only supports one connection hop",
		)
	}
	if err := host.ConnectionIdentifierValidator(ch.ConnectionHops[0]); err != nil {
		return errorsmod.Wrap(err, "invalid connection hop ID")
	}
	return ch.Counterparty.ValidateBasic()
}

// Marshal encodes the channel as ibc.core.channel.v1.Channel.
func (ch Channel) Marshal() []byte {
	return codec.NewEncoder().
		Int64(1, int64(ch.State)).
		Int64(2, int64(ch.Ordering)).
		Message(3, ch.Counterparty.Marshal()).
		Strings(4, ch.ConnectionHops).
		String(5, ch.Version).
		Encoded()
}

// Unmarshal decodes a channel encoded by Marshal.
func (ch *Channel) Unmarshal(bz []byte) error {
	*ch = Channel{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			var state int32
			if err := f.Int32(&state); err != nil {
				return err
			}
			ch.State = State(state)
		case 2:
			var order int32
			if err := f.Int32(&order); err != nil {
				return err
			}
			ch.Ordering = Order(order)
		case 3:
			return f.Message(&ch.Counterparty)
		case 4:
			return f.AppendText(&ch.ConnectionHops)
		case 5:
			return f.Text(&ch.Version)
		}
		return nil
	})
}

// Counterparty defines a channel end counterparty
type Counterparty struct {
	// port on the counterparty chain which owns the other end of the channel.
	PortId string `json:"port_id" yaml:"port_id"`
	// channel end on the counterparty chain
	ChannelId string `json:"channel_id" yaml:"channel_id"`
}

// NewCounterparty returns a new Counterparty instance
func NewCounterparty(portID, channelID string) Counterparty {
	return Counterparty{
		PortId:    portID,
		ChannelId: channelID,
	}
}

// ValidateBasic performs a basic validation check of the identifiers
func (c Counterparty) ValidateBasic() error {
	if err := host.PortIdentifierValidator(c.PortId); err != nil {
		return errorsmod.Wrap(err, "invalid counterparty port ID")
	}
	if c.ChannelId != "" {
		if err := host.ChannelIdentifierValidator(c.ChannelId); err != nil {
			return errorsmod.Wrap(err, "invalid counterparty channel ID")
		}
	}
	return nil
}

// Marshal encodes the counterparty as ibc.core.channel.v1.Counterparty.
func (c Counterparty) Marshal() []byte {
	return codec.NewEncoder().
		String(1, c.PortId).
		String(2, c.ChannelId).
		Encoded()
}

// Unmarshal decodes a counterparty encoded by Marshal.
func (c *Counterparty) Unmarshal(bz []byte) error {
	*c = Counterparty{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Text(&c.PortId)
		case 2:
			return f.Text(&c.ChannelId)
		}
		return nil
	})
}

// IdentifiedChannel defines a channel with additional port and channel
// identifier fields.
type IdentifiedChannel struct {
	Channel
	// port identifier
	PortId string `json:"port_id" yaml:"port_id"`
	// channel identifier
	ChannelId string `json:"channel_id" yaml:"channel_id"`
}

// NewIdentifiedChannel creates a new IdentifiedChannel instance
func NewIdentifiedChannel(portID, channelID string, ch Channel) IdentifiedChannel {
	return IdentifiedChannel{
		Channel:   ch,
		PortId:    portID,
		ChannelId: channelID,
	}
}

// ValidateBasic performs a basic validation of the identifiers and channel fields.
func (ic IdentifiedChannel) ValidateBasic() error {
	if err := host.ChannelIdentifierValidator(ic.ChannelId); err != nil {
		return errorsmod.Wrap(err, "invalid channel ID")
	}
	if err := host.PortIdentifierValidator(ic.PortId); err != nil {
		return errorsmod.Wrap(err, "invalid port ID")
	}
	return ic.Channel.ValidateBasic()
}
