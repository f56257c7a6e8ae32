package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/ibcstore/ibc-store/internal/codec"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
)

// State defines if a connection is in one of the following states:
// INIT, TRYOPEN, OPEN or UNINITIALIZED.
type State int32

const (
	// Default State
	UNINITIALIZED State = 0
	// A connection end has just started the opening handshake.
	INIT State = 1
	// A connection end has acknowledged the handshake step on the counterparty
	// chain.
	TRYOPEN State = 2
	// A connection end has completed the handshake.
	OPEN State = 3
)

var stateNames = map[State]string{
	UNINITIALIZED: "STATE_UNINITIALIZED_UNSPECIFIED",
	INIT:          "STATE_INIT",
	TRYOPEN:       "STATE_TRYOPEN",
	OPEN:          "STATE_OPEN",
}

// String implements the Stringer interface
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "STATE_UNKNOWN"
}

// ConnectionEnd defines a stateful object on a chain connected to another
// separate one.
// NOTE: there must only be 2 defined ConnectionEnds to establish
// a connection between two chains.
type ConnectionEnd struct {
	// client associated with this connection.
	ClientId string `json:"client_id" yaml:"client_id"`
	// IBC version which can be utilised to determine encodings or protocols for
	// channels or packets utilising this connection.
	Versions []*Version `json:"versions" yaml:"versions"`
	// current state of the connection end.
	State State `json:"state" yaml:"state"`
	// counterparty chain associated with this connection.
	Counterparty Counterparty `json:"counterparty" yaml:"counterparty"`
	// delay period that must pass before a consensus state can be used for
	// packet-verification NOTE: delay period logic is only implemented by some
	// clients.
	DelayPeriod uint64 `json:"delay_period" yaml:"delay_period"`
}

// NewConnectionEnd creates a new ConnectionEnd instance.
func NewConnectionEnd(state State, clientID string, counterparty Counterparty, versions []*Version, delayPeriod uint64) ConnectionEnd {
	return ConnectionEnd{
		ClientId:     clientID,
		Versions:     versions,
		State:        state,
		Counterparty: counterparty,
		DelayPeriod:  delayPeriod,
	}
}

// ValidateBasic implements the Connection interface.
// NOTE: the protocol supports that the connection and client IDs match the
// counterparty's.
func (c ConnectionEnd) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(c.ClientId); err != nil {
		return errorsmod.Wrap(err, "invalid client ID")
	}
	if len(c.Versions) == 0 {
		return errorsmod.Wrap(ErrInvalidVersion, "empty connection versions")
	}
	for _, version := range c.Versions {
		if err := ValidateVersion(version); err != nil {
			return err
		}
	}
	return c.Counterparty.ValidateBasic()
}

// Marshal encodes the connection as ibc.core.connection.v1.ConnectionEnd.
func (c ConnectionEnd) Marshal() []byte {
	versions := make([][]byte, len(c.Versions))
	for i, v := range c.Versions {
		versions[i] = v.Marshal()
	}
	return codec.NewEncoder().
		String(1, c.ClientId).
		Messages(2, versions).
		Int64(3, int64(c.State)).
		Message(4, c.Counterparty.Marshal()).
		Uint64(5, c.DelayPeriod).
		Encoded()
}

// Unmarshal decodes a connection encoded by Marshal.
func (c *ConnectionEnd) Unmarshal(bz []byte) error {
	*c = ConnectionEnd{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Text(&c.ClientId)
		case 2:
			version := new(Version)
			if err := f.Message(version); err != nil {
				return err
			}
			c.Versions = append(c.Versions, version)
		case 3:
			var state int32
			if err := f.Int32(&state); err != nil {
				return err
			}
			c.State = State(state)
		case 4:
			return f.Message(&c.Counterparty)
		case 5:
			return f.Uint64(&c.DelayPeriod)
		}
		return nil
	})
}

// Counterparty defines the counterparty chain associated with a connection end.
type Counterparty struct {
	// identifies the client on the counterparty chain associated with a given
	// connection.
	ClientId string `json:"client_id" yaml:"client_id"`
	// identifies the connection end on the counterparty chain associated with a
	// given connection.
	ConnectionId string `json:"connection_id" yaml:"connection_id"`
	// commitment merkle prefix of the counterparty chain.
	Prefix commitmenttypes.MerklePrefix `json:"prefix" yaml:"prefix"`
}

// NewCounterparty creates a new Counterparty instance.
func NewCounterparty(clientID, connectionID string, prefix commitmenttypes.MerklePrefix) Counterparty {
	return Counterparty{
		ClientId:     clientID,
		ConnectionId: connectionID,
		Prefix:       prefix,
	}
}

// ValidateBasic performs a basic validation check of the identifiers and prefix
func (c Counterparty) ValidateBasic() error {
	if c.ConnectionId != "" {
		if err := host.ConnectionIdentifierValidator(c.ConnectionId); err != nil {
			return errorsmod.Wrap(err, "invalid counterparty connection ID")
		}
	}
	if err := host.ClientIdentifierValidator(c.ClientId); err != nil {
		return errorsmod.Wrap(err, "invalid counterparty client ID")
	}
	if c.Prefix.Empty() {
		return errorsmod.Wrap(ErrInvalidCounterparty, "counterparty prefix cannot be empty")
	}
	return nil
}

// Marshal encodes the counterparty as ibc.core.connection.v1.Counterparty.
func (c Counterparty) Marshal() []byte {
	return codec.NewEncoder().
		String(1, c.ClientId).
		String(2, c.ConnectionId).
		Message(3, c.Prefix.Marshal()).
		Encoded()
}

// Unmarshal decodes a counterparty encoded by Marshal.
func (c *Counterparty) Unmarshal(bz []byte) error {
	*c = Counterparty{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Text(&c.ClientId)
		case 2:
			return f.Text(&c.ConnectionId)
		case 3:
			return f.Message(&c.Prefix)
		}
		return nil
	})
}

// ClientPaths define all the connection paths for a client state.
type ClientPaths struct {
	// list of connection paths
	Paths []string `json:"paths" yaml:"paths"`
}

// Marshal encodes the paths as ibc.core.connection.v1.ClientPaths.
func (cp ClientPaths) Marshal() []byte {
	return codec.NewEncoder().Strings(1, cp.Paths).Encoded()
}

// Unmarshal decodes paths encoded by Marshal.
func (cp *ClientPaths) Unmarshal(bz []byte) error {
	*cp = ClientPaths{}
	return codec.Decode(bz, func(f codec.Field) error {
		if f.Num == 1 {
			return f.AppendText(&cp.Paths)
		}
		return nil
	})
}

// IdentifiedConnection defines a connection with additional connection
// identifier field.
type IdentifiedConnection struct {
	ConnectionEnd
	// connection identifier.
	Id string `json:"id" yaml:"id"`
}

// NewIdentifiedConnection creates a new IdentifiedConnection instance
func NewIdentifiedConnection(connectionID string, conn ConnectionEnd) IdentifiedConnection {
	return IdentifiedConnection{
		ConnectionEnd: conn,
		Id:            connectionID,
	}
}

// ValidateBasic performs a basic validation of the connection identifier and connection fields.
func (ic IdentifiedConnection) ValidateBasic() error {
	if err := host.ConnectionIdentifierValidator(ic.Id); err != nil {
		return errorsmod.Wrap(err, "invalid connection ID")
	}
	return ic.ConnectionEnd.ValidateBasic()
}
