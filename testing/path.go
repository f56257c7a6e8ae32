package ibctesting

import (
	"bytes"
	"errors"

	"github.com/stretchr/testify/require"

	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
)

// Path contains two endpoints representing two chains connected over IBC
type Path struct {
	EndpointA *Endpoint
	EndpointB *Endpoint
}

// NewPath constructs an endpoint for each chain using the default values
// for the endpoints. Each endpoint is updated to have a pointer to the
// counterparty endpoint.
func NewPath(chainA, chainB *TestChain) *Path {
	endpointA := NewDefaultEndpoint(chainA)
	endpointB := NewDefaultEndpoint(chainB)

	endpointA.Counterparty = endpointB
	endpointB.Counterparty = endpointA

	return &Path{
		EndpointA: endpointA,
		EndpointB: endpointB,
	}
}

// SetChannelOrdered sets the channel order for both endpoints to ORDERED.
func (path *Path) SetChannelOrdered() *Path {
	path.EndpointA.ChannelConfig.Order = channeltypes.ORDERED
	path.EndpointB.ChannelConfig.Order = channeltypes.ORDERED
	return path
}

// RelayPacket attempts to relay the packet first on EndpointA and then on EndpointB
// if EndpointA does not contain a packet commitment for that packet. The acknowledgement
// written on the receiving chain is returned.
func (path *Path) RelayPacket(packet channeltypes.Packet) ([]byte, error) {
	for _, endpoints := range [][2]*Endpoint{{path.EndpointA, path.EndpointB}, {path.EndpointB, path.EndpointA}} {
		source, dest := endpoints[0], endpoints[1]

		commitment, err := source.Chain.Keeper.GetPacketCommitment(source.Chain.GetContext(), packet.SourcePort, packet.SourceChannel, packet.Sequence)
		if err != nil || !bytes.Equal(channeltypes.CommitPacket(packet), commitment) {
			continue
		}

		// packet found, relay from source to dest
		if err := dest.UpdateClient(); err != nil {
			return nil, err
		}

		ack, err := dest.RecvPacket(packet)
		if err != nil {
			return nil, err
		}
		if ack == nil {
			return nil, nil
		}

		if err := source.AcknowledgePacket(packet, ack); err != nil {
			return nil, err
		}
		return ack, nil
	}

	return nil, errors.New("packet commitment does not exist on either endpoint for provided packet")
}

// Setup constructs a TM client, connection, and channel on both chains provided. It will
// fail if any error occurs.
func (path *Path) Setup() {
	path.SetupConnections()
	path.CreateChannels()
}

// SetupClients is a helper function to create clients on both chains. It assumes the
// caller does not anticipate any errors.
func (path *Path) SetupClients() {
	require.NoError(path.EndpointA.Chain.TB, path.EndpointA.CreateClient())
	require.NoError(path.EndpointB.Chain.TB, path.EndpointB.CreateClient())
}

// SetupConnections is a helper function to create clients and the appropriate
// connections on both the source and counterparty chain. It assumes the caller does not
// anticipate any errors.
func (path *Path) SetupConnections() {
	path.SetupClients()
	path.CreateConnections()
}

// CreateConnections constructs and executes connection handshake messages in order to create
// OPEN connections on chainA and chainB. The function expects the connections to be
// successfully opened otherwise testing will fail.
func (path *Path) CreateConnections() {
	require.NoError(path.EndpointA.Chain.TB, path.EndpointA.ConnOpenInit())
	require.NoError(path.EndpointB.Chain.TB, path.EndpointB.ConnOpenTry())
	require.NoError(path.EndpointA.Chain.TB, path.EndpointA.ConnOpenAck())
	require.NoError(path.EndpointB.Chain.TB, path.EndpointB.ConnOpenConfirm())

	// ensure counterparty is up to date
	require.NoError(path.EndpointA.Chain.TB, path.EndpointA.UpdateClient())
}

// CreateChannels constructs and executes channel handshake messages in order to create
// OPEN channels on chainA and chainB. The function expects the channels to be
// successfully opened otherwise testing will fail.
func (path *Path) CreateChannels() {
	require.NoError(path.EndpointA.Chain.TB, path.EndpointA.ChanOpenInit())
	require.NoError(path.EndpointB.Chain.TB, path.EndpointB.ChanOpenTry())
	require.NoError(path.EndpointA.Chain.TB, path.EndpointA.ChanOpenAck())
	require.NoError(path.EndpointB.Chain.TB, path.EndpointB.ChanOpenConfirm())

	// ensure counterparty is up to date
	require.NoError(path.EndpointA.Chain.TB, path.EndpointA.UpdateClient())
}
