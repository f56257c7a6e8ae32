package keeper_test

import (
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	porttypes "github.com/ibcstore/ibc-store/modules/core/05-port/types"
	ibctesting "github.com/ibcstore/ibc-store/testing"
	"github.com/ibcstore/ibc-store/testing/mock"
)

func (s *KeeperTestSuite) TestConnectionHandshake() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupConnections()

	connA := path.EndpointA.GetConnection()
	connB := path.EndpointB.GetConnection()
	s.Require().Equal(connectiontypes.OPEN, connA.State)
	s.Require().Equal(connectiontypes.OPEN, connB.State)
	s.Require().Equal(path.EndpointB.ConnectionID, connA.Counterparty.ConnectionId)
	s.Require().Equal(path.EndpointA.ConnectionID, connB.Counterparty.ConnectionId)
	s.Require().Equal([]*connectiontypes.Version{ibctesting.ConnectionVersion}, connA.Versions)

	connections, err := s.chainA.Keeper.ClientConnections(s.chainA.GetContext(), path.EndpointA.ClientID)
	s.Require().NoError(err)
	s.Require().Equal([]string{path.EndpointA.ConnectionID}, connections)
	s.Require().Equal(uint64(1), s.chainA.Keeper.ConnectionCounter(s.chainA.GetContext()))
}

func (s *KeeperTestSuite) TestConnOpenInitInactiveClient() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupClients()

	s.coordinator.IncrementTimeBy(ibctesting.TrustingPeriod)

	err := path.EndpointA.ConnOpenInit()
	s.Require().ErrorIs(err, clienttypes.ErrClientNotActive)
	s.Require().Zero(s.chainA.Keeper.ConnectionCounter(s.chainA.GetContext()))
}

func (s *KeeperTestSuite) TestConnOpenTryProofMismatch() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupClients()
	s.Require().NoError(path.EndpointA.ConnOpenInit())

	// chainA stored a connection with the default delay period
	path.EndpointB.ConnectionConfig.DelayPeriod = 10

	err := path.EndpointB.ConnOpenTry()
	s.Require().ErrorIs(err, clienttypes.ErrFailedConnectionStateVerification)
}

func (s *KeeperTestSuite) TestConnOpenConfirmWrongState() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupClients()
	s.Require().NoError(path.EndpointA.ConnOpenInit())
	s.Require().NoError(path.EndpointB.ConnOpenTry())

	err := path.EndpointA.ConnOpenConfirm()
	s.Require().ErrorIs(err, connectiontypes.ErrInvalidConnectionState)
}

func (s *KeeperTestSuite) TestChannelHandshake() {
	testCases := []struct {
		name  string
		order channeltypes.Order
	}{
		{"unordered", channeltypes.UNORDERED},
		{"ordered", channeltypes.ORDERED},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest() // reset

			path := ibctesting.NewPath(s.chainA, s.chainB)
			path.EndpointA.ChannelConfig.Order = tc.order
			path.EndpointB.ChannelConfig.Order = tc.order
			path.Setup()

			for _, endpoint := range []*ibctesting.Endpoint{path.EndpointA, path.EndpointB} {
				channel := endpoint.GetChannel()
				s.Require().Equal(channeltypes.OPEN, channel.State)
				s.Require().Equal(tc.order, channel.Ordering)
				s.Require().Equal(mock.Version, channel.Version)
				s.Require().Equal(endpoint.Counterparty.ChannelID, channel.Counterparty.ChannelId)
				s.Require().Equal([]string{endpoint.ConnectionID}, channel.ConnectionHops)

				ctx := endpoint.Chain.GetContext()
				k := endpoint.Chain.Keeper
				for _, next := range []func(sdk.Context, string, string) (uint64, error){
					k.GetNextSequenceSend, k.GetNextSequenceRecv, k.GetNextSequenceAck,
				} {
					seq, err := next(ctx, endpoint.ChannelConfig.PortID, endpoint.ChannelID)
					s.Require().NoError(err)
					s.Require().Equal(uint64(1), seq)
				}

				version, found := k.GetAppVersion(ctx, endpoint.ChannelConfig.PortID, endpoint.ChannelID)
				s.Require().True(found)
				s.Require().Equal(mock.Version, version)
			}
		})
	}
}

func (s *KeeperTestSuite) TestChanOpenInit() {
	var path *ibctesting.Path

	testCases := []testCase{
		{"success", func() {}, nil},
		{"connection not open", func() {
			path.SetupClients()
			s.Require().NoError(path.EndpointA.ConnOpenInit())
		}, connectiontypes.ErrInvalidConnectionState},
		{"connection not found", func() {
			path.SetupClients()
			path.EndpointA.ConnectionID = "connection-100"
		}, connectiontypes.ErrConnectionNotFound},
		{"no application bound to port", func() {
			path.SetupConnections()
			path.EndpointA.ChannelConfig.PortID = "mockport"
		}, porttypes.ErrUnknownPort},
		{"application rejects channel", func() {
			path.SetupConnections()
			s.chainA.App.OnChanOpenInit = func(sdk.Context, channeltypes.Order, []string, string, string, channeltypes.Counterparty, string) (string, error) {
				return "", mock.MockApplicationCallbackError
			}
		}, mock.MockApplicationCallbackError},
		{"client expired", func() {
			path.SetupConnections()
			s.coordinator.IncrementTimeBy(ibctesting.TrustingPeriod)
		}, clienttypes.ErrClientNotActive},
	}

	for _, tc := range testCases {
		s.Run(tc.msg, func() {
			s.SetupTest() // reset
			path = ibctesting.NewPath(s.chainA, s.chainB)

			tc.malleate()
			if path.EndpointA.ConnectionID == "" {
				path.SetupConnections()
			}

			err := path.EndpointA.ChanOpenInit()
			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().Equal(channeltypes.FormatChannelIdentifier(0), path.EndpointA.ChannelID)
				s.Require().Equal(channeltypes.INIT, path.EndpointA.GetChannel().State)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().Zero(s.chainA.Keeper.ChannelCounter(s.chainA.GetContext()))
			}
		})
	}
}

func (s *KeeperTestSuite) TestChanOpenTryProofMismatch() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupConnections()
	s.Require().NoError(path.EndpointA.ChanOpenInit())

	path.EndpointB.ChannelConfig.Order = channeltypes.ORDERED

	err := path.EndpointB.ChanOpenTry()
	s.Require().ErrorIs(err, clienttypes.ErrFailedChannelStateVerification)
}

func (s *KeeperTestSuite) TestChanOpenAckCallbackError() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupConnections()
	s.Require().NoError(path.EndpointA.ChanOpenInit())
	s.Require().NoError(path.EndpointB.ChanOpenTry())

	s.chainA.App.OnChanOpenAck = func(sdk.Context, string, string, string, string) error {
		return errors.New("rejected")
	}

	err := path.EndpointA.ChanOpenAck()
	s.Require().ErrorContains(err, "rejected")
	s.Require().Equal(channeltypes.INIT, path.EndpointA.GetChannel().State)
}

func (s *KeeperTestSuite) TestChannelClose() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	// chainA has not closed its end yet
	err := path.EndpointB.ChanCloseConfirm()
	s.Require().ErrorIs(err, clienttypes.ErrFailedChannelStateVerification)

	s.Require().NoError(path.EndpointA.ChanCloseInit())
	s.Require().Equal(channeltypes.CLOSED, path.EndpointA.GetChannel().State)

	err = path.EndpointA.ChanCloseInit()
	s.Require().ErrorIs(err, channeltypes.ErrInvalidChannelState)

	s.Require().NoError(path.EndpointB.ChanCloseConfirm())
	s.Require().Equal(channeltypes.CLOSED, path.EndpointB.GetChannel().State)

	_, err = path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().ErrorIs(err, channeltypes.ErrInvalidChannelState)
}
