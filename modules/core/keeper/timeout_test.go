package keeper_test

import (
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	ibctesting "github.com/ibcstore/ibc-store/testing"
)

func (s *KeeperTestSuite) TestTimeoutPacket() {
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
			if tc.order == channeltypes.ORDERED {
				path.SetChannelOrdered()
			}
			path.Setup()

			// times out once chainB commits its current block
			timeoutHeight := s.chainB.CurrentHeight()
			sequence, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			s.Require().NoError(err)
			packet := path.EndpointA.NewPacket(sequence, timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)

			s.Require().NoError(path.EndpointA.UpdateClient())

			_, err = path.EndpointB.RecvPacketWithResult(packet)
			s.Require().ErrorIs(err, channeltypes.ErrTimeoutElapsed)

			res, err := path.EndpointA.TimeoutPacketWithResult(packet)
			s.Require().NoError(err)
			s.Require().Equal(channeltypes.SUCCESS, res.Result)

			_, err = s.chainA.Keeper.GetPacketCommitment(s.chainA.GetContext(), packet.SourcePort, packet.SourceChannel, sequence)
			s.Require().ErrorIs(err, channeltypes.ErrPacketCommitmentNotFound)

			if tc.order == channeltypes.ORDERED {
				s.Require().Equal(channeltypes.CLOSED, path.EndpointA.GetChannel().State)

				// the counterparty follows the closed channel
				s.Require().NoError(path.EndpointB.ChanCloseConfirm())
				s.Require().Equal(channeltypes.CLOSED, path.EndpointB.GetChannel().State)
				return
			}

			s.Require().Equal(channeltypes.OPEN, path.EndpointA.GetChannel().State)

			res, err = path.EndpointA.TimeoutPacketWithResult(packet)
			s.Require().NoError(err)
			s.Require().Equal(channeltypes.NOOP, res.Result)
		})
	}
}

func (s *KeeperTestSuite) TestTimeoutPacketNotReached() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)
	packet := path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)

	err = path.EndpointA.TimeoutPacket(packet)
	s.Require().ErrorIs(err, channeltypes.ErrTimeoutNotReached)

	_, err = s.chainA.Keeper.GetPacketCommitment(s.chainA.GetContext(), packet.SourcePort, packet.SourceChannel, sequence)
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestTimeoutPacketAlteredPacket() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	timeoutHeight := s.chainB.CurrentHeight()
	sequence, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)
	s.Require().NoError(path.EndpointA.UpdateClient())

	packet := path.EndpointA.NewPacket(sequence, timeoutHeight, disabledTimeoutTimestamp, []byte("altered"))
	err = path.EndpointA.TimeoutPacket(packet)
	s.Require().ErrorIs(err, channeltypes.ErrInvalidPacket)
}
