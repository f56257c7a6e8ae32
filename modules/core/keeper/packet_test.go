package keeper_test

import (
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	ibctesting "github.com/ibcstore/ibc-store/testing"
	"github.com/ibcstore/ibc-store/testing/mock"
)

func (s *KeeperTestSuite) TestPacketLifecycle() {
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

			sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			s.Require().NoError(err)
			s.Require().Equal(uint64(1), sequence)

			packet := path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			portA, chanA := path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID
			portB, chanB := path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID

			commitment, err := s.chainA.Keeper.GetPacketCommitment(s.chainA.GetContext(), portA, chanA, sequence)
			s.Require().NoError(err)
			s.Require().Equal(channeltypes.CommitPacket(packet), commitment)

			nextSend, err := s.chainA.Keeper.GetNextSequenceSend(s.chainA.GetContext(), portA, chanA)
			s.Require().NoError(err)
			s.Require().Equal(uint64(2), nextSend)

			ack, err := path.EndpointB.RecvPacket(packet)
			s.Require().NoError(err)
			s.Require().Equal(mock.MockAcknowledgement.Acknowledgement(), ack)

			storedAck, err := s.chainB.Keeper.GetPacketAcknowledgement(s.chainB.GetContext(), portB, chanB, sequence)
			s.Require().NoError(err)
			s.Require().Equal(channeltypes.CommitAcknowledgement(ack), storedAck)

			if tc.order == channeltypes.ORDERED {
				nextRecv, err := s.chainB.Keeper.GetNextSequenceRecv(s.chainB.GetContext(), portB, chanB)
				s.Require().NoError(err)
				s.Require().Equal(uint64(2), nextRecv)
			} else {
				_, err := s.chainB.Keeper.GetPacketReceipt(s.chainB.GetContext(), portB, chanB, sequence)
				s.Require().NoError(err)
			}

			// relaying the packet again is a no-op
			recvRes, err := path.EndpointB.RecvPacketWithResult(packet)
			s.Require().NoError(err)
			s.Require().Equal(channeltypes.NOOP, recvRes.Result)

			s.Require().NoError(path.EndpointA.AcknowledgePacket(packet, ack))

			_, err = s.chainA.Keeper.GetPacketCommitment(s.chainA.GetContext(), portA, chanA, sequence)
			s.Require().ErrorIs(err, channeltypes.ErrPacketCommitmentNotFound)

			if tc.order == channeltypes.ORDERED {
				nextAck, err := s.chainA.Keeper.GetNextSequenceAck(s.chainA.GetContext(), portA, chanA)
				s.Require().NoError(err)
				s.Require().Equal(uint64(2), nextAck)
			}

			ackRes, err := path.EndpointA.AcknowledgePacketWithResult(packet, ack)
			s.Require().NoError(err)
			s.Require().Equal(channeltypes.NOOP, ackRes.Result)
		})
	}
}

func (s *KeeperTestSuite) TestRelayPacket() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	// packets flow in both directions over the same channel
	seqA, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)
	seqB, err := path.EndpointB.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)

	for _, packet := range []channeltypes.Packet{
		path.EndpointA.NewPacket(seqA, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData),
		path.EndpointB.NewPacket(seqB, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData),
	} {
		ack, err := path.RelayPacket(packet)
		s.Require().NoError(err)
		s.Require().Equal(mock.MockAcknowledgement.Acknowledgement(), ack)
	}

	_, err = path.RelayPacket(path.EndpointA.NewPacket(seqA, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData))
	s.Require().Error(err)
}

func (s *KeeperTestSuite) TestRecvPacketOrderedOutOfOrder() {
	path := ibctesting.NewPath(s.chainA, s.chainB).SetChannelOrdered()
	path.Setup()

	var packets []channeltypes.Packet
	for range 2 {
		sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
		s.Require().NoError(err)
		packets = append(packets, path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData))
	}

	_, err := path.EndpointB.RecvPacket(packets[1])
	s.Require().ErrorIs(err, channeltypes.ErrPacketSequenceOutOfOrder)

	for _, packet := range packets {
		_, err := path.EndpointB.RecvPacket(packet)
		s.Require().NoError(err)
	}

	// acknowledgements on an ordered channel are processed in sequence
	ack := mock.MockAcknowledgement.Acknowledgement()
	err = path.EndpointA.AcknowledgePacket(packets[1], ack)
	s.Require().ErrorIs(err, channeltypes.ErrPacketSequenceOutOfOrder)
	s.Require().NoError(path.EndpointA.AcknowledgePacket(packets[0], ack))
	s.Require().NoError(path.EndpointA.AcknowledgePacket(packets[1], ack))
}

func (s *KeeperTestSuite) TestRecvPacket() {
	var (
		path   *ibctesting.Path
		packet channeltypes.Packet
	)

	testCases := []testCase{
		{"success", func() {}, nil},
		{"packet never sent", func() {
			packet.Sequence = 5
		}, clienttypes.ErrFailedPacketCommitmentVerification},
		{"packet data altered", func() {
			packet.Data = []byte("altered")
		}, clienttypes.ErrFailedPacketCommitmentVerification},
		{"source channel is not the counterparty", func() {
			packet.SourceChannel = channeltypes.FormatChannelIdentifier(10)
		}, channeltypes.ErrInvalidPacket},
		{"destination channel not found", func() {
			packet.DestinationChannel = channeltypes.FormatChannelIdentifier(10)
		}, channeltypes.ErrChannelNotFound},
		{"channel closed", func() {
			s.Require().NoError(path.EndpointB.ChanCloseInit())
		}, channeltypes.ErrInvalidChannelState},
		{"client frozen", func() {
			clientState := path.EndpointB.GetClientState()
			frozen, err := clientState.UpdateStateOnMisbehaviour()
			s.Require().NoError(err)
			s.Require().NoError(s.chainB.Keeper.StoreClientState(s.chainB.GetContext(), path.EndpointB.ClientID, frozen))
		}, clienttypes.ErrClientNotActive},
	}

	for _, tc := range testCases {
		s.Run(tc.msg, func() {
			s.SetupTest() // reset

			path = ibctesting.NewPath(s.chainA, s.chainB)
			path.Setup()

			sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			s.Require().NoError(err)
			packet = path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)

			tc.malleate()

			_, err = path.EndpointB.RecvPacketWithResult(packet)
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
				_, err := s.chainB.Keeper.GetPacketReceipt(s.chainB.GetContext(), packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
				s.Require().ErrorIs(err, channeltypes.ErrPacketReceiptNotFound)
			}
		})
	}
}

func (s *KeeperTestSuite) TestRecvPacketErrorAcknowledgement() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, mock.MockFailPacketData)
	s.Require().NoError(err)
	packet := path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, mock.MockFailPacketData)

	ack, err := path.EndpointB.RecvPacket(packet)
	s.Require().NoError(err)
	s.Require().Equal(mock.MockFailAcknowledgement.Acknowledgement(), ack)

	// the packet is still received so it cannot be relayed again
	_, err = s.chainB.Keeper.GetPacketReceipt(s.chainB.GetContext(), packet.DestinationPort, packet.DestinationChannel, sequence)
	s.Require().NoError(err)

	s.Require().NoError(path.EndpointA.AcknowledgePacket(packet, ack))
}

func (s *KeeperTestSuite) TestAsyncAcknowledgement() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, mock.MockAsyncPacketData)
	s.Require().NoError(err)
	packet := path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, mock.MockAsyncPacketData)

	ack, err := path.EndpointB.RecvPacket(packet)
	s.Require().NoError(err)
	s.Require().Nil(ack)

	_, err = s.chainB.Keeper.GetPacketAcknowledgement(s.chainB.GetContext(), packet.DestinationPort, packet.DestinationChannel, sequence)
	s.Require().ErrorIs(err, channeltypes.ErrPacketAcknowledgementNotFound)

	s.Require().NoError(path.EndpointB.WriteAcknowledgement(mock.MockAcknowledgement, packet))

	err = path.EndpointB.WriteAcknowledgement(mock.MockAcknowledgement, packet)
	s.Require().ErrorIs(err, channeltypes.ErrAcknowledgementExists)

	s.Require().NoError(path.EndpointA.AcknowledgePacket(packet, mock.MockAcknowledgement.Acknowledgement()))
}

func (s *KeeperTestSuite) TestAcknowledgePacketInvalidAck() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)
	packet := path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)

	_, err = path.EndpointB.RecvPacket(packet)
	s.Require().NoError(err)

	err = path.EndpointA.AcknowledgePacket(packet, mock.MockFailAcknowledgement.Acknowledgement())
	s.Require().ErrorIs(err, clienttypes.ErrFailedPacketAckVerification)

	_, err = s.chainA.Keeper.GetPacketCommitment(s.chainA.GetContext(), packet.SourcePort, packet.SourceChannel, sequence)
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestSendPacket() {
	var (
		path          *ibctesting.Path
		timeoutHeight clienttypes.Height
		timeoutTs     uint64
	)

	testCases := []testCase{
		{"success", func() {}, nil},
		{"timestamp timeout only", func() {
			timeoutHeight = disabledTimeoutHeight
			timeoutTs = uint64(s.coordinator.CurrentTime.Add(ibctesting.TrustingPeriod).UnixNano())
		}, nil},
		{"timeout disabled", func() {
			timeoutHeight = disabledTimeoutHeight
			timeoutTs = disabledTimeoutTimestamp
		}, channeltypes.ErrInvalidPacket},
		{"timeout height already passed on counterparty", func() {
			timeoutHeight = path.EndpointA.GetClientState().LatestHeight()
		}, channeltypes.ErrTimeoutElapsed},
		{"timeout timestamp already passed on counterparty", func() {
			timeoutHeight = disabledTimeoutHeight
			timeoutTs = uint64(s.chainB.LastHeader.GetTime().Add(-ibctesting.TimeIncrement).UnixNano())
		}, channeltypes.ErrTimeoutElapsed},
		{"channel not found", func() {
			path.EndpointA.ChannelID = channeltypes.FormatChannelIdentifier(10)
		}, channeltypes.ErrChannelNotFound},
	}

	for _, tc := range testCases {
		s.Run(tc.msg, func() {
			s.SetupTest() // reset

			path = ibctesting.NewPath(s.chainA, s.chainB)
			path.Setup()
			timeoutHeight, timeoutTs = defaultTimeoutHeight, disabledTimeoutTimestamp

			tc.malleate()

			sequence, err := s.chainA.Keeper.SendPacket(s.chainA.GetContext(), path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, timeoutHeight, timeoutTs, ibctesting.MockPacketData)
			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().Equal(uint64(1), sequence)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
