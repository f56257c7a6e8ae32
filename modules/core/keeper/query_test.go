package keeper_test

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/types"
	ibctesting "github.com/ibcstore/ibc-store/testing"
	"github.com/ibcstore/ibc-store/testing/mock"
)

func (s *KeeperTestSuite) TestClientConsensusStates() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupClients()
	s.Require().NoError(path.EndpointA.UpdateClient())

	k, ctx := s.chainA.Keeper, s.chainA.GetContext()
	states, err := k.ClientConsensusStates(ctx, path.EndpointA.ClientID)
	s.Require().NoError(err)
	s.Require().Len(states, 2)
	s.Require().True(states[0].Height.LT(states[1].Height))
	s.Require().Equal(s.chainA.GetClientLatestHeight(path.EndpointA.ClientID), states[1].Height)

	heights, err := k.ConsensusHeights(ctx, path.EndpointA.ClientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{states[0].Height, states[1].Height}, heights)

	_, err = k.ClientConsensusStates(ctx, "07-tendermint-100")
	s.Require().ErrorIs(err, clienttypes.ErrClientNotFound)
}

func (s *KeeperTestSuite) TestPacketQueries() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	var packets []channeltypes.Packet
	for range 3 {
		sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
		s.Require().NoError(err)
		packets = append(packets, path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData))
	}

	portA, channelA := path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID
	portB, channelB := path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID

	commitments, err := s.chainA.Keeper.PacketCommitments(s.chainA.GetContext(), portA, channelA)
	s.Require().NoError(err)
	s.Require().Len(commitments, 3)
	for i, commitment := range commitments {
		s.Require().Equal(packets[i].Sequence, commitment.Sequence)
		s.Require().Equal(channeltypes.CommitPacket(packets[i]), commitment.Data)
	}

	// relay the second packet only
	ack, err := path.EndpointB.RecvPacket(packets[1])
	s.Require().NoError(err)

	unreceived, err := s.chainB.Keeper.UnreceivedPackets(s.chainB.GetContext(), portB, channelB, []uint64{1, 2, 3})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{1, 3}, unreceived)

	s.Require().NoError(path.EndpointA.AcknowledgePacket(packets[1], ack))

	unacked, err := s.chainA.Keeper.UnreceivedAcks(s.chainA.GetContext(), portA, channelA, []uint64{1, 2, 3})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{1, 3}, unacked)

	commitments, err = s.chainA.Keeper.PacketCommitments(s.chainA.GetContext(), portA, channelA)
	s.Require().NoError(err)
	s.Require().Len(commitments, 2)
	s.Require().Equal(uint64(1), commitments[0].Sequence)
	s.Require().Equal(uint64(3), commitments[1].Sequence)

	acks, err := s.chainB.Keeper.PacketAcknowledgements(s.chainB.GetContext(), portB, channelB)
	s.Require().NoError(err)
	s.Require().Len(acks, 1)
	s.Require().Equal(channeltypes.CommitAcknowledgement(ack), acks[0].Data)

	_, err = s.chainB.Keeper.UnreceivedPackets(s.chainB.GetContext(), portB, channelB, []uint64{0})
	s.Require().ErrorIs(err, ibcerrors.ErrInvalidSequence)

	_, err = s.chainA.Keeper.PacketCommitments(s.chainA.GetContext(), portA, channeltypes.FormatChannelIdentifier(10))
	s.Require().ErrorIs(err, channeltypes.ErrChannelNotFound)

	_, err = s.chainA.Keeper.UnreceivedAcks(s.chainA.GetContext(), "", channelA, []uint64{1})
	s.Require().Error(err)
}

func (s *KeeperTestSuite) TestOrderedUnreceivedPackets() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetChannelOrdered()
	path.Setup()

	sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)
	_, err = path.EndpointB.RecvPacket(path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData))
	s.Require().NoError(err)

	unreceived, err := s.chainB.Keeper.UnreceivedPackets(s.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID, []uint64{1, 2, 5})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{2, 5}, unreceived)
}

func (s *KeeperTestSuite) TestEventHistory() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	logger := mock.NewMockLogger()
	s.chainA.Logger = logger

	sendHeight := uint64(s.chainA.CurrentHeight().RevisionHeight)
	_, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)

	k, ctx := s.chainA.Keeper, s.chainA.GetContext()

	latest, found, err := k.LatestEvents(ctx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(sendHeight, latest.Height)
	s.Require().Len(latest.Events, 1)

	event := latest.Events[0]
	s.Require().Equal(channeltypes.EventTypeSendPacket, event.Type)
	attributes := make(map[string]string)
	for _, attr := range event.Attributes {
		attributes[attr.Key] = attr.Value
	}
	s.Require().Equal(hex.EncodeToString(ibctesting.MockPacketData), attributes[channeltypes.AttributeKeyDataHex])
	s.Require().Equal("1", attributes[channeltypes.AttributeKeySequence])
	s.Require().Equal(path.EndpointA.ChannelID, attributes[channeltypes.AttributeKeySrcChannel])

	buckets, err := k.EventHistory(ctx, sendHeight, sendHeight)
	s.Require().NoError(err)
	s.Require().Equal([]types.HeightEvents{latest}, buckets)

	all, err := k.EventHistory(ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Greater(len(all), 1)
	for i := 1; i < len(all); i++ {
		s.Require().Less(all[i-1].Height, all[i].Height)
	}
	s.Require().Equal(latest, all[len(all)-1])

	before, err := k.EventHistory(ctx, 0, sendHeight-1)
	s.Require().NoError(err)
	s.Require().Len(before, len(all)-1)

	_, err = k.EventHistory(ctx, sendHeight, sendHeight-1)
	s.Require().ErrorIs(err, ibcerrors.ErrInvalidRequest)

	lines := logger.InfoMessagesWithPrefix(types.EventLogPrefix)
	s.Require().Len(lines, 1)

	var envelope types.EventEnvelope
	s.Require().NoError(json.Unmarshal([]byte(strings.TrimPrefix(lines[0], types.EventLogPrefix)), &envelope))
	s.Require().Equal(types.EventStandard, envelope.Standard)
	s.Require().Equal(types.EventVersion, envelope.Version)
	s.Require().Equal(channeltypes.EventTypeSendPacket, envelope.Event)
	s.Require().Equal(attributes, envelope.Data)
}

func (s *KeeperTestSuite) TestEventHistoryWindows() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	k, ctx := s.chainA.Keeper, s.chainA.GetContext()
	all, err := k.EventHistory(ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Greater(len(all), 2)

	for i, bucket := range all {
		// a window starting on a bucket height
		from, err := k.EventHistory(ctx, bucket.Height, 0)
		s.Require().NoError(err)
		s.Require().Equal(all[i:], from)

		// a window starting between two bucket heights
		if i > 0 && all[i-1].Height+1 < bucket.Height {
			between, err := k.EventHistory(ctx, all[i-1].Height+1, bucket.Height)
			s.Require().NoError(err)
			s.Require().Equal(all[i:i+1], between)
		}
	}

	last := all[len(all)-1].Height
	after, err := k.EventHistory(ctx, last+1, 0)
	s.Require().NoError(err)
	s.Require().Empty(after)

	middle, err := k.EventHistory(ctx, all[1].Height, all[len(all)-2].Height)
	s.Require().NoError(err)
	s.Require().Equal(all[1:len(all)-1], middle)
}

func (s *KeeperTestSuite) TestEventHistoryBound() {
	k, ctx := s.chainA.Keeper, s.chainA.GetContext()
	params := k.GetParams(ctx)
	params.EventHistoryLength = 2
	k.SetParams(ctx, params)
	s.chainA.NextBlock()

	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	buckets, err := s.chainA.Keeper.EventHistory(s.chainA.GetContext(), 0, 0)
	s.Require().NoError(err)
	s.Require().Len(buckets, 2)

	// failed messages leave no events behind
	s.chainA.Verifier.Err = ibcerrors.ErrLogic
	s.Require().Error(path.EndpointA.UpdateClient())
	s.chainA.Verifier.Err = nil

	after, err := s.chainA.Keeper.EventHistory(s.chainA.GetContext(), 0, 0)
	s.Require().NoError(err)
	s.Require().Equal(buckets, after)
}

func (s *KeeperTestSuite) TestPacketStoreLayout() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)
	packet := path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)

	// the commitment is provable under its ICS-24 path
	key := host.PacketCommitmentKey(packet.SourcePort, packet.SourceChannel, packet.Sequence)
	proof, _ := path.EndpointA.QueryProof(key)
	s.Require().NotEmpty(proof)

	commitment, err := s.chainA.Keeper.GetPacketCommitment(s.chainA.GetContext(), packet.SourcePort, packet.SourceChannel, packet.Sequence)
	s.Require().NoError(err)
	s.Require().Equal(channeltypes.CommitPacket(packet), commitment)
}
