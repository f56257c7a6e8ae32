package keeper_test

import (
	"time"

	"github.com/ibcstore/ibc-store/internal/storage"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	"github.com/ibcstore/ibc-store/modules/core/types"
	ibctesting "github.com/ibcstore/ibc-store/testing"
)

// clientWithHistory creates a client on chainA with consensus states at
// heights 10, 20, 30, 40 and 50.
func (s *KeeperTestSuite) clientWithHistory() string {
	base := s.coordinator.CurrentTime.Add(-time.Hour)
	clientID := s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))
	for i := int64(2); i <= 5; i++ {
		header := newHeader(s.chainB.ChainID, i*10, base.Add(time.Duration(i)*time.Minute), clienttypes.NewHeight(1, uint64((i-1)*10)), []byte("hash"))
		s.Require().NoError(s.updateClient(clientID, header))
	}
	return clientID
}

// receivedPackets sends n packets from chainA and receives them on chainB.
func (s *KeeperTestSuite) receivedPackets(path *ibctesting.Path, n int) []channeltypes.Packet {
	var packets []channeltypes.Packet
	for range n {
		sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
		s.Require().NoError(err)
		packet := path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)

		_, err = path.EndpointB.RecvPacket(packet)
		s.Require().NoError(err)
		packets = append(packets, packet)
	}
	return packets
}

func (s *KeeperTestSuite) TestShrinkClientHistory() {
	clientID := s.clientWithHistory()

	k, ctx := s.chainA.Keeper, s.chainA.GetContext()
	params := k.GetParams(ctx)
	params.ConsensusHistoryLength = 2
	k.SetParams(ctx, params)

	for range 2 {
		progress, err := k.ShrinkClientHistory(ctx, clientID, storage.NewStepBudget(1))
		s.Require().NoError(err)
		s.Require().Equal(storage.StatusNeedsContinuation, progress.Status)
		s.Require().Equal(uint64(1), progress.Processed)
	}

	progress, err := k.ShrinkClientHistory(ctx, clientID, storage.NewStepBudget(1))
	s.Require().NoError(err)
	s.Require().True(progress.Done())
	s.Require().Equal(uint64(1), progress.Processed)

	heights, err := k.ConsensusHeights(ctx, clientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{clienttypes.NewHeight(1, 40), clienttypes.NewHeight(1, 50)}, heights)

	_, err = k.ClientUpdateHeight(ctx, clientID, clienttypes.NewHeight(1, 30))
	s.Require().ErrorIs(err, clienttypes.ErrUpdateMetaNotFound)

	// the bound now applies on every update
	header := newHeader(s.chainB.ChainID, 60, s.coordinator.CurrentTime.Add(-time.Minute), clienttypes.NewHeight(1, 50), []byte("hash"))
	s.Require().NoError(s.updateClient(clientID, header))
	heights, err = s.chainA.Keeper.ConsensusHeights(s.chainA.GetContext(), clientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{clienttypes.NewHeight(1, 50), clienttypes.NewHeight(1, 60)}, heights)

	_, err = k.ShrinkClientHistory(ctx, "07-tendermint-100", storage.UnlimitedBudget)
	s.Require().ErrorIs(err, clienttypes.ErrClientNotFound)
}

func (s *KeeperTestSuite) TestClearClientHistory() {
	clientID := s.clientWithHistory()

	k, ctx := s.chainA.Keeper, s.chainA.GetContext()

	progress, err := k.ClearClientHistory(ctx, clientID, storage.NewStepBudget(3))
	s.Require().NoError(err)
	s.Require().Equal(storage.StatusNeedsContinuation, progress.Status)
	s.Require().Equal(uint64(3), progress.Processed)

	progress, err = k.ClearClientHistory(ctx, clientID, storage.UnlimitedBudget)
	s.Require().NoError(err)
	s.Require().True(progress.Done())
	s.Require().Equal(uint64(1), progress.Processed)

	heights, err := k.ConsensusHeights(ctx, clientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{clienttypes.NewHeight(1, 50)}, heights)

	_, err = k.ClientState(ctx, clientID)
	s.Require().NoError(err)
	_, err = k.ConsensusState(ctx, clientID, clienttypes.NewHeight(1, 50))
	s.Require().NoError(err)
	_, err = k.ConsensusState(ctx, clientID, clienttypes.NewHeight(1, 40))
	s.Require().ErrorIs(err, clienttypes.ErrConsensusStateNotFound)

	// clearing again has nothing left to evict
	progress, err = k.ClearClientHistory(ctx, clientID, storage.UnlimitedBudget)
	s.Require().NoError(err)
	s.Require().True(progress.Done())
	s.Require().Zero(progress.Processed)
}

func (s *KeeperTestSuite) TestClearClientHistoryKeepsClientUpdatable() {
	clientID := s.clientWithHistory()

	_, err := s.chainA.Keeper.ClearClientHistory(s.chainA.GetContext(), clientID, storage.UnlimitedBudget)
	s.Require().NoError(err)
	s.Require().Equal(exported.Active, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), clientID))

	header := newHeader(s.chainB.ChainID, 60, s.coordinator.CurrentTime.Add(-time.Minute), clienttypes.NewHeight(1, 50), []byte("hash"))
	s.Require().NoError(s.updateClient(clientID, header))

	k, ctx := s.chainA.Keeper, s.chainA.GetContext()
	s.Require().Equal(exported.Active, k.GetClientStatus(ctx, clientID))
	heights, err := k.ConsensusHeights(ctx, clientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{clienttypes.NewHeight(1, 50), clienttypes.NewHeight(1, 60)}, heights)
}

func (s *KeeperTestSuite) TestMaintenanceMessages() {
	clientID := s.clientWithHistory()

	params := types.DefaultParams()
	params.ConsensusHistoryLength = 3
	s.Require().NoError(s.deliver(types.NewMsgUpdateParams(ibctesting.Authority, params))[0])

	res, err := s.chainA.SendMsgs(&types.MsgShrinkClientHistory{ClientId: clientID, Signer: ibctesting.Authority})
	s.Require().NoError(err)
	progress := res[0].Response.(*types.MsgMaintenanceResponse).Progress
	s.Require().True(progress.Done())
	s.Require().Equal(uint64(2), progress.Processed)

	_, err = s.chainA.SendMsgs(&types.MsgClearClientHistory{ClientId: clientID, Signer: s.chainA.SenderAddress})
	s.Require().ErrorIs(err, ibcerrors.ErrUnauthorized)

	res, err = s.chainA.SendMsgs(&types.MsgClearClientHistory{ClientId: clientID, Signer: ibctesting.Authority})
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), res[0].Response.(*types.MsgMaintenanceResponse).Progress.Processed)
}

func (s *KeeperTestSuite) TestPruneReceipts() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()
	packets := s.receivedPackets(path, 3)

	k, ctx := s.chainB.Keeper, s.chainB.GetContext()
	portID, channelID := path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID

	progress, err := k.PruneReceipts(ctx, portID, channelID, 2, storage.NewStepBudget(1))
	s.Require().NoError(err)
	s.Require().Equal(storage.StatusNeedsContinuation, progress.Status)
	s.Require().Equal(uint64(1), progress.Processed)

	progress, err = k.PruneReceipts(ctx, portID, channelID, 2, storage.UnlimitedBudget)
	s.Require().NoError(err)
	s.Require().True(progress.Done())
	s.Require().Equal(uint64(1), progress.Processed)

	receipts, err := k.PacketReceipts(ctx, portID, channelID)
	s.Require().NoError(err)
	s.Require().Len(receipts, 1)
	s.Require().Equal(uint64(3), receipts[0].Sequence)

	// the receipts leave the index only
	for _, packet := range packets {
		_, err := k.GetPacketReceipt(ctx, portID, channelID, packet.Sequence)
		s.Require().NoError(err)
	}

	unreceived, err := k.UnreceivedPackets(ctx, portID, channelID, []uint64{1, 2, 3, 4})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{4}, unreceived)

	res, err := path.EndpointB.RecvPacketWithResult(packets[0])
	s.Require().NoError(err)
	s.Require().Equal(channeltypes.NOOP, res.Result)

	_, err = s.chainB.Keeper.PruneReceipts(s.chainB.GetContext(), portID, channeltypes.FormatChannelIdentifier(10), 2, storage.UnlimitedBudget)
	s.Require().ErrorIs(err, channeltypes.ErrChannelNotFound)
}

func (s *KeeperTestSuite) TestPruneReceiptsKeepsTimeoutProofsFailing() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	timeoutHeight := clienttypes.NewHeight(s.chainB.CurrentHeight().RevisionNumber, s.chainB.CurrentHeight().RevisionHeight+5)
	sequence, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	s.Require().NoError(err)
	packet := path.EndpointA.NewPacket(sequence, timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)

	res, err := path.EndpointB.RecvPacketWithResult(packet)
	s.Require().NoError(err)
	s.Require().Equal(channeltypes.SUCCESS, res.Result)

	portID, channelID := path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID
	progress, err := s.chainB.Keeper.PruneReceipts(s.chainB.GetContext(), portID, channelID, sequence, storage.UnlimitedBudget)
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), progress.Processed)

	// let the packet time out on chainB and prove it to chainA
	s.coordinator.CommitNBlocks(s.chainB, 5)
	s.Require().NoError(path.EndpointA.UpdateClient())

	err = path.EndpointA.TimeoutPacket(packet)
	s.Require().ErrorIs(err, clienttypes.ErrFailedPacketReceiptVerification)

	_, err = s.chainA.Keeper.GetPacketCommitment(s.chainA.GetContext(), packet.SourcePort, packet.SourceChannel, sequence)
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestPruneReceiptsLeavesGapsUnreceived() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	var packets []channeltypes.Packet
	for range 3 {
		sequence, err := path.EndpointA.SendPacket(defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
		s.Require().NoError(err)
		packets = append(packets, path.EndpointA.NewPacket(sequence, defaultTimeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData))
	}

	for _, packet := range []channeltypes.Packet{packets[0], packets[2]} {
		res, err := path.EndpointB.RecvPacketWithResult(packet)
		s.Require().NoError(err)
		s.Require().Equal(channeltypes.SUCCESS, res.Result)
	}

	k, ctx := s.chainB.Keeper, s.chainB.GetContext()
	portID, channelID := path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID

	progress, err := k.PruneReceipts(ctx, portID, channelID, 3, storage.UnlimitedBudget)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), progress.Processed)

	unreceived, err := k.UnreceivedPackets(ctx, portID, channelID, []uint64{1, 2, 3})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{2}, unreceived)

	res, err := path.EndpointB.RecvPacketWithResult(packets[1])
	s.Require().NoError(err)
	s.Require().Equal(channeltypes.SUCCESS, res.Result)
}

func (s *KeeperTestSuite) TestPruneAcknowledgements() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()
	packets := s.receivedPackets(path, 3)

	portID, channelID := path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID

	res, err := s.chainB.SendMsgs(&types.MsgPruneAcknowledgements{PortId: portID, ChannelId: channelID, Sequence: 3, Signer: ibctesting.Authority})
	s.Require().NoError(err)
	s.Require().Equal(uint64(3), res[0].Response.(*types.MsgMaintenanceResponse).Progress.Processed)

	k, ctx := s.chainB.Keeper, s.chainB.GetContext()
	for _, packet := range packets {
		_, err := k.GetPacketAcknowledgement(ctx, portID, channelID, packet.Sequence)
		s.Require().ErrorIs(err, channeltypes.ErrPacketAcknowledgementNotFound)
	}
	acks, err := k.PacketAcknowledgements(ctx, portID, channelID)
	s.Require().NoError(err)
	s.Require().Empty(acks)

	// receipts are independent of acknowledgements
	receipts, err := k.PacketReceipts(ctx, portID, channelID)
	s.Require().NoError(err)
	s.Require().Len(receipts, 3)
}

func (s *KeeperTestSuite) TestPruneEventHistory() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.Setup()

	k, ctx := s.chainA.Keeper, s.chainA.GetContext()
	buckets, err := k.EventHistory(ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Greater(len(buckets), 3)

	params := k.GetParams(ctx)
	params.EventHistoryLength = 2
	k.SetParams(ctx, params)

	progress, err := k.PruneEventHistory(ctx, storage.NewStepBudget(1))
	s.Require().NoError(err)
	s.Require().Equal(storage.StatusNeedsContinuation, progress.Status)

	progress, err = k.PruneEventHistory(ctx, storage.UnlimitedBudget)
	s.Require().NoError(err)
	s.Require().True(progress.Done())
	s.Require().Equal(uint64(len(buckets)-3), progress.Processed)

	pruned, err := k.EventHistory(ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Equal(buckets[len(buckets)-2:], pruned)
}
