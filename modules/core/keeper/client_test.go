package keeper_test

import (
	"errors"
	"time"

	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	"github.com/ibcstore/ibc-store/modules/core/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
	ibctesting "github.com/ibcstore/ibc-store/testing"
)

func (s *KeeperTestSuite) TestCreateClient() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupClients()

	s.Require().Equal(ibctesting.FirstClientID, path.EndpointA.ClientID)
	s.Require().Equal(uint64(1), s.chainA.Keeper.ClientCounter(s.chainA.GetContext()))
	s.Require().Equal(exported.Active, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), path.EndpointA.ClientID))

	latest := s.chainA.GetClientLatestHeight(path.EndpointA.ClientID)
	consState, err := s.chainA.Keeper.ConsensusState(s.chainA.GetContext(), path.EndpointA.ClientID, latest)
	s.Require().NoError(err)
	s.Require().Equal(s.chainB.LastHeader.ConsensusState().Root.GetHash(), consState.GetRoot().GetHash())

	heights, err := s.chainA.Keeper.ConsensusHeights(s.chainA.GetContext(), path.EndpointA.ClientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{latest}, heights)
}

func (s *KeeperTestSuite) TestCreateClientNotAllowed() {
	params := types.DefaultParams()
	params.AllowedClients = []string{}
	errs := s.deliver(types.NewMsgUpdateParams(ibctesting.Authority, params))
	s.Require().NoError(errs[0])

	path := ibctesting.NewPath(s.chainA, s.chainB)
	err := path.EndpointA.CreateClient()
	s.Require().ErrorIs(err, clienttypes.ErrInvalidClientType)
	s.Require().Zero(s.chainA.Keeper.ClientCounter(s.chainA.GetContext()))
}

func (s *KeeperTestSuite) TestUpdateClient() {
	var (
		clientID string
		header   *ibctm.Header
		base     time.Time
	)

	testCases := []testCase{
		{"success", func() {}, nil},
		{"verifier rejects header", func() {
			s.chainA.Verifier.Err = errors.New("invalid commit signatures")
		}, clienttypes.ErrInvalidHeader},
		{"trusted consensus state not found", func() {
			header.TrustedHeight = clienttypes.NewHeight(1, 5)
		}, clienttypes.ErrConsensusStateNotFound},
		{"header chain id does not match client", func() {
			header.Header.ChainID = "othertestchain-1"
		}, ibctm.ErrInvalidHeader},
		{"header time not after trusted time", func() {
			header.Header.Time = base
		}, ibctm.ErrInvalidHeader},
		{"header time in the future", func() {
			header.Header.Time = s.coordinator.CurrentTime.Add(time.Hour)
		}, ibctm.ErrHeaderInFuture},
		{"client not found", func() {
			clientID = "07-tendermint-100"
		}, clienttypes.ErrClientNotFound},
		{"client expired", func() {
			s.coordinator.IncrementTimeBy(ibctesting.TrustingPeriod)
		}, clienttypes.ErrClientNotActive},
	}

	for _, tc := range testCases {
		s.Run(tc.msg, func() {
			s.SetupTest() // reset

			base = s.coordinator.CurrentTime.Add(-time.Hour)
			clientID = s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))
			header = newHeader(s.chainB.ChainID, 20, base.Add(time.Minute), clienttypes.NewHeight(1, 10), []byte("hash-20"))

			tc.malleate()

			err := s.updateClient(clientID, header)
			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().Equal(clienttypes.NewHeight(1, 20), s.chainA.GetClientLatestHeight(clientID))

				consState, err := s.chainA.Keeper.ConsensusState(s.chainA.GetContext(), clientID, header.GetHeight())
				s.Require().NoError(err)
				s.Require().Equal([]byte("hash-20"), consState.GetRoot().GetHash())

				processedHeight, err := s.chainA.Keeper.ClientUpdateHeight(s.chainA.GetContext(), clientID, header.GetHeight())
				s.Require().NoError(err)
				s.Require().Equal(s.chainA.LatestCommittedHeight(), processedHeight)

				_, err = s.chainA.Keeper.ClientUpdateTime(s.chainA.GetContext(), clientID, header.GetHeight())
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().Equal(clienttypes.NewHeight(1, 10), s.chainA.GetClientLatestHeight(clientID))
			}
		})
	}
}

func (s *KeeperTestSuite) TestUpdateClientRedundantHeader() {
	base := s.coordinator.CurrentTime.Add(-time.Hour)
	clientID := s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))
	header := newHeader(s.chainB.ChainID, 20, base.Add(time.Minute), clienttypes.NewHeight(1, 10), []byte("hash-20"))

	s.Require().NoError(s.updateClient(clientID, header))
	processedBefore, err := s.chainA.Keeper.ClientUpdateHeight(s.chainA.GetContext(), clientID, header.GetHeight())
	s.Require().NoError(err)

	// the same header again leaves the stored state untouched
	s.Require().NoError(s.updateClient(clientID, header))
	processedAfter, err := s.chainA.Keeper.ClientUpdateHeight(s.chainA.GetContext(), clientID, header.GetHeight())
	s.Require().NoError(err)
	s.Require().Equal(processedBefore, processedAfter)
	s.Require().Equal(exported.Active, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), clientID))
}

// TestUpdateClientOutOfOrder submits a valid header older than the latest
// stored consensus state. It is not misbehaviour, but the history only
// accepts ascending heights so the update is rejected.
func (s *KeeperTestSuite) TestUpdateClientOutOfOrder() {
	base := s.coordinator.CurrentTime.Add(-time.Hour)
	clientID := s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))

	s.Require().NoError(s.updateClient(clientID, newHeader(s.chainB.ChainID, 100, base.Add(30*time.Minute), clienttypes.NewHeight(1, 10), []byte("hash-100"))))

	err := s.updateClient(clientID, newHeader(s.chainB.ChainID, 90, base.Add(15*time.Minute), clienttypes.NewHeight(1, 10), []byte("hash-90")))
	s.Require().ErrorIs(err, clienttypes.ErrConsensusStateHeightNotMonotonic)
	s.Require().ErrorIs(err, ibcerrors.ErrOrderingViolation)

	s.Require().Equal(exported.Active, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), clientID))
	heights, err := s.chainA.Keeper.ConsensusHeights(s.chainA.GetContext(), clientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{clienttypes.NewHeight(1, 10), clienttypes.NewHeight(1, 100)}, heights)
}

func (s *KeeperTestSuite) TestUpdateClientFreezesOnConflictingHeader() {
	base := s.coordinator.CurrentTime.Add(-time.Hour)
	clientID := s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))
	s.Require().NoError(s.updateClient(clientID, newHeader(s.chainB.ChainID, 20, base.Add(time.Minute), clienttypes.NewHeight(1, 10), []byte("hash-20"))))

	// a different block at an already stored height
	s.Require().NoError(s.updateClient(clientID, newHeader(s.chainB.ChainID, 20, base.Add(time.Minute), clienttypes.NewHeight(1, 10), []byte("fork-20"))))
	s.Require().Equal(exported.Frozen, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), clientID))

	err := s.updateClient(clientID, newHeader(s.chainB.ChainID, 30, base.Add(2*time.Minute), clienttypes.NewHeight(1, 20), []byte("hash-30")))
	s.Require().ErrorIs(err, clienttypes.ErrClientNotActive)
}

func (s *KeeperTestSuite) TestSubmitMisbehaviour() {
	var (
		clientID     string
		misbehaviour *ibctm.Misbehaviour
		base         time.Time
	)

	testCases := []testCase{
		{"success: conflicting headers", func() {}, nil},
		{"success: time violation", func() {
			misbehaviour.Header2 = newHeader(s.chainB.ChainID, 15, base.Add(3*time.Minute), clienttypes.NewHeight(1, 10), []byte("hash-15"))
		}, nil},
		{"identical headers are not misbehaviour", func() {
			misbehaviour.Header2 = misbehaviour.Header1
		}, clienttypes.ErrInvalidMisbehaviour},
		{"trusted consensus state not found", func() {
			misbehaviour.Header1.TrustedHeight = clienttypes.NewHeight(1, 9)
		}, clienttypes.ErrConsensusStateNotFound},
		{"verifier rejects header", func() {
			s.chainA.Verifier.Err = errors.New("invalid commit signatures")
		}, clienttypes.ErrInvalidMisbehaviour},
	}

	for _, tc := range testCases {
		s.Run(tc.msg, func() {
			s.SetupTest() // reset

			base = s.coordinator.CurrentTime.Add(-time.Hour)
			clientID = s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))
			misbehaviour = ibctm.NewMisbehaviour(
				newHeader(s.chainB.ChainID, 20, base.Add(time.Minute), clienttypes.NewHeight(1, 10), []byte("hash-20")),
				newHeader(s.chainB.ChainID, 20, base.Add(time.Minute), clienttypes.NewHeight(1, 10), []byte("fork-20")),
			)

			tc.malleate()

			bz, err := anyclient.PackClientMessage(anyclient.ClientMessage{Misbehaviour: misbehaviour})
			s.Require().NoError(err)

			errs := s.deliver(clienttypes.NewMsgSubmitMisbehaviour(clientID, bz, s.chainA.SenderAddress))
			if tc.expErr == nil {
				s.Require().NoError(errs[0])
				s.Require().Equal(exported.Frozen, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), clientID))
			} else {
				s.Require().ErrorIs(errs[0], tc.expErr)
				s.Require().Equal(exported.Active, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), clientID))
			}
		})
	}
}

func (s *KeeperTestSuite) TestConsensusHistoryBound() {
	params := types.DefaultParams()
	params.ConsensusHistoryLength = 2
	s.Require().NoError(s.deliver(types.NewMsgUpdateParams(ibctesting.Authority, params))[0])

	base := s.coordinator.CurrentTime.Add(-time.Hour)
	clientID := s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))
	for i := int64(1); i <= 3; i++ {
		header := newHeader(s.chainB.ChainID, 10+i*10, base.Add(time.Duration(i)*time.Minute), clienttypes.NewHeight(1, uint64(10*i)), []byte("hash"))
		s.Require().NoError(s.updateClient(clientID, header))
	}

	ctx := s.chainA.GetContext()
	heights, err := s.chainA.Keeper.ConsensusHeights(ctx, clientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{clienttypes.NewHeight(1, 30), clienttypes.NewHeight(1, 40)}, heights)

	_, err = s.chainA.Keeper.ConsensusState(ctx, clientID, clienttypes.NewHeight(1, 10))
	s.Require().ErrorIs(err, clienttypes.ErrConsensusStateNotFound)
	_, err = s.chainA.Keeper.ClientUpdateTime(ctx, clientID, clienttypes.NewHeight(1, 20))
	s.Require().ErrorIs(err, clienttypes.ErrUpdateMetaNotFound)

	prev, found, err := s.chainA.Keeper.PrevConsensusState(ctx, clientID, clienttypes.NewHeight(1, 35))
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(uint64(base.Add(2*time.Minute).UnixNano()), prev.GetTimestamp())

	_, found, err = s.chainA.Keeper.NextConsensusState(ctx, clientID, clienttypes.NewHeight(1, 40))
	s.Require().NoError(err)
	s.Require().False(found)
}

func (s *KeeperTestSuite) TestClientStatusExpired() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupClients()

	s.coordinator.IncrementTimeBy(ibctesting.TrustingPeriod)
	s.Require().Equal(exported.Expired, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), path.EndpointA.ClientID))
	s.Require().Equal(exported.Unknown, s.chainA.Keeper.GetClientStatus(s.chainA.GetContext(), "07-tendermint-100"))
}
