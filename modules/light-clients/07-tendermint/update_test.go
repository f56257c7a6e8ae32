package tendermint_test

import (
	"time"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

func (suite *TendermintTestSuite) TestVerifyHeader() {
	var (
		header   *ibctm.Header
		verifier ibctm.Verifier
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"trusted height not lower than header height",
			func() {
				header.TrustedHeight = clienttypes.NewHeight(0, 5)
			},
			ibctm.ErrInvalidHeaderHeight,
		},
		{
			"missing validator set",
			func() {
				header.ValidatorSet = nil
			},
			clienttypes.ErrInvalidHeader,
		},
		{
			"trusted consensus state does not exist",
			func() {
				header.TrustedHeight = clienttypes.NewHeight(0, 3)
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"header chain id does not match client chain id",
			func() {
				header.Header.ChainID = "osmosis"
			},
			ibctm.ErrInvalidHeader,
		},
		{
			"trusting period has passed since the trusted consensus state",
			func() {
				suite.ctx.hostTimestamp = suiteTime.Add(trustingPeriod)
			},
			ibctm.ErrTrustingPeriodExpired,
		},
		{
			"header timestamp is beyond max clock drift",
			func() {
				header.Header.Time = suite.ctx.hostTimestamp.Add(maxClockDrift + time.Second)
			},
			ibctm.ErrHeaderInFuture,
		},
		{
			"header timestamp is not after trusted consensus state",
			func() {
				header.Header.Time = suiteTime
			},
			ibctm.ErrInvalidHeader,
		},
		{
			"verifier rejects the header",
			func() {
				suite.verifier.fail = true
			},
			clienttypes.ErrInvalidHeader,
		},
		{
			"verifier not configured",
			func() {
				verifier = nil
			},
			clienttypes.ErrVerifierNotConfigured,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState := suite.newClientState(height)
			suite.ctx.store(height, ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("root")), valsHash))

			header = newHeader(chainID, 5, height, suiteTime.Add(30*time.Minute), 1)
			verifier = suite.verifier

			tc.malleate()

			err := clientState.VerifyClientMessage(suite.ctx, verifier, clientID, header)
			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(1, suite.verifier.calls)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestVerifyMisbehaviour() {
	var misbehaviour *ibctm.Misbehaviour

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"headers for different chains",
			func() {
				misbehaviour.Header2.Header.ChainID = "osmosis"
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"header 1 lower than header 2",
			func() {
				misbehaviour.Header1 = newHeader(chainID, 5, height, suiteTime.Add(time.Minute), 1)
				misbehaviour.Header2 = newHeader(chainID, 6, height, suiteTime.Add(time.Minute), 2)
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"trusted consensus state for header 2 does not exist",
			func() {
				misbehaviour.Header2.TrustedHeight = clienttypes.NewHeight(0, 3)
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"trusted consensus state expired",
			func() {
				suite.ctx.hostTimestamp = suiteTime.Add(trustingPeriod)
			},
			ibctm.ErrTrustingPeriodExpired,
		},
		{
			"verifier rejects a header",
			func() {
				suite.verifier.fail = true
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState := suite.newClientState(height)
			suite.ctx.store(height, ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("root")), valsHash))

			misbehaviour = ibctm.NewMisbehaviour(
				newHeader(chainID, 5, height, suiteTime.Add(time.Minute), 1),
				newHeader(chainID, 5, height, suiteTime.Add(time.Minute), 2),
			)

			tc.malleate()

			err := clientState.VerifyClientMessage(suite.ctx, suite.verifier, clientID, misbehaviour)
			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(2, suite.verifier.calls)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestUpdateState() {
	clientState := suite.newClientState(height)

	header := newHeader(chainID, 5, height, suiteTime.Add(time.Minute), 1)
	updated, consState, updateHeight := clientState.UpdateState(header)

	suite.Require().Equal(clienttypes.NewHeight(0, 5), updateHeight)
	suite.Require().Equal(clienttypes.NewHeight(0, 5), updated.LatestHeight)
	suite.Require().True(consState.Equal(header.ConsensusState()))
	suite.Require().Equal(height, clientState.LatestHeight, "receiver must not be mutated")

	// an older header fills a gap without lowering the latest height
	older := newHeader(chainID, 3, clienttypes.NewHeight(0, 1), suiteTime.Add(-time.Minute), 1)
	updated, _, updateHeight = updated.UpdateState(older)
	suite.Require().Equal(clienttypes.NewHeight(0, 3), updateHeight)
	suite.Require().Equal(clienttypes.NewHeight(0, 5), updated.LatestHeight)
}

func (suite *TendermintTestSuite) TestUpdateStateOnMisbehaviour() {
	clientState := suite.newClientState(height)

	frozen := clientState.UpdateStateOnMisbehaviour()
	suite.Require().Equal(ibctm.FrozenHeight, frozen.FrozenHeight)
	suite.Require().True(clientState.FrozenHeight.IsZero())
}
