package tendermint_test

import (
	"time"

	ics23 "github.com/cosmos/ics23/go"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

func (suite *TendermintTestSuite) TestValidate() {
	testCases := []struct {
		name        string
		clientState *ibctm.ClientState
		expErr      error
	}{
		{
			name:        "valid client",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      nil,
		},
		{
			name:        "valid client with nil upgrade path",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), nil),
			expErr:      nil,
		},
		{
			name:        "invalid chainID",
			clientState: ibctm.NewClientState("  ", ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidChainID,
		},
		{
			name:        "invalid chainID - chainID validation failed for chainID of length 51! ",
			clientState: ibctm.NewClientState("osmosis-1-osmosis-1-osmosis-1-osmosis-1-osmosis-1-", ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidChainID,
		},
		{
			name:        "invalid trust level",
			clientState: ibctm.NewClientState(chainID, ibctm.Fraction{Numerator: 0, Denominator: 1}, trustingPeriod, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidTrustLevel,
		},
		{
			name:        "invalid zero trusting period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, 0, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidTrustingPeriod,
		},
		{
			name:        "invalid negative unbonding period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, -1, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidUnbondingPeriod,
		},
		{
			name:        "invalid zero max clock drift",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, 0, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidMaxClockDrift,
		},
		{
			name:        "invalid revision number",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, clienttypes.NewHeight(1, 1), commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidHeaderHeight,
		},
		{
			name:        "invalid revision height",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, clienttypes.ZeroHeight(), commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidHeaderHeight,
		},
		{
			name:        "trusting period not less than unbonding period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ubdPeriod, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), upgradePath),
			expErr:      ibctm.ErrInvalidTrustingPeriod,
		},
		{
			name:        "proof specs is nil",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, height, nil, upgradePath),
			expErr:      ibctm.ErrInvalidProofSpecs,
		},
		{
			name:        "proof specs contains nil",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, height, []*ics23.ProofSpec{ics23.TendermintSpec, nil}, upgradePath),
			expErr:      ibctm.ErrInvalidProofSpecs,
		},
		{
			name:        "invalid upgrade path",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, trustingPeriod, ubdPeriod, maxClockDrift, height, commitmenttypes.GetSDKSpecs(), []string{"upgrade", ""}),
			expErr:      clienttypes.ErrInvalidClient,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.clientState.Validate()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestStatus() {
	var clientState *ibctm.ClientState

	testCases := []struct {
		name      string
		malleate  func()
		expStatus exported.Status
	}{
		{"client is active", func() {}, exported.Active},
		{"client is frozen", func() {
			clientState = clientState.UpdateStateOnMisbehaviour()
		}, exported.Frozen},
		{"client status without consensus state", func() {
			clientState.LatestHeight = clientState.LatestHeight.Increment().(clienttypes.Height)
		}, exported.Expired},
		{"client status is expired", func() {
			suite.ctx.hostTimestamp = suiteTime.Add(trustingPeriod)
		}, exported.Expired},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState = suite.newClientState(height)
			suite.ctx.store(height, ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("root")), valsHash))

			tc.malleate()

			suite.Require().Equal(tc.expStatus, clientState.Status(suite.ctx, clientID))
		})
	}
}

func (suite *TendermintTestSuite) TestIsExpired() {
	clientState := suite.newClientState(height)

	suite.Require().False(clientState.IsExpired(suiteTime, suiteTime.Add(trustingPeriod-time.Nanosecond)))
	suite.Require().True(clientState.IsExpired(suiteTime, suiteTime.Add(trustingPeriod)))
	suite.Require().True(clientState.IsExpired(suiteTime, suiteTime.Add(trustingPeriod+time.Second)))
}

func (suite *TendermintTestSuite) TestVerifyMembershipPreconditions() {
	var (
		clientState *ibctm.ClientState
		proofHeight clienttypes.Height
		delayTime   uint64
		delayBlocks uint64
		proof       []byte
	)

	path := commitmenttypes.NewMerklePath([]byte(exported.StoreKey), []byte("key"))

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"proof height greater than client latest height",
			func() {
				proofHeight = clienttypes.NewHeight(0, height.RevisionHeight+1)
			},
			ibcerrors.ErrInvalidHeight,
		},
		{
			"delay time period has not passed",
			func() {
				delayTime = uint64(time.Hour.Nanoseconds())
			},
			ibctm.ErrDelayPeriodNotPassed,
		},
		{
			"delay block period has not passed",
			func() {
				delayBlocks = 10
			},
			ibctm.ErrDelayPeriodNotPassed,
		},
		{
			"processed time missing for proof height",
			func() {
				delete(suite.ctx.updateTimes, height)
				delayTime = 1
			},
			ibctm.ErrProcessedTimeNotFound,
		},
		{
			"processed height missing for proof height",
			func() {
				delete(suite.ctx.updateHeights, height)
				delayBlocks = 1
			},
			ibctm.ErrProcessedHeightNotFound,
		},
		{
			"proof cannot be decoded",
			func() {
				proof = []byte{0xff}
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"proof is empty",
			func() {},
			commitmenttypes.ErrInvalidMerkleProof,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState = suite.newClientState(height)
			suite.ctx.store(height, ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("root")), valsHash))
			proofHeight = height
			delayTime, delayBlocks = 0, 0
			proof = nil

			tc.malleate()

			err := clientState.VerifyMembership(suite.ctx, clientID, proofHeight, delayTime, delayBlocks, proof, path, []byte("value"))
			suite.Require().ErrorIs(err, tc.expErr)

			err = clientState.VerifyNonMembership(suite.ctx, clientID, proofHeight, delayTime, delayBlocks, proof, path)
			suite.Require().ErrorIs(err, tc.expErr)
		})
	}
}

func (suite *TendermintTestSuite) TestClientStateEncoding() {
	clientState := suite.newClientState(height)
	clientState.FrozenHeight = ibctm.FrozenHeight

	bz, err := clientState.Marshal()
	suite.Require().NoError(err)

	var decoded ibctm.ClientState
	suite.Require().NoError(decoded.Unmarshal(bz))

	suite.Require().Equal(clientState.ChainId, decoded.ChainId)
	suite.Require().Equal(clientState.TrustLevel, decoded.TrustLevel)
	suite.Require().Equal(clientState.TrustingPeriod, decoded.TrustingPeriod)
	suite.Require().Equal(clientState.UnbondingPeriod, decoded.UnbondingPeriod)
	suite.Require().Equal(clientState.MaxClockDrift, decoded.MaxClockDrift)
	suite.Require().Equal(clientState.FrozenHeight, decoded.FrozenHeight)
	suite.Require().Equal(clientState.LatestHeight, decoded.LatestHeight)
	suite.Require().Equal(clientState.UpgradePath, decoded.UpgradePath)
	suite.Require().Len(decoded.ProofSpecs, len(clientState.ProofSpecs))

	// proof specs hold unexported protobuf state, compare their encodings instead
	rebz, err := decoded.Marshal()
	suite.Require().NoError(err)
	suite.Require().Equal(bz, rebz)
}
