package tendermint_test

import (
	"time"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

func (suite *TendermintTestSuite) TestCheckForMisbehaviourHeader() {
	var header *ibctm.Header

	testCases := []struct {
		name            string
		malleate        func()
		expMisbehaviour bool
	}{
		{
			"header with monotonic timestamp",
			func() {},
			false,
		},
		{
			"header already stored at the same height",
			func() {
				suite.ctx.store(header.GetHeight(), header.ConsensusState())
			},
			false,
		},
		{
			"conflicting consensus state at the same height",
			func() {
				conflicting := newHeader(chainID, 6, height, header.GetTime(), 2)
				suite.ctx.store(header.GetHeight(), conflicting.ConsensusState())
			},
			true,
		},
		{
			"previous consensus state is not before header",
			func() {
				header.Header.Time = suiteTime
			},
			true,
		},
		{
			"next consensus state is not after header",
			func() {
				next := newHeader(chainID, 8, height, suiteTime.Add(10*time.Minute), 1)
				suite.ctx.store(next.GetHeight(), next.ConsensusState())
				header.Header.Time = suiteTime.Add(10 * time.Minute)
			},
			true,
		},
		{
			"header between previous and next consensus states",
			func() {
				next := newHeader(chainID, 8, height, suiteTime.Add(20*time.Minute), 1)
				suite.ctx.store(next.GetHeight(), next.ConsensusState())
			},
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState := suite.newClientState(height)
			suite.ctx.store(height, ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("root")), valsHash))

			header = newHeader(chainID, 6, height, suiteTime.Add(10*time.Minute), 1)

			tc.malleate()

			found, err := clientState.CheckForMisbehaviour(suite.ctx, clientID, header)
			suite.Require().NoError(err)
			suite.Require().Equal(tc.expMisbehaviour, found)
		})
	}
}

func (suite *TendermintTestSuite) TestCheckForMisbehaviourMisbehaviour() {
	blockTime := suiteTime.Add(10 * time.Minute)

	testCases := []struct {
		name            string
		misbehaviour    *ibctm.Misbehaviour
		expMisbehaviour bool
	}{
		{
			"different blocks at the same height",
			ibctm.NewMisbehaviour(
				newHeader(chainID, 6, height, blockTime, 1),
				newHeader(chainID, 6, height, blockTime, 2),
			),
			true,
		},
		{
			"identical blocks at the same height",
			ibctm.NewMisbehaviour(
				newHeader(chainID, 6, height, blockTime, 1),
				newHeader(chainID, 6, height, blockTime, 1),
			),
			false,
		},
		{
			"same block hash with different app hash",
			func() *ibctm.Misbehaviour {
				h1 := newHeader(chainID, 6, height, blockTime, 1)
				h2 := newHeader(chainID, 6, height, blockTime, 1)
				h2.Header.AppHash = []byte("other app hash")
				return ibctm.NewMisbehaviour(h1, h2)
			}(),
			true,
		},
		{
			"time violation: higher header is not after lower header",
			ibctm.NewMisbehaviour(
				newHeader(chainID, 7, height, blockTime, 1),
				newHeader(chainID, 6, height, blockTime.Add(time.Second), 1),
			),
			true,
		},
		{
			"monotonic headers at different heights",
			ibctm.NewMisbehaviour(
				newHeader(chainID, 7, height, blockTime.Add(time.Second), 1),
				newHeader(chainID, 6, height, blockTime, 1),
			),
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState := suite.newClientState(height)

			found, err := clientState.CheckForMisbehaviour(suite.ctx, clientID, tc.misbehaviour)
			suite.Require().NoError(err)
			suite.Require().Equal(tc.expMisbehaviour, found)
		})
	}
}

func (suite *TendermintTestSuite) TestMisbehaviourValidateBasic() {
	var misbehaviour *ibctm.Misbehaviour

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"valid fork misbehaviour", func() {}, nil},
		{"header 1 is nil", func() { misbehaviour.Header1 = nil }, ibctm.ErrInvalidHeader},
		{"header 2 is nil", func() { misbehaviour.Header2 = nil }, ibctm.ErrInvalidHeader},
		{"header 1 trusted height is zero", func() {
			misbehaviour.Header1.TrustedHeight = clienttypes.ZeroHeight()
		}, ibctm.ErrInvalidHeaderHeight},
		{"header 2 trusted validators missing", func() {
			misbehaviour.Header2.TrustedValidators = nil
		}, ibctm.ErrInvalidValidatorSet},
		{"header 1 invalid", func() {
			misbehaviour.Header1.ValidatorSet = nil
		}, clienttypes.ErrInvalidMisbehaviour},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			misbehaviour = ibctm.NewMisbehaviour(
				newHeader(chainID, 6, height, suiteTime, 1),
				newHeader(chainID, 6, height, suiteTime, 2),
			)

			tc.malleate()

			err := misbehaviour.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestMisbehaviourEncoding() {
	misbehaviour := ibctm.NewMisbehaviour(
		newHeader(chainID, 6, height, suiteTime, 1),
		newHeader(chainID, 6, height, suiteTime, 2),
	)

	bz, err := misbehaviour.Marshal()
	suite.Require().NoError(err)

	var decoded ibctm.Misbehaviour
	suite.Require().NoError(decoded.Unmarshal(bz))
	suite.Require().NoError(decoded.ValidateBasic())
	suite.Require().Equal(misbehaviour.Header1.GetHeight(), decoded.Header1.GetHeight())
	suite.Require().True(decoded.Header1.ConsensusState().Equal(misbehaviour.Header1.ConsensusState()))
	suite.Require().True(decoded.Header2.ConsensusState().Equal(misbehaviour.Header2.ConsensusState()))
	suite.Require().True(misbehaviour.GetTime().Equal(decoded.GetTime()))
}
