package tendermint_test

import (
	"time"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

func (suite *TendermintTestSuite) TestGetHeight() {
	header := newHeader(chainID, 10, height, suiteTime, 1)
	suite.Require().Equal(clienttypes.NewHeight(0, 10), header.GetHeight())

	header = newHeader("gaia-2", 10, clienttypes.NewHeight(2, 1), suiteTime, 1)
	suite.Require().Equal(clienttypes.NewHeight(2, 10), header.GetHeight())
}

func (suite *TendermintTestSuite) TestGetTime() {
	header := newHeader(chainID, 10, height, suiteTime, 1)
	suite.Require().True(suiteTime.Equal(header.GetTime()))
	suite.Require().Equal(exported.Tendermint, header.ClientType())
}

func (suite *TendermintTestSuite) TestHeaderValidateBasic() {
	var header *ibctm.Header

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"valid header", func() {}, nil},
		{"signed header is nil", func() {
			header.SignedHeader = nil
		}, clienttypes.ErrInvalidHeader},
		{"header is nil", func() {
			header.Header = nil
		}, clienttypes.ErrInvalidHeader},
		{"chain id is empty", func() {
			header.Header.ChainID = ""
		}, ibctm.ErrInvalidChainID},
		{"height is not positive", func() {
			header.Header.Height = 0
			header.Commit.Height = 0
		}, ibctm.ErrInvalidHeaderHeight},
		{"commit height does not match header height", func() {
			header.Commit.Height = 11
		}, ibctm.ErrInvalidHeader},
		{"trusted height equals header height", func() {
			header.TrustedHeight = header.GetHeight()
		}, ibctm.ErrInvalidHeaderHeight},
		{"validator set is nil", func() {
			header.ValidatorSet = nil
		}, clienttypes.ErrInvalidHeader},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			header = newHeader(chainID, 10, height, suiteTime, 1)

			tc.malleate()

			err := header.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestHeaderEncoding() {
	header := newHeader(chainID, 10, height, suiteTime, 1)

	bz, err := header.Marshal()
	suite.Require().NoError(err)

	var decoded ibctm.Header
	suite.Require().NoError(decoded.Unmarshal(bz))
	suite.Require().NoError(decoded.ValidateBasic())
	suite.Require().Equal(header.GetHeight(), decoded.GetHeight())
	suite.Require().Equal(header.TrustedHeight, decoded.TrustedHeight)
	suite.Require().Equal(header.Commit.BlockID.Hash, decoded.Commit.BlockID.Hash)
	suite.Require().True(header.ConsensusState().Equal(decoded.ConsensusState()))
}

func (suite *TendermintTestSuite) TestConsensusStateValidateBasic() {
	testCases := []struct {
		name           string
		consensusState *ibctm.ConsensusState
		expErr         error
	}{
		{
			"success",
			ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("app_hash")), valsHash),
			nil,
		},
		{
			"root is empty",
			ibctm.NewConsensusState(suiteTime, commitmenttypes.MerkleRoot{}, valsHash),
			clienttypes.ErrInvalidConsensus,
		},
		{
			"timestamp is zero",
			ibctm.NewConsensusState(time.Time{}, commitmenttypes.NewMerkleRoot([]byte("app_hash")), valsHash),
			clienttypes.ErrInvalidConsensus,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.consensusState.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}

	invalidHash := ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("app_hash")), []byte("hi"))
	suite.Require().Error(invalidHash.ValidateBasic())
}

func (suite *TendermintTestSuite) TestConsensusStateEncoding() {
	consensusState := ibctm.NewConsensusState(suiteTime, commitmenttypes.NewMerkleRoot([]byte("app_hash")), valsHash)

	var decoded ibctm.ConsensusState
	suite.Require().NoError(decoded.Unmarshal(consensusState.Marshal()))
	suite.Require().True(consensusState.Equal(&decoded))
	suite.Require().Equal(consensusState.GetTimestamp(), decoded.GetTimestamp())
	suite.Require().Equal(exported.Tendermint, decoded.ClientType())
}
