package keeper_test

import (
	"github.com/spf13/viper"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/types"
	ibctesting "github.com/ibcstore/ibc-store/testing"
)

func (s *KeeperTestSuite) TestGenesisParamsFromAppOptions() {
	v := viper.New()
	v.Set(types.FlagConsensusHistoryLength, 2)
	v.Set(types.FlagEventHistoryLength, "64")

	s.coordinator = ibctesting.NewCoordinatorWithAppOptions(s.T(), 2, nil, v)
	s.chainA = s.coordinator.GetChain(ibctesting.GetChainID(1))
	s.chainB = s.coordinator.GetChain(ibctesting.GetChainID(2))
	s.coordinator.CommitNBlocks(s.chainA, 2)
	s.coordinator.CommitNBlocks(s.chainB, 2)

	expected := types.DefaultParams()
	expected.ConsensusHistoryLength = 2
	expected.EventHistoryLength = 64
	s.Require().Equal(expected, s.chainA.Keeper.GetParams(s.chainA.GetContext()))

	// the genesis bound applies from the first update on
	clientID := s.clientWithHistory()
	heights, err := s.chainA.Keeper.ConsensusHeights(s.chainA.GetContext(), clientID)
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.Height{clienttypes.NewHeight(1, 40), clienttypes.NewHeight(1, 50)}, heights)
}

func (s *KeeperTestSuite) TestInitGenesis() {
	k, ctx := s.chainA.Keeper, s.chainA.GetContext()

	invalid := types.DefaultParams()
	invalid.GasSafetyDenominator = 0
	s.Require().ErrorIs(k.InitGenesis(ctx, invalid), ibcerrors.ErrInvalidRequest)
	s.Require().Equal(types.DefaultParams(), k.GetParams(ctx))

	params := types.DefaultParams()
	params.EventHistoryLength = 8
	s.Require().NoError(k.InitGenesis(ctx, params))
	s.Require().Equal(params, k.GetParams(ctx))
}
