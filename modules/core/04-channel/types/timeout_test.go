package types_test

import (
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	"github.com/ibcstore/ibc-store/modules/core/04-channel/types"
)

func (suite *TypesTestSuite) TestTimeoutPassed() {
	var timeout types.Timeout
	var passed bool

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
	}{
		{
			"client height is not after timeout height",
			func() {
				passed = timeout.AfterHeight(clienttypes.NewHeight(0, 75))
			},
			false,
		},
		{
			"client timestamp is not after timeout timestamp",
			func() {
				passed = timeout.AfterTimestamp(75)
			},
			false,
		},
		{
			"client height is after timeout height",
			func() {
				passed = timeout.AfterHeight(clienttypes.NewHeight(0, 25))
			},
			true,
		},
		{
			"client timestamp is after timeout timestamp",
			func() {
				passed = timeout.AfterTimestamp(25)
			},
			true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			timeout = types.NewTimeout(
				clienttypes.NewHeight(0, 50),
				50,
			)

			tc.malleate()

			if tc.expPass {
				suite.Require().True(passed)
			} else {
				suite.Require().False(passed)
			}
		})
	}
}

func (suite *TypesTestSuite) TestTimeout() {
	var timeout types.Timeout
	var valid bool

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
	}{
		{
			"valid timeout",
			func() {},
			true,
		},
		{
			"invalid timeout",
			func() {
				timeout.Height = clienttypes.ZeroHeight()
				timeout.Timestamp = 0
			},
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			timeout = types.NewTimeout(
				clienttypes.NewHeight(0, 50),
				0,
			)

			tc.malleate()

			valid = timeout.IsValid()

			if tc.expPass {
				suite.Require().True(valid)
			} else {
				suite.Require().False(valid)
			}
		})
	}
}

func (suite *TypesTestSuite) TestTimeoutElapsed() {
	timeout := types.NewTimeout(clienttypes.NewHeight(0, 50), 50)

	suite.Require().False(timeout.Elapsed(clienttypes.NewHeight(0, 49), 49))
	suite.Require().True(timeout.Elapsed(clienttypes.NewHeight(0, 50), 0))
	suite.Require().True(timeout.Elapsed(clienttypes.ZeroHeight(), 50))

	suite.Require().ErrorIs(timeout.ErrTimeoutElapsed(clienttypes.NewHeight(0, 50), 0), types.ErrTimeoutElapsed)
	suite.Require().ErrorIs(timeout.ErrTimeoutNotReached(clienttypes.NewHeight(0, 49), 49), types.ErrTimeoutNotReached)

	heightOnly := types.NewTimeout(clienttypes.NewHeight(0, 50), 0)
	suite.Require().False(heightOnly.Elapsed(clienttypes.NewHeight(0, 49), 1000))

	fromPacket := types.TimeoutFromPacket(packet)
	suite.Require().Equal(timeoutHeight, fromPacket.Height)
	suite.Require().Equal(timeoutTimestamp, fromPacket.Timestamp)
}
