package types_test

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// tests acknowledgement.ValidateBasic and acknowledgement.Acknowledgement
func (suite *TypesTestSuite) TestAcknowledgement() {
	testCases := []struct {
		name         string
		ack          types.Acknowledgement
		expValidates bool
		expBytes     []byte
		expSuccess   bool // indicate if this is a success or failed ack
	}{
		{
			"valid successful ack",
			types.NewResultAcknowledgement([]byte("success")),
			true,
			[]byte(`{"result":"c3VjY2Vzcw=="}`),
			true,
		},
		{
			"valid failed ack",
			types.NewErrorAcknowledgement(fmt.Errorf("error")),
			true,
			[]byte(`{"error":"ABCI code: 1: error handling packet: see events for details"}`),
			false,
		},
		{
			"empty successful ack",
			types.NewResultAcknowledgement([]byte{}),
			false,
			nil,
			true,
		},
		{
			"empty failed ack",
			types.NewErrorAcknowledgement(fmt.Errorf("  ")),
			true,
			[]byte(`{"error":"ABCI code: 1: error handling packet: see events for details"}`),
			false,
		},
		{
			"nil response",
			types.Acknowledgement{},
			false,
			nil,
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.ack.ValidateBasic()

			if tc.expValidates {
				suite.Require().NoError(err)

				// expect all valid acks to be able to be marshaled
				suite.NotPanics(func() {
					bz := tc.ack.Acknowledgement()
					suite.Require().NotNil(bz)
					suite.Require().Equal(tc.expBytes, bz)
				})
			} else {
				suite.Require().Error(err)
			}

			suite.Require().Equal(tc.expSuccess, tc.ack.Success())
		})
	}
}

// TestAcknowledgementError will verify that only a constant string and
// ABCI error code are used in constructing the acknowledgement error string
func (suite *TypesTestSuite) TestAcknowledgementError() {
	// same ABCI error code used
	err := errorsmod.Wrap(ibcerrors.ErrInvalidCoins, "error string 1")
	errSameABCICode := errorsmod.Wrap(ibcerrors.ErrInvalidCoins, "error string 2")

	// different ABCI error code used
	errDifferentABCICode := ibcerrors.ErrNotFound

	ack := types.NewErrorAcknowledgement(err)
	ackSameABCICode := types.NewErrorAcknowledgement(errSameABCICode)
	ackDifferentABCICode := types.NewErrorAcknowledgement(errDifferentABCICode)

	suite.Require().Equal(ack, ackSameABCICode)
	suite.Require().NotEqual(ack, ackDifferentABCICode)
}

func (suite *TypesTestSuite) TestAcknowledgementWithCodespace() {
	testCases := []struct {
		name     string
		ack      types.Acknowledgement
		expBytes []byte
	}{
		{
			"valid failed ack",
			types.NewErrorAcknowledgementWithCodespace(ibcerrors.ErrDecode),
			[]byte(`{"error":"ABCI error: ibc/3: error handling packet: see events for details"}`),
		},
		{
			"unknown error",
			types.NewErrorAcknowledgementWithCodespace(fmt.Errorf("unknown error")),
			[]byte(`{"error":"ABCI error: undefined/1: error handling packet: see events for details"}`),
		},
		{
			"nil error",
			types.NewErrorAcknowledgementWithCodespace(nil),
			[]byte(`{"error":"ABCI error: /0: error handling packet: see events for details"}`),
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.Require().Equal(tc.expBytes, tc.ack.Acknowledgement())
		})
	}
}

func (suite *TypesTestSuite) TestUnmarshalAcknowledgement() {
	ack, err := types.UnmarshalAcknowledgement([]byte(`{"result":"c3VjY2Vzcw=="}`))
	suite.Require().NoError(err)
	suite.Require().True(ack.Success())
	suite.Require().Equal([]byte("success"), ack.Result)

	ack, err = types.UnmarshalAcknowledgement(types.NewErrorAcknowledgement(ibcerrors.ErrNotFound).Acknowledgement())
	suite.Require().NoError(err)
	suite.Require().False(ack.Success())

	_, err = types.UnmarshalAcknowledgement([]byte("not json"))
	suite.Require().ErrorIs(err, types.ErrInvalidAcknowledgement)
}
