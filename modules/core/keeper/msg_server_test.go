package keeper_test

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/keeper"
	"github.com/ibcstore/ibc-store/modules/core/types"
	ibctesting "github.com/ibcstore/ibc-store/testing"
)

// appMsg is a message that only an application handler understands.
type appMsg struct {
	payload string
}

func (appMsg) ValidateBasic() error { return nil }

type appHandler struct {
	handled []string
}

func (h *appHandler) HandleMsg(_ sdk.Context, msg sdk.HasValidateBasic) (any, bool, error) {
	m, ok := msg.(*appMsg)
	if !ok {
		return nil, false, nil
	}
	h.handled = append(h.handled, m.payload)
	return m.payload, true, nil
}

func (s *KeeperTestSuite) TestDeliverContinuesPastFailures() {
	base := s.coordinator.CurrentTime.Add(-time.Hour)
	clientID := s.createClientAt(newHeader(s.chainB.ChainID, 10, base, clienttypes.ZeroHeight(), []byte("hash-10")))

	params := types.DefaultParams()
	params.EventHistoryLength = 8

	msgs := []sdk.HasValidateBasic{
		types.NewMsgUpdateParams(s.chainA.SenderAddress, params), // not the authority
		types.NewMsgUpdateParams(ibctesting.Authority, params),
		&types.MsgShrinkClientHistory{ClientId: "07-tendermint-100", Signer: ibctesting.Authority},
		&types.MsgShrinkClientHistory{ClientId: clientID, Signer: ibctesting.Authority},
	}

	results, err := s.chainA.MsgServer.Deliver(s.chainA.GetContext(), msgs)
	s.Require().Error(err)
	s.Require().ErrorIs(err, ibcerrors.ErrUnauthorized)
	s.Require().ErrorIs(err, clienttypes.ErrClientNotFound)
	s.Require().ErrorContains(err, "message 0")
	s.Require().ErrorContains(err, "message 2")

	s.Require().Len(results, len(msgs))
	for i, res := range results {
		s.Require().Equal(i, res.Index)
	}
	s.Require().ErrorIs(results[0].Err, ibcerrors.ErrUnauthorized)
	s.Require().Nil(results[0].Response)
	s.Require().NoError(results[1].Err)
	s.Require().ErrorIs(results[2].Err, clienttypes.ErrClientNotFound)
	s.Require().NoError(results[3].Err)
	s.Require().True(results[3].Response.(*types.MsgMaintenanceResponse).Progress.Done())

	s.Require().Equal(params, s.chainA.Keeper.GetParams(s.chainA.GetContext()))
}

func (s *KeeperTestSuite) TestDeliverInvalidMessages() {
	testCases := []struct {
		name   string
		msg    sdk.HasValidateBasic
		expErr error
	}{
		{"nil message", nil, ibcerrors.ErrInvalidRequest},
		{"unknown message", &appMsg{payload: "transfer"}, ibcerrors.ErrUnknownType},
		{"invalid signer", types.NewMsgUpdateParams("invalid", types.DefaultParams()), ibcerrors.ErrInvalidAddress},
		{"invalid params", types.NewMsgUpdateParams(ibctesting.Authority, types.Params{}), ibcerrors.ErrInvalidRequest},
		{"zero prune sequence", &types.MsgPruneReceipts{PortId: "transfer", ChannelId: "channel-0", Signer: ibctesting.Authority}, ibcerrors.ErrInvalidSequence},
		{"maintenance by non authority", &types.MsgPruneEventHistory{Signer: s.chainA.SenderAddress}, ibcerrors.ErrUnauthorized},
		{"malformed client message", clienttypes.NewMsgUpdateClient(ibctesting.FirstClientID, []byte{0xff}, s.chainA.SenderAddress), ibcerrors.ErrDecode},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			errs := s.deliver(tc.msg)
			s.Require().ErrorIs(errs[0], tc.expErr)
		})
	}
}

func (s *KeeperTestSuite) TestDeliverApplicationMessages() {
	handler := &appHandler{}
	msgServer := keeper.NewMsgServerImpl(s.chainA.Keeper, handler)

	results, err := msgServer.Deliver(s.chainA.GetContext(), []sdk.HasValidateBasic{
		&appMsg{payload: "first"},
		types.NewMsgUpdateParams(ibctesting.Authority, types.DefaultParams()),
		&appMsg{payload: "second"},
	})
	s.Require().NoError(err)
	s.Require().Equal([]string{"first", "second"}, handler.handled)
	s.Require().Equal("first", results[0].Response)
	s.Require().IsType(&types.MsgUpdateParamsResponse{}, results[1].Response)
}

func (s *KeeperTestSuite) TestDeliverDiscardsFailedWrites() {
	path := ibctesting.NewPath(s.chainA, s.chainB)
	path.SetupClients()

	latest := s.chainA.GetClientLatestHeight(path.EndpointA.ClientID)

	// a failing update leaves the counters and client untouched
	s.chainA.Verifier.Err = ibcerrors.ErrLogic
	err := path.EndpointA.UpdateClient()
	s.Require().ErrorIs(err, clienttypes.ErrInvalidHeader)
	s.Require().Equal(latest, s.chainA.GetClientLatestHeight(path.EndpointA.ClientID))

	s.chainA.Verifier.Err = nil
	s.Require().NoError(path.EndpointA.UpdateClient())
	s.Require().True(s.chainA.GetClientLatestHeight(path.EndpointA.ClientID).GT(latest))
}
