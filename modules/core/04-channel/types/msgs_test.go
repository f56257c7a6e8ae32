package types_test

import (
	"errors"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	"github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

var proofHeight = clienttypes.NewHeight(0, 1)

func (s *TypesTestSuite) TestMsgChannelOpenInitValidateBasic() {
	counterparty := types.NewCounterparty(cpportid, cpchanid)
	tryOpenChannel := types.NewChannel(types.TRYOPEN, types.ORDERED, counterparty, connHops, version)

	testCases := []struct {
		name   string
		msg    *types.MsgChannelOpenInit
		expErr error
	}{
		{"success", types.NewMsgChannelOpenInit(portid, version, types.ORDERED, connHops, cpportid, addr), nil},
		{"success: empty version", types.NewMsgChannelOpenInit(portid, "", types.UNORDERED, connHops, cpportid, addr), nil},
		{"too short port id", types.NewMsgChannelOpenInit(invalidShortPort, version, types.ORDERED, connHops, cpportid, addr), host.ErrInvalidID},
		{"port id contains non-alpha", types.NewMsgChannelOpenInit(invalidPort, version, types.ORDERED, connHops, cpportid, addr), host.ErrInvalidID},
		{"invalid channel order", types.NewMsgChannelOpenInit(portid, version, types.Order(3), connHops, cpportid, addr), types.ErrInvalidChannelOrdering},
		{"connection hops more than 1", types.NewMsgChannelOpenInit(portid, version, types.ORDERED, invalidConnHops, cpportid, addr), types.ErrTooManyConnectionHops},
		{"too short connection id", types.NewMsgChannelOpenInit(portid, version, types.UNORDERED, invalidShortConnHops, cpportid, addr), host.ErrInvalidID},
		{"connection id contains non-alpha", types.NewMsgChannelOpenInit(portid, version, types.UNORDERED, []string{invalidConnection}, cpportid, addr), host.ErrInvalidID},
		{"invalid counterparty port id", types.NewMsgChannelOpenInit(portid, version, types.UNORDERED, connHops, invalidPort, addr), host.ErrInvalidID},
		{"channel not in INIT state", &types.MsgChannelOpenInit{PortId: portid, Channel: tryOpenChannel, Signer: addr}, types.ErrInvalidChannelState},
		{"empty signer", types.NewMsgChannelOpenInit(portid, version, types.ORDERED, connHops, cpportid, emptyAddr), ibcerrors.ErrInvalidAddress},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TypesTestSuite) TestMsgChannelOpenTryValidateBasic() {
	counterparty := types.NewCounterparty(cpportid, cpchanid)
	initChannel := types.NewChannel(types.INIT, types.ORDERED, counterparty, connHops, version)

	testCases := []struct {
		name   string
		msg    *types.MsgChannelOpenTry
		expErr error
	}{
		{"success", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, cpchanid, version, proof, proofHeight, addr), nil},
		{"too short port id", types.NewMsgChannelOpenTry(invalidShortPort, version, types.ORDERED, connHops, cpportid, cpchanid, version, proof, proofHeight, addr), host.ErrInvalidID},
		{"empty proof", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, cpchanid, version, emptyProof, proofHeight, addr), commitmenttypes.ErrInvalidProof},
		{"empty counterparty channel id", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, "", version, proof, proofHeight, addr), host.ErrInvalidID},
		{"invalid channel order", types.NewMsgChannelOpenTry(portid, version, types.NONE, connHops, cpportid, cpchanid, version, proof, proofHeight, addr), types.ErrInvalidChannelOrdering},
		{"channel not in TRYOPEN state", &types.MsgChannelOpenTry{PortId: portid, Channel: initChannel, ProofInit: proof, ProofHeight: proofHeight, Signer: addr}, types.ErrInvalidChannelState},
		{"empty signer", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, cpchanid, version, proof, proofHeight, emptyAddr), ibcerrors.ErrInvalidAddress},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TypesTestSuite) TestMsgChannelOpenAckAndConfirmValidateBasic() {
	testCases := []struct {
		name   string
		msg    interface{ ValidateBasic() error }
		expErr error
	}{
		{"ack: success", types.NewMsgChannelOpenAck(portid, chanid, chanid, version, proof, proofHeight, addr), nil},
		{"ack: invalid channel id", types.NewMsgChannelOpenAck(portid, invalidChannel, chanid, version, proof, proofHeight, addr), types.ErrInvalidChannelIdentifier},
		{"ack: invalid counterparty channel id", types.NewMsgChannelOpenAck(portid, chanid, invalidChannel, version, proof, proofHeight, addr), host.ErrInvalidID},
		{"ack: empty proof", types.NewMsgChannelOpenAck(portid, chanid, chanid, version, emptyProof, proofHeight, addr), commitmenttypes.ErrInvalidProof},
		{"confirm: success", types.NewMsgChannelOpenConfirm(portid, chanid, proof, proofHeight, addr), nil},
		{"confirm: non sdk channel id", types.NewMsgChannelOpenConfirm(portid, cpchanid, proof, proofHeight, addr), types.ErrInvalidChannelIdentifier},
		{"confirm: empty proof", types.NewMsgChannelOpenConfirm(portid, chanid, emptyProof, proofHeight, addr), commitmenttypes.ErrInvalidProof},
		{"close init: success", types.NewMsgChannelCloseInit(portid, chanid, addr), nil},
		{"close init: invalid port", types.NewMsgChannelCloseInit(invalidPort, chanid, addr), host.ErrInvalidID},
		{"close confirm: success", types.NewMsgChannelCloseConfirm(portid, chanid, proof, proofHeight, addr), nil},
		{"close confirm: empty proof", types.NewMsgChannelCloseConfirm(portid, chanid, emptyProof, proofHeight, addr), commitmenttypes.ErrInvalidProof},
		{"close confirm: empty signer", types.NewMsgChannelCloseConfirm(portid, chanid, proof, proofHeight, emptyAddr), ibcerrors.ErrInvalidAddress},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TypesTestSuite) TestMsgPacketValidateBasic() {
	testCases := []struct {
		name   string
		msg    interface{ ValidateBasic() error }
		expErr error
	}{
		{"recv: success", types.NewMsgRecvPacket(packet, proof, proofHeight, addr), nil},
		{"recv: empty proof", types.NewMsgRecvPacket(packet, emptyProof, proofHeight, addr), commitmenttypes.ErrInvalidProof},
		{"recv: invalid packet", types.NewMsgRecvPacket(invalidPacket, proof, proofHeight, addr), types.ErrInvalidPacket},
		{"recv: empty signer", types.NewMsgRecvPacket(packet, proof, proofHeight, emptyAddr), ibcerrors.ErrInvalidAddress},
		{"timeout: success", types.NewMsgTimeout(packet, 1, proof, proofHeight, addr), nil},
		{"timeout: seq 0", types.NewMsgTimeout(packet, 0, proof, proofHeight, addr), ibcerrors.ErrInvalidSequence},
		{"timeout: empty proof", types.NewMsgTimeout(packet, 1, emptyProof, proofHeight, addr), commitmenttypes.ErrInvalidProof},
		{"timeout: invalid packet", types.NewMsgTimeout(invalidPacket, 1, proof, proofHeight, addr), types.ErrInvalidPacket},
		{"ack: success", types.NewMsgAcknowledgement(packet, []byte("ack"), proof, proofHeight, addr), nil},
		{"ack: empty ack", types.NewMsgAcknowledgement(packet, nil, proof, proofHeight, addr), types.ErrInvalidAcknowledgement},
		{"ack: empty proof", types.NewMsgAcknowledgement(packet, []byte("ack"), emptyProof, proofHeight, addr), commitmenttypes.ErrInvalidProof},
		{"ack: invalid packet", types.NewMsgAcknowledgement(invalidPacket, []byte("ack"), proof, proofHeight, addr), types.ErrInvalidPacket},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().True(errors.Is(err, tc.expErr), err.Error())
			}
		})
	}
}

func (s *TypesTestSuite) TestMsgRecvPacketGetDataSignBytes() {
	msg := types.NewMsgRecvPacket(packet, proof, proofHeight, addr)
	s.Require().Equal(`"dGVzdGRhdGE="`, string(msg.GetDataSignBytes()))
}
