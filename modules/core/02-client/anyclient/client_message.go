package anyclient

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

// ClientMessage is the closed variant over the messages a client accepts on
// update: a header or a misbehaviour. Exactly one field is set.
type ClientMessage struct {
	Header       *ibctm.Header
	Misbehaviour *ibctm.Misbehaviour
}

// IsMisbehaviour reports whether the message carries misbehaviour evidence.
func (msg ClientMessage) IsMisbehaviour() bool {
	return msg.Misbehaviour != nil
}

// ClientType returns the client type the message is addressed to.
func (msg ClientMessage) ClientType() string {
	m, err := msg.tendermint()
	if err != nil {
		return ""
	}
	return m.ClientType()
}

// ValidateBasic performs stateless validation of the message.
func (msg ClientMessage) ValidateBasic() error {
	m, err := msg.tendermint()
	if err != nil {
		return err
	}
	return m.ValidateBasic()
}

func (msg ClientMessage) tendermint() (ibctm.ClientMessage, error) {
	switch {
	case msg.Header != nil && msg.Misbehaviour == nil:
		return msg.Header, nil
	case msg.Misbehaviour != nil && msg.Header == nil:
		return msg.Misbehaviour, nil
	default:
		return nil, errorsmod.Wrap(clienttypes.ErrInvalidClientMessage, "exactly one of header or misbehaviour must be set")
	}
}

// PackClientMessage encodes the client message as a protobuf Any.
func PackClientMessage(msg ClientMessage) ([]byte, error) {
	if _, err := msg.tendermint(); err != nil {
		return nil, err
	}

	if msg.Header != nil {
		bz, err := msg.Header.Marshal()
		if err != nil {
			return nil, err
		}
		return packAny(TypeURLTendermintHeader, bz)
	}

	bz, err := msg.Misbehaviour.Marshal()
	if err != nil {
		return nil, err
	}
	return packAny(TypeURLTendermintMisbehaviour, bz)
}

// UnpackClientMessage decodes a client message packed by PackClientMessage.
func UnpackClientMessage(bz []byte) (ClientMessage, error) {
	protoAny, err := unpackAny(bz)
	if err != nil {
		return ClientMessage{}, err
	}

	switch protoAny.TypeUrl {
	case TypeURLTendermintHeader:
		header := new(ibctm.Header)
		if err := decodeValue(protoAny, header); err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Header: header}, nil
	case TypeURLTendermintMisbehaviour:
		misbehaviour := new(ibctm.Misbehaviour)
		if err := decodeValue(protoAny, misbehaviour); err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Misbehaviour: misbehaviour}, nil
	default:
		return ClientMessage{}, unknownType(protoAny.TypeUrl)
	}
}
