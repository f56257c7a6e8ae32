package anyclient

import (
	errorsmod "cosmossdk.io/errors"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// Type URLs of the supported client variants.
const (
	TypeURLTendermintClientState    = "/ibc.lightclients.tendermint.v1.ClientState"
	TypeURLTendermintConsensusState = "/ibc.lightclients.tendermint.v1.ConsensusState"
	TypeURLTendermintHeader         = "/ibc.lightclients.tendermint.v1.Header"
	TypeURLTendermintMisbehaviour   = "/ibc.lightclients.tendermint.v1.Misbehaviour"
)

var deterministic = proto.MarshalOptions{Deterministic: true}

// packAny wraps value in an Any carrying typeURL.
func packAny(typeURL string, value []byte) ([]byte, error) {
	bz, err := deterministic.Marshal(&anypb.Any{TypeUrl: typeURL, Value: value})
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrLogic, "cannot marshal Any with type %s: %v", typeURL, err)
	}
	return bz, nil
}

// unpackAny returns the type URL and value of an encoded Any.
func unpackAny(bz []byte) (*anypb.Any, error) {
	if len(bz) == 0 {
		return nil, errorsmod.Wrap(ibcerrors.ErrDecode, "protobuf Any message cannot be empty")
	}
	protoAny := new(anypb.Any)
	if err := proto.Unmarshal(bz, protoAny); err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrDecode, "cannot unmarshal Any: %v", err)
	}
	return protoAny, nil
}

func unknownType(typeURL string) error {
	return errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "unsupported type URL %q", typeURL)
}

type unmarshaler interface {
	Unmarshal(bz []byte) error
}

func decodeValue(protoAny *anypb.Any, dst unmarshaler) error {
	if err := dst.Unmarshal(protoAny.Value); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrDecode, "cannot decode %s: %v", protoAny.TypeUrl, err)
	}
	return nil
}
