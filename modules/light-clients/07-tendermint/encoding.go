package tendermint

import (
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/ibcstore/ibc-store/internal/codec"
)

var deterministic = proto.MarshalOptions{Deterministic: true}

func marshalDuration(d time.Duration) []byte {
	bz, err := deterministic.Marshal(durationpb.New(d))
	if err != nil {
		panic(err)
	}
	return bz
}

func unmarshalDuration(f codec.Field, dst *time.Duration) error {
	var bz []byte
	if err := f.Bytes(&bz); err != nil {
		return err
	}
	var d durationpb.Duration
	if err := proto.Unmarshal(bz, &d); err != nil {
		return err
	}
	*dst = d.AsDuration()
	return nil
}

func marshalTimestamp(t time.Time) []byte {
	bz, err := deterministic.Marshal(timestamppb.New(t))
	if err != nil {
		panic(err)
	}
	return bz
}

func unmarshalTimestamp(f codec.Field, dst *time.Time) error {
	var bz []byte
	if err := f.Bytes(&bz); err != nil {
		return err
	}
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(bz, &ts); err != nil {
		return err
	}
	*dst = ts.AsTime()
	return nil
}
