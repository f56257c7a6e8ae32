package keeper

import (
	"errors"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/storage"
	"github.com/ibcstore/ibc-store/internal/validate"
	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/types"
)

// ConsensusStateWithHeight pairs a stored consensus state with its height.
type ConsensusStateWithHeight struct {
	Height         clienttypes.Height
	ConsensusState anyclient.ConsensusState
}

// ClientConsensusStates returns every consensus state retained for clientID
// in ascending height order.
func (k *Keeper) ClientConsensusStates(ctx sdk.Context, clientID string) ([]ConsensusStateWithHeight, error) {
	if _, err := k.ClientState(ctx, clientID); err != nil {
		return nil, err
	}

	entries, err := k.clientHistory(clientID).consensus.Entries(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]ConsensusStateWithHeight, 0, len(entries))
	for _, entry := range entries {
		consState, err := anyclient.UnpackConsensusState(entry.Value)
		if err != nil {
			return nil, err
		}
		states = append(states, ConsensusStateWithHeight{Height: entry.Key, ConsensusState: consState})
	}
	return states, nil
}

// PacketCommitments returns the commitments of the packets sent on the channel
// that are neither acknowledged nor timed out, in send order.
func (k *Keeper) PacketCommitments(ctx sdk.Context, portID, channelID string) ([]channeltypes.PacketState, error) {
	if err := k.queryChannel(ctx, portID, channelID); err != nil {
		return nil, err
	}

	var commitments []channeltypes.PacketState
	err := k.packetIndex(portID, channelID).commitments.Iterate(ctx, func(entry storage.Entry[uint64, []byte]) bool {
		commitments = append(commitments, channeltypes.NewPacketState(portID, channelID, entry.Key, entry.Value))
		return false
	})
	return commitments, err
}

// PacketReceipts returns the receipts of the packets received on the channel
// in ascending sequence order.
func (k *Keeper) PacketReceipts(ctx sdk.Context, portID, channelID string) ([]channeltypes.PacketState, error) {
	if err := k.queryChannel(ctx, portID, channelID); err != nil {
		return nil, err
	}

	return k.packetStates(ctx, k.packetIndex(portID, channelID).receipts, portID, channelID, k.GetPacketReceipt)
}

// PacketAcknowledgements returns the acknowledgement commitments written on
// the channel in ascending sequence order.
func (k *Keeper) PacketAcknowledgements(ctx sdk.Context, portID, channelID string) ([]channeltypes.PacketState, error) {
	if err := k.queryChannel(ctx, portID, channelID); err != nil {
		return nil, err
	}

	return k.packetStates(ctx, k.packetIndex(portID, channelID).acks, portID, channelID, k.GetPacketAcknowledgement)
}

func (*Keeper) packetStates(
	ctx sdk.Context,
	index *storage.LinkedMap[uint64, uint64],
	portID, channelID string,
	get func(sdk.Context, string, string, uint64) ([]byte, error),
) ([]channeltypes.PacketState, error) {
	var (
		states  []channeltypes.PacketState
		readErr error
	)
	err := index.Iterate(ctx, func(pair storage.Pair[uint64, uint64]) bool {
		bz, err := get(ctx, portID, channelID, pair.Key)
		if err != nil {
			readErr = err
			return true
		}
		states = append(states, channeltypes.NewPacketState(portID, channelID, pair.Key, bz))
		return false
	})
	if err != nil {
		return nil, err
	}
	return states, readErr
}

// UnreceivedPackets returns the subset of sequences, sent by the counterparty,
// that have not been received on the channel. It is queried on the receiving
// chain.
func (k *Keeper) UnreceivedPackets(ctx sdk.Context, portID, channelID string, sequences []uint64) ([]uint64, error) {
	if err := validate.QueryRequest(portID, channelID); err != nil {
		return nil, err
	}

	channel, err := k.ChannelEnd(ctx, portID, channelID)
	if err != nil {
		return nil, err
	}

	var unreceived []uint64
	switch channel.Ordering {
	case channeltypes.UNORDERED:
		for i, seq := range sequences {
			if seq == 0 {
				return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidSequence, "packet sequence %d cannot be 0", i)
			}

			if _, err := k.GetPacketReceipt(ctx, portID, channelID, seq); errors.Is(err, channeltypes.ErrPacketReceiptNotFound) {
				unreceived = append(unreceived, seq)
			} else if err != nil {
				return nil, err
			}
		}
	case channeltypes.ORDERED:
		nextSequenceRecv, err := k.GetNextSequenceRecv(ctx, portID, channelID)
		if err != nil {
			return nil, err
		}

		for i, seq := range sequences {
			if seq == 0 {
				return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidSequence, "packet sequence %d cannot be 0", i)
			}

			// Any sequence greater than or equal to the next sequence to be received is not received.
			if seq >= nextSequenceRecv {
				unreceived = append(unreceived, seq)
			}
		}
	default:
		return nil, errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering, "channel order %s is not supported", channel.Ordering)
	}

	return unreceived, nil
}

// UnreceivedAcks returns the subset of sequences, sent on the channel, whose
// acknowledgement has not been processed yet. It is queried on the sending
// chain.
func (k *Keeper) UnreceivedAcks(ctx sdk.Context, portID, channelID string, sequences []uint64) ([]uint64, error) {
	if err := k.queryChannel(ctx, portID, channelID); err != nil {
		return nil, err
	}

	var unreceived []uint64
	for i, seq := range sequences {
		if seq == 0 {
			return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidSequence, "packet sequence %d cannot be 0", i)
		}

		// if packet commitment still exists on the original sending chain, then packet ack has not been received
		// since processing the ack will delete the packet commitment
		if _, err := k.GetPacketCommitment(ctx, portID, channelID, seq); err == nil {
			unreceived = append(unreceived, seq)
		} else if !errors.Is(err, channeltypes.ErrPacketCommitmentNotFound) {
			return nil, err
		}
	}

	return unreceived, nil
}

// queryChannel validates the identifiers of a channel query and checks that
// the channel exists.
func (k *Keeper) queryChannel(ctx sdk.Context, portID, channelID string) error {
	if err := validate.QueryRequest(portID, channelID); err != nil {
		return err
	}
	_, err := k.ChannelEnd(ctx, portID, channelID)
	return err
}

// EventHistory returns the retained IBC events emitted at host heights within
// [start, end]. A zero end leaves the range open. The walk starts at the first
// bucket not below start.
func (k *Keeper) EventHistory(ctx sdk.Context, start, end uint64) ([]types.HeightEvents, error) {
	if err := validate.HeightRange(start, end); err != nil {
		return nil, err
	}

	var buckets []types.HeightEvents
	err := k.eventHistory.IterateFrom(ctx, start, func(entry storage.Entry[uint64, types.EventList]) bool {
		if end != 0 && entry.Key > end {
			return true
		}
		buckets = append(buckets, types.HeightEvents{Height: entry.Key, Events: entry.Value})
		return false
	})
	return buckets, err
}

// LatestEvents returns the events of the most recent host height with IBC
// activity.
func (k *Keeper) LatestEvents(ctx sdk.Context) (types.HeightEvents, bool, error) {
	entry, found, err := k.eventHistory.Back(ctx)
	if err != nil || !found {
		return types.HeightEvents{}, false, err
	}
	return types.HeightEvents{Height: entry.Key, Events: entry.Value}, true, nil
}
