package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/storage"
	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/types"
)

// StoreClientState stores the client state under clientID.
func (k *Keeper) StoreClientState(ctx sdk.Context, clientID string, clientState anyclient.ClientState) error {
	bz, err := anyclient.PackClientState(clientState)
	if err != nil {
		return err
	}
	k.ClientStore(ctx, clientID).Set(host.ClientStateKey(), bz)
	return nil
}

// StoreConsensusState appends the consensus state at height to the client
// history. Heights must be stored in ascending order. When the history
// exceeds ConsensusHistoryLength the oldest consensus state is evicted along
// with its update metadata.
func (k *Keeper) StoreConsensusState(ctx sdk.Context, clientID string, height clienttypes.Height, consState anyclient.ConsensusState) error {
	bz, err := anyclient.PackConsensusState(consState)
	if err != nil {
		return err
	}

	history := k.clientHistory(clientID)
	if err := syncMaxLength(ctx, history.consensus, k.GetParams(ctx).ConsensusHistoryLength); err != nil {
		return err
	}

	evicted, err := history.consensus.PushBack(ctx, height, bz)
	if err != nil {
		if errorsmod.IsOf(err, ibcerrors.ErrOrderingViolation) {
			return errorsmod.Wrapf(clienttypes.ErrConsensusStateHeightNotMonotonic, "client %s: %v", clientID, err)
		}
		return err
	}
	if err := history.heights.Set(ctx, height); err != nil {
		return err
	}

	if evicted != nil {
		if err := history.forget(ctx, evicted.Key); err != nil {
			return err
		}
		k.Logger(ctx).Debug("consensus state evicted", "client-id", clientID, "height", evicted.Key)
	}
	return nil
}

// StoreUpdateMeta records the host time and height at which the consensus
// state at height was stored.
func (k *Keeper) StoreUpdateMeta(ctx sdk.Context, clientID string, height clienttypes.Height, hostTimestamp uint64, hostHeight clienttypes.Height) error {
	history := k.clientHistory(clientID)
	if _, err := history.processedTime.PushBack(ctx, height, hostTimestamp); err != nil {
		return err
	}
	_, err := history.processedHeight.PushBack(ctx, height, hostHeight)
	return err
}

// DeleteConsensusState removes the consensus state at height and its update
// metadata.
func (k *Keeper) DeleteConsensusState(ctx sdk.Context, clientID string, height clienttypes.Height) error {
	history := k.clientHistory(clientID)
	removed, err := history.consensus.RemoveByKey(ctx, height)
	if err != nil {
		return err
	}
	if !removed {
		return errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "client %s at height %s", clientID, height)
	}
	return history.forget(ctx, height)
}

// forget drops the update metadata of height and removes it from the height set.
func (h clientHistory) forget(ctx context.Context, height clienttypes.Height) error {
	if _, err := h.processedTime.RemoveByKey(ctx, height); err != nil {
		return err
	}
	if _, err := h.processedHeight.RemoveByKey(ctx, height); err != nil {
		return err
	}
	return h.heights.Remove(ctx, height)
}

// GenerateClientIdentifier returns the next client identifier and increments
// the client counter.
func (k *Keeper) GenerateClientIdentifier(ctx sdk.Context, clientType string) (string, error) {
	sequence, err := k.NextClientSequence.Next(ctx)
	if err != nil {
		return "", err
	}
	return clienttypes.FormatClientIdentifier(clientType, sequence), nil
}

// GenerateConnectionIdentifier returns the next connection identifier and
// increments the connection counter.
func (k *Keeper) GenerateConnectionIdentifier(ctx sdk.Context) (string, error) {
	sequence, err := k.NextConnectionSequence.Next(ctx)
	if err != nil {
		return "", err
	}
	return connectiontypes.FormatConnectionIdentifier(sequence), nil
}

// GenerateChannelIdentifier returns the next channel identifier and increments
// the channel counter.
func (k *Keeper) GenerateChannelIdentifier(ctx sdk.Context) (string, error) {
	sequence, err := k.NextChannelSequence.Next(ctx)
	if err != nil {
		return "", err
	}
	return channeltypes.FormatChannelIdentifier(sequence), nil
}

// StoreConnection stores the connection under connectionID.
func (k *Keeper) StoreConnection(ctx sdk.Context, connectionID string, connection connectiontypes.ConnectionEnd) {
	k.kvStore(ctx).Set(host.ConnectionKey(connectionID), connection.Marshal())
}

// StoreConnectionToClient adds connectionID to the connection paths of clientID.
func (k *Keeper) StoreConnectionToClient(ctx sdk.Context, clientID, connectionID string) error {
	paths, err := k.ClientConnections(ctx, clientID)
	if err != nil && !errorsmod.IsOf(err, connectiontypes.ErrClientConnectionPathsNotFound) {
		return err
	}

	paths = append(paths, connectionID)
	k.kvStore(ctx).Set(host.ClientConnectionsKey(clientID), connectiontypes.ClientPaths{Paths: paths}.Marshal())
	return nil
}

// StoreChannel stores the channel under portID and channelID.
func (k *Keeper) StoreChannel(ctx sdk.Context, portID, channelID string, channel channeltypes.Channel) {
	k.kvStore(ctx).Set(host.ChannelKey(portID, channelID), channel.Marshal())
}

// StoreNextSequenceSend sets the sequence of the next packet sent on the channel.
func (k *Keeper) StoreNextSequenceSend(ctx sdk.Context, portID, channelID string, sequence uint64) {
	k.kvStore(ctx).Set(host.NextSequenceSendKey(portID, channelID), sdk.Uint64ToBigEndian(sequence))
}

// StoreNextSequenceRecv sets the sequence of the next packet received on the channel.
func (k *Keeper) StoreNextSequenceRecv(ctx sdk.Context, portID, channelID string, sequence uint64) {
	k.kvStore(ctx).Set(host.NextSequenceRecvKey(portID, channelID), sdk.Uint64ToBigEndian(sequence))
}

// StoreNextSequenceAck sets the sequence of the next acknowledgement on the channel.
func (k *Keeper) StoreNextSequenceAck(ctx sdk.Context, portID, channelID string, sequence uint64) {
	k.kvStore(ctx).Set(host.NextSequenceAckKey(portID, channelID), sdk.Uint64ToBigEndian(sequence))
}

// StorePacketCommitment stores the commitment of the packet sent at sequence.
// Commitments are stored in send order.
func (k *Keeper) StorePacketCommitment(ctx sdk.Context, portID, channelID string, sequence uint64, commitment []byte) error {
	_, err := k.packetIndex(portID, channelID).commitments.PushBack(ctx, sequence, commitment)
	return err
}

// DeletePacketCommitment removes the commitment of the packet sent at sequence.
func (k *Keeper) DeletePacketCommitment(ctx sdk.Context, portID, channelID string, sequence uint64) error {
	removed, err := k.packetIndex(portID, channelID).commitments.RemoveByKey(ctx, sequence)
	if err != nil {
		return err
	}
	if !removed {
		return errorsmod.Wrapf(channeltypes.ErrPacketCommitmentNotFound, "port-id: %s, channel-id: %s, sequence: %d", portID, channelID, sequence)
	}
	return nil
}

// StorePacketReceipt marks the packet at sequence as received. The receipt is
// never deleted; pruning only drops it from the receipt index.
func (k *Keeper) StorePacketReceipt(ctx sdk.Context, portID, channelID string, sequence uint64) error {
	k.kvStore(ctx).Set(host.PacketReceiptKey(portID, channelID, sequence), []byte{byte(1)})
	return k.packetIndex(portID, channelID).receipts.Insert(ctx, sequence, uint64(ctx.BlockHeight()))
}

// StorePacketAcknowledgement stores the acknowledgement commitment of the
// packet received at sequence.
func (k *Keeper) StorePacketAcknowledgement(ctx sdk.Context, portID, channelID string, sequence uint64, ackCommitment []byte) error {
	k.kvStore(ctx).Set(host.PacketAcknowledgementKey(portID, channelID, sequence), ackCommitment)
	return k.packetIndex(portID, channelID).acks.Insert(ctx, sequence, uint64(ctx.BlockHeight()))
}

// DeletePacketAcknowledgement removes the acknowledgement of the packet received at sequence.
func (k *Keeper) DeletePacketAcknowledgement(ctx sdk.Context, portID, channelID string, sequence uint64) error {
	k.kvStore(ctx).Delete(host.PacketAcknowledgementKey(portID, channelID, sequence))
	removed, err := k.packetIndex(portID, channelID).acks.Remove(ctx, sequence)
	if err != nil {
		return err
	}
	if !removed {
		return errorsmod.Wrapf(channeltypes.ErrPacketAcknowledgementNotFound, "port-id: %s, channel-id: %s, sequence: %d", portID, channelID, sequence)
	}
	return nil
}

// EmitIBCEvent appends event to the history bucket of the current host
// height, logs its notification line and emits it on the event manager
// together with the message event carrying category.
func (k *Keeper) EmitIBCEvent(ctx sdk.Context, category string, event sdk.Event) error {
	history := k.eventHistory
	if err := syncMaxLength(ctx, history, k.GetParams(ctx).EventHistoryLength); err != nil {
		return err
	}

	height := uint64(ctx.BlockHeight())
	back, found, err := history.Back(ctx)
	if err != nil {
		return err
	}
	if found && back.Key == height {
		if err := history.SetValueByKey(ctx, height, append(back.Value, event)); err != nil {
			return err
		}
	} else if _, err := history.PushBack(ctx, height, types.EventList{event}); err != nil {
		return errorsmod.Wrapf(err, "event history at height %d", height)
	}

	k.Logger(ctx).Info(types.NewEventEnvelope(event).LogLine())

	ctx.EventManager().EmitEvents(sdk.Events{
		event,
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, category),
		),
	})
	return nil
}

// LogMessage writes msg to the module logger.
func (k *Keeper) LogMessage(ctx sdk.Context, msg string, keyVals ...any) {
	k.Logger(ctx).Info(msg, keyVals...)
}

// syncMaxLength applies a changed retention bound to q when the queue already
// fits in it. Shrinking a longer queue is left to the maintenance messages.
func syncMaxLength[K, V any](ctx context.Context, q *storage.Queue[K, V], maxLength uint64) error {
	meta, err := q.Meta(ctx)
	if err != nil {
		return err
	}
	if meta.MaxLength == maxLength {
		return nil
	}
	length, err := q.Len(ctx)
	if err != nil {
		return err
	}
	if maxLength != 0 && length > maxLength {
		return nil
	}
	if _, err := q.SetMaxLength(ctx, maxLength, storage.UnlimitedBudget); err != nil {
		return fmt.Errorf("failed to set queue bound: %w", err)
	}
	return nil
}
