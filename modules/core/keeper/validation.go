package keeper

import (
	"fmt"
	"math"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

// ClientState returns the client state stored under clientID.
func (k *Keeper) ClientState(ctx sdk.Context, clientID string) (anyclient.ClientState, error) {
	bz := k.ClientStore(ctx, clientID).Get(host.ClientStateKey())
	if len(bz) == 0 {
		return anyclient.ClientState{}, errorsmod.Wrap(clienttypes.ErrClientNotFound, clientID)
	}
	return anyclient.UnpackClientState(bz)
}

// ConsensusState returns the consensus state of clientID at height.
func (k *Keeper) ConsensusState(ctx sdk.Context, clientID string, height clienttypes.Height) (anyclient.ConsensusState, error) {
	bz, found, err := k.clientHistory(clientID).consensus.GetValueByKey(ctx, height)
	if err != nil {
		return anyclient.ConsensusState{}, err
	}
	if !found {
		return anyclient.ConsensusState{}, errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "client %s at height %s", clientID, height)
	}
	return anyclient.UnpackConsensusState(bz)
}

// PrevConsensusState returns the consensus state stored at the greatest height
// below height. The boolean is false when there is none.
func (k *Keeper) PrevConsensusState(ctx sdk.Context, clientID string, height clienttypes.Height) (anyclient.ConsensusState, bool, error) {
	entry, found, err := k.clientHistory(clientID).consensus.GetPreviousByKey(ctx, height)
	if err != nil || !found {
		return anyclient.ConsensusState{}, false, err
	}
	consState, err := anyclient.UnpackConsensusState(entry.Value)
	return consState, err == nil, err
}

// NextConsensusState returns the consensus state stored at the smallest height
// above height. The boolean is false when there is none.
func (k *Keeper) NextConsensusState(ctx sdk.Context, clientID string, height clienttypes.Height) (anyclient.ConsensusState, bool, error) {
	entry, found, err := k.clientHistory(clientID).consensus.GetNextByKey(ctx, height)
	if err != nil || !found {
		return anyclient.ConsensusState{}, false, err
	}
	consState, err := anyclient.UnpackConsensusState(entry.Value)
	return consState, err == nil, err
}

// ConsensusHeights returns every height a consensus state was ever stored at
// for clientID, in ascending order. Heights evicted from the history are
// removed from the set as well.
func (k *Keeper) ConsensusHeights(ctx sdk.Context, clientID string) ([]clienttypes.Height, error) {
	iter, err := k.clientHistory(clientID).heights.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Keys()
}

// ClientUpdateTime returns the host timestamp, in nanoseconds, of the update
// that stored the consensus state at height.
func (k *Keeper) ClientUpdateTime(ctx sdk.Context, clientID string, height clienttypes.Height) (uint64, error) {
	processedTime, found, err := k.clientHistory(clientID).processedTime.GetValueByKey(ctx, height)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errorsmod.Wrapf(clienttypes.ErrUpdateMetaNotFound, "processed time for client %s at height %s", clientID, height)
	}
	return processedTime, nil
}

// ClientUpdateHeight returns the host height of the update that stored the
// consensus state at height.
func (k *Keeper) ClientUpdateHeight(ctx sdk.Context, clientID string, height clienttypes.Height) (clienttypes.Height, error) {
	processedHeight, found, err := k.clientHistory(clientID).processedHeight.GetValueByKey(ctx, height)
	if err != nil {
		return clienttypes.Height{}, err
	}
	if !found {
		return clienttypes.Height{}, errorsmod.Wrapf(clienttypes.ErrUpdateMetaNotFound, "processed height for client %s at height %s", clientID, height)
	}
	return processedHeight, nil
}

// GetClientStatus returns the status of the client stored under clientID.
// Unknown is returned when the client does not exist.
func (k *Keeper) GetClientStatus(ctx sdk.Context, clientID string) exported.Status {
	clientState, err := k.ClientState(ctx, clientID)
	if err != nil {
		return exported.Unknown
	}
	return clientState.Status(k.clientContext(ctx), clientID)
}

// ConnectionEnd returns the connection stored under connectionID.
func (k *Keeper) ConnectionEnd(ctx sdk.Context, connectionID string) (connectiontypes.ConnectionEnd, error) {
	bz := k.kvStore(ctx).Get(host.ConnectionKey(connectionID))
	if len(bz) == 0 {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrap(connectiontypes.ErrConnectionNotFound, connectionID)
	}

	var connection connectiontypes.ConnectionEnd
	if err := connection.Unmarshal(bz); err != nil {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "connection %s: %v", connectionID, err)
	}
	return connection, nil
}

// ClientConnections returns the connection paths opened on clientID.
func (k *Keeper) ClientConnections(ctx sdk.Context, clientID string) ([]string, error) {
	bz := k.kvStore(ctx).Get(host.ClientConnectionsKey(clientID))
	if len(bz) == 0 {
		return nil, errorsmod.Wrap(connectiontypes.ErrClientConnectionPathsNotFound, clientID)
	}

	var clientPaths connectiontypes.ClientPaths
	if err := clientPaths.Unmarshal(bz); err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrDecode, "connection paths of client %s: %v", clientID, err)
	}
	return clientPaths.Paths, nil
}

// ChannelEnd returns the channel stored under portID and channelID.
func (k *Keeper) ChannelEnd(ctx sdk.Context, portID, channelID string) (channeltypes.Channel, error) {
	bz := k.kvStore(ctx).Get(host.ChannelKey(portID, channelID))
	if len(bz) == 0 {
		return channeltypes.Channel{}, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port-id: %s, channel-id: %s", portID, channelID)
	}

	var channel channeltypes.Channel
	if err := channel.Unmarshal(bz); err != nil {
		return channeltypes.Channel{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "channel %s/%s: %v", portID, channelID, err)
	}
	return channel, nil
}

// GetNextSequenceSend returns the sequence the next packet sent on the channel gets.
func (k *Keeper) GetNextSequenceSend(ctx sdk.Context, portID, channelID string) (uint64, error) {
	return k.sequence(ctx, host.NextSequenceSendKey(portID, channelID), channeltypes.ErrSequenceSendNotFound, portID, channelID)
}

// GetNextSequenceRecv returns the sequence the next packet received on the channel must carry.
func (k *Keeper) GetNextSequenceRecv(ctx sdk.Context, portID, channelID string) (uint64, error) {
	return k.sequence(ctx, host.NextSequenceRecvKey(portID, channelID), channeltypes.ErrSequenceReceiveNotFound, portID, channelID)
}

// GetNextSequenceAck returns the sequence of the next acknowledgement expected on the channel.
func (k *Keeper) GetNextSequenceAck(ctx sdk.Context, portID, channelID string) (uint64, error) {
	return k.sequence(ctx, host.NextSequenceAckKey(portID, channelID), channeltypes.ErrSequenceAckNotFound, portID, channelID)
}

func (k *Keeper) sequence(ctx sdk.Context, key []byte, notFound error, portID, channelID string) (uint64, error) {
	bz := k.kvStore(ctx).Get(key)
	if len(bz) == 0 {
		return 0, errorsmod.Wrapf(notFound, "port-id: %s, channel-id: %s", portID, channelID)
	}
	return sdk.BigEndianToUint64(bz), nil
}

// GetPacketCommitment returns the commitment of the packet sent on the channel at sequence.
func (k *Keeper) GetPacketCommitment(ctx sdk.Context, portID, channelID string, sequence uint64) ([]byte, error) {
	bz := k.kvStore(ctx).Get(host.PacketCommitmentKey(portID, channelID, sequence))
	if len(bz) == 0 {
		return nil, errorsmod.Wrapf(channeltypes.ErrPacketCommitmentNotFound, "port-id: %s, channel-id: %s, sequence: %d", portID, channelID, sequence)
	}
	return bz, nil
}

// GetPacketReceipt returns the receipt of the packet received on the channel at sequence.
func (k *Keeper) GetPacketReceipt(ctx sdk.Context, portID, channelID string, sequence uint64) ([]byte, error) {
	bz := k.kvStore(ctx).Get(host.PacketReceiptKey(portID, channelID, sequence))
	if len(bz) == 0 {
		return nil, errorsmod.Wrapf(channeltypes.ErrPacketReceiptNotFound, "port-id: %s, channel-id: %s, sequence: %d", portID, channelID, sequence)
	}
	return bz, nil
}

// GetPacketAcknowledgement returns the acknowledgement commitment written for
// the packet received on the channel at sequence.
func (k *Keeper) GetPacketAcknowledgement(ctx sdk.Context, portID, channelID string, sequence uint64) ([]byte, error) {
	bz := k.kvStore(ctx).Get(host.PacketAcknowledgementKey(portID, channelID, sequence))
	if len(bz) == 0 {
		return nil, errorsmod.Wrapf(channeltypes.ErrPacketAcknowledgementNotFound, "port-id: %s, channel-id: %s, sequence: %d", portID, channelID, sequence)
	}
	return bz, nil
}

// ClientCounter returns the number of clients created so far.
func (k *Keeper) ClientCounter(ctx sdk.Context) uint64 {
	return counter(ctx, k.NextClientSequence)
}

// ConnectionCounter returns the number of connections opened so far.
func (k *Keeper) ConnectionCounter(ctx sdk.Context) uint64 {
	return counter(ctx, k.NextConnectionSequence)
}

// ChannelCounter returns the number of channels opened so far.
func (k *Keeper) ChannelCounter(ctx sdk.Context) uint64 {
	return counter(ctx, k.NextChannelSequence)
}

func counter(ctx sdk.Context, seq collections.Sequence) uint64 {
	n, err := seq.Peek(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to decode identifier counter: %w", err))
	}
	return n
}

// HostHeight returns the height of the host chain.
func (*Keeper) HostHeight(ctx sdk.Context) clienttypes.Height {
	return clienttypes.GetSelfHeight(ctx)
}

// HostTimestamp returns the block time of the host chain.
func (*Keeper) HostTimestamp(ctx sdk.Context) time.Time {
	return ctx.BlockTime()
}

// CommitmentPrefix returns the prefix counterparties prove IBC state under.
func (*Keeper) CommitmentPrefix() commitmenttypes.MerklePrefix {
	return commitmenttypes.NewMerklePrefix([]byte(exported.StoreKey))
}

// MaxExpectedTimePerBlock returns the expected block time, in nanoseconds,
// used to derive block delays from time delays.
func (k *Keeper) MaxExpectedTimePerBlock(ctx sdk.Context) uint64 {
	return k.GetParams(ctx).MaxExpectedTimePerBlock
}

// BlockDelay calculates the block delay period from a time delay and the
// maximum expected time per block. The result is rounded up.
func (k *Keeper) BlockDelay(ctx sdk.Context, timeDelay uint64) uint64 {
	// expectedTimePerBlock should never be zero, however if it is then return a 0 block delay for safety
	// as the expectedTimePerBlock parameter was not set.
	expectedTimePerBlock := k.MaxExpectedTimePerBlock(ctx)
	if expectedTimePerBlock == 0 {
		return 0
	}
	return uint64(math.Ceil(float64(timeDelay) / float64(expectedTimePerBlock)))
}

var _ ibctm.ClientValidationContext = clientContext{}

// clientContext exposes the keeper to light clients for the duration of ctx.
type clientContext struct {
	k   *Keeper
	ctx sdk.Context
}

func (k *Keeper) clientContext(ctx sdk.Context) clientContext {
	return clientContext{k: k, ctx: ctx}
}

func (c clientContext) HostHeight() clienttypes.Height { return c.k.HostHeight(c.ctx) }

func (c clientContext) HostTimestamp() time.Time { return c.k.HostTimestamp(c.ctx) }

func (c clientContext) ConsensusState(clientID string, height clienttypes.Height) (*ibctm.ConsensusState, error) {
	consState, err := c.k.ConsensusState(c.ctx, clientID, height)
	if err != nil {
		return nil, err
	}
	return consState.AsTendermint()
}

func (c clientContext) PrevConsensusState(clientID string, height clienttypes.Height) (*ibctm.ConsensusState, bool, error) {
	return tendermintNeighbour(c.k.PrevConsensusState(c.ctx, clientID, height))
}

func (c clientContext) NextConsensusState(clientID string, height clienttypes.Height) (*ibctm.ConsensusState, bool, error) {
	return tendermintNeighbour(c.k.NextConsensusState(c.ctx, clientID, height))
}

func (c clientContext) ClientUpdateTime(clientID string, height clienttypes.Height) (uint64, error) {
	return c.k.ClientUpdateTime(c.ctx, clientID, height)
}

func (c clientContext) ClientUpdateHeight(clientID string, height clienttypes.Height) (clienttypes.Height, error) {
	return c.k.ClientUpdateHeight(c.ctx, clientID, height)
}

func tendermintNeighbour(consState anyclient.ConsensusState, found bool, err error) (*ibctm.ConsensusState, bool, error) {
	if err != nil || !found {
		return nil, false, err
	}
	tm, err := consState.AsTendermint()
	if err != nil {
		return nil, false, err
	}
	return tm, true, nil
}
