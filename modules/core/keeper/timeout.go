package keeper

import (
	"bytes"
	"errors"
	"strconv"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	"github.com/ibcstore/ibc-store/modules/core/04-channel/types"
)

// TimeoutPacket is called by a module which originally attempted to send a
// packet to a counterparty module, where the timeout height has passed on the
// counterparty chain without the packet being committed, to prove that the
// packet can no longer be executed and to allow the calling module to safely
// perform appropriate state transitions. Once verified, the packet commitment
// is deleted and an ORDERED channel is closed. The version of the sending
// channel is returned for the application callback.
func (k *Keeper) TimeoutPacket(
	ctx sdk.Context,
	packet types.Packet,
	proof []byte,
	proofHeight clienttypes.Height,
	nextSequenceRecv uint64,
) (string, error) {
	channel, err := k.ChannelEnd(ctx, packet.GetSourcePort(), packet.GetSourceChannel())
	if err != nil {
		return "", err
	}

	if packet.GetDestPort() != channel.Counterparty.PortId {
		return "", errorsmod.Wrapf(
			types.ErrInvalidPacket,
			"packet destination port doesn't match the counterparty's port (%s ≠ %s)", packet.GetDestPort(), channel.Counterparty.PortId,
		)
	}

	if packet.GetDestChannel() != channel.Counterparty.ChannelId {
		return "", errorsmod.Wrapf(
			types.ErrInvalidPacket,
			"packet destination channel doesn't match the counterparty's channel (%s ≠ %s)", packet.GetDestChannel(), channel.Counterparty.ChannelId,
		)
	}

	connectionEnd, err := k.ConnectionEnd(ctx, channel.ConnectionHops[0])
	if err != nil {
		return "", err
	}

	// check that timeout height or timeout timestamp has passed on the other end
	proofConsensus, err := k.ConsensusState(ctx, connectionEnd.ClientId, proofHeight)
	if err != nil {
		return "", err
	}
	proofTimestamp := proofConsensus.GetTimestamp()

	timeout := types.TimeoutFromPacket(packet)
	if !timeout.Elapsed(proofHeight, proofTimestamp) {
		return "", errorsmod.Wrap(timeout.ErrTimeoutNotReached(proofHeight, proofTimestamp), "packet timeout not reached")
	}

	commitment, err := k.GetPacketCommitment(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())
	if errors.Is(err, types.ErrPacketCommitmentNotFound) {
		if err := k.emitPacketEvent(ctx, types.EventTypeTimeoutPacket, packet, channel, nil); err != nil {
			return "", err
		}

		// This error indicates that the timeout has already been relayed
		// or there is a misconfigured relayer attempting to prove a timeout
		// for a packet never sent. Core IBC will treat this error as a no-op in order to
		// prevent an entire relay transaction from failing and consuming unnecessary fees.
		return "", types.ErrNoOpMsg
	} else if err != nil {
		return "", err
	}

	packetCommitment := types.CommitPacket(packet)

	// verify we sent the packet and haven't cleared it out yet
	if !bytes.Equal(commitment, packetCommitment) {
		return "", errorsmod.Wrapf(types.ErrInvalidPacket, "packet commitment bytes are not equal: got (%v), expected (%v)", commitment, packetCommitment)
	}

	switch channel.Ordering {
	case types.ORDERED:
		// check that packet has not been received
		if nextSequenceRecv > packet.GetSequence() {
			return "", errorsmod.Wrapf(
				types.ErrPacketReceived,
				"packet already received, next sequence receive > packet sequence (%d > %d)", nextSequenceRecv, packet.GetSequence(),
			)
		}

		// check that the recv sequence is as claimed
		err = k.VerifyNextSequenceRecv(
			ctx, connectionEnd, proofHeight, proof,
			packet.GetDestPort(), packet.GetDestChannel(), nextSequenceRecv,
		)
	case types.UNORDERED:
		err = k.VerifyPacketReceiptAbsence(
			ctx, connectionEnd, proofHeight, proof,
			packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence(),
		)
	default:
		err = errorsmod.Wrap(types.ErrInvalidChannelOrdering, channel.Ordering.String())
	}

	if err != nil {
		return "", err
	}

	return channel.Version, k.timeoutExecuted(ctx, packet, channel)
}

// timeoutExecuted deletes the commitment send from this chain after the timeout
// has been verified. If the timed-out packet came from an ORDERED channel then
// this channel will be closed.
func (k *Keeper) timeoutExecuted(ctx sdk.Context, packet types.Packet, channel types.Channel) error {
	if err := k.DeletePacketCommitment(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence()); err != nil {
		return err
	}

	if channel.Ordering == types.ORDERED {
		channel.State = types.CLOSED
		k.StoreChannel(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), channel)
		if err := k.emitChannelEvent(ctx, types.EventTypeChannelClosed, packet.GetSourcePort(), packet.GetSourceChannel(), channel); err != nil {
			return err
		}
	}

	k.Logger(ctx).Info(
		"packet timed-out",
		"sequence", strconv.FormatUint(packet.GetSequence(), 10),
		"src_port", packet.GetSourcePort(),
		"src_channel", packet.GetSourceChannel(),
		"dst_port", packet.GetDestPort(),
		"dst_channel", packet.GetDestChannel(),
	)

	// emit an event marking that we have processed the timeout
	return k.emitPacketEvent(ctx, types.EventTypeTimeoutPacket, packet, channel, nil)
}
