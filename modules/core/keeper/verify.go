package keeper

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// VerifyConnectionState verifies a proof of the connection state of the
// specified connection end stored on the target machine.
func (k *Keeper) VerifyConnectionState(
	ctx sdk.Context,
	connection connectiontypes.ConnectionEnd,
	height clienttypes.Height,
	proof []byte,
	connectionID string,
	counterpartyConnection connectiontypes.ConnectionEnd, // opposite connection
) error {
	return k.verifyMembership(
		ctx, connection, height,
		0, 0, // skip delay period checks for non-packet processing verification
		proof, host.ConnectionPath(connectionID), counterpartyConnection.Marshal(),
		clienttypes.ErrFailedConnectionStateVerification,
	)
}

// VerifyChannelState verifies a proof of the channel state of the specified
// channel end, under the specified port, stored on the target machine.
func (k *Keeper) VerifyChannelState(
	ctx sdk.Context,
	connection connectiontypes.ConnectionEnd,
	height clienttypes.Height,
	proof []byte,
	portID,
	channelID string,
	channel channeltypes.Channel,
) error {
	return k.verifyMembership(
		ctx, connection, height,
		0, 0,
		proof, host.ChannelPath(portID, channelID), channel.Marshal(),
		clienttypes.ErrFailedChannelStateVerification,
	)
}

// VerifyPacketCommitment verifies a proof of an outgoing packet commitment at
// the specified port, specified channel, and specified sequence.
func (k *Keeper) VerifyPacketCommitment(
	ctx sdk.Context,
	connection connectiontypes.ConnectionEnd,
	height clienttypes.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
	commitmentBytes []byte,
) error {
	return k.verifyMembership(
		ctx, connection, height,
		connection.DelayPeriod, k.BlockDelay(ctx, connection.DelayPeriod),
		proof, host.PacketCommitmentPath(portID, channelID, sequence), commitmentBytes,
		clienttypes.ErrFailedPacketCommitmentVerification,
	)
}

// VerifyPacketAcknowledgement verifies a proof of an incoming packet
// acknowledgement at the specified port, specified channel, and specified sequence.
func (k *Keeper) VerifyPacketAcknowledgement(
	ctx sdk.Context,
	connection connectiontypes.ConnectionEnd,
	height clienttypes.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
	acknowledgement []byte,
) error {
	return k.verifyMembership(
		ctx, connection, height,
		connection.DelayPeriod, k.BlockDelay(ctx, connection.DelayPeriod),
		proof, host.PacketAcknowledgementPath(portID, channelID, sequence), channeltypes.CommitAcknowledgement(acknowledgement),
		clienttypes.ErrFailedPacketAckVerification,
	)
}

// VerifyPacketReceiptAbsence verifies a proof of the absence of an
// incoming packet receipt at the specified port, specified channel, and
// specified sequence.
func (k *Keeper) VerifyPacketReceiptAbsence(
	ctx sdk.Context,
	connection connectiontypes.ConnectionEnd,
	height clienttypes.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
) error {
	clientState, merklePath, err := k.verificationTarget(ctx, connection, host.PacketReceiptPath(portID, channelID, sequence))
	if err != nil {
		return err
	}

	if err := clientState.VerifyNonMembership(
		k.clientContext(ctx), connection.ClientId, height,
		connection.DelayPeriod, k.BlockDelay(ctx, connection.DelayPeriod),
		proof, merklePath,
	); err != nil {
		return errorsmod.Wrapf(clienttypes.ErrFailedPacketReceiptVerification, "client (%s): %v", connection.ClientId, err)
	}

	return nil
}

// VerifyNextSequenceRecv verifies a proof of the next sequence number to be
// received of the specified channel at the specified port.
func (k *Keeper) VerifyNextSequenceRecv(
	ctx sdk.Context,
	connection connectiontypes.ConnectionEnd,
	height clienttypes.Height,
	proof []byte,
	portID,
	channelID string,
	nextSequenceRecv uint64,
) error {
	return k.verifyMembership(
		ctx, connection, height,
		connection.DelayPeriod, k.BlockDelay(ctx, connection.DelayPeriod),
		proof, string(host.NextSequenceRecvKey(portID, channelID)), sdk.Uint64ToBigEndian(nextSequenceRecv),
		clienttypes.ErrFailedNextSeqRecvVerification,
	)
}

func (k *Keeper) verifyMembership(
	ctx sdk.Context,
	connection connectiontypes.ConnectionEnd,
	height clienttypes.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof []byte,
	path string,
	value []byte,
	failure error,
) error {
	clientState, merklePath, err := k.verificationTarget(ctx, connection, path)
	if err != nil {
		return err
	}

	if err := clientState.VerifyMembership(
		k.clientContext(ctx), connection.ClientId, height,
		delayTimePeriod, delayBlockPeriod,
		proof, merklePath, value,
	); err != nil {
		return errorsmod.Wrapf(failure, "client (%s): %v", connection.ClientId, err)
	}

	return nil
}

// verificationTarget returns the active client of connection and path
// prefixed with the counterparty commitment prefix.
func (k *Keeper) verificationTarget(
	ctx sdk.Context, connection connectiontypes.ConnectionEnd, path string,
) (anyclient.ClientState, commitmenttypes.MerklePath, error) {
	clientID := connection.ClientId
	clientState, err := k.ClientState(ctx, clientID)
	if err != nil {
		return anyclient.ClientState{}, commitmenttypes.MerklePath{}, err
	}

	if status := clientState.Status(k.clientContext(ctx), clientID); status != exported.Active {
		return anyclient.ClientState{}, commitmenttypes.MerklePath{}, errorsmod.Wrapf(clienttypes.ErrClientNotActive, "client (%s) status is %s", clientID, status)
	}

	merklePath, err := commitmenttypes.ApplyPrefix(connection.Counterparty.Prefix, commitmenttypes.NewMerklePath([]byte(path)))
	if err != nil {
		return anyclient.ClientState{}, commitmenttypes.MerklePath{}, err
	}

	return clientState, merklePath, nil
}
