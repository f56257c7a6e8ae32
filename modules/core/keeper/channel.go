package keeper

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	"github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	coremetrics "github.com/ibcstore/ibc-store/modules/core/metrics"
)

// ChanOpenInit is called by a module to initiate a channel opening handshake with
// a module on another chain. The counterparty channel identifier is validated to be
// empty in msg validation. The generated channel identifier and the application
// version are returned.
func (k *Keeper) ChanOpenInit(
	ctx sdk.Context,
	order types.Order,
	connectionHops []string,
	portID string,
	counterparty types.Counterparty,
	version string,
) (string, string, error) {
	// connection hop length checked on msg.ValidateBasic()
	connectionEnd, err := k.openConnection(ctx, connectionHops[0])
	if err != nil {
		return "", "", err
	}

	getVersions := connectionEnd.Versions
	if len(getVersions) != 1 {
		return "", "", errorsmod.Wrapf(
			connectiontypes.ErrInvalidVersion,
			"single version must be negotiated on connection before opening channel, got: %v",
			getVersions,
		)
	}

	if !connectiontypes.VerifySupportedFeature(getVersions[0], order.String()) {
		return "", "", errorsmod.Wrapf(
			connectiontypes.ErrInvalidVersion,
			"connection version %s does not support channel ordering: %s",
			getVersions[0], order.String(),
		)
	}

	if status := k.GetClientStatus(ctx, connectionEnd.ClientId); status != exported.Active {
		return "", "", errorsmod.Wrapf(clienttypes.ErrClientNotActive, "client (%s) status is %s", connectionEnd.ClientId, status)
	}

	cbs, err := k.route(portID)
	if err != nil {
		return "", "", err
	}

	channelID, err := k.GenerateChannelIdentifier(ctx)
	if err != nil {
		return "", "", err
	}

	appVersion, err := cbs.OnChanOpenInit(ctx, order, connectionHops, portID, channelID, counterparty, version)
	if err != nil {
		return "", "", errorsmod.Wrapf(err, "channel open init callback failed for port ID: %s, channel ID: %s", portID, channelID)
	}

	channel := types.NewChannel(types.INIT, order, counterparty, connectionHops, appVersion)
	k.writeOpenChannel(ctx, portID, channelID, channel)

	k.Logger(ctx).Info("channel state updated", "port-id", portID, "channel-id", channelID, "previous-state", types.UNINITIALIZED, "new-state", types.INIT)

	defer telemetry.IncrCounterWithLabels([]string{"ibc", "channel", "open-init"}, 1, coremetrics.ChannelLabels(portID, channelID, channel.Ordering))

	if err := k.emitChannelEvent(ctx, types.EventTypeChannelOpenInit, portID, channelID, channel); err != nil {
		return "", "", err
	}

	return channelID, appVersion, nil
}

// ChanOpenTry is called by a module to accept the first step of a channel opening
// handshake initiated by a module on another chain. The generated channel
// identifier and the application version are returned.
func (k *Keeper) ChanOpenTry(
	ctx sdk.Context,
	order types.Order,
	connectionHops []string,
	portID string,
	counterparty types.Counterparty,
	counterpartyVersion string,
	initProof []byte,
	proofHeight clienttypes.Height,
) (string, string, error) {
	connectionEnd, err := k.openConnection(ctx, connectionHops[0])
	if err != nil {
		return "", "", err
	}

	getVersions := connectionEnd.Versions
	if len(getVersions) != 1 {
		return "", "", errorsmod.Wrapf(
			connectiontypes.ErrInvalidVersion,
			"single version must be negotiated on connection before opening channel, got: %v",
			getVersions,
		)
	}

	if !connectiontypes.VerifySupportedFeature(getVersions[0], order.String()) {
		return "", "", errorsmod.Wrapf(
			connectiontypes.ErrInvalidVersion,
			"connection version %s does not support channel ordering: %s",
			getVersions[0], order.String(),
		)
	}

	counterpartyHops := []string{connectionEnd.Counterparty.ConnectionId}

	// expectedCounterpaty is the counterparty of the counterparty's channel end
	// (i.e self)
	expectedCounterparty := types.NewCounterparty(portID, "")
	expectedChannel := types.NewChannel(
		types.INIT, order, expectedCounterparty,
		counterpartyHops, counterpartyVersion,
	)

	if err := k.VerifyChannelState(
		ctx, connectionEnd, proofHeight, initProof,
		counterparty.PortId, counterparty.ChannelId, expectedChannel,
	); err != nil {
		return "", "", err
	}

	cbs, err := k.route(portID)
	if err != nil {
		return "", "", err
	}

	channelID, err := k.GenerateChannelIdentifier(ctx)
	if err != nil {
		return "", "", err
	}

	appVersion, err := cbs.OnChanOpenTry(ctx, order, connectionHops, portID, channelID, counterparty, counterpartyVersion)
	if err != nil {
		return "", "", errorsmod.Wrapf(err, "channel open try callback failed for port ID: %s, channel ID: %s", portID, channelID)
	}

	channel := types.NewChannel(types.TRYOPEN, order, counterparty, connectionHops, appVersion)
	k.writeOpenChannel(ctx, portID, channelID, channel)

	k.Logger(ctx).Info("channel state updated", "port-id", portID, "channel-id", channelID, "previous-state", types.UNINITIALIZED, "new-state", types.TRYOPEN)

	defer telemetry.IncrCounterWithLabels([]string{"ibc", "channel", "open-try"}, 1, coremetrics.ChannelLabels(portID, channelID, channel.Ordering))

	if err := k.emitChannelEvent(ctx, types.EventTypeChannelOpenTry, portID, channelID, channel); err != nil {
		return "", "", err
	}

	return channelID, appVersion, nil
}

// writeOpenChannel stores a new channel end along with its sequence counters.
func (k *Keeper) writeOpenChannel(ctx sdk.Context, portID, channelID string, channel types.Channel) {
	k.StoreChannel(ctx, portID, channelID, channel)
	k.StoreNextSequenceSend(ctx, portID, channelID, 1)
	k.StoreNextSequenceRecv(ctx, portID, channelID, 1)
	k.StoreNextSequenceAck(ctx, portID, channelID, 1)
}

// ChanOpenAck is called by the handshake-originating module to acknowledge the
// acceptance of the initial request by the counterparty module on the other chain.
func (k *Keeper) ChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	counterpartyVersion,
	counterpartyChannelID string,
	tryProof []byte,
	proofHeight clienttypes.Height,
) error {
	channel, err := k.ChannelEnd(ctx, portID, channelID)
	if err != nil {
		return err
	}

	if channel.State != types.INIT {
		return errorsmod.Wrapf(types.ErrInvalidChannelState, "channel state should be INIT (got %s)", channel.State)
	}

	connectionEnd, err := k.openConnection(ctx, channel.ConnectionHops[0])
	if err != nil {
		return err
	}

	counterpartyHops := []string{connectionEnd.Counterparty.ConnectionId}

	// counterparty of the counterparty channel end (i.e self)
	expectedCounterparty := types.NewCounterparty(portID, channelID)
	expectedChannel := types.NewChannel(
		types.TRYOPEN, channel.Ordering, expectedCounterparty,
		counterpartyHops, counterpartyVersion,
	)

	if err := k.VerifyChannelState(
		ctx, connectionEnd, proofHeight, tryProof,
		channel.Counterparty.PortId, counterpartyChannelID,
		expectedChannel,
	); err != nil {
		return err
	}

	cbs, err := k.route(portID)
	if err != nil {
		return err
	}

	if err := cbs.OnChanOpenAck(ctx, portID, channelID, counterpartyChannelID, counterpartyVersion); err != nil {
		return errorsmod.Wrapf(err, "channel open ack callback failed for port ID: %s, channel ID: %s", portID, channelID)
	}

	channel.State = types.OPEN
	channel.Version = counterpartyVersion
	channel.Counterparty.ChannelId = counterpartyChannelID
	k.StoreChannel(ctx, portID, channelID, channel)

	k.Logger(ctx).Info("channel state updated", "port-id", portID, "channel-id", channelID, "previous-state", types.INIT, "new-state", types.OPEN)

	defer telemetry.IncrCounterWithLabels([]string{"ibc", "channel", "open-ack"}, 1, coremetrics.ChannelLabels(portID, channelID, channel.Ordering))

	return k.emitChannelEvent(ctx, types.EventTypeChannelOpenAck, portID, channelID, channel)
}

// ChanOpenConfirm is called by the handshake-accepting module to confirm the acknowledgement
// of the handshake-originating module on the other chain and finish the channel opening
// handshake.
func (k *Keeper) ChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
	ackProof []byte,
	proofHeight clienttypes.Height,
) error {
	channel, err := k.ChannelEnd(ctx, portID, channelID)
	if err != nil {
		return err
	}

	if channel.State != types.TRYOPEN {
		return errorsmod.Wrapf(
			types.ErrInvalidChannelState,
			"channel state is not TRYOPEN (got %s)", channel.State,
		)
	}

	connectionEnd, err := k.openConnection(ctx, channel.ConnectionHops[0])
	if err != nil {
		return err
	}

	counterpartyHops := []string{connectionEnd.Counterparty.ConnectionId}

	counterparty := types.NewCounterparty(portID, channelID)
	expectedChannel := types.NewChannel(
		types.OPEN, channel.Ordering, counterparty,
		counterpartyHops, channel.Version,
	)

	if err := k.VerifyChannelState(
		ctx, connectionEnd, proofHeight, ackProof,
		channel.Counterparty.PortId, channel.Counterparty.ChannelId,
		expectedChannel,
	); err != nil {
		return err
	}

	cbs, err := k.route(portID)
	if err != nil {
		return err
	}

	if err := cbs.OnChanOpenConfirm(ctx, portID, channelID); err != nil {
		return errorsmod.Wrapf(err, "channel open confirm callback failed for port ID: %s, channel ID: %s", portID, channelID)
	}

	channel.State = types.OPEN
	k.StoreChannel(ctx, portID, channelID, channel)
	k.Logger(ctx).Info("channel state updated", "port-id", portID, "channel-id", channelID, "previous-state", types.TRYOPEN, "new-state", types.OPEN)

	defer telemetry.IncrCounterWithLabels([]string{"ibc", "channel", "open-confirm"}, 1, coremetrics.ChannelLabels(portID, channelID, channel.Ordering))

	return k.emitChannelEvent(ctx, types.EventTypeChannelOpenConfirm, portID, channelID, channel)
}

// ChanCloseInit is called by either module to close their end of the channel. Once
// closed, channels cannot be reopened.
func (k *Keeper) ChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	channel, err := k.ChannelEnd(ctx, portID, channelID)
	if err != nil {
		return err
	}

	if channel.State == types.CLOSED {
		return errorsmod.Wrap(types.ErrInvalidChannelState, "channel is already CLOSED")
	}

	connectionEnd, err := k.openConnection(ctx, channel.ConnectionHops[0])
	if err != nil {
		return err
	}

	if status := k.GetClientStatus(ctx, connectionEnd.ClientId); status != exported.Active {
		return errorsmod.Wrapf(clienttypes.ErrClientNotActive, "client (%s) status is %s", connectionEnd.ClientId, status)
	}

	cbs, err := k.route(portID)
	if err != nil {
		return err
	}

	if err := cbs.OnChanCloseInit(ctx, portID, channelID); err != nil {
		return errorsmod.Wrapf(err, "channel close init callback failed for port ID: %s, channel ID: %s", portID, channelID)
	}

	k.Logger(ctx).Info("channel state updated", "port-id", portID, "channel-id", channelID, "previous-state", channel.State, "new-state", types.CLOSED)

	defer telemetry.IncrCounterWithLabels([]string{"ibc", "channel", "close-init"}, 1, coremetrics.ChannelLabels(portID, channelID, channel.Ordering))

	channel.State = types.CLOSED
	k.StoreChannel(ctx, portID, channelID, channel)

	return k.emitChannelEvent(ctx, types.EventTypeChannelCloseInit, portID, channelID, channel)
}

// ChanCloseConfirm is called by the counterparty module to close their end of the
// channel, since the other end has been closed.
func (k *Keeper) ChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
	initProof []byte,
	proofHeight clienttypes.Height,
) error {
	channel, err := k.ChannelEnd(ctx, portID, channelID)
	if err != nil {
		return err
	}

	if channel.State == types.CLOSED {
		return errorsmod.Wrap(types.ErrInvalidChannelState, "channel is already CLOSED")
	}

	connectionEnd, err := k.openConnection(ctx, channel.ConnectionHops[0])
	if err != nil {
		return err
	}

	counterpartyHops := []string{connectionEnd.Counterparty.ConnectionId}

	counterparty := types.NewCounterparty(portID, channelID)
	expectedChannel := types.NewChannel(
		types.CLOSED, channel.Ordering, counterparty,
		counterpartyHops, channel.Version,
	)

	if err := k.VerifyChannelState(
		ctx, connectionEnd, proofHeight, initProof,
		channel.Counterparty.PortId, channel.Counterparty.ChannelId,
		expectedChannel,
	); err != nil {
		return err
	}

	cbs, err := k.route(portID)
	if err != nil {
		return err
	}

	if err := cbs.OnChanCloseConfirm(ctx, portID, channelID); err != nil {
		return errorsmod.Wrapf(err, "channel close confirm callback failed for port ID: %s, channel ID: %s", portID, channelID)
	}

	k.Logger(ctx).Info("channel state updated", "port-id", portID, "channel-id", channelID, "previous-state", channel.State, "new-state", types.CLOSED)

	defer telemetry.IncrCounterWithLabels([]string{"ibc", "channel", "close-confirm"}, 1, coremetrics.ChannelLabels(portID, channelID, channel.Ordering))

	channel.State = types.CLOSED
	k.StoreChannel(ctx, portID, channelID, channel)

	return k.emitChannelEvent(ctx, types.EventTypeChannelCloseConfirm, portID, channelID, channel)
}

// GetAppVersion returns the version of the application bound to the channel.
func (k *Keeper) GetAppVersion(ctx sdk.Context, portID, channelID string) (string, bool) {
	channel, err := k.ChannelEnd(ctx, portID, channelID)
	if err != nil {
		return "", false
	}
	return channel.Version, true
}

// openConnection returns the connection end for connectionID, requiring it to be OPEN.
func (k *Keeper) openConnection(ctx sdk.Context, connectionID string) (connectiontypes.ConnectionEnd, error) {
	connectionEnd, err := k.ConnectionEnd(ctx, connectionID)
	if err != nil {
		return connectiontypes.ConnectionEnd{}, err
	}

	if connectionEnd.State != connectiontypes.OPEN {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrapf(
			connectiontypes.ErrInvalidConnectionState,
			"connection state is not OPEN (got %s)", connectionEnd.State,
		)
	}
	return connectionEnd, nil
}
