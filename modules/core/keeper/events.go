package keeper

import (
	"encoding/hex"
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
)

// emitCreateClientEvent emits a create client event
func (k *Keeper) emitCreateClientEvent(ctx sdk.Context, clientID, clientType string, height clienttypes.Height) error {
	return k.EmitIBCEvent(ctx, clienttypes.AttributeValueCategory, sdk.NewEvent(
		clienttypes.EventTypeCreateClient,
		sdk.NewAttribute(clienttypes.AttributeKeyClientID, clientID),
		sdk.NewAttribute(clienttypes.AttributeKeyClientType, clientType),
		sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeight, height.String()),
	))
}

// emitUpdateClientEvent emits an update client event
func (k *Keeper) emitUpdateClientEvent(ctx sdk.Context, clientID, clientType string, height clienttypes.Height, header []byte) error {
	return k.EmitIBCEvent(ctx, clienttypes.AttributeValueCategory, sdk.NewEvent(
		clienttypes.EventTypeUpdateClient,
		sdk.NewAttribute(clienttypes.AttributeKeyClientID, clientID),
		sdk.NewAttribute(clienttypes.AttributeKeyClientType, clientType),
		sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeight, height.String()),
		sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeights, height.String()),
		sdk.NewAttribute(clienttypes.AttributeKeyHeader, hex.EncodeToString(header)),
	))
}

// emitSubmitMisbehaviourEvent emits a client misbehaviour event
func (k *Keeper) emitSubmitMisbehaviourEvent(ctx sdk.Context, clientID, clientType string) error {
	return k.EmitIBCEvent(ctx, clienttypes.AttributeValueCategory, sdk.NewEvent(
		clienttypes.EventTypeSubmitMisbehaviour,
		sdk.NewAttribute(clienttypes.AttributeKeyClientID, clientID),
		sdk.NewAttribute(clienttypes.AttributeKeyClientType, clientType),
	))
}

// emitConnectionEvent emits a connection handshake event of eventType.
func (k *Keeper) emitConnectionEvent(ctx sdk.Context, eventType, connectionID string, connection connectiontypes.ConnectionEnd) error {
	return k.EmitIBCEvent(ctx, connectiontypes.AttributeValueCategory, sdk.NewEvent(
		eventType,
		sdk.NewAttribute(connectiontypes.AttributeKeyConnectionID, connectionID),
		sdk.NewAttribute(connectiontypes.AttributeKeyClientID, connection.ClientId),
		sdk.NewAttribute(connectiontypes.AttributeKeyCounterpartyClientID, connection.Counterparty.ClientId),
		sdk.NewAttribute(connectiontypes.AttributeKeyCounterpartyConnectionID, connection.Counterparty.ConnectionId),
	))
}

// emitChannelEvent emits a channel handshake event of eventType.
func (k *Keeper) emitChannelEvent(ctx sdk.Context, eventType, portID, channelID string, channel channeltypes.Channel) error {
	return k.EmitIBCEvent(ctx, channeltypes.AttributeValueCategory, sdk.NewEvent(
		eventType,
		sdk.NewAttribute(channeltypes.AttributeKeyPortID, portID),
		sdk.NewAttribute(channeltypes.AttributeKeyChannelID, channelID),
		sdk.NewAttribute(channeltypes.AttributeCounterpartyPortID, channel.Counterparty.PortId),
		sdk.NewAttribute(channeltypes.AttributeCounterpartyChannelID, channel.Counterparty.ChannelId),
		sdk.NewAttribute(channeltypes.AttributeKeyConnectionID, strings.Join(channel.ConnectionHops, ",")),
		sdk.NewAttribute(channeltypes.AttributeVersion, channel.Version),
		sdk.NewAttribute(channeltypes.AttributeKeyChannelState, channel.State.String()),
	))
}

// emitPacketEvent emits a packet lifecycle event of eventType. The
// acknowledgement attribute is only set for write_acknowledgement.
func (k *Keeper) emitPacketEvent(ctx sdk.Context, eventType string, packet channeltypes.Packet, channel channeltypes.Channel, ack []byte) error {
	attributes := []sdk.Attribute{
		sdk.NewAttribute(channeltypes.AttributeKeyDataHex, hex.EncodeToString(packet.GetData())),
		sdk.NewAttribute(channeltypes.AttributeKeyTimeoutHeight, packet.TimeoutHeight.String()),
		sdk.NewAttribute(channeltypes.AttributeKeyTimeoutTimestamp, fmt.Sprintf("%d", packet.GetTimeoutTimestamp())),
		sdk.NewAttribute(channeltypes.AttributeKeySequence, fmt.Sprintf("%d", packet.GetSequence())),
		sdk.NewAttribute(channeltypes.AttributeKeySrcPort, packet.GetSourcePort()),
		sdk.NewAttribute(channeltypes.AttributeKeySrcChannel, packet.GetSourceChannel()),
		sdk.NewAttribute(channeltypes.AttributeKeyDstPort, packet.GetDestPort()),
		sdk.NewAttribute(channeltypes.AttributeKeyDstChannel, packet.GetDestChannel()),
		sdk.NewAttribute(channeltypes.AttributeKeyChannelOrdering, channel.Ordering.String()),
		sdk.NewAttribute(channeltypes.AttributeKeyConnection, strings.Join(channel.ConnectionHops, ",")),
	}
	if ack != nil {
		attributes = append(attributes, sdk.NewAttribute(channeltypes.AttributeKeyAckHex, hex.EncodeToString(ack)))
	}
	return k.EmitIBCEvent(ctx, channeltypes.AttributeValueCategory, sdk.NewEvent(eventType, attributes...))
}
