package metrics

import (
	"github.com/hashicorp/go-metrics"

	"github.com/cosmos/cosmos-sdk/telemetry"

	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
)

// Telemetry labels.
const (
	// 02-client labels

	LabelClientType = "client_type"
	LabelClientID   = "client_id"
	LabelUpdateType = "update_type"
	LabelMsgType    = "msg_type"

	// 03-connection and 04-channel labels

	LabelConnectionID = "connection_id"
	LabelPortID       = "port_id"
	LabelChannelID    = "channel_id"
	LabelOrdering     = "ordering"

	// Packet labels

	LabelSourcePort         = "source_port"
	LabelSourceChannel      = "source_channel"
	LabelDestinationPort    = "destination_port"
	LabelDestinationChannel = "destination_channel"
	LabelTimeoutType        = "timeout_type"
	LabelDenom              = "denom"
	LabelSource             = "source"
	LabelResult             = "result"
)

// ClientLabels returns the labels attached to client transitions.
func ClientLabels(clientType, clientID string) []metrics.Label {
	return []metrics.Label{
		telemetry.NewLabel(LabelClientType, clientType),
		telemetry.NewLabel(LabelClientID, clientID),
	}
}

// ChannelLabels returns the labels attached to channel transitions.
func ChannelLabels(portID, channelID string, ordering channeltypes.Order) []metrics.Label {
	return []metrics.Label{
		telemetry.NewLabel(LabelPortID, portID),
		telemetry.NewLabel(LabelChannelID, channelID),
		telemetry.NewLabel(LabelOrdering, ordering.String()),
	}
}

// PacketLabels returns the labels identifying both ends of a packet.
func PacketLabels(packet channeltypes.Packet) []metrics.Label {
	return []metrics.Label{
		telemetry.NewLabel(LabelSourcePort, packet.SourcePort),
		telemetry.NewLabel(LabelSourceChannel, packet.SourceChannel),
		telemetry.NewLabel(LabelDestinationPort, packet.DestinationPort),
		telemetry.NewLabel(LabelDestinationChannel, packet.DestinationChannel),
	}
}
