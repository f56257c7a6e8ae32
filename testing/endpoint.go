package ibctesting

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

// Endpoint is a which represents a channel endpoint and its associated
// client and connections. It contains client, connection, and channel
// configuration parameters. Endpoint functions will utilize the parameters
// set in the configuration structs when executing IBC messages.
type Endpoint struct {
	Chain        *TestChain
	Counterparty *Endpoint
	ClientID     string
	ConnectionID string
	ChannelID    string

	ClientConfig     *TendermintConfig
	ConnectionConfig *ConnectionConfig
	ChannelConfig    *ChannelConfig
}

// NewEndpoint constructs a new endpoint without the counterparty.
// CONTRACT: the counterparty endpoint must be set by the caller.
func NewEndpoint(
	chain *TestChain, clientConfig *TendermintConfig,
	connectionConfig *ConnectionConfig, channelConfig *ChannelConfig,
) *Endpoint {
	return &Endpoint{
		Chain:            chain,
		ClientConfig:     clientConfig,
		ConnectionConfig: connectionConfig,
		ChannelConfig:    channelConfig,
	}
}

// NewDefaultEndpoint constructs a new endpoint using default values.
// CONTRACT: the counterparty endpoint must be set by the caller.
func NewDefaultEndpoint(chain *TestChain) *Endpoint {
	return &Endpoint{
		Chain:            chain,
		ClientConfig:     NewTendermintConfig(),
		ConnectionConfig: NewConnectionConfig(),
		ChannelConfig:    NewChannelConfig(),
	}
}

// QueryProof queries proof associated with this endpoint using the latest client state
// height on the counterparty chain.
func (endpoint *Endpoint) QueryProof(key []byte) ([]byte, clienttypes.Height) {
	// obtain the counterparty client tracking this chain
	height := endpoint.Counterparty.Chain.GetClientLatestHeight(endpoint.Counterparty.ClientID)

	// query proof on the counterparty using the latest height of the IBC client
	return endpoint.QueryProofAtHeight(key, height.GetRevisionHeight())
}

// QueryProofAtHeight queries proof associated with this endpoint using the proof height
// provided
func (endpoint *Endpoint) QueryProofAtHeight(key []byte, height uint64) ([]byte, clienttypes.Height) {
	return endpoint.Chain.QueryProofAtHeight(key, height)
}

// CreateClient creates an IBC client on the endpoint. It will update the
// clientID for the endpoint if the message is successfully executed.
func (endpoint *Endpoint) CreateClient() error {
	// ensure counterparty has committed state
	endpoint.Counterparty.Chain.NextBlock()

	header := endpoint.Counterparty.Chain.LastHeader
	cfg := endpoint.ClientConfig

	clientState := ibctm.NewClientState(
		endpoint.Counterparty.Chain.ChainID, cfg.TrustLevel, cfg.TrustingPeriod, cfg.UnbondingPeriod, cfg.MaxClockDrift,
		header.GetHeight(), commitmenttypes.GetSDKSpecs(), UpgradePath,
	)

	clientBz, err := anyclient.PackClientState(anyclient.NewTendermintClientState(clientState))
	if err != nil {
		return err
	}
	consensusBz, err := anyclient.PackConsensusState(anyclient.NewTendermintConsensusState(header.ConsensusState()))
	if err != nil {
		return err
	}

	msg := clienttypes.NewMsgCreateClient(clientBz, consensusBz, endpoint.Chain.SenderAddress)
	res, err := endpoint.Chain.SendMsgs(msg)
	if err != nil {
		return err
	}

	endpoint.ClientID = res[0].Response.(*clienttypes.MsgCreateClientResponse).ClientId
	return nil
}

// UpdateClient updates the IBC client associated with the endpoint with the
// last header of the counterparty chain.
func (endpoint *Endpoint) UpdateClient() error {
	// ensure counterparty has committed state
	endpoint.Counterparty.Chain.NextBlock()

	header := *endpoint.Counterparty.Chain.LastHeader
	header.TrustedHeight = endpoint.Chain.GetClientLatestHeight(endpoint.ClientID)
	header.TrustedValidators = header.ValidatorSet

	return endpoint.UpdateClientWithHeader(&header)
}

// UpdateClientWithHeader submits header to the client of the endpoint.
func (endpoint *Endpoint) UpdateClientWithHeader(header *ibctm.Header) error {
	bz, err := anyclient.PackClientMessage(anyclient.ClientMessage{Header: header})
	if err != nil {
		return err
	}

	msg := clienttypes.NewMsgUpdateClient(endpoint.ClientID, bz, endpoint.Chain.SenderAddress)
	_, err = endpoint.Chain.SendMsgs(msg)
	return err
}

// ConnOpenInit will construct and execute a MsgConnectionOpenInit on the associated endpoint.
func (endpoint *Endpoint) ConnOpenInit() error {
	msg := connectiontypes.NewMsgConnectionOpenInit(
		endpoint.ClientID,
		endpoint.Counterparty.ClientID,
		endpoint.Counterparty.Chain.Keeper.CommitmentPrefix(), endpoint.ConnectionConfig.Version,
		endpoint.ConnectionConfig.DelayPeriod,
		endpoint.Chain.SenderAddress,
	)
	res, err := endpoint.Chain.SendMsgs(msg)
	if err != nil {
		return err
	}

	endpoint.ConnectionID = res[0].Response.(*connectiontypes.MsgConnectionOpenInitResponse).ConnectionId
	return nil
}

// ConnOpenTry will construct and execute a MsgConnectionOpenTry on the associated endpoint.
func (endpoint *Endpoint) ConnOpenTry() error {
	require.NoError(endpoint.Chain.TB, endpoint.UpdateClient())

	initProof, proofHeight := endpoint.Counterparty.QueryProof(host.ConnectionKey(endpoint.Counterparty.ConnectionID))

	msg := connectiontypes.NewMsgConnectionOpenTry(
		endpoint.ClientID, endpoint.Counterparty.ConnectionID, endpoint.Counterparty.ClientID,
		endpoint.Counterparty.Chain.Keeper.CommitmentPrefix(), []*connectiontypes.Version{ConnectionVersion},
		endpoint.ConnectionConfig.DelayPeriod, initProof, proofHeight,
		endpoint.Chain.SenderAddress,
	)
	res, err := endpoint.Chain.SendMsgs(msg)
	if err != nil {
		return err
	}

	if endpoint.ConnectionID == "" {
		endpoint.ConnectionID = res[0].Response.(*connectiontypes.MsgConnectionOpenTryResponse).ConnectionId
	}
	return nil
}

// ConnOpenAck will construct and execute a MsgConnectionOpenAck on the associated endpoint.
func (endpoint *Endpoint) ConnOpenAck() error {
	require.NoError(endpoint.Chain.TB, endpoint.UpdateClient())

	tryProof, proofHeight := endpoint.Counterparty.QueryProof(host.ConnectionKey(endpoint.Counterparty.ConnectionID))

	msg := connectiontypes.NewMsgConnectionOpenAck(
		endpoint.ConnectionID, endpoint.Counterparty.ConnectionID, // testing doesn't use flexible selection
		tryProof, proofHeight, ConnectionVersion,
		endpoint.Chain.SenderAddress,
	)
	_, err := endpoint.Chain.SendMsgs(msg)
	return err
}

// ConnOpenConfirm will construct and execute a MsgConnectionOpenConfirm on the associated endpoint.
func (endpoint *Endpoint) ConnOpenConfirm() error {
	require.NoError(endpoint.Chain.TB, endpoint.UpdateClient())

	ackProof, proofHeight := endpoint.Counterparty.QueryProof(host.ConnectionKey(endpoint.Counterparty.ConnectionID))

	msg := connectiontypes.NewMsgConnectionOpenConfirm(
		endpoint.ConnectionID,
		ackProof, proofHeight,
		endpoint.Chain.SenderAddress,
	)
	_, err := endpoint.Chain.SendMsgs(msg)
	return err
}

// ChanOpenInit will construct and execute a MsgChannelOpenInit on the associated endpoint.
func (endpoint *Endpoint) ChanOpenInit() error {
	msg := channeltypes.NewMsgChannelOpenInit(
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelConfig.Version, endpoint.ChannelConfig.Order, []string{endpoint.ConnectionID},
		endpoint.Counterparty.ChannelConfig.PortID,
		endpoint.Chain.SenderAddress,
	)
	res, err := endpoint.Chain.SendMsgs(msg)
	if err != nil {
		return err
	}

	response := res[0].Response.(*channeltypes.MsgChannelOpenInitResponse)
	endpoint.ChannelID = response.ChannelId

	// update version to selected app version
	// NOTE: this update must be performed after SendMsgs()
	endpoint.ChannelConfig.Version = response.Version
	endpoint.Counterparty.ChannelConfig.Version = response.Version
	return nil
}

// ChanOpenTry will construct and execute a MsgChannelOpenTry on the associated endpoint.
func (endpoint *Endpoint) ChanOpenTry() error {
	require.NoError(endpoint.Chain.TB, endpoint.UpdateClient())

	channelKey := host.ChannelKey(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID)
	initProof, proofHeight := endpoint.Counterparty.Chain.QueryProofAtHeight(channelKey, endpoint.Chain.GetClientLatestHeight(endpoint.ClientID).GetRevisionHeight())

	msg := channeltypes.NewMsgChannelOpenTry(
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelConfig.Version, endpoint.ChannelConfig.Order, []string{endpoint.ConnectionID},
		endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID, endpoint.Counterparty.ChannelConfig.Version,
		initProof, proofHeight,
		endpoint.Chain.SenderAddress,
	)
	res, err := endpoint.Chain.SendMsgs(msg)
	if err != nil {
		return err
	}

	response := res[0].Response.(*channeltypes.MsgChannelOpenTryResponse)
	if endpoint.ChannelID == "" {
		endpoint.ChannelID = response.ChannelId
	}

	// update version to selected app version
	// NOTE: this update must be performed after the endpoint channelID is set
	endpoint.ChannelConfig.Version = response.Version
	endpoint.Counterparty.ChannelConfig.Version = response.Version
	return nil
}

// ChanOpenAck will construct and execute a MsgChannelOpenAck on the associated endpoint.
func (endpoint *Endpoint) ChanOpenAck() error {
	require.NoError(endpoint.Chain.TB, endpoint.UpdateClient())

	tryProof, proofHeight := endpoint.Counterparty.QueryProof(host.ChannelKey(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID))

	msg := channeltypes.NewMsgChannelOpenAck(
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		endpoint.Counterparty.ChannelID, endpoint.Counterparty.ChannelConfig.Version, // testing doesn't use flexible selection
		tryProof, proofHeight,
		endpoint.Chain.SenderAddress,
	)
	_, err := endpoint.Chain.SendMsgs(msg)
	return err
}

// ChanOpenConfirm will construct and execute a MsgChannelOpenConfirm on the associated endpoint.
func (endpoint *Endpoint) ChanOpenConfirm() error {
	require.NoError(endpoint.Chain.TB, endpoint.UpdateClient())

	ackProof, proofHeight := endpoint.Counterparty.QueryProof(host.ChannelKey(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID))

	msg := channeltypes.NewMsgChannelOpenConfirm(
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		ackProof, proofHeight,
		endpoint.Chain.SenderAddress,
	)
	_, err := endpoint.Chain.SendMsgs(msg)
	return err
}

// ChanCloseInit will construct and execute a MsgChannelCloseInit on the associated endpoint.
//
// NOTE: does not work with ibc-transfer module
func (endpoint *Endpoint) ChanCloseInit() error {
	msg := channeltypes.NewMsgChannelCloseInit(
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		endpoint.Chain.SenderAddress,
	)
	_, err := endpoint.Chain.SendMsgs(msg)
	return err
}

// ChanCloseConfirm will construct and execute a MsgChannelCloseConfirm on the associated endpoint.
func (endpoint *Endpoint) ChanCloseConfirm() error {
	require.NoError(endpoint.Chain.TB, endpoint.UpdateClient())

	initProof, proofHeight := endpoint.Counterparty.QueryProof(host.ChannelKey(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID))

	msg := channeltypes.NewMsgChannelCloseConfirm(
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		initProof, proofHeight,
		endpoint.Chain.SenderAddress,
	)
	_, err := endpoint.Chain.SendMsgs(msg)
	return err
}

// SendPacket sends a packet through the channel keeper using the associated endpoint
// The counterparty client is updated so proofs can be sent to the counterparty chain.
// The packet sequence generated for the packet to be sent is returned. An error
// is returned if one occurs.
func (endpoint *Endpoint) SendPacket(
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	sequence, err := endpoint.Chain.Keeper.SendPacket(endpoint.Chain.GetContext(), endpoint.ChannelConfig.PortID, endpoint.ChannelID, timeoutHeight, timeoutTimestamp, data)
	if err != nil {
		return 0, err
	}

	// commit changes since no message was sent
	endpoint.Chain.Coordinator.CommitNBlocks(endpoint.Chain, 1)

	if err := endpoint.Counterparty.UpdateClient(); err != nil {
		return 0, err
	}

	return sequence, nil
}

// NewPacket returns the packet endpoint would send with sequence.
func (endpoint *Endpoint) NewPacket(sequence uint64, timeoutHeight clienttypes.Height, timeoutTimestamp uint64, data []byte) channeltypes.Packet {
	return channeltypes.NewPacket(
		data, sequence,
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID,
		timeoutHeight, timeoutTimestamp,
	)
}

// RecvPacket receives a packet on the associated endpoint and returns the
// acknowledgement written for it, if any. The counterparty client is updated.
func (endpoint *Endpoint) RecvPacket(packet channeltypes.Packet) ([]byte, error) {
	res, err := endpoint.RecvPacketWithResult(packet)
	if err != nil {
		return nil, err
	}

	if res.Result != channeltypes.SUCCESS {
		return nil, nil
	}

	ack, err := endpoint.writtenAcknowledgement(packet)
	if err != nil {
		return nil, err
	}

	if err := endpoint.Counterparty.UpdateClient(); err != nil {
		return nil, err
	}

	return ack, nil
}

// RecvPacketWithResult receives a packet on the associated endpoint and the result
// of the transaction is returned. The counterparty client is NOT updated.
func (endpoint *Endpoint) RecvPacketWithResult(packet channeltypes.Packet) (*channeltypes.MsgRecvPacketResponse, error) {
	// get proof of packet commitment on source
	packetKey := host.PacketCommitmentKey(packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())
	proof, proofHeight := endpoint.Counterparty.Chain.QueryProofAtHeight(packetKey, endpoint.Chain.GetClientLatestHeight(endpoint.ClientID).GetRevisionHeight())

	recvMsg := channeltypes.NewMsgRecvPacket(packet, proof, proofHeight, endpoint.Chain.SenderAddress)

	// receive on counterparty and update source client
	res, err := endpoint.Chain.SendMsgs(recvMsg)
	if err != nil {
		return nil, err
	}

	return res[0].Response.(*channeltypes.MsgRecvPacketResponse), nil
}

// writtenAcknowledgement reads the acknowledgement of packet from the events
// of the last committed block.
func (endpoint *Endpoint) writtenAcknowledgement(packet channeltypes.Packet) ([]byte, error) {
	bucket, found, err := endpoint.Chain.Keeper.LatestEvents(endpoint.Chain.GetContext())
	if err != nil {
		return nil, err
	}
	if !found || bucket.Height != endpoint.Chain.LatestCommittedHeight().GetRevisionHeight() {
		return nil, nil
	}

	ack, err := ParseAckFromEvents(bucket.Events, packet.GetSequence())
	if errors.Is(err, errAckNotFound) {
		// asynchronous acknowledgement
		return nil, nil
	}
	return ack, err
}

// WriteAcknowledgement writes an acknowledgement on the channel associated with the endpoint.
// The counterparty client is updated.
func (endpoint *Endpoint) WriteAcknowledgement(ack exported.Acknowledgement, packet channeltypes.Packet) error {
	// no need to send message, acting as a handler
	err := endpoint.Chain.Keeper.WriteAcknowledgement(endpoint.Chain.GetContext(), packet, ack)
	if err != nil {
		return err
	}

	// commit changes since no message was sent
	endpoint.Chain.Coordinator.CommitNBlocks(endpoint.Chain, 1)

	return endpoint.Counterparty.UpdateClient()
}

// AcknowledgePacket sends a MsgAcknowledgement to the channel associated with the endpoint.
func (endpoint *Endpoint) AcknowledgePacket(packet channeltypes.Packet, ack []byte) error {
	_, err := endpoint.AcknowledgePacketWithResult(packet, ack)
	return err
}

// AcknowledgePacketWithResult sends a MsgAcknowledgement to the channel associated with the endpoint and returns the result.
func (endpoint *Endpoint) AcknowledgePacketWithResult(packet channeltypes.Packet, ack []byte) (*channeltypes.MsgAcknowledgementResponse, error) {
	// get proof of acknowledgement on counterparty
	packetKey := host.PacketAcknowledgementKey(packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
	proof, proofHeight := endpoint.Counterparty.QueryProof(packetKey)

	ackMsg := channeltypes.NewMsgAcknowledgement(packet, ack, proof, proofHeight, endpoint.Chain.SenderAddress)

	res, err := endpoint.Chain.SendMsgs(ackMsg)
	if err != nil {
		return nil, err
	}

	return res[0].Response.(*channeltypes.MsgAcknowledgementResponse), nil
}

// TimeoutPacket sends a MsgTimeout to the channel associated with the endpoint.
func (endpoint *Endpoint) TimeoutPacket(packet channeltypes.Packet) error {
	_, err := endpoint.TimeoutPacketWithResult(packet)
	return err
}

// TimeoutPacketWithResult sends a MsgTimeout to the channel associated with the endpoint and returns the result.
func (endpoint *Endpoint) TimeoutPacketWithResult(packet channeltypes.Packet) (*channeltypes.MsgTimeoutResponse, error) {
	// get proof for timeout based on channel order
	var packetKey []byte

	switch endpoint.ChannelConfig.Order {
	case channeltypes.ORDERED:
		packetKey = host.NextSequenceRecvKey(packet.GetDestPort(), packet.GetDestChannel())
	case channeltypes.UNORDERED:
		packetKey = host.PacketReceiptKey(packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
	default:
		return nil, fmt.Errorf("unsupported order type %s", endpoint.ChannelConfig.Order)
	}

	proofHeight := endpoint.Chain.GetClientLatestHeight(endpoint.ClientID)
	proof, _ := endpoint.Counterparty.QueryProofAtHeight(packetKey, proofHeight.GetRevisionHeight())
	nextSeqRecv, err := endpoint.Counterparty.Chain.Keeper.GetNextSequenceRecv(endpoint.Counterparty.Chain.GetContext(), endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID)
	if err != nil {
		return nil, err
	}

	timeoutMsg := channeltypes.NewMsgTimeout(
		packet, nextSeqRecv,
		proof, proofHeight, endpoint.Chain.SenderAddress,
	)

	res, err := endpoint.Chain.SendMsgs(timeoutMsg)
	if err != nil {
		return nil, err
	}

	return res[0].Response.(*channeltypes.MsgTimeoutResponse), nil
}

// GetChannel retrieves an IBC Channel for the endpoint. The channel
// is expected to exist otherwise testing will fail.
func (endpoint *Endpoint) GetChannel() channeltypes.Channel {
	channel, err := endpoint.Chain.Keeper.ChannelEnd(endpoint.Chain.GetContext(), endpoint.ChannelConfig.PortID, endpoint.ChannelID)
	require.NoError(endpoint.Chain.TB, err)
	return channel
}

// GetConnection retrieves an IBC Connection for the endpoint. The
// connection is expected to exist otherwise testing will fail.
func (endpoint *Endpoint) GetConnection() connectiontypes.ConnectionEnd {
	connection, err := endpoint.Chain.Keeper.ConnectionEnd(endpoint.Chain.GetContext(), endpoint.ConnectionID)
	require.NoError(endpoint.Chain.TB, err)
	return connection
}

// GetClientState retrieves the client state for this endpoint. The
// client state is expected to exist otherwise testing will fail.
func (endpoint *Endpoint) GetClientState() anyclient.ClientState {
	clientState, err := endpoint.Chain.Keeper.ClientState(endpoint.Chain.GetContext(), endpoint.ClientID)
	require.NoError(endpoint.Chain.TB, err)
	return clientState
}

var errAckNotFound = errors.New("acknowledgement event attribute not found")

// ParseAckFromEvents parses events emitted from a MsgRecvPacket and returns the
// acknowledgement written for sequence.
func ParseAckFromEvents(events []sdk.Event, sequence uint64) ([]byte, error) {
	for _, ev := range events {
		if ev.Type != channeltypes.EventTypeWriteAck {
			continue
		}
		var ackHex string
		matches := false
		for _, attr := range ev.Attributes {
			switch attr.Key {
			case channeltypes.AttributeKeyAckHex:
				ackHex = attr.Value
			case channeltypes.AttributeKeySequence:
				matches = attr.Value == strconv.FormatUint(sequence, 10)
			}
		}
		if matches {
			return hex.DecodeString(ackHex)
		}
	}
	return nil, errAckNotFound
}
