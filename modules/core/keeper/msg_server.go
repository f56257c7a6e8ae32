package keeper

import (
	"context"
	"errors"
	"fmt"

	metrics "github.com/hashicorp/go-metrics"
	"go.uber.org/multierr"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	coremetrics "github.com/ibcstore/ibc-store/modules/core/metrics"
	"github.com/ibcstore/ibc-store/modules/core/types"
)

// MsgServer handles the inbound IBC messages. Every handler validates and then
// executes against the given context.
type MsgServer struct {
	*Keeper

	apps []AppMsgHandler
}

// AppMsgHandler executes application messages, such as a token transfer,
// delivered in the same batch as the core messages.
type AppMsgHandler interface {
	HandleMsg(ctx sdk.Context, msg sdk.HasValidateBasic) (res any, handled bool, err error)
}

// NewMsgServerImpl returns the message handlers backed by k. Messages unknown
// to core IBC are offered to apps in order.
func NewMsgServerImpl(k *Keeper, apps ...AppMsgHandler) MsgServer {
	return MsgServer{Keeper: k, apps: apps}
}

// CreateClient defines a rpc handler method for MsgCreateClient.
func (k MsgServer) CreateClient(goCtx context.Context, msg *clienttypes.MsgCreateClient) (*clienttypes.MsgCreateClientResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	clientState, err := anyclient.UnpackClientState(msg.ClientState)
	if err != nil {
		return nil, err
	}

	consensusState, err := anyclient.UnpackConsensusState(msg.ConsensusState)
	if err != nil {
		return nil, err
	}

	clientID, err := k.Keeper.CreateClient(ctx, clientState, consensusState)
	if err != nil {
		return nil, err
	}

	return &clienttypes.MsgCreateClientResponse{ClientId: clientID}, nil
}

// UpdateClient defines a rpc handler method for MsgUpdateClient.
func (k MsgServer) UpdateClient(goCtx context.Context, msg *clienttypes.MsgUpdateClient) (*clienttypes.MsgUpdateClientResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	clientMsg, err := anyclient.UnpackClientMessage(msg.ClientMessage)
	if err != nil {
		return nil, err
	}

	if err = k.Keeper.UpdateClient(ctx, msg.ClientId, clientMsg); err != nil {
		return nil, err
	}

	return &clienttypes.MsgUpdateClientResponse{}, nil
}

// SubmitMisbehaviour defines a rpc handler method for MsgSubmitMisbehaviour.
func (k MsgServer) SubmitMisbehaviour(goCtx context.Context, msg *clienttypes.MsgSubmitMisbehaviour) (*clienttypes.MsgSubmitMisbehaviourResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	misbehaviour, err := anyclient.UnpackClientMessage(msg.Misbehaviour)
	if err != nil {
		return nil, err
	}

	if err = k.Keeper.SubmitMisbehaviour(ctx, msg.ClientId, misbehaviour); err != nil {
		return nil, err
	}

	return &clienttypes.MsgSubmitMisbehaviourResponse{}, nil
}

// ConnectionOpenInit defines a rpc handler method for MsgConnectionOpenInit.
func (k MsgServer) ConnectionOpenInit(goCtx context.Context, msg *connectiontypes.MsgConnectionOpenInit) (*connectiontypes.MsgConnectionOpenInitResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	connectionID, err := k.ConnOpenInit(ctx, msg.ClientId, msg.Counterparty, msg.Version, msg.DelayPeriod)
	if err != nil {
		return nil, errorsmod.Wrap(err, "connection handshake open init failed")
	}

	return &connectiontypes.MsgConnectionOpenInitResponse{ConnectionId: connectionID}, nil
}

// ConnectionOpenTry defines a rpc handler method for MsgConnectionOpenTry.
func (k MsgServer) ConnectionOpenTry(goCtx context.Context, msg *connectiontypes.MsgConnectionOpenTry) (*connectiontypes.MsgConnectionOpenTryResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	connectionID, err := k.ConnOpenTry(
		ctx, msg.Counterparty, msg.DelayPeriod, msg.ClientId,
		msg.CounterpartyVersions, msg.ProofInit, msg.ProofHeight,
	)
	if err != nil {
		return nil, errorsmod.Wrap(err, "connection handshake open try failed")
	}

	return &connectiontypes.MsgConnectionOpenTryResponse{ConnectionId: connectionID}, nil
}

// ConnectionOpenAck defines a rpc handler method for MsgConnectionOpenAck.
func (k MsgServer) ConnectionOpenAck(goCtx context.Context, msg *connectiontypes.MsgConnectionOpenAck) (*connectiontypes.MsgConnectionOpenAckResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.ConnOpenAck(
		ctx, msg.ConnectionId, msg.Version, msg.CounterpartyConnectionId,
		msg.ProofTry, msg.ProofHeight,
	); err != nil {
		return nil, errorsmod.Wrap(err, "connection handshake open ack failed")
	}

	return &connectiontypes.MsgConnectionOpenAckResponse{}, nil
}

// ConnectionOpenConfirm defines a rpc handler method for MsgConnectionOpenConfirm.
func (k MsgServer) ConnectionOpenConfirm(goCtx context.Context, msg *connectiontypes.MsgConnectionOpenConfirm) (*connectiontypes.MsgConnectionOpenConfirmResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.ConnOpenConfirm(ctx, msg.ConnectionId, msg.ProofAck, msg.ProofHeight); err != nil {
		return nil, errorsmod.Wrap(err, "connection handshake open confirm failed")
	}

	return &connectiontypes.MsgConnectionOpenConfirmResponse{}, nil
}

// ChannelOpenInit defines a rpc handler method for MsgChannelOpenInit.
// ChannelOpenInit will perform 04-channel checks, route to the application
// callback, and write an OpenInit channel into state upon successful execution.
func (k MsgServer) ChannelOpenInit(goCtx context.Context, msg *channeltypes.MsgChannelOpenInit) (*channeltypes.MsgChannelOpenInitResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	channelID, version, err := k.ChanOpenInit(
		ctx, msg.Channel.Ordering, msg.Channel.ConnectionHops,
		msg.PortId, msg.Channel.Counterparty, msg.Channel.Version,
	)
	if err != nil {
		ctx.Logger().Error("channel open init failed", "port-id", msg.PortId, "error", err.Error())
		return nil, errorsmod.Wrap(err, "channel handshake open init failed")
	}

	ctx.Logger().Info("channel open init succeeded", "channel-id", channelID, "version", version)

	return &channeltypes.MsgChannelOpenInitResponse{
		ChannelId: channelID,
		Version:   version,
	}, nil
}

// ChannelOpenTry defines a rpc handler method for MsgChannelOpenTry.
// ChannelOpenTry will perform 04-channel checks, route to the application
// callback, and write an OpenTry channel into state upon successful execution.
func (k MsgServer) ChannelOpenTry(goCtx context.Context, msg *channeltypes.MsgChannelOpenTry) (*channeltypes.MsgChannelOpenTryResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	channelID, version, err := k.ChanOpenTry(
		ctx, msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId,
		msg.Channel.Counterparty, msg.CounterpartyVersion, msg.ProofInit, msg.ProofHeight,
	)
	if err != nil {
		ctx.Logger().Error("channel open try failed", "port-id", msg.PortId, "error", err.Error())
		return nil, errorsmod.Wrap(err, "channel handshake open try failed")
	}

	ctx.Logger().Info("channel open try succeeded", "channel-id", channelID, "port-id", msg.PortId, "version", version)

	return &channeltypes.MsgChannelOpenTryResponse{
		ChannelId: channelID,
		Version:   version,
	}, nil
}

// ChannelOpenAck defines a rpc handler method for MsgChannelOpenAck.
func (k MsgServer) ChannelOpenAck(goCtx context.Context, msg *channeltypes.MsgChannelOpenAck) (*channeltypes.MsgChannelOpenAckResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.ChanOpenAck(
		ctx, msg.PortId, msg.ChannelId, msg.CounterpartyVersion,
		msg.CounterpartyChannelId, msg.ProofTry, msg.ProofHeight,
	); err != nil {
		ctx.Logger().Error("channel open ack failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err.Error())
		return nil, errorsmod.Wrap(err, "channel handshake open ack failed")
	}

	ctx.Logger().Info("channel open ack succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return &channeltypes.MsgChannelOpenAckResponse{}, nil
}

// ChannelOpenConfirm defines a rpc handler method for MsgChannelOpenConfirm.
func (k MsgServer) ChannelOpenConfirm(goCtx context.Context, msg *channeltypes.MsgChannelOpenConfirm) (*channeltypes.MsgChannelOpenConfirmResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.ChanOpenConfirm(ctx, msg.PortId, msg.ChannelId, msg.ProofAck, msg.ProofHeight); err != nil {
		ctx.Logger().Error("channel open confirm failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err.Error())
		return nil, errorsmod.Wrap(err, "channel handshake open confirm failed")
	}

	ctx.Logger().Info("channel open confirm succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return &channeltypes.MsgChannelOpenConfirmResponse{}, nil
}

// ChannelCloseInit defines a rpc handler method for MsgChannelCloseInit.
func (k MsgServer) ChannelCloseInit(goCtx context.Context, msg *channeltypes.MsgChannelCloseInit) (*channeltypes.MsgChannelCloseInitResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.ChanCloseInit(ctx, msg.PortId, msg.ChannelId); err != nil {
		ctx.Logger().Error("channel close init failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err.Error())
		return nil, errorsmod.Wrap(err, "channel handshake close init failed")
	}

	ctx.Logger().Info("channel close init succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return &channeltypes.MsgChannelCloseInitResponse{}, nil
}

// ChannelCloseConfirm defines a rpc handler method for MsgChannelCloseConfirm.
func (k MsgServer) ChannelCloseConfirm(goCtx context.Context, msg *channeltypes.MsgChannelCloseConfirm) (*channeltypes.MsgChannelCloseConfirmResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.ChanCloseConfirm(ctx, msg.PortId, msg.ChannelId, msg.ProofInit, msg.ProofHeight); err != nil {
		ctx.Logger().Error("channel close confirm failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err.Error())
		return nil, errorsmod.Wrap(err, "channel handshake close confirm failed")
	}

	ctx.Logger().Info("channel close confirm succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return &channeltypes.MsgChannelCloseConfirmResponse{}, nil
}

// RecvPacket defines a rpc handler method for MsgRecvPacket.
func (k MsgServer) RecvPacket(goCtx context.Context, msg *channeltypes.MsgRecvPacket) (*channeltypes.MsgRecvPacketResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	relayer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		ctx.Logger().Error("receive packet failed", "error", errorsmod.Wrap(err, "Invalid address for msg Signer"))
		return nil, errorsmod.Wrap(err, "Invalid address for msg Signer")
	}

	cbs, err := k.route(msg.Packet.DestinationPort)
	if err != nil {
		ctx.Logger().Error("receive packet failed", "port-id", msg.Packet.DestinationPort, "error", errorsmod.Wrap(err, "could not retrieve module from port-id"))
		return nil, errorsmod.Wrap(err, "could not retrieve module from port-id")
	}

	// Perform TAO verification
	//
	// If the packet was already received, perform a no-op
	// Use a cached context to prevent accidental state changes
	cacheCtx, writeFn := ctx.CacheContext()
	channelVersion, err := k.Keeper.RecvPacket(cacheCtx, msg.Packet, msg.ProofCommitment, msg.ProofHeight)

	switch {
	case err == nil:
		writeFn()
	case errors.Is(err, channeltypes.ErrNoOpMsg):
		// no-ops do not need event emission as they will be ignored
		ctx.Logger().Debug("no-op on redundant relay", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel)
		return &channeltypes.MsgRecvPacketResponse{Result: channeltypes.NOOP}, nil
	default:
		ctx.Logger().Error("receive packet failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", errorsmod.Wrap(err, "receive packet verification failed"))
		return nil, errorsmod.Wrap(err, "receive packet verification failed")
	}

	// Perform application logic callback
	//
	// Cache context so that we may discard state changes from callback if the acknowledgement is unsuccessful.
	cacheCtx, writeFn = ctx.CacheContext()
	ack := cbs.OnRecvPacket(cacheCtx, channelVersion, msg.Packet, relayer)
	if ack == nil || ack.Success() {
		// write application state changes for asynchronous and successful acknowledgements
		writeFn()
	} else {
		// Modify events in cached context to reflect unsuccessful acknowledgement
		ctx.EventManager().EmitEvents(types.ConvertToErrorEvents(cacheCtx.EventManager().Events()))
	}

	// Set packet acknowledgement only if the acknowledgement is not nil.
	// NOTE: IBC applications modules may call the WriteAcknowledgement asynchronously if the
	// acknowledgement is nil.
	if ack != nil {
		if err := k.WriteAcknowledgement(ctx, msg.Packet, ack); err != nil {
			return nil, err
		}
	}

	defer telemetry.IncrCounterWithLabels(
		[]string{"tx", "msg", "ibc", channeltypes.EventTypeRecvPacket},
		1,
		coremetrics.PacketLabels(msg.Packet),
	)

	ctx.Logger().Info("receive packet callback succeeded", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "result", channeltypes.SUCCESS.String())

	return &channeltypes.MsgRecvPacketResponse{Result: channeltypes.SUCCESS}, nil
}

// Timeout defines a rpc handler method for MsgTimeout.
func (k MsgServer) Timeout(goCtx context.Context, msg *channeltypes.MsgTimeout) (*channeltypes.MsgTimeoutResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	relayer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		ctx.Logger().Error("timeout failed", "error", errorsmod.Wrap(err, "Invalid address for msg Signer"))
		return nil, errorsmod.Wrap(err, "Invalid address for msg Signer")
	}

	cbs, err := k.route(msg.Packet.SourcePort)
	if err != nil {
		ctx.Logger().Error("timeout failed", "port-id", msg.Packet.SourcePort, "error", errorsmod.Wrap(err, "could not retrieve module from port-id"))
		return nil, errorsmod.Wrap(err, "could not retrieve module from port-id")
	}

	// Perform TAO verification
	//
	// If the timeout was already received, perform a no-op
	// Use a cached context to prevent accidental state changes
	cacheCtx, writeFn := ctx.CacheContext()
	channelVersion, err := k.TimeoutPacket(cacheCtx, msg.Packet, msg.ProofUnreceived, msg.ProofHeight, msg.NextSequenceRecv)

	switch {
	case err == nil:
		writeFn()
	case errors.Is(err, channeltypes.ErrNoOpMsg):
		// no-ops do not need event emission as they will be ignored
		ctx.Logger().Debug("no-op on redundant relay", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel)
		return &channeltypes.MsgTimeoutResponse{Result: channeltypes.NOOP}, nil
	default:
		ctx.Logger().Error("timeout failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", errorsmod.Wrap(err, "timeout packet verification failed"))
		return nil, errorsmod.Wrap(err, "timeout packet verification failed")
	}

	// Perform application logic callback
	if err := cbs.OnTimeoutPacket(ctx, channelVersion, msg.Packet, relayer); err != nil {
		ctx.Logger().Error("timeout failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", errorsmod.Wrap(err, "timeout packet callback failed"))
		return nil, errorsmod.Wrap(err, "timeout packet callback failed")
	}

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", channeltypes.EventTypeTimeoutPacket},
		1,
		append(coremetrics.PacketLabels(msg.Packet), telemetry.NewLabel(coremetrics.LabelTimeoutType, "height")),
	)

	ctx.Logger().Info("timeout packet callback succeeded", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "result", channeltypes.SUCCESS.String())

	return &channeltypes.MsgTimeoutResponse{Result: channeltypes.SUCCESS}, nil
}

// Acknowledgement defines a rpc handler method for MsgAcknowledgement.
func (k MsgServer) Acknowledgement(goCtx context.Context, msg *channeltypes.MsgAcknowledgement) (*channeltypes.MsgAcknowledgementResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	relayer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		ctx.Logger().Error("acknowledgement failed", "error", errorsmod.Wrap(err, "Invalid address for msg Signer"))
		return nil, errorsmod.Wrap(err, "Invalid address for msg Signer")
	}

	cbs, err := k.route(msg.Packet.SourcePort)
	if err != nil {
		ctx.Logger().Error("acknowledgement failed", "port-id", msg.Packet.SourcePort, "error", errorsmod.Wrap(err, "could not retrieve module from port-id"))
		return nil, errorsmod.Wrap(err, "could not retrieve module from port-id")
	}

	// Perform TAO verification
	//
	// If the acknowledgement was already received, perform a no-op
	// Use a cached context to prevent accidental state changes
	cacheCtx, writeFn := ctx.CacheContext()
	channelVersion, err := k.AcknowledgePacket(cacheCtx, msg.Packet, msg.Acknowledgement, msg.ProofAcked, msg.ProofHeight)

	switch {
	case err == nil:
		writeFn()
	case errors.Is(err, channeltypes.ErrNoOpMsg):
		// no-ops do not need event emission as they will be ignored
		ctx.Logger().Debug("no-op on redundant relay", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel)
		return &channeltypes.MsgAcknowledgementResponse{Result: channeltypes.NOOP}, nil
	default:
		ctx.Logger().Error("acknowledgement failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", errorsmod.Wrap(err, "acknowledge packet verification failed"))
		return nil, errorsmod.Wrap(err, "acknowledge packet verification failed")
	}

	// Perform application logic callback
	if err := cbs.OnAcknowledgementPacket(ctx, channelVersion, msg.Packet, msg.Acknowledgement, relayer); err != nil {
		ctx.Logger().Error("acknowledgement failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", errorsmod.Wrap(err, "acknowledge packet callback failed"))
		return nil, errorsmod.Wrap(err, "acknowledge packet callback failed")
	}

	defer telemetry.IncrCounterWithLabels(
		[]string{"tx", "msg", "ibc", channeltypes.EventTypeAcknowledgePacket},
		1,
		coremetrics.PacketLabels(msg.Packet),
	)

	ctx.Logger().Info("acknowledgement succeeded", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "result", channeltypes.SUCCESS.String())

	return &channeltypes.MsgAcknowledgementResponse{Result: channeltypes.SUCCESS}, nil
}

// MsgResult is the outcome of one message of a Deliver batch.
type MsgResult struct {
	Index    int
	Response any
	Err      error
}

// Deliver executes msgs in order, each in its own cache context. The writes of
// a message are committed only when it succeeds. A failing message does not
// abort the batch; the returned error aggregates every failure with its index.
func (k MsgServer) Deliver(goCtx context.Context, msgs []sdk.HasValidateBasic) ([]MsgResult, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	var (
		results = make([]MsgResult, len(msgs))
		errs    error
		failed  int
	)
	for i, msg := range msgs {
		cacheCtx, writeFn := ctx.CacheContext()

		res, err := k.dispatch(cacheCtx, msg)
		if err == nil {
			writeFn()
		} else {
			failed++
			errs = multierr.Append(errs, fmt.Errorf("message %d: %w", i, err))
		}
		results[i] = MsgResult{Index: i, Response: res, Err: err}
	}

	telemetry.IncrCounterWithLabels(
		[]string{"ibc", "deliver"},
		float32(len(msgs)-failed),
		[]metrics.Label{telemetry.NewLabel(coremetrics.LabelResult, channeltypes.SUCCESS.String())},
	)
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", "deliver"},
		float32(failed),
		[]metrics.Label{telemetry.NewLabel(coremetrics.LabelResult, channeltypes.FAILURE.String())},
	)
	k.Logger(ctx).Info("batch delivered", "messages", len(msgs), "failed", failed)

	return results, errs
}

// dispatch validates msg and routes it to its handler.
func (k MsgServer) dispatch(ctx sdk.Context, msg sdk.HasValidateBasic) (any, error) {
	if msg == nil {
		return nil, errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "nil message")
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	switch msg := msg.(type) {
	case *clienttypes.MsgCreateClient:
		return k.CreateClient(ctx, msg)
	case *clienttypes.MsgUpdateClient:
		return k.UpdateClient(ctx, msg)
	case *clienttypes.MsgSubmitMisbehaviour:
		return k.SubmitMisbehaviour(ctx, msg)
	case *connectiontypes.MsgConnectionOpenInit:
		return k.ConnectionOpenInit(ctx, msg)
	case *connectiontypes.MsgConnectionOpenTry:
		return k.ConnectionOpenTry(ctx, msg)
	case *connectiontypes.MsgConnectionOpenAck:
		return k.ConnectionOpenAck(ctx, msg)
	case *connectiontypes.MsgConnectionOpenConfirm:
		return k.ConnectionOpenConfirm(ctx, msg)
	case *channeltypes.MsgChannelOpenInit:
		return k.ChannelOpenInit(ctx, msg)
	case *channeltypes.MsgChannelOpenTry:
		return k.ChannelOpenTry(ctx, msg)
	case *channeltypes.MsgChannelOpenAck:
		return k.ChannelOpenAck(ctx, msg)
	case *channeltypes.MsgChannelOpenConfirm:
		return k.ChannelOpenConfirm(ctx, msg)
	case *channeltypes.MsgChannelCloseInit:
		return k.ChannelCloseInit(ctx, msg)
	case *channeltypes.MsgChannelCloseConfirm:
		return k.ChannelCloseConfirm(ctx, msg)
	case *channeltypes.MsgRecvPacket:
		return k.RecvPacket(ctx, msg)
	case *channeltypes.MsgAcknowledgement:
		return k.Acknowledgement(ctx, msg)
	case *channeltypes.MsgTimeout:
		return k.Timeout(ctx, msg)
	case *types.MsgUpdateParams:
		return k.UpdateParams(ctx, msg)
	case *types.MsgShrinkClientHistory:
		return k.ShrinkClientHistory(ctx, msg)
	case *types.MsgClearClientHistory:
		return k.ClearClientHistory(ctx, msg)
	case *types.MsgPruneEventHistory:
		return k.PruneEventHistory(ctx, msg)
	case *types.MsgPruneReceipts:
		return k.PruneReceipts(ctx, msg)
	case *types.MsgPruneAcknowledgements:
		return k.PruneAcknowledgements(ctx, msg)
	}

	for _, app := range k.apps {
		if res, handled, err := app.HandleMsg(ctx, msg); handled {
			return res, err
		}
	}
	return nil, errorsmod.Wrapf(ibcerrors.ErrUnknownType, "unrecognized IBC message type: %T", msg)
}
