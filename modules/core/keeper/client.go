package keeper

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/modules/core/02-client/anyclient"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	coremetrics "github.com/ibcstore/ibc-store/modules/core/metrics"
)

// CreateClient generates a new client identifier and stores the provided client
// state together with its initial consensus state at the latest height. The
// created client must be active.
func (k *Keeper) CreateClient(
	ctx sdk.Context, clientState anyclient.ClientState, consensusState anyclient.ConsensusState,
) (string, error) {
	clientType := clientState.ClientType()
	if !k.GetParams(ctx).IsAllowedClient(clientType) {
		return "", errorsmod.Wrapf(
			clienttypes.ErrInvalidClientType,
			"client state type %s is not registered in the allowlist", clientType,
		)
	}

	if err := clientState.Validate(); err != nil {
		return "", err
	}
	if err := consensusState.ValidateBasic(); err != nil {
		return "", err
	}
	if consensusState.ClientType() != clientType {
		return "", errorsmod.Wrapf(
			clienttypes.ErrInvalidClientType,
			"consensus state type %s does not match client state type %s", consensusState.ClientType(), clientType,
		)
	}

	clientID, err := k.GenerateClientIdentifier(ctx, clientType)
	if err != nil {
		return "", err
	}
	height := clientState.LatestHeight()

	if err := k.StoreClientState(ctx, clientID, clientState); err != nil {
		return "", err
	}
	if err := k.StoreConsensusState(ctx, clientID, height, consensusState); err != nil {
		return "", err
	}
	if err := k.StoreUpdateMeta(ctx, clientID, height, uint64(k.HostTimestamp(ctx).UnixNano()), k.HostHeight(ctx)); err != nil {
		return "", err
	}

	if status := k.GetClientStatus(ctx, clientID); status != exported.Active {
		return "", errorsmod.Wrapf(clienttypes.ErrClientNotActive, "cannot create client (%s) with status %s", clientID, status)
	}

	k.Logger(ctx).Info("client created at height", "client-id", clientID, "height", height.String())

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "create"},
		1,
		coremetrics.ClientLabels(clientType, clientID),
	)

	if err := k.emitCreateClientEvent(ctx, clientID, clientType, height); err != nil {
		return "", err
	}

	return clientID, nil
}

// UpdateClient verifies the client message against the client and either
// freezes the client on misbehaviour or stores the new consensus state. A
// header for a height that is already stored with the same consensus state is
// a no-op.
func (k *Keeper) UpdateClient(ctx sdk.Context, clientID string, clientMsg anyclient.ClientMessage) error {
	clientState, err := k.ClientState(ctx, clientID)
	if err != nil {
		return err
	}

	clientCtx := k.clientContext(ctx)
	if status := clientState.Status(clientCtx, clientID); status != exported.Active {
		return errorsmod.Wrapf(clienttypes.ErrClientNotActive, "cannot update client (%s) with status %s", clientID, status)
	}

	if err := clientState.VerifyClientMessage(clientCtx, k.verifier, clientID, clientMsg); err != nil {
		return err
	}

	foundMisbehaviour, err := clientState.CheckForMisbehaviour(clientCtx, clientID, clientMsg)
	if err != nil {
		return err
	}
	if foundMisbehaviour {
		return k.freezeClient(ctx, clientID, clientState, "update")
	}

	if clientMsg.Header == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, "misbehaviour evidence does not prove misbehaviour")
	}

	stored, err := k.clientHistory(clientID).heights.Has(ctx, clientMsg.Header.GetHeight())
	if err != nil {
		return err
	}
	if stored {
		k.Logger(ctx).Debug("consensus state already stored", "client-id", clientID, "height", clientMsg.Header.GetHeight().String())
		return nil
	}

	updated, consState, height, err := clientState.UpdateState(clientMsg)
	if err != nil {
		return err
	}
	if err := k.StoreConsensusState(ctx, clientID, height, consState); err != nil {
		return err
	}
	if err := k.StoreUpdateMeta(ctx, clientID, height, uint64(k.HostTimestamp(ctx).UnixNano()), k.HostHeight(ctx)); err != nil {
		return err
	}
	if err := k.StoreClientState(ctx, clientID, updated); err != nil {
		return err
	}

	k.Logger(ctx).Info("client state updated", "client-id", clientID, "height", height.String())

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "update"},
		1,
		append(coremetrics.ClientLabels(clientState.ClientType(), clientID), telemetry.NewLabel(coremetrics.LabelUpdateType, "msg")),
	)

	header, err := anyclient.PackClientMessage(clientMsg)
	if err != nil {
		return err
	}
	return k.emitUpdateClientEvent(ctx, clientID, clientState.ClientType(), height, header)
}

// SubmitMisbehaviour freezes the client when the submitted evidence proves
// misbehaviour.
func (k *Keeper) SubmitMisbehaviour(ctx sdk.Context, clientID string, misbehaviour anyclient.ClientMessage) error {
	clientState, err := k.ClientState(ctx, clientID)
	if err != nil {
		return err
	}

	clientCtx := k.clientContext(ctx)
	if status := clientState.Status(clientCtx, clientID); status != exported.Active {
		return errorsmod.Wrapf(clienttypes.ErrClientNotActive, "cannot process misbehaviour for client (%s) with status %s", clientID, status)
	}

	if err := clientState.VerifyClientMessage(clientCtx, k.verifier, clientID, misbehaviour); err != nil {
		return err
	}

	foundMisbehaviour, err := clientState.CheckForMisbehaviour(clientCtx, clientID, misbehaviour)
	if err != nil {
		return err
	}
	if !foundMisbehaviour {
		return errorsmod.Wrapf(clienttypes.ErrInvalidMisbehaviour, "client %s", clientID)
	}

	return k.freezeClient(ctx, clientID, clientState, "submit")
}

func (k *Keeper) freezeClient(ctx sdk.Context, clientID string, clientState anyclient.ClientState, msgType string) error {
	frozen, err := clientState.UpdateStateOnMisbehaviour()
	if err != nil {
		return err
	}
	if err := k.StoreClientState(ctx, clientID, frozen); err != nil {
		return err
	}

	k.Logger(ctx).Info("client frozen due to misbehaviour", "client-id", clientID)

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "misbehaviour"},
		1,
		append(coremetrics.ClientLabels(clientState.ClientType(), clientID), telemetry.NewLabel(coremetrics.LabelMsgType, msgType)),
	)

	return k.emitSubmitMisbehaviourEvent(ctx, clientID, clientState.ClientType())
}
