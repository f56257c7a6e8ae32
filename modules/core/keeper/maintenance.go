package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/storage"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/types"
)

// ShrinkClientHistory evicts the oldest consensus states of clientID, with
// their update metadata, until the history fits ConsensusHistoryLength. The
// bound is then applied to the queue so later updates evict on push.
func (k *Keeper) ShrinkClientHistory(ctx sdk.Context, clientID string, budget storage.Budget) (storage.Progress, error) {
	if _, err := k.ClientState(ctx, clientID); err != nil {
		return storage.Progress{Status: storage.StatusFailed}, err
	}

	maxLength := k.GetParams(ctx).ConsensusHistoryLength
	history := k.clientHistory(clientID)

	progress, err := k.evictClientHistory(ctx, history, budget, func() (bool, error) {
		length, err := history.consensus.Len(ctx)
		return maxLength > 0 && length > maxLength, err
	})
	if err != nil || !progress.Done() {
		return progress, err
	}

	if _, err := history.consensus.SetMaxLength(ctx, maxLength, storage.UnlimitedBudget); err != nil {
		return storage.Progress{Status: storage.StatusFailed}, err
	}

	k.Logger(ctx).Info("client history shrunk", "client-id", clientID, "evicted", progress.Processed)
	return progress, nil
}

// ClearClientHistory evicts every consensus state of clientID below the latest
// height of the client, along with their update metadata. The consensus state
// at the latest height is kept so the client stays active and can be updated.
func (k *Keeper) ClearClientHistory(ctx sdk.Context, clientID string, budget storage.Budget) (storage.Progress, error) {
	clientState, err := k.ClientState(ctx, clientID)
	if err != nil {
		return storage.Progress{Status: storage.StatusFailed}, err
	}

	latest := clientState.LatestHeight()
	history := k.clientHistory(clientID)
	progress, err := k.evictClientHistory(ctx, history, budget, func() (bool, error) {
		front, found, err := history.consensus.Front(ctx)
		return found && front.Key.LT(latest), err
	})
	if err != nil || !progress.Done() {
		return progress, err
	}

	k.Logger(ctx).Info("client history cleared", "client-id", clientID, "evicted", progress.Processed, "kept", latest.String())
	return progress, nil
}

// evictClientHistory pops consensus states from the front while more is true.
func (*Keeper) evictClientHistory(
	ctx sdk.Context, history clientHistory, budget storage.Budget, more func() (bool, error),
) (storage.Progress, error) {
	var processed uint64
	for {
		ok, err := more()
		if err != nil {
			return storage.Progress{Status: storage.StatusFailed, Processed: processed}, err
		}
		if !ok {
			break
		}
		if !budget.Allow() {
			return queueProgress(ctx, history.consensus, storage.StatusNeedsContinuation, processed)
		}

		entry, found, err := history.consensus.PopFront(ctx)
		if err != nil {
			return storage.Progress{Status: storage.StatusFailed, Processed: processed}, err
		}
		if !found {
			break
		}
		if err := history.forget(ctx, entry.Key); err != nil {
			return storage.Progress{Status: storage.StatusFailed, Processed: processed}, err
		}
		processed++
	}

	return queueProgress(ctx, history.consensus, storage.StatusCompleted, processed)
}

// queueProgress reports status with the persisted index range of q as checkpoint.
func queueProgress[K, V any](ctx context.Context, q *storage.Queue[K, V], status storage.Status, processed uint64) (storage.Progress, error) {
	meta, err := q.Meta(ctx)
	if err != nil {
		return storage.Progress{Status: storage.StatusFailed, Processed: processed}, err
	}
	return storage.Progress{
		Status:     status,
		Checkpoint: storage.Checkpoint{StartIndex: meta.Start, EndIndex: meta.End},
		Processed:  processed,
	}, nil
}

// PruneEventHistory evicts the oldest event buckets until the history fits
// EventHistoryLength.
func (k *Keeper) PruneEventHistory(ctx sdk.Context, budget storage.Budget) (storage.Progress, error) {
	progress, err := k.eventHistory.SetMaxLength(ctx, k.GetParams(ctx).EventHistoryLength, budget)
	if err != nil {
		return progress, err
	}

	k.Logger(ctx).Info("event history pruned", "evicted", progress.Processed, "status", progress.Status.String())
	return progress, nil
}

// PruneReceipts drops the receipts of the channel up to and including sequence
// from the receipt index. The receipts themselves stay in the store: they are
// what counterparties prove non-receipt against, so a timeout for a packet
// received here keeps failing.
func (k *Keeper) PruneReceipts(ctx sdk.Context, portID, channelID string, sequence uint64, budget storage.Budget) (storage.Progress, error) {
	if _, err := k.ChannelEnd(ctx, portID, channelID); err != nil {
		return storage.Progress{Status: storage.StatusFailed}, err
	}

	receipts := k.packetIndex(portID, channelID).receipts
	progress, err := receipts.RemoveUpTo(ctx, sequence, budget)
	if err != nil {
		return progress, err
	}

	k.Logger(ctx).Info("packet receipts pruned", "port-id", portID, "channel-id", channelID, "pruned", progress.Processed)
	return progress, nil
}

// PruneAcknowledgements removes the acknowledgements written on the channel
// up to and including sequence.
func (k *Keeper) PruneAcknowledgements(ctx sdk.Context, portID, channelID string, sequence uint64, budget storage.Budget) (storage.Progress, error) {
	if _, err := k.ChannelEnd(ctx, portID, channelID); err != nil {
		return storage.Progress{Status: storage.StatusFailed}, err
	}

	acks := k.packetIndex(portID, channelID).acks
	var processed uint64
	for {
		tail, found, err := acks.Tail(ctx)
		if err != nil {
			return storage.Progress{Status: storage.StatusFailed, Processed: processed}, err
		}
		if !found || tail.Key > sequence {
			break
		}
		if !budget.Allow() {
			return storage.Progress{Status: storage.StatusNeedsContinuation, Processed: processed}, nil
		}
		if _, err := acks.Remove(ctx, tail.Key); err != nil {
			return storage.Progress{Status: storage.StatusFailed, Processed: processed}, err
		}
		k.kvStore(ctx).Delete(host.PacketAcknowledgementKey(portID, channelID, tail.Key))
		processed++
	}

	k.Logger(ctx).Info("packet acknowledgements pruned", "port-id", portID, "channel-id", channelID, "pruned", processed)
	return storage.Progress{Status: storage.StatusCompleted, Processed: processed}, nil
}

// checkAuthority rejects signers other than the module authority.
func (k *Keeper) checkAuthority(signer string) error {
	if k.authority != signer {
		return errorsmod.Wrapf(ibcerrors.ErrUnauthorized, "expected %s, got %s", k.authority, signer)
	}
	return nil
}

// maintenanceBudget bounds a maintenance message to the configured fraction
// of the gas limit of ctx.
func (k *Keeper) maintenanceBudget(ctx sdk.Context) storage.Budget {
	params := k.GetParams(ctx)
	return storage.NewGasBudget(ctx.GasMeter(), params.GasSafetyNumerator, params.GasSafetyDenominator)
}

// UpdateParams defines a rpc handler method for MsgUpdateParams.
func (k MsgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := k.checkAuthority(msg.Signer); err != nil {
		return nil, err
	}

	if err := msg.Params.Validate(); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	k.SetParams(ctx, msg.Params)
	k.Logger(ctx).Info("params updated", "params", msg.Params.String())

	return &types.MsgUpdateParamsResponse{}, nil
}

// ShrinkClientHistory defines a rpc handler method for MsgShrinkClientHistory.
func (k MsgServer) ShrinkClientHistory(goCtx context.Context, msg *types.MsgShrinkClientHistory) (*types.MsgMaintenanceResponse, error) {
	return k.maintain(goCtx, msg.Signer, func(ctx sdk.Context, budget storage.Budget) (storage.Progress, error) {
		return k.Keeper.ShrinkClientHistory(ctx, msg.ClientId, budget)
	})
}

// ClearClientHistory defines a rpc handler method for MsgClearClientHistory.
func (k MsgServer) ClearClientHistory(goCtx context.Context, msg *types.MsgClearClientHistory) (*types.MsgMaintenanceResponse, error) {
	return k.maintain(goCtx, msg.Signer, func(ctx sdk.Context, budget storage.Budget) (storage.Progress, error) {
		return k.Keeper.ClearClientHistory(ctx, msg.ClientId, budget)
	})
}

// PruneEventHistory defines a rpc handler method for MsgPruneEventHistory.
func (k MsgServer) PruneEventHistory(goCtx context.Context, msg *types.MsgPruneEventHistory) (*types.MsgMaintenanceResponse, error) {
	return k.maintain(goCtx, msg.Signer, k.Keeper.PruneEventHistory)
}

// PruneReceipts defines a rpc handler method for MsgPruneReceipts.
func (k MsgServer) PruneReceipts(goCtx context.Context, msg *types.MsgPruneReceipts) (*types.MsgMaintenanceResponse, error) {
	return k.maintain(goCtx, msg.Signer, func(ctx sdk.Context, budget storage.Budget) (storage.Progress, error) {
		return k.Keeper.PruneReceipts(ctx, msg.PortId, msg.ChannelId, msg.Sequence, budget)
	})
}

// PruneAcknowledgements defines a rpc handler method for MsgPruneAcknowledgements.
func (k MsgServer) PruneAcknowledgements(goCtx context.Context, msg *types.MsgPruneAcknowledgements) (*types.MsgMaintenanceResponse, error) {
	return k.maintain(goCtx, msg.Signer, func(ctx sdk.Context, budget storage.Budget) (storage.Progress, error) {
		return k.Keeper.PruneAcknowledgements(ctx, msg.PortId, msg.ChannelId, msg.Sequence, budget)
	})
}

// maintain runs op for the authority under the gas budget of the message.
func (k MsgServer) maintain(
	goCtx context.Context, signer string,
	op func(sdk.Context, storage.Budget) (storage.Progress, error),
) (*types.MsgMaintenanceResponse, error) {
	if err := k.checkAuthority(signer); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	progress, err := op(ctx, k.maintenanceBudget(ctx))
	if err != nil {
		return nil, err
	}
	return &types.MsgMaintenanceResponse{Progress: progress}, nil
}
