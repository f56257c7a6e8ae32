package keeper

import (
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/storage"
	porttypes "github.com/ibcstore/ibc-store/modules/core/05-port/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	"github.com/ibcstore/ibc-store/modules/core/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

// Keeper owns the IBC store. It implements the validation and execution
// contexts of the client, connection, channel and packet state machines.
type Keeper struct {
	storeService corestore.KVStoreService
	router       *porttypes.Router
	verifier     ibctm.Verifier

	authority string

	Schema                 collections.Schema
	Params                 collections.Item[types.Params]
	NextClientSequence     collections.Sequence
	NextConnectionSequence collections.Sequence
	NextChannelSequence    collections.Sequence

	// eventHistory buckets the IBC events emitted at each host height.
	eventHistory *storage.Queue[uint64, types.EventList]
}

// NewKeeper creates a new ibc Keeper. The verifier checks Tendermint header
// signatures on client updates.
func NewKeeper(storeService corestore.KVStoreService, verifier ibctm.Verifier, authority string) *Keeper {
	if storeService == nil {
		panic(errors.New("cannot initialize IBC keeper: empty store service"))
	}

	if strings.TrimSpace(authority) == "" {
		panic(errors.New("authority must be non-empty"))
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService: storeService,
		verifier:     verifier,
		authority:    authority,

		Params:                 collections.NewItem(sb, collections.NewPrefix(host.ParamsKey()), "params", types.ParamsValue),
		NextClientSequence:     collections.NewSequence(sb, collections.NewPrefix(host.KeyNextClientSequence), "next_client_sequence"),
		NextConnectionSequence: collections.NewSequence(sb, collections.NewPrefix(host.KeyNextConnectionSequence), "next_connection_sequence"),
		NextChannelSequence:    collections.NewSequence(sb, collections.NewPrefix(host.KeyNextChannelSequence), "next_channel_sequence"),
		eventHistory: storage.NewQueue(
			sb, collections.NewPrefix(host.EventHistoryPrefixKey()), "event_history", collections.Uint64Key, types.EventListValue,
		),
	}
	k.Schema = mustBuild(sb)
	return k
}

// SetRouter sets the Router in IBC Keeper and seals it. The method panics if
// there is an existing router that's already sealed.
func (k *Keeper) SetRouter(rtr *porttypes.Router) {
	if k.router != nil && k.router.Sealed() {
		panic(errors.New("cannot reset a sealed router"))
	}

	k.router = rtr
	k.router.Seal()
}

// Router returns the application router.
func (k *Keeper) Router() *porttypes.Router {
	return k.router
}

// GetAuthority returns the ibc module's authority.
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (*Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", exported.ModuleName))
}

// route returns the application bound to portID.
func (k *Keeper) route(portID string) (porttypes.IBCModule, error) {
	if k.router == nil {
		return nil, errorsmod.Wrap(porttypes.ErrRouteNotFound, "router not set")
	}
	return k.router.RouteByPort(portID)
}
