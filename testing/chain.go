package ibctesting

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	porttypes "github.com/ibcstore/ibc-store/modules/core/05-port/types"
	"github.com/ibcstore/ibc-store/modules/core/exported"
	"github.com/ibcstore/ibc-store/modules/core/keeper"
	"github.com/ibcstore/ibc-store/modules/core/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
	"github.com/ibcstore/ibc-store/testing/mock"
)

// TestChain is a testing struct that wraps an IBC keeper over a committing
// multistore. It keeps track of the last committed header so counterparty
// clients can be created and updated, and queries ics23 proofs against the
// committed versions.
//
// The app hash of a header is the commit hash of the same height, so a proof
// queried at height h verifies against the consensus state stored at h.
type TestChain struct {
	testing.TB

	Coordinator *Coordinator
	ChainID     string

	Keeper    *keeper.Keeper
	MsgServer keeper.MsgServer
	App       *mock.IBCApp // nil when another application is bound
	Verifier  *mock.Verifier

	ProposedHeader cmtproto.Header // proposed (uncommitted) header for the current block height
	LastHeader     *ibctm.Header   // header of the last committed block

	SenderAddress string

	// Logger is attached to every context returned by GetContext.
	Logger log.Logger

	cms      *rootmulti.Store
	storeKey *storetypes.KVStoreKey
}

// AppStoreKey names the store mounted next to the IBC store for the
// application bound to the transfer port.
const AppStoreKey = "app"

// AppConstructor binds an application to the transfer port of a chain. The
// application keeps its state in storeService. It returns the callbacks and,
// optionally, the handler of the application messages.
type AppConstructor func(k *keeper.Keeper, storeService corestore.KVStoreService) (porttypes.IBCModule, keeper.AppMsgHandler)

// MockAppConstructor binds app behind the mock IBC module.
func MockAppConstructor(app *mock.IBCApp) AppConstructor {
	return func(*keeper.Keeper, corestore.KVStoreService) (porttypes.IBCModule, keeper.AppMsgHandler) {
		return mock.NewIBCModule(app), nil
	}
}

// NewTestChain initializes a new test chain with a mock application bound to
// the transfer port.
func NewTestChain(tb testing.TB, coord *Coordinator, chainID string) *TestChain {
	tb.Helper()
	app := &mock.IBCApp{}
	chain := NewTestChainWithApp(tb, coord, chainID, MockAppConstructor(app))
	chain.App = app
	return chain
}

// NewTestChainWithApp initializes a new test chain with the application built
// by newApp bound to the transfer port.
func NewTestChainWithApp(tb testing.TB, coord *Coordinator, chainID string, newApp AppConstructor) *TestChain {
	tb.Helper()

	storeKey := storetypes.NewKVStoreKey(exported.StoreKey)
	cms := rootmulti.NewStore(dbm.NewMemDB(), log.NewNopLogger(), metrics.NewNoOpMetrics())
	appStoreKey := storetypes.NewKVStoreKey(AppStoreKey)
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(appStoreKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(tb, cms.LoadLatestVersion())

	verifier := &mock.Verifier{}
	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), verifier, Authority)

	module, handler := newApp(k, runtime.NewKVStoreService(appStoreKey))
	k.SetRouter(porttypes.NewRouter(module))

	var apps []keeper.AppMsgHandler
	if handler != nil {
		apps = append(apps, handler)
	}

	sender := sdk.AccAddress(bytes.Repeat([]byte{byte(len(coord.Chains) + 1)}, 20))

	chain := &TestChain{
		TB:          tb,
		Coordinator: coord,
		ChainID:     chainID,
		Keeper:      k,
		MsgServer:   keeper.NewMsgServerImpl(k, apps...),
		Verifier:    verifier,
		ProposedHeader: cmtproto.Header{
			ChainID: chainID,
			Height:  1,
			Time:    coord.CurrentTime.UTC(),
		},
		SenderAddress: sender.String(),
		Logger:        log.NewNopLogger(),
		cms:           cms,
		storeKey:      storeKey,
	}

	require.NoError(tb, k.InitGenesis(chain.GetContext(), types.ParamsFromAppOptions(coord.AppOptions)))

	// commit genesis so the chain always has a header to create clients from
	chain.NextBlock()

	return chain
}

// GetContext returns the current context for the application.
func (chain *TestChain) GetContext() sdk.Context {
	return sdk.NewContext(chain.cms, chain.ProposedHeader, false, chain.Logger)
}

// CurrentHeight returns the height of the block being built.
func (chain *TestChain) CurrentHeight() clienttypes.Height {
	return clienttypes.NewHeight(clienttypes.ParseChainID(chain.ChainID), uint64(chain.ProposedHeader.Height))
}

// LatestCommittedHeight returns the height of the last committed block.
func (chain *TestChain) LatestCommittedHeight() clienttypes.Height {
	return chain.LastHeader.GetHeight()
}

// NextBlock commits the current block, records its header and starts the next
// block. The coordinator time is advanced so consecutive blocks never share a
// timestamp.
func (chain *TestChain) NextBlock() {
	commitID := chain.cms.Commit()
	require.Equal(chain.TB, chain.ProposedHeader.Height, commitID.Version)

	chain.LastHeader = chain.header(commitID.Hash)
	chain.Coordinator.IncrementTime()

	chain.ProposedHeader = cmtproto.Header{
		ChainID: chain.ChainID,
		Height:  chain.ProposedHeader.Height + 1,
		Time:    chain.Coordinator.CurrentTime,
		AppHash: commitID.Hash,
	}
}

func (chain *TestChain) header(appHash []byte) *ibctm.Header {
	height := chain.ProposedHeader.Height
	blockHash := sha256.Sum256(append([]byte(fmt.Sprintf("%s/%d/", chain.ChainID, height)), appHash...))

	return &ibctm.Header{
		SignedHeader: &cmtproto.SignedHeader{
			Header: &cmtproto.Header{
				ChainID:            chain.ChainID,
				Height:             height,
				Time:               chain.ProposedHeader.Time,
				AppHash:            appHash,
				NextValidatorsHash: make([]byte, 32),
			},
			Commit: &cmtproto.Commit{
				Height:  height,
				BlockID: cmtproto.BlockID{Hash: blockHash[:]},
			},
		},
		ValidatorSet: &cmtproto.ValidatorSet{},
	}
}

// QueryProofAtHeight performs an abci query with the given key and returns the
// marshalled merkle proof together with the height it was queried at.
func (chain *TestChain) QueryProofAtHeight(key []byte, height uint64) ([]byte, clienttypes.Height) {
	res, err := chain.cms.Query(&storetypes.RequestQuery{
		Path:   fmt.Sprintf("/%s/key", exported.StoreKey),
		Data:   key,
		Height: int64(height),
		Prove:  true,
	})
	require.NoError(chain.TB, err)

	merkleProof, err := commitmenttypes.ConvertProofs(res.ProofOps)
	require.NoError(chain.TB, err)

	proof, err := merkleProof.Marshal()
	require.NoError(chain.TB, err)

	return proof, clienttypes.NewHeight(clienttypes.ParseChainID(chain.ChainID), uint64(res.Height))
}

// SendMsgs delivers the messages as a single batch and commits the block. The
// first message error is returned.
func (chain *TestChain) SendMsgs(msgs ...sdk.HasValidateBasic) ([]keeper.MsgResult, error) {
	results, err := chain.MsgServer.Deliver(chain.GetContext(), msgs)
	chain.NextBlock()

	for _, res := range results {
		if res.Err != nil {
			return results, res.Err
		}
	}
	require.NoError(chain.TB, err)
	return results, nil
}

// GetClientLatestHeight returns the latest height of the client.
func (chain *TestChain) GetClientLatestHeight(clientID string) clienttypes.Height {
	clientState, err := chain.Keeper.ClientState(chain.GetContext(), clientID)
	require.NoError(chain.TB, err)
	return clientState.LatestHeight()
}
