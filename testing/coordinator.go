package ibctesting

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	servertypes "github.com/cosmos/cosmos-sdk/server/types"
)

var (
	ChainIDPrefix = "testchain"
	// to disable revision format, set ChainIDSuffix to ""
	ChainIDSuffix   = "-1"
	globalStartTime = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	TimeIncrement   = time.Second * 5
)

// Coordinator is a testing struct which contains N TestChain's. It handles keeping all chains
// in sync with regards to time.
type Coordinator struct {
	*testing.T

	CurrentTime time.Time
	Chains      map[string]*TestChain

	// AppOptions seed the genesis parameters of every chain. Nil keeps the
	// defaults.
	AppOptions servertypes.AppOptions
}

// NewCoordinator initializes Coordinator with N TestChain's running the mock
// application.
func NewCoordinator(t *testing.T, n int) *Coordinator {
	t.Helper()
	return NewCoordinatorWithApp(t, n, nil)
}

// NewCoordinatorWithApp initializes Coordinator with N TestChain's running the
// application built by newApp. A nil newApp binds the mock application.
func NewCoordinatorWithApp(t *testing.T, n int, newApp AppConstructor) *Coordinator {
	t.Helper()
	return NewCoordinatorWithAppOptions(t, n, newApp, nil)
}

// NewCoordinatorWithAppOptions initializes Coordinator with N TestChain's whose
// genesis parameters are read from appOpts.
func NewCoordinatorWithAppOptions(t *testing.T, n int, newApp AppConstructor, appOpts servertypes.AppOptions) *Coordinator {
	t.Helper()
	coord := &Coordinator{
		T:           t,
		CurrentTime: globalStartTime,
		Chains:      make(map[string]*TestChain),
		AppOptions:  appOpts,
	}

	for i := 1; i <= n; i++ {
		chainID := GetChainID(i)
		if newApp == nil {
			coord.Chains[chainID] = NewTestChain(t, coord, chainID)
		} else {
			coord.Chains[chainID] = NewTestChainWithApp(t, coord, chainID, newApp)
		}
	}

	return coord
}

// IncrementTime iterates through all the TestChain's and increments their current header time
// by 5 seconds.
func (coord *Coordinator) IncrementTime() {
	coord.IncrementTimeBy(TimeIncrement)
}

// IncrementTimeBy iterates through all the TestChain's and increments their current header time
// by specified time.
func (coord *Coordinator) IncrementTimeBy(increment time.Duration) {
	coord.CurrentTime = coord.CurrentTime.Add(increment).UTC()
	coord.UpdateTime()
}

// UpdateTime updates all clocks for the TestChains to the current global time.
func (coord *Coordinator) UpdateTime() {
	for _, chain := range coord.Chains {
		chain.ProposedHeader.Time = coord.CurrentTime.UTC()
	}
}

// GetChain returns the TestChain using the given chainID and returns an error if it does
// not exist.
func (coord *Coordinator) GetChain(chainID string) *TestChain {
	chain, found := coord.Chains[chainID]
	require.True(coord.T, found, fmt.Sprintf("%s chain does not exist", chainID))
	return chain
}

// GetChainID returns the chainID used for the provided index.
func GetChainID(index int) string {
	return ChainIDPrefix + strconv.Itoa(index) + ChainIDSuffix
}

// CommitNBlocks commits n blocks to state and updates the block height by 1 for each commit.
func (*Coordinator) CommitNBlocks(chain *TestChain, n uint64) {
	for i := uint64(0); i < n; i++ {
		chain.NextBlock()
	}
}
