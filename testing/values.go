/*
This file contains the variables, constants, and default values
used in the testing package and commonly defined in tests.
*/
package ibctesting

import (
	"time"

	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	connectiontypes "github.com/ibcstore/ibc-store/modules/core/03-connection/types"
	ibctm "github.com/ibcstore/ibc-store/modules/light-clients/07-tendermint"
)

const (
	FirstClientID     = "07-tendermint-0"
	FirstChannelID    = "channel-0"
	FirstConnectionID = "connection-0"

	// Default params constants used to create a TM client
	TrustingPeriod     time.Duration = time.Hour * 24 * 7 * 2
	UnbondingPeriod    time.Duration = time.Hour * 24 * 7 * 3
	MaxClockDrift      time.Duration = time.Second * 10
	DefaultDelayPeriod uint64        = 0

	// Authority is the bech32 address allowed to run maintenance messages on
	// every test chain.
	Authority = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"
)

var (
	DefaultTrustLevel = ibctm.DefaultTrustLevel

	DefaultTimeoutHeight = clienttypes.NewHeight(1, 1000)

	ConnectionVersion = connectiontypes.GetCompatibleVersions()[0]

	UpgradePath = []string{"upgrade", "upgradedIBCState"}

	MockPacketData = []byte("mock packet data")
)
