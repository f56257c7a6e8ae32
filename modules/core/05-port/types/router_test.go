package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	porttypes "github.com/ibcstore/ibc-store/modules/core/05-port/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// noopModule accepts every callback.
type noopModule struct{}

func (noopModule) OnChanOpenInit(sdk.Context, channeltypes.Order, []string, string, string, channeltypes.Counterparty, string) (string, error) {
	return "", nil
}

func (noopModule) OnChanOpenTry(sdk.Context, channeltypes.Order, []string, string, string, channeltypes.Counterparty, string) (string, error) {
	return "", nil
}

func (noopModule) OnChanOpenAck(sdk.Context, string, string, string, string) error { return nil }

func (noopModule) OnChanOpenConfirm(sdk.Context, string, string) error { return nil }

func (noopModule) OnChanCloseInit(sdk.Context, string, string) error { return nil }

func (noopModule) OnChanCloseConfirm(sdk.Context, string, string) error { return nil }

func (noopModule) OnRecvPacket(sdk.Context, string, channeltypes.Packet, sdk.AccAddress) exported.Acknowledgement {
	return channeltypes.NewResultAcknowledgement([]byte{0x01})
}

func (noopModule) OnAcknowledgementPacket(sdk.Context, string, channeltypes.Packet, []byte, sdk.AccAddress) error {
	return nil
}

func (noopModule) OnTimeoutPacket(sdk.Context, string, channeltypes.Packet, sdk.AccAddress) error {
	return nil
}

func TestLookupModuleByPort(t *testing.T) {
	module, err := porttypes.LookupModuleByPort("transfer")
	require.NoError(t, err)
	require.Equal(t, porttypes.ModuleTransfer, module)
	require.Equal(t, "transfer", module.String())

	_, err = porttypes.LookupModuleByPort("interchain-accounts")
	require.ErrorIs(t, err, porttypes.ErrUnknownPort)
	require.ErrorIs(t, err, ibcerrors.ErrUnknownType)
}

func TestRouter(t *testing.T) {
	rtr := porttypes.NewRouter(noopModule{})

	require.True(t, rtr.HasRoute(porttypes.ModuleTransfer))

	cbs, err := rtr.GetRoute(porttypes.ModuleTransfer)
	require.NoError(t, err)
	require.Equal(t, noopModule{}, cbs)

	cbs, err = rtr.RouteByPort(porttypes.PortIDTransfer)
	require.NoError(t, err)
	require.NotNil(t, cbs)

	_, err = rtr.GetRoute(porttypes.Module(42))
	require.ErrorIs(t, err, porttypes.ErrRouteNotFound)
	require.ErrorIs(t, err, ibcerrors.ErrNotFound)

	_, err = rtr.RouteByPort("unknown")
	require.ErrorIs(t, err, porttypes.ErrUnknownPort)

	require.Panics(t, func() { rtr.AddRoute(porttypes.ModuleTransfer, noopModule{}) }, "duplicate route")
	require.Panics(t, func() { rtr.AddRoute(porttypes.Module(42), noopModule{}) }, "unknown module")

	require.False(t, rtr.Sealed())
	rtr.Seal()
	require.True(t, rtr.Sealed())
	require.Panics(t, func() { rtr.Seal() })
}

func TestNewRouterRequiresTransfer(t *testing.T) {
	require.Panics(t, func() { porttypes.NewRouter(nil) })
}
