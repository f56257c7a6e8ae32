package telemetry

import (
	"strconv"

	"github.com/hashicorp/go-metrics"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/telemetry"

	"github.com/ibcstore/ibc-store/modules/apps/transfer/types"
	coremetrics "github.com/ibcstore/ibc-store/modules/core/metrics"
)

// ReportTransfer counts an outgoing transfer and gauges its amount. The token
// is native to this chain unless it last arrived over the source channel.
func ReportTransfer(sourcePort, sourceChannel, destinationPort, destinationChannel string, denom types.Denom, amount sdkmath.Int) {
	report(
		[]string{"tx", "msg", "ibc", "transfer"}, []string{"ibc", types.ModuleName, "send"},
		denom, amount,
		telemetry.NewLabel(coremetrics.LabelDestinationPort, destinationPort),
		telemetry.NewLabel(coremetrics.LabelDestinationChannel, destinationChannel),
		telemetry.NewLabel(coremetrics.LabelSource, strconv.FormatBool(!denom.HasPrefix(sourcePort, sourceChannel))),
	)
}

// ReportOnRecvPacket counts an incoming transfer of denom, as credited here.
// returning is set when the token was released from escrow.
func ReportOnRecvPacket(sourcePort, sourceChannel string, denom types.Denom, amount sdkmath.Int, returning bool) {
	report(
		[]string{"ibc", types.ModuleName, "packet", "receive"}, []string{"ibc", types.ModuleName, "receive"},
		denom, amount,
		telemetry.NewLabel(coremetrics.LabelSourcePort, sourcePort),
		telemetry.NewLabel(coremetrics.LabelSourceChannel, sourceChannel),
		telemetry.NewLabel(coremetrics.LabelSource, strconv.FormatBool(returning)),
	)
}

// report sets the amount gauge when it fits an int64 and bumps the counter.
func report(gauge, counter []string, denom types.Denom, amount sdkmath.Int, labels ...metrics.Label) {
	if amount.IsInt64() {
		telemetry.SetGaugeWithLabels(gauge, float32(amount.Int64()), []metrics.Label{telemetry.NewLabel(coremetrics.LabelDenom, denom.Path())})
	}
	telemetry.IncrCounterWithLabels(counter, 1, labels)
}
