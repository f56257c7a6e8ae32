package storage

import (
	"math"

	storetypes "cosmossdk.io/store/types"
)

// Budget is consulted before every unit of work of a resumable operation.
type Budget interface {
	Allow() bool
}

// UnlimitedBudget never stops an operation.
var UnlimitedBudget Budget = unlimitedBudget{}

type unlimitedBudget struct{}

func (unlimitedBudget) Allow() bool { return true }

// StepBudget allows a fixed number of units of work.
type StepBudget struct {
	remaining int
}

// NewStepBudget returns a budget allowing n units of work.
func NewStepBudget(n int) *StepBudget {
	return &StepBudget{remaining: n}
}

// Allow implements Budget.
func (b *StepBudget) Allow() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// GasBudget stops an operation once the given fraction of the gas limit has been
// consumed, leaving the remainder for the caller to persist progress and return.
type GasBudget struct {
	meter     storetypes.GasMeter
	threshold storetypes.Gas
}

// NewGasBudget returns a budget bounded by numerator/denominator of the meter limit.
func NewGasBudget(meter storetypes.GasMeter, numerator, denominator uint64) *GasBudget {
	limit := meter.Limit()
	var threshold uint64
	switch {
	case denominator == 0:
		threshold = limit
	case limit > math.MaxUint64/max(numerator, 1):
		threshold = limit / denominator * numerator
	default:
		threshold = limit * numerator / denominator
	}
	return &GasBudget{meter: meter, threshold: threshold}
}

// Allow implements Budget.
func (b *GasBudget) Allow() bool {
	return b.meter.GasConsumedToLimit() < b.threshold
}

// Status is the outcome of a resumable operation.
type Status uint8

const (
	// StatusCompleted means no further calls are required.
	StatusCompleted Status = iota
	// StatusNeedsContinuation means the budget ran out and the operation must be called again.
	StatusNeedsContinuation
	// StatusFailed accompanies a non-nil error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "COMPLETED"
	case StatusNeedsContinuation:
		return "NEEDS_CONTINUATION"
	default:
		return "FAILED"
	}
}

// Checkpoint is the persisted index range a resumed operation continues from.
type Checkpoint struct {
	StartIndex uint64
	EndIndex   uint64
}

// Progress reports how far a resumable operation got.
type Progress struct {
	Status     Status
	Checkpoint Checkpoint
	// Processed counts the entries removed by this call.
	Processed uint64
}

// Done reports whether the operation finished.
func (p Progress) Done() bool {
	return p.Status == StatusCompleted
}
