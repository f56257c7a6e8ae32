package types

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
	yaml "gopkg.in/yaml.v2"

	collcodec "cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"

	servertypes "github.com/cosmos/cosmos-sdk/server/types"

	"github.com/ibcstore/ibc-store/internal/codec"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

const (
	// DefaultConsensusHistoryLength is the number of consensus states retained per client.
	DefaultConsensusHistoryLength uint64 = 256
	// DefaultEventHistoryLength is the number of host heights with retained IBC events.
	DefaultEventHistoryLength uint64 = 1024
	// DefaultTimePerBlock is the default value for maximum expected time per block (in nanoseconds).
	DefaultTimePerBlock = 30 * time.Second

	// DefaultGasSafetyNumerator and DefaultGasSafetyDenominator bound resumable
	// maintenance to 80% of the gas limit.
	DefaultGasSafetyNumerator   uint64 = 4
	DefaultGasSafetyDenominator uint64 = 5
)

// Keys read from the application options, typically app.toml.
const (
	FlagAllowedClients          = "ibc-store.allowed-clients"
	FlagConsensusHistoryLength  = "ibc-store.consensus-history-length"
	FlagEventHistoryLength      = "ibc-store.event-history-length"
	FlagMaxExpectedTimePerBlock = "ibc-store.max-expected-time-per-block"
)

// Params defines the set of IBC store parameters.
type Params struct {
	// AllowedClients defines the list of allowed client state types.
	AllowedClients []string `json:"allowed_clients" yaml:"allowed_clients"`
	// ConsensusHistoryLength bounds the consensus states kept per client, 0 meaning unbounded.
	ConsensusHistoryLength uint64 `json:"consensus_history_length" yaml:"consensus_history_length"`
	// EventHistoryLength bounds the heights kept in the event history, 0 meaning unbounded.
	EventHistoryLength uint64 `json:"event_history_length" yaml:"event_history_length"`
	// MaxExpectedTimePerBlock is used to calculate the block delay of a connection
	// from its time delay, in nanoseconds.
	MaxExpectedTimePerBlock uint64 `json:"max_expected_time_per_block" yaml:"max_expected_time_per_block"`
	// GasSafetyNumerator / GasSafetyDenominator is the fraction of the gas limit
	// resumable operations may consume before yielding.
	GasSafetyNumerator   uint64 `json:"gas_safety_numerator" yaml:"gas_safety_numerator"`
	GasSafetyDenominator uint64 `json:"gas_safety_denominator" yaml:"gas_safety_denominator"`
}

// NewParams creates a new parameter configuration for the IBC store.
func NewParams(
	allowedClients []string, consensusHistoryLength, eventHistoryLength, maxExpectedTimePerBlock uint64,
) Params {
	return Params{
		AllowedClients:          allowedClients,
		ConsensusHistoryLength:  consensusHistoryLength,
		EventHistoryLength:      eventHistoryLength,
		MaxExpectedTimePerBlock: maxExpectedTimePerBlock,
		GasSafetyNumerator:      DefaultGasSafetyNumerator,
		GasSafetyDenominator:    DefaultGasSafetyDenominator,
	}
}

// DefaultParams is the default parameter configuration for the IBC store.
func DefaultParams() Params {
	return NewParams(
		[]string{exported.Tendermint},
		DefaultConsensusHistoryLength,
		DefaultEventHistoryLength,
		uint64(DefaultTimePerBlock),
	)
}

// ParamsFromAppOptions overrides the defaults with the values set in appOpts.
// Unset options keep their default.
func ParamsFromAppOptions(appOpts servertypes.AppOptions) Params {
	params := DefaultParams()
	if appOpts == nil {
		return params
	}

	if v := appOpts.Get(FlagAllowedClients); v != nil {
		params.AllowedClients = cast.ToStringSlice(v)
	}
	if v := appOpts.Get(FlagConsensusHistoryLength); v != nil {
		params.ConsensusHistoryLength = cast.ToUint64(v)
	}
	if v := appOpts.Get(FlagEventHistoryLength); v != nil {
		params.EventHistoryLength = cast.ToUint64(v)
	}
	if v := appOpts.Get(FlagMaxExpectedTimePerBlock); v != nil {
		params.MaxExpectedTimePerBlock = uint64(cast.ToDuration(v))
	}
	return params
}

// Validate checks that the given parameters are valid.
func (p Params) Validate() error {
	if err := validateClients(p.AllowedClients); err != nil {
		return err
	}
	if p.MaxExpectedTimePerBlock == 0 {
		return errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "MaxExpectedTimePerBlock cannot be zero")
	}
	if p.GasSafetyDenominator == 0 {
		return errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "gas safety denominator cannot be zero")
	}
	if p.GasSafetyNumerator == 0 || p.GasSafetyNumerator > p.GasSafetyDenominator {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "gas safety fraction must be within (0, 1], got %d/%d", p.GasSafetyNumerator, p.GasSafetyDenominator)
	}
	return nil
}

// IsAllowedClient checks if the given client type is registered on the allowlist.
func (p Params) IsAllowedClient(clientType string) bool {
	return slices.Contains(p.AllowedClients, clientType)
}

// String implements the Stringer interface.
func (p Params) String() string {
	out, _ := yaml.Marshal(p)
	return string(out)
}

// Marshal encodes the params for storage.
func (p Params) Marshal() []byte {
	return codec.NewEncoder().
		Strings(1, p.AllowedClients).
		Uint64(2, p.ConsensusHistoryLength).
		Uint64(3, p.EventHistoryLength).
		Uint64(4, p.MaxExpectedTimePerBlock).
		Uint64(5, p.GasSafetyNumerator).
		Uint64(6, p.GasSafetyDenominator).
		Encoded()
}

// Unmarshal decodes params encoded by Marshal.
func (p *Params) Unmarshal(bz []byte) error {
	*p = Params{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.AppendText(&p.AllowedClients)
		case 2:
			return f.Uint64(&p.ConsensusHistoryLength)
		case 3:
			return f.Uint64(&p.EventHistoryLength)
		case 4:
			return f.Uint64(&p.MaxExpectedTimePerBlock)
		case 5:
			return f.Uint64(&p.GasSafetyNumerator)
		case 6:
			return f.Uint64(&p.GasSafetyDenominator)
		}
		return nil
	})
}

// ParamsValue stores Params with the Marshal encoding.
var ParamsValue collcodec.ValueCodec[Params] = paramsValue{}

type paramsValue struct{}

func (paramsValue) Encode(p Params) ([]byte, error) { return p.Marshal(), nil }

func (paramsValue) Decode(bz []byte) (Params, error) {
	var p Params
	if err := p.Unmarshal(bz); err != nil {
		return Params{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "params: %v", err)
	}
	return p, nil
}

func (paramsValue) EncodeJSON(p Params) ([]byte, error) { return json.Marshal(p) }

func (paramsValue) DecodeJSON(bz []byte) (Params, error) {
	var p Params
	err := json.Unmarshal(bz, &p)
	return p, err
}

func (paramsValue) Stringify(p Params) string { return p.String() }

func (paramsValue) ValueType() string { return "ibcstore/params" }

// validateClients checks that the given clients are not blank and there are no duplicates.
func validateClients(clients []string) error {
	foundClients := make(map[string]bool, len(clients))
	for i, clientType := range clients {
		if strings.TrimSpace(clientType) == "" {
			return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "client type %d cannot be blank", i)
		}
		if foundClients[clientType] {
			return fmt.Errorf("duplicate client type: %s", clientType)
		}
		foundClients[clientType] = true
	}
	return nil
}
