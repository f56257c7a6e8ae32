package tendermint

import (
	"strings"
	"time"

	ics23 "github.com/cosmos/ics23/go"

	errorsmod "cosmossdk.io/errors"

	"github.com/cometbft/cometbft/light"
	cmttypes "github.com/cometbft/cometbft/types"

	"github.com/ibcstore/ibc-store/internal/codec"
	clienttypes "github.com/ibcstore/ibc-store/modules/core/02-client/types"
	commitmenttypes "github.com/ibcstore/ibc-store/modules/core/23-commitment/types"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

// ClientState from Tendermint tracks the current validator set, latest height,
// and a possible frozen height.
type ClientState struct {
	ChainId    string   `json:"chain_id" yaml:"chain_id"`
	TrustLevel Fraction `json:"trust_level" yaml:"trust_level"`
	// duration of the period since the LatestTimestamp during which the
	// submitted headers are valid for upgrade
	TrustingPeriod time.Duration `json:"trusting_period" yaml:"trusting_period"`
	// duration of the staking unbonding period
	UnbondingPeriod time.Duration `json:"unbonding_period" yaml:"unbonding_period"`
	// defines how much new (untrusted) header's Time can drift into the future.
	MaxClockDrift time.Duration `json:"max_clock_drift" yaml:"max_clock_drift"`
	// Block height when the client was frozen due to a misbehaviour
	FrozenHeight clienttypes.Height `json:"frozen_height" yaml:"frozen_height"`
	// Latest height the client was updated to
	LatestHeight clienttypes.Height `json:"latest_height" yaml:"latest_height"`
	// Proof specifications used in verifying counterparty state
	ProofSpecs []*ics23.ProofSpec `json:"proof_specs" yaml:"proof_specs"`
	// Path at which next upgraded client will be committed.
	UpgradePath []string `json:"upgrade_path" yaml:"upgrade_path"`
}

// NewClientState creates a new ClientState instance
func NewClientState(
	chainID string, trustLevel Fraction,
	trustingPeriod, ubdPeriod, maxClockDrift time.Duration,
	latestHeight clienttypes.Height, specs []*ics23.ProofSpec,
	upgradePath []string,
) *ClientState {
	return &ClientState{
		ChainId:         chainID,
		TrustLevel:      trustLevel,
		TrustingPeriod:  trustingPeriod,
		UnbondingPeriod: ubdPeriod,
		MaxClockDrift:   maxClockDrift,
		LatestHeight:    latestHeight,
		FrozenHeight:    clienttypes.ZeroHeight(),
		ProofSpecs:      specs,
		UpgradePath:     upgradePath,
	}
}

// GetChainID returns the chain-id
func (cs ClientState) GetChainID() string {
	return cs.ChainId
}

// ClientType is tendermint.
func (ClientState) ClientType() string {
	return exported.Tendermint
}

// GetLatestHeight returns latest block height.
func (cs ClientState) GetLatestHeight() clienttypes.Height {
	return cs.LatestHeight
}

// Status returns the status of the tendermint client.
// The client may be:
// - Active: FrozenHeight is zero and client is not expired
// - Frozen: Frozen Height is not zero
// - Expired: the latest consensus state timestamp + trusting period <= current time
//
// A frozen client will become expired, so the Frozen status
// has higher precedence.
func (cs ClientState) Status(ctx ClientValidationContext, clientID string) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	// get latest consensus state to check for expiry
	consState, err := ctx.ConsensusState(clientID, cs.LatestHeight)
	if err != nil {
		// if the client state does not have an associated consensus state for its latest height
		// then it must be expired
		return exported.Expired
	}

	if cs.IsExpired(consState.Timestamp, ctx.HostTimestamp()) {
		return exported.Expired
	}

	return exported.Active
}

// IsExpired returns whether or not the client has passed the trusting period since the last
// update (in which case no headers are considered valid).
func (cs ClientState) IsExpired(latestTimestamp, now time.Time) bool {
	expirationTime := latestTimestamp.Add(cs.TrustingPeriod)
	return !expirationTime.After(now)
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return errorsmod.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}

	// NOTE: the value of cmttypes.MaxChainIDLen may change in the future.
	// If this occurs, the code here must account for potential difference
	// between the tendermint version being run by the counterparty chain
	// and the tendermint version used by this light client.
	if len(cs.ChainId) > cmttypes.MaxChainIDLen {
		return errorsmod.Wrapf(ErrInvalidChainID, "chainID is too long; got: %d, max: %d", len(cs.ChainId), cmttypes.MaxChainIDLen)
	}

	if err := light.ValidateTrustLevel(cs.TrustLevel.ToTendermint()); err != nil {
		return errorsmod.Wrap(ErrInvalidTrustLevel, err.Error())
	}
	if cs.TrustingPeriod <= 0 {
		return errorsmod.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.UnbondingPeriod <= 0 {
		return errorsmod.Wrap(ErrInvalidUnbondingPeriod, "unbonding period must be greater than zero")
	}
	if cs.MaxClockDrift <= 0 {
		return errorsmod.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}

	// the latest height revision number must match the chain id revision number
	if cs.LatestHeight.RevisionNumber != clienttypes.ParseChainID(cs.ChainId) {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight,
			"latest height revision number must match chain id revision number (%d != %d)", cs.LatestHeight.RevisionNumber, clienttypes.ParseChainID(cs.ChainId))
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return errorsmod.Wrap(ErrInvalidHeaderHeight, "tendermint client's latest height revision height cannot be zero")
	}
	if cs.TrustingPeriod >= cs.UnbondingPeriod {
		return errorsmod.Wrapf(
			ErrInvalidTrustingPeriod,
			"trusting period (%s) should be < unbonding period (%s)", cs.TrustingPeriod, cs.UnbondingPeriod,
		)
	}

	if cs.ProofSpecs == nil {
		return errorsmod.Wrap(ErrInvalidProofSpecs, "proof specs cannot be nil for tm client")
	}
	for i, spec := range cs.ProofSpecs {
		if spec == nil {
			return errorsmod.Wrapf(ErrInvalidProofSpecs, "proof spec cannot be nil at index: %d", i)
		}
	}
	// UpgradePath may be empty, but if it isn't, each key must be non-empty
	for i, k := range cs.UpgradePath {
		if strings.TrimSpace(k) == "" {
			return errorsmod.Wrapf(clienttypes.ErrInvalidClient, "key in upgrade path at index %d cannot be empty", i)
		}
	}

	return nil
}

// VerifyMembership is a generic proof verification method which verifies a proof of the existence of a value at a given CommitmentPath at the specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
// If a zero proof height is passed in, it will fail to retrieve the associated consensus state.
func (cs ClientState) VerifyMembership(
	ctx ClientValidationContext,
	clientID string,
	height clienttypes.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path commitmenttypes.MerklePath,
	value []byte,
) error {
	merkleProof, consensusState, err := cs.proofContext(ctx, clientID, height, delayTimePeriod, delayBlockPeriod, proof)
	if err != nil {
		return err
	}

	return merkleProof.VerifyMembership(cs.ProofSpecs, consensusState.GetRoot(), path, value)
}

// VerifyNonMembership is a generic proof verification method which verifies the absence of a given CommitmentPath at a specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
// If a zero proof height is passed in, it will fail to retrieve the associated consensus state.
func (cs ClientState) VerifyNonMembership(
	ctx ClientValidationContext,
	clientID string,
	height clienttypes.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path commitmenttypes.MerklePath,
) error {
	merkleProof, consensusState, err := cs.proofContext(ctx, clientID, height, delayTimePeriod, delayBlockPeriod, proof)
	if err != nil {
		return err
	}

	return merkleProof.VerifyNonMembership(cs.ProofSpecs, consensusState.GetRoot(), path)
}

// proofContext performs the checks shared by membership and non-membership
// verification and returns the decoded proof with the consensus state it is
// verified against.
func (cs ClientState) proofContext(
	ctx ClientValidationContext,
	clientID string,
	height clienttypes.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
) (commitmenttypes.MerkleProof, *ConsensusState, error) {
	if cs.LatestHeight.LT(height) {
		return commitmenttypes.MerkleProof{}, nil, errorsmod.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%s < %s), please ensure the client has been updated", cs.LatestHeight, height,
		)
	}

	if err := verifyDelayPeriodPassed(ctx, clientID, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return commitmenttypes.MerkleProof{}, nil, err
	}

	var merkleProof commitmenttypes.MerkleProof
	if err := merkleProof.Unmarshal(proof); err != nil {
		return commitmenttypes.MerkleProof{}, nil, errorsmod.Wrap(commitmenttypes.ErrInvalidProof, "failed to unmarshal proof into ICS 23 commitment merkle proof")
	}

	consensusState, err := ctx.ConsensusState(clientID, height)
	if err != nil {
		return commitmenttypes.MerkleProof{}, nil, errorsmod.Wrap(err, "please ensure the proof was constructed against a height that exists on the client")
	}

	return merkleProof, consensusState, nil
}

// verifyDelayPeriodPassed will ensure that at least delayTimePeriod amount of time and delayBlockPeriod number of blocks have passed
// since consensus state was submitted before allowing verification to continue.
func verifyDelayPeriodPassed(ctx ClientValidationContext, clientID string, proofHeight clienttypes.Height, delayTimePeriod, delayBlockPeriod uint64) error {
	if delayTimePeriod != 0 {
		// check that executing chain's timestamp has passed consensusState's processed time + delay time period
		processedTime, err := ctx.ClientUpdateTime(clientID, proofHeight)
		if err != nil {
			return errorsmod.Wrapf(ErrProcessedTimeNotFound, "processed time not found for height: %s: %v", proofHeight, err)
		}

		currentTimestamp := uint64(ctx.HostTimestamp().UnixNano())
		validTime := processedTime + delayTimePeriod

		// NOTE: delay time period is inclusive, so if currentTimestamp is validTime, then we return no error
		if currentTimestamp < validTime {
			return errorsmod.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until time: %d, current time: %d",
				validTime, currentTimestamp)
		}
	}

	if delayBlockPeriod != 0 {
		// check that executing chain's height has passed consensusState's processed height + delay block period
		processedHeight, err := ctx.ClientUpdateHeight(clientID, proofHeight)
		if err != nil {
			return errorsmod.Wrapf(ErrProcessedHeightNotFound, "processed height not found for height: %s: %v", proofHeight, err)
		}

		currentHeight := ctx.HostHeight()
		validHeight := clienttypes.NewHeight(processedHeight.GetRevisionNumber(), processedHeight.GetRevisionHeight()+delayBlockPeriod)

		// NOTE: delay block period is inclusive, so if currentHeight is validHeight, then we return no error
		if currentHeight.LT(validHeight) {
			return errorsmod.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until height: %s, current height: %s",
				validHeight, currentHeight)
		}
	}

	return nil
}

// Marshal encodes the client state as ibc.lightclients.tendermint.v1.ClientState.
func (cs ClientState) Marshal() ([]byte, error) {
	specs := make([][]byte, len(cs.ProofSpecs))
	for i, spec := range cs.ProofSpecs {
		bz, err := spec.Marshal()
		if err != nil {
			return nil, errorsmod.Wrapf(ErrInvalidProofSpecs, "proof spec %d: %v", i, err)
		}
		specs[i] = bz
	}

	return codec.NewEncoder().
		String(1, cs.ChainId).
		Message(2, cs.TrustLevel.Marshal()).
		Message(3, marshalDuration(cs.TrustingPeriod)).
		Message(4, marshalDuration(cs.UnbondingPeriod)).
		Message(5, marshalDuration(cs.MaxClockDrift)).
		Message(6, cs.FrozenHeight.Marshal()).
		Message(7, cs.LatestHeight.Marshal()).
		Messages(8, specs).
		Strings(9, cs.UpgradePath).
		Encoded(), nil
}

// Unmarshal decodes a client state encoded by Marshal.
func (cs *ClientState) Unmarshal(bz []byte) error {
	*cs = ClientState{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Text(&cs.ChainId)
		case 2:
			return f.Message(&cs.TrustLevel)
		case 3:
			return unmarshalDuration(f, &cs.TrustingPeriod)
		case 4:
			return unmarshalDuration(f, &cs.UnbondingPeriod)
		case 5:
			return unmarshalDuration(f, &cs.MaxClockDrift)
		case 6:
			return f.Message(&cs.FrozenHeight)
		case 7:
			return f.Message(&cs.LatestHeight)
		case 8:
			spec := new(ics23.ProofSpec)
			if err := f.Message(spec); err != nil {
				return err
			}
			cs.ProofSpecs = append(cs.ProofSpecs, spec)
		case 9:
			return f.AppendText(&cs.UpgradePath)
		}
		return nil
	})
}
