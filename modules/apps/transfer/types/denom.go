package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	collcodec "cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	cmttypes "github.com/cometbft/cometbft/types"

	channeltypes "github.com/ibcstore/ibc-store/modules/core/04-channel/types"
	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// Denom is a base denomination with the hops it crossed to get here, the
// latest hop first. A denom without hops is native to this chain.
type Denom struct {
	Base  string `json:"base"`
	Trace []Hop  `json:"trace"`
}

func NewDenom(base string, trace ...Hop) Denom {
	return Denom{Base: base, Trace: trace}
}

// Validate checks the base is not blank and every hop is well formed. The base
// itself follows the rules of its origin chain and is not checked further.
func (d Denom) Validate() error {
	if strings.TrimSpace(d.Base) == "" {
		return errorsmod.Wrap(ErrInvalidDenomForTransfer, "blank base denomination")
	}
	for i, hop := range d.Trace {
		if err := hop.Validate(); err != nil {
			return errorsmod.Wrapf(err, "trace hop %d", i)
		}
	}
	return nil
}

func (d Denom) IsNative() bool {
	return len(d.Trace) == 0
}

// Path joins the hops and the base with slashes.
func (d Denom) Path() string {
	parts := make([]string, 0, len(d.Trace)+1)
	for _, hop := range d.Trace {
		parts = append(parts, hop.String())
	}
	return strings.Join(append(parts, d.Base), "/")
}

// Hash is the SHA-256 of Path.
func (d Denom) Hash() cmtbytes.HexBytes {
	sum := sha256.Sum256([]byte(d.Path()))
	return sum[:]
}

// IBCDenom is the name the token carries in the bank of this chain: the base
// for a native token, ibc/{Hash} for a voucher.
func (d Denom) IBCDenom() string {
	if d.IsNative() {
		return d.Base
	}
	return DenomPrefix + "/" + d.Hash().String()
}

// HasPrefix reports whether the latest hop is portID/channelID.
func (d Denom) HasPrefix(portID, channelID string) bool {
	return !d.IsNative() && d.Trace[0] == NewHop(portID, channelID)
}

// ExtractDenomFromPath splits a full path into hops and base. Leading pairs
// are taken as hops while they parse as a port and one of our channel
// identifiers and something is left for the base, which may contain slashes.
func ExtractDenomFromPath(fullPath string) Denom {
	var trace []Hop
	parts := strings.Split(fullPath, "/")
	for len(parts) > 2 && isHop(parts[0], parts[1]) {
		trace = append(trace, NewHop(parts[0], parts[1]))
		parts = parts[2:]
	}
	return Denom{Base: strings.Join(parts, "/"), Trace: trace}
}

func isHop(portID, channelID string) bool {
	return host.PortIdentifierValidator(portID) == nil && channeltypes.IsValidChannelID(channelID)
}

// ValidateIBCDenom accepts a base denomination, such as uatom or gamm/pool/1,
// or a voucher name ibc/{hash}.
func ValidateIBCDenom(denom string) error {
	if err := sdk.ValidateDenom(denom); err != nil {
		return err
	}

	rest, isVoucher := strings.CutPrefix(denom, DenomPrefix+"/")
	switch {
	case denom == DenomPrefix:
		return errorsmod.Wrapf(ErrInvalidDenomForTransfer, "%s must be followed by /{hash}", denom)
	case !isVoucher:
		return nil
	case strings.TrimSpace(rest) == "":
		return errorsmod.Wrapf(ErrInvalidDenomForTransfer, "%s has an empty hash", denom)
	}

	if _, err := ParseHexHash(rest); err != nil {
		return errorsmod.Wrapf(err, "voucher hash %s", rest)
	}
	return nil
}

// ParseHexHash decodes a hex encoded SHA-256 hash.
func ParseHexHash(hexHash string) (cmtbytes.HexBytes, error) {
	hash, err := hex.DecodeString(hexHash)
	if err != nil {
		return nil, err
	}
	return hash, cmttypes.ValidateHash(hash)
}

// DenomValue stores a Denom as JSON.
var DenomValue collcodec.ValueCodec[Denom] = denomValue{}

type denomValue struct{}

func (denomValue) Encode(d Denom) ([]byte, error) { return json.Marshal(d) }

func (denomValue) Decode(bz []byte) (Denom, error) {
	var d Denom
	if err := json.Unmarshal(bz, &d); err != nil {
		return Denom{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "denom: %v", err)
	}
	return d, nil
}

func (v denomValue) EncodeJSON(d Denom) ([]byte, error) { return v.Encode(d) }

func (v denomValue) DecodeJSON(bz []byte) (Denom, error) { return v.Decode(bz) }

func (denomValue) Stringify(d Denom) string { return d.Path() }

func (denomValue) ValueType() string { return "ibcstore/transfer_denom" }
