package types

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	collcodec "cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/codec"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
	"github.com/ibcstore/ibc-store/modules/core/exported"
)

var _ exported.Height = (*Height)(nil)

// IsRevisionFormat checks if a chainID is in the format required for parsing revisions
// The chainID must be in the form: `{chainID}-{revision}`.
// 24-host may enforce stricter checks on chainID
var IsRevisionFormat = regexp.MustCompile(`^.*[^\n-]-{1}[1-9][0-9]*$`).MatchString

// Height is a monotonically increasing data type
// that can be compared against another Height for the purposes of updating and
// freezing clients
//
// Normally the RevisionHeight is incremented at each height while keeping
// RevisionNumber the same. However some consensus algorithms may choose to
// reset the height in certain conditions e.g. hard forks, state-machine
// breaking changes In these cases, the RevisionNumber is incremented so that
// height continues to be monitonically increasing even as the RevisionHeight
// gets reset
type Height struct {
	// the revision that the client is currently on
	RevisionNumber uint64 `json:"revision_number" yaml:"revision_number"`
	// the height within the given revision
	RevisionHeight uint64 `json:"revision_height" yaml:"revision_height"`
}

// ZeroHeight is a helper function which returns an uninitialized height.
func ZeroHeight() Height {
	return Height{}
}

// NewHeight is a constructor for the IBC height type
func NewHeight(revisionNumber, revisionHeight uint64) Height {
	return Height{
		RevisionNumber: revisionNumber,
		RevisionHeight: revisionHeight,
	}
}

// GetRevisionNumber returns the revision-number of the height
func (h Height) GetRevisionNumber() uint64 {
	return h.RevisionNumber
}

// GetRevisionHeight returns the revision-height of the height
func (h Height) GetRevisionHeight() uint64 {
	return h.RevisionHeight
}

// Compare implements a method to compare two heights. When comparing two heights a, b
// we can call a.Compare(b) which will return
// -1 if a < b
// 0  if a = b
// 1  if a > b
//
// It first compares based on revision numbers, whichever has the higher revision number is the higher height
// If revision number is the same, then the revision height is compared
func (h Height) Compare(other exported.Height) int64 {
	height, ok := other.(Height)
	if !ok {
		panic(fmt.Errorf("cannot compare against invalid height type: %T. expected height type: %T", other, h))
	}
	var a, b big.Int
	if h.RevisionNumber != height.RevisionNumber {
		a.SetUint64(h.RevisionNumber)
		b.SetUint64(height.RevisionNumber)
	} else {
		a.SetUint64(h.RevisionHeight)
		b.SetUint64(height.RevisionHeight)
	}
	return int64(a.Cmp(&b))
}

// LT Helper comparison function returns true if h < other
func (h Height) LT(other exported.Height) bool {
	return h.Compare(other) == -1
}

// LTE Helper comparison function returns true if h <= other
func (h Height) LTE(other exported.Height) bool {
	cmp := h.Compare(other)
	return cmp <= 0
}

// GT Helper comparison function returns true if h > other
func (h Height) GT(other exported.Height) bool {
	return h.Compare(other) == 1
}

// GTE Helper comparison function returns true if h >= other
func (h Height) GTE(other exported.Height) bool {
	cmp := h.Compare(other)
	return cmp >= 0
}

// EQ Helper comparison function returns true if h == other
func (h Height) EQ(other exported.Height) bool {
	return h.Compare(other) == 0
}

// String returns a string representation of Height
func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}

// Decrement will return a new height with the RevisionHeight decremented
// If the RevisionHeight is already at lowest value (1), then false success flag is returend
func (h Height) Decrement() (decremented Height, success bool) {
	if h.RevisionHeight == 0 {
		return Height{}, false
	}
	return NewHeight(h.RevisionNumber, h.RevisionHeight-1), true
}

// Increment will return a height with the same revision number but an
// incremented revision height
func (h Height) Increment() exported.Height {
	return NewHeight(h.RevisionNumber, h.RevisionHeight+1)
}

// IsZero returns true if height revision and revision-height are both 0
func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Marshal encodes the height with the ibc.core.client.v1.Height field numbers.
func (h Height) Marshal() []byte {
	return codec.NewEncoder().
		Uint64(1, h.RevisionNumber).
		Uint64(2, h.RevisionHeight).
		Encoded()
}

// Unmarshal decodes a height encoded by Marshal.
func (h *Height) Unmarshal(bz []byte) error {
	*h = Height{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Uint64(&h.RevisionNumber)
		case 2:
			return f.Uint64(&h.RevisionHeight)
		}
		return nil
	})
}

// MustParseHeight will attempt to parse a string representation of a height and panic if
// parsing fails.
func MustParseHeight(heightStr string) Height {
	height, err := ParseHeight(heightStr)
	if err != nil {
		panic(err)
	}

	return height
}

// ParseHeight is a utility function that takes a string representation of the height
// and returns a Height struct
func ParseHeight(heightStr string) (Height, error) {
	splitStr := strings.Split(heightStr, "-")
	if len(splitStr) != 2 {
		return Height{}, errorsmod.Wrapf(ibcerrors.ErrInvalidHeight, "expected height string format: {revision}-{height}. Got: %s", heightStr)
	}
	revisionNumber, err := strconv.ParseUint(splitStr[0], 10, 64)
	if err != nil {
		return Height{}, errorsmod.Wrapf(ibcerrors.ErrInvalidHeight, "invalid revision number. parse err: %s", err)
	}
	revisionHeight, err := strconv.ParseUint(splitStr[1], 10, 64)
	if err != nil {
		return Height{}, errorsmod.Wrapf(ibcerrors.ErrInvalidHeight, "invalid revision height. parse err: %s", err)
	}
	return NewHeight(revisionNumber, revisionHeight), nil
}

// ParseChainID is a utility function that returns an revision number from the given ChainID.
// ParseChainID attempts to parse a chain id in the format: `{chainID}-{revision}`
// and return the revisionnumber as a uint64.
// If the chainID is not in the expected format, a default revision value of 0 is returned.
func ParseChainID(chainID string) uint64 {
	if !IsRevisionFormat(chainID) {
		// chainID is not in revision format, return 0 as default
		return 0
	}
	splitStr := strings.Split(chainID, "-")
	revision, err := strconv.ParseUint(splitStr[len(splitStr)-1], 10, 64)
	// sanity check: error should always be nil since regex only allows numbers in last element
	if err != nil {
		panic(fmt.Errorf("regex allowed non-number value as last split element for chainID: %s", chainID))
	}
	return revision
}

// GetSelfHeight is a utility function that returns self height given context
// Revision number is retrieved from ctx.ChainID()
func GetSelfHeight(ctx sdk.Context) Height {
	revision := ParseChainID(ctx.ChainID())
	return NewHeight(revision, uint64(ctx.BlockHeight()))
}

// HeightKey orders heights by revision number, then revision height. The
// encoding is big endian so byte order matches height order.
var HeightKey collcodec.KeyCodec[Height] = heightKey{}

const heightKeySize = 16

type heightKey struct{}

func (heightKey) Encode(buf []byte, h Height) (int, error) {
	if len(buf) < heightKeySize {
		return 0, errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "height key buffer of length %d", len(buf))
	}
	binary.BigEndian.PutUint64(buf[:8], h.RevisionNumber)
	binary.BigEndian.PutUint64(buf[8:heightKeySize], h.RevisionHeight)
	return heightKeySize, nil
}

func (heightKey) Decode(bz []byte) (int, Height, error) {
	if len(bz) < heightKeySize {
		return 0, Height{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "invalid height key length %d", len(bz))
	}
	return heightKeySize, NewHeight(binary.BigEndian.Uint64(bz[:8]), binary.BigEndian.Uint64(bz[8:heightKeySize])), nil
}

func (heightKey) Size(Height) int { return heightKeySize }

func (heightKey) EncodeJSON(h Height) ([]byte, error) { return json.Marshal(h.String()) }

func (heightKey) DecodeJSON(bz []byte) (Height, error) {
	var s string
	if err := json.Unmarshal(bz, &s); err != nil {
		return Height{}, err
	}
	return ParseHeight(s)
}

func (heightKey) Stringify(h Height) string { return h.String() }

func (heightKey) KeyType() string { return "ibcstore/height" }

func (k heightKey) EncodeNonTerminal(buf []byte, h Height) (int, error) { return k.Encode(buf, h) }

func (k heightKey) DecodeNonTerminal(bz []byte) (int, Height, error) { return k.Decode(bz) }

func (heightKey) SizeNonTerminal(Height) int { return heightKeySize }

// HeightValue stores heights with their protobuf encoding.
var HeightValue collcodec.ValueCodec[Height] = heightValue{}

type heightValue struct{}

func (heightValue) Encode(h Height) ([]byte, error) {
	return h.Marshal(), nil
}

func (heightValue) Decode(bz []byte) (Height, error) {
	var h Height
	err := h.Unmarshal(bz)
	return h, err
}

func (heightValue) EncodeJSON(h Height) ([]byte, error) { return heightKey{}.EncodeJSON(h) }

func (heightValue) DecodeJSON(bz []byte) (Height, error) { return heightKey{}.DecodeJSON(bz) }

func (heightValue) Stringify(h Height) string { return h.String() }

func (heightValue) ValueType() string { return "ibcstore/height" }
