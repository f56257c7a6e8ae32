package types

import (
	"bytes"
	"encoding/json"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// Size limits on user supplied fields, in bytes.
const (
	MaximumReceiverLength = 2048
	MaximumMemoLength     = 32768
)

// FungibleTokenPacketData is the ICS-20 packet payload. Amount is a decimal
// string so it can exceed 64 bits.
type FungibleTokenPacketData struct {
	Denom    string `json:"denom"`
	Amount   string `json:"amount"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Memo     string `json:"memo,omitempty"`
}

func NewFungibleTokenPacketData(denom, amount, sender, receiver, memo string) FungibleTokenPacketData {
	return FungibleTokenPacketData{Denom: denom, Amount: amount, Sender: sender, Receiver: receiver, Memo: memo}
}

// ValidateBasic checks the payload without interpreting the addresses, whose
// format belongs to the chain on each end.
func (d FungibleTokenPacketData) ValidateBasic() error {
	amount, err := d.ParseAmount()
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "%s is not positive", amount)
	}
	if err := validateParties(d.Sender, d.Receiver, d.Memo); err != nil {
		return err
	}
	return ExtractDenomFromPath(d.Denom).Validate()
}

// validateParties checks the fields shared by the packet and MsgTransfer.
func validateParties(sender, receiver, memo string) error {
	switch {
	case strings.TrimSpace(sender) == "":
		return errorsmod.Wrap(ibcerrors.ErrInvalidAddress, "blank sender")
	case strings.TrimSpace(receiver) == "":
		return errorsmod.Wrap(ibcerrors.ErrInvalidAddress, "blank receiver")
	case len(receiver) > MaximumReceiverLength:
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "receiver longer than %d bytes", MaximumReceiverLength)
	case len(memo) > MaximumMemoLength:
		return errorsmod.Wrapf(ErrInvalidMemo, "memo longer than %d bytes", MaximumMemoLength)
	}
	return nil
}

// ParseAmount parses Amount as an arbitrary precision integer.
func (d FungibleTokenPacketData) ParseAmount() (sdkmath.Int, error) {
	amount, ok := sdkmath.NewIntFromString(d.Amount)
	if !ok {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "cannot parse %q", d.Amount)
	}
	return amount, nil
}

// GetBytes returns the packet payload as JSON with sorted keys.
func (d FungibleTokenPacketData) GetBytes() []byte {
	bz, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	return sdk.MustSortJSON(bz)
}

// UnmarshalPacketData decodes a payload written by GetBytes, rejecting unknown
// fields, and validates it.
func UnmarshalPacketData(bz []byte) (FungibleTokenPacketData, error) {
	var data FungibleTokenPacketData
	decoder := json.NewDecoder(bytes.NewReader(bz))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&data); err != nil {
		return FungibleTokenPacketData{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "transfer packet data: %v", err)
	}
	if err := data.ValidateBasic(); err != nil {
		return FungibleTokenPacketData{}, err
	}
	return data, nil
}
