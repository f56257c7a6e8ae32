package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	host "github.com/ibcstore/ibc-store/modules/core/24-host"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

var (
	_ sdk.HasValidateBasic = (*MsgCreateClient)(nil)
	_ sdk.HasValidateBasic = (*MsgUpdateClient)(nil)
	_ sdk.HasValidateBasic = (*MsgSubmitMisbehaviour)(nil)
)

// MsgCreateClient defines a message to create an IBC client. The client and
// consensus states are carried in their type tagged encoding.
type MsgCreateClient struct {
	ClientState    []byte
	ConsensusState []byte
	Signer         string
}

// NewMsgCreateClient creates a new MsgCreateClient instance
func NewMsgCreateClient(clientState, consensusState []byte, signer string) *MsgCreateClient {
	return &MsgCreateClient{
		ClientState:    clientState,
		ConsensusState: consensusState,
		Signer:         signer,
	}
}

// ValidateBasic performs stateless checks. Decoding the states is left to the
// keeper which knows the registered client types.
func (msg MsgCreateClient) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	if len(msg.ClientState) == 0 {
		return errorsmod.Wrap(ErrInvalidClient, "client state cannot be empty")
	}
	if len(msg.ConsensusState) == 0 {
		return errorsmod.Wrap(ErrInvalidConsensus, "consensus state cannot be empty")
	}
	return nil
}

// MsgUpdateClient defines an sdk.Msg to update a IBC client state using
// the given client message.
type MsgUpdateClient struct {
	ClientId      string
	ClientMessage []byte
	Signer        string
}

// NewMsgUpdateClient creates a new MsgUpdateClient instance
func NewMsgUpdateClient(clientID string, clientMessage []byte, signer string) *MsgUpdateClient {
	return &MsgUpdateClient{
		ClientId:      clientID,
		ClientMessage: clientMessage,
		Signer:        signer,
	}
}

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateClient) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	if len(msg.ClientMessage) == 0 {
		return errorsmod.Wrap(ErrInvalidClientMessage, "client message cannot be empty")
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

// MsgSubmitMisbehaviour defines an sdk.Msg type that submits Evidence for
// light client misbehaviour.
type MsgSubmitMisbehaviour struct {
	ClientId     string
	Misbehaviour []byte
	Signer       string
}

// NewMsgSubmitMisbehaviour creates a new MsgSubmitMisbehaviour instance.
func NewMsgSubmitMisbehaviour(clientID string, misbehaviour []byte, signer string) *MsgSubmitMisbehaviour {
	return &MsgSubmitMisbehaviour{
		ClientId:     clientID,
		Misbehaviour: misbehaviour,
		Signer:       signer,
	}
}

// ValidateBasic performs basic (non-state-dependant) validation on a MsgSubmitMisbehaviour.
func (msg MsgSubmitMisbehaviour) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	if len(msg.Misbehaviour) == 0 {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, "misbehaviour cannot be empty")
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

func validateSigner(signer string) error {
	if strings.TrimSpace(signer) == "" {
		return errorsmod.Wrap(ibcerrors.ErrInvalidAddress, "signer cannot be blank")
	}
	if _, err := sdk.AccAddressFromBech32(signer); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	return nil
}

// MsgCreateClientResponse defines the MsgCreateClient response type.
type MsgCreateClientResponse struct {
	ClientId string
}

// MsgUpdateClientResponse defines the MsgUpdateClient response type.
type MsgUpdateClientResponse struct{}

// MsgSubmitMisbehaviourResponse defines the MsgSubmitMisbehaviour response type.
type MsgSubmitMisbehaviourResponse struct{}
