package types

// Event types and attribute keys emitted by the transfer application.
const (
	EventTypeTransfer = "ibc_transfer"
	EventTypePacket   = "fungible_token_packet"
	EventTypeTimeout  = "timeout"
	EventTypeDenom    = "denomination"

	AttributeKeySender         = "sender"
	AttributeKeyReceiver       = "receiver"
	AttributeKeyDenom          = "denom"
	AttributeKeyDenomHash      = "denom_hash"
	AttributeKeyAmount         = "amount"
	AttributeKeyMemo           = "memo"
	AttributeKeyAck            = "acknowledgement"
	AttributeKeyAckSuccess     = "success"
	AttributeKeyAckError       = "error"
	AttributeKeyRefundReceiver = "refund_receiver"
	AttributeKeyRefundDenom    = "refund_denom"
	AttributeKeyRefundAmount   = "refund_amount"
)
