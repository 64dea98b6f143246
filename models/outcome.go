package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// ExecutionStatus is either an object ({"SuccessValue": ...}, {"SuccessReceiptId": ...},
// {"Failure": ...}) or a bare string ("Unknown", "NotStarted", "Started").
type ExecutionStatus struct {
	SuccessValue     *string         `json:"SuccessValue,omitempty"`
	SuccessReceiptID string          `json:"SuccessReceiptId,omitempty"`
	Failure          json.RawMessage `json:"Failure,omitempty"`
	Other            string          `json:"-"`
}

type executionStatusFields ExecutionStatus

func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		*s = ExecutionStatus{}
		return json.Unmarshal(data, &s.Other)
	}
	var fields executionStatusFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = ExecutionStatus(fields)
	return nil
}

func (s ExecutionStatus) MarshalJSON() ([]byte, error) {
	if s.Other != "" {
		return json.Marshal(s.Other)
	}
	return json.Marshal(executionStatusFields(s))
}

func (s ExecutionStatus) IsSuccess() bool {
	return s.SuccessValue != nil || s.SuccessReceiptID != ""
}

func (s ExecutionStatus) IsFailure() bool {
	return len(s.Failure) > 0
}

func (s ExecutionStatus) String() string {
	switch {
	case s.SuccessValue != nil:
		return "SuccessValue"
	case s.SuccessReceiptID != "":
		return "SuccessReceiptId"
	case s.IsFailure():
		return "Failure"
	case s.Other != "":
		return s.Other
	default:
		return "Unknown"
	}
}

// DecodeSuccessValue returns the base64 decoded return value of a successful call
func (s ExecutionStatus) DecodeSuccessValue() ([]byte, error) {
	if s.SuccessValue == nil {
		return nil, errors.New("status has no success value")
	}
	return base64.StdEncoding.DecodeString(*s.SuccessValue)
}

// TransactionView is the transaction as echoed back by the node
type TransactionView struct {
	SignerID   string            `json:"signer_id"`
	PublicKey  string            `json:"public_key"`
	Nonce      uint64            `json:"nonce"`
	ReceiverID string            `json:"receiver_id"`
	Actions    []json.RawMessage `json:"actions"`
	Signature  string            `json:"signature"`
	Hash       string            `json:"hash"`
}

type ExecutionOutcome struct {
	Logs        []string        `json:"logs"`
	ReceiptIDs  []string        `json:"receipt_ids"`
	GasBurnt    uint64          `json:"gas_burnt"`
	TokensBurnt string          `json:"tokens_burnt"`
	ExecutorID  string          `json:"executor_id"`
	Status      ExecutionStatus `json:"status"`
}

type ExecutionOutcomeWithID struct {
	ID        string           `json:"id"`
	BlockHash string           `json:"block_hash"`
	Outcome   ExecutionOutcome `json:"outcome"`
}

// FinalExecutionOutcome is the result of broadcast_tx_commit
type FinalExecutionOutcome struct {
	Status             ExecutionStatus          `json:"status"`
	Transaction        TransactionView          `json:"transaction"`
	TransactionOutcome ExecutionOutcomeWithID   `json:"transaction_outcome"`
	ReceiptsOutcome    []ExecutionOutcomeWithID `json:"receipts_outcome"`
}

// Finality selects which block a view query is answered against
type Finality string

const (
	FinalityFinal      Finality = "final"
	FinalityOptimistic Finality = "optimistic"
)

// AccessKeyView is the result of a view_access_key query
type AccessKeyView struct {
	Nonce       uint64          `json:"nonce"`
	Permission  json.RawMessage `json:"permission"`
	BlockHeight uint64          `json:"block_height"`
	BlockHash   string          `json:"block_hash"`
}

type BlockHeaderView struct {
	Height    uint64 `json:"height"`
	Hash      string `json:"hash"`
	PrevHash  string `json:"prev_hash"`
	Timestamp uint64 `json:"timestamp"`
}

type BlockView struct {
	Author string          `json:"author"`
	Header BlockHeaderView `json:"header"`
}
