package models

import "time"

// TransactionRecord represents a single submitted transaction
type TransactionRecord struct {
	SignerID   string    `json:"signerId"`
	ReceiverID string    `json:"receiverId"`
	Nonce      uint64    `json:"nonce"`
	TxHash     string    `json:"txHash,omitempty"`
	Status     string    `json:"status,omitempty"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime,omitempty"`
	Duration   int64     `json:"duration,omitempty"` // Duration in milliseconds
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// SendReport represents the final report of a run
type SendReport struct {
	StartTime          time.Time        `json:"startTime"`
	EndTime            time.Time        `json:"endTime"`
	TotalDuration      int64            `json:"totalDuration"` // Duration in milliseconds
	TotalTransactions  int              `json:"totalTransactions"`
	SuccessCount       int              `json:"successCount"`
	FailureCount       int              `json:"failureCount"`
	AverageDuration    int64            `json:"averageDuration"` // Milliseconds, successful only
	MinDuration        int64            `json:"minDuration"`
	MaxDuration        int64            `json:"maxDuration"`
	ReceiverResults    []ReceiverResult `json:"receiverResults"`
	SuccessfulTxHashes []string         `json:"successfulTxHashes"`
}

// ReceiverResult represents aggregated results for one receiver account
type ReceiverResult struct {
	ReceiverID      string              `json:"receiverId"`
	Count           int                 `json:"count"`
	SuccessCount    int                 `json:"successCount"`
	AverageDuration int64               `json:"averageDuration"`
	Records         []TransactionRecord `json:"records"`
}
