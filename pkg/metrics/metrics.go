package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"near-transaction-manager/models"
)

// Collector collects transaction records and turns them into a report
type Collector struct {
	mu         sync.Mutex
	startTime  time.Time
	records    []models.TransactionRecord
	outputPath string
}

// NewCollector creates a new metrics collector
func NewCollector(outputPath string) *Collector {
	return &Collector{
		startTime:  time.Now(),
		records:    make([]models.TransactionRecord, 0),
		outputPath: outputPath,
	}
}

// AddRecord adds a transaction record to the collector
func (c *Collector) AddRecord(record models.TransactionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, record)
}

func (c *Collector) Records() []models.TransactionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]models.TransactionRecord(nil), c.records...)
}

// ProcessResults aggregates the records collected so far
func (c *Collector) ProcessResults() *models.SendReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	endTime := time.Now()
	report := &models.SendReport{
		StartTime:          c.startTime,
		EndTime:            endTime,
		TotalDuration:      endTime.Sub(c.startTime).Milliseconds(),
		TotalTransactions:  len(c.records),
		ReceiverResults:    []models.ReceiverResult{},
		SuccessfulTxHashes: []string{},
	}

	byReceiver := make(map[string]*models.ReceiverResult)
	receiverDurations := make(map[string]int64)

	var durationSum int64
	minDuration := int64(math.MaxInt64)

	for _, record := range c.records {
		result, ok := byReceiver[record.ReceiverID]
		if !ok {
			result = &models.ReceiverResult{ReceiverID: record.ReceiverID}
			byReceiver[record.ReceiverID] = result
		}
		result.Count++
		result.Records = append(result.Records, record)

		if !record.Success {
			report.FailureCount++
			continue
		}

		report.SuccessCount++
		result.SuccessCount++
		receiverDurations[record.ReceiverID] += record.Duration
		durationSum += record.Duration

		if record.Duration < minDuration {
			minDuration = record.Duration
		}
		if record.Duration > report.MaxDuration {
			report.MaxDuration = record.Duration
		}
		if record.TxHash != "" {
			report.SuccessfulTxHashes = append(report.SuccessfulTxHashes, record.TxHash)
		}
	}

	if report.SuccessCount > 0 {
		report.AverageDuration = durationSum / int64(report.SuccessCount)
		report.MinDuration = minDuration
	}

	for receiverID, result := range byReceiver {
		if result.SuccessCount > 0 {
			result.AverageDuration = receiverDurations[receiverID] / int64(result.SuccessCount)
		}
		report.ReceiverResults = append(report.ReceiverResults, *result)
	}
	sort.Slice(report.ReceiverResults, func(i, j int) bool {
		return report.ReceiverResults[i].ReceiverID < report.ReceiverResults[j].ReceiverID
	})

	return report
}

// SaveResults writes the report to a timestamped file in the output directory
// and returns its path
func (c *Collector) SaveResults() (string, error) {
	report := c.ProcessResults()

	if err := os.MkdirAll(c.outputPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	filename := fmt.Sprintf("near-tx-results-%s.json", timestamp)
	outputPath := filepath.Join(c.outputPath, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", err
	}

	return outputPath, nil
}
