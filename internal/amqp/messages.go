package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"computesales/internal/core"
)

// RunCompletedMessage announces a finished run. It carries the whole summary
// so consumers do not need access to the run history database.
type RunCompletedMessage struct {
	RunID       int64     `json:"run_id,omitempty"`
	RanAt       time.Time `json:"ran_at"`
	CatalogPath string    `json:"catalog_path"`
	SalesPath   string    `json:"sales_path"`
	Total       string    `json:"total"`
	ElapsedNs   int64     `json:"elapsed_ns"`
	Records     int       `json:"records"`
	Priced      int       `json:"priced"`
	Errors      []string  `json:"errors"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewRunCompletedMessage builds a message from a run summary
func NewRunCompletedMessage(runID int64, s core.RunSummary) *RunCompletedMessage {
	errs := s.Errors
	if errs == nil {
		errs = []string{}
	}
	return &RunCompletedMessage{
		RunID:       runID,
		RanAt:       s.RanAt,
		CatalogPath: s.CatalogPath,
		SalesPath:   s.SalesPath,
		Total:       s.Total.String(),
		ElapsedNs:   s.Elapsed.Nanoseconds(),
		Records:     s.Records,
		Priced:      s.Priced,
		Errors:      errs,
		Timestamp:   time.Now(),
	}
}

// Summary converts the message back into a run summary
func (m *RunCompletedMessage) Summary() (core.RunSummary, error) {
	total, err := core.ParseMoney(m.Total)
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("parse total %q: %w", m.Total, err)
	}
	return core.RunSummary{
		RanAt:       m.RanAt,
		CatalogPath: m.CatalogPath,
		SalesPath:   m.SalesPath,
		Total:       total,
		Elapsed:     time.Duration(m.ElapsedNs),
		Records:     m.Records,
		Priced:      m.Priced,
		Errors:      m.Errors,
	}, nil
}

// ToJSON converts the message to JSON bytes
func (m *RunCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RunCompletedMessageFromJSON creates a message from JSON bytes
func RunCompletedMessageFromJSON(data []byte) (*RunCompletedMessage, error) {
	var msg RunCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
