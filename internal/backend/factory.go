// Package backend picks the export target the worker writes runs to.
package backend

import (
	"context"
	"fmt"

	"computesales/internal/config"
	applog "computesales/internal/log"
	"computesales/internal/sheets"
	gsheet "computesales/internal/sheets/google"
	"computesales/internal/sheets/memory"
)

// Type names an export target.
type Type string

const (
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

// IsValid reports whether t names a known target.
func (t Type) IsValid() bool {
	switch t {
	case SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// TypeFor returns the target selected by cfg: Google Sheets when a
// spreadsheet is configured, memory otherwise.
func TypeFor(cfg *config.Config) Type {
	if cfg.GoogleSpreadsheetID != "" {
		return SheetsBackend
	}
	return MemoryBackend
}

// NewRunWriter creates the export target of the given type.
func NewRunWriter(ctx context.Context, t Type, cfg *config.Config, logger *applog.Logger) (sheets.RunWriter, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentSheets)

	switch t {
	case SheetsBackend:
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return client, nil
	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
