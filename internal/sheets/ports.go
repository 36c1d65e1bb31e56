package sheets

import (
	"context"

	"computesales/internal/core"
)

// Ports for outbound adapters.
type (
	// RunWriter appends one row per completed run to an external sheet.
	RunWriter interface {
		AppendRun(ctx context.Context, s core.RunSummary) (rowRef string, err error)
	}

	// RunLister reads back the runs previously exported.
	RunLister interface {
		ListRuns(ctx context.Context) ([]core.RunSummary, error)
	}
)
