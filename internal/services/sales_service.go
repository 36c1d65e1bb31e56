// Package services orchestrates a sales run and the export of finished runs.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"computesales/internal/amqp"
	"computesales/internal/core"
	"computesales/internal/loader"
	applog "computesales/internal/log"
	"computesales/internal/report"
)

var ErrResultWrite = errors.New("write result file")

// RunRecorder stores completed runs.
type RunRecorder interface {
	SaveRun(ctx context.Context, s core.RunSummary) (int64, error)
}

// RunPublisher announces completed runs.
type RunPublisher interface {
	PublishRunCompleted(ctx context.Context, msg *amqp.RunCompletedMessage) error
}

// SalesService loads both documents, prices the sales and reports the
// outcome. History and publisher are optional.
type SalesService struct {
	resultsPath string
	history     RunRecorder
	publisher   RunPublisher
	logger      *applog.Logger
	now         func() time.Time
}

// NewSalesService wires a service. history and publisher may be nil.
func NewSalesService(resultsPath string, history RunRecorder, publisher RunPublisher, logger *applog.Logger) *SalesService {
	if resultsPath == "" {
		resultsPath = report.DefaultResultsPath
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SalesService{
		resultsPath: resultsPath,
		history:     history,
		publisher:   publisher,
		logger:      logger.WithComponent(applog.ComponentSales),
		now:         time.Now,
	}
}

// Run executes one run. A load failure is returned before anything is
// aggregated. Per-record problems only show up in the returned summary.
func (s *SalesService) Run(ctx context.Context, catalogPath, salesPath string, console io.Writer) (core.RunSummary, error) {
	in, err := loader.LoadInputs(ctx, catalogPath, salesPath)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load inputs",
			applog.NewFields().WithInputs(catalogPath, salesPath).WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		return core.RunSummary{}, err
	}

	ranAt := s.now()
	start := time.Now()
	res := core.Aggregate(in.Catalog, in.Entries)
	elapsed := time.Since(start)

	summary := core.RunSummary{
		RanAt:       ranAt,
		CatalogPath: catalogPath,
		SalesPath:   salesPath,
		Total:       res.Total,
		Elapsed:     elapsed,
		Records:     res.Records,
		Priced:      res.Priced,
		Errors:      res.Errors,
	}

	s.logger.InfoContext(ctx, "Sales aggregated",
		applog.NewFields().
			WithOperation(applog.OpAggregate).
			WithInputs(catalogPath, salesPath).
			WithRun(summary.Total.String(), summary.Records, summary.Priced, summary.ErrorCount(), float64(elapsed.Microseconds())/1000).
			ToSlice()...)

	if err := report.WriteConsole(console, summary); err != nil {
		s.logger.WarnContext(ctx, "Failed to write console summary",
			applog.FieldOperation, applog.OpReport,
			applog.FieldError, err)
	}

	if err := report.WriteFile(s.resultsPath, summary); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write result file",
			applog.FieldOperation, applog.OpReport,
			applog.FieldResultsPath, s.resultsPath,
			applog.FieldError, err)
		return summary, fmt.Errorf("%w %s: %v", ErrResultWrite, s.resultsPath, err)
	}

	s.record(ctx, summary)
	return summary, nil
}

// record hands the summary to the optional collaborators. Their failures
// are logged and do not change the outcome of the run.
func (s *SalesService) record(ctx context.Context, summary core.RunSummary) {
	var runID int64
	if s.history != nil {
		id, err := s.history.SaveRun(ctx, summary)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to record run history",
				applog.FieldOperation, applog.OpRecord,
				applog.FieldError, err)
		} else {
			runID = id
			s.logger.DebugContext(ctx, "Run recorded", applog.FieldRunID, runID)
		}
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRunCompleted(ctx, amqp.NewRunCompletedMessage(runID, summary)); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish run completed message",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldRunID, runID,
			applog.FieldError, err)
	}
}
