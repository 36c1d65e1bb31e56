package services

import (
	"context"
	"fmt"

	"computesales/internal/amqp"
	applog "computesales/internal/log"
	"computesales/internal/sheets"
)

// RunExporter appends consumed run-completed messages to a sheet.
type RunExporter struct {
	writer sheets.RunWriter
	logger *applog.Logger
}

func NewRunExporter(writer sheets.RunWriter, logger *applog.Logger) *RunExporter {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &RunExporter{
		writer: writer,
		logger: logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleRunCompleted appends the run carried by msg. A message whose total
// cannot be parsed is logged and dropped, since a retry cannot fix it. A
// failed append is returned so the message is requeued.
func (e *RunExporter) HandleRunCompleted(ctx context.Context, msg *amqp.RunCompletedMessage) error {
	summary, err := msg.Summary()
	if err != nil {
		e.logger.ErrorContext(ctx, "Dropping undecodable run message",
			applog.FieldOperation, applog.OpExport,
			applog.FieldRunID, msg.RunID,
			applog.FieldError, err)
		return nil
	}

	ref, err := e.writer.AppendRun(ctx, summary)
	if err != nil {
		return fmt.Errorf("export run %d: %w", msg.RunID, err)
	}

	e.logger.InfoContext(ctx, "Run exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldRunID, msg.RunID,
		applog.FieldSheetsRef, ref,
		applog.FieldTotal, msg.Total)
	return nil
}
