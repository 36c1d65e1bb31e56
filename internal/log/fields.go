package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldCatalogPath = "catalog_path"
	FieldSalesPath   = "sales_path"
	FieldResultsPath = "results_path"
	FieldRecords     = "records"
	FieldPriced      = "priced"
	FieldErrorCount  = "error_count"
	FieldTotal       = "total"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLoader  = "loader"
	ComponentSales   = "sales"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpAggregate = "aggregate"
	OpReport    = "report"
	OpRecord    = "record"
	OpPublish   = "publish"
	OpExport    = "export"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithInputs adds the input document paths
func (f LogFields) WithInputs(catalogPath, salesPath string) LogFields {
	f[FieldCatalogPath] = catalogPath
	f[FieldSalesPath] = salesPath
	return f
}

// WithRun adds the outcome of an aggregation
func (f LogFields) WithRun(total string, records, priced, errorCount int, durationMs float64) LogFields {
	f[FieldTotal] = total
	f[FieldRecords] = records
	f[FieldPriced] = priced
	f[FieldErrorCount] = errorCount
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
