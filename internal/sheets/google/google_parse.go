package google

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"computesales/internal/core"
)

// Sheets rejects cells longer than 50000 characters.
const maxCellLen = 45000

// runRow lays a run out as
// Ran at | Catalog | Sales | Total | Seconds | Records | Priced | Error count | Errors
func runRow(s core.RunSummary) []any {
	errs := strings.Join(s.Errors, "\n")
	if len(errs) > maxCellLen {
		errs = errs[:maxCellLen]
	}
	return []any{
		s.RanAt.UTC().Format(time.RFC3339),
		s.CatalogPath,
		s.SalesPath,
		core.FormatMoney(s.Total),
		core.FormatSeconds(s.Elapsed),
		s.Records,
		s.Priced,
		len(s.Errors),
		errs,
	}
}

// parseRunRows converts a values matrix (as returned by Sheets API) into
// run summaries, skipping rows that are not runs.
func parseRunRows(values [][]any) []core.RunSummary {
	var out []core.RunSummary
	for _, row := range values {
		s, err := parseRunRow(toStrings(row))
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func parseRunRow(cols []string) (core.RunSummary, error) {
	if len(cols) < 8 {
		return core.RunSummary{}, fmt.Errorf("short row: %d columns", len(cols))
	}
	ranAt, err := time.Parse(time.RFC3339, cols[0])
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("ran at: %w", err)
	}
	total, err := decimal.NewFromString(strings.ReplaceAll(cols[3], ",", ""))
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("total: %w", err)
	}
	seconds, err := strconv.ParseFloat(cols[4], 64)
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("seconds: %w", err)
	}
	records, err := strconv.Atoi(cols[5])
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("records: %w", err)
	}
	priced, err := strconv.Atoi(cols[6])
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("priced: %w", err)
	}

	errs := []string{}
	if len(cols) > 8 && cols[8] != "" {
		errs = strings.Split(cols[8], "\n")
	}

	return core.RunSummary{
		RanAt:       ranAt,
		CatalogPath: cols[1],
		SalesPath:   cols[2],
		Total:       total,
		Elapsed:     time.Duration(math.Round(seconds * float64(time.Second))),
		Records:     records,
		Priced:      priced,
		Errors:      errs,
	}, nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
