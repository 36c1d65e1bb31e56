// Package report writes run summaries to the console and the result file.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"computesales/internal/core"
)

// DefaultResultsPath is where the result file goes when nothing else is configured.
const DefaultResultsPath = "SalesResults.txt"

// Render returns the result file body for a run.
func Render(s core.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Sales: $%s\n", core.FormatMoney(s.Total))
	fmt.Fprintf(&b, "Execution Time: %s seconds\n", core.FormatSeconds(s.Elapsed))
	if len(s.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		b.WriteString(strings.Join(s.Errors, "\n"))
	}
	return b.String()
}

// WriteConsole prints the summary followed by any per-record errors.
func WriteConsole(w io.Writer, s core.RunSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Sales: $%s\n", core.FormatMoney(s.Total))
	fmt.Fprintf(&b, "Execution Time: %s seconds\n", core.FormatSeconds(s.Elapsed))
	if len(s.Errors) > 0 {
		b.WriteString("\nErrors encountered:\n")
		for _, e := range s.Errors {
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile replaces the file at path with the rendered summary. The new
// content is written next to the target and renamed into place.
func WriteFile(path string, s core.RunSummary) error {
	if path == "" {
		path = DefaultResultsPath
	}
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".sales-results-*")
	if err != nil {
		return fmt.Errorf("create temp result file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Render(s)); err != nil {
		tmp.Close()
		return fmt.Errorf("write result file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close result file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod result file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename result file: %w", err)
	}
	return nil
}
