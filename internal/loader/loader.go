// Package loader reads the price catalog and the sales record documents.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"computesales/internal/core"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidJSON  = errors.New("invalid JSON")
)

// LoadError reports which input could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	switch {
	case errors.Is(e.Err, ErrFileNotFound):
		return fmt.Sprintf("Error: File '%s' not found.", e.Path)
	case errors.Is(e.Err, ErrInvalidJSON):
		return fmt.Sprintf("Error: File '%s' contains invalid JSON.", e.Path)
	default:
		return fmt.Sprintf("Error: File '%s' could not be read: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Inputs holds both parsed documents of a run.
type Inputs struct {
	Catalog core.Catalog
	Entries []core.SaleEntry
}

// LoadInputs reads both documents concurrently. Every failing document is
// reported; the returned error joins one *LoadError per failure.
func LoadInputs(ctx context.Context, catalogPath, salesPath string) (Inputs, error) {
	var (
		in               Inputs
		catErr, salesErr error
		g                errgroup.Group
	)

	g.Go(func() error {
		in.Catalog, catErr = LoadCatalog(catalogPath)
		return catErr
	})
	g.Go(func() error {
		in.Entries, salesErr = LoadSales(salesPath)
		return salesErr
	})

	if err := g.Wait(); err != nil {
		slog.DebugContext(ctx, "Input loading failed", "catalog_error", catErr, "sales_error", salesErr)
		return Inputs{}, errors.Join(catErr, salesErr)
	}

	slog.DebugContext(ctx, "Inputs loaded",
		"catalog_path", catalogPath,
		"catalog_size", len(in.Catalog),
		"sales_path", salesPath,
		"entries", len(in.Entries))

	return in, nil
}

// LoadCatalog reads a JSON object mapping product names to unit prices.
func LoadCatalog(path string) (core.Catalog, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if !startsWith(data, '{') {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: catalog must be an object", ErrInvalidJSON)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}

	catalog := make(core.Catalog, len(fields))
	for name, raw := range fields {
		catalog[name] = core.NewValue(raw)
	}
	return catalog, nil
}

// LoadSales reads a JSON array of sale entries. Elements that are not
// objects are kept so the aggregator can report them.
func LoadSales(path string) ([]core.SaleEntry, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if !startsWith(data, '[') {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: sales record must be an array", ErrInvalidJSON)}
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}

	entries := make([]core.SaleEntry, 0, len(raws))
	for _, raw := range raws {
		entry, err := core.ParseSaleEntry(raw)
		if err != nil && !errors.Is(err, core.ErrNotObject) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: ErrFileNotFound}
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return data, nil
}

func startsWith(data []byte, c byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == c
}
