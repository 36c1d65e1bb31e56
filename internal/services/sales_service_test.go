package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"computesales/internal/amqp"
	"computesales/internal/core"
	"computesales/internal/loader"
	applog "computesales/internal/log"
)

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

type fakeRecorder struct {
	saved []core.RunSummary
	err   error
}

func (f *fakeRecorder) SaveRun(_ context.Context, s core.RunSummary) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, s)
	return int64(len(f.saved)), nil
}

type fakePublisher struct {
	msgs []*amqp.RunCompletedMessage
	err  error
}

func (f *fakePublisher) PublishRunCompleted(_ context.Context, msg *amqp.RunCompletedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const (
	catalogJSON = `{"apple": 1.50, "banana": 0.25}`
	salesJSON   = `[
		{"product": "apple", "quantity": 10},
		{"product": "banana", "quantity": 20},
		{"product": "cherry", "quantity": 5},
		{"quantity": 3}
	]`
)

func TestSalesService_Run(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.json", catalogJSON)
	sales := writeFile(t, dir, "sales.json", salesJSON)
	results := filepath.Join(dir, "SalesResults.txt")

	history := &fakeRecorder{}
	publisher := &fakePublisher{}
	svc := NewSalesService(results, history, publisher, quietLogger())
	ranAt := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return ranAt }

	var console bytes.Buffer
	summary, err := svc.Run(context.Background(), catalog, sales, &console)
	require.NoError(t, err)

	require.Equal(t, "20", summary.Total.String())
	require.Equal(t, 4, summary.Records)
	require.Equal(t, 2, summary.Priced)
	require.Equal(t, []string{
		"Error: Product 'cherry' not found in price catalog.",
		"Invalid entry: {'quantity': 3}",
	}, summary.Errors)
	require.Equal(t, ranAt, summary.RanAt)
	require.Equal(t, catalog, summary.CatalogPath)

	out := console.String()
	require.True(t, strings.HasPrefix(out, "Total Sales: $20.00\nExecution Time: "))
	require.Contains(t, out, "\nErrors encountered:\nError: Product 'cherry' not found in price catalog.\n")

	data, err := os.ReadFile(results)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "Total Sales: $20.00\n"))
	require.True(t, strings.HasSuffix(string(data), "\nErrors:\nError: Product 'cherry' not found in price catalog.\nInvalid entry: {'quantity': 3}"))

	require.Len(t, history.saved, 1)
	require.Len(t, publisher.msgs, 1)
	require.Equal(t, int64(1), publisher.msgs[0].RunID)
	require.Equal(t, "20", publisher.msgs[0].Total)
}

func TestSalesService_RunLoadFailure(t *testing.T) {
	dir := t.TempDir()
	sales := writeFile(t, dir, "sales.json", `[{"product": `)
	results := filepath.Join(dir, "SalesResults.txt")

	history := &fakeRecorder{}
	publisher := &fakePublisher{}
	svc := NewSalesService(results, history, publisher, quietLogger())

	var console bytes.Buffer
	_, err := svc.Run(context.Background(), filepath.Join(dir, "missing.json"), sales, &console)
	require.Error(t, err)
	require.ErrorIs(t, err, loader.ErrFileNotFound)
	require.ErrorIs(t, err, loader.ErrInvalidJSON)

	require.Empty(t, console.String())
	require.NoFileExists(t, results)
	require.Empty(t, history.saved)
	require.Empty(t, publisher.msgs)
}

func TestSalesService_RunResultWriteFailure(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.json", catalogJSON)
	sales := writeFile(t, dir, "sales.json", `[]`)
	results := filepath.Join(dir, "no-such-dir", "SalesResults.txt")

	history := &fakeRecorder{}
	svc := NewSalesService(results, history, nil, quietLogger())

	var console bytes.Buffer
	summary, err := svc.Run(context.Background(), catalog, sales, &console)
	require.ErrorIs(t, err, ErrResultWrite)
	require.Equal(t, "0", summary.Total.String())
	require.Contains(t, console.String(), "Total Sales: $0.00")
	require.Empty(t, history.saved)
}

func TestSalesService_OptionalCollaboratorFailures(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.json", catalogJSON)
	sales := writeFile(t, dir, "sales.json", salesJSON)

	history := &fakeRecorder{err: errors.New("disk full")}
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := NewSalesService(filepath.Join(dir, "out.txt"), history, publisher, quietLogger())

	summary, err := svc.Run(context.Background(), catalog, sales, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "20", summary.Total.String())
	require.FileExists(t, filepath.Join(dir, "out.txt"))
}

func TestSalesService_RunsWithoutCollaborators(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.json", catalogJSON)
	sales := writeFile(t, dir, "sales.json", `[{"product": "apple", "quantity": 2}]`)

	svc := NewSalesService(filepath.Join(dir, "out.txt"), nil, nil, nil)
	summary, err := svc.Run(context.Background(), catalog, sales, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "3", summary.Total.String())
	require.Empty(t, summary.Errors)
}
