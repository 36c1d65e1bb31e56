package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"computesales/internal/cli"
	"computesales/internal/core"
	"computesales/internal/storage"
)

const usage = "Usage: sales-history [run-id]"

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	args := os.Args[1:]
	if len(args) > 1 {
		fmt.Println(usage)
		os.Exit(cli.ExitFailure)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if err := run(context.Background(), os.Stdout, repo, args, cfg.HistoryLimit); err != nil {
		logger.Error("Failed to read run history", "error", err)
		repo.Close()
		os.Exit(cli.ExitFailure)
	}
}

// runReader is the part of the repository the command needs.
type runReader interface {
	ListRuns(ctx context.Context, limit int) ([]storage.RunRecord, error)
	GetRun(ctx context.Context, id int64) (storage.RunRecord, error)
}

// run lists the latest runs, or prints one run in full when an ID is given.
func run(ctx context.Context, w io.Writer, repo runReader, args []string, limit int) error {
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		rec, err := repo.GetRun(ctx, id)
		if errors.Is(err, storage.ErrRunNotFound) {
			fmt.Fprintf(w, "Run %d not found.\n", id)
			return nil
		}
		if err != nil {
			return err
		}
		printRun(w, rec)
		return nil
	}

	runs, err := repo.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	printRuns(w, runs)
	return nil
}

func printRuns(w io.Writer, runs []storage.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRAN AT\tTOTAL\tRECORDS\tPRICED\tERRORS\tSECONDS\tSALES FILE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t$%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID,
			r.RanAt.Local().Format("2006-01-02 15:04:05"),
			core.FormatMoney(r.Total),
			r.Records,
			r.Priced,
			r.ErrorCount,
			core.FormatSeconds(r.Elapsed),
			r.SalesPath)
	}
	tw.Flush()
}

func printRun(w io.Writer, r storage.RunRecord) {
	fmt.Fprintf(w, "Run %d at %s\n", r.ID, r.RanAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Catalog: %s\n", r.CatalogPath)
	fmt.Fprintf(w, "Sales: %s\n", r.SalesPath)
	fmt.Fprintf(w, "Total Sales: $%s\n", core.FormatMoney(r.Total))
	fmt.Fprintf(w, "Execution Time: %s seconds\n", core.FormatSeconds(r.Elapsed))
	fmt.Fprintf(w, "Records: %d, priced: %d, errors: %d\n", r.Records, r.Priced, r.ErrorCount)
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, e := range r.Errors {
			fmt.Fprintln(w, e)
		}
	}
}
