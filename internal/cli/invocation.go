package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"computesales/internal/core"
	"computesales/internal/loader"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Usage is printed when the program is not given exactly two paths.
const Usage = "Usage: computesales priceCatalogue.json salesRecord.json"

// Invocation is a parsed command line.
type Invocation struct {
	CatalogPath string
	SalesPath   string
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ParseInvocation expects exactly the catalog path and the sales path.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) != 2 {
		return Invocation{}, &InvocationError{ExitCode: ExitFailure, Message: Usage}
	}
	return Invocation{CatalogPath: args[0], SalesPath: args[1]}, nil
}

// Runner performs one sales run.
type Runner interface {
	Run(ctx context.Context, catalogPath, salesPath string, console io.Writer) (core.RunSummary, error)
}

// Execute parses args, runs them through runner and returns the process
// exit code. Usage and load errors are printed to stdout.
func Execute(ctx context.Context, args []string, stdout io.Writer, runner Runner) int {
	inv, err := ParseInvocation(args)
	if err != nil {
		var invErr *InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(stdout, invErr.Message)
			return invErr.ExitCode
		}
		fmt.Fprintln(stdout, err)
		return ExitFailure
	}

	if _, err := runner.Run(ctx, inv.CatalogPath, inv.SalesPath, stdout); err != nil {
		for _, le := range loadErrors(err) {
			fmt.Fprintln(stdout, le.Error())
		}
		return ExitFailure
	}
	return ExitSuccess
}

// loadErrors flattens the load failures carried by err, in order.
func loadErrors(err error) []*loader.LoadError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*loader.LoadError
		for _, e := range joined.Unwrap() {
			out = append(out, loadErrors(e)...)
		}
		return out
	}
	var le *loader.LoadError
	if errors.As(err, &le) {
		return []*loader.LoadError{le}
	}
	return nil
}
