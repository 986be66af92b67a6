package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/funxy-contracts/internal/config"
	"github.com/funvibe/funxy-contracts/internal/evalerr"
	"github.com/funvibe/funxy-contracts/internal/evaluator"
	"github.com/funvibe/funxy-contracts/internal/fixture"
)

// isFixtureFile checks if a file has a recognized fixture extension,
// mirroring the teacher's isSourceFile/config.SourceFileExtensions
// check in its own cmd/funxy/main.go.
func isFixtureFile(path string) bool {
	for _, ext := range config.FixtureFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func readInputPath(args []string) (string, error) {
	if len(args) < 2 {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", fmt.Errorf("usage: %s <fixture path> or pipe a fixture from stdin", args[0])
		}
		tmp, err := os.CreateTemp("", "funxy-stdin-*.fixture.yaml")
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		defer tmp.Close()
		if _, err := io.Copy(tmp, os.Stdin); err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return tmp.Name(), nil
	}
	return args[1], nil
}

func run(path string) int {
	if !isFixtureFile(path) {
		fmt.Fprintf(os.Stderr, "Error: %s is not a recognized fixture file (expected one of %v)\n", path, config.FixtureFileExtensions)
		return 2
	}

	expr, err := fixture.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 2
	}

	ev := evaluator.New()
	env := evaluator.NewEnvironment()
	val, err := ev.Eval(expr, env)
	defer reportSummary(ev.Steps)

	if err == nil {
		reportValue(val.Inspect())
		return 0
	}

	switch e := err.(type) {
	case *evalerr.BlameError:
		reportBlame(e.Label.Accused(), e.Label.Context, e.Message)
		return 1
	case *evalerr.StuckError:
		reportStuck(e.Error())
		return 2
	case *evalerr.UnboundVarError:
		reportUnbound(e.Name)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 2
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(2)
		}
	}()

	args := os.Args
	path, err := readInputPath(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if len(args) >= 2 {
		abs, err := filepath.Abs(args[1])
		if err == nil {
			path = abs
		}
	}
	os.Exit(run(path))
}
