package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// colorLevelOnce/colorLevelVal cache the detected color support for the
// lifetime of the process, grounded in the teacher's own
// detectColorLevel/getColorLevel pair (internal/evaluator/builtins_term.go).
var (
	colorLevelOnce sync.Once
	colorLevelVal  int
)

func detectColorLevel() int {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return 0
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return 0
	}
	if os.Getenv("TERM") == "dumb" {
		return 0
	}
	return 1
}

func getColorLevel() int {
	colorLevelOnce.Do(func() {
		colorLevelVal = detectColorLevel()
	})
	return colorLevelVal
}

func ansiWrap(code, resetCode, s string) string {
	if getColorLevel() == 0 {
		return s
	}
	return code + s + resetCode
}

func ansiFg(colorCode int, s string) string {
	return ansiWrap(fmt.Sprintf("\033[%dm", colorCode), "\033[39m", s)
}

func red(s string) string   { return ansiFg(31, s) }
func green(s string) string { return ansiFg(32, s) }
func yellow(s string) string { return ansiFg(33, s) }

// reportValue prints a successfully reduced value's rendering to stdout.
func reportValue(rendering string) {
	fmt.Println(green(rendering))
}

// reportBlame prints the accused party of a blame failure to stderr,
// following the indy rule that a non-empty Context overrides either
// label endpoint as the party actually at fault.
func reportBlame(accused, context, message string) {
	who := accused
	if context != "" {
		who = context
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", red("blame"), red(who))
	if message != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", message)
	}
}

func reportStuck(message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", yellow("stuck term"), message)
}

func reportUnbound(name string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", yellow("unbound variable"), name)
}

// reportSummary prints the humanized reduction-step count gathered from
// the evaluator, the CLI's only observability surface (SPEC_FULL.md,
// "Added: reduction-step counter").
func reportSummary(steps uint64) {
	fmt.Fprintf(os.Stderr, "reduction steps: %s\n", humanize.Comma(int64(steps)))
}
