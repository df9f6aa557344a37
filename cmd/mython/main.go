// Command mython runs Mython scripts and hosts an interactive shell.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgomes/mython/mython"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	checkOnly := fs.Bool("check", false, "only parse the script without executing")
	stepQuota := fs.Int("step-quota", 0, "max node evaluations before aborting (0 = default)")
	recursionLimit := fs.Int("recursion-limit", 0, "max nested method-call depth (0 = default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("mython run: script path required")
	}
	scriptPath := remaining[0]
	absScriptPath, err := filepath.Abs(scriptPath)
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(absScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	source := string(input)

	program, err := mython.Parse(source)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	exec := mython.NewEvaluatorWithConfig(source, &mython.StreamContext{W: os.Stdout}, mython.Config{
		StepQuota:      *stepQuota,
		RecursionLimit: *recursionLimit,
	})
	if err := exec.Run(program, mython.NewEnv()); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [arguments]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintf(os.Stderr, "  %s run [-check] [-step-quota N] [-recursion-limit N] <script>   run a Mython script\n", prog)
	fmt.Fprintf(os.Stderr, "  %s repl                     start an interactive shell\n", prog)
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
