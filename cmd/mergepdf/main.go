package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alnah/go-mergepdf/internal/fileutil"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdMerge       = "merge"
	cmdBatch       = "batch"
	cmdInteractive = "interactive"
	cmdInspect     = "inspect"
	cmdCompletion  = "completion"
	cmdVersion     = "version"
	cmdHelp        = "help"
)

func main() {
	verbose := hasVerboseFlag(os.Args[1:])

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error

	switch cmd {
	case cmdMerge:
		err = runMerge(ctx, rest, env)
	case cmdBatch:
		err = runBatch(ctx, rest, env)
	case cmdInteractive:
		err = runInteractive(ctx, rest, env)
	case cmdInspect:
		err = runInspect(ctx, rest, env)
	case cmdCompletion:
		err = runCompletion(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "go-mergepdf %s\n", Version)
	case cmdHelp, "-h", "--help":
		runHelp(rest, env)
	default:
		if !isLegacyInvocation(cmd) {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		err = runLegacy(ctx, args[1:], env)
	}

	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// notifyContext returns a context that is canceled when a shutdown signal
// is received. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

// isLegacyInvocation reports whether arg starts the positional form
// "mergepdf <output.pdf> <input.pdf>...".
func isLegacyInvocation(arg string) bool {
	return fileutil.HasExtension(arg, "pdf")
}

// hasVerboseFlag scans args for -v or --verbose before full parsing.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
