package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf <command> [flags] [args]")
	fmt.Fprintln(w, "       mergepdf <output.pdf> <input.pdf>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  merge        Merge PDF files, labeling each page with its source")
	fmt.Fprintln(w, "  batch        Run merge jobs from a YAML manifest")
	fmt.Fprintln(w, "  interactive  Build a merge list interactively")
	fmt.Fprintln(w, "  inspect      Show page count and source labels of a PDF")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mergepdf help <command>' for details on a specific command.")
}

// printRunFlags prints the flags shared by merge, batch and interactive.
func printRunFlags(w io.Writer) {
	fmt.Fprintln(w, "Watermark:")
	fmt.Fprintln(w, "      --wm-prefix <s>       Label prefix (default \"Source: \")")
	fmt.Fprintln(w, "      --wm-size <f>         Font size in points (default 10, max 72)")
	fmt.Fprintln(w, "      --wm-margin <f>       Distance from right and bottom edges (default 20)")
	fmt.Fprintln(w, "      --wm-gray <f>         Gray level, 0 black to 1 white (default 0.5)")
	fmt.Fprintln(w, "      --geometry <s>        Overlay geometry: first-page, per-page, letter")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --compression <n>     Stream compression level (0-9)")
	fmt.Fprintln(w, "      --deterministic       Reproducible output bytes")
	fmt.Fprintln(w, "      --max-input-mb <n>    Per-input size limit in MiB (default 256)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-merge timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file progress and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MERGEPDF_CONFIG, MERGEPDF_OUTPUT, MERGEPDF_TIMEOUT, MERGEPDF_WORKERS,")
	fmt.Fprintln(w, "  MERGEPDF_WM_PREFIX, MERGEPDF_GEOMETRY")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printMergeUsage prints usage for the merge command.
func printMergeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf merge [flags] <input.pdf>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge PDF files in the given order. Every page is labeled")
	fmt.Fprintln(w, "\"Source: <file name>\" in its bottom-right corner.")
	fmt.Fprintln(w, "Nothing is written unless every input can be read.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default merged_output.pdf)")
	fmt.Fprintln(w)
	printRunFlags(w)
}

// printBatchUsage prints usage for the batch command.
func printBatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf batch [flags] <manifest.yaml>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run independent merge jobs in parallel. Manifest format:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  jobs:")
	fmt.Fprintln(w, "    - output: q1.pdf")
	fmt.Fprintln(w, "      inputs: [jan.pdf, feb.pdf, mar.pdf]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Relative paths are resolved against the manifest directory.")
	fmt.Fprintln(w, "No two jobs may write the same output.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Jobs:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel jobs (0 = auto)")
	fmt.Fprintln(w)
	printRunFlags(w)
}

// printInteractiveUsage prints usage for the interactive command.
func printInteractiveUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf interactive [flags] [input.pdf...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Start a session that keeps a list of selected files.")
	fmt.Fprintln(w)
	printSessionHelp(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Initial output PDF (default merged_output.pdf)")
	fmt.Fprintln(w)
	printRunFlags(w)
}

// printSessionHelp lists interactive session commands.
func printSessionHelp(w io.Writer) {
	fmt.Fprintln(w, "Session commands:")
	fmt.Fprintln(w, "  add <path>...       Add files (duplicates are skipped)")
	fmt.Fprintln(w, "  remove <n>...       Remove files by list number")
	fmt.Fprintln(w, "  list                Show selected files and output")
	fmt.Fprintln(w, "  clear               Remove all files")
	fmt.Fprintln(w, "  output <path>       Set the output file")
	fmt.Fprintln(w, "  merge               Merge selected files")
	fmt.Fprintln(w, "  status              Show status")
	fmt.Fprintln(w, "  help                Show this help")
	fmt.Fprintln(w, "  quit                Leave the session")
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf inspect [flags] <file.pdf>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the page count and the source label found on each page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --prefix <s>          Label prefix to look for (default \"Source: \")")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: text, yaml")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdMerge:
		printMergeUsage(env.Stdout)
	case cmdBatch:
		printBatchUsage(env.Stdout)
	case cmdInteractive:
		printInteractiveUsage(env.Stdout)
	case cmdInspect:
		printInspectUsage(env.Stdout)
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: mergepdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: mergepdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
