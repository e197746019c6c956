package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/fileutil"
	flag "github.com/spf13/pflag"
)

// Session status messages.
const (
	statusReady   = "Ready"
	statusMerging = "Merging PDFs..."
	statusFailed  = "Error occurred during merge"
)

const prompt = "mergepdf> "

// session owns the selected files, the output path and the status line
// of an interactive run.
type session struct {
	env      *Environment
	settings *settings
	merger   Merger
	files    []string
	output   string
	status   string
}

// runInteractive handles "mergepdf interactive [flags]".
func runInteractive(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRunFlags(cmdInteractive, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printInteractiveUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	warnUnknownEnvVars(env.Stderr)
	s, err := resolveSettings(flags, loadEnvConfig())
	if err != nil {
		return err
	}

	m, err := env.NewMerger(s.options(nil)...)
	if err != nil {
		return err
	}

	sess := newSession(env, s, m)
	sess.add(positional)
	return sess.run(ctx, env.Stdin)
}

func newSession(env *Environment, s *settings, m Merger) *session {
	return &session{
		env:      env,
		settings: s,
		merger:   m,
		output:   s.output,
		status:   statusReady,
	}
}

// run reads commands from in until quit, end of input or cancellation.
func (s *session) run(ctx context.Context, in io.Reader) error {
	tty := s.env.IsTerminal()
	if tty {
		fmt.Fprintln(s.env.Stdout, "PDF Merger. Type 'help' for commands.")
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		if tty {
			fmt.Fprint(s.env.Stdout, prompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := s.execute(ctx, line); quit {
				return nil
			}
		}
	}
}

// execute runs one command line and reports whether the session should end.
func (s *session) execute(ctx context.Context, line string) bool {
	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintf(s.env.Stderr, "error: %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch cmd, rest := strings.ToLower(args[0]), args[1:]; cmd {
	case "add", "a":
		s.add(rest)
		fmt.Fprintln(s.env.Stdout, s.status)
	case "remove", "rm":
		if err := s.remove(rest); err != nil {
			fmt.Fprintf(s.env.Stderr, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(s.env.Stdout, s.status)
	case "list", "ls":
		s.list()
	case "clear":
		s.clear()
		fmt.Fprintln(s.env.Stdout, s.status)
	case "output", "o":
		s.setOutput(rest)
	case "merge", "m":
		s.merge(ctx)
	case "status":
		fmt.Fprintln(s.env.Stdout, s.status)
	case "help", "?":
		printSessionHelp(s.env.Stdout)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.env.Stderr, "unknown command %q (type 'help')\n", cmd)
	}
	return false
}

// add appends paths that are not already selected.
// Selection order is merge order.
func (s *session) add(paths []string) {
	if len(paths) == 0 {
		return
	}
	for _, p := range paths {
		if !fileutil.HasExtension(p, "pdf") {
			fmt.Fprintf(s.env.Stderr, "warning: %s does not have a .pdf extension\n", p)
		}
		if !slices.Contains(s.files, p) {
			s.files = append(s.files, p)
		}
	}
	s.status = selectedStatus(len(s.files))
}

// remove deletes entries by 1-based index, highest first so that
// earlier removals do not shift later ones.
func (s *session) remove(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: remove needs at least one index", ErrUsage)
	}

	indices := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > len(s.files) {
			return fmt.Errorf("%w: no file at index %q (1-%d)", ErrUsage, a, len(s.files))
		}
		if !slices.Contains(indices, n-1) {
			indices = append(indices, n-1)
		}
	}

	slices.Sort(indices)
	slices.Reverse(indices)
	for _, i := range indices {
		s.files = slices.Delete(s.files, i, i+1)
	}
	s.status = selectedStatus(len(s.files))
	return nil
}

func (s *session) clear() {
	s.files = nil
	s.status = statusReady
}

func (s *session) list() {
	if len(s.files) == 0 {
		fmt.Fprintln(s.env.Stdout, "No files selected")
	}
	for i, f := range s.files {
		fmt.Fprintf(s.env.Stdout, "%3d  %s\n", i+1, filepath.Base(f))
	}
	fmt.Fprintf(s.env.Stdout, "Output: %s\n", s.output)
}

func (s *session) setOutput(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(s.env.Stdout, "Output: %s\n", s.output)
		return
	}
	s.output = args[0]
	fmt.Fprintf(s.env.Stdout, "Output: %s\n", s.output)
}

// merge runs the merge for the current selection. Failures are reported
// through the status line and do not end the session.
func (s *session) merge(ctx context.Context) {
	if len(s.files) == 0 {
		fmt.Fprintln(s.env.Stderr, "No files: Please add PDF files to merge.")
		return
	}
	if s.output == "" {
		fmt.Fprintln(s.env.Stderr, "No output file: Please specify an output file name.")
		return
	}

	s.status = statusMerging
	fmt.Fprintln(s.env.Stdout, s.status)

	res, err := s.mergeFiles(ctx)
	if err != nil {
		fmt.Fprintf(s.env.Stderr, "An error occurred: %v%s\n", err, hintFor(err))
		s.status = statusFailed
		fmt.Fprintln(s.env.Stdout, s.status)
		return
	}

	s.status = savedMessage(res)
	fmt.Fprintln(s.env.Stdout, s.status)
}

func (s *session) mergeFiles(ctx context.Context) (*mergepdf.Result, error) {
	if err := checkInputs(s.files); err != nil {
		return nil, err
	}
	removeCreated, err := ensureOutputDir(s.output)
	if err != nil {
		return nil, err
	}
	if s.settings.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.timeout)
		defer cancel()
	}
	res, err := s.merger.Merge(ctx, slices.Clone(s.files), s.output)
	if err != nil {
		removeCreated()
		return nil, err
	}
	return res, nil
}

func selectedStatus(n int) string {
	return fmt.Sprintf("%d files selected", n)
}

// splitArgs splits a command line on whitespace, honoring single and
// double quotes so that paths may contain spaces.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)

	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
