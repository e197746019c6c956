package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	mergepdf "github.com/alnah/go-mergepdf"
	flag "github.com/spf13/pflag"
)

// dirPermissions is used when creating missing output directories.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// runMerge handles "mergepdf merge [flags] <input.pdf>...".
func runMerge(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseRunFlags(cmdMerge, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printMergeUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w (usage: mergepdf merge -o out.pdf a.pdf b.pdf)", ErrNoInput)
	}

	warnUnknownEnvVars(env.Stderr)
	s, err := resolveSettings(flags, loadEnvConfig())
	if err != nil {
		return err
	}

	return mergeOnce(ctx, env, s, inputs)
}

// runLegacy handles the positional form "mergepdf <output.pdf> <input.pdf>...".
func runLegacy(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: mergepdf output.pdf input1.pdf input2.pdf ...", ErrUsage)
	}
	return runMerge(ctx, append([]string{"--output", args[0]}, args[1:]...), env)
}

// mergeOnce runs a single merge with resolved settings and reports the result.
func mergeOnce(ctx context.Context, env *Environment, s *settings, inputs []string) error {
	if err := checkInputs(inputs); err != nil {
		return err
	}

	var progress func(mergepdf.Progress)
	if s.verbose {
		progress = progressPrinter(env)
	}
	m, err := env.NewMerger(s.options(progress)...)
	if err != nil {
		return err
	}

	removeCreated, err := ensureOutputDir(s.output)
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := env.Now()
	res, err := m.Merge(ctx, inputs, s.output)
	if err != nil {
		removeCreated()
		return err
	}

	if !s.quiet {
		fmt.Fprintln(env.Stdout, savedMessage(res))
	}
	if s.verbose {
		fmt.Fprintf(env.Stdout, "%d pages from %d files in %v\n",
			res.Pages, len(res.Sources), env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// savedMessage is the success line shared by merge and interactive sessions.
func savedMessage(res *mergepdf.Result) string {
	return "Merged PDF saved as " + res.OutputPath
}

// progressPrinter reports each stamped input on stderr.
func progressPrinter(env *Environment) func(mergepdf.Progress) {
	return func(p mergepdf.Progress) {
		fmt.Fprintf(env.Stderr, "[%d/%d] %s: %d pages (%v)\n",
			p.Index+1, p.Total, p.Label, p.Pages, p.Duration.Round(time.Millisecond))
	}
}

// checkInputs reports every input that is not an existing regular file,
// before any merge work starts.
func checkInputs(inputs []string) error {
	var errs []error
	for i, path := range inputs {
		info, err := os.Stat(path)
		switch {
		case err != nil && os.IsNotExist(err):
			errs = append(errs, &mergepdf.InputError{Path: path, Index: i, Err: mergepdf.ErrInputNotFound})
		case err != nil:
			errs = append(errs, &mergepdf.InputError{Path: path, Index: i, Err: fmt.Errorf("%w: %v", mergepdf.ErrInputUnreadable, err)})
		case info.IsDir():
			errs = append(errs, &mergepdf.InputError{Path: path, Index: i, Err: fmt.Errorf("%w: is a directory", mergepdf.ErrInputNotFound)})
		case !info.Mode().IsRegular():
			errs = append(errs, &mergepdf.InputError{Path: path, Index: i, Err: fmt.Errorf("%w: not a regular file", mergepdf.ErrInputNotFound)})
		}
	}
	return errors.Join(errs...)
}

// ensureOutputDir creates the parent directory of output if it is missing.
// The returned func removes the directories it created, deepest first, and
// must be called when the merge fails.
func ensureOutputDir(output string) (removeCreated func(), err error) {
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: output %q must be a file path", ErrUsage, output)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%w: output %q is a directory", ErrUsage, output)
	}
	dir := filepath.Dir(output)
	if dir == "." {
		return func() {}, nil
	}

	var created []string
	for d := dir; d != "." && d != filepath.Dir(d); d = filepath.Dir(d) {
		if _, err := os.Lstat(d); !errors.Is(err, fs.ErrNotExist) {
			break
		}
		created = append(created, d)
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		removeDirs(created)
		return nil, &mergepdf.OutputError{Path: output, Err: fmt.Errorf("creating output directory: %w", err)}
	}
	return func() { removeDirs(created) }, nil
}

// removeDirs removes empty directories in order, stopping at the first
// one that cannot be removed.
func removeDirs(dirs []string) {
	for _, d := range dirs {
		if err := os.Remove(d); err != nil {
			return
		}
	}
}
