package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/alnah/go-mergepdf/internal/yamlutil"
	flag "github.com/spf13/pflag"
)

// Manifest lists independent merge jobs for the batch command.
//
//	jobs:
//	  - output: reports/q1.pdf
//	    inputs: [jan.pdf, feb.pdf, mar.pdf]
type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

// Job is one merge: inputs in order, written to output.
// Relative paths are resolved against the manifest directory.
type Job struct {
	Output string   `yaml:"output"`
	Inputs []string `yaml:"inputs"`
}

// JobResult holds the outcome of a single batch job.
type JobResult struct {
	Output   string
	Pages    int
	Err      error
	Duration time.Duration

	removeCreated func() // set when the job failed after creating directories
}

// runBatch handles "mergepdf batch [flags] <manifest.yaml>".
func runBatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRunFlags(cmdBatch, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printBatchUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: batch expects exactly one manifest file, got %d", ErrUsage, len(positional))
	}

	warnUnknownEnvVars(env.Stderr)
	s, err := resolveSettings(flags, loadEnvConfig())
	if err != nil {
		return err
	}

	manifest, err := loadManifest(positional[0])
	if err != nil {
		return err
	}

	m, err := env.NewMerger(s.options(nil)...)
	if err != nil {
		return err
	}

	size := resolvePoolSize(s.workers)
	if s.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", size)
	}

	results := runJobs(ctx, m, manifest.Jobs, size, s.timeout)
	failed := printJobResults(results, s.quiet, s.verbose, env.Stdout, env.Stderr)

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d jobs failed", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// loadManifest reads, resolves and validates a batch manifest.
func loadManifest(path string) (*Manifest, error) {
	var manifest Manifest
	if err := yamlutil.DecodeFile(path, &manifest); err != nil {
		if errors.Is(err, yamlutil.ErrNilData) {
			return nil, fmt.Errorf("%w: %s is empty", ErrInvalidManifest, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrReadManifest, err)
	}

	base := filepath.Dir(path)
	for i := range manifest.Jobs {
		job := &manifest.Jobs[i]
		job.Output = resolveAgainst(base, job.Output)
		for j, in := range job.Inputs {
			job.Inputs[j] = resolveAgainst(base, in)
		}
	}

	if err := validateManifest(&manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// resolveAgainst makes a relative path relative to base instead of the
// working directory. Empty paths stay empty.
func resolveAgainst(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateManifest rejects empty jobs and output collisions.
// Jobs run concurrently, so no output may be shared with another job,
// either as its output or as one of its inputs.
func validateManifest(m *Manifest) error {
	if len(m.Jobs) == 0 {
		return fmt.Errorf("%w: no jobs", ErrInvalidManifest)
	}

	outputs := make(map[string]int, len(m.Jobs))
	for i, job := range m.Jobs {
		if job.Output == "" {
			return fmt.Errorf("%w: job %d has no output", ErrInvalidManifest, i+1)
		}
		if len(job.Inputs) == 0 {
			return fmt.Errorf("%w: job %d (%s) has no inputs", ErrInvalidManifest, i+1, job.Output)
		}
		key := pathKey(job.Output)
		if prev, ok := outputs[key]; ok {
			return fmt.Errorf("%w: %s is written by jobs %d and %d", ErrDuplicateOutput, job.Output, prev+1, i+1)
		}
		outputs[key] = i
	}

	for i, job := range m.Jobs {
		for _, in := range job.Inputs {
			if prev, ok := outputs[pathKey(in)]; ok && prev != i {
				return fmt.Errorf("%w: %s is written by job %d and read by job %d", ErrDuplicateOutput, in, prev+1, i+1)
			}
		}
	}
	return nil
}

// pathKey normalizes a path for collision checks.
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// runJobs merges every job using a bounded worker pool.
// Results are returned in manifest order.
func runJobs(ctx context.Context, m Merger, jobs []Job, size int, timeout time.Duration) []JobResult {
	results := make([]JobResult, len(jobs))

	runPool(ctx, size, len(jobs),
		func(ctx context.Context, i int) {
			results[i] = runJob(ctx, m, jobs[i], timeout)
		},
		func(i int, err error) {
			results[i] = JobResult{Output: jobs[i].Output, Err: err}
		},
	)

	// Jobs may share a new output directory, so failed jobs clean up only
	// once every job is done. Directories holding any output are kept.
	for _, r := range results {
		if r.removeCreated != nil {
			r.removeCreated()
		}
	}
	return results
}

// runJob runs a single job and returns its result.
func runJob(ctx context.Context, m Merger, job Job, timeout time.Duration) JobResult {
	start := time.Now()
	result := JobResult{Output: job.Output}

	if err := checkInputs(job.Inputs); err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	removeCreated, err := ensureOutputDir(job.Output)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := m.Merge(ctx, job.Inputs, job.Output)
	if err != nil {
		result.removeCreated = removeCreated
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.Pages = res.Pages
	result.Duration = time.Since(start)
	return result
}

// printJobResults outputs batch results and returns the number of failures.
func printJobResults(results []JobResult, quiet, verbose bool, stdout, stderr io.Writer) int {
	failed := 0

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(stderr, "FAILED %s: %v%s\n", r.Output, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(stdout, "Merged PDF saved as %s (%d pages, %v)\n", r.Output, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(stdout, "Merged PDF saved as %s\n", r.Output)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	return failed
}
