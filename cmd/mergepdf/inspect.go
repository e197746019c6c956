package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/yamlutil"
	flag "github.com/spf13/pflag"
)

// Inspect output formats.
const (
	formatText = "text"
	formatYAML = "yaml"
)

// inspectFlags holds flags for the inspect command.
type inspectFlags struct {
	prefix string
	format string
}

// inspectOutput is the structured form of an inspection.
type inspectOutput struct {
	Path     string      `yaml:"path"`
	Pages    int         `yaml:"pages"`
	Title    string      `yaml:"title,omitempty"`
	Producer string      `yaml:"producer,omitempty"`
	Labels   []pageLabel `yaml:"labels"`
}

type pageLabel struct {
	Page  int    `yaml:"page"`
	Label string `yaml:"label"`
}

func buildInspectFlagSet(f *inspectFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(cmdInspect, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVar(&f.prefix, "prefix", mergepdf.DefaultPrefix, "label prefix to look for")
	fs.StringVarP(&f.format, "format", "f", formatText, "output format: text, yaml")
	return fs
}

// runInspect handles "mergepdf inspect [flags] <file.pdf>...".
// It prints the page count and the provenance label found on each page.
func runInspect(ctx context.Context, args []string, env *Environment) error {
	f := &inspectFlags{}
	fs := buildInspectFlagSet(f)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printInspectUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.format != formatText && f.format != formatYAML {
		return fmt.Errorf("%w: format %q (must be text or yaml)", ErrUsage, f.format)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w (usage: mergepdf inspect merged.pdf)", ErrNoInput)
	}

	for _, path := range fs.Args() {
		report, err := env.Inspect(ctx, path)
		if err != nil {
			return err
		}
		out := summarize(report, f.prefix)
		if err := writeInspection(env.Stdout, out, f.format); err != nil {
			return err
		}
	}
	return nil
}

// summarize pairs each text page with its label.
func summarize(r *mergepdf.Report, prefix string) *inspectOutput {
	out := &inspectOutput{
		Path:     r.Path,
		Pages:    r.Pages,
		Title:    r.Title,
		Producer: r.Producer,
		Labels:   make([]pageLabel, 0, len(r.Text)),
	}
	for i, label := range r.Labels(prefix) {
		out.Labels = append(out.Labels, pageLabel{Page: r.Text[i].Page, Label: label})
	}
	return out
}

func writeInspection(w io.Writer, out *inspectOutput, format string) error {
	if format == formatYAML {
		data, err := yamlutil.Marshal([]*inspectOutput{out})
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	fmt.Fprintf(w, "%s: %d pages\n", out.Path, out.Pages)
	if out.Producer != "" {
		fmt.Fprintf(w, "  producer: %s\n", out.Producer)
	}
	for _, l := range out.Labels {
		label := l.Label
		if label == "" {
			label = "(no label)"
		}
		fmt.Fprintf(w, "  page %d: %s\n", l.Page, label)
	}
	return nil
}
