package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vitae/pkg/errors"
	"github.com/matzehuels/vitae/pkg/pipeline"
	"github.com/matzehuels/vitae/pkg/resume"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single format) or base path; "-" for stdout
	template  string   // skin ID
	formats   []string // docx, pdf, html, json
	tailoring string   // tailoring JSON/YAML drawn over html output
	noCache   bool     // skip the artifact cache entirely
	refresh   bool     // ignore cached artifacts but store fresh ones
}

// renderCommand renders a resume file to one or more formats.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a resume to DOCX, PDF, HTML or a JSON block plan",
		Example: `  vitae render resume.json
  vitae render resume.yaml -t modern -f docx,pdf -o out/jane
  vitae render resume.json -f html --tailoring match.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			if len(formats) == 0 {
				formats = []string{pipeline.FormatDOCX}
			}
			opts.formats = formats
			if opts.output == "-" && len(formats) > 1 {
				return fmt.Errorf("cannot write %d formats to stdout", len(formats))
			}
			if opts.output != "" && opts.output != "-" {
				if err := errors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&opts.template, "template", "t", pipeline.DefaultTemplate, "template skin")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.FormatDOCX, "output format(s): docx, pdf, html, json (comma-separated)")
	cmd.Flags().StringVar(&opts.tailoring, "tailoring", "", "tailoring result to overlay on html output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	_ = cmd.RegisterFlagCompletionFunc("template", completeTemplates)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := commandLogger(ctx)
	timer := startRender(logger, input)

	res, err := resume.Load(input)
	if err != nil {
		return err
	}
	var tailoring *resume.Tailoring
	if opts.tailoring != "" {
		if tailoring, err = resume.LoadTailoring(opts.tailoring); err != nil {
			return err
		}
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s with %s", filepath.Base(input), opts.template))
	if opts.output != "-" {
		spin.Start()
	}
	result, err := runner.Execute(ctx, res, pipeline.Options{
		Template:  opts.template,
		Formats:   opts.formats,
		Tailoring: tailoring,
		Refresh:   opts.refresh,
		Logger:    logger,
	})
	if opts.output != "-" {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	var written []string
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, len(opts.formats))
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}

	timer.rendered(opts.formats, result.CacheInfo.RenderHit)
	printSuccess("Rendered %s (%s)", res.Name, opts.template)
	for _, p := range written {
		printFile(p)
	}
	printStats(result.Stats.Sections, result.Stats.Blocks, result.CacheInfo.RenderHit)
	return nil
}

// outputPath picks the file for one format. A lone format written to an
// explicit -o path is used verbatim; otherwise the format extension is
// appended to the base path.
func outputPath(output, input, format string, count int) string {
	if output != "" && count == 1 && filepath.Ext(output) != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path. With no output it is the input
// without its extension; a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
