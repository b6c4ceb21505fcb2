package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/cli/config"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/async"
	"github.com/m-mizutani/officeimg/pkg/utils/report"
	"github.com/urfave/cli/v3"
)

// progressBuffer bounds how far extraction may run ahead of the console
const progressBuffer = 16

func cmdExtract(g *globalConfig) *cli.Command {
	var extractCfg config.Extract

	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"x"},
		Usage:     "Extract embedded images from .pptx/.docx documents",
		ArgsUsage: "FILE...",
		Flags:     extractCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			extractCfg.ApplyProfile(c, g.profile)

			files := c.Args().Slice()
			if len(files) == 0 {
				return goerr.New("at least one document is required", goerr.T(types.ErrTagInvalidInput))
			}

			uc, cleanup, err := g.newExtractUseCase(ctx, extractDeps{reveal: extractCfg.Open})
			defer cleanup()
			if err != nil {
				return err
			}

			out := newConsole(c.Root().Writer, extractCfg.Quiet)

			var failed int
			for _, file := range files {
				result, err := extractDocument(ctx, uc, &extractCfg, out, file)
				if err != nil {
					failed++
					out.failure(file, err)
					report.Error(ctx, "Failed to extract images", err)
					continue
				}
				out.summary(file, result)
			}

			if failed > 0 {
				return goerr.New("some documents could not be processed",
					goerr.V("failed", failed),
					goerr.V("total", len(files)),
					goerr.T(errTagReported))
			}
			return nil
		},
	}
}

// extractDocument runs one extraction in the background and renders its
// progress lines on the calling goroutine
func extractDocument(ctx context.Context, uc interfaces.ExtractUseCase, cfg *config.Extract, out *console, file string) (*model.ExtractionResult, error) {
	doc := model.SourceDocument{Path: file}
	if !cfg.Force && !doc.IsSupportedFormat() {
		return nil, goerr.New("unsupported document type, use --force to try anyway",
			goerr.V("path", file),
			goerr.V("supported", strings.Join(model.SupportedExtensions(), ", ")),
			goerr.T(types.ErrTagInvalidInput))
	}

	progress := make(chan string, progressBuffer)
	var result *model.ExtractionResult

	done := async.Dispatch(ctx, func(ctx context.Context) error {
		defer close(progress)

		var err error
		result, err = uc.Extract(ctx, &model.ExtractRequest{
			SourcePath: file,
			OutputRoot: cfg.Output,
			Progress: func(status string) {
				progress <- status
			},
		})
		return err
	})

	for status := range progress {
		out.progress(status)
	}

	if err := <-done; err != nil {
		return nil, err
	}
	return result, nil
}

// console renders extraction output for humans
type console struct {
	w     io.Writer
	quiet bool

	ok   *color.Color
	warn *color.Color
	fail *color.Color
	dim  *color.Color
}

func newConsole(w io.Writer, quiet bool) *console {
	return &console{
		w:     w,
		quiet: quiet,
		ok:    color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
		dim:   color.New(color.Faint),
	}
}

func (x *console) progress(status string) {
	if x.quiet {
		return
	}
	_, _ = x.dim.Fprintf(x.w, "  %s\n", status)
}

func (x *console) summary(file string, result *model.ExtractionResult) {
	if result.Count == 0 {
		_, _ = x.warn.Fprint(x.w, "no images")
		_, _ = fmt.Fprintf(x.w, " %s: no images found in the document\n", file)
		return
	}

	_, _ = x.ok.Fprint(x.w, "done")
	_, _ = fmt.Fprintf(x.w, " %s: saved %d images to %s\n", file, result.Count, result.OutputDir)
}

func (x *console) failure(file string, err error) {
	_, _ = x.fail.Fprint(x.w, "error")
	_, _ = fmt.Fprintf(x.w, " %s: %s (%s)\n", file, err.Error(), types.KindOf(err))
	if detail, ok := goerr.Values(err)["detail"].(string); ok && detail != "" {
		_, _ = fmt.Fprintf(x.w, "      %s\n", detail)
	}
}
