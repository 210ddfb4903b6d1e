package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Output formats for the render command
const (
	formatHTML = "html"
	formatPDF  = "pdf"
	formatText = "txt"
)

// maxParallelRenders bounds concurrent renders; each PDF render starts its own browser.
const maxParallelRenders = 3

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume content file",
	Long:  "Renders a resume content JSON file into one template, or every template with --all, as HTML, PDF or plain text.",
	RunE:  runRender,
}

var (
	renderContentFile string
	renderTemplate    string
	renderAll         bool
	renderFormat      string
	renderOutDir      string
)

func init() {
	renderCmd.Flags().StringVarP(&renderContentFile, "content", "c", "", "Path to resume content JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", string(types.DefaultTemplate), "Template to render")
	renderCmd.Flags().BoolVar(&renderAll, "all", false, "Render every template")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", formatHTML, "Output format (html, pdf, txt)")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", ".", "Output directory")
	renderCmd.Flags().String("chrome-path", "", "Chrome/Chromium binary for PDF output (defaults to CHROME_PATH)")
	_ = renderCmd.MarkFlagRequired("content")

	rootCmd.AddCommand(renderCmd)
}

// renderJob describes one render-command invocation.
type renderJob struct {
	Content   types.ResumeContent
	Templates []types.TemplateType
	Format    string
	OutDir    string
	PDF       export.PDFRenderer // used for pdf output only
}

func runRender(cmd *cobra.Command, _ []string) error {
	content, err := loadContentFile(renderContentFile)
	if err != nil {
		return err
	}

	templates := []types.TemplateType{types.TemplateType(renderTemplate)}
	if renderAll {
		templates = templates[:0]
		for _, opt := range types.TemplateOptions {
			templates = append(templates, opt.Value)
		}
	} else if !templates[0].Valid() {
		return fmt.Errorf("unknown template %q", renderTemplate)
	}

	job := renderJob{
		Content:   content,
		Templates: templates,
		Format:    renderFormat,
		OutDir:    renderOutDir,
	}
	if renderFormat == formatPDF {
		job.PDF = export.NewChromeRenderer(settings.ChromePath)
	}

	paths, err := renderFiles(cmd.Context(), job)
	if err != nil {
		return err
	}
	for _, p := range paths {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

// loadContentFile reads and schema-checks a resume content file.
func loadContentFile(path string) (types.ResumeContent, error) {
	if err := schemas.ValidateContentFile(path); err != nil {
		return types.ResumeContent{}, fmt.Errorf("invalid content file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeContent{}, fmt.Errorf("failed to read content file: %w", err)
	}

	var content types.ResumeContent
	if err := json.Unmarshal(data, &content); err != nil {
		return types.ResumeContent{}, fmt.Errorf("failed to parse content file: %w", err)
	}
	content.Normalize()
	return content, nil
}

// renderFiles renders every requested template concurrently and returns the written paths
// in template order.
func renderFiles(ctx context.Context, job renderJob) ([]string, error) {
	switch job.Format {
	case formatHTML, formatText:
	case formatPDF:
		if job.PDF == nil {
			return nil, fmt.Errorf("pdf output requires a PDF renderer")
		}
	default:
		return nil, fmt.Errorf("unknown format %q (must be html, pdf or txt)", job.Format)
	}

	if err := os.MkdirAll(job.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, len(job.Templates))
	var mu sync.Mutex
	written := make(map[string]types.TemplateType)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRenders)
	for i, tmpl := range job.Templates {
		g.Go(func() error {
			doc, err := rendering.Render(job.Content, tmpl)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", tmpl, err)
			}

			data, err := encodeDocument(ctx, job, doc)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", tmpl, err)
			}

			name := export.Filename(export.BaseName(doc.Title)+"-"+string(doc.Template), "."+job.Format)
			path := filepath.Join(job.OutDir, name)

			mu.Lock()
			if other, dup := written[path]; dup {
				mu.Unlock()
				return fmt.Errorf("templates %s and %s both resolve to %s", other, tmpl, path)
			}
			written[path] = tmpl
			mu.Unlock()

			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			log.Debug().Str("template", string(doc.Template)).Str("path", path).Msg("rendered resume")
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// encodeDocument converts a rendered document to the requested output format.
func encodeDocument(ctx context.Context, job renderJob, doc *rendering.Document) ([]byte, error) {
	switch job.Format {
	case formatPDF:
		return job.PDF.RenderPDF(ctx, doc.HTML)
	case formatText:
		text, err := rendering.PlainText(doc.HTML)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	default:
		return []byte(doc.HTML), nil
	}
}
