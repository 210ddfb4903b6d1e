// Package export turns rendered resume documents into downloadable files and optionally
// archives them in object storage.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// DefaultPDFTimeout bounds a single print, including browser startup.
const DefaultPDFTimeout = 60 * time.Second

// A4 paper size in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// PDFRenderer prints an HTML document to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// PDFError represents a failure printing a document
type PDFError struct {
	Message string
	Cause   error
}

func (e *PDFError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf export failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf export failed: %s", e.Message)
}

func (e *PDFError) Unwrap() error {
	return e.Cause
}

// ChromeRenderer prints documents with a headless Chrome started per call.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	// ExecPath overrides the browser binary; empty uses chromedp's lookup.
	ExecPath string
	Timeout  time.Duration
}

// NewChromeRenderer creates a ChromeRenderer using execPath when it is set.
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{ExecPath: execPath, Timeout: DefaultPDFTimeout}
}

// RenderPDF loads html into a blank page and prints it on A4 with backgrounds.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, &PDFError{Message: "empty document"}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &PDFError{Message: "browser print failed", Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &PDFError{Message: "browser returned no data"}
	}

	log.Debug().Int("bytes", len(pdf)).Dur("duration", time.Since(start)).Msg("printed pdf")
	return pdf, nil
}
