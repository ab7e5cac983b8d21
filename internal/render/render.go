package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

var ErrEmptyDocument = errors.New("html document is empty")

// PlaywrightRenderer prints HTML to A4 PDF with headless Chromium. The
// browser is started lazily on first use and shared by later calls.
type PlaywrightRenderer struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywrightRenderer() *PlaywrightRenderer {
	return &PlaywrightRenderer{}
}

func (renderer *PlaywrightRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := renderer.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(WrapDocument(html), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("0"),
			Bottom: playwright.String("0"),
			Left:   playwright.String("0"),
			Right:  playwright.String("0"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

func (renderer *PlaywrightRenderer) ensureBrowser() (playwright.Browser, error) {
	renderer.mu.Lock()
	defer renderer.mu.Unlock()

	if renderer.browser != nil && renderer.browser.IsConnected() {
		return renderer.browser, nil
	}
	if renderer.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		renderer.pw = pw
	}

	browser, err := renderer.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	renderer.browser = browser
	return browser, nil
}

func (renderer *PlaywrightRenderer) Close() error {
	renderer.mu.Lock()
	defer renderer.mu.Unlock()

	var errs []error
	if renderer.browser != nil {
		errs = append(errs, renderer.browser.Close())
		renderer.browser = nil
	}
	if renderer.pw != nil {
		errs = append(errs, renderer.pw.Stop())
		renderer.pw = nil
	}
	return errors.Join(errs...)
}

const defaultStyle = `<style>
@page { size: A4; margin: 1.8cm 2cm; }
body { font-family: Helvetica, Arial, sans-serif; font-size: 9.5pt; line-height: 1.5; color: #222; }
h1 { font-size: 20pt; margin: 0 0 2px 0; }
h2 { font-size: 10.5pt; border-bottom: 1px solid #222; padding-bottom: 2px; margin: 14px 0 6px 0; text-transform: uppercase; }
ul { padding-left: 16px; margin: 4px 0; }
p { margin: 0 0 4px 0; }
</style>`

// WrapDocument turns an HTML fragment into a full document with print
// styles. Complete documents are returned unchanged.
func WrapDocument(html string) string {
	trimmed := strings.TrimSpace(html)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		return trimmed
	}
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\">" + defaultStyle + "</head><body>" + trimmed + "</body></html>"
}
