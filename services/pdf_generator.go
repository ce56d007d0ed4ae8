package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const mmPerInch = 25.4

// ChromeRenderer drives headless Chrome for stylesheet printing and SVG rasterizing
type ChromeRenderer struct {
	chromePath string
	settle     time.Duration
}

var _ SVGRasterizer = (*ChromeRenderer)(nil)

// NewChromeRenderer uses chromePath when set (headless-shell in Docker), the system Chrome otherwise
func NewChromeRenderer(chromePath string) *ChromeRenderer {
	return &ChromeRenderer{chromePath: chromePath, settle: 100 * time.Millisecond}
}

func (r *ChromeRenderer) newContext(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		cancel()
		allocCancel()
	}
}

func setDocumentContent(htmlContent string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
	})
}

// PrintToPDF renders htmlContent on a page of widthMm x heightMm without margins
func (r *ChromeRenderer) PrintToPDF(ctx context.Context, htmlContent string, widthMm, heightMm float64) ([]byte, error) {
	browserCtx, cancel := r.newContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		setDocumentContent(htmlContent),
		chromedp.Sleep(r.settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(widthMm / mmPerInch).
				WithPaperHeight(heightMm / mmPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

// rasterizeScript draws the SVG onto a canvas of its natural size and returns a PNG data URL
const rasterizeScript = `new Promise((resolve, reject) => {
  const img = new Image();
  img.onload = () => {
    const canvas = document.createElement('canvas');
    canvas.width = img.naturalWidth || %d;
    canvas.height = img.naturalHeight || %d;
    canvas.getContext('2d').drawImage(img, 0, 0, canvas.width, canvas.height);
    resolve(canvas.toDataURL('image/png'));
  };
  img.onerror = () => reject(new Error('SVG could not be loaded'));
  img.src = %q;
})`

// Rasterize renders svg to PNG at its natural size (400x600 when it declares none)
func (r *ChromeRenderer) Rasterize(ctx context.Context, svg []byte) ([]byte, error) {
	browserCtx, cancel := r.newContext(ctx)
	defer cancel()

	src := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
	script := fmt.Sprintf(rasterizeScript, DefaultSVGWidth, DefaultSVGHeight, src)

	var dataURL string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.Evaluate(script, &dataURL, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize SVG: %w", err)
	}

	data, _, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WrapPosterHTMLForPDF builds a page holding a single full-bleed image
func WrapPosterHTMLForPDF(imageSrc, printSize string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
` + PageSizeCSS(printSize) + `
html, body { margin: 0; padding: 0; }
img { display: block; width: 100vw; height: 100vh; object-fit: fill; }
</style>
</head>
<body><img src="` + html.EscapeString(imageSrc) + `" alt=""></body>
</html>`
}

// WrapFallbackHTMLForPDF builds the text-only page used when the image cannot be loaded
func WrapFallbackHTMLForPDF(title, mainContent, printSize string) string {
	d := PaperDimensionFor(printSize)
	if strings.TrimSpace(title) == "" {
		title = FallbackTitle
	}
	if strings.TrimSpace(mainContent) == "" {
		mainContent = FallbackContent
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
%s
html, body { margin: 0; padding: 0; font-family: "Noto Sans JP", sans-serif; }
.title { position: absolute; left: %smm; top: %smm; font-size: %dpt; line-height: 1; }
.body { position: absolute; left: %smm; top: %smm; width: %smm; font-size: %dpt; line-height: 1.15; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="title">%s</div>
<div class="body">%s</div>
</body>
</html>`,
		PageSizeCSS(printSize),
		formatMm(fallbackMarginMm), formatMm(fallbackTitleYMm), fallbackTitleSize,
		formatMm(fallbackMarginMm), formatMm(fallbackBodyYMm), formatMm(d.WidthMm-2*fallbackMarginMm), fallbackBodySize,
		html.EscapeString(title), html.EscapeString(mainContent))
}
