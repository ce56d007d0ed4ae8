package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// Text fallback defaults and layout, in millimeters and points
const (
	FallbackTitle   = "ポスタータイトル"
	FallbackContent = "ポスターコンテンツ"

	fallbackMarginMm  = 20.0
	fallbackTitleYMm  = 30.0
	fallbackBodyYMm   = 50.0
	fallbackTitleSize = 20
	fallbackBodySize  = 12
	lineHeightFactor  = 1.15
	pointsPerInch     = 72.0
)

const posterFontFamily = "poster"

// ExportRequest is what the export pipeline needs to build a document
type ExportRequest struct {
	PrintSize   string
	ImageURL    string
	Title       string
	MainContent string
}

// ExportedDocument is an assembled PDF plus the page geometry it was built with
type ExportedDocument struct {
	Data         []byte
	FileName     string
	PrintSize    string
	Orientation  string
	WidthMm      float64
	HeightMm     float64
	UsedFallback bool
}

// DocumentExporter turns a poster into a printable document
type DocumentExporter interface {
	Export(ctx context.Context, req ExportRequest) (*ExportedDocument, error)
}

// DocumentFileName is the download name of an exported poster
func DocumentFileName(printSize string) string {
	return fmt.Sprintf("poster_%s.pdf", NormalizePrintSize(printSize))
}

// PDFDocumentExporter assembles the PDF directly with fpdf
type PDFDocumentExporter struct {
	loader    *ImageLoader
	fontBytes []byte
}

var _ DocumentExporter = (*PDFDocumentExporter)(nil)

// NewPDFDocumentExporter creates an exporter. fontPath names a TTF used for the
// text fallback; without it the core Helvetica font is used.
func NewPDFDocumentExporter(loader *ImageLoader, fontPath string) *PDFDocumentExporter {
	e := &PDFDocumentExporter{loader: loader}
	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			log.Printf("[WARNING] PDF font %s could not be read, falling back to Helvetica: %v", fontPath, err)
		} else {
			e.fontBytes = data
		}
	}
	return e
}

// Export builds a full-bleed image page, or the text fallback when the image cannot be used
func (e *PDFDocumentExporter) Export(ctx context.Context, req ExportRequest) (*ExportedDocument, error) {
	dim := PaperDimensionFor(req.PrintSize)
	orientation := Orientation(dim)

	var img *LoadedImage
	var imgErr error
	if req.ImageURL == "" {
		imgErr = errors.New("no image to export")
	} else if e.loader == nil {
		imgErr = errors.New("no image loader configured")
	} else {
		img, imgErr = e.loader.Load(ctx, req.ImageURL)
	}

	var pdf *fpdf.Fpdf
	usedFallback := false
	if imgErr == nil {
		pdf, imgErr = e.imagePage(dim, orientation, img)
	}
	if imgErr != nil {
		log.Printf("[WARNING] poster export: image unusable, rendering text fallback: %v", imgErr)
		pdf = e.textPage(dim, orientation, req.Title, req.MainContent)
		usedFallback = true
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &ExportError{Stage: "serialize", Err: err}
	}

	w, h := pdf.GetPageSize()
	return &ExportedDocument{
		Data:         buf.Bytes(),
		FileName:     DocumentFileName(req.PrintSize),
		PrintSize:    NormalizePrintSize(req.PrintSize),
		Orientation:  orientation,
		WidthMm:      w,
		HeightMm:     h,
		UsedFallback: usedFallback,
	}, nil
}

func newPage(dim PaperDimension, orientation string) *fpdf.Fpdf {
	// fpdf swaps the given size for landscape pages
	size := fpdf.SizeType{Wd: dim.WidthMm, Ht: dim.HeightMm}
	orientationStr := "P"
	if orientation == OrientationLandscape {
		orientationStr = "L"
		size = fpdf.SizeType{Wd: dim.HeightMm, Ht: dim.WidthMm}
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientationStr,
		UnitStr:        "mm",
		Size:           size,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

func (e *PDFDocumentExporter) imagePage(dim PaperDimension, orientation string, img *LoadedImage) (*fpdf.Fpdf, error) {
	pdf := newPage(dim, orientation)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("poster", opts, bytes.NewReader(img.PNG))
	if pdf.Err() {
		return nil, fmt.Errorf("failed to embed image: %w", pdf.Error())
	}
	w, h := pdf.GetPageSize()
	pdf.ImageOptions("poster", 0, 0, w, h, false, opts, 0, "")
	if pdf.Err() {
		return nil, fmt.Errorf("failed to place image: %w", pdf.Error())
	}
	return pdf, nil
}

func (e *PDFDocumentExporter) textPage(dim PaperDimension, orientation, title, mainContent string) *fpdf.Fpdf {
	pdf := newPage(dim, orientation)

	family := "Helvetica"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	utf8Font := false
	if len(e.fontBytes) > 0 {
		pdf.AddUTF8FontFromBytes(posterFontFamily, "", e.fontBytes)
		if pdf.Err() {
			log.Printf("[WARNING] PDF font rejected, falling back to Helvetica: %v", pdf.Error())
			pdf.ClearError()
		} else {
			family = posterFontFamily
			translate = func(s string) string { return s }
			utf8Font = true
		}
	}

	if strings.TrimSpace(title) == "" {
		title = FallbackTitle
	}
	if strings.TrimSpace(mainContent) == "" {
		mainContent = FallbackContent
	}

	pdf.SetFont(family, "", fallbackTitleSize)
	pdf.Text(fallbackMarginMm, fallbackTitleYMm, translate(title))

	pdf.SetFont(family, "", fallbackBodySize)
	pageWidth, _ := pdf.GetPageSize()
	lines := wrapText(pdf, translate(mainContent), pageWidth-2*fallbackMarginMm, utf8Font)
	step := LineHeightMm(fallbackBodySize)
	for i, line := range lines {
		pdf.Text(fallbackMarginMm, fallbackBodyYMm+float64(i)*step, line)
	}
	return pdf
}

// LineHeightMm is the distance between baselines for a font size in points
func LineHeightMm(fontSize float64) float64 {
	return fontSize * lineHeightFactor * mmPerInch / pointsPerInch
}

// wrapText breaks text into lines no wider than maxWidth at the current font.
// Lines break at the last space when there is one, otherwise between characters.
func wrapText(pdf *fpdf.Fpdf, text string, maxWidth float64, utf8Font bool) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		units := splitUnits(paragraph, utf8Font)
		current := ""
		for _, u := range units {
			candidate := current + u
			if current == "" || pdf.GetStringWidth(candidate) <= maxWidth {
				current = candidate
				continue
			}
			if i := strings.LastIndex(current, " "); i > 0 {
				lines = append(lines, current[:i])
				current = strings.TrimLeft(current[i+1:], " ") + u
			} else {
				lines = append(lines, current)
				current = strings.TrimLeft(u, " ")
			}
		}
		lines = append(lines, current)
	}
	return lines
}

func splitUnits(s string, utf8Font bool) []string {
	if !utf8Font {
		units := make([]string, len(s))
		for i := 0; i < len(s); i++ {
			units[i] = s[i : i+1]
		}
		return units
	}
	units := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		units = append(units, string(r))
	}
	return units
}

// StylesheetPrinter renders HTML to a PDF page of the given size
type StylesheetPrinter interface {
	PrintToPDF(ctx context.Context, htmlContent string, widthMm, heightMm float64) ([]byte, error)
}

// StylesheetExporter prints an HTML page carrying the @page size rule through headless Chrome
type StylesheetExporter struct {
	loader  *ImageLoader
	printer StylesheetPrinter
}

var _ DocumentExporter = (*StylesheetExporter)(nil)

func NewStylesheetExporter(loader *ImageLoader, printer StylesheetPrinter) *StylesheetExporter {
	return &StylesheetExporter{loader: loader, printer: printer}
}

func (e *StylesheetExporter) Export(ctx context.Context, req ExportRequest) (*ExportedDocument, error) {
	dim := PaperDimensionFor(req.PrintSize)

	var page string
	usedFallback := false
	var img *LoadedImage
	err := errors.New("no image to export")
	if req.ImageURL != "" && e.loader != nil {
		img, err = e.loader.Load(ctx, req.ImageURL)
	}
	if err == nil {
		src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.PNG)
		page = WrapPosterHTMLForPDF(src, req.PrintSize)
	} else {
		log.Printf("[WARNING] poster export: image unusable, rendering text fallback: %v", err)
		page = WrapFallbackHTMLForPDF(req.Title, req.MainContent, req.PrintSize)
		usedFallback = true
	}

	data, err := e.printer.PrintToPDF(ctx, page, dim.WidthMm, dim.HeightMm)
	if err != nil {
		return nil, &ExportError{Stage: "render", Err: err}
	}
	return &ExportedDocument{
		Data:         data,
		FileName:     DocumentFileName(req.PrintSize),
		PrintSize:    NormalizePrintSize(req.PrintSize),
		Orientation:  Orientation(dim),
		WidthMm:      dim.WidthMm,
		HeightMm:     dim.HeightMm,
		UsedFallback: usedFallback,
	}, nil
}
