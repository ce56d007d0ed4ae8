package services

import (
	"time"
)

// DocumentRef points at a stored, exported poster document
type DocumentRef struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// PrintPlan tells the print page what to do
type PrintPlan struct {
	Strategy     string
	DocumentURL  string
	FileName     string
	PrintDelay   time.Duration
	PageCSS      string
	DocumentSize int64 // zero without a document
}

// HasDocument reports whether the plan prints an exported document
func (p PrintPlan) HasDocument() bool {
	return p.DocumentURL != ""
}

// PlanDocumentPrint opens ref in a new window and prints it after delay.
// When the window cannot be opened the browser downloads FileName instead.
func PlanDocumentPrint(strategy string, ref DocumentRef, printSize string, delay time.Duration) PrintPlan {
	fileName := ref.FileName
	if fileName == "" {
		fileName = DocumentFileName(printSize)
	}
	return PrintPlan{
		Strategy:    strategy,
		DocumentURL: ref.URL,
		FileName:    fileName,
		PrintDelay:  delay,
		PageCSS:     PageSizeCSS(printSize),
	}
}

// PlanBrowserPrint prints the current page with the page size rule injected
func PlanBrowserPrint(strategy, printSize string) PrintPlan {
	return PrintPlan{
		Strategy: strategy,
		FileName: DocumentFileName(printSize),
		PageCSS:  PageSizeCSS(printSize),
	}
}
