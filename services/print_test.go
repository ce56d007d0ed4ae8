package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanDocumentPrint(t *testing.T) {
	ref := DocumentRef{Key: "posters/s1/abc_1.pdf", URL: "/documents/abc_1.pdf", FileName: "poster_b4.pdf"}
	plan := PlanDocumentPrint("document", ref, "b4", 500*time.Millisecond)

	assert.True(t, plan.HasDocument())
	assert.Equal(t, "/documents/abc_1.pdf", plan.DocumentURL)
	assert.Equal(t, "poster_b4.pdf", plan.FileName)
	assert.Equal(t, 500*time.Millisecond, plan.PrintDelay)
	assert.Equal(t, "@page { size: 257mm 364mm; margin: 0; }", plan.PageCSS)

	plan = PlanDocumentPrint("document", DocumentRef{URL: "/documents/x.pdf"}, "zz", 0)
	assert.Equal(t, "poster_a4.pdf", plan.FileName)
}

func TestPlanBrowserPrint(t *testing.T) {
	plan := PlanBrowserPrint("browser", "a5")
	assert.False(t, plan.HasDocument())
	assert.Equal(t, "@page { size: 148mm 210mm; margin: 0; }", plan.PageCSS)
	assert.Equal(t, "browser", plan.Strategy)
}
