package handlers

import (
	"errors"
	"log"
	"net/http"

	"poster_app_go/middleware"
	"poster_app_go/services"
	"poster_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// PrintHandler exports the poster and renders the print page.
// Failures go back to the studio with a blocking alert.
func PrintHandler(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := middleware.GetSessionID(c)
	studio := getStudio(c)

	plan, err := studio.PlanPrint(ctx, sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrNothingToPrint), errors.Is(err, services.ErrExportInProgress):
			status = http.StatusConflict
		default:
			log.Printf("[ERROR] Print failed for session %s: %v", sessionID, err)
		}
		return renderStudio(c, status, loadState(c), alertFor(c, err))
	}

	view := pages.PrintView{Plan: plan}
	if !plan.HasDocument() {
		view.ImageURL = loadState(c).GeneratedPosterURL
	}
	return render(c, http.StatusOK, pages.PrintPage(view))
}

// DocumentHandler streams an exported document of the current session
func DocumentHandler(c echo.Context) error {
	name := c.Param("name")
	reader, contentType, err := getStudio(c).OpenDocument(c.Request().Context(), middleware.GetSessionID(c), name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, alertKey(c, "errors.document_not_found"))
	}
	defer reader.Close()

	c.Response().Header().Set("Content-Disposition", "inline; filename=\""+name+"\"")
	c.Response().Header().Set("Cache-Control", "private, no-store")
	return c.Stream(http.StatusOK, contentType, reader)
}
