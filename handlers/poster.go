package handlers

import (
	"errors"
	"log"
	"net/http"

	"poster_app_go/middleware"
	"poster_app_go/models"
	"poster_app_go/services"

	"github.com/labstack/echo/v4"
)

// posterFormRequest is the submitted input screen
type posterFormRequest struct {
	MainContent string `form:"mainContent" json:"mainContent"`
	Title       string `form:"title" json:"title"`
	PrintSize   string `form:"printSize" json:"printSize"`
	Style       string `form:"style" json:"style"`
}

func (r posterFormRequest) toForm() models.PosterForm {
	return models.PosterForm{
		MainContent: r.MainContent,
		Title:       r.Title,
		PrintSize:   services.NormalizePrintSize(r.PrintSize),
		Style:       services.NormalizeStyle(r.Style),
	}
}

func bindPosterForm(c echo.Context) (models.PosterForm, error) {
	var req posterFormRequest
	if err := c.Bind(&req); err != nil {
		return models.PosterForm{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	return req.toForm(), nil
}

// StudioHandler renders the current screen of the session
func StudioHandler(c echo.Context) error {
	return renderStudio(c, http.StatusOK, loadState(c), "")
}

// SaveFormHandler autosaves the input screen
func SaveFormHandler(c echo.Context) error {
	form, err := bindPosterForm(c)
	if err != nil {
		return err
	}
	if err := getStudio(c).SaveForm(c.Request().Context(), middleware.GetSessionID(c), form); err != nil {
		log.Printf("[ERROR] Failed to save form: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save form")
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateHandler validates the form and switches to the output screen.
// htmx requests get the loading screen, which runs the generation itself;
// plain form posts generate synchronously and redirect back.
func GenerateHandler(c echo.Context) error {
	form, err := bindPosterForm(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	sessionID := middleware.GetSessionID(c)
	studio := getStudio(c)

	state, err := studio.StartGeneration(ctx, sessionID, form)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			// keep what was typed even though nothing was saved
			state.Form = form
			return renderStudio(c, http.StatusUnprocessableEntity, state, alertFor(c, err))
		case errors.Is(err, services.ErrGenerationInProgress):
			return renderStudio(c, http.StatusConflict, state, alertFor(c, err))
		default:
			log.Printf("[ERROR] Failed to start generation for session %s: %v", sessionID, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start generation")
		}
	}

	if isHTMX(c) {
		return renderStudio(c, http.StatusOK, state, "")
	}

	if _, err := studio.CompleteGeneration(ctx, sessionID); err != nil {
		log.Printf("[WARNING] Poster generation failed for session %s: %v", sessionID, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// RunGenerationHandler calls the generation endpoint for a loading session
// and returns the updated studio body
func RunGenerationHandler(c echo.Context) error {
	sessionID := middleware.GetSessionID(c)
	state, err := getStudio(c).CompleteGeneration(c.Request().Context(), sessionID)
	if err != nil {
		var gerr *services.GenerationError
		switch {
		case errors.Is(err, services.ErrGenerationInProgress):
			// the outstanding request swaps the result in
			return c.NoContent(http.StatusNoContent)
		case errors.As(err, &gerr):
			log.Printf("[WARNING] Poster generation failed for session %s: %v", sessionID, err)
		default:
			log.Printf("[ERROR] Poster generation failed for session %s: %v", sessionID, err)
		}
	}
	return renderStudio(c, http.StatusOK, state, "")
}

// RegenerateHandler returns to the input screen with the form kept
func RegenerateHandler(c echo.Context) error {
	sessionID := middleware.GetSessionID(c)
	state, err := getStudio(c).Regenerate(c.Request().Context(), sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to return to input for session %s: %v", sessionID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to return to input")
	}
	if isHTMX(c) {
		return renderStudio(c, http.StatusOK, state, "")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
