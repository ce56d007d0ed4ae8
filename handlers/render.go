package handlers

import (
	"log"
	"net/http"

	"poster_app_go/middleware"
	"poster_app_go/models"
	"poster_app_go/services"
	"poster_app_go/services/i18n"
	"poster_app_go/templates/pages"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ContextKeyStudio is the context key for the poster studio
const ContextKeyStudio = "studio"

// getStudio returns the studio the server put in the context
func getStudio(c echo.Context) *services.PosterStudio {
	studio, _ := c.Get(ContextKeyStudio).(*services.PosterStudio)
	return studio
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// render writes a templ component with the given status
func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// renderStudio renders the studio page, or just its swappable body for htmx.
// htmx only swaps 2xx responses, so they always get 200.
func renderStudio(c echo.Context, status int, state *models.AppState, alert string) error {
	view := pages.StudioView{
		State:         state,
		Alert:         alert,
		CSRFToken:     middleware.GetCSRFToken(c),
		PrintStrategy: getStudio(c).PrintStrategy(),
	}
	if isHTMX(c) {
		return render(c, http.StatusOK, pages.StudioBody(view))
	}
	return render(c, status, pages.Studio(view))
}

// alertFor translates the message shown for err
func alertFor(c echo.Context, err error) string {
	return i18n.T(c.Request().Context(), services.MessageKeyFor(err))
}

// loadState loads the session state, falling back to a fresh one
func loadState(c echo.Context) *models.AppState {
	sessionID := middleware.GetSessionID(c)
	state, err := getStudio(c).Load(c.Request().Context(), sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s: %v", sessionID, err)
	}
	if state == nil {
		state = models.NewAppState(sessionID)
	}
	return state
}
