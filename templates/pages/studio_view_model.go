package pages

import (
	"strings"

	"poster_app_go/models"
	"poster_app_go/services"
)

// StudioView holds what the studio page needs besides the request context
type StudioView struct {
	State     *models.AppState
	Alert     string // translated blocking alert, empty for none
	CSRFToken string
	// PrintStrategy decides whether the print button leads to a document or the browser dialog
	PrintStrategy string
}

// ConfirmLeave reports whether leaving the page may lose typed content
func (v StudioView) ConfirmLeave() bool {
	return v.State != nil && strings.TrimSpace(v.State.Form.MainContent) != ""
}

// Headers returns the headers htmx sends with every request
func (v StudioView) Headers() map[string]string {
	if v.CSRFToken == "" {
		return nil
	}
	return map[string]string{"X-CSRF-Token": v.CSRFToken}
}

// PrintView is the print page model
type PrintView struct {
	Plan     services.PrintPlan
	ImageURL string // browser strategy only
}
