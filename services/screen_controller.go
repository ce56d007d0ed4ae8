package services

import (
	"fmt"

	"poster_app_go/models"
)

// ScreenController tracks which of the two screens is active
type ScreenController struct {
	active map[models.Screen]bool
}

// NewScreenController starts on current, or on the input screen when current is unknown
func NewScreenController(current models.Screen) *ScreenController {
	c := &ScreenController{active: map[models.Screen]bool{
		models.ScreenInput:  false,
		models.ScreenOutput: false,
	}}
	if err := c.Show(current); err != nil {
		c.active[models.ScreenInput] = true
	}
	return c
}

// Show deactivates every screen and then activates target.
// An unknown target leaves the state unchanged.
func (c *ScreenController) Show(target models.Screen) error {
	if _, ok := c.active[target]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, target)
	}
	for screen := range c.active {
		c.active[screen] = false
	}
	c.active[target] = true
	return nil
}

// Current returns the active screen
func (c *ScreenController) Current() models.Screen {
	for screen, on := range c.active {
		if on {
			return screen
		}
	}
	return models.ScreenInput
}

// IsActive reports whether screen is the active one
func (c *ScreenController) IsActive(screen models.Screen) bool {
	return c.active[screen]
}
