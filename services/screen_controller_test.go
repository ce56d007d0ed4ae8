package services

import (
	"testing"

	"poster_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestScreenController(t *testing.T) {
	t.Run("Starts on input", func(t *testing.T) {
		c := NewScreenController("")
		assert.Equal(t, models.ScreenInput, c.Current())
		assert.True(t, c.IsActive(models.ScreenInput))
		assert.False(t, c.IsActive(models.ScreenOutput))
	})

	t.Run("Exactly one screen active", func(t *testing.T) {
		c := NewScreenController(models.ScreenInput)
		assert.NoError(t, c.Show(models.ScreenOutput))
		assert.Equal(t, models.ScreenOutput, c.Current())
		assert.False(t, c.IsActive(models.ScreenInput))

		assert.NoError(t, c.Show(models.ScreenInput))
		assert.True(t, c.IsActive(models.ScreenInput))
		assert.False(t, c.IsActive(models.ScreenOutput))
	})

	t.Run("Unknown screen is rejected", func(t *testing.T) {
		c := NewScreenController(models.ScreenOutput)
		err := c.Show("settings")
		assert.ErrorIs(t, err, ErrUnknownScreen)
		assert.Equal(t, models.ScreenOutput, c.Current())
		assert.Equal(t, "UnknownScreenError", ErrorName(err))
	})
}
