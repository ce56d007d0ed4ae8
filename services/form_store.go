package services

import (
	"context"
	"encoding/json"
	"fmt"

	"poster_app_go/models"
)

// Session storage keys
const (
	FormDataKey = "posterFormData"
	AppStateKey = "posterAppState"
)

// FormStore persists the input form of a session. It does not validate.
type FormStore struct {
	kv KeyValueStore
}

func NewFormStore(kv KeyValueStore) *FormStore {
	return &FormStore{kv: kv}
}

// Save writes a snapshot of form; an empty style is saved as classic
func (s *FormStore) Save(ctx context.Context, sessionID string, form models.PosterForm) error {
	if form.Style == "" {
		form.Style = models.DefaultStyle
	}
	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	return s.kv.Set(ctx, sessionID, FormDataKey, string(payload))
}

// Load restores the saved form with missing fields defaulted
func (s *FormStore) Load(ctx context.Context, sessionID string) (models.PosterForm, bool, error) {
	raw, found, err := s.kv.Get(ctx, sessionID, FormDataKey)
	if err != nil {
		return models.PosterForm{}.WithDefaults(), false, err
	}
	if !found {
		return models.PosterForm{}.WithDefaults(), false, nil
	}
	var form models.PosterForm
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return models.PosterForm{}.WithDefaults(), false, fmt.Errorf("failed to decode saved form: %w", err)
	}
	return form.WithDefaults(), true, nil
}

// StateStore persists the screen, preview and generated poster of a session
type StateStore struct {
	kv KeyValueStore
}

func NewStateStore(kv KeyValueStore) *StateStore {
	return &StateStore{kv: kv}
}

func (s *StateStore) Save(ctx context.Context, state *models.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode app state: %w", err)
	}
	return s.kv.Set(ctx, state.SessionID, AppStateKey, string(payload))
}

// Load returns the saved state, or a fresh one when nothing was saved.
// Form is left at its defaults; callers fill it from the FormStore.
func (s *StateStore) Load(ctx context.Context, sessionID string) (*models.AppState, bool, error) {
	state := models.NewAppState(sessionID)
	raw, found, err := s.kv.Get(ctx, sessionID, AppStateKey)
	if err != nil || !found {
		return state, false, err
	}
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return models.NewAppState(sessionID), false, fmt.Errorf("failed to decode app state: %w", err)
	}
	if state.Screen != models.ScreenInput && state.Screen != models.ScreenOutput {
		state.Screen = models.ScreenInput
	}
	if state.Preview.Kind == "" {
		state.Preview.Kind = models.PreviewEmpty
	}
	return state, true, nil
}
