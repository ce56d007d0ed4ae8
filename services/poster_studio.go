package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"poster_app_go/config"
	"poster_app_go/models"
)

// DocumentRoutePrefix is where stored poster documents are served
const DocumentRoutePrefix = "/documents/"

// PosterGenerator produces a poster image for a form
type PosterGenerator interface {
	Generate(ctx context.Context, form models.PosterForm) (*models.GenerationResult, error)
}

// StudioOptions wires a PosterStudio
type StudioOptions struct {
	Store         KeyValueStore
	Generator     PosterGenerator
	Exporter      DocumentExporter
	Storage       StorageProvider
	ErrorLog      *ErrorLogSink
	PrintStrategy string
	PrintDelay    time.Duration
}

// PosterStudio holds the command handlers the UI adapters call. All session
// state lives in the key-value store and is loaded and saved per call.
type PosterStudio struct {
	forms         *FormStore
	states        *StateStore
	generator     PosterGenerator
	exporter      DocumentExporter
	storage       StorageProvider
	errorLog      *ErrorLogSink
	printStrategy string
	printDelay    time.Duration

	locks sync.Map
}

func NewPosterStudio(opts StudioOptions) *PosterStudio {
	strategy := opts.PrintStrategy
	if strategy == "" {
		strategy = config.PrintStrategyDocument
	}
	return &PosterStudio{
		forms:         NewFormStore(opts.Store),
		states:        NewStateStore(opts.Store),
		generator:     opts.Generator,
		exporter:      opts.Exporter,
		storage:       opts.Storage,
		errorLog:      opts.ErrorLog,
		printStrategy: strategy,
		printDelay:    opts.PrintDelay,
	}
}

// PrintStrategy returns the configured print strategy
func (s *PosterStudio) PrintStrategy() string {
	return s.printStrategy
}

// ErrorLog returns the sink failures are recorded in
func (s *PosterStudio) ErrorLog() *ErrorLogSink {
	return s.errorLog
}

// acquire takes the key-only lock for key; false when it is already held
func (s *PosterStudio) acquire(key string) bool {
	_, loaded := s.locks.LoadOrStore(key, struct{}{})
	return !loaded
}

func (s *PosterStudio) release(key string) {
	s.locks.Delete(key)
}

func (s *PosterStudio) isHeld(key string) bool {
	_, held := s.locks.Load(key)
	return held
}

func generationLockKey(sessionID string) string { return "generate:" + sessionID }
func exportLockKey(sessionID string) string     { return "export:" + sessionID }

// Load restores the state of a session, with the saved form filled in
func (s *PosterStudio) Load(ctx context.Context, sessionID string) (*models.AppState, error) {
	state, _, err := s.states.Load(ctx, sessionID)
	if err != nil {
		log.Printf("[WARNING] session %s: app state unreadable, starting fresh: %v", sessionID, err)
	}
	form, _, err := s.forms.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	state.Form = form
	return state, nil
}

// SaveForm stores the current input without validating it
func (s *PosterStudio) SaveForm(ctx context.Context, sessionID string, form models.PosterForm) error {
	return s.forms.Save(ctx, sessionID, form)
}

// StartGeneration validates form, saves it and switches to the output screen
// with the loading indicator. On a ValidationError nothing changes.
func (s *PosterStudio) StartGeneration(ctx context.Context, sessionID string, form models.PosterForm) (*models.AppState, error) {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	if err := ValidateForm(form); err != nil {
		return state, err
	}
	// Not an acquire: two starts may both pass and save the same loading
	// state. CompleteGeneration holds the lock, so the endpoint is still
	// called once and the later completion finds nothing left to do.
	if s.isHeld(generationLockKey(sessionID)) {
		return state, ErrGenerationInProgress
	}

	if err := s.forms.Save(ctx, sessionID, form); err != nil {
		return state, err
	}
	form, _, err = s.forms.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	state.Form = form

	screens := NewScreenController(state.Screen)
	if err := screens.Show(models.ScreenOutput); err != nil {
		return state, err
	}
	state.Screen = screens.Current()
	state.Preview = ShowLoading()
	state.GeneratedPosterURL = ""
	if err := s.states.Save(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// CompleteGeneration calls the generation endpoint for the saved form and
// presents the outcome. Only one generation per session runs at a time.
func (s *PosterStudio) CompleteGeneration(ctx context.Context, sessionID string) (*models.AppState, error) {
	key := generationLockKey(sessionID)
	if !s.acquire(key) {
		state, _ := s.Load(ctx, sessionID)
		return state, ErrGenerationInProgress
	}
	defer s.release(key)
	ctx = WithSessionID(ctx, sessionID)

	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	if !awaitingGeneration(state) {
		return state, nil
	}
	form := state.Form

	result, genErr := s.generator.Generate(ctx, form)

	// The session may have moved on while the endpoint was working
	state, err = s.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	if !awaitingGeneration(state) {
		log.Printf("[INFO] session %s: generation finished after the preview was left, result dropped", sessionID)
		return state, nil
	}

	if genErr != nil {
		var verr *ValidationError
		if errors.As(genErr, &verr) {
			state.Preview = ShowError(verr.MessageKey)
		} else {
			state.Preview = ShowError(MsgGenerationFailed)
		}
		state.GeneratedPosterURL = ""
	} else {
		state.Preview = ShowResult(result, form.Style)
		if state.Preview.Kind == models.PreviewImage {
			state.GeneratedPosterURL = result.ImageURL
		}
	}

	if err := s.states.Save(ctx, state); err != nil {
		return state, err
	}
	return state, genErr
}

func awaitingGeneration(state *models.AppState) bool {
	return state.Screen == models.ScreenOutput && state.Preview.Kind == models.PreviewLoading
}

// Generate runs StartGeneration and CompleteGeneration back to back
func (s *PosterStudio) Generate(ctx context.Context, sessionID string, form models.PosterForm) (*models.AppState, error) {
	state, err := s.StartGeneration(ctx, sessionID, form)
	if err != nil {
		return state, err
	}
	return s.CompleteGeneration(ctx, sessionID)
}

// Regenerate returns to the input screen with the form preserved
func (s *PosterStudio) Regenerate(ctx context.Context, sessionID string) (*models.AppState, error) {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	screens := NewScreenController(state.Screen)
	if err := screens.Show(models.ScreenInput); err != nil {
		return state, err
	}
	state.Screen = screens.Current()
	if err := s.states.Save(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// Export assembles the generated poster into a document and stores it.
// Only one export per session runs at a time.
func (s *PosterStudio) Export(ctx context.Context, sessionID string) (*DocumentRef, *ExportedDocument, error) {
	key := exportLockKey(sessionID)
	if !s.acquire(key) {
		return nil, nil, ErrExportInProgress
	}
	defer s.release(key)
	ctx = WithSessionID(ctx, sessionID)

	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if state.GeneratedPosterURL == "" {
		return nil, nil, ErrNothingToPrint
	}

	doc, err := s.exporter.Export(ctx, ExportRequest{
		PrintSize:   state.Form.PrintSize,
		ImageURL:    state.GeneratedPosterURL,
		Title:       state.Form.Title,
		MainContent: state.Form.MainContent,
	})
	if err != nil {
		return nil, nil, s.exportFailed(ctx, state, "assemble", err)
	}

	storageKey := GeneratePosterDocumentKey(sessionID)
	if _, err := s.storage.UploadReader(ctx, bytes.NewReader(doc.Data), storageKey, "application/pdf", int64(len(doc.Data))); err != nil {
		return nil, nil, s.exportFailed(ctx, state, "store", err)
	}

	s.replaceDocument(ctx, sessionID, storageKey)

	ref := &DocumentRef{
		Key:      storageKey,
		URL:      DocumentRoutePrefix + path.Base(storageKey),
		FileName: doc.FileName,
	}
	return ref, doc, nil
}

// replaceDocument remembers storageKey as the session's document and deletes
// the one it supersedes. Failures leave the old file to the cleanup job.
func (s *PosterStudio) replaceDocument(ctx context.Context, sessionID, storageKey string) {
	state, _, err := s.states.Load(ctx, sessionID)
	if err != nil {
		log.Printf("[WARNING] session %s: failed to load state to record document: %v", sessionID, err)
		return
	}
	previous := state.DocumentKey
	state.DocumentKey = storageKey
	if err := s.states.Save(ctx, state); err != nil {
		log.Printf("[WARNING] session %s: failed to record document %s: %v", sessionID, storageKey, err)
		return
	}
	if previous == "" || previous == storageKey {
		return
	}
	if err := s.storage.Delete(ctx, previous); err != nil {
		log.Printf("[WARNING] session %s: failed to delete superseded document %s: %v", sessionID, previous, err)
	}
}

func (s *PosterStudio) exportFailed(ctx context.Context, state *models.AppState, stage string, err error) error {
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		exportErr = &ExportError{Stage: stage, Err: err}
	}
	if s.errorLog != nil {
		s.errorLog.Record(ctx, OperationExportPoster, exportErr, map[string]any{
			"printSize": NormalizePrintSize(state.Form.PrintSize),
			"imageUrl":  state.GeneratedPosterURL,
			"stage":     exportErr.Stage,
		})
	}
	return exportErr
}

// PlanPrint decides how the current poster gets printed under the configured strategy
func (s *PosterStudio) PlanPrint(ctx context.Context, sessionID string) (PrintPlan, error) {
	if s.printStrategy == config.PrintStrategyBrowser {
		state, err := s.Load(ctx, sessionID)
		if err != nil {
			return PrintPlan{}, err
		}
		if state.GeneratedPosterURL == "" {
			return PrintPlan{}, ErrNothingToPrint
		}
		return PlanBrowserPrint(s.printStrategy, state.Form.PrintSize), nil
	}

	ref, doc, err := s.Export(ctx, sessionID)
	if err != nil {
		return PrintPlan{}, err
	}
	plan := PlanDocumentPrint(s.printStrategy, *ref, doc.PrintSize, s.printDelay)
	plan.DocumentSize = int64(len(doc.Data))
	return plan, nil
}

// OpenDocument streams a stored document of sessionID by its file name
func (s *PosterStudio) OpenDocument(ctx context.Context, sessionID, name string) (io.ReadCloser, string, error) {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return nil, "", fmt.Errorf("invalid document name %q", name)
	}
	return s.storage.Get(ctx, path.Join(PosterDocumentPrefix(sessionID), name))
}
