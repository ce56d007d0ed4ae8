package services

import (
	"errors"
	"fmt"
	"reflect"
)

// i18n keys for user-facing messages
const (
	MsgMainContentRequired = "errors.main_content_required"
	MsgTitleRequired       = "errors.title_required"
	MsgGenerationFailed    = "errors.generation_failed"
	MsgResultFailed        = "errors.result_failed"
	MsgNothingToPrint      = "errors.nothing_to_print"
	MsgExportFailed        = "errors.export_failed"
	MsgGenerationBusy      = "errors.generation_in_progress"
	MsgExportBusy          = "errors.export_in_progress"
	MsgGenerationSucceeded = "messages.generation_succeeded"
)

// GenerationSucceededText is the message carried by a successful GenerationResult
const GenerationSucceededText = "ポスターが正常に生成されました。"

var (
	// ErrNothingToPrint is returned when print is requested before a poster exists
	ErrNothingToPrint = &namedError{name: "NothingToPrintError", msg: "no generated poster to print"}
	// ErrGenerationInProgress is returned while a generation for the same session is outstanding
	ErrGenerationInProgress = &namedError{name: "GenerationInProgressError", msg: "a poster generation is already in progress"}
	// ErrExportInProgress is returned while an export for the same session is outstanding
	ErrExportInProgress = &namedError{name: "ExportInProgressError", msg: "a poster export is already in progress"}
	// ErrMalformedResponse marks a 2xx endpoint response without an image locator
	ErrMalformedResponse = &namedError{name: "MalformedResponseError", msg: "APIからの応答が不正です。"}
	// ErrUnknownScreen is returned when asked to show a screen that does not exist
	ErrUnknownScreen = &namedError{name: "UnknownScreenError", msg: "unknown screen"}
)

type namedError struct {
	name string
	msg  string
}

func (e *namedError) Error() string { return e.msg }
func (e *namedError) Name() string  { return e.name }

// ValidationError reports an empty required form field
type ValidationError struct {
	Field      string
	MessageKey string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Name() string { return "ValidationError" }

// GenerationError covers non-2xx responses, malformed responses and transport failures
type GenerationError struct {
	StatusCode int
	Status     string
	Detail     string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Status)
	}
	if e.Err != nil {
		if errors.Is(e.Err, ErrMalformedResponse) {
			return e.Err.Error()
		}
		return fmt.Sprintf("generation request failed: %v", e.Err)
	}
	return "generation request failed"
}

func (e *GenerationError) Unwrap() error { return e.Err }
func (e *GenerationError) Name() string  { return "GenerationError" }

// ExportError is a document export failure the text fallback cannot recover
type ExportError struct {
	Stage string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed at %s: %v", e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
func (e *ExportError) Name() string  { return "ExportError" }

// PrintError reports that the print window could not be opened
type PrintError struct {
	Err error
}

func (e *PrintError) Error() string {
	if e.Err == nil {
		return "print window could not be opened"
	}
	return fmt.Sprintf("print failed: %v", e.Err)
}

func (e *PrintError) Unwrap() error { return e.Err }
func (e *PrintError) Name() string  { return "PrintError" }

// ErrorName returns err's Name() when it has one, its Go type name otherwise
func ErrorName(err error) string {
	if err == nil {
		return ""
	}
	var named interface{ Name() string }
	if errors.As(err, &named) {
		return named.Name()
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "Error"
	}
	return t.Name()
}

// MessageKeyFor maps an error to the i18n key shown to the user
func MessageKeyFor(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.MessageKey
	case errors.Is(err, ErrNothingToPrint):
		return MsgNothingToPrint
	case errors.Is(err, ErrGenerationInProgress):
		return MsgGenerationBusy
	case errors.Is(err, ErrExportInProgress):
		return MsgExportBusy
	}
	var eerr *ExportError
	if errors.As(err, &eerr) {
		return MsgExportFailed
	}
	return MsgGenerationFailed
}
