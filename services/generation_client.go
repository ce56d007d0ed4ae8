package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"poster_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

const maxErrorDetailBytes = 4096

// GenerationRequest is the JSON body sent to the generation endpoint
type GenerationRequest struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Tone     string      `json:"tone"`
	Size     RequestSize `json:"size"`
}

// RequestSize is the requested image size in pixels
type RequestSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type generationResponse struct {
	URL string `json:"url"`
}

// ValidateForm checks the required fields, mainContent first
func ValidateForm(form models.PosterForm) error {
	if strings.TrimSpace(form.MainContent) == "" {
		return &ValidationError{Field: "mainContent", MessageKey: MsgMainContentRequired}
	}
	if strings.TrimSpace(form.Title) == "" {
		return &ValidationError{Field: "title", MessageKey: MsgTitleRequired}
	}
	return nil
}

// BuildGenerationRequest maps a form onto the endpoint's request body
func BuildGenerationRequest(form models.PosterForm) GenerationRequest {
	w, h := PixelSize(form.PrintSize)
	return GenerationRequest{
		Title:    form.Title,
		Subtitle: form.MainContent,
		Tone:     ToneForStyle(form.Style),
		Size:     RequestSize{Width: w, Height: h},
	}
}

// GenerationClient calls the remote poster generation endpoint
type GenerationClient struct {
	endpoint   string
	httpClient *http.Client
	errorLog   *ErrorLogSink
	sanitizer  *bluemonday.Policy
}

// NewGenerationClient creates a client; a zero timeout leaves the transport default in place
func NewGenerationClient(endpoint string, timeout time.Duration, errorLog *ErrorLogSink) *GenerationClient {
	return &GenerationClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		errorLog:   errorLog,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// Endpoint returns the configured endpoint URL
func (c *GenerationClient) Endpoint() string {
	return c.endpoint
}

// Generate issues exactly one request for form. A ValidationError is returned
// without any network call; every GenerationError is also written to the error log.
func (c *GenerationClient) Generate(ctx context.Context, form models.PosterForm) (*models.GenerationResult, error) {
	if err := ValidateForm(form); err != nil {
		return nil, err
	}

	result, err := c.call(ctx, form)
	if err != nil {
		if c.errorLog != nil {
			c.errorLog.Record(ctx, OperationGeneratePoster, err, map[string]any{
				"endpoint":          c.endpoint,
				"printSize":         NormalizePrintSize(form.PrintSize),
				"style":             form.Style,
				"titleLength":       utf8.RuneCountInString(form.Title),
				"mainContentLength": utf8.RuneCountInString(form.MainContent),
			})
		}
		return nil, err
	}
	return result, nil
}

func (c *GenerationClient) call(ctx context.Context, form models.PosterForm) (*models.GenerationResult, error) {
	payload, err := json.Marshal(BuildGenerationRequest(form))
	if err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetailBytes))
		return nil, &GenerationError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Detail:     strings.TrimSpace(c.sanitizer.Sanitize(string(body))),
		}
	}

	var decoded generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	if strings.TrimSpace(decoded.URL) == "" {
		return nil, &GenerationError{Err: ErrMalformedResponse}
	}

	return &models.GenerationResult{
		Success:  true,
		ImageURL: decoded.URL,
		Message:  GenerationSucceededText,
	}, nil
}
