package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"closerlab/internal/config"
)

// TextGenerator is the narrow boundary to the external generation
// capability. Both the conversation policy and the scoring engine depend on
// this interface only, so each is unit-testable with a deterministic stub.
type TextGenerator interface {
	// Generate sends instructions to the named model and returns the raw
	// text of the first candidate. JSON output is requested when asJSON is
	// set; interpretation belongs to the caller.
	Generate(ctx context.Context, modelName, instructions string, asJSON bool) (string, error)
}

// ErrGeneratorDisabled is returned when no API key is configured.
var ErrGeneratorDisabled = errors.New("generation capability not configured")

// GenerationError classifies a failed generation call. Transient failures
// (timeout, rate limit, upstream 5xx) are safe to retry for the same turn;
// terminal ones (auth, quota) must be surfaced to the caller.
type GenerationError struct {
	Op         string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *GenerationError) Error() string {
	kind := "terminal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("generation %s failed (%s, status %d): %v", e.Op, kind, e.StatusCode, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsTransientGeneration reports whether err is a retryable generation failure.
func IsTransientGeneration(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Transient
}

// GeminiGenerator reaches the Gemini REST API.
type GeminiGenerator struct {
	config *config.AIConfig
	client *http.Client
}

func NewGeminiGenerator(cfg *config.AIConfig) *GeminiGenerator {
	return &GeminiGenerator{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, modelName, instructions string, asJSON bool) (string, error) {
	if !g.config.IsEnabled() {
		return "", ErrGeneratorDisabled
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": instructions},
				},
			},
		},
	}
	if asJSON {
		reqBody["generationConfig"] = map[string]interface{}{
			"responseMimeType": "application/json",
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(modelName), g.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// Timeouts and connection resets are retryable for the same turn.
		return "", &GenerationError{Op: modelName, Transient: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Op: modelName, StatusCode: resp.StatusCode, Transient: true, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{
			Op:         modelName,
			StatusCode: resp.StatusCode,
			Transient:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Err:        fmt.Errorf("unexpected status: %s", bytes.TrimSpace(body)),
		}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &GenerationError{Op: modelName, StatusCode: resp.StatusCode, Transient: false, Err: err}
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", &GenerationError{Op: modelName, StatusCode: resp.StatusCode, Transient: true, Err: errors.New("empty response")}
}
