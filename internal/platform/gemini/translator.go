package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/flitskaart/flitskaart-api/internal/config"
	"github.com/flitskaart/flitskaart-api/internal/translate"
)

// Verify interface compliance at compile time
var _ translate.Translator = (*GeminiTranslator)(nil)

// promptTemplate shapes the suggestion request. The model is instructed to
// answer with the bare translation so the response needs no parsing beyond
// trimming.
const promptTemplate = `You are a translation assistant for a vocabulary flashcard app.
Translate the following {{.From}} text into {{.To}}.
Reply with only the translation: no explanations, no quotes.

Text: {{.Text}}`

// GeminiTranslator implements the translate.Translator interface using
// Google's Gemini API to suggest translations for new cards.
type GeminiTranslator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// prompt is the parsed template for creating requests
	prompt *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// NewGeminiTranslator creates a new instance of GeminiTranslator with the
// provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - config: LLM configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized GeminiTranslator or an error if initialization fails
func NewGeminiTranslator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiTranslator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	// Validate configuration
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", translate.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", translate.ErrInvalidConfig)
	}

	prompt, err := template.New("suggestion").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			translate.ErrInvalidConfig, err)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			translate.ErrInvalidConfig, err)
	}

	return &GeminiTranslator{
		logger: logger.With(slog.String("component", "gemini_translator")),
		config: cfg,
		prompt: prompt,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Translate returns the suggested translation for the request text.
// It implements translate.Translator.
func (t *GeminiTranslator) Translate(ctx context.Context, req translate.Request) (string, error) {
	prompt, err := t.createPrompt(ctx, req)
	if err != nil {
		return "", err
	}

	suggestion, err := t.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}

	return suggestion, nil
}

// createPrompt generates a prompt string from the template with the provided
// request. If the text is empty or the template execution fails, it returns
// an error.
func (t *GeminiTranslator) createPrompt(ctx context.Context, req translate.Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyText
	}

	// Language tags default to the app's Dutch-English pair
	if req.From == "" {
		req.From = "nl"
	}
	if req.To == "" {
		req.To = "en"
	}

	t.logger.DebugContext(ctx, "Generating prompt from template",
		"text_length", len(req.Text),
		"from", req.From,
		"to", req.To)

	var promptBuffer bytes.Buffer
	if err := t.prompt.Execute(&promptBuffer, req); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential backoff
// retry logic.
//
// It attempts to call the API up to config.MaxRetries times, using exponential
// backoff with jitter between retries for transient errors. Permanent errors
// (like content being blocked by safety filters) are returned immediately
// without retrying.
func (t *GeminiTranslator) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := t.config.MaxRetries
	baseDelaySeconds := t.config.RetryDelaySeconds
	attempt := 0
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Validate retry configuration
	if maxRetries < 0 {
		t.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		t.logger.WarnContext(ctx, "Invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt <= maxRetries {
		attemptNum := attempt + 1 // For logging (1-based)
		t.logger.DebugContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		suggestion, isTransient, err := t.callGemini(ctx, prompt)
		if err == nil {
			t.logger.DebugContext(ctx, "Gemini API call successful",
				"attempt", attemptNum)
			return suggestion, nil
		}

		t.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !isTransient {
			return "", err
		}

		if attempt >= maxRetries {
			t.logger.WarnContext(ctx, "Maximum retry attempts reached",
				"max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				translate.ErrTransientFailure, maxRetries)
		}

		// Calculate exponential backoff with jitter
		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5 // Between 0.5 and 1.0
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		t.logger.DebugContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay_seconds", delay.Seconds())

		// Wait for the delay or context cancellation
		select {
		case <-time.After(delay):
			// Continue to next retry
		case <-ctx.Done():
			t.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", translate.ErrTransientFailure, ctx.Err())
		}

		attempt++
	}

	return "", fmt.Errorf("%w: failed after %d attempts",
		translate.ErrTransientFailure, attempt)
}

// callGemini performs one API round trip and classifies its failure as
// transient (retryable) or permanent.
func (t *GeminiTranslator) callGemini(ctx context.Context, prompt string) (string, bool, error) {
	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		// Network and server errors are assumed transient
		return "", true, fmt.Errorf("%w: %v", translate.ErrTranslationFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: no content generated", translate.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", false, fmt.Errorf("%w: translation request blocked", translate.ErrContentBlocked)
	}

	suggestion := strings.TrimSpace(resp.Text())
	suggestion = strings.Trim(suggestion, `"`)
	if suggestion == "" {
		return "", false, fmt.Errorf("%w: empty suggestion in response", translate.ErrInvalidResponse)
	}

	return suggestion, false, nil
}
