package mocks

import (
	"context"

	"github.com/flitskaart/flitskaart-api/internal/translate"
)

// MockTranslator implements translate.Translator for testing
type MockTranslator struct {
	// Function fields for customizable behavior
	TranslateFn func(ctx context.Context, req translate.Request) (string, error)

	// Data for default implementation
	Suggestion     string
	TranslateError error
	Requests       []translate.Request
}

// Translate implements the Translator interface
func (m *MockTranslator) Translate(ctx context.Context, req translate.Request) (string, error) {
	m.Requests = append(m.Requests, req)

	if m.TranslateFn != nil {
		return m.TranslateFn(ctx, req)
	}

	if m.TranslateError != nil {
		return "", m.TranslateError
	}

	return m.Suggestion, nil
}
