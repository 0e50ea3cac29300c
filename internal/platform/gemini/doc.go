// Package gemini provides an implementation of the translate.Translator
// interface that uses Google's Gemini API for suggesting word translations.
//
// This package is an infrastructure adapter: it connects the application's
// domain logic to Google's external Gemini AI service and translates between
// the application's request shape and the Gemini API without exposing the
// details of the external service to the core application.
//
// Error handling implements retry logic with exponential backoff for
// transient errors, categorizes API errors into the translate package's
// error taxonomy, and treats safety-filter blocks as permanent failures.
package gemini
