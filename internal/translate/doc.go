// Package translate provides interfaces and implementations for interacting
// with external AI/LLM services for word suggestions. It abstracts the
// details of LLM API integration (Gemini), allowing the application to
// suggest definitions for new cards without coupling to specific external
// services. Translation is an optional enrichment: the application works
// fully without a configured translator.
package translate
