// Package resilience provides retry with exponential backoff for calls to
// the external transcription and summarization services.
package resilience
