// Package provider defines the base interface and registry shared by the
// pluggable transcription and summarization backends.
package provider
