// Package errors provides the typed error taxonomy for the transcription
// pipeline. Every terminal failure carries a machine-readable code, a
// human-readable message, and the verbatim upstream cause where one exists.
package errors
