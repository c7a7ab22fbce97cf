// Package pipeline orchestrates one audio-to-notes run: upload, transcription
// job, transcript assembly, summarization, and output formatting, in that
// order. Upload, transcription, and assembly failures abort the run with no
// files written; a summarization failure degrades to a transcript-only
// result instead of failing the run.
package pipeline
