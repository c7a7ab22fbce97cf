// Package diarization assembles raw transcription payloads into ordered
// transcripts and renders speaker-attributed views. Everything here is pure:
// no I/O, deterministic output for identical input.
package diarization
