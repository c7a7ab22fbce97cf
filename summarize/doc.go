// Package summarize turns a transcript into structured meeting notes via a
// text generation model: prompt construction, deterministic truncation,
// bounded retry around the model call, and tolerant response parsing.
package summarize
