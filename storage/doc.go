// Package storage provides object storage for uploaded meeting audio.
// Backends: Amazon S3 (the production target for AWS Transcribe input) and
// the local filesystem (offline runs and tests).
package storage
