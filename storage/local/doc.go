// Package local implements storage.Storage on the local filesystem. It backs
// offline runs with the whisper transcription variant and the test suite.
package local
