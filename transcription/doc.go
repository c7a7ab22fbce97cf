// Package transcription defines the provider interface and common types for
// speech-to-text backends driving asynchronous transcription of uploaded
// meeting audio.
//
// # Backends
//
//   - transcription/awstranscribe: AWS Transcribe asynchronous jobs
//   - transcription/whisper: local faster-whisper HTTP sidecar (offline
//     fallback behind the same interface)
package transcription
