// Package whisper implements transcription.Provider against a faster-whisper
// HTTP sidecar. It is an offline alternative to the AWS backend; speaker
// labels are not supported and every segment carries an empty speaker.
package whisper
