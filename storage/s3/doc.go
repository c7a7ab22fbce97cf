// Package s3 implements storage.Storage on Amazon S3. Transcription jobs
// reference uploaded objects through s3:// URIs.
package s3
