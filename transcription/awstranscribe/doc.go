// Package awstranscribe implements transcription.Provider on AWS Transcribe
// asynchronous jobs: submit a job referencing the uploaded S3 object, poll it
// to a terminal status within a bounded wait, then download and parse the
// result payload.
package awstranscribe
