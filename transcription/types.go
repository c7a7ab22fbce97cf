package transcription

import "time"

// Options holds the caller-supplied transcription settings for one run.
type Options struct {
	// LanguageCode is the expected language of the audio (e.g. "en-US").
	LanguageCode string `json:"language_code,omitempty"`
	// EnableSpeakerLabels turns on speaker diarization.
	EnableSpeakerLabels bool `json:"enable_speaker_labels,omitempty"`
	// MaxSpeakers bounds diarization; only meaningful when labels are enabled.
	MaxSpeakers int `json:"max_speakers,omitempty"`

	// OnPoll is invoked after each status poll with elapsed wall-clock time.
	// Used for progress reporting; may be nil.
	OnPoll func(elapsed time.Duration) `json:"-"`
}

// RawSegment is one time-aligned utterance from the raw service payload.
type RawSegment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Speaker is the service's speaker tag (e.g. "spk_0"), empty when
	// diarization was disabled.
	Speaker string `json:"speaker,omitempty"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
}

// RawResult is the parsed transcription payload before assembly. Segment
// order is whatever the service returned; the assembler imposes ordering.
type RawResult struct {
	Segments []RawSegment `json:"segments"`
}

// Segment is a time-aligned portion of the assembled transcript.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`
}

// Transcript is the assembled, ordered transcript consumed by both the
// summarizer and the output formatter. Immutable once produced.
type Transcript struct {
	// PlainText is the segment texts joined in order with single spaces.
	PlainText string `json:"plain_text"`
	// Segments keeps per-utterance granularity, ordered by start time.
	Segments []Segment `json:"segments"`
	// HasSpeakerLabels reports whether any segment carries a speaker tag.
	HasSpeakerLabels bool `json:"has_speaker_labels"`
}

// Empty reports whether the transcript carries no usable text.
func (t *Transcript) Empty() bool {
	return t == nil || t.PlainText == ""
}
