package awstranscribe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kbukum/meetingscribe/transcription"
)

// resultDoc mirrors the transcript JSON document AWS Transcribe writes on
// job completion. Only the fields the assembler needs are decoded.
type resultDoc struct {
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
		Items []resultItem `json:"items"`
		SpeakerLabels *struct {
			Segments []struct {
				Items []struct {
					StartTime    string `json:"start_time"`
					SpeakerLabel string `json:"speaker_label"`
				} `json:"items"`
			} `json:"segments"`
		} `json:"speaker_labels"`
	} `json:"results"`
}

type resultItem struct {
	Type         string `json:"type"` // "pronunciation" or "punctuation"
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Alternatives []struct {
		Content string `json:"content"`
	} `json:"alternatives"`
}

// ParseResultDoc converts a raw AWS Transcribe result document into timed
// segments. Words are grouped into a segment until the speaker changes or a
// sentence-ending punctuation mark closes it. Punctuation items carry no
// timestamps and are appended to the preceding word without a space. When
// speaker labels were not requested every segment has an empty Speaker.
func ParseResultDoc(payload []byte, speakerLabels bool) (*transcription.RawResult, error) {
	var doc resultDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode result document: %w", err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return nil, fmt.Errorf("result document has no transcript")
	}

	speakerByStart := map[string]string{}
	if speakerLabels && doc.Results.SpeakerLabels != nil {
		for _, seg := range doc.Results.SpeakerLabels.Segments {
			for _, item := range seg.Items {
				speakerByStart[item.StartTime] = item.SpeakerLabel
			}
		}
	}

	var segments []transcription.RawSegment
	var cur *transcription.RawSegment
	var words []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.Join(words, " ")
		if cur.Text != "" {
			segments = append(segments, *cur)
		}
		cur = nil
		words = nil
	}

	for _, item := range doc.Results.Items {
		switch item.Type {
		case "pronunciation":
			if len(item.Alternatives) == 0 {
				continue
			}
			start, err := strconv.ParseFloat(item.StartTime, 64)
			if err != nil {
				return nil, fmt.Errorf("bad start_time %q: %w", item.StartTime, err)
			}
			end, err := strconv.ParseFloat(item.EndTime, 64)
			if err != nil {
				return nil, fmt.Errorf("bad end_time %q: %w", item.EndTime, err)
			}
			speaker := speakerByStart[item.StartTime]

			if cur != nil && speaker != cur.Speaker {
				flush()
			}
			if cur == nil {
				cur = &transcription.RawSegment{Start: start, Speaker: speaker}
			}
			cur.End = end
			words = append(words, item.Alternatives[0].Content)

		case "punctuation":
			if cur == nil || len(item.Alternatives) == 0 {
				continue
			}
			mark := item.Alternatives[0].Content
			if len(words) > 0 {
				words[len(words)-1] += mark
			}
			if mark == "." || mark == "?" || mark == "!" {
				flush()
			}
		}
	}
	flush()

	return &transcription.RawResult{Segments: segments}, nil
}
