package diarization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/meetingscribe/transcription"
)

// Assemble orders the raw segments and produces the final transcript.
//
// Segments are ordered by start time; ties (including overlapping speaker
// segments) keep the payload order, so the earliest-starting segment wins the
// position. A payload with zero segments yields an empty transcript, not an
// error; the orchestrator surfaces that as a warning.
func Assemble(raw *transcription.RawResult, speakerLabelsEnabled bool) *transcription.Transcript {
	if raw == nil || len(raw.Segments) == 0 {
		return &transcription.Transcript{}
	}

	ordered := make([]transcription.RawSegment, len(raw.Segments))
	copy(ordered, raw.Segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	segments := make([]transcription.Segment, 0, len(ordered))
	texts := make([]string, 0, len(ordered))
	hasLabels := false

	for _, rs := range ordered {
		text := strings.TrimSpace(rs.Text)
		if text == "" {
			continue
		}
		seg := transcription.Segment{
			Start: rs.Start,
			End:   rs.End,
			Text:  text,
		}
		if speakerLabelsEnabled && rs.Speaker != "" {
			seg.Speaker = rs.Speaker
			hasLabels = true
		}
		segments = append(segments, seg)
		texts = append(texts, text)
	}

	return &transcription.Transcript{
		PlainText:        strings.Join(texts, " "),
		Segments:         segments,
		HasSpeakerLabels: hasLabels,
	}
}

// SpeakerText renders the transcript as per-speaker blocks. Consecutive
// segments from the same speaker are coalesced into one block; the underlying
// transcript keeps per-utterance granularity. Returns "" when the transcript
// carries no speaker labels.
func SpeakerText(t *transcription.Transcript) string {
	if t == nil || !t.HasSpeakerLabels {
		return ""
	}

	var b strings.Builder
	currentSpeaker := ""
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n\n", currentSpeaker, strings.Join(block, " "))
		block = block[:0]
	}

	for _, seg := range t.Segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		if speaker != currentSpeaker {
			flush()
			currentSpeaker = speaker
		}
		block = append(block, seg.Text)
	}
	flush()

	return b.String()
}

// DisplayName maps a service speaker tag to a readable name:
// "spk_0" becomes "Speaker 0". Other labels pass through unchanged.
func DisplayName(label string) string {
	if rest, ok := strings.CutPrefix(label, "spk_"); ok && rest != "" {
		return "Speaker " + rest
	}
	return label
}

// Participants returns the distinct speaker display names, sorted.
func Participants(t *transcription.Transcript) []string {
	if t == nil || !t.HasSpeakerLabels {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, seg := range t.Segments {
		if seg.Speaker == "" {
			continue
		}
		name := DisplayName(seg.Speaker)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
