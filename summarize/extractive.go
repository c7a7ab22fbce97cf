package summarize

import (
	"regexp"
	"strings"

	"github.com/kbukum/meetingscribe/diarization"
	"github.com/kbukum/meetingscribe/notes"
	"github.com/kbukum/meetingscribe/transcription"
)

// action-indicator phrases that mark a sentence as a likely task.
var actionIndicators = []string{
	"will ", "needs to ", "need to ", "should ", "must ",
	"going to ", "has to ", "have to ", "by next ", "follow up",
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]`)

// Extractive builds rough notes straight from the transcript without a
// model: the opening sentences become the summary, sentences sampled across
// the transcript become key takeaways, and sentences carrying action
// phrasing become action items. This keeps a degraded notes document
// available when no model backend is reachable.
func Extractive(transcript *transcription.Transcript) *notes.MeetingNotes {
	if transcript == nil || transcript.Empty() {
		return &notes.MeetingNotes{}
	}

	sentences := sentencePattern.FindAllString(transcript.PlainText, -1)
	for i, s := range sentences {
		sentences[i] = strings.TrimSpace(s)
	}

	n := &notes.MeetingNotes{
		Participants: participantsFromSegments(transcript),
	}

	head := len(sentences)
	if head > 5 {
		head = 5
	}
	n.Summary = strings.Join(sentences[:head], " ")

	if points := keyPoints(sentences); len(points) > 0 {
		n.Takeaways = []notes.TakeawayGroup{{Items: points}}
	}

	for _, s := range sentences {
		if isActionSentence(s) {
			n.ActionItems = append(n.ActionItems, notes.ActionItem{Task: s})
			if len(n.ActionItems) >= 5 {
				break
			}
		}
	}
	return n
}

// keyPoints samples representative sentences. Short transcripts are carried
// whole; longer ones contribute the beginning, quarter points, middle, and
// end of the discussion.
func keyPoints(sentences []string) []string {
	if len(sentences) == 0 {
		return nil
	}
	if len(sentences) <= 10 {
		return append([]string(nil), sentences...)
	}
	n := len(sentences)
	return []string{
		sentences[0],
		sentences[n/4],
		sentences[n/2],
		sentences[3*n/4],
		sentences[n-1],
	}
}

func isActionSentence(s string) bool {
	lower := strings.ToLower(s)
	for _, ind := range actionIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func participantsFromSegments(transcript *transcription.Transcript) []string {
	if !transcript.HasSpeakerLabels {
		return nil
	}
	seen := map[string]bool{}
	var names []string
	for _, seg := range transcript.Segments {
		if seg.Speaker != "" && !seen[seg.Speaker] {
			seen[seg.Speaker] = true
			names = append(names, diarization.DisplayName(seg.Speaker))
		}
	}
	return names
}
