package summarize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// truncationMarker is inserted where the middle of an oversized transcript
// was dropped.
const truncationMarker = "\n\n[...transcript truncated...]\n\n"

const promptTemplate = `TASK: Analyze the following meeting transcript and create detailed meeting notes with these five sections, in this order:

1. SUMMARY (2-3 paragraphs):
   - Main purpose of the meeting
   - Key topics discussed with specific details
   - Decisions or conclusions reached

2. KEY TAKEAWAYS (bullet points):
   - Important facts, insights, and constraints
   - Group by topic with a category prefix where possible (e.g., "**Technical**: [point]")

3. DECISIONS MADE:
   - List the decisions that were finalized, with context or reasoning

4. ACTION ITEMS:
   - Specific tasks to be completed, with deadlines if mentioned
   - Assign owners based on who committed to tasks
   - Format as "Task description (Owner: Person's name, Deadline: [date if mentioned])"

5. PARTICIPANTS:
   - List meeting attendees with roles if mentioned

Meeting participants appear to include: %s

FORMAT:
## Summary
[summary]

## Key Takeaways
- **[Category]**: [Takeaway]
- [Takeaway]

## Decisions Made
1. [Decision] - [Context]

## Action Items
1. [Action item] (Owner: [Name], Deadline: [Date])
2. [Action item] (Owner: [Name])

## Participants
- [Participant] ([Role if known])

TRANSCRIPT:
%s`

// BuildPrompt assembles the instruction prompt around the transcript text.
// The participant hint comes from speaker-style "Name:" lines when present.
func BuildPrompt(transcript string) string {
	participants := ExtractParticipantNames(transcript)
	hint := "Unknown participants"
	if len(participants) > 0 {
		hint = strings.Join(participants, ", ")
	}
	return fmt.Sprintf(promptTemplate, hint, transcript)
}

var participantPattern = regexp.MustCompile(`(?m)^([A-Z][a-z]+(?: [A-Z][a-z]+)?):`)

// ExtractParticipantNames finds likely speaker names at line starts, the
// "Name:" convention of human-labelled transcripts. Names are distinct and
// sorted so the prompt is deterministic for a given transcript.
func ExtractParticipantNames(transcript string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range participantPattern.FindAllStringSubmatch(transcript, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// EstimateTokens approximates the token count of text at four characters per
// token, rounding up.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// TruncateTranscript bounds the transcript to roughly budget tokens by
// keeping the head and tail and dropping the middle behind an explicit
// marker. Deterministic for a given input and budget. The transcript is
// returned unchanged when it fits.
func TruncateTranscript(transcript string, budgetTokens int) (string, bool) {
	if budgetTokens <= 0 || EstimateTokens(transcript) <= budgetTokens {
		return transcript, false
	}

	budgetChars := budgetTokens * 4
	keep := budgetChars - len(truncationMarker)
	if keep < 2 {
		keep = 2
	}
	half := keep / 2

	// Both cut points must land on rune boundaries so a multi-byte rune is
	// never split around the marker.
	headEnd := half
	for headEnd > 0 && !utf8.RuneStart(transcript[headEnd]) {
		headEnd--
	}
	tailStart := len(transcript) - half
	for tailStart < len(transcript) && !utf8.RuneStart(transcript[tailStart]) {
		tailStart++
	}
	return transcript[:headEnd] + truncationMarker + transcript[tailStart:], true
}
