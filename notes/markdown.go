package notes

import (
	"fmt"
	"strings"
	"time"
)

// placeholder printed under a heading whose section has no content. Headings
// are always present so the document shape is stable across runs.
const placeholder = "None recorded"

// RenderMarkdown produces the meeting notes document. Section order is
// fixed: Summary, Key Takeaways, Decisions Made, Action Items, Participants,
// then a reference line naming the transcript file and a generation footer.
func RenderMarkdown(n *MeetingNotes, meetingDate time.Time, transcriptFile string, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Meeting Notes - %s\n\n", meetingDate.Format("January 2, 2006"))

	b.WriteString("## Summary\n\n")
	if n != nil && n.Summary != "" {
		b.WriteString(n.Summary)
		b.WriteString("\n")
	} else {
		b.WriteString(placeholder + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Key Takeaways\n\n")
	if n != nil && len(n.Takeaways) > 0 {
		for _, group := range n.Takeaways {
			if group.Category != "" {
				fmt.Fprintf(&b, "### %s\n\n", group.Category)
			}
			for _, item := range group.Items {
				fmt.Fprintf(&b, "- %s\n", item)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString(placeholder + "\n\n")
	}

	b.WriteString("## Decisions Made\n\n")
	if n != nil && len(n.Decisions) > 0 {
		for i, decision := range n.Decisions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, decision)
		}
	} else {
		b.WriteString(placeholder + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Action Items\n\n")
	if n != nil && len(n.ActionItems) > 0 {
		for _, item := range n.ActionItems {
			b.WriteString("- [ ] ")
			b.WriteString(item.Task)
			switch {
			case item.Owner != "" && item.Deadline != "":
				fmt.Fprintf(&b, " (Owner: %s, Deadline: %s)", item.Owner, item.Deadline)
			case item.Owner != "":
				fmt.Fprintf(&b, " (Owner: %s)", item.Owner)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString(placeholder + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Participants\n\n")
	if n != nil && len(n.Participants) > 0 {
		for _, p := range n.Participants {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	} else {
		b.WriteString(placeholder + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Full Transcript\n\n")
	fmt.Fprintf(&b, "The full transcript is available in %s.\n", transcriptFile)

	fmt.Fprintf(&b, "\n---\n*Notes generated on %s*\n", generatedAt.Format("2006-01-02 at 15:04:05"))

	return b.String()
}
