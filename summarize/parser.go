package summarize

import (
	"regexp"
	"strings"

	"github.com/kbukum/meetingscribe/notes"
)

// ParseResponse converts a free-form model response into structured meeting
// notes. Section headers are matched case-insensitively with tolerance for
// minor wording variance; a missing section yields an empty field. Given
// identical text the result is always identical.
func ParseResponse(text string) *notes.MeetingNotes {
	sections := splitSections(text)

	n := &notes.MeetingNotes{
		Summary:      findSection(sections, "summary", "meeting summary"),
		Decisions:    parseDecisions(findSection(sections, "decisions", "decisions made", "key decisions")),
		Participants: parseParticipants(findSection(sections, "participants", "attendees")),
	}
	n.Takeaways = parseTakeaways(findSection(sections, "key takeaways", "takeaways", "key points"))
	n.ActionItems = parseActionItems(findSection(sections, "action items", "next steps", "actions", "tasks"))

	if n.Empty() {
		applyFallback(n, text)
	}
	return n
}

// Only level one and two headings open a section; deeper headings are
// category subheads inside a section.
var headingPattern = regexp.MustCompile(`^##?\s+(.+?)\s*$`)

type section struct {
	name string // lowercased heading text
	body string
}

// splitSections walks the response line by line, opening a new section at
// every markdown heading. Text before the first heading is discarded (it is
// usually model preamble like "Here are your meeting notes:").
func splitSections(text string) []section {
	var sections []section
	var name string
	var body []string

	flush := func() {
		if name != "" {
			sections = append(sections, section{
				name: name,
				body: strings.TrimSpace(strings.Join(body, "\n")),
			})
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			name = strings.ToLower(strings.TrimSpace(m[1]))
			continue
		}
		if name != "" {
			body = append(body, line)
		}
	}
	flush()
	return sections
}

func findSection(sections []section, aliases ...string) string {
	for _, alias := range aliases {
		for _, s := range sections {
			if s.name == alias {
				return s.body
			}
		}
	}
	return ""
}

var (
	bulletPattern   = regexp.MustCompile(`^\s*(?:[-•*]|\d+\.)\s+(.*)$`)
	boldCatPattern  = regexp.MustCompile(`^\*\*([^*]+)\*\*:\s*(.*)$`)
	plainCatPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z /&-]*):\s*$`)
	subheadPattern  = regexp.MustCompile(`^#+\s*(.+?)\s*$`)
)

// parseTakeaways groups bullets under category subheads. Categories appear
// three ways in practice: "### Category" subheads, bold "**Category**:"
// bullet prefixes, and bare "Category:" lines.
func parseTakeaways(body string) []notes.TakeawayGroup {
	if body == "" {
		return nil
	}

	var groups []notes.TakeawayGroup
	current := notes.TakeawayGroup{}

	flush := func() {
		if len(current.Items) > 0 {
			groups = append(groups, current)
		}
		current = notes.TakeawayGroup{}
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := subheadPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			current.Category = strings.TrimSuffix(strings.TrimSpace(m[1]), ":")
			continue
		}
		if m := plainCatPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			current.Category = strings.TrimSpace(m[1])
			continue
		}

		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			item := strings.TrimSpace(m[1])
			if cm := boldCatPattern.FindStringSubmatch(item); cm != nil {
				category := strings.TrimSuffix(strings.TrimSpace(cm[1]), ":")
				if category != current.Category {
					flush()
					current.Category = category
				}
				item = strings.TrimSpace(cm[2])
			}
			if item != "" {
				current.Items = append(current.Items, item)
			}
		}
	}
	flush()
	return groups
}

func parseDecisions(body string) []string {
	var decisions []string
	for _, line := range strings.Split(body, "\n") {
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				decisions = append(decisions, item)
			}
		}
	}
	return decisions
}

var (
	ownerParenPattern  = regexp.MustCompile(`\(Owner:\s*([^,)]+)(?:,\s*Deadline:\s*([^)]+))?\)`)
	ownerStripPattern  = regexp.MustCompile(`\s*\(Owner:[^)]*\)`)
	ownerSuffixPattern = regexp.MustCompile(`\s+[-—]\s*owner:\s*(.+)$`)
)

// parseActionItems splits each bullet into task, owner, and deadline. The
// canonical form is a trailing "(Owner: Name, Deadline: Date)" parenthetical;
// a "— owner: Name" suffix is also accepted. When neither matches the whole
// line is the task and owner stays empty.
func parseActionItems(body string) []notes.ActionItem {
	var items []notes.ActionItem
	for _, line := range strings.Split(body, "\n") {
		m := bulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		// Category prefixes carry no owner data, keep the bare task text.
		if cm := boldCatPattern.FindStringSubmatch(raw); cm != nil {
			raw = strings.TrimSpace(cm[2])
			if raw == "" {
				continue
			}
		}

		item := notes.ActionItem{Task: raw}
		if om := ownerParenPattern.FindStringSubmatch(raw); om != nil {
			item.Task = strings.TrimSpace(ownerStripPattern.ReplaceAllString(raw, ""))
			item.Owner = strings.TrimSpace(om[1])
			item.Deadline = strings.TrimSpace(om[2])
		} else if sm := ownerSuffixPattern.FindStringSubmatch(raw); sm != nil {
			item.Task = strings.TrimSpace(ownerSuffixPattern.ReplaceAllString(raw, ""))
			item.Owner = strings.TrimSpace(sm[1])
		}
		if item.Task != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseParticipants(body string) []string {
	var participants []string
	for _, line := range strings.Split(body, "\n") {
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				participants = append(participants, name)
			}
		}
	}
	return participants
}

// applyFallback salvages unstructured responses: the first paragraph becomes
// the summary and any bullets become takeaways.
func applyFallback(n *notes.MeetingNotes, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		if p := strings.TrimSpace(para); p != "" && !strings.HasPrefix(p, "-") && !strings.HasPrefix(p, "*") {
			n.Summary = p
			break
		}
	}

	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				bullets = append(bullets, item)
			}
		}
	}
	if len(bullets) > 0 {
		n.Takeaways = []notes.TakeawayGroup{{Items: bullets}}
	}
}
