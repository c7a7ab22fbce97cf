package notes

import (
	"regexp"
	"strings"
)

var (
	mdHeadingPattern  = regexp.MustCompile(`^##\s+(.+?)\s*$`)
	mdSubheadPattern  = regexp.MustCompile(`^###\s+(.+?)\s*$`)
	mdBulletPattern   = regexp.MustCompile(`^-\s+(?:\[ \]\s+)?(.*)$`)
	mdNumberedPattern = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	mdOwnerPattern    = regexp.MustCompile(`\s*\(Owner:\s*([^,)]+)(?:,\s*Deadline:\s*([^)]+))?\)\s*$`)
)

// ParseMarkdown reads back a document produced by RenderMarkdown. It is the
// inverse of rendering up to placeholder sections, which come back empty.
// Used to reload previously generated notes for display or re-export.
func ParseMarkdown(doc string) *MeetingNotes {
	n := &MeetingNotes{}

	section := ""
	var group *TakeawayGroup

	flushGroup := func() {
		if group != nil && len(group.Items) > 0 {
			n.Takeaways = append(n.Takeaways, *group)
		}
		group = nil
	}

	var summaryLines []string

	for _, line := range strings.Split(doc, "\n") {
		if m := mdHeadingPattern.FindStringSubmatch(line); m != nil {
			flushGroup()
			section = strings.ToLower(m[1])
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == placeholder || trimmed == "---" || strings.HasPrefix(trimmed, "*Notes generated") {
			continue
		}

		switch section {
		case "summary":
			if trimmed != "" {
				summaryLines = append(summaryLines, trimmed)
			}
		case "key takeaways":
			// Render separates groups with a blank line; an empty group
			// (heading seen, bullets pending) stays open.
			if trimmed == "" {
				if group != nil && len(group.Items) > 0 {
					flushGroup()
				}
				continue
			}
			if m := mdSubheadPattern.FindStringSubmatch(line); m != nil {
				flushGroup()
				group = &TakeawayGroup{Category: m[1]}
				continue
			}
			if m := mdBulletPattern.FindStringSubmatch(trimmed); m != nil {
				if group == nil {
					group = &TakeawayGroup{}
				}
				group.Items = append(group.Items, m[1])
			}
		case "decisions made":
			if m := mdNumberedPattern.FindStringSubmatch(trimmed); m != nil {
				n.Decisions = append(n.Decisions, m[1])
			}
		case "action items":
			if m := mdBulletPattern.FindStringSubmatch(trimmed); m != nil {
				item := ActionItem{Task: m[1]}
				if om := mdOwnerPattern.FindStringSubmatch(item.Task); om != nil {
					item.Task = strings.TrimSpace(mdOwnerPattern.ReplaceAllString(item.Task, ""))
					item.Owner = strings.TrimSpace(om[1])
					item.Deadline = strings.TrimSpace(om[2])
				}
				n.ActionItems = append(n.ActionItems, item)
			}
		case "participants":
			if m := mdBulletPattern.FindStringSubmatch(trimmed); m != nil {
				n.Participants = append(n.Participants, m[1])
			}
		}
	}
	flushGroup()

	n.Summary = strings.Join(summaryLines, "\n")
	return n
}
