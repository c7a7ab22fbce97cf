package notes

// MeetingNotes is the structured result of summarizing a transcript. Any
// field may be empty when the model response lacked the matching section.
type MeetingNotes struct {
	Summary      string          `json:"summary"`
	Takeaways    []TakeawayGroup `json:"takeaways"`
	Decisions    []string        `json:"decisions"`
	ActionItems  []ActionItem    `json:"action_items"`
	Participants []string        `json:"participants"`
}

// TakeawayGroup is a set of takeaway bullets under one topic category.
// Category is empty for ungrouped bullets.
type TakeawayGroup struct {
	Category string   `json:"category,omitempty"`
	Items    []string `json:"items"`
}

// ActionItem is a single task extracted from the model response. Owner and
// Deadline are empty when the model did not state them.
type ActionItem struct {
	Task     string `json:"task"`
	Owner    string `json:"owner,omitempty"`
	Deadline string `json:"deadline,omitempty"`
}

// Empty reports whether no section carries any content.
func (n *MeetingNotes) Empty() bool {
	return n == nil || (n.Summary == "" &&
		len(n.Takeaways) == 0 &&
		len(n.Decisions) == 0 &&
		len(n.ActionItems) == 0 &&
		len(n.Participants) == 0)
}
