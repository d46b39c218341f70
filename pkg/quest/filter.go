package quest

import "questmap/pkg/model"

// FilterAll is the wildcard value for both filter dimensions.
const FilterAll = "all"

// Filter returns the quests matching the given status and topic, in the
// order they appear in the input. The input slice is never modified.
// A status of "all" matches every status; any other value is compared
// against the quest status verbatim. A topic of "all" matches every
// quest; any other value requires topic membership.
func Filter(quests []model.Quest, status, topic string) []model.Quest {
	out := make([]model.Quest, 0, len(quests))
	for _, q := range quests {
		if status != FilterAll && string(q.Status) != status {
			continue
		}
		if topic != FilterAll && !q.HasTopic(topic) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// FilterState holds the currently selected filter dimensions.
type FilterState struct {
	Status string `json:"status"`
	Topic  string `json:"topic"`
}

// DefaultFilterState returns the wildcard state that passes every quest.
func DefaultFilterState() FilterState {
	return FilterState{Status: FilterAll, Topic: FilterAll}
}

// Reset returns both dimensions to the wildcard. Safe to call repeatedly.
func (f *FilterState) Reset() {
	f.Status = FilterAll
	f.Topic = FilterAll
}

// Apply runs the filter described by this state over the given quests.
func (f *FilterState) Apply(quests []model.Quest) []model.Quest {
	return Filter(quests, f.Status, f.Topic)
}
