package model

// Label tags todos. Names are unique per user.
type Label struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewLabel is the body of POST /labels.
type NewLabel struct {
	Name string `json:"name"`
}

// ToggleLabel removes candidate from selection when a label with the same id
// is present and appends it otherwise. selection is never modified.
func ToggleLabel(selection []Label, candidate Label) []Label {
	out := make([]Label, 0, len(selection)+1)
	found := false
	for _, l := range selection {
		if l.ID == candidate.ID {
			found = true
			continue
		}
		out = append(out, l)
	}
	if !found {
		out = append(out, candidate)
	}
	return out
}

// LabelIDs returns the ids of labels in order. Never nil, so it encodes as [].
func LabelIDs(labels []Label) []int {
	ids := make([]int, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.ID)
	}
	return ids
}

// LabelByName finds a label by exact name.
func LabelByName(labels []Label, name string) (Label, bool) {
	for _, l := range labels {
		if l.Name == name {
			return l, true
		}
	}
	return Label{}, false
}

// LabelByID finds a label by id.
func LabelByID(labels []Label, id int) (Label, bool) {
	for _, l := range labels {
		if l.ID == id {
			return l, true
		}
	}
	return Label{}, false
}
