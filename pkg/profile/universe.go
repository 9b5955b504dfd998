package profile

import "strings"

// Universe is the fixed, ordered set of question labels known at load time.
type Universe struct {
	labels   []string
	position map[string]int
}

// NewUniverse keeps the first occurrence of every non-empty label.
func NewUniverse(labels []string) *Universe {
	u := &Universe{position: make(map[string]int, len(labels))}
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, seen := u.position[label]; seen {
			continue
		}
		u.position[label] = len(u.labels)
		u.labels = append(u.labels, label)
	}
	return u
}

func (u *Universe) Len() int {
	return len(u.labels)
}

func (u *Universe) Labels() []string {
	out := make([]string, len(u.labels))
	copy(out, u.labels)
	return out
}

func (u *Universe) Contains(label string) bool {
	_, ok := u.position[label]
	return ok
}

// Position is the label's rank in universe order, or -1.
func (u *Universe) Position(label string) int {
	if p, ok := u.position[label]; ok {
		return p
	}
	return -1
}

// First returns up to n labels in universe order, skipping excluded ones.
func (u *Universe) First(n int, exclude map[string]struct{}) []string {
	out := make([]string, 0, n)
	for _, label := range u.labels {
		if len(out) >= n {
			break
		}
		if _, skip := exclude[label]; skip {
			continue
		}
		out = append(out, label)
	}
	return out
}

// Text renders fields as "label: value" pairs in universe order, the form
// both records and partial profiles are embedded in.
func (u *Universe) Text(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, label := range u.labels {
		if value, ok := fields[label]; ok {
			parts = append(parts, label+": "+value)
		}
	}
	return strings.Join(parts, " ")
}
