package schedule

import "sort"

// Selection is the set of slots the user has picked for a single date.
// It is cleared on date change and on successful submission.
type Selection struct {
	picked map[string]bool
}

func NewSelection() *Selection {
	return &Selection{picked: map[string]bool{}}
}

// Toggle flips the membership of a slot and reports whether it is now
// selected. Slots booked by someone else cannot be picked.
func (s *Selection) Toggle(label string, st Status) bool {
	if st == StatusBooked {
		return false
	}
	if s.picked[label] {
		delete(s.picked, label)
		return false
	}
	s.picked[label] = true
	return true
}

func (s *Selection) Has(label string) bool {
	return s.picked[label]
}

func (s *Selection) Empty() bool {
	return len(s.picked) == 0
}

// Labels returns the selected labels ordered by start time.
func (s *Selection) Labels() []string {
	out := make([]string, 0, len(s.picked))
	for l := range s.picked {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Span returns the start of the earliest selected slot and the end of the
// latest one. A selection with gaps spans them: picking 09:00-09:30 and
// 10:00-10:30 yields 09:00-10:30. The backend rejects overlaps with
// existing bookings, so a widened span fails there instead of silently
// double-booking the gap.
func (s *Selection) Span() (start, end string) {
	labels := s.Labels()
	if len(labels) == 0 {
		return "", ""
	}
	return labels[0][:5], labels[len(labels)-1][6:]
}

func (s *Selection) Clear() {
	s.picked = map[string]bool{}
}
