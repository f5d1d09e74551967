// Package schedule computes the availability of fixed 30-minute time slots
// for one calendar day of one stadium. It is pure bookkeeping over "HH:MM"
// strings; fetching and rendering live elsewhere.
package schedule

import (
	"fmt"
	"log"

	"stadium-bot/internal/models"
)

type Status string

const (
	StatusFree   Status = "free"
	StatusBooked Status = "booked"
	StatusMine   Status = "my-booking"
)

// Day is the slot grid of a single date: an ordered list of
// "HH:MM-HH:MM" labels, each carrying exactly one status.
type Day struct {
	labels []string
	status map[string]Status
}

// NewDay builds a grid of 30-minute slots between the operating hours,
// all free. The close bound is exclusive.
func NewDay(open, close string) (*Day, error) {
	if !validClock(open) || !validClock(close) {
		return nil, fmt.Errorf("schedule: bad operating hours %s-%s", open, close)
	}
	d := &Day{status: map[string]Status{}}
	for cur := open; cur < close; {
		next := AddHalfHour(cur)
		label := cur + "-" + next
		d.labels = append(d.labels, label)
		d.status[label] = StatusFree
		if next <= cur { // wrapped past midnight
			break
		}
		cur = next
	}
	return d, nil
}

// Labels returns the grid labels in chronological order.
func (d *Day) Labels() []string {
	return d.labels
}

// Has reports whether the label belongs to the grid.
func (d *Day) Has(label string) bool {
	_, ok := d.status[label]
	return ok
}

// Status returns the classification of a slot; unknown labels are free.
func (d *Day) Status(label string) Status {
	if st, ok := d.status[label]; ok {
		return st
	}
	return StatusFree
}

// Set overrides the classification of a single slot. Used after a
// successful booking to flip the just-booked slots without a refetch.
func (d *Day) Set(label string, st Status) {
	if _, ok := d.status[label]; ok {
		d.status[label] = st
	}
}

// Mark recomputes the whole grid from a booking list: every slot covered by
// a booking becomes StatusMine when it belongs to the current user and
// StatusBooked otherwise, the rest stay free. Bookings are walked in
// 30-minute steps from the truncated start to the truncated end (exclusive),
// so a booking with equal bounds contributes nothing. Slots outside the
// grid are logged and skipped.
func (d *Day) Mark(bookings []models.Booking, currentUserID int64) {
	for _, l := range d.labels {
		d.status[l] = StatusFree
	}
	for _, b := range bookings {
		for _, label := range SlotRange(Clock(b.StartTime), Clock(b.EndTime)) {
			if _, ok := d.status[label]; !ok {
				log.Printf("schedule: slot %s is outside the grid, skipped", label)
				continue
			}
			if b.UserID == currentUserID {
				d.status[label] = StatusMine
			} else {
				d.status[label] = StatusBooked
			}
		}
	}
}

// SlotRange lists the "HH:MM-HH:MM" labels covered by the [start, end)
// interval in 30-minute steps. start == end yields no labels.
func SlotRange(start, end string) []string {
	if !validClock(start) || !validClock(end) {
		return nil
	}
	var out []string
	for cur := start; cur < end; {
		next := AddHalfHour(cur)
		out = append(out, cur+"-"+next)
		if next <= cur { // midnight wrap terminates the walk
			break
		}
		cur = next
	}
	return out
}

// AddHalfHour adds 30 minutes to an "HH:MM" clock with 24-hour wrap
// ("23:30" -> "00:00").
func AddHalfHour(t string) string {
	h := int(t[0]-'0')*10 + int(t[1]-'0')
	m := int(t[3]-'0')*10 + int(t[4]-'0')
	m += 30
	if m >= 60 {
		m -= 60
		h++
	}
	if h >= 24 {
		h -= 24
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Clock truncates an ISO timestamp ("2025-01-29T09:00:00") to "HH:MM".
func Clock(ts string) string {
	if len(ts) < 16 {
		return ""
	}
	return ts[11:16]
}

func validClock(t string) bool {
	if len(t) != 5 || t[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if t[i] < '0' || t[i] > '9' {
			return false
		}
	}
	h := int(t[0]-'0')*10 + int(t[1]-'0')
	m := int(t[3]-'0')*10 + int(t[4]-'0')
	return h < 24 && m < 60
}
