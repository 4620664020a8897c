package flashsale

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoSlots the campaign has no configured slot boundaries
	ErrNoSlots = errors.New("no time slots configured")
	// ErrSlotExpired the resolved slot crossed its boundary while being
	// computed; callers must re-resolve instead of showing negative time
	ErrSlotExpired = errors.New("slot expired, re-resolve")
	// ErrBadSlot a slot boundary is outside [0,24)
	ErrBadSlot = errors.New("slot hour out of range")
)

// Slot is the resolved promotional window at a point in time
type Slot struct {
	Hour        int           `json:"hour"`         // starting hour of the current slot
	NextHour    int           `json:"next_hour"`    // starting hour of the next slot
	NextAt      time.Time     `json:"next_at"`      // wall-clock moment the next slot opens
	Remaining   time.Duration `json:"remaining"`    // time until NextAt
	CarriedOver bool          `json:"carried_over"` // true when the current slot is yesterday's last window
}

// Countdown renders the remaining window as hours/minutes/seconds
func (s *Slot) Countdown() (h, m, sec int) {
	d := s.Remaining
	h = int(d / time.Hour)
	m = int(d % time.Hour / time.Minute)
	sec = int(d % time.Minute / time.Second)
	return
}

// ParseSlots parses a comma-separated hour list into an ordered,
// deduplicated boundary set.
func ParseSlots(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	seen := make(map[int]bool, len(parts))
	var hours []int
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		h, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if h < 0 || h > 23 {
			return nil, ErrBadSlot
		}
		if !seen[h] {
			seen[h] = true
			hours = append(hours, h)
		}
	}
	if len(hours) == 0 {
		return nil, ErrNoSlots
	}
	sort.Ints(hours)
	return hours, nil
}

// ResolveSlot answers which slot is open at now and how long until the
// next boundary. Pure given (now, hours); hours must be sorted ascending.
//
// Before the first boundary of the day the previous day's final slot is
// treated as still open and flagged CarriedOver, so callers can render it
// distinctly rather than inherit it silently.
func ResolveSlot(now time.Time, hours []int) (*Slot, error) {
	if len(hours) == 0 {
		return nil, ErrNoSlots
	}
	c := now.Hour()

	slot := &Slot{Hour: -1}
	for _, h := range hours {
		if h <= c {
			slot.Hour = h
		}
	}
	if slot.Hour == -1 {
		slot.Hour = hours[len(hours)-1]
		slot.CarriedOver = true
	}

	next := -1
	for _, h := range hours {
		if h > c {
			next = h
			break
		}
	}
	day := now
	if next == -1 {
		// wrap to the first slot of tomorrow
		next = hours[0]
		day = now.AddDate(0, 0, 1)
	}
	slot.NextHour = next
	slot.NextAt = time.Date(day.Year(), day.Month(), day.Day(), next, 0, 0, 0, now.Location())
	slot.Remaining = slot.NextAt.Sub(now)
	if slot.Remaining <= 0 {
		return nil, ErrSlotExpired
	}
	return slot, nil
}
