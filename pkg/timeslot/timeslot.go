package timeslot

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// MinutesPerDay is the upper bound of a day timeline (end exclusive)
	MinutesPerDay = 24 * 60
)

var (
	// ErrInvalidClock indicates a clock string that is not HH:MM
	ErrInvalidClock = errors.New("clock value must be in HH:MM format")

	// ErrInvalidInterval indicates an interval whose start is not before its end
	ErrInvalidInterval = errors.New("interval start must be before its end")
)

// Interval is a half-open [Start, End) range expressed in minutes since midnight
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// New builds an interval from minutes since midnight
func New(start, end int) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// FromClocks builds an interval from "HH:MM" start and end strings
func FromClocks(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid end time %q: %w", end, err)
	}
	return New(s, e)
}

// Validate checks the interval invariants
func (iv Interval) Validate() error {
	if iv.Start < 0 || iv.End > MinutesPerDay || iv.Start >= iv.End {
		return ErrInvalidInterval
	}
	return nil
}

// Minutes returns the interval duration in minutes
func (iv Interval) Minutes() int {
	return iv.End - iv.Start
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains reports whether the given minute falls inside the interval
func (iv Interval) Contains(minute int) bool {
	return minute >= iv.Start && minute < iv.End
}

// Extend returns the interval with its end pushed forward by the given minutes,
// capped at the end of the day
func (iv Interval) Extend(minutes int) Interval {
	end := iv.End + minutes
	if end > MinutesPerDay {
		end = MinutesPerDay
	}
	return Interval{Start: iv.Start, End: end}
}

// StartClock returns the start as an "HH:MM" string
func (iv Interval) StartClock() string {
	return Clock(iv.Start)
}

// EndClock returns the end as an "HH:MM" string
func (iv Interval) EndClock() string {
	return Clock(iv.End)
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s-%s", iv.StartClock(), iv.EndClock())
}

// ParseClock parses an "HH:MM" string into minutes since midnight.
// "24:00" is accepted as the exclusive end of day.
func ParseClock(value string) (int, error) {
	if len(value) != 5 || value[2] != ':' {
		// lib/pq returns TIME columns as "HH:MM:SS"; accept that too
		if len(value) == 8 && value[2] == ':' && value[5] == ':' {
			value = value[:5]
		} else {
			return 0, ErrInvalidClock
		}
	}

	h, err := atoi2(value[:2])
	if err != nil {
		return 0, ErrInvalidClock
	}
	m, err := atoi2(value[3:5])
	if err != nil {
		return 0, ErrInvalidClock
	}

	total := h*60 + m
	if h > 24 || m > 59 || total > MinutesPerDay {
		return 0, ErrInvalidClock
	}
	return total, nil
}

// Clock formats minutes since midnight as "HH:MM"
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FreeWithin returns the gaps of the day window not covered by any busy interval.
// Busy intervals may be unsorted and may overlap each other.
func FreeWithin(window Interval, busy []Interval) []Interval {
	if len(busy) == 0 {
		return []Interval{window}
	}

	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	free := []Interval{}
	cursor := window.Start
	for _, b := range sorted {
		if b.End <= window.Start || b.Start >= window.End {
			continue
		}
		if b.Start > cursor {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if cursor < window.End {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}

func atoi2(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, ErrInvalidClock
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
