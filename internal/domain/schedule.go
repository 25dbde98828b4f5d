package domain

import (
	"slices"
	"time"
)

// ScheduledStop is a Stop with its computed timing. It is derived on every
// read and never stored.
type ScheduledStop struct {
	Stop
	Arrival     time.Time
	Departure   time.Time
	Day         int
	DisplayDate string
}

// DayBucket groups the stops that arrive on one trip day.
type DayBucket struct {
	Day         int
	DateKey     string
	DisplayDate string
	Stops       []ScheduledStop
}

// Schedule maps trip day numbers to their buckets. Days with no stops have no
// bucket.
type Schedule struct {
	Days map[int]*DayBucket
}

func NewSchedule() *Schedule {
	return &Schedule{Days: make(map[int]*DayBucket)}
}

// Day returns the bucket for a day number; ok is false when the day is empty.
func (s *Schedule) Day(n int) (*DayBucket, bool) {
	if s == nil {
		return nil, false
	}
	b, ok := s.Days[n]
	return b, ok
}

// DayNumbers lists the non-empty days in ascending order.
func (s *Schedule) DayNumbers() []int {
	if s == nil {
		return nil
	}
	days := make([]int, 0, len(s.Days))
	for d := range s.Days {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// Find looks up a scheduled stop by id.
func (s *Schedule) Find(stopID string) (ScheduledStop, bool) {
	if s == nil {
		return ScheduledStop{}, false
	}
	for _, b := range s.Days {
		for _, st := range b.Stops {
			if st.ID == stopID {
				return st, true
			}
		}
	}
	return ScheduledStop{}, false
}

// Len counts scheduled stops across all days.
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, b := range s.Days {
		n += len(b.Stops)
	}
	return n
}

// Ordered flattens the schedule by day, keeping in-day order.
func (s *Schedule) Ordered() []ScheduledStop {
	out := make([]ScheduledStop, 0, s.Len())
	for _, d := range s.DayNumbers() {
		out = append(out, s.Days[d].Stops...)
	}
	return out
}

// Append places st in the bucket for its day, creating the bucket with the
// stop's arrival date on first use.
func (s *Schedule) Append(st ScheduledStop) {
	b, ok := s.Days[st.Day]
	if !ok {
		b = &DayBucket{
			Day:         st.Day,
			DateKey:     FormatDate(st.Arrival),
			DisplayDate: st.DisplayDate,
		}
		s.Days[st.Day] = b
	}
	b.Stops = append(b.Stops, st)
}
