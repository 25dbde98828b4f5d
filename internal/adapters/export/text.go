package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
)

// Text renders a schedule as a plain-text day-by-day listing.
type Text struct{}

var _ ports.ScheduleExporter = Text{}

func (Text) ContentType() string   { return "text/plain; charset=utf-8" }
func (Text) FileExtension() string { return "txt" }

func (Text) Export(w io.Writer, trip domain.Trip, sched *domain.Schedule) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", trip.Title)
	fmt.Fprintf(bw, "%s, %d day(s)\n", trip.StartDate, trip.DurationDays)

	days := sched.DayNumbers()
	if len(days) == 0 {
		fmt.Fprintln(bw, "\n(no stops scheduled)")
	}

	var prevDeparture time.Time
	for _, d := range days {
		b, _ := sched.Day(d)
		fmt.Fprintf(bw, "\nDay %d - %s (%s)\n", b.Day, b.DisplayDate, b.DateKey)

		for _, st := range b.Stops {
			if travelled(st, prevDeparture) {
				fmt.Fprintf(bw, "    ~ %s %d min\n", st.TransportMode, travelMinutes(st.Stop))
			}
			prevDeparture = st.Departure

			pin := ""
			if st.Anchored() {
				pin = " [fixed]"
			}
			fmt.Fprintf(bw, "  %s-%s  %s%s (%s)\n",
				domain.FormatClock(st.Arrival), domain.FormatClock(st.Departure),
				st.Name, pin, FormatStay(st.StayHours),
			)
			if notes := strings.TrimSpace(st.Notes); notes != "" {
				for _, line := range strings.Split(notes, "\n") {
					fmt.Fprintf(bw, "      %s\n", strings.TrimSpace(line))
				}
			}
		}
	}

	if trip.TotalCost > 0 {
		fmt.Fprintf(bw, "\nTotal cost: %.2f\n", trip.TotalCost)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export text: %w", err)
	}
	return nil
}

// FormatStay renders decimal hours as "1h30m", "45m" or "2h".
func FormatStay(hours float64) string {
	total := int(domain.HoursToDuration(hours).Round(time.Minute).Minutes())
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

// travelled reports whether st was reached by travelling from the previous
// departure. Anchored stops and stops pushed to the next morning were not.
func travelled(st domain.ScheduledStop, prevDeparture time.Time) bool {
	if prevDeparture.IsZero() || st.Anchored() {
		return false
	}
	lead := time.Duration(travelMinutes(st.Stop)) * time.Minute
	return st.Arrival.Equal(prevDeparture.Add(lead))
}

func travelMinutes(s domain.Stop) int {
	if s.TravelMinutes != nil {
		return *s.TravelMinutes
	}
	return domain.DefaultTravelMinutes
}
