package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//itinerary-service//schedule//EN"

// ICal renders one VEVENT per scheduled stop.
type ICal struct {
	// Now stamps DTSTAMP; nil means time.Now.
	Now func() time.Time
}

var _ ports.ScheduleExporter = ICal{}

func (ICal) ContentType() string   { return "text/calendar; charset=utf-8" }
func (ICal) FileExtension() string { return "ics" }

func (e ICal) Export(w io.Writer, trip domain.Trip, sched *domain.Schedule) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(trip.Title)

	for _, st := range sched.Ordered() {
		ev := cal.AddEvent(st.ID + "@itinerary")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(st.Arrival)
		ev.SetEndAt(st.Departure)
		ev.SetSummary(st.Name)

		desc := []string{fmt.Sprintf("Day %d", st.Day)}
		if st.TransportMode != "" {
			desc = append(desc, "Arrive by "+string(st.TransportMode))
		}
		if notes := strings.TrimSpace(st.Notes); notes != "" {
			desc = append(desc, notes)
		}
		ev.SetDescription(strings.Join(desc, "\n"))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("export ical: %w", err)
	}
	return nil
}
