package export

import (
	"fmt"
	"strings"

	"itinerary-service/internal/ports"
)

// ForFormat resolves an exporter by its short name.
func ForFormat(format string) (ports.ScheduleExporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return Text{}, nil
	case "ics", "ical":
		return ICal{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
