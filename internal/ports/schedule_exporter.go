package ports

import (
	"io"

	"itinerary-service/internal/domain"
)

// Formats a computed schedule for download.
type ScheduleExporter interface {
	ContentType() string
	FileExtension() string
	Export(w io.Writer, trip domain.Trip, sched *domain.Schedule) error
}
