package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"itinerary-service/internal/adapters/export"
	"itinerary-service/internal/domain"
)

var (
	scheduleDay  int
	exportFormat string
	exportOut    string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <trip-id>",
	Short: "Print the computed day-by-day schedule of a trip",
	Long: `Print the computed day-by-day schedule of a trip.

Examples:
  itinctl schedule lisbon-2024
  itinctl schedule lisbon-2024 --day 2
  itinctl --from-seed data/seeds/trips.yaml schedule lisbon-2024`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := itinerary()
		if err != nil {
			return err
		}
		trip, _, sched, err := it.TripSchedule(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if scheduleDay > 0 {
			sched = onlyDay(sched, scheduleDay)
		}
		return export.Text{}.Export(os.Stdout, trip, sched)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <trip-id>",
	Short: "Export a trip schedule as text or iCalendar",
	Long: `Export a trip schedule as plain text or an iCalendar file.

Examples:
  itinctl export lisbon-2024 --format ics --out lisbon.ics
  itinctl export lisbon-2024 --format text`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.ForFormat(exportFormat)
		if err != nil {
			return err
		}

		it, err := itinerary()
		if err != nil {
			return err
		}
		trip, _, sched, err := it.TripSchedule(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			defer f.Close()
			w = f
		}
		return exporter.Export(w, trip, sched)
	},
}

// onlyDay narrows sched to one day bucket; an empty day yields an empty
// schedule.
func onlyDay(sched *domain.Schedule, day int) *domain.Schedule {
	out := domain.NewSchedule()
	if b, ok := sched.Day(day); ok {
		out.Days[day] = b
	}
	return out
}

func init() {
	scheduleCmd.Flags().IntVar(&scheduleDay, "day", 0, "only print this day number")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "output format: text or ics")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to a file instead of stdout")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(exportCmd)
}
