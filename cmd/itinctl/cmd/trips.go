package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List all trips",
	RunE: func(cmd *cobra.Command, args []string) error {
		trips, err := repo.ListTrips(cmd.Context())
		if err != nil {
			return err
		}

		for _, t := range trips {
			fmt.Printf("%s %s (%s, %d days)\n", t.ID, t.Title, t.StartDate, t.DurationDays)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tripsCmd)
}
