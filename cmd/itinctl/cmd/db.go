package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"itinerary-service/internal/adapters/repositories"
)

var seedReplace bool

var errNeedsDatabase = errors.New("this command needs a database; drop --from-seed")

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the itinerary tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if database == nil {
			return errNeedsDatabase
		}
		if err := repositories.InitSchema(database); err != nil {
			return err
		}
		fmt.Println("Schema ready.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load trips and stops from a JSON or YAML seed file",
	Long: `Load trips and stops from a seed file into the database.

The schema is created first. Trips that already exist are skipped unless
--replace is given, which overwrites them and their seeded stops.

Examples:
  itinctl seed data/seeds/trips.yaml
  itinctl seed --replace data/seeds/trips.yaml
  itinctl --db-driver postgres --database-url postgres://localhost/trips seed trips.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if database == nil {
			return errNeedsDatabase
		}
		if err := repositories.InitSchema(database); err != nil {
			return err
		}
		mode := repositories.SeedSkipExisting
		if seedReplace {
			mode = repositories.SeedReplace
		}
		if err := repositories.SeedFromFile(cmd.Context(), repo, args[0], mode); err != nil {
			return err
		}
		fmt.Println("Seeding complete.")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedReplace, "replace", false, "overwrite trips that already exist")

	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(seedCmd)
}
