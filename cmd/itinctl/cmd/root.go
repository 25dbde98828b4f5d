package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"itinerary-service/internal/adapters/memory"
	"itinerary-service/internal/adapters/notify"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/config"
	"itinerary-service/internal/platform/db"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

var (
	// cfg is resolved per run from the env file, the environment and flags.
	cfg       config.Config
	connFlags config.Config
	envFile   string
	fromSeed  string

	database *sql.DB
	repo     ports.TripRepository
)

var rootCmd = &cobra.Command{
	Use:   "itinctl",
	Short: "CLI for managing trip itineraries",
	Long: `itinctl manages the itinerary database and prints computed schedules.

Connection settings default to the same environment variables as the server
(DB_DRIVER, DB_PATH, DATABASE_URL, TRIP_TIMEZONE), read after the --env-file.
Flags given on the command line win. With --from-seed the commands run against
an in-memory store loaded from a seed file instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := loadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
			return err
		}

		c, err := resolveConfig(cmd.Flags(), connFlags)
		if err != nil {
			return err
		}
		cfg = c
		return openRepo(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if database != nil {
			return database.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	bindConnFlags(flags, &connFlags)
	flags.StringVar(&fromSeed, "from-seed", "", "load trips from a seed file into memory instead of a database")
}

// bindConnFlags registers the connection flags into dst. Defaults stay empty
// so an unset flag falls back to the environment.
func bindConnFlags(flags *pflag.FlagSet, dst *config.Config) {
	flags.StringVar(&dst.DBDriver, "db-driver", "", "database driver: sqlite or postgres (default $DB_DRIVER or sqlite)")
	flags.StringVar(&dst.DBPath, "db-path", "", "sqlite database file (default $DB_PATH)")
	flags.StringVar(&dst.DatabaseURL, "database-url", "", "postgres connection URL (default $DATABASE_URL)")
	flags.StringVar(&dst.Timezone, "tz", "", "IANA zone for trip dates (default $TRIP_TIMEZONE or UTC)")
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file %q: %w", path, err)
}

// resolveConfig reads the environment, then applies the flags that were set
// on the command line.
func resolveConfig(flags *pflag.FlagSet, set config.Config) (config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	for _, f := range []struct {
		name string
		dst  *string
		val  string
	}{
		{"db-driver", &c.DBDriver, set.DBDriver},
		{"db-path", &c.DBPath, set.DBPath},
		{"database-url", &c.DatabaseURL, set.DatabaseURL},
		{"tz", &c.Timezone, set.Timezone},
	} {
		if flags.Changed(f.name) {
			*f.dst = f.val
		}
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))

	return c, nil
}

func openRepo(ctx context.Context) error {
	if fromSeed != "" {
		mem := memory.NewTripRepository()
		if err := repositories.SeedFromFile(ctx, mem, fromSeed, repositories.SeedSkipExisting); err != nil {
			return err
		}
		repo = mem
		return nil
	}

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	database, err = db.Open(cfg.SQLDriver(), dsn)
	if err != nil {
		return err
	}
	repo = repositories.NewSQLTripRepository(database, dialect)
	return nil
}

// itinerary builds the service over the opened store. The CLI never
// publishes changes.
func itinerary() (*services.Itinerary, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	return services.NewItinerary(repo, notify.Nop{}, rules), nil
}
