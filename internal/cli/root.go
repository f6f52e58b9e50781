// Package cli defines the moodctl command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mindspace/internal/adapter/memory"
	"mindspace/internal/adapter/postgres"
	"mindspace/internal/adapter/sqlite"
	"mindspace/internal/app"
	"mindspace/internal/config"
	"mindspace/internal/domain"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// settings is the resolved view of flags, MOODCTL_* env and .moodctl.yaml.
type settings struct {
	Backend     string `mapstructure:"backend"`
	SeedFile    string `mapstructure:"seed-file"`
	SQLitePath  string `mapstructure:"sqlite-path"`
	DatabaseURL string `mapstructure:"database-url"`
	User        int64  `mapstructure:"user"`
	TZ          string `mapstructure:"tz"`
	Today       string `mapstructure:"today"`
	Color       bool   `mapstructure:"color"`
}

// session is what a command needs once settings are resolved.
type session struct {
	charts *app.ChartsService
	user   int64
	today  time.Time
	close  func()
}

// Execute runs moodctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "moodctl",
		Short:         "Inspect a mood journal from the terminal.",
		Long:          `moodctl reads journal entries from a mindspace store and draws the mood trend, the year in pixels and the journaling streak.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to config file")
	pf.String("backend", config.BackendSQLite, "Data backend: memory or sqlite or postgres")
	pf.String("seed-file", "", "JSON seed file for the memory backend")
	pf.String("sqlite-path", "./data/mindspace.db", "SQLite database path")
	pf.String("database-url", "", "PostgreSQL connection string")
	pf.Int64("user", 1, "User ID whose journal to read")
	pf.String("tz", "", "Time zone used to cut calendar days (default: local)")
	pf.String("today", "", "Anchor day as YYYY-MM-DD (default: now)")
	pf.Bool("color", true, "Enable colored output")
	if err := v.BindPFlags(pf); err != nil {
		panic(fmt.Sprintf("bind root flags: %v", err))
	}

	root.AddCommand(
		newSeriesCmd(v),
		newPixelsCmd(v),
		newStreakCmd(v),
		newForecastCmd(v),
		newVersionCmd(),
	)
	return root
}

// initConfig reads the config file and MOODCTL_* variables into v.
func initConfig(v *viper.Viper) error {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".moodctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("MOODCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func loadSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if s.User < 1 {
		return s, fmt.Errorf("invalid user %d: must be positive", s.User)
	}
	return s, nil
}

// open resolves settings and connects to the configured store.
func open(ctx context.Context, v *viper.Viper) (*session, error) {
	s, err := loadSettings(v)
	if err != nil {
		return nil, err
	}
	color.NoColor = color.NoColor || !s.Color

	loc := time.Local
	if s.TZ != "" {
		if loc, err = time.LoadLocation(s.TZ); err != nil {
			return nil, fmt.Errorf("invalid time zone '%s': %w", s.TZ, err)
		}
	}

	repo, closeFn, err := openEntries(ctx, s)
	if err != nil {
		return nil, err
	}

	charts := app.NewChartsService(repo, loc)
	today := charts.Today()
	if s.Today != "" {
		if today, err = time.ParseInLocation("2006-01-02", s.Today, loc); err != nil {
			closeFn()
			return nil, fmt.Errorf("invalid --today '%s': want YYYY-MM-DD", s.Today)
		}
		today = today.Add(12 * time.Hour)
	}
	return &session{charts: charts, user: s.User, today: today, close: closeFn}, nil
}

func openEntries(ctx context.Context, s settings) (domain.EntryRepository, func(), error) {
	switch s.Backend {
	case config.BackendMemory:
		db := memory.New()
		if s.SeedFile != "" {
			if _, err := db.LoadSeed(s.SeedFile); err != nil {
				return nil, nil, err
			}
		}
		return db, func() {}, nil
	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, s.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case config.BackendPostgres:
		if s.DatabaseURL == "" {
			return nil, nil, errors.New("--database-url is required for the postgres backend")
		}
		db, err := postgres.Open(ctx, s.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("invalid backend '%s': must be memory or sqlite or postgres", s.Backend)
	}
}
