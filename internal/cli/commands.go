package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mindspace/internal/domain"
	"mindspace/internal/insight"
	"mindspace/internal/render"
)

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(fmt.Sprintf("bind %s flags: %v", cmd.Name(), err))
	}
}

func newSeriesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Show the daily mood trend for the last N days",
		Long: `Print one row per logged day of the trailing window ending today.

Days without an entry are left out. When several entries share a day the
most recently written one counts.

Examples:
  # Last two weeks
  moodctl series

  # Last quarter from a seed file
  moodctl series --days 90 --backend memory --seed-file seed.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.close()

			points, err := sess.charts.MoodSeries(cmd.Context(), sess.user, v.GetInt("days"), sess.today)
			if err != nil {
				return err
			}
			return render.SeriesTable(cmd.OutOrStdout(), points)
		},
	}
	cmd.Flags().Int("days", 14, "Window length in days (1-366)")
	bindFlags(v, cmd)
	return cmd
}

func newPixelsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pixels",
		Short: "Draw the year in pixels",
		Long: `Draw one colored cell per day of a calendar year, one line per month.

Examples:
  # Current year
  moodctl pixels

  # A past year without the legend
  moodctl pixels --year 2023 --legend=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year := v.GetInt("year")
			if year < 0 || year > 9999 {
				return fmt.Errorf("invalid year %d", year)
			}

			sess, err := open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.close()

			pixels, err := sess.charts.PixelCalendar(cmd.Context(), sess.user, year, sess.today)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := render.PixelGrid(out, pixels); err != nil {
				return err
			}
			if v.GetBool("legend") {
				return render.Legend(out)
			}
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "Calendar year (default: the year of today)")
	cmd.Flags().Bool("legend", true, "Print the mood legend below the grid")
	bindFlags(v, cmd)
	return cmd
}

func newStreakCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the journaling streak",
		Long: `Count consecutive journaling days up to today.

With --flexible a single missed day between two logged days keeps the run
alive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.close()

			st, err := sess.charts.Streak(cmd.Context(), sess.user, v.GetBool("flexible"), sess.today)
			if err != nil {
				return err
			}
			return render.StreakSummary(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().Bool("flexible", false, "Allow one missed day between logged days")
	bindFlags(v, cmd)
	return cmd
}

func newForecastCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast",
		Short: "Predict tomorrow's mood from the recent trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.close()

			f, ok, err := sess.charts.Forecast(cmd.Context(), sess.user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				_, err := fmt.Fprintf(out, "Not enough entries yet (need %d).\n", insight.ForecastWindow)
				return err
			}
			level := domain.Classify(domain.Normalize(f.Predicted, domain.ScaleTen))
			fmt.Fprintf(out, "Predicted mood: %.1f/10 (%s)\n", f.Predicted, level.Label())
			fmt.Fprintf(out, "  Trend:     %+.2f (%s)\n", f.Trend, f.Direction)
			if f.Declining {
				fmt.Fprintln(out, "  Warning:   mood has been declining")
			}
			if f.Volatile {
				fmt.Fprintln(out, "  Note:      recent moods swing widely")
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of moodctl.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("moodctl CLI\n")
			cmd.Printf("  Version: %s\n", version)
			cmd.Printf("  Commit:  %s\n", commit)
			cmd.Printf("  Built:   %s\n", date)
			cmd.Printf("  Runtime: %s\n", runtime.Version())
		},
	}
}
