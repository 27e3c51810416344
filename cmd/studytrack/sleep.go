package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jgoulah/studytrack/internal/sleepgrid"
	"github.com/jgoulah/studytrack/internal/table"
	"github.com/spf13/cobra"
)

var (
	sleepRaw  string
	sleepOut  string
	sleepWake string
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Create per-minute sleep and wake indicator datasets",
	Long: `Expands raw sleep sessions into per-minute asleep indicators.

The sleep grid spans the hours around each session start and the wake grid spans
the hours around each session end. Both cover every day that has a session.`,
	RunE: runSleep,
}

func init() {
	sleepCmd.Flags().StringVar(&sleepRaw, "raw-file", "./raw_sleepdata.csv", "Path to raw sleep data file")
	sleepCmd.Flags().StringVar(&sleepOut, "sleep-file", "./sleepdf.csv", "Where to save sleep indicator dataset")
	sleepCmd.Flags().StringVar(&sleepWake, "wake-file", "./wakedf.csv", "Where to save wake indicator dataset")
	rootCmd.AddCommand(sleepCmd)
}

func runSleep(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Sleep grid started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	raw, err := readInput("sleep", sleepRaw)
	if err != nil {
		return err
	}

	intervals, err := sleepgrid.Intervals(raw)
	if err != nil {
		return fmt.Errorf("reading sleep sessions: %w", err)
	}

	outputs := []struct {
		anchor sleepgrid.Anchor
		path   string
	}{
		{sleepgrid.AnchorSleep, sleepOut},
		{sleepgrid.AnchorWake, sleepWake},
	}

	for _, o := range outputs {
		grid := sleepgrid.Build(intervals, o.anchor)
		lo, hi := sleepgrid.HourRange(intervals, o.anchor)
		logger.Debug("Built indicator grid",
			slog.String("anchor", o.anchor.String()),
			slog.Int("first_hour", lo),
			slog.Int("last_hour", hi),
			slog.Int("minutes", len(grid)))

		if err := table.WriteFile(o.path, sleepgrid.ToTable(grid)); err != nil {
			return fmt.Errorf("saving %s dataset: %w", o.anchor, err)
		}
		fmt.Printf("Wrote %s minutes to %s\n", humanize.Comma(int64(len(grid))), o.path)
	}

	color.Green("✓ Sleep and Wake indicator datasets created!")
	return nil
}
