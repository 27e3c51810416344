package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jgoulah/studytrack/internal/merge"
	"github.com/jgoulah/studytrack/internal/table"
	"github.com/spf13/cobra"
)

var (
	mergeActivity   string
	mergeSleep      string
	mergeCanvas     string
	mergeOutput     string
	mergeBreakWeeks []int
	mergeStore      bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Create the merged daily dataset",
	Long: `Creates merged dataset with activity, assignment and sleep data.

Activity and sleep are joined on the day of the sleep start. Assignments count
toward the night before they are due. Days without a sleep session are dropped.
Files ending in .xlsx are read and written as Excel workbooks.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeActivity, "activity", "a", "./activitydata.csv", "Path to activity data file")
	mergeCmd.Flags().StringVarP(&mergeSleep, "sleep", "s", "./raw_sleepdata.csv", "Path to raw sleep data file")
	mergeCmd.Flags().StringVarP(&mergeCanvas, "canvas", "c", "./canvasdata.csv", "Path to canvas assignment data file")
	mergeCmd.Flags().StringVarP(&mergeOutput, "merged", "m", "./mergeddf.csv", "Where to save merged dataset")
	mergeCmd.Flags().IntSliceVar(&mergeBreakWeeks, "break-weeks", nil, "ISO week numbers flagged as break (default from config, 12,13)")
	mergeCmd.Flags().BoolVar(&mergeStore, "store", false, "Also store merged days in the database")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Merge started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	breakWeeks := cfg.GetBreakWeeks()
	if cmd.Flags().Changed("break-weeks") {
		breakWeeks = mergeBreakWeeks
	}

	// Read inputs
	activity, err := readInput("activity", mergeActivity)
	if err != nil {
		return err
	}
	sleep, err := readInput("sleep", mergeSleep)
	if err != nil {
		return err
	}
	assignments, err := readInput("assignment", mergeCanvas)
	if err != nil {
		return err
	}

	out, err := merge.Build(activity, sleep, assignments, merge.Options{
		BreakWeeks:     breakWeeks,
		NumericColumns: cfg.GetNumericColumns(),
		DropColumns:    cfg.GetDropColumns(),
		KeyLayout:      cfg.GetDateKeyLayout(),
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("building merged dataset: %w", err)
	}

	// Save output
	if err := table.WriteFile(mergeOutput, out); err != nil {
		return fmt.Errorf("saving merged dataset: %w", err)
	}
	fmt.Printf("Wrote %s days to %s\n", humanize.Comma(int64(out.Len())), mergeOutput)

	if mergeStore {
		if err := storeMerged(out); err != nil {
			return err
		}
	}

	color.Green("✓ Merged dataset created!")
	return nil
}

func readInput(name, path string) (*table.Table, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s data: %w", name, err)
	}
	logger.Debug("Loaded input",
		slog.String("dataset", name),
		slog.String("path", path),
		slog.Int("rows", t.Len()))
	return t, nil
}

// storeMerged persists every merged row under a new run
func storeMerged(out *table.Table) error {
	days, err := merge.Summaries(out)
	if err != nil {
		return fmt.Errorf("converting merged rows: %w", err)
	}

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	runID, err := db.BeginRun("merge", mergeOutput, len(days))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	for i := range days {
		if err := db.InsertDay(runID, &days[i]); err != nil {
			return fmt.Errorf("storing %s: %w", days[i].Date.Format("2006-01-02"), err)
		}
	}

	fmt.Printf("Stored %s days in %s (run %s)\n", humanize.Comma(int64(len(days))), getDBPath(), runID)
	return nil
}
