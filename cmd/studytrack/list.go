package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/studytrack/pkg/models"
	"github.com/spf13/cobra"
)

var listUnpublished bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored merged days",
	Long:  `Displays merged days stored in the database by "merge --store".`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listUnpublished, "unpublished", false, "Only show days not yet published")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var days []models.DaySummary
	if listUnpublished {
		days, err = db.ListUnpublishedDays()
	} else {
		days, err = db.ListDays()
	}
	if err != nil {
		return fmt.Errorf("listing days: %w", err)
	}

	if len(days) == 0 {
		fmt.Println("No days found")
		return nil
	}

	fmt.Println("\nMerged Days:")
	fmt.Println("------------------------------------------------------------------")
	fmt.Printf("%-12s  %-5s  %-5s  %10s  %3s  %3s  %3s  %4s\n", "Date", "Sleep", "Wake", "Steps", "HW", "PRJ", "EX", "Week")
	fmt.Println("------------------------------------------------------------------")

	var steps float64
	var assigned int
	for _, d := range days {
		wake := "-"
		if !d.EndTime.IsZero() {
			wake = d.EndTime.Format("15:04")
		}
		fmt.Printf("%-12s  %-5s  %-5s  %10s  %3d  %3d  %3d  %4d\n",
			d.Date.Format("2006-01-02"), d.StartTime.Format("15:04"), wake,
			humanize.Commaf(d.Steps), d.Homework, d.Project, d.Exam, d.WeeklyAssign)
		steps += d.Steps
		assigned += d.Homework + d.Project + d.Exam
	}

	fmt.Println("------------------------------------------------------------------")
	fmt.Printf("Total: %s steps, %d assignments (%d days)\n", humanize.Commaf(steps), assigned, len(days))
	return nil
}
