package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jgoulah/studytrack/internal/publisher"
	"github.com/jgoulah/studytrack/pkg/models"
	"github.com/spf13/cobra"
)

var (
	publishSince string
	publishUntil string
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish merged days to MQTT",
	Long:  `Reads stored merged days from the database and publishes each one as a retained MQTT message.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSince, "since", "", "Only publish data since this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().StringVar(&publishUntil, "until", "", "Only publish data until this date (YYYY-MM-DD)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT publishing is not enabled in config")
	}

	// Parse date filters if provided
	var sinceDate, untilDate *time.Time
	if publishSince != "" {
		since, err := parseDate(publishSince)
		if err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
		sinceDate = &since
	}
	if publishUntil != "" {
		until, err := parseDate(publishUntil)
		if err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
		untilDate = &until
	}

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var days []models.DaySummary
	if publishAll {
		days, err = db.ListDays()
	} else {
		days, err = db.ListUnpublishedDays()
	}
	if err != nil {
		return fmt.Errorf("listing days: %w", err)
	}

	days = filterDays(days, sinceDate, untilDate, publishLimit)
	if len(days) == 0 {
		fmt.Println("No days to publish")
		return nil
	}

	pub, err := publisher.New(cfg.MQTT, cfg.GetTopicPrefix(), cfg.GetClientID(), logger)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("Publishing %d days...\n", len(days))
	published := 0
	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("publish interrupted: %w", err)
		}

		fmt.Printf("[%d/%d] Publishing %s... ", i+1, len(days), pub.Topic(day))
		if err := pub.Publish(ctx, day); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		if err := db.MarkPublished(day.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d days\n", published, len(days))
	return nil
}

// filterDays applies the date range, then the limit
func filterDays(days []models.DaySummary, since, until *time.Time, limit int) []models.DaySummary {
	var out []models.DaySummary
	for _, d := range days {
		if since != nil && d.Date.Before(*since) {
			continue
		}
		if until != nil && d.Date.After(*until) {
			continue
		}
		out = append(out, d)
	}
	if limit > 0 && len(out) > limit {
		fmt.Printf("Limiting to %d records (--limit flag)\n", limit)
		out = out[:limit]
	}
	return out
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	// Relative format, "7d" is 7 days ago
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(dateStr[:len(dateStr)-1], "%d", &days); err == nil {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}
