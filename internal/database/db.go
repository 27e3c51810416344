package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jgoulah/studytrack/pkg/models"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS merged_days (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		steps REAL,
		calories_burned REAL,
		homework INTEGER NOT NULL DEFAULT 0,
		project INTEGER NOT NULL DEFAULT 0,
		exam INTEGER NOT NULL DEFAULT 0,
		weekly_assign INTEGER NOT NULL DEFAULT 0,
		is_weekend INTEGER NOT NULL DEFAULT 0,
		is_break INTEGER NOT NULL DEFAULT 0,
		fields TEXT,
		published INTEGER DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE(date, start_time)
	);
	CREATE INDEX IF NOT EXISTS idx_days_date ON merged_days(date);
	CREATE INDEX IF NOT EXISTS idx_days_run ON merged_days(run_id);
	CREATE INDEX IF NOT EXISTS idx_days_published ON merged_days(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun records an import run and returns its id
func (db *DB) BeginRun(kind, source string, rows int) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		`INSERT INTO runs (id, kind, source, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, kind, source, rows, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// InsertDay stores a merged day. A day with the same date and sleep start
// replaces the earlier row and is queued for publishing again.
func (db *DB) InsertDay(runID string, day *models.DaySummary) error {
	query := `
	INSERT INTO merged_days (run_id, date, start_time, end_time, steps, calories_burned,
		homework, project, exam, weekly_assign, is_weekend, is_break, fields, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(date, start_time) DO UPDATE SET
		run_id = excluded.run_id,
		end_time = excluded.end_time,
		steps = excluded.steps,
		calories_burned = excluded.calories_burned,
		homework = excluded.homework,
		project = excluded.project,
		exam = excluded.exam,
		weekly_assign = excluded.weekly_assign,
		is_weekend = excluded.is_weekend,
		is_break = excluded.is_break,
		fields = excluded.fields,
		published = 0
	`

	var endTimeStr string
	if !day.EndTime.IsZero() {
		endTimeStr = day.EndTime.Format(timestampLayout)
	}

	fields, err := json.Marshal(day.Fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}

	_, err = db.conn.Exec(query,
		runID,
		day.Date.Format(dateLayout),
		day.StartTime.Format(timestampLayout),
		endTimeStr,
		day.Steps,
		day.CaloriesBurned,
		day.Homework,
		day.Project,
		day.Exam,
		day.WeeklyAssign,
		day.IsWeekend,
		day.IsBreak,
		string(fields),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting merged day: %w", err)
	}

	return nil
}

const selectDays = `
	SELECT id, run_id, date, start_time, end_time, steps, calories_burned,
		homework, project, exam, weekly_assign, is_weekend, is_break, fields
	FROM merged_days
`

// ListDays retrieves all stored days, ordered by date
func (db *DB) ListDays() ([]models.DaySummary, error) {
	return db.queryDays(selectDays + `ORDER BY date ASC, start_time ASC`)
}

// ListUnpublishedDays retrieves days not yet published, ordered by date
func (db *DB) ListUnpublishedDays() ([]models.DaySummary, error) {
	return db.queryDays(selectDays + `WHERE published = 0 ORDER BY date ASC, start_time ASC`)
}

func (db *DB) queryDays(query string, args ...any) ([]models.DaySummary, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying merged days: %w", err)
	}
	defer rows.Close()

	var results []models.DaySummary
	for rows.Next() {
		var day models.DaySummary
		var dateStr, startTimeStr string
		var endTimeStr, fields sql.NullString
		var steps, calories sql.NullFloat64

		if err := rows.Scan(&day.ID, &day.RunID, &dateStr, &startTimeStr, &endTimeStr, &steps, &calories,
			&day.Homework, &day.Project, &day.Exam, &day.WeeklyAssign, &day.IsWeekend, &day.IsBreak, &fields); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		day.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}

		day.StartTime, err = time.Parse(timestampLayout, startTimeStr)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}

		if endTimeStr.Valid && endTimeStr.String != "" {
			day.EndTime, err = time.Parse(timestampLayout, endTimeStr.String)
			if err != nil {
				return nil, fmt.Errorf("parsing end_time: %w", err)
			}
		}

		day.Steps = steps.Float64
		day.CaloriesBurned = calories.Float64

		if fields.Valid && fields.String != "" {
			if err := json.Unmarshal([]byte(fields.String), &day.Fields); err != nil {
				return nil, fmt.Errorf("decoding fields: %w", err)
			}
		}

		results = append(results, day)
	}

	return results, rows.Err()
}

// MarkPublished marks a day as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE merged_days SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking day as published: %w", err)
	}
	return nil
}
