package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the ledger with development stays spread over the
// last three days: a few closed, a repeat visitor, and two open stays sharing
// box 7 (the ledger does not police occupancy).
func SeedFixtures(database *sql.DB, now time.Time) error {
	day := func(offset int, hour, minute int) string {
		t := now.AddDate(0, 0, offset)
		return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location()).Format("2006-01-02 15:04")
	}

	stays := []struct {
		first, last, color string
		box                int
		in, out            string
	}{
		{"Ana", "Silva", "red", 12, day(-2, 8, 15), day(-2, 17, 40)},
		{"Bruno", "Costa", "blue", 3, day(-2, 9, 5), day(-2, 12, 30)},
		{"Ana", "Silva", "red", 4, day(-1, 8, 20), day(-1, 18, 2)},
		{"Carla", "Mendes", "green", 7, day(0, 7, 55), ""},
		{"Diego", "Souza", "black", 7, day(0, 8, 10), ""},
	}

	for _, s := range stays {
		var out sql.NullString
		if s.out != "" {
			out = sql.NullString{String: s.out, Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO stays (first_name, last_name, bike_color, box, checked_in_at, checked_out_at) VALUES (?, ?, ?, ?, ?, ?)",
			s.first, s.last, s.color, s.box, s.in, out,
		); err != nil {
			return fmt.Errorf("seed stays: %w", err)
		}
	}

	return nil
}
