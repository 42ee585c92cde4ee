// Package calendar builds the booking widget's month grid and groups day
// schedules into time-of-day buckets.
package calendar

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Day is one selectable cell in the month grid.
type Day struct {
	Day      int    `json:"day"`
	Date     string `json:"date"`
	Disabled bool   `json:"disabled"`
	Today    bool   `json:"today"`
}

// Grid is a render-ready month. LeadingBlanks is the number of empty cells
// before day 1 with the week starting on Monday.
type Grid struct {
	Year          int   `json:"year"`
	Month         int   `json:"month"`
	LeadingBlanks int   `json:"leading_blanks"`
	Days          []Day `json:"days"`
}

// Month builds the grid for the month containing today. Days before today or
// beyond the rolling horizon are disabled; time of day is ignored.
func Month(today time.Time, horizonDays int) Grid {
	year, month, _ := today.Date()
	loc := today.Location()

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday = 0 ... Sunday = 6.
	blanks := int(first.Weekday()) - 1
	if blanks < 0 {
		blanks = 6
	}

	todayMidnight := time.Date(year, month, today.Day(), 0, 0, 0, 0, loc)
	horizon := todayMidnight.AddDate(0, 0, horizonDays)

	grid := Grid{
		Year:          year,
		Month:         int(month),
		LeadingBlanks: blanks,
		Days:          make([]Day, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, loc)
		grid.Days = append(grid.Days, Day{
			Day:      day,
			Date:     date.Format(DateFormat),
			Disabled: date.Before(todayMidnight) || date.After(horizon),
			Today:    day == today.Day(),
		})
	}
	return grid
}

// Selectable reports whether the date string falls inside [today, horizon].
func Selectable(dateStr string, today time.Time, horizonDays int) bool {
	date, err := time.ParseInLocation(DateFormat, dateStr, today.Location())
	if err != nil {
		return false
	}
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return !date.Before(todayMidnight) && !date.After(todayMidnight.AddDate(0, 0, horizonDays))
}
