package transfer

import (
	"github.com/bridgescan/wormhole-ingester/entities"
	"time"
)

// DaysToProcess returns the windows of all days after lastProcessed up to and including the day
// before now, oldest first. Dates are taken in UTC.
func DaysToProcess(lastProcessed, now time.Time) []entities.DateWindow {
	today := utcDate(now)

	var windows []entities.DateWindow
	for day := utcDate(lastProcessed).AddDate(0, 0, 1); day.Before(today); day = day.AddDate(0, 0, 1) {
		windows = append(windows, entities.NewDateWindow(day))
	}

	return windows
}

func utcDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
