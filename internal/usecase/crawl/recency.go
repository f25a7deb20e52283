package crawl

import (
	"fmt"
	"time"

	"htc-intelligence/internal/domain/entity"
)

// RecencyMode selects how the pipeline decides whether an item is fresh
// enough to keep. The mode is fixed for the duration of a run.
type RecencyMode string

const (
	// RecencyModeWindow keeps items published within the last N days,
	// inclusive at the boundary. Items with no parseable date are kept:
	// a sliding window tolerates feeds with sloppy date handling.
	RecencyModeWindow RecencyMode = "window"

	// RecencyModeCalendarMonth keeps items published in the current or
	// previous calendar month. Items with no parseable date are dropped:
	// calendar bucketing is meaningless without a date.
	RecencyModeCalendarMonth RecencyMode = "calendar_month"
)

// RecencyFilter decides which extracted items are recent enough to enter
// the pipeline.
type RecencyFilter struct {
	mode       RecencyMode
	windowDays int
}

// NewRecencyFilter validates the mode and window and returns a filter.
// windowDays is only consulted in window mode and must be positive there.
func NewRecencyFilter(mode RecencyMode, windowDays int) (*RecencyFilter, error) {
	switch mode {
	case RecencyModeWindow:
		if windowDays <= 0 {
			return nil, fmt.Errorf("window days must be positive, got %d", windowDays)
		}
	case RecencyModeCalendarMonth:
	default:
		return nil, fmt.Errorf("invalid recency mode: %q", mode)
	}
	return &RecencyFilter{mode: mode, windowDays: windowDays}, nil
}

// Keep reports whether the item passes the recency check relative to now.
func (f *RecencyFilter) Keep(item *entity.RawItem, now time.Time) bool {
	switch f.mode {
	case RecencyModeCalendarMonth:
		if !item.DateKnown {
			return false
		}
		return monthIndex(item.PublishedAt) >= monthIndex(now)-1
	default:
		if !item.DateKnown {
			return true
		}
		cutoff := now.AddDate(0, 0, -f.windowDays)
		return !item.PublishedAt.Before(cutoff)
	}
}

// monthIndex maps a time to a monotonically increasing month counter so
// that adjacent months compare as consecutive integers across year ends.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
