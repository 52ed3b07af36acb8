package calls

import (
	"fmt"
	"time"
)

const (
	dateLayout    = "Jan 02 - 15:04"
	dateKeyLength = 6
)

// DateFormatter renders call timestamps in a fixed location.
type DateFormatter struct {
	Location *time.Location
}

func NewDateFormatter(loc *time.Location) DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return DateFormatter{Location: loc}
}

// FormatDate renders t as "Jan 02 - 15:04".
func (f DateFormatter) FormatDate(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

// DateKey is the grouping key: the first six characters of FormatDate.
func (f DateFormatter) DateKey(t time.Time) string {
	s := f.FormatDate(t)
	if len(s) < dateKeyLength {
		return s
	}
	return s[:dateKeyLength]
}

// CallKey adapts DateKey for GroupByDate.
func (f DateFormatter) CallKey(c Call) string {
	return f.DateKey(c.CreatedAt)
}

// FormatDuration renders a number of seconds as "M minutes S seconds".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d minutes %d seconds", seconds/60, seconds%60)
}
