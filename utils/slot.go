package utils

import (
	"fmt"
	"regexp"
	"time"
)

// Strict 24-hour clock, e.g. "09:30" or "23:05".
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// IsClockTime reports whether s is a valid "HH:MM" 24-hour clock string.
func IsClockTime(s string) bool {
	return clockPattern.MatchString(s)
}

// ParseSlot combines a date ("2006-01-02") with HH:MM start and end clock
// strings into absolute UTC instants. The start must precede the end.
func ParseSlot(date, startTime, endTime string) (time.Time, time.Time, error) {
	if !IsClockTime(startTime) || !IsClockTime(endTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time format, use HH:MM (24-hour)")
	}
	start, err := time.Parse(dateLayout+" "+clockLayout, date+" "+startTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout+" "+clockLayout, date+" "+endTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start time must be before end time")
	}
	return start, end, nil
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// WithinWorkingHours reports whether the requested slot falls inside the
// provider's daily "HH:MM" window. An unset window never restricts.
func WithinWorkingHours(workStart, workEnd string, slotStart, slotEnd time.Time) bool {
	if workStart == "" || workEnd == "" {
		return true
	}
	ws, err := time.Parse(clockLayout, workStart)
	if err != nil {
		return true
	}
	we, err := time.Parse(clockLayout, workEnd)
	if err != nil {
		return true
	}
	wsMin := ws.Hour()*60 + ws.Minute()
	weMin := we.Hour()*60 + we.Minute()
	startMin := slotStart.Hour()*60 + slotStart.Minute()
	endMin := slotEnd.Hour()*60 + slotEnd.Minute()
	return startMin >= wsMin && endMin <= weMin
}
