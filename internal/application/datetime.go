package application

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	datePattern = regexp.MustCompile(`^([0-3]?\d)-([0-1]?\d)-(\d{4})$`)
	timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)
)

// ParseDateTime combines a DD-MM-YYYY date and an hh:mm AM/PM clock time into
// a single instant in the process-local timezone. Day values are not checked
// against the length of the month: "31-02-2024" normalizes forward the way
// the upstream clients expect rather than failing.
//
// The second return value is false for any structural mismatch, day outside
// [1,31], month outside [1,12], year before 1900, hour outside [1,12] or
// minute outside [0,59].
func ParseDateTime(dateText, timeText string) (time.Time, bool) {
	dateMatch := datePattern.FindStringSubmatch(strings.TrimSpace(dateText))
	if dateMatch == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(dateMatch[1])
	month, _ := strconv.Atoi(dateMatch[2])
	year, _ := strconv.Atoi(dateMatch[3])
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1900 {
		return time.Time{}, false
	}

	timeMatch := timePattern.FindStringSubmatch(strings.TrimSpace(timeText))
	if timeMatch == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(timeMatch[1])
	minute, _ := strconv.Atoi(timeMatch[2])
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	meridiem := strings.ToUpper(timeMatch[3])
	if meridiem == "PM" && hour != 12 {
		hour += 12
	}
	if meridiem == "AM" && hour == 12 {
		hour = 0
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), true
}
