package mobilesync

import (
	"fmt"
	"regexp"
	"time"
)

var (
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	timePattern     = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// IsValidObjectID checks the 24-hex shape of a client-generated id. It
// says nothing about whether the record exists.
func IsValidObjectID(id string) bool {
	return objectIDPattern.MatchString(id)
}

// ValidateTimeFormat accepts H:mm and HH:mm wall-clock strings.
func ValidateTimeFormat(t string) bool {
	return timePattern.MatchString(t)
}

// ValidateTimeLogic returns a human-readable violation, or "" when the
// pair is acceptable. Full-day entries are exempt from ordering.
func ValidateTimeLogic(start, end string, isFullDay bool) string {
	if !ValidateTimeFormat(start) {
		return fmt.Sprintf("startTime %q is not a valid HH:mm time", start)
	}
	if !ValidateTimeFormat(end) {
		return fmt.Sprintf("endTime %q is not a valid HH:mm time", end)
	}
	if isFullDay {
		return ""
	}
	if minutesOfDay(start) >= minutesOfDay(end) {
		return fmt.Sprintf("startTime %s must be before endTime %s", start, end)
	}
	return ""
}

func minutesOfDay(t string) int {
	var h, m int
	fmt.Sscanf(t, "%d:%d", &h, &m)
	return h*60 + m
}

// IsValidDate accepts calendar dates in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
