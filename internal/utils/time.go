package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/studystreak/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// GetTodayInTimezone returns today's calendar day in the specified timezone.
func GetTodayInTimezone(timezone string) (models.Day, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return models.Day{}, err
	}
	return models.DayFromTime(now), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ParseHours parses a user-entered hour count. Blank input means no hours
// were recorded and returns nil.
func ParseHours(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return nil, fmt.Errorf("invalid hours %q: must be a non-negative number", s)
	}
	return &h, nil
}

// FormatHours renders hours without trailing zeros, e.g. 2, 2.5, 1.25.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
