// Package timeutil provides timezone utilities for Lima time (UTC-5).
// The school and every user are in Peru, which has no DST, so a fixed zone
// is safe. Handles date formatting, office hours, and timezone-aware
// operations. No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// LimaTZ is the Peru timezone (UTC-5, no DST since 1994).
var LimaTZ = time.FixedZone("America/Lima", -5*60*60)

// Now returns the current time in Lima timezone.
func Now() time.Time {
	return time.Now().In(LimaTZ)
}

// ToLima converts a time to Lima timezone.
func ToLima(t time.Time) time.Time {
	return t.In(LimaTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Lima timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, LimaTZ)
}

// DateTime creates a time in Lima timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, LimaTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Lima timezone.
func StartOfDay(t time.Time) time.Time {
	lima := ToLima(t)
	return time.Date(lima.Year(), lima.Month(), lima.Day(), 0, 0, 0, 0, LimaTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Lima timezone.
func EndOfDay(t time.Time) time.Time {
	lima := ToLima(t)
	return time.Date(lima.Year(), lima.Month(), lima.Day(), 23, 59, 59, 999999999, LimaTZ)
}

// IsToday checks if the given time is today in Lima timezone.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// IsSameDay checks if two times are on the same day in Lima timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToLima(t1), ToLima(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a1 := StartOfDay(t1)
	a2 := StartOfDay(t2)
	duration := a2.Sub(a1)
	days := int(duration.Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Secretariat attention hours at the school.
const (
	// OfficeOpenHour is when the secretariat opens (8:00 AM).
	OfficeOpenHour = 8
	// OfficeCloseHour is when the secretariat closes (4:00 PM).
	OfficeCloseHour = 16
)

// IsOfficeOpen checks if the secretariat is attending (Mon-Fri, 8:00-16:00).
func IsOfficeOpen(t time.Time) bool {
	lima := ToLima(t)
	if IsWeekend(lima) {
		return false
	}
	hour := lima.Hour()
	return hour >= OfficeOpenHour && hour < OfficeCloseHour
}

// IsWeekend checks if the given time is on a weekend.
func IsWeekend(t time.Time) bool {
	weekday := ToLima(t).Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsWorkday checks if the given time is on a workday (Mon-Fri).
func IsWorkday(t time.Time) bool {
	return !IsWeekend(t)
}

// NextOfficeOpening returns the next moment the secretariat opens.
func NextOfficeOpening(t time.Time) time.Time {
	lima := ToLima(t)
	if IsWorkday(lima) && lima.Hour() < OfficeOpenHour {
		return DateTime(lima.Year(), int(lima.Month()), lima.Day(), OfficeOpenHour, 0, 0)
	}

	next := lima.AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return DateTime(next.Year(), int(next.Month()), next.Day(), OfficeOpenHour, 0, 0)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatPeruDate is the Peruvian date format (DD/MM/YYYY).
	FormatPeruDate = "02/01/2006"
	// FormatPeruDateTime is the Peruvian datetime format.
	FormatPeruDateTime = "02/01/2006 15:04"
)

// FormatLima formats a time in Lima timezone with the given layout.
func FormatLima(t time.Time, layout string) string {
	return ToLima(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Lima timezone.
func FormatDateStr(t time.Time) string {
	return FormatLima(t, FormatDate)
}

// FormatTimeStr formats a time as a time string (HH:MM) in Lima timezone.
func FormatTimeStr(t time.Time) string {
	return FormatLima(t, FormatTime)
}

// FormatPeru formats a time in Peruvian format (DD/MM/YYYY).
func FormatPeru(t time.Time) string {
	return FormatLima(t, FormatPeruDate)
}

// FormatRelative returns a human-readable relative time string in Spanish.
func FormatRelative(t time.Time) string {
	now := Now()
	lima := ToLima(t)
	duration := now.Sub(lima)

	if duration < 0 {
		duration = -duration
		return formatFutureDuration(duration)
	}

	return formatPastDuration(duration)
}

func formatPastDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "hace un momento"
	case d < time.Hour:
		return fmt.Sprintf("hace %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("hace %d h", int(d.Hours()))
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "ayer"
		}
		return fmt.Sprintf("hace %d días", days)
	case d < 30*24*time.Hour:
		return fmt.Sprintf("hace %d semanas", int(d.Hours()/24/7))
	default:
		months := int(d.Hours() / 24 / 30)
		if months < 12 {
			return fmt.Sprintf("hace %d meses", months)
		}
		return fmt.Sprintf("hace %d años", months/12)
	}
}

func formatFutureDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "ahora"
	case d < time.Hour:
		return fmt.Sprintf("en %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("en %d h", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "mañana"
		}
		return fmt.Sprintf("en %d días", days)
	}
}

// ParseLima parses a time string in Lima timezone.
func ParseLima(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, LimaTZ)
}

// ParseDateLima parses a date string (YYYY-MM-DD) in Lima timezone.
func ParseDateLima(value string) (time.Time, error) {
	return ParseLima(FormatDate, value)
}
