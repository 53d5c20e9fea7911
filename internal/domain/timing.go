package domain

import (
	"strings"
	"time"
)

type TimingKind string

const (
	TimingRush      TimingKind = "rush"
	TimingSameDay   TimingKind = "same-day"
	TimingScheduled TimingKind = "scheduled"
)

// Same-day delivery can only be booked before this local hour.
const SameDayCutoffHour = 13

// Requested delivery window. Date ("2006-01-02") and Time ("15:04") only
// matter for scheduled deliveries.
type DeliveryTiming struct {
	Kind TimingKind
	Date string
	Time string
}

func (k TimingKind) Valid() bool {
	switch k {
	case TimingRush, TimingSameDay, TimingScheduled:
		return true
	}
	return false
}

// SameDayAvailable reports whether same-day delivery can still be booked at now.
func SameDayAvailable(now time.Time) bool {
	return now.Hour() < SameDayCutoffHour
}

// ScheduledValid reports whether a scheduled timing carries both a date and a time.
func ScheduledValid(t DeliveryTiming) bool {
	if strings.TrimSpace(t.Date) == "" || strings.TrimSpace(t.Time) == "" {
		return false
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return false
	}
	if _, err := time.Parse("15:04", t.Time); err != nil {
		return false
	}
	return true
}
