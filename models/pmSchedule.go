package models

import (
	"fmt"
	"time"

	"github.com/meditrack/cmms_backend/utils"
)

// DefaultPMIntervalDays is the documented fallback applied when nothing in
// the precedence chain resolves a frequency for an asset. Legacy free-form
// assets depend on it; it is never applied as an error fallback.
const DefaultPMIntervalDays = 90

var scheduleTypeDays = map[PMScheduleType]int{
	PMScheduleTypeDaily:        1,
	PMScheduleTypeWeekly:       7,
	PMScheduleTypeBiweekly:     14,
	PMScheduleTypeMonthly:      30,
	PMScheduleTypeQuarterly:    90,
	PMScheduleTypeSemiannually: 180,
	PMScheduleTypeAnnually:     365,
}

// IntervalDaysForScheduleType maps a legacy schedule keyword to a day count.
// customDays must carry an explicit positive value; it never defaults.
func IntervalDaysForScheduleType(scheduleType PMScheduleType, customDays *int) (int, error) {
	if scheduleType == PMScheduleTypeCustomDays {
		if customDays == nil || *customDays <= 0 {
			return 0, utils.NewValidationError("pm_interval_days",
				"customDays schedule requires a positive interval")
		}
		return *customDays, nil
	}
	days, ok := scheduleTypeDays[scheduleType]
	if !ok {
		return 0, utils.NewValidationError("pm_schedule_type",
			fmt.Sprintf("unknown schedule type %q", scheduleType))
	}
	return days, nil
}

// dateOnly normalizes an instant to its calendar date in UTC so day
// arithmetic is exact regardless of DST in the source location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextMaintenanceDate computes the next due date from the last maintenance
// date. A nil last date means the schedule starts now.
func NextMaintenanceDate(lastMaintenance *time.Time, frequencyDays int, now time.Time) (time.Time, error) {
	if frequencyDays <= 0 {
		return time.Time{}, utils.NewValidationError("frequency_days",
			fmt.Sprintf("frequency days must be positive, got %d", frequencyDays))
	}
	base := now
	if lastMaintenance != nil {
		base = *lastMaintenance
	}
	return dateOnly(base).AddDate(0, 0, frequencyDays), nil
}

// DaysUntil returns the whole days between now and target at day
// granularity. Negative means overdue by that many days. Nil target means
// no schedule.
func DaysUntil(target *time.Time, now time.Time) *int {
	if target == nil {
		return nil
	}
	diff := dateOnly(*target).Sub(dateOnly(now))
	days := int(diff / (24 * time.Hour))
	return &days
}
