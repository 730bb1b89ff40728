package models

import "testing"

func TestClassifyScheduleBoundaries(t *testing.T) {
	cases := []struct {
		days     int
		status   ScheduleStatus
		priority WorkOrderPriority
	}{
		{-30, ScheduleStatusOverdue, WorkOrderPriorityCritical},
		{-1, ScheduleStatusOverdue, WorkOrderPriorityCritical},
		{0, ScheduleStatusDueSoon, WorkOrderPriorityHigh},
		{7, ScheduleStatusDueSoon, WorkOrderPriorityHigh},
		{8, ScheduleStatusUpcoming, WorkOrderPriorityMedium},
		{30, ScheduleStatusUpcoming, WorkOrderPriorityMedium},
		{31, ScheduleStatusScheduled, WorkOrderPriorityLow},
		{365, ScheduleStatusScheduled, WorkOrderPriorityLow},
	}
	for _, tc := range cases {
		d := tc.days
		status, priority := ClassifySchedule(&d)
		if status != tc.status || priority != tc.priority {
			t.Fatalf("days=%d: got (%s, %s), want (%s, %s)",
				tc.days, status, priority, tc.status, tc.priority)
		}
	}
}

func TestClassifyScheduleNilMeansUnknown(t *testing.T) {
	status, priority := ClassifySchedule(nil)
	if status != ScheduleStatusUnknown {
		t.Fatalf("got %s, want %s", status, ScheduleStatusUnknown)
	}
	if priority != "" {
		t.Fatalf("unknown schedule must carry no priority, got %q", priority)
	}
}

// Shrinking days-until must never move the status away from due: the
// classifier is monotonic across the whole range.
func TestClassifyScheduleMonotonic(t *testing.T) {
	rank := map[ScheduleStatus]int{
		ScheduleStatusOverdue:   0,
		ScheduleStatusDueSoon:   1,
		ScheduleStatusUpcoming:  2,
		ScheduleStatusScheduled: 3,
	}
	prev := -1
	for days := -60; days <= 60; days++ {
		d := days
		status, _ := ClassifySchedule(&d)
		r, ok := rank[status]
		if !ok {
			t.Fatalf("days=%d: unexpected status %s", days, status)
		}
		if r < prev {
			t.Fatalf("days=%d: status rank went backwards (%s)", days, status)
		}
		prev = r
	}
}

func TestComplianceFromSchedule(t *testing.T) {
	cases := []struct {
		schedule   ScheduleStatus
		compliance ComplianceStatus
	}{
		{ScheduleStatusOverdue, ComplianceStatusNonCompliant},
		{ScheduleStatusDueSoon, ComplianceStatusNeedsAttention},
		{ScheduleStatusUpcoming, ComplianceStatusNeedsAttention},
		{ScheduleStatusScheduled, ComplianceStatusCompliant},
		{ScheduleStatusUnknown, ComplianceStatusUnknown},
	}
	for _, tc := range cases {
		if got := ComplianceFromSchedule(tc.schedule); got != tc.compliance {
			t.Fatalf("%s: got %s, want %s", tc.schedule, got, tc.compliance)
		}
	}
}
