package models

// Window thresholds for classifying a schedule. Several call sites (the
// classifier, the generator's look-ahead, the compliance report) must agree
// on these, so they are named here and nowhere else.
const (
	// DueSoonWindowDays is the inclusive upper bound for "due soon", and
	// also the generator's candidate look-ahead window.
	DueSoonWindowDays = 7
	// UpcomingWindowDays is the inclusive upper bound for "upcoming".
	UpcomingWindowDays = 30
)

// ComplianceFromSchedule maps the derived schedule status onto the persisted
// asset compliance state. Used by manual schedule edits and the backfill cmd;
// the generator and completion handler write their own transitions.
func ComplianceFromSchedule(status ScheduleStatus) ComplianceStatus {
	switch status {
	case ScheduleStatusOverdue:
		return ComplianceStatusNonCompliant
	case ScheduleStatusDueSoon, ScheduleStatusUpcoming:
		return ComplianceStatusNeedsAttention
	case ScheduleStatusScheduled:
		return ComplianceStatusCompliant
	default:
		return ComplianceStatusUnknown
	}
}

// ClassifySchedule maps days-until-next-maintenance to a display status and
// the priority a work order generated for it would carry. A nil input means
// the asset has no schedule at all.
func ClassifySchedule(daysUntil *int) (ScheduleStatus, WorkOrderPriority) {
	if daysUntil == nil {
		return ScheduleStatusUnknown, ""
	}
	d := *daysUntil
	switch {
	case d < 0:
		return ScheduleStatusOverdue, WorkOrderPriorityCritical
	case d <= DueSoonWindowDays:
		return ScheduleStatusDueSoon, WorkOrderPriorityHigh
	case d <= UpcomingWindowDays:
		return ScheduleStatusUpcoming, WorkOrderPriorityMedium
	default:
		return ScheduleStatusScheduled, WorkOrderPriorityLow
	}
}
