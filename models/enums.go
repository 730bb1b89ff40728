package models

import (
	"encoding/json"
	"fmt"
)

type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

func (s *AssetStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("asset status must be string")
	}
	switch AssetStatus(str) {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusRetired:
		*s = AssetStatus(str)
	default:
		return fmt.Errorf("invalid asset status %q", str)
	}
	return nil
}

// ComplianceStatus is the persisted state on an asset. The completion
// handler writes compliant; the generator writes non_compliant or
// needs_attention when it opens a work order.
type ComplianceStatus string

const (
	ComplianceStatusUnknown        ComplianceStatus = "unknown"
	ComplianceStatusCompliant      ComplianceStatus = "compliant"
	ComplianceStatusNeedsAttention ComplianceStatus = "needs_attention"
	ComplianceStatusNonCompliant   ComplianceStatus = "non_compliant"
)

// ScheduleStatus is the derived classification of how close an asset is to
// its next PM due date. It is never persisted, only computed.
type ScheduleStatus string

const (
	ScheduleStatusUnknown   ScheduleStatus = "unknown"
	ScheduleStatusOverdue   ScheduleStatus = "overdue"
	ScheduleStatusDueSoon   ScheduleStatus = "due_soon"
	ScheduleStatusUpcoming  ScheduleStatus = "upcoming"
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
)

type WorkOrderStatus string

const (
	WorkOrderStatusOpen       WorkOrderStatus = "open"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

func (s *WorkOrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("work order status must be string")
	}
	switch WorkOrderStatus(str) {
	case WorkOrderStatusOpen, WorkOrderStatusInProgress, WorkOrderStatusCompleted, WorkOrderStatusCancelled:
		*s = WorkOrderStatus(str)
	default:
		return fmt.Errorf("invalid work order status %q", str)
	}
	return nil
}

type WorkOrderPriority string

const (
	WorkOrderPriorityLow      WorkOrderPriority = "low"
	WorkOrderPriorityMedium   WorkOrderPriority = "medium"
	WorkOrderPriorityHigh     WorkOrderPriority = "high"
	WorkOrderPriorityCritical WorkOrderPriority = "critical"
)

func (p *WorkOrderPriority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("work order priority must be string")
	}
	switch WorkOrderPriority(str) {
	case WorkOrderPriorityLow, WorkOrderPriorityMedium, WorkOrderPriorityHigh, WorkOrderPriorityCritical:
		*p = WorkOrderPriority(str)
	default:
		return fmt.Errorf("invalid work order priority %q", str)
	}
	return nil
}

// PMScheduleType is the legacy per-asset schedule keyword kept for assets
// created before the model hierarchy existed.
type PMScheduleType string

const (
	PMScheduleTypeDaily        PMScheduleType = "daily"
	PMScheduleTypeWeekly       PMScheduleType = "weekly"
	PMScheduleTypeBiweekly     PMScheduleType = "biweekly"
	PMScheduleTypeMonthly      PMScheduleType = "monthly"
	PMScheduleTypeQuarterly    PMScheduleType = "quarterly"
	PMScheduleTypeSemiannually PMScheduleType = "semiannually"
	PMScheduleTypeAnnually     PMScheduleType = "annually"
	PMScheduleTypeCustomDays   PMScheduleType = "customDays"
)

func (s *PMScheduleType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("pm schedule type must be string")
	}
	switch PMScheduleType(str) {
	case PMScheduleTypeDaily, PMScheduleTypeWeekly, PMScheduleTypeBiweekly,
		PMScheduleTypeMonthly, PMScheduleTypeQuarterly, PMScheduleTypeSemiannually,
		PMScheduleTypeAnnually, PMScheduleTypeCustomDays:
		*s = PMScheduleType(str)
	default:
		return fmt.Errorf("invalid pm schedule type %q", str)
	}
	return nil
}

type ChecklistItemType string

const (
	ChecklistItemTypeCheckbox ChecklistItemType = "checkbox"
	ChecklistItemTypeNumeric  ChecklistItemType = "numeric"
	ChecklistItemTypeText     ChecklistItemType = "text"
)

func (t *ChecklistItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("checklist item type must be string")
	}
	switch ChecklistItemType(str) {
	case ChecklistItemTypeCheckbox, ChecklistItemTypeNumeric, ChecklistItemTypeText:
		*t = ChecklistItemType(str)
	default:
		return fmt.Errorf("invalid checklist item type %q", str)
	}
	return nil
}

// FrequencyTier records which tier of the precedence chain produced an
// asset's effective PM frequency, for audit and explanation.
type FrequencyTier string

const (
	FrequencyTierOverride     FrequencyTier = "override"
	FrequencyTierModel        FrequencyTier = "model"
	FrequencyTierScheduleType FrequencyTier = "schedule_type"
	FrequencyTierIntervalDays FrequencyTier = "interval_days"
	FrequencyTierDefault      FrequencyTier = "default"
)

type MaintenanceType string

const (
	MaintenanceTypePreventive MaintenanceType = "preventive"
	MaintenanceTypeCorrective MaintenanceType = "corrective"
)
