package models

import (
	"context"
	"fmt"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// FrequencyResolution reports the effective PM frequency for an asset and
// which precedence tier produced it, for audit and explanation. Frequency is
// nil for the legacy-keyword, raw-interval and default tiers.
type FrequencyResolution struct {
	Days      int           `json:"days"`
	Tier      FrequencyTier `json:"tier"`
	Frequency *PMFrequency  `json:"frequency,omitempty"`
}

// ResolveEffectiveFrequency walks the precedence chain:
// admin override, model frequency (device_* chain before equipment_*),
// legacy schedule keyword, raw interval days, then the named 90-day default.
// A tier whose referenced record has been archived counts as absent and
// resolution falls through; real store errors propagate.
func ResolveEffectiveFrequency(ctx context.Context, db *gorm.DB, asset *Asset) (*FrequencyResolution, error) {
	// (a) admin override
	if asset.PMFrequencyOverrideId != nil {
		frequency, err := GetPMFrequency(ctx, db, *asset.PMFrequencyOverrideId)
		if err == nil {
			return &FrequencyResolution{
				Days:      frequency.Days,
				Tier:      FrequencyTierOverride,
				Frequency: frequency,
			}, nil
		}
		if err != utils.ErrorRecordNotFound && !utils.IsNotFoundError(err) {
			return nil, err
		}
	}

	// (b) model frequency: a device model's active PM program wins over the
	// model's own link; the legacy equipment chain comes last
	if asset.DeviceModelId != nil {
		program, err := GetActivePMProgramForModel(ctx, db, *asset.DeviceModelId)
		if err == nil && program.PMFrequency != nil {
			return &FrequencyResolution{
				Days:      program.PMFrequency.Days,
				Tier:      FrequencyTierModel,
				Frequency: program.PMFrequency,
			}, nil
		}
		if err != nil && err != utils.ErrorRecordNotFound {
			return nil, err
		}

		model, err := GetDeviceModel(ctx, db, *asset.DeviceModelId)
		if err == nil && model.PMFrequency != nil {
			return &FrequencyResolution{
				Days:      model.PMFrequency.Days,
				Tier:      FrequencyTierModel,
				Frequency: model.PMFrequency,
			}, nil
		}
		if err != nil && err != utils.ErrorRecordNotFound && !utils.IsNotFoundError(err) {
			return nil, err
		}
	}
	if asset.EquipmentModelId != nil {
		model, err := GetEquipmentModel(ctx, db, *asset.EquipmentModelId)
		if err == nil && model.PMFrequency != nil {
			return &FrequencyResolution{
				Days:      model.PMFrequency.Days,
				Tier:      FrequencyTierModel,
				Frequency: model.PMFrequency,
			}, nil
		}
		if err != nil && err != utils.ErrorRecordNotFound && !utils.IsNotFoundError(err) {
			return nil, err
		}
	}

	// (c) legacy schedule keyword
	if asset.PMScheduleType != nil {
		days, err := IntervalDaysForScheduleType(*asset.PMScheduleType, asset.PMIntervalDays)
		if err != nil {
			// a customDays schedule with no value is bad data, not a reason
			// to fall back
			return nil, err
		}
		return &FrequencyResolution{Days: days, Tier: FrequencyTierScheduleType}, nil
	}

	// (d) raw interval
	if asset.PMIntervalDays != nil {
		if *asset.PMIntervalDays <= 0 {
			return nil, utils.NewValidationError("pm_interval_days",
				fmt.Sprintf("interval must be positive, got %d", *asset.PMIntervalDays))
		}
		return &FrequencyResolution{Days: *asset.PMIntervalDays, Tier: FrequencyTierIntervalDays}, nil
	}

	// (e) documented fallback for legacy assets with nothing configured
	return &FrequencyResolution{Days: DefaultPMIntervalDays, Tier: FrequencyTierDefault}, nil
}

// HierarchyIssue is one broken link found by a completeness check.
type HierarchyIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateHierarchyComplete checks a DeviceType -> Manufacturer ->
// DeviceModel chain and returns every broken link rather than failing fast:
// form callers need the full set.
func ValidateHierarchyComplete(ctx context.Context, db *gorm.DB, typeId, manufacturerId, modelId int) ([]HierarchyIssue, error) {
	var issues []HierarchyIssue

	deviceType, err := utils.FetchModel[DeviceType](ctx, db, typeId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			issues = append(issues, HierarchyIssue{"device_type_id",
				fmt.Sprintf("device type %d not found", typeId)})
			deviceType = nil
		} else {
			return nil, err
		}
	} else if deviceType.IsActive == nil || !*deviceType.IsActive {
		issues = append(issues, HierarchyIssue{"device_type_id",
			fmt.Sprintf("device type %d is inactive", typeId)})
	}

	manufacturer, err := utils.FetchModel[Manufacturer](ctx, db, manufacturerId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			issues = append(issues, HierarchyIssue{"manufacturer_id",
				fmt.Sprintf("manufacturer %d not found", manufacturerId)})
			manufacturer = nil
		} else {
			return nil, err
		}
	} else if deviceType != nil && manufacturer.DeviceTypeId != typeId {
		issues = append(issues, HierarchyIssue{"manufacturer_id",
			fmt.Sprintf("manufacturer %d does not belong to device type %d", manufacturerId, typeId)})
	}

	model, err := utils.FetchModel[DeviceModel](ctx, db, modelId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			issues = append(issues, HierarchyIssue{"device_model_id",
				fmt.Sprintf("device model %d not found", modelId)})
			model = nil
		} else {
			return nil, err
		}
	} else {
		if manufacturer != nil && model.ManufacturerId != manufacturerId {
			issues = append(issues, HierarchyIssue{"device_model_id",
				fmt.Sprintf("device model %d does not belong to manufacturer %d", modelId, manufacturerId)})
		}
		if model.PMFrequencyId <= 0 {
			issues = append(issues, HierarchyIssue{"pm_frequency_id",
				fmt.Sprintf("device model %d has no pm frequency", modelId)})
		} else if _, ferr := utils.FetchModel[PMFrequency](ctx, db, model.PMFrequencyId); ferr == utils.ErrorRecordNotFound {
			issues = append(issues, HierarchyIssue{"pm_frequency_id",
				fmt.Sprintf("pm frequency %d is archived", model.PMFrequencyId)})
		} else if ferr != nil {
			return nil, ferr
		}
	}

	return issues, nil
}

// ValidateEquipmentHierarchyComplete is the legacy-schema counterpart.
func ValidateEquipmentHierarchyComplete(ctx context.Context, db *gorm.DB, typeId, makeId, modelId int) ([]HierarchyIssue, error) {
	var issues []HierarchyIssue

	equipmentType, err := utils.FetchModel[EquipmentType](ctx, db, typeId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			issues = append(issues, HierarchyIssue{"equipment_type_id",
				fmt.Sprintf("equipment type %d not found", typeId)})
			equipmentType = nil
		} else {
			return nil, err
		}
	} else if equipmentType.IsActive == nil || !*equipmentType.IsActive {
		issues = append(issues, HierarchyIssue{"equipment_type_id",
			fmt.Sprintf("equipment type %d is inactive", typeId)})
	}

	equipmentMake, err := utils.FetchModel[EquipmentMake](ctx, db, makeId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			issues = append(issues, HierarchyIssue{"equipment_make_id",
				fmt.Sprintf("equipment make %d not found", makeId)})
			equipmentMake = nil
		} else {
			return nil, err
		}
	} else if equipmentType != nil && equipmentMake.EquipmentTypeId != typeId {
		issues = append(issues, HierarchyIssue{"equipment_make_id",
			fmt.Sprintf("equipment make %d does not belong to equipment type %d", makeId, typeId)})
	}

	model, err := utils.FetchModel[EquipmentModel](ctx, db, modelId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			issues = append(issues, HierarchyIssue{"equipment_model_id",
				fmt.Sprintf("equipment model %d not found", modelId)})
			model = nil
		} else {
			return nil, err
		}
	} else {
		if equipmentMake != nil && model.EquipmentMakeId != makeId {
			issues = append(issues, HierarchyIssue{"equipment_model_id",
				fmt.Sprintf("equipment model %d does not belong to equipment make %d", modelId, makeId)})
		}
		if model.PMFrequencyId <= 0 {
			issues = append(issues, HierarchyIssue{"pm_frequency_id",
				fmt.Sprintf("equipment model %d has no pm frequency", modelId)})
		}
	}

	return issues, nil
}
