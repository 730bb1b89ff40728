package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Asset is a tracked piece of equipment. next_maintenance and
// compliance_status are cached derivations: they are recomputed whenever
// last_maintenance or the effective frequency changes, written only by the
// completion handler and the manual-edit paths. The generator reads them and
// never recomputes.
type Asset struct {
	ID           int         `gorm:"primary_key" json:"id"`
	Tag          string      `gorm:"size:30;uniqueIndex;not null" json:"tag"`
	Name         string      `gorm:"size:200;not null" json:"name" binding:"required"`
	SerialNumber string      `gorm:"size:100" json:"serial_number"`
	Location     string      `gorm:"size:200" json:"location"`
	Status       AssetStatus `gorm:"size:20;not null;default:active" json:"status"`

	// hierarchy links; both nil for legacy free-form assets
	DeviceModelId    *int `gorm:"index" json:"device_model_id"`
	EquipmentModelId *int `gorm:"index" json:"equipment_model_id"`

	LastMaintenance *time.Time `json:"last_maintenance"`
	NextMaintenance *time.Time `gorm:"index" json:"next_maintenance"`

	// legacy fallback schedule fields
	PMScheduleType *PMScheduleType `gorm:"size:20" json:"pm_schedule_type"`
	PMIntervalDays *int            `json:"pm_interval_days"`

	// admin override, highest precedence tier; reason is mandatory
	PMFrequencyOverrideId     *int   `gorm:"index" json:"pm_frequency_override_id"`
	PMFrequencyOverrideReason string `gorm:"size:500" json:"pm_frequency_override_reason"`

	AutoGenerateWO   *bool            `gorm:"not null;default:true" json:"auto_generate_wo"`
	ComplianceStatus ComplianceStatus `gorm:"size:20;not null;default:unknown" json:"compliance_status"`

	PurchaseCost          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_cost"`
	PurchaseDate          *time.Time      `json:"purchase_date"`
	DepreciationProfileId *int            `json:"depreciation_profile_id"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	DeviceModel    *DeviceModel    `gorm:"foreignKey:DeviceModelId" json:"device_model,omitempty"`
	EquipmentModel *EquipmentModel `gorm:"foreignKey:EquipmentModelId" json:"equipment_model,omitempty"`
}

func (Asset) TableName() string {
	return "assets"
}

type NewAsset struct {
	Tag              string          `json:"tag"`
	Name             string          `json:"name" binding:"required"`
	SerialNumber     string          `json:"serial_number"`
	Location         string          `json:"location"`
	DeviceModelId    *int            `json:"device_model_id"`
	EquipmentModelId *int            `json:"equipment_model_id"`
	LastMaintenance  *time.Time      `json:"last_maintenance"`
	PMScheduleType   *PMScheduleType `json:"pm_schedule_type"`
	PMIntervalDays   *int            `json:"pm_interval_days"`
	AutoGenerateWO   *bool           `json:"auto_generate_wo"`
	PurchaseCost     decimal.Decimal `json:"purchase_cost"`
	PurchaseDate     *time.Time      `json:"purchase_date"`
}

func (input *NewAsset) validate(ctx context.Context, db *gorm.DB) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "name is required")
	}
	if input.DeviceModelId != nil {
		if _, err := utils.FetchModel[DeviceModel](ctx, db, *input.DeviceModelId); err != nil {
			if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
				return utils.NewNotFoundError("device model", *input.DeviceModelId)
			}
			return err
		}
	}
	if input.EquipmentModelId != nil {
		if _, err := utils.FetchModel[EquipmentModel](ctx, db, *input.EquipmentModelId); err != nil {
			if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
				return utils.NewNotFoundError("equipment model", *input.EquipmentModelId)
			}
			return err
		}
	}
	// customDays without a value must fail at input time, not at resolution
	if input.PMScheduleType != nil {
		if _, err := IntervalDaysForScheduleType(*input.PMScheduleType, input.PMIntervalDays); err != nil {
			return err
		}
	}
	return nil
}

func CreateAsset(ctx context.Context, db *gorm.DB, input *NewAsset) (*Asset, error) {
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	tag := input.Tag
	if strings.TrimSpace(tag) == "" {
		tag = utils.GenerateAssetTag()
	}
	autoGenerate := input.AutoGenerateWO
	if autoGenerate == nil {
		autoGenerate = utils.NewTrue()
	}

	asset := Asset{
		Tag:              tag,
		Name:             input.Name,
		SerialNumber:     input.SerialNumber,
		Location:         input.Location,
		Status:           AssetStatusActive,
		DeviceModelId:    input.DeviceModelId,
		EquipmentModelId: input.EquipmentModelId,
		LastMaintenance:  input.LastMaintenance,
		PMScheduleType:   input.PMScheduleType,
		PMIntervalDays:   input.PMIntervalDays,
		AutoGenerateWO:   autoGenerate,
		ComplianceStatus: ComplianceStatusUnknown,
		PurchaseCost:     input.PurchaseCost,
		PurchaseDate:     input.PurchaseDate,
	}
	if err := db.WithContext(ctx).Create(&asset).Error; err != nil {
		return nil, utils.WrapStoreError("create asset", err)
	}

	if err := RecomputeAssetSchedule(ctx, db, &asset, time.Now()); err != nil {
		return nil, err
	}
	return &asset, nil
}

// AssetScheduleEdit is the manual-edit path for schedule fields. Any edit
// recomputes next_maintenance and compliance_status.
type AssetScheduleEdit struct {
	LastMaintenance *time.Time      `json:"last_maintenance"`
	PMScheduleType  *PMScheduleType `json:"pm_schedule_type"`
	PMIntervalDays  *int            `json:"pm_interval_days"`
	AutoGenerateWO  *bool           `json:"auto_generate_wo"`
	DeviceModelId   *int            `json:"device_model_id"`
}

func UpdateAssetSchedule(ctx context.Context, db *gorm.DB, id int, edit *AssetScheduleEdit) (*Asset, error) {
	asset, err := utils.FetchModel[Asset](ctx, db, id)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("asset", id)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if edit.LastMaintenance != nil {
		updates["LastMaintenance"] = *edit.LastMaintenance
		asset.LastMaintenance = edit.LastMaintenance
	}
	if edit.PMScheduleType != nil {
		if _, err := IntervalDaysForScheduleType(*edit.PMScheduleType, edit.PMIntervalDays); err != nil {
			return nil, err
		}
		updates["PMScheduleType"] = *edit.PMScheduleType
		asset.PMScheduleType = edit.PMScheduleType
	}
	if edit.PMIntervalDays != nil {
		if *edit.PMIntervalDays <= 0 {
			return nil, utils.NewValidationError("pm_interval_days", "interval must be positive")
		}
		updates["PMIntervalDays"] = *edit.PMIntervalDays
		asset.PMIntervalDays = edit.PMIntervalDays
	}
	if edit.AutoGenerateWO != nil {
		updates["AutoGenerateWO"] = *edit.AutoGenerateWO
		asset.AutoGenerateWO = edit.AutoGenerateWO
	}
	if edit.DeviceModelId != nil {
		if _, err := utils.FetchModel[DeviceModel](ctx, db, *edit.DeviceModelId); err != nil {
			if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
				return nil, utils.NewNotFoundError("device model", *edit.DeviceModelId)
			}
			return nil, err
		}
		updates["DeviceModelId"] = *edit.DeviceModelId
		asset.DeviceModelId = edit.DeviceModelId
	}

	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(asset).Updates(updates).Error; err != nil {
			return nil, utils.WrapStoreError("update asset schedule", err)
		}
	}

	if err := RecomputeAssetSchedule(ctx, db, asset, time.Now()); err != nil {
		return nil, err
	}
	return asset, nil
}

// SetPMFrequencyOverride applies the admin override tier. The role check
// lives here, not in the request layer, so no caller can bypass it.
func SetPMFrequencyOverride(ctx context.Context, db *gorm.DB, id int, frequencyId int, reason string) (*Asset, error) {
	if !utils.CanOverridePMFrequency(ctx) {
		return nil, utils.ErrorOverrideNotPermitted
	}
	if strings.TrimSpace(reason) == "" {
		return nil, utils.NewValidationError("reason", "override reason is required")
	}

	asset, err := utils.FetchModel[Asset](ctx, db, id)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("asset", id)
		}
		return nil, err
	}
	frequency, err := GetPMFrequency(ctx, db, frequencyId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("pm frequency", frequencyId)
		}
		return nil, err
	}

	err = db.WithContext(ctx).Model(asset).Updates(map[string]interface{}{
		"PMFrequencyOverrideId":     frequency.ID,
		"PMFrequencyOverrideReason": reason,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("set pm frequency override", err)
	}
	asset.PMFrequencyOverrideId = &frequency.ID
	asset.PMFrequencyOverrideReason = reason

	if err := RecomputeAssetSchedule(ctx, db, asset, time.Now()); err != nil {
		return nil, err
	}
	return asset, nil
}

func ClearPMFrequencyOverride(ctx context.Context, db *gorm.DB, id int) (*Asset, error) {
	if !utils.CanOverridePMFrequency(ctx) {
		return nil, utils.ErrorOverrideNotPermitted
	}

	asset, err := utils.FetchModel[Asset](ctx, db, id)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("asset", id)
		}
		return nil, err
	}

	err = db.WithContext(ctx).Model(asset).Updates(map[string]interface{}{
		"PMFrequencyOverrideId":     nil,
		"PMFrequencyOverrideReason": "",
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("clear pm frequency override", err)
	}
	asset.PMFrequencyOverrideId = nil
	asset.PMFrequencyOverrideReason = ""

	if err := RecomputeAssetSchedule(ctx, db, asset, time.Now()); err != nil {
		return nil, err
	}
	return asset, nil
}

// RecomputeAssetSchedule re-derives next_maintenance and compliance_status
// from last_maintenance and the effective frequency, and persists both.
func RecomputeAssetSchedule(ctx context.Context, db *gorm.DB, asset *Asset, now time.Time) error {
	resolution, err := ResolveEffectiveFrequency(ctx, db, asset)
	if err != nil {
		return err
	}

	next, err := NextMaintenanceDate(asset.LastMaintenance, resolution.Days, now)
	if err != nil {
		return err
	}
	scheduleStatus, _ := ClassifySchedule(DaysUntil(&next, now))
	compliance := ComplianceFromSchedule(scheduleStatus)

	err = db.WithContext(ctx).Model(asset).Updates(map[string]interface{}{
		"NextMaintenance":  next,
		"ComplianceStatus": compliance,
	}).Error
	if err != nil {
		return utils.WrapStoreError("recompute asset schedule", err)
	}
	asset.NextMaintenance = &next
	asset.ComplianceStatus = compliance
	return nil
}

func GetAsset(ctx context.Context, db *gorm.DB, id int) (*Asset, error) {
	asset, err := utils.FetchModel[Asset](ctx, db, id, "DeviceModel", "EquipmentModel")
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("asset", id)
		}
		return nil, err
	}
	return asset, nil
}

func GetAssets(ctx context.Context, db *gorm.DB, status *AssetStatus) ([]*Asset, error) {
	var results []*Asset
	query := db.WithContext(ctx)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("tag").Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list assets", err)
	}
	return results, nil
}

func RetireAsset(ctx context.Context, db *gorm.DB, id int) (*Asset, error) {
	asset, err := utils.FetchModel[Asset](ctx, db, id)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("asset", id)
		}
		return nil, err
	}
	err = db.WithContext(ctx).Model(asset).Update("status", AssetStatusRetired).Error
	if err != nil {
		return nil, utils.WrapStoreError("retire asset", err)
	}
	asset.Status = AssetStatusRetired
	return asset, nil
}
