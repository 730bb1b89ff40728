package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// DeviceModel is the leaf of the hierarchy an asset links to. A valid model
// always carries a PM frequency; the asset-level fallback chain exists only
// for legacy assets that never got a model.
type DeviceModel struct {
	ID                    int            `gorm:"primary_key" json:"id"`
	Name                  string         `gorm:"size:100;not null" json:"name" binding:"required"`
	ManufacturerId        int            `gorm:"index;not null" json:"manufacturer_id" binding:"required"`
	PMFrequencyId         int            `gorm:"index;not null" json:"pm_frequency_id" binding:"required"`
	DepreciationProfileId *int           `json:"depreciation_profile_id"`
	IsActive              *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	PMFrequency *PMFrequency `gorm:"foreignKey:PMFrequencyId" json:"pm_frequency,omitempty"`
}

func (DeviceModel) TableName() string {
	return "device_models"
}

type NewDeviceModel struct {
	Name                  string `json:"name" binding:"required"`
	ManufacturerId        int    `json:"manufacturer_id" binding:"required"`
	PMFrequencyId         int    `json:"pm_frequency_id" binding:"required"`
	DepreciationProfileId *int   `json:"depreciation_profile_id"`
}

func (input *NewDeviceModel) validate(ctx context.Context, db *gorm.DB, id int) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "name is required")
	}
	if input.ManufacturerId <= 0 {
		return utils.NewValidationError("manufacturer_id", "manufacturer is required")
	}
	// Deliberately stricter than the asset-level fallback chain: a model is
	// never created without a frequency.
	if input.PMFrequencyId <= 0 {
		return utils.NewValidationError("pm_frequency_id", "pm frequency is required")
	}

	manufacturer, err := utils.FetchModel[Manufacturer](ctx, db, input.ManufacturerId)
	if err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return utils.NewNotFoundError("manufacturer", input.ManufacturerId)
		}
		return err
	}
	if manufacturer.IsActive == nil || !*manufacturer.IsActive {
		return utils.NewNotFoundError("manufacturer", input.ManufacturerId)
	}

	if _, err := utils.FetchModel[PMFrequency](ctx, db, input.PMFrequencyId); err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return utils.NewNotFoundError("pm frequency", input.PMFrequencyId)
		}
		return err
	}

	if input.DepreciationProfileId != nil {
		if _, err := utils.FetchModel[DepreciationProfile](ctx, db, *input.DepreciationProfileId); err != nil {
			if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
				return utils.NewNotFoundError("depreciation profile", *input.DepreciationProfileId)
			}
			return err
		}
	}

	exists, err := liveNameExists[DeviceModel](ctx, db, input.Name, id,
		"manufacturer_id = ?", input.ManufacturerId)
	if err != nil {
		return err
	}
	if exists {
		return utils.NewDuplicateError("device model", input.Name, manufacturer.Name)
	}
	return nil
}

func CreateDeviceModel(ctx context.Context, db *gorm.DB, input *NewDeviceModel) (*DeviceModel, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	model := DeviceModel{
		Name:                  input.Name,
		ManufacturerId:        input.ManufacturerId,
		PMFrequencyId:         input.PMFrequencyId,
		DepreciationProfileId: input.DepreciationProfileId,
		IsActive:              utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, utils.WrapStoreError("create device model", err)
	}
	return &model, nil
}

func UpdateDeviceModel(ctx context.Context, db *gorm.DB, id int, input *NewDeviceModel) (*DeviceModel, error) {
	if err := input.validate(ctx, db, id); err != nil {
		return nil, err
	}

	model, err := utils.FetchModel[DeviceModel](ctx, db, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(model).Updates(map[string]interface{}{
		"Name":                  input.Name,
		"ManufacturerId":        input.ManufacturerId,
		"PMFrequencyId":         input.PMFrequencyId,
		"DepreciationProfileId": input.DepreciationProfileId,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update device model", err)
	}
	return model, nil
}

func GetDeviceModel(ctx context.Context, db *gorm.DB, id int) (*DeviceModel, error) {
	return utils.FetchModel[DeviceModel](ctx, db, id, "PMFrequency")
}

func GetDeviceModels(ctx context.Context, db *gorm.DB, manufacturerId *int) ([]*DeviceModel, error) {
	var results []*DeviceModel
	query := db.WithContext(ctx).Preload("PMFrequency")
	if manufacturerId != nil && *manufacturerId > 0 {
		query = query.Where("manufacturer_id = ?", *manufacturerId)
	}
	err := query.Order("name").Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list device models", err)
	}
	return results, nil
}

func ToggleActiveDeviceModel(ctx context.Context, db *gorm.DB, id int, isActive bool) (*DeviceModel, error) {
	return ToggleActiveModel[DeviceModel](ctx, db, id, isActive)
}

func ArchiveDeviceModel(ctx context.Context, db *gorm.DB, id int) error {
	model, err := utils.FetchModel[DeviceModel](ctx, db, id)
	if err != nil {
		return err
	}

	refs := []archiveReference{
		{Referer: "assets", Count: func() (int64, error) {
			return utils.CountWhere[Asset](ctx, db, "device_model_id = ?", id)
		}},
		{Referer: "pm programs", Count: func() (int64, error) {
			return utils.CountWhere[PMProgram](ctx, db, "device_model_id = ?", id)
		}},
	}
	if err := refuseArchiveIfReferenced("device model", id, refs); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(model).Error; err != nil {
		return utils.WrapStoreError("archive device model", err)
	}
	return nil
}
