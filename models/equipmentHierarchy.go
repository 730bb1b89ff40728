package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// Legacy hierarchy schema (equipment_types / equipment_makes /
// equipment_models). It predates the device_* schema and a number of older
// assets still link into it, so both schemas stay live. Call sites disagree
// on which is canonical; the resolver consults device_* first.

type EquipmentType struct {
	ID        int            `gorm:"primary_key" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name" binding:"required"`
	IsActive  *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EquipmentType) TableName() string {
	return "equipment_types"
}

type EquipmentMake struct {
	ID              int            `gorm:"primary_key" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name" binding:"required"`
	EquipmentTypeId int            `gorm:"index;not null" json:"equipment_type_id" binding:"required"`
	IsActive        *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EquipmentMake) TableName() string {
	return "equipment_makes"
}

type EquipmentModel struct {
	ID              int            `gorm:"primary_key" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name" binding:"required"`
	EquipmentMakeId int            `gorm:"index;not null" json:"equipment_make_id" binding:"required"`
	PMFrequencyId   int            `gorm:"index;not null" json:"pm_frequency_id" binding:"required"`
	IsActive        *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	PMFrequency *PMFrequency `gorm:"foreignKey:PMFrequencyId" json:"pm_frequency,omitempty"`
}

func (EquipmentModel) TableName() string {
	return "equipment_models"
}

// quick-add flows: name-only inputs, same duplicate/missing rules as the
// device_* validators.

func QuickAddEquipmentType(ctx context.Context, db *gorm.DB, name string) (*EquipmentType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}
	exists, err := liveNameExists[EquipmentType](ctx, db, name, 0, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.NewDuplicateError("equipment type", name, "")
	}

	result := EquipmentType{Name: name, IsActive: utils.NewTrue()}
	if err := db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, utils.WrapStoreError("create equipment type", err)
	}
	return &result, nil
}

func QuickAddEquipmentMake(ctx context.Context, db *gorm.DB, name string, equipmentTypeId int) (*EquipmentMake, error) {
	if strings.TrimSpace(name) == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}
	if equipmentTypeId <= 0 {
		return nil, utils.NewValidationError("equipment_type_id", "equipment type is required")
	}

	equipmentType, err := utils.FetchModel[EquipmentType](ctx, db, equipmentTypeId)
	if err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("equipment type", equipmentTypeId)
		}
		return nil, err
	}
	if equipmentType.IsActive == nil || !*equipmentType.IsActive {
		return nil, utils.NewNotFoundError("equipment type", equipmentTypeId)
	}

	exists, err := liveNameExists[EquipmentMake](ctx, db, name, 0,
		"equipment_type_id = ?", equipmentTypeId)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.NewDuplicateError("equipment make", name, equipmentType.Name)
	}

	result := EquipmentMake{Name: name, EquipmentTypeId: equipmentTypeId, IsActive: utils.NewTrue()}
	if err := db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, utils.WrapStoreError("create equipment make", err)
	}
	return &result, nil
}

func QuickAddEquipmentModel(ctx context.Context, db *gorm.DB, name string, equipmentMakeId int, pmFrequencyId int) (*EquipmentModel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}
	if equipmentMakeId <= 0 {
		return nil, utils.NewValidationError("equipment_make_id", "equipment make is required")
	}
	// mandatory here too, same as the device_* schema
	if pmFrequencyId <= 0 {
		return nil, utils.NewValidationError("pm_frequency_id", "pm frequency is required")
	}

	equipmentMake, err := utils.FetchModel[EquipmentMake](ctx, db, equipmentMakeId)
	if err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("equipment make", equipmentMakeId)
		}
		return nil, err
	}
	if equipmentMake.IsActive == nil || !*equipmentMake.IsActive {
		return nil, utils.NewNotFoundError("equipment make", equipmentMakeId)
	}

	if _, err := utils.FetchModel[PMFrequency](ctx, db, pmFrequencyId); err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("pm frequency", pmFrequencyId)
		}
		return nil, err
	}

	exists, err := liveNameExists[EquipmentModel](ctx, db, name, 0,
		"equipment_make_id = ?", equipmentMakeId)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.NewDuplicateError("equipment model", name, equipmentMake.Name)
	}

	result := EquipmentModel{
		Name:            name,
		EquipmentMakeId: equipmentMakeId,
		PMFrequencyId:   pmFrequencyId,
		IsActive:        utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, utils.WrapStoreError("create equipment model", err)
	}
	return &result, nil
}

func GetEquipmentModel(ctx context.Context, db *gorm.DB, id int) (*EquipmentModel, error) {
	return utils.FetchModel[EquipmentModel](ctx, db, id, "PMFrequency")
}

func ArchiveEquipmentMake(ctx context.Context, db *gorm.DB, id int) error {
	equipmentMake, err := utils.FetchModel[EquipmentMake](ctx, db, id)
	if err != nil {
		return err
	}

	refs := []archiveReference{
		{Referer: "equipment models", Count: func() (int64, error) {
			return utils.CountWhere[EquipmentModel](ctx, db, "equipment_make_id = ?", id)
		}},
	}
	if err := refuseArchiveIfReferenced("equipment make", id, refs); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(equipmentMake).Error; err != nil {
		return utils.WrapStoreError("archive equipment make", err)
	}
	return nil
}

func ArchiveEquipmentModel(ctx context.Context, db *gorm.DB, id int) error {
	model, err := utils.FetchModel[EquipmentModel](ctx, db, id)
	if err != nil {
		return err
	}

	refs := []archiveReference{
		{Referer: "assets", Count: func() (int64, error) {
			return utils.CountWhere[Asset](ctx, db, "equipment_model_id = ?", id)
		}},
	}
	if err := refuseArchiveIfReferenced("equipment model", id, refs); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(model).Error; err != nil {
		return utils.WrapStoreError("archive equipment model", err)
	}
	return nil
}
