package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// WorkOrderType is configured reference data. Work-order generation probes
// for a PM code and refuses to invent one when the table is missing both.
type WorkOrderType struct {
	ID        int            `gorm:"primary_key" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name" binding:"required"`
	Code      string         `gorm:"size:50;uniqueIndex;not null" json:"code" binding:"required"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WorkOrderType) TableName() string {
	return "work_order_types"
}

// PMWorkOrderTypeCodes is the probe order for the preventive-maintenance
// type code, highest preference first.
var PMWorkOrderTypeCodes = []string{"PM", "preventive_maintenance"}

func IsPMWorkOrderTypeCode(code string) bool {
	for _, c := range PMWorkOrderTypeCodes {
		if c == code {
			return true
		}
	}
	return false
}

type NewWorkOrderType struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

func CreateWorkOrderType(ctx context.Context, db *gorm.DB, input *NewWorkOrderType) (*WorkOrderType, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(input.Code) == "" {
		return nil, utils.NewValidationError("code", "code is required")
	}

	var count int64
	err := db.WithContext(ctx).Model(&WorkOrderType{}).
		Where("code = ?", input.Code).Count(&count).Error
	if err != nil {
		return nil, utils.WrapStoreError("duplicate check", err)
	}
	if count > 0 {
		return nil, utils.NewDuplicateError("work order type", input.Code, "")
	}

	workOrderType := WorkOrderType{Name: input.Name, Code: input.Code}
	if err := db.WithContext(ctx).Create(&workOrderType).Error; err != nil {
		return nil, utils.WrapStoreError("create work order type", err)
	}

	utils.InvalidateCache[WorkOrderType](workOrderType.ID)
	return &workOrderType, nil
}

func GetWorkOrderTypes(ctx context.Context, db *gorm.DB) ([]*WorkOrderType, error) {
	var cached []*WorkOrderType
	if found, err := utils.GetCacheList[WorkOrderType](&cached); err == nil && found {
		return cached, nil
	}

	var results []*WorkOrderType
	err := db.WithContext(ctx).Order("name").Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list work order types", err)
	}
	utils.StoreCacheList[WorkOrderType](results)
	return results, nil
}

// ResolvePMWorkOrderType probes for the configured PM type, "PM" first then
// "preventive_maintenance". When neither exists generation for the asset
// fails with a ConfigurationError; the type is never invented.
func ResolvePMWorkOrderType(ctx context.Context, db *gorm.DB) (*WorkOrderType, error) {
	types, err := GetWorkOrderTypes(ctx, db)
	if err != nil {
		return nil, err
	}
	for _, code := range PMWorkOrderTypeCodes {
		for _, t := range types {
			if t.Code == code {
				return t, nil
			}
		}
	}
	return nil, utils.NewConfigurationError(
		"no PM work order type configured (expected code PM or preventive_maintenance)")
}
