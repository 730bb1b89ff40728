package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// DeviceType is the root of the device hierarchy
// (DeviceType -> Manufacturer -> DeviceModel -> PMProgram -> Checklist).
type DeviceType struct {
	ID          int            `gorm:"primary_key" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DeviceType) TableName() string {
	return "device_types"
}

type NewDeviceType struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (input *NewDeviceType) validate(ctx context.Context, db *gorm.DB, id int) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "name is required")
	}
	exists, err := liveNameExists[DeviceType](ctx, db, input.Name, id, "")
	if err != nil {
		return err
	}
	if exists {
		return utils.NewDuplicateError("device type", input.Name, "")
	}
	return nil
}

func CreateDeviceType(ctx context.Context, db *gorm.DB, input *NewDeviceType) (*DeviceType, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	deviceType := DeviceType{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&deviceType).Error; err != nil {
		return nil, utils.WrapStoreError("create device type", err)
	}
	return &deviceType, nil
}

func UpdateDeviceType(ctx context.Context, db *gorm.DB, id int, input *NewDeviceType) (*DeviceType, error) {
	if err := input.validate(ctx, db, id); err != nil {
		return nil, err
	}

	deviceType, err := utils.FetchModel[DeviceType](ctx, db, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(deviceType).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update device type", err)
	}
	return deviceType, nil
}

func GetDeviceType(ctx context.Context, db *gorm.DB, id int) (*DeviceType, error) {
	return utils.FetchModel[DeviceType](ctx, db, id)
}

func GetDeviceTypes(ctx context.Context, db *gorm.DB, name *string) ([]*DeviceType, error) {
	var results []*DeviceType
	query := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		query = query.Where("name LIKE ?", "%"+*name+"%")
	}
	err := query.Order("name").Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list device types", err)
	}
	return results, nil
}

func ToggleActiveDeviceType(ctx context.Context, db *gorm.DB, id int, isActive bool) (*DeviceType, error) {
	return ToggleActiveModel[DeviceType](ctx, db, id, isActive)
}

// ArchiveDeviceType soft-deletes the type. Refused while live manufacturers
// still hang off it.
func ArchiveDeviceType(ctx context.Context, db *gorm.DB, id int) error {
	deviceType, err := utils.FetchModel[DeviceType](ctx, db, id)
	if err != nil {
		return err
	}

	refs := []archiveReference{
		{Referer: "manufacturers", Count: func() (int64, error) {
			return utils.CountWhere[Manufacturer](ctx, db, "device_type_id = ?", id)
		}},
	}
	if err := refuseArchiveIfReferenced("device type", id, refs); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(deviceType).Error; err != nil {
		return utils.WrapStoreError("archive device type", err)
	}
	return nil
}
