package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// Manufacturer (the hierarchy's "make"). Name uniqueness is scoped to the
// owning device type: Zoll under Defibrillator and Zoll under Ventilator are
// distinct rows.
type Manufacturer struct {
	ID           int            `gorm:"primary_key" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name" binding:"required"`
	DeviceTypeId int            `gorm:"index;not null" json:"device_type_id" binding:"required"`
	SupportPhone string         `gorm:"size:30" json:"support_phone"`
	SupportEmail string         `gorm:"size:100" json:"support_email"`
	IsActive     *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}

type NewManufacturer struct {
	Name         string `json:"name" binding:"required"`
	DeviceTypeId int    `json:"device_type_id" binding:"required"`
	SupportPhone string `json:"support_phone"`
	SupportEmail string `json:"support_email"`
}

func (input *NewManufacturer) validate(ctx context.Context, db *gorm.DB, id int) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "name is required")
	}
	if input.DeviceTypeId <= 0 {
		return utils.NewValidationError("device_type_id", "device type is required")
	}

	deviceType, err := utils.FetchModel[DeviceType](ctx, db, input.DeviceTypeId)
	if err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return utils.NewNotFoundError("device type", input.DeviceTypeId)
		}
		return err
	}
	if deviceType.IsActive == nil || !*deviceType.IsActive {
		return utils.NewNotFoundError("device type", input.DeviceTypeId)
	}

	exists, err := liveNameExists[Manufacturer](ctx, db, input.Name, id,
		"device_type_id = ?", input.DeviceTypeId)
	if err != nil {
		return err
	}
	if exists {
		return utils.NewDuplicateError("manufacturer", input.Name, deviceType.Name)
	}

	if input.SupportPhone != "" {
		if err := utils.ValidatePhoneNumber(input.SupportPhone, utils.CountryCode); err != nil {
			return utils.NewValidationError("support_phone", err.Error())
		}
	}
	if input.SupportEmail != "" && !utils.IsValidEmail(input.SupportEmail) {
		return utils.NewValidationError("support_email", "invalid email address")
	}
	return nil
}

func CreateManufacturer(ctx context.Context, db *gorm.DB, input *NewManufacturer) (*Manufacturer, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	manufacturer := Manufacturer{
		Name:         input.Name,
		DeviceTypeId: input.DeviceTypeId,
		SupportPhone: input.SupportPhone,
		SupportEmail: input.SupportEmail,
		IsActive:     utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&manufacturer).Error; err != nil {
		return nil, utils.WrapStoreError("create manufacturer", err)
	}
	return &manufacturer, nil
}

func UpdateManufacturer(ctx context.Context, db *gorm.DB, id int, input *NewManufacturer) (*Manufacturer, error) {
	if err := input.validate(ctx, db, id); err != nil {
		return nil, err
	}

	manufacturer, err := utils.FetchModel[Manufacturer](ctx, db, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(manufacturer).Updates(map[string]interface{}{
		"Name":         input.Name,
		"DeviceTypeId": input.DeviceTypeId,
		"SupportPhone": input.SupportPhone,
		"SupportEmail": input.SupportEmail,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update manufacturer", err)
	}
	return manufacturer, nil
}

func GetManufacturer(ctx context.Context, db *gorm.DB, id int) (*Manufacturer, error) {
	return utils.FetchModel[Manufacturer](ctx, db, id)
}

func GetManufacturers(ctx context.Context, db *gorm.DB, deviceTypeId *int) ([]*Manufacturer, error) {
	var results []*Manufacturer
	query := db.WithContext(ctx)
	if deviceTypeId != nil && *deviceTypeId > 0 {
		query = query.Where("device_type_id = ?", *deviceTypeId)
	}
	err := query.Order("name").Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list manufacturers", err)
	}
	return results, nil
}

func ToggleActiveManufacturer(ctx context.Context, db *gorm.DB, id int, isActive bool) (*Manufacturer, error) {
	return ToggleActiveModel[Manufacturer](ctx, db, id, isActive)
}

func ArchiveManufacturer(ctx context.Context, db *gorm.DB, id int) error {
	manufacturer, err := utils.FetchModel[Manufacturer](ctx, db, id)
	if err != nil {
		return err
	}

	refs := []archiveReference{
		{Referer: "device models", Count: func() (int64, error) {
			return utils.CountWhere[DeviceModel](ctx, db, "manufacturer_id = ?", id)
		}},
	}
	if err := refuseArchiveIfReferenced("manufacturer", id, refs); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(manufacturer).Error; err != nil {
		return utils.WrapStoreError("archive manufacturer", err)
	}
	return nil
}
