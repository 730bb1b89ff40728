package models

import (
	"context"
	"fmt"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// PMProgram binds a device model to the frequency its checklist runs on.
// At most one active program exists per model.
type PMProgram struct {
	ID            int            `gorm:"primary_key" json:"id"`
	DeviceModelId int            `gorm:"index;not null" json:"device_model_id" binding:"required"`
	PMFrequencyId int            `gorm:"index;not null" json:"pm_frequency_id" binding:"required"`
	Name          string         `gorm:"size:100" json:"name"`
	IsActive      *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	PMFrequency *PMFrequency `gorm:"foreignKey:PMFrequencyId" json:"pm_frequency,omitempty"`
}

func (PMProgram) TableName() string {
	return "pm_programs"
}

type NewPMProgram struct {
	DeviceModelId int    `json:"device_model_id" binding:"required"`
	PMFrequencyId int    `json:"pm_frequency_id" binding:"required"`
	Name          string `json:"name"`
}

func (input *NewPMProgram) validate(ctx context.Context, db *gorm.DB, id int) error {
	if input.DeviceModelId <= 0 {
		return utils.NewValidationError("device_model_id", "device model is required")
	}
	if input.PMFrequencyId <= 0 {
		return utils.NewValidationError("pm_frequency_id", "pm frequency is required")
	}

	if _, err := utils.FetchModel[DeviceModel](ctx, db, input.DeviceModelId); err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return utils.NewNotFoundError("device model", input.DeviceModelId)
		}
		return err
	}
	if _, err := utils.FetchModel[PMFrequency](ctx, db, input.PMFrequencyId); err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return utils.NewNotFoundError("pm frequency", input.PMFrequencyId)
		}
		return err
	}

	// one active program per model
	query := db.WithContext(ctx).Model(&PMProgram{}).
		Where("device_model_id = ? AND is_active = ?", input.DeviceModelId, true)
	if id > 0 {
		query = query.Where("id <> ?", id)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return utils.WrapStoreError("duplicate check", err)
	}
	if count > 0 {
		return utils.NewDuplicateError("pm program",
			fmt.Sprintf("for device model %d", input.DeviceModelId), "")
	}
	return nil
}

func CreatePMProgram(ctx context.Context, db *gorm.DB, input *NewPMProgram) (*PMProgram, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	program := PMProgram{
		DeviceModelId: input.DeviceModelId,
		PMFrequencyId: input.PMFrequencyId,
		Name:          input.Name,
		IsActive:      utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&program).Error; err != nil {
		return nil, utils.WrapStoreError("create pm program", err)
	}
	return &program, nil
}

func UpdatePMProgram(ctx context.Context, db *gorm.DB, id int, input *NewPMProgram) (*PMProgram, error) {
	if err := input.validate(ctx, db, id); err != nil {
		return nil, err
	}

	program, err := utils.FetchModel[PMProgram](ctx, db, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(program).Updates(map[string]interface{}{
		"DeviceModelId": input.DeviceModelId,
		"PMFrequencyId": input.PMFrequencyId,
		"Name":          input.Name,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update pm program", err)
	}
	return program, nil
}

func GetPMProgram(ctx context.Context, db *gorm.DB, id int) (*PMProgram, error) {
	return utils.FetchModel[PMProgram](ctx, db, id, "PMFrequency")
}

// GetActivePMProgramForModel returns the model's single active program, or
// RecordNotFound when none exists.
func GetActivePMProgramForModel(ctx context.Context, db *gorm.DB, deviceModelId int) (*PMProgram, error) {
	var program PMProgram
	err := db.WithContext(ctx).Preload("PMFrequency").
		Where("device_model_id = ? AND is_active = ?", deviceModelId, true).
		First(&program).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, utils.WrapStoreError("fetch pm program", err)
	}
	return &program, nil
}

func ToggleActivePMProgram(ctx context.Context, db *gorm.DB, id int, isActive bool) (*PMProgram, error) {
	if isActive {
		program, err := utils.FetchModel[PMProgram](ctx, db, id)
		if err != nil {
			return nil, err
		}
		// re-activating must not break the one-active-per-model rule
		count, err := utils.CountWhere[PMProgram](ctx, db,
			"device_model_id = ? AND is_active = ? AND id <> ?", program.DeviceModelId, true, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewDuplicateError("pm program",
				fmt.Sprintf("for device model %d", program.DeviceModelId), "")
		}
	}
	return ToggleActiveModel[PMProgram](ctx, db, id, isActive)
}

func ArchivePMProgram(ctx context.Context, db *gorm.DB, id int) error {
	program, err := utils.FetchModel[PMProgram](ctx, db, id)
	if err != nil {
		return err
	}

	refs := []archiveReference{
		{Referer: "pm checklists", Count: func() (int64, error) {
			return utils.CountWhere[PMChecklist](ctx, db, "pm_program_id = ?", id)
		}},
	}
	if err := refuseArchiveIfReferenced("pm program", id, refs); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(program).Error; err != nil {
		return utils.WrapStoreError("archive pm program", err)
	}
	return nil
}
