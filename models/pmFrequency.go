package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// PMFrequency is a named maintenance interval (e.g. "Annual" -> 365 days).
// Edits are allowed even after models reference it, but every edit
// invalidates the cache so callers re-derive schedules.
type PMFrequency struct {
	ID        int            `gorm:"primary_key" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name" binding:"required"`
	Days      int            `gorm:"not null" json:"days" binding:"required,gt=0"`
	IsActive  *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PMFrequency) TableName() string {
	return "pm_frequencies"
}

type NewPMFrequency struct {
	Name string `json:"name" binding:"required"`
	Days int    `json:"days" binding:"required,gt=0"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewPMFrequency) validate(ctx context.Context, db *gorm.DB, id int) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "name is required")
	}
	if input.Days <= 0 {
		return utils.NewValidationError("days",
			fmt.Sprintf("days must be positive, got %d", input.Days))
	}
	exists, err := liveNameExists[PMFrequency](ctx, db, input.Name, id, "")
	if err != nil {
		return err
	}
	if exists {
		return utils.NewDuplicateError("pm frequency", input.Name, "")
	}
	return nil
}

func CreatePMFrequency(ctx context.Context, db *gorm.DB, input *NewPMFrequency) (*PMFrequency, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	frequency := PMFrequency{
		Name:     input.Name,
		Days:     input.Days,
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&frequency).Error; err != nil {
		return nil, utils.WrapStoreError("create pm frequency", err)
	}

	utils.InvalidateCache[PMFrequency](frequency.ID)
	return &frequency, nil
}

func UpdatePMFrequency(ctx context.Context, db *gorm.DB, id int, input *NewPMFrequency) (*PMFrequency, error) {
	if err := input.validate(ctx, db, id); err != nil {
		return nil, err
	}

	frequency, err := utils.FetchModel[PMFrequency](ctx, db, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(frequency).Updates(map[string]interface{}{
		"Name": input.Name,
		"Days": input.Days,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update pm frequency", err)
	}

	utils.InvalidateCache[PMFrequency](id)
	return frequency, nil
}

// GetPMFrequency reads through the reference cache. Include-archived reads
// bypass the cache both ways so archived rows never end up cached as live.
func GetPMFrequency(ctx context.Context, db *gorm.DB, id int) (*PMFrequency, error) {
	if utils.IncludeArchived(ctx) {
		return utils.FetchModel[PMFrequency](ctx, db, id)
	}

	var cached PMFrequency
	if found, err := utils.GetCache[PMFrequency](id, &cached); err == nil && found {
		return &cached, nil
	}

	frequency, err := utils.FetchModel[PMFrequency](ctx, db, id)
	if err != nil {
		return nil, err
	}
	utils.StoreCache[PMFrequency](frequency, id)
	return frequency, nil
}

func GetPMFrequencies(ctx context.Context, db *gorm.DB) ([]*PMFrequency, error) {
	var cached []*PMFrequency
	if found, err := utils.GetCacheList[PMFrequency](&cached); err == nil && found {
		return cached, nil
	}

	var results []*PMFrequency
	err := db.WithContext(ctx).Order("days").Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list pm frequencies", err)
	}
	utils.StoreCacheList[PMFrequency](results)
	return results, nil
}

func ToggleActivePMFrequency(ctx context.Context, db *gorm.DB, id int, isActive bool) (*PMFrequency, error) {
	result, err := ToggleActiveModel[PMFrequency](ctx, db, id, isActive)
	if err != nil {
		return nil, err
	}
	utils.InvalidateCache[PMFrequency](id)
	return result, nil
}

// ArchivePMFrequency soft-deletes the frequency. Refused while any live
// model, program, or asset override still references it.
func ArchivePMFrequency(ctx context.Context, db *gorm.DB, id int) error {
	frequency, err := utils.FetchModel[PMFrequency](ctx, db, id)
	if err != nil {
		return err
	}

	refs := []archiveReference{
		{Referer: "device models", Count: func() (int64, error) {
			return utils.CountWhere[DeviceModel](ctx, db, "pm_frequency_id = ?", id)
		}},
		{Referer: "equipment models", Count: func() (int64, error) {
			return utils.CountWhere[EquipmentModel](ctx, db, "pm_frequency_id = ?", id)
		}},
		{Referer: "pm programs", Count: func() (int64, error) {
			return utils.CountWhere[PMProgram](ctx, db, "pm_frequency_id = ?", id)
		}},
		{Referer: "asset overrides", Count: func() (int64, error) {
			return utils.CountWhere[Asset](ctx, db, "pm_frequency_override_id = ?", id)
		}},
	}
	if err := refuseArchiveIfReferenced("pm frequency", id, refs); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(frequency).Error; err != nil {
		return utils.WrapStoreError("archive pm frequency", err)
	}
	utils.InvalidateCache[PMFrequency](id)
	return nil
}
