package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// PMChecklist is the ordered task list a technician works through during a
// PM visit. At most one active checklist per program.
type PMChecklist struct {
	ID          int            `gorm:"primary_key" json:"id"`
	PMProgramId int            `gorm:"index;not null" json:"pm_program_id" binding:"required"`
	Name        string         `gorm:"size:100;not null" json:"name" binding:"required"`
	IsActive    *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items []PMChecklistItem `gorm:"foreignKey:PMChecklistId" json:"items,omitempty"`
}

func (PMChecklist) TableName() string {
	return "pm_checklists"
}

type PMChecklistItem struct {
	ID            int               `gorm:"primary_key" json:"id"`
	PMChecklistId int               `gorm:"index;not null" json:"pm_checklist_id"`
	Name          string            `gorm:"size:200;not null" json:"name" binding:"required"`
	ItemType      ChecklistItemType `gorm:"size:20;not null;default:checkbox" json:"item_type"`
	IsRequired    *bool             `gorm:"not null;default:false" json:"is_required"`
	SortOrder     int               `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PMChecklistItem) TableName() string {
	return "pm_checklist_items"
}

type NewPMChecklistItem struct {
	Name       string            `json:"name" binding:"required"`
	ItemType   ChecklistItemType `json:"item_type"`
	IsRequired bool              `json:"is_required"`
	SortOrder  int               `json:"sort_order"`
}

type NewPMChecklist struct {
	PMProgramId int                  `json:"pm_program_id" binding:"required"`
	Name        string               `json:"name" binding:"required"`
	Items       []NewPMChecklistItem `json:"items"`
}

func (input *NewPMChecklist) validate(ctx context.Context, db *gorm.DB, id int) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "name is required")
	}
	if input.PMProgramId <= 0 {
		return utils.NewValidationError("pm_program_id", "pm program is required")
	}
	if _, err := utils.FetchModel[PMProgram](ctx, db, input.PMProgramId); err != nil {
		if utils.IsNotFoundError(err) || err == utils.ErrorRecordNotFound {
			return utils.NewNotFoundError("pm program", input.PMProgramId)
		}
		return err
	}

	for i, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			return utils.NewValidationError(fmt.Sprintf("items[%d].name", i), "item name is required")
		}
	}

	// one active checklist per program
	query := db.WithContext(ctx).Model(&PMChecklist{}).
		Where("pm_program_id = ? AND is_active = ?", input.PMProgramId, true)
	if id > 0 {
		query = query.Where("id <> ?", id)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return utils.WrapStoreError("duplicate check", err)
	}
	if count > 0 {
		return utils.NewDuplicateError("pm checklist",
			fmt.Sprintf("for pm program %d", input.PMProgramId), "")
	}
	return nil
}

func CreatePMChecklist(ctx context.Context, db *gorm.DB, input *NewPMChecklist) (*PMChecklist, error) {
	if err := input.validate(ctx, db, 0); err != nil {
		return nil, err
	}

	checklist := PMChecklist{
		PMProgramId: input.PMProgramId,
		Name:        input.Name,
		IsActive:    utils.NewTrue(),
	}
	for _, item := range input.Items {
		itemType := item.ItemType
		if itemType == "" {
			itemType = ChecklistItemTypeCheckbox
		}
		required := item.IsRequired
		checklist.Items = append(checklist.Items, PMChecklistItem{
			Name:       item.Name,
			ItemType:   itemType,
			IsRequired: &required,
			SortOrder:  item.SortOrder,
		})
	}

	if err := db.WithContext(ctx).Create(&checklist).Error; err != nil {
		return nil, utils.WrapStoreError("create pm checklist", err)
	}
	return &checklist, nil
}

// GetPMChecklist returns the checklist with items ordered by sort_order,
// ties broken by insertion order.
func GetPMChecklist(ctx context.Context, db *gorm.DB, id int) (*PMChecklist, error) {
	var checklist PMChecklist
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		First(&checklist, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, utils.WrapStoreError("fetch pm checklist", err)
	}
	return &checklist, nil
}

// GetActivePMChecklistForProgram returns the program's single active
// checklist, or RecordNotFound when none exists.
func GetActivePMChecklistForProgram(ctx context.Context, db *gorm.DB, programId int) (*PMChecklist, error) {
	var checklist PMChecklist
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Where("pm_program_id = ? AND is_active = ?", programId, true).
		First(&checklist).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, utils.WrapStoreError("fetch pm checklist", err)
	}
	return &checklist, nil
}

func ToggleActivePMChecklist(ctx context.Context, db *gorm.DB, id int, isActive bool) (*PMChecklist, error) {
	if isActive {
		checklist, err := utils.FetchModel[PMChecklist](ctx, db, id)
		if err != nil {
			return nil, err
		}
		count, err := utils.CountWhere[PMChecklist](ctx, db,
			"pm_program_id = ? AND is_active = ? AND id <> ?", checklist.PMProgramId, true, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewDuplicateError("pm checklist",
				fmt.Sprintf("for pm program %d", checklist.PMProgramId), "")
		}
	}
	return ToggleActiveModel[PMChecklist](ctx, db, id, isActive)
}

func ArchivePMChecklist(ctx context.Context, db *gorm.DB, id int) error {
	checklist, err := utils.FetchModel[PMChecklist](ctx, db, id)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(checklist).Error; err != nil {
		return utils.WrapStoreError("archive pm checklist", err)
	}
	return nil
}
