package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WorkOrder struct {
	ID            int               `gorm:"primary_key" json:"id"`
	AssetId       int               `gorm:"index;not null" json:"asset_id" binding:"required"`
	TypeId        int               `gorm:"index;not null" json:"type_id" binding:"required"`
	Status        WorkOrderStatus   `gorm:"size:20;not null;default:open" json:"status"`
	Priority      WorkOrderPriority `gorm:"size:20;not null;default:medium" json:"priority"`
	DueDate       time.Time         `gorm:"index;not null" json:"due_date"`
	Description   string            `gorm:"type:text" json:"description"`
	AutoGenerated *bool             `gorm:"not null;default:false" json:"auto_generated"`
	CompletedAt   *time.Time        `json:"completed_at"`
	LaborCost     decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"labor_cost"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`

	Type  *WorkOrderType `gorm:"foreignKey:TypeId" json:"type,omitempty"`
	Asset *Asset         `gorm:"foreignKey:AssetId" json:"asset,omitempty"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

// IsPM reports whether the work order drives the PM schedule. Requires Type
// to be loaded.
func (w *WorkOrder) IsPM() bool {
	return w.Type != nil && IsPMWorkOrderTypeCode(w.Type.Code)
}

var openWorkOrderStatuses = []WorkOrderStatus{
	WorkOrderStatusOpen,
	WorkOrderStatusInProgress,
}

// HasOpenPMWorkOrder reports whether the asset already has a PM work order
// in flight. The generator's at-most-one invariant hangs on this check.
func HasOpenPMWorkOrder(ctx context.Context, db *gorm.DB, assetId int) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&WorkOrder{}).
		Joins("JOIN work_order_types ON work_order_types.id = work_orders.type_id").
		Where("work_orders.asset_id = ?", assetId).
		Where("work_orders.status IN ?", openWorkOrderStatuses).
		Where("work_order_types.code IN ?", PMWorkOrderTypeCodes).
		Count(&count).Error
	if err != nil {
		return false, utils.WrapStoreError("check open pm work order", err)
	}
	return count > 0, nil
}

type NewWorkOrder struct {
	AssetId     int               `json:"asset_id" binding:"required"`
	TypeId      int               `json:"type_id" binding:"required"`
	Priority    WorkOrderPriority `json:"priority"`
	DueDate     time.Time         `json:"due_date" binding:"required"`
	Description string            `json:"description"`
	LaborCost   decimal.Decimal   `json:"labor_cost"`
}

// CreateWorkOrder is the manual path. Auto-generation goes through the
// workflow package instead, which also enforces the duplicate-PM check.
func CreateWorkOrder(ctx context.Context, db *gorm.DB, input *NewWorkOrder) (*WorkOrder, error) {
	if input.AssetId <= 0 {
		return nil, utils.NewValidationError("asset_id", "asset is required")
	}
	if input.DueDate.IsZero() {
		return nil, utils.NewValidationError("due_date", "due date is required")
	}
	if _, err := utils.FetchModel[Asset](ctx, db, input.AssetId); err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("asset", input.AssetId)
		}
		return nil, err
	}
	if _, err := utils.FetchModel[WorkOrderType](ctx, db, input.TypeId); err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("work order type", input.TypeId)
		}
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = WorkOrderPriorityMedium
	}

	workOrder := WorkOrder{
		AssetId:       input.AssetId,
		TypeId:        input.TypeId,
		Status:        WorkOrderStatusOpen,
		Priority:      priority,
		DueDate:       input.DueDate,
		Description:   strings.TrimSpace(input.Description),
		AutoGenerated: utils.NewFalse(),
		LaborCost:     input.LaborCost,
	}
	if err := db.WithContext(ctx).Create(&workOrder).Error; err != nil {
		return nil, utils.WrapStoreError("create work order", err)
	}
	return &workOrder, nil
}

func GetWorkOrder(ctx context.Context, db *gorm.DB, id int) (*WorkOrder, error) {
	workOrder, err := utils.FetchModel[WorkOrder](ctx, db, id, "Type", "Asset")
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return nil, utils.NewNotFoundError("work order", id)
		}
		return nil, err
	}
	return workOrder, nil
}

func GetWorkOrders(ctx context.Context, db *gorm.DB, assetId *int, status *WorkOrderStatus) ([]*WorkOrder, error) {
	var results []*WorkOrder
	query := db.WithContext(ctx).Preload("Type")
	if assetId != nil && *assetId > 0 {
		query = query.Where("asset_id = ?", *assetId)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("due_date").Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list work orders", err)
	}
	return results, nil
}

// StartWorkOrder moves an open work order to in_progress. Completion goes
// through the workflow package so the schedule side effects run.
func StartWorkOrder(ctx context.Context, db *gorm.DB, id int) (*WorkOrder, error) {
	workOrder, err := GetWorkOrder(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if workOrder.Status != WorkOrderStatusOpen {
		return nil, utils.NewValidationError("status",
			"only open work orders can be started")
	}
	err = db.WithContext(ctx).Model(workOrder).Update("status", WorkOrderStatusInProgress).Error
	if err != nil {
		return nil, utils.WrapStoreError("start work order", err)
	}
	workOrder.Status = WorkOrderStatusInProgress
	return workOrder, nil
}

func CancelWorkOrder(ctx context.Context, db *gorm.DB, id int) (*WorkOrder, error) {
	workOrder, err := GetWorkOrder(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if workOrder.Status == WorkOrderStatusCompleted {
		return nil, utils.NewValidationError("status",
			"completed work orders cannot be cancelled")
	}
	err = db.WithContext(ctx).Model(workOrder).Update("status", WorkOrderStatusCancelled).Error
	if err != nil {
		return nil, utils.WrapStoreError("cancel work order", err)
	}
	workOrder.Status = WorkOrderStatusCancelled
	return workOrder, nil
}
