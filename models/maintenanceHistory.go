package models

import (
	"context"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"gorm.io/gorm"
)

// MaintenanceHistoryRecord is an append-only audit row, one per completed
// PM. Never updated, never deleted.
type MaintenanceHistoryRecord struct {
	ID              int             `gorm:"primary_key" json:"id"`
	AssetId         int             `gorm:"index;not null" json:"asset_id"`
	WorkOrderId     *int            `gorm:"index" json:"work_order_id"`
	MaintenanceDate time.Time       `gorm:"not null" json:"maintenance_date"`
	MaintenanceType MaintenanceType `gorm:"size:20;not null" json:"maintenance_type"`
	NextDueDate     *time.Time      `json:"next_due_date"`
	PerformedBy     string          `gorm:"size:100" json:"performed_by"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (MaintenanceHistoryRecord) TableName() string {
	return "asset_maintenance_history"
}

func AppendMaintenanceHistory(ctx context.Context, db *gorm.DB, record *MaintenanceHistoryRecord) error {
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return utils.WrapStoreError("append maintenance history", err)
	}
	return nil
}

func GetMaintenanceHistoryForAsset(ctx context.Context, db *gorm.DB, assetId int) ([]*MaintenanceHistoryRecord, error) {
	var results []*MaintenanceHistoryRecord
	err := db.WithContext(ctx).
		Where("asset_id = ?", assetId).
		Order("maintenance_date DESC, id DESC").
		Find(&results).Error
	if err != nil {
		return nil, utils.WrapStoreError("list maintenance history", err)
	}
	return results, nil
}
