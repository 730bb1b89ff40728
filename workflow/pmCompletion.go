package workflow

import (
	"context"
	"time"

	"github.com/meditrack/cmms_backend/config"
	"github.com/meditrack/cmms_backend/models"
	"github.com/meditrack/cmms_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CompleteWorkOrder closes a work order. When the order is PM-typed the
// asset's schedule rolls forward: last_maintenance becomes the completion
// date, next_maintenance is recomputed from the effective frequency (not
// adjusted for lateness), compliance goes back to compliant, and a history
// record is appended.
//
// The asset update and the history insert are logically one transaction,
// but the store gives no rollback across calls: a history failure after the
// asset update is reported as a partial-failure warning and the asset state
// stays authoritative.
func CompleteWorkOrder(ctx context.Context, db *gorm.DB, logger *logrus.Logger, workOrderId int, completionDate time.Time) (*models.WorkOrder, error) {
	workOrder, err := models.GetWorkOrder(ctx, db, workOrderId)
	if err != nil {
		return nil, err
	}
	if workOrder.Status == models.WorkOrderStatusCompleted {
		return nil, utils.NewValidationError("status", "work order is already completed")
	}
	if workOrder.Status == models.WorkOrderStatusCancelled {
		return nil, utils.NewValidationError("status", "cancelled work orders cannot be completed")
	}

	err = db.WithContext(ctx).Model(workOrder).Updates(map[string]interface{}{
		"Status":      models.WorkOrderStatusCompleted,
		"CompletedAt": completionDate,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("complete work order", err)
	}
	workOrder.Status = models.WorkOrderStatusCompleted
	workOrder.CompletedAt = &completionDate

	// non-PM work orders never drive the schedule
	if !workOrder.IsPM() {
		return workOrder, nil
	}

	asset, err := models.GetAsset(ctx, db, workOrder.AssetId)
	if err != nil {
		return nil, err
	}

	resolution, err := models.ResolveEffectiveFrequency(ctx, db, asset)
	if err != nil {
		return nil, err
	}

	nextMaintenance, err := models.NextMaintenanceDate(&completionDate, resolution.Days, completionDate)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(asset).Updates(map[string]interface{}{
		"LastMaintenance":  completionDate,
		"NextMaintenance":  nextMaintenance,
		"ComplianceStatus": models.ComplianceStatusCompliant,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update asset schedule", err)
	}
	asset.LastMaintenance = &completionDate
	asset.NextMaintenance = &nextMaintenance
	asset.ComplianceStatus = models.ComplianceStatusCompliant

	performedBy, _ := utils.GetUserNameFromContext(ctx)
	record := models.MaintenanceHistoryRecord{
		AssetId:         asset.ID,
		WorkOrderId:     &workOrder.ID,
		MaintenanceDate: completionDate,
		MaintenanceType: models.MaintenanceTypePreventive,
		NextDueDate:     &nextMaintenance,
		PerformedBy:     performedBy,
	}
	if err := models.AppendMaintenanceHistory(ctx, db, &record); err != nil {
		// asset state is authoritative; history is best-effort audit
		config.LogWarn(logger, "pmCompletion.go", "CompleteWorkOrder",
			"asset updated but history insert failed", asset.Tag, err)
	}

	logger.WithFields(logrus.Fields{
		"module":          "pmCompletion.go",
		"funcName":        "CompleteWorkOrder",
		"workOrderId":     workOrder.ID,
		"assetTag":        asset.Tag,
		"nextMaintenance": nextMaintenance,
		"frequencyTier":   resolution.Tier,
	}).Info("pm work order completed")

	return workOrder, nil
}
