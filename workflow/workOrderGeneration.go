package workflow

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/meditrack/cmms_backend/config"
	"github.com/meditrack/cmms_backend/models"
	"github.com/meditrack/cmms_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GenerationResult is the structured outcome of one generation pass. A
// batch never aborts on a single asset: failures land in Errors and the
// pass keeps going.
type GenerationResult struct {
	AsOf           time.Time         `json:"as_of"`
	Generated      int               `json:"generated"`
	Skipped        int               `json:"skipped"`
	Errors         []GenerationError `json:"errors"`
	AlreadyRunning bool              `json:"already_running"`
}

type GenerationError struct {
	AssetId int    `json:"asset_id"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// generationRunning is the in-process re-entrancy guard. The backing store
// gives no transactional read-then-insert guarantee across the duplicate
// check and the insert, so overlapping runs could double-generate; a second
// invocation while one is in flight is a no-op, not queued. Deliberately
// not a store-level lock.
var generationRunning int32

// GenerateDueWorkOrders scans active assets whose next maintenance falls
// within the look-ahead window and opens a PM work order for each one that
// does not already have one in flight.
func GenerateDueWorkOrders(ctx context.Context, db *gorm.DB, logger *logrus.Logger, asOf time.Time) (*GenerationResult, error) {
	if !atomic.CompareAndSwapInt32(&generationRunning, 0, 1) {
		logger.WithFields(logrus.Fields{
			"module":   "workOrderGeneration.go",
			"funcName": "GenerateDueWorkOrders",
		}).Info("generation already running, skipping")
		return &GenerationResult{AsOf: asOf, AlreadyRunning: true}, nil
	}
	defer atomic.StoreInt32(&generationRunning, 0)

	result := GenerationResult{AsOf: asOf}
	windowEnd := asOf.AddDate(0, 0, models.DueSoonWindowDays)

	var candidates []*models.Asset
	err := db.WithContext(ctx).
		Where("status = ?", models.AssetStatusActive).
		Where("auto_generate_wo = ?", true).
		Where("next_maintenance IS NOT NULL").
		Where("next_maintenance <= ?", windowEnd).
		Order("next_maintenance").
		Find(&candidates).Error
	if err != nil {
		config.LogError(logger, "workOrderGeneration.go", "GenerateDueWorkOrders", "select candidates", nil, err)
		return nil, utils.WrapStoreError("select candidate assets", err)
	}

	for _, asset := range candidates {
		if err := generateForAsset(ctx, db, logger, asset, asOf, &result); err != nil {
			config.LogError(logger, "workOrderGeneration.go", "GenerateDueWorkOrders", "generate for asset", asset.Tag, err)
			result.Errors = append(result.Errors, GenerationError{
				AssetId: asset.ID,
				Tag:     asset.Tag,
				Message: err.Error(),
			})
		}
	}

	logger.WithFields(logrus.Fields{
		"module":    "workOrderGeneration.go",
		"funcName":  "GenerateDueWorkOrders",
		"asOf":      asOf,
		"generated": result.Generated,
		"skipped":   result.Skipped,
		"failed":    len(result.Errors),
	}).Info("work order generation pass finished")

	return &result, nil
}

func generateForAsset(ctx context.Context, db *gorm.DB, logger *logrus.Logger, asset *models.Asset, asOf time.Time, result *GenerationResult) error {
	hasOpen, err := models.HasOpenPMWorkOrder(ctx, db, asset.ID)
	if err != nil {
		return err
	}
	if hasOpen {
		result.Skipped++
		return nil
	}

	workOrderType, err := models.ResolvePMWorkOrderType(ctx, db)
	if err != nil {
		return err
	}

	resolution, err := models.ResolveEffectiveFrequency(ctx, db, asset)
	if err != nil {
		return err
	}

	daysUntil := models.DaysUntil(asset.NextMaintenance, asOf)
	_, priority := models.ClassifySchedule(daysUntil)
	overdue := daysUntil != nil && *daysUntil < 0

	dueDate := asOf
	if !overdue && asset.NextMaintenance != nil {
		dueDate = *asset.NextMaintenance
	}

	workOrder := models.WorkOrder{
		AssetId:       asset.ID,
		TypeId:        workOrderType.ID,
		Status:        models.WorkOrderStatusOpen,
		Priority:      priority,
		DueDate:       dueDate,
		Description:   generatedDescription(asset, resolution, daysUntil),
		AutoGenerated: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&workOrder).Error; err != nil {
		return utils.WrapStoreError("insert work order", err)
	}
	result.Generated++

	// side effect distinct from the completion handler's later "compliant"
	// transition; failing here leaves a valid work order behind, so it is
	// tolerated as partial application
	compliance := models.ComplianceStatusNeedsAttention
	if overdue {
		compliance = models.ComplianceStatusNonCompliant
	}
	if err := db.WithContext(ctx).Model(asset).Update("compliance_status", compliance).Error; err != nil {
		config.LogWarn(logger, "workOrderGeneration.go", "generateForAsset",
			"work order created but compliance update failed", asset.Tag, err)
	}
	return nil
}

func generatedDescription(asset *models.Asset, resolution *models.FrequencyResolution, daysUntil *int) string {
	frequencyName := fmt.Sprintf("every %d days", resolution.Days)
	if resolution.Frequency != nil {
		frequencyName = fmt.Sprintf("%s (%d days)", resolution.Frequency.Name, resolution.Frequency.Days)
	} else if resolution.Tier == models.FrequencyTierDefault {
		frequencyName = fmt.Sprintf("every %d days (default)", resolution.Days)
	}

	lastMaintenance := "Never"
	if asset.LastMaintenance != nil {
		lastMaintenance = asset.LastMaintenance.Format("2006-01-02")
	}

	description := fmt.Sprintf("Auto-generated preventive maintenance for %s. Frequency: %s. Last maintenance: %s.",
		asset.Name, frequencyName, lastMaintenance)
	if daysUntil != nil && *daysUntil < 0 {
		description = fmt.Sprintf("OVERDUE by %d days. %s", -*daysUntil, description)
	}
	return description
}
