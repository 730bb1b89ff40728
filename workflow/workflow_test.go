package workflow

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/meditrack/cmms_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.PMFrequency{},
		&models.DeviceType{}, &models.Manufacturer{}, &models.DeviceModel{},
		&models.PMProgram{}, &models.PMChecklist{}, &models.PMChecklistItem{},
		&models.EquipmentType{}, &models.EquipmentMake{}, &models.EquipmentModel{},
		&models.DepreciationProfile{},
		&models.Asset{},
		&models.WorkOrderType{}, &models.WorkOrder{},
		&models.MaintenanceHistoryRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func seedPMWorkOrderType(t *testing.T, ctx context.Context, db *gorm.DB) *models.WorkOrderType {
	t.Helper()
	workOrderType, err := models.CreateWorkOrderType(ctx, db, &models.NewWorkOrderType{
		Name: "Preventive Maintenance",
		Code: "PM",
	})
	if err != nil {
		t.Fatalf("seed work order type: %v", err)
	}
	return workOrderType
}

// seedScheduledAsset creates a free-form asset whose next maintenance falls
// daysFromNow out (negative = overdue), on a fixed interval.
func seedScheduledAsset(t *testing.T, ctx context.Context, db *gorm.DB, name string, intervalDays, daysFromNow int) *models.Asset {
	t.Helper()
	last := time.Now().AddDate(0, 0, daysFromNow-intervalDays)
	asset, err := models.CreateAsset(ctx, db, &models.NewAsset{
		Name:            name,
		PMIntervalDays:  &intervalDays,
		LastMaintenance: &last,
	})
	if err != nil {
		t.Fatalf("seed asset %s: %v", name, err)
	}
	return asset
}
