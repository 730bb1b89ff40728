package models

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
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
		&PMFrequency{},
		&DeviceType{}, &Manufacturer{}, &DeviceModel{},
		&PMProgram{}, &PMChecklist{}, &PMChecklistItem{},
		&EquipmentType{}, &EquipmentMake{}, &EquipmentModel{},
		&DepreciationProfile{},
		&Asset{},
		&WorkOrderType{}, &WorkOrder{},
		&MaintenanceHistoryRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testHierarchy holds the ids of one complete device chain.
type testHierarchy struct {
	Frequency    *PMFrequency
	DeviceType   *DeviceType
	Manufacturer *Manufacturer
	DeviceModel  *DeviceModel
}

func seedHierarchy(t *testing.T, ctx context.Context, db *gorm.DB, frequencyDays int) *testHierarchy {
	t.Helper()

	frequency, err := CreatePMFrequency(ctx, db, &NewPMFrequency{Name: "Quarterly", Days: frequencyDays})
	if err != nil {
		t.Fatalf("seed pm frequency: %v", err)
	}
	deviceType, err := CreateDeviceType(ctx, db, &NewDeviceType{Name: "Infusion Pump"})
	if err != nil {
		t.Fatalf("seed device type: %v", err)
	}
	manufacturer, err := CreateManufacturer(ctx, db, &NewManufacturer{
		Name:         "Baxter",
		DeviceTypeId: deviceType.ID,
	})
	if err != nil {
		t.Fatalf("seed manufacturer: %v", err)
	}
	model, err := CreateDeviceModel(ctx, db, &NewDeviceModel{
		Name:           "Sigma Spectrum",
		ManufacturerId: manufacturer.ID,
		PMFrequencyId:  frequency.ID,
	})
	if err != nil {
		t.Fatalf("seed device model: %v", err)
	}
	return &testHierarchy{
		Frequency:    frequency,
		DeviceType:   deviceType,
		Manufacturer: manufacturer,
		DeviceModel:  model,
	}
}
