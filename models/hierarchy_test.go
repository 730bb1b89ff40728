package models

import (
	"context"
	"errors"
	"testing"

	"github.com/meditrack/cmms_backend/utils"
)

func TestDuplicateManufacturerScopedToDeviceType(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	// same name under the same type, case-insensitive
	_, err := CreateManufacturer(ctx, db, &NewManufacturer{
		Name:         "baxter",
		DeviceTypeId: h.DeviceType.ID,
	})
	if !utils.IsDuplicateError(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	// same name under a different type is a different manufacturer
	otherType, err := CreateDeviceType(ctx, db, &NewDeviceType{Name: "Ventilator"})
	if err != nil {
		t.Fatalf("create device type: %v", err)
	}
	if _, err := CreateManufacturer(ctx, db, &NewManufacturer{
		Name:         "Baxter",
		DeviceTypeId: otherType.ID,
	}); err != nil {
		t.Fatalf("same name under different type should be allowed, got %v", err)
	}
}

func TestDeviceModelRequiresFrequency(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	_, err := CreateDeviceModel(ctx, db, &NewDeviceModel{
		Name:           "Spectrum IQ",
		ManufacturerId: h.Manufacturer.ID,
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("expected validation error for missing frequency, got %v", err)
	}

	// an archived frequency is as good as missing
	orphan, err := CreatePMFrequency(ctx, db, &NewPMFrequency{Name: "Weekly", Days: 7})
	if err != nil {
		t.Fatalf("create frequency: %v", err)
	}
	if err := ArchivePMFrequency(ctx, db, orphan.ID); err != nil {
		t.Fatalf("archive frequency: %v", err)
	}
	_, err = CreateDeviceModel(ctx, db, &NewDeviceModel{
		Name:           "Spectrum IQ",
		ManufacturerId: h.Manufacturer.ID,
		PMFrequencyId:  orphan.ID,
	})
	if !utils.IsNotFoundError(err) {
		t.Fatalf("expected not-found error for archived frequency, got %v", err)
	}
}

func TestArchiveBlockedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	var archiveErr *utils.CannotArchiveError

	err := ArchiveDeviceType(ctx, db, h.DeviceType.ID)
	if !errors.As(err, &archiveErr) {
		t.Fatalf("device type with manufacturers: expected CannotArchiveError, got %v", err)
	}
	if archiveErr.References != 1 {
		t.Fatalf("expected 1 referencing manufacturer, got %d", archiveErr.References)
	}

	if err := ArchiveManufacturer(ctx, db, h.Manufacturer.ID); !errors.As(err, &archiveErr) {
		t.Fatalf("manufacturer with models: expected CannotArchiveError, got %v", err)
	}

	if err := ArchivePMFrequency(ctx, db, h.Frequency.ID); !errors.As(err, &archiveErr) {
		t.Fatalf("frequency referenced by model: expected CannotArchiveError, got %v", err)
	}

	// bottom-up succeeds
	if err := ArchiveDeviceModel(ctx, db, h.DeviceModel.ID); err != nil {
		t.Fatalf("archive model: %v", err)
	}
	if err := ArchiveManufacturer(ctx, db, h.Manufacturer.ID); err != nil {
		t.Fatalf("archive manufacturer after model gone: %v", err)
	}
	if err := ArchiveDeviceType(ctx, db, h.DeviceType.ID); err != nil {
		t.Fatalf("archive type after manufacturer gone: %v", err)
	}
}

func TestValidateHierarchyCompleteAggregatesIssues(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	issues, err := ValidateHierarchyComplete(ctx, db, h.DeviceType.ID, h.Manufacturer.ID, h.DeviceModel.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("complete chain should have no issues, got %v", issues)
	}

	// every broken link reported at once, not just the first
	issues, err = ValidateHierarchyComplete(ctx, db, 9999, 9999, 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues for a fully broken chain, got %d: %v", len(issues), issues)
	}

	// cross-linked chain: manufacturer under a different type
	otherType, err := CreateDeviceType(ctx, db, &NewDeviceType{Name: "Defibrillator"})
	if err != nil {
		t.Fatalf("create device type: %v", err)
	}
	issues, err = ValidateHierarchyComplete(ctx, db, otherType.ID, h.Manufacturer.ID, h.DeviceModel.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].Field != "manufacturer_id" {
		t.Fatalf("expected one manufacturer_id issue, got %v", issues)
	}
}

func TestQuickAddEquipmentChain(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	frequency, err := CreatePMFrequency(ctx, db, &NewPMFrequency{Name: "Annual", Days: 365})
	if err != nil {
		t.Fatalf("create frequency: %v", err)
	}

	equipmentType, err := QuickAddEquipmentType(ctx, db, "Imaging")
	if err != nil {
		t.Fatalf("quick add type: %v", err)
	}
	equipmentMake, err := QuickAddEquipmentMake(ctx, db, "GE", equipmentType.ID)
	if err != nil {
		t.Fatalf("quick add make: %v", err)
	}

	// the legacy schema still refuses models without a frequency
	if _, err := QuickAddEquipmentModel(ctx, db, "Logiq E10", equipmentMake.ID, 0); !utils.IsValidationError(err) {
		t.Fatalf("expected validation error for missing frequency, got %v", err)
	}

	model, err := QuickAddEquipmentModel(ctx, db, "Logiq E10", equipmentMake.ID, frequency.ID)
	if err != nil {
		t.Fatalf("quick add model: %v", err)
	}

	// duplicate make name is scoped to the type, mirroring the device_* rules
	if _, err := QuickAddEquipmentMake(ctx, db, "GE", equipmentType.ID); !utils.IsDuplicateError(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	issues, err := ValidateEquipmentHierarchyComplete(ctx, db, equipmentType.ID, equipmentMake.ID, model.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("complete legacy chain should have no issues, got %v", issues)
	}
}

func TestOneActivePMProgramPerModel(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	if _, err := CreatePMProgram(ctx, db, &NewPMProgram{
		DeviceModelId: h.DeviceModel.ID,
		PMFrequencyId: h.Frequency.ID,
		Name:          "Standard PM",
	}); err != nil {
		t.Fatalf("create program: %v", err)
	}

	_, err := CreatePMProgram(ctx, db, &NewPMProgram{
		DeviceModelId: h.DeviceModel.ID,
		PMFrequencyId: h.Frequency.ID,
		Name:          "Second PM",
	})
	if !utils.IsDuplicateError(err) {
		t.Fatalf("expected duplicate error for second active program, got %v", err)
	}
}

func TestInactiveNameStaysReserved(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	if _, err := ToggleActiveManufacturer(ctx, db, h.Manufacturer.ID, false); err != nil {
		t.Fatalf("toggle manufacturer: %v", err)
	}

	// inactive rows can be reactivated, so their names stay taken
	_, err := CreateManufacturer(ctx, db, &NewManufacturer{
		Name:         "baxter",
		DeviceTypeId: h.DeviceType.ID,
	})
	if !utils.IsDuplicateError(err) {
		t.Fatalf("expected duplicate error against inactive manufacturer, got %v", err)
	}
}

func TestIncludeArchivedFetch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	frequency, err := CreatePMFrequency(ctx, db, &NewPMFrequency{Name: "Biennial", Days: 730})
	if err != nil {
		t.Fatalf("create frequency: %v", err)
	}
	if err := ArchivePMFrequency(ctx, db, frequency.ID); err != nil {
		t.Fatalf("archive frequency: %v", err)
	}

	// default reads filter archived rows
	if _, err := GetPMFrequency(ctx, db, frequency.ID); !utils.IsNotFoundError(err) && !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("archived frequency should be invisible, got %v", err)
	}

	// include-archived reads see them
	archivedCtx := utils.SetIncludeArchivedInContext(ctx, true)
	got, err := GetPMFrequency(archivedCtx, db, frequency.ID)
	if err != nil {
		t.Fatalf("include-archived fetch: %v", err)
	}
	if got.ID != frequency.ID {
		t.Fatalf("got id %d, want %d", got.ID, frequency.ID)
	}
	if !got.DeletedAt.Valid {
		t.Fatal("archived row should carry its deleted_at timestamp")
	}
}
