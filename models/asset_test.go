package models

import (
	"context"
	"testing"
	"time"

	"github.com/meditrack/cmms_backend/utils"
)

func TestCreateAssetComputesSchedule(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	last := time.Now().AddDate(0, 0, -10)
	asset, err := CreateAsset(ctx, db, &NewAsset{
		Name:            "Infusion Pump 01",
		DeviceModelId:   &h.DeviceModel.ID,
		LastMaintenance: &last,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if asset.Tag == "" {
		t.Fatal("expected a generated tag")
	}
	if asset.NextMaintenance == nil {
		t.Fatal("expected next_maintenance to be computed on create")
	}
	daysUntil := DaysUntil(asset.NextMaintenance, time.Now())
	if daysUntil == nil || *daysUntil != 80 {
		t.Fatalf("90-day frequency 10 days in: got %v days until next, want 80", daysUntil)
	}
	if asset.ComplianceStatus != ComplianceStatusCompliant {
		t.Fatalf("80 days out should be compliant, got %s", asset.ComplianceStatus)
	}
}

func TestCreateAssetRejectsInvalidCustomSchedule(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	scheduleType := PMScheduleTypeCustomDays
	_, err := CreateAsset(ctx, db, &NewAsset{
		Name:           "Bad Pump",
		PMScheduleType: &scheduleType,
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("expected validation error at input time, got %v", err)
	}
}

func TestCreateAssetRejectsMissingModel(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	missing := 9999
	_, err := CreateAsset(ctx, db, &NewAsset{
		Name:          "Ghost Pump",
		DeviceModelId: &missing,
	})
	if !utils.IsNotFoundError(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateAssetScheduleRecomputes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	interval := 30
	asset, err := CreateAsset(ctx, db, &NewAsset{
		Name:           "Free-form Asset",
		PMIntervalDays: &interval,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}

	// pushing last_maintenance into the past must flip compliance
	last := time.Now().AddDate(0, 0, -45)
	asset, err = UpdateAssetSchedule(ctx, db, asset.ID, &AssetScheduleEdit{
		LastMaintenance: &last,
	})
	if err != nil {
		t.Fatalf("update schedule: %v", err)
	}
	daysUntil := DaysUntil(asset.NextMaintenance, time.Now())
	if daysUntil == nil || *daysUntil != -15 {
		t.Fatalf("got %v days until next, want -15", daysUntil)
	}
	if asset.ComplianceStatus != ComplianceStatusNonCompliant {
		t.Fatalf("overdue asset should be non_compliant, got %s", asset.ComplianceStatus)
	}
}

func TestRetireAsset(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	asset, err := CreateAsset(ctx, db, &NewAsset{Name: "Old Pump"})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	asset, err = RetireAsset(ctx, db, asset.ID)
	if err != nil {
		t.Fatalf("retire asset: %v", err)
	}
	if asset.Status != AssetStatusRetired {
		t.Fatalf("got status %s, want %s", asset.Status, AssetStatusRetired)
	}
}
