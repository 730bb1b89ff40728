package models

import (
	"context"
	"testing"

	"github.com/meditrack/cmms_backend/utils"
	"github.com/stretchr/testify/require"
)

func overrideCtx() context.Context {
	return utils.SetCanOverridePMFrequencyInContext(context.Background(), true)
}

func TestResolveEffectiveFrequencyPrecedence(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	asset, err := CreateAsset(ctx, db, &NewAsset{
		Name:          "Infusion Pump 01",
		DeviceModelId: &h.DeviceModel.ID,
	})
	require.NoError(t, err)

	// model tier: the device model's frequency
	resolution, err := ResolveEffectiveFrequency(ctx, db, asset)
	require.NoError(t, err)
	require.Equal(t, FrequencyTierModel, resolution.Tier)
	require.Equal(t, 90, resolution.Days)

	// an active PM program on the model wins over the model's own link
	programFrequency, err := CreatePMFrequency(ctx, db, &NewPMFrequency{Name: "Monthly", Days: 30})
	require.NoError(t, err)
	_, err = CreatePMProgram(ctx, db, &NewPMProgram{
		DeviceModelId: h.DeviceModel.ID,
		PMFrequencyId: programFrequency.ID,
		Name:          "Intensive PM",
	})
	require.NoError(t, err)

	resolution, err = ResolveEffectiveFrequency(ctx, db, asset)
	require.NoError(t, err)
	require.Equal(t, FrequencyTierModel, resolution.Tier)
	require.Equal(t, 30, resolution.Days)

	// the admin override beats everything
	overrideFrequency, err := CreatePMFrequency(ctx, db, &NewPMFrequency{Name: "Weekly", Days: 7})
	require.NoError(t, err)
	asset, err = SetPMFrequencyOverride(overrideCtx(), db, asset.ID, overrideFrequency.ID, "manufacturer recall bulletin")
	require.NoError(t, err)

	resolution, err = ResolveEffectiveFrequency(ctx, db, asset)
	require.NoError(t, err)
	require.Equal(t, FrequencyTierOverride, resolution.Tier)
	require.Equal(t, 7, resolution.Days)
	require.NotNil(t, resolution.Frequency)
	require.Equal(t, overrideFrequency.ID, resolution.Frequency.ID)
}

func TestResolveLegacyTiers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	// free-form asset with nothing configured resolves to the named default
	asset := &Asset{Name: "Orphan Asset"}
	resolution, err := ResolveEffectiveFrequency(ctx, db, asset)
	require.NoError(t, err)
	require.Equal(t, FrequencyTierDefault, resolution.Tier)
	require.Equal(t, DefaultPMIntervalDays, resolution.Days)
	require.Nil(t, resolution.Frequency)

	// raw interval beats the default
	interval := 45
	asset.PMIntervalDays = &interval
	resolution, err = ResolveEffectiveFrequency(ctx, db, asset)
	require.NoError(t, err)
	require.Equal(t, FrequencyTierIntervalDays, resolution.Tier)
	require.Equal(t, 45, resolution.Days)

	// keyword beats the raw interval
	scheduleType := PMScheduleTypeQuarterly
	asset.PMScheduleType = &scheduleType
	resolution, err = ResolveEffectiveFrequency(ctx, db, asset)
	require.NoError(t, err)
	require.Equal(t, FrequencyTierScheduleType, resolution.Tier)
	require.Equal(t, 90, resolution.Days)
}

func TestResolveCustomDaysWithoutValueErrors(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	// bad data must surface, never silently fall back
	scheduleType := PMScheduleTypeCustomDays
	asset := &Asset{Name: "Bad Asset", PMScheduleType: &scheduleType}
	_, err := ResolveEffectiveFrequency(ctx, db, asset)
	require.True(t, utils.IsValidationError(err), "got %v", err)
}

func TestResolveArchivedOverrideFallsThrough(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	overrideFrequency, err := CreatePMFrequency(ctx, db, &NewPMFrequency{Name: "Weekly", Days: 7})
	require.NoError(t, err)

	asset, err := CreateAsset(ctx, db, &NewAsset{
		Name:          "Pump 02",
		DeviceModelId: &h.DeviceModel.ID,
	})
	require.NoError(t, err)
	asset, err = SetPMFrequencyOverride(overrideCtx(), db, asset.ID, overrideFrequency.ID, "loaner unit")
	require.NoError(t, err)

	// the archive guard refuses while the override references it, but
	// legacy rows soft-deleted before the guard existed are still out there
	require.NoError(t, db.Delete(&PMFrequency{}, overrideFrequency.ID).Error)

	// archived override counts as absent; the model tier takes over
	resolution, err := ResolveEffectiveFrequency(ctx, db, asset)
	require.NoError(t, err)
	require.Equal(t, FrequencyTierModel, resolution.Tier)
	require.Equal(t, 90, resolution.Days)
}

func TestSetPMFrequencyOverrideRequiresRole(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := seedHierarchy(t, ctx, db, 90)

	asset, err := CreateAsset(ctx, db, &NewAsset{
		Name:          "Pump 03",
		DeviceModelId: &h.DeviceModel.ID,
	})
	require.NoError(t, err)

	_, err = SetPMFrequencyOverride(ctx, db, asset.ID, h.Frequency.ID, "because")
	require.ErrorIs(t, err, utils.ErrorOverrideNotPermitted)

	_, err = ClearPMFrequencyOverride(ctx, db, asset.ID)
	require.ErrorIs(t, err, utils.ErrorOverrideNotPermitted)

	// and a blank reason is rejected even with the role
	_, err = SetPMFrequencyOverride(overrideCtx(), db, asset.ID, h.Frequency.ID, "  ")
	require.True(t, utils.IsValidationError(err), "got %v", err)
}
