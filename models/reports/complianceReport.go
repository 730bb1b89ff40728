package reports

import (
	"context"
	"time"

	"github.com/meditrack/cmms_backend/models"
	"github.com/meditrack/cmms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ComplianceSummaryResponse struct {
	AsOf          time.Time               `json:"as_of"`
	TotalAssets   int                     `json:"total_assets"`
	StatusCounts  map[string]int          `json:"status_counts"`
	OverdueAssets int                     `json:"overdue_assets"`
	DueSoonAssets int                     `json:"due_soon_assets"`
	Details       []AssetComplianceDetail `json:"details"`
}

type AssetComplianceDetail struct {
	AssetId          int                     `json:"asset_id"`
	Tag              string                  `json:"tag"`
	Name             string                  `json:"name"`
	NextMaintenance  *time.Time              `json:"next_maintenance"`
	DaysUntil        *int                    `json:"days_until"`
	ScheduleStatus   models.ScheduleStatus   `json:"schedule_status"`
	ComplianceStatus models.ComplianceStatus `json:"compliance_status"`
	FrequencyTier    models.FrequencyTier    `json:"frequency_tier"`
}

// GetComplianceSummary classifies every active asset against asOf. The
// persisted compliance_status rides along so drift between the cached field
// and the derived classification is visible in one place.
func GetComplianceSummary(ctx context.Context, db *gorm.DB, asOf time.Time) (*ComplianceSummaryResponse, error) {
	status := models.AssetStatusActive
	assets, err := models.GetAssets(ctx, db, &status)
	if err != nil {
		return nil, err
	}

	response := ComplianceSummaryResponse{
		AsOf:         asOf,
		TotalAssets:  len(assets),
		StatusCounts: map[string]int{},
	}

	for _, asset := range assets {
		daysUntil := models.DaysUntil(asset.NextMaintenance, asOf)
		scheduleStatus, _ := models.ClassifySchedule(daysUntil)

		resolution, err := models.ResolveEffectiveFrequency(ctx, db, asset)
		tier := models.FrequencyTierDefault
		if err == nil {
			tier = resolution.Tier
		} else if !utils.IsValidationError(err) {
			return nil, err
		}

		response.StatusCounts[string(scheduleStatus)]++
		switch scheduleStatus {
		case models.ScheduleStatusOverdue:
			response.OverdueAssets++
		case models.ScheduleStatusDueSoon:
			response.DueSoonAssets++
		}

		response.Details = append(response.Details, AssetComplianceDetail{
			AssetId:          asset.ID,
			Tag:              asset.Tag,
			Name:             asset.Name,
			NextMaintenance:  asset.NextMaintenance,
			DaysUntil:        daysUntil,
			ScheduleStatus:   scheduleStatus,
			ComplianceStatus: asset.ComplianceStatus,
			FrequencyTier:    tier,
		})
	}

	return &response, nil
}

type AssetValueSummaryResponse struct {
	AsOf           time.Time       `json:"as_of"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalBookValue decimal.Decimal `json:"total_book_value"`
}

// GetAssetValueSummary totals purchase cost and straight-line book value
// across active assets that carry a depreciation profile.
func GetAssetValueSummary(ctx context.Context, db *gorm.DB, asOf time.Time) (*AssetValueSummaryResponse, error) {
	status := models.AssetStatusActive
	assets, err := models.GetAssets(ctx, db, &status)
	if err != nil {
		return nil, err
	}

	response := AssetValueSummaryResponse{AsOf: asOf}
	for _, asset := range assets {
		response.TotalCost = response.TotalCost.Add(asset.PurchaseCost)

		bookValue := asset.PurchaseCost
		if asset.DepreciationProfileId != nil && asset.PurchaseDate != nil {
			profile, err := models.GetDepreciationProfile(ctx, db, *asset.DepreciationProfileId)
			if err == nil {
				bookValue = profile.BookValue(asset.PurchaseCost, *asset.PurchaseDate, asOf)
			} else if err != utils.ErrorRecordNotFound {
				return nil, err
			}
		}
		response.TotalBookValue = response.TotalBookValue.Add(bookValue)
	}
	return &response, nil
}
