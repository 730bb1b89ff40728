package models

import (
	"context"
	"strings"
	"time"

	"github.com/meditrack/cmms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DepreciationProfile describes straight-line depreciation for the assets
// of a model. Purely informational for planning; never drives scheduling.
type DepreciationProfile struct {
	ID              int             `gorm:"primary_key" json:"id"`
	Name            string          `gorm:"size:100;not null" json:"name" binding:"required"`
	UsefulLifeYears int             `gorm:"not null" json:"useful_life_years" binding:"required,gt=0"`
	SalvageRate     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"salvage_rate"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (DepreciationProfile) TableName() string {
	return "depreciation_profiles"
}

type NewDepreciationProfile struct {
	Name            string          `json:"name" binding:"required"`
	UsefulLifeYears int             `json:"useful_life_years" binding:"required,gt=0"`
	SalvageRate     decimal.Decimal `json:"salvage_rate"`
}

func CreateDepreciationProfile(ctx context.Context, db *gorm.DB, input *NewDepreciationProfile) (*DepreciationProfile, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}
	if input.UsefulLifeYears <= 0 {
		return nil, utils.NewValidationError("useful_life_years", "useful life must be positive")
	}
	if input.SalvageRate.IsNegative() || input.SalvageRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, utils.NewValidationError("salvage_rate", "salvage rate must be between 0 and 1")
	}
	exists, err := liveNameExists[DepreciationProfile](ctx, db, input.Name, 0, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.NewDuplicateError("depreciation profile", input.Name, "")
	}

	profile := DepreciationProfile{
		Name:            input.Name,
		UsefulLifeYears: input.UsefulLifeYears,
		SalvageRate:     input.SalvageRate,
	}
	if err := db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, utils.WrapStoreError("create depreciation profile", err)
	}
	return &profile, nil
}

func GetDepreciationProfile(ctx context.Context, db *gorm.DB, id int) (*DepreciationProfile, error) {
	return utils.FetchModel[DepreciationProfile](ctx, db, id)
}

// BookValue computes the straight-line book value of cost at asOf given the
// purchase date. Floors at salvage value.
func (p *DepreciationProfile) BookValue(cost decimal.Decimal, purchaseDate time.Time, asOf time.Time) decimal.Decimal {
	if p.UsefulLifeYears <= 0 || !asOf.After(purchaseDate) {
		return cost
	}
	salvage := cost.Mul(p.SalvageRate)
	depreciable := cost.Sub(salvage)
	totalDays := decimal.NewFromInt(int64(p.UsefulLifeYears) * 365)
	elapsedDays := decimal.NewFromInt(int64(asOf.Sub(purchaseDate).Hours() / 24))
	if elapsedDays.GreaterThanOrEqual(totalDays) {
		return salvage
	}
	return cost.Sub(depreciable.Mul(elapsedDays).Div(totalDays)).Round(4)
}
