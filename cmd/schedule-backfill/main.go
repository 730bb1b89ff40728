package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/meditrack/cmms_backend/config"
	"github.com/meditrack/cmms_backend/models"
	"github.com/meditrack/cmms_backend/utils"
)

// Recomputes next-maintenance dates and compliance for every active asset.
// Run after bulk imports or after editing frequency catalog entries, since
// catalog edits do not fan out to assets automatically.
func main() {
	assetID := flag.Int("asset-id", 0, "Optional: recompute a single asset. If omitted, recomputes all active assets.")
	dryRun := flag.Bool("dry-run", false, "Report what would change without writing.")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx := utils.SetUserNameInContext(context.Background(), "ScheduleBackfill")
	now := time.Now()

	var assets []*models.Asset
	query := db.WithContext(ctx).Where("status = ?", models.AssetStatusActive)
	if *assetID > 0 {
		query = db.WithContext(ctx).Where("id = ?", *assetID)
	}
	if err := query.Find(&assets).Error; err != nil {
		fmt.Fprintln(os.Stderr, "failed to list assets:", err)
		os.Exit(1)
	}
	if len(assets) == 0 {
		fmt.Fprintln(os.Stderr, "no assets to recompute")
		return
	}

	updated, failed := 0, 0
	for _, asset := range assets {
		if *dryRun {
			resolution, err := models.ResolveEffectiveFrequency(ctx, db, asset)
			if err != nil {
				fmt.Fprintf(os.Stderr, "asset %d (%s): %v\n", asset.ID, asset.Tag, err)
				failed++
				continue
			}
			next, err := models.NextMaintenanceDate(asset.LastMaintenance, resolution.Days, now)
			if err != nil {
				fmt.Fprintf(os.Stderr, "asset %d (%s): %v\n", asset.ID, asset.Tag, err)
				failed++
				continue
			}
			fmt.Printf("asset %d (%s): every %d days (%s), next due %s\n",
				asset.ID, asset.Tag, resolution.Days, resolution.Tier, next.Format("2006-01-02"))
			updated++
			continue
		}
		if err := models.RecomputeAssetSchedule(ctx, db, asset, now); err != nil {
			fmt.Fprintf(os.Stderr, "asset %d (%s): %v\n", asset.ID, asset.Tag, err)
			failed++
			continue
		}
		updated++
	}

	fmt.Printf("recomputed=%d failed=%d dry_run=%v\n", updated, failed, *dryRun)
	if failed > 0 {
		os.Exit(1)
	}
}
