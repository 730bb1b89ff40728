package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/meditrack/cmms_backend/config"
	"github.com/meditrack/cmms_backend/utils"
	"github.com/meditrack/cmms_backend/workflow"
)

// One-shot generation pass, for running from cron or by hand instead of
// the in-process scheduler loop.
func main() {
	asOfFlag := flag.String("as-of", "", "Optional: run the pass as of this date (YYYY-MM-DD). Defaults to now.")
	flag.Parse()

	asOf := time.Now()
	if *asOfFlag != "" {
		parsed, err := time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -as-of date %q: %v\n", *asOfFlag, err)
			os.Exit(1)
		}
		asOf = parsed
	}

	logger := config.GetLogger()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx := utils.SetCorrelationIdInContext(context.Background(), uuid.NewString())
	ctx = utils.SetUserNameInContext(ctx, "GenerateWorkOrders")

	result, err := workflow.GenerateDueWorkOrders(ctx, db, logger, asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generation pass failed:", err)
		os.Exit(1)
	}
	if result.AlreadyRunning {
		fmt.Fprintln(os.Stderr, "a generation pass is already running in this process")
		os.Exit(1)
	}

	fmt.Printf("generated=%d skipped=%d errors=%d as_of=%s\n",
		result.Generated, result.Skipped, len(result.Errors), result.AsOf.Format("2006-01-02"))
	for _, genErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "asset %d (%s): %s\n", genErr.AssetId, genErr.Tag, genErr.Message)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
