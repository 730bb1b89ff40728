package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/meditrack/cmms_backend/config"
	"github.com/meditrack/cmms_backend/models"
	"github.com/meditrack/cmms_backend/utils"
)

// Seeds the reference data a fresh installation needs before the
// scheduler can generate anything: the PM work order type and the
// standard frequency catalog. With -demo, also a small device hierarchy
// to click around in.
func main() {
	demo := flag.Bool("demo", false, "Also seed a demo device hierarchy.")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	models.MigrateTable()

	ctx = utils.SetUserNameInContext(ctx, "SeedReferenceData")

	workOrderTypes := []models.NewWorkOrderType{
		{Name: "Preventive Maintenance", Code: "PM"},
		{Name: "Corrective Maintenance", Code: "CM"},
	}
	for _, input := range workOrderTypes {
		if _, err := models.CreateWorkOrderType(ctx, db, &input); err != nil {
			if utils.IsDuplicateError(err) {
				fmt.Printf("work order type %q already present; skipping\n", input.Code)
				continue
			}
			fmt.Fprintf(os.Stderr, "failed to seed work order type %q: %v\n", input.Code, err)
			os.Exit(1)
		}
		fmt.Printf("seeded work order type %q\n", input.Code)
	}

	frequencies := []models.NewPMFrequency{
		{Name: "Monthly", Days: 30},
		{Name: "Quarterly", Days: 90},
		{Name: "Semi-Annually", Days: 180},
		{Name: "Annually", Days: 365},
	}
	for _, input := range frequencies {
		if _, err := models.CreatePMFrequency(ctx, db, &input); err != nil {
			if utils.IsDuplicateError(err) {
				fmt.Printf("pm frequency %q already present; skipping\n", input.Name)
				continue
			}
			fmt.Fprintf(os.Stderr, "failed to seed pm frequency %q: %v\n", input.Name, err)
			os.Exit(1)
		}
		fmt.Printf("seeded pm frequency %q (%d days)\n", input.Name, input.Days)
	}

	// Sanity check: resolution must find the PM type we just seeded.
	if _, err := models.ResolvePMWorkOrderType(ctx, db); err != nil {
		var configErr *utils.ConfigurationError
		if errors.As(err, &configErr) {
			fmt.Fprintln(os.Stderr, "pm work order type still unresolvable after seeding:", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "failed to verify pm work order type:", err)
		os.Exit(1)
	}
	if *demo {
		if err := seedDemoHierarchy(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "failed to seed demo hierarchy:", err)
			os.Exit(1)
		}
		fmt.Println("demo hierarchy seeded")
	}

	fmt.Println("reference data seeded")
}

func seedDemoHierarchy(ctx context.Context) error {
	db := config.GetDB()

	frequencies, err := models.GetPMFrequencies(ctx, db)
	if err != nil {
		return err
	}
	var quarterly *models.PMFrequency
	for _, f := range frequencies {
		if f.Days == 90 {
			quarterly = f
			break
		}
	}
	if quarterly == nil {
		return fmt.Errorf("no 90-day frequency to attach the demo model to")
	}

	deviceType, err := models.CreateDeviceType(ctx, db, &models.NewDeviceType{
		Name:        "Infusion Pump",
		Description: "Volumetric and syringe infusion pumps",
	})
	if err != nil {
		if utils.IsDuplicateError(err) {
			fmt.Println("demo hierarchy already present; skipping")
			return nil
		}
		return err
	}
	manufacturer, err := models.CreateManufacturer(ctx, db, &models.NewManufacturer{
		Name:         "Baxter",
		DeviceTypeId: deviceType.ID,
	})
	if err != nil {
		return err
	}
	model, err := models.CreateDeviceModel(ctx, db, &models.NewDeviceModel{
		Name:           "Sigma Spectrum",
		ManufacturerId: manufacturer.ID,
		PMFrequencyId:  quarterly.ID,
	})
	if err != nil {
		return err
	}
	_, err = models.CreateAsset(ctx, db, &models.NewAsset{
		Name:          "Infusion Pump 01",
		Location:      "ICU Bay 3",
		DeviceModelId: &model.ID,
	})
	return err
}
