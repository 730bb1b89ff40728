package models

import (
	"log"

	"github.com/meditrack/cmms_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
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
		log.Fatal(err)
	}
}
