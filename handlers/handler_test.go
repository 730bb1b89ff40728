package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/meditrack/cmms_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.PMFrequency{},
		&models.DeviceType{}, &models.Manufacturer{}, &models.DeviceModel{},
		&models.PMProgram{}, &models.PMChecklist{}, &models.PMChecklistItem{},
		&models.EquipmentType{}, &models.EquipmentMake{}, &models.EquipmentModel{},
		&models.DepreciationProfile{},
		&models.Asset{},
		&models.WorkOrderType{}, &models.WorkOrder{},
		&models.MaintenanceHistoryRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	router := gin.New()
	NewHandler(db, l).RegisterRoutes(router)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestErrorStatusMapping(t *testing.T) {
	router, _ := newTestRouter(t)

	// validation error -> 400
	w := doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "Weekly", "days": -1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid frequency: got %d, want 400", w.Code)
	}

	// not found -> 404
	w = doJSON(t, router, http.MethodGet, "/api/assets/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing asset: got %d, want 404", w.Code)
	}

	// duplicate -> 409
	w = doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "Quarterly", "days": 90})
	if w.Code != http.StatusCreated {
		t.Fatalf("create frequency: got %d, want 201 (%s)", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "quarterly", "days": 90})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate frequency: got %d, want 409", w.Code)
	}
}

func TestOverrideEndpointForbiddenWithoutRole(t *testing.T) {
	router, db := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "Monthly", "days": 30})
	if w.Code != http.StatusCreated {
		t.Fatalf("create frequency: got %d (%s)", w.Code, w.Body.String())
	}
	var frequency models.PMFrequency
	if err := json.Unmarshal(w.Body.Bytes(), &frequency); err != nil {
		t.Fatalf("decode frequency: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/assets", gin.H{"name": "Pump"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create asset: got %d (%s)", w.Code, w.Body.String())
	}
	var asset models.Asset
	if err := json.Unmarshal(w.Body.Bytes(), &asset); err != nil {
		t.Fatalf("decode asset: %v", err)
	}

	w = doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/assets/%d/frequency-override", asset.ID),
		gin.H{"pm_frequency_id": frequency.ID, "reason": "loaner"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("override without role: got %d, want 403", w.Code)
	}

	// asset untouched
	var stored models.Asset
	if err := db.First(&stored, asset.ID).Error; err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	if stored.PMFrequencyOverrideId != nil {
		t.Fatal("override must not be applied without the role")
	}
}

func TestArchiveBlockedReturnsConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "Quarterly", "days": 90})
	if w.Code != http.StatusCreated {
		t.Fatalf("create frequency: got %d", w.Code)
	}
	var frequency models.PMFrequency
	if err := json.Unmarshal(w.Body.Bytes(), &frequency); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/device-types", gin.H{"name": "Ventilator"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create type: got %d", w.Code)
	}
	var deviceType models.DeviceType
	if err := json.Unmarshal(w.Body.Bytes(), &deviceType); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/manufacturers",
		gin.H{"name": "Drager", "device_type_id": deviceType.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create manufacturer: got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/device-types/%d", deviceType.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("archive referenced type: got %d, want 409", w.Code)
	}
}

func TestHierarchyUpdateAndToggleRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "Quarterly", "days": 90})
	if w.Code != http.StatusCreated {
		t.Fatalf("create frequency: got %d (%s)", w.Code, w.Body.String())
	}
	var frequency models.PMFrequency
	if err := json.Unmarshal(w.Body.Bytes(), &frequency); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/pm-frequencies/%d", frequency.ID),
		gin.H{"name": "Quarterly (13 weeks)", "days": 91})
	if w.Code != http.StatusOK {
		t.Fatalf("update frequency: got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/pm-frequencies/%d/active", frequency.ID),
		gin.H{"is_active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle frequency: got %d (%s)", w.Code, w.Body.String())
	}
	var toggledFrequency models.PMFrequency
	if err := json.Unmarshal(w.Body.Bytes(), &toggledFrequency); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if toggledFrequency.IsActive == nil || *toggledFrequency.IsActive {
		t.Fatal("frequency should be inactive after toggle")
	}
	doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/pm-frequencies/%d/active", frequency.ID),
		gin.H{"is_active": true})

	w = doJSON(t, router, http.MethodPost, "/api/device-types", gin.H{"name": "Defibrillator"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create type: got %d", w.Code)
	}
	var deviceType models.DeviceType
	if err := json.Unmarshal(w.Body.Bytes(), &deviceType); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/device-types/%d", deviceType.ID),
		gin.H{"name": "Defibrillator/AED"})
	if w.Code != http.StatusOK {
		t.Fatalf("update type: got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/manufacturers",
		gin.H{"name": "Zoll", "device_type_id": deviceType.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create manufacturer: got %d (%s)", w.Code, w.Body.String())
	}
	var manufacturer models.Manufacturer
	if err := json.Unmarshal(w.Body.Bytes(), &manufacturer); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/manufacturers/%d", manufacturer.ID),
		gin.H{"name": "ZOLL Medical", "device_type_id": deviceType.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("update manufacturer: got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/device-models",
		gin.H{"name": "R Series", "manufacturer_id": manufacturer.ID, "pm_frequency_id": frequency.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create model: got %d (%s)", w.Code, w.Body.String())
	}
	var model models.DeviceModel
	if err := json.Unmarshal(w.Body.Bytes(), &model); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/device-models/%d", model.ID),
		gin.H{"name": "R Series Plus", "manufacturer_id": manufacturer.ID, "pm_frequency_id": frequency.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("update model: got %d (%s)", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/device-models/%d/active", model.ID),
		gin.H{"is_active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle model: got %d (%s)", w.Code, w.Body.String())
	}
	var toggledModel models.DeviceModel
	if err := json.Unmarshal(w.Body.Bytes(), &toggledModel); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if toggledModel.IsActive == nil || *toggledModel.IsActive {
		t.Fatal("model should be inactive after toggle")
	}

	// missing body -> 400
	w = doJSON(t, router, http.MethodPatch,
		fmt.Sprintf("/api/manufacturers/%d/active", manufacturer.ID), gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("toggle without is_active: got %d, want 400", w.Code)
	}
}

func TestPMProgramAndChecklistLifecycleRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "Monthly", "days": 30})
	var frequency models.PMFrequency
	if err := json.Unmarshal(w.Body.Bytes(), &frequency); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPost, "/api/device-types", gin.H{"name": "Ventilator"})
	var deviceType models.DeviceType
	if err := json.Unmarshal(w.Body.Bytes(), &deviceType); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPost, "/api/manufacturers",
		gin.H{"name": "Drager", "device_type_id": deviceType.ID})
	var manufacturer models.Manufacturer
	if err := json.Unmarshal(w.Body.Bytes(), &manufacturer); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPost, "/api/device-models",
		gin.H{"name": "Evita V800", "manufacturer_id": manufacturer.ID, "pm_frequency_id": frequency.ID})
	var model models.DeviceModel
	if err := json.Unmarshal(w.Body.Bytes(), &model); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/pm-programs",
		gin.H{"device_model_id": model.ID, "pm_frequency_id": frequency.ID, "name": "Standard PM"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create program: got %d (%s)", w.Code, w.Body.String())
	}
	var program models.PMProgram
	if err := json.Unmarshal(w.Body.Bytes(), &program); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/pm-programs/%d", program.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get program: got %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/pm-programs/%d", program.ID),
		gin.H{"device_model_id": model.ID, "pm_frequency_id": frequency.ID, "name": "Standard PM v2"})
	if w.Code != http.StatusOK {
		t.Fatalf("update program: got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/pm-checklists",
		gin.H{"pm_program_id": program.ID, "name": "Quarterly checks",
			"items": []gin.H{{"name": "Inspect battery"}}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create checklist: got %d (%s)", w.Code, w.Body.String())
	}
	var checklist models.PMChecklist
	if err := json.Unmarshal(w.Body.Bytes(), &checklist); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// a live checklist blocks the program archive
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/pm-programs/%d", program.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("archive program with checklist: got %d, want 409", w.Code)
	}

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/pm-checklists/%d/active", checklist.ID),
		gin.H{"is_active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle checklist: got %d (%s)", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/pm-checklists/%d", checklist.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("archive checklist: got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/pm-programs/%d/active", program.ID),
		gin.H{"is_active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle program: got %d (%s)", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/pm-programs/%d", program.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("archive program: got %d (%s)", w.Code, w.Body.String())
	}
}

func TestEquipmentArchiveRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/pm-frequencies", gin.H{"name": "Annually", "days": 365})
	var frequency models.PMFrequency
	if err := json.Unmarshal(w.Body.Bytes(), &frequency); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPost, "/api/equipment/types", gin.H{"name": "Imaging"})
	var equipmentType models.EquipmentType
	if err := json.Unmarshal(w.Body.Bytes(), &equipmentType); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPost, "/api/equipment/makes",
		gin.H{"name": "GE", "equipment_type_id": equipmentType.ID})
	var equipmentMake models.EquipmentMake
	if err := json.Unmarshal(w.Body.Bytes(), &equipmentMake); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, router, http.MethodPost, "/api/equipment/models",
		gin.H{"name": "Voluson", "equipment_make_id": equipmentMake.ID, "pm_frequency_id": frequency.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("quick-add model: got %d (%s)", w.Code, w.Body.String())
	}
	var equipmentModel models.EquipmentModel
	if err := json.Unmarshal(w.Body.Bytes(), &equipmentModel); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/equipment/makes/%d", equipmentMake.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("archive make with model: got %d, want 409", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/equipment/models/%d", equipmentModel.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("archive model: got %d (%s)", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/equipment/makes/%d", equipmentMake.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("archive make: got %d (%s)", w.Code, w.Body.String())
	}
}
