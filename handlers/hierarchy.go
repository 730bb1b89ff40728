package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meditrack/cmms_backend/models"
)

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid id"})
		return 0, false
	}
	return id, true
}

// bindToggle reads the {"is_active": bool} body shared by all PATCH
// :id/active endpoints.
func (h *Handler) bindToggle(c *gin.Context) (bool, bool) {
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if !h.bindJSON(c, &req) {
		return false, false
	}
	return *req.IsActive, true
}

/* ========= PM FREQUENCIES ========= */

func (h *Handler) CreatePMFrequency(c *gin.Context) {
	var req models.NewPMFrequency
	if !h.bindJSON(c, &req) {
		return
	}
	frequency, err := models.CreatePMFrequency(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, frequency)
}

func (h *Handler) ListPMFrequencies(c *gin.Context) {
	frequencies, err := models.GetPMFrequencies(c.Request.Context(), h.DB)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": frequencies})
}

func (h *Handler) UpdatePMFrequency(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req models.NewPMFrequency
	if !h.bindJSON(c, &req) {
		return
	}
	frequency, err := models.UpdatePMFrequency(c.Request.Context(), h.DB, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frequency)
}

func (h *Handler) TogglePMFrequency(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	isActive, ok := h.bindToggle(c)
	if !ok {
		return
	}
	frequency, err := models.ToggleActivePMFrequency(c.Request.Context(), h.DB, id, isActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frequency)
}

func (h *Handler) ArchivePMFrequency(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchivePMFrequency(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/* ========= DEVICE TYPES ========= */

func (h *Handler) CreateDeviceType(c *gin.Context) {
	var req models.NewDeviceType
	if !h.bindJSON(c, &req) {
		return
	}
	deviceType, err := models.CreateDeviceType(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deviceType)
}

func (h *Handler) ListDeviceTypes(c *gin.Context) {
	var name *string
	if v := c.Query("name"); v != "" {
		name = &v
	}
	deviceTypes, err := models.GetDeviceTypes(c.Request.Context(), h.DB, name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": deviceTypes})
}

func (h *Handler) UpdateDeviceType(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req models.NewDeviceType
	if !h.bindJSON(c, &req) {
		return
	}
	deviceType, err := models.UpdateDeviceType(c.Request.Context(), h.DB, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deviceType)
}

func (h *Handler) ToggleDeviceType(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	isActive, ok := h.bindToggle(c)
	if !ok {
		return
	}
	deviceType, err := models.ToggleActiveDeviceType(c.Request.Context(), h.DB, id, isActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deviceType)
}

func (h *Handler) ArchiveDeviceType(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchiveDeviceType(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/* ========= MANUFACTURERS ========= */

func (h *Handler) CreateManufacturer(c *gin.Context) {
	var req models.NewManufacturer
	if !h.bindJSON(c, &req) {
		return
	}
	manufacturer, err := models.CreateManufacturer(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, manufacturer)
}

func (h *Handler) ListManufacturers(c *gin.Context) {
	var deviceTypeId *int
	if v := c.Query("device_type_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			deviceTypeId = &id
		}
	}
	manufacturers, err := models.GetManufacturers(c.Request.Context(), h.DB, deviceTypeId)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": manufacturers})
}

func (h *Handler) UpdateManufacturer(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req models.NewManufacturer
	if !h.bindJSON(c, &req) {
		return
	}
	manufacturer, err := models.UpdateManufacturer(c.Request.Context(), h.DB, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manufacturer)
}

func (h *Handler) ToggleManufacturer(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	isActive, ok := h.bindToggle(c)
	if !ok {
		return
	}
	manufacturer, err := models.ToggleActiveManufacturer(c.Request.Context(), h.DB, id, isActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manufacturer)
}

func (h *Handler) ArchiveManufacturer(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchiveManufacturer(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/* ========= DEVICE MODELS ========= */

func (h *Handler) CreateDeviceModel(c *gin.Context) {
	var req models.NewDeviceModel
	if !h.bindJSON(c, &req) {
		return
	}
	model, err := models.CreateDeviceModel(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model)
}

func (h *Handler) ListDeviceModels(c *gin.Context) {
	var manufacturerId *int
	if v := c.Query("manufacturer_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			manufacturerId = &id
		}
	}
	deviceModels, err := models.GetDeviceModels(c.Request.Context(), h.DB, manufacturerId)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": deviceModels})
}

func (h *Handler) UpdateDeviceModel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req models.NewDeviceModel
	if !h.bindJSON(c, &req) {
		return
	}
	model, err := models.UpdateDeviceModel(c.Request.Context(), h.DB, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model)
}

func (h *Handler) ToggleDeviceModel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	isActive, ok := h.bindToggle(c)
	if !ok {
		return
	}
	model, err := models.ToggleActiveDeviceModel(c.Request.Context(), h.DB, id, isActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model)
}

func (h *Handler) ArchiveDeviceModel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchiveDeviceModel(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateHierarchy returns every broken link in a type/manufacturer/model
// chain at once, for form display.
func (h *Handler) ValidateHierarchy(c *gin.Context) {
	var req struct {
		DeviceTypeId   int `json:"device_type_id" binding:"required"`
		ManufacturerId int `json:"manufacturer_id" binding:"required"`
		DeviceModelId  int `json:"device_model_id" binding:"required"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	issues, err := models.ValidateHierarchyComplete(c.Request.Context(), h.DB,
		req.DeviceTypeId, req.ManufacturerId, req.DeviceModelId)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(issues) == 0, "issues": issues})
}

// ValidateEquipmentHierarchy is the legacy-schema counterpart.
func (h *Handler) ValidateEquipmentHierarchy(c *gin.Context) {
	var req struct {
		EquipmentTypeId  int `json:"equipment_type_id" binding:"required"`
		EquipmentMakeId  int `json:"equipment_make_id" binding:"required"`
		EquipmentModelId int `json:"equipment_model_id" binding:"required"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	issues, err := models.ValidateEquipmentHierarchyComplete(c.Request.Context(), h.DB,
		req.EquipmentTypeId, req.EquipmentMakeId, req.EquipmentModelId)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(issues) == 0, "issues": issues})
}

/* ========= PM PROGRAMS & CHECKLISTS ========= */

func (h *Handler) CreatePMProgram(c *gin.Context) {
	var req models.NewPMProgram
	if !h.bindJSON(c, &req) {
		return
	}
	program, err := models.CreatePMProgram(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *Handler) GetPMProgram(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	program, err := models.GetPMProgram(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *Handler) UpdatePMProgram(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req models.NewPMProgram
	if !h.bindJSON(c, &req) {
		return
	}
	program, err := models.UpdatePMProgram(c.Request.Context(), h.DB, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *Handler) TogglePMProgram(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	isActive, ok := h.bindToggle(c)
	if !ok {
		return
	}
	program, err := models.ToggleActivePMProgram(c.Request.Context(), h.DB, id, isActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *Handler) ArchivePMProgram(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchivePMProgram(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreatePMChecklist(c *gin.Context) {
	var req models.NewPMChecklist
	if !h.bindJSON(c, &req) {
		return
	}
	checklist, err := models.CreatePMChecklist(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checklist)
}

func (h *Handler) GetPMChecklist(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	checklist, err := models.GetPMChecklist(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklist)
}

func (h *Handler) TogglePMChecklist(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	isActive, ok := h.bindToggle(c)
	if !ok {
		return
	}
	checklist, err := models.ToggleActivePMChecklist(c.Request.Context(), h.DB, id, isActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklist)
}

func (h *Handler) ArchivePMChecklist(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchivePMChecklist(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/* ========= LEGACY EQUIPMENT QUICK-ADD ========= */

func (h *Handler) QuickAddEquipmentType(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := models.QuickAddEquipmentType(c.Request.Context(), h.DB, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) QuickAddEquipmentMake(c *gin.Context) {
	var req struct {
		Name            string `json:"name" binding:"required"`
		EquipmentTypeId int    `json:"equipment_type_id" binding:"required"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := models.QuickAddEquipmentMake(c.Request.Context(), h.DB, req.Name, req.EquipmentTypeId)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) QuickAddEquipmentModel(c *gin.Context) {
	var req struct {
		Name            string `json:"name" binding:"required"`
		EquipmentMakeId int    `json:"equipment_make_id" binding:"required"`
		PMFrequencyId   int    `json:"pm_frequency_id"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := models.QuickAddEquipmentModel(c.Request.Context(), h.DB,
		req.Name, req.EquipmentMakeId, req.PMFrequencyId)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) ArchiveEquipmentMake(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchiveEquipmentMake(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ArchiveEquipmentModel(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.ArchiveEquipmentModel(c.Request.Context(), h.DB, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
