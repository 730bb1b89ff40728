package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meditrack/cmms_backend/models"
)

// RegisterRoutes wires every endpoint under /api.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	frequencies := api.Group("/pm-frequencies")
	frequencies.POST("", h.CreatePMFrequency)
	frequencies.GET("", h.ListPMFrequencies)
	frequencies.PUT("/:id", h.UpdatePMFrequency)
	frequencies.PATCH("/:id/active", h.TogglePMFrequency)
	frequencies.DELETE("/:id", h.ArchivePMFrequency)

	deviceTypes := api.Group("/device-types")
	deviceTypes.POST("", h.CreateDeviceType)
	deviceTypes.GET("", h.ListDeviceTypes)
	deviceTypes.PUT("/:id", h.UpdateDeviceType)
	deviceTypes.PATCH("/:id/active", h.ToggleDeviceType)
	deviceTypes.DELETE("/:id", h.ArchiveDeviceType)

	manufacturers := api.Group("/manufacturers")
	manufacturers.POST("", h.CreateManufacturer)
	manufacturers.GET("", h.ListManufacturers)
	manufacturers.PUT("/:id", h.UpdateManufacturer)
	manufacturers.PATCH("/:id/active", h.ToggleManufacturer)
	manufacturers.DELETE("/:id", h.ArchiveManufacturer)

	deviceModels := api.Group("/device-models")
	deviceModels.POST("", h.CreateDeviceModel)
	deviceModels.GET("", h.ListDeviceModels)
	deviceModels.PUT("/:id", h.UpdateDeviceModel)
	deviceModels.PATCH("/:id/active", h.ToggleDeviceModel)
	deviceModels.DELETE("/:id", h.ArchiveDeviceModel)

	api.POST("/hierarchy/validate", h.ValidateHierarchy)
	api.POST("/equipment/validate", h.ValidateEquipmentHierarchy)

	programs := api.Group("/pm-programs")
	programs.POST("", h.CreatePMProgram)
	programs.GET("/:id", h.GetPMProgram)
	programs.PUT("/:id", h.UpdatePMProgram)
	programs.PATCH("/:id/active", h.TogglePMProgram)
	programs.DELETE("/:id", h.ArchivePMProgram)

	checklists := api.Group("/pm-checklists")
	checklists.POST("", h.CreatePMChecklist)
	checklists.GET("/:id", h.GetPMChecklist)
	checklists.PATCH("/:id/active", h.TogglePMChecklist)
	checklists.DELETE("/:id", h.ArchivePMChecklist)

	equipment := api.Group("/equipment")
	equipment.POST("/types", h.QuickAddEquipmentType)
	equipment.POST("/makes", h.QuickAddEquipmentMake)
	equipment.DELETE("/makes/:id", h.ArchiveEquipmentMake)
	equipment.POST("/models", h.QuickAddEquipmentModel)
	equipment.DELETE("/models/:id", h.ArchiveEquipmentModel)

	assets := api.Group("/assets")
	assets.POST("", h.CreateAsset)
	assets.GET("", h.ListAssets)
	assets.GET("/:id", h.GetAsset)
	assets.PUT("/:id/schedule", h.UpdateAssetSchedule)
	assets.PUT("/:id/frequency-override", h.SetAssetFrequencyOverride)
	assets.DELETE("/:id/frequency-override", h.ClearAssetFrequencyOverride)
	assets.GET("/:id/frequency", h.GetAssetFrequency)
	assets.POST("/:id/retire", h.RetireAsset)
	assets.GET("/:id/history", h.GetAssetMaintenanceHistory)

	workOrders := api.Group("/work-orders")
	workOrders.POST("", h.CreateWorkOrder)
	workOrders.GET("", h.ListWorkOrders)
	workOrders.GET("/:id", h.GetWorkOrder)
	workOrders.POST("/:id/start", h.StartWorkOrder)
	workOrders.POST("/:id/cancel", h.CancelWorkOrder)
	workOrders.POST("/:id/complete", h.CompleteWorkOrder)
	workOrders.POST("/generate", h.GenerateWorkOrders)

	api.POST("/work-order-types", h.CreateWorkOrderType)
	api.GET("/work-order-types", h.ListWorkOrderTypes)

	reports := api.Group("/reports")
	reports.GET("/compliance", h.ComplianceSummary)
	reports.GET("/asset-value", h.AssetValueSummary)
}

func (h *Handler) CreateWorkOrderType(c *gin.Context) {
	var req models.NewWorkOrderType
	if !h.bindJSON(c, &req) {
		return
	}
	workOrderType, err := models.CreateWorkOrderType(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workOrderType)
}

func (h *Handler) ListWorkOrderTypes(c *gin.Context) {
	types, err := models.GetWorkOrderTypes(c.Request.Context(), h.DB)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}
