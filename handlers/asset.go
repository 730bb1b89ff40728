package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meditrack/cmms_backend/models"
)

func (h *Handler) CreateAsset(c *gin.Context) {
	var req models.NewAsset
	if !h.bindJSON(c, &req) {
		return
	}
	asset, err := models.CreateAsset(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) ListAssets(c *gin.Context) {
	var status *models.AssetStatus
	if v := c.Query("status"); v != "" {
		s := models.AssetStatus(v)
		status = &s
	}
	assets, err := models.GetAssets(c.Request.Context(), h.DB, status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assets})
}

func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	asset, err := models.GetAsset(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) UpdateAssetSchedule(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req models.AssetScheduleEdit
	if !h.bindJSON(c, &req) {
		return
	}
	asset, err := models.UpdateAssetSchedule(c.Request.Context(), h.DB, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// SetAssetFrequencyOverride pins an asset to a frequency regardless of what
// its model hierarchy says. The caller's context must carry the override
// permission or the models layer rejects the write.
func (h *Handler) SetAssetFrequencyOverride(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req struct {
		PMFrequencyId int    `json:"pm_frequency_id" binding:"required"`
		Reason        string `json:"reason" binding:"required"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	asset, err := models.SetPMFrequencyOverride(c.Request.Context(), h.DB, id, req.PMFrequencyId, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) ClearAssetFrequencyOverride(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	asset, err := models.ClearPMFrequencyOverride(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) GetAssetFrequency(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	asset, err := models.GetAsset(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	resolution, err := models.ResolveEffectiveFrequency(c.Request.Context(), h.DB, asset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolution)
}

func (h *Handler) RetireAsset(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	asset, err := models.RetireAsset(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) GetAssetMaintenanceHistory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	records, err := models.GetMaintenanceHistoryForAsset(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}
