package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meditrack/cmms_backend/models"
	"github.com/meditrack/cmms_backend/workflow"
)

func (h *Handler) CreateWorkOrder(c *gin.Context) {
	var req models.NewWorkOrder
	if !h.bindJSON(c, &req) {
		return
	}
	workOrder, err := models.CreateWorkOrder(c.Request.Context(), h.DB, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workOrder)
}

func (h *Handler) ListWorkOrders(c *gin.Context) {
	var assetId *int
	if v := c.Query("asset_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			assetId = &id
		}
	}
	var status *models.WorkOrderStatus
	if v := c.Query("status"); v != "" {
		s := models.WorkOrderStatus(v)
		status = &s
	}
	workOrders, err := models.GetWorkOrders(c.Request.Context(), h.DB, assetId, status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": workOrders})
}

func (h *Handler) GetWorkOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	workOrder, err := models.GetWorkOrder(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workOrder)
}

func (h *Handler) StartWorkOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	workOrder, err := models.StartWorkOrder(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workOrder)
}

func (h *Handler) CancelWorkOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	workOrder, err := models.CancelWorkOrder(c.Request.Context(), h.DB, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workOrder)
}

// CompleteWorkOrder marks a work order completed. For preventive maintenance
// orders this also rolls the asset's schedule forward and appends a history
// record.
func (h *Handler) CompleteWorkOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req struct {
		CompletionDate *time.Time `json:"completion_date"`
	}
	if c.Request.ContentLength > 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}
	completionDate := time.Now()
	if req.CompletionDate != nil {
		completionDate = *req.CompletionDate
	}
	workOrder, err := workflow.CompleteWorkOrder(c.Request.Context(), h.DB, h.Logger, id, completionDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workOrder)
}

// GenerateWorkOrders triggers a generation pass immediately instead of
// waiting for the scheduler tick. Returns 409 when a pass is already running.
func (h *Handler) GenerateWorkOrders(c *gin.Context) {
	result, err := workflow.GenerateDueWorkOrders(c.Request.Context(), h.DB, h.Logger, time.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if result.AlreadyRunning {
		c.JSON(http.StatusConflict, gin.H{"error": "already_running", "message": "a generation pass is already in progress"})
		return
	}
	c.JSON(http.StatusOK, result)
}
