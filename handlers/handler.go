package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meditrack/cmms_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewHandler(db *gorm.DB, logger *logrus.Logger) *Handler {
	return &Handler{DB: db, Logger: logger}
}

// respondError maps the error taxonomy onto HTTP statuses. Single-entity
// operations fail with one typed error; batch endpoints return structured
// results instead and never come through here for per-item failures.
func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	var notFoundErr *utils.NotFoundError
	var duplicateErr *utils.DuplicateError
	var configErr *utils.ConfigurationError
	var archiveErr *utils.CannotArchiveError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
	case errors.Is(err, utils.ErrorOverrideNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": err.Error()})
	case errors.As(err, &notFoundErr), errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate", "message": err.Error()})
	case errors.As(err, &archiveErr):
		c.JSON(http.StatusConflict, gin.H{"error": "cannot_archive", "message": err.Error()})
	case errors.As(err, &configErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "configuration_error", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_error", "message": err.Error()})
	}
}

func (h *Handler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "invalid request body",
			"fields":  utils.ProcessValidationErrors(err),
		})
		return false
	}
	return true
}
