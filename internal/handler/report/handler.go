package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/claimtrack-api/internal/export"
	"github.com/jwalitptl/claimtrack-api/internal/handler"
	"github.com/jwalitptl/claimtrack-api/internal/model"
	"github.com/jwalitptl/claimtrack-api/internal/service/report"
)

type Handler struct {
	service report.ReportService
}

func NewHandler(service report.ReportService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/statistics", h.GetStatistics)
	r.GET("/export", h.ExportClaims)
	r.GET("/export/formats", h.ListFormats)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	var filter model.ClaimFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	stats, err := h.service.Compute(c.Request.Context(), &filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) ExportClaims(c *gin.Context) {
	var filter model.ClaimFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	format := export.Format(c.DefaultQuery("format", string(export.FormatCSV)))

	payload, contentType, err := h.service.Export(c.Request.Context(), &filter, format)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filename := fmt.Sprintf("claims_%s.%s", time.Now().Format("20060102_150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func (h *Handler) ListFormats(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"formats": h.service.Formats()}))
}
