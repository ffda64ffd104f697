package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stageflow/internal/dto"
	"stageflow/internal/service"
	"stageflow/pkg/response"
)

// ExportHandler serves the export module endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportPDF renders and hosts a PDF report, returning its share link.
// POST /api/v1/export/pdf
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	url, err := h.exportSvc.ExportPDF(c.Request.Context(), req.Students)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.OK(c, dto.ExportPDFResponse{URL: url})
}

// ExportCSV streams a CSV report as a download.
// POST /api/v1/export/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	buf, filename, err := h.exportSvc.ExportCSV(req.Students)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	serveFile(c, filename, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX streams an Excel report as a download.
// POST /api/v1/export/xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	buf, filename, err := h.exportSvc.ExportXLSX(req.Students)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	serveFile(c, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportICS streams a placement calendar as a download.
// POST /api/v1/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	buf, filename, err := h.exportSvc.ExportICS(req.Students)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	serveFile(c, filename, "text/calendar; charset=utf-8", buf.Bytes())
}

func serveFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// handleExportError maps export module errors to responses.
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportRender):
		response.Error(c, http.StatusInternalServerError, 13001, "failed to generate export document")
	case errors.Is(err, service.ErrExportUpload):
		response.Error(c, http.StatusBadGateway, 13002, "failed to host export document")
	default:
		response.InternalError(c)
	}
}
