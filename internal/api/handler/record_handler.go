package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"stageflow/internal/dto"
	"stageflow/internal/service"
	"stageflow/pkg/response"
)

// RecordHandler serves the record module endpoints.
type RecordHandler struct {
	recordSvc service.RecordService
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(recordSvc service.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// Create appends a placement record.
// POST /api/v1/records
func (h *RecordHandler) Create(c *gin.Context) {
	var req dto.RecordPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	actorEmail, ok := MustGetEmail(c)
	if !ok {
		return
	}

	position, err := h.recordSvc.Create(c.Request.Context(), &req, actorEmail)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.Created(c, dto.CreateRecordResponse{Position: position})
}

// List pages through the record table.
// GET /api/v1/records
func (h *RecordHandler) List(c *gin.Context) {
	var req dto.RecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	records, total, err := h.recordSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	response.OKPage(c, records, total, page, pageSize)
}

// Update overwrites the record at a row position.
// PUT /api/v1/records/:position
func (h *RecordHandler) Update(c *gin.Context) {
	position, ok := positionParam(c)
	if !ok {
		return
	}

	var req dto.RecordPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	actorEmail, ok := MustGetEmail(c)
	if !ok {
		return
	}

	if err := h.recordSvc.Update(c.Request.Context(), position, &req, actorEmail); err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.OK(c, nil)
}

// Delete removes the record at a row position.
// DELETE /api/v1/records/:position
func (h *RecordHandler) Delete(c *gin.Context) {
	position, ok := positionParam(c)
	if !ok {
		return
	}

	actorEmail, ok := MustGetEmail(c)
	if !ok {
		return
	}

	if err := h.recordSvc.Delete(c.Request.Context(), position, actorEmail); err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.OK(c, nil)
}

// positionParam parses the :position path parameter.
func positionParam(c *gin.Context) (int, bool) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		response.BadRequest(c, 10001, "position must be an integer")
		return 0, false
	}
	return position, true
}

// handleRecordError maps record module errors to responses.
func (h *RecordHandler) handleRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRowNotFound):
		response.NotFound(c, 12001, "no record at that row position")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "admin role required")
	default:
		response.InternalError(c)
	}
}
