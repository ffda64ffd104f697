package handler

import "stageflow/internal/service"

// Handler aggregates all handlers.
type Handler struct {
	Auth   *AuthHandler
	Record *RecordHandler
	Export *ExportHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Record: NewRecordHandler(svc.Record),
		Export: NewExportHandler(svc.Export),
	}
}
