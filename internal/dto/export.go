package dto

// ── export module DTOs ──

// Placement statuses as exported.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// ExportStudent is the presentation-layer row shape exports operate on.
// Export is a pure function of the submitted list: the caller sends the
// already-filtered rows it is looking at, and a stale list exports as-is.
type ExportStudent struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Specialty      string `json:"specialty"`
	Group          string `json:"group"`
	Institution    string `json:"institution"`
	Supervisor     string `json:"supervisor"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	TotalHours     int    `json:"total_hours"`
	CompletedHours int    `json:"completed_hours"`
	Status         string `json:"status"`
	City           string `json:"city"`
	Notes          string `json:"notes"`
}

// ExportRequest is the body of every export endpoint.
type ExportRequest struct {
	Students []ExportStudent `json:"students" binding:"required"`
}

// ExportPDFResponse returns the share link of the hosted document.
type ExportPDFResponse struct {
	URL string `json:"url"`
}
