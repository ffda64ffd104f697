package dto

// ── record module DTOs ──

// RecordPayload carries the ten business fields of a placement record, in
// the fixed column order of the table. The layer below accepts any values
// that fit the column types; field-level validation belongs to the caller.
type RecordPayload struct {
	Specialty      string `json:"specialty"`
	Group          string `json:"group"`
	FullName       string `json:"full_name"`
	NationalID     string `json:"national_id"`
	PlacementDate  string `json:"placement_date"`
	TotalHours     int    `json:"total_hours"`
	Municipality   string `json:"municipality"`
	Institution    string `json:"institution"`
	SupervisorName string `json:"supervisor_name"`
	SupervisorID   string `json:"supervisor_id"`
}

// CreateRecordResponse reports the row position of the appended record.
type CreateRecordResponse struct {
	Position int `json:"position"`
}

// RecordResponse is one placement row with its current position.
// Positions are only valid as of this read; any delete shifts later rows.
type RecordResponse struct {
	Position int `json:"position"`
	RecordPayload
	SubmitterEmail string `json:"submitter_email"`
}

// RecordListRequest pages through the record table.
type RecordListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
