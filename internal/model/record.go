package model

import "time"

// Record is one field-training placement row — table records.
//
// RecordID is an internal surrogate; the public addressing scheme is the
// 1-based row position with the header at position 1, so data rows occupy
// positions [2, count+1]. Positions are derived from RecordID order, which
// keeps them dense and makes every row after a deleted one shift up by one.
type Record struct {
	RecordID       uint64    `gorm:"primaryKey;autoIncrement"           json:"-"`
	Specialty      string    `gorm:"type:varchar(100);not null"         json:"specialty"`
	Group          string    `gorm:"column:group;type:varchar(50);not null" json:"group"`
	FullName       string    `gorm:"type:varchar(150);not null"         json:"full_name"`
	NationalID     string    `gorm:"type:varchar(50);not null"          json:"national_id"`
	PlacementDate  string    `gorm:"type:varchar(20);not null"          json:"placement_date"`
	TotalHours     int       `gorm:"not null"                           json:"total_hours"`
	Municipality   string    `gorm:"type:varchar(100);not null"         json:"municipality"`
	Institution    string    `gorm:"type:varchar(150);not null"         json:"institution"`
	SupervisorName string    `gorm:"type:varchar(150);not null"         json:"supervisor_name"`
	SupervisorID   string    `gorm:"type:varchar(50);not null"          json:"supervisor_id"`
	SubmitterEmail string    `gorm:"type:varchar(255);not null"         json:"submitter_email"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the table name.
func (Record) TableName() string { return "records" }

// HeaderOffset converts between row positions and zero-based data indices:
// position 1 is the header row, the first data row is position 2.
const HeaderOffset = 2
