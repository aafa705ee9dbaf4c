package reports

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
	DateLayout       = "2006-01-02"
)

type SaveReportRequest struct {
	ChildID  string   `json:"child_id" binding:"required"`
	ReportOn *string  `json:"report_on,omitempty"` // "YYYY-MM-DD" or "today"
	Sections Sections `json:"sections"`
}

type ReportResponse struct {
	ReportID  string     `json:"report_id"`
	ChildID   string     `json:"child_id"`
	ReportOn  string     `json:"report_on"`
	Status    string     `json:"status"`
	Sections  Sections   `json:"sections"`
	CreatedBy string     `json:"created_by"`
	LockedBy  *string    `json:"locked_by,omitempty"`
	LockedAt  *time.Time `json:"locked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ListQuery struct {
	ChildID *string
	On      *string
	From    *string
	To      *string
	Status  *string
	Limit   int
	Offset  int
}
