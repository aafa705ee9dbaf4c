package attendance

const (
	SortAttendedOnDesc = "attended_on_desc"
	SortAttendedOnAsc  = "attended_on_asc"
	DefaultPageLimit   = 50
	MaxPageLimit       = 200
	DefaultSort        = SortAttendedOnDesc
	DateLayout         = "2006-01-02"
	TimeLayout         = "15:04"
)

type CheckInRequest struct {
	ChildID    string  `json:"child_id" binding:"required"`
	Time       string  `json:"time" binding:"required"`     // "HH:MM"
	AttendedOn *string `json:"attended_on,omitempty"`       // "YYYY-MM-DD" or "today"
	Note       *string `json:"note,omitempty"`
}

type CheckOutRequest struct {
	ChildID    string  `json:"child_id" binding:"required"`
	Time       string  `json:"time" binding:"required"` // "HH:MM"
	AttendedOn *string `json:"attended_on,omitempty"`
}

type AttendanceResponse struct {
	AttendanceID    string  `json:"attendance_id"`
	ChildID         string  `json:"child_id"`
	AttendedOn      string  `json:"attended_on"` // YYYY-MM-DD
	CheckIn         *string `json:"check_in,omitempty"`
	CheckOut        *string `json:"check_out,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	OvertimeAmount  int64   `json:"overtime_amount"`
	// Display-only weekend estimate; the persisted amount never includes the
	// weekend multiplier.
	WeekendPreviewAmount *int64  `json:"weekend_preview_amount,omitempty"`
	CheckedInBy          *string `json:"checked_in_by,omitempty"`
	CheckedOutBy         *string `json:"checked_out_by,omitempty"`
	Note                 *string `json:"note,omitempty"`
}

type ListQuery struct {
	ChildID *string
	On      *string
	From    *string
	To      *string
	Limit   int
	Offset  int
	Sort    string
}

type StatsRequest struct {
	ChildID string
	From    string // YYYY-MM-DD
	To      string // YYYY-MM-DD
}

type ChildStatsResponse struct {
	ChildID         string `json:"child_id"`
	From            string `json:"from"`
	To              string `json:"to"`
	DaysPresent     int64  `json:"days_present"`
	TotalMinutes    int64  `json:"total_minutes"`
	OvertimeMinutes int64  `json:"overtime_minutes"`
	OvertimeAmount  int64  `json:"overtime_amount"`
	OvertimeDays    int64  `json:"overtime_days"`
}
