package attendance

import "time"

// DB行に対応（スキャン用）
type attendanceRow struct {
	AttendanceID    string
	ChildID         string
	AttendedOn      string // DATE → "YYYY-MM-DD"
	CheckIn         *time.Time
	CheckOut        *time.Time
	DurationMinutes int
	OvertimeMinutes int
	OvertimeAmount  int64
	CheckedInBy     *string
	CheckedOutBy    *string
	Note            *string
}

// Model passed between Service and Store.
type Attendance struct {
	AttendanceID    string
	ChildID         string
	AttendedOn      string
	CheckIn         *time.Time
	CheckOut        *time.Time
	DurationMinutes int
	OvertimeMinutes int
	OvertimeAmount  int64
	CheckedInBy     *string
	CheckedOutBy    *string
	Note            *string
}

func (r attendanceRow) toModel() Attendance {
	a := Attendance{
		AttendanceID:    r.AttendanceID,
		ChildID:         r.ChildID,
		AttendedOn:      r.AttendedOn,
		DurationMinutes: r.DurationMinutes,
		OvertimeMinutes: r.OvertimeMinutes,
		OvertimeAmount:  r.OvertimeAmount,
		CheckedInBy:     r.CheckedInBy,
		CheckedOutBy:    r.CheckedOutBy,
		Note:            r.Note,
	}
	if r.CheckIn != nil {
		t := r.CheckIn.UTC()
		a.CheckIn = &t
	}
	if r.CheckOut != nil {
		t := r.CheckOut.UTC()
		a.CheckOut = &t
	}
	return a
}

func (a Attendance) toDTO() AttendanceResponse {
	res := AttendanceResponse{
		AttendanceID:    a.AttendanceID,
		ChildID:         a.ChildID,
		AttendedOn:      a.AttendedOn,
		DurationMinutes: a.DurationMinutes,
		OvertimeMinutes: a.OvertimeMinutes,
		OvertimeAmount:  a.OvertimeAmount,
		CheckedInBy:     a.CheckedInBy,
		CheckedOutBy:    a.CheckedOutBy,
		Note:            a.Note,
	}
	if a.CheckIn != nil {
		s := a.CheckIn.Format(TimeLayout)
		res.CheckIn = &s
	}
	if a.CheckOut != nil {
		s := a.CheckOut.Format(TimeLayout)
		res.CheckOut = &s
	}
	return res
}

// ChildStats is the per-child aggregate over an inclusive date range.
type ChildStats struct {
	DaysPresent     int64
	TotalMinutes    int64
	OvertimeMinutes int64
	OvertimeAmount  int64
	OvertimeDays    int64
}
