package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

const selectColumns = `
	attendance_id, child_id, DATE_FORMAT(attended_on, '%Y-%m-%d') AS attended_on,
	check_in, check_out, duration_minutes, overtime_minutes, overtime_amount,
	checked_in_by, checked_out_by, note`

// UpsertCheckIn: child_id + attended_on（UNIQUE）でINSERTまたはUPDATE。
// check_out と派生値には触れない（再チェックインは打刻修正扱い）。
func (s *Store) UpsertCheckIn(ctx context.Context, id, childID, attendedOn string, checkIn time.Time, actorID string, note *string) (Attendance, bool, error) {
	// 新規: RowsAffected = 1 / 既存更新: RowsAffected = 2
	const q = `
	INSERT INTO attendances (attendance_id, child_id, attended_on, check_in, checked_in_by, note)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
	check_in      = VALUES(check_in),
	checked_in_by = VALUES(checked_in_by),
	note          = COALESCE(VALUES(note), note)`

	res, err := s.db.ExecContext(ctx, q, id, childID, attendedOn, checkIn, actorID, noteOrNil(note))
	if err != nil {
		return Attendance{}, false, err
	}
	aff, _ := res.RowsAffected()
	created := (aff == 1)

	rec, err := s.GetByChildDate(ctx, childID, attendedOn)
	if err != nil {
		return Attendance{}, created, err
	}
	if rec == nil {
		return Attendance{}, created, ErrInternal("inserted but not found")
	}
	return *rec, created, nil
}

func (s *Store) GetByChildDate(ctx context.Context, childID, attendedOn string) (*Attendance, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT`+selectColumns+`
	FROM attendances
	WHERE child_id = ? AND attended_on = ?`, childID, attendedOn)

	var r attendanceRow
	err := row.Scan(&r.AttendanceID, &r.ChildID, &r.AttendedOn, &r.CheckIn, &r.CheckOut,
		&r.DurationMinutes, &r.OvertimeMinutes, &r.OvertimeAmount,
		&r.CheckedInBy, &r.CheckedOutBy, &r.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := r.toModel()
	return &m, nil
}

// SetCheckOut: check_in が立っている行だけを条件付きUPDATE。
// affected=0 なら未チェックイン（レースも含む）。
func (s *Store) SetCheckOut(ctx context.Context, childID, attendedOn string, checkOut time.Time, actorID string, durationMinutes, overtimeMinutes int, overtimeAmount int64) (int64, error) {
	const q = `
	UPDATE attendances
	SET check_out = ?, checked_out_by = ?,
	    duration_minutes = ?, overtime_minutes = ?, overtime_amount = ?
	WHERE child_id = ? AND attended_on = ? AND check_in IS NOT NULL`

	res, err := s.db.ExecContext(ctx, q, checkOut, actorID,
		durationMinutes, overtimeMinutes, overtimeAmount, childID, attendedOn)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ChildStats: 期間内の出席集計（在園日数・延長分・延長料金）
func (s *Store) ChildStats(ctx context.Context, childID, from, to string) (ChildStats, error) {
	var st ChildStats
	err := s.db.QueryRowContext(ctx, `
	SELECT COUNT(*),
	       COALESCE(SUM(duration_minutes), 0),
	       COALESCE(SUM(overtime_minutes), 0),
	       COALESCE(SUM(overtime_amount), 0),
	       COALESCE(SUM(overtime_minutes > 0), 0)
	FROM attendances
	WHERE child_id = ? AND attended_on BETWEEN ? AND ?`,
		childID, from, to,
	).Scan(&st.DaysPresent, &st.TotalMinutes, &st.OvertimeMinutes, &st.OvertimeAmount, &st.OvertimeDays)
	if err != nil {
		return ChildStats{}, err
	}
	return st, nil
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, q ListQuery) ([]Attendance, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`
	SELECT` + selectColumns + `
	FROM attendances
	`)
	if q.ChildID != nil && *q.ChildID != "" {
		wheres = append(wheres, "child_id = ?")
		args = append(args, *q.ChildID)
	}
	if q.On != nil && *q.On != "" {
		wheres = append(wheres, "attended_on = ?")
		args = append(args, *q.On)
	} else {
		if q.From != nil && *q.From != "" {
			wheres = append(wheres, "attended_on >= ?")
			args = append(args, *q.From)
		}
		if q.To != nil && *q.To != "" {
			wheres = append(wheres, "attended_on <= ?")
			args = append(args, *q.To)
		}
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	switch q.Sort {
	case SortAttendedOnAsc:
		buf.WriteString(" ORDER BY attended_on ASC, attendance_id ASC")
	default:
		buf.WriteString(" ORDER BY attended_on DESC, attendance_id DESC")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		var r attendanceRow
		if err := rows.Scan(&r.AttendanceID, &r.ChildID, &r.AttendedOn, &r.CheckIn, &r.CheckOut,
			&r.DurationMinutes, &r.OvertimeMinutes, &r.OvertimeAmount,
			&r.CheckedInBy, &r.CheckedOutBy, &r.Note); err != nil {
			return nil, 0, err
		}
		out = append(out, r.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// COUNT（ORDER BY より前までを再構築）
	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM attendances")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Enrollment: 園児マスタから所属ブランチと契約パッケージを引く
func (s *Store) Enrollment(ctx context.Context, childID string) (*Enrollment, error) {
	var e Enrollment
	var disabledInt int
	err := s.db.QueryRowContext(ctx, `
	SELECT package_id, branch_id, is_disabled
	FROM children
	WHERE child_id = ?
	LIMIT 1`, childID,
	).Scan(&e.PackageID, &e.BranchID, &disabledInt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Disabled = disabledInt != 0
	return &e, nil
}

// ===== helpers =====

func noteOrNil(s *string) any {
	if s == nil {
		return nil
	}
	if *s == "" {
		return nil
	}
	return *s
}
