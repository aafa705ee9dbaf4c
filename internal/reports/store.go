package reports

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
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
	report_id, child_id, DATE_FORMAT(report_on, '%Y-%m-%d') AS report_on,
	status, sections, created_by, locked_by, locked_at, created_at, updated_at`

// DB行（sections はJSON列）
type reportRow struct {
	ReportID  string
	ChildID   string
	ReportOn  string
	Status    string
	Sections  []byte
	CreatedBy string
	LockedBy  *string
	LockedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r reportRow) toModel() (Report, error) {
	rep := Report{
		ReportID:  r.ReportID,
		ChildID:   r.ChildID,
		ReportOn:  r.ReportOn,
		Status:    Status(r.Status),
		CreatedBy: r.CreatedBy,
		LockedBy:  r.LockedBy,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.LockedAt != nil {
		t := r.LockedAt.UTC()
		rep.LockedAt = &t
	}
	if len(r.Sections) > 0 {
		if err := json.Unmarshal(r.Sections, &rep.Sections); err != nil {
			return Report{}, err
		}
	}
	return rep, nil
}

func (s *Store) GetByChildDate(ctx context.Context, childID, reportOn string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT`+selectColumns+`
	FROM daily_reports
	WHERE child_id = ? AND report_on = ?`, childID, reportOn)
	return scanOne(row)
}

func (s *Store) GetByID(ctx context.Context, reportID string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT`+selectColumns+`
	FROM daily_reports
	WHERE report_id = ?`, reportID)
	return scanOne(row)
}

func (s *Store) Create(ctx context.Context, r Report) error {
	sections, err := json.Marshal(r.Sections)
	if err != nil {
		return err
	}
	const q = `
	INSERT INTO daily_reports
	  (report_id, child_id, report_on, status, sections, created_by, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q, r.ReportID, r.ChildID, r.ReportOn,
		string(r.Status), sections, r.CreatedBy, r.CreatedAt, r.UpdatedAt)
	return err
}

// UpdateSectionsIfDraft: status='draft' の行だけを条件付きUPDATE。
// affected=0 なら確定済み（レース含む）。
func (s *Store) UpdateSectionsIfDraft(ctx context.Context, reportID string, sections Sections, updatedAt time.Time) (int64, error) {
	buf, err := json.Marshal(sections)
	if err != nil {
		return 0, err
	}
	const q = `
	UPDATE daily_reports
	SET sections = ?, updated_at = ?
	WHERE report_id = ? AND status = 'draft'`
	res, err := s.db.ExecContext(ctx, q, buf, updatedAt, reportID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// LockIfDraft: 片方向の確定。二重ロックはDB側で弾ける（affected=0）。
func (s *Store) LockIfDraft(ctx context.Context, reportID, lockedBy string, lockedAt time.Time) (int64, error) {
	const q = `
	UPDATE daily_reports
	SET status = 'final', locked_by = ?, locked_at = ?, updated_at = ?
	WHERE report_id = ? AND status = 'draft'`
	res, err := s.db.ExecContext(ctx, q, lockedBy, lockedAt, lockedAt, reportID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]Report, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`
	SELECT` + selectColumns + `
	FROM daily_reports
	`)
	if q.ChildID != nil && *q.ChildID != "" {
		wheres = append(wheres, "child_id = ?")
		args = append(args, *q.ChildID)
	}
	if q.On != nil && *q.On != "" {
		wheres = append(wheres, "report_on = ?")
		args = append(args, *q.On)
	} else {
		if q.From != nil && *q.From != "" {
			wheres = append(wheres, "report_on >= ?")
			args = append(args, *q.From)
		}
		if q.To != nil && *q.To != "" {
			wheres = append(wheres, "report_on <= ?")
			args = append(args, *q.To)
		}
	}
	if q.Status != nil && *q.Status != "" {
		wheres = append(wheres, "status = ?")
		args = append(args, *q.Status)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	buf.WriteString(" ORDER BY report_on DESC, report_id DESC")

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

	var out []Report
	for rows.Next() {
		var r reportRow
		if err := rows.Scan(&r.ReportID, &r.ChildID, &r.ReportOn, &r.Status, &r.Sections,
			&r.CreatedBy, &r.LockedBy, &r.LockedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		rep, err := r.toModel()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM daily_reports")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanOne(row *sql.Row) (*Report, error) {
	var r reportRow
	err := row.Scan(&r.ReportID, &r.ChildID, &r.ReportOn, &r.Status, &r.Sections,
		&r.CreatedBy, &r.LockedBy, &r.LockedAt, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rep, err := r.toModel()
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
