package invoices

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

func (s *Store) List(ctx context.Context, q ListQuery) ([]Invoice, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`
	SELECT invoice_id, child_id, month, year, base_amount, overtime_amount,
	       discount_amount, total_amount, status, paid_at, created_at
	FROM invoices
	`)
	if q.ChildID != nil && *q.ChildID != "" {
		wheres = append(wheres, "child_id = ?")
		args = append(args, *q.ChildID)
	}
	if q.Month != nil {
		wheres = append(wheres, "month = ?")
		args = append(args, *q.Month)
	}
	if q.Year != nil {
		wheres = append(wheres, "year = ?")
		args = append(args, *q.Year)
	}
	if q.Status != nil && *q.Status != "" {
		wheres = append(wheres, "status = ?")
		args = append(args, *q.Status)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	buf.WriteString(" ORDER BY year DESC, month DESC, invoice_id DESC")

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

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.InvoiceID, &inv.ChildID, &inv.Month, &inv.Year,
			&inv.BaseAmount, &inv.OvertimeAmount, &inv.DiscountAmount, &inv.TotalAmount,
			&inv.Status, &inv.PaidAt, &inv.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM invoices")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SummaryByStatus: 月次のステータス別集計。branch指定時は園児マスタ経由で絞り込み。
func (s *Store) SummaryByStatus(ctx context.Context, month, year int, branchID *string) ([]statusRow, error) {
	var buf bytes.Buffer
	args := []any{month, year}

	buf.WriteString(`
	SELECT i.status, COUNT(*),
	       COALESCE(SUM(i.base_amount), 0),
	       COALESCE(SUM(i.overtime_amount), 0),
	       COALESCE(SUM(i.discount_amount), 0),
	       COALESCE(SUM(i.total_amount), 0)
	FROM invoices i`)
	if branchID != nil && *branchID != "" {
		buf.WriteString(`
	JOIN children c ON c.child_id = i.child_id`)
	}
	buf.WriteString(`
	WHERE i.month = ? AND i.year = ?`)
	if branchID != nil && *branchID != "" {
		buf.WriteString(` AND c.branch_id = ?`)
		args = append(args, *branchID)
	}
	buf.WriteString(`
	GROUP BY i.status`)

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []statusRow
	for rows.Next() {
		var r statusRow
		if err := rows.Scan(&r.Status, &r.Count, &r.BaseSum, &r.OvertimeSum, &r.DiscountSum, &r.TotalSum); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
