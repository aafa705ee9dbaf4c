package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

type InvoiceStore interface {
	List(ctx context.Context, q ListQuery) ([]Invoice, int64, error)
	SummaryByStatus(ctx context.Context, month, year int, branchID *string) ([]statusRow, error)
}

// ===== Service =====

// Amounts are IDR whole units; the dashboard shows them with dot grouping.
var display = message.NewPrinter(language.Indonesian)

type Service struct {
	store InvoiceStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

// GET /invoices/summary
//
// Pure read: filters by month/year (and branch via the child registry),
// sums the amount columns and buckets Draft/Approved/Paid. Safe to call
// concurrently; nothing here writes.
func (s *Service) FinancialSummary(ctx context.Context, req SummaryRequest) (FinancialSummaryResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return FinancialSummaryResponse{}, ErrInvalid("month must be 1-12")
	}
	if req.Year < 2000 || req.Year > 2100 {
		return FinancialSummaryResponse{}, ErrInvalid("year out of range")
	}

	rows, err := s.store.SummaryByStatus(ctx, req.Month, req.Year, req.BranchID)
	if err != nil {
		return FinancialSummaryResponse{}, err
	}

	res := FinancialSummaryResponse{
		Month:    req.Month,
		Year:     req.Year,
		BranchID: req.BranchID,
	}
	for _, r := range rows {
		res.InvoiceCount += r.Count
		res.TotalBase += r.BaseSum
		res.TotalOvertime += r.OvertimeSum
		res.TotalDiscount += r.DiscountSum
		res.TotalAmount += r.TotalSum

		switch r.Status {
		case StatusDraft:
			res.Draft = StatusBucket{Count: r.Count, Amount: r.TotalSum}
		case StatusApproved:
			res.Approved = StatusBucket{Count: r.Count, Amount: r.TotalSum}
		case StatusPaid:
			res.Paid = StatusBucket{Count: r.Count, Amount: r.TotalSum}
		}
	}
	res.TotalDisplay = display.Sprintf("%d", res.TotalAmount)
	return res, nil
}

// GET /invoices
func (s *Service) List(ctx context.Context, q ListQuery) ([]InvoiceResponse, int64, error) {
	if q.Month != nil && (*q.Month < 1 || *q.Month > 12) {
		return nil, 0, ErrInvalid("month must be 1-12")
	}
	if q.Status != nil {
		switch *q.Status {
		case StatusDraft, StatusApproved, StatusPaid, StatusPending, StatusOverdue:
		default:
			return nil, 0, ErrInvalid("unknown status")
		}
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}
