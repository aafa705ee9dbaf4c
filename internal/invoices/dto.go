package invoices

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type InvoiceResponse struct {
	InvoiceID      string     `json:"invoice_id"`
	ChildID        string     `json:"child_id"`
	Month          int        `json:"month"`
	Year           int        `json:"year"`
	BaseAmount     int64      `json:"base_amount"`
	OvertimeAmount int64      `json:"overtime_amount"`
	DiscountAmount int64      `json:"discount_amount"`
	TotalAmount    int64      `json:"total_amount"`
	Status         string     `json:"status"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ListQuery struct {
	ChildID *string
	Month   *int
	Year    *int
	Status  *string
	Limit   int
	Offset  int
}

type SummaryRequest struct {
	Month    int
	Year     int
	BranchID *string
}

type StatusBucket struct {
	Count  int64 `json:"count"`
	Amount int64 `json:"amount"`
}

type FinancialSummaryResponse struct {
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	BranchID      *string `json:"branch_id,omitempty"`
	InvoiceCount  int64   `json:"invoice_count"`
	TotalBase     int64   `json:"total_base"`
	TotalOvertime int64   `json:"total_overtime"`
	TotalDiscount int64   `json:"total_discount"`
	TotalAmount   int64   `json:"total_amount"`
	// TotalDisplay is the grand total grouped for the dashboard, e.g. "12.345.678".
	TotalDisplay string       `json:"total_display"`
	Draft        StatusBucket `json:"draft"`
	Approved     StatusBucket `json:"approved"`
	Paid         StatusBucket `json:"paid"`
}
