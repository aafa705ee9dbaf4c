package invoices

import "time"

// Invoice records are produced by the billing flow outside this service;
// this package only reads them for listings and monthly roll-ups.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusPaid     = "paid"
	StatusPending  = "pending"
	StatusOverdue  = "overdue"
)

type Invoice struct {
	InvoiceID      string
	ChildID        string
	Month          int
	Year           int
	BaseAmount     int64
	OvertimeAmount int64
	DiscountAmount int64
	TotalAmount    int64
	Status         string
	PaidAt         *time.Time
	CreatedAt      time.Time
}

func (i Invoice) toDTO() InvoiceResponse {
	res := InvoiceResponse{
		InvoiceID:      i.InvoiceID,
		ChildID:        i.ChildID,
		Month:          i.Month,
		Year:           i.Year,
		BaseAmount:     i.BaseAmount,
		OvertimeAmount: i.OvertimeAmount,
		DiscountAmount: i.DiscountAmount,
		TotalAmount:    i.TotalAmount,
		Status:         i.Status,
		CreatedAt:      i.CreatedAt,
	}
	if i.PaidAt != nil {
		t := i.PaidAt.UTC()
		res.PaidAt = &t
	}
	return res
}

// statusRow is one GROUP BY status bucket from the store.
type statusRow struct {
	Status      string
	Count       int64
	BaseSum     int64
	OvertimeSum int64
	DiscountSum int64
	TotalSum    int64
}
