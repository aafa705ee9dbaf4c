package invoices

import (
	"context"
	"errors"
	"testing"
)

type fakeInvoiceStore struct {
	rows       []statusRow
	invoices   []Invoice
	lastMonth  int
	lastYear   int
	lastBranch *string
}

func (f *fakeInvoiceStore) List(_ context.Context, _ ListQuery) ([]Invoice, int64, error) {
	return f.invoices, int64(len(f.invoices)), nil
}

func (f *fakeInvoiceStore) SummaryByStatus(_ context.Context, month, year int, branchID *string) ([]statusRow, error) {
	f.lastMonth = month
	f.lastYear = year
	f.lastBranch = branchID
	return f.rows, nil
}

func apiCode(t *testing.T, err error) Code {
	t.Helper()
	var api *APIError
	if !errors.As(err, &api) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return api.Code
}

func TestFinancialSummaryBuckets(t *testing.T) {
	st := &fakeInvoiceStore{rows: []statusRow{
		{Status: StatusDraft, Count: 2, BaseSum: 2000000, OvertimeSum: 75000, DiscountSum: 0, TotalSum: 2075000},
		{Status: StatusApproved, Count: 1, BaseSum: 1000000, OvertimeSum: 0, DiscountSum: 100000, TotalSum: 900000},
		{Status: StatusPaid, Count: 3, BaseSum: 3000000, OvertimeSum: 150000, DiscountSum: 0, TotalSum: 3150000},
		{Status: StatusOverdue, Count: 1, BaseSum: 1000000, OvertimeSum: 0, DiscountSum: 0, TotalSum: 1000000},
	}}
	svc := &Service{store: st}

	res, err := svc.FinancialSummary(context.Background(), SummaryRequest{Month: 3, Year: 2026})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if res.InvoiceCount != 7 {
		t.Fatalf("expected 7 invoices, got %d", res.InvoiceCount)
	}
	if res.TotalBase != 7000000 {
		t.Fatalf("expected total base 7000000, got %d", res.TotalBase)
	}
	if res.TotalOvertime != 225000 {
		t.Fatalf("expected total overtime 225000, got %d", res.TotalOvertime)
	}
	if res.TotalAmount != 7125000 {
		t.Fatalf("expected total amount 7125000, got %d", res.TotalAmount)
	}
	if res.Draft.Count != 2 || res.Draft.Amount != 2075000 {
		t.Fatalf("unexpected draft bucket: %+v", res.Draft)
	}
	if res.Approved.Count != 1 || res.Approved.Amount != 900000 {
		t.Fatalf("unexpected approved bucket: %+v", res.Approved)
	}
	if res.Paid.Count != 3 || res.Paid.Amount != 3150000 {
		t.Fatalf("unexpected paid bucket: %+v", res.Paid)
	}
	// overdue contributes to the totals but has no named bucket
	if res.TotalDisplay != "7.125.000" {
		t.Fatalf("expected display total 7.125.000, got %q", res.TotalDisplay)
	}
}

func TestFinancialSummaryEmptyMonth(t *testing.T) {
	svc := &Service{store: &fakeInvoiceStore{}}

	res, err := svc.FinancialSummary(context.Background(), SummaryRequest{Month: 1, Year: 2026})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if res.InvoiceCount != 0 || res.TotalAmount != 0 {
		t.Fatalf("expected empty summary, got %+v", res)
	}
	if res.Draft.Count != 0 || res.Approved.Count != 0 || res.Paid.Count != 0 {
		t.Fatalf("expected empty buckets, got %+v", res)
	}
}

func TestFinancialSummaryPassesBranchFilter(t *testing.T) {
	st := &fakeInvoiceStore{}
	svc := &Service{store: st}
	branch := "B1"

	if _, err := svc.FinancialSummary(context.Background(), SummaryRequest{Month: 3, Year: 2026, BranchID: &branch}); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if st.lastMonth != 3 || st.lastYear != 2026 {
		t.Fatalf("expected month/year forwarded, got %d/%d", st.lastMonth, st.lastYear)
	}
	if st.lastBranch == nil || *st.lastBranch != "B1" {
		t.Fatalf("expected branch filter forwarded, got %v", st.lastBranch)
	}
}

func TestFinancialSummaryValidatesMonth(t *testing.T) {
	svc := &Service{store: &fakeInvoiceStore{}}

	_, err := svc.FinancialSummary(context.Background(), SummaryRequest{Month: 13, Year: 2026})
	if err == nil {
		t.Fatalf("expected error for month 13")
	}
	if code := apiCode(t, err); code != CodeInvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %s", code)
	}
}

func TestListValidatesStatus(t *testing.T) {
	svc := &Service{store: &fakeInvoiceStore{}}
	bogus := "cancelled"

	_, _, err := svc.List(context.Background(), ListQuery{Status: &bogus})
	if err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if code := apiCode(t, err); code != CodeInvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %s", code)
	}
}
