package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"KINDER-backend/internal/rates"
)

// ===== fakes =====

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqID struct{ n int }

func (g *seqID) New() (string, error) {
	g.n++
	return fmt.Sprintf("ATT%03d", g.n), nil
}

type fakeRates struct{ cfg rates.Config }

func (f fakeRates) Current(ctx context.Context) (rates.Config, error) { return f.cfg, nil }

type fakeLedger struct {
	recs map[string]*Attendance
	enr  map[string]Enrollment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		recs: make(map[string]*Attendance),
		enr:  make(map[string]Enrollment),
	}
}

func recKey(childID, on string) string { return childID + "|" + on }

func (f *fakeLedger) UpsertCheckIn(_ context.Context, id, childID, attendedOn string, checkIn time.Time, actorID string, note *string) (Attendance, bool, error) {
	k := recKey(childID, attendedOn)
	if rec, ok := f.recs[k]; ok {
		t := checkIn
		a := actorID
		rec.CheckIn = &t
		rec.CheckedInBy = &a
		if note != nil {
			rec.Note = note
		}
		return *rec, false, nil
	}
	t := checkIn
	a := actorID
	rec := &Attendance{
		AttendanceID: id,
		ChildID:      childID,
		AttendedOn:   attendedOn,
		CheckIn:      &t,
		CheckedInBy:  &a,
		Note:         note,
	}
	f.recs[k] = rec
	return *rec, true, nil
}

func (f *fakeLedger) GetByChildDate(_ context.Context, childID, attendedOn string) (*Attendance, error) {
	if rec, ok := f.recs[recKey(childID, attendedOn)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeLedger) SetCheckOut(_ context.Context, childID, attendedOn string, checkOut time.Time, actorID string, durationMinutes, overtimeMinutes int, overtimeAmount int64) (int64, error) {
	rec, ok := f.recs[recKey(childID, attendedOn)]
	if !ok || rec.CheckIn == nil {
		return 0, nil
	}
	t := checkOut
	a := actorID
	rec.CheckOut = &t
	rec.CheckedOutBy = &a
	rec.DurationMinutes = durationMinutes
	rec.OvertimeMinutes = overtimeMinutes
	rec.OvertimeAmount = overtimeAmount
	return 1, nil
}

func (f *fakeLedger) ChildStats(_ context.Context, childID, from, to string) (ChildStats, error) {
	var st ChildStats
	for _, rec := range f.recs {
		if rec.ChildID != childID || rec.AttendedOn < from || rec.AttendedOn > to {
			continue
		}
		st.DaysPresent++
		st.TotalMinutes += int64(rec.DurationMinutes)
		st.OvertimeMinutes += int64(rec.OvertimeMinutes)
		st.OvertimeAmount += rec.OvertimeAmount
		if rec.OvertimeMinutes > 0 {
			st.OvertimeDays++
		}
	}
	return st, nil
}

func (f *fakeLedger) List(_ context.Context, _ ListQuery) ([]Attendance, int64, error) {
	var out []Attendance
	for _, rec := range f.recs {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedger) Enrollment(_ context.Context, childID string) (*Enrollment, error) {
	if e, ok := f.enr[childID]; ok {
		cp := e
		return &cp, nil
	}
	return nil, nil
}

// ===== helpers =====

func testConfig() rates.Config {
	return rates.Config{
		Enabled:            true,
		DefaultRate:        50000,
		GracePeriodMinutes: 15,
		PackageRates:       map[string]int64{},
		BranchRates:        map[string]int64{},
	}
}

func newTestService(cfg rates.Config) (*Service, *fakeLedger) {
	st := newFakeLedger()
	st.enr["CHD001"] = Enrollment{PackageID: "full_day", BranchID: "B1"}
	svc := &Service{
		store: st,
		rates: fakeRates{cfg: cfg},
		clock: fixedClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}, // a Monday
		id:    &seqID{},
	}
	return svc, st
}

func apiCode(t *testing.T, err error) Code {
	t.Helper()
	var api *APIError
	if !errors.As(err, &api) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return api.Code
}

// ===== tests =====

func TestCheckInCreatesRecord(t *testing.T) {
	svc, st := newTestService(testConfig())

	res, created, err := svc.CheckIn(context.Background(), CheckInRequest{
		ChildID: "CHD001",
		Time:    "08:00",
	}, "staff1")
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true for first check-in")
	}
	if res.AttendedOn != "2026-03-02" {
		t.Fatalf("expected today's date, got %q", res.AttendedOn)
	}
	if res.CheckIn == nil || *res.CheckIn != "08:00" {
		t.Fatalf("expected check_in 08:00, got %v", res.CheckIn)
	}
	if res.CheckOut != nil {
		t.Fatalf("expected no check_out on fresh record")
	}
	if len(st.recs) != 1 {
		t.Fatalf("expected one record, got %d", len(st.recs))
	}
}

func TestReCheckInPreservesCheckOut(t *testing.T) {
	svc, st := newTestService(testConfig())
	ctx := context.Background()

	if _, _, err := svc.CheckIn(ctx, CheckInRequest{ChildID: "CHD001", Time: "08:30"}, "staff1"); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := svc.CheckOut(ctx, CheckOutRequest{ChildID: "CHD001", Time: "17:00"}, "staff1"); err != nil {
		t.Fatalf("check-out: %v", err)
	}

	// correct the mistaken check-in time afterwards
	res, created, err := svc.CheckIn(ctx, CheckInRequest{ChildID: "CHD001", Time: "08:00"}, "staff2")
	if err != nil {
		t.Fatalf("re-check-in: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on re-check-in")
	}
	if res.CheckIn == nil || *res.CheckIn != "08:00" {
		t.Fatalf("expected corrected check_in 08:00, got %v", res.CheckIn)
	}
	if res.CheckOut == nil || *res.CheckOut != "17:00" {
		t.Fatalf("re-check-in must not reset check_out, got %v", res.CheckOut)
	}
	if len(st.recs) != 1 {
		t.Fatalf("expected a single record per child per day, got %d", len(st.recs))
	}
}

func TestCheckInUnknownChild(t *testing.T) {
	svc, _ := newTestService(testConfig())

	_, _, err := svc.CheckIn(context.Background(), CheckInRequest{ChildID: "NOPE", Time: "08:00"}, "staff1")
	if err == nil {
		t.Fatalf("expected error for unknown child")
	}
	if code := apiCode(t, err); code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestCheckInRejectsBadTime(t *testing.T) {
	svc, _ := newTestService(testConfig())

	_, _, err := svc.CheckIn(context.Background(), CheckInRequest{ChildID: "CHD001", Time: "8 o'clock"}, "staff1")
	if err == nil {
		t.Fatalf("expected error for malformed time")
	}
	if code := apiCode(t, err); code != CodeInvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %s", code)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _ := newTestService(testConfig())

	_, err := svc.CheckOut(context.Background(), CheckOutRequest{ChildID: "CHD001", Time: "17:00"}, "staff1")
	if err == nil {
		t.Fatalf("expected error when checking out without a check-in")
	}
	if code := apiCode(t, err); code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestCheckOutComputesOvertime(t *testing.T) {
	svc, st := newTestService(testConfig())
	ctx := context.Background()

	if _, _, err := svc.CheckIn(ctx, CheckInRequest{ChildID: "CHD001", Time: "08:00"}, "staff1"); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	res, err := svc.CheckOut(ctx, CheckOutRequest{ChildID: "CHD001", Time: "19:00"}, "staff2")
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if res.DurationMinutes != 660 {
		t.Fatalf("expected 660 duration minutes, got %d", res.DurationMinutes)
	}
	if res.OvertimeMinutes != 45 {
		t.Fatalf("expected 45 overtime minutes, got %d", res.OvertimeMinutes)
	}
	if res.OvertimeAmount != 37500 {
		t.Fatalf("expected overtime amount 37500, got %d", res.OvertimeAmount)
	}
	if res.CheckedOutBy == nil || *res.CheckedOutBy != "staff2" {
		t.Fatalf("expected checked_out_by staff2, got %v", res.CheckedOutBy)
	}

	rec := st.recs[recKey("CHD001", "2026-03-02")]
	if rec.OvertimeAmount != 37500 {
		t.Fatalf("expected persisted amount 37500, got %d", rec.OvertimeAmount)
	}
}

func TestCheckOutEarlierThanCheckInClampsToZero(t *testing.T) {
	svc, _ := newTestService(testConfig())
	ctx := context.Background()

	if _, _, err := svc.CheckIn(ctx, CheckInRequest{ChildID: "CHD001", Time: "19:00"}, "staff1"); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	res, err := svc.CheckOut(ctx, CheckOutRequest{ChildID: "CHD001", Time: "08:00"}, "staff1")
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if res.DurationMinutes != 0 {
		t.Fatalf("expected zero duration, got %d", res.DurationMinutes)
	}
	if res.OvertimeMinutes != 0 || res.OvertimeAmount != 0 {
		t.Fatalf("expected zero overtime, got minutes=%d amount=%d", res.OvertimeMinutes, res.OvertimeAmount)
	}
}

func TestCheckOutWeekendPreviewNotPersisted(t *testing.T) {
	cfg := testConfig()
	cfg.WeekendEnabled = true
	cfg.WeekendRateMultiplier = 1.5
	svc, st := newTestService(cfg)
	ctx := context.Background()
	saturday := "2026-03-07"

	if _, _, err := svc.CheckIn(ctx, CheckInRequest{ChildID: "CHD001", Time: "08:00", AttendedOn: &saturday}, "staff1"); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	res, err := svc.CheckOut(ctx, CheckOutRequest{ChildID: "CHD001", Time: "19:00", AttendedOn: &saturday}, "staff1")
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if res.OvertimeAmount != 37500 {
		t.Fatalf("persisted amount must stay unmultiplied, got %d", res.OvertimeAmount)
	}
	if res.WeekendPreviewAmount == nil || *res.WeekendPreviewAmount != 56250 {
		t.Fatalf("expected weekend preview 56250, got %v", res.WeekendPreviewAmount)
	}

	rec := st.recs[recKey("CHD001", saturday)]
	if rec.OvertimeAmount != 37500 {
		t.Fatalf("store must hold the base amount, got %d", rec.OvertimeAmount)
	}
}

func TestChildStatsAggregates(t *testing.T) {
	svc, _ := newTestService(testConfig())
	ctx := context.Background()

	for _, day := range []string{"2026-03-02", "2026-03-03"} {
		d := day
		if _, _, err := svc.CheckIn(ctx, CheckInRequest{ChildID: "CHD001", Time: "08:00", AttendedOn: &d}, "staff1"); err != nil {
			t.Fatalf("check-in %s: %v", day, err)
		}
	}
	d1, d2 := "2026-03-02", "2026-03-03"
	if _, err := svc.CheckOut(ctx, CheckOutRequest{ChildID: "CHD001", Time: "19:00", AttendedOn: &d1}, "staff1"); err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if _, err := svc.CheckOut(ctx, CheckOutRequest{ChildID: "CHD001", Time: "17:00", AttendedOn: &d2}, "staff1"); err != nil {
		t.Fatalf("check-out: %v", err)
	}

	res, err := svc.ChildStats(ctx, StatsRequest{ChildID: "CHD001", From: "2026-03-01", To: "2026-03-31"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if res.DaysPresent != 2 {
		t.Fatalf("expected 2 days present, got %d", res.DaysPresent)
	}
	if res.TotalMinutes != 660+540 {
		t.Fatalf("expected 1200 total minutes, got %d", res.TotalMinutes)
	}
	if res.OvertimeDays != 1 {
		t.Fatalf("expected 1 overtime day, got %d", res.OvertimeDays)
	}
	if res.OvertimeAmount != 37500 {
		t.Fatalf("expected overtime amount 37500, got %d", res.OvertimeAmount)
	}
}

func TestChildStatsRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(testConfig())

	_, err := svc.ChildStats(context.Background(), StatsRequest{ChildID: "CHD001", From: "2026-03-31", To: "2026-03-01"})
	if err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if code := apiCode(t, err); code != CodeInvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %s", code)
	}
}
