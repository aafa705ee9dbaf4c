package attendance

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"KINDER-backend/internal/rates"
)

// ===== Error model (rates/reports と同型) =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Seams =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RateSource: the overtime policy as of now. Satisfied by rates.Service.
type RateSource interface {
	Current(ctx context.Context) (rates.Config, error)
}

// Enrollment resolved from the child registry at check-out time.
type Enrollment struct {
	PackageID string
	BranchID  string
	Disabled  bool
}

type LedgerStore interface {
	UpsertCheckIn(ctx context.Context, id, childID, attendedOn string, checkIn time.Time, actorID string, note *string) (Attendance, bool, error)
	GetByChildDate(ctx context.Context, childID, attendedOn string) (*Attendance, error)
	SetCheckOut(ctx context.Context, childID, attendedOn string, checkOut time.Time, actorID string, durationMinutes, overtimeMinutes int, overtimeAmount int64) (int64, error)
	ChildStats(ctx context.Context, childID, from, to string) (ChildStats, error)
	List(ctx context.Context, q ListQuery) ([]Attendance, int64, error)
	Enrollment(ctx context.Context, childID string) (*Enrollment, error)
}

// ===== Service =====

type Service struct {
	store LedgerStore
	rates RateSource
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB, rateSource RateSource) *Service {
	return &Service{
		store: NewStore(db),
		rates: rateSource,
		clock: realClock{},
		id:    ulidGen{},
	}
}

// POST /attendances/check-in
//
// Re-check-in on the same day is allowed and overwrites check_in without
// touching check_out: the front desk corrects mistaken times this way.
func (s *Service) CheckIn(ctx context.Context, in CheckInRequest, actorID string) (AttendanceResponse, bool, error) {
	if in.ChildID == "" {
		return AttendanceResponse{}, false, ErrInvalid("child_id is required")
	}
	on, err := s.resolveDate(in.AttendedOn)
	if err != nil {
		return AttendanceResponse{}, false, err
	}
	checkIn, err := combineDateTime(on, in.Time)
	if err != nil {
		return AttendanceResponse{}, false, ErrInvalid("time must be HH:MM")
	}

	enr, err := s.store.Enrollment(ctx, in.ChildID)
	if err != nil {
		return AttendanceResponse{}, false, err
	}
	if enr == nil {
		return AttendanceResponse{}, false, ErrNotFound("child not found")
	}
	if enr.Disabled {
		return AttendanceResponse{}, false, ErrConflict("child is disabled")
	}

	id, err := s.id.New()
	if err != nil {
		return AttendanceResponse{}, false, ErrInternal("failed to generate id")
	}

	rec, created, err := s.store.UpsertCheckIn(ctx, id, in.ChildID, on, checkIn, actorID, in.Note)
	if err != nil {
		return AttendanceResponse{}, false, err
	}
	return rec.toDTO(), created, nil
}

// POST /attendances/check-out
//
// Requires an existing check-in for (child, date); surfaced as NOT_FOUND
// instead of a silent no-op. Recomputes duration and overtime.
func (s *Service) CheckOut(ctx context.Context, in CheckOutRequest, actorID string) (AttendanceResponse, error) {
	if in.ChildID == "" {
		return AttendanceResponse{}, ErrInvalid("child_id is required")
	}
	on, err := s.resolveDate(in.AttendedOn)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkOut, err := combineDateTime(on, in.Time)
	if err != nil {
		return AttendanceResponse{}, ErrInvalid("time must be HH:MM")
	}

	rec, err := s.store.GetByChildDate(ctx, in.ChildID, on)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if rec == nil || rec.CheckIn == nil {
		return AttendanceResponse{}, ErrNotFound("no check-in found for this child and date")
	}

	enr, err := s.store.Enrollment(ctx, in.ChildID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if enr == nil {
		return AttendanceResponse{}, ErrNotFound("child not found")
	}

	cfg, err := s.rates.Current(ctx)
	if err != nil {
		return AttendanceResponse{}, err
	}

	duration := minutesOfDay(checkOut) - minutesOfDay(*rec.CheckIn)
	if duration < 0 {
		duration = 0
	}

	ot := rates.Compute(cfg, rates.OvertimeInput{
		CheckInMinutes:  minutesOfDay(*rec.CheckIn),
		CheckOutMinutes: minutesOfDay(checkOut),
		PackageID:       enr.PackageID,
		BranchID:        enr.BranchID,
		Weekend:         isWeekend(on),
	})

	n, err := s.store.SetCheckOut(ctx, in.ChildID, on, checkOut, actorID, duration, ot.Minutes, ot.Amount)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if n == 0 {
		// row vanished or check_in was cleared between read and write
		return AttendanceResponse{}, ErrNotFound("no check-in found for this child and date")
	}

	updated, err := s.store.GetByChildDate(ctx, in.ChildID, on)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if updated == nil {
		return AttendanceResponse{}, ErrInternal("updated but not found")
	}

	res := updated.toDTO()
	if ot.WeekendPreviewAmount > 0 {
		v := ot.WeekendPreviewAmount
		res.WeekendPreviewAmount = &v
	}
	return res, nil
}

// GET /attendances/stats
func (s *Service) ChildStats(ctx context.Context, req StatsRequest) (ChildStatsResponse, error) {
	if req.ChildID == "" {
		return ChildStatsResponse{}, ErrInvalid("child_id is required")
	}
	from, err := time.ParseInLocation(DateLayout, req.From, time.UTC)
	if err != nil {
		return ChildStatsResponse{}, ErrInvalid("from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(DateLayout, req.To, time.UTC)
	if err != nil {
		return ChildStatsResponse{}, ErrInvalid("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return ChildStatsResponse{}, ErrInvalid("to must be >= from")
	}

	st, err := s.store.ChildStats(ctx, req.ChildID, req.From, req.To)
	if err != nil {
		return ChildStatsResponse{}, err
	}
	return ChildStatsResponse{
		ChildID:         req.ChildID,
		From:            req.From,
		To:              req.To,
		DaysPresent:     st.DaysPresent,
		TotalMinutes:    st.TotalMinutes,
		OvertimeMinutes: st.OvertimeMinutes,
		OvertimeAmount:  st.OvertimeAmount,
		OvertimeDays:    st.OvertimeDays,
	}, nil
}

// GET /attendances
func (s *Service) List(ctx context.Context, q ListQuery) ([]AttendanceResponse, int64, error) {
	if q.Sort == "" {
		q.Sort = DefaultSort
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
	out := make([]AttendanceResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}

// ===== helpers =====

func (s *Service) resolveDate(v *string) (string, error) {
	if v == nil || *v == "" {
		return s.clock.Now().Format(DateLayout), nil
	}
	n := strings.TrimSpace(strings.ToLower(*v))
	if n == "today" {
		return s.clock.Now().Format(DateLayout), nil
	}
	if _, err := time.ParseInLocation(DateLayout, n, time.UTC); err != nil {
		return "", ErrInvalid("attended_on must be YYYY-MM-DD or 'today'")
	}
	return n, nil
}

func combineDateTime(on, hhmm string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, on, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(TimeLayout, hhmm, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func isWeekend(on string) bool {
	d, err := time.ParseInLocation(DateLayout, on, time.UTC)
	if err != nil {
		return false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
