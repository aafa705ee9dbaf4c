package reports

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== Error model (attendance/rates と同型 + REPORT_LOCKED) =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeReportLocked    Code = "REPORT_LOCKED"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrLocked(msg string) *APIError   { return &APIError{Code: CodeReportLocked, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeReportLocked:
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

type ReportStore interface {
	GetByChildDate(ctx context.Context, childID, reportOn string) (*Report, error)
	GetByID(ctx context.Context, reportID string) (*Report, error)
	Create(ctx context.Context, r Report) error
	UpdateSectionsIfDraft(ctx context.Context, reportID string, sections Sections, updatedAt time.Time) (int64, error)
	LockIfDraft(ctx context.Context, reportID, lockedBy string, lockedAt time.Time) (int64, error)
	List(ctx context.Context, q ListQuery) ([]Report, int64, error)
}

// ===== Service =====

type Service struct {
	store ReportStore
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// POST /reports
//
// Creates a Draft on the first save of the day, merges sections into an
// existing Draft, and refuses to touch a Final report. The Final gate lives
// here and in the store's conditional UPDATE, not in the route middleware:
// it is a correctness invariant, not an authorization rule.
func (s *Service) SaveReport(ctx context.Context, req SaveReportRequest, actorID string) (ReportResponse, bool, error) {
	if req.ChildID == "" {
		return ReportResponse{}, false, ErrInvalid("child_id is required")
	}
	on, err := s.resolveDate(req.ReportOn)
	if err != nil {
		return ReportResponse{}, false, err
	}

	existing, err := s.store.GetByChildDate(ctx, req.ChildID, on)
	if err != nil {
		return ReportResponse{}, false, err
	}

	if existing == nil {
		id, err := s.id.New()
		if err != nil {
			return ReportResponse{}, false, ErrInternal("failed to generate id")
		}
		now := s.clock.Now()
		rep := Report{
			ReportID:  id,
			ChildID:   req.ChildID,
			ReportOn:  on,
			Status:    StatusDraft,
			Sections:  req.Sections,
			CreatedBy: actorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.Create(ctx, rep); err != nil {
			return ReportResponse{}, false, err
		}
		return rep.toDTO(), true, nil
	}

	if existing.Status == StatusFinal {
		return ReportResponse{}, false, ErrLocked("report is final and can no longer be edited")
	}

	merged := existing.Sections.merge(req.Sections)
	now := s.clock.Now()
	n, err := s.store.UpdateSectionsIfDraft(ctx, existing.ReportID, merged, now)
	if err != nil {
		return ReportResponse{}, false, err
	}
	if n == 0 {
		// locked between read and write
		return ReportResponse{}, false, ErrLocked("report is final and can no longer be edited")
	}

	existing.Sections = merged
	existing.UpdatedAt = now
	return existing.toDTO(), false, nil
}

// POST /reports/:id/lock
//
// One-way Draft→Final. Locking an already-Final report is idempotent: the
// original locked_by/locked_at are returned untouched. Nothing unlocks a
// report.
func (s *Service) LockReport(ctx context.Context, reportID, actorID string) (ReportResponse, error) {
	if reportID == "" {
		return ReportResponse{}, ErrInvalid("report id is required")
	}

	rep, err := s.store.GetByID(ctx, reportID)
	if err != nil {
		return ReportResponse{}, err
	}
	if rep == nil {
		return ReportResponse{}, ErrNotFound("report not found")
	}
	if rep.Status == StatusFinal {
		return rep.toDTO(), nil
	}

	now := s.clock.Now()
	n, err := s.store.LockIfDraft(ctx, reportID, actorID, now)
	if err != nil {
		return ReportResponse{}, err
	}
	if n == 0 {
		// another actor won the lock; return their terminal state
		rep, err = s.store.GetByID(ctx, reportID)
		if err != nil {
			return ReportResponse{}, err
		}
		if rep == nil {
			return ReportResponse{}, ErrNotFound("report not found")
		}
		return rep.toDTO(), nil
	}

	rep.Status = StatusFinal
	rep.LockedBy = &actorID
	rep.LockedAt = &now
	rep.UpdatedAt = now
	return rep.toDTO(), nil
}

// GET /reports/:id
func (s *Service) GetReport(ctx context.Context, reportID string) (ReportResponse, error) {
	rep, err := s.store.GetByID(ctx, reportID)
	if err != nil {
		return ReportResponse{}, err
	}
	if rep == nil {
		return ReportResponse{}, ErrNotFound("report not found")
	}
	return rep.toDTO(), nil
}

// GET /reports
func (s *Service) List(ctx context.Context, q ListQuery) ([]ReportResponse, int64, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Status != nil {
		st := Status(*q.Status)
		if st != StatusDraft && st != StatusFinal {
			return nil, 0, ErrInvalid("status must be draft or final")
		}
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReportResponse, 0, len(rows))
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
		return "", ErrInvalid("report_on must be YYYY-MM-DD or 'today'")
	}
	return n, nil
}
