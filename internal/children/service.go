package children

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
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
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

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

// ===== Service =====

type Service struct {
	store ChildStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func (s *Service) Create(ctx context.Context, req CreateChildRequest) (ChildResponse, error) {
	id, err := newULID()
	if err != nil {
		return ChildResponse{}, ErrInternal("failed to generate id")
	}

	c := &Child{
		ChildID:      id,
		Name:         req.Name,
		BranchID:     req.BranchID,
		PackageID:    req.PackageID,
		GuardianName: req.GuardianName,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return ChildResponse{}, err
	}

	created, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ChildResponse{}, err
	}
	if created == nil {
		return ChildResponse{}, ErrInternal("inserted but not found")
	}
	return toDTO(*created), nil
}

func (s *Service) Get(ctx context.Context, id string) (ChildResponse, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ChildResponse{}, err
	}
	if c == nil {
		return ChildResponse{}, ErrNotFound("child not found")
	}
	return toDTO(*c), nil
}

func (s *Service) List(ctx context.Context, branchID string, includeDisabled bool) ([]ChildResponse, error) {
	rows, err := s.store.ListByBranch(ctx, branchID, includeDisabled)
	if err != nil {
		return nil, err
	}
	out := make([]ChildResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, toDTO(rows[i]))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateChildRequest) (ChildResponse, error) {
	c := &Child{
		ChildID:      id,
		Name:         req.Name,
		BranchID:     req.BranchID,
		PackageID:    req.PackageID,
		GuardianName: req.GuardianName,
		IsDisabled:   req.IsDisabled,
	}
	n, err := s.store.Update(ctx, c)
	if err != nil {
		return ChildResponse{}, err
	}
	if n == 0 {
		return ChildResponse{}, ErrNotFound("child not found")
	}

	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ChildResponse{}, err
	}
	if updated == nil {
		return ChildResponse{}, ErrNotFound("child not found")
	}
	return toDTO(*updated), nil
}

// ===== helpers =====

func toDTO(c Child) ChildResponse {
	return ChildResponse{
		ChildID:      c.ChildID,
		Name:         c.Name,
		BranchID:     c.BranchID,
		PackageID:    c.PackageID,
		GuardianName: c.GuardianName,
		IsDisabled:   c.IsDisabled,
		CreatedAt:    c.CreatedAt.UTC(),
	}
}

func newULID() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
