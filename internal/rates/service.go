package rates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ===== Error model (same shape as attendance/reports) =====
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
	store ConfigStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

// Current: the policy as other services see it. Also satisfies the ledger's
// RateSource.
func (s *Service) Current(ctx context.Context) (Config, error) {
	return s.store.Load(ctx)
}

// GET /overtime-config
func (s *Service) GetConfig(ctx context.Context) (ConfigResponse, error) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return ConfigResponse{}, err
	}
	return cfg.toDTO(), nil
}

// PUT /overtime-config
func (s *Service) UpdateConfig(ctx context.Context, req UpdateConfigRequest) (ConfigResponse, error) {
	if req.Enabled == nil {
		return ConfigResponse{}, ErrInvalid("enabled is required")
	}
	if req.DefaultRate < 0 {
		return ConfigResponse{}, ErrInvalid("default_rate must be >= 0")
	}
	if req.GracePeriodMinutes < 0 {
		return ConfigResponse{}, ErrInvalid("grace_period_minutes must be >= 0")
	}
	if req.MaxOvertimeMinutes < 0 {
		return ConfigResponse{}, ErrInvalid("max_overtime_minutes must be >= 0 (0 = unlimited)")
	}
	if req.WeekendRateMultiplier != 0 && req.WeekendRateMultiplier < 1 {
		return ConfigResponse{}, ErrInvalid("weekend_rate_multiplier must be >= 1")
	}
	for k, v := range req.PackageRates {
		if v < 0 {
			return ConfigResponse{}, ErrInvalid("package rate for " + k + " must be >= 0")
		}
	}
	for k, v := range req.BranchRates {
		if v < 0 {
			return ConfigResponse{}, ErrInvalid("branch rate for " + k + " must be >= 0")
		}
	}

	cfg := Config{
		Enabled:               *req.Enabled,
		DefaultRate:           req.DefaultRate,
		GracePeriodMinutes:    req.GracePeriodMinutes,
		MaxOvertimeMinutes:    req.MaxOvertimeMinutes,
		WeekendEnabled:        req.WeekendEnabled,
		WeekendRateMultiplier: req.WeekendRateMultiplier,
		PackageRates:          req.PackageRates,
		BranchRates:           req.BranchRates,
	}
	if cfg.PackageRates == nil {
		cfg.PackageRates = map[string]int64{}
	}
	if cfg.BranchRates == nil {
		cfg.BranchRates = map[string]int64{}
	}

	if err := s.store.Replace(ctx, cfg); err != nil {
		return ConfigResponse{}, err
	}
	return cfg.toDTO(), nil
}
