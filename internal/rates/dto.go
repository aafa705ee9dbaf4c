package rates

type ConfigResponse struct {
	Enabled               bool             `json:"enabled"`
	DefaultRate           int64            `json:"default_rate"`
	GracePeriodMinutes    int              `json:"grace_period_minutes"`
	MaxOvertimeMinutes    int              `json:"max_overtime_minutes"`
	WeekendEnabled        bool             `json:"weekend_enabled"`
	WeekendRateMultiplier float64          `json:"weekend_rate_multiplier"`
	PackageRates          map[string]int64 `json:"package_rates"`
	BranchRates           map[string]int64 `json:"branch_rates"`
}

type UpdateConfigRequest struct {
	Enabled               *bool            `json:"enabled" binding:"required"`
	DefaultRate           int64            `json:"default_rate" binding:"required"`
	GracePeriodMinutes    int              `json:"grace_period_minutes"`
	MaxOvertimeMinutes    int              `json:"max_overtime_minutes"`
	WeekendEnabled        bool             `json:"weekend_enabled"`
	WeekendRateMultiplier float64          `json:"weekend_rate_multiplier"`
	PackageRates          map[string]int64 `json:"package_rates"`
	BranchRates           map[string]int64 `json:"branch_rates"`
}

func (c Config) toDTO() ConfigResponse {
	return ConfigResponse{
		Enabled:               c.Enabled,
		DefaultRate:           c.DefaultRate,
		GracePeriodMinutes:    c.GracePeriodMinutes,
		MaxOvertimeMinutes:    c.MaxOvertimeMinutes,
		WeekendEnabled:        c.WeekendEnabled,
		WeekendRateMultiplier: c.WeekendRateMultiplier,
		PackageRates:          c.PackageRates,
		BranchRates:           c.BranchRates,
	}
}
