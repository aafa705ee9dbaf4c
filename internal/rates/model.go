package rates

import "math"

// Daily minutes covered by each enrollment package. Unknown packages fall
// back to the full-day allowance.
const DefaultPackageAllowanceMinutes = 600

var packageAllowanceMinutes = map[string]int{
	"full_day": 600,
	"half_day": 300,
}

func AllowanceMinutes(packageID string) int {
	if v, ok := packageAllowanceMinutes[packageID]; ok {
		return v
	}
	return DefaultPackageAllowanceMinutes
}

// Config is the overtime policy. A single settings row plus per-package and
// per-branch hourly overrides. Loaded wholesale and passed by value into the
// resolver; nothing here mutates it.
type Config struct {
	Enabled               bool
	DefaultRate           int64 // currency units per hour
	GracePeriodMinutes    int
	MaxOvertimeMinutes    int // 0 = unlimited
	WeekendEnabled        bool
	WeekendRateMultiplier float64
	PackageRates          map[string]int64
	BranchRates           map[string]int64
}

// ResolveRate: branch override > package override > default.
func (c Config) ResolveRate(packageID, branchID string) int64 {
	if r, ok := c.BranchRates[branchID]; ok {
		return r
	}
	if r, ok := c.PackageRates[packageID]; ok {
		return r
	}
	return c.DefaultRate
}

type OvertimeInput struct {
	CheckInMinutes  int // minutes of day
	CheckOutMinutes int
	PackageID       string
	BranchID        string
	Weekend         bool
}

type OvertimeResult struct {
	Minutes int
	Amount  int64
	// WeekendPreviewAmount is display-only. The weekend multiplier is never
	// applied to the persisted amount; parity with the dashboard's billing
	// behavior.
	WeekendPreviewAmount int64
}

// Compute derives billable overtime from a presence window. Every
// intermediate value is clamped at zero; a checkout earlier than the checkin
// yields a zero result, never a negative one.
func Compute(cfg Config, in OvertimeInput) OvertimeResult {
	if !cfg.Enabled {
		return OvertimeResult{}
	}

	elapsed := in.CheckOutMinutes - in.CheckInMinutes
	if elapsed < 0 {
		elapsed = 0
	}

	overtime := elapsed - AllowanceMinutes(in.PackageID)
	if overtime < 0 {
		overtime = 0
	}

	overtime -= cfg.GracePeriodMinutes
	if overtime < 0 {
		overtime = 0
	}

	if cfg.MaxOvertimeMinutes > 0 && overtime > cfg.MaxOvertimeMinutes {
		overtime = cfg.MaxOvertimeMinutes
	}

	rate := cfg.ResolveRate(in.PackageID, in.BranchID)
	amount := roundedAmount(overtime, rate)

	res := OvertimeResult{Minutes: overtime, Amount: amount}
	if cfg.WeekendEnabled && in.Weekend && cfg.WeekendRateMultiplier > 1 {
		res.WeekendPreviewAmount = int64(math.Round(float64(amount) * cfg.WeekendRateMultiplier))
	}
	return res
}

// roundedAmount: minutes/60*rate rounded to the nearest whole currency unit.
func roundedAmount(minutes int, rate int64) int64 {
	if minutes <= 0 || rate <= 0 {
		return 0
	}
	return (int64(minutes)*rate + 30) / 60
}
