package rates

import "testing"

func baseConfig() Config {
	return Config{
		Enabled:            true,
		DefaultRate:        50000,
		GracePeriodMinutes: 15,
		PackageRates:       map[string]int64{},
		BranchRates:        map[string]int64{},
	}
}

func minutes(h, m int) int { return h*60 + m }

func TestComputeFullDayOvertime(t *testing.T) {
	// 08:00–19:00 against a 600-minute full-day allowance:
	// 660 elapsed → 60 raw → minus 15 grace → 45 minutes, 45/60*50000 = 37500.
	got := Compute(baseConfig(), OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(19, 0),
		PackageID:       "full_day",
	})
	if got.Minutes != 45 {
		t.Fatalf("expected 45 overtime minutes, got %d", got.Minutes)
	}
	if got.Amount != 37500 {
		t.Fatalf("expected amount 37500, got %d", got.Amount)
	}
}

func TestComputeClampsNegativeElapsed(t *testing.T) {
	// checkout before checkin (data entry error) must yield zero, never negative
	got := Compute(baseConfig(), OvertimeInput{
		CheckInMinutes:  minutes(19, 0),
		CheckOutMinutes: minutes(8, 0),
		PackageID:       "full_day",
	})
	if got.Minutes != 0 || got.Amount != 0 {
		t.Fatalf("expected zero result, got minutes=%d amount=%d", got.Minutes, got.Amount)
	}
}

func TestComputeDisabledYieldsZero(t *testing.T) {
	cfg := baseConfig()
	cfg.Enabled = false
	got := Compute(cfg, OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(20, 0),
		PackageID:       "full_day",
	})
	if got.Minutes != 0 || got.Amount != 0 {
		t.Fatalf("expected zero result when disabled, got minutes=%d amount=%d", got.Minutes, got.Amount)
	}
}

func TestComputeCapsOvertime(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxOvertimeMinutes = 30
	// raw-after-grace would be 45; capped to 30
	got := Compute(cfg, OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(19, 0),
		PackageID:       "full_day",
	})
	if got.Minutes != 30 {
		t.Fatalf("expected capped 30 minutes, got %d", got.Minutes)
	}
	if got.Amount != 25000 {
		t.Fatalf("expected amount 25000, got %d", got.Amount)
	}
}

func TestComputeWithinGraceIsFree(t *testing.T) {
	// 10 minutes over the allowance, grace is 15 → no overtime
	got := Compute(baseConfig(), OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(18, 10),
		PackageID:       "full_day",
	})
	if got.Minutes != 0 || got.Amount != 0 {
		t.Fatalf("expected zero within grace, got minutes=%d amount=%d", got.Minutes, got.Amount)
	}
}

func TestComputeHalfDayAllowance(t *testing.T) {
	// half_day allows 300 minutes; 08:00–14:00 is 360 → 60 raw → 45 after grace
	got := Compute(baseConfig(), OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(14, 0),
		PackageID:       "half_day",
	})
	if got.Minutes != 45 {
		t.Fatalf("expected 45 minutes on half_day, got %d", got.Minutes)
	}
}

func TestComputeUnknownPackageFallsBackToFullDay(t *testing.T) {
	got := Compute(baseConfig(), OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(19, 0),
		PackageID:       "mystery_plan",
	})
	if got.Minutes != 45 {
		t.Fatalf("expected full-day fallback (45 minutes), got %d", got.Minutes)
	}
}

func TestResolveRatePrecedence(t *testing.T) {
	cfg := baseConfig()
	cfg.PackageRates["full_day"] = 60000
	cfg.BranchRates["B1"] = 75000

	tests := []struct {
		name      string
		packageID string
		branchID  string
		want      int64
	}{
		{name: "branch wins over package", packageID: "full_day", branchID: "B1", want: 75000},
		{name: "package wins over default", packageID: "full_day", branchID: "B2", want: 60000},
		{name: "default when nothing matches", packageID: "half_day", branchID: "B2", want: 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.ResolveRate(tt.packageID, tt.branchID)
			if got != tt.want {
				t.Fatalf("expected rate %d, got %d", tt.want, got)
			}
		})
	}
}

func TestComputeBranchOverrideAppliesToAmount(t *testing.T) {
	cfg := baseConfig()
	cfg.PackageRates["full_day"] = 60000
	cfg.BranchRates["B1"] = 75000

	got := Compute(cfg, OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(19, 0),
		PackageID:       "full_day",
		BranchID:        "B1",
	})
	if got.Amount != 56250 { // 45/60*75000
		t.Fatalf("expected amount 56250 at branch rate, got %d", got.Amount)
	}
}

func TestComputeRoundsToNearestUnit(t *testing.T) {
	cfg := baseConfig()
	cfg.DefaultRate = 50001
	cfg.GracePeriodMinutes = 0

	// 1 overtime minute at 50001/h = 833.35 → rounds to 833
	got := Compute(cfg, OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(18, 1),
		PackageID:       "full_day",
	})
	if got.Minutes != 1 {
		t.Fatalf("expected 1 minute, got %d", got.Minutes)
	}
	if got.Amount != 833 {
		t.Fatalf("expected rounded amount 833, got %d", got.Amount)
	}
}

func TestComputeWeekendMultiplierIsPreviewOnly(t *testing.T) {
	cfg := baseConfig()
	cfg.WeekendEnabled = true
	cfg.WeekendRateMultiplier = 1.5

	got := Compute(cfg, OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(19, 0),
		PackageID:       "full_day",
		Weekend:         true,
	})
	// persisted amount stays unmultiplied
	if got.Amount != 37500 {
		t.Fatalf("expected base amount 37500, got %d", got.Amount)
	}
	if got.WeekendPreviewAmount != 56250 {
		t.Fatalf("expected preview 56250, got %d", got.WeekendPreviewAmount)
	}
}

func TestComputeNoWeekendPreviewOnWeekday(t *testing.T) {
	cfg := baseConfig()
	cfg.WeekendEnabled = true
	cfg.WeekendRateMultiplier = 1.5

	got := Compute(cfg, OvertimeInput{
		CheckInMinutes:  minutes(8, 0),
		CheckOutMinutes: minutes(19, 0),
		PackageID:       "full_day",
		Weekend:         false,
	})
	if got.WeekendPreviewAmount != 0 {
		t.Fatalf("expected no preview on weekday, got %d", got.WeekendPreviewAmount)
	}
}
