package rates

import (
	"context"
	"database/sql"
	"errors"

	platformdb "KINDER-backend/internal/platform/db"
)

type ConfigStore interface {
	Load(ctx context.Context) (Config, error)
	Replace(ctx context.Context, cfg Config) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) ConfigStore {
	return &Store{db: db}
}

// Load reads the settings row plus both override tables. A database with no
// settings row yet behaves as "overtime disabled".
func (s *Store) Load(ctx context.Context) (Config, error) {
	var cfg Config

	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		var enabledInt, weekendInt int
		err := tx.QueryRowContext(ctx, `
	SELECT enabled, default_rate, grace_period_minutes, max_overtime_minutes,
	       weekend_enabled, weekend_rate_multiplier
	FROM overtime_settings
	WHERE settings_id = 1`,
		).Scan(&enabledInt, &cfg.DefaultRate, &cfg.GracePeriodMinutes,
			&cfg.MaxOvertimeMinutes, &weekendInt, &cfg.WeekendRateMultiplier)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		cfg.Enabled = enabledInt != 0
		cfg.WeekendEnabled = weekendInt != 0

		cfg.PackageRates, err = loadRateMap(ctx, tx,
			`SELECT package_id, hourly_rate FROM overtime_package_rates`)
		if err != nil {
			return err
		}
		cfg.BranchRates, err = loadRateMap(ctx, tx,
			`SELECT branch_id, hourly_rate FROM overtime_branch_rates`)
		return err
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Replace overwrites the whole policy in one Tx. The settings row and both
// override tables always change together, so partial updates are never
// visible to a concurrent Load.
func (s *Store) Replace(ctx context.Context, cfg Config) error {
	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		_, err := tx.ExecContext(ctx, `
	INSERT INTO overtime_settings
	  (settings_id, enabled, default_rate, grace_period_minutes, max_overtime_minutes,
	   weekend_enabled, weekend_rate_multiplier, updated_at)
	VALUES (1, ?, ?, ?, ?, ?, ?, NOW(6))
	ON DUPLICATE KEY UPDATE
	  enabled = VALUES(enabled),
	  default_rate = VALUES(default_rate),
	  grace_period_minutes = VALUES(grace_period_minutes),
	  max_overtime_minutes = VALUES(max_overtime_minutes),
	  weekend_enabled = VALUES(weekend_enabled),
	  weekend_rate_multiplier = VALUES(weekend_rate_multiplier),
	  updated_at = VALUES(updated_at)`,
			boolInt(cfg.Enabled), cfg.DefaultRate, cfg.GracePeriodMinutes,
			cfg.MaxOvertimeMinutes, boolInt(cfg.WeekendEnabled), cfg.WeekendRateMultiplier)
		if err != nil {
			return err
		}

		if err := replaceRateMap(ctx, tx, "overtime_package_rates", "package_id", cfg.PackageRates); err != nil {
			return err
		}
		return replaceRateMap(ctx, tx, "overtime_branch_rates", "branch_id", cfg.BranchRates)
	})
}

func loadRateMap(ctx context.Context, tx platformdb.DBTX, query string) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var rate int64
		if err := rows.Scan(&key, &rate); err != nil {
			return nil, err
		}
		out[key] = rate
	}
	return out, rows.Err()
}

func replaceRateMap(ctx context.Context, tx platformdb.DBTX, table, keyCol string, m map[string]int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return err
	}
	for key, rate := range m {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" ("+keyCol+", hourly_rate) VALUES (?, ?)", key, rate)
		if err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
