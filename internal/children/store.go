package children

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Child struct {
	ChildID      string
	Name         string
	BranchID     string
	PackageID    string
	GuardianName string
	IsDisabled   bool
	CreatedAt    time.Time
}

type ChildStore interface {
	GetByID(ctx context.Context, id string) (*Child, error)
	ListByBranch(ctx context.Context, branchID string, includeDisabled bool) ([]Child, error)
	Create(ctx context.Context, c *Child) error
	Update(ctx context.Context, c *Child) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) ChildStore {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (*Child, error) {
	const q = `
SELECT child_id, name, branch_id, package_id, guardian_name, is_disabled, created_at
FROM children
WHERE child_id = ?
LIMIT 1
`
	var c Child
	var disabledInt int
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&c.ChildID, &c.Name, &c.BranchID, &c.PackageID,
		&c.GuardianName, &disabledInt, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.IsDisabled = disabledInt != 0
	return &c, nil
}

func (s *Store) ListByBranch(ctx context.Context, branchID string, includeDisabled bool) ([]Child, error) {
	q := `
SELECT child_id, name, branch_id, package_id, guardian_name, is_disabled, created_at
FROM children
`
	var args []any
	var wheres []string
	if branchID != "" {
		wheres = append(wheres, "branch_id = ?")
		args = append(args, branchID)
	}
	if !includeDisabled {
		wheres = append(wheres, "is_disabled = 0")
	}
	for i, w := range wheres {
		if i == 0 {
			q += " WHERE " + w
		} else {
			q += " AND " + w
		}
	}
	q += " ORDER BY name ASC, child_id ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Child
	for rows.Next() {
		var c Child
		var disabledInt int
		if err := rows.Scan(&c.ChildID, &c.Name, &c.BranchID, &c.PackageID,
			&c.GuardianName, &disabledInt, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.IsDisabled = disabledInt != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, c *Child) error {
	const q = `
INSERT INTO children (child_id, name, branch_id, package_id, guardian_name, is_disabled, created_at)
VALUES (?, ?, ?, ?, ?, 0, NOW(6))
`
	_, err := s.db.ExecContext(ctx, q, c.ChildID, c.Name, c.BranchID, c.PackageID, c.GuardianName)
	return err
}

func (s *Store) Update(ctx context.Context, c *Child) (int64, error) {
	const q = `
UPDATE children
SET name = ?, branch_id = ?, package_id = ?, guardian_name = ?, is_disabled = ?
WHERE child_id = ?
`
	v := 0
	if c.IsDisabled {
		v = 1
	}
	res, err := s.db.ExecContext(ctx, q, c.Name, c.BranchID, c.PackageID, c.GuardianName, v, c.ChildID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
