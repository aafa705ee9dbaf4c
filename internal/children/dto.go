package children

import "time"

type CreateChildRequest struct {
	Name         string `json:"name" binding:"required"`
	BranchID     string `json:"branch_id" binding:"required"`
	PackageID    string `json:"package_id" binding:"required"`
	GuardianName string `json:"guardian_name"`
}

type UpdateChildRequest struct {
	Name         string `json:"name" binding:"required"`
	BranchID     string `json:"branch_id" binding:"required"`
	PackageID    string `json:"package_id" binding:"required"`
	GuardianName string `json:"guardian_name"`
	IsDisabled   bool   `json:"is_disabled"`
}

type ChildResponse struct {
	ChildID      string    `json:"child_id"`
	Name         string    `json:"name"`
	BranchID     string    `json:"branch_id"`
	PackageID    string    `json:"package_id"`
	GuardianName string    `json:"guardian_name,omitempty"`
	IsDisabled   bool      `json:"is_disabled"`
	CreatedAt    time.Time `json:"created_at"`
}
