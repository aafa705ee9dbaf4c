package reports

import "time"

type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// Sections hold the day's care notes. The lifecycle logic treats them as
// opaque content; only the Draft/Final gate decides whether they may change.
type Sections struct {
	General   *GeneralSection  `json:"general,omitempty"`
	Meals     []MealEntry      `json:"meals,omitempty"`
	Nap       *NapSection      `json:"nap,omitempty"`
	Toileting []ToiletingEntry `json:"toileting,omitempty"`
}

type GeneralSection struct {
	Mood  string `json:"mood,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type MealEntry struct {
	Time        string `json:"time,omitempty"` // HH:MM
	Type        string `json:"type,omitempty"` // breakfast / lunch / snack
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount,omitempty"` // all / most / some / none
}

type NapSection struct {
	Start string `json:"start,omitempty"` // HH:MM
	End   string `json:"end,omitempty"`
}

type ToiletingEntry struct {
	Time string `json:"time,omitempty"`
	Type string `json:"type,omitempty"`
	Note string `json:"note,omitempty"`
}

// merge: 来た分だけ上書き（セクション単位）。空のセクションは既存を残す。
func (s Sections) merge(in Sections) Sections {
	out := s
	if in.General != nil {
		out.General = in.General
	}
	if len(in.Meals) > 0 {
		out.Meals = in.Meals
	}
	if in.Nap != nil {
		out.Nap = in.Nap
	}
	if len(in.Toileting) > 0 {
		out.Toileting = in.Toileting
	}
	return out
}

type Report struct {
	ReportID  string
	ChildID   string
	ReportOn  string // YYYY-MM-DD
	Status    Status
	Sections  Sections
	CreatedBy string
	LockedBy  *string
	LockedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Report) toDTO() ReportResponse {
	res := ReportResponse{
		ReportID:  r.ReportID,
		ChildID:   r.ChildID,
		ReportOn:  r.ReportOn,
		Status:    string(r.Status),
		Sections:  r.Sections,
		CreatedBy: r.CreatedBy,
		LockedBy:  r.LockedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.LockedAt != nil {
		t := r.LockedAt.UTC()
		res.LockedAt = &t
	}
	return res
}
