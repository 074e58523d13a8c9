package domain

import "time"

// MembershipStatus represents the lifecycle state of a membership record
type MembershipStatus string

const (
	MembershipActive     MembershipStatus = "active"
	MembershipExpired    MembershipStatus = "expired"
	MembershipCancelled  MembershipStatus = "cancelled"
	MembershipSuperseded MembershipStatus = "superseded"
	MembershipPending    MembershipStatus = "pending"
)

// MembershipPlan is an admin-authored subscription plan
type MembershipPlan struct {
	ID   int64
	Name string
	// MonthlyClassLimit is the number of classes bookable per cycle;
	// nil means unlimited
	MonthlyClassLimit *int
	PriceMonthly      float64
}

// IsUnlimited returns true if the plan has no monthly class limit
func (p *MembershipPlan) IsUnlimited() bool {
	return p.MonthlyClassLimit == nil
}

// MembershipRecord is a user's subscription to a plan for a date range
type MembershipRecord struct {
	ID        int64
	UserID    int64
	PlanID    int64
	StartDate time.Time
	EndDate   time.Time
	Status    MembershipStatus

	// Plan is joined in by the repository
	Plan *MembershipPlan

	CreatedAt time.Time
}

// Covers returns true if the record entitles the user to book on the date:
// status is active and the end date has not passed
func (m *MembershipRecord) Covers(date time.Time) bool {
	if m.Status != MembershipActive {
		return false
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	e := time.Date(m.EndDate.Year(), m.EndDate.Month(), m.EndDate.Day(), 0, 0, 0, 0, date.Location())
	return !e.Before(d)
}
