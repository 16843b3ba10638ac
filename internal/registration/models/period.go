package models

import (
	"time"

	id "registrar/pkg/domain"
)

// PeriodStatus is the administrative state of a registration period.
type PeriodStatus string

const (
	PeriodActive    PeriodStatus = "active"
	PeriodClosed    PeriodStatus = "closed"
	PeriodSuspended PeriodStatus = "suspended"
)

// RegistrationPeriod bounds when students may add and drop courses for a
// semester. All bounds are inclusive.
type RegistrationPeriod struct {
	SemesterID   id.SemesterID `json:"semester_id"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	DropDeadline time.Time     `json:"drop_deadline"`
	Status       PeriodStatus  `json:"status"`
}

// NewRegistrationPeriod returns an active period.
func NewRegistrationPeriod(semesterID id.SemesterID, start, end, dropDeadline time.Time) RegistrationPeriod {
	return RegistrationPeriod{
		SemesterID:   semesterID,
		StartDate:    start,
		EndDate:      end,
		DropDeadline: dropDeadline,
		Status:       PeriodActive,
	}
}

// IsActive reports whether selections are accepted at now.
func (p RegistrationPeriod) IsActive(now time.Time) bool {
	return p.Status == PeriodActive && !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// CanDrop reports whether courses may still be dropped at now.
func (p RegistrationPeriod) CanDrop(now time.Time) bool {
	return p.Status == PeriodActive && !now.After(p.DropDeadline)
}
