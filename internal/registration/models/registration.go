// Package models holds the course registration aggregate: its reconstructed
// view, the events it emits, and the pure rules that decide whether a proposed
// selection may be appended.
package models

import (
	"slices"

	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// CourseType classifies a course within a degree plan.
type CourseType string

const (
	CourseTypeRequired CourseType = "required"
	CourseTypeElective CourseType = "elective"
	CourseTypeGeneral  CourseType = "general"
)

// IsValid checks if the course type is one of the supported enum values.
func (t CourseType) IsValid() bool {
	switch t {
	case CourseTypeRequired, CourseTypeElective, CourseTypeGeneral:
		return true
	}
	return false
}

// ParseCourseType creates a CourseType from a string, validating it.
func ParseCourseType(s string) (CourseType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "course type cannot be empty")
	}
	t := CourseType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid course type: must be 'required', 'elective' or 'general'")
	}
	return t, nil
}

func (t CourseType) String() string {
	return string(t)
}

// RegistrationStatus is the lifecycle state of a student's semester registration.
type RegistrationStatus string

const (
	StatusDraft     RegistrationStatus = "draft"
	StatusSubmitted RegistrationStatus = "submitted"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusDropped   RegistrationStatus = "dropped"
)

// IsValid checks if the status is one of the supported enum values.
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusConfirmed, StatusDropped:
		return true
	}
	return false
}

func (s RegistrationStatus) String() string {
	return string(s)
}

// SelectedCourse is one course held by a registration.
type SelectedCourse struct {
	CourseID   id.CourseID   `json:"course_id"`
	Credits    id.CreditUnit `json:"credits"`
	CourseType CourseType    `json:"course_type"`
	IsRequired bool          `json:"is_required"`
}

// Registration is the read view of one student's registration for one
// semester, reconstructed by folding its event stream.
//
// ActualTotalCredits is authoritative. A semester total routinely exceeds the
// per-course CreditUnit maximum, so it is never stored as a CreditUnit.
type Registration struct {
	StudentID          id.StudentID       `json:"student_id"`
	SemesterID         id.SemesterID      `json:"semester_id"`
	SelectedCourses    []SelectedCourse   `json:"selected_courses"`
	Status             RegistrationStatus `json:"status"`
	ActualTotalCredits float64            `json:"actual_total_credits"`

	// Version is the stream version the view was folded from. Zero means no
	// events have been recorded.
	Version int64 `json:"version"`
}

// NewRegistration returns the empty draft registration a stream starts from.
func NewRegistration(studentID id.StudentID, semesterID id.SemesterID) *Registration {
	return &Registration{
		StudentID:       studentID,
		SemesterID:      semesterID,
		SelectedCourses: []SelectedCourse{},
		Status:          StatusDraft,
	}
}

// TotalCredits returns the total bounded to the CreditUnit range, for
// consumers that only accept the bounded type. Use ActualTotalCredits for any
// limit arithmetic.
func (r *Registration) TotalCredits() id.CreditUnit {
	return id.CreditUnit(min(r.ActualTotalCredits, id.MaxCreditUnit))
}

// CourseIDs lists the selected course ids in selection order.
func (r *Registration) CourseIDs() []id.CourseID {
	ids := make([]id.CourseID, len(r.SelectedCourses))
	for i, c := range r.SelectedCourses {
		ids[i] = c.CourseID
	}
	return ids
}

// HasCourse reports whether courseID is already selected.
func (r *Registration) HasCourse(courseID id.CourseID) bool {
	return slices.ContainsFunc(r.SelectedCourses, func(c SelectedCourse) bool {
		return c.CourseID == courseID
	})
}

// Clone returns a deep copy so callers can hand out views without sharing the
// course slice.
func (r *Registration) Clone() *Registration {
	if r == nil {
		return nil
	}
	out := *r
	out.SelectedCourses = slices.Clone(r.SelectedCourses)
	if out.SelectedCourses == nil {
		out.SelectedCourses = []SelectedCourse{}
	}
	return &out
}
