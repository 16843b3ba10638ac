package models

import (
	"fmt"
	"strings"
	"time"

	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// DuplicateSelectionError rejects a selection naming a course twice, either
// within the proposal or against courses already held.
type DuplicateSelectionError struct {
	CourseIDs []id.CourseID

	// AlreadySelected is true when the duplicates were found in the existing
	// registration rather than inside the proposal.
	AlreadySelected bool
}

func (e *DuplicateSelectionError) Error() string {
	ids := make([]string, len(e.CourseIDs))
	for i, c := range e.CourseIDs {
		ids[i] = c.String()
	}
	if e.AlreadySelected {
		return "courses already selected: " + strings.Join(ids, ", ")
	}
	return "the same course is selected more than once: " + strings.Join(ids, ", ")
}

func (e *DuplicateSelectionError) Code() dErrors.Code {
	return dErrors.CodeValidation
}

// CreditLimitExceededError rejects a selection that would take the semester
// total past the credit limit.
type CreditLimitExceededError struct {
	CurrentCredits   float64
	Limit            float64
	AttemptedCredits float64
}

// Remaining is how many credits could still be added.
func (e *CreditLimitExceededError) Remaining() float64 {
	return e.Limit - e.CurrentCredits
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit of %g exceeded: attempted %g credits, %g remaining",
		e.Limit, e.AttemptedCredits, e.Remaining())
}

func (e *CreditLimitExceededError) Code() dErrors.Code {
	return dErrors.CodeInvariantViolation
}

// NotFoundStudentRegistrationError reports that a student has no registration
// stream for a semester.
type NotFoundStudentRegistrationError struct {
	StudentID  id.StudentID
	SemesterID id.SemesterID
}

func (e *NotFoundStudentRegistrationError) Error() string {
	return fmt.Sprintf("StudentRegistration not found for student %s in semester %s", e.StudentID, e.SemesterID)
}

func (e *NotFoundStudentRegistrationError) Code() dErrors.Code {
	return dErrors.CodeNotFound
}

// OutsideRegistrationPeriodError rejects a selection made while the semester's
// registration period is not open.
type OutsideRegistrationPeriodError struct {
	SemesterID id.SemesterID
	At         time.Time
}

func (e *OutsideRegistrationPeriodError) Error() string {
	return fmt.Sprintf("registration for semester %s is not open at %s", e.SemesterID, e.At.Format(time.RFC3339))
}

func (e *OutsideRegistrationPeriodError) Code() dErrors.Code {
	return dErrors.CodeValidation
}
