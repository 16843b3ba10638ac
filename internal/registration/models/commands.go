package models

import (
	"math"

	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// SelectCoursesCommand adds several courses to a registration in one event.
type SelectCoursesCommand struct {
	StudentID        id.StudentID
	SemesterID       id.SemesterID
	CourseSelections []CourseSelection
}

// Validate checks the command is addressed to a registration and that every
// credit weight is within CreditUnit bounds, so a hand-built value cannot lower
// the running total. Identifier formats are the caller's concern.
func (c *SelectCoursesCommand) Validate() error {
	if c == nil {
		return dErrors.New(dErrors.CodeValidation, "command is required")
	}
	if c.StudentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "student id is required")
	}
	if c.SemesterID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "semester id is required")
	}
	for _, s := range c.CourseSelections {
		if s.CourseID == "" {
			return dErrors.New(dErrors.CodeValidation, "course id is required")
		}
		if c := s.Credits.Float(); math.IsNaN(c) || c < 0 || c > id.MaxCreditUnit {
			return dErrors.New(dErrors.CodeValidation, "credits for "+s.CourseID.String()+" must be between 0 and 10")
		}
		if s.CourseType != "" && !s.CourseType.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "invalid course type: "+s.CourseType.String())
		}
	}
	return nil
}

// SelectCourseCommand adds a single course, recording its type and whether it
// is required.
type SelectCourseCommand struct {
	StudentID  id.StudentID
	SemesterID id.SemesterID
	CourseID   id.CourseID
	Credits    id.CreditUnit
	CourseType CourseType
	IsRequired bool
}

// AsSelectCourses expresses the single-course command as a one-course batch.
func (c *SelectCourseCommand) AsSelectCourses() *SelectCoursesCommand {
	return &SelectCoursesCommand{
		StudentID:  c.StudentID,
		SemesterID: c.SemesterID,
		CourseSelections: []CourseSelection{{
			CourseID:   c.CourseID,
			Credits:    c.Credits,
			CourseType: c.CourseType,
			IsRequired: c.IsRequired,
		}},
	}
}

// GetRegistrationQuery addresses one student's registration for one semester.
type GetRegistrationQuery struct {
	StudentID  id.StudentID
	SemesterID id.SemesterID
}
