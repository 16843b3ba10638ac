package models

import (
	"registrar/internal/eventstore"
	id "registrar/pkg/domain"
)

// Fold reconstructs a registration from its events in version order. The fold
// trusts the log: it never re-validates, and event types it does not know are
// skipped. Only a payload that cannot be decoded is an error.
func Fold(studentID id.StudentID, semesterID id.SemesterID, events []eventstore.Event) (*Registration, error) {
	r := NewRegistration(studentID, semesterID)
	for _, e := range events {
		if err := r.Apply(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Apply folds a single event into r and advances r.Version.
func (r *Registration) Apply(e eventstore.Event) error {
	switch e.Type {
	case EventTypeCoursesSelected:
		evt, err := DecodeCoursesSelected(e)
		if err != nil {
			return err
		}
		r.applyCoursesSelected(evt)
	default:
		// not part of this aggregate
	}
	if e.Version > r.Version {
		r.Version = e.Version
	}
	return nil
}

func (r *Registration) applyCoursesSelected(e *CoursesSelected) {
	for _, s := range e.CourseSelections {
		courseType := s.CourseType
		if courseType == "" {
			courseType = CourseTypeElective
		}
		r.SelectedCourses = append(r.SelectedCourses, SelectedCourse{
			CourseID:   s.CourseID,
			Credits:    s.Credits,
			CourseType: courseType,
			IsRequired: s.IsRequired,
		})
	}
	r.ActualTotalCredits += e.TotalCreditsAdded
}
