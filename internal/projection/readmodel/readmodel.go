package readmodel

import (
	"context"

	id "registrar/pkg/domain"
)

// EnrollmentReader answers course enrollment queries.
type EnrollmentReader interface {
	Count(ctx context.Context, semesterID id.SemesterID, courseID id.CourseID) (int, error)
	Semester(ctx context.Context, semesterID id.SemesterID) (map[id.CourseID]int, error)
}

var (
	_ EnrollmentReader = (*Enrollments)(nil)
	_ EnrollmentReader = (*RedisEnrollments)(nil)
)
