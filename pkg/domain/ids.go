package domain

import (
	"regexp"

	dErrors "registrar/pkg/domain-errors"
)

// Identifiers are domain primitives. Construct them with the Parse functions at
// trust boundaries; a direct conversion such as StudentID("x") bypasses
// validation and is only appropriate in tests.

// StudentID identifies a student, e.g. "STU1234567".
type StudentID string

// CourseID identifies a course offering, e.g. "CS123" or "MATH2345".
type CourseID string

// SemesterID identifies an academic term, e.g. "2024-Spring".
type SemesterID string

// InstructorID identifies an instructor, e.g. "INST123456".
type InstructorID string

var (
	studentIDPattern    = regexp.MustCompile(`^STU[0-9]{7}$`)
	courseIDPattern     = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{3,4}$`)
	semesterIDPattern   = regexp.MustCompile(`^[0-9]{4}-(Spring|Summer|Fall)$`)
	instructorIDPattern = regexp.MustCompile(`^INST[0-9]{6}$`)
)

// ParseStudentID validates s as a StudentID.
func ParseStudentID(s string) (StudentID, error) {
	if err := matchID("student id", s, studentIDPattern); err != nil {
		return "", err
	}
	return StudentID(s), nil
}

// ParseCourseID validates s as a CourseID.
func ParseCourseID(s string) (CourseID, error) {
	if err := matchID("course id", s, courseIDPattern); err != nil {
		return "", err
	}
	return CourseID(s), nil
}

// ParseSemesterID validates s as a SemesterID.
func ParseSemesterID(s string) (SemesterID, error) {
	if err := matchID("semester id", s, semesterIDPattern); err != nil {
		return "", err
	}
	return SemesterID(s), nil
}

// ParseInstructorID validates s as an InstructorID.
func ParseInstructorID(s string) (InstructorID, error) {
	if err := matchID("instructor id", s, instructorIDPattern); err != nil {
		return "", err
	}
	return InstructorID(s), nil
}

func matchID(kind, s string, pattern *regexp.Regexp) error {
	if s == "" {
		return dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	if !pattern.MatchString(s) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" format")
	}
	return nil
}

func (id StudentID) String() string    { return string(id) }
func (id CourseID) String() string     { return string(id) }
func (id SemesterID) String() string   { return string(id) }
func (id InstructorID) String() string { return string(id) }

// IsNil returns true if the ID is empty.
func (id StudentID) IsNil() bool { return id == "" }

// IsNil returns true if the ID is empty.
func (id SemesterID) IsNil() bool { return id == "" }
