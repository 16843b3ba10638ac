package models

import (
	id "registrar/pkg/domain"
)

const streamPrefix = "student-registration-"

// StreamID names the event stream holding one student's registration for one
// semester.
func StreamID(studentID id.StudentID, semesterID id.SemesterID) string {
	return streamPrefix + studentID.String() + "-" + semesterID.String()
}
