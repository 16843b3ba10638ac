package models

import (
	"fmt"
	"time"

	"registrar/internal/eventstore"
	id "registrar/pkg/domain"
)

// EventTypeCoursesSelected is the only event the registration stream records.
const EventTypeCoursesSelected = "CoursesSelected"

// CourseSelection is one proposed course and its credit weight. CourseType and
// IsRequired are optional; when empty the course is folded in as a non-required
// elective.
type CourseSelection struct {
	CourseID   id.CourseID   `json:"course_id"`
	Credits    id.CreditUnit `json:"credits"`
	CourseType CourseType    `json:"course_type,omitempty"`
	IsRequired bool          `json:"is_required,omitempty"`
}

// CoursesSelected records a batch of courses accepted into a registration.
type CoursesSelected struct {
	StudentID         id.StudentID      `json:"student_id"`
	SemesterID        id.SemesterID     `json:"semester_id"`
	CourseSelections  []CourseSelection `json:"course_selections"`
	TotalCreditsAdded float64           `json:"total_credits_added"`
	SelectedAt        time.Time         `json:"selected_at"`

	// Populated from the stored envelope when decoding; not part of the payload.
	StreamID   string    `json:"-"`
	Version    int64     `json:"-"`
	RecordedAt time.Time `json:"-"`
}

// ToEvent encodes the payload as an unsaved store event.
func (e *CoursesSelected) ToEvent() (eventstore.Event, error) {
	return eventstore.NewEvent(EventTypeCoursesSelected, e)
}

// DecodeCoursesSelected decodes a stored CoursesSelected event, copying the
// envelope's stream id, version and timestamp onto the result.
func DecodeCoursesSelected(e eventstore.Event) (*CoursesSelected, error) {
	if e.Type != EventTypeCoursesSelected {
		return nil, fmt.Errorf("unexpected event type %q, want %q", e.Type, EventTypeCoursesSelected)
	}
	var payload CoursesSelected
	if err := e.Decode(&payload); err != nil {
		return nil, err
	}
	payload.StreamID = e.StreamID
	payload.Version = e.Version
	payload.RecordedAt = e.Timestamp
	return &payload, nil
}
