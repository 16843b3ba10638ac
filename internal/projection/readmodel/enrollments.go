// Package readmodel holds query-side views built by projection handlers.
package readmodel

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"registrar/internal/eventstore"
	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
)

// Enrollments counts how many students selected each course per semester.
// Events are applied at most once by id, so live dispatch and Catchup may
// overlap.
type Enrollments struct {
	mu      sync.RWMutex
	counts  map[id.SemesterID]map[id.CourseID]int
	applied map[uuid.UUID]struct{}
}

func NewEnrollments() *Enrollments {
	return &Enrollments{
		counts:  make(map[id.SemesterID]map[id.CourseID]int),
		applied: make(map[uuid.UUID]struct{}),
	}
}

func (m *Enrollments) EventTypes() []string {
	return []string{models.EventTypeCoursesSelected}
}

func (m *Enrollments) Handle(_ context.Context, event eventstore.Event) error {
	evt, err := models.DecodeCoursesSelected(event)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.applied[event.ID]; ok {
		return nil
	}
	m.applied[event.ID] = struct{}{}

	semester, ok := m.counts[evt.SemesterID]
	if !ok {
		semester = make(map[id.CourseID]int)
		m.counts[evt.SemesterID] = semester
	}
	for _, s := range evt.CourseSelections {
		semester[s.CourseID]++
	}
	return nil
}

// Count returns the number of students enrolled in courseID for semesterID.
func (m *Enrollments) Count(_ context.Context, semesterID id.SemesterID, courseID id.CourseID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[semesterID][courseID], nil
}

// Semester returns a copy of every course count for semesterID.
func (m *Enrollments) Semester(_ context.Context, semesterID id.SemesterID) (map[id.CourseID]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[id.CourseID]int, len(m.counts[semesterID]))
	maps.Copy(out, m.counts[semesterID])
	return out, nil
}
