package models

import (
	"slices"

	id "registrar/pkg/domain"
	"registrar/pkg/platform/strings"
)

// DefaultCreditLimit is the most credits a student may hold in one semester.
const DefaultCreditLimit = 24.0

// Accepted is the outcome of a successful selection check.
type Accepted struct {
	Courses           []CourseSelection
	AdditionalCredits float64
	NewTotal          float64
}

// SelectCourses checks proposed against current under DefaultCreditLimit.
func SelectCourses(current *Registration, proposed []CourseSelection) (Accepted, error) {
	return SelectCoursesWithin(current, proposed, DefaultCreditLimit)
}

// SelectCoursesWithin decides whether proposed may be added to current without
// breaking the selection rules under the given credit limit. Checks run in a
// fixed order: duplicates inside the proposal, duplicates against courses
// already held, then the credit limit. Reaching the limit exactly is allowed.
//
// current is never modified; a nil current is an empty registration.
func SelectCoursesWithin(current *Registration, proposed []CourseSelection, limit float64) (Accepted, error) {
	courseIDs := make([]id.CourseID, len(proposed))
	for i, p := range proposed {
		courseIDs[i] = p.CourseID
	}

	if dups := strings.Duplicates(courseIDs); len(dups) > 0 {
		return Accepted{}, &DuplicateSelectionError{CourseIDs: dups}
	}

	var currentCredits float64
	var held []id.CourseID
	if current != nil {
		currentCredits = current.ActualTotalCredits
		held = current.CourseIDs()
	}

	if dups := strings.Intersect(courseIDs, held); len(dups) > 0 {
		return Accepted{}, &DuplicateSelectionError{CourseIDs: dups, AlreadySelected: true}
	}

	var additional float64
	for _, p := range proposed {
		additional += p.Credits.Float()
	}

	newTotal := currentCredits + additional
	if newTotal > limit {
		return Accepted{}, &CreditLimitExceededError{
			CurrentCredits:   currentCredits,
			Limit:            limit,
			AttemptedCredits: additional,
		}
	}

	return Accepted{
		Courses:           slices.Clone(proposed),
		AdditionalCredits: additional,
		NewTotal:          newTotal,
	}, nil
}
