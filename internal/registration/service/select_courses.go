package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"registrar/internal/eventstore"
	"registrar/internal/registration/metrics"
	"registrar/internal/registration/models"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/requestcontext"
)

const (
	commandSelectCourses = "select_courses"
	commandSelectCourse  = "select_course"
)

// SelectCourses adds a batch of courses to the student's registration and
// returns the recorded event.
//
// Domain rejections (*models.DuplicateSelectionError,
// *models.CreditLimitExceededError, *models.OutsideRegistrationPeriodError)
// are final and append nothing. When every retry loses a concurrency race the
// last *eventstore.ConcurrencyError is returned.
func (s *Service) SelectCourses(ctx context.Context, cmd *models.SelectCoursesCommand) (*models.CoursesSelected, error) {
	return s.selectCourses(ctx, commandSelectCourses, cmd)
}

// SelectCourse adds a single course, keeping its course type and required
// flag on the registration.
func (s *Service) SelectCourse(ctx context.Context, cmd *models.SelectCourseCommand) (*models.CoursesSelected, error) {
	if cmd == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "command is required")
	}
	return s.selectCourses(ctx, commandSelectCourse, cmd.AsSelectCourses())
}

func (s *Service) selectCourses(ctx context.Context, command string, cmd *models.SelectCoursesCommand) (*models.CoursesSelected, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveCommandLatency(command, time.Since(start))
	}()

	if err := cmd.Validate(); err != nil {
		s.metrics.IncrementOutcome(command, metrics.OutcomeInvalid)
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "registration.SelectCourses")
	defer span.End()
	span.SetAttributes(
		attribute.String("command", command),
		attribute.String("student_id", cmd.StudentID.String()),
		attribute.String("semester_id", cmd.SemesterID.String()),
		attribute.Int("course_count", len(cmd.CourseSelections)),
	)

	result, err := s.decideAndAppend(ctx, command, cmd)
	if err != nil {
		outcome := outcomeFor(err)
		s.metrics.IncrementOutcome(command, outcome)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		level := slog.LevelInfo
		if outcome == metrics.OutcomeError {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "course selection rejected",
			"command", command,
			"student_id", cmd.StudentID,
			"semester_id", cmd.SemesterID,
			"outcome", outcome,
			"error", err,
		)
		return nil, err
	}

	s.metrics.IncrementOutcome(command, metrics.OutcomeAccepted)
	s.metrics.ObserveCreditsAdded(result.TotalCreditsAdded)
	span.SetAttributes(attribute.Int64("stream_version", result.Version))
	s.logger.InfoContext(ctx, "courses selected",
		"command", command,
		"stream_id", result.StreamID,
		"version", result.Version,
		"student_id", result.StudentID,
		"semester_id", result.SemesterID,
		"courses", len(result.CourseSelections),
		"credits_added", result.TotalCreditsAdded,
	)
	return result, nil
}

// decideAndAppend runs load, validate, append until the append lands, a rule
// rejects the proposal, or the retry budget is spent.
func (s *Service) decideAndAppend(ctx context.Context, command string, cmd *models.SelectCoursesCommand) (*models.CoursesSelected, error) {
	now := requestcontext.Now(ctx)
	if err := s.checkPeriod(ctx, cmd, now); err != nil {
		return nil, err
	}

	streamID := models.StreamID(cmd.StudentID, cmd.SemesterID)

	var lastConflict error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.metrics.IncrementRetries()
			s.logger.DebugContext(ctx, "retrying course selection after concurrency conflict",
				"command", command,
				"stream_id", streamID,
				"attempt", attempt,
				"error", lastConflict,
			)
		}

		current, err := s.loadOrEmpty(ctx, cmd.StudentID, cmd.SemesterID)
		if err != nil {
			return nil, err
		}

		accepted, err := models.SelectCoursesWithin(current, cmd.CourseSelections, s.creditLimit)
		if err != nil {
			return nil, err
		}

		payload := &models.CoursesSelected{
			StudentID:         cmd.StudentID,
			SemesterID:        cmd.SemesterID,
			CourseSelections:  accepted.Courses,
			TotalCreditsAdded: accepted.AdditionalCredits,
			SelectedAt:        now,
		}
		event, err := payload.ToEvent()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode course selection")
		}

		stored, err := s.store.Append(ctx, streamID, current.Version, event)
		if err != nil {
			var conflict *eventstore.ConcurrencyError
			if errors.As(err, &conflict) {
				lastConflict = conflict
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append course selection")
		}
		if len(stored) != 1 {
			return nil, dErrors.New(dErrors.CodeInternal, "event store returned an unexpected batch")
		}

		result, err := models.DecodeCoursesSelected(stored[0])
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode stored course selection")
		}
		return result, nil
	}

	return nil, lastConflict
}

func (s *Service) checkPeriod(ctx context.Context, cmd *models.SelectCoursesCommand, now time.Time) error {
	if s.periods == nil {
		return nil
	}
	period, err := s.periods.Period(ctx, cmd.SemesterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &models.OutsideRegistrationPeriodError{SemesterID: cmd.SemesterID, At: now}
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up registration period")
	}
	if period == nil || !period.IsActive(now) {
		return &models.OutsideRegistrationPeriodError{SemesterID: cmd.SemesterID, At: now}
	}
	return nil
}

func outcomeFor(err error) string {
	var (
		duplicate *models.DuplicateSelectionError
		limit     *models.CreditLimitExceededError
		closed    *models.OutsideRegistrationPeriodError
		conflict  *eventstore.ConcurrencyError
	)
	switch {
	case errors.As(err, &duplicate):
		return metrics.OutcomeDuplicate
	case errors.As(err, &limit):
		return metrics.OutcomeCreditLimit
	case errors.As(err, &closed):
		return metrics.OutcomeClosed
	case errors.As(err, &conflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
