package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"registrar/internal/eventstore"
	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// GetRegistration replays the registration stream into its current view. A
// student with no stream for the semester yields
// *models.NotFoundStudentRegistrationError. The query has no side effects.
func (s *Service) GetRegistration(ctx context.Context, query models.GetRegistrationQuery) (*models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "registration.GetRegistration")
	defer span.End()
	span.SetAttributes(
		attribute.String("student_id", query.StudentID.String()),
		attribute.String("semester_id", query.SemesterID.String()),
	)

	registration, err := s.load(ctx, query.StudentID, query.SemesterID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("stream_version", registration.Version))
	return registration, nil
}

func (s *Service) load(ctx context.Context, studentID id.StudentID, semesterID id.SemesterID) (*models.Registration, error) {
	events, err := s.store.Read(ctx, models.StreamID(studentID, semesterID), 0)
	if err != nil {
		var notFound *eventstore.StreamNotFoundError
		if errors.As(err, &notFound) {
			return nil, &models.NotFoundStudentRegistrationError{StudentID: studentID, SemesterID: semesterID}
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registration stream")
	}

	registration, err := models.Fold(studentID, semesterID, events)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fold registration stream")
	}
	return registration, nil
}

// loadOrEmpty is load with a missing stream treated as an empty registration
// at version 0, which is where a first selection starts.
func (s *Service) loadOrEmpty(ctx context.Context, studentID id.StudentID, semesterID id.SemesterID) (*models.Registration, error) {
	registration, err := s.load(ctx, studentID, semesterID)
	var notFound *models.NotFoundStudentRegistrationError
	if errors.As(err, &notFound) {
		return models.NewRegistration(studentID, semesterID), nil
	}
	return registration, err
}
