package httptransport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/suite"

	"registrar/internal/projection/readmodel"
	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	"registrar/pkg/requestcontext"
	"registrar/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	enrollments *readmodel.Enrollments
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.enrollments = readmodel.NewEnrollments()
}

func (s *RouterSuite) router(opts ...Option) http.Handler {
	return NewRouter(New(opts...), nil)
}

func (s *RouterSuite) selectCourses(semesterID id.SemesterID, courses ...id.CourseID) {
	selections := make([]models.CourseSelection, len(courses))
	for i, c := range courses {
		selections[i] = models.CourseSelection{CourseID: c, Credits: 3}
	}
	e, err := (&models.CoursesSelected{
		StudentID:        "STU1234567",
		SemesterID:       semesterID,
		CourseSelections: selections,
	}).ToEvent()
	s.Require().NoError(err)
	e.ID = uuid.New()
	s.Require().NoError(s.enrollments.Handle(context.Background(), e))
}

// =============================================================================
// /healthz
// =============================================================================

func (s *RouterSuite) TestHealth() {
	s.Run("no checks reports ok", func() {
		rr := testutil.Get(s.T(), s.router(), "/healthz")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		resp := testutil.DecodeJSON[HealthResponse](s.T(), rr)
		s.Equal("ok", resp.Status)
		s.Empty(resp.Checks)
	})

	s.Run("failing critical check returns 503", func() {
		router := s.router(
			WithCheck(Check{Name: "redis", Critical: true, Probe: func(context.Context) error {
				return errors.New("connection refused")
			}}),
		)
		rr := testutil.Get(s.T(), router, "/healthz")
		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)

		resp := testutil.DecodeJSON[HealthResponse](s.T(), rr)
		s.Equal("unavailable", resp.Status)
		s.Equal(map[string]string{"redis": "unavailable"}, resp.Checks)
	})

	// Justification: a broken relay must not take the service out of rotation,
	// since commands never depend on Kafka.
	s.Run("failing non-critical check is degraded but 200", func() {
		router := s.router(
			WithCheck(Check{Name: "redis", Critical: true, Probe: func(context.Context) error { return nil }}),
			WithCheck(Check{Name: "kafka_relay", Probe: func(context.Context) error {
				return errors.New("circuit open")
			}}),
		)
		rr := testutil.Get(s.T(), router, "/healthz")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		resp := testutil.DecodeJSON[HealthResponse](s.T(), rr)
		s.Equal("degraded", resp.Status)
		s.Equal(map[string]string{"redis": "ok", "kafka_relay": "degraded"}, resp.Checks)
	})
}

// =============================================================================
// /enrollments/{semesterID}
// =============================================================================

func (s *RouterSuite) TestSemesterEnrollments() {
	s.Run("returns counts from the read model", func() {
		s.selectCourses("2024-Spring", "CS123", "MATH234")
		s.selectCourses("2024-Spring", "CS123")

		rr := testutil.Get(s.T(), s.router(WithEnrollments(s.enrollments)), "/enrollments/2024-Spring")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		resp := testutil.DecodeJSON[EnrollmentsResponse](s.T(), rr)
		s.Equal("2024-Spring", resp.SemesterID)
		s.Equal(map[string]int{"CS123": 2, "MATH234": 1}, resp.Courses)
	})

	s.Run("malformed semester id is 400", func() {
		rr := testutil.Get(s.T(), s.router(WithEnrollments(s.enrollments)), "/enrollments/spring-2024")
		testutil.AssertError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("read model failure is 503", func() {
		rr := testutil.Get(s.T(), s.router(WithEnrollments(failingReader{})), "/enrollments/2024-Spring")
		testutil.AssertError(s.T(), rr, http.StatusServiceUnavailable, "unavailable")
	})

	s.Run("not mounted without a read model", func() {
		rr := testutil.Get(s.T(), s.router(), "/enrollments/2024-Spring")
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})
}

// =============================================================================
// /metrics and middleware
// =============================================================================

func (s *RouterSuite) TestMetrics() {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "registrar_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := NewRouter(New(), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	rr := testutil.Get(s.T(), router, "/metrics")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), "registrar_test_total 1")
}

func (s *RouterSuite) TestRequestIDReachesHandlers() {
	var seen string
	router := s.router(WithCheck(Check{Name: "probe", Probe: func(ctx context.Context) error {
		seen = requestcontext.RequestID(ctx)
		return nil
	}}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	testutil.Do(router, req)

	s.Equal("req-42", seen)
}

type failingReader struct{}

func (failingReader) Count(context.Context, id.SemesterID, id.CourseID) (int, error) {
	return 0, errors.New("redis down")
}

func (failingReader) Semester(context.Context, id.SemesterID) (map[id.CourseID]int, error) {
	return nil, errors.New("redis down")
}
