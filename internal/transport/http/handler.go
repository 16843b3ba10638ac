package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registrar/internal/projection/readmodel"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/httputil"
	"registrar/pkg/requestcontext"
)

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"
)

// Check probes one dependency. A failing critical check turns /healthz into a
// 503; a failing non-critical check only marks it degraded.
type Check struct {
	Name     string
	Critical bool
	Probe    func(ctx context.Context) error
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// EnrollmentsResponse is the /enrollments/{semesterID} body.
type EnrollmentsResponse struct {
	SemesterID string         `json:"semester_id"`
	Courses    map[string]int `json:"courses"`
}

// Handler serves the ops endpoints. Registration commands are not exposed here.
type Handler struct {
	checks      []Check
	enrollments readmodel.EnrollmentReader
	logger      *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithCheck(check Check) Option {
	return func(h *Handler) {
		if check.Probe != nil {
			h.checks = append(h.checks, check)
		}
	}
}

// WithEnrollments mounts the enrollment read model at /enrollments.
func WithEnrollments(reader readmodel.EnrollmentReader) Option {
	return func(h *Handler) {
		h.enrollments = reader
	}
}

func New(opts ...Option) *Handler {
	h := &Handler{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the handler's endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	if h.enrollments != nil {
		r.Get("/enrollments/{semesterID}", h.HandleSemesterEnrollments)
	}
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := HealthResponse{Status: statusOK}
	code := http.StatusOK

	for _, check := range h.checks {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(h.checks))
		}
		if err := check.Probe(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed",
				"request_id", requestcontext.RequestID(ctx),
				"check", check.Name,
				"error", err,
			)
			if check.Critical {
				resp.Checks[check.Name] = statusUnavailable
				resp.Status = statusUnavailable
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[check.Name] = statusDegraded
			if resp.Status == statusOK {
				resp.Status = statusDegraded
			}
			continue
		}
		resp.Checks[check.Name] = statusOK
	}

	httputil.WriteJSON(w, code, resp)
}

// HandleSemesterEnrollments handles GET /enrollments/{semesterID}.
func (h *Handler) HandleSemesterEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	semesterID, err := id.ParseSemesterID(chi.URLParam(r, "semesterID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	counts, err := h.enrollments.Semester(ctx, semesterID)
	if err != nil {
		h.logger.ErrorContext(ctx, "enrollment read failed",
			"request_id", requestcontext.RequestID(ctx),
			"semester_id", semesterID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "enrollment read model unavailable"))
		return
	}

	resp := EnrollmentsResponse{
		SemesterID: semesterID.String(),
		Courses:    make(map[string]int, len(counts)),
	}
	for courseID, n := range counts {
		resp.Courses[courseID.String()] = n
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
