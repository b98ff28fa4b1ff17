package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campus/courses/internal/auth"
	"campus/courses/internal/config"
	"campus/courses/internal/repository"
)

type Server struct {
	cfg   config.Config
	store *repository.Store
}

func NewServer(cfg config.Config, store *repository.Store) *Server {
	return &Server{cfg: cfg, store: store}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/roles", s.handleListRoles)
	r.Get("/roles/{roleID}", s.handleGetRole)

	r.Route("/users", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.With(s.authMiddleware, s.requireAdmin).Get("/", s.handleListUsers)
		r.With(s.authMiddleware, s.requireAdmin).Post("/", s.handleCreateUser)
		r.With(s.authMiddleware).Get("/{userID}", s.handleGetUser)
		r.With(s.authMiddleware).Patch("/{userID}", s.handlePatchUser)
		r.With(s.authMiddleware).Post("/{userID}/upload-photo", s.handleUploadPhoto)
	})

	r.Route("/teachers", func(r chi.Router) {
		r.With(s.authMiddleware).Get("/", s.handleListTeachers)
		r.With(s.authMiddleware, s.requireAdmin).Post("/", s.handleCreateTeacher)
		r.With(s.authMiddleware).Get("/{teacherID}", s.handleGetTeacher)
		r.With(s.authMiddleware, s.requireAdmin).Patch("/{teacherID}", s.handlePatchTeacher)
	})

	r.Route("/students", func(r chi.Router) {
		r.With(s.authMiddleware).Get("/", s.handleListStudents)
		r.With(s.authMiddleware, s.requireAdmin).Post("/", s.handleCreateStudent)
		r.With(s.authMiddleware).Get("/{studentID}", s.handleGetStudent)
		r.With(s.authMiddleware, s.requireAdmin).Patch("/{studentID}", s.handlePatchStudent)
	})

	r.Route("/courses", func(r chi.Router) {
		r.With(s.authMiddleware).Get("/", s.handleListCourses)
		r.With(s.authMiddleware, s.requireTeacher).Post("/", s.handleCreateCourse)
		r.With(s.authMiddleware).Get("/{courseID}", s.handleGetCourse)
		r.With(s.authMiddleware, s.requireTeacher).Put("/{courseID}", s.handleUpdateCourse)
		r.With(s.authMiddleware).Get("/{courseID}/students", s.handleCourseStudents)
		r.With(s.authMiddleware).Get("/{courseID}/grades", s.handleCourseGrades)
		r.With(s.authMiddleware).Get("/{courseID}/statistics", s.handleCourseStatistics)
	})

	r.Route("/enrollments", func(r chi.Router) {
		r.With(s.authMiddleware).Get("/", s.handleListEnrollments)
		r.With(s.authMiddleware, s.requireTeacher).Post("/", s.handleCreateEnrollment)
		r.With(s.authMiddleware, s.requireTeacher).Put("/", s.handleSetFinalGrade)
		r.With(s.authMiddleware, s.requireTeacher).Delete("/", s.handleDeleteEnrollment)
	})

	r.Route("/grades", func(r chi.Router) {
		r.With(s.authMiddleware).Get("/", s.handleListGrades)
		r.With(s.authMiddleware, s.requireTeacher).Post("/", s.handleCreateGrade)
		r.With(s.authMiddleware).Get("/average/{studentID}/{courseID}", s.handleAverageGrade)
		r.With(s.authMiddleware).Get("/{gradeID}", s.handleGetGrade)
		r.With(s.authMiddleware, s.requireTeacher).Put("/{gradeID}", s.handleUpdateGrade)
		r.With(s.authMiddleware, s.requireTeacher).Delete("/{gradeID}", s.handleDeleteGrade)
	})

	r.Route("/schedule", func(r chi.Router) {
		r.With(s.authMiddleware).Get("/", s.handleListSchedule)
		r.With(s.authMiddleware, s.requireTeacher).Post("/", s.handleCreateScheduleEntry)
		r.With(s.authMiddleware).Get("/daily/{day}", s.handleDailySchedule)
		r.With(s.authMiddleware).Get("/student/{studentID}", s.handleStudentSchedule)
		r.With(s.authMiddleware).Get("/teacher/{teacherID}", s.handleTeacherSchedule)
		r.With(s.authMiddleware).Get("/{entryID}", s.handleGetScheduleEntry)
		r.With(s.authMiddleware, s.requireTeacher).Put("/{entryID}", s.handleUpdateScheduleEntry)
		r.With(s.authMiddleware, s.requireTeacher).Delete("/{entryID}", s.handleDeleteScheduleEntry)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/students-by-course/{courseID}", s.handleStudentsByCourseReport)
		r.Get("/performance-report/{courseID}", s.handlePerformanceReport)
		r.Get("/course-report", s.handleCourseReport)
		r.Get("/schedule-report/{start}/{end}", s.handleScheduleReport)
		r.Get("/student-performance/{studentID}", s.handleStudentPerformanceReport)
		r.Get("/export/csv/students/{courseID}", s.handleExportCourseRosterCSV)
	})

	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadsDir))))

	r.NotFound(s.handleSPA)

	return r
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTAlgorithm, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if claims.Role == "" {
			writeError(w, http.StatusForbidden, "role could not be determined")
			return
		}
		if claims.Role != auth.RoleAdmin {
			writeError(w, http.StatusForbidden, "administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireTeacher admits teachers and administrators.
func (s *Server) requireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if claims.Role == "" {
			writeError(w, http.StatusForbidden, "role could not be determined")
			return
		}
		if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleTeacher {
			writeError(w, http.StatusForbidden, "teacher role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func isAdmin(claims *auth.Claims) bool {
	return claims != nil && claims.Role == auth.RoleAdmin
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps repository sentinels onto status codes. Missing
// referenced entities and constraint violations are client errors; an absent
// target resource is notFound.
func writeStoreError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrEmptyUpdate),
		errors.Is(err, repository.ErrRoleMissing),
		errors.Is(err, repository.ErrTeacherMissing),
		errors.Is(err, repository.ErrStudentMissing),
		errors.Is(err, repository.ErrCourseMissing),
		errors.Is(err, repository.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

var errBadPagination = errors.New("invalid pagination parameters")

func parsePagination(r *http.Request) (skip, limit uint64, err error) {
	skip, limit = 0, defaultLimit
	if raw := r.URL.Query().Get("skip"); raw != "" {
		parsed, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || parsed < 0 {
			return 0, 0, errBadPagination
		}
		skip = uint64(parsed)
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || parsed <= 0 || parsed > maxLimit {
			return 0, 0, errBadPagination
		}
		limit = uint64(parsed)
	}
	return skip, limit, nil
}

func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + param)
	}
	return id, nil
}

func queryInt64(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return id, nil
}
