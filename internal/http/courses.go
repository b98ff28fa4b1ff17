package http

import (
	"net/http"
	"strings"

	"campus/courses/internal/model"
	"campus/courses/internal/repository"
)

type createCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	TeacherID   int64  `json:"teacher_id"`
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Duration <= 0 || req.TeacherID <= 0 {
		writeError(w, http.StatusBadRequest, "title, duration and teacher_id are required")
		return
	}

	course, err := s.store.CreateCourse(r.Context(), model.Course{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		TeacherID:   req.TeacherID,
	})
	if err != nil {
		writeStoreError(w, err, "course not found")
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	teacherID, err := queryInt64(r, "teacher_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	courses, err := s.store.ListCourses(r.Context(), repository.CourseFilter{
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		TeacherID: teacherID,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	course, err := s.store.GetCourse(r.Context(), courseID)
	if err != nil {
		writeStoreError(w, err, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

type updateCourseRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	TeacherID   *int64  `json:"teacher_id,omitempty"`
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Duration != nil && *req.Duration <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}

	course, err := s.store.UpdateCourse(r.Context(), courseID, repository.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		TeacherID:   req.TeacherID,
	})
	if err != nil {
		writeStoreError(w, err, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (s *Server) handleCourseStudents(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	found, err := s.store.CourseExists(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	enrollments, err := s.store.CourseEnrollments(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}

func (s *Server) handleCourseGrades(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	found, err := s.store.CourseExists(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	grades, err := s.store.CourseGrades(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (s *Server) handleCourseStatistics(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	found, err := s.store.CourseExists(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	stats, err := s.store.CourseStatistics(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
