package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
	"campus/courses/internal/repository"
)

type createGradeRequest struct {
	StudentID       int64       `json:"student_id"`
	CourseID        int64       `json:"course_id"`
	AssignmentTitle string      `json:"assignment_title"`
	GradeValue      float64     `json:"grade_value"`
	SubmissionDate  *model.Date `json:"submission_date,omitempty"`
}

func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var req createGradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AssignmentTitle = strings.TrimSpace(req.AssignmentTitle)
	if req.StudentID <= 0 || req.CourseID <= 0 || req.AssignmentTitle == "" {
		writeError(w, http.StatusBadRequest, "student_id, course_id and assignment_title are required")
		return
	}

	submitted := model.NewDate(time.Now().UTC())
	if req.SubmissionDate != nil {
		submitted = *req.SubmissionDate
	}

	grade, err := s.store.CreateGrade(r.Context(), model.Grade{
		StudentID:       req.StudentID,
		CourseID:        req.CourseID,
		AssignmentTitle: req.AssignmentTitle,
		GradeValue:      req.GradeValue,
		SubmissionDate:  submitted,
	})
	if err != nil {
		writeStoreError(w, err, "grade not found")
		return
	}
	writeJSON(w, http.StatusCreated, grade)
}

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	studentID, err := queryInt64(r, "student_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	courseID, err := queryInt64(r, "course_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dateFrom, err := queryDate(r, "date_from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dateTo, err := queryDate(r, "date_to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grades, err := s.store.ListGrades(r.Context(), repository.GradeFilter{
		StudentID: studentID,
		CourseID:  courseID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (s *Server) handleGetGrade(w http.ResponseWriter, r *http.Request) {
	gradeID, err := parseID(r, "gradeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	grade, err := s.store.GetGrade(r.Context(), gradeID)
	if err != nil {
		writeStoreError(w, err, "grade not found")
		return
	}
	writeJSON(w, http.StatusOK, grade)
}

type updateGradeRequest struct {
	AssignmentTitle *string     `json:"assignment_title,omitempty"`
	GradeValue      *float64    `json:"grade_value,omitempty"`
	SubmissionDate  *model.Date `json:"submission_date,omitempty"`
}

func (s *Server) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	gradeID, err := parseID(r, "gradeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateGradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grade, err := s.store.UpdateGrade(r.Context(), gradeID, repository.GradeUpdate{
		AssignmentTitle: req.AssignmentTitle,
		GradeValue:      req.GradeValue,
		SubmissionDate:  req.SubmissionDate,
	})
	if err != nil {
		writeStoreError(w, err, "grade not found")
		return
	}
	writeJSON(w, http.StatusOK, grade)
}

func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	gradeID, err := parseID(r, "gradeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteGrade(r.Context(), gradeID); err != nil {
		writeStoreError(w, err, "grade not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type averageGradeResponse struct {
	StudentID    int64   `json:"student_id"`
	CourseID     int64   `json:"course_id"`
	AverageGrade float64 `json:"average_grade"`
}

func (s *Server) handleAverageGrade(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	courseID, err := parseID(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	average, err := s.store.AverageGrade(r.Context(), studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "no grades found for this student and course")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, averageGradeResponse{
		StudentID:    studentID,
		CourseID:     courseID,
		AverageGrade: average,
	})
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := model.ParseDate(raw)
	if err != nil {
		return nil, errors.New("invalid " + key + ", expected YYYY-MM-DD")
	}
	t := parsed.Time
	return &t, nil
}

func urlDate(r *http.Request, param string) (time.Time, error) {
	parsed, err := model.ParseDate(chi.URLParam(r, param))
	if err != nil {
		return time.Time{}, errors.New("invalid " + param + ", expected YYYY-MM-DD")
	}
	return parsed.Time, nil
}
