package http

import (
	"errors"
	"net/http"

	"campus/courses/internal/model"
	"campus/courses/internal/repository"
)

// The final grade is not part of enrollment creation, it is assigned later
// via PUT /enrollments.
type createEnrollmentRequest struct {
	StudentID      int64       `json:"student_id"`
	CourseID       int64       `json:"course_id"`
	EnrollmentDate *model.Date `json:"enrollment_date,omitempty"`
}

func (s *Server) handleCreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var req createEnrollmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StudentID <= 0 || req.CourseID <= 0 {
		writeError(w, http.StatusBadRequest, "student_id and course_id are required")
		return
	}

	enrollment := model.Enrollment{StudentID: req.StudentID, CourseID: req.CourseID}
	if req.EnrollmentDate != nil {
		enrollment.EnrollmentDate = *req.EnrollmentDate
	}

	enrollment, err := s.store.CreateEnrollment(r.Context(), enrollment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "student is already enrolled in this course")
			return
		}
		writeStoreError(w, err, "enrollment not found")
		return
	}
	writeJSON(w, http.StatusCreated, enrollment)
}

func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
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

	enrollments, err := s.store.ListEnrollments(r.Context(), repository.EnrollmentFilter{
		StudentID: studentID,
		CourseID:  courseID,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}

func enrollmentKey(r *http.Request) (studentID, courseID int64, err error) {
	studentID, err = queryInt64(r, "student_id")
	if err == nil && studentID == 0 {
		err = errors.New("student_id is required")
	}
	if err != nil {
		return 0, 0, err
	}
	courseID, err = queryInt64(r, "course_id")
	if err == nil && courseID == 0 {
		err = errors.New("course_id is required")
	}
	if err != nil {
		return 0, 0, err
	}
	return studentID, courseID, nil
}

type setFinalGradeRequest struct {
	Grade *float64 `json:"grade"`
}

func (s *Server) handleSetFinalGrade(w http.ResponseWriter, r *http.Request) {
	studentID, courseID, err := enrollmentKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req setFinalGradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enrollment, err := s.store.SetFinalGrade(r.Context(), studentID, courseID, req.Grade)
	if err != nil {
		writeStoreError(w, err, "enrollment not found")
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

func (s *Server) handleDeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	studentID, courseID, err := enrollmentKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.DeleteEnrollment(r.Context(), studentID, courseID); err != nil {
		writeStoreError(w, err, "enrollment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
