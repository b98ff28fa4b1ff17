package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campus/courses/internal/model"
)

// performanceLevel buckets an average grade on a five-point scale.
func performanceLevel(average *float64) string {
	if average == nil {
		return "no data"
	}
	switch {
	case *average >= 4.5:
		return "excellent"
	case *average >= 3.5:
		return "good"
	case *average >= 2.5:
		return "satisfactory"
	default:
		return "unsatisfactory"
	}
}

type rosterReportResponse struct {
	CourseID    int64                   `json:"course_id"`
	CourseTitle string                  `json:"course_title"`
	GeneratedAt time.Time               `json:"generated_at"`
	Students    []model.CourseRosterRow `json:"students"`
}

func (s *Server) handleStudentsByCourseReport(w http.ResponseWriter, r *http.Request) {
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

	students, err := s.store.StudentsByCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, rosterReportResponse{
		CourseID:    courseID,
		CourseTitle: course.Title,
		GeneratedAt: time.Now().UTC(),
		Students:    students,
	})
}

type performanceReportResponse struct {
	CourseID    int64                  `json:"course_id"`
	CourseTitle string                 `json:"course_title"`
	GeneratedAt time.Time              `json:"generated_at"`
	Students    []model.PerformanceRow `json:"students"`
}

func (s *Server) handlePerformanceReport(w http.ResponseWriter, r *http.Request) {
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

	rows, err := s.store.CoursePerformance(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	for i := range rows {
		rows[i].PerformanceLevel = performanceLevel(rows[i].AverageGrade)
	}
	writeJSON(w, http.StatusOK, performanceReportResponse{
		CourseID:    courseID,
		CourseTitle: course.Title,
		GeneratedAt: time.Now().UTC(),
		Students:    rows,
	})
}

type courseReportResponse struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Courses     []model.CourseReportRow `json:"courses"`
}

func (s *Server) handleCourseReport(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.CourseReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, courseReportResponse{
		GeneratedAt: time.Now().UTC(),
		Courses:     courses,
	})
}

type scheduleReportResponse struct {
	StartDate   model.Date                `json:"start_date"`
	EndDate     model.Date                `json:"end_date"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Entries     []model.ScheduleReportRow `json:"entries"`
}

func (s *Server) handleScheduleReport(w http.ResponseWriter, r *http.Request) {
	start, err := urlDate(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := urlDate(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "start date must not be after end date")
		return
	}

	entries, err := s.store.ScheduleReport(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, scheduleReportResponse{
		StartDate:   model.NewDate(start),
		EndDate:     model.NewDate(end),
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
	})
}

type transcriptResponse struct {
	StudentID   int64                  `json:"student_id"`
	StudentName string                 `json:"student_name"`
	GeneratedAt time.Time              `json:"generated_at"`
	Courses     []model.TranscriptRow  `json:"courses"`
	Totals      model.TranscriptTotals `json:"totals"`
}

func (s *Server) handleStudentPerformanceReport(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	student, err := s.store.GetStudent(r.Context(), studentID)
	if err != nil {
		writeStoreError(w, err, "student not found")
		return
	}

	courses, totals, err := s.store.StudentTranscript(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{
		StudentID:   studentID,
		StudentName: student.FirstName + " " + student.LastName,
		GeneratedAt: time.Now().UTC(),
		Courses:     courses,
		Totals:      totals,
	})
}

type csvExportResponse struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

func (s *Server) handleExportCourseRosterCSV(w http.ResponseWriter, r *http.Request) {
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

	roster, err := s.store.CourseRosterCSV(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write([]string{"first_name", "last_name", "group_number", "enrollment_date", "final_grade"})
	for _, row := range roster {
		finalGrade := ""
		if row.FinalGrade != nil {
			finalGrade = strconv.FormatFloat(*row.FinalGrade, 'f', -1, 64)
		}
		_ = cw.Write([]string{
			row.FirstName,
			row.LastName,
			row.GroupNumber,
			row.EnrollmentDate.String(),
			finalGrade,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, csvExportResponse{
		Filename:    fmt.Sprintf("course_%d_students.csv", courseID),
		Content:     buf.String(),
		ContentType: "text/csv",
	})
}
