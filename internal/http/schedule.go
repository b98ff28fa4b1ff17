package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus/courses/internal/model"
	"campus/courses/internal/repository"
)

type createScheduleRequest struct {
	CourseID      int64     `json:"course_id"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
}

func (s *Server) handleCreateScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourseID <= 0 || req.StartDateTime.IsZero() || req.EndDateTime.IsZero() {
		writeError(w, http.StatusBadRequest, "course_id, start_date_time and end_date_time are required")
		return
	}

	entry, err := s.store.CreateScheduleEntry(r.Context(), model.ScheduleEntry{
		CourseID:      req.CourseID,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
	})
	if err != nil {
		writeStoreError(w, err, "schedule entry not found")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListSchedule(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
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

	entries, err := s.store.ListSchedule(r.Context(), repository.ScheduleFilter{
		CourseID: courseID,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetScheduleEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := parseID(r, "entryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := s.store.GetScheduleEntry(r.Context(), entryID)
	if err != nil {
		writeStoreError(w, err, "schedule entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type updateScheduleRequest struct {
	StartDateTime *time.Time `json:"start_date_time,omitempty"`
	EndDateTime   *time.Time `json:"end_date_time,omitempty"`
}

func (s *Server) handleUpdateScheduleEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := parseID(r, "entryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.store.UpdateScheduleEntry(r.Context(), entryID, repository.ScheduleUpdate{
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
	})
	if err != nil {
		writeStoreError(w, err, "schedule entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteScheduleEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := parseID(r, "entryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteScheduleEntry(r.Context(), entryID); err != nil {
		writeStoreError(w, err, "schedule entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDailySchedule(w http.ResponseWriter, r *http.Request) {
	day, err := urlDate(r, "day")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.store.DailySchedule(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func daysAhead(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days_ahead")
	if raw == "" {
		return 7, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 30 {
		return 0, errors.New("days_ahead must be between 1 and 30")
	}
	return days, nil
}

func (s *Server) handleStudentSchedule(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := daysAhead(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.store.StudentSchedule(r.Context(), studentID, days)
	if err != nil {
		writeStoreError(w, err, "student not found")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleTeacherSchedule(w http.ResponseWriter, r *http.Request) {
	teacherID, err := parseID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := daysAhead(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.store.TeacherSchedule(r.Context(), teacherID, days)
	if err != nil {
		writeStoreError(w, err, "teacher not found")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
