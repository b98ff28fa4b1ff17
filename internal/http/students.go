package http

import (
	"errors"
	"net/http"
	"strings"

	"campus/courses/internal/crypto"
	"campus/courses/internal/model"
	"campus/courses/internal/repository"
)

type createStudentRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	RoleID      int64  `json:"role_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	GroupNumber string `json:"group_number"`
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" || req.RoleID <= 0 ||
		req.FirstName == "" || req.LastName == "" || req.GroupNumber == "" {
		writeError(w, http.StatusBadRequest, "missing required student fields")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	student, err := s.store.CreateStudent(r.Context(),
		model.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			RoleID:       req.RoleID,
		},
		model.Student{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			GroupNumber: req.GroupNumber,
		},
	)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "username or email already registered")
			return
		}
		writeStoreError(w, err, "student not found")
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	students, err := s.store.ListStudents(r.Context(), repository.StudentFilter{
		Search:      strings.TrimSpace(r.URL.Query().Get("search")),
		GroupNumber: strings.TrimSpace(r.URL.Query().Get("group_number")),
		Skip:        skip,
		Limit:       limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, student)
}

type patchStudentRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	GroupNumber *string `json:"group_number,omitempty"`
}

func (s *Server) handlePatchStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req patchStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := s.store.UpdateStudent(r.Context(), studentID, repository.StudentUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		GroupNumber: req.GroupNumber,
	})
	if err != nil {
		writeStoreError(w, err, "student not found")
		return
	}
	writeJSON(w, http.StatusOK, student)
}
