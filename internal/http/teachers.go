package http

import (
	"errors"
	"net/http"
	"strings"

	"campus/courses/internal/crypto"
	"campus/courses/internal/model"
	"campus/courses/internal/repository"
)

type createTeacherRequest struct {
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	RoleID        int64   `json:"role_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Qualification string  `json:"qualification"`
	Bio           *string `json:"bio,omitempty"`
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req createTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" || req.RoleID <= 0 ||
		req.FirstName == "" || req.LastName == "" || req.Qualification == "" {
		writeError(w, http.StatusBadRequest, "missing required teacher fields")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	teacher, err := s.store.CreateTeacher(r.Context(),
		model.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			RoleID:       req.RoleID,
		},
		model.Teacher{
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Qualification: req.Qualification,
			Bio:           req.Bio,
		},
	)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "username or email already registered")
			return
		}
		writeStoreError(w, err, "teacher not found")
		return
	}
	writeJSON(w, http.StatusCreated, teacher)
}

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	teachers, err := s.store.ListTeachers(r.Context(), repository.TeacherFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, teachers)
}

func (s *Server) handleGetTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID, err := parseID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	teacher, err := s.store.GetTeacher(r.Context(), teacherID)
	if err != nil {
		writeStoreError(w, err, "teacher not found")
		return
	}
	writeJSON(w, http.StatusOK, teacher)
}

type patchTeacherRequest struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Qualification *string `json:"qualification,omitempty"`
	Bio           *string `json:"bio,omitempty"`
}

func (s *Server) handlePatchTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID, err := parseID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req patchTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	teacher, err := s.store.UpdateTeacher(r.Context(), teacherID, repository.TeacherUpdate{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Qualification: req.Qualification,
		Bio:           req.Bio,
	})
	if err != nil {
		writeStoreError(w, err, "teacher not found")
		return
	}
	writeJSON(w, http.StatusOK, teacher)
}
