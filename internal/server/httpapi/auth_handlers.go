package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrorValidation)
		return
	}

	_, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.logger.Warn(r.Context(), "registration rejected", "error", err)
		writeError(w, err)
		return
	}

	writeOK(w, http.StatusCreated, "user created", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrorValidation)
		return
	}

	result, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "login successful", loginResponse{
		Token:    result.Token,
		Username: result.Username,
		Email:    result.Email,
	})
}
