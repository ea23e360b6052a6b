package fakeapi

import (
	"encoding/json/v2"
	"net/http"

	"github.com/linkshelf/linkshelf/internal/auth"
	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
	"github.com/linkshelf/linkshelf/internal/http/response"
)

// decodeBody reads a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		return errors.Validation("Invalid request body")
	}
	return nil
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "healthy"}, s.logger)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in domain.Credentials
	if err := decodeBody(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.validate.Validate(in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		response.HandleError(w, errors.Validation(err.Error()), s.logger)
		return
	}
	user, err := s.db.CreateUser(in.Email, hash)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	s.logger.Info("user signed up", "user_id", user.ID)

	s.issueToken(w, http.StatusCreated, user)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in domain.Credentials
	if err := decodeBody(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.validate.Validate(in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, hash, ok := s.db.UserByEmail(in.Email)
	if ok {
		ok, _ = auth.VerifyPassword(hash, in.Password)
	}
	if !ok {
		response.Forbidden(w, "Credentials incorrect", s.logger)
		return
	}

	s.issueToken(w, http.StatusOK, user)
}

func (s *Server) issueToken(w http.ResponseWriter, status int, user domain.User) {
	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.JSON(w, status, domain.AuthResponse{AccessToken: token}, s.logger)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.User(getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in domain.UpdateUserInput
	if err := decodeBody(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.validate.Validate(in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.db.UpdateUser(getUserID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}
