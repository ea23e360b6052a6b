package fakeapi

import (
	"net/http"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/http/response"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.db.Categories(getUserID(r.Context())), s.logger)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.validate.Validate(in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, s.db.CreateCategory(getUserID(r.Context()), in), s.logger)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	var in domain.UpdateCategoryInput
	if err := decodeBody(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.validate.Validate(in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	c, err := s.db.UpdateCategory(getUserID(r.Context()), id, in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, c, s.logger)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.db.DeleteCategory(getUserID(r.Context()), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.db.Tags(getUserID(r.Context())), s.logger)
}

// handleCreateTag resolves an existing name to the existing tag (200)
// and creates unknown names (201).
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var in domain.TagInput
	if err := decodeBody(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	in.Name = domain.NormalizeTagName(in.Name)
	if err := s.validate.Validate(in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	t, created := s.db.CreateTag(getUserID(r.Context()), in.Name)
	if created {
		response.Created(w, t, s.logger)
		return
	}
	response.Success(w, t, s.logger)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.db.DeleteTag(getUserID(r.Context()), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
