package fakeapi

import (
	"encoding/json/v2"
	"encoding/json/jsontext"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
	"github.com/linkshelf/linkshelf/internal/http/response"
)

const maxPageSize = 100

// parseListQuery reads the list query. Absent parameters mean no constraint.
func parseListQuery(q url.Values) (domain.Filters, error) {
	f := domain.DefaultFilters(domain.DefaultPageSize)
	f.Search = q.Get("search")

	parseID := func(name string) (*int64, error) {
		raw := q.Get(name)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			return nil, errors.Validationf("%s must be a positive integer", name)
		}
		return &v, nil
	}
	var err error
	if f.CategoryID, err = parseID("categoryId"); err != nil {
		return f, err
	}
	if f.TagID, err = parseID("tagId"); err != nil {
		return f, err
	}

	if raw := q.Get("isFavorite"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errors.Validation("isFavorite must be a boolean value")
		}
		f.IsFavorite = &v
	}
	if raw := q.Get("sortBy"); raw != "" {
		mode, err := domain.ParseSortMode(raw)
		if err != nil {
			return f, errors.Validation(err.Error())
		}
		f.SortBy = mode
	}
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return f, errors.Validation("page must not be less than 1")
		}
		f.Page = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxPageSize {
			return f, errors.Validationf("limit must be between 1 and %d", maxPageSize)
		}
		f.Limit = v
	}
	return f, nil
}

// paginate cuts one page out of list. totalPages is 0 for an empty list.
func paginate(list []domain.Bookmark, page, limit int) domain.Page[domain.Bookmark] {
	total := len(list)
	out := domain.Page[domain.Bookmark]{
		Data: []domain.Bookmark{},
		Pagination: domain.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
	start := (page - 1) * limit
	if start >= total {
		return out
	}
	end := min(start+limit, total)
	out.Data = list[start:end]
	return out
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	f, err := parseListQuery(r.URL.Query())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	all := s.db.Bookmarks(getUserID(r.Context()))
	matched := s.views.Apply(all, f)
	response.Success(w, paginate(matched, f.Page, f.Limit), s.logger)
}

func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	b, err := s.db.Bookmark(getUserID(r.Context()), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, b, s.logger)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateBookmarkInput
	if err := decodeBody(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	in = in.Normalized()
	if err := s.validate.Validate(in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	b, err := s.db.CreateBookmark(getUserID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, b, s.logger)
}

// bookmarkPatchBody is the part of a PATCH body that decodes directly.
// categoryId is read separately to tell an absent key from null.
type bookmarkPatchBody struct {
	Title       *string   `json:"title" validate:"omitnil,notblank,max=255"`
	Description *string   `json:"description"`
	Link        *string   `json:"link" validate:"omitnil,http_url"`
	TagNames    *[]string `json:"tagNames"`
}

// decodeBookmarkPatch decodes a partial update.
func decodeBookmarkPatch(data []byte) (BookmarkPatch, bookmarkPatchBody, error) {
	var body bookmarkPatchBody
	if err := json.Unmarshal(data, &body); err != nil {
		return BookmarkPatch{}, body, errors.Validation("Invalid request body")
	}

	var raw map[string]jsontext.Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return BookmarkPatch{}, body, errors.Validation("Invalid request body")
	}

	p := BookmarkPatch{
		Title:       body.Title,
		Description: body.Description,
		Link:        body.Link,
		TagNames:    body.TagNames,
	}
	if v, ok := raw["categoryId"]; ok {
		if v.Kind() == 'n' {
			p.CategoryID = domain.Clear[int64]()
		} else {
			var id int64
			if err := json.Unmarshal(v, &id); err != nil || id <= 0 {
				return BookmarkPatch{}, body, errors.Validation("categoryId must be a positive integer or null")
			}
			p.CategoryID = domain.Set(id)
		}
	}
	return p, body, nil
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		response.HandleError(w, errors.Validation("Invalid request body"), s.logger)
		return
	}
	p, body, err := decodeBookmarkPatch(data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.validate.Validate(body); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	b, err := s.db.UpdateBookmark(getUserID(r.Context()), id, p)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, b, s.logger)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.db.DeleteBookmark(getUserID(r.Context()), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	b, err := s.db.ToggleFavorite(getUserID(r.Context()), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, b, s.logger)
}
