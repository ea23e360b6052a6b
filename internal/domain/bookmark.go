package domain

import (
	"strings"
)

// Bookmark is a saved web link owned by one user.
type Bookmark struct {
	Entity
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	IsFavorite  bool      `json:"isFavorite"`
	Position    int       `json:"position"` // manual ordering; nothing reorders it client-side
	UserID      int64     `json:"userId"`
	CategoryID  *int64    `json:"categoryId"`
	Category    *Category `json:"category,omitempty"` // embedded by the server when present
	Tags        []Tag     `json:"tags,omitempty"`
}

// HasTag reports whether the bookmark carries the tag id.
func (b *Bookmark) HasTag(tagID int64) bool {
	for _, t := range b.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// InCategory reports whether the bookmark belongs to categoryID.
func (b *Bookmark) InCategory(categoryID int64) bool {
	return b.CategoryID != nil && *b.CategoryID == categoryID
}

// CreateBookmarkInput is the body of POST /bookmark/create.
type CreateBookmarkInput struct {
	Title       string   `json:"title" validate:"notblank,max=255"`
	Link        string   `json:"link" validate:"required,http_url"`
	Description string   `json:"description,omitempty"`
	CategoryID  *int64   `json:"categoryId,omitempty" validate:"omitnil,gt=0"`
	TagNames    []string `json:"tagNames,omitempty"`
}

// Normalized trims text fields and normalizes tag names.
func (in CreateBookmarkInput) Normalized() CreateBookmarkInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Link = strings.TrimSpace(in.Link)
	in.Description = strings.TrimSpace(in.Description)
	in.TagNames = NormalizeTagNames(in.TagNames)
	return in
}

// UpdateBookmarkInput is the body of PATCH /bookmark/:id.
// Nil pointers are left out; CategoryID distinguishes unchanged, set and cleared.
type UpdateBookmarkInput struct {
	Title       *string         `json:"title,omitempty" validate:"omitnil,notblank,max=255"`
	Description *string         `json:"description,omitempty"`
	Link        *string         `json:"link,omitempty" validate:"omitnil,http_url"`
	CategoryID  Optional[int64] `json:"categoryId,omitzero"`
	TagNames    *[]string       `json:"tagNames,omitempty"`
}

// Normalized trims text fields and normalizes tag names.
func (in UpdateBookmarkInput) Normalized() UpdateBookmarkInput {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	in.Title = trim(in.Title)
	in.Description = trim(in.Description)
	in.Link = trim(in.Link)
	if in.TagNames != nil {
		names := NormalizeTagNames(*in.TagNames)
		in.TagNames = &names
	}
	return in
}

// IsEmpty reports whether the update changes nothing.
func (in UpdateBookmarkInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Link == nil &&
		in.CategoryID.IsZero() && in.TagNames == nil
}
