package domain

// Category groups bookmarks. A bookmark belongs to at most one category.
type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Icon          string `json:"icon"`
	UserID        int64  `json:"userId"`
	BookmarkCount int    `json:"bookmarkCount"`
}

// CategoryInput is the body of POST /category.
type CategoryInput struct {
	Name  string `json:"name" validate:"notblank,max=100"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon,omitempty" validate:"max=16"`
}

// UpdateCategoryInput is the body of PATCH /category/:id.
type UpdateCategoryInput struct {
	Name  *string `json:"name,omitempty" validate:"omitnil,notblank,max=100"`
	Color *string `json:"color,omitempty" validate:"omitnil,hexcolor"`
	Icon  *string `json:"icon,omitempty" validate:"omitnil,max=16"`
}
