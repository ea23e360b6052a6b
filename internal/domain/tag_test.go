package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Golang ", "golang"},
		{"Dev Ops", "dev ops"},
		{"ÉCOLE", "école"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTagName(tt.in))
		})
	}
}

func TestNormalizeTagNames_DedupesKeepingOrder(t *testing.T) {
	got := NormalizeTagNames([]string{"Go", " rust", "GO", "", "Rust ", "zig"})
	assert.Equal(t, []string{"go", "rust", "zig"}, got)

	assert.Nil(t, NormalizeTagNames(nil))
}

func TestCreateBookmarkInput_Normalized(t *testing.T) {
	in := CreateBookmarkInput{
		Title:    "  Go docs ",
		Link:     " https://go.dev ",
		TagNames: []string{"Go", "go"},
	}.Normalized()

	assert.Equal(t, "Go docs", in.Title)
	assert.Equal(t, "https://go.dev", in.Link)
	assert.Equal(t, []string{"go"}, in.TagNames)
}

func TestUpdateBookmarkInput_IsEmpty(t *testing.T) {
	assert.True(t, UpdateBookmarkInput{}.IsEmpty())
	assert.False(t, UpdateBookmarkInput{CategoryID: Clear[int64]()}.IsEmpty())
}

func TestUserDisplayName(t *testing.T) {
	u := User{Email: "a@b.co"}
	assert.Equal(t, "a@b.co", u.DisplayName())

	u.FirstName = "Lan"
	assert.Equal(t, "Lan", u.DisplayName())

	u.LastName = "Nguyen"
	assert.Equal(t, "Lan Nguyen", u.DisplayName())
}
