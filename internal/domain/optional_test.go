package domain

import (
	"encoding/json/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBookmarkInput_CategoryWireForm(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateBookmarkInput
		want string
	}{
		{
			name: "unchanged category is omitted",
			in:   UpdateBookmarkInput{Title: Ptr("Go docs")},
			want: `{"title":"Go docs"}`,
		},
		{
			name: "cleared category is null",
			in:   UpdateBookmarkInput{CategoryID: Clear[int64]()},
			want: `{"categoryId":null}`,
		},
		{
			name: "set category is the value",
			in:   UpdateBookmarkInput{CategoryID: Set[int64](7)},
			want: `{"categoryId":7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestOptional_Apply(t *testing.T) {
	cur := Ptr[int64](4)

	Optional[int64]{}.ApplyPtr(&cur)
	require.NotNil(t, cur)
	assert.Equal(t, int64(4), *cur)

	Set[int64](8).ApplyPtr(&cur)
	assert.Equal(t, int64(8), *cur)

	Clear[int64]().ApplyPtr(&cur)
	assert.Nil(t, cur)

	s := "go"
	Clear[string]().ApplyValue(&s)
	assert.Equal(t, "", s)
}

func TestOptionalFromPtr(t *testing.T) {
	assert.True(t, OptionalFromPtr[int64](nil).IsCleared())

	v, ok := OptionalFromPtr(Ptr[int64](3)).Get()
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)
}
