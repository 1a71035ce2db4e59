package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexID_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want FlexID
	}{
		{"number", `42`, "42"},
		{"string", `"42"`, "42"},
		{"uuid string", `"ab-cd"`, "ab-cd"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var id FlexID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestFlexID_NumberAndStringCompareEqual(t *testing.T) {
	t.Parallel()

	var fromNumber, fromString FlexID
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &fromString))
	assert.True(t, fromNumber.Equal(fromString))
}

func TestFlexID_EqualRequiresValue(t *testing.T) {
	t.Parallel()

	var a, b FlexID
	assert.False(t, a.Equal(b), "two absent IDs never match")
	assert.False(t, FlexID("1").Equal(""))
}

func TestFlexID_MarshalJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(FlexID("42"))
	require.NoError(t, err)
	assert.Equal(t, "42", string(raw), "numeric IDs keep the wire form")

	raw, err = json.Marshal(FlexID("ab-cd"))
	require.NoError(t, err)
	assert.Equal(t, `"ab-cd"`, string(raw))

	// Parseable-but-non-canonical numerics must stay strings, or the whole
	// response fails to encode.
	raw, err = json.Marshal(FlexID("042"))
	require.NoError(t, err)
	assert.Equal(t, `"042"`, string(raw))

	raw, err = json.Marshal(FlexID("+7"))
	require.NoError(t, err)
	assert.Equal(t, `"+7"`, string(raw))

	raw, err = json.Marshal(FlexID("-3"))
	require.NoError(t, err)
	assert.Equal(t, "-3", string(raw), "canonical negatives keep the number form")
}

func TestFlexTags_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want FlexTags
	}{
		{"array", `["a", "b"]`, FlexTags{List: []string{"a", "b"}, IsList: true}},
		{"empty array", `[]`, FlexTags{List: []string{}, IsList: true}},
		{"string", `"a, b"`, FlexTags{Raw: "a, b"}},
		{"null", `null`, FlexTags{}},
		{"object ignored", `{"a": 1}`, FlexTags{}},
		{"number ignored", `7`, FlexTags{}},
		{"mixed array keeps strings", `["a", 1, "b"]`, FlexTags{List: []string{"a", "b"}, IsList: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var tags FlexTags
			require.NoError(t, json.Unmarshal([]byte(tt.in), &tags))
			assert.Equal(t, tt.want.IsList, tags.IsList)
			assert.Equal(t, tt.want.Raw, tags.Raw)
			if tt.want.List == nil {
				assert.Nil(t, tags.List)
			} else {
				assert.ElementsMatch(t, tt.want.List, tags.List)
			}
		})
	}
}

func TestPost_WireDecoding(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": 1,
		"user": {"id": 10, "nickname": "alice", "profileImageUrl": "http://cdn/a.png"},
		"body": "hello",
		"tags": "go, fiber",
		"likes_count": 3,
		"commentCount": 2,
		"isLiked": true
	}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(payload), &post))

	assert.Equal(t, FlexID("1"), post.ID)
	assert.Equal(t, FlexID("10"), post.AuthorID())
	assert.Equal(t, "alice", post.EmbeddedAuthor().Nickname)
	assert.Equal(t, "http://cdn/a.png", post.EmbeddedAuthor().AvatarRef())
	assert.Equal(t, 3, post.LikeCount())
	assert.Equal(t, 2, post.CommentCount())

	liked, present := post.ServerLiked()
	assert.True(t, present)
	assert.True(t, liked)
}

func TestPost_ServerLikedAbsent(t *testing.T) {
	t.Parallel()

	var post Post
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1}`), &post))
	_, present := post.ServerLiked()
	assert.False(t, present)
	assert.Zero(t, post.LikeCount())
}

func TestComment_ContentSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"content key", `{"content": "a"}`, "a"},
		{"text key", `{"text": "b"}`, "b"},
		{"body key", `{"body": "c"}`, "c"},
		{"content outranks text", `{"content": "a", "text": "b"}`, "a"},
		{"none", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var comment Comment
			require.NoError(t, json.Unmarshal([]byte(tt.in), &comment))
			assert.Equal(t, tt.want, comment.Content())
		})
	}
}
