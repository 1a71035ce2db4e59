package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPosts_BareArray(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "body": "a"}, {"id": "2", "body": "b"}]`))
	}))
	defer srv.Close()

	posts, err := New(srv.URL).ListPosts(context.Background(), "tok", 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, models.FlexID("1"), posts[0].ID)
	assert.Equal(t, models.FlexID("2"), posts[1].ID)
}

func TestListPosts_Envelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"id": 1}], "total": 1}`))
	}))
	defer srv.Close()

	posts, err := New(srv.URL).ListPosts(context.Background(), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"posts": [{"id": 5}, {"id": 6}]}`))
	}))
	defer srv2.Close()

	posts, err = New(srv2.URL).ListPosts(context.Background(), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
}

func TestMe(t *testing.T) {
	t.Parallel()

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/me", r.URL.Path)
			w.Write([]byte(`{"id": 7, "nickname": "nick"}`))
		}))
		defer srv.Close()

		user, err := New(srv.URL).Me(context.Background(), "tok")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, models.FlexID("7"), user.ID)
		assert.Equal(t, "nick", user.Nickname)
	})

	t.Run("rejected token is anonymous", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		user, err := New(srv.URL).Me(context.Background(), "bad")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("empty token skips network", func(t *testing.T) {
		t.Parallel()
		user, err := New("http://127.0.0.1:1").Me(context.Background(), "")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("server error surfaces", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := New(srv.URL).Me(context.Background(), "tok")
		require.Error(t, err)
	})
}

func TestToggleLike(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts/42/likes/toggle", r.URL.Path)
		w.Write([]byte(`{"liked": true, "likesCount": 9}`))
	}))
	defer srv.Close()

	result, err := New(srv.URL).ToggleLike(context.Background(), "tok", "42")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 9, result.LikesCount)
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/42/comments", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["content"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 55, "post_id": 42}`))
	}))
	defer srv.Close()

	comment, err := New(srv.URL).CreateComment(context.Background(), "tok", "42", "hello")
	require.NoError(t, err)
	assert.Equal(t, models.FlexID("55"), comment.ID)
	assert.Equal(t, models.FlexID("42"), comment.PostID)
}

func TestUpdateComment(t *testing.T) {
	t.Parallel()

	t.Run("echoes updated record", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/comments/55", r.URL.Path)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "edited", body["content"])
			w.Write([]byte(`{"id": 55, "content": "edited"}`))
		}))
		defer srv.Close()

		comment, err := New(srv.URL).UpdateComment(context.Background(), "tok", "55", "edited")
		require.NoError(t, err)
		assert.Equal(t, models.FlexID("55"), comment.ID)
		assert.Equal(t, "edited", comment.Content())
	})

	t.Run("empty body yields zero comment", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		comment, err := New(srv.URL).UpdateComment(context.Background(), "tok", "55", "edited")
		require.NoError(t, err)
		require.NotNil(t, comment)
		assert.True(t, comment.ID.IsZero())
	})
}

func TestDo_ErrorMapping(t *testing.T) {
	t.Parallel()

	t.Run("404 maps through the taxonomy", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := New(srv.URL).GetPost(context.Background(), "", "999")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, models.StatusForError(err))
	})

	t.Run("500 maps to bad gateway", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := New(srv.URL).DeletePost(context.Background(), "tok", "1")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, models.StatusForError(err))
	})

	t.Run("transport failure maps to bad gateway", func(t *testing.T) {
		t.Parallel()
		err := New("http://127.0.0.1:1").DeletePost(context.Background(), "tok", "1")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, models.StatusForError(err))
	})
}

func TestRoutePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/posts/:id/comments", routePattern("/posts/42/comments"))
	assert.Equal(t, "/posts", routePattern("/posts"))
	assert.Equal(t, "/comments/:id", routePattern("/comments/1001"))
	assert.Equal(t, "/users/me/posts", routePattern("/users/me/posts"))
	assert.Equal(t, "/posts", routePattern("/posts?limit=20&offset=0"))
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/me", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "newnick", body["nickname"])
		w.Write([]byte(`{"id": 7, "nickname": "newnick"}`))
	}))
	defer srv.Close()

	user, err := New(srv.URL).UpdateProfile(context.Background(), "tok", map[string]any{"nickname": "newnick"})
	require.NoError(t, err)
	assert.Equal(t, "newnick", user.Nickname)
}
