package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glimpse/internal/config"
	"glimpse/internal/likecache"
	"glimpse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-server-handler-tests"

// apiStub scripts the upstream social API for handler tests.
type apiStub struct {
	me       *models.User
	posts    []models.Post
	post     *models.Post
	comments []models.Comment
	created  *models.Comment
	toggle   models.ToggleResult
	updated  *models.User
	err      error

	toggleCalls     int
	createCalls     int
	deletedPosts    []string
	deletedComments []string
	patches         []map[string]any
}

func (a *apiStub) Me(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return a.me, nil
}

func (a *apiStub) ListPosts(_ context.Context, _ string, _, _ int) ([]models.Post, error) {
	return a.posts, a.err
}

func (a *apiStub) GetPost(_ context.Context, _, _ string) (*models.Post, error) {
	if a.post == nil {
		return nil, models.NewUpstreamError(&models.UpstreamError{Status: http.StatusNotFound, Endpoint: "/posts"})
	}
	return a.post, a.err
}

func (a *apiStub) UpdatePost(_ context.Context, _, _ string, patch map[string]any) (*models.Post, error) {
	a.patches = append(a.patches, patch)
	return a.post, a.err
}

func (a *apiStub) DeletePost(_ context.Context, _, postID string) error {
	if a.err != nil {
		return a.err
	}
	a.deletedPosts = append(a.deletedPosts, postID)
	return nil
}

func (a *apiStub) ToggleLike(_ context.Context, _, _ string) (models.ToggleResult, error) {
	a.toggleCalls++
	return a.toggle, a.err
}

func (a *apiStub) ListComments(_ context.Context, _, _ string) ([]models.Comment, error) {
	return a.comments, a.err
}

func (a *apiStub) CreateComment(_ context.Context, _, _, _ string) (*models.Comment, error) {
	a.createCalls++
	return a.created, a.err
}

func (a *apiStub) UpdateComment(_ context.Context, _, commentID, _ string) (*models.Comment, error) {
	if a.err != nil {
		return nil, a.err
	}
	// Echo a stale record the way the real endpoint does: the handler must
	// prefer the submitted text over this body.
	return &models.Comment{ID: models.FlexID(commentID), ContentField: "stale server copy", AuthorIDSnake: "7"}, nil
}

func (a *apiStub) DeleteComment(_ context.Context, _, commentID string) error {
	if a.err != nil {
		return a.err
	}
	a.deletedComments = append(a.deletedComments, commentID)
	return nil
}

func (a *apiStub) MyPosts(_ context.Context, _ string) ([]models.Post, error) {
	return a.posts, a.err
}

func (a *apiStub) MyComments(_ context.Context, _ string) ([]models.Comment, error) {
	return a.comments, a.err
}

func (a *apiStub) UpdateProfile(_ context.Context, _ string, patch map[string]any) (*models.User, error) {
	a.patches = append(a.patches, patch)
	return a.updated, a.err
}

type testEnv struct {
	app   *fiber.App
	api   *apiStub
	redis *redis.Client
	likes likecache.Store
}

func newTestEnv(t *testing.T, api *apiStub) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Port:            "0",
		JWTSecret:       testJWTSecret,
		UpstreamBaseURL: "http://upstream.invalid/api/v1",
		AssetOrigin:     "http://upstream.invalid",
		LikeStoreDriver: "redis",
		FeedPageSize:    20,
		Env:             "test",
	}

	srv, err := NewServerWithDeps(cfg, nil, client, api)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	return &testEnv{app: app, api: api, redis: client, likes: srv.likes}
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body io.Reader) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func fakeUser(id string) *models.User {
	return &models.User{
		ID:              models.FlexID(id),
		Nickname:        gofakeit.Username(),
		ProfileImageURL: gofakeit.ImageURL(64, 64),
	}
}

func fakePost(id string) models.Post {
	return models.Post{
		ID:     models.FlexID(id),
		Author: &models.Author{ID: "900", Nickname: gofakeit.Username()},
		Body:   gofakeit.Sentence(8),
	}
}
