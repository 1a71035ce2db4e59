// Package upstream is the client for the remote social REST API. It owns
// token attachment and wire decoding; everything above it works with the
// flexible models and never sees raw HTTP.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"glimpse/internal/models"
	"glimpse/internal/observability"
)

// API is the full upstream surface the service consumes.
type API interface {
	Me(ctx context.Context, token string) (*models.User, error)
	ListPosts(ctx context.Context, token string, limit, offset int) ([]models.Post, error)
	GetPost(ctx context.Context, token, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, token, postID string, patch map[string]any) (*models.Post, error)
	DeletePost(ctx context.Context, token, postID string) error
	ToggleLike(ctx context.Context, token, postID string) (models.ToggleResult, error)
	ListComments(ctx context.Context, token, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, token, postID, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, token, commentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token, commentID string) error
	MyPosts(ctx context.Context, token string) ([]models.Post, error)
	MyComments(ctx context.Context, token string) ([]models.Comment, error)
	UpdateProfile(ctx context.Context, token string, patch map[string]any) (*models.User, error)
}

// Client implements API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the given base URL (e.g. "http://host/api/v1").
// No retry and no client-side timeout are layered on: a failed call is
// surfaced as-is and a hung call is bounded only by the transport and the
// request context.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// do performs one round trip. out, when non-nil, receives the decoded JSON
// body. A 2xx status is success; anything else becomes an UpstreamError.
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	endpoint := method + " " + routePattern(path)
	ctx, span := observability.StartClientSpan(ctx, endpoint)
	defer span.End()
	defer observability.TrackUpstream(endpoint)()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return models.NewInternalError(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.UpstreamRequests.WithLabelValues(endpoint, "transport_error").Inc()
		observability.RecordSpanError(span, err)
		observability.LogUpstreamCall(ctx, method, path, 0, err)
		return models.NewUpstreamError(&models.UpstreamError{Endpoint: path, Body: err.Error()})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		upErr := &models.UpstreamError{Status: resp.StatusCode, Endpoint: path, Body: string(raw)}
		observability.UpstreamRequests.WithLabelValues(endpoint, fmt.Sprintf("http_%d", resp.StatusCode)).Inc()
		observability.RecordSpanError(span, upErr)
		observability.LogUpstreamCall(ctx, method, path, resp.StatusCode, upErr)
		return models.NewUpstreamError(upErr)
	}

	observability.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()
	observability.LogUpstreamCall(ctx, method, path, resp.StatusCode, nil)

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NewUpstreamError(&models.UpstreamError{Status: resp.StatusCode, Endpoint: path, Body: err.Error()})
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return models.NewUpstreamError(&models.UpstreamError{Status: resp.StatusCode, Endpoint: path, Body: "undecodable response"})
	}
	return nil
}

// routePattern strips the query string and collapses path segments that look
// like IDs so metric and span cardinality stays bounded.
func routePattern(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if isDigits(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Me fetches the authenticated caller. A missing or rejected token yields an
// anonymous session (nil, nil), not an error: pages render for anonymous
// viewers and the caller of getMe has always swallowed auth failures.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	var user models.User
	err := c.do(ctx, token, http.MethodGet, "/auth/me", nil, &user)
	if err != nil {
		if status := upstreamStatus(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, nil
		}
		return nil, err
	}
	if user.ID.IsZero() {
		return nil, nil
	}
	return &user, nil
}

func upstreamStatus(err error) int {
	var upErr *models.UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Status
	}
	return 0
}

// postPage tolerates the two list shapes the backend emits.
type postPage struct {
	Items []models.Post `json:"items"`
	Posts []models.Post `json:"posts"`
}

func decodePosts(raw json.RawMessage) []models.Post {
	var list []models.Post
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var page postPage
	if err := json.Unmarshal(raw, &page); err == nil {
		if page.Items != nil {
			return page.Items
		}
		return page.Posts
	}
	return nil
}

type commentPage struct {
	Items    []models.Comment `json:"items"`
	Comments []models.Comment `json:"comments"`
}

func decodeComments(raw json.RawMessage) []models.Comment {
	var list []models.Comment
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var page commentPage
	if err := json.Unmarshal(raw, &page); err == nil {
		if page.Items != nil {
			return page.Items
		}
		return page.Comments
	}
	return nil
}

// ListPosts fetches a feed page. The endpoint returns either a bare array or
// a paginated envelope; both decode to the same slice.
func (c *Client) ListPosts(ctx context.Context, token string, limit, offset int) ([]models.Post, error) {
	path := fmt.Sprintf("/posts?limit=%d&offset=%d", limit, offset)
	var raw json.RawMessage
	if err := c.do(ctx, token, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodePosts(raw), nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, token, postID string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, token, http.MethodGet, "/posts/"+postID, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost patches a post. Ownership is enforced upstream.
func (c *Client) UpdatePost(ctx context.Context, token, postID string, patch map[string]any) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, token, http.MethodPatch, "/posts/"+postID, patch, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, token, postID string) error {
	return c.do(ctx, token, http.MethodDelete, "/posts/"+postID, nil, nil)
}

// ToggleLike flips the caller's like on a post and returns the server's
// authoritative verdict.
func (c *Client) ToggleLike(ctx context.Context, token, postID string) (models.ToggleResult, error) {
	var result models.ToggleResult
	err := c.do(ctx, token, http.MethodPost, "/posts/"+postID+"/likes/toggle", nil, &result)
	return result, err
}

// ListComments fetches the comment list for a post.
func (c *Client) ListComments(ctx context.Context, token, postID string) ([]models.Comment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, token, http.MethodGet, "/posts/"+postID+"/comments", nil, &raw); err != nil {
		return nil, err
	}
	return decodeComments(raw), nil
}

// CreateComment submits a comment. The response may be partial; the comment
// thread reconciler overlays what is missing.
func (c *Client) CreateComment(ctx context.Context, token, postID, content string) (*models.Comment, error) {
	var comment models.Comment
	body := map[string]any{"content": content}
	if err := c.do(ctx, token, http.MethodPost, "/posts/"+postID+"/comments", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces a comment's body and returns the server's echo of
// the updated record. Some deployments respond with an empty body; the zero
// comment is returned in that case and the caller overlays what it knows.
func (c *Client) UpdateComment(ctx context.Context, token, commentID, content string) (*models.Comment, error) {
	var comment models.Comment
	body := map[string]any{"content": content}
	if err := c.do(ctx, token, http.MethodPatch, "/comments/"+commentID, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, token, commentID string) error {
	return c.do(ctx, token, http.MethodDelete, "/comments/"+commentID, nil, nil)
}

// MyPosts fetches the caller's own posts for the profile page.
func (c *Client) MyPosts(ctx context.Context, token string) ([]models.Post, error) {
	var raw json.RawMessage
	if err := c.do(ctx, token, http.MethodGet, "/users/me/posts", nil, &raw); err != nil {
		return nil, err
	}
	return decodePosts(raw), nil
}

// MyComments fetches the caller's own comments for the profile page.
func (c *Client) MyComments(ctx context.Context, token string) ([]models.Comment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, token, http.MethodGet, "/users/me/comments", nil, &raw); err != nil {
		return nil, err
	}
	return decodeComments(raw), nil
}

// UpdateProfile patches the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, patch map[string]any) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, token, http.MethodPatch, "/users/me", patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
