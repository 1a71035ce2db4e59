package feed

import (
	"strconv"
	"strings"
	"time"

	"glimpse/internal/models"
)

// CommentItem is a view-ready comment with resolved author identity.
type CommentItem struct {
	ID          models.FlexID `json:"id"`
	PostID      models.FlexID `json:"post_id,omitempty"`
	DisplayName string        `json:"display_name"`
	AvatarURL   *string       `json:"avatar_url"`
	Content     string        `json:"content"`
	CreatedAt   string        `json:"created_at,omitempty"`
	Mine        bool          `json:"mine"`
}

// Thread is the reconciled in-memory comment list for one post. A comment
// created by the current session is appended immediately from the create
// response so it renders without a round-trip re-fetch.
type Thread struct {
	Items []CommentItem
	count int

	resolver *Resolver
	current  *models.User
	now      func() time.Time
}

// NewThread reconciles a server comment list into a thread. Soft-deleted
// comments are dropped; server order is preserved. count is the
// server-reported comment count; when the server omits it the visible list
// length is used.
func NewThread(resolver *Resolver, comments []models.Comment, count int, current *models.User) *Thread {
	t := &Thread{
		resolver: resolver,
		current:  current,
		now:      time.Now,
	}
	for i := range comments {
		c := &comments[i]
		if c.IsDeleted() {
			continue
		}
		identity := resolver.Resolve(c, current)
		t.Items = append(t.Items, CommentItem{
			ID:          c.ID,
			PostID:      c.PostID,
			DisplayName: identity.DisplayName,
			AvatarURL:   identity.AvatarURL,
			Content:     c.Content(),
			CreatedAt:   c.CreatedAt,
			Mine:        current != nil && c.AuthorID().Equal(current.ID),
		})
	}
	if count <= 0 {
		count = len(t.Items)
	}
	t.count = count
	return t
}

// Count returns the cached comment count for the post.
func (t *Thread) Count() int { return t.count }

// ValidateCommentText rejects empty or whitespace-only comment text. It runs
// before any network call so a bad submission never reaches the server.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Comment text is required")
	}
	return nil
}

// Append builds a comment from whatever fields the create response contains,
// overlaying the submitted text (authoritative — some responses omit the
// body), the current user as author (a just-created comment's author is
// never ambiguous, so the fallback chain is bypassed), and client-generated
// id and timestamp when the response omits them.
func (t *Thread) Append(resp *models.Comment, submittedText string, current *models.User) (CommentItem, error) {
	if current == nil || current.ID.IsZero() {
		return CommentItem{}, models.NewAuthRequiredError("Sign in to comment")
	}
	if err := ValidateCommentText(submittedText); err != nil {
		return CommentItem{}, err
	}

	identity := t.resolver.ResolveIdentityForUser(current)
	item := CommentItem{
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		Content:     submittedText,
		Mine:        true,
	}
	if resp != nil {
		item.ID = resp.ID
		item.PostID = resp.PostID
		item.CreatedAt = resp.CreatedAt
	}
	if item.ID.IsZero() {
		item.ID = models.FlexID(strconv.FormatInt(t.now().UnixMilli(), 10))
	}
	if item.CreatedAt == "" {
		item.CreatedAt = t.now().UTC().Format(time.RFC3339)
	}

	t.Items = append(t.Items, item)
	t.count++
	return item, nil
}

// Remove drops the comment from the in-memory list and decrements the cached
// comment count, clamped at zero. The caller is responsible for the
// confirmation gate and the delete request; Remove applies only the local
// effect of a confirmed, successful delete.
func (t *Thread) Remove(commentID models.FlexID) {
	for i := range t.Items {
		if t.Items[i].ID.Equal(commentID) {
			t.Items = append(t.Items[:i], t.Items[i+1:]...)
			break
		}
	}
	if t.count > 0 {
		t.count--
	}
}

// Edit replaces the comment's body in place. Ordering and timestamp are
// untouched. Empty trimmed text is rejected before anything changes.
func (t *Thread) Edit(commentID models.FlexID, newText string) (CommentItem, error) {
	if err := ValidateCommentText(newText); err != nil {
		return CommentItem{}, err
	}
	for i := range t.Items {
		if t.Items[i].ID.Equal(commentID) {
			t.Items[i].Content = newText
			return t.Items[i], nil
		}
	}
	return CommentItem{}, models.NewNotFoundError("Comment", commentID.String())
}
