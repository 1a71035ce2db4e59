// Package models contains data structures for the application's domain models.
package models

import "time"

// User is the authenticated caller as returned by GET /auth/me. It is
// authoritative for the caller's own display name and avatar even when an
// item's embedded author snapshot is stale.
type User struct {
	ID       FlexID `json:"id"`
	Nickname string `json:"nickname"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
	// The backend emits the avatar under either spelling depending on the
	// endpoint revision.
	ProfileImageURL      string `json:"profile_image_url,omitempty"`
	ProfileImageURLCamel string `json:"profileImageUrl,omitempty"`
}

// AvatarRef returns the first non-empty avatar spelling.
func (u *User) AvatarRef() string {
	if u == nil {
		return ""
	}
	if u.ProfileImageURL != "" {
		return u.ProfileImageURL
	}
	return u.ProfileImageURLCamel
}

// DisplayNameRef returns the caller's preferred name: nickname, then username.
func (u *User) DisplayNameRef() string {
	if u == nil {
		return ""
	}
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Author is an embedded author object on a post or comment. The embedded
// snapshot may be stale or partial; the identity resolver decides what wins.
type Author struct {
	ID                   FlexID `json:"id"`
	Nickname             string `json:"nickname"`
	Username             string `json:"username,omitempty"`
	ProfileImageURL      string `json:"profile_image_url,omitempty"`
	ProfileImageURLCamel string `json:"profileImageUrl,omitempty"`
}

// AvatarRef returns the first non-empty avatar spelling on the snapshot.
func (a *Author) AvatarRef() string {
	if a == nil {
		return ""
	}
	if a.ProfileImageURL != "" {
		return a.ProfileImageURL
	}
	return a.ProfileImageURLCamel
}

// Image is a post image reference.
type Image struct {
	ID  FlexID `json:"id,omitempty"`
	URL string `json:"url"`
}

// Post is a server-owned post record. The client never owns its lifecycle,
// only a view-cache of it, so every field mirrors what the wire carries,
// inconsistent spellings included.
type Post struct {
	ID     FlexID  `json:"id"`
	Author *Author `json:"user,omitempty"`

	// Flattened author fields some endpoints emit instead of an embedded
	// object.
	AuthorIDSnake        FlexID `json:"user_id,omitempty"`
	AuthorIDCamel        FlexID `json:"userId,omitempty"`
	Nickname             string `json:"nickname,omitempty"`
	ProfileImageURL      string `json:"profile_image_url,omitempty"`
	ProfileImageURLCamel string `json:"profileImageUrl,omitempty"`

	Body   string   `json:"body"`
	Images []Image  `json:"images,omitempty"`
	Tags   FlexTags `json:"tags,omitempty"`

	PublishedAt string  `json:"published_at,omitempty"`
	DeletedAt   *string `json:"deleted_at,omitempty"`

	LikesCountSnake   *int `json:"likes_count,omitempty"`
	LikesCountCamel   *int `json:"likesCount,omitempty"`
	Likes             *int `json:"likes,omitempty"`
	CommentCountSnake *int `json:"comment_count,omitempty"`
	CommentCountCamel *int `json:"commentCount,omitempty"`

	// Some endpoint revisions report the caller's like status directly.
	// When present it outranks the locally cached seed.
	LikedSnake *bool `json:"is_liked,omitempty"`
	LikedCamel *bool `json:"isLiked,omitempty"`
	Liked      *bool `json:"liked,omitempty"`
}

// AuthorID returns the post's author id, checking the snake_case spelling
// first, then camelCase, then the embedded author object.
func (p *Post) AuthorID() FlexID {
	if !p.AuthorIDSnake.IsZero() {
		return p.AuthorIDSnake
	}
	if !p.AuthorIDCamel.IsZero() {
		return p.AuthorIDCamel
	}
	if p.Author != nil {
		return p.Author.ID
	}
	return ""
}

// EmbeddedAuthor returns the embedded author object, if any.
func (p *Post) EmbeddedAuthor() *Author { return p.Author }

// FlatNickname returns the flattened nickname field, if any.
func (p *Post) FlatNickname() string { return p.Nickname }

// FlatAvatarRef returns the first non-empty flattened avatar spelling.
func (p *Post) FlatAvatarRef() string {
	if p.ProfileImageURL != "" {
		return p.ProfileImageURL
	}
	return p.ProfileImageURLCamel
}

// IsDeleted reports whether the soft-delete timestamp is set.
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil && *p.DeletedAt != ""
}

// LikeCount returns the server-reported like count, first spelling wins.
func (p *Post) LikeCount() int {
	for _, v := range []*int{p.LikesCountSnake, p.LikesCountCamel, p.Likes} {
		if v != nil {
			return *v
		}
	}
	return 0
}

// CommentCount returns the server-reported comment count, first spelling wins.
func (p *Post) CommentCount() int {
	for _, v := range []*int{p.CommentCountSnake, p.CommentCountCamel} {
		if v != nil {
			return *v
		}
	}
	return 0
}

// ServerLiked returns the server-reported like status for the caller, when
// any revision of the field is present.
func (p *Post) ServerLiked() (bool, bool) {
	for _, v := range []*bool{p.LikedSnake, p.LikedCamel, p.Liked} {
		if v != nil {
			return *v, true
		}
	}
	return false, false
}

// Comment is a comment on a post, with the same author-field inconsistency
// as Post.
type Comment struct {
	ID     FlexID  `json:"id"`
	PostID FlexID  `json:"post_id,omitempty"`
	Author *Author `json:"user,omitempty"`

	AuthorIDSnake FlexID `json:"user_id,omitempty"`
	AuthorIDCamel FlexID `json:"userId,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Username      string `json:"username,omitempty"`

	// Body text arrives under any of three keys depending on the endpoint.
	ContentField string `json:"content,omitempty"`
	TextField    string `json:"text,omitempty"`
	BodyField    string `json:"body,omitempty"`

	CreatedAt string  `json:"created_at,omitempty"`
	DeletedAt *string `json:"deleted_at,omitempty"`
}

// AuthorID returns the comment's author id, snake_case first, then camelCase,
// then the embedded author object.
func (c *Comment) AuthorID() FlexID {
	if !c.AuthorIDSnake.IsZero() {
		return c.AuthorIDSnake
	}
	if !c.AuthorIDCamel.IsZero() {
		return c.AuthorIDCamel
	}
	if c.Author != nil {
		return c.Author.ID
	}
	return ""
}

// EmbeddedAuthor returns the embedded author object, if any.
func (c *Comment) EmbeddedAuthor() *Author { return c.Author }

// FlatNickname returns the flattened nickname, falling back to username.
func (c *Comment) FlatNickname() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Username
}

// FlatAvatarRef returns the flattened avatar reference. Comment payloads do
// not carry one in any observed revision.
func (c *Comment) FlatAvatarRef() string { return "" }

// Content returns the comment body, first populated key wins.
func (c *Comment) Content() string {
	for _, v := range []string{c.ContentField, c.TextField, c.BodyField} {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsDeleted reports whether the soft-delete timestamp is set.
func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil && *c.DeletedAt != ""
}

// Authored is the author-field surface shared by Post and Comment. The
// identity resolver consumes this so all pages share one precedence chain.
type Authored interface {
	AuthorID() FlexID
	EmbeddedAuthor() *Author
	FlatNickname() string
	FlatAvatarRef() string
}

// LikeSet is the durable per-user like store row: one row per authenticated
// user holding a JSON array of liked post ids. The payload carries no schema
// version; an unparsable value reads as the empty set.
type LikeSet struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	PostIDs   string    `gorm:"not null;default:'[]'" json:"post_ids"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToggleResult is the authoritative server verdict for a like toggle.
type ToggleResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
