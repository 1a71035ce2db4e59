package feed

import (
	"glimpse/internal/likecache"
	"glimpse/internal/models"
	"glimpse/internal/observability"
)

// Item is a view-ready post: server-authoritative data merged with resolved
// identity, canonical tags, and the caller's like state.
type Item struct {
	ID           models.FlexID `json:"id"`
	DisplayName  string        `json:"display_name"`
	AvatarURL    *string       `json:"avatar_url"`
	Body         string        `json:"body"`
	Images       []string      `json:"images,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	PublishedAt  string        `json:"published_at,omitempty"`
	IsLiked      bool          `json:"is_liked"`
	LikeCount    int           `json:"like_count"`
	CommentCount int           `json:"comment_count"`
	// Mine marks the caller's own posts so the client can expose edit and
	// delete controls.
	Mine bool `json:"mine"`
}

// Reconciler turns server pages of posts into view-ready items.
type Reconciler struct {
	resolver *Resolver
}

// NewReconciler returns a Reconciler using the given identity resolver.
func NewReconciler(resolver *Resolver) *Reconciler {
	return &Reconciler{resolver: resolver}
}

// Reconcile merges a server page of posts with the caller's liked set.
// Soft-deleted posts are dropped; everything else keeps the server's order.
// Like and comment counts are passed through as received — only the toggle
// coordinator updates them, and only from a confirmed server response.
func (r *Reconciler) Reconcile(posts []models.Post, liked likecache.Set, current *models.User) []Item {
	items := make([]Item, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if p.IsDeleted() {
			observability.PostsFiltered.Inc()
			continue
		}
		items = append(items, r.ReconcilePost(p, liked, current))
	}
	observability.PostsReconciled.Add(float64(len(items)))
	return items
}

// ReconcilePost builds the view item for a single post.
func (r *Reconciler) ReconcilePost(p *models.Post, liked likecache.Set, current *models.User) Item {
	identity := r.resolver.Resolve(p, current)

	// The cached set is only a load-time seed; when an endpoint revision
	// reports the caller's like status itself, the server wins.
	isLiked := liked.Has(p.ID.String())
	if serverLiked, ok := p.ServerLiked(); ok {
		isLiked = serverLiked
	}
	if current == nil {
		isLiked = false
	}

	item := Item{
		ID:           p.ID,
		DisplayName:  identity.DisplayName,
		AvatarURL:    identity.AvatarURL,
		Body:         p.Body,
		Tags:         FormatHashtags(NormalizeTags(p.Tags)),
		PublishedAt:  p.PublishedAt,
		IsLiked:      isLiked,
		LikeCount:    p.LikeCount(),
		CommentCount: p.CommentCount(),
		Mine:         current != nil && p.AuthorID().Equal(current.ID),
	}
	for _, img := range p.Images {
		if url := r.resolver.ResolveImageURL(img.URL); url != nil {
			item.Images = append(item.Images, *url)
		}
	}
	return item
}
