package feed

import (
	"strings"

	"glimpse/internal/models"
)

const (
	// AnonymousName is shown when no rule in the chain can name the author.
	AnonymousName = "anonymous"
	// SelfFallbackName is shown for the caller's own item when their profile
	// carries no nickname or username.
	SelfFallbackName = "me"
	// DefaultAvatarURL is the placeholder shown when no avatar resolves.
	DefaultAvatarURL = "https://cdn-icons-png.flaticon.com/512/847/847969.png"
)

// Identity is the resolved display identity for a content item.
type Identity struct {
	DisplayName string
	// AvatarURL is nil only when ResolveImageURL is used standalone; Resolve
	// always terminates the chain at DefaultAvatarURL.
	AvatarURL *string
}

// Resolver produces display identities from posts and comments. Each page
// used to carry its own copy of the fallback chain, each fixing a different
// missed case; the ordered rule tables below are the single shared version.
type Resolver struct {
	// AssetOrigin is the backend origin that relative image paths are
	// resolved against.
	AssetOrigin string
}

// NewResolver returns a Resolver that resolves relative image paths against
// assetOrigin.
func NewResolver(assetOrigin string) *Resolver {
	return &Resolver{AssetOrigin: strings.TrimRight(assetOrigin, "/")}
}

// nameRule attempts one step of the display-name precedence chain. The first
// rule to return ok wins.
type nameRule func(item models.Authored, current *models.User) (string, bool)

// avatarRule attempts one step of the avatar precedence chain.
type avatarRule func(item models.Authored, current *models.User) (string, bool)

var nameRules = []nameRule{
	// Embedded author object.
	func(item models.Authored, _ *models.User) (string, bool) {
		if a := item.EmbeddedAuthor(); a != nil && a.Nickname != "" {
			return a.Nickname, true
		}
		return "", false
	},
	// Flattened field some endpoints emit instead of an embedded object.
	func(item models.Authored, _ *models.User) (string, bool) {
		if n := item.FlatNickname(); n != "" {
			return n, true
		}
		return "", false
	},
	// The item is the caller's own: the authenticated profile is
	// authoritative, never the anonymous placeholder.
	func(item models.Authored, current *models.User) (string, bool) {
		if current == nil || !item.AuthorID().Equal(current.ID) {
			return "", false
		}
		if n := current.DisplayNameRef(); n != "" {
			return n, true
		}
		return SelfFallbackName, true
	},
}

func (r *Resolver) avatarRules() []avatarRule {
	return []avatarRule{
		// The caller's own item shows their most recently edited profile
		// picture even if the embedded author snapshot is stale.
		func(item models.Authored, current *models.User) (string, bool) {
			if current == nil || !item.AuthorID().Equal(current.ID) {
				return "", false
			}
			if ref := current.AvatarRef(); ref != "" {
				return ref, true
			}
			return "", false
		},
		// Embedded author snapshot, either spelling.
		func(item models.Authored, _ *models.User) (string, bool) {
			if a := item.EmbeddedAuthor(); a != nil {
				if ref := a.AvatarRef(); ref != "" {
					return ref, true
				}
			}
			return "", false
		},
		// Flattened avatar field directly on the item.
		func(item models.Authored, _ *models.User) (string, bool) {
			if ref := item.FlatAvatarRef(); ref != "" {
				return ref, true
			}
			return "", false
		},
	}
}

// Resolve walks the precedence chains and always produces a value; missing
// fields fall through to the next rule and terminate at placeholders, never
// at an error.
func (r *Resolver) Resolve(item models.Authored, current *models.User) Identity {
	id := Identity{DisplayName: AnonymousName}

	for _, rule := range nameRules {
		if name, ok := rule(item, current); ok {
			id.DisplayName = name
			break
		}
	}

	for _, rule := range r.avatarRules() {
		ref, ok := rule(item, current)
		if !ok {
			continue
		}
		if url := r.ResolveImageURL(ref); url != nil {
			id.AvatarURL = url
			break
		}
	}
	if id.AvatarURL == nil {
		def := DefaultAvatarURL
		id.AvatarURL = &def
	}
	return id
}

// ResolveIdentityForUser returns the identity of the authenticated user
// themselves, used when synthesizing content whose author is unambiguous.
func (r *Resolver) ResolveIdentityForUser(current *models.User) Identity {
	id := Identity{DisplayName: AnonymousName}
	if current == nil {
		def := DefaultAvatarURL
		id.AvatarURL = &def
		return id
	}
	if n := current.DisplayNameRef(); n != "" {
		id.DisplayName = n
	} else {
		id.DisplayName = SelfFallbackName
	}
	if url := r.ResolveImageURL(current.AvatarRef()); url != nil {
		id.AvatarURL = url
	} else {
		def := DefaultAvatarURL
		id.AvatarURL = &def
	}
	return id
}

// ResolveImageURL resolves an image reference to an absolute URL. Absolute
// and inline-data URLs pass through; relative paths are resolved against the
// asset origin; an empty reference resolves to nil, never to an empty string,
// so the presentation layer is not tricked into fetching a broken image.
func (r *Resolver) ResolveImageURL(ref string) *string {
	if ref == "" {
		return nil
	}
	if strings.HasPrefix(ref, "http") || strings.HasPrefix(ref, "data:image") {
		return &ref
	}
	path := ref
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := r.AssetOrigin + path
	return &url
}
