// Package images stores profile pictures. Two backends exist: a local
// directory served by the HTTP server and an S3-compatible bucket.
package images

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Store persists images and hands back a reference that clients can load.
type Store interface {
	// Put saves data under key and returns the public reference.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Delete removes the object behind ref. Unknown refs are not an error.
	Delete(ctx context.Context, ref string) error
	// Owns reports whether ref points into this store.
	Owns(ref string) bool
	// Key returns the object key behind ref when ref points into this store.
	Key(ref string) (string, bool)
}

var allowed = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Sniff detects the content type of data and returns it with the matching
// file extension. ok is false for anything but png, jpeg, gif or webp.
func Sniff(data []byte) (contentType, ext string, ok bool) {
	contentType = http.DetectContentType(data)
	ext, ok = allowed[contentType]
	return contentType, ext, ok
}

// ObjectKey builds avatars/<userID>/<slug(name)>-<uuid><ext>.
func ObjectKey(userID, name, ext string) string {
	s := slug.Make(name)
	if s == "" {
		s = "avatar"
	}
	return path.Join("avatars", userID, s+"-"+uuid.NewString()+ext)
}

// OwnedBy reports whether ref is an object of s stored under userID's
// avatars/<userID>/ prefix. Keys that are not in clean form never match.
func OwnedBy(s Store, ref, userID string) bool {
	if userID == "" || strings.Contains(userID, "/") {
		return false
	}
	key, ok := s.Key(ref)
	if !ok || path.Clean(key) != key {
		return false
	}
	return strings.HasPrefix(key, path.Join("avatars", userID)+"/")
}
