package gallery

import (
	"strings"
	"time"

	"gopkg.in/guregu/null.v3"
)

// Derived size variants of a stored photo. Variant files live next to
// the original and are named by convention, e.g. "photos/abc.jpg" has
// the variants "photos/abc.large.jpg" and "photos/abc.thumbnail.jpg".
const (
	VariantLarge     = "large"
	VariantThumbnail = "thumbnail"
)

// Ordering values accepted by the photo list endpoint. The leading
// dash means descending, matching the query parameter format.
const (
	OrderingPublishedAt     = "published_at"
	OrderingPublishedAtDesc = "-published_at"
)

// MaxCaptionLen is the maximum length of a photo caption.
const MaxCaptionLen = 255

// Photo is a user-submitted photograph. A null PublishedAt means the
// photo is an unpublished draft.
type Photo struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user" db:"user_id"`
	Photo          string    `json:"photo" db:"photo"`
	PhotoLarge     string    `json:"photo_large" db:"-"`
	PhotoThumbnail string    `json:"photo_thumbnail" db:"-"`
	Caption        string    `json:"caption" db:"caption"`
	PublishedAt    null.Time `json:"published_at" db:"published_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// VariantPath returns the path of the named size variant of the stored
// image at path.
func VariantPath(path, variant string) string {
	ext := ""
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = path[i:]
		path = path[:i]
	}
	return path + "." + variant + ext
}

// WithVariants returns a copy of p with the derived variant paths
// filled in from the original photo path. Variant paths are computed,
// not stored.
func (p Photo) WithVariants() Photo {
	p.PhotoLarge = VariantPath(p.Photo, VariantLarge)
	p.PhotoThumbnail = VariantPath(p.Photo, VariantThumbnail)
	return p
}

type CreatePhotoRequest struct {
	UserID  int64
	Photo   string
	Caption string
}

// UpdatePhotoRequest describes an edit of an existing photo. Photo,
// when non-empty, replaces the stored image path.
type UpdatePhotoRequest struct {
	ID      int64
	Caption string
	Photo   string
}

type ListPhotosRequest struct {
	UserID    null.Int
	Published null.Bool
	Ordering  string
	Page      int
	PageSize  int
}

type ListPhotosResponse struct {
	Count   int     `json:"count"`
	Results []Photo `json:"results"`
}
