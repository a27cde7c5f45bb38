package images

import (
	"image"
	"io"
	"os"
	"path/filepath"
	cl "photostream/pkg/gallery"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Derived variant dimensions: "large" fits inside 1000x1000 without
// upscaling, "thumbnail" is a 100x100 center crop.
const (
	largeWidth  = 1000
	largeHeight = 1000
	thumbWidth  = 100
	thumbHeight = 100
)

// photosDir is the subdirectory under the media root where photo
// files live.
const photosDir = "photos"

// Store persists uploaded photos and their derived size variants on
// the local filesystem under a single media root.
type Store struct {
	root string
}

// NewStore creates the media root (and the photos subdirectory) if
// needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, photosDir), 0o755); err != nil {
		return nil, errors.Wrap(err, "create media dir")
	}
	return &Store{root: root}, nil
}

// Dir returns the media root directory.
func (s *Store) Dir() string {
	return s.root
}

// Save decodes the uploaded image, stores the original under a fresh
// key and generates the large and thumbnail variants next to it. It
// returns the media-relative path of the original, from which the
// variant paths are derived.
func (s *Store) Save(r io.Reader, filename string) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", errors.Wrap(err, "decode image")
	}

	path := photosDir + "/" + uuid.NewString() + extension(filename)
	if err := imaging.Save(img, filepath.Join(s.root, filepath.FromSlash(path))); err != nil {
		return "", errors.Wrap(err, "save original image")
	}

	large := imaging.Fit(img, largeWidth, largeHeight, imaging.Lanczos)
	if err := s.saveVariant(large, path, cl.VariantLarge); err != nil {
		return "", err
	}
	thumb := imaging.Fill(img, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos)
	if err := s.saveVariant(thumb, path, cl.VariantThumbnail); err != nil {
		return "", err
	}

	return path, nil
}

func (s *Store) saveVariant(img image.Image, path, variant string) error {
	vp := cl.VariantPath(path, variant)
	err := imaging.Save(img, filepath.Join(s.root, filepath.FromSlash(vp)))
	return errors.Wrapf(err, "save %s variant", variant)
}

// Remove deletes the stored original and its variants. Files that are
// already gone are not an error.
func (s *Store) Remove(path string) error {
	paths := []string{
		path,
		cl.VariantPath(path, cl.VariantLarge),
		cl.VariantPath(path, cl.VariantThumbnail),
	}
	for _, pp := range paths {
		err := os.Remove(filepath.Join(s.root, filepath.FromSlash(pp)))
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "remove %s", pp)
		}
	}
	return nil
}

// extension picks the stored file extension from the uploaded
// filename, falling back to jpeg for anything unrecognized. The
// extension decides the encoding used for the original and both
// variants.
func extension(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp":
		return ext
	default:
		return ".jpg"
	}
}
