package internal

import (
	"context"
	"io"
	cl "photostream/pkg/gallery"
)

// PhotoStore is responsible for Photo CRUD and the transactional batch
// mutations. Delete operations return the removed rows so callers can
// release the underlying media files after the store commits.
type PhotoStore interface {
	CreatePhoto(ctx context.Context, req cl.CreatePhotoRequest) (cl.Photo, error)
	GetPhoto(ctx context.Context, id int64) (cl.Photo, error)
	UpdatePhoto(ctx context.Context, req cl.UpdatePhotoRequest) (cl.Photo, error)
	DeletePhoto(ctx context.Context, id int64) (cl.Photo, error)
	ListPhotos(ctx context.Context, req cl.ListPhotosRequest) (cl.ListPhotosResponse, error)
	PublishPhoto(ctx context.Context, id int64) (cl.Photo, error)
	BatchPublishPhotos(ctx context.Context, ids []int64) ([]cl.Photo, error)
	BatchEditPhotos(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error)
	BatchDeletePhotos(ctx context.Context, ids []int64) ([]cl.Photo, error)
}

// UserStore is responsible for the users that own photos.
type UserStore interface {
	CreateUser(ctx context.Context, req cl.CreateUserRequest) (cl.User, error)
	GetUserByUsername(ctx context.Context, username string) (cl.User, error)
}

// MediaStore persists uploaded image data and its derived size
// variants, keyed by the media-relative path of the original.
type MediaStore interface {
	Save(r io.Reader, filename string) (string, error)
	Remove(path string) error
}
