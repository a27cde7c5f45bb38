package mock

import (
	"context"
	"io"
	"photostream/internal"
	cl "photostream/pkg/gallery"
)

// PhotoStore implements the internal.PhotoStore interface for mocking
// purposes. Each method proxies to the function field that's injected
// when the mock store is created.
type PhotoStore struct {
	CreatePhotoFn        func(ctx context.Context, req cl.CreatePhotoRequest) (cl.Photo, error)
	GetPhotoFn           func(ctx context.Context, id int64) (cl.Photo, error)
	UpdatePhotoFn        func(ctx context.Context, req cl.UpdatePhotoRequest) (cl.Photo, error)
	DeletePhotoFn        func(ctx context.Context, id int64) (cl.Photo, error)
	ListPhotosFn         func(ctx context.Context, req cl.ListPhotosRequest) (cl.ListPhotosResponse, error)
	PublishPhotoFn       func(ctx context.Context, id int64) (cl.Photo, error)
	BatchPublishPhotosFn func(ctx context.Context, ids []int64) ([]cl.Photo, error)
	BatchEditPhotosFn    func(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error)
	BatchDeletePhotosFn  func(ctx context.Context, ids []int64) ([]cl.Photo, error)
}

func (s *PhotoStore) CreatePhoto(ctx context.Context, req cl.CreatePhotoRequest) (cl.Photo, error) {
	return s.CreatePhotoFn(ctx, req)
}

func (s *PhotoStore) GetPhoto(ctx context.Context, id int64) (cl.Photo, error) {
	return s.GetPhotoFn(ctx, id)
}

func (s *PhotoStore) UpdatePhoto(ctx context.Context, req cl.UpdatePhotoRequest) (cl.Photo, error) {
	return s.UpdatePhotoFn(ctx, req)
}

func (s *PhotoStore) DeletePhoto(ctx context.Context, id int64) (cl.Photo, error) {
	return s.DeletePhotoFn(ctx, id)
}

func (s *PhotoStore) ListPhotos(ctx context.Context, req cl.ListPhotosRequest) (cl.ListPhotosResponse, error) {
	return s.ListPhotosFn(ctx, req)
}

func (s *PhotoStore) PublishPhoto(ctx context.Context, id int64) (cl.Photo, error) {
	return s.PublishPhotoFn(ctx, id)
}

func (s *PhotoStore) BatchPublishPhotos(ctx context.Context, ids []int64) ([]cl.Photo, error) {
	return s.BatchPublishPhotosFn(ctx, ids)
}

func (s *PhotoStore) BatchEditPhotos(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error) {
	return s.BatchEditPhotosFn(ctx, items)
}

func (s *PhotoStore) BatchDeletePhotos(ctx context.Context, ids []int64) ([]cl.Photo, error) {
	return s.BatchDeletePhotosFn(ctx, ids)
}

// UserStore implements the internal.UserStore interface for mocking
// purposes.
type UserStore struct {
	CreateUserFn        func(ctx context.Context, req cl.CreateUserRequest) (cl.User, error)
	GetUserByUsernameFn func(ctx context.Context, username string) (cl.User, error)
}

func (s *UserStore) CreateUser(ctx context.Context, req cl.CreateUserRequest) (cl.User, error) {
	return s.CreateUserFn(ctx, req)
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (cl.User, error) {
	return s.GetUserByUsernameFn(ctx, username)
}

// MediaStore implements the internal.MediaStore interface for mocking
// purposes.
type MediaStore struct {
	SaveFn   func(r io.Reader, filename string) (string, error)
	RemoveFn func(path string) error
}

func (s *MediaStore) Save(r io.Reader, filename string) (string, error) {
	return s.SaveFn(r, filename)
}

func (s *MediaStore) Remove(path string) error {
	return s.RemoveFn(path)
}

// Ensure mocks implement the store interfaces.
var _ internal.PhotoStore = (*PhotoStore)(nil)
var _ internal.UserStore = (*UserStore)(nil)
var _ internal.MediaStore = (*MediaStore)(nil)
