package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"photostream/internal/mock"
	cl "photostream/pkg/gallery"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	httputils "github.com/twitsprout/tools/http"
	jsonutils "github.com/twitsprout/tools/json"
	"gopkg.in/guregu/null.v3"
)

var testPublishedAt = time.Date(2024, 5, 6, 20, 11, 4, 0, time.UTC)

func testPhoto(id int64, caption string, published bool) cl.Photo {
	p := cl.Photo{
		ID:        id,
		UserID:    1,
		Photo:     "photos/test.jpg",
		Caption:   caption,
		CreatedAt: testPublishedAt,
		UpdatedAt: testPublishedAt,
	}
	if published {
		p.PublishedAt = null.TimeFrom(testPublishedAt)
	}
	return p
}

func TestBatchPublishPhotos(t *testing.T) {
	url := "/v1/photos/batch_publish"
	photoA := testPhoto(2, "A", true)
	photoB := testPhoto(1, "B", true)
	table := []struct {
		label          string
		body           string
		authed         bool
		batchPublishFn func(ctx context.Context, ids []int64) ([]cl.Photo, error)
		expCode        int
		expErr         string
		expRes         []cl.Photo
	}{
		{
			label:   "should fail without a token",
			body:    `{"ids": [1]}`,
			expCode: http.StatusUnauthorized,
		},
		{
			label:   "should fail if there's an error decoding json",
			body:    `{badjson`,
			authed:  true,
			expCode: http.StatusBadRequest,
			expErr:  "json: invalid character 'b' looking for beginning of object key string: '{badjson'",
		},
		{
			label:   "should fail if ids are missing",
			body:    `{"ids": []}`,
			authed:  true,
			expCode: http.StatusBadRequest,
			expErr:  cl.ErrIDsRequired.Error(),
		},
		{
			label:  "should fail if any id does not exist",
			body:   `{"ids": [2, 99]}`,
			authed: true,
			batchPublishFn: func(ctx context.Context, ids []int64) ([]cl.Photo, error) {
				return nil, errors.Wrap(cl.ErrNotFound, "photo 99")
			},
			expCode: http.StatusBadRequest,
			expErr:  "photo 99: not found",
		},
		{
			label:  "should return photos in input order",
			body:   `{"ids": [2, 1]}`,
			authed: true,
			batchPublishFn: func(ctx context.Context, ids []int64) ([]cl.Photo, error) {
				if diff := cmp.Diff([]int64{2, 1}, ids); diff != "" {
					t.Fatalf("unexpected ids passed to store: %s", diff)
				}
				return []cl.Photo{photoA, photoB}, nil
			},
			expCode: http.StatusOK,
			expRes:  []cl.Photo{photoA.WithVariants(), photoB.WithVariants()},
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			h := newTestHandler(&mock.PhotoStore{
				BatchPublishPhotosFn: ts.batchPublishFn,
			}, nil)

			wr := httptest.NewRecorder()
			req := httptest.NewRequest("POST", url, strings.NewReader(ts.body))
			if ts.authed {
				req.Header.Set("Authorization", authHeader(t, h))
			}
			h.router.ServeHTTP(wr, req)

			if wr.Code != ts.expCode {
				t.Fatalf("unexpected response code returned: %s", cmp.Diff(ts.expCode, wr.Code))
			}

			if ts.expErr != "" {
				var res httputils.JSONErrRes
				if err := jsonutils.Decode(wr.Body, &res); err != nil {
					t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
				}
				if res.Error.Message != ts.expErr {
					t.Fatalf("unexpected error returned: %s", cmp.Diff(ts.expErr, res.Error.Message))
				}
			}

			if ts.expRes != nil {
				var res []cl.Photo
				if err := jsonutils.Decode(wr.Body, &res); err != nil {
					t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
				}
				if !cmp.Equal(ts.expRes, res) {
					t.Fatalf("unexpected response returned: %s", cmp.Diff(ts.expRes, res))
				}
			}
		})
	}
}

func TestBatchEditPhotos(t *testing.T) {
	url := "/v1/photos/batch_edit"
	photoA := testPhoto(7, "x", false)
	photoB := testPhoto(3, "y", false)
	table := []struct {
		label       string
		body        string
		authed      bool
		batchEditFn func(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error)
		expCode     int
		expErr      string
		expRes      []cl.Photo
	}{
		{
			label:   "should fail without a token",
			body:    `[{"id": 1, "caption": "x"}]`,
			expCode: http.StatusUnauthorized,
		},
		{
			label: "should fail with Id required if any item has no id",
			// The store must not be touched: the nil batchEditFn would
			// panic if the handler got past validation.
			body:    `[{"id": 1, "caption": "ok"}, {"caption": "missing id"}]`,
			authed:  true,
			expCode: http.StatusBadRequest,
			expErr:  "Id required",
		},
		{
			label:   "should fail if any item has no caption",
			body:    `[{"id": 1}]`,
			authed:  true,
			expCode: http.StatusBadRequest,
			expErr:  cl.ErrCaptionRequired.Error(),
		},
		{
			label:  "should allow an empty batch",
			body:   `[]`,
			authed: true,
			batchEditFn: func(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error) {
				return []cl.Photo{}, nil
			},
			expCode: http.StatusOK,
			expRes:  []cl.Photo{},
		},
		{
			label:  "should fail if any id does not exist",
			body:   `[{"id": 99, "caption": "x"}]`,
			authed: true,
			batchEditFn: func(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error) {
				return nil, errors.Wrap(cl.ErrNotFound, "photo 99")
			},
			expCode: http.StatusBadRequest,
			expErr:  "photo 99: not found",
		},
		{
			label:  "should return photos in input order",
			body:   `[{"id": 7, "caption": "x"}, {"id": 3, "caption": "y"}]`,
			authed: true,
			batchEditFn: func(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error) {
				exp := []cl.EditPhoto{{ID: 7, Caption: "x"}, {ID: 3, Caption: "y"}}
				if diff := cmp.Diff(exp, items); diff != "" {
					t.Fatalf("unexpected items passed to store: %s", diff)
				}
				return []cl.Photo{photoA, photoB}, nil
			},
			expCode: http.StatusOK,
			expRes:  []cl.Photo{photoA.WithVariants(), photoB.WithVariants()},
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			h := newTestHandler(&mock.PhotoStore{
				BatchEditPhotosFn: ts.batchEditFn,
			}, nil)

			wr := httptest.NewRecorder()
			req := httptest.NewRequest("PUT", url, strings.NewReader(ts.body))
			if ts.authed {
				req.Header.Set("Authorization", authHeader(t, h))
			}
			h.router.ServeHTTP(wr, req)

			if wr.Code != ts.expCode {
				t.Fatalf("unexpected response code returned: %s", cmp.Diff(ts.expCode, wr.Code))
			}

			if ts.expErr != "" {
				var res httputils.JSONErrRes
				if err := jsonutils.Decode(wr.Body, &res); err != nil {
					t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
				}
				if res.Error.Message != ts.expErr {
					t.Fatalf("unexpected error returned: %s", cmp.Diff(ts.expErr, res.Error.Message))
				}
			}

			if ts.expRes != nil {
				var res []cl.Photo
				if err := jsonutils.Decode(wr.Body, &res); err != nil {
					t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
				}
				if !cmp.Equal(ts.expRes, res) {
					t.Fatalf("unexpected response returned: %s", cmp.Diff(ts.expRes, res))
				}
			}
		})
	}
}

func TestBatchDeletePhotos(t *testing.T) {
	url := "/v1/photos/batch_delete"
	table := []struct {
		label         string
		body          string
		authed        bool
		batchDeleteFn func(ctx context.Context, ids []int64) ([]cl.Photo, error)
		expCode       int
		expErr        string
		expRemoved    []string
	}{
		{
			label:   "should fail without a token",
			body:    `{"ids": [1]}`,
			expCode: http.StatusUnauthorized,
		},
		{
			label:   "should fail if ids are missing",
			body:    `{}`,
			authed:  true,
			expCode: http.StatusBadRequest,
			expErr:  cl.ErrIDsRequired.Error(),
		},
		{
			label:  "should fail if any id does not exist",
			body:   `{"ids": [1, 99]}`,
			authed: true,
			batchDeleteFn: func(ctx context.Context, ids []int64) ([]cl.Photo, error) {
				return nil, errors.Wrap(cl.ErrNotFound, "photo 99")
			},
			expCode: http.StatusBadRequest,
			expErr:  "photo 99: not found",
		},
		{
			label:  "should return 204 with an empty body and release media",
			body:   `{"ids": [1, 2]}`,
			authed: true,
			batchDeleteFn: func(ctx context.Context, ids []int64) ([]cl.Photo, error) {
				a := testPhoto(1, "A", false)
				a.Photo = "photos/a.jpg"
				b := testPhoto(2, "B", false)
				b.Photo = "photos/b.jpg"
				return []cl.Photo{a, b}, nil
			},
			expCode:    http.StatusNoContent,
			expRemoved: []string{"photos/a.jpg", "photos/b.jpg"},
		},
	}
	for i := 0; i < len(table); i++ {
		ts := table[i]
		t.Run(ts.label, func(t *testing.T) {
			var removed []string
			h := newTestHandler(&mock.PhotoStore{
				BatchDeletePhotosFn: ts.batchDeleteFn,
			}, &mock.MediaStore{
				RemoveFn: func(path string) error {
					removed = append(removed, path)
					return nil
				},
			})

			wr := httptest.NewRecorder()
			req := httptest.NewRequest("POST", url, strings.NewReader(ts.body))
			if ts.authed {
				req.Header.Set("Authorization", authHeader(t, h))
			}
			h.router.ServeHTTP(wr, req)

			if wr.Code != ts.expCode {
				t.Fatalf("unexpected response code returned: %s", cmp.Diff(ts.expCode, wr.Code))
			}

			if ts.expCode == http.StatusNoContent && wr.Body.Len() != 0 {
				t.Fatalf("expected empty response body, got: %s", wr.Body.String())
			}

			if ts.expErr != "" {
				var res httputils.JSONErrRes
				if err := jsonutils.Decode(wr.Body, &res); err != nil {
					t.Fatalf("unexpected error returned from decoding response body: %s", err.Error())
				}
				if res.Error.Message != ts.expErr {
					t.Fatalf("unexpected error returned: %s", cmp.Diff(ts.expErr, res.Error.Message))
				}
				if len(removed) != 0 {
					t.Fatalf("media files removed on a failed batch: %v", removed)
				}
			}

			if ts.expRemoved != nil && !cmp.Equal(ts.expRemoved, removed) {
				t.Fatalf("unexpected media files removed: %s", cmp.Diff(ts.expRemoved, removed))
			}
		})
	}
}
