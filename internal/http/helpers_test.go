package http

import (
	"bytes"
	"mime/multipart"
	"photostream/internal/mock"
	cl "photostream/pkg/gallery"
	"testing"
	"time"

	tm "github.com/twitsprout/tools/mock"
)

const testSecret = "test-secret"

// newTestHandler builds a handler with its router mounted, backed by
// the provided mocks.
func newTestHandler(ps *mock.PhotoStore, ms *mock.MediaStore) *Handler {
	h := &Handler{
		AppName:     "photostream",
		Logger:      tm.NopLogger,
		PhotoStore:  ps,
		MediaStore:  ms,
		TokenSecret: testSecret,
	}
	h.Handler()
	return h
}

// authHeader mints a valid access token for the test user.
func authHeader(t *testing.T, h *Handler) string {
	t.Helper()
	token, err := h.signToken(cl.User{ID: 1, Username: "user1"}, tokenTypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("unable to sign test token: %s", err.Error())
	}
	return "Bearer " + token
}

// multipartBody builds a multipart form with an optional caption field
// and an optional "photo" file part. The file content is arbitrary
// bytes since handler tests mock the media store.
func multipartBody(t *testing.T, caption string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			t.Fatalf("unable to write caption field: %s", err.Error())
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("photo", "test.png")
		if err != nil {
			t.Fatalf("unable to create file part: %s", err.Error())
		}
		_, _ = fw.Write([]byte("fake image bytes"))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("unable to close multipart writer: %s", err.Error())
	}
	return &buf, mw.FormDataContentType()
}
