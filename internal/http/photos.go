package http

import (
	"net/http"
	cl "photostream/pkg/gallery"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	httputils "github.com/twitsprout/tools/http"
	"github.com/twitsprout/tools/requestid"
	"gopkg.in/guregu/null.v3"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50

	// maxUploadMemory bounds the in-memory portion of a multipart
	// upload; larger files spill to disk.
	maxUploadMemory = 32 << 20
)

// ListPhotos gets a page of photos, optionally filtered by owner and
// publication state and ordered by publication time.
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	req, err := parseListPhotosRequest(r)
	if err != nil {
		h.Logger.Error("[ListPhotos] error parsing request",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.PhotoStore.ListPhotos(ctx, req)
	if err != nil {
		h.Logger.Error("[ListPhotos] error getting photos list",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	for i := range res.Results {
		res.Results[i] = res.Results[i].WithVariants()
	}
	_ = httputils.WriteJSON(w, v, res, http.StatusOK)
}

func parseListPhotosRequest(r *http.Request) (cl.ListPhotosRequest, error) {
	var req cl.ListPhotosRequest
	v := r.URL.Query()

	if s := v.Get("user"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return req, errors.New("[parseListPhotosRequest] user must be an integer")
		}
		req.UserID = null.IntFrom(id)
	}
	if s := v.Get("published"); s != "" {
		published, err := strconv.ParseBool(s)
		if err != nil {
			return req, errors.New("[parseListPhotosRequest] published must be a boolean")
		}
		req.Published = null.BoolFrom(published)
	}

	switch ordering := v.Get("ordering"); ordering {
	case "", cl.OrderingPublishedAt, cl.OrderingPublishedAtDesc:
		req.Ordering = ordering
	default:
		return req, cl.ErrInvalidOrdering
	}

	req.Page = 1
	if s := v.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return req, errors.New("[parseListPhotosRequest] page must be a positive integer")
		}
		req.Page = page
	}

	req.PageSize = defaultPageSize
	if s := v.Get("page_size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size < 1 {
			return req, errors.New("[parseListPhotosRequest] page_size must be a positive integer")
		}
		if size > maxPageSize {
			size = maxPageSize
		}
		req.PageSize = size
	}

	return req, nil
}

// CreatePhoto uploads a new photo for the authenticated user. The
// request is multipart form data with a "photo" file and a "caption"
// field; the media store generates the size variants on the way in.
func (h *Handler) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Logger.Error("[CreatePhoto] error parsing multipart form",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	caption := r.FormValue("caption")
	if err := validateCaption(caption); err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		_ = httputils.WriteJSONError(w, v, cl.ErrMissingPhoto.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := h.MediaStore.Save(file, header.Filename)
	if err != nil {
		h.Logger.Error("[CreatePhoto] error saving image",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := h.PhotoStore.CreatePhoto(ctx, cl.CreatePhotoRequest{
		UserID:  userID(ctx),
		Photo:   path,
		Caption: caption,
	})
	if err != nil {
		h.Logger.Error("[CreatePhoto] error creating photo",
			"request_id", reqID,
			"details", err.Error(),
		)
		h.removeMedia(path, reqID)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = httputils.WriteJSON(w, v, photo.WithVariants(), http.StatusCreated)
}

// GetPhoto gets the details of the photo matching the id.
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	id, err := parsePhotoID(r)
	if err != nil {
		h.Logger.Error("[GetPhoto] error parsing request",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := h.PhotoStore.GetPhoto(ctx, id)
	if err != nil {
		if errors.Cause(err) == cl.ErrNotFound {
			_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusNotFound)
			return
		}

		h.Logger.Error("[GetPhoto] error getting photo",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = httputils.WriteJSON(w, v, photo.WithVariants(), http.StatusOK)
}

// UpdatePhoto is the full edit of a photo: the caption is required and
// the image file is optional. A replaced image gets fresh variants and
// the old files are released.
func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	id, err := parsePhotoID(r)
	if err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Logger.Error("[UpdatePhoto] error parsing multipart form",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	caption := r.FormValue("caption")
	if err := validateCaption(caption); err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	req := cl.UpdatePhotoRequest{ID: id, Caption: caption}

	var oldPath string
	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()

		// The image is being replaced: remember the current files so
		// they can be released once the update goes through.
		current, err := h.PhotoStore.GetPhoto(ctx, id)
		if err != nil {
			if errors.Cause(err) == cl.ErrNotFound {
				_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusNotFound)
				return
			}
			h.Logger.Error("[UpdatePhoto] error getting photo",
				"request_id", reqID,
				"details", err.Error(),
			)
			_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
			return
		}
		oldPath = current.Photo

		req.Photo, err = h.MediaStore.Save(file, header.Filename)
		if err != nil {
			h.Logger.Error("[UpdatePhoto] error saving image",
				"request_id", reqID,
				"details", err.Error())
			_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
			return
		}
	}

	photo, err := h.PhotoStore.UpdatePhoto(ctx, req)
	if err != nil {
		if req.Photo != "" {
			h.removeMedia(req.Photo, reqID)
		}
		if errors.Cause(err) == cl.ErrNotFound {
			_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusNotFound)
			return
		}

		h.Logger.Error("[UpdatePhoto] error updating photo",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	if oldPath != "" && oldPath != photo.Photo {
		h.removeMedia(oldPath, reqID)
	}

	_ = httputils.WriteJSON(w, v, photo.WithVariants(), http.StatusOK)
}

// DeletePhoto permanently removes a photo and its media files.
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	id, err := parsePhotoID(r)
	if err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := h.PhotoStore.DeletePhoto(ctx, id)
	if err != nil {
		if errors.Cause(err) == cl.ErrNotFound {
			_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusNotFound)
			return
		}

		h.Logger.Error("[DeletePhoto] error deleting photo",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	h.removeMedia(photo.Photo, reqID)
	w.WriteHeader(http.StatusNoContent)
}

// PublishPhoto stamps a photo with the current publication time. There
// is no already-published guard: re-publishing refreshes the stamp.
func (h *Handler) PublishPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	id, err := parsePhotoID(r)
	if err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := h.PhotoStore.PublishPhoto(ctx, id)
	if err != nil {
		if errors.Cause(err) == cl.ErrNotFound {
			_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusNotFound)
			return
		}

		h.Logger.Error("[PublishPhoto] error publishing photo",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = httputils.WriteJSON(w, v, photo.WithVariants(), http.StatusOK)
}

func parsePhotoID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errors.New("[parsePhotoID] photo id must be an integer")
	}
	return id, nil
}

func validateCaption(caption string) error {
	if caption == "" {
		return cl.ErrCaptionRequired
	}
	if len(caption) > cl.MaxCaptionLen {
		return cl.ErrCaptionTooLong
	}
	return nil
}

// removeMedia releases a stored image and its variants, logging (but
// not failing the request) when cleanup does not succeed.
func (h *Handler) removeMedia(path string, reqID string) {
	if path == "" {
		return
	}
	if err := h.MediaStore.Remove(path); err != nil {
		h.Logger.Warn("failed to remove media files",
			"request_id", reqID,
			"path", path,
			"details", err.Error(),
		)
	}
}
