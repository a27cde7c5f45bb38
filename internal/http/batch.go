package http

import (
	"net/http"
	cl "photostream/pkg/gallery"

	httputils "github.com/twitsprout/tools/http"
	"github.com/twitsprout/tools/requestid"
)

// Batch endpoints apply an ordered list of mutations as one atomic
// unit: the payload is validated in full before the store is touched,
// and any failure while applying rolls back every item and surfaces a
// single request-level error.

// BatchPublishPhotos publishes the photos in the "ids" payload,
// returning the updated photos in input order.
func (h *Handler) BatchPublishPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	var req cl.BatchIDsRequest
	if err := httputils.ReadJSON(r.Body, &req); err != nil {
		h.Logger.Error("[BatchPublishPhotos] error parsing request",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	photos, err := h.PhotoStore.BatchPublishPhotos(ctx, req.IDs)
	if err != nil {
		h.Logger.Error("[BatchPublishPhotos] error publishing photos",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	_ = httputils.WriteJSON(w, v, projectPhotos(photos), http.StatusOK)
}

// BatchEditPhotos overwrites the captions of the photos in the
// payload, returning the updated photos in input order.
func (h *Handler) BatchEditPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	var req cl.BatchEditRequest
	if err := httputils.ReadJSON(r.Body, &req); err != nil {
		h.Logger.Error("[BatchEditPhotos] error parsing request",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	photos, err := h.PhotoStore.BatchEditPhotos(ctx, req.Items())
	if err != nil {
		h.Logger.Error("[BatchEditPhotos] error editing photos",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	_ = httputils.WriteJSON(w, v, projectPhotos(photos), http.StatusOK)
}

// BatchDeletePhotos removes the photos in the "ids" payload. A delete
// batch carries no per-item result: success is an empty 204 response.
func (h *Handler) BatchDeletePhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := r.URL.Query()
	reqID := requestid.Get(ctx)

	var req cl.BatchIDsRequest
	if err := httputils.ReadJSON(r.Body, &req); err != nil {
		h.Logger.Error("[BatchDeletePhotos] error parsing request",
			"request_id", reqID,
			"details", err.Error())
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.PhotoStore.BatchDeletePhotos(ctx, req.IDs)
	if err != nil {
		h.Logger.Error("[BatchDeletePhotos] error deleting photos",
			"request_id", reqID,
			"details", err.Error(),
		)
		_ = httputils.WriteJSONError(w, v, err.Error(), http.StatusBadRequest)
		return
	}

	// Media files are released only after the whole batch committed.
	for _, photo := range deleted {
		h.removeMedia(photo.Photo, reqID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// projectPhotos converts mutated photos into their response
// representation, preserving the batch input order.
func projectPhotos(photos []cl.Photo) []cl.Photo {
	res := make([]cl.Photo, 0, len(photos))
	for _, photo := range photos {
		res = append(res, photo.WithVariants())
	}
	return res
}
