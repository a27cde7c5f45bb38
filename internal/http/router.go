package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httputils "github.com/twitsprout/tools/http"
)

// Handler mounts all the handlers at the appropriate routes and adds any required middleware.
func (h *Handler) Handler() http.Handler {
	r := mux.NewRouter()

	r.Use(httputils.TimeoutMiddleware(1 * time.Minute))
	r.Use(httputils.RequestIDMiddleware)
	r.Use(httputils.RealIPMiddleware)
	r.Use(httputils.LimitReaderMiddleware(32 << 20))
	r.Use(httputils.LoggingMiddleware(h.Logger))
	r.Use(httputils.RecoverMiddleware(h.Logger, httputils.InternalServerErrorHandler(h.Logger)))
	r.Use(httputils.MaxConnectionsMiddleware(5000, httputils.ServiceUnavailableHandler(h.Logger)))
	r.Use(httputils.ConcurrentLimitMiddleware(250, httputils.ServiceUnavailableHandler(h.Logger)))

	r.MethodNotAllowedHandler = httputils.MethodNotAllowedHandler(h.Logger)
	r.NotFoundHandler = httputils.NotFoundHandler(h.Logger)

	versionHandler := httputils.VersionHandler(h.AppName, h.Version, h.Logger)
	r.Methods("GET").Path("/").Name("root").Handler(versionHandler)
	r.Methods("GET").Path("/version").Name("version").Handler(versionHandler)

	if h.MediaDir != "" {
		r.PathPrefix("/media/").Name("media").Handler(
			http.StripPrefix("/media/", http.FileServer(http.Dir(h.MediaDir))))
	}

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.Methods("POST").Path("/token").Name("create_token").HandlerFunc(h.CreateToken)
	v1.Methods("POST").Path("/token/refresh").Name("refresh_token").HandlerFunc(h.RefreshToken)

	photos := v1.PathPrefix("/photos").Subrouter()
	photos.Use(h.requireAuth)
	photos.Methods("GET").Path("").Name("list_photos").HandlerFunc(h.ListPhotos)
	photos.Methods("POST").Path("").Name("create_photo").HandlerFunc(h.CreatePhoto)
	photos.Methods("POST").Path("/batch_publish").Name("batch_publish_photos").HandlerFunc(h.BatchPublishPhotos)
	photos.Methods("PUT").Path("/batch_edit").Name("batch_edit_photos").HandlerFunc(h.BatchEditPhotos)
	photos.Methods("POST").Path("/batch_delete").Name("batch_delete_photos").HandlerFunc(h.BatchDeletePhotos)
	photos.Methods("GET").Path("/{id}").Name("get_photo").HandlerFunc(h.GetPhoto)
	photos.Methods("PUT").Path("/{id}").Name("update_photo").HandlerFunc(h.UpdatePhoto)
	photos.Methods("DELETE").Path("/{id}").Name("delete_photo").HandlerFunc(h.DeletePhoto)
	photos.Methods("POST").Path("/{id}/publish").Name("publish_photo").HandlerFunc(h.PublishPhoto)

	h.router = r
	return r
}
