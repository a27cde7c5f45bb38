package http

import (
	"photostream/internal"

	"github.com/gorilla/mux"
	"github.com/twitsprout/tools"
)

type Handler struct {
	AppName     string
	Version     string
	router      *mux.Router
	Logger      tools.Logger
	PhotoStore  internal.PhotoStore
	UserStore   internal.UserStore
	MediaStore  internal.MediaStore
	MediaDir    string
	TokenSecret string
}
