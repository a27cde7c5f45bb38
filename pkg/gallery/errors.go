package gallery

import "errors"

var ErrNotFound = errors.New("not found")
var ErrIDRequired = errors.New("Id required")
var ErrCaptionRequired = errors.New("caption must be provided")
var ErrCaptionTooLong = errors.New("caption must be at most 255 characters")
var ErrIDsRequired = errors.New("ids must be provided in request body")
var ErrMissingPhoto = errors.New("photo file must be provided in request body")
var ErrInvalidOrdering = errors.New("ordering must be published_at or -published_at")
var ErrInvalidCredentials = errors.New("invalid credentials")
