package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrResponse is the JSON error body of every failed API call.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrNotFound(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found.", ErrorText: err.Error()}
}

func ErrInternal(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError, StatusText: "Internal server error.", ErrorText: err.Error()}
}
