package response

import (
	"net/http"

	"github.com/tallyboard/gateway/core/handler"
)

// Error returns a handler response that propagates the given error.
// The error is not rendered here; it is passed through to the pipeline's
// error handler, which decides on status code and body.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}

// Text returns a plain-text response with the given status code.
func Text(status int, body string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, err := w.Write([]byte(body))
		return err
	}
}
