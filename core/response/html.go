package response

import (
	"net/http"

	"github.com/tallyboard/gateway/core/handler"
)

// HTML returns an HTML response with the given status code.
func HTML(status int, body string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, err := w.Write([]byte(body))
		return err
	}
}
