package response

import (
	"net/http"

	"github.com/smcd-ma/portal/core/handler"
)

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return write("text/plain; charset=utf-8", []byte(content), status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return HTMLWithStatus(content, http.StatusOK)
}

// HTMLWithStatus creates a text/html response with custom status code.
func HTMLWithStatus(content string, status int) handler.Response {
	return write("text/html; charset=utf-8", []byte(content), status)
}

// NoContent creates an empty 204 response.
func NoContent() handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

func write(contentType string, content []byte, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", contentType)
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) > 0 {
			_, err := w.Write(content)
			return err
		}
		return nil
	}
}
