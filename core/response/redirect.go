package response

import (
	"net/http"

	"github.com/smcd-ma/portal/core/handler"
)

// Redirect creates a 302 Found response.
// For htmx requests it answers 200 with an HX-Redirect header, which makes
// the client perform a full page navigation.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectSeeOther creates a 303 See Other response. Use it after a POST.
func RedirectSeeOther(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom 3xx status code.
// Out-of-range codes fall back to 302.
func RedirectWithStatus(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if IsHTMX(r) {
			w.Header().Set(HeaderHXRedirect, url)
			w.WriteHeader(http.StatusOK)
			return nil
		}

		if status < 300 || status >= 400 {
			status = http.StatusFound
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}
