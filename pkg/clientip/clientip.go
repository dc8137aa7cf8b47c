package clientip

import (
	"net"
	"net/http"
	"strings"
)

var headers = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client IP of r, checking proxy headers before RemoteAddr.
func GetIP(r *http.Request) string {
	for _, h := range headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		if h == "X-Forwarded-For" {
			value, _, _ = strings.Cut(value, ",")
		}
		if ip := normalize(value); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalize(host); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
