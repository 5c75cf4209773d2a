// Package device identifies the reader a request belongs to. Reading state is
// kept per device; there are no accounts.
package device

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/taiwoajasa245/quran-reader-api/pkg/response"
)

const Header = "X-Device-ID"

type contextKey string

const deviceIDContextKey contextKey = "device_id"

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Middleware reads the device id from the X-Device-ID header, issuing a new
// UUID when the header is absent. The id in use is echoed back on the
// response so clients can keep it.
func Middleware(next http.Handler) http.Handler {
	return identify(next, true)
}

// Optional is Middleware without issuing: a request with no X-Device-ID
// header passes through anonymous.
func Optional(next http.Handler) http.Handler {
	return identify(next, false)
}

func identify(next http.Handler, issue bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		switch {
		case id == "" && !issue:
			next.ServeHTTP(w, r)
			return
		case id == "":
			id = uuid.NewString()
		case !validID.MatchString(id):
			response.Error(w, http.StatusBadRequest, "Invalid device id", "device id must be 1-64 letters, digits, '-' or '_'")
			return
		}

		w.Header().Set(Header, id)
		ctx := WithID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceIDContextKey, id)
}

func IDFromContext(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(deviceIDContextKey).(string)
	return id, ok && id != ""
}
