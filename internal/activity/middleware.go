package activity

import (
	"net"
	"net/http"

	"github.com/recruitdesk/apiserver/internal/auth"
	"github.com/recruitdesk/apiserver/types"
)

// Middleware records one entry per authenticated request. It must run
// after the auth gate; unauthenticated requests pass through unrecorded.
func Middleware(rec *Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := auth.UserFromContext(r.Context()); ok {
				rec.Record(types.ActivityLog{
					UserID:    user.ID,
					Action:    r.Method,
					Endpoint:  r.URL.RequestURI(),
					IPAddress: RemoteIP(r),
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RemoteIP strips the port from the request's remote address.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
