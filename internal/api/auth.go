package api

import (
    "crypto/subtle"
    "net/http"
    "strings"
)

// authorized gates the admin endpoints. With no API_TOKEN configured the
// service runs open (local dev); otherwise a matching bearer token is
// required.
func (s *Server) authorized(r *http.Request) bool {
    if s.APIToken == "" {
        return true
    }
    authz := r.Header.Get("Authorization")
    if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
        return false
    }
    tok := strings.TrimSpace(authz[len("bearer "):])
    return subtle.ConstantTimeCompare([]byte(tok), []byte(s.APIToken)) == 1
}
