package authentication

import (
	"net/http"
)

// Ping answers pong. It sits behind the JWT middleware, so a client can use
// it to check that its token is still valid.
func (s *svc) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
