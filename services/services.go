package services

import (
	"net/http"
)

// Service is a mountable web service. The server joins BaseURL with every
// path returned by Endpoints (path -> method -> handler) when building the
// router.
type Service interface {
	Name() string
	BaseURL() string
	Endpoints() map[string]map[string]http.HandlerFunc
}
