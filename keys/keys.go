package keys

import (
	"context"
	"net/http"

	"github.com/drivenas/nasd/entities"
	"github.com/sirupsen/logrus"
)

type contextKey int

const (
	// userKey is the key to use when storing an entities.User into a context.
	userKey contextKey = iota

	// logKey is the key to use when storing a request logger into a context.
	logKey
)

// SetUser returns a shallow copy of the request carrying the authenticated user.
func SetUser(r *http.Request, user *entities.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

// GetUser returns the user stored in the request context, if any.
func GetUser(r *http.Request) (*entities.User, bool) {
	user, ok := r.Context().Value(userKey).(*entities.User)
	return user, ok
}

// MustGetUser returns the user stored in the request context and panics
// if there is none. Handlers behind the authentication middleware can
// rely on the user being set.
func MustGetUser(r *http.Request) *entities.User {
	user, ok := GetUser(r)
	if !ok {
		panic("user not found in request context")
	}
	return user
}

// SetLog returns a shallow copy of the request carrying the request logger.
func SetLog(r *http.Request, log *logrus.Entry) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), logKey, log))
}

// GetLog returns the logger stored in the request context, if any.
func GetLog(r *http.Request) (*logrus.Entry, bool) {
	log, ok := r.Context().Value(logKey).(*logrus.Entry)
	return log, ok
}

// MustGetLog returns the logger stored in the request context and panics
// if there is none.
func MustGetLog(r *http.Request) *logrus.Entry {
	log, ok := GetLog(r)
	if !ok {
		panic("logger not found in request context")
	}
	return log
}
