package lib

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testUser = &entities.User{
	Username:    "demo",
	Email:       "demo@example.com",
	DisplayName: "Demo User",
	Superuser:   true,
}

func newAuthenticator() *Authenticator {
	return NewAuthenticator("secret", "HS256")
}

func TestCreateToken(t *testing.T) {
	a := newAuthenticator()
	token, err := a.CreateToken(testUser)
	require.Nil(t, err)
	require.NotEmpty(t, token)
}

func TestCreateToken_withNilUser(t *testing.T) {
	a := newAuthenticator()
	_, err := a.CreateToken(nil)
	require.NotNil(t, err)
}

func TestCreateUserFromToken(t *testing.T) {
	a := newAuthenticator()
	token, err := a.CreateToken(testUser)
	require.Nil(t, err)

	user, err := a.CreateUserFromToken(token)
	require.Nil(t, err)
	require.Equal(t, testUser.Username, user.Username)
	require.Equal(t, testUser.Email, user.Email)
	require.Equal(t, testUser.DisplayName, user.DisplayName)
	require.True(t, user.Superuser)
}

func TestCreateUserFromToken_withGarbage(t *testing.T) {
	a := newAuthenticator()
	_, err := a.CreateUserFromToken("not a token")
	require.NotNil(t, err)
}

func TestCreateUserFromToken_withWrongKey(t *testing.T) {
	a := newAuthenticator()
	token, err := a.CreateToken(testUser)
	require.Nil(t, err)

	other := NewAuthenticator("other secret", "HS256")
	_, err = other.CreateUserFromToken(token)
	require.NotNil(t, err)
}

func TestJWTHandlerFunc(t *testing.T) {
	a := newAuthenticator()
	token, err := a.CreateToken(testUser)
	require.Nil(t, err)

	handler := a.JWTHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := keys.MustGetUser(r)
		require.Equal(t, testUser.Username, user.Username)
		w.WriteHeader(http.StatusOK)
	})

	r, err := http.NewRequest("GET", "/", nil)
	require.Nil(t, err)
	r = keys.SetLog(r, logrus.WithField("test", "test"))
	r.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	handler(w, r)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTHandlerFunc_withQueryToken(t *testing.T) {
	a := newAuthenticator()
	token, err := a.CreateToken(testUser)
	require.Nil(t, err)

	handler := a.JWTHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r, err := http.NewRequest("GET", "/?access_token="+token, nil)
	require.Nil(t, err)
	r = keys.SetLog(r, logrus.WithField("test", "test"))

	w := httptest.NewRecorder()
	handler(w, r)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTHandlerFunc_withoutToken(t *testing.T) {
	a := newAuthenticator()
	handler := a.JWTHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	r, err := http.NewRequest("GET", "/", nil)
	require.Nil(t, err)
	r = keys.SetLog(r, logrus.WithField("test", "test"))

	w := httptest.NewRecorder()
	handler(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
