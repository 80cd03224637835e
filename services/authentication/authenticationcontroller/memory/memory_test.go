package memory

import (
	"testing"

	"github.com/drivenas/nasd/config"
	defaul "github.com/drivenas/nasd/config/default"
	mock_configsource "github.com/drivenas/nasd/config/mock"
	"github.com/drivenas/nasd/services/authentication/lib"
	"github.com/stretchr/testify/require"
)

var defaultDirs = defaul.DefaultDirectives

func newController(t *testing.T, dirs *config.Directives) *controller {
	mockSource := &mock_configsource.Source{}
	mockSource.On("LoadDirectives").Return(dirs, nil)
	conf := config.New([]config.Source{mockSource})
	require.Nil(t, conf.LoadDirectives())

	c, err := New(conf)
	require.Nil(t, err)
	return c.(*controller)
}

func TestAuthenticate(t *testing.T) {
	dirs := defaultDirs
	c := newController(t, &dirs)

	token, err := c.Authenticate("demo", "demo")
	require.Nil(t, err)
	require.NotEmpty(t, token)

	authenticator := lib.NewAuthenticator(dirs.Server.JWTSecret, dirs.Server.JWTSigningMethod)
	user, err := authenticator.CreateUserFromToken(token)
	require.Nil(t, err)
	require.Equal(t, "demo", user.Username)
	require.False(t, user.Superuser)
}

func TestAuthenticate_withSuperuser(t *testing.T) {
	dirs := defaultDirs
	c := newController(t, &dirs)

	token, err := c.Authenticate("admin", "admin")
	require.Nil(t, err)

	authenticator := lib.NewAuthenticator(dirs.Server.JWTSecret, dirs.Server.JWTSigningMethod)
	user, err := authenticator.CreateUserFromToken(token)
	require.Nil(t, err)
	require.True(t, user.Superuser)
}

func TestAuthenticate_withBadPassword(t *testing.T) {
	dirs := defaultDirs
	c := newController(t, &dirs)
	_, err := c.Authenticate("demo", "wrong")
	require.NotNil(t, err)
}

func TestAuthenticate_withUnknownUser(t *testing.T) {
	dirs := defaultDirs
	c := newController(t, &dirs)
	_, err := c.Authenticate("nobody", "demo")
	require.NotNil(t, err)
}
