package memory

import (
	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/config"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/services/authentication/authenticationcontroller"
	"github.com/drivenas/nasd/services/authentication/lib"
)

type controller struct {
	users         []config.MemoryUser
	authenticator *lib.Authenticator
}

// New returns an AuthenticationController that keeps the user table in
// memory, loaded from the configuration.
func New(conf *config.Config) (authenticationcontroller.AuthenticationController, error) {
	dirs := conf.GetDirectives()
	authenticator := lib.NewAuthenticator(dirs.Server.JWTSecret, dirs.Server.JWTSigningMethod)
	return &controller{
		users:         dirs.Authentication.Memory.Users,
		authenticator: authenticator,
	}, nil
}

func (c *controller) Authenticate(username, password string) (string, error) {
	for _, u := range c.users {
		if u.Username == username && u.Password == password {
			return c.authenticator.CreateToken(&entities.User{
				Username:    u.Username,
				Email:       u.Email,
				DisplayName: u.DisplayName,
				Superuser:   u.Superuser,
			})
		}
	}
	return "", codes.NewErr(codes.BadAuthenticationData, "user or password do not match")
}
