package authentication

import (
	"errors"
	"net/http"

	"github.com/drivenas/nasd/config"
	"github.com/drivenas/nasd/services"
	"github.com/drivenas/nasd/services/authentication/authenticationcontroller"
	"github.com/drivenas/nasd/services/authentication/authenticationcontroller/memory"
	"github.com/drivenas/nasd/services/authentication/lib"
)

// ServiceName identifies this service.
const ServiceName string = "authentication"

type svc struct {
	conf                     *config.Config
	authenticationController authenticationcontroller.AuthenticationController
	authenticator            *lib.Authenticator
}

// New will instantiate and return
// a new svc that implements services.Service.
func New(conf *config.Config) (services.Service, error) {
	authenticationController, err := GetAuthenticationController(conf)
	if err != nil {
		return nil, err
	}

	dirs := conf.GetDirectives()
	return &svc{
		conf:                     conf,
		authenticationController: authenticationController,
		authenticator:            lib.NewAuthenticator(dirs.Server.JWTSecret, dirs.Server.JWTSigningMethod),
	}, nil
}

// GetAuthenticationController returns the controller the configuration names.
func GetAuthenticationController(conf *config.Config) (authenticationcontroller.AuthenticationController, error) {
	dirs := conf.GetDirectives()
	switch dirs.Authentication.Type {
	case "memory":
		return memory.New(conf)
	default:
		return nil, errors.New("authentication type " + dirs.Authentication.Type + " does not exist")
	}
}

func (s *svc) Name() string {
	return ServiceName
}

func (s *svc) BaseURL() string {
	if s.conf.GetDirectives().Authentication.BaseURL == "" {
		return "/"
	}
	return s.conf.GetDirectives().Authentication.BaseURL
}

// Endpoints is a listing of all endpoints available in the svc.
func (s *svc) Endpoints() map[string]map[string]http.HandlerFunc {
	return map[string]map[string]http.HandlerFunc{
		"/token": {
			"POST": s.Token,
		},
		"/ping": {
			"GET": s.authenticator.JWTHandlerFunc(s.Ping),
		},
	}
}
