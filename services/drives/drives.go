package drives

import (
	"net/http"

	"github.com/drivenas/nasd/config"
	"github.com/drivenas/nasd/services"
	"github.com/drivenas/nasd/services/authentication/lib"
	"github.com/drivenas/nasd/services/drives/drivescontroller"
	"github.com/drivenas/nasd/services/drives/drivescontroller/simple"
)

// ServiceName identifies this service.
const ServiceName string = "drives"

type svc struct {
	conf             *config.Config
	drivesController drivescontroller.DrivesController
}

// New returns a new Service serving the file-manager operations.
func New(conf *config.Config) (services.Service, error) {
	drivesController, err := simple.New(conf)
	if err != nil {
		return nil, err
	}
	return &svc{conf: conf, drivesController: drivesController}, nil
}

func (s *svc) Name() string {
	return ServiceName
}

func (s *svc) BaseURL() string {
	if s.conf.GetDirectives().Server.BaseURL == "" {
		return "/"
	}
	return s.conf.GetDirectives().Server.BaseURL
}

// Endpoints is a listing of all endpoints available in the svc.
func (s *svc) Endpoints() map[string]map[string]http.HandlerFunc {
	dirs := s.conf.GetDirectives()
	authenticator := lib.NewAuthenticator(dirs.Server.JWTSecret, dirs.Server.JWTSigningMethod)

	return map[string]map[string]http.HandlerFunc{
		"/list/{path:.*}": {
			"GET": authenticator.JWTHandlerFunc(s.List),
		},
		"/download/{path:.*}": {
			"GET": authenticator.JWTHandlerFunc(s.Download),
		},
		"/downloadfolder/{path:.*}": {
			"GET": authenticator.JWTHandlerFunc(s.DownloadFolder),
		},
		"/upload/{path:.*}": {
			"PUT": authenticator.JWTHandlerFunc(s.Upload),
		},
		"/createfolder": {
			"POST": authenticator.JWTHandlerFunc(s.CreateFolder),
		},
		"/rename": {
			"POST": authenticator.JWTHandlerFunc(s.Rename),
		},
		"/delete": {
			"POST": authenticator.JWTHandlerFunc(s.Delete),
		},
		"/copy": {
			"POST": authenticator.JWTHandlerFunc(s.Copy),
		},
		"/cut": {
			"POST": authenticator.JWTHandlerFunc(s.Cut),
		},
		"/paste": {
			"POST": authenticator.JWTHandlerFunc(s.Paste),
		},
		"/bulkdelete": {
			"POST": authenticator.JWTHandlerFunc(s.BulkDelete),
		},
		"/compress": {
			"POST": authenticator.JWTHandlerFunc(s.Compress),
		},
		"/extract": {
			"POST": authenticator.JWTHandlerFunc(s.Extract),
		},
	}
}
