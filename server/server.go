package server

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/drivenas/nasd/config"
	"github.com/drivenas/nasd/helpers"
	"github.com/drivenas/nasd/keys"
	"github.com/drivenas/nasd/services"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tylerb/graceful"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nasd_http_requests_total",
			Help: "Number of HTTP requests served, partitioned by endpoint, method and status code.",
		},
		[]string{"handler", "method", "code"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nasd_http_request_duration_seconds",
			Help:    "Latency of HTTP requests, partitioned by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// Server wraps a graceful HTTP server that routes requests to the enabled
// web services.
type Server struct {
	srv    *graceful.Server
	conf   *config.Config
	log    *logrus.Entry
	router http.Handler
}

// New returns a new Server routing to the given web services.
func New(conf *config.Config, webServices []services.Service) *Server {
	directives := conf.GetDirectives()
	srv := &graceful.Server{
		NoSignalHandling: true,
		Timeout:          time.Duration(directives.Server.ShutdownTimeout) * time.Second,
		Server: &http.Server{
			Addr: fmt.Sprintf(":%d", directives.Server.Port),
		},
	}
	s := &Server{srv: srv, conf: conf, log: helpers.GetAppLogger(conf)}
	s.configureRouter(webServices)
	return s
}

func (s *Server) Start() error {
	directives := s.conf.GetDirectives()
	s.srv.Server.Handler = s.router
	if directives.Server.TLSEnabled {
		return s.srv.ListenAndServeTLS(directives.Server.TLSCertificate, directives.Server.TLSPrivateKey)
	}
	return s.srv.ListenAndServe()
}

func (s *Server) StopChan() <-chan struct{} {
	return s.srv.StopChan()
}

func (s *Server) Stop() {
	directives := s.conf.GetDirectives()
	s.srv.Stop(time.Duration(directives.Server.ShutdownTimeout) * time.Second)
}

func (s *Server) configureRouter(webServices []services.Service) {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.log.WithField("method", "GET").WithField("endpoint", "/metrics").Info("endpoint available")

	for _, service := range webServices {
		s.log.WithField("service", service.Name()).Info("web service enabled")
		base := strings.TrimSuffix(service.BaseURL(), "/")
		for path, methods := range service.Endpoints() {
			for method, handlerFunc := range methods {
				endpoint := base + path
				handler := instrument(endpoint, s.logHandler(handlerFunc))
				router.Handle(endpoint, handler).Methods(method)
				s.log.WithField("method", method).WithField("endpoint", endpoint).Info("endpoint available")
			}
		}
	}

	s.router = handlers.CombinedLoggingHandler(helpers.GetHTTPAccessLogWriter(s.conf), router)
}

// logHandler tags each request with its own logger and converts panics into
// plain 500 responses.
func (s *Server) logHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("tid", uuid.New().String())
		log.WithField("method", r.Method).WithField("uri", helpers.SanitizeURL(r.URL)).Info("request started")
		defer func() {
			log.Info("request finished")
			if rec := recover(); rec != nil {
				var err error
				switch t := rec.(type) {
				case string:
					err = errors.New(t)
				case error:
					err = t
				default:
					err = fmt.Errorf("%v", t)
				}
				trace := make([]byte, 2048)
				count := runtime.Stack(trace, false)
				log.WithError(err).WithField("stack", string(trace[:count])).Error("recovered from panic")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		r = keys.SetLog(r, log)
		next.ServeHTTP(w, r)
	})
}

func instrument(endpoint string, next http.Handler) http.Handler {
	labels := prometheus.Labels{"handler": endpoint}
	return promhttp.InstrumentHandlerCounter(requestsTotal.MustCurryWith(labels),
		promhttp.InstrumentHandlerDuration(requestDuration.MustCurryWith(labels), next))
}
