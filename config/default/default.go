package defaul

import (
	"github.com/drivenas/nasd/config"
)

// DefaultDirectives represents the default configuration used by the daemon.
// This default configuration must work out-of-the-box without using user
// supplied config files.
var DefaultDirectives = config.Directives{
	Server: config.Server{
		BaseURL:              "/api/v1/",
		Port:                 1502,
		JWTSecret:            "you must change me",
		JWTSigningMethod:     "HS256",
		AppLog:               "stdout",
		AppLogLevel:          "info",
		AppLogMaxSize:        100, // MiB
		HTTPAccessLog:        "stdout",
		HTTPAccessLogMaxSize: 100, // MiB
		ShutdownTimeout:      10,
		EnabledServices:      []string{"authentication", "drives"},
	},

	Storage: config.Storage{
		Root:               "/tmp/nasd-root",
		UploadMaxFileSize:  8589934592, // 8 GiB
		TransferTTLSeconds: 3600,
		Drives: []config.Drive{
			{
				Name:            "TestDrive",
				AllowedUsers:    []string{"demo"},
				DedicatedFolder: true,
			},
		},
	},

	Authentication: config.Authentication{
		BaseURL: "/authentication/",
		Type:    "memory",

		Memory: config.AuthenticationMemory{
			Users: getDefaultMemoryUsers(),
		},
	},
}

type conf struct{}

// New returns a source that always loads the default configuration.
func New() config.Source {
	return &conf{}
}

// LoadDirectives returns the configuration directives.
func (c *conf) LoadDirectives() (*config.Directives, error) {
	dirs := DefaultDirectives
	return &dirs, nil
}

func getDefaultMemoryUsers() []config.MemoryUser {
	return []config.MemoryUser{
		{
			Username:    "demo",
			Email:       "demo@example.com",
			DisplayName: "Demo User",
			Password:    "demo",
		},
		{
			Username:    "admin",
			Email:       "admin@example.com",
			DisplayName: "Admin User",
			Password:    "admin",
			Superuser:   true,
		},
	}
}
