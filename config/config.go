package config

import (
	"errors"
	"sync"

	"github.com/imdario/mergo"
)

// New returns a new Config.
func New(sources []Source) *Config {
	conf := &Config{}
	conf.configSources = sources
	return conf
}

// Config is a configuration manager that loads configuration from different
// sources and merges them based on some priorities.
type Config struct {
	dirs    *Directives
	dirsMux sync.Mutex

	configSources []Source
}

// GetDirectives returns the configuration directives.
func (c *Config) GetDirectives() *Directives {
	c.dirsMux.Lock()
	defer c.dirsMux.Unlock()
	return c.dirs
}

// LoadDirectives retrieves and merges configurations from different sources.
func (c *Config) LoadDirectives() error {
	if len(c.configSources) == 0 {
		return errors.New("there are not configuration sources")
	}

	directives := []*Directives{}
	for _, src := range c.configSources {
		dirs, err := src.LoadDirectives()
		if err != nil {
			return err
		}
		directives = append(directives, dirs)
	}

	for i := range directives {
		if i+1 < len(directives) {
			if err := merge(directives[i+1], directives[i]); err != nil {
				return err
			}
		}
	}

	c.dirsMux.Lock()
	defer c.dirsMux.Unlock()
	c.dirs = directives[len(directives)-1]
	return nil
}

func merge(left, right *Directives) error {
	return mergo.Merge(left, right)
}

// Source represents a configuration source where configuration can be loaded.
// Configurations can be loaded from different sources like file, env, flags ...
type Source interface {
	LoadDirectives() (*Directives, error)
}

// Directives represents the different configuration options.
type Directives struct {
	Server         Server         `json:"server"`
	Storage        Storage        `json:"storage"`
	Authentication Authentication `json:"authentication"`
}

// Server is the configuration section dedicated to the server.
type Server struct {
	BaseURL                 string   `json:"base_url" ini:"base_url"`
	Port                    int      `json:"port" ini:"port"`
	JWTSecret               string   `json:"jwt_secret" ini:"jwt_secret"`
	JWTSigningMethod        string   `json:"jwt_signing_method" ini:"jwt_signing_method"`
	AppLog                  string   `json:"app_log" ini:"app_log"`
	AppLogLevel             string   `json:"app_log_level" ini:"app_log_level"`
	AppLogMaxSize           int      `json:"app_log_max_size" ini:"app_log_max_size"`
	AppLogMaxAge            int      `json:"app_log_max_age" ini:"app_log_max_age"`
	AppLogMaxBackups        int      `json:"app_log_max_backups" ini:"app_log_max_backups"`
	HTTPAccessLog           string   `json:"http_access_log" ini:"http_access_log"`
	HTTPAccessLogMaxSize    int      `json:"http_access_log_max_size" ini:"http_access_log_max_size"`
	HTTPAccessLogMaxAge     int      `json:"http_access_log_max_age" ini:"http_access_log_max_age"`
	HTTPAccessLogMaxBackups int      `json:"http_access_log_max_backups" ini:"http_access_log_max_backups"`
	ShutdownTimeout         int      `json:"shutdown_timeout" ini:"shutdown_timeout"`
	TLSEnabled              bool     `json:"tls_enabled" ini:"tls_enabled"`
	TLSCertificate          string   `json:"tls_certificate" ini:"tls_certificate"`
	TLSPrivateKey           string   `json:"tls_private_key" ini:"tls_private_key"`
	EnabledServices         []string `json:"enabled_services" ini:"enabled_services"`
}

// Storage is the configuration section dedicated to the storage namespace:
// the root directory every operation is confined to and the per-drive
// access-control table. It is read-only after load.
type Storage struct {
	Root               string  `json:"root" ini:"root"`
	UploadMaxFileSize  int64   `json:"upload_max_file_size" ini:"upload_max_file_size"`
	TransferTTLSeconds int     `json:"transfer_ttl_seconds" ini:"transfer_ttl_seconds"`
	Drives             []Drive `json:"drives"`
}

// Drive is the access-control entry for one top-level directory under the
// storage root. A drive without an entry is inaccessible to non-superusers.
type Drive struct {
	Name            string   `json:"name" ini:"name"`
	AllowedUsers    []string `json:"allowed_users" ini:"allowed_users"`
	DedicatedFolder bool     `json:"dedicated_folder" ini:"dedicated_folder"`
	Public          bool     `json:"public" ini:"public"`
}

// Authentication is the configuration section dedicated to the authentication service.
type Authentication struct {
	BaseURL string               `json:"base_url" ini:"base_url"`
	Type    string               `json:"type" ini:"type"`
	Memory  AuthenticationMemory `json:"memory"`
}

// AuthenticationMemory is the configuration subsection dedicated to the
// authentication memory controller.
type AuthenticationMemory struct {
	Users []MemoryUser `json:"users"`
}

// MemoryUser is one user entry of the in-memory user table.
type MemoryUser struct {
	Username    string `json:"username" ini:"username"`
	Email       string `json:"email" ini:"email"`
	DisplayName string `json:"display_name" ini:"display_name"`
	Password    string `json:"password" ini:"password"`
	Superuser   bool   `json:"superuser" ini:"superuser"`
}
