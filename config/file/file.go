package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/drivenas/nasd/config"
	"gopkg.in/ini.v1"
)

const defaultPath = "nasd.conf"

type conf struct {
	path string
}

// New returns a source that loads directives from a configuration file.
// Files with an .ini extension are parsed as INI, everything else as JSON.
func New(path string) config.Source {
	if path == "" {
		path = defaultPath
	}
	return &conf{path: path}
}

// LoadDirectives returns the configuration directives. A missing file is not
// an error: the source contributes nothing and lower-priority sources win.
func (c *conf) LoadDirectives() (*config.Directives, error) {
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		return &config.Directives{}, nil
	}
	if filepath.Ext(c.path) == ".ini" {
		return getDirectivesFromINIFile(c.path)
	}
	return getDirectivesFromJSONFile(c.path)
}

func getDirectivesFromJSONFile(path string) (*config.Directives, error) {
	confData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	directives := &config.Directives{}
	if err := json.Unmarshal(confData, directives); err != nil {
		return nil, err
	}
	return directives, nil
}

func getDirectivesFromINIFile(path string) (*config.Directives, error) {
	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	directives := &config.Directives{}
	if err := iniFile.Section("server").MapTo(&directives.Server); err != nil {
		return nil, err
	}
	if err := iniFile.Section("storage").MapTo(&directives.Storage); err != nil {
		return nil, err
	}
	if err := iniFile.Section("authentication").MapTo(&directives.Authentication); err != nil {
		return nil, err
	}

	// Drives and users live in child sections: [storage.drive.<name>] and
	// [authentication.user.<username>].
	for _, section := range iniFile.Sections() {
		name := section.Name()
		switch {
		case strings.HasPrefix(name, "storage.drive."):
			drive := config.Drive{Name: strings.TrimPrefix(name, "storage.drive.")}
			drive.AllowedUsers = section.Key("allowed_users").Strings(",")
			drive.DedicatedFolder = section.Key("dedicated_folder").MustBool(false)
			drive.Public = section.Key("public").MustBool(false)
			directives.Storage.Drives = append(directives.Storage.Drives, drive)
		case strings.HasPrefix(name, "authentication.user."):
			user := config.MemoryUser{Username: strings.TrimPrefix(name, "authentication.user.")}
			user.Email = section.Key("email").String()
			user.DisplayName = section.Key("display_name").String()
			user.Password = section.Key("password").String()
			user.Superuser = section.Key("superuser").MustBool(false)
			directives.Authentication.Memory.Users = append(directives.Authentication.Memory.Users, user)
		}
	}
	return directives, nil
}
