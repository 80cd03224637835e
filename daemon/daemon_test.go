package daemon

import (
	"testing"

	"github.com/drivenas/nasd/config"
	defaul "github.com/drivenas/nasd/config/default"
	mock_configsource "github.com/drivenas/nasd/config/mock"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, enabled []string) *config.Config {
	dirs := defaul.DefaultDirectives
	dirs.Storage.Root = t.TempDir()
	dirs.Server.EnabledServices = enabled

	mockSource := &mock_configsource.Source{}
	mockSource.On("LoadDirectives").Return(&dirs, nil)
	conf := config.New([]config.Source{mockSource})
	require.Nil(t, conf.LoadDirectives())
	return conf
}

func TestGetWebServices(t *testing.T) {
	conf := newTestConfig(t, []string{"authentication", "drives"})
	webServices, err := getWebServices(conf)
	require.Nil(t, err)
	require.Len(t, webServices, 2)
	require.Equal(t, "authentication", webServices[0].Name())
	require.Equal(t, "drives", webServices[1].Name())
}

func TestGetWebServices_withUnknownService(t *testing.T) {
	conf := newTestConfig(t, []string{"telepathy"})
	_, err := getWebServices(conf)
	require.NotNil(t, err)
}

func TestGetConfigSources(t *testing.T) {
	require.Len(t, GetConfigSources(""), 2)
	require.Len(t, GetConfigSources("custom.conf"), 2)
}
