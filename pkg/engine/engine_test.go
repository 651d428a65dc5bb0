package engine

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/blindroute/blindroute/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		TMapURL:       "https://tmap.example.com",
		TMapAppKey:    "app-key",
		BusAPIURL:     "http://bus.example.com/api/rest",
		BusAPIKeys:    []string{"key-a", "key-b"},
		PollInterval:  15 * time.Second,
		BoardingDelay: 8 * time.Second,
		HTTPTimeout:   time.Second,
	}
}

func TestNewWithoutBackingServices(t *testing.T) {
	e, err := New(testConfig())
	require.NoError(t, err)

	assert.Nil(t, e.Registry.Cache)
	assert.Nil(t, e.Publisher)
	assert.Nil(t, e.Resolver.Reporter)
	assert.Same(t, e.Registry, e.Stations.Registry)

	navigator := e.NewNavigator(nil)
	assert.Nil(t, navigator.Publisher)
	assert.Equal(t, 15*time.Second, navigator.RefreshRate)
	assert.Equal(t, 8*time.Second, navigator.BoardingDelay)
}

func TestNewWithRedis(t *testing.T) {
	server := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Redis.Address = server.Addr()

	e, err := New(cfg)
	require.NoError(t, err)

	assert.NotNil(t, e.Registry.Cache)
	require.NotNil(t, e.Publisher)

	navigator := e.NewNavigator(nil)
	assert.Same(t, e.Publisher, navigator.Publisher)
}
