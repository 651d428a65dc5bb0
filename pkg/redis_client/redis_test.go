package redis_client

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/blindroute/blindroute/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)

	err := Connect(config.RedisConfig{Address: server.Addr()})
	require.NoError(t, err)

	assert.NotNil(t, QueueConnection)
	assert.NoError(t, Client.Ping(context.Background()).Err())
}

func TestConnectUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	address := server.Addr()
	server.Close()

	assert.Error(t, Connect(config.RedisConfig{Address: address}))
}
