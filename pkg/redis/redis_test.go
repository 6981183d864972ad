package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotConnected(t *testing.T) {
	SetClient(nil)

	assert.False(t, IsConnected())
	assert.Nil(t, GetClient())
	assert.NoError(t, Close())
	assert.Error(t, Ping(context.Background()))
}
