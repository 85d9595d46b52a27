package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDimensionsSortedByName(t *testing.T) {
	dims := toDimensions(map[string]string{
		"Protocol":   "TCP",
		"InstanceId": "i-0abc123",
		"MountPath":  "/",
	})

	require.Len(t, dims, 3)
	assert.Equal(t, "InstanceId", *dims[0].Name)
	assert.Equal(t, "i-0abc123", *dims[0].Value)
	assert.Equal(t, "MountPath", *dims[1].Name)
	assert.Equal(t, "Protocol", *dims[2].Name)
}

func TestToDimensionsEmpty(t *testing.T) {
	assert.Nil(t, toDimensions(nil))
	assert.Nil(t, toDimensions(map[string]string{}))
}
