package utils

import (
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomHex_Length(t *testing.T) {
	s, err := RandomHex(8)
	require.NoError(t, err)
	assert.Len(t, s, 16)
	_, err = hex.DecodeString(s)
	assert.NoError(t, err)
}

func TestRandomHex_Distinct(t *testing.T) {
	a, err := RandomHex(16)
	require.NoError(t, err)
	b, err := RandomHex(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewID_IsUUIDv7(t *testing.T) {
	id, err := uuid.Parse(NewID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
