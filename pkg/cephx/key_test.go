package cephx

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	now := time.Unix(1700000000, 123)

	key, err := NewKey(now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "AQ"), "key %q should start with AQ", key)

	raw, err := base64.StdEncoding.DecodeString(key)
	require.NoError(t, err)
	assert.Len(t, raw, EncodedSize)

	decoded, err := Decode(key)
	require.NoError(t, err)
	assert.Equal(t, keyTypeAES, decoded.Type)
	assert.True(t, now.Equal(decoded.Created))
	assert.Len(t, decoded.Secret, SecretSize)
}

func TestNewKey_Unique(t *testing.T) {
	a, err := NewKey(time.Now())
	require.NoError(t, err)
	b, err := NewKey(time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("not base64!")
	assert.Error(t, err)

	_, err = Decode(base64.StdEncoding.EncodeToString([]byte{1, 0, 0}))
	assert.Error(t, err)

	short, err := Encode(Key{Type: 1, Created: time.Unix(0, 0), Secret: make([]byte, 4)})
	require.NoError(t, err)
	raw, _ := base64.StdEncoding.DecodeString(short)
	_, err = Decode(base64.StdEncoding.EncodeToString(raw[:len(raw)-1]))
	assert.Error(t, err)
}
