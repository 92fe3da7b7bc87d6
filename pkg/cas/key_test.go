package cas

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "911bc2b07dd96c21ef3ab8b56ffeca4e0b8d1b74ea7667dd67eb2d037c1b4880" +
	"d3b2533035d90f84ceb326ca9f0c47bb75e0ed3e86c959ab8d687b1739677278"

func TestKey_FailsOnIncorrectSize(t *testing.T) {
	data1 := make([]byte, 63)
	data2 := make([]byte, 65)

	_, err := rand.Read(data1)
	require.NoError(t, err)
	_, err = rand.Read(data2)
	require.NoError(t, err)

	_, err = NewKey(data1)
	require.Error(t, err)
	_, err = NewKey(data2)
	require.Error(t, err)

	assert.Panics(t, func() { MustNewKey(data1) })
	assert.Panics(t, func() { MustNewKey(data2) })
}

func TestKey_Succeeds(t *testing.T) {
	data, err := hex.DecodeString(testKey)
	require.NoError(t, err)

	key, err := NewKey(data)
	require.NoError(t, err)
	assert.Equal(t, testKey, key.String())
}

func TestKey_FromString(t *testing.T) {
	key, err := KeyFromString(testKey)
	require.NoError(t, err)
	assert.Equal(t, testKey, key.String())

	_, err = KeyFromString(testKey[:10])
	require.Error(t, err)

	badHex := "zz" + testKey[2:]
	_, err = KeyFromString(badHex)
	require.Error(t, err)
}

func TestKey_FromBytes(t *testing.T) {
	k1 := KeyFromBytes([]byte("some content"))
	k2 := KeyFromBytes([]byte("some content"))
	k3 := KeyFromBytes([]byte("other content"))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1.String(), KeySizeHex)
}

func TestKey_StringWithPrefix(t *testing.T) {
	key, err := KeyFromString(testKey)
	require.NoError(t, err)

	p := key.StringWithPrefix("objects")
	assert.True(t, strings.HasPrefix(p, "objects/91/"))
	assert.Equal(t, "objects/91/"+testKey[2:], p)
}
