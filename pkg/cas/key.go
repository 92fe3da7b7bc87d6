package cas

import (
	"encoding/hex"
	"fmt"
	"path"

	blake2b "github.com/minio/blake2b-simd"
)

const (
	// KeySize for blake2b algo
	KeySize = 64

	// KeySizeHex for the hex representation of a key
	KeySizeHex = 2 * KeySize
)

// Key type for object store keys
type Key [KeySize]byte

// NewKey creates a new key from data
func NewKey(data []byte) (Key, error) {
	var k Key
	n := copy(k[:], data)
	if n != KeySize || len(data) != KeySize {
		return Key{}, &BadKeySize{Key: data}
	}
	return k, nil
}

// MustNewKey creates a new key from data but panics if there is an error
func MustNewKey(data []byte) Key {
	k, e := NewKey(data)
	if e != nil {
		panic(e.Error())
	}
	return k
}

// KeyFromString parses a hex-encoded key
func KeyFromString(s string) (Key, error) {
	if len(s) != KeySizeHex {
		return Key{}, &BadKeySize{Key: []byte(s)}
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("%q is not a valid hex key: %v", s, err)
	}
	return NewKey(data)
}

// KeyFromBytes computes the key addressing a buffer of stored object bytes
func KeyFromBytes(data []byte) Key {
	return Key(blake2b.Sum512(data))
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// StringWithPrefix renders the fan-out storage path of a key: the first two
// hex characters become a subdirectory, git style, under the given prefix.
func (k Key) StringWithPrefix(prefix string) string {
	s := k.String()
	return path.Join(prefix, s[:2], s[2:])
}

// BadKeySize is an error that's returned when the key to create has an invalid size.
type BadKeySize struct {
	Key []byte
}

func (b *BadKeySize) Error() string {
	return fmt.Sprintf("%x has invalid size of %d, expected %d", b.Key, len(b.Key), KeySize)
}
