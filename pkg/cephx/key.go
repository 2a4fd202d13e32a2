// Package cephx generates secret keys in the format used by Ceph's CephX
// authentication protocol.
package cephx

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// keyTypeAES is CEPH_CRYPTO_AES, the only key type Ceph issues.
	keyTypeAES uint16 = 1

	// SecretSize is the length of the raw AES secret.
	SecretSize = 16

	headerSize = 2 + 4 + 4 + 2

	// EncodedSize is the length of a decoded key blob (header + secret).
	EncodedSize = headerSize + SecretSize
)

// Key is a decoded CephX secret.
type Key struct {
	Type    uint16
	Created time.Time
	Secret  []byte
}

// NewKey returns a fresh base64 encoded key created at now.
func NewKey(now time.Time) (string, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to read random secret: %w", err)
	}
	return Encode(Key{Type: keyTypeAES, Created: now, Secret: secret})
}

// Encode serializes k the way ceph-authtool does: little-endian type,
// creation seconds and nanoseconds, secret length, then the secret.
func Encode(k Key) (string, error) {
	if len(k.Secret) > 0xffff {
		return "", fmt.Errorf("secret too long: %d bytes", len(k.Secret))
	}

	buf := make([]byte, headerSize+len(k.Secret))
	binary.LittleEndian.PutUint16(buf[0:2], k.Type)
	binary.LittleEndian.PutUint32(buf[2:6], uint32(k.Created.Unix()))
	binary.LittleEndian.PutUint32(buf[6:10], uint32(k.Created.Nanosecond()))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(len(k.Secret)))
	copy(buf[headerSize:], k.Secret)

	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decode parses a base64 encoded key.
func Decode(s string) (*Key, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key encoding: %w", err)
	}
	if len(buf) < headerSize {
		return nil, fmt.Errorf("key too short: %d bytes", len(buf))
	}

	size := int(binary.LittleEndian.Uint16(buf[10:12]))
	if len(buf) != headerSize+size {
		return nil, fmt.Errorf("key length mismatch: header says %d, have %d", size, len(buf)-headerSize)
	}

	sec := binary.LittleEndian.Uint32(buf[2:6])
	nsec := binary.LittleEndian.Uint32(buf[6:10])

	return &Key{
		Type:    binary.LittleEndian.Uint16(buf[0:2]),
		Created: time.Unix(int64(sec), int64(nsec)),
		Secret:  append([]byte(nil), buf[headerSize:]...),
	}, nil
}
