package flash

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

const nonceSize = 12
const versionMagic = byte('F')

var errShortCipherText = errors.New("sealed value is too short")

// sealer is AES-GCM with the nonce packed in front of the ciphertext:
// magic | nonce | ciphertext+tag
type sealer struct {
	aead cipher.AEAD
}

func newSealer(key []byte) (*sealer, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead}, nil
}

func (s *sealer) seal(aad, plainText []byte) ([]byte, error) {
	nonce, err := randomBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+nonceSize+len(plainText)+s.aead.Overhead())
	out = append(out, versionMagic)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plainText, aad), nil
}

func (s *sealer) open(aad, packed []byte) ([]byte, error) {
	if len(packed) < 1+nonceSize+s.aead.Overhead() || packed[0] != versionMagic {
		return nil, errShortCipherText
	}
	nonce := packed[1 : 1+nonceSize]
	return s.aead.Open(nil, nonce, packed[1+nonceSize:], aad)
}

func randomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}
	return value, nil
}
