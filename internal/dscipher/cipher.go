// Package dscipher implements ds-proxy's streaming container codec: key
// derivation, the self-describing preamble, and the Encoder/Decoder pair
// that frame plaintext into authenticated chunks and back.
//
// The core algorithms follow rclone's backend/crypt/cipher.go Cipher,
// nonce, encrypter and decrypter types, generalized from rclone's fixed
// 64KiB block size to ds-proxy's configurable chunk size and from its
// file-oriented nonce convention to ds-proxy's self-describing wire
// container format.
package dscipher

import (
	"strings"

	"golang.org/x/crypto/scrypt"

	"github.com/betagouv/ds-proxy/internal/dscipher/aeadstream"
)

// SaltSize is the required width of the key-derivation salt.
const SaltSize = 32

// scrypt cost parameters, interactive class, matching rclone
// backend/crypt's Cipher.Key.
const (
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// Key is the symmetric key shared by the Encoder and Decoder sides of a
// stream.
type Key = aeadstream.Key

// DeriveKey turns a password and a salt into a symmetric key via scrypt.
// The password is trimmed of trailing whitespace before hashing; the
// salt must be exactly SaltSize bytes or ErrInvalidSalt is returned.
func DeriveKey(password string, salt []byte) (*Key, error) {
	if len(salt) != SaltSize {
		return nil, ErrInvalidSalt
	}
	trimmed := strings.TrimRight(password, " \t\r\n")
	raw, err := scrypt.Key([]byte(trimmed), salt, scryptN, scryptR, scryptP, aeadstream.KeySize)
	if err != nil {
		return nil, err
	}
	var key Key
	copy(key[:], raw)
	return &key, nil
}
