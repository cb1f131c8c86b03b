package dscipher

import "errors"

// Sentinel errors for the container codec. Callers should use errors.Is,
// mirroring the error style of backend/crypt/cipher.go.
var (
	// ErrInvalidSalt is returned by DeriveKey when the salt is not
	// exactly SaltSize bytes.
	ErrInvalidSalt = errors.New("dscipher: salt must be exactly SaltSize bytes")

	// ErrWrongMagic is not a fatal error: it signals that a Decoder
	// should fall through to Plaintext mode. It is exported so callers
	// of ParsePreamble can recognize the case explicitly.
	ErrWrongMagic = errors.New("dscipher: preamble magic does not match")

	// ErrMalformedContainer is returned when the preamble's magic
	// matches but its chunk-size field is zero or exceeds MaxChunkSize.
	ErrMalformedContainer = errors.New("dscipher: malformed container preamble")

	// ErrTruncatedHeader is returned when the input ends before a full
	// AEAD stream header has been read.
	ErrTruncatedHeader = errors.New("dscipher: truncated AEAD header")

	// ErrAuthFailure is returned when a ciphertext frame fails to
	// authenticate.
	ErrAuthFailure = errors.New("dscipher: frame failed to authenticate")
)
