// Package aeadstream is the AEAD stream primitive the codec in
// package dscipher treats as a black box: a sealing Push side that hands
// its counterpart a header, and an opening Pull side that reconstructs
// the same keystream from that header.
//
// It is built on golang.org/x/crypto/nacl/secretbox with a randomly
// generated nonce as the header and an incrementing nonce thereafter,
// the same construction backend/crypt uses for its own file encryption
// in rclone (see the nonce type and (en|de)crypter.Read there).
package aeadstream

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// KeySize is the width of the symmetric key both sides share.
const KeySize = 32

// HeaderSize is the width of the header Push hands to Pull: a secretbox
// nonce, generated fresh for every stream.
const HeaderSize = 24

// TagSize is secretbox's fixed per-frame overhead.
const TagSize = secretbox.Overhead

// ErrAuthFailure is returned by Pull.Open when a frame fails to
// authenticate.
var ErrAuthFailure = errors.New("aeadstream: message authentication failed")

// Key is the shared symmetric key.
type Key [KeySize]byte

// nonce is a 24-byte secretbox nonce used as a little-endian counter,
// incremented once per sealed or opened frame.
type nonce [HeaderSize]byte

// fromReader fills n from a source of randomness, normally crypto/rand.
func (n *nonce) fromReader(r io.Reader) error {
	read, err := io.ReadFull(r, (*n)[:])
	if read != HeaderSize {
		return err
	}
	return nil
}

// carry adds one to n starting at byte i, propagating the carry.
func (n *nonce) carry(i int) {
	for ; i < len(*n); i++ {
		digit := (*n)[i]
		newDigit := digit + 1
		(*n)[i] = newDigit
		if newDigit >= digit {
			break
		}
	}
}

// increment moves the nonce to the next frame's value.
func (n *nonce) increment() {
	n.carry(0)
}

// Push is the sealing side of a stream, created by InitPush.
type Push struct {
	key   *Key
	nonce nonce
}

// InitPush starts a new sealing stream under key, returning the state and
// the header its Pull counterpart needs.
func InitPush(key *Key) (*Push, [HeaderSize]byte, error) {
	p := &Push{key: key}
	if err := p.nonce.fromReader(rand.Reader); err != nil {
		return nil, [HeaderSize]byte{}, err
	}
	return p, [HeaderSize]byte(p.nonce), nil
}

// Seal authenticates and encrypts one frame of plaintext, appending the
// result to dst (which may be nil).
func (p *Push) Seal(dst, plaintext []byte) []byte {
	nonceArr := (*[HeaderSize]byte)(&p.nonce)
	keyArr := (*[KeySize]byte)(p.key)
	out := secretbox.Seal(dst, plaintext, nonceArr, keyArr)
	p.nonce.increment()
	return out
}

// Pull is the opening side of a stream, created by InitPull from the
// header a Push produced.
type Pull struct {
	key   *Key
	nonce nonce
}

// InitPull reconstructs the opening state from a Push's header.
func InitPull(header [HeaderSize]byte, key *Key) *Pull {
	return &Pull{key: key, nonce: nonce(header)}
}

// Open authenticates and decrypts one ciphertext frame, appending the
// plaintext to dst (which may be nil). It returns ErrAuthFailure if the
// frame does not authenticate under the current nonce.
func (p *Pull) Open(dst, ciphertext []byte) ([]byte, error) {
	nonceArr := (*[HeaderSize]byte)(&p.nonce)
	keyArr := (*[KeySize]byte)(p.key)
	out, ok := secretbox.Open(dst, ciphertext, nonceArr, keyArr)
	if !ok {
		return nil, ErrAuthFailure
	}
	p.nonce.increment()
	return out, nil
}
