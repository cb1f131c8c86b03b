package dscipher

import (
	"errors"
	"io"

	"github.com/betagouv/ds-proxy/internal/dscipher/aeadstream"
)

// Encoder wraps a plaintext io.Reader and emits ds-proxy's container
// format: preamble, AEAD header, then a sequence of sealed frames of at
// most chunkSize plaintext bytes each. It always emits a terminal frame,
// even an empty one, so a Decoder can recognize the stream's end
// cryptographically instead of relying on transport EOF alone.
//
// Modelled on backend/crypt's encrypter, generalized to a configurable
// chunk size and the container preamble this format requires on top of
// rclone's bare nonce-prefixed file format.
type Encoder struct {
	in      io.Reader
	push    *aeadstream.Push
	readBuf []byte
	pending []byte
	done    bool
	err     error
}

// NewEncoder starts a new sealing stream over in, sealing chunkSize
// plaintext bytes per frame.
func NewEncoder(key *Key, chunkSize uint32, in io.Reader) (*Encoder, error) {
	if chunkSize == 0 || chunkSize > MaxChunkSize {
		return nil, errors.New("dscipher: chunk size must be between 1 and MaxChunkSize")
	}
	push, header, err := aeadstream.InitPush(key)
	if err != nil {
		return nil, err
	}
	pending := EncodePreamble(chunkSize)
	pending = append(pending, header[:]...)
	return &Encoder{
		in:      in,
		push:    push,
		readBuf: make([]byte, chunkSize),
		pending: pending,
	}, nil
}

// Read implements io.Reader.
func (e *Encoder) Read(p []byte) (int, error) {
	if len(e.pending) > 0 {
		n := copy(p, e.pending)
		e.pending = e.pending[n:]
		return n, nil
	}
	if e.err != nil {
		return 0, e.err
	}
	if e.done {
		return 0, io.EOF
	}

	n, rerr := readFill(e.in, e.readBuf)
	if rerr != nil && rerr != io.EOF {
		return 0, e.finish(rerr)
	}

	e.pending = e.push.Seal(nil, e.readBuf[:n])
	if rerr == io.EOF {
		e.done = true
	}

	nc := copy(p, e.pending)
	e.pending = e.pending[nc:]
	return nc, nil
}

func (e *Encoder) finish(err error) error {
	if e.err != nil {
		return e.err
	}
	e.err = err
	return err
}
