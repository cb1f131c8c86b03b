package dscipher

import (
	"bytes"
	"errors"
	"io"

	"github.com/betagouv/ds-proxy/internal/dscipher/aeadstream"
)

// readAhead bounds how much of the wrapped reader we pull in per
// underlying Read call, in every mode.
const readAhead = 32 * 1024

// DecoderMode is the Decoder's mode-decision state, resolved once from
// Unknown on the first bytes of input.
type DecoderMode int

const (
	// ModeUnknown is the Decoder's initial state, before enough bytes
	// have arrived to sniff the preamble.
	ModeUnknown DecoderMode = iota
	// ModeEncrypted means the preamble matched; the Decoder's chunkSize
	// field holds the plaintext chunk size the preamble declared.
	ModeEncrypted
	// ModePlaintext means the preamble's magic didn't match: the
	// Decoder passes all bytes through unchanged.
	ModePlaintext
)

// Decoder wraps a possibly-encrypted io.Reader. It starts in ModeUnknown,
// resolves to ModeEncrypted or ModePlaintext on the first bytes it sees,
// and from then on either re-chunks and opens AEAD frames or passes
// bytes straight through.
//
// Modelled on backend/crypt's decrypter, generalized with the mode
// sniffing and plaintext-passthrough behaviour this container format
// requires that a bare rclone-style file decryptor doesn't need.
type Decoder struct {
	key       *Key
	in        io.Reader
	mode      DecoderMode
	chunkSize uint32
	pull      *aeadstream.Pull

	buf        bytes.Buffer
	inputEnded bool
	pending    []byte
	err        error
}

// NewDecoder wraps in, ready to sniff its mode on the first Read.
func NewDecoder(key *Key, in io.Reader) *Decoder {
	return &Decoder{key: key, in: in, mode: ModeUnknown}
}

// NewDecoderResume builds a Decoder whose mode has already been decided
// by an outer layer that peeked at the prefix of in — initialBuffer
// holds whatever bytes that layer consumed but didn't act on, and is
// replayed before any further reads of in.
func NewDecoderResume(key *Key, in io.Reader, mode DecoderMode, chunkSize uint32, initialBuffer []byte) *Decoder {
	d := &Decoder{key: key, in: in, mode: mode, chunkSize: chunkSize}
	d.buf.Write(initialBuffer)
	return d
}

// Read implements io.Reader.
func (d *Decoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		n := copy(p, d.pending)
		d.pending = d.pending[n:]
		return n, nil
	}
	if d.err != nil {
		return 0, d.err
	}

	out, err := d.fill()
	if err != nil {
		return 0, d.finish(err)
	}

	n := copy(p, out)
	if n < len(out) {
		d.pending = out[n:]
	}
	return n, nil
}

func (d *Decoder) finish(err error) error {
	if d.err != nil {
		return d.err
	}
	d.err = err
	return err
}

// readMore pulls more bytes from the wrapped reader into d.buf. An
// io.EOF from the wrapped reader is not an error here: it just marks
// d.inputEnded so the state machine can decide what to do with whatever
// was buffered.
func (d *Decoder) readMore() error {
	tmp := make([]byte, readAhead)
	n, err := d.in.Read(tmp)
	if n > 0 {
		d.buf.Write(tmp[:n])
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.inputEnded = true
			return nil
		}
		return err
	}
	return nil
}

// fill advances the state machine until it has a non-empty plaintext
// chunk to return, or a terminal io.EOF / error.
func (d *Decoder) fill() ([]byte, error) {
	for {
		if d.buf.Len() == 0 && d.inputEnded && d.mode != ModeEncrypted {
			return nil, io.EOF
		}

		switch d.mode {
		case ModeUnknown:
			if d.buf.Len() >= PreambleBytes {
				chunkSize, err := ParsePreamble(d.buf.Bytes()[:PreambleBytes])
				switch {
				case err == nil:
					d.buf.Next(PreambleBytes)
					d.mode = ModeEncrypted
					d.chunkSize = chunkSize
					continue
				case errors.Is(err, ErrWrongMagic):
					d.mode = ModePlaintext
					continue
				default:
					return nil, err
				}
			}
			if d.inputEnded {
				d.mode = ModePlaintext
				continue
			}
			if err := d.readMore(); err != nil {
				return nil, err
			}

		case ModePlaintext:
			if d.buf.Len() > 0 {
				out := make([]byte, d.buf.Len())
				copy(out, d.buf.Bytes())
				d.buf.Reset()
				return out, nil
			}
			if d.inputEnded {
				return nil, io.EOF
			}
			if err := d.readMore(); err != nil {
				return nil, err
			}

		case ModeEncrypted:
			return d.fillEncrypted()
		}
	}
}

// fillEncrypted implements the Encrypted-mode part of the state machine:
// establish the AEAD stream from its header, then repeatedly re-chunk
// the buffered ciphertext into frame-sized pieces and open them.
func (d *Decoder) fillEncrypted() ([]byte, error) {
	for {
		if d.pull == nil {
			if d.buf.Len() >= aeadstream.HeaderSize {
				var header [aeadstream.HeaderSize]byte
				copy(header[:], d.buf.Next(aeadstream.HeaderSize))
				d.pull = aeadstream.InitPull(header, d.key)
				continue
			}
			if d.inputEnded {
				return nil, ErrTruncatedHeader
			}
			if err := d.readMore(); err != nil {
				return nil, err
			}
			continue
		}

		frameSize := int(d.chunkSize) + aeadstream.TagSize

		var out []byte
		for d.buf.Len() >= frameSize {
			frame := d.buf.Next(frameSize)
			pt, err := d.pull.Open(nil, frame)
			if err != nil {
				d.finish(ErrAuthFailure)
				if len(out) > 0 {
					return out, nil
				}
				return nil, ErrAuthFailure
			}
			out = append(out, pt...)
		}
		if len(out) > 0 {
			return out, nil
		}

		if d.inputEnded {
			if d.buf.Len() == 0 {
				return nil, io.EOF
			}
			tail := d.buf.Next(d.buf.Len())
			pt, err := d.pull.Open(nil, tail)
			if err != nil {
				return nil, ErrAuthFailure
			}
			return pt, nil
		}

		if err := d.readMore(); err != nil {
			return nil, err
		}
	}
}
