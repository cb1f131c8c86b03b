package dscipher

import (
	"bytes"
	"encoding/binary"
)

const (
	// magicSize is the width of the fixed magic string identifying an
	// ds-proxy container, patterned on the fixed 8-byte magic rclone's
	// crypt backend prepends to encrypted file names and data.
	magicSize = 8

	// chunkSizeFieldSize is the width of the little-endian chunk-size
	// field following the magic.
	chunkSizeFieldSize = 4

	// PreambleBytes is the total width of magic || chunk_size.
	PreambleBytes = magicSize + chunkSizeFieldSize

	// MaxChunkSize bounds the chunk size a preamble may declare, guarding
	// a Decoder against allocating an unreasonably large frame buffer
	// for a hostile or corrupt container.
	MaxChunkSize = 1 << 20 // 1 MiB
)

var magic = [magicSize]byte{'D', 'S', 'P', 'R', 'O', 'X', 'Y', '1'}

// EncodePreamble renders the fixed-width preamble for a stream sealed
// with the given chunk size.
func EncodePreamble(chunkSize uint32) []byte {
	buf := make([]byte, PreambleBytes)
	copy(buf, magic[:])
	binary.LittleEndian.PutUint32(buf[magicSize:], chunkSize)
	return buf
}

// ParsePreamble inspects exactly PreambleBytes of input. It returns the
// declared chunk size on success, ErrWrongMagic if the bytes don't start
// with ds-proxy's magic (not fatal — callers fall through to Plaintext
// mode), or ErrMalformedContainer if the magic matches but the chunk
// size is zero or exceeds MaxChunkSize.
func ParsePreamble(buf []byte) (uint32, error) {
	if !bytes.Equal(buf[:magicSize], magic[:]) {
		return 0, ErrWrongMagic
	}
	chunkSize := binary.LittleEndian.Uint32(buf[magicSize:PreambleBytes])
	if chunkSize == 0 || chunkSize > MaxChunkSize {
		return 0, ErrMalformedContainer
	}
	return chunkSize, nil
}
