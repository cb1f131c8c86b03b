package dscipher

import "io"

// readFill reads from r into buf until buf is full or r returns an
// error, returning the number of bytes placed in buf and the first
// error encountered. Unlike io.ReadFull it passes the underlying error
// straight through instead of substituting io.ErrUnexpectedEOF for a
// short read — the caller (Encoder) needs to know exactly when the
// input ended.
//
// Modelled on rclone's lib/readers.ReadFill.
func readFill(r io.Reader, buf []byte) (n int, err error) {
	for n < len(buf) && err == nil {
		var nn int
		nn, err = r.Read(buf[n:])
		n += nn
	}
	return n, err
}
